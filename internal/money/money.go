// internal/money/money.go

// Package money 提供以分為精度的定點金額型別。
// 所有運算結果皆四捨五入（half up）至小數點後兩位，底層為 shopspring/decimal，
// 不使用二進位浮點數。
package money

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// places 為金額固定的小數位數。
const places = 2

// Money 為不可變的金額值；零值即 $0.00。
type Money struct {
	d decimal.Decimal
}

// Zero 為 $0.00。
var Zero = Money{}

// New 由整數「分」建立金額，例如 New(123456) 代表 $1,234.56。
func New(cents int64) Money {
	return Money{d: decimal.New(cents, -places)}
}

// FromDecimal 將任意精度的 decimal 四捨五入至分。
func FromDecimal(d decimal.Decimal) Money {
	return Money{d: d.Round(places)}
}

// Parse 解析金額字串。可接受顯示格式（"$1,234.56"、"$-5.44"、"-$5.44"）
// 與一般數字（"12.5"）。非數字輸入回傳 ErrInvalidAmount。
func Parse(s string) (Money, error) {
	raw := s
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "-$") {
		neg = true
		s = s[2:]
	}
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	if neg {
		d = d.Neg()
	}
	return FromDecimal(d), nil
}

// MustParse 同 Parse，但解析失敗時 panic；僅供常數與測試使用。
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Add 回傳 a + b。
func (m Money) Add(o Money) Money {
	return FromDecimal(m.d.Add(o.d))
}

// Neg 回傳 -m。
func (m Money) Neg() Money {
	return FromDecimal(m.d.Neg())
}

// MulRate 回傳 m × rate，四捨五入至分。
func (m Money) MulRate(rate decimal.Decimal) Money {
	return FromDecimal(m.d.Mul(rate))
}

// Cmp 比較兩筆金額：m < o 回傳 -1，相等回傳 0，m > o 回傳 1。
func (m Money) Cmp(o Money) int {
	return m.d.Cmp(o.d)
}

func (m Money) Equal(o Money) bool    { return m.Cmp(o) == 0 }
func (m Money) LessThan(o Money) bool { return m.Cmp(o) < 0 }
func (m Money) IsNegative() bool      { return m.d.IsNegative() }
func (m Money) IsZero() bool          { return m.d.IsZero() }

// Decimal 回傳底層 decimal 值。
func (m Money) Decimal() decimal.Decimal { return m.d }

// Cents 回傳以分為單位的整數值。
func (m Money) Cents() int64 {
	return m.d.Shift(places).IntPart()
}

// Plain 回傳不含貨幣符號與千分位的字串，例如 "-1234.56"。
func (m Money) Plain() string {
	return m.d.StringFixed(places)
}

// String 回傳顯示格式，例如 "$1,234.56"；負數為 "$-5.44"。
func (m Money) String() string {
	plain := m.Plain()
	sign := ""
	if strings.HasPrefix(plain, "-") {
		sign = "-"
		plain = plain[1:]
	}
	intPart, frac, _ := strings.Cut(plain, ".")
	return "$" + sign + group(intPart) + "." + frac
}

// group 為整數部分加上千分位逗號。
func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// MarshalText 以 Plain 格式輸出，供 JSON/BSON 與 storage 使用。
func (m Money) MarshalText() ([]byte, error) {
	return []byte(m.Plain()), nil
}

func (m *Money) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// UnmarshalJSON 同時接受 JSON 字串（"12.50"）與數字（12.5）；null 不改變原值。
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidAmount, err)
		}
		return m.UnmarshalText([]byte(s))
	}
	return m.UnmarshalText(data)
}
