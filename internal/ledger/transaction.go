// internal/ledger/transaction.go

package ledger

import (
	"fmt"
	"strings"

	"bankapp/internal/money"
)

// Kind 為交易分類，三者互斥。
type Kind int

const (
	Normal Kind = iota
	Interest
	Fee
)

func (k Kind) String() string {
	switch k {
	case Normal:
		return "normal"
	case Interest:
		return "interest"
	case Fee:
		return "fee"
	default:
		return "unknown"
	}
}

// ParseKind 為 Kind.String 的反向操作。
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal", "":
		return Normal, nil
	case "interest":
		return Interest, nil
	case "fee":
		return Fee, nil
	}
	return Normal, fmt.Errorf("unknown transaction kind %q", s)
}

// Transaction 為一筆不可變的交易紀錄。
// 金額為帶號值：負數為提款或手續費，正數為存款或利息。
type Transaction struct {
	amount money.Money
	date   Date
	kind   Kind
	seq    int
}

// NewTransaction 以日期字串建立交易；日期格式錯誤時回傳 ErrInvalidDate。
// seq 由帳本在入帳時指定，此處建立的交易尚未屬於任何帳本。
func NewTransaction(amount money.Money, date string, kind Kind) (Transaction, error) {
	d, err := ParseDate(date)
	if err != nil {
		return Transaction{}, err
	}
	return Transaction{amount: amount, date: d, kind: kind}, nil
}

func (t Transaction) Amount() money.Money { return t.amount }
func (t Transaction) Date() Date          { return t.date }
func (t Transaction) Kind() Kind          { return t.kind }

// Seq 為交易在帳本中的插入順序（從 0 開始）。
func (t Transaction) Seq() int { return t.seq }

func (t Transaction) SameDay(o Transaction) bool {
	return t.date == o.date
}

func (t Transaction) SameMonth(o Transaction) bool {
	return t.date.Period() == o.date.Period()
}

// Less 依 (日期, 插入順序) 排序。
func (t Transaction) Less(o Transaction) bool {
	if c := t.date.Compare(o.date); c != 0 {
		return c < 0
	}
	return t.seq < o.seq
}

// String 格式如 "2024-01-10, $1,000.00"。
func (t Transaction) String() string {
	return fmt.Sprintf("%s, %s", t.date, t.amount)
}
