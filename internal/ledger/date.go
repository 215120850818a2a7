// internal/ledger/date.go

package ledger

import (
	"fmt"
	"time"
)

// DateLayout 為交易日期唯一接受的格式。
const DateLayout = "2006-01-02"

// Date 為不含時間的日曆日期。
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate 以嚴格的 YYYY-MM-DD 解析日期；月份與日皆須為兩位數且實際存在。
func ParseDate(s string) (Date, error) {
	if len(s) != len(DateLayout) {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// MustParseDate 同 ParseDate，失敗時 panic；僅供測試使用。
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DateOf 取 t 的年月日。
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Compare 回傳 -1、0 或 1。
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int(d.Month), int(o.Month))
	default:
		return cmpInt(d.Day, o.Day)
	}
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }

// Period 回傳日期所屬的月份。
func (d Date) Period() Period {
	return Period{Year: d.Year, Month: d.Month}
}

// EndOfMonth 回傳同月最後一天。二月固定為 28 日，不處理閏年。
func (d Date) EndOfMonth() Date {
	return Date{Year: d.Year, Month: d.Month, Day: daysIn(d.Month)}
}

func daysIn(m time.Month) int {
	switch m {
	case time.February:
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Period 為年 + 月，用來限制每月一次的利息與手續費。
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf 取 t 的年月。
func PeriodOf(t time.Time) Period {
	return DateOf(t).Period()
}

func (p Period) String() string {
	return fmt.Sprintf("%s %d", p.Month, p.Year)
}
