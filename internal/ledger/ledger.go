// internal/ledger/ledger.go

// Package ledger 是帳戶核心：每個 Ledger 擁有依時間排序的交易歷史與快取餘額，
// 並負責所有入帳規則（日期順序、透支、每月一次的利息/手續費、Savings 交易次數上限）。
//
// 兩種帳戶（Checking、Savings）共用同一條驗證流程，差異集中在 policy。
// 本套件不做任何 I/O 與日誌輸出，單一 Ledger 不可同時被多個 goroutine 使用。
package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"bankapp/internal/money"
)

// Clock 提供「現在」的時間，Checking 以此判斷是否進入新的月份。
type Clock interface {
	Now() time.Time
}

// ClockFunc 讓一般函式滿足 Clock。
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock 為實際的牆上時鐘。
var SystemClock Clock = ClockFunc(time.Now)

// Variant 為帳戶種類。
type Variant int

const (
	Checking Variant = iota
	Savings
)

func (v Variant) String() string {
	switch v {
	case Checking:
		return "Checking"
	case Savings:
		return "Savings"
	default:
		return "Unknown"
	}
}

// ParseVariant 接受 "checking" / "savings"（不分大小寫）。
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "checking":
		return Checking, nil
	case "savings":
		return Savings, nil
	}
	return 0, fmt.Errorf("unknown account type %q", s)
}

// Ledger 為單一帳戶的餘額與交易歷史。
// 不變式：balance 永遠等於 history 所有金額之和；history 依日期非遞減。
type Ledger struct {
	id      string
	variant Variant
	balance money.Money
	history []Transaction
	policy  policy
	clock   Clock
}

// New 建立空帳本。clock 為 nil 時使用 SystemClock。
func New(id string, v Variant, clock Clock) *Ledger {
	if clock == nil {
		clock = SystemClock
	}
	return &Ledger{id: id, variant: v, policy: newPolicy(v), clock: clock}
}

func (l *Ledger) ID() string           { return l.id }
func (l *Ledger) Variant() Variant     { return l.variant }
func (l *Ledger) Balance() money.Money { return l.balance }
func (l *Ledger) Len() int             { return len(l.history) }

// Transactions 回傳依 (日期, 插入順序) 排序的交易副本。
func (l *Ledger) Transactions() []Transaction {
	out := make([]Transaction, len(l.history))
	copy(out, l.history)
	return out
}

// Latest 回傳日期最晚的交易（同日取最後插入者）。
func (l *Ledger) Latest() (Transaction, bool) {
	if len(l.history) == 0 {
		return Transaction{}, false
	}
	latest := l.history[0]
	for _, tx := range l.history[1:] {
		if !tx.Less(latest) {
			latest = tx
		}
	}
	return latest, true
}

// Record 驗證並入帳一筆交易。檢查順序：
//  1. 日期不得早於現有最晚日期（同日允許，排在既有交易之後）
//  2. 透支（利息除外）
//  3. 同月份同類型的利息/手續費只能一筆
//  4. 帳戶種類的額外限制（Checking 旗標、Savings 次數上限）
//
// 任一檢查失敗時帳本不變。
func (l *Ledger) Record(amount money.Money, date Date, kind Kind) error {
	tx := Transaction{amount: amount, date: date, kind: kind, seq: len(l.history)}

	if latest, ok := l.Latest(); ok && date.Before(latest.date) {
		return &OutOfOrderError{Latest: latest.date}
	}
	if kind != Interest && amount.LessThan(l.balance.Neg()) {
		return ErrOverdrawn
	}
	if kind == Interest || kind == Fee {
		for _, h := range l.history {
			if h.kind == kind && h.SameMonth(tx) {
				return &AlreadyAssessedError{Kind: kind, Period: date.Period()}
			}
		}
	}
	if err := l.policy.admit(l.history, tx); err != nil {
		return err
	}

	l.history = append(l.history, tx)
	l.balance = l.balance.Add(amount)
	l.policy.recorded(tx)
	return nil
}

// AssessInterestAndFees 以「最新交易所在月份的最後一天」入帳利息，
// Checking 另在餘額低於門檻時入帳手續費。
// 利息與手續費互相獨立：兩者都會嘗試，回傳的錯誤為兩者失敗原因的合併。
func (l *Ledger) AssessInterestAndFees() error {
	latest, ok := l.Latest()
	if !ok {
		return ErrEmptyLedger
	}
	now := PeriodOf(l.clock.Now())
	l.policy.beginAssessment(now)

	date := latest.date.EndOfMonth()
	interestErr := l.Record(l.balance.MulRate(l.policy.rate()), date, Interest)
	if interestErr == nil {
		l.policy.assessed(Interest, now)
	}
	return errors.Join(interestErr, l.policy.assessFees(l, date, now))
}

// Restore 由持久化資料重建帳本，不重新套用入帳規則，
// 但會驗證日期順序並由歷史重新計算餘額。
func Restore(id string, v Variant, clock Clock, history []Transaction, state *CheckingState) (*Ledger, error) {
	l := New(id, v, clock)
	for i, tx := range history {
		if latest, ok := l.Latest(); ok && tx.date.Before(latest.date) {
			return nil, fmt.Errorf("restore %s: transaction %d: %w", id, i, &OutOfOrderError{Latest: latest.date})
		}
		tx.seq = i
		l.history = append(l.history, tx)
		l.balance = l.balance.Add(tx.amount)
	}
	if c, ok := l.policy.(*checking); ok && state != nil {
		c.restore(*state)
	}
	return l, nil
}

// CheckingState 回傳 Checking 帳戶的旗標狀態；Savings 回傳 false。
func (l *Ledger) CheckingState() (CheckingState, bool) {
	c, ok := l.policy.(*checking)
	if !ok {
		return CheckingState{}, false
	}
	return c.state(), true
}
