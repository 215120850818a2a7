// internal/ledger/policy.go

package ledger

import (
	"github.com/shopspring/decimal"

	"bankapp/internal/money"
)

var (
	// CheckingRate 為 Checking 每期利率 0.08%。
	CheckingRate = decimal.RequireFromString("0.0008")
	// SavingsRate 為 Savings 每期利率 0.41%。
	SavingsRate = decimal.RequireFromString("0.0041")
	// CheckingFee 為 Checking 低餘額月費。
	CheckingFee = money.New(-544)
	// CheckingFeeThreshold 為收取月費的餘額門檻（低於此值才收）。
	CheckingFeeThreshold = money.New(10000)
)

const (
	// SavingsMonthlyLimit 為 Savings 每月一般交易上限。
	SavingsMonthlyLimit = 5
	// SavingsDailyLimit 為 Savings 每日一般交易上限。
	SavingsDailyLimit = 2
)

// policy 為帳戶種類的差異點，由 Ledger 的共用流程呼叫。
type policy interface {
	rate() decimal.Decimal
	// admit 在共用檢查通過後、入帳前執行種類專屬的檢查。
	admit(history []Transaction, tx Transaction) error
	// recorded 在交易入帳後更新種類專屬狀態。
	recorded(tx Transaction)
	// beginAssessment 在每次結算開始時以目前月份重置狀態。
	beginAssessment(now Period)
	// assessed 在某類結算成功入帳後呼叫。
	assessed(kind Kind, now Period)
	// assessFees 在利息之後嘗試入帳手續費。
	assessFees(l *Ledger, date Date, now Period) error
}

func newPolicy(v Variant) policy {
	if v == Savings {
		return savings{}
	}
	return &checking{}
}

// CheckingState 為 Checking 的結算旗標，需隨帳本一起持久化。
type CheckingState struct {
	InterestApplied bool
	FeesApplied     bool
	LastInterest    *Period
	LastFees        *Period
}

// checking 以記憶體中的旗標阻擋重複結算：
// 入帳一般交易會清除兩個旗標；結算時若目前月份與上次入帳月份不同，也會清除對應旗標。
type checking struct {
	interestApplied bool
	feesApplied     bool
	lastInterest    *Period
	lastFees        *Period
}

func (c *checking) rate() decimal.Decimal { return CheckingRate }

func (c *checking) admit(_ []Transaction, tx Transaction) error {
	switch {
	case tx.kind == Interest && c.interestApplied,
		tx.kind == Fee && c.feesApplied:
		return &AlreadyAssessedError{Kind: tx.kind, Period: tx.date.Period()}
	}
	return nil
}

func (c *checking) recorded(tx Transaction) {
	switch tx.kind {
	case Normal:
		c.interestApplied = false
		c.feesApplied = false
	case Interest:
		c.interestApplied = true
	case Fee:
		c.feesApplied = true
	}
}

func (c *checking) beginAssessment(now Period) {
	if c.lastInterest == nil || *c.lastInterest != now {
		c.interestApplied = false
	}
	if c.lastFees == nil || *c.lastFees != now {
		c.feesApplied = false
	}
}

func (c *checking) assessed(kind Kind, now Period) {
	p := now
	switch kind {
	case Interest:
		c.lastInterest = &p
	case Fee:
		c.lastFees = &p
	}
}

func (c *checking) assessFees(l *Ledger, date Date, now Period) error {
	if !l.balance.LessThan(CheckingFeeThreshold) {
		return nil
	}
	if err := l.Record(CheckingFee, date, Fee); err != nil {
		return err
	}
	c.assessed(Fee, now)
	return nil
}

func (c *checking) state() CheckingState {
	return CheckingState{
		InterestApplied: c.interestApplied,
		FeesApplied:     c.feesApplied,
		LastInterest:    clonePeriod(c.lastInterest),
		LastFees:        clonePeriod(c.lastFees),
	}
}

func (c *checking) restore(s CheckingState) {
	c.interestApplied = s.InterestApplied
	c.feesApplied = s.FeesApplied
	c.lastInterest = clonePeriod(s.LastInterest)
	c.lastFees = clonePeriod(s.LastFees)
}

func clonePeriod(p *Period) *Period {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

// savings 沒有額外狀態，重複結算完全由交易歷史判斷；
// 另限制一般交易每月最多 5 筆、每日最多 2 筆。
type savings struct{}

func (savings) rate() decimal.Decimal  { return SavingsRate }
func (savings) recorded(Transaction)   {}
func (savings) beginAssessment(Period) {}
func (savings) assessed(Kind, Period)  {}

func (savings) assessFees(*Ledger, Date, Period) error { return nil }

// admit 依歷史順序線性掃描一般交易，計數不含本筆；
// 本筆會成為當月第 6 筆或當日第 3 筆時拒絕。
func (savings) admit(history []Transaction, tx Transaction) error {
	if tx.kind == Interest {
		return nil
	}
	months, days := 0, 0
	for _, h := range history {
		if h.kind != Normal || !h.SameMonth(tx) {
			continue
		}
		months++
		if h.SameDay(tx) {
			days++
		}
		if months >= SavingsMonthlyLimit {
			return ErrMonthlyLimitExceeded
		}
		if days >= SavingsDailyLimit {
			return ErrDailyLimitExceeded
		}
	}
	return nil
}
