// internal/ledger/errors.go
//
// 帳本層的領域錯誤。呼叫端以 errors.Is / errors.As 判斷種類，
// 被拒絕的操作不會改變帳本狀態。

package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDate 代表日期不符合 YYYY-MM-DD。
	ErrInvalidDate = errors.New("invalid date")

	// ErrOverdrawn 代表交易會使餘額變成負數。
	ErrOverdrawn = errors.New("insufficient balance")

	// ErrOutOfOrderDate 代表交易日期早於帳本中最晚的日期。
	// 實際回傳的是 *OutOfOrderError。
	ErrOutOfOrderDate = errors.New("transaction date out of order")

	// ErrAlreadyAssessed 代表該月份已入帳過同類型的利息或手續費。
	// 實際回傳的是 *AlreadyAssessedError。
	ErrAlreadyAssessed = errors.New("already assessed for this month")

	// ErrDailyLimitExceeded 代表 Savings 當日一般交易已達上限。
	ErrDailyLimitExceeded = errors.New("daily transaction limit exceeded")

	// ErrMonthlyLimitExceeded 代表 Savings 當月一般交易已達上限。
	ErrMonthlyLimitExceeded = errors.New("monthly transaction limit exceeded")

	// ErrEmptyLedger 代表帳本沒有任何交易，無法推導結算月份。
	ErrEmptyLedger = errors.New("ledger has no transactions")
)

// OutOfOrderError 帶出目前最晚的交易日期。
type OutOfOrderError struct {
	Latest Date
}

func (e *OutOfOrderError) Error() string {
	return fmt.Sprintf("new transactions must be from %s onward", e.Latest)
}

func (e *OutOfOrderError) Unwrap() error { return ErrOutOfOrderDate }

// AlreadyAssessedError 帶出衝突的月份與入帳類型。
type AlreadyAssessedError struct {
	Kind   Kind
	Period Period
}

func (e *AlreadyAssessedError) Error() string {
	return fmt.Sprintf("%s already assessed for %s", e.Kind, e.Period)
}

func (e *AlreadyAssessedError) Unwrap() error { return ErrAlreadyAssessed }
