// internal/cli/messages.go

package cli

import (
	"errors"
	"fmt"

	"bankapp/internal/ledger"
)

// report 為 err 中每個規則錯誤印出對應訊息（月結錯誤可能是合併後的），
// 並回傳無法解釋的其餘錯誤。
func (c *CLI) report(err error) error {
	var rest []error
	seen := make(map[string]bool)
	for _, e := range flatten(err) {
		msg, ok := message(e)
		if !ok {
			rest = append(rest, e)
			continue
		}
		if !seen[msg] {
			seen[msg] = true
			fmt.Fprintln(c.out, msg)
		}
	}
	return errors.Join(rest...)
}

func flatten(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range j.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []error{err}
}

func message(err error) (string, bool) {
	var ooo *ledger.OutOfOrderError
	var assessed *ledger.AlreadyAssessedError
	switch {
	case errors.Is(err, ledger.ErrOverdrawn):
		return "This transaction could not be completed due to an insufficient account balance.", true
	case errors.As(err, &ooo):
		return fmt.Sprintf("New transactions must be from %s onward.", ooo.Latest), true
	case errors.Is(err, ledger.ErrDailyLimitExceeded):
		return fmt.Sprintf("This transaction could not be completed because this account already has %d transactions in this day.", ledger.SavingsDailyLimit), true
	case errors.Is(err, ledger.ErrMonthlyLimitExceeded):
		return fmt.Sprintf("This transaction could not be completed because this account already has %d transactions in this month.", ledger.SavingsMonthlyLimit), true
	case errors.As(err, &assessed):
		return fmt.Sprintf("Cannot apply interest and fees again in the month of %s.", assessed.Period.Month), true
	case errors.Is(err, ledger.ErrEmptyLedger):
		return "This account has no transactions to assess interest and fees on.", true
	}
	return "", false
}
