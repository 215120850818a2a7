// internal/bank/account.go
//
// Account 為帳戶對外的唯讀檢視，不含任何 HTTP 或儲存細節。

package bank

import (
	"fmt"

	"bankapp/internal/ledger"
	"bankapp/internal/money"
)

// Account 為某一時刻的帳戶摘要。
type Account struct {
	ID           string      `json:"id"`
	Type         string      `json:"type"`
	Balance      money.Money `json:"balance"`
	Transactions int         `json:"transactions"`
}

// String 格式如 "Checking#000000001,\tbalance: $1,000.80"。
func (a Account) String() string {
	return fmt.Sprintf("%s,\tbalance: %s", a.ID, a.Balance)
}

func viewOf(l *ledger.Ledger) Account {
	return Account{
		ID:           l.ID(),
		Type:         l.Variant().String(),
		Balance:      l.Balance(),
		Transactions: l.Len(),
	}
}

// SummaryLine 回傳帳本的一行摘要，與 Account.String 相同格式。
func SummaryLine(l *ledger.Ledger) string {
	return viewOf(l).String()
}
