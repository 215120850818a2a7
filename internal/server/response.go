// internal/server/response.go
//
// 統一的 JSON 回應格式與錯誤到 HTTP 狀態碼的對應。
package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bankapp/internal/bank"
	"bankapp/internal/ledger"
	"bankapp/internal/money"
	"bankapp/internal/storage"
)

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// errBadRequest 標記無法解析的請求內容。
var errBadRequest = errors.New("bad request")

type transactionView struct {
	Date   string      `json:"date"`
	Amount money.Money `json:"amount"`
	Kind   string      `json:"kind"`
}

func viewTransactions(txs []ledger.Transaction) []transactionView {
	out := make([]transactionView, 0, len(txs))
	for _, tx := range txs {
		out = append(out, transactionView{Date: tx.Date().String(), Amount: tx.Amount(), Kind: tx.Kind().String()})
	}
	return out
}

// classify 回傳錯誤對應的狀態碼與種類名稱。
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, bank.ErrAccountNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, storage.ErrNoSnapshot):
		return http.StatusNotFound, "no_snapshot"
	case errors.Is(err, money.ErrInvalidAmount):
		return http.StatusBadRequest, "invalid_amount"
	case errors.Is(err, ledger.ErrInvalidDate):
		return http.StatusBadRequest, "invalid_date"
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ledger.ErrOverdrawn):
		return http.StatusConflict, "overdrawn"
	case errors.Is(err, ledger.ErrOutOfOrderDate):
		return http.StatusConflict, "out_of_order"
	case errors.Is(err, ledger.ErrAlreadyAssessed):
		return http.StatusConflict, "already_assessed"
	case errors.Is(err, ledger.ErrDailyLimitExceeded):
		return http.StatusConflict, "daily_limit"
	case errors.Is(err, ledger.ErrMonthlyLimitExceeded):
		return http.StatusConflict, "monthly_limit"
	case errors.Is(err, ledger.ErrEmptyLedger):
		return http.StatusConflict, "empty_ledger"
	}
	return http.StatusInternalServerError, "internal"
}

// writeErr 統一輸出錯誤回應 {"error": ..., "kind": ...}。
func writeErr(c *gin.Context, err error) {
	code, kind := classify(err)
	c.JSON(code, errorBody{Error: err.Error(), Kind: kind})
}
