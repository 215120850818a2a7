// internal/bank/errors.go
//
// Bank 層級的領域錯誤。帳本規則錯誤（透支、日期順序、重複結算、次數上限）定義於 ledger 套件，
// 此處只處理「找不到帳戶」與「快照內容不一致」兩類。

package bank

import "errors"

var (
	// ErrAccountNotFound 代表帳戶不存在。
	// 對應 HTTP 狀態碼 404 Not Found。
	ErrAccountNotFound = errors.New("account not found")

	// ErrCorruptSnapshot 代表快照內容無法還原（欄位格式錯誤或餘額與交易不符）。
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)
