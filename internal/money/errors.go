package money

import "errors"

// ErrInvalidAmount 代表輸入無法解析為金額。
var ErrInvalidAmount = errors.New("invalid amount")
