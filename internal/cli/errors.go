// internal/cli/errors.go

package cli

import "errors"

var (
	// ErrAccountNotSelected 表示需要選取帳戶的指令在未選取時被執行。
	ErrAccountNotSelected = errors.New("no account selected")

	// errQuit 結束選單迴圈（選擇離開或輸入結束）。
	errQuit = errors.New("quit")
)
