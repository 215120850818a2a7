// internal/logging/logging.go

// Package logging 建立 cmd/* 共用的 logfmt logger。
package logging

import (
	"io"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// New 回傳寫入 w 的 logfmt logger，附帶 UTC 時間與呼叫位置，只輸出 lvl 以上的等級。
// 無法辨識的等級視為 debug。
//
// caller 必須綁在最外層：level.Info(logger) 會把同一層 context 攤平，
// 呼叫深度才會落在使用端。
func New(w io.Writer, lvl string) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = level.NewFilter(logger, Option(lvl))
	return log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
}

// Option 將等級名稱轉為 level 過濾選項。
func Option(lvl string) level.Option {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "error":
		return level.AllowError()
	case "warn", "warning":
		return level.AllowWarn()
	case "info":
		return level.AllowInfo()
	case "none":
		return level.AllowNone()
	default:
		return level.AllowDebug()
	}
}
