// cmd/bank/main.go

// 互動式選單版本。操作日誌寫入 bank.log（可由 BANK_LOG_FILE 或 -log 變更），
// 任何未預期的錯誤只顯示一行道歉訊息，細節記在日誌中。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"bankapp/internal/bank"
	"bankapp/internal/cli"
	"bankapp/internal/config"
	"bankapp/internal/logging"
	"bankapp/internal/service"
	"bankapp/internal/storage"
)

const sorry = "Sorry! Something unexpected happened. Check the logs or contact the developer for assistance."

func main() {
	os.Exit(run())
}

func run() (code int) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	flag.StringVar(&cfg.Storage.Backend, "storage", cfg.Storage.Backend, "snapshot backend: json, sqlite or mongo")
	flag.StringVar(&cfg.Storage.Path, "data", cfg.Storage.Path, "json file or sqlite database")
	flag.StringVar(&cfg.LogFile, "log", cfg.LogFile, "operational log file (empty for stderr)")
	flag.BoolVar(&cfg.AutoLoad, "load", cfg.AutoLoad, "load the last snapshot on start")
	flag.Parse()

	var w io.Writer = os.Stderr
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		defer f.Close()
		w = f
	}
	logger := logging.New(w, cfg.LogLevel)

	defer func() {
		if r := recover(); r != nil {
			fmt.Println(sorry)
			level.Error(logger).Log("err", fmt.Sprintf("panic: %v", r))
			code = 1
		}
	}()

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return fail(logger, err)
	}
	defer store.Close()

	var svc service.Service
	svc = service.NewService(bank.NewBank(), store)
	svc = service.NewLoggingService(log.With(logger, "component", "service"), svc)

	if cfg.AutoLoad {
		if _, err := svc.Load(ctx); err != nil && !errors.Is(err, storage.ErrNoSnapshot) {
			return fail(logger, err)
		}
	}

	if err := cli.New(svc, os.Stdin, os.Stdout).Run(ctx); err != nil {
		return fail(logger, err)
	}
	return 0
}

// fail 顯示道歉訊息並以 "型別: '訊息'" 的格式記錄錯誤。
func fail(logger log.Logger, err error) int {
	fmt.Println(sorry)
	level.Error(logger).Log("err", fmt.Sprintf("%T: %q", err, err.Error()))
	return 1
}
