// cmd/server/main.go

// HTTP 版本：啟動時載入最後一次快照，每次成功變更後存檔，
// 收到 SIGINT/SIGTERM 時先存檔再優雅關閉。

package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"bankapp/internal/bank"
	"bankapp/internal/config"
	"bankapp/internal/logging"
	"bankapp/internal/server"
	"bankapp/internal/service"
	"bankapp/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New(os.Stderr, "error").Log("err", err)
		os.Exit(2)
	}
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	flag.StringVar(&cfg.Storage.Backend, "storage", cfg.Storage.Backend, "snapshot backend: json, sqlite or mongo")
	flag.StringVar(&cfg.Storage.Path, "data", cfg.Storage.Path, "json file or sqlite database")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flag.Parse()

	logger := logging.New(os.Stderr, cfg.LogLevel)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		level.Error(logger).Log("msg", "open storage", "backend", cfg.Storage.Backend, "err", err)
		os.Exit(1)
	}
	defer store.Close()

	var svc service.Service
	svc = service.NewService(bank.NewBank(), store)
	svc = service.NewLoggingService(log.With(logger, "component", "service"), svc)

	// 嘗試從上次的快照載入資料，若不存在則以空銀行啟動
	if cfg.AutoLoad {
		if _, err := svc.Load(ctx); err != nil && !errors.Is(err, storage.ErrNoSnapshot) {
			level.Error(logger).Log("msg", "load snapshot", "err", err)
			os.Exit(1)
		}
	}

	persist := func(ctx context.Context) error {
		_, err := svc.Save(ctx)
		return err
	}
	s := server.NewServer(svc, persist, log.With(logger, "component", "http"))

	srv := &http.Server{Addr: cfg.Addr, Handler: s.Router()}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := persist(shutdown); err != nil {
			level.Warn(logger).Log("msg", "final save", "err", err)
		}
		_ = srv.Shutdown(shutdown)
	}()

	level.Info(logger).Log("msg", "bank server running", "addr", cfg.Addr, "storage", cfg.Storage.Backend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		level.Error(logger).Log("err", err)
		os.Exit(1)
	}
}
