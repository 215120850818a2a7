// internal/service/logging.go
//
// Service 的日誌裝飾器：每個操作記錄方法、參數、耗時與錯誤。

package service

import (
	"context"
	"time"

	"github.com/go-kit/log"

	"bankapp/internal/bank"
	"bankapp/internal/ledger"
	"bankapp/internal/money"
	"bankapp/internal/storage"
)

// loggingService 為 Service 加上操作日誌
type loggingService struct {
	logger log.Logger
	next   Service
}

// NewLoggingService 回傳帶日誌的 Service
func NewLoggingService(logger log.Logger, s Service) Service {
	return &loggingService{
		next:   s,
		logger: logger,
	}
}

func (s *loggingService) OpenAccount(ctx context.Context, v ledger.Variant) (a bank.Account, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "open_account",
			"type", v,
			"id", a.ID,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.OpenAccount(ctx, v)
}

func (s *loggingService) Summary(ctx context.Context) (accounts []bank.Account, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "summary",
			"accounts", len(accounts),
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Summary(ctx)
}

func (s *loggingService) Account(ctx context.Context, id string) (a bank.Account, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "account",
			"id", id,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Account(ctx, id)
}

func (s *loggingService) AddTransaction(ctx context.Context, id string, amount money.Money, date ledger.Date) (a bank.Account, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "add_transaction",
			"id", id,
			"amount", amount.Plain(),
			"date", date,
			"balance", a.Balance.Plain(),
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.AddTransaction(ctx, id, amount, date)
}

func (s *loggingService) Transactions(ctx context.Context, id string) (txs []ledger.Transaction, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "transactions",
			"id", id,
			"count", len(txs),
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Transactions(ctx, id)
}

func (s *loggingService) AssessInterestAndFees(ctx context.Context, id string) (a bank.Account, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "assess_interest_and_fees",
			"id", id,
			"balance", a.Balance.Plain(),
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.AssessInterestAndFees(ctx, id)
}

func (s *loggingService) Save(ctx context.Context) (meta storage.Meta, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "save",
			"snapshot", meta.SnapshotID,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Save(ctx)
}

func (s *loggingService) Load(ctx context.Context) (meta storage.Meta, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "load",
			"snapshot", meta.SnapshotID,
			"storage", meta.Storage,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Load(ctx)
}
