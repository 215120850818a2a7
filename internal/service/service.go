// internal/service/service.go
//
// Package service 為 CLI 與 HTTP 共用的操作入口：以帳號定址帳戶，
// 入帳規則交給 bank/ledger，整份快照經由 storage.Store 存取。
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"bankapp/internal/bank"
	"bankapp/internal/ledger"
	"bankapp/internal/money"
	"bankapp/internal/storage"
)

// ErrNoStore 表示未設定儲存後端時呼叫了 Save 或 Load。
var ErrNoStore = errors.New("no storage backend configured")

// Service 操作同一間銀行的帳戶。
type Service interface {
	OpenAccount(ctx context.Context, v ledger.Variant) (bank.Account, error)
	Summary(ctx context.Context) ([]bank.Account, error)
	Account(ctx context.Context, id string) (bank.Account, error)
	AddTransaction(ctx context.Context, id string, amount money.Money, date ledger.Date) (bank.Account, error)
	Transactions(ctx context.Context, id string) ([]ledger.Transaction, error)
	AssessInterestAndFees(ctx context.Context, id string) (bank.Account, error)
	Save(ctx context.Context) (storage.Meta, error)
	Load(ctx context.Context) (storage.Meta, error)
}

type service struct {
	bank  *bank.Bank
	store storage.Store

	// saveMu 讓「取快照 + 寫入」成為一組，較舊的快照不會蓋過較新的。
	saveMu sync.Mutex
}

// NewService 以 b 建立 Service。store 可為 nil，此時 Save 與 Load 回傳 ErrNoStore。
func NewService(b *bank.Bank, store storage.Store) Service {
	return &service{bank: b, store: store}
}

func (s *service) OpenAccount(ctx context.Context, v ledger.Variant) (bank.Account, error) {
	if err := ctx.Err(); err != nil {
		return bank.Account{}, err
	}
	return s.bank.Open(v), nil
}

func (s *service) Summary(ctx context.Context) ([]bank.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.bank.Accounts(), nil
}

func (s *service) Account(ctx context.Context, id string) (bank.Account, error) {
	if err := ctx.Err(); err != nil {
		return bank.Account{}, err
	}
	return s.bank.Account(id)
}

func (s *service) AddTransaction(ctx context.Context, id string, amount money.Money, date ledger.Date) (bank.Account, error) {
	if err := ctx.Err(); err != nil {
		return bank.Account{}, err
	}
	return s.bank.Record(id, amount, date)
}

func (s *service) Transactions(ctx context.Context, id string) ([]ledger.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.bank.Transactions(id)
}

// AssessInterestAndFees 可能入帳利息但手續費失敗（或相反），
// 回傳的帳戶摘要一律反映實際入帳結果。
func (s *service) AssessInterestAndFees(ctx context.Context, id string) (bank.Account, error) {
	if err := ctx.Err(); err != nil {
		return bank.Account{}, err
	}
	return s.bank.Assess(id)
}

func (s *service) Save(ctx context.Context) (storage.Meta, error) {
	if s.store == nil {
		return storage.Meta{}, ErrNoStore
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	snap := s.bank.Snapshot()
	if err := s.store.Save(ctx, snap); err != nil {
		return storage.Meta{}, fmt.Errorf("save snapshot: %w", err)
	}
	return snap.Meta, nil
}

func (s *service) Load(ctx context.Context) (storage.Meta, error) {
	if s.store == nil {
		return storage.Meta{}, ErrNoStore
	}
	snap, err := s.store.Load(ctx)
	if err != nil {
		return storage.Meta{}, fmt.Errorf("load snapshot: %w", err)
	}
	if err := s.bank.Restore(snap); err != nil {
		return storage.Meta{}, fmt.Errorf("load snapshot %s: %w", snap.Meta.SnapshotID, err)
	}
	return snap.Meta, nil
}
