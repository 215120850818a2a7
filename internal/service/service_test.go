// internal/service/service_test.go
//
// service 層測試：以 memStore 替代儲存後端，驗證入帳、存取快照與日誌輸出。

package service

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankapp/internal/bank"
	"bankapp/internal/ledger"
	"bankapp/internal/money"
	"bankapp/internal/storage"
)

type memStore struct {
	snap  *storage.Snapshot
	saves int
	err   error
}

func (m *memStore) Save(_ context.Context, snap storage.Snapshot) error {
	if m.err != nil {
		return m.err
	}
	m.saves++
	m.snap = &snap
	return nil
}

func (m *memStore) Load(context.Context) (storage.Snapshot, error) {
	if m.err != nil {
		return storage.Snapshot{}, m.err
	}
	if m.snap == nil {
		return storage.Snapshot{}, storage.ErrNoSnapshot
	}
	return *m.snap, nil
}

func (m *memStore) Close() error { return nil }

func newBank() *bank.Bank {
	now := time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC)
	return bank.NewBank(bank.WithClock(ledger.ClockFunc(func() time.Time { return now })))
}

func TestService_AddTransaction(t *testing.T) {
	type args struct {
		amount string
		date   string
	}
	tests := []struct {
		name        string
		args        []args
		wantBalance string
		wantErr     error
	}{
		{
			"deposit",
			[]args{{"100", "2024-01-01"}},
			"$100.00",
			nil,
		},
		{
			"deposit then withdraw",
			[]args{{"100", "2024-01-01"}, {"-40.25", "2024-01-02"}},
			"$59.75",
			nil,
		},
		{
			"overdrawn",
			[]args{{"100", "2024-01-01"}, {"-100.01", "2024-01-02"}},
			"",
			ledger.ErrOverdrawn,
		},
		{
			"out of order",
			[]args{{"100", "2024-01-05"}, {"1", "2024-01-04"}},
			"",
			ledger.ErrOutOfOrderDate,
		},
		{
			"daily limit",
			[]args{{"1", "2024-01-05"}, {"1", "2024-01-05"}, {"1", "2024-01-05"}},
			"",
			ledger.ErrDailyLimitExceeded,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := NewService(newBank(), nil)
			acct, err := s.OpenAccount(ctx, ledger.Savings)
			require.NoError(t, err)

			var got bank.Account
			for _, a := range tt.args {
				got, err = s.AddTransaction(ctx, acct.ID, money.MustParse(a.amount), ledger.MustParseDate(a.date))
				if err != nil {
					break
				}
			}
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBalance, got.Balance.String())
		})
	}
}

func TestService_UnknownAccount(t *testing.T) {
	s := NewService(newBank(), nil)
	_, err := s.AssessInterestAndFees(context.Background(), "Savings#000000042")
	assert.ErrorIs(t, err, bank.ErrAccountNotFound)
}

func TestService_SaveLoad(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	s := NewService(newBank(), store)

	acct, err := s.OpenAccount(ctx, ledger.Checking)
	require.NoError(t, err)
	_, err = s.AddTransaction(ctx, acct.ID, money.MustParse("1000"), ledger.MustParseDate("2024-01-10"))
	require.NoError(t, err)
	_, err = s.AssessInterestAndFees(ctx, acct.ID)
	require.NoError(t, err)

	meta, err := s.Save(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, meta.SnapshotID)
	assert.Equal(t, 1, store.saves)

	restored := NewService(newBank(), store)
	loaded, err := restored.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, meta.SnapshotID, loaded.SnapshotID)

	accounts, err := restored.Summary(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "Checking#000000001,\tbalance: $1,000.80", accounts[0].String())

	txs, err := restored.Transactions(ctx, "1")
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, ledger.Interest, txs[1].Kind())
}

// 併發入帳並各自存檔：最後寫入的快照一定包含所有交易。
func TestService_ConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "bank.json"))
	s := NewService(newBank(), store)
	acct, err := s.OpenAccount(ctx, ledger.Checking)
	require.NoError(t, err)

	const workers = 32
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if _, err := s.AddTransaction(ctx, acct.ID, money.New(100), ledger.MustParseDate("2024-01-10")); err != nil {
				t.Errorf("add transaction: %v", err)
				return
			}
			if _, err := s.Save(ctx); err != nil {
				t.Errorf("save: %v", err)
			}
		}()
	}
	wg.Wait()

	restored := NewService(newBank(), store)
	_, err = restored.Load(ctx)
	require.NoError(t, err)
	got, err := restored.Account(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, workers, got.Transactions)
	assert.Equal(t, "32.00", got.Balance.Plain())
}

func TestService_LoadNothingSaved(t *testing.T) {
	s := NewService(newBank(), &memStore{})
	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, storage.ErrNoSnapshot)
}

func TestService_StoreFailure(t *testing.T) {
	boom := errors.New("disk full")
	s := NewService(newBank(), &memStore{err: boom})
	_, err := s.Save(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestService_NoStore(t *testing.T) {
	s := NewService(newBank(), nil)
	_, err := s.Save(context.Background())
	assert.ErrorIs(t, err, ErrNoStore)
	_, err = s.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoStore)
}

func TestService_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewService(newBank(), nil)
	_, err := s.OpenAccount(ctx, ledger.Checking)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoggingService(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewLogfmtLogger(&buf)
	s := NewLoggingService(logger, NewService(newBank(), nil))
	ctx := context.Background()

	acct, err := s.OpenAccount(ctx, ledger.Savings)
	require.NoError(t, err)
	_, err = s.AddTransaction(ctx, acct.ID, money.MustParse("10"), ledger.MustParseDate("2024-01-01"))
	require.NoError(t, err)
	_, err = s.AddTransaction(ctx, acct.ID, money.MustParse("-11"), ledger.MustParseDate("2024-01-01"))
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "method=open_account type=Savings id=Savings#000000001")
	assert.Contains(t, out, "method=add_transaction id=Savings#000000001 amount=10.00 date=2024-01-01 balance=10.00")
	assert.Contains(t, out, "amount=-11.00")
	assert.Contains(t, out, `err="insufficient balance"`)
}
