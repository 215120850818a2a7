// internal/bank/bank.go

// Package bank 為帳戶的聚合根：依建立順序保存所有帳本、配發帳號，
// 並提供以帳號定址、受互斥鎖保護的操作給 CLI 與 HTTP 使用。
// 入帳規則本身由 ledger 套件負責，本套件不重複檢查。
package bank

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"bankapp/internal/ledger"
	"bankapp/internal/money"
)

// Bank 管理全部帳戶。
// - mu：序列化所有讀寫，HTTP 與 CLI 可共用同一個 Bank。
// - nextID：最後配發的帳號流水號，第一個帳戶為 1，跨種類共用。
// - accounts：依建立順序排列；byID 為同一批指標的索引。
type Bank struct {
	mu       sync.Mutex
	nextID   int64
	accounts []*ledger.Ledger
	byID     map[string]*ledger.Ledger
	clock    ledger.Clock
}

// Option 調整 NewBank 的預設值。
type Option func(*Bank)

// WithClock 指定帳本使用的時鐘，測試時可固定「現在」。
func WithClock(c ledger.Clock) Option {
	return func(b *Bank) { b.clock = c }
}

// NewBank 建立空白銀行實例。
func NewBank(opts ...Option) *Bank {
	b := &Bank{byID: make(map[string]*ledger.Ledger), clock: ledger.SystemClock}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// newID 配發下一個帳號，格式為 "<種類>#<9 位數流水號>"。呼叫端須持有 mu。
func (b *Bank) newID(v ledger.Variant) string {
	b.nextID++
	return fmt.Sprintf("%s#%09d", v, b.nextID)
}

// Create 建立空帳本並回傳其指標。帳本指標不可在 Bank 之外併發使用。
func (b *Bank) Create(v ledger.Variant) *ledger.Ledger {
	b.mu.Lock()
	defer b.mu.Unlock()
	l := ledger.New(b.newID(v), v, b.clock)
	b.accounts = append(b.accounts, l)
	b.byID[l.ID()] = l
	return l
}

// Find 以完整帳號（"Checking#000000001"）或純數字流水號（"1"）查找帳本。
func (b *Bank) Find(id string) (*ledger.Ledger, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.find(id)
}

func (b *Bank) find(id string) (*ledger.Ledger, bool) {
	id = strings.TrimSpace(id)
	if l, ok := b.byID[id]; ok {
		return l, true
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, false
	}
	for _, l := range b.accounts {
		if num, ok := accountNumber(l.ID()); ok && num == n {
			return l, true
		}
	}
	return nil, false
}

// accountNumber 取出帳號 "#" 之後的流水號。
func accountNumber(id string) (int64, bool) {
	_, digits, ok := strings.Cut(id, "#")
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	return n, err == nil
}

func (b *Bank) mustFind(id string) (*ledger.Ledger, error) {
	l, ok := b.find(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, id)
	}
	return l, nil
}

// List 依建立順序回傳所有帳本。
func (b *Bank) List() []*ledger.Ledger {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*ledger.Ledger, len(b.accounts))
	copy(out, b.accounts)
	return out
}

// Open 建立帳戶並回傳其摘要。
func (b *Bank) Open(v ledger.Variant) Account {
	return viewOf(b.Create(v))
}

// Accounts 依建立順序回傳所有帳戶摘要。
func (b *Bank) Accounts() []Account {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Account, 0, len(b.accounts))
	for _, l := range b.accounts {
		out = append(out, viewOf(l))
	}
	return out
}

// Account 回傳單一帳戶摘要；不存在時回傳 ErrAccountNotFound。
func (b *Bank) Account(id string) (Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	l, err := b.mustFind(id)
	if err != nil {
		return Account{}, err
	}
	return viewOf(l), nil
}

// Record 於帳戶入帳一筆一般交易，成功後回傳最新摘要。
func (b *Bank) Record(id string, amount money.Money, date ledger.Date) (Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	l, err := b.mustFind(id)
	if err != nil {
		return Account{}, err
	}
	if err := l.Record(amount, date, ledger.Normal); err != nil {
		return Account{}, err
	}
	return viewOf(l), nil
}

// Assess 對帳戶執行月結（利息與手續費）。
// 部分成功時仍回傳最新摘要與合併後的錯誤。
func (b *Bank) Assess(id string) (Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	l, err := b.mustFind(id)
	if err != nil {
		return Account{}, err
	}
	err = l.AssessInterestAndFees()
	return viewOf(l), err
}

// Transactions 回傳帳戶依時間排序的交易副本。
func (b *Bank) Transactions(id string) ([]ledger.Transaction, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	l, err := b.mustFind(id)
	if err != nil {
		return nil, err
	}
	return l.Transactions(), nil
}
