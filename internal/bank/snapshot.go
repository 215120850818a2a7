// internal/bank/snapshot.go
//
// Bank 與 storage.Snapshot 之間的轉換。還原時先在暫存結構中重建全部帳本，
// 全部成功才替換現有狀態，任何一筆失敗都不會留下半套資料。

package bank

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"bankapp/internal/ledger"
	"bankapp/internal/money"
	"bankapp/internal/storage"
)

const periodLayout = "2006-01"

// Snapshot 匯出銀行狀態。每次呼叫產生新的 SnapshotID。
func (b *Bank) Snapshot() storage.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := storage.Snapshot{
		Meta: storage.Meta{
			Version:    storage.SchemaVersion,
			Timestamp:  b.clock.Now().UTC(),
			SnapshotID: uuid.NewString(),
		},
		NextID:   b.nextID,
		Accounts: make([]storage.PersistAccount, 0, len(b.accounts)),
	}
	for _, l := range b.accounts {
		s.Accounts = append(s.Accounts, persistAccount(l))
	}
	return s
}

func persistAccount(l *ledger.Ledger) storage.PersistAccount {
	pa := storage.PersistAccount{
		ID:           l.ID(),
		Type:         l.Variant().String(),
		Balance:      l.Balance().Plain(),
		Transactions: make([]storage.PersistTransaction, 0, l.Len()),
	}
	for _, tx := range l.Transactions() {
		pa.Transactions = append(pa.Transactions, storage.PersistTransaction{
			Amount: tx.Amount().Plain(),
			Date:   tx.Date().String(),
			Kind:   tx.Kind().String(),
		})
	}
	if st, ok := l.CheckingState(); ok {
		pa.Checking = &storage.PersistChecking{
			InterestApplied: st.InterestApplied,
			FeesApplied:     st.FeesApplied,
			LastInterest:    formatPeriod(st.LastInterest),
			LastFees:        formatPeriod(st.LastFees),
		}
	}
	return pa
}

// Restore 以快照取代目前狀態。nextID 取快照值與既有帳號最大流水號兩者較大者。
func (b *Bank) Restore(s storage.Snapshot) error {
	accounts := make([]*ledger.Ledger, 0, len(s.Accounts))
	byID := make(map[string]*ledger.Ledger, len(s.Accounts))
	numbers := make(map[int64]string, len(s.Accounts))
	nextID := s.NextID
	for _, pa := range s.Accounts {
		l, err := restoreAccount(pa, b.clock)
		if err != nil {
			return err
		}
		if _, dup := byID[l.ID()]; dup {
			return fmt.Errorf("%w: duplicate account %s", ErrCorruptSnapshot, l.ID())
		}
		n, _ := accountNumber(l.ID())
		if other, dup := numbers[n]; dup {
			return fmt.Errorf("%w: accounts %s and %s share number %d", ErrCorruptSnapshot, other, l.ID(), n)
		}
		numbers[n] = l.ID()
		if n > nextID {
			nextID = n
		}
		accounts = append(accounts, l)
		byID[l.ID()] = l
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.accounts = accounts
	b.byID = byID
	b.nextID = nextID
	return nil
}

func restoreAccount(pa storage.PersistAccount, clock ledger.Clock) (*ledger.Ledger, error) {
	v, err := ledger.ParseVariant(pa.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: account %s: %v", ErrCorruptSnapshot, pa.ID, err)
	}
	// 帳號須為 "<種類>#<流水號>"，且種類與 Type 一致
	prefix, _, _ := strings.Cut(pa.ID, "#")
	if _, ok := accountNumber(pa.ID); !ok || prefix != v.String() {
		return nil, fmt.Errorf("%w: account id %q does not match type %s", ErrCorruptSnapshot, pa.ID, v)
	}
	history := make([]ledger.Transaction, 0, len(pa.Transactions))
	for i, pt := range pa.Transactions {
		tx, err := restoreTransaction(pt)
		if err != nil {
			return nil, fmt.Errorf("%w: account %s transaction %d: %v", ErrCorruptSnapshot, pa.ID, i, err)
		}
		history = append(history, tx)
	}

	var state *ledger.CheckingState
	if pa.Checking != nil {
		st := ledger.CheckingState{
			InterestApplied: pa.Checking.InterestApplied,
			FeesApplied:     pa.Checking.FeesApplied,
		}
		if st.LastInterest, err = parsePeriod(pa.Checking.LastInterest); err != nil {
			return nil, fmt.Errorf("%w: account %s: %v", ErrCorruptSnapshot, pa.ID, err)
		}
		if st.LastFees, err = parsePeriod(pa.Checking.LastFees); err != nil {
			return nil, fmt.Errorf("%w: account %s: %v", ErrCorruptSnapshot, pa.ID, err)
		}
		state = &st
	}

	l, err := ledger.Restore(pa.ID, v, clock, history, state)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if pa.Balance != "" {
		want, err := money.Parse(pa.Balance)
		if err != nil {
			return nil, fmt.Errorf("%w: account %s balance: %v", ErrCorruptSnapshot, pa.ID, err)
		}
		if !want.Equal(l.Balance()) {
			return nil, fmt.Errorf("%w: account %s balance %s does not match transactions (%s)",
				ErrCorruptSnapshot, pa.ID, want, l.Balance())
		}
	}
	return l, nil
}

func restoreTransaction(pt storage.PersistTransaction) (ledger.Transaction, error) {
	amount, err := money.Parse(pt.Amount)
	if err != nil {
		return ledger.Transaction{}, err
	}
	kind, err := ledger.ParseKind(pt.Kind)
	if err != nil {
		return ledger.Transaction{}, err
	}
	return ledger.NewTransaction(amount, pt.Date, kind)
}

func formatPeriod(p *ledger.Period) string {
	if p == nil {
		return ""
	}
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC).Format(periodLayout)
}

func parsePeriod(s string) (*ledger.Period, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(periodLayout, s)
	if err != nil {
		return nil, err
	}
	p := ledger.PeriodOf(t)
	return &p, nil
}
