// internal/ledger/ledger_test.go
//
// 帳本核心的單元測試：入帳順序、透支、重複結算、Savings 次數上限與結算流程。
package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankapp/internal/money"
)

// fixedClock 回傳可由測試調整的時間。
type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

func newClock(s string) *fixedClock {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return &fixedClock{now: t}
}

func record(t *testing.T, l *Ledger, amount, date string) {
	t.Helper()
	require.NoError(t, l.Record(money.MustParse(amount), MustParseDate(date), Normal))
}

func TestRecordUpdatesBalanceAndHistory(t *testing.T) {
	l := New("Checking#000000001", Checking, nil)
	record(t, l, "1000", "2024-01-10")
	record(t, l, "-250.25", "2024-01-10")
	record(t, l, "12.10", "2024-01-15")

	assert.Equal(t, "$761.85", l.Balance().String())
	txs := l.Transactions()
	require.Len(t, txs, 3)
	for i, tx := range txs {
		assert.Equal(t, i, tx.Seq())
	}
	assert.Equal(t, "2024-01-10, $-250.25", txs[1].String())
}

func TestBalanceEqualsSumOfHistory(t *testing.T) {
	l := New("Savings#000000001", Savings, nil)
	amounts := []string{"100.01", "-0.01", "33.33", "-50", "0.005"}
	dates := []string{"2024-01-01", "2024-02-01", "2024-03-01", "2024-04-01", "2024-05-01"}
	for i := range amounts {
		record(t, l, amounts[i], dates[i])
	}

	sum := money.Zero
	for _, tx := range l.Transactions() {
		sum = sum.Add(tx.Amount())
	}
	assert.True(t, sum.Equal(l.Balance()), "sum=%s balance=%s", sum, l.Balance())
	assert.Equal(t, "83.34", l.Balance().Plain())
}

func TestOutOfOrderDateRejectedWithoutSideEffect(t *testing.T) {
	l := New("Checking#000000001", Checking, nil)
	record(t, l, "100", "2024-03-10")
	record(t, l, "5", "2024-03-10") // 同日允許

	err := l.Record(money.MustParse("1"), MustParseDate("2024-03-09"), Normal)
	require.ErrorIs(t, err, ErrOutOfOrderDate)
	var oo *OutOfOrderError
	require.True(t, errors.As(err, &oo))
	assert.Equal(t, "2024-03-10", oo.Latest.String())

	assert.Equal(t, "$105.00", l.Balance().String())
	assert.Equal(t, 2, l.Len())
}

func TestHistoryIsChronological(t *testing.T) {
	l := New("Savings#000000002", Savings, nil)
	dates := []string{"2024-01-05", "2024-01-03", "2024-01-05", "2024-02-01", "2024-01-31", "2024-02-01"}
	for _, d := range dates {
		_ = l.Record(money.MustParse("1"), MustParseDate(d), Normal)
	}
	txs := l.Transactions()
	for i := 1; i < len(txs); i++ {
		assert.False(t, txs[i].Date().Before(txs[i-1].Date()), "history out of order at %d", i)
	}
	assert.Len(t, txs, 4)
}

func TestOverdrawn(t *testing.T) {
	for _, v := range []Variant{Checking, Savings} {
		t.Run(v.String(), func(t *testing.T) {
			l := New("x", v, nil)
			record(t, l, "50", "2024-01-01")

			err := l.Record(money.MustParse("-50.01"), MustParseDate("2024-01-02"), Normal)
			assert.ErrorIs(t, err, ErrOverdrawn)
			assert.Equal(t, "$50.00", l.Balance().String())
			assert.Equal(t, 1, l.Len())

			// 提領全部餘額可行
			record(t, l, "-50", "2024-01-03")
			assert.True(t, l.Balance().IsZero())
		})
	}
}

func TestSavingsMonthlyLimit(t *testing.T) {
	l := New("Savings#000000001", Savings, nil)
	for _, d := range []string{"2024-05-01", "2024-05-02", "2024-05-03", "2024-05-04"} {
		record(t, l, "10", d)
	}
	// 第 5 筆成功
	record(t, l, "10", "2024-05-05")
	// 第 6 筆失敗
	err := l.Record(money.MustParse("10"), MustParseDate("2024-05-06"), Normal)
	assert.ErrorIs(t, err, ErrMonthlyLimitExceeded)
	assert.Equal(t, 5, l.Len())

	// 下個月重新計算
	record(t, l, "10", "2024-06-01")
}

func TestSavingsDailyLimit(t *testing.T) {
	l := New("Savings#000000001", Savings, nil)
	record(t, l, "10", "2024-05-01")
	record(t, l, "10", "2024-05-01")

	err := l.Record(money.MustParse("10"), MustParseDate("2024-05-01"), Normal)
	assert.ErrorIs(t, err, ErrDailyLimitExceeded)
	assert.Equal(t, "$20.00", l.Balance().String())

	record(t, l, "10", "2024-05-02")
}

func TestSavingsLimitsIgnoreInterest(t *testing.T) {
	l := New("Savings#000000001", Savings, nil)
	record(t, l, "100", "2024-01-31")
	record(t, l, "100", "2024-01-31")
	require.NoError(t, l.AssessInterestAndFees())

	// 利息不計入每日上限，但第 3 筆一般交易仍被擋下
	err := l.Record(money.MustParse("1"), MustParseDate("2024-01-31"), Normal)
	assert.ErrorIs(t, err, ErrDailyLimitExceeded)
}

func TestCheckingHasNoVelocityLimit(t *testing.T) {
	l := New("Checking#000000001", Checking, nil)
	for i := 0; i < 8; i++ {
		record(t, l, "1", "2024-05-01")
	}
	assert.Equal(t, 8, l.Len())
}

func TestAssessEmptyLedger(t *testing.T) {
	l := New("Checking#000000001", Checking, nil)
	assert.ErrorIs(t, l.AssessInterestAndFees(), ErrEmptyLedger)
}

func TestCheckingAssessment(t *testing.T) {
	clock := newClock("2024-01-20")
	l := New("Checking#000000002", Checking, clock)
	record(t, l, "1000.00", "2024-01-10")
	assert.Equal(t, "$1,000.00", l.Balance().String())

	require.NoError(t, l.AssessInterestAndFees())
	txs := l.Transactions()
	require.Len(t, txs, 2, "no fee expected when balance >= $100")
	assert.Equal(t, Interest, txs[1].Kind())
	assert.Equal(t, "2024-01-31", txs[1].Date().String())
	assert.Equal(t, "$0.80", txs[1].Amount().String())
	assert.Equal(t, "$1,000.80", l.Balance().String())
}

func TestCheckingAssessTwiceFails(t *testing.T) {
	clock := newClock("2024-01-20")
	l := New("Checking#000000001", Checking, clock)
	record(t, l, "500", "2024-01-10")
	require.NoError(t, l.AssessInterestAndFees())

	err := l.AssessInterestAndFees()
	require.ErrorIs(t, err, ErrAlreadyAssessed)
	var aa *AlreadyAssessedError
	require.True(t, errors.As(err, &aa))
	assert.Equal(t, time.January, aa.Period.Month)
	assert.Equal(t, Interest, aa.Kind)
	assert.Equal(t, 2, l.Len())
}

func TestCheckingLowBalanceFee(t *testing.T) {
	clock := newClock("2024-04-02")
	l := New("Checking#000000001", Checking, clock)
	record(t, l, "50", "2024-04-01")

	require.NoError(t, l.AssessInterestAndFees())
	txs := l.Transactions()
	require.Len(t, txs, 3)
	assert.Equal(t, Interest, txs[1].Kind())
	assert.Equal(t, "$0.04", txs[1].Amount().String())
	assert.Equal(t, Fee, txs[2].Kind())
	assert.Equal(t, "2024-04-30", txs[2].Date().String())
	assert.Equal(t, "$-5.44", txs[2].Amount().String())
	assert.Equal(t, "$44.60", l.Balance().String())
}

func TestCheckingFlagsResetByNormalTransaction(t *testing.T) {
	clock := newClock("2024-01-20")
	l := New("Checking#000000001", Checking, clock)
	record(t, l, "500", "2024-01-10")
	require.NoError(t, l.AssessInterestAndFees())

	state, ok := l.CheckingState()
	require.True(t, ok)
	assert.True(t, state.InterestApplied)
	require.NotNil(t, state.LastInterest)
	assert.Equal(t, Period{Year: 2024, Month: time.January}, *state.LastInterest)

	// 一般交易清除旗標；下個月份的結算可以進行
	record(t, l, "10", "2024-02-03")
	state, _ = l.CheckingState()
	assert.False(t, state.InterestApplied)
	require.NoError(t, l.AssessInterestAndFees())
	assert.Equal(t, "2024-02-28", l.Transactions()[3].Date().String())
}

func TestCheckingFlagBlocksWithoutNormalTransaction(t *testing.T) {
	clock := newClock("2024-01-20")
	l := New("Checking#000000001", Checking, clock)
	record(t, l, "500", "2024-01-10")
	require.NoError(t, l.AssessInterestAndFees())

	// 旗標仍在，直接入帳下個月的利息會被擋下
	err := l.Record(money.MustParse("1"), MustParseDate("2024-02-28"), Interest)
	assert.ErrorIs(t, err, ErrAlreadyAssessed)

	// 牆上時鐘進入新月份後，結算時旗標被清除，但歷史中同月已有利息
	clock.now = clock.now.AddDate(0, 1, 0)
	assert.ErrorIs(t, l.AssessInterestAndFees(), ErrAlreadyAssessed)
}

func TestCheckingInterestAndFeeAreIndependent(t *testing.T) {
	clock := newClock("2024-03-15")
	l := New("Checking#000000001", Checking, clock)
	record(t, l, "20", "2024-03-01")
	require.NoError(t, l.AssessInterestAndFees())
	require.Equal(t, 3, l.Len())

	// 同月再存款：旗標清除，但利息與手續費在歷史中都已存在，兩個錯誤都會回傳
	record(t, l, "1", "2024-03-31")
	err := l.AssessInterestAndFees()
	var aa *AlreadyAssessedError
	require.True(t, errors.As(err, &aa))
	assert.Contains(t, err.Error(), "interest already assessed")
	assert.Contains(t, err.Error(), "fee already assessed")
	assert.Equal(t, 4, l.Len())
}

func TestSavingsAssessment(t *testing.T) {
	l := New("Savings#000000001", Savings, nil)
	record(t, l, "50.00", "2024-02-01")

	require.NoError(t, l.AssessInterestAndFees())
	txs := l.Transactions()
	require.Len(t, txs, 2)
	assert.Equal(t, "2024-02-28", txs[1].Date().String())
	assert.Equal(t, "$0.21", txs[1].Amount().String())
	assert.Equal(t, "$50.21", l.Balance().String())

	// Savings 只依歷史判斷
	assert.ErrorIs(t, l.AssessInterestAndFees(), ErrAlreadyAssessed)
	_, ok := l.CheckingState()
	assert.False(t, ok)
}

func TestRestore(t *testing.T) {
	var history []Transaction
	for _, in := range []struct{ amount, date string }{{"100", "2024-01-01"}, {"-20.5", "2024-01-02"}} {
		tx, err := NewTransaction(money.MustParse(in.amount), in.date, Normal)
		require.NoError(t, err)
		history = append(history, tx)
	}
	p := Period{Year: 2024, Month: time.January}
	l, err := Restore("Checking#000000007", Checking, nil, history, &CheckingState{InterestApplied: true, LastInterest: &p})
	require.NoError(t, err)
	assert.Equal(t, "$79.50", l.Balance().String())
	state, _ := l.CheckingState()
	assert.True(t, state.InterestApplied)
	assert.Equal(t, 1, l.Transactions()[1].Seq())

	_, err = Restore("x", Savings, nil, []Transaction{history[1], history[0]}, nil)
	assert.ErrorIs(t, err, ErrOutOfOrderDate)
}

func TestNewTransactionInvalidDate(t *testing.T) {
	for _, s := range []string{"2024-1-05", "2024-02-30", "20240105", "yesterday", "2024-01-05T00:00:00Z", ""} {
		_, err := NewTransaction(money.Zero, s, Normal)
		assert.ErrorIs(t, err, ErrInvalidDate, "input %q", s)
	}
}

func TestTransactionComparisons(t *testing.T) {
	a, _ := NewTransaction(money.Zero, "2024-03-01", Normal)
	b, _ := NewTransaction(money.Zero, "2024-03-31", Fee)
	c, _ := NewTransaction(money.Zero, "2023-03-01", Normal)

	assert.True(t, a.SameMonth(b))
	assert.False(t, a.SameDay(b))
	assert.False(t, a.SameMonth(c))
	assert.True(t, c.Less(a))
}

func TestEndOfMonth(t *testing.T) {
	tests := map[string]string{
		"2024-01-10": "2024-01-31",
		"2024-02-01": "2024-02-28",
		"2024-04-15": "2024-04-30",
		"2023-12-31": "2023-12-31",
	}
	for in, want := range tests {
		assert.Equal(t, want, MustParseDate(in).EndOfMonth().String())
	}
}
