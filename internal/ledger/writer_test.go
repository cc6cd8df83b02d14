package ledger

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tillbook/internal/pos"
	"github.com/roach88/tillbook/internal/testutil"
)

func TestOpen_WritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.tsv")

	l, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, l.Close())

	l, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, l.Close())

	assert.Equal(t, HeaderLine, testutil.ReadFile(t, path))
}

func TestBeginPeriod_Layout(t *testing.T) {
	l := openTestLedger(t)

	p := newPeriod(7, "Anna", 5000)
	p.OpenCreditCardAmount = 0
	require.NoError(t, l.BeginPeriod(p, ""))

	assert.Equal(t, HeaderLine+"2024-03-01T15:00\tNYITÁS\t1\t-5000\tAnna\t7\t0\t-\n", testutil.ReadFile(t, l.Path()))
}

func TestEndPeriod_LayoutWithComment(t *testing.T) {
	l := openTestLedger(t)

	p := newPeriod(7, "Anna", 5000)
	p.EndTime = testStart.Add(10 * time.Hour)
	p.CloseCash = 5900
	p.CloseCreditCardAmount = 1200
	require.NoError(t, l.EndPeriod(p, "counted twice"))

	assert.Equal(t, HeaderLine+"2024-03-01T18:00\tZÁRÁS\t1\t5900\tAnna\t7\t1200\t-\tcounted twice\n",
		testutil.ReadFile(t, l.Path()))
}

func TestSale_WithoutArticleWritesMarker(t *testing.T) {
	l := openTestLedger(t)

	require.NoError(t, l.Sale(&pos.Sale{
		Timestamp:    testStart,
		Quantity:     1,
		PricePerUnit: 100,
		Seller:       "Anna",
		BillID:       pos.PeriodCash{PeriodID: 1},
	}))

	assert.Equal(t, HeaderLine+"2024-03-01T08:00\t-\t1\t100\tAnna\t1\t-\t-\n", testutil.ReadFile(t, l.Path()))
}

func TestModifyCash_UsesClock(t *testing.T) {
	l := openTestLedger(t)

	require.NoError(t, l.ModifyCash("Bea", 1000, 0))
	require.NoError(t, l.ModifyCash("Bea", -200, 0))

	assert.Equal(t, HeaderLine+
		"2024-03-01T08:00\tKASSZAMÓDOSÍTÁS\t0\t1000\tBea\t-\t0\t-\n"+
		"2024-03-01T08:01\tKASSZAMÓDOSÍTÁS\t0\t-200\tBea\t-\t0\t-\n",
		testutil.ReadFile(t, l.Path()))
}

func TestStaffBillPay_Layout(t *testing.T) {
	l := openTestLedger(t)

	require.NoError(t, l.StaffBillPay(pos.StaffBill{Username: "Kati"}, "Anna", 300))

	assert.Equal(t, HeaderLine+"2024-03-01T08:00\tSZEMÉLYZETI SZÁMLA BEFIZETÉS\t1\t-300\tAnna\tKati\t0\t-\n",
		testutil.ReadFile(t, l.Path()))
}

func TestWrite_InvalidArgumentsLeaveFileUnchanged(t *testing.T) {
	l := openTestLedger(t)

	sale := func(mut func(s *pos.Sale)) *pos.Sale {
		s := &pos.Sale{
			Timestamp:    testStart,
			Article:      &pos.Article{Name: "Kávé"},
			Quantity:     1,
			PricePerUnit: 450,
			Seller:       "Anna",
			BillID:       pos.PeriodCash{PeriodID: 1},
		}
		mut(s)
		return s
	}

	tests := map[string]Event{
		"nil event":             nil,
		"nil period":            BeginPeriod{},
		"begin empty user":      BeginPeriod{Period: newPeriod(1, "", 0)},
		"begin tab in comment":  BeginPeriod{Period: newPeriod(1, "Anna", 0), Comment: "a\tb"},
		"begin no time":         BeginPeriod{Period: &pos.SellingPeriod{ID: 1, Username: "Anna"}},
		"end not closed":        EndPeriod{Period: newPeriod(1, "Anna", 0)},
		"end empty user":        EndPeriod{Period: &pos.SellingPeriod{ID: 1, EndTime: testStart}},
		"nil sale":              Sale{},
		"sale empty seller":     Sale{Sale: sale(func(s *pos.Sale) { s.Seller = "" })},
		"sale empty article":    Sale{Sale: sale(func(s *pos.Sale) { s.Article = &pos.Article{} })},
		"sale reserved article": Sale{Sale: sale(func(s *pos.Sale) { s.Article = &pos.Article{Name: PeriodOpenName} })},
		"sale newline article":  Sale{Sale: sale(func(s *pos.Sale) { s.Article = &pos.Article{Name: "a\nb"} })},
		"sale numeric staff":    Sale{Sale: sale(func(s *pos.Sale) { s.BillID = pos.StaffBill{Username: "12"} })},
		"sale no timestamp":     Sale{Sale: sale(func(s *pos.Sale) { s.Timestamp = time.Time{} })},
		"modify empty actor":    ModifyCash{Cash: 10},
		"staff empty admin":     StaffBillPay{Bill: pos.StaffBill{Username: "Kati"}, Amount: 10},
		"staff invalid bill":    StaffBillPay{Bill: pos.StaffBill{Username: "7K"}, Administrator: "Anna"},
	}

	for name, ev := range tests {
		t.Run(name, func(t *testing.T) {
			err := l.WriteEvent(ev)
			require.Error(t, err)
			assert.True(t, IsInvalidArgument(err), "got %v", err)
		})
	}

	assert.Equal(t, HeaderLine, testutil.ReadFile(t, l.Path()))
}

func TestWriteEvent_DispatchesEveryVariant(t *testing.T) {
	l := openTestLedger(t)

	p := newPeriod(1, "Anna", 1000)
	events := []Event{
		BeginPeriod{Period: p},
		Sale{Sale: &pos.Sale{Timestamp: p.BeginTime, Article: &pos.Article{Name: "Tea"}, Quantity: 1, PricePerUnit: 300, Seller: "Anna", BillID: pos.PeriodCard{PeriodID: 1}}},
		ModifyCash{Actor: "Anna", Cash: 500},
		StaffBillPay{Bill: pos.StaffBill{Username: "Kati"}, Administrator: "Anna", Amount: 300},
	}
	p2 := *p
	p2.EndTime = p.BeginTime.Add(time.Hour)
	p2.CloseCash = 1500
	events = append(events, EndPeriod{Period: &p2})

	for _, ev := range events {
		require.NoError(t, l.WriteEvent(ev), "%T", ev)
	}

	rec, err := replayAll(t, l)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"begin",
		"begin_period id=1 user=Anna open=1000 card=0 at=2024-03-01T09:00 comment=\"\"",
		"sale article=<none> qty=1 price=300 seller=Anna bill=1K purchase=0",
		"modify_cash actor=Anna amount=500 card=0",
		"staff_bill_pay bill=Kati actor=Anna amount=300 at=2024-03-01T08:01",
		"end_period id=1 close=1500 card=0 at=2024-03-01T10:00 comment=\"\"",
		"end",
	}, rec.calls)
}

func TestWrite_ConcurrentWritersDoNotInterleave(t *testing.T) {
	l := openTestLedger(t, WithSync(false))
	require.NoError(t, l.BeginPeriod(newPeriod(1, "Anna", 0), ""))

	const writers = 16
	const salesPerWriter = 25

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < salesPerWriter; i++ {
				err := l.Sale(&pos.Sale{
					Timestamp:    testStart,
					Article:      &pos.Article{Name: "Pogácsa"},
					Quantity:     1,
					PricePerUnit: 250,
					Seller:       "Anna",
					BillID:       pos.PeriodCash{PeriodID: 1},
				})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	rec, err := replayAll(t, l)
	require.NoError(t, err)
	assert.Len(t, rec.sales, writers*salesPerWriter)
	require.Len(t, rec.periods, 1)
	assert.Len(t, rec.periods[0].Sales, writers*salesPerWriter)
}

func TestWrite_ConcurrentStampedLinesFollowClockOrder(t *testing.T) {
	l := openTestLedger(t, WithSync(false))

	const writers = 8
	const perWriter = 10

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				var err error
				if i%2 == 0 {
					err = l.ModifyCash("Anna", 100, 0)
				} else {
					err = l.StaffBillPay(pos.StaffBill{Username: "Kati"}, "Anna", 100)
				}
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(testutil.ReadFile(t, l.Path()), "\n"), "\n")
	require.Len(t, lines, 1+writers*perWriter)

	var prev time.Time
	for i, line := range lines[1:] {
		ts, err := ParseTimestamp(strings.SplitN(line, "\t", 2)[0], time.UTC)
		require.NoError(t, err)
		assert.Equal(t, testStart.Add(time.Duration(i)*time.Minute), ts, "line %d", i+1)
		assert.True(t, ts.After(prev), "line %d stamped %s before %s", i+1, ts, prev)
		prev = ts
	}
}

func TestClose_Idempotent(t *testing.T) {
	l := openTestLedger(t)

	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	err := l.ModifyCash("Anna", 1, 0)
	assert.True(t, IsStorageError(err))

	err = l.Replay(NopVisitor{})
	assert.True(t, IsStorageError(err))
}

func TestOpen_UnwritableDirectory(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "sales.tsv"))
	require.Error(t, err)
	assert.True(t, IsStorageError(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteHeader_AppendsAtEnd(t *testing.T) {
	l := openTestLedger(t)
	require.NoError(t, l.ModifyCash("Anna", 1, 0))
	require.NoError(t, l.WriteHeader())

	content := testutil.ReadFile(t, l.Path())
	assert.Equal(t, HeaderLine, content[len(content)-len(HeaderLine):])
}
