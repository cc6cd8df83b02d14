package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/tillbook/internal/catalog"
	"github.com/roach88/tillbook/internal/ledger"
	"github.com/roach88/tillbook/internal/pos"
	"github.com/roach88/tillbook/internal/testutil"
)

var (
	day1 = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	day2 = time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)
)

// twoDayLedger writes two trading days:
//
//	day 1: anna opens with 10000, sells coffee in cash and by card, beer on
//	       bela's staff bill and one unnamed item, closes 100 short;
//	       bela pays 1000 of the bill and admin takes 500 out of the till.
//	day 2: bela opens with the 11400 left and sells coffee; never closed.
func twoDayLedger(t *testing.T) *ledger.Ledger {
	t.Helper()

	cat, err := catalog.New([]pos.Article{
		{Name: "Kávé", SellingPrice: 450},
		{Name: "Sör", SellingPrice: 600},
	})
	require.NoError(t, err)
	coffee, _ := cat.FindArticle("Kávé")
	beer, _ := cat.FindArticle("Sör")

	l, err := ledger.Open(filepath.Join(t.TempDir(), "sales.tsv"),
		ledger.WithCatalog(cat),
		ledger.WithLocation(time.UTC),
		ledger.WithClock(testutil.NewSteppingClock(day1, time.Minute)),
		ledger.WithSync(false),
	)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })

	p1 := &pos.SellingPeriod{ID: 1, Username: "anna", BeginTime: day1, OpenCash: 10000}
	require.NoError(t, l.BeginPeriod(p1, ""))
	sales := []*pos.Sale{
		{Timestamp: day1.Add(10 * time.Minute), Article: coffee, Quantity: 2, PricePerUnit: 450, Seller: "anna", BillID: pos.PeriodCash{PeriodID: 1}, PurchaseID: 1},
		{Timestamp: day1.Add(20 * time.Minute), Article: coffee, Quantity: 1, PricePerUnit: 450, Seller: "anna", BillID: pos.PeriodCard{PeriodID: 1}, PurchaseID: 2},
		{Timestamp: day1.Add(30 * time.Minute), Article: beer, Quantity: 3, PricePerUnit: 600, Seller: "anna", BillID: pos.StaffBill{Username: "bela"}, PurchaseID: 3},
		{Timestamp: day1.Add(40 * time.Minute), Quantity: 1, PricePerUnit: 100, Seller: "anna", BillID: pos.PeriodCash{PeriodID: 1}},
	}
	for _, s := range sales {
		require.NoError(t, l.Sale(s))
	}
	p1.EndTime = day1.Add(10 * time.Hour)
	p1.CloseCash = 10900
	p1.CloseCreditCardAmount = 450
	require.NoError(t, l.EndPeriod(p1, "100 short"))

	require.NoError(t, l.StaffBillPay(pos.StaffBill{Username: "bela"}, "admin", 1000))
	require.NoError(t, l.ModifyCash("admin", -500, 0))

	p2 := &pos.SellingPeriod{ID: 2, Username: "bela", BeginTime: day2, OpenCash: 11400}
	require.NoError(t, l.BeginPeriod(p2, ""))
	require.NoError(t, l.Sale(&pos.Sale{
		Timestamp: day2.Add(time.Hour), Article: coffee, Quantity: 4, PricePerUnit: 450,
		Seller: "bela", BillID: pos.PeriodCash{PeriodID: 2}, PurchaseID: 4,
	}))

	return l
}
