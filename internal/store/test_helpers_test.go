package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/tillbook/internal/ledger"
	"github.com/roach88/tillbook/internal/pos"
	"github.com/roach88/tillbook/internal/testutil"
)

var testDay = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

// createTestStore creates a new store in a temp dir for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithClock(testutil.NewSteppingClock(testDay, time.Second)))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

type articles map[string]*pos.Article

func (a articles) FindArticle(name string) (*pos.Article, bool) {
	art, ok := a[name]
	return art, ok
}

var (
	coffee = &pos.Article{Name: "Kávé", SellingPrice: 450}
	beer   = &pos.Article{Name: "Sör", SellingPrice: 600}
)

// createTestLedger writes one closed period with cash, card, staff and
// unnamed sales, a staff payment, a cash modification and a second
// period left open.
func createTestLedger(t *testing.T) *ledger.Ledger {
	t.Helper()

	l, err := ledger.Open(filepath.Join(t.TempDir(), "sales.tsv"),
		ledger.WithCatalog(articles{coffee.Name: coffee, beer.Name: beer}),
		ledger.WithLocation(time.UTC),
		ledger.WithClock(testutil.NewSteppingClock(testDay.Add(11*time.Hour), time.Minute)),
		ledger.WithSync(false),
	)
	if err != nil {
		t.Fatalf("ledger.Open() failed: %v", err)
	}
	t.Cleanup(func() { l.Close() })

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("ledger write failed: %v", err)
		}
	}

	p1 := &pos.SellingPeriod{ID: 1, Username: "anna", BeginTime: testDay, OpenCash: 10000}
	must(l.BeginPeriod(p1, "morning"))
	must(l.Sale(&pos.Sale{Timestamp: testDay.Add(time.Hour), Article: coffee, Quantity: 2, PricePerUnit: 450,
		Seller: "anna", BillID: pos.PeriodCash{PeriodID: 1}, PurchaseID: 1}))
	must(l.Sale(&pos.Sale{Timestamp: testDay.Add(2 * time.Hour), Article: coffee, Quantity: 1, PricePerUnit: 450,
		Seller: "anna", BillID: pos.PeriodCard{PeriodID: 1}, PurchaseID: 2}))
	must(l.Sale(&pos.Sale{Timestamp: testDay.Add(3 * time.Hour), Article: beer, Quantity: 3, PricePerUnit: 600,
		Seller: "anna", BillID: pos.StaffBill{Username: "bela"}, PurchaseID: 3}))
	must(l.Sale(&pos.Sale{Timestamp: testDay.Add(4 * time.Hour), Quantity: 1, PricePerUnit: 100,
		Seller: "anna", BillID: pos.PeriodCash{PeriodID: 1}}))
	p1.EndTime = testDay.Add(10 * time.Hour)
	p1.CloseCash = 11000
	p1.CloseCreditCardAmount = 450
	must(l.EndPeriod(p1, ""))

	must(l.StaffBillPay(pos.StaffBill{Username: "bela"}, "admin", 1000))
	must(l.ModifyCash("admin", -500, 0))

	day2 := testDay.AddDate(0, 0, 1)
	p2 := &pos.SellingPeriod{ID: 2, Username: "bela", BeginTime: day2, OpenCash: 11500}
	must(l.BeginPeriod(p2, ""))
	must(l.Sale(&pos.Sale{Timestamp: day2.Add(time.Hour), Article: coffee, Quantity: 4, PricePerUnit: 450,
		Seller: "bela", BillID: pos.PeriodCash{PeriodID: 2}, PurchaseID: 4}))

	return l
}
