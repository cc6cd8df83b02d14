package ledger

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/tillbook/internal/pos"
	"github.com/roach88/tillbook/internal/testutil"
)

var testStart = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

// mapCatalog is an in-memory ArticleFinder.
type mapCatalog map[string]*pos.Article

func (c mapCatalog) FindArticle(name string) (*pos.Article, bool) {
	a, ok := c[name]
	return a, ok
}

// recorder captures visitor callbacks as readable lines.
type recorder struct {
	calls   []string
	periods []*pos.SellingPeriod
	sales   []*pos.Sale
}

func (r *recorder) add(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recorder) Begin() { r.add("begin") }

func (r *recorder) BeginPeriod(p *pos.SellingPeriod, comment string) {
	r.periods = append(r.periods, p)
	r.add("begin_period id=%d user=%s open=%d card=%d at=%s comment=%q",
		p.ID, p.Username, p.OpenCash, p.OpenCreditCardAmount, FormatTimestamp(p.BeginTime), comment)
}

func (r *recorder) Sale(s *pos.Sale) {
	r.sales = append(r.sales, s)
	name := "<none>"
	if s.Article != nil {
		name = s.Article.Name
	}
	bill := "-"
	if s.BillID != nil {
		bill = s.BillID.String()
	}
	r.add("sale article=%s qty=%d price=%d seller=%s bill=%s purchase=%d",
		name, s.Quantity, s.PricePerUnit, s.Seller, bill, s.PurchaseID)
}

func (r *recorder) EndPeriod(p *pos.SellingPeriod, comment string) {
	r.add("end_period id=%d close=%d card=%d at=%s comment=%q",
		p.ID, p.CloseCash, p.CloseCreditCardAmount, FormatTimestamp(p.EndTime), comment)
}

func (r *recorder) ModifyCash(actor string, amount, card int) {
	r.add("modify_cash actor=%s amount=%d card=%d", actor, amount, card)
}

func (r *recorder) StaffBillPay(bill pos.StaffBill, actor string, amount int, at time.Time) {
	r.add("staff_bill_pay bill=%s actor=%s amount=%d at=%s", bill.Username, actor, amount, FormatTimestamp(at))
}

func (r *recorder) End() { r.add("end") }

// openTestLedger opens a fresh ledger in a temp dir with UTC timestamps and a
// stepping clock.
func openTestLedger(t *testing.T, opts ...Option) *Ledger {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.tsv")
	base := []Option{
		WithLocation(time.UTC),
		WithClock(testutil.NewSteppingClock(testStart, time.Minute)),
	}
	l, err := Open(path, append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func replayAll(t *testing.T, l *Ledger) (*recorder, error) {
	t.Helper()
	rec := &recorder{}
	err := l.Replay(rec)
	return rec, err
}

func newPeriod(id int, user string, openCash int) *pos.SellingPeriod {
	return &pos.SellingPeriod{
		ID:        id,
		Username:  user,
		BeginTime: testStart.Add(time.Duration(id) * time.Hour),
		OpenCash:  openCash,
	}
}
