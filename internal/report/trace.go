package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/roach88/tillbook/internal/ledger"
	"github.com/roach88/tillbook/internal/pos"
)

// TraceEvent is one visitor callback in a form fit for printing or JSON.
type TraceEvent struct {
	Kind      string `json:"kind"`
	Timestamp string `json:"timestamp,omitempty"`
	PeriodID  int    `json:"period_id,omitempty"`
	Actor     string `json:"actor,omitempty"`
	Article   string `json:"article,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
	Price     int    `json:"price,omitempty"`
	Bill      string `json:"bill,omitempty"`
	Amount    int    `json:"amount,omitempty"`
	Card      int    `json:"card,omitempty"`
	Comment   string `json:"comment,omitempty"`
}

// String renders the event as a single space separated line. Empty fields
// are left out.
func (e TraceEvent) String() string {
	var b strings.Builder
	b.WriteString(e.Kind)
	add := func(key, val string) {
		if val == "" {
			return
		}
		fmt.Fprintf(&b, " %s=%s", key, val)
	}
	num := func(key string, n int, always bool) {
		if n != 0 || always {
			add(key, fmt.Sprint(n))
		}
	}

	add("at", e.Timestamp)
	num("period", e.PeriodID, false)
	add("actor", e.Actor)
	add("article", e.Article)
	num("qty", e.Quantity, e.Kind == ledger.KindSale.String())
	num("price", e.Price, e.Kind == ledger.KindSale.String())
	add("bill", e.Bill)
	num("amount", e.Amount, e.Kind != ledger.KindSale.String() && e.Kind != "begin" && e.Kind != "end")
	num("card", e.Card, false)
	if e.Comment != "" {
		fmt.Fprintf(&b, " comment=%q", e.Comment)
	}
	return b.String()
}

// Trace records every callback of a replay, including Begin and End.
type Trace struct {
	Events []TraceEvent
}

var _ ledger.Visitor = (*Trace)(nil)

func (t *Trace) Begin() {
	t.Events = []TraceEvent{{Kind: "begin"}}
}

func (t *Trace) BeginPeriod(p *pos.SellingPeriod, comment string) {
	t.Events = append(t.Events, TraceEvent{
		Kind:      ledger.KindPeriodOpen.String(),
		Timestamp: stamp(p.BeginTime),
		PeriodID:  p.ID,
		Actor:     p.Username,
		Amount:    p.OpenCash,
		Card:      p.OpenCreditCardAmount,
		Comment:   comment,
	})
}

func (t *Trace) Sale(s *pos.Sale) {
	e := TraceEvent{
		Kind:      ledger.KindSale.String(),
		Timestamp: stamp(s.Timestamp),
		Actor:     s.Seller,
		Article:   s.ArticleName(),
		Quantity:  s.Quantity,
		Price:     s.PricePerUnit,
	}
	if e.Article == "" {
		e.Article = ledger.NoArticleName
	}
	if s.BillID != nil {
		e.Bill = s.BillID.String()
	}
	t.Events = append(t.Events, e)
}

func (t *Trace) EndPeriod(p *pos.SellingPeriod, comment string) {
	t.Events = append(t.Events, TraceEvent{
		Kind:      ledger.KindPeriodClose.String(),
		Timestamp: stamp(p.EndTime),
		PeriodID:  p.ID,
		Actor:     p.Username,
		Amount:    p.CloseCash,
		Card:      p.CloseCreditCardAmount,
		Comment:   comment,
	})
}

func (t *Trace) ModifyCash(actor string, amount, creditCardAmount int) {
	t.Events = append(t.Events, TraceEvent{
		Kind:   ledger.KindModifyCash.String(),
		Actor:  actor,
		Amount: amount,
		Card:   creditCardAmount,
	})
}

func (t *Trace) StaffBillPay(bill pos.StaffBill, actor string, amount int, at time.Time) {
	t.Events = append(t.Events, TraceEvent{
		Kind:      ledger.KindStaffBillPay.String(),
		Timestamp: stamp(at),
		Actor:     actor,
		Bill:      bill.String(),
		Amount:    amount,
	})
}

func (t *Trace) End() {
	t.Events = append(t.Events, TraceEvent{Kind: "end"})
}

// Lines renders the trace one event per line.
func (t *Trace) Lines() []string {
	out := make([]string, len(t.Events))
	for i, e := range t.Events {
		out[i] = e.String()
	}
	return out
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return ledger.FormatTimestamp(t)
}
