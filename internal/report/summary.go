package report

import (
	"time"

	"github.com/roach88/tillbook/internal/ledger"
	"github.com/roach88/tillbook/internal/pos"
)

// PeriodSummary is the closing report of one selling period.
type PeriodSummary struct {
	PeriodID       int            `json:"period_id"`
	Seller         string         `json:"seller"`
	Begin          time.Time      `json:"begin"`
	End            time.Time      `json:"end,omitzero"`
	OpenCash       int            `json:"open_cash"`
	CloseCash      int            `json:"close_cash"`
	ExpectedCash   int            `json:"expected_cash"`
	CashDifference int            `json:"cash_difference"`
	CardTurnover   int            `json:"card_turnover"`
	CardReported   int            `json:"card_reported"`
	Products       map[string]int `json:"products"`
	StaffBills     map[string]int `json:"staff_bills"`
	Open           bool           `json:"open"`
}

// Summarize builds the summary of p from its replayed sales. Products are
// counted by quantity; sales without an article count under
// ledger.NoArticleName. Staff bills grow by the sale total.
func Summarize(p *pos.SellingPeriod) PeriodSummary {
	s := PeriodSummary{
		PeriodID:     p.ID,
		Seller:       p.Username,
		Begin:        p.BeginTime,
		End:          p.EndTime,
		OpenCash:     p.OpenCash,
		CloseCash:    p.CloseCash,
		ExpectedCash: p.RemainingCash(),
		CardTurnover: p.CardTurnover(),
		CardReported: p.CloseCreditCardAmount,
		Products:     make(map[string]int),
		StaffBills:   make(map[string]int),
		Open:         p.IsOpen(),
	}
	if !s.Open {
		s.CashDifference = s.CloseCash - s.ExpectedCash
	}

	for _, sale := range p.Sales {
		name := sale.ArticleName()
		if name == "" {
			name = ledger.NoArticleName
		}
		s.Products[name] += sale.Quantity

		if b, ok := sale.BillID.(pos.StaffBill); ok {
			s.StaffBills[b.Username] += sale.Total()
		}
	}
	return s
}

// Periods collects a summary for every period in the ledger, in order.
// A trailing unclosed period is included with Open set.
type Periods struct {
	ledger.NopVisitor
	Summaries []PeriodSummary

	open *pos.SellingPeriod
}

func (v *Periods) Begin() {
	v.Summaries = nil
	v.open = nil
}

func (v *Periods) BeginPeriod(p *pos.SellingPeriod, _ string) { v.open = p }

func (v *Periods) EndPeriod(p *pos.SellingPeriod, _ string) {
	v.Summaries = append(v.Summaries, Summarize(p))
	v.open = nil
}

func (v *Periods) End() {
	if v.open != nil {
		v.Summaries = append(v.Summaries, Summarize(v.open))
	}
}
