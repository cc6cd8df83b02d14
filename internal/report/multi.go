package report

import (
	"time"

	"github.com/roach88/tillbook/internal/ledger"
	"github.com/roach88/tillbook/internal/pos"
)

// Multi fans every callback out to each visitor in order, so one replay can
// feed several reports.
type Multi []ledger.Visitor

func (m Multi) Begin() {
	for _, v := range m {
		v.Begin()
	}
}

func (m Multi) BeginPeriod(p *pos.SellingPeriod, comment string) {
	for _, v := range m {
		v.BeginPeriod(p, comment)
	}
}

func (m Multi) Sale(s *pos.Sale) {
	for _, v := range m {
		v.Sale(s)
	}
}

func (m Multi) EndPeriod(p *pos.SellingPeriod, comment string) {
	for _, v := range m {
		v.EndPeriod(p, comment)
	}
}

func (m Multi) ModifyCash(actor string, amount, creditCardAmount int) {
	for _, v := range m {
		v.ModifyCash(actor, amount, creditCardAmount)
	}
}

func (m Multi) StaffBillPay(bill pos.StaffBill, actor string, amount int, at time.Time) {
	for _, v := range m {
		v.StaffBillPay(bill, actor, amount, at)
	}
}

func (m Multi) End() {
	for _, v := range m {
		v.End()
	}
}
