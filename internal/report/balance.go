package report

import (
	"time"

	"github.com/roach88/tillbook/internal/ledger"
	"github.com/roach88/tillbook/internal/pos"
)

// Balance follows the cash in the till and the debt on each staff bill.
//
// Opening a period resets the till to the counted opening cash. Cash sales,
// cash modifications and staff bill payments move it. Closing a period
// records the gap between expected and counted cash and continues from the
// counted amount.
type Balance struct {
	ledger.NopVisitor

	Cash          int            `json:"cash"`
	CardTurnover  int            `json:"card_turnover"`
	Modifications int            `json:"modifications"`
	Discrepancies map[int]int    `json:"discrepancies"`
	StaffDebt     map[string]int `json:"staff_debt"`
	LastPayment   time.Time      `json:"last_payment,omitzero"`
}

func (v *Balance) Begin() {
	*v = Balance{
		Discrepancies: make(map[int]int),
		StaffDebt:     make(map[string]int),
	}
}

func (v *Balance) BeginPeriod(p *pos.SellingPeriod, _ string) {
	v.Cash = p.OpenCash
}

func (v *Balance) Sale(s *pos.Sale) {
	switch b := s.BillID.(type) {
	case pos.PeriodCash:
		v.Cash += s.Total()
	case pos.PeriodCard:
		v.CardTurnover += s.Total()
	case pos.StaffBill:
		v.StaffDebt[b.Username] += s.Total()
	}
}

func (v *Balance) EndPeriod(p *pos.SellingPeriod, _ string) {
	if diff := p.CloseCash - v.Cash; diff != 0 {
		v.Discrepancies[p.ID] = diff
	}
	v.Cash = p.CloseCash
}

func (v *Balance) ModifyCash(_ string, amount, creditCardAmount int) {
	v.Cash += amount
	v.CardTurnover += creditCardAmount
	v.Modifications++
}

func (v *Balance) StaffBillPay(bill pos.StaffBill, _ string, amount int, at time.Time) {
	v.Cash += amount
	v.StaffDebt[bill.Username] -= amount
	v.LastPayment = at
}
