package ledger

import "github.com/roach88/tillbook/internal/pos"

// Event is a writable ledger event. The set of variants is closed:
// BeginPeriod, Sale, EndPeriod, ModifyCash and StaffBillPay.
type Event interface {
	Kind() Kind
	isEvent()
}

// BeginPeriod opens a selling period with the cash found in the till.
type BeginPeriod struct {
	Period  *pos.SellingPeriod
	Comment string
}

// Sale records one sold line item inside the open period.
type Sale struct {
	Sale *pos.Sale
}

// EndPeriod closes a selling period with the cash left in the till.
type EndPeriod struct {
	Period  *pos.SellingPeriod
	Comment string
}

// ModifyCash records cash put into or taken out of the till outside a sale.
type ModifyCash struct {
	Actor            string
	Cash             int
	CreditCardAmount int
}

// StaffBillPay records a staff member settling their account.
type StaffBillPay struct {
	Bill          pos.StaffBill
	Administrator string
	Amount        int
}

func (BeginPeriod) Kind() Kind  { return KindPeriodOpen }
func (Sale) Kind() Kind         { return KindSale }
func (EndPeriod) Kind() Kind    { return KindPeriodClose }
func (ModifyCash) Kind() Kind   { return KindModifyCash }
func (StaffBillPay) Kind() Kind { return KindStaffBillPay }

func (BeginPeriod) isEvent()  {}
func (Sale) isEvent()         {}
func (EndPeriod) isEvent()    {}
func (ModifyCash) isEvent()   {}
func (StaffBillPay) isEvent() {}
