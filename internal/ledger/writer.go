package ledger

import "github.com/roach88/tillbook/internal/pos"

// WriteEvent appends e using the method for its variant.
func (l *Ledger) WriteEvent(e Event) error {
	switch e := e.(type) {
	case BeginPeriod:
		return l.BeginPeriod(e.Period, e.Comment)
	case Sale:
		return l.Sale(e.Sale)
	case EndPeriod:
		return l.EndPeriod(e.Period, e.Comment)
	case ModifyCash:
		return l.ModifyCash(e.Actor, e.Cash, e.CreditCardAmount)
	case StaffBillPay:
		return l.StaffBillPay(e.Bill, e.Administrator, e.Amount)
	case nil:
		return invalidArgument("nil event")
	default:
		return invalidArgument("unsupported event %T", e)
	}
}

// BeginPeriod records the opening of period. The opening cash is written
// negated in the price column.
func (l *Ledger) BeginPeriod(period *pos.SellingPeriod, comment string) error {
	if err := validatePeriod(period, true); err != nil {
		return err
	}
	if err := validateComment(comment); err != nil {
		return err
	}

	return l.append(Record{
		Timestamp:        period.BeginTime,
		ProductName:      PeriodOpenName,
		Quantity:         1,
		PricePerUnit:     -period.OpenCash,
		Actor:            period.Username,
		BillID:           pos.PeriodCash{PeriodID: period.ID},
		CreditCardAmount: period.OpenCreditCardAmount,
		Comment:          comment,
	})
}

// Sale records one sold line item.
func (l *Ledger) Sale(sale *pos.Sale) error {
	if sale == nil {
		return invalidArgument("nil sale")
	}
	if sale.Seller == "" {
		return invalidArgument("empty seller name")
	}
	if !pos.ValidText(sale.Seller) {
		return invalidArgument("seller name %q contains a separator", sale.Seller)
	}
	if sale.Timestamp.IsZero() {
		return invalidArgument("sale has no timestamp")
	}

	product := NoArticleName
	if sale.Article != nil {
		if sale.Article.Name == "" {
			return invalidArgument("empty product name")
		}
		if !pos.ValidText(sale.Article.Name) {
			return invalidArgument("product name %q contains a separator", sale.Article.Name)
		}
		if IsReservedName(sale.Article.Name) {
			return invalidArgument("product name %q is reserved", sale.Article.Name)
		}
		product = sale.Article.Name
	}
	if err := pos.ValidateBillID(sale.BillID); err != nil {
		return invalidArgument("sale bill id: %v", err)
	}
	if sale.PurchaseID < 0 {
		return invalidArgument("negative purchase id %d", sale.PurchaseID)
	}

	return l.append(Record{
		Timestamp:        sale.Timestamp,
		ProductName:      product,
		Quantity:         sale.Quantity,
		PricePerUnit:     sale.PricePerUnit,
		Actor:            sale.Seller,
		BillID:           sale.BillID,
		CreditCardAmount: NotApplicable,
		PurchaseID:       sale.PurchaseID,
	})
}

// EndPeriod records the closing of period with the cash left in the till.
func (l *Ledger) EndPeriod(period *pos.SellingPeriod, comment string) error {
	if err := validatePeriod(period, false); err != nil {
		return err
	}
	if err := validateComment(comment); err != nil {
		return err
	}

	return l.append(Record{
		Timestamp:        period.EndTime,
		ProductName:      PeriodCloseName,
		Quantity:         1,
		PricePerUnit:     period.CloseCash,
		Actor:            period.Username,
		BillID:           pos.PeriodCash{PeriodID: period.ID},
		CreditCardAmount: period.CloseCreditCardAmount,
		Comment:          comment,
	})
}

// ModifyCash records cash moved in (positive) or out (negative) of the till,
// stamped with the ledger clock.
func (l *Ledger) ModifyCash(actor string, cash, creditCardAmount int) error {
	if !pos.ValidText(actor) {
		return invalidArgument("invalid actor name %q", actor)
	}

	return l.appendStamped(Record{
		ProductName:      ModifyCashName,
		Quantity:         0,
		PricePerUnit:     cash,
		Actor:            actor,
		CreditCardAmount: creditCardAmount,
	})
}

// StaffBillPay records administrator accepting amount towards bill,
// stamped with the ledger clock. The amount is written negated.
func (l *Ledger) StaffBillPay(bill pos.StaffBill, administrator string, amount int) error {
	if !pos.ValidText(administrator) {
		return invalidArgument("invalid administrator name %q", administrator)
	}
	if err := pos.ValidateBillID(bill); err != nil {
		return invalidArgument("staff bill: %v", err)
	}

	return l.appendStamped(Record{
		ProductName:      StaffBillPayName,
		Quantity:         1,
		PricePerUnit:     -amount,
		Actor:            administrator,
		BillID:           bill,
		CreditCardAmount: 0,
	})
}

func (l *Ledger) append(r Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.appendRecordLocked(r)
}

// appendStamped stamps r with the ledger clock under the writer lock.
// File order of stamped lines follows clock order.
func (l *Ledger) appendStamped(r Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	r.Timestamp = l.clock.Now()
	return l.appendRecordLocked(r)
}

func (l *Ledger) appendRecordLocked(r Record) error {
	r.Timestamp = r.Timestamp.In(l.loc)
	return l.appendLocked(r.Kind().String(), EncodeRecord(r))
}

func validatePeriod(period *pos.SellingPeriod, opening bool) error {
	if period == nil {
		return invalidArgument("nil period")
	}
	at, edge := period.EndTime, "end"
	if opening {
		at, edge = period.BeginTime, "begin"
	}
	if period.Username == "" {
		return invalidArgument("empty seller name")
	}
	if !pos.ValidText(period.Username) {
		return invalidArgument("seller name %q contains a separator", period.Username)
	}
	if period.ID < 0 {
		return invalidArgument("negative period id %d", period.ID)
	}
	if at.IsZero() {
		return invalidArgument("period %d has no %s time", period.ID, edge)
	}
	return nil
}

func validateComment(comment string) error {
	if comment != "" && !pos.ValidText(comment) {
		return invalidArgument("comment contains a separator")
	}
	return nil
}
