package pos

import "time"

// Article is a sellable product from the article catalog.
type Article struct {
	Name         string `yaml:"name" json:"name"`
	Barcode      string `yaml:"barcode,omitempty" json:"barcode,omitempty"`
	SellingPrice int    `yaml:"selling_price" json:"selling_price"`
}

// Sale is one sold line item.
//
// Article is nil when the product name could not be resolved against the
// catalog (or was never known). PurchaseID groups the items of one checkout;
// zero means absent.
type Sale struct {
	Timestamp    time.Time
	Article      *Article
	Quantity     int
	PricePerUnit int
	Seller       string
	BillID       BillID
	PurchaseID   int
}

// Total returns quantity * unit price.
func (s *Sale) Total() int {
	return s.Quantity * s.PricePerUnit
}

// ArticleName returns the article name or "" when the sale has no article.
func (s *Sale) ArticleName() string {
	if s.Article == nil {
		return ""
	}
	return s.Article.Name
}

// SellingPeriod is the interval between a till opening and its closing.
//
// A period is open while EndTime is zero. Sales holds the sales recorded
// between the opening and the matching closing, in ledger order.
type SellingPeriod struct {
	ID       int
	Username string

	BeginTime            time.Time
	OpenCash             int
	OpenCreditCardAmount int

	EndTime               time.Time
	CloseCash             int
	CloseCreditCardAmount int

	Sales []*Sale
}

// IsOpen reports whether the period has no recorded close.
func (p *SellingPeriod) IsOpen() bool {
	return p.EndTime.IsZero()
}

// RemainingCash returns the cash expected in the till: the opening cash plus
// every sale of this period that was settled in cash.
func (p *SellingPeriod) RemainingCash() int {
	cash := p.OpenCash
	for _, s := range p.Sales {
		if b, ok := s.BillID.(PeriodCash); ok && b.PeriodID == p.ID {
			cash += s.Total()
		}
	}
	return cash
}

// CardTurnover returns the total of the period's card-settled sales.
func (p *SellingPeriod) CardTurnover() int {
	total := 0
	for _, s := range p.Sales {
		if b, ok := s.BillID.(PeriodCard); ok && b.PeriodID == p.ID {
			total += s.Total()
		}
	}
	return total
}
