package pos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSellingPeriod_RemainingCash(t *testing.T) {
	p := &SellingPeriod{ID: 3, OpenCash: 5000}
	p.Sales = []*Sale{
		{Quantity: 2, PricePerUnit: 450, BillID: PeriodCash{PeriodID: 3}},
		{Quantity: 1, PricePerUnit: 300, BillID: PeriodCard{PeriodID: 3}},
		{Quantity: 1, PricePerUnit: 200, BillID: StaffBill{Username: "Kati"}},
		{Quantity: 1, PricePerUnit: 100, BillID: PeriodCash{PeriodID: 2}},
	}

	assert.Equal(t, 5900, p.RemainingCash())
	assert.Equal(t, 300, p.CardTurnover())
}

func TestSellingPeriod_IsOpen(t *testing.T) {
	p := &SellingPeriod{ID: 1}
	assert.True(t, p.IsOpen())

	p.EndTime = time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)
	assert.False(t, p.IsOpen())
}

func TestSale_ArticleName(t *testing.T) {
	s := &Sale{}
	assert.Equal(t, "", s.ArticleName())

	s.Article = &Article{Name: "Kávé"}
	assert.Equal(t, "Kávé", s.ArticleName())
}
