package ledger

import (
	"bufio"
	"errors"
	"io"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/roach88/tillbook/internal/pos"
)

// Visitor receives the events of a replay in ledger order.
//
// Begin and End bracket every successful replay. The period passed to
// BeginPeriod is the same value later passed to EndPeriod and accumulates
// the sales replayed in between.
type Visitor interface {
	Begin()
	BeginPeriod(period *pos.SellingPeriod, comment string)
	Sale(sale *pos.Sale)
	EndPeriod(period *pos.SellingPeriod, comment string)
	ModifyCash(actor string, amount, creditCardAmount int)
	StaffBillPay(bill pos.StaffBill, actor string, amount int, timestamp time.Time)
	End()
}

// NopVisitor implements every Visitor method as a no-op. Embed it and
// override the callbacks you need.
type NopVisitor struct{}

func (NopVisitor) Begin()                                             {}
func (NopVisitor) BeginPeriod(*pos.SellingPeriod, string)             {}
func (NopVisitor) Sale(*pos.Sale)                                     {}
func (NopVisitor) EndPeriod(*pos.SellingPeriod, string)               {}
func (NopVisitor) ModifyCash(string, int, int)                        {}
func (NopVisitor) StaffBillPay(pos.StaffBill, string, int, time.Time) {}
func (NopVisitor) End()                                               {}

// Replayer decodes a ledger stream into Visitor callbacks.
// The zero value replays without a catalog in time.Local.
type Replayer struct {
	Catalog  ArticleFinder
	Location *time.Location
}

// Replay reads r to the end and calls v once per record.
//
// The header row is skipped when it is the first row. Blank lines and empty
// fields are ignored by the tokenizer. Any FORMAT_ERROR or CORRUPT_LEDGER
// aborts the replay without calling End.
func (rp Replayer) Replay(r io.Reader, v Visitor) error {
	_, err := rp.replay(r, v)
	return err
}

// replayState is the scratch of one replay pass.
type replayState struct {
	period *pos.SellingPeriod
	row    int
}

// replay returns the number of rows read.
func (rp Replayer) replay(r io.Reader, v Visitor) (int, error) {
	loc := rp.Location
	if loc == nil {
		loc = time.Local
	}

	st := &replayState{}
	v.Begin()

	br := bufio.NewReader(r)
	var field []byte
	cols := make([]string, 0, MaxColumns)

	flush := func() error {
		if len(field) == 0 {
			return nil
		}
		if len(cols) == MaxColumns {
			return corrupt(st.row, len(cols), "more than %d columns", MaxColumns)
		}
		if !utf8.Valid(field) {
			return formatError(len(cols), nil, "invalid UTF-8")
		}
		cols = append(cols, string(field))
		field = field[:0]
		return nil
	}

	for {
		b, err := br.ReadByte()
		if errors.Is(err, io.EOF) {
			if len(field) != 0 || len(cols) != 0 {
				return st.row, corrupt(st.row, len(cols), "unexpected end of ledger inside a row")
			}
			break
		}
		if err != nil {
			return st.row, storageError(err, "read ledger")
		}

		switch b {
		case '\t':
			if err := flush(); err != nil {
				return st.row, withRow(err, st.row)
			}
		case '\n':
			if err := flush(); err != nil {
				return st.row, withRow(err, st.row)
			}
			if len(cols) == 0 {
				continue
			}
			if len(cols) < MinColumns {
				return st.row, corrupt(st.row, len(cols), "row ends after %d columns, want %d-%d", len(cols), MinColumns, MaxColumns)
			}
			if st.row != 0 || !slices.Equal(cols, HeaderColumns) {
				if err := rp.handleRow(st, cols, loc, v); err != nil {
					return st.row, withRow(err, st.row)
				}
			}
			cols = cols[:0]
			st.row++
		default:
			field = append(field, b)
		}
	}

	v.End()
	return st.row, nil
}

func (rp Replayer) handleRow(st *replayState, cols []string, loc *time.Location, v Visitor) error {
	rec, err := DecodeRecord(cols, loc)
	if err != nil {
		return err
	}

	switch rec.Kind() {
	case KindPeriodOpen:
		id, ok := rec.BillID.(pos.PeriodCash)
		if !ok {
			return corrupt(st.row, ColBillID, "period opening without period id")
		}
		if st.period != nil {
			return corrupt(st.row, ColBillID, "period %d opened while period %d is open", id.PeriodID, st.period.ID)
		}
		st.period = &pos.SellingPeriod{
			ID:                   id.PeriodID,
			Username:             rec.Actor,
			BeginTime:            rec.Timestamp,
			OpenCash:             -rec.PricePerUnit,
			OpenCreditCardAmount: amountOrZero(rec.CreditCardAmount),
			Sales:                []*pos.Sale{},
		}
		v.BeginPeriod(st.period, rec.Comment)

	case KindPeriodClose:
		id, ok := rec.BillID.(pos.PeriodCash)
		if !ok {
			return corrupt(st.row, ColBillID, "period closing without period id")
		}
		if st.period == nil {
			return corrupt(st.row, ColBillID, "period %d closed but no period is open", id.PeriodID)
		}
		if st.period.ID != id.PeriodID {
			return corrupt(st.row, ColBillID, "period id mismatch %d vs %d", st.period.ID, id.PeriodID)
		}
		p := st.period
		p.CloseCash = rec.PricePerUnit
		p.CloseCreditCardAmount = amountOrZero(rec.CreditCardAmount)
		p.EndTime = rec.Timestamp
		v.EndPeriod(p, rec.Comment)
		st.period = nil

	case KindModifyCash:
		v.ModifyCash(rec.Actor, rec.PricePerUnit, amountOrZero(rec.CreditCardAmount))

	case KindStaffBillPay:
		bill, ok := rec.BillID.(pos.StaffBill)
		if !ok {
			return corrupt(st.row, ColBillID, "staff bill payment without staff bill")
		}
		v.StaffBillPay(bill, rec.Actor, -rec.PricePerUnit, rec.Timestamp)

	default:
		if st.period == nil {
			return corrupt(st.row, ColProduct, "sale of %q outside a selling period", rec.ProductName)
		}
		sale := &pos.Sale{
			Timestamp:    rec.Timestamp,
			Article:      rp.findArticle(rec.ProductName),
			Quantity:     rec.Quantity,
			PricePerUnit: rec.PricePerUnit,
			Seller:       rec.Actor,
			BillID:       rec.BillID,
			PurchaseID:   rec.PurchaseID,
		}
		st.period.Sales = append(st.period.Sales, sale)
		v.Sale(sale)
	}

	return nil
}

func (rp Replayer) findArticle(name string) *pos.Article {
	if rp.Catalog == nil || name == NoArticleName {
		return nil
	}
	a, ok := rp.Catalog.FindArticle(name)
	if !ok {
		return nil
	}
	return a
}

// amountOrZero maps an absent card amount to zero turnover.
func amountOrZero(amount int) int {
	if amount == NotApplicable {
		return 0
	}
	return amount
}

// withRow stamps the replay row onto a ledger error that lacks one.
func withRow(err error, row int) error {
	var le *Error
	if errors.As(err, &le) && le.Row < 0 {
		le.Row = row
	}
	return err
}
