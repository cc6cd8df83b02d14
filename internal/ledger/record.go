package ledger

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/tillbook/internal/pos"
)

// Column layout limits. The writer always emits the first eight columns;
// older files may stop after the bill id.
const (
	MinColumns = 6
	MaxColumns = 9
)

// Column positions.
const (
	ColTimestamp = iota
	ColProduct
	ColQuantity
	ColPrice
	ColActor
	ColBillID
	ColCreditCard
	ColPurchaseID
	ColComment
)

// Reserved product names marking structural events.
const (
	PeriodOpenName   = "NYITÁS"
	PeriodCloseName  = "ZÁRÁS"
	ModifyCashName   = "KASSZAMÓDOSÍTÁS"
	StaffBillPayName = "SZEMÉLYZETI SZÁMLA BEFIZETÉS"
)

// NoArticleName is written in the product column of a sale without an
// article.
const NoArticleName = "-"

// NotApplicable marks a credit card amount that does not apply to the
// record. It is encoded as "-" and is never a real amount.
const NotApplicable = -1

// absent is the encoding of a missing optional value.
const absent = "-"

// HeaderColumns are the captions of the first line of every ledger file.
var HeaderColumns = []string{
	"Időpont",
	"Termék",
	"Mennyiség",
	"Termékenkénti ár",
	"Eladó",
	"Periódusazonosító vagy személynév",
	"Bankkártya összeg",
	"Vásárlásazonosító",
}

// HeaderLine is HeaderColumns encoded as a ledger line.
var HeaderLine = strings.Join(HeaderColumns, "\t") + "\n"

// Kind is the event kind a record encodes, selected by its product name.
type Kind int

const (
	KindSale Kind = iota
	KindPeriodOpen
	KindPeriodClose
	KindModifyCash
	KindStaffBillPay
)

// String returns the kind name used in traces and logs.
func (k Kind) String() string {
	switch k {
	case KindSale:
		return "sale"
	case KindPeriodOpen:
		return "begin_period"
	case KindPeriodClose:
		return "end_period"
	case KindModifyCash:
		return "modify_cash"
	case KindStaffBillPay:
		return "staff_bill_pay"
	default:
		return "unknown"
	}
}

// KindOf maps a product column to a record kind. Anything that is not a
// reserved name is a sale.
func KindOf(productName string) Kind {
	switch norm.NFC.String(productName) {
	case PeriodOpenName:
		return KindPeriodOpen
	case PeriodCloseName:
		return KindPeriodClose
	case ModifyCashName:
		return KindModifyCash
	case StaffBillPayName:
		return KindStaffBillPay
	default:
		return KindSale
	}
}

// IsReservedName reports whether name is one of the sentinel product names
// or the no-article marker.
func IsReservedName(name string) bool {
	return KindOf(name) != KindSale || name == NoArticleName
}

// Record is one ledger line.
type Record struct {
	Timestamp        time.Time
	ProductName      string
	Quantity         int
	PricePerUnit     int
	Actor            string
	BillID           pos.BillID // nil when absent
	CreditCardAmount int        // NotApplicable when absent
	PurchaseID       int        // 0 when absent
	Comment          string     // omitted when empty
}

// Kind returns the event kind selected by the product name.
func (r Record) Kind() Kind {
	return KindOf(r.ProductName)
}

// HasCreditCardAmount reports whether the card column carries an amount.
func (r Record) HasCreditCardAmount() bool {
	return r.CreditCardAmount != NotApplicable
}

// Columns returns the record's fields in column order.
func (r Record) Columns() []string {
	cols := make([]string, 0, MaxColumns)
	cols = append(cols,
		FormatTimestamp(r.Timestamp),
		r.ProductName,
		strconv.Itoa(r.Quantity),
		strconv.Itoa(r.PricePerUnit),
		r.Actor,
	)

	if r.BillID == nil {
		cols = append(cols, absent)
	} else {
		cols = append(cols, r.BillID.String())
	}

	if r.CreditCardAmount == NotApplicable {
		cols = append(cols, absent)
	} else {
		cols = append(cols, strconv.Itoa(r.CreditCardAmount))
	}

	if r.PurchaseID == 0 {
		cols = append(cols, absent)
	} else {
		cols = append(cols, strconv.Itoa(r.PurchaseID))
	}

	if r.Comment != "" {
		cols = append(cols, r.Comment)
	}
	return cols
}

// EncodeRecord returns the ledger line for r, newline included.
// Field values are not escaped.
func EncodeRecord(r Record) string {
	return strings.Join(r.Columns(), "\t") + "\n"
}

// DecodeRecord parses the columns of one row. Timestamps are interpreted as
// wall-clock time in loc.
func DecodeRecord(cols []string, loc *time.Location) (Record, error) {
	if len(cols) < MinColumns || len(cols) > MaxColumns {
		return Record{}, formatError(-1, nil, "expected %d-%d columns, got %d", MinColumns, MaxColumns, len(cols))
	}

	var r Record
	var err error

	if r.Timestamp, err = ParseTimestamp(cols[ColTimestamp], loc); err != nil {
		return Record{}, formatError(ColTimestamp, err, "invalid timestamp %q", cols[ColTimestamp])
	}
	r.ProductName = cols[ColProduct]
	if r.Quantity, err = strconv.Atoi(cols[ColQuantity]); err != nil {
		return Record{}, formatError(ColQuantity, err, "invalid quantity %q", cols[ColQuantity])
	}
	if r.PricePerUnit, err = strconv.Atoi(cols[ColPrice]); err != nil {
		return Record{}, formatError(ColPrice, err, "invalid price %q", cols[ColPrice])
	}
	r.Actor = cols[ColActor]
	if r.BillID, err = pos.ParseBillID(cols[ColBillID]); err != nil {
		return Record{}, formatError(ColBillID, err, "invalid bill id %q", cols[ColBillID])
	}

	r.CreditCardAmount = NotApplicable
	if len(cols) > ColCreditCard && cols[ColCreditCard] != absent {
		if r.CreditCardAmount, err = strconv.Atoi(cols[ColCreditCard]); err != nil {
			return Record{}, formatError(ColCreditCard, err, "invalid credit card amount %q", cols[ColCreditCard])
		}
	}

	if len(cols) > ColPurchaseID && cols[ColPurchaseID] != absent {
		if r.PurchaseID, err = strconv.Atoi(cols[ColPurchaseID]); err != nil {
			return Record{}, formatError(ColPurchaseID, err, "invalid purchase id %q", cols[ColPurchaseID])
		}
	}

	if len(cols) > ColComment {
		r.Comment = cols[ColComment]
	}

	return r, nil
}

// Timestamp layouts. Seconds and fractions are written only when non-zero.
const (
	layoutMinutes = "2006-01-02T15:04"
	layoutSeconds = "2006-01-02T15:04:05"
)

// FormatTimestamp renders the wall-clock fields of t as an ISO-8601 local
// date-time without zone, omitting zero seconds and fractions.
func FormatTimestamp(t time.Time) string {
	ns := t.Nanosecond()
	switch {
	case ns == 0 && t.Second() == 0:
		return t.Format(layoutMinutes)
	case ns == 0:
		return t.Format(layoutSeconds)
	case ns%1_000_000 == 0:
		return t.Format(layoutSeconds + ".000")
	case ns%1_000 == 0:
		return t.Format(layoutSeconds + ".000000")
	default:
		return t.Format(layoutSeconds + ".000000000")
	}
}

// ParseTimestamp parses the output of FormatTimestamp in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	layout := layoutMinutes
	if len(s) > len(layoutMinutes) {
		// Fractional seconds are accepted after the seconds field.
		layout = layoutSeconds
	}
	return time.ParseInLocation(layout, s, loc)
}
