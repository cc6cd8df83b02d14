package pos

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// AbsentBillID is the encoding of a missing bill identifier.
const AbsentBillID = "-"

// cardMarker is appended to the period number of a card-settled bill.
const cardMarker = "K"

// ErrInvalidBillID is returned for input that matches none of the bill
// identifier shapes.
var ErrInvalidBillID = errors.New("invalid bill id")

// BillID identifies how a sale was settled.
//
// The variants have disjoint encodings:
//
//	PeriodCash{7}      "7"
//	PeriodCard{7}      "7K"
//	StaffBill{"Kati"}  "Kati"
//
// A staff username therefore must not start with a digit or a sign.
type BillID interface {
	String() string
	isBillID()
}

// PeriodCash is a sale paid in cash during a selling period.
type PeriodCash struct {
	PeriodID int
}

func (PeriodCash) isBillID() {}

func (b PeriodCash) String() string {
	return strconv.Itoa(b.PeriodID)
}

// PeriodCard is a sale paid by card during a selling period.
type PeriodCard struct {
	PeriodID int
}

func (PeriodCard) isBillID() {}

func (b PeriodCard) String() string {
	return strconv.Itoa(b.PeriodID) + cardMarker
}

// StaffBill is a sale charged to a staff member's account.
type StaffBill struct {
	Username string
}

func (StaffBill) isBillID() {}

func (b StaffBill) String() string {
	return b.Username
}

// ParseBillID parses the encoding produced by BillID.String.
// AbsentBillID parses to a nil BillID and no error.
func ParseBillID(s string) (BillID, error) {
	switch {
	case s == "":
		return nil, fmt.Errorf("%w: empty", ErrInvalidBillID)
	case s == AbsentBillID:
		return nil, nil
	case isDigits(strings.TrimSuffix(s, cardMarker)) && !isCanonicalNumber(strings.TrimSuffix(s, cardMarker)):
		return nil, fmt.Errorf("%w: %q: period number has a leading zero", ErrInvalidBillID, s)
	case isDigits(s):
		id, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidBillID, s, err)
		}
		return PeriodCash{PeriodID: id}, nil
	case strings.HasSuffix(s, cardMarker) && isDigits(strings.TrimSuffix(s, cardMarker)):
		id, err := strconv.Atoi(strings.TrimSuffix(s, cardMarker))
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidBillID, s, err)
		}
		return PeriodCard{PeriodID: id}, nil
	}

	if err := ValidateStaffUsername(s); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidBillID, s, err)
	}
	return StaffBill{Username: s}, nil
}

// ValidateBillID checks that b encodes to a string ParseBillID accepts and
// maps back to b. A nil BillID is valid (absent).
func ValidateBillID(b BillID) error {
	switch v := b.(type) {
	case nil:
		return nil
	case PeriodCash:
		if v.PeriodID < 0 {
			return fmt.Errorf("%w: negative period id %d", ErrInvalidBillID, v.PeriodID)
		}
	case PeriodCard:
		if v.PeriodID < 0 {
			return fmt.Errorf("%w: negative period id %d", ErrInvalidBillID, v.PeriodID)
		}
	case StaffBill:
		if err := ValidateStaffUsername(v.Username); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidBillID, err)
		}
	default:
		return fmt.Errorf("%w: unknown variant %T", ErrInvalidBillID, b)
	}
	return nil
}

// ValidateStaffUsername reports whether name can be used as a staff bill.
// Names starting with a digit or a sign would collide with the period
// variants, so they are rejected rather than guessed at.
func ValidateStaffUsername(name string) error {
	if !ValidText(name) {
		return fmt.Errorf("staff username %q is empty or contains a control separator", name)
	}
	if name == AbsentBillID {
		return fmt.Errorf("staff username %q is reserved", name)
	}
	switch c := name[0]; {
	case c >= '0' && c <= '9', c == '-', c == '+':
		return fmt.Errorf("staff username %q must not start with %q", name, c)
	}
	return nil
}

// isCanonicalNumber reports whether the digit string s is the form
// strconv.Itoa produces: no leading zero unless s is "0".
func isCanonicalNumber(s string) bool {
	return len(s) == 1 || s[0] != '0'
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
