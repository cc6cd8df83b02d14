package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/tillbook/internal/pos"
)

// Bill kinds stored in sales.bill_kind.
const (
	billKindCash  = "cash"
	billKindCard  = "card"
	billKindStaff = "staff"
	billKindNone  = "none"
)

const dayLayout = "2006-01-02"

// marshalCounts converts a name->count map to JSON TEXT for storage.
// json.Marshal sorts map keys, so equal maps give equal text.
func marshalCounts(counts map[string]int) (string, error) {
	if len(counts) == 0 {
		return "{}", nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(counts); err != nil {
		return "", fmt.Errorf("marshal counts: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// unmarshalCounts parses JSON TEXT written by marshalCounts.
func unmarshalCounts(data string) (map[string]int, error) {
	counts := map[string]int{}
	if data == "" || data == "{}" {
		return counts, nil
	}
	if err := json.Unmarshal([]byte(data), &counts); err != nil {
		return nil, fmt.Errorf("unmarshal counts: %w", err)
	}
	return counts, nil
}

// marshalBill splits a bill id into its stored kind and text. An absent
// bill is stored as kind none with the ledger's "-" marker.
func marshalBill(b pos.BillID) (kind, text string, err error) {
	switch b := b.(type) {
	case nil:
		return billKindNone, pos.AbsentBillID, nil
	case pos.PeriodCash:
		return billKindCash, b.String(), nil
	case pos.PeriodCard:
		return billKindCard, b.String(), nil
	case pos.StaffBill:
		return billKindStaff, b.Username, nil
	default:
		return "", "", fmt.Errorf("marshal bill: unsupported bill id %T", b)
	}
}

// unmarshalBill rebuilds the bill id from its text column.
func unmarshalBill(text string) (pos.BillID, error) {
	b, err := pos.ParseBillID(text)
	if err != nil {
		return nil, fmt.Errorf("unmarshal bill %q: %w", text, err)
	}
	return b, nil
}

// marshalTime stores t with its offset so it parses back to the same instant.
func marshalTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func unmarshalTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unmarshal time %q: %w", s, err)
	}
	return t, nil
}
