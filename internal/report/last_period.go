package report

import (
	"fmt"

	"github.com/roach88/tillbook/internal/ledger"
	"github.com/roach88/tillbook/internal/pos"
)

// LastPeriod remembers the most recently opened selling period.
type LastPeriod struct {
	ledger.NopVisitor
	Period *pos.SellingPeriod
}

func (v *LastPeriod) Begin() { v.Period = nil }

func (v *LastPeriod) BeginPeriod(p *pos.SellingPeriod, _ string) { v.Period = p }

// NextID returns the id for the next period to open.
func (v *LastPeriod) NextID() int {
	if v.Period == nil {
		return 1
	}
	return v.Period.ID + 1
}

// Unclosed reports whether the last period was never closed, i.e. the
// application stopped while the till was open.
func (v *LastPeriod) Unclosed() bool {
	return v.Period != nil && v.Period.IsOpen()
}

// FindLastPeriod replays r and returns the last opened period, or nil.
func FindLastPeriod(r Replayer) (*pos.SellingPeriod, error) {
	v := &LastPeriod{}
	if err := r.Replay(v); err != nil {
		return nil, fmt.Errorf("find last period: %w", err)
	}
	return v.Period, nil
}
