// Package report holds the ledger visitors used by the host application:
// finding the last selling period, summarizing closed periods, tracking the
// till and staff balances, daily article statistics and replay traces.
//
// Each visitor is single-use state for one replay. Create a new value (or
// rely on Begin resetting it) for every pass.
package report

import "github.com/roach88/tillbook/internal/ledger"

// Replayer is anything that can drive a ledger visitor, usually
// *ledger.Ledger.
type Replayer interface {
	Replay(v ledger.Visitor) error
}
