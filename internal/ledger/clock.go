package ledger

import "time"

// Clock supplies wall-clock time for the events whose timestamp is taken at
// write time (ModifyCash, StaffBillPay).
type Clock interface {
	Now() time.Time
}

// SystemClock reads the operating system clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}
