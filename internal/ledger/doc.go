// Package ledger records and replays point-of-sale events in an append-only,
// tab-delimited text file.
//
// Every line of the file is one Record:
//
//	timestamp  product  quantity  price  actor  bill-id  card-amount  purchase-id  [comment]
//
// The product column either names a sold article or holds one of the reserved
// sentinel names (PeriodOpenName, PeriodCloseName, ModifyCashName,
// StaffBillPayName) that mark a structural event. Absent optional values are
// written as "-". The comment column is omitted when empty.
//
// # Writing
//
// Ledger.WriteEvent (and the per-event methods) validate their arguments,
// encode one line and append it at the end of the file under a single mutex.
// A failed call leaves the file untouched.
//
// # Replaying
//
// Ledger.Replay streams the file from offset 0 and drives a Visitor with one
// callback per record, rebuilding the open selling period as it goes. Replay
// sees the file as it was when Replay was called; lines appended afterwards
// are not visited. A replay that fails has already delivered a prefix of
// callbacks; callers must discard whatever state they built from it.
//
// Field values are not escaped. Text containing TAB, LF or CR is rejected by
// the writer; pos.SanitizeText prepares user input.
package ledger
