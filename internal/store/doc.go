// Package store projects a sales ledger into SQLite for reporting queries.
//
// The ledger file is the only source of truth. Project replays it and
// rewrites the projection tables inside one transaction:
//   - periods: one row per opened selling period, with its closing summary
//   - sales: one row per sold line item
//   - cash_modifications: cash moved in or out of the till
//   - staff_bill_payments: payments accepted against staff bills
//
// Every run is recorded in projection_runs under a time-ordered UUID.
//
// # Ordering
//
// All rows carry seq, the position of the event in the replay. Queries order
// by seq (or by a derived key, then seq), never by wall-clock timestamps, so
// results are identical for identical ledgers.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
