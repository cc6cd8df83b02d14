// Package pos defines the point-of-sale value types shared by the ledger,
// its replay consumers and the host application.
//
// The types here carry no persistence logic. The one exception is the Bill
// Identifier grammar (ParseBillID / BillID.String), which is part of the
// value's identity: every variant has exactly one string encoding and
// parsing that encoding yields the same variant back.
package pos
