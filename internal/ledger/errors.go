package ledger

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes ledger errors.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates a write precondition was violated.
	// Nothing was written.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// ErrCodeFormat indicates a single column failed to parse.
	ErrCodeFormat ErrorCode = "FORMAT_ERROR"

	// ErrCodeCorrupt indicates a structural violation across rows.
	ErrCodeCorrupt ErrorCode = "CORRUPT_LEDGER"

	// ErrCodeStorage indicates the backing file could not be read or written.
	ErrCodeStorage ErrorCode = "STORAGE_ERROR"
)

// Error is returned by every ledger operation.
//
// Row and Column locate the offending input during replay; they are -1 when
// not applicable. Rows are counted from 0 over non-blank lines, header
// included.
type Error struct {
	Code    ErrorCode
	Message string
	Row     int
	Column  int
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	switch {
	case e.Row >= 0 && e.Column >= 0:
		msg += fmt.Sprintf(" (row=%d, column=%d)", e.Row, e.Column)
	case e.Row >= 0:
		msg += fmt.Sprintf(" (row=%d)", e.Row)
	case e.Column >= 0:
		msg += fmt.Sprintf(" (column=%d)", e.Column)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func invalidArgument(format string, args ...any) *Error {
	return &Error{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...), Row: -1, Column: -1}
}

func formatError(column int, err error, format string, args ...any) *Error {
	return &Error{Code: ErrCodeFormat, Message: fmt.Sprintf(format, args...), Row: -1, Column: column, Err: err}
}

func corrupt(row, column int, format string, args ...any) *Error {
	return &Error{Code: ErrCodeCorrupt, Message: fmt.Sprintf(format, args...), Row: row, Column: column}
}

func storageError(err error, format string, args ...any) *Error {
	return &Error{Code: ErrCodeStorage, Message: fmt.Sprintf(format, args...), Row: -1, Column: -1, Err: err}
}

func hasCode(err error, code ErrorCode) bool {
	var le *Error
	if errors.As(err, &le) {
		return le.Code == code
	}
	return false
}

// IsInvalidArgument reports whether err is a rejected write.
func IsInvalidArgument(err error) bool { return hasCode(err, ErrCodeInvalidArgument) }

// IsFormatError reports whether err is a column parse failure.
func IsFormatError(err error) bool { return hasCode(err, ErrCodeFormat) }

// IsCorrupt reports whether err is a structural ledger violation.
func IsCorrupt(err error) bool { return hasCode(err, ErrCodeCorrupt) }

// IsStorageError reports whether err is an I/O failure of the backing file.
func IsStorageError(err error) bool { return hasCode(err, ErrCodeStorage) }
