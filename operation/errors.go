package operation

import (
	"errors"

	"xdao.co/cryptodiff/cursor"
)

// Category is a stable class of operation error. Callers should branch on
// Category/RuleID rather than matching error strings.
type Category string

const (
	// Underrun: the input ended before the operation was complete.
	Underrun Category = "Underrun"
	// Malformed: the bytes are present but structurally invalid.
	Malformed Category = "Malformed"
	// InvalidDescription: a structured description is missing a key, has an
	// unknown key, or has an unparseable value.
	InvalidDescription Category = "InvalidDescription"
)

// Rule identifiers.
const (
	RuleTruncated       = "OP-WIRE-001"
	RuleBadLength       = "OP-WIRE-002"
	RuleBadBignum       = "OP-WIRE-003"
	RuleBadBool         = "OP-WIRE-004"
	RuleUnknownKind     = "OP-WIRE-005"
	RuleTerminator      = "OP-ENV-001"
	RuleTrailingBytes   = "OP-ENV-002"
	RuleMissingKey      = "OP-DESC-001"
	RuleUnknownKey      = "OP-DESC-002"
	RuleBadValue        = "OP-DESC-003"
	RuleUnknownIdentity = "OP-DESC-004"
	RuleTooLong         = "OP-DESC-005"
)

// Error is the structured error returned by decoding and description parsing.
//
// Message is intended for humans; do not match on it.
type Error struct {
	Category Category
	RuleID   string
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(cat Category, ruleID, msg string) error {
	return &Error{Category: cat, RuleID: ruleID, Message: msg}
}

// wireError classifies a cursor failure.
func wireError(msg string, cause error) error {
	switch {
	case errors.Is(cause, cursor.ErrUnderrun):
		return &Error{Category: Underrun, RuleID: RuleTruncated, Message: msg, Cause: cause}
	default:
		return &Error{Category: Malformed, RuleID: RuleBadLength, Message: msg, Cause: cause}
	}
}

// Is reports whether err is (or wraps) an *Error in the given category.
func Is(err error, cat Category) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Category == cat
}

// IsDecodeFailure reports whether err is an Underrun or Malformed error.
func IsDecodeFailure(err error) bool {
	return Is(err, Underrun) || Is(err, Malformed)
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
