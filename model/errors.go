package model

import (
	"errors"
	"fmt"

	"xdao.co/cryptodiff/differ"
	"xdao.co/cryptodiff/operation"
	"xdao.co/cryptodiff/storage"
)

type ErrorCode string

const (
	ErrInvalidRequest     ErrorCode = "INVALID_REQUEST"
	ErrMalformed          ErrorCode = "MALFORMED"
	ErrInvalidDescription ErrorCode = "INVALID_DESCRIPTION"
	ErrInvalidCID         ErrorCode = "INVALID_CID"
	ErrNotFound           ErrorCode = "NOT_FOUND"
	ErrCIDMismatch        ErrorCode = "CID_MISMATCH"
	ErrImmutable          ErrorCode = "IMMUTABLE"
	ErrFault              ErrorCode = "MODULE_FAULT"
	ErrInternal           ErrorCode = "INTERNAL"
)

// CodedError is a stable error with a machine-readable code and a human message.
type CodedError struct {
	Code    ErrorCode `json:"code"`
	RuleID  string    `json:"ruleID,omitempty"`
	Message string    `json:"message"`
}

func (e *CodedError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewError(code ErrorCode, message string) *CodedError {
	return &CodedError{Code: code, Message: message}
}

// FromError classifies err. A *CodedError is returned unchanged.
func FromError(err error) *CodedError {
	if err == nil {
		return nil
	}
	var ce *CodedError
	if errors.As(err, &ce) {
		return ce
	}
	code := ErrInternal
	switch {
	case operation.IsDecodeFailure(err):
		code = ErrMalformed
	case operation.Is(err, operation.InvalidDescription):
		code = ErrInvalidDescription
	case errors.Is(err, storage.ErrNotFound):
		code = ErrNotFound
	case errors.Is(err, storage.ErrInvalidCID):
		code = ErrInvalidCID
	case errors.Is(err, storage.ErrCIDMismatch):
		code = ErrCIDMismatch
	case errors.Is(err, storage.ErrImmutable):
		code = ErrImmutable
	case errors.Is(err, differ.ErrFault):
		code = ErrFault
	}
	return &CodedError{Code: code, RuleID: operation.RuleID(err), Message: err.Error()}
}
