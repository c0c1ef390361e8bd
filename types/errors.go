package types

import (
	"errors"
	"fmt"
)

// DappError is the typed failure every pipeline stage returns.
type DappError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Err     error       `json:"-"`
}

func (e *DappError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DappError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrInvalidInput      = "INVALID_INPUT"
	ErrInvalidOperation  = "INVALID_OPERATION"
	ErrAccountNotFound   = "ACCOUNT_NOT_FOUND"
	ErrSimulationFailed  = "SIMULATION_FAILED"
	ErrSignerDeclined    = "SIGNER_DECLINED"
	ErrSignerError       = "SIGNER_ERROR"
	ErrNetworkMismatch   = "NETWORK_MISMATCH"
	ErrNetworkRejection  = "NETWORK_REJECTION"
	ErrNetworkError      = "NETWORK_ERROR"
	ErrMalformedResponse = "MALFORMED_RESPONSE"
	ErrNoHashReturned    = "NO_HASH_RETURNED"
	ErrCancelled         = "CANCELLED"
	ErrBusy              = "BUSY"
	ErrConfigError       = "CONFIG_ERROR"
	ErrUnknown           = "UNKNOWN"
)

// NewError creates a DappError wrapping err, which may be nil.
func NewError(code string, message string, err error) *DappError {
	return &DappError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// FindError returns the first DappError in err's chain carrying code.
func FindError(err error, code string) (*DappError, bool) {
	for err != nil {
		var de *DappError
		if !errors.As(err, &de) {
			return nil, false
		}
		if de.Code == code {
			return de, true
		}
		err = de.Err
	}
	return nil, false
}

// HasCode reports whether any DappError in err's chain carries code.
func HasCode(err error, code string) bool {
	_, ok := FindError(err, code)
	return ok
}

// ErrorCode returns the code of the outermost DappError in err's chain.
func ErrorCode(err error) string {
	var de *DappError
	if errors.As(err, &de) {
		return de.Code
	}
	return ErrUnknown
}
