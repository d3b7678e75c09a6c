package terminal

import (
	"errors"
	"fmt"
)

// Error represents a terminal infrastructure error
type Error struct {
	// Type is the error type
	Type ErrorType

	// Message is a human-readable error message
	Message string

	// Err is the underlying cause, if any
	Err error
}

// ErrorType categorizes terminal errors
type ErrorType int

const (
	// ErrChannelOpen indicates the line could not be opened or configured
	ErrChannelOpen ErrorType = iota

	// ErrMultiplexWait indicates waiting on the console or line failed
	ErrMultiplexWait

	// ErrConfig indicates an invalid configuration
	ErrConfig
)

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (t ErrorType) String() string {
	switch t {
	case ErrChannelOpen:
		return "can't open line"
	case ErrMultiplexWait:
		return "wait failed"
	case ErrConfig:
		return "bad configuration"
	default:
		return "unknown error"
	}
}

// NewError creates a new terminal error
func NewError(errType ErrorType, message string, err error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// IsMultiplexWait checks if an error ended the multiplexing loop
func IsMultiplexWait(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == ErrMultiplexWait
}

// IsChannelOpen checks if an error came from opening the line
func IsChannelOpen(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == ErrChannelOpen
}
