package xmodem

import (
	"errors"
	"fmt"
)

// Error represents an XMODEM transfer error
type Error struct {
	// Type is the error type
	Type ErrorType

	// Message is a human-readable error message
	Message string

	// Err is the underlying cause, if any
	Err error
}

// ErrorType categorizes XMODEM errors
type ErrorType int

const (
	// ErrFileOpen indicates the source file could not be opened
	ErrFileOpen ErrorType = iota

	// ErrHandshakeTimeout indicates the receiver never asked for the file
	ErrHandshakeTimeout

	// ErrLostSync indicates an unexpected reply, or none, to a packet
	ErrLostSync

	// ErrRetriesExhausted indicates a packet was rejected too many times
	ErrRetriesExhausted

	// ErrIO indicates an I/O error on the file or the channel
	ErrIO

	// ErrCancelled indicates the transfer was cancelled locally
	ErrCancelled
)

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("xmodem %s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("xmodem %s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (t ErrorType) String() string {
	switch t {
	case ErrFileOpen:
		return "file open error"
	case ErrHandshakeTimeout:
		return "receiver not ready"
	case ErrLostSync:
		return "lost sync"
	case ErrRetriesExhausted:
		return "too many failures"
	case ErrIO:
		return "I/O error"
	case ErrCancelled:
		return "cancelled"
	default:
		return "unknown error"
	}
}

// NewError creates a new XMODEM error
func NewError(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// WrapError creates a new XMODEM error with an underlying cause
func WrapError(errType ErrorType, message string, err error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

func isType(err error, t ErrorType) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// IsFileOpen checks if an error came from opening the source file
func IsFileOpen(err error) bool {
	return isType(err, ErrFileOpen)
}

// IsHandshakeTimeout checks if the receiver never became ready
func IsHandshakeTimeout(err error) bool {
	return isType(err, ErrHandshakeTimeout)
}

// IsLostSync checks if an error is a lost synchronization
func IsLostSync(err error) bool {
	return isType(err, ErrLostSync)
}

// IsRetriesExhausted checks if a packet ran out of retries
func IsRetriesExhausted(err error) bool {
	return isType(err, ErrRetriesExhausted)
}

// IsCancelled checks if an error indicates cancellation
func IsCancelled(err error) bool {
	return isType(err, ErrCancelled)
}
