package model

import (
	"errors"
	"fmt"
)

// Error kinds of a failed exchange; match them with errors.Is
var (
	// ErrConnection is a DNS, TCP or TLS connect failure or timeout
	ErrConnection = errors.New("connection error")
	// ErrTLSAuthentication is a failed TLS handshake or a rejected certificate
	ErrTLSAuthentication = errors.New("tls authentication error")
	// ErrMalformedResponse means the stream held no well-formed status line or headers
	ErrMalformedResponse = errors.New("malformed response")
	// ErrTransport is an I/O failure in the middle of a write or read
	ErrTransport = errors.New("transport error")
)

// ExchangeError describes the step of an exchange that failed
type ExchangeError struct {
	Kind error
	Op   string
	Err  error
}

func (e *ExchangeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *ExchangeError) Unwrap() error {
	return e.Err
}

// Is matches the error kind as well as the wrapped cause
func (e *ExchangeError) Is(target error) bool {
	return target == e.Kind
}

// NewConnectionError wraps err as an ErrConnection
func NewConnectionError(op string, err error) error {
	return &ExchangeError{Kind: ErrConnection, Op: op, Err: err}
}

// NewTLSAuthenticationError wraps err as an ErrTLSAuthentication
func NewTLSAuthenticationError(op string, err error) error {
	return &ExchangeError{Kind: ErrTLSAuthentication, Op: op, Err: err}
}

// NewMalformedResponseError creates an ErrMalformedResponse with a formatted cause
func NewMalformedResponseError(op string, format string, args ...interface{}) error {
	return &ExchangeError{Kind: ErrMalformedResponse, Op: op, Err: fmt.Errorf(format, args...)}
}

// NewTransportError wraps err as an ErrTransport
func NewTransportError(op string, err error) error {
	return &ExchangeError{Kind: ErrTransport, Op: op, Err: err}
}
