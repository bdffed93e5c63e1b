package gpm8212

import (
	"errors"
	"fmt"
)

// ErrResponseTooLong is returned when a response exceeds the configured
// maximum response length.
var ErrResponseTooLong = errors.New("response exceeds maximum length")

// TransportError wraps an I/O failure of the underlying connection.
type TransportError struct {
	Op       string
	Mnemonic string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Mnemonic, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UnsupportedVariantError is returned for a mode or range value that has no
// mnemonic.
type UnsupportedVariantError struct {
	Kind  string
	Value int
}

func (e *UnsupportedVariantError) Error() string {
	return fmt.Sprintf("unsupported %s: %d", e.Kind, e.Value)
}

// CloseError is returned when both halves of the connection fail to close.
// The write half is reported as the cause.
type CloseError struct {
	Write error
	Read  error
}

func (e *CloseError) Error() string {
	return fmt.Sprintf("close writer: %v (close reader: %v)", e.Write, e.Read)
}

func (e *CloseError) Unwrap() error {
	return e.Write
}

// MalformedReadingError is returned when a reading cannot be converted to a
// number.
type MalformedReadingError struct {
	Reading string
	Err     error
}

func (e *MalformedReadingError) Error() string {
	return fmt.Sprintf("malformed reading %q: %v", e.Reading, e.Err)
}

func (e *MalformedReadingError) Unwrap() error {
	return e.Err
}
