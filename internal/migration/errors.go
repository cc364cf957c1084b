package migration

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedScheme = errors.New("unsupported scheme")
	ErrMissingField      = errors.New("missing field")
	ErrBadEncoding       = errors.New("bad encoding")
	ErrMalformedPayload  = errors.New("malformed payload")
	ErrMissingSecret     = errors.New("missing secret")
)

// FormatError reports why an export line, or one record inside it, could not be decoded.
type FormatError struct {
	Kind   error  // One of the Err* kind sentinels
	Detail string // Human-readable context; never contains secret material
	Record int    // Zero-based record index for per-record errors, -1 otherwise
	Err    error  // Underlying cause, if any
}

func newFormatError(kind error, detail string, cause error) *FormatError {
	return &FormatError{Kind: kind, Detail: detail, Record: -1, Err: cause}
}

func (e *FormatError) Error() string {
	msg := e.Kind.Error()
	if e.Record >= 0 {
		msg = fmt.Sprintf("%s (record %d)", msg, e.Record)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind sentinel and the underlying cause to [errors.Is].
func (e *FormatError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
