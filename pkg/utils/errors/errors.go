// Package errors defines the typed errors surfaced by the risk engine.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies an application error.
type Kind uint

const (
	// KindUnknown is the zero value for unclassified errors.
	KindUnknown Kind = iota
	// KindDimensionMismatch: weight vector length does not match the
	// number of asset columns.
	KindDimensionMismatch
	// KindInvalidWeights: weights do not sum to 100 or cannot be parsed.
	KindInvalidWeights
	// KindInsufficientData: fewer observations than the rolling window.
	// Degrades to sentinel outputs rather than halting.
	KindInsufficientData
	// KindUnsupportedConfidenceLevel: confidence outside (0, 100).
	KindUnsupportedConfidenceLevel
	// KindInvalidArgument: any other malformed caller input.
	KindInvalidArgument
	// KindNotFound: a referenced entity does not exist.
	KindNotFound
	// KindInternal: unexpected internal failure.
	KindInternal
)

// Error is an application error with a classification.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes errors of the same Kind match under errors.Is, so callers
// can compare against the exported sentinels below.
func (e *Error) Is(target error) bool {
	var t *Error
	if stderrors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// Sentinels for errors.Is comparisons.
var (
	ErrDimensionMismatch          = &Error{Kind: KindDimensionMismatch, Message: "dimension mismatch"}
	ErrInvalidWeights             = &Error{Kind: KindInvalidWeights, Message: "invalid weights"}
	ErrInsufficientData           = &Error{Kind: KindInsufficientData, Message: "insufficient data"}
	ErrUnsupportedConfidenceLevel = &Error{Kind: KindUnsupportedConfidenceLevel, Message: "unsupported confidence level"}
	ErrNotFound                   = &Error{Kind: KindNotFound, Message: "not found"}
)

// New creates an unclassified error.
func New(message string) error {
	return &Error{Kind: KindUnknown, Message: message}
}

// Newf creates an unclassified error from a format string.
func Newf(format string, args ...interface{}) error {
	return &Error{Kind: KindUnknown, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps err with a message, preserving its Kind if it has one.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	kind := KindUnknown
	var appErr *Error
	if stderrors.As(err, &appErr) {
		kind = appErr.Kind
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

// DimensionMismatch creates a dimension mismatch error.
func DimensionMismatch(message string) error {
	return &Error{Kind: KindDimensionMismatch, Message: message}
}

// InvalidWeights creates an invalid weights error.
func InvalidWeights(message string) error {
	return &Error{Kind: KindInvalidWeights, Message: message}
}

// InsufficientData creates an insufficient data error.
func InsufficientData(message string) error {
	return &Error{Kind: KindInsufficientData, Message: message}
}

// UnsupportedConfidenceLevel creates an unsupported confidence level error.
func UnsupportedConfidenceLevel(message string) error {
	return &Error{Kind: KindUnsupportedConfidenceLevel, Message: message}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(message string) error {
	return &Error{Kind: KindInvalidArgument, Message: message}
}

// NotFound creates a not found error.
func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Internal creates an internal error.
func Internal(message string) error {
	return &Error{Kind: KindInternal, Message: message}
}

// KindOf returns the Kind of err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}
