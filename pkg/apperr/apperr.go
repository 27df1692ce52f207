// Package apperr defines the error taxonomy shared by all services.
//
// Services return typed errors instead of raising through layers; the
// controllers translate the kind into an HTTP status via pkg/response. Any
// persistence error not covered by the taxonomy is wrapped as KindInternal at
// the service boundary and logged there — it never reaches the client as-is.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindEmptyCart
	KindInsufficientStock
	KindUnauthorized
	KindForbidden
	KindInvalidTransition
	KindConflict
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindEmptyCart:
		return "empty_cart"
	case KindInsufficientStock:
		return "insufficient_stock"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindInvalidTransition:
		return "invalid_transition"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	default:
		return "internal"
	}
}

// kinder is implemented by every error type in this package.
type kinder interface {
	AppKind() Kind
}

// Error is the general taxonomy error.
type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, nil for pure domain errors
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) AppKind() Kind { return e.Kind }

// StockError reports an attempted reservation exceeding available stock.
// It carries the product identity and both quantities so callers (and error
// messages) can name exactly what was short.
type StockError struct {
	Product   string
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q: requested %d, available %d",
		e.Product, e.Requested, e.Available)
}

func (e *StockError) AppKind() Kind { return KindInsufficientStock }

// ─── Constructors ─────────────────────────────────────────────────────────────

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

func EmptyCart() *Error {
	return New(KindEmptyCart, "cart is empty")
}

func InsufficientStock(product string, requested, available int) *StockError {
	return &StockError{Product: product, Requested: requested, Available: available}
}

func Unauthorized(format string, args ...any) *Error {
	return New(KindUnauthorized, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return New(KindForbidden, format, args...)
}

func InvalidTransition(format string, args ...any) *Error {
	return New(KindInvalidTransition, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return New(KindConflict, format, args...)
}

func Validation(format string, args ...any) *Error {
	return New(KindValidation, format, args...)
}

// Internal wraps an unexpected error. The message is for logs; clients only
// ever see a generic 500.
func Internal(err error, format string, args ...any) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...), Err: err}
}

// ─── Inspection ───────────────────────────────────────────────────────────────

// KindOf reports the taxonomy kind of err, unwrapping as needed.
// Unclassified errors are KindInternal.
func KindOf(err error) Kind {
	var k kinder
	if errors.As(err, &k) {
		return k.AppKind()
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
