// Package apperr defines the typed failure kinds shared by services,
// repositories and the HTTP boundary. Handlers switch on Kind to pick a
// response code — never on message text.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindInsufficientStock
	KindStorage
)

// Error is the single error type crossing layer boundaries. Err holds the
// underlying cause (e.g. a driver error) — it is logged, never sent to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }

func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

func Storage(err error) *Error {
	return &Error{Kind: KindStorage, Message: "Error de almacenamiento", Err: err}
}

// StockInsuficiente reports a rejected stock adjustment. The message carries
// the current stock and the requested magnitude, as the API contract requires.
func StockInsuficiente(stockActual, cantidadSolicitada int) *Error {
	return &Error{
		Kind: KindInsufficientStock,
		Message: fmt.Sprintf("Stock insuficiente. Stock actual: %d, cantidad solicitada: %d",
			stockActual, cantidadSolicitada),
	}
}

// KindOf extracts the Kind from err. Errors that did not originate in this
// package are treated as storage failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}
