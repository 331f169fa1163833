package ordertx

import "fmt"

// Kind classifies an engine failure so the HTTP boundary can pick a
// status code and metrics can count rollback reasons, while the client
// still receives the collapsed generic messages of the API contract.
type Kind int

const (
	// KindValidation is a caller-fixable input problem (missing field,
	// bad quantity shape, invalid branch/customer/product reference).
	KindValidation Kind = iota
	// KindForbidden means the user does not own the target merchant.
	KindForbidden
	// KindNotFound means the target entity does not exist or is inactive.
	KindNotFound
	// KindInternal is an unexpected database failure.
	KindInternal
)

// Error is a classified engine failure.
type Error struct {
	Kind    Kind
	Reason  string // stable reason label for metrics/logging
	Message string // safe message, may be returned to the client
	Err     error  // underlying cause, logged but never echoed
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func validationErr(reason, message string) *Error {
	return &Error{Kind: KindValidation, Reason: reason, Message: message}
}

func forbiddenErr(message string) *Error {
	return &Error{Kind: KindForbidden, Reason: "forbidden", Message: message}
}

func notFoundErr(message string) *Error {
	return &Error{Kind: KindNotFound, Reason: "not_found", Message: message}
}

func internalErr(message string, err error) *Error {
	return &Error{Kind: KindInternal, Reason: "db_error", Message: message, Err: err}
}
