package domain

import "errors"

// Kind classifies an error for the HTTP envelope.
type Kind string

const (
	KindValidation  Kind = "VALIDATION"
	KindNotFound    Kind = "NOT_FOUND"
	KindForbidden   Kind = "FORBIDDEN"
	KindAuth        Kind = "AUTH"
	KindInvalid     Kind = "INVALID"
	KindUnavailable Kind = "UNAVAILABLE"
)

// Error is a classified domain error. The message is safe to show to callers.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

func Validation(msg string) error  { return newError(KindValidation, msg) }
func NotFound(msg string) error    { return newError(KindNotFound, msg) }
func Forbidden(msg string) error   { return newError(KindForbidden, msg) }
func Auth(msg string) error        { return newError(KindAuth, msg) }
func Invalid(msg string) error     { return newError(KindInvalid, msg) }
func Unavailable(msg string) error { return newError(KindUnavailable, msg) }

// KindOf reports the kind of err if it is (or wraps) a domain error.
func KindOf(err error) (Kind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return "", false
}
