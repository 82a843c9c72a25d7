// Package apperr classifies domain errors so the transport layer can map them
// to a status code without knowing every sentinel.
package apperr

import "errors"

type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

type wrapped struct {
	base  *Error
	cause error
}

func (w *wrapped) Error() string {
	return w.base.Message + ": " + w.cause.Error()
}

func (w *wrapped) Unwrap() []error {
	return []error{w.base, w.cause}
}

// Wrap attaches cause to base. The result matches base with errors.Is and its
// message carries the cause, e.g. "file processing failed: unexpected EOF".
func Wrap(base *Error, cause error) error {
	if cause == nil {
		return base
	}
	return &wrapped{base: base, cause: cause}
}

// Describe returns the kind, code and user-facing message for err. Anything
// that is not a classified error is reported as internal with a generic message.
func Describe(err error) (Kind, string, string) {
	var w *wrapped
	if errors.As(err, &w) {
		return w.base.Kind, w.base.Code, w.Error()
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, e.Code, e.Message
	}
	return KindInternal, "internal_error", "internal error"
}

func KindOf(err error) Kind {
	kind, _, _ := Describe(err)
	return kind
}
