package common

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (

	// repository specific errors
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// service specific errors, one per Kind
	ErrorInternal         = errors.New("internal error")
	ErrorValidation       = errors.New("validation error")
	ErrorUnauthorized     = errors.New("unauthorized")
	ErrorForbidden        = errors.New("forbidden")
	ErrorConflict         = errors.New("conflict")
	ErrorExternalIdentity = errors.New("external identity error")

	// token errors
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")

	// credential state errors
	ErrInvalidCredentials       = errors.New("email or password is incorrect")
	ErrSessionNotFound          = errors.New("refresh token is revoked or does not exist")
	ErrStaleEmailVerifyToken    = errors.New("email verify token is not the latest issued")
	ErrStaleForgotPasswordToken = errors.New("forgot password token is not the latest issued")
	ErrAccountNotVerified       = errors.New("account is not verified")
	ErrAccountBanned            = errors.New("account is banned")

	// relationship errors
	ErrAlreadyFollowed   = errors.New("already followed")
	ErrAlreadyUnfollowed = errors.New("already unfollowed")
	ErrCannotFollowSelf  = errors.New("cannot follow yourself")

	// external identity errors
	ErrExternalIdentityNotVerified = errors.New("external identity email is not verified")
)

// Kind classifies an Error into one of the failure families surfaced to callers.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindForbidden
	KindNotFound
	KindConflict
	KindExternalIdentity
)

func (k Kind) sentinel() error {
	switch k {
	case KindValidation:
		return ErrorValidation
	case KindAuth:
		return ErrorUnauthorized
	case KindForbidden:
		return ErrorForbidden
	case KindNotFound:
		return ErrorNotFound
	case KindConflict:
		return ErrorConflict
	case KindExternalIdentity:
		return ErrorExternalIdentity
	default:
		return ErrorInternal
	}
}

func (k Kind) String() string { return k.sentinel().Error() }

// Status returns the HTTP status code that corresponds to the kind.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindExternalIdentity:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is the typed error returned by the identity service. Message is safe to
// show to clients; Err keeps the underlying cause for logs and errors.Is.
//
// errors.Is matches both the kind sentinel (ErrorUnauthorized, ErrorConflict, ...)
// and anything in the Err chain.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if len(e.Fields) > 0 {
		msg += ": " + formatFields(e.Fields)
	}
	if e.Err != nil && e.Err.Error() != e.Message {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

// Status returns the HTTP-like severity code of the error.
func (e *Error) Status() int { return e.Kind.Status() }

func formatFields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fields[k])
	}
	return strings.Join(parts, "; ")
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Message: err.Error(), Err: err}
}

// NewValidationError reports malformed or duplicate input with per-field detail.
func NewValidationError(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "validation error", Fields: fields}
}

// NewFieldError is a shorthand for a single-field validation failure.
func NewFieldError(field, message string) *Error {
	return NewValidationError(map[string]string{field: message})
}

func NewAuthError(err error) *Error             { return newError(KindAuth, err) }
func NewForbiddenError(err error) *Error        { return newError(KindForbidden, err) }
func NewConflictError(err error) *Error         { return newError(KindConflict, err) }
func NewExternalIdentityError(err error) *Error { return newError(KindExternalIdentity, err) }

func NewNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message, Err: ErrorNotFound}
}

// NewInternalError hides err behind a generic message.
func NewInternalError(err error) *Error {
	return &Error{Kind: KindInternal, Message: ErrorInternal.Error(), Err: err}
}

// KindOf classifies any error. Untyped errors are internal unless they wrap a
// repository sentinel.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	switch {
	case errors.Is(err, ErrorNotFound):
		return KindNotFound
	case errors.Is(err, ErrorAlreadyExists):
		return KindConflict
	}
	return KindInternal
}

// DuplicateError reports a unique constraint violation on a named field.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}

func (e *DuplicateError) Unwrap() error { return ErrorAlreadyExists }
