package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the stable, machine-readable category of a domain error.
// Transports map kinds to status codes; messages are never parsed.
type ErrorKind string

const (
	KindMissingCredential   ErrorKind = "missing_credential"
	KindMalformedCredential ErrorKind = "malformed_credential"
	KindInvalidCredential   ErrorKind = "invalid_credential"
	KindExpiredCredential   ErrorKind = "expired_credential"
	KindInsufficientRole    ErrorKind = "insufficient_role"
	KindOwnershipViolation  ErrorKind = "ownership_violation"
	KindNotFound            ErrorKind = "not_found"
	KindConflict            ErrorKind = "conflict"
	KindValidation          ErrorKind = "validation"
	KindInternal            ErrorKind = "internal"
)

// Error is a tagged domain error. Message is safe to show to clients.
type Error struct {
	Kind    ErrorKind
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

// Is matches on Kind, so a sentinel matches every error of the same kind
// regardless of the message it carries.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// NewError builds a tagged error with a client-safe message.
func NewError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap attaches an underlying cause to a tagged error.
func Wrap(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf reports the kind of err, or KindInternal when err is not tagged.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

var (
	ErrMissingCredential   = NewError(KindMissingCredential, "Authorization token is required")
	ErrMalformedCredential = NewError(KindMalformedCredential, "Authorization header must use the Bearer scheme")
	ErrInvalidCredential   = NewError(KindInvalidCredential, "Invalid token")
	ErrExpiredCredential   = NewError(KindExpiredCredential, "Token has expired")

	ErrInsufficientRole   = NewError(KindInsufficientRole, "Forbidden: Insufficient permissions")
	ErrOwnershipViolation = NewError(KindOwnershipViolation, "Forbidden: You do not have permission to modify this resource")

	ErrInvalidLogin = NewError(KindInvalidCredential, "Invalid credentials")

	ErrPostNotFound     = NewError(KindNotFound, "Post not found")
	ErrUserNotFound     = NewError(KindNotFound, "User not found")
	ErrCategoryNotFound = NewError(KindNotFound, "Category not found")

	ErrAlreadyModerated = NewError(KindConflict, "Post has already been moderated")
	ErrCategoryExists   = NewError(KindConflict, "A category with this name already exists")
	ErrCategoryInUse    = NewError(KindConflict, "Category still has posts")
	ErrUserExists       = NewError(KindConflict, "A user with this email already exists")
)

// Validation returns a ValidationError carrying msg.
func Validation(msg string) *Error {
	return NewError(KindValidation, msg)
}
