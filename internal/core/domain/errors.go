package domain

import (
	"errors"
	"strings"
)

// Error kinds. Every error returned by services unwraps to one of these.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("resource already exists")
	ErrUnauthorized = errors.New("unauthorized")
	ErrStorage      = errors.New("storage failure")
)

// Lead errors
var (
	ErrLeadNotFound       = newKindError(ErrNotFound, "lead not found")
	ErrNoLeadsForEmployee = newKindError(ErrNotFound, "no leads found for employee")
	ErrInvalidStatus      = newKindError(ErrValidation, "invalid lead status")
)

// Account and credential errors
var (
	ErrAccountNotFound     = newKindError(ErrNotFound, "account not found")
	ErrAccountExists       = newKindError(ErrConflict, "username or email already exists")
	ErrInvalidCredentials  = newKindError(ErrUnauthorized, "invalid credentials")
	ErrTokenExpired        = newKindError(ErrUnauthorized, "token expired")
	ErrTokenInvalid        = newKindError(ErrUnauthorized, "token invalid")
	ErrTokenRevoked        = newKindError(ErrUnauthorized, "token revoked")
	ErrWrongPassword       = newKindError(ErrValidation, "current password is incorrect")
	ErrInvalidRole         = newKindError(ErrValidation, "role must be one of admin, manager, employee")
	ErrCannotChangeOwnRole = newKindError(ErrValidation, "cannot change your own role")
	ErrCannotDeleteSelf    = newKindError(ErrValidation, "cannot delete your own account")
)

type kindError struct {
	kind error
	msg  string
}

func newKindError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// ValidationError reports malformed or missing input
type ValidationError struct {
	Message string
	Fields  []string
}

// NewValidationError builds a ValidationError for the given fields
func NewValidationError(message string, fields ...string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

// MissingFields builds the error returned when required fields are absent
func MissingFields(fields ...string) *ValidationError {
	return &ValidationError{
		Message: "missing required fields: " + strings.Join(fields, ", "),
		Fields:  fields,
	}
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// StorageError wraps a failure reported by the underlying store
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError wraps err as a StorageError for operation op
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() []error { return []error{ErrStorage, e.Err} }
