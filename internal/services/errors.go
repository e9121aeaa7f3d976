package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies service failures for the HTTP layer. External
// service failures do not appear here: the resolver absorbs them and its
// callers always get a usable answer string.
type ErrorKind string

const (
	KindValidation ErrorKind = "VALIDATION"
	KindNotFound   ErrorKind = "NOT_FOUND"
	KindConflict   ErrorKind = "CONFLICT"
	KindStorage    ErrorKind = "STORAGE"
)

type ServiceError struct {
	Kind      ErrorKind
	Operation string
	Message   string
	Cause     error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error in %s: %s (caused by: %v)", e.Kind, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error in %s: %s", e.Kind, e.Operation, e.Message)
}

func (e *ServiceError) Unwrap() error { return e.Cause }

func NewValidationError(operation, msg string) *ServiceError {
	return &ServiceError{Kind: KindValidation, Operation: operation, Message: msg}
}

func NewNotFoundError(operation, msg string) *ServiceError {
	return &ServiceError{Kind: KindNotFound, Operation: operation, Message: msg}
}

func NewConflictError(operation, msg string) *ServiceError {
	return &ServiceError{Kind: KindConflict, Operation: operation, Message: msg}
}

func NewStorageError(operation, msg string, cause error) *ServiceError {
	return &ServiceError{Kind: KindStorage, Operation: operation, Message: msg, Cause: cause}
}

// KindOf returns the classification of err, or KindStorage for anything
// that is not a ServiceError.
func KindOf(err error) ErrorKind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindStorage
}
