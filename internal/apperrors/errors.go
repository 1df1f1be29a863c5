package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the request conflicts with the current state of a resource.
var ErrConflict = errors.New("resource conflict")

// ErrForbidden indicates that the caller is not allowed to perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrInvalidJurisdiction indicates an unknown jurisdiction code; no partial writes happen.
var ErrInvalidJurisdiction = errors.New("invalid jurisdiction code")

// ErrImbalancedEntry indicates a journal entry whose debit and credit sums differ.
// This is a data-integrity error; the entry must not be posted.
var ErrImbalancedEntry = errors.New("journal entry debits and credits do not balance")

// ErrNotInitialized indicates the tenant has not completed the initialization workflow.
var ErrNotInitialized = errors.New("tenant accounting is not initialized")

// ErrParentCycle indicates an account parent chain that loops back on itself.
var ErrParentCycle = errors.New("account parent chain contains a cycle")

// ErrUnmappedCategory indicates an unmapped document category in strict mapping mode.
var ErrUnmappedCategory = errors.New("no mapping for document category")

// AppError carries an HTTP-ish status code alongside a message and the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
