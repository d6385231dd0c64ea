package errors

import (
	"errors"
	"fmt"
)

// Common engine errors
var (
	// Input errors, detectable before any detector runs
	ErrEmptyDataset    = errors.New("empty dataset")
	ErrNoColumns       = errors.New("dataset has zero columns")
	ErrNoRows          = errors.New("dataset has zero rows")
	ErrRaggedColumns   = errors.New("columns have unequal lengths")
	ErrAllNullDataset  = errors.New("every column is entirely null")
	ErrDuplicateColumn = errors.New("duplicate column name")

	// Budget errors
	ErrBudgetExceeded = errors.New("analysis budget exceeded")
	ErrTimeBudget     = errors.New("time budget exceeded")

	// Cleaning errors: clean() is all-or-nothing
	ErrUnsupportedOperation = errors.New("unsupported cleaning operation")
	ErrUnknownColumn        = errors.New("operation references unknown column")
)

// ErrorType categorizes engine errors.
type ErrorType string

const (
	ErrorTypeInput     ErrorType = "input"
	ErrorTypeBudget    ErrorType = "budget"
	ErrorTypeOperation ErrorType = "operation"
	ErrorTypeInternal  ErrorType = "internal"
)

// EngineError is an engine error with category, stable code, and optional
// cause.
type EngineError struct {
	Type    ErrorType `json:"type"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *EngineError) Unwrap() error {
	return e.Cause
}

// Is matches on category and code.
func (e *EngineError) Is(target error) bool {
	t, ok := target.(*EngineError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// NewInputError creates an input error. Input errors surface to the caller
// with no partial results.
func NewInputError(code, message string, cause error) *EngineError {
	return &EngineError{Type: ErrorTypeInput, Code: code, Message: message, Cause: cause}
}

// NewBudgetError creates a budget error. Budget errors degrade gracefully:
// the affected pass is reported as analysis_incomplete and the rest proceed.
func NewBudgetError(code, message string, cause error) *EngineError {
	return &EngineError{Type: ErrorTypeBudget, Code: code, Message: message, Cause: cause}
}

// NewOperationError creates a cleaning-operation error. The whole clean()
// call fails atomically on these.
func NewOperationError(code, message string, cause error) *EngineError {
	return &EngineError{Type: ErrorTypeOperation, Code: code, Message: message, Cause: cause}
}

// NewInternalError creates an internal error.
func NewInternalError(message string, cause error) *EngineError {
	return &EngineError{Type: ErrorTypeInternal, Code: "INTERNAL", Message: message, Cause: cause}
}

// IsInputError reports whether err is categorized as an input error.
func IsInputError(err error) bool {
	var e *EngineError
	if errors.As(err, &e) {
		return e.Type == ErrorTypeInput
	}
	return errors.Is(err, ErrEmptyDataset) || errors.Is(err, ErrNoColumns) ||
		errors.Is(err, ErrNoRows) || errors.Is(err, ErrRaggedColumns) ||
		errors.Is(err, ErrAllNullDataset) || errors.Is(err, ErrDuplicateColumn)
}

// IsOperationError reports whether err makes a clean() call fail atomically.
func IsOperationError(err error) bool {
	var e *EngineError
	if errors.As(err, &e) {
		return e.Type == ErrorTypeOperation
	}
	return errors.Is(err, ErrUnsupportedOperation) || errors.Is(err, ErrUnknownColumn)
}
