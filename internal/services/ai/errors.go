package ai

import "fmt"

type ErrorType string

const (
	ErrTypeConfig   ErrorType = "CONFIG"
	ErrTypeNetwork  ErrorType = "NETWORK"
	ErrTypeProvider ErrorType = "PROVIDER"
	ErrTypeEmpty    ErrorType = "EMPTY_RESPONSE"
)

// ProviderError wraps any failure of the external reasoning service so that
// callers never see a raw upstream payload.
type ProviderError struct {
	Type      ErrorType
	Operation string
	Message   string
	Cause     error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("AI %s error in %s: %s (caused by: %v)", e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("AI %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Cause }

func NewConfigError(msg string) *ProviderError {
	return &ProviderError{Type: ErrTypeConfig, Operation: "config", Message: msg}
}

func NewProviderError(operation, msg string, cause error) *ProviderError {
	return &ProviderError{Type: ErrTypeProvider, Operation: operation, Message: msg, Cause: cause}
}

func NewEmptyResponseError(operation string) *ProviderError {
	return &ProviderError{Type: ErrTypeEmpty, Operation: operation, Message: "empty candidate response"}
}
