package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeServiceError  = "SERVICE_ERROR"
	ErrCodeStoreError    = "STORE_ERROR"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrMissingRequiredField = NewDomainError(ErrCodeValidation, "missing required field")
	ErrEmptyMessage         = NewDomainError(ErrCodeValidation, "message must not be empty")
	ErrEmptyUserID          = NewDomainError(ErrCodeValidation, "user id must not be empty")
	ErrEmptySessionID       = NewDomainError(ErrCodeValidation, "session id must not be empty")
	ErrInvalidMessageRole   = NewDomainError(ErrCodeValidation, "invalid message role")
	ErrEmbeddingDimensions  = NewDomainError(ErrCodeValidation, "embedding dimensionality does not match the store")
	ErrInvalidCorpusItem    = NewDomainError(ErrCodeValidation, "corpus item is missing content or category")
	ErrInvalidEmail         = NewDomainError(ErrCodeValidation, "invalid email address")
)

// Not found errors
var (
	ErrSessionNotFound      = NewDomainError(ErrCodeNotFound, "chat session not found")
	ErrKnowledgeNotFound    = NewDomainError(ErrCodeNotFound, "knowledge entry not found")
	ErrSubscriptionNotFound = NewDomainError(ErrCodeNotFound, "subscription not found")
	ErrDownloadNotFound     = NewDomainError(ErrCodeNotFound, "download not found")
)

// Already exists errors
var (
	ErrAlreadySubscribed = NewDomainError(ErrCodeAlreadyExists, "email is already subscribed")
)

// NewServiceError wraps a failure from an external model service
// (embedding or generation) so callers can map it uniformly.
func NewServiceError(message string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeServiceError, message, err)
}

// NewStoreError wraps a failure from the vector store or session store.
func NewStoreError(message string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeStoreError, message, err)
}
