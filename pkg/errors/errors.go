package errors

import "fmt"

// Error codes
const (
	CodeRepository = "REPOSITORY_ERROR"
	CodeCache      = "CACHE_ERROR"
	CodeAI         = "AI_ERROR"
	CodeAuth       = "AUTH_ERROR"
	CodeValidation = "VALIDATION_ERROR"
	CodeState      = "STATE_ERROR"
)

type AppError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewAppError(message, code string, statusCode int, context map[string]any) *AppError {
	return &AppError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

// RepositoryError marks a failed content-store operation. Operation is one of
// the repository method names, Collection the record set it touched.
type RepositoryError struct {
	*AppError
	Collection string
	Operation  string
}

func NewRepositoryError(message, collection, operation string, cause error) *RepositoryError {
	return &RepositoryError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeRepository,
			StatusCode: 500,
			Context: map[string]any{
				"collection": collection,
				"operation":  operation,
			},
			Cause: cause,
		},
		Collection: collection,
		Operation:  operation,
	}
}

type CacheError struct {
	*AppError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeCache,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

type AIError struct {
	*AppError
	Provider string
}

func NewAIError(message, provider string, cause error) *AIError {
	return &AIError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeAI,
			StatusCode: 502,
			Context: map[string]any{
				"provider": provider,
			},
			Cause: cause,
		},
		Provider: provider,
	}
}

type ValidationError struct {
	*AppError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: 400,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

// StateError marks an editor operation attempted from the wrong state.
type StateError struct {
	*AppError
	State string
}

func NewStateError(message, state string) *StateError {
	return &StateError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeState,
			StatusCode: 409,
			Context: map[string]any{
				"state": state,
			},
		},
		State: state,
	}
}

func NewAuthError(message string) *AppError {
	return NewAppError(message, CodeAuth, 401, nil)
}
