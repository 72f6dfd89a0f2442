// Package types provides shared type definitions for chunkhound
package types

import "fmt"

// ErrorType represents the category of an error
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeInternal   ErrorType = "internal"
	ErrorTypeConfig     ErrorType = "config"
)

// ChunkhoundError is the wire-friendly error representation returned to consumers
type ChunkhoundError struct {
	Type    ErrorType              `json:"type"`
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *ChunkhoundError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Type, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// NewChunkhoundError creates a new error value
func NewChunkhoundError(errType ErrorType, message string, code string, details map[string]interface{}) *ChunkhoundError {
	return &ChunkhoundError{
		Type:    errType,
		Message: message,
		Code:    code,
		Details: details,
	}
}

// MetadataMap holds auxiliary per-chunk facts
type MetadataMap = map[string]interface{}
