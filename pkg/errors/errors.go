// Package errors provides structured error handling for chunkhound
package errors

import (
	"fmt"
	"strings"

	"github.com/aischolar/chunkhound/pkg/types"
)

// ErrorCode represents specific error codes
type ErrorCode string

const (
	// Validation errors
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// Lookup errors
	ErrCodeChunkNotFound ErrorCode = "CHUNK_NOT_FOUND"
	ErrCodeDocNotFound   ErrorCode = "DOCUMENT_NOT_FOUND"

	// Structural errors detected by the integrity validator
	ErrCodeOrphanChunk    ErrorCode = "ORPHAN_CHUNK"
	ErrCodeBrokenLink     ErrorCode = "BROKEN_LINK"
	ErrCodeDuplicateSpan  ErrorCode = "DUPLICATE_SPAN"
	ErrCodeOverlapBounds  ErrorCode = "OVERLAP_OUT_OF_BOUNDS"
	ErrCodeHierarchyError ErrorCode = "HIERARCHY_ERROR"

	// Configuration errors
	ErrCodeConfigError    ErrorCode = "CONFIG_ERROR"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG_INVALID"
	ErrCodeConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"

	// System errors
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// ChunkhoundError represents a structured error in chunkhound
type ChunkhoundError struct {
	Type    types.ErrorType   `json:"type"`
	Code    ErrorCode         `json:"code"`
	Message string            `json:"message"`
	Details types.MetadataMap `json:"details,omitempty"`
	Cause   error             `json:"-"`
}

// Error implements the error interface
func (e *ChunkhoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (caused by: %v)", e.Code, e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *ChunkhoundError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *ChunkhoundError) WithDetail(key string, value interface{}) *ChunkhoundError {
	if e.Details == nil {
		e.Details = make(types.MetadataMap)
	}
	e.Details[key] = value
	return e
}

// ToTypes converts to the wire-friendly types.ChunkhoundError
func (e *ChunkhoundError) ToTypes() *types.ChunkhoundError {
	return types.NewChunkhoundError(e.Type, e.Message, string(e.Code), e.Details)
}

// New creates a new chunkhound error
func New(errType types.ErrorType, code ErrorCode, message string) *ChunkhoundError {
	return &ChunkhoundError{
		Type:    errType,
		Code:    code,
		Message: message,
	}
}

// NewWithCause creates a new chunkhound error with a cause
func NewWithCause(errType types.ErrorType, code ErrorCode, message string, cause error) *ChunkhoundError {
	return &ChunkhoundError{
		Type:    errType,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Validation error constructors

func NewValidationError(message string) *ChunkhoundError {
	return New(types.ErrorTypeValidation, ErrCodeValidation, message)
}

func NewInvalidInputError(message string) *ChunkhoundError {
	return New(types.ErrorTypeValidation, ErrCodeInvalidInput, message)
}

// Lookup error constructors

func NewChunkNotFoundError(chunkID string) *ChunkhoundError {
	return New(types.ErrorTypeNotFound, ErrCodeChunkNotFound,
		fmt.Sprintf("chunk not found: %s", chunkID)).WithDetail("chunk_id", chunkID)
}

func NewDocumentNotFoundError(documentID string) *ChunkhoundError {
	return New(types.ErrorTypeNotFound, ErrCodeDocNotFound,
		fmt.Sprintf("document not found: %s", documentID)).WithDetail("document_id", documentID)
}

// Structural error constructors, used by the integrity validator

func NewOrphanChunkError(chunkID string, level, top int) *ChunkhoundError {
	return New(types.ErrorTypeInternal, ErrCodeOrphanChunk,
		fmt.Sprintf("chunk %s at level %d is orphaned: no parent below top level %d", chunkID, level, top)).
		WithDetail("chunk_id", chunkID)
}

func NewBrokenLinkError(chunkID, parentID string) *ChunkhoundError {
	return New(types.ErrorTypeInternal, ErrCodeBrokenLink,
		fmt.Sprintf("parent %s does not list child %s exactly once", parentID, chunkID)).
		WithDetail("chunk_id", chunkID).WithDetail("parent_id", parentID)
}

func NewDuplicateSpanError(firstID, secondID string, level, start, end int) *ChunkhoundError {
	return New(types.ErrorTypeInternal, ErrCodeDuplicateSpan,
		fmt.Sprintf("chunks %s and %s at level %d share the identical span [%d, %d)",
			firstID, secondID, level, start, end)).
		WithDetail("chunk_id", secondID)
}

func NewOverlapBoundsError(chunkID, message string) *ChunkhoundError {
	return New(types.ErrorTypeInternal, ErrCodeOverlapBounds, message).
		WithDetail("chunk_id", chunkID)
}

func NewHierarchyError(message string) *ChunkhoundError {
	return New(types.ErrorTypeInternal, ErrCodeHierarchyError, message)
}

// Configuration error constructors

func NewConfigError(message string) *ChunkhoundError {
	return New(types.ErrorTypeConfig, ErrCodeConfigError, message)
}

func NewConfigInvalidError(message string) *ChunkhoundError {
	return New(types.ErrorTypeConfig, ErrCodeConfigInvalid, message)
}

func NewConfigNotFoundError(configPath string) *ChunkhoundError {
	return New(types.ErrorTypeNotFound, ErrCodeConfigNotFound,
		fmt.Sprintf("configuration file not found: %s", configPath)).WithDetail("config_path", configPath)
}

// System error constructors

func NewInternalError(message string, cause error) *ChunkhoundError {
	return NewWithCause(types.ErrorTypeInternal, ErrCodeInternal, message, cause)
}

// IsChunkhoundError checks if an error is a ChunkhoundError
func IsChunkhoundError(err error) bool {
	_, ok := err.(*ChunkhoundError)
	return ok
}

// IsNotFound reports whether err is a not-found chunkhound error
func IsNotFound(err error) bool {
	if ce, ok := err.(*ChunkhoundError); ok {
		return ce.Type == types.ErrorTypeNotFound
	}
	return false
}

// WrapError wraps an error as a ChunkhoundError
func WrapError(err error, errType types.ErrorType, code ErrorCode, message string) *ChunkhoundError {
	return NewWithCause(errType, code, message, err)
}

// ErrorList collects multiple errors, used by the integrity validator to keep
// scanning after the first failure
type ErrorList struct {
	Errors []*ChunkhoundError `json:"errors"`
}

// Error implements the error interface
func (el *ErrorList) Error() string {
	var messages []string
	for _, err := range el.Errors {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// Add adds an error to the list
func (el *ErrorList) Add(err *ChunkhoundError) {
	el.Errors = append(el.Errors, err)
}

// HasErrors returns true if there are errors
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// Messages returns the error messages as plain strings
func (el *ErrorList) Messages() []string {
	messages := make([]string, 0, len(el.Errors))
	for _, err := range el.Errors {
		messages = append(messages, err.Error())
	}
	return messages
}

// ToError returns the ErrorList as an error if it has errors, otherwise nil
func (el *ErrorList) ToError() error {
	if el.HasErrors() {
		return el
	}
	return nil
}

// NewErrorList creates a new error list
func NewErrorList() *ErrorList {
	return &ErrorList{
		Errors: make([]*ChunkhoundError, 0),
	}
}
