package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aischolar/chunkhound/pkg/types"
)

func TestErrorFormatting(t *testing.T) {
	err := NewValidationError("base chunk size must be positive")

	assert.Equal(t, types.ErrorTypeValidation, err.Type)
	assert.Equal(t, ErrCodeValidation, err.Code)
	assert.Contains(t, err.Error(), "VALIDATION_ERROR")
	assert.Contains(t, err.Error(), "base chunk size must be positive")
}

func TestErrorCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := NewInternalError("failed to persist hierarchy", cause)

	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, cause, err.Unwrap())
}

func TestWithDetail(t *testing.T) {
	err := NewChunkNotFoundError("chunk_0_3")

	require.NotNil(t, err.Details)
	assert.Equal(t, "chunk_0_3", err.Details["chunk_id"])

	err.WithDetail("level", 0)
	assert.Equal(t, 0, err.Details["level"])
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NewChunkNotFoundError("chunk_0_0")))
	assert.True(t, IsNotFound(NewDocumentNotFoundError("doc-1")))
	assert.True(t, IsNotFound(NewConfigNotFoundError("/etc/chunkhound.yaml")))
	assert.False(t, IsNotFound(NewValidationError("nope")))
	assert.False(t, IsNotFound(fmt.Errorf("plain error")))
	assert.False(t, IsNotFound(nil))
}

func TestIsChunkhoundError(t *testing.T) {
	assert.True(t, IsChunkhoundError(NewConfigInvalidError("bad overlap")))
	assert.False(t, IsChunkhoundError(fmt.Errorf("plain error")))
}

func TestWrapError(t *testing.T) {
	cause := fmt.Errorf("yaml: unmarshal error")
	err := WrapError(cause, types.ErrorTypeConfig, ErrCodeConfigError, "failed to load configuration")

	assert.Equal(t, types.ErrorTypeConfig, err.Type)
	assert.Equal(t, cause, err.Unwrap())
}

func TestStructuralConstructors(t *testing.T) {
	orphan := NewOrphanChunkError("chunk_0_2", 0, 2)
	assert.Equal(t, ErrCodeOrphanChunk, orphan.Code)
	assert.Equal(t, "chunk_0_2", orphan.Details["chunk_id"])
	assert.Contains(t, orphan.Error(), "orphaned")

	broken := NewBrokenLinkError("chunk_0_2", "chunk_1_0")
	assert.Equal(t, ErrCodeBrokenLink, broken.Code)
	assert.Equal(t, "chunk_1_0", broken.Details["parent_id"])
	assert.Contains(t, broken.Error(), "exactly once")

	dup := NewDuplicateSpanError("chunk_0_0", "chunk_0_1", 0, 0, 25)
	assert.Equal(t, ErrCodeDuplicateSpan, dup.Code)
	assert.Contains(t, dup.Error(), "identical span [0, 25)")
	assert.Equal(t, "chunk_0_1", dup.Details["chunk_id"])

	bounds := NewOverlapBoundsError("chunk_0_1", "chunk chunk_0_1 leading overlap 9 exceeds max 6")
	assert.Equal(t, ErrCodeOverlapBounds, bounds.Code)
	assert.Equal(t, "chunk_0_1", bounds.Details["chunk_id"])

	hier := NewHierarchyError("level 1 missing")
	assert.Equal(t, ErrCodeHierarchyError, hier.Code)
	assert.Equal(t, types.ErrorTypeInternal, hier.Type)
}

func TestErrorList(t *testing.T) {
	list := NewErrorList()
	assert.False(t, list.HasErrors())
	assert.NoError(t, list.ToError())

	list.Add(NewOrphanChunkError("chunk_0_1", 0, 2))
	list.Add(NewBrokenLinkError("chunk_0_2", "chunk_1_0"))

	require.True(t, list.HasErrors())
	assert.Len(t, list.Messages(), 2)
	assert.Error(t, list.ToError())
	assert.Contains(t, list.Error(), "ORPHAN_CHUNK")
	assert.Contains(t, list.Error(), "BROKEN_LINK")
}

func TestToTypes(t *testing.T) {
	err := NewValidationError("overlap percentage out of range").WithDetail("value", 1.5)

	wire := err.ToTypes()
	require.NotNil(t, wire)
	assert.Equal(t, types.ErrorTypeValidation, wire.Type)
	assert.Equal(t, string(ErrCodeValidation), wire.Code)
	assert.Equal(t, 1.5, wire.Details["value"])
}
