// Package chunkers implements the hierarchical document chunking engine:
// sentence segmentation, overlap-managed chunk building, multi-level
// hierarchy assembly and integrity validation behind a single service facade.
package chunkers

import (
	"fmt"
	"sort"
	"time"

	"github.com/aischolar/chunkhound/pkg/types"
)

// Chunk is a contiguous (possibly overlap-augmented) span of document text at
// a given hierarchy level.
type Chunk struct {
	// ID is stable within one document hierarchy, derived from (level, index)
	ID string `json:"id"`

	// Content is the substring of the source document covered by this chunk,
	// inclusive of any overlap text borrowed from neighbors
	Content string `json:"content"`

	// Level is the granularity tier; 0 is finest
	Level int `json:"level"`

	// Index is the zero-based position among siblings at the same level,
	// insertion order = document order
	Index int `json:"index_within_level"`

	// StartChar and EndChar are half-open byte offsets into the source document
	StartChar int `json:"start_char"`
	EndChar   int `json:"end_char"`

	// StartSentence and EndSentence are the inclusive sentence-index range
	// covered by this chunk, not counting overlap borrowed from neighbors
	StartSentence int `json:"start_sentence"`
	EndSentence   int `json:"end_sentence"`

	// OverlapStart, when set, is the length of the leading region of Content
	// that duplicates the previous sibling's tail. Nil for the first chunk at
	// a level or when overlap is disabled.
	OverlapStart *int `json:"overlap_start,omitempty"`

	// OverlapEnd, when set, is the offset into Content where the trailing
	// region duplicated by the next sibling begins. Nil for the last chunk at
	// a level or when overlap is disabled.
	OverlapEnd *int `json:"overlap_end,omitempty"`

	// ParentID is the id of the chunk at Level+1 aggregating this chunk,
	// empty for top-level chunks
	ParentID string `json:"parent_id,omitempty"`

	// ChildIDs are the ordered ids of the chunks at Level-1 this chunk
	// aggregates, empty for level 0
	ChildIDs []string `json:"child_ids,omitempty"`

	// Metadata holds auxiliary facts: adjacency, overlap ratios, section
	// titles and caller-supplied enrichment
	Metadata types.MetadataMap `json:"metadata,omitempty"`

	// CreatedAt is when this chunk was built
	CreatedAt time.Time `json:"created_at"`
}

// ContentLength returns the byte length of the chunk content
func (c *Chunk) ContentLength() int {
	return len(c.Content)
}

// LeadingOverlapLen returns the length of the region shared with the previous
// sibling, 0 when none
func (c *Chunk) LeadingOverlapLen() int {
	if c.OverlapStart == nil {
		return 0
	}
	return *c.OverlapStart
}

// TrailingOverlapLen returns the length of the region shared with the next
// sibling, 0 when none
func (c *Chunk) TrailingOverlapLen() int {
	if c.OverlapEnd == nil {
		return 0
	}
	return len(c.Content) - *c.OverlapEnd
}

// HasOverlap reports whether the chunk shares text with either neighbor
func (c *Chunk) HasOverlap() bool {
	return c.OverlapStart != nil || c.OverlapEnd != nil
}

// ChunkID derives the stable chunk identifier from its hierarchy position
func ChunkID(level, index int) string {
	return fmt.Sprintf("chunk_%d_%d", level, index)
}

// Strategy selects the chunking algorithm variant
type Strategy string

const (
	// StrategySentenceAware builds a single level of sentence-aligned chunks
	StrategySentenceAware Strategy = "sentence_aware"

	// StrategyHierarchical builds level 0 and aggregates it into coarser levels
	StrategyHierarchical Strategy = "hierarchical"

	// StrategyAdaptive is hierarchical chunking with the level-0 budget
	// adjusted to the document's measured average sentence length
	StrategyAdaptive Strategy = "adaptive"
)

// SupportedStrategies returns all supported chunking strategies
func SupportedStrategies() []Strategy {
	return []Strategy{
		StrategySentenceAware,
		StrategyHierarchical,
		StrategyAdaptive,
	}
}

// IsValidStrategy checks if a strategy is supported
func IsValidStrategy(strategy Strategy) bool {
	for _, supported := range SupportedStrategies() {
		if supported == strategy {
			return true
		}
	}
	return false
}

// OverlapConfig controls the duplicated span between adjacent chunks
type OverlapConfig struct {
	// OverlapPercentage is the target overlap as a fraction of the preceding
	// chunk's length, in [0, 1]. 0 disables overlap.
	OverlapPercentage float64 `json:"overlap_percentage"`

	// MinOverlapChars is the lower clamp on the overlap length
	MinOverlapChars int `json:"min_overlap_chars"`

	// MaxOverlapChars is the upper clamp on the overlap length
	MaxOverlapChars int `json:"max_overlap_chars"`
}

// DefaultOverlapConfig returns the default overlap bounds
func DefaultOverlapConfig() OverlapConfig {
	return OverlapConfig{
		OverlapPercentage: 0.1,
		MinOverlapChars:   20,
		MaxOverlapChars:   500,
	}
}

// ValidationErrors returns the list of constraint violations in the config,
// empty when valid
func (c OverlapConfig) ValidationErrors() []string {
	var errs []string
	if c.OverlapPercentage < 0 || c.OverlapPercentage > 1 {
		errs = append(errs, fmt.Sprintf("overlap_percentage must be in [0, 1], got %g", c.OverlapPercentage))
	}
	if c.MinOverlapChars < 0 {
		errs = append(errs, fmt.Sprintf("min_overlap_chars cannot be negative, got %d", c.MinOverlapChars))
	}
	if c.MaxOverlapChars < c.MinOverlapChars {
		errs = append(errs, fmt.Sprintf("max_overlap_chars (%d) must be >= min_overlap_chars (%d)",
			c.MaxOverlapChars, c.MinOverlapChars))
	}
	return errs
}

// ChunkerConfig represents the engine configuration
type ChunkerConfig struct {
	// BaseChunkSize is the size budget per level-0 chunk, measured by the
	// configured estimator (words by default)
	BaseChunkSize int `json:"base_chunk_size"`

	// GroupSize is the aggregate content length budget (in bytes) per parent
	// chunk when assembling higher levels
	GroupSize int `json:"group_size"`

	// MaxLevels caps the hierarchy depth; 1 means level 0 only
	MaxLevels int `json:"max_levels"`

	// Overlap controls duplicated spans between adjacent chunks
	Overlap OverlapConfig `json:"overlap"`

	// DetectSections enables the markdown section pre-pass that tags level-0
	// chunks with their containing section title
	DetectSections bool `json:"detect_sections"`

	// Estimator measures chunk sizes against BaseChunkSize. Defaults to
	// word counting when nil.
	Estimator SizeEstimator `json:"-"`
}

// DefaultChunkerConfig returns a sensible default configuration
func DefaultChunkerConfig() *ChunkerConfig {
	return &ChunkerConfig{
		BaseChunkSize:  512,
		GroupSize:      2048,
		MaxLevels:      3,
		Overlap:        DefaultOverlapConfig(),
		DetectSections: false,
	}
}

// estimator returns the configured size estimator, falling back to words
func (c *ChunkerConfig) estimator() SizeEstimator {
	if c.Estimator != nil {
		return c.Estimator
	}
	return WordEstimator{}
}

// Validate checks the structural constraints of the configuration
func (c *ChunkerConfig) Validate() error {
	if c.BaseChunkSize <= 0 {
		return fmt.Errorf("base chunk size must be positive, got %d", c.BaseChunkSize)
	}
	if c.GroupSize <= 0 {
		return fmt.Errorf("group size must be positive, got %d", c.GroupSize)
	}
	if c.MaxLevels <= 0 {
		return fmt.Errorf("max levels must be positive, got %d", c.MaxLevels)
	}
	if errs := c.Overlap.ValidationErrors(); len(errs) > 0 {
		return fmt.Errorf("invalid overlap config: %s", errs[0])
	}
	return nil
}

// Hierarchy is the full set of chunks across all levels plus their
// relationships for one document. Built once per chunking call and immutable
// afterwards.
type Hierarchy struct {
	// DocumentID keys the hierarchy in the facade cache
	DocumentID string `json:"document_id"`

	// Strategy that produced this hierarchy
	Strategy Strategy `json:"strategy"`

	// Levels maps level -> ordered chunks at that level
	Levels map[int][]*Chunk `json:"levels"`

	// SourceLength is the byte length of the source document
	SourceLength int `json:"source_length"`

	// CreatedAt is when the hierarchy was built
	CreatedAt time.Time `json:"created_at"`

	byID map[string]*Chunk
}

// NewHierarchy indexes the given levels into a hierarchy snapshot
func NewHierarchy(documentID string, strategy Strategy, levels map[int][]*Chunk, sourceLength int) *Hierarchy {
	h := &Hierarchy{
		DocumentID:   documentID,
		Strategy:     strategy,
		Levels:       levels,
		SourceLength: sourceLength,
		CreatedAt:    time.Now(),
		byID:         make(map[string]*Chunk),
	}
	for _, chunks := range levels {
		for _, chunk := range chunks {
			h.byID[chunk.ID] = chunk
		}
	}
	return h
}

// Chunk looks up a chunk by id
func (h *Hierarchy) Chunk(id string) (*Chunk, bool) {
	chunk, ok := h.byID[id]
	return chunk, ok
}

// TopLevel returns the highest populated level, -1 for an empty hierarchy
func (h *Hierarchy) TopLevel() int {
	top := -1
	for level, chunks := range h.Levels {
		if len(chunks) > 0 && level > top {
			top = level
		}
	}
	return top
}

// TotalChunks counts chunks across all levels
func (h *Hierarchy) TotalChunks() int {
	total := 0
	for _, chunks := range h.Levels {
		total += len(chunks)
	}
	return total
}

// AllChunks returns every chunk ordered by level ascending, then index
func (h *Hierarchy) AllChunks() []*Chunk {
	levels := make([]int, 0, len(h.Levels))
	for level := range h.Levels {
		levels = append(levels, level)
	}
	sort.Ints(levels)

	chunks := make([]*Chunk, 0, h.TotalChunks())
	for _, level := range levels {
		chunks = append(chunks, h.Levels[level]...)
	}
	return chunks
}
