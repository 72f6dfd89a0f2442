package chunkers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aischolar/chunkhound/pkg/errors"
	"github.com/aischolar/chunkhound/pkg/interfaces"
	"github.com/aischolar/chunkhound/pkg/logger"
	"github.com/aischolar/chunkhound/pkg/metrics"
	"github.com/aischolar/chunkhound/pkg/types"
)

// ChunkingService is the facade external callers use. It selects a strategy,
// drives the segmenter, builder and assembler, and answers
// hierarchy/contextual queries against its in-memory cache of built
// hierarchies.
//
// The cache is keyed by document id and guarded by a mutex; the build itself
// is synchronous and touches no shared state, so concurrent builds of
// different documents are safe.
type ChunkingService struct {
	mu sync.RWMutex

	config    *ChunkerConfig
	segmenter *Segmenter
	assembler *Assembler
	logger    interfaces.Logger
	metrics   interfaces.Metrics

	hierarchies    map[string]*Hierarchy
	lastDocumentID string
}

// NewChunkingService creates the service facade. A nil config selects the
// defaults; nil logger/metrics select the console logger and no-op metrics.
func NewChunkingService(config *ChunkerConfig, log interfaces.Logger, m interfaces.Metrics) *ChunkingService {
	if config == nil {
		config = DefaultChunkerConfig()
	}
	if log == nil {
		log = logger.NewLogger()
	}
	if m == nil {
		m = metrics.NewNoOpMetrics()
	}
	return &ChunkingService{
		config:      config,
		segmenter:   NewSegmenter(),
		assembler:   NewAssembler(),
		logger:      log,
		metrics:     m,
		hierarchies: make(map[string]*Hierarchy),
	}
}

// ChunkDocument chunks text under a fresh document id and returns every chunk
// ordered by level, then document order. Empty input returns an empty slice.
func (s *ChunkingService) ChunkDocument(ctx context.Context, text string, strategy Strategy) ([]*Chunk, error) {
	return s.ChunkDocumentByID(ctx, uuid.NewString(), text, strategy)
}

// ChunkDocumentByID chunks text under a caller-chosen document id, replacing
// any hierarchy previously cached under that id
func (s *ChunkingService) ChunkDocumentByID(ctx context.Context, documentID, text string, strategy Strategy) ([]*Chunk, error) {
	return s.chunk(ctx, documentID, text, strategy, nil)
}

// ChunkDocumentWithMetadata chunks text and copies the supplied metadata into
// every produced chunk
func (s *ChunkingService) ChunkDocumentWithMetadata(ctx context.Context, text string, strategy Strategy, metadata types.MetadataMap) ([]*Chunk, error) {
	return s.chunk(ctx, uuid.NewString(), text, strategy, metadata)
}

func (s *ChunkingService) chunk(ctx context.Context, documentID, text string, strategy Strategy, metadata types.MetadataMap) ([]*Chunk, error) {
	if !IsValidStrategy(strategy) {
		return nil, errors.NewInvalidInputError(
			"unknown chunking strategy: " + string(strategy)).WithDetail("strategy", string(strategy))
	}

	start := time.Now()

	s.mu.RLock()
	config := *s.config
	s.mu.RUnlock()

	hierarchy := s.build(documentID, text, strategy, &config, metadata)

	s.mu.Lock()
	s.hierarchies[documentID] = hierarchy
	s.lastDocumentID = documentID
	s.mu.Unlock()

	elapsed := time.Since(start)
	labels := map[string]string{"strategy": string(strategy)}
	s.metrics.Counter("chunkhound_documents_total", 1, labels)
	s.metrics.Gauge("chunkhound_last_chunk_count", float64(hierarchy.TotalChunks()), labels)
	s.metrics.Timer("chunkhound_chunk_duration_ms", float64(elapsed.Milliseconds()), labels)

	s.logger.Debug("chunked document", map[string]interface{}{
		"document_id": documentID,
		"strategy":    string(strategy),
		"chunks":      hierarchy.TotalChunks(),
		"levels":      len(hierarchy.Levels),
		"duration":    elapsed.String(),
	})

	return hierarchy.AllChunks(), nil
}

// build runs the chunking pipeline for one document. Pure aside from clock
// reads; operates only on its arguments.
func (s *ChunkingService) build(documentID, text string, strategy Strategy, config *ChunkerConfig, metadata types.MetadataMap) *Hierarchy {
	sentences := s.segmenter.Segment(text)
	if len(sentences) == 0 {
		return NewHierarchy(documentID, strategy, map[int][]*Chunk{}, len(text))
	}

	targetSize := config.BaseChunkSize
	if strategy == StrategyAdaptive {
		targetSize = AdaptiveTargetSize(targetSize, text, sentences, config.estimator())
	}

	builder := NewBuilder(config.estimator())
	levelZero := builder.BuildLevelZero(text, sentences, targetSize, config.Overlap)

	levels := map[int][]*Chunk{0: levelZero}
	if strategy != StrategySentenceAware {
		levels = s.assembler.Assemble(levelZero, text, config)
	}

	if config.DetectSections {
		tagSections(levelZero, text)
	}

	if metadata != nil {
		for _, chunks := range levels {
			for _, chunk := range chunks {
				for k, v := range metadata {
					chunk.Metadata[k] = v
				}
			}
		}
	}

	return NewHierarchy(documentID, strategy, levels, len(text))
}

// tagSections records the containing markdown section title on each level-0
// chunk, keyed off the chunk's base start (past any leading overlap)
func tagSections(levelZero []*Chunk, text string) {
	sections := DetectSections([]byte(text))
	if len(sections) == 0 {
		return
	}
	for _, chunk := range levelZero {
		base := chunk.StartChar + chunk.LeadingOverlapLen()
		if section := SectionAt(sections, base); section != nil && section.Title != "" {
			chunk.Metadata["section_title"] = section.Title
			chunk.Metadata["section_level"] = section.HeadingLevel
		}
	}
}

// OverlapUpdate carries the optional fields of an overlap reconfiguration;
// nil fields are left unchanged
type OverlapUpdate struct {
	OverlapPercentage *float64 `json:"overlap_percentage,omitempty"`
	MinOverlapChars   *int     `json:"min_overlap_chars,omitempty"`
	MaxOverlapChars   *int     `json:"max_overlap_chars,omitempty"`
}

// ConfigValidation reports whether a proposed configuration was accepted
type ConfigValidation struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// OverlapUpdateResult is the outcome of UpdateOverlapConfiguration
type OverlapUpdateResult struct {
	ChangesApplied []string         `json:"changes_applied"`
	NewConfig      OverlapConfig    `json:"new_config"`
	Validation     ConfigValidation `json:"validation"`
}

// UpdateOverlapConfiguration validates and applies a partial overlap
// reconfiguration. An invalid proposal is rejected as data: the result
// carries the violations and the configuration is left untouched. A call
// with no fields set changes nothing and reports no applied changes.
func (s *ChunkingService) UpdateOverlapConfiguration(update OverlapUpdate) *OverlapUpdateResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate := s.config.Overlap
	var applied []string

	if update.OverlapPercentage != nil && *update.OverlapPercentage != candidate.OverlapPercentage {
		candidate.OverlapPercentage = *update.OverlapPercentage
		applied = append(applied, "overlap_percentage")
	}
	if update.MinOverlapChars != nil && *update.MinOverlapChars != candidate.MinOverlapChars {
		candidate.MinOverlapChars = *update.MinOverlapChars
		applied = append(applied, "min_overlap_chars")
	}
	if update.MaxOverlapChars != nil && *update.MaxOverlapChars != candidate.MaxOverlapChars {
		candidate.MaxOverlapChars = *update.MaxOverlapChars
		applied = append(applied, "max_overlap_chars")
	}

	if violations := candidate.ValidationErrors(); len(violations) > 0 {
		return &OverlapUpdateResult{
			ChangesApplied: []string{},
			NewConfig:      s.config.Overlap,
			Validation:     ConfigValidation{IsValid: false, Errors: violations},
		}
	}

	s.config.Overlap = candidate
	if applied == nil {
		applied = []string{}
	}
	return &OverlapUpdateResult{
		ChangesApplied: applied,
		NewConfig:      candidate,
		Validation:     ConfigValidation{IsValid: true, Errors: []string{}},
	}
}

// GetOverlapConfiguration returns a copy of the current overlap settings
func (s *ChunkingService) GetOverlapConfiguration() OverlapConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.Overlap
}

// RelationshipResult answers a GetChunkRelationships query. Found is false
// for an unknown chunk id; no error is raised.
type RelationshipResult struct {
	Found    bool              `json:"found"`
	ChunkID  string            `json:"chunk_id"`
	ParentID string            `json:"parent_id,omitempty"`
	Children []string          `json:"children"`
	Siblings []string          `json:"siblings"`
	Metadata types.MetadataMap `json:"metadata,omitempty"`
}

// GetChunkRelationships looks up a chunk's children, same-level siblings and
// metadata in the last-built hierarchy
func (s *ChunkingService) GetChunkRelationships(chunkID string) *RelationshipResult {
	h := s.lastHierarchy()
	if h == nil {
		return &RelationshipResult{Found: false, ChunkID: chunkID, Children: []string{}, Siblings: []string{}}
	}

	chunk, ok := h.Chunk(chunkID)
	if !ok {
		return &RelationshipResult{Found: false, ChunkID: chunkID, Children: []string{}, Siblings: []string{}}
	}

	siblings := make([]string, 0, len(h.Levels[chunk.Level]))
	for _, sibling := range h.Levels[chunk.Level] {
		if sibling.ID != chunk.ID {
			siblings = append(siblings, sibling.ID)
		}
	}

	children := make([]string, len(chunk.ChildIDs))
	copy(children, chunk.ChildIDs)

	metadata := make(types.MetadataMap, len(chunk.Metadata))
	for k, v := range chunk.Metadata {
		metadata[k] = v
	}

	return &RelationshipResult{
		Found:    true,
		ChunkID:  chunk.ID,
		ParentID: chunk.ParentID,
		Children: children,
		Siblings: siblings,
		Metadata: metadata,
	}
}

// HierarchyView answers a GetChunkHierarchy query
type HierarchyView struct {
	Found       bool     `json:"found"`
	ChunkID     string   `json:"chunk_id"`
	Level       int      `json:"level"`
	Ancestors   []string `json:"ancestors"`   // bottom-up, nearest first
	Descendants []string `json:"descendants"` // breadth-first, level by level
}

// GetChunkHierarchy returns the ancestor chain and descendant tree of a
// chunk in the last-built hierarchy
func (s *ChunkingService) GetChunkHierarchy(chunkID string) *HierarchyView {
	h := s.lastHierarchy()
	if h == nil {
		return &HierarchyView{Found: false, ChunkID: chunkID, Ancestors: []string{}, Descendants: []string{}}
	}

	chunk, ok := h.Chunk(chunkID)
	if !ok {
		return &HierarchyView{Found: false, ChunkID: chunkID, Ancestors: []string{}, Descendants: []string{}}
	}

	ancestors := []string{}
	for current := chunk; current.ParentID != ""; {
		parent, ok := h.Chunk(current.ParentID)
		if !ok {
			break
		}
		ancestors = append(ancestors, parent.ID)
		current = parent
	}

	descendants := []string{}
	frontier := append([]string{}, chunk.ChildIDs...)
	for len(frontier) > 0 {
		id := frontier[0]
		frontier = frontier[1:]
		child, ok := h.Chunk(id)
		if !ok {
			continue
		}
		descendants = append(descendants, child.ID)
		frontier = append(frontier, child.ChildIDs...)
	}

	return &HierarchyView{
		Found:       true,
		ChunkID:     chunk.ID,
		Level:       chunk.Level,
		Ancestors:   ancestors,
		Descendants: descendants,
	}
}

// GetContextualChunks returns the chunk plus up to contextWindow siblings on
// each side, in document order. Unknown ids yield an empty slice.
func (s *ChunkingService) GetContextualChunks(chunkID string, contextWindow int) []*Chunk {
	h := s.lastHierarchy()
	if h == nil {
		return []*Chunk{}
	}

	chunk, ok := h.Chunk(chunkID)
	if !ok {
		return []*Chunk{}
	}
	if contextWindow < 0 {
		contextWindow = 0
	}

	siblings := h.Levels[chunk.Level]
	lo := chunk.Index - contextWindow
	if lo < 0 {
		lo = 0
	}
	hi := chunk.Index + contextWindow
	if hi > len(siblings)-1 {
		hi = len(siblings) - 1
	}

	window := make([]*Chunk, 0, hi-lo+1)
	window = append(window, siblings[lo:hi+1]...)
	return window
}

// ValidateHierarchyIntegrity runs the integrity validator against the
// last-built hierarchy
func (s *ChunkingService) ValidateHierarchyIntegrity() *ValidationReport {
	s.mu.RLock()
	overlap := s.config.Overlap
	s.mu.RUnlock()

	return NewValidator(overlap).Validate(s.lastHierarchy())
}

// GetHierarchyStatistics summarizes the last-built hierarchy
func (s *ChunkingService) GetHierarchyStatistics() *HierarchyStatistics {
	s.mu.RLock()
	overlap := s.config.Overlap
	s.mu.RUnlock()

	return NewValidator(overlap).Statistics(s.lastHierarchy())
}

// Hierarchy returns the cached hierarchy for a document id
func (s *ChunkingService) Hierarchy(documentID string) (*Hierarchy, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.hierarchies[documentID]
	return h, ok
}

// DropDocument evicts a cached hierarchy. Dropping a document that was never
// chunked (or was already dropped) is a not-found error.
func (s *ChunkingService) DropDocument(documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.hierarchies[documentID]; !ok {
		return errors.NewDocumentNotFoundError(documentID)
	}
	delete(s.hierarchies, documentID)
	if s.lastDocumentID == documentID {
		s.lastDocumentID = ""
	}
	return nil
}

// lastHierarchy returns the most recently built hierarchy, nil when none
func (s *ChunkingService) lastHierarchy() *Hierarchy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastDocumentID == "" {
		return nil
	}
	return s.hierarchies[s.lastDocumentID]
}
