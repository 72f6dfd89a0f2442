package chunkers

import (
	"fmt"
	"sort"

	"github.com/aischolar/chunkhound/pkg/errors"
)

// ValidationReport is the outcome of an integrity scan. Problems are
// collected, never thrown: one malformed chunk does not abort validation of
// the rest.
type ValidationReport struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// HierarchyStatistics summarizes a built hierarchy
type HierarchyStatistics struct {
	// TotalChunks across all levels
	TotalChunks int `json:"total_chunks"`

	// ChunksPerLevel maps level -> chunk count
	ChunksPerLevel map[int]int `json:"chunks_per_level"`

	// ParentCount is the number of chunks with children
	ParentCount int `json:"parent_count"`

	// LeafCount is the number of chunks without children
	LeafCount int `json:"leaf_count"`

	// ChunksWithOverlap counts chunks sharing text with a neighbor
	ChunksWithOverlap int `json:"chunks_with_overlap"`

	// OverlapCoverage is ChunksWithOverlap / TotalChunks
	OverlapCoverage float64 `json:"overlap_coverage"`

	// AverageOverlapRatio is the mean of (leading overlap length / content
	// length) over chunks that have a leading overlap
	AverageOverlapRatio float64 `json:"average_overlap_ratio"`
}

// Validator walks an assembled hierarchy and verifies relationship and
// overlap integrity
type Validator struct {
	overlap OverlapConfig
}

// NewValidator creates a validator checking overlap spans against cfg
func NewValidator(cfg OverlapConfig) *Validator {
	return &Validator{overlap: cfg}
}

// Validate checks parent/child bijection, per-level ordering, duplicate
// spans and overlap bounds. An empty hierarchy is valid. Findings are
// collected as coded errors and reported as their message strings.
func (v *Validator) Validate(h *Hierarchy) *ValidationReport {
	findings := errors.NewErrorList()
	warnings := []string{}

	if h == nil {
		findings.Add(errors.NewHierarchyError("no hierarchy available"))
		return newReport(findings, warnings)
	}
	if h.TotalChunks() == 0 {
		warnings = append(warnings, "hierarchy is empty")
		return newReport(findings, warnings)
	}

	top := h.TopLevel()
	levels := make([]int, 0, len(h.Levels))
	for level := range h.Levels {
		levels = append(levels, level)
	}
	sort.Ints(levels)

	for _, level := range levels {
		warnings = v.checkLevel(h, level, top, findings, warnings)
	}

	return newReport(findings, warnings)
}

func newReport(findings *errors.ErrorList, warnings []string) *ValidationReport {
	return &ValidationReport{
		IsValid:  !findings.HasErrors(),
		Errors:   findings.Messages(),
		Warnings: warnings,
	}
}

func (v *Validator) checkLevel(h *Hierarchy, level, top int, findings *errors.ErrorList, warnings []string) []string {
	chunks := h.Levels[level]
	seenSpans := make(map[[2]int]string, len(chunks))

	for i, chunk := range chunks {
		if chunk.Index != i {
			findings.Add(errors.NewHierarchyError(
				fmt.Sprintf("chunk %s: index %d does not match position %d at level %d",
					chunk.ID, chunk.Index, i, level)))
		}
		if i > 0 && chunk.StartChar < chunks[i-1].StartChar {
			findings.Add(errors.NewHierarchyError(
				fmt.Sprintf("chunk %s: start offset %d precedes previous sibling's %d",
					chunk.ID, chunk.StartChar, chunks[i-1].StartChar)))
		}
		if chunk.StartChar < 0 || chunk.EndChar <= chunk.StartChar || chunk.EndChar > h.SourceLength {
			findings.Add(errors.NewHierarchyError(
				fmt.Sprintf("chunk %s: span [%d, %d) out of bounds for document of length %d",
					chunk.ID, chunk.StartChar, chunk.EndChar, h.SourceLength)))
		}

		span := [2]int{chunk.StartChar, chunk.EndChar}
		if other, dup := seenSpans[span]; dup {
			findings.Add(errors.NewDuplicateSpanError(other, chunk.ID, level, span[0], span[1]))
		}
		seenSpans[span] = chunk.ID

		v.checkLinks(h, chunk, level, top, findings)
		warnings = v.checkOverlap(chunks, i, findings, warnings)
	}

	return warnings
}

// checkLinks verifies the parent/child pointers are bijective
func (v *Validator) checkLinks(h *Hierarchy, chunk *Chunk, level, top int, findings *errors.ErrorList) {
	if chunk.ParentID == "" {
		if level < top {
			findings.Add(errors.NewOrphanChunkError(chunk.ID, level, top))
		}
	} else {
		parent, ok := h.Chunk(chunk.ParentID)
		switch {
		case !ok:
			findings.Add(errors.NewChunkNotFoundError(chunk.ParentID).WithDetail("child_id", chunk.ID))
		case parent.Level != level+1:
			findings.Add(errors.NewHierarchyError(
				fmt.Sprintf("chunk %s at level %d: parent %s is at level %d, want %d",
					chunk.ID, level, parent.ID, parent.Level, level+1)))
		default:
			if countOccurrences(parent.ChildIDs, chunk.ID) != 1 {
				findings.Add(errors.NewBrokenLinkError(chunk.ID, parent.ID))
			}
		}
	}

	for _, childID := range chunk.ChildIDs {
		child, ok := h.Chunk(childID)
		switch {
		case !ok:
			findings.Add(errors.NewChunkNotFoundError(childID).WithDetail("parent_id", chunk.ID))
		case child.ParentID != chunk.ID:
			findings.Add(errors.NewHierarchyError(
				fmt.Sprintf("chunk %s: child %s points at parent %q instead",
					chunk.ID, childID, child.ParentID)))
		case child.Level != level-1:
			findings.Add(errors.NewHierarchyError(
				fmt.Sprintf("chunk %s at level %d: child %s is at level %d, want %d",
					chunk.ID, level, childID, child.Level, level-1)))
		}
	}
}

// checkOverlap verifies overlap spans against the configured bounds and
// against both neighbors' lengths. A span shorter than the minimum is only a
// warning: neighbor-length clamping legitimately shrinks it.
func (v *Validator) checkOverlap(chunks []*Chunk, i int, findings *errors.ErrorList, warnings []string) []string {
	chunk := chunks[i]

	if lead := chunk.LeadingOverlapLen(); lead > 0 {
		if i == 0 {
			findings.Add(errors.NewOverlapBoundsError(chunk.ID,
				fmt.Sprintf("chunk %s: first chunk at its level cannot have a leading overlap", chunk.ID)))
		} else {
			warnings = v.checkOverlapSpan(chunk.ID, "leading", lead, chunks[i-1], chunk, findings, warnings)
		}
	}
	if trail := chunk.TrailingOverlapLen(); trail > 0 {
		if i == len(chunks)-1 {
			findings.Add(errors.NewOverlapBoundsError(chunk.ID,
				fmt.Sprintf("chunk %s: last chunk at its level cannot have a trailing overlap", chunk.ID)))
		} else {
			warnings = v.checkOverlapSpan(chunk.ID, "trailing", trail, chunk, chunks[i+1], findings, warnings)
		}
	}

	return warnings
}

func (v *Validator) checkOverlapSpan(chunkID, kind string, length int, prev, next *Chunk, findings *errors.ErrorList, warnings []string) []string {
	if length > v.overlap.MaxOverlapChars {
		findings.Add(errors.NewOverlapBoundsError(chunkID,
			fmt.Sprintf("chunk %s: %s overlap of %d chars exceeds max %d",
				chunkID, kind, length, v.overlap.MaxOverlapChars)))
	}
	if length > prev.ContentLength() || length > next.ContentLength() {
		findings.Add(errors.NewOverlapBoundsError(chunkID,
			fmt.Sprintf("chunk %s: %s overlap of %d chars exceeds a neighbor's length",
				chunkID, kind, length)))
	}
	if length < v.overlap.MinOverlapChars {
		warnings = append(warnings,
			fmt.Sprintf("chunk %s: %s overlap of %d chars is below min %d (clamped by neighbor length)",
				chunkID, kind, length, v.overlap.MinOverlapChars))
	}
	return warnings
}

// Statistics computes summary counts for a hierarchy
func (v *Validator) Statistics(h *Hierarchy) *HierarchyStatistics {
	stats := &HierarchyStatistics{
		ChunksPerLevel: make(map[int]int),
	}
	if h == nil {
		return stats
	}

	overlapRatioSum := 0.0
	overlapRatioCount := 0

	for level, chunks := range h.Levels {
		stats.ChunksPerLevel[level] = len(chunks)
		stats.TotalChunks += len(chunks)

		for _, chunk := range chunks {
			if len(chunk.ChildIDs) > 0 {
				stats.ParentCount++
			} else {
				stats.LeafCount++
			}
			if chunk.HasOverlap() {
				stats.ChunksWithOverlap++
			}
			if lead := chunk.LeadingOverlapLen(); lead > 0 && chunk.ContentLength() > 0 {
				overlapRatioSum += float64(lead) / float64(chunk.ContentLength())
				overlapRatioCount++
			}
		}
	}

	if stats.TotalChunks > 0 {
		stats.OverlapCoverage = float64(stats.ChunksWithOverlap) / float64(stats.TotalChunks)
	}
	if overlapRatioCount > 0 {
		stats.AverageOverlapRatio = overlapRatioSum / float64(overlapRatioCount)
	}

	return stats
}

func countOccurrences(ids []string, id string) int {
	n := 0
	for _, candidate := range ids {
		if candidate == id {
			n++
		}
	}
	return n
}
