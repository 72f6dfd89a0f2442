package chunkers

import (
	"time"

	"github.com/aischolar/chunkhound/pkg/types"
)

// Builder assembles level-0 chunks from segmented sentence units
type Builder struct {
	estimator SizeEstimator
}

// NewBuilder creates a level-0 chunk builder using the given size estimator
func NewBuilder(estimator SizeEstimator) *Builder {
	if estimator == nil {
		estimator = WordEstimator{}
	}
	return &Builder{estimator: estimator}
}

// sentenceGroup is a run of consecutive sentences assigned to one chunk
type sentenceGroup struct {
	first, last int // inclusive sentence indexes
	span        Span
}

// BuildLevelZero greedily accumulates consecutive sentences into chunks whose
// estimated size stays within targetSize, then applies the configured overlap
// to each adjacent pair. Every sentence lands in exactly one group; a single
// sentence larger than targetSize becomes its own oversized chunk. Base chunk
// spans partition [0, len(text)) exactly: each chunk's base span starts where
// the previous one ended, so removing the leading overlap regions
// reconstructs the document with no gaps.
func (b *Builder) BuildLevelZero(text string, sentences []SentenceSpan, targetSize int, overlap OverlapConfig) []*Chunk {
	if len(sentences) == 0 {
		return []*Chunk{}
	}
	if targetSize <= 0 {
		targetSize = DefaultChunkerConfig().BaseChunkSize
	}

	groups := b.groupSentences(text, sentences, targetSize)

	// Base spans are contiguous and cover the whole document.
	for i := range groups {
		if i == 0 {
			groups[i].span.Start = 0
		} else {
			groups[i].span.Start = groups[i-1].span.End
		}
		groups[i].span.End = sentences[groups[i].last].End
	}
	groups[len(groups)-1].span.End = len(text)

	now := time.Now()
	chunks := make([]*Chunk, len(groups))
	for i, group := range groups {
		chunks[i] = &Chunk{
			ID:            ChunkID(0, i),
			Level:         0,
			Index:         i,
			StartChar:     group.span.Start,
			EndChar:       group.span.End,
			StartSentence: group.first,
			EndSentence:   group.last,
			Metadata:      make(types.MetadataMap),
			CreatedAt:     now,
		}
	}

	b.applyOverlap(text, chunks, groups, overlap)

	for i, chunk := range chunks {
		chunk.Content = text[chunk.StartChar:chunk.EndChar]
		annotateAdjacency(chunks, i, overlap)
	}

	return chunks
}

// groupSentences performs the greedy accumulation pass
func (b *Builder) groupSentences(text string, sentences []SentenceSpan, targetSize int) []sentenceGroup {
	var groups []sentenceGroup

	first := 0
	budget := 0
	for i, sentence := range sentences {
		size := b.estimator.Count(text[sentence.Start:sentence.End])
		if i > first && budget+size > targetSize {
			groups = append(groups, sentenceGroup{first: first, last: i - 1})
			first = i
			budget = 0
		}
		budget += size
	}
	groups = append(groups, sentenceGroup{first: first, last: len(sentences) - 1})

	return groups
}

// applyOverlap extends each non-first chunk backwards over its predecessor's
// tail and records the duplicated regions on both chunks. Boundaries are
// processed left to right so a chunk's final start offset is known before its
// trailing overlap is recorded.
func (b *Builder) applyOverlap(text string, chunks []*Chunk, groups []sentenceGroup, cfg OverlapConfig) {
	for i := 1; i < len(chunks); i++ {
		shared := ComputeOverlap(groups[i-1].span, groups[i].span, cfg)
		if shared == nil {
			continue
		}

		start := alignToRuneStart(text, shared.Start)
		lead := groups[i].span.Start - start
		if lead <= 0 {
			continue
		}

		chunks[i].StartChar = start
		chunks[i].OverlapStart = &lead

		trailOffset := start - chunks[i-1].StartChar
		chunks[i-1].OverlapEnd = &trailOffset
	}
}

// annotateAdjacency records relationship statistics in chunk metadata
func annotateAdjacency(chunks []*Chunk, i int, cfg OverlapConfig) {
	chunk := chunks[i]
	if i > 0 {
		chunk.Metadata["prev_chunk_id"] = chunks[i-1].ID
	}
	if i < len(chunks)-1 {
		chunk.Metadata["next_chunk_id"] = chunks[i+1].ID
	}
	if lead := chunk.LeadingOverlapLen(); lead > 0 && chunk.ContentLength() > 0 {
		chunk.Metadata["overlap_ratio"] = float64(lead) / float64(chunk.ContentLength())
		chunk.Metadata["configured_overlap_ratio"] = cfg.OverlapPercentage
	}
}
