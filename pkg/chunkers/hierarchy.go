package chunkers

import (
	"time"

	"github.com/aischolar/chunkhound/pkg/types"
)

// Assembler recursively merges level-N chunks into coarser level-(N+1)
// parents, wiring parent/child links both directions as each parent is
// created so no chunk is ever left with a dangling link.
type Assembler struct{}

// NewAssembler creates a hierarchy assembler
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble groups consecutive chunks level by level until cfg.MaxLevels is
// reached or a level collapses to a single chunk. The input level-0 slice is
// mutated only by setting ParentID on its chunks.
func (a *Assembler) Assemble(levelZero []*Chunk, text string, cfg *ChunkerConfig) map[int][]*Chunk {
	levels := map[int][]*Chunk{0: levelZero}

	current := levelZero
	for level := 1; level < cfg.MaxLevels && len(current) > 1; level++ {
		parents := a.buildParents(current, level, text, cfg)
		levels[level] = parents
		current = parents
	}

	return levels
}

// buildParents produces one parent level by greedy grouping of consecutive
// children against the aggregate content-length budget
func (a *Assembler) buildParents(children []*Chunk, level int, text string, cfg *ChunkerConfig) []*Chunk {
	groupSize := cfg.GroupSize
	if groupSize <= 0 {
		groupSize = DefaultChunkerConfig().GroupSize
	}

	now := time.Now()
	var parents []*Chunk

	first := 0
	aggregate := 0
	flush := func(last int) {
		parent := a.newParent(children[first:last+1], level, len(parents), text, now)
		parents = append(parents, parent)
		first = last + 1
		aggregate = 0
	}

	for i, child := range children {
		length := child.ContentLength()
		if i > first && aggregate+length > groupSize {
			flush(i - 1)
		}
		aggregate += length
	}
	flush(len(children) - 1)

	a.applyParentOverlap(parents, cfg.Overlap)

	return parents
}

// newParent creates one parent chunk and wires both link directions. The
// parent's content is sliced from the source document in one piece, which
// de-duplicates the overlap its children share at their mutual boundaries.
func (a *Assembler) newParent(group []*Chunk, level, index int, text string, now time.Time) *Chunk {
	firstChild := group[0]
	lastChild := group[len(group)-1]

	parent := &Chunk{
		ID:            ChunkID(level, index),
		Level:         level,
		Index:         index,
		StartChar:     firstChild.StartChar,
		EndChar:       lastChild.EndChar,
		StartSentence: firstChild.StartSentence,
		EndSentence:   lastChild.EndSentence,
		Content:       text[firstChild.StartChar:lastChild.EndChar],
		ChildIDs:      make([]string, 0, len(group)),
		Metadata:      make(types.MetadataMap),
		CreatedAt:     now,
	}

	for _, child := range group {
		child.ParentID = parent.ID
		parent.ChildIDs = append(parent.ChildIDs, child.ID)
	}
	parent.Metadata["child_count"] = len(group)

	return parent
}

// applyParentOverlap derives the overlap fields of a parent level from the
// spans its children already borrowed across group boundaries
func (a *Assembler) applyParentOverlap(parents []*Chunk, cfg OverlapConfig) {
	for i := 1; i < len(parents); i++ {
		prev, next := parents[i-1], parents[i]
		shared := prev.EndChar - next.StartChar
		if shared <= 0 {
			continue
		}

		lead := shared
		next.OverlapStart = &lead

		trailOffset := next.StartChar - prev.StartChar
		prev.OverlapEnd = &trailOffset
	}

	for i := range parents {
		annotateAdjacency(parents, i, cfg)
	}
}
