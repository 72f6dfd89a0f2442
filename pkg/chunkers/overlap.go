package chunkers

import (
	"math"
	"unicode/utf8"
)

// Span is a half-open [Start, End) byte range into the source document
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the byte length of the span
func (s Span) Len() int {
	return s.End - s.Start
}

// ComputeOverlap returns the span shared at the boundary between two adjacent
// chunk spans, or nil when no overlap applies.
//
// The target length is round(prev length * percentage), clamped first to
// [MinOverlapChars, MaxOverlapChars] and then to the length of either
// neighbor: a chunk can never be overlapped by more than it is long. The
// resulting span is the tail of prev, which the following chunk duplicates.
func ComputeOverlap(prev, next Span, cfg OverlapConfig) *Span {
	if cfg.OverlapPercentage <= 0 {
		return nil
	}

	length := int(math.Round(float64(prev.Len()) * cfg.OverlapPercentage))
	if length < cfg.MinOverlapChars {
		length = cfg.MinOverlapChars
	}
	if length > cfg.MaxOverlapChars {
		length = cfg.MaxOverlapChars
	}
	if length > prev.Len() {
		length = prev.Len()
	}
	if length > next.Len() {
		length = next.Len()
	}
	if length <= 0 {
		return nil
	}

	return &Span{Start: prev.End - length, End: prev.End}
}

// alignToRuneStart moves pos forward to the nearest UTF-8 rune boundary so
// overlap extension never slices a rune in half
func alignToRuneStart(text string, pos int) int {
	for pos < len(text) && !utf8.RuneStart(text[pos]) {
		pos++
	}
	return pos
}
