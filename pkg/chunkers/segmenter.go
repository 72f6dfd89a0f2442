package chunkers

import (
	"regexp"
	"strings"
	"unicode"
)

// SentenceSpan is a half-open [Start, End) byte range of one sentence-like
// unit in the source text, terminator included
type SentenceSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the byte length of the span
func (s SentenceSpan) Len() int {
	return s.End - s.Start
}

// Segmenter splits raw text into sentence spans. Splitting is deterministic
// and locale-unaware: a run of sentence-ending punctuation followed by
// whitespace ends a sentence. Abbreviations are not special-cased, so
// occasional false splits are expected.
type Segmenter struct {
	boundaryRegex *regexp.Regexp
}

// NewSegmenter creates a new sentence segmenter
func NewSegmenter() *Segmenter {
	return &Segmenter{
		boundaryRegex: regexp.MustCompile(`([.!?]+)(\s+)`),
	}
}

// Segment returns the ordered sentence spans of text. Empty or
// whitespace-only input yields an empty slice; non-empty input without any
// boundary yields a single span covering the trimmed text.
func (s *Segmenter) Segment(text string) []SentenceSpan {
	if strings.TrimSpace(text) == "" {
		return []SentenceSpan{}
	}

	var spans []SentenceSpan
	cursor := skipSpace(text, 0)

	for _, match := range s.boundaryRegex.FindAllStringSubmatchIndex(text, -1) {
		terminatorEnd := match[3] // end of the punctuation run
		if terminatorEnd <= cursor {
			continue
		}
		spans = append(spans, SentenceSpan{Start: cursor, End: terminatorEnd})
		cursor = skipSpace(text, match[1])
	}

	// Trailing text without a boundary (or with a terminator at EOF)
	if cursor < len(text) {
		end := trimmedEnd(text)
		if end > cursor {
			spans = append(spans, SentenceSpan{Start: cursor, End: end})
		}
	}

	if spans == nil {
		return []SentenceSpan{}
	}
	return spans
}

// skipSpace returns the offset of the first non-space byte at or after pos
func skipSpace(text string, pos int) int {
	for pos < len(text) && unicode.IsSpace(rune(text[pos])) {
		pos++
	}
	return pos
}

// trimmedEnd returns the offset just past the last non-space byte
func trimmedEnd(text string) int {
	end := len(text)
	for end > 0 && unicode.IsSpace(rune(text[end-1])) {
		end--
	}
	return end
}
