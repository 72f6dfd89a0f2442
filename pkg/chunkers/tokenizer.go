package chunkers

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/aischolar/chunkhound/pkg/errors"
)

// SizeEstimator measures text against the level-0 chunk budget
type SizeEstimator interface {
	// Count returns the size of text in the estimator's unit
	Count(text string) int

	// Name identifies the estimator
	Name() string
}

// WordEstimator counts whitespace-separated words. This is the default unit
// for BaseChunkSize.
type WordEstimator struct{}

// Count returns the number of words in text
func (WordEstimator) Count(text string) int {
	return len(strings.Fields(text))
}

// Name identifies the estimator
func (WordEstimator) Name() string {
	return "word"
}

// TiktokenEstimator counts exact cl100k_base tokens, compatible with
// GPT-style embedding models
type TiktokenEstimator struct {
	encoding *tiktoken.Tiktoken
}

// NewTiktokenEstimator creates a tiktoken-backed estimator. The encoding
// tables are loaded once per instance.
func NewTiktokenEstimator() (*TiktokenEstimator, error) {
	encoding, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, errors.NewInternalError("failed to load tiktoken encoding", err)
	}
	return &TiktokenEstimator{encoding: encoding}, nil
}

// Count returns the number of tokens in text
func (t *TiktokenEstimator) Count(text string) int {
	return len(t.encoding.Encode(text, nil, nil))
}

// Name identifies the estimator
func (t *TiktokenEstimator) Name() string {
	return "tiktoken"
}

// SupportedEstimators returns the recognized estimator provider names
func SupportedEstimators() []string {
	return []string{"word", "tiktoken"}
}

// NewSizeEstimator creates an estimator by provider name
func NewSizeEstimator(provider string) (SizeEstimator, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", "word":
		return WordEstimator{}, nil
	case "tiktoken":
		return NewTiktokenEstimator()
	default:
		return nil, errors.NewInvalidInputError(
			fmt.Sprintf("unknown size estimator: %s, supported: %v", provider, SupportedEstimators())).
			WithDetail("provider", provider)
	}
}
