package chunkers

import (
	"fmt"
	"strings"

	"github.com/aischolar/chunkhound/pkg/errors"
)

// ParseStrategy resolves a strategy from its string name. Matching is
// case-insensitive and accepts both underscore and hyphen spellings.
func ParseStrategy(name string) (Strategy, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.ReplaceAll(normalized, "-", "_")

	switch normalized {
	case "sentence_aware", "sentence":
		return StrategySentenceAware, nil
	case "hierarchical":
		return StrategyHierarchical, nil
	case "adaptive":
		return StrategyAdaptive, nil
	default:
		return "", errors.NewInvalidInputError(
			fmt.Sprintf("unknown chunking strategy: %s, supported: %v", name, SupportedStrategies())).
			WithDetail("strategy", name)
	}
}

// StrategyDescriptor provides information about a chunking strategy
type StrategyDescriptor struct {
	Strategy    Strategy `json:"strategy"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
}

// GetStrategyDescriptors returns descriptive information about all strategies
func GetStrategyDescriptors() []StrategyDescriptor {
	return []StrategyDescriptor{
		{
			Strategy:    StrategySentenceAware,
			Name:        "Sentence-aware",
			Description: "Single level of sentence-aligned chunks with configurable overlap",
		},
		{
			Strategy:    StrategyHierarchical,
			Name:        "Hierarchical",
			Description: "Sentence-aligned level 0 aggregated into coarser parent levels with bidirectional links",
		},
		{
			Strategy:    StrategyAdaptive,
			Name:        "Adaptive",
			Description: "Hierarchical chunking with the level-0 budget scaled to the measured average sentence length",
		},
	}
}
