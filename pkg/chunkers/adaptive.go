package chunkers

import "math"

// referenceSentenceSize is the average sentence size (in estimator units)
// that leaves the base budget unchanged
const referenceSentenceSize = 18.0

// adaptiveFactorMin and adaptiveFactorMax bound how far the adaptive
// strategy may scale the base budget
const (
	adaptiveFactorMin = 0.5
	adaptiveFactorMax = 2.0
)

// AdaptiveTargetSize derives a level-0 chunk budget from the document's
// measured average sentence size. Shorter sentences yield a larger budget so
// terse documents do not shatter into many tiny chunks; the mapping is
// monotonic and the exact scale factors are tunable defaults, not a contract.
func AdaptiveTargetSize(base int, text string, sentences []SentenceSpan, estimator SizeEstimator) int {
	if base <= 0 {
		base = DefaultChunkerConfig().BaseChunkSize
	}
	if len(sentences) == 0 {
		return base
	}
	if estimator == nil {
		estimator = WordEstimator{}
	}

	total := 0
	for _, sentence := range sentences {
		total += estimator.Count(text[sentence.Start:sentence.End])
	}
	average := float64(total) / float64(len(sentences))
	if average <= 0 {
		return base
	}

	factor := referenceSentenceSize / average
	if factor < adaptiveFactorMin {
		factor = adaptiveFactorMin
	}
	if factor > adaptiveFactorMax {
		factor = adaptiveFactorMax
	}

	adjusted := int(math.Round(float64(base) * factor))
	if adjusted < 1 {
		adjusted = 1
	}
	return adjusted
}
