package eval

import (
	"fmt"
	"strings"
)

// ReturnKind is the score type an evaluator produces.
type ReturnKind string

const (
	// ReturnBoolean scores are 0 or 1; aggregation reports the true ratio.
	ReturnBoolean ReturnKind = "boolean"
	// ReturnNumber scores are arbitrary floats; aggregation reports the mean.
	ReturnNumber ReturnKind = "number"
)

// Sample is what an evaluator sees for one record.
type Sample struct {
	Inputs map[string]any
	Output string
	Target string
}

// Evaluator scores one pipeline output.
type Evaluator struct {
	Name    string
	Returns ReturnKind
	// RequiresTarget marks target-required evaluators; they error on
	// records without a target instead of scoring them.
	RequiresTarget bool
	Score          func(Sample) (float64, error)
}

// BooleanEvaluator wraps a predicate as a target-free boolean evaluator.
func BooleanEvaluator(name string, predicate func(Sample) bool) Evaluator {
	return Evaluator{
		Name:    name,
		Returns: ReturnBoolean,
		Score: func(s Sample) (float64, error) {
			if predicate(s) {
				return 1, nil
			}
			return 0, nil
		},
	}
}

// NumberEvaluator wraps a scoring function as a target-free number
// evaluator.
func NumberEvaluator(name string, score func(Sample) float64) Evaluator {
	return Evaluator{
		Name:    name,
		Returns: ReturnNumber,
		Score: func(s Sample) (float64, error) {
			return score(s), nil
		},
	}
}

// ExactMatch scores 1 when the output equals the target after whitespace
// trimming and case folding.
func ExactMatch() Evaluator {
	return Evaluator{
		Name:           "exact_match",
		Returns:        ReturnBoolean,
		RequiresTarget: true,
		Score: func(s Sample) (float64, error) {
			if normalizeAnswer(s.Output) == normalizeAnswer(s.Target) {
				return 1, nil
			}
			return 0, nil
		},
	}
}

// Levenshtein scores the edit distance between output and target; lower is
// better.
func Levenshtein() Evaluator {
	return Evaluator{
		Name:           "levenshtein",
		Returns:        ReturnNumber,
		RequiresTarget: true,
		Score: func(s Sample) (float64, error) {
			return float64(levenshteinDistance(s.Output, s.Target)), nil
		},
	}
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// levenshteinDistance computes edit distance with the two-row dynamic
// program, operating on runes so multibyte answers compare correctly.
func levenshteinDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func validateEvaluator(e Evaluator) error {
	if e.Name == "" {
		return fmt.Errorf("evaluator has no name")
	}
	if e.Score == nil {
		return fmt.Errorf("evaluator %s has no scoring function", e.Name)
	}
	switch e.Returns {
	case ReturnBoolean, ReturnNumber:
		return nil
	default:
		return fmt.Errorf("evaluator %s: unknown return kind %q", e.Name, e.Returns)
	}
}
