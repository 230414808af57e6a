package decode

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	ports "github.com/ZanzyTHEbar/toolcall-decoder/tcd/decode/ports"
)

// enumCandidate is one admissible value at an enumerated decision
// point: its identity and pre-validated token sequence.
type enumCandidate struct {
	id     string
	tokens []int
}

// selectEnum restricts the model's next-token distribution to the
// candidates' first tokens and picks exactly one candidate by
// first-token argmax. Exact ties resolve to the candidate appearing
// earliest in the slice, which callers keep in registry insertion
// order. The full identity of the choice is fixed by this single
// decision point; the caller forces the remaining tokens.
//
// The returned confidence is the softmax probability of the winner
// among the candidate first-token scores. It is reporting only and
// never influences selection.
func selectEnum(ctx context.Context, vocab ports.Vocabulary, gctx *generationContext, candidates []enumCandidate) (int, float64, error) {
	if len(candidates) == 0 {
		return 0, 0, fmt.Errorf("%w: empty candidate set", ErrConstraintViolation)
	}

	dist, err := nextDistribution(ctx, vocab, gctx)
	if err != nil {
		return 0, 0, err
	}

	firstTokens := make([]int, len(candidates))
	for i, c := range candidates {
		if len(c.tokens) == 0 {
			return 0, 0, fmt.Errorf("%w: candidate %s has no tokens", ErrConstraintViolation, c.id)
		}
		firstTokens[i] = c.tokens[0]
	}
	masked := newTokenMask(firstTokens...).apply(dist)

	best := 0
	bestScore := math.Inf(-1)
	scores := make([]float64, 0, len(candidates))
	for i, c := range candidates {
		score := masked.Score(c.tokens[0])
		scores = append(scores, score)
		// Strict inequality keeps the earliest candidate on ties.
		if score > bestScore {
			best = i
			bestScore = score
		}
	}

	return best, softmaxConfidence(scores, best), nil
}

// softmaxConfidence computes exp(s[winner]) / sum(exp(s)) in log space.
// Unscored candidates (-Inf) contribute zero mass.
func softmaxConfidence(scores []float64, winner int) float64 {
	if math.IsInf(scores[winner], -1) {
		return 0
	}
	finite := make([]float64, 0, len(scores))
	for _, s := range scores {
		if !math.IsInf(s, -1) {
			finite = append(finite, s)
		}
	}
	lse := floats.LogSumExp(finite)
	return math.Exp(scores[winner] - lse)
}
