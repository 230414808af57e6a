package decode

import (
	"context"
	"fmt"

	ports "github.com/ZanzyTHEbar/toolcall-decoder/tcd/decode/ports"
)

// nextDistribution queries the vocabulary for the next-token scores and
// rejects degenerate results before any component acts on them.
func nextDistribution(ctx context.Context, vocab ports.Vocabulary, gctx *generationContext) (ports.Distribution, error) {
	dist, err := vocab.NextDistribution(ctx, gctx.tokens)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailure, err)
	}
	if !dist.Valid() {
		return nil, fmt.Errorf("%w: empty or non-finite distribution", ErrGenerationFailure)
	}
	return dist, nil
}

// argmaxToken picks the highest-scoring token. Equal scores resolve to
// the lowest token ID so greedy decoding stays a pure function of the
// distribution regardless of map iteration order.
func argmaxToken(dist ports.Distribution) int {
	best := -1
	var bestScore float64
	for tok, score := range dist {
		if best == -1 || score > bestScore || (score == bestScore && tok < best) {
			best = tok
			bestScore = score
		}
	}
	return best
}
