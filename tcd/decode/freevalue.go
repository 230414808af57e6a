package decode

import (
	"context"
	"strings"

	ports "github.com/ZanzyTHEbar/toolcall-decoder/tcd/decode/ports"
)

// valueResult is the outcome of one free-value generation.
type valueResult struct {
	text       string
	terminated bool // false when the step budget ran out first
	steps      int  // model queries consumed
}

// generateValue samples tokens greedily until the decoded text reaches
// the terminator character or the step budget runs out. Implemented as
// an explicit bounded loop rather than a suspended generator so it can
// be cancelled between steps.
//
// The terminator's own token is never appended to the context; the
// caller emits the official closing punctuation through the literal
// injector, so byte-level output is exact no matter how the model's
// token boundaries fell. When a token carries text on both sides of the
// terminator, the leading part belongs to the value and is injected
// back into the context as a literal.
func generateValue(ctx context.Context, vocab ports.Vocabulary, gctx *generationContext, terminator rune, maxSteps int) (valueResult, error) {
	eosVocab, hasEOS := vocab.(ports.EOSAware)

	var value strings.Builder
	for step := 1; step <= maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return valueResult{}, err
		}

		dist, err := nextDistribution(ctx, vocab, gctx)
		if err != nil {
			return valueResult{}, err
		}
		tok := argmaxToken(dist)

		if hasEOS && tok == eosVocab.EOSToken() {
			return valueResult{text: value.String(), terminated: true, steps: step}, nil
		}

		decoded, err := vocab.Decode([]int{tok})
		if err != nil {
			return valueResult{}, err
		}

		if idx := strings.IndexRune(decoded, terminator); idx >= 0 {
			prefix := decoded[:idx]
			value.WriteString(prefix)
			if prefix != "" {
				if err := forceLiteral(vocab, gctx, prefix); err != nil {
					return valueResult{}, err
				}
			}
			return valueResult{text: value.String(), terminated: true, steps: step}, nil
		}

		value.WriteString(decoded)
		if err := gctx.appendTokens(vocab, []int{tok}); err != nil {
			return valueResult{}, err
		}
	}

	return valueResult{text: value.String(), terminated: false, steps: maxSteps}, nil
}
