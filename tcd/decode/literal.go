package decode

import (
	"fmt"

	ports "github.com/ZanzyTHEbar/toolcall-decoder/tcd/decode/ports"
)

// forceLiteral appends the token encoding of text to the context
// without consulting the model. Safe for any fragment validated by the
// registry's round-trip check; purely mechanical, never queries
// NextDistribution.
func forceLiteral(vocab ports.Vocabulary, gctx *generationContext, text string) error {
	tokens, err := vocab.Encode(text)
	if err != nil {
		return fmt.Errorf("force literal %q: %w", text, err)
	}
	if err := gctx.appendTokens(vocab, tokens); err != nil {
		return fmt.Errorf("force literal %q: %w", text, err)
	}
	return nil
}

// forceTokens appends an already-encoded token sequence, used for the
// remaining tokens of a chosen enumerated candidate.
func forceTokens(vocab ports.Vocabulary, gctx *generationContext, tokens []int) error {
	if err := gctx.appendTokens(vocab, tokens); err != nil {
		return fmt.Errorf("force tokens: %w", err)
	}
	return nil
}
