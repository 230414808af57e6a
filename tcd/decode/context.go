package decode

import (
	"github.com/google/uuid"

	ports "github.com/ZanzyTHEbar/toolcall-decoder/tcd/decode/ports"
)

// generationContext is the growing token sequence for one decoding run
// plus the text reconstructed from it. Owned exclusively by one run and
// discarded at the end; never shared across goroutines.
type generationContext struct {
	runID     string
	tokens    []int
	text      string
	promptLen int // byte offset where generated output starts
}

func newGenerationContext() *generationContext {
	return &generationContext{runID: uuid.NewString()}
}

// appendTokens extends the context and keeps the decoded text in sync.
func (g *generationContext) appendTokens(vocab ports.Vocabulary, tokens []int) error {
	if len(tokens) == 0 {
		return nil
	}
	decoded, err := vocab.Decode(tokens)
	if err != nil {
		return err
	}
	g.tokens = append(g.tokens, tokens...)
	g.text += decoded
	return nil
}

// markPromptEnd records that everything appended so far is prompt, not
// generated output.
func (g *generationContext) markPromptEnd() { g.promptLen = len(g.text) }

// output returns the generated text, excluding the prompt.
func (g *generationContext) output() string { return g.text[g.promptLen:] }
