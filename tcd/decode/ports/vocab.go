package decodeports

import (
	"context"
	"math"
)

// Distribution maps token IDs to scores for the next generation step.
// Scores may be raw logits or probabilities; callers only rely on the
// relative ordering within a single call. A token absent from the map
// is treated as unscorable (effectively negative infinity).
type Distribution map[int]float64

// Score returns the score for a token, or -Inf when the token was not
// scored by the model.
func (d Distribution) Score(token int) float64 {
	if s, ok := d[token]; ok {
		return s
	}
	return math.Inf(-1)
}

// Valid reports whether the distribution is usable: non-empty with
// every score finite.
func (d Distribution) Valid() bool {
	if len(d) == 0 {
		return false
	}
	for _, s := range d {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return false
		}
	}
	return true
}

// Vocabulary is the sole boundary to the underlying model and tokenizer.
// Implementations must treat NextDistribution as a pure query of
// immutable model state; the engine never mutates model state through
// this port. Implementations shared across concurrent decoding runs are
// responsible for their own internal serialization.
type Vocabulary interface {
	// Encode maps text to its token sequence. Deterministic, and
	// injective for the literal fragments validated at registry build.
	Encode(text string) ([]int, error)
	// Decode maps a token sequence back to text.
	Decode(tokens []int) (string, error)
	// NextDistribution scores candidate next tokens given the context.
	NextDistribution(ctx context.Context, tokens []int) (Distribution, error)
}

// EOSAware is an optional extension for vocabularies that expose an
// end-of-sequence token. Free-value generation terminates a value when
// the model emits it.
type EOSAware interface {
	EOSToken() int
}

// TextGenerator produces unconstrained completions for a prompt. It is
// used only by the raw-output evaluator, never by the constrained
// decoding path.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}
