package adapters

import (
	"context"
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	ports "github.com/ZanzyTHEbar/toolcall-decoder/tcd/decode/ports"
)

// ScoreFunc produces next-token scores for a context. It is the
// model-side half of a vocabulary: the tokenizer half is handled here,
// the scoring half is whatever black box the caller wires in.
type ScoreFunc func(ctx context.Context, tokens []int) (ports.Distribution, error)

// TiktokenVocabulary implements the Vocabulary port with a BPE
// tokenizer and an injected scorer. Encode and Decode are pure; all
// model state lives behind the scorer.
type TiktokenVocabulary struct {
	enc    *tiktoken.Tiktoken
	scorer ScoreFunc
	eos    int
}

// NewTiktokenVocabulary builds a vocabulary over a named tiktoken
// encoding. eosToken marks the end-of-sequence token, or -1 when the
// encoding has none.
func NewTiktokenVocabulary(encoding string, scorer ScoreFunc, eosToken int) (*TiktokenVocabulary, error) {
	if scorer == nil {
		return nil, fmt.Errorf("scorer cannot be nil")
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load encoding %s: %w", encoding, err)
	}
	return &TiktokenVocabulary{enc: enc, scorer: scorer, eos: eosToken}, nil
}

func (v *TiktokenVocabulary) Encode(text string) ([]int, error) {
	return v.enc.Encode(text, nil, nil), nil
}

func (v *TiktokenVocabulary) Decode(tokens []int) (string, error) {
	return v.enc.Decode(tokens), nil
}

func (v *TiktokenVocabulary) NextDistribution(ctx context.Context, tokens []int) (ports.Distribution, error) {
	return v.scorer(ctx, tokens)
}

// EOSToken implements the optional EOSAware extension.
func (v *TiktokenVocabulary) EOSToken() int { return v.eos }

var (
	_ ports.Vocabulary = (*TiktokenVocabulary)(nil)
	_ ports.EOSAware   = (*TiktokenVocabulary)(nil)
)
