package decode

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	ports "github.com/ZanzyTHEbar/toolcall-decoder/tcd/decode/ports"
)

// dictVocab is a deterministic test tokenizer: tokens 0-255 are single
// bytes, tokens 256+ are multi-byte phrases matched greedily longest
// first. Every string round-trips byte-for-byte, so any tool schema
// passes registry validation. Scoring is delegated to an injected
// function so each test scripts the model.
type dictVocab struct {
	phrases []string
	byLen   []int // phrase indices, longest first
	scorer  func(ctx context.Context, tokens []int) (ports.Distribution, error)
	eos     int          // -1 when the vocabulary has no end-of-sequence token
	queries atomic.Int64 // NextDistribution calls observed
}

func newDictVocab(phrases ...string) *dictVocab {
	byLen := make([]int, len(phrases))
	for i := range phrases {
		byLen[i] = i
	}
	sort.SliceStable(byLen, func(a, b int) bool {
		return len(phrases[byLen[a]]) > len(phrases[byLen[b]])
	})
	return &dictVocab{phrases: phrases, byLen: byLen, eos: -1}
}

// tok returns the token ID of a registered phrase.
func (v *dictVocab) tok(phrase string) int {
	for i, p := range v.phrases {
		if p == phrase {
			return 256 + i
		}
	}
	panic(fmt.Sprintf("phrase %q not in vocabulary", phrase))
}

func (v *dictVocab) Encode(text string) ([]int, error) {
	var tokens []int
	for pos := 0; pos < len(text); {
		matched := false
		for _, i := range v.byLen {
			p := v.phrases[i]
			if strings.HasPrefix(text[pos:], p) {
				tokens = append(tokens, 256+i)
				pos += len(p)
				matched = true
				break
			}
		}
		if !matched {
			tokens = append(tokens, int(text[pos]))
			pos++
		}
	}
	return tokens, nil
}

func (v *dictVocab) Decode(tokens []int) (string, error) {
	var sb strings.Builder
	for _, t := range tokens {
		switch {
		case t >= 0 && t < 256:
			sb.WriteByte(byte(t))
		case t >= 256 && t < 256+len(v.phrases):
			sb.WriteString(v.phrases[t-256])
		default:
			return "", fmt.Errorf("unknown token %d", t)
		}
	}
	return sb.String(), nil
}

func (v *dictVocab) NextDistribution(ctx context.Context, tokens []int) (ports.Distribution, error) {
	v.queries.Add(1)
	if v.scorer == nil {
		return nil, fmt.Errorf("no scorer wired")
	}
	return v.scorer(ctx, tokens)
}

func (v *dictVocab) EOSToken() int { return v.eos }

// textOf decodes a context for suffix-driven scorers.
func (v *dictVocab) textOf(tokens []int) string {
	text, _ := v.Decode(tokens)
	return text
}

var (
	_ ports.Vocabulary = (*dictVocab)(nil)
	_ ports.EOSAware   = (*dictVocab)(nil)
)

// recordingStore captures saved runs for assertions.
type recordingStore struct {
	saved []ports.RunRecord
	fail  error
}

func (s *recordingStore) SaveRun(ctx context.Context, rec ports.RunRecord) error {
	if s.fail != nil {
		return s.fail
	}
	s.saved = append(s.saved, rec)
	return nil
}

func (s *recordingStore) RecentRuns(ctx context.Context, limit int) ([]ports.RunRecord, error) {
	if limit > len(s.saved) {
		limit = len(s.saved)
	}
	out := make([]ports.RunRecord, limit)
	for i := 0; i < limit; i++ {
		out[i] = s.saved[len(s.saved)-1-i]
	}
	return out, nil
}

var _ ports.RunStore = (*recordingStore)(nil)
