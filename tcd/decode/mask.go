package decode

import (
	"github.com/RoaringBitmap/roaring"

	ports "github.com/ZanzyTHEbar/toolcall-decoder/tcd/decode/ports"
)

// tokenMask is the set of tokens admissible at a constrained decision
// point. Token IDs are non-negative and sparse, so a roaring bitmap
// keeps the mask compact even for large vocabularies.
type tokenMask struct {
	bits *roaring.Bitmap
}

func newTokenMask(tokens ...int) *tokenMask {
	m := &tokenMask{bits: roaring.New()}
	for _, t := range tokens {
		if t >= 0 {
			m.bits.Add(uint32(t))
		}
	}
	return m
}

func (m *tokenMask) contains(token int) bool {
	return token >= 0 && m.bits.Contains(uint32(token))
}

// apply restricts a distribution to the masked tokens. Tokens in the
// mask but absent from the distribution stay absent (unscorable).
func (m *tokenMask) apply(dist ports.Distribution) ports.Distribution {
	masked := make(ports.Distribution, int(m.bits.GetCardinality()))
	for tok, score := range dist {
		if m.contains(tok) {
			masked[tok] = score
		}
	}
	return masked
}
