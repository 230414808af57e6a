package decodeports

import (
	"context"
	"time"
)

// RunRecord captures one completed decoding run.
type RunRecord struct {
	ID         string    // run UUID
	Request    string    // natural-language request
	Output     string    // assembled tool-call JSON
	Tool       string    // chosen tool name
	Truncated  bool      // any free value hit its step budget
	Confidence float64   // softmax confidence of the tool choice
	CreatedAt  time.Time // server-side timestamp
}

// RunStore persists completed decoding runs for later valid-rate
// reporting. Failures to persist are non-fatal to a run.
type RunStore interface {
	SaveRun(ctx context.Context, rec RunRecord) error
	RecentRuns(ctx context.Context, limit int) ([]RunRecord, error)
}
