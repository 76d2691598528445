package probe

import (
	"context"
	"time"

	"github.com/guregu/null/v5"

	"github.com/hamed0406/smokecheck/internal/domain"
)

// Outcome is the result of a single HTTP attempt.
//
// StatusCode is null when no response was received. Err is nil on success and
// is a *TransportError or *ProtocolError otherwise.
type Outcome struct {
	StatusCode null.Int
	Duration   time.Duration
	Err        error
}

func (o Outcome) Success() bool { return o.Err == nil }

// Prober performs exactly one attempt for a check.
type Prober interface {
	Probe(ctx context.Context, spec domain.CheckSpec) Outcome
}
