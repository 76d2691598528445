package probe

import (
	"context"
	"time"

	"github.com/guregu/null/v5"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/hamed0406/smokecheck/internal/domain"
)

// BackoffMultiplier is applied to the backoff after every failed attempt.
// There is no jitter: concurrent runners against one host retry in lockstep.
const BackoffMultiplier = 2

const (
	DefaultMaxAttempts    = 4
	DefaultInitialBackoff = 2 * time.Second
)

type State int

const (
	StateIdle State = iota
	StateAttempting
	StateSuccess
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAttempting:
		return "attempting"
	case StateSuccess:
		return "success"
	case StateExhausted:
		return "exhausted"
	}
	return "unknown"
}

func (s State) Terminal() bool { return s == StateSuccess || s == StateExhausted }

type Policy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
}

// normalized replaces out-of-range values with the defaults.
func (p Policy) normalized() Policy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.InitialBackoff <= 0 {
		p.InitialBackoff = DefaultInitialBackoff
	}
	return p
}

// Sleeper is the part of clockwork.Clock the retrier uses.
type Sleeper interface {
	Sleep(d time.Duration)
}

// Retrier drives a Prober for one check at a time until it succeeds or runs
// out of attempts.
type Retrier struct {
	Prober Prober
	Policy Policy
	Clock  Sleeper
	Logger *zap.Logger
}

func NewRetrier(p Prober, policy Policy, logger *zap.Logger) *Retrier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retrier{
		Prober: p,
		Policy: policy.normalized(),
		Clock:  clockwork.NewRealClock(),
		Logger: logger,
	}
}

// Execution is the retry state of a single check.
type Execution struct {
	r        *Retrier
	spec     domain.CheckSpec
	policy   Policy
	state    State
	attempts int
	backoff  time.Duration
	result   domain.CheckResult
}

func (r *Retrier) Start(spec domain.CheckSpec) *Execution {
	policy := r.Policy.normalized()
	return &Execution{
		r:       r,
		spec:    spec,
		policy:  policy,
		state:   StateIdle,
		backoff: policy.InitialBackoff,
		result:  domain.CheckResult{Name: spec.Name},
	}
}

func (e *Execution) State() State { return e.state }
func (e *Execution) Attempts() int { return e.attempts }

// Backoff is the wait that follows the next failed attempt.
func (e *Execution) Backoff() time.Duration { return e.backoff }

func (e *Execution) Result() domain.CheckResult { return e.result }

// Step makes one attempt. After a failure that leaves attempts to spare it
// sleeps for the current backoff and doubles it before returning. Step on a
// terminal execution does nothing.
func (e *Execution) Step(ctx context.Context) State {
	if e.state.Terminal() {
		return e.state
	}
	e.state = StateAttempting
	e.attempts++

	out := e.r.Prober.Probe(ctx, e.spec)
	e.record(out)

	log := e.r.logger().With(
		zap.String("check", e.spec.Name),
		zap.Int("attempt", e.attempts),
		zap.Int("max_attempts", e.policy.MaxAttempts),
	)
	log.Debug("probe_attempt",
		zap.Int64("status", out.StatusCode.ValueOrZero()),
		zap.Duration("duration", out.Duration),
		zap.Error(out.Err),
	)

	if out.Success() {
		e.state = StateSuccess
		return e.state
	}
	if e.attempts >= e.policy.MaxAttempts {
		e.state = StateExhausted
		log.Warn("check_exhausted", zap.Error(out.Err))
		return e.state
	}

	log.Info("probe_retry", zap.Duration("backoff", e.backoff), zap.Error(out.Err))
	e.r.clock().Sleep(e.backoff)
	e.backoff *= BackoffMultiplier
	return e.state
}

// record overwrites the result with the latest attempt.
func (e *Execution) record(out Outcome) {
	e.result.Attempts = e.attempts
	e.result.Success = out.Success()
	e.result.Status = out.StatusCode
	e.result.Duration = null.FloatFrom(out.Duration.Seconds())
	if out.Err != nil {
		e.result.Error = null.StringFrom(out.Err.Error())
	} else {
		e.result.Error = null.String{}
	}
}

// Execute runs spec to a terminal state and returns its result.
func (r *Retrier) Execute(ctx context.Context, spec domain.CheckSpec) domain.CheckResult {
	e := r.Start(spec)
	for !e.State().Terminal() {
		e.Step(ctx)
	}
	r.logger().Info("check_finished",
		zap.String("check", spec.Name),
		zap.String("state", e.State().String()),
		zap.Int("attempts", e.Attempts()),
	)
	return e.Result()
}

func (r *Retrier) clock() Sleeper {
	if r.Clock == nil {
		return clockwork.NewRealClock()
	}
	return r.Clock
}

func (r *Retrier) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}
