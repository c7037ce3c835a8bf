// AngelaMos | 2026
// executor.go

package simulate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/esimphony/internal/core"
)

var (
	ErrActionFailed = errors.New("simulated action failed")
	ErrCancelled    = errors.New("simulated action cancelled")
)

// Action is one simulated remote call: wait Latency, ask Policy for the
// outcome, then run Apply on success or return Failure otherwise.
type Action struct {
	Name    string
	Latency time.Duration
	Policy  Policy
	Apply   func(ctx context.Context) error
	Failure error
}

type Outcome struct {
	Succeeded bool
	Elapsed   time.Duration
}

type Executor struct {
	clock  clockwork.Clock
	logger *slog.Logger
}

func NewExecutor(clock clockwork.Clock, logger *slog.Logger) *Executor {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{clock: clock, logger: logger}
}

func (e *Executor) Clock() clockwork.Clock {
	return e.clock
}

// Run blocks for the action latency. If ctx ends first the action is
// abandoned and nothing is applied.
func (e *Executor) Run(ctx context.Context, a Action) (Outcome, error) {
	ctx, span := core.StartSpan(ctx, "simulate."+a.Name,
		attribute.String("simulate.action", a.Name),
		attribute.Int64("simulate.latency_ms", a.Latency.Milliseconds()),
	)
	defer span.End()

	started := e.clock.Now()

	if err := e.wait(ctx, a.Latency); err != nil {
		core.AddSpanEvent(ctx, "cancelled")
		e.logger.InfoContext(ctx, "simulated action abandoned",
			"action", a.Name,
			"reason", ctx.Err(),
		)
		return Outcome{Elapsed: e.clock.Since(started)}, err
	}

	policy := a.Policy
	if policy == nil {
		policy = AlwaysSucceed{}
	}

	out := Outcome{
		Succeeded: policy.Resolve(),
		Elapsed:   e.clock.Since(started),
	}
	core.AddSpanEvent(ctx, "resolved",
		attribute.Bool("simulate.succeeded", out.Succeeded),
	)

	if !out.Succeeded {
		failure := a.Failure
		if failure == nil {
			failure = ErrActionFailed
		}
		e.logger.InfoContext(ctx, "simulated action failed",
			"action", a.Name,
			"error", failure,
		)
		return out, failure
	}

	if a.Apply != nil {
		if err := a.Apply(ctx); err != nil {
			core.SetSpanError(ctx, err)
			out.Succeeded = false
			return out, fmt.Errorf("apply %s: %w", a.Name, err)
		}
	}

	e.logger.DebugContext(ctx, "simulated action applied",
		"action", a.Name,
		"elapsed", out.Elapsed,
	)

	return out, nil
}

// Delay waits like Run without an outcome or mutation.
func (e *Executor) Delay(ctx context.Context, name string, d time.Duration) error {
	_, err := e.Run(ctx, Action{Name: name, Latency: d})
	return err
}

func (e *Executor) wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	if d <= 0 {
		return nil
	}

	timer := e.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.Chan():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
	}
}
