package session

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrStepTimeout is wrapped by the error of a hard step that ran out of time
var ErrStepTimeout = errors.New("step timed out")

// Outcome is the result of one bounded browser step
type Outcome int

const (
	Succeeded   Outcome = iota
	SoftTimeout         // timed out, flow continues
	HardTimeout         // timed out, flow fails
	Failed              // non-timeout error
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case SoftTimeout:
		return "soft-timeout"
	case HardTimeout:
		return "hard-timeout"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Step is a bounded wait inside a browser flow. Soft steps tolerate running
// out of time; hard steps turn it into an error.
type Step struct {
	Name    string
	Timeout time.Duration
	Soft    bool
}

// Run executes fn under the step deadline and classifies the result.
// The returned error is nil for Succeeded and SoftTimeout.
func (s Step) Run(ctx context.Context, fn func(ctx context.Context) error) (Outcome, error) {
	stepCtx := ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		stepCtx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	err := fn(stepCtx)
	switch {
	case err == nil:
		return Succeeded, nil
	case errors.Is(err, context.DeadlineExceeded) || (stepCtx.Err() != nil && ctx.Err() == nil):
		if s.Soft {
			return SoftTimeout, nil
		}
		return HardTimeout, fmt.Errorf("%s after %s: %w", s.Name, s.Timeout, ErrStepTimeout)
	default:
		return Failed, fmt.Errorf("%s: %w", s.Name, err)
	}
}
