package framework

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"time"
)

// Fixture is the body of one fixture. An error it returns, or a panic, is an uncaught error: it is
// recorded as a synthetic failing case and the fixture is still finalized.
type Fixture func(*Context) error

// NamedFixture pairs a fixture with its ID. Source, if set, is where the fixture was loaded from,
// in a form that can be passed back to the command that found it.
type NamedFixture struct {
	ID     FixtureID
	Source string
	Run    Fixture
}

// Runner executes fixtures one at a time and reports their results.
type Runner struct {
	reporter    *Reporter
	comparator  Comparator
	testLogger  TestLogger
	debugLogger Logger
	timeout     time.Duration
}

// RunnerOption customizes a Runner.
type RunnerOption func(*Runner)

// WithComparator sets the comparator used for every test case.
func WithComparator(c Comparator) RunnerOption {
	return func(r *Runner) { r.comparator = c }
}

// WithTestLogger sets the receiver of fixture progress notifications.
func WithTestLogger(l TestLogger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.testLogger = l
		}
	}
}

// WithDebugLogger sets a logger that receives all fixture diagnostic output as it happens.
func WithDebugLogger(l Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.debugLogger = l
		}
	}
}

// WithTimeout limits the wall-clock time of each fixture. Zero means no limit. The limit is
// enforced cooperatively through Context.Done.
func WithTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) { r.timeout = d }
}

// NewRunner creates a Runner that reports sections through reporter. A nil reporter discards
// all report output.
func NewRunner(reporter *Reporter, options ...RunnerOption) *Runner {
	if reporter == nil {
		reporter = NewReporter(io.Discard, false)
	}
	r := &Runner{
		reporter:    reporter,
		comparator:  DefaultComparator(),
		testLogger:  NullTestLogger(),
		debugLogger: NullLogger(),
	}
	for _, o := range options {
		o(r)
	}
	return r
}

// RunFixture runs one fixture from start to finalization.
//
// The returned error is non-nil only for a *SinkFault, in which case the result may be incomplete.
// Every other failure is contained in the result.
func (r *Runner) RunFixture(ctx context.Context, id FixtureID, fixture Fixture) (FixtureResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	env := &environment{
		reporter:    r.reporter,
		comparator:  r.comparator,
		debugLogger: r.debugLogger,
	}
	c := newContext(ctx, env, id)
	result := FixtureResult{ID: id}

	r.testLogger.FixtureStarted(id)
	err := c.run(fixture)
	if c.skipped {
		result.Skipped = true
		result.SkipReason = c.skipReason
		r.testLogger.FixtureSkipped(id, c.skipReason)
		return result, nil
	}

	if err != nil {
		if IsSinkFault(err) {
			return result, err
		}
		fault := &FixtureFault{Err: err}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			fault.Timeout = true
		}
		result.Fault = fault
		c.section().registry.recordFault(faultDescription(fault), fault)
		r.testLogger.FixtureError(id, fault)
	} else if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		// The fixture completed, but only after its deadline had passed.
		fault := &FixtureFault{Err: ctx.Err(), Timeout: true}
		result.Fault = fault
		c.section().registry.recordFault(faultDescription(fault), fault)
		r.testLogger.FixtureError(id, fault)
	}

	sections, err := c.finalize()
	result.Sections = sections
	if err != nil {
		return result, err
	}
	r.testLogger.FixtureFinished(id, result, c.debugLogger.Output())
	return result, nil
}

// RunAll runs each fixture accepted by filter, in order. It stops at the first *SinkFault.
func (r *Runner) RunAll(ctx context.Context, fixtures []NamedFixture, filter Filter) (Results, error) {
	var results Results
	for _, f := range fixtures {
		if filter != nil && !filter(f.ID) {
			r.testLogger.FixtureSkipped(f.ID, "excluded by filter parameters")
			results.add(FixtureResult{ID: f.ID, Skipped: true, SkipReason: "excluded by filter parameters"})
			continue
		}
		result, err := r.RunFixture(ctx, f.ID, f.Run)
		results.add(result)
		if err != nil {
			return results, err
		}
		if ctx != nil && ctx.Err() == context.Canceled {
			return results, ctx.Err()
		}
	}
	return results, nil
}

func (c *Context) run(fixture Fixture) (err error) {
	defer func() {
		if p := recover(); p != nil {
			if p == c {
				if c.skipped {
					err = nil
					return
				}
				err = errors.New("fixture aborted with no error")
				return
			}
			if e, ok := p.(error); ok && IsSinkFault(e) {
				err = e
				return
			}
			c.logger.Printf("panic stack:\n%s", string(debug.Stack()))
			err = fmt.Errorf("unexpected panic in fixture: %+v", p)
		}
	}()
	return fixture(c)
}

func faultDescription(f *FixtureFault) string {
	if f.Timeout {
		return "fixture timed out"
	}
	return "uncaught error"
}
