package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/gibbs-bakehouse/stampcard/internal/engine"
	"github.com/gibbs-bakehouse/stampcard/internal/loyalty"
	"github.com/gibbs-bakehouse/stampcard/internal/store"
	"github.com/gibbs-bakehouse/stampcard/internal/testutil"
)

// Harness is the test execution engine.
// It runs scenarios with a frozen clock and sequential ids.
type Harness struct {
	store   *store.Store
	engine  *engine.Engine
	session *engine.Session
	clock   *testutil.FixedClock
	logger  *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory database and engine (default document)
// 2. Execute flow steps with expect validation
// 3. Evaluate assertions against the trace and the final document
//
// A returned error means the scenario could not run (bad args, store
// failure); rule violations are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	clock := testutil.NewFixedClock(testutil.DefaultTestTime)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	eng, err := engine.New(ctx, st,
		engine.WithClock(clock),
		engine.WithIDGenerator(testutil.NewSequenceGenerator("id")),
		engine.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	h := &Harness{
		store:   st,
		engine:  eng,
		session: eng.NewSession(),
		clock:   clock,
		logger:  logger,
	}

	result := NewResult()
	if err := h.executeFlow(ctx, scenario.Flow, result); err != nil {
		return nil, fmt.Errorf("failed to execute flow: %w", err)
	}

	actx := &AssertionContext{
		Doc:   eng.Document(),
		Today: loyalty.DateKey(clock.Now()),
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

// executeFlow runs all flow steps and validates expect clauses.
//
// A repeated step is one trace event carrying the outcome of its last run.
// Repetition stops at the first run whose case differs from the expected one.
func (h *Harness) executeFlow(ctx context.Context, flow []FlowStep, result *Result) error {
	for i, step := range flow {
		expected := CaseOK
		if step.Expect != nil {
			expected = step.Expect.Case
		}

		times := max(step.Repeat, 1)
		var (
			ev  TraceEvent
			err error
		)
		for n := 0; n < times; n++ {
			ev, err = h.execute(ctx, step)
			if err != nil {
				return fmt.Errorf("flow step %d (%s): %w", i, step.Invoke, err)
			}
			if ev.Case != expected {
				break
			}
		}
		ev.Repeat = step.Repeat
		result.AddTrace(ev)

		if ev.Case != expected {
			result.AddError(fmt.Sprintf("flow[%d] %s: expected case %q, got %q %s",
				i, step.Invoke, expected, ev.Case, ev.Error))
			continue
		}
		if step.Expect != nil && !matchArgs(ev.Result, step.Expect.Result) {
			result.AddError(fmt.Sprintf("flow[%d] %s: expected result %v, got %v",
				i, step.Invoke, step.Expect.Result, ev.Result))
		}

		h.logger.Info("flow step completed",
			"step", i,
			"action", step.Invoke,
			"case", ev.Case,
		)
	}

	return nil
}

// execute runs one action and converts its outcome into a trace event.
func (h *Harness) execute(ctx context.Context, step FlowStep) (TraceEvent, error) {
	ev := TraceEvent{Action: step.Invoke, Args: step.Args, Case: CaseOK}

	res, err := actions[step.Invoke](ctx, h, step.Args)
	if err != nil {
		code := loyalty.CodeOf(err)
		if code == "" {
			return ev, err
		}
		ev.Case = string(code)
		ev.Error = err.Error()
		return ev, nil
	}
	ev.Result = res
	return ev, nil
}
