package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gibbs-bakehouse/stampcard/internal/loyalty"
	"github.com/gibbs-bakehouse/stampcard/internal/testutil"
)

func sampleTrace() []TraceEvent {
	return []TraceEvent{
		{Seq: 1, Action: "signin", Args: map[string]any{"phone": "0411"}, Case: CaseOK},
		{Seq: 2, Action: "unlock", Args: map[string]any{"pin": "1357"}, Case: CaseOK},
		{Seq: 3, Action: "stamp", Args: map[string]any{"amount": 15}, Repeat: 3, Case: CaseOK},
		{Seq: 4, Action: "redeem", Case: "INSUFFICIENT_STAMPS"},
	}
}

func sampleDocument(t *testing.T) *loyalty.Document {
	t.Helper()
	env := loyalty.Env{
		Clock: testutil.NewFixedClock(testutil.DefaultTestTime),
		IDs:   testutil.NewSequenceGenerator("id"),
	}
	doc := loyalty.DefaultDocument(env)
	for _, p := range []string{"0411", "0422"} {
		_, _, err := loyalty.SignIn(doc, env, p, "")
		require.NoError(t, err)
	}
	return doc
}

func intPtr(n int) *int { return &n }

func TestAssertTraceContains(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceContains(trace, Assertion{Action: "stamp", Args: map[string]any{"amount": 15.0}}))
	assert.NoError(t, assertTraceContains(trace, Assertion{Action: "redeem"}))

	err := assertTraceContains(trace, Assertion{Action: "stamp", Args: map[string]any{"amount": 20}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found in trace")
	assert.Contains(t, err.Error(), "[3] stamp")
}

func TestAssertTraceOrder(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceOrder(trace, Assertion{Actions: []string{"signin", "stamp", "redeem"}}))

	err := assertTraceOrder(trace, Assertion{Actions: []string{"redeem", "signin"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "should be before")

	err = assertTraceOrder(trace, Assertion{Actions: []string{"signin", "lock"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing action: lock")
}

func TestAssertTraceCount_CountsRepeats(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceCount(trace, Assertion{Action: "stamp", Count: 3}))
	assert.NoError(t, assertTraceCount(trace, Assertion{Action: "lock", Count: 0}))
	assert.Error(t, assertTraceCount(trace, Assertion{Action: "stamp", Count: 1}))
}

func TestAssertFinalState(t *testing.T) {
	doc := sampleDocument(t)
	today := loyalty.DateKey(testutil.DefaultTestTime)

	tests := []struct {
		name      string
		assertion Assertion
		wantErr   string
	}{
		{
			name:      "row matches",
			assertion: Assertion{Table: "customers", Where: map[string]any{"phone": "0411"}, Expect: map[string]any{"stamps": 0, "name": "Customer"}},
		},
		{
			name:      "row count",
			assertion: Assertion{Table: "customers", Rows: intPtr(2)},
		},
		{
			name:      "seeded special today",
			assertion: Assertion{Table: "specials_today", Rows: intPtr(1)},
		},
		{
			name:      "settings",
			assertion: Assertion{Table: "settings", Expect: map[string]any{"minSpendPerStamp": 10, "merchantPIN": "1357"}},
		},
		{
			name:      "bakery",
			assertion: Assertion{Table: "bakery", Expect: map[string]any{"name": "The Gibbs Family Bakehouse"}},
		},
		{
			name:      "activity rows",
			assertion: Assertion{Table: "activity", Where: map[string]any{"type": "signup"}, Rows: intPtr(2)},
		},
		{
			name:      "wrong count",
			assertion: Assertion{Table: "customers", Rows: intPtr(3)},
			wantErr:   "3 rows in customers",
		},
		{
			name:      "ambiguous",
			assertion: Assertion{Table: "customers", Expect: map[string]any{"stamps": 0}},
			wantErr:   "assertion is ambiguous",
		},
		{
			name:      "not found",
			assertion: Assertion{Table: "customers", Where: map[string]any{"phone": "0499"}, Expect: map[string]any{"stamps": 0}},
			wantErr:   "row not found",
		},
		{
			name:      "value mismatch",
			assertion: Assertion{Table: "customers", Where: map[string]any{"phone": "0411"}, Expect: map[string]any{"stamps": 4}},
			wantErr:   `field "stamps" = 4`,
		},
		{
			name:      "missing field",
			assertion: Assertion{Table: "customers", Where: map[string]any{"phone": "0411"}, Expect: map[string]any{"email": "x"}},
			wantErr:   `field "email" to exist`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := assertFinalState(doc, today, tt.assertion)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEvaluateAssertions(t *testing.T) {
	result := &Result{Pass: true, Trace: sampleTrace()}

	errs := EvaluateAssertions(result, []Assertion{
		{Type: AssertTraceCount, Action: "stamp", Count: 3},
		{Type: AssertFinalState, Table: "customers", Rows: intPtr(1)},
	}, nil)

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "final_state requires the final document")
}

func TestValuesEqual(t *testing.T) {
	assert.True(t, valuesEqual(15, 15.0))
	assert.True(t, valuesEqual(int64(3), 3))
	assert.False(t, valuesEqual(3, "3"))
	assert.True(t, valuesEqual("a", "a"))
	assert.True(t, valuesEqual([]any{"x"}, []any{"x"}))
}
