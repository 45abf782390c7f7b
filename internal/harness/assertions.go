package harness

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/gibbs-bakehouse/stampcard/internal/loyalty"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	// Header with assertion type
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)

	// Expected vs Actual (most important info)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	// Full trace for context
	fmt.Fprintf(&buf, "\nFull trace:\n")
	for i, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s %v -> %s\n", i+1, event.Action, event.Args, event.Case)
	}

	return buf.String()
}

// assertTraceContains checks if the trace contains a step matching
// the specified action and args (subset match).
func assertTraceContains(trace []TraceEvent, assertion Assertion) error {
	for _, event := range trace {
		if event.Action == assertion.Action {
			// Check args match (subset semantics)
			if matchArgs(event.Args, assertion.Args) {
				return nil // Found matching step
			}
		}
	}

	return &AssertionError{
		Type:     "trace_contains",
		Expected: fmt.Sprintf("action %s with args %v", assertion.Action, assertion.Args),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks if actions appear in the specified order.
// Actions don't need to be consecutive (intervening actions are allowed).
func assertTraceOrder(trace []TraceEvent, assertion Assertion) error {
	// Step 1: Find first position of each expected action
	positions := make(map[string]int)

	for i, event := range trace {
		for _, expectedAction := range assertion.Actions {
			if event.Action == expectedAction && positions[expectedAction] == 0 {
				positions[expectedAction] = i + 1 // 1-indexed for readability
			}
		}
	}

	// Step 2: Verify all actions found
	for _, action := range assertion.Actions {
		if positions[action] == 0 {
			return &AssertionError{
				Type:     "trace_order",
				Expected: fmt.Sprintf("all actions present: %v", assertion.Actions),
				Actual:   fmt.Sprintf("missing action: %s", action),
				Trace:    trace,
			}
		}
	}

	// Step 3: Verify order
	for i := 1; i < len(assertion.Actions); i++ {
		prev := assertion.Actions[i-1]
		curr := assertion.Actions[i]

		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     "trace_order",
				Expected: fmt.Sprintf("actions in order: %v", assertion.Actions),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}

	return nil
}

// assertTraceCount checks if the action ran exactly the specified number of
// times. A repeated step counts once per repetition.
func assertTraceCount(trace []TraceEvent, assertion Assertion) error {
	count := 0

	for _, event := range trace {
		if event.Action == assertion.Action {
			count += max(event.Repeat, 1)
		}
	}

	// Check exact count match
	if count != assertion.Count {
		return &AssertionError{
			Type:     "trace_count",
			Expected: fmt.Sprintf("%d occurrences of %s", assertion.Count, assertion.Action),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}

	return nil
}

// tables maps a final_state table name to the rows it exposes.
// Row keys use the document's camelCase field names.
var tables = map[string]func(doc *loyalty.Document, today string) []map[string]any{
	"customers": func(doc *loyalty.Document, _ string) []map[string]any {
		var rows []map[string]any
		for _, c := range doc.SortedCustomers() {
			rows = append(rows, map[string]any{
				"phone":           c.Phone,
				"name":            c.Name,
				"stamps":          c.Stamps,
				"rewardsRedeemed": c.RewardsRedeemed,
				"code":            loyalty.DeriveCode(c.Phone),
			})
		}
		return rows
	},
	"settings": func(doc *loyalty.Document, _ string) []map[string]any {
		s := doc.Settings
		return []map[string]any{{
			"stampsPerReward":  s.StampsPerReward,
			"minSpendPerStamp": s.MinSpendPerStamp,
			"oneStampPerTxn":   s.OneStampPerTxn,
			"discountPercent":  s.DiscountPercent,
			"merchantPIN":      s.MerchantPIN,
			"playSound":        s.PlaySound,
		}}
	},
	"bakery": func(doc *loyalty.Document, _ string) []map[string]any {
		return []map[string]any{{
			"name":    doc.Bakery.Name,
			"address": doc.Bakery.Address,
			"hours":   doc.Bakery.Hours,
		}}
	},
	"specials_today": func(doc *loyalty.Document, today string) []map[string]any {
		var rows []map[string]any
		for _, sp := range loyalty.SpecialsForDay(doc, today) {
			rows = append(rows, map[string]any{
				"title": sp.Title,
				"price": sp.Price,
				"desc":  sp.Desc,
				"day":   sp.Day,
			})
		}
		return rows
	},
	"activity": func(doc *loyalty.Document, _ string) []map[string]any {
		var rows []map[string]any
		for _, a := range doc.Activity {
			rows = append(rows, map[string]any{
				"type": string(a.Type),
				"who":  a.Who,
			})
		}
		return rows
	},
}

// assertFinalState checks rows of a document table.
//
// Rows are filtered by Where (exact match). With Rows set the number of
// matches must equal it. With Expect set exactly one row must match and it
// must contain the expected values (subset semantics).
func assertFinalState(doc *loyalty.Document, today string, assertion Assertion) error {
	rowsOf, ok := tables[assertion.Table]
	if !ok {
		return fmt.Errorf("final_state: unknown table %q", assertion.Table)
	}

	var matched []map[string]any
	for _, row := range rowsOf(doc, today) {
		if matchArgs(row, assertion.Where) {
			matched = append(matched, row)
		}
	}
	whereDesc := formatWhereClause(assertion.Where)

	if assertion.Rows != nil && len(matched) != *assertion.Rows {
		return &AssertionError{
			Type:     "final_state",
			Expected: fmt.Sprintf("%d rows in %s where %s", *assertion.Rows, assertion.Table, whereDesc),
			Actual:   fmt.Sprintf("%d rows", len(matched)),
		}
	}
	if len(assertion.Expect) == 0 {
		return nil
	}

	if len(matched) == 0 {
		return &AssertionError{
			Type:     "final_state",
			Expected: fmt.Sprintf("row in %s where %s", assertion.Table, whereDesc),
			Actual:   "row not found",
		}
	}
	if len(matched) > 1 {
		return &AssertionError{
			Type:     "final_state",
			Expected: fmt.Sprintf("exactly one row in %s where %s", assertion.Table, whereDesc),
			Actual:   "multiple rows matched (assertion is ambiguous)",
		}
	}

	actualRow := matched[0]
	keys := sortedKeys(assertion.Expect)
	for _, key := range keys {
		expectedValue := assertion.Expect[key]
		actualValue, exists := actualRow[key]
		if !exists {
			return &AssertionError{
				Type:     "final_state",
				Expected: fmt.Sprintf("field %q to exist", key),
				Actual:   fmt.Sprintf("field %q not present in row: %v", key, sortedKeys(actualRow)),
			}
		}

		if !valuesEqual(actualValue, expectedValue) {
			return &AssertionError{
				Type:     "final_state",
				Expected: fmt.Sprintf("field %q = %v (type %T)", key, expectedValue, expectedValue),
				Actual:   fmt.Sprintf("field %q = %v (type %T)", key, actualValue, actualValue),
			}
		}
	}

	return nil
}

// formatWhereClause creates a human-readable description of WHERE conditions.
func formatWhereClause(where map[string]any) string {
	if len(where) == 0 {
		return "(no conditions)"
	}

	parts := make([]string, 0, len(where))
	for _, k := range sortedKeys(where) {
		parts = append(parts, fmt.Sprintf("%s=%v", k, where[k]))
	}
	return strings.Join(parts, " AND ")
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// matchArgs checks if actual contains all expected keys (subset match).
// Extra keys in actual are ignored.
func matchArgs(actual, expected map[string]any) bool {
	for key, expectedVal := range expected {
		actualVal, exists := actual[key]
		if !exists {
			return false
		}
		if !valuesEqual(actualVal, expectedVal) {
			return false
		}
	}
	return true
}

// valuesEqual compares two values for equality.
// YAML decodes whole numbers as int and the engine reports float64 amounts,
// so numbers compare by value regardless of Go type.
func valuesEqual(actual, expected any) bool {
	if a, ok := toFloat(actual); ok {
		if e, ok := toFloat(expected); ok {
			return a == e
		}
		return false
	}
	return reflect.DeepEqual(actual, expected)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// AssertionContext provides the final document for final_state assertions.
type AssertionContext struct {
	Doc *loyalty.Document

	// Today is the date-key specials_today is evaluated for.
	Today string
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
// The actx parameter provides the document for final_state assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		case AssertFinalState:
			if actx == nil || actx.Doc == nil {
				err = fmt.Errorf("assertion[%d]: final_state requires the final document", i)
			} else {
				err = assertFinalState(actx.Doc, actx.Today, assertion)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
