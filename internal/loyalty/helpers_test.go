package loyalty

import (
	"testing"
	"time"

	"github.com/gibbs-bakehouse/stampcard/internal/testutil"
)

const testPhone = "0412345678"

// newTestEnv returns an Env with a frozen clock and sequential ids.
func newTestEnv(t *testing.T) (Env, *testutil.FixedClock) {
	t.Helper()
	clock := testutil.NewFixedClock(time.Time{})
	return Env{Clock: clock, IDs: testutil.NewSequenceGenerator("id")}, clock
}

// newTestDocument returns a default document and its Env.
func newTestDocument(t *testing.T) (*Document, Env, *testutil.FixedClock) {
	t.Helper()
	env, clock := newTestEnv(t)
	return DefaultDocument(env), env, clock
}

// gateFunc adapts a bool to the Gate interface.
type gateFunc bool

func (g gateFunc) Authorized(RewardSettings) bool { return bool(g) }

const (
	unlocked gateFunc = true
	locked   gateFunc = false
)
