package engine

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gibbs-bakehouse/stampcard/internal/loyalty"
	"github.com/gibbs-bakehouse/stampcard/internal/store"
	"github.com/gibbs-bakehouse/stampcard/internal/testutil"
)

const (
	testPhone = "0412345678"
	testPIN   = loyalty.PIN(loyalty.DefaultMerchantPIN)
	wrongPIN  = loyalty.PIN("0000")
)

type testEngine struct {
	*Engine
	kv    *testutil.MemoryKV
	clock *testutil.FixedClock
	logs  *bytes.Buffer
}

// newTestEngine opens an engine over kv (a fresh MemoryKV when nil) with a
// frozen clock, sequential ids and a captured debug log.
func newTestEngine(t *testing.T, kv *testutil.MemoryKV) *testEngine {
	t.Helper()
	if kv == nil {
		kv = testutil.NewMemoryKV()
	}
	clock := testutil.NewFixedClock(time.Time{})
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	e, err := New(context.Background(), kv,
		WithClock(clock),
		WithIDGenerator(testutil.NewSequenceGenerator("id")),
		WithLogger(logger),
	)
	require.NoError(t, err)
	return &testEngine{Engine: e, kv: kv, clock: clock, logs: logs}
}

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	dir := t.TempDir()
	s, err := store.Open(dir + "/test.db")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// stored decodes what the engine last wrote.
func (te *testEngine) stored(t *testing.T) *loyalty.Document {
	t.Helper()
	data, ok := te.kv.Raw(loyalty.StorageKey)
	require.True(t, ok, "document should be stored")
	doc, err := loyalty.Decode(data)
	require.NoError(t, err)
	return doc
}
