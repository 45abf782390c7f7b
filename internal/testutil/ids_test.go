package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gibbs-bakehouse/stampcard/internal/store"
)

func TestSequenceGenerator_Sequence(t *testing.T) {
	gen := NewSequenceGenerator("act")

	assert.Equal(t, "act-0001", gen.Generate())
	assert.Equal(t, "act-0002", gen.Generate())
	assert.Equal(t, "act-0003", gen.Generate())
}

func TestSequenceGenerator_DefaultPrefixAndReset(t *testing.T) {
	gen := NewSequenceGenerator("")

	assert.Equal(t, "id-0001", gen.Generate())
	gen.Reset()
	assert.Equal(t, "id-0001", gen.Generate())
}

func TestMemoryKV_RoundTripAndFailures(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	_, err := kv.Get(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, kv.Put(ctx, "k", []byte("v1")))
	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got))
	assert.Equal(t, 1, kv.Puts())

	kv.FailPuts(true)
	require.ErrorIs(t, kv.Put(ctx, "k", []byte("v2")), ErrInjected)
	raw, ok := kv.Raw("k")
	require.True(t, ok)
	assert.Equal(t, "v1", string(raw))

	kv.FailGets(true)
	_, err = kv.Get(ctx, "k")
	require.ErrorIs(t, err, ErrInjected)
}
