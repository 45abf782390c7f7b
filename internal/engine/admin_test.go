package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gibbs-bakehouse/stampcard/internal/loyalty"
)

func TestSaveSettings_PINChangeTakesEffect(t *testing.T) {
	te := newTestEngine(t, nil)
	ctx := context.Background()

	next := te.Settings()
	next.MerchantPIN = "2468"
	_, err := te.SaveSettings(ctx, testPIN, next)
	require.NoError(t, err)

	_, err = te.SaveSettings(ctx, testPIN, next)
	assert.True(t, loyalty.IsUnauthorized(err), "old PIN no longer works")

	saved, err := te.SaveSettings(ctx, loyalty.PIN("2468"), loyalty.RewardSettings{StampsPerReward: 3})
	require.NoError(t, err)
	assert.Equal(t, loyalty.DefaultMerchantPIN, saved.MerchantPIN, "blank PIN falls back")
	assert.Equal(t, saved, te.stored(t).Settings)
}

func TestSaveSettings_InvalidKeepsOld(t *testing.T) {
	te := newTestEngine(t, nil)

	_, err := te.SaveSettings(context.Background(), testPIN, loyalty.RewardSettings{StampsPerReward: 0})
	assert.True(t, loyalty.IsValidation(err))
	assert.Equal(t, loyalty.DefaultSettings(), te.Settings())
}

func TestSetPlaySound(t *testing.T) {
	te := newTestEngine(t, nil)
	ctx := context.Background()
	puts := te.kv.Puts()

	require.NoError(t, te.SetPlaySound(ctx, true))
	assert.Equal(t, puts, te.kv.Puts(), "unchanged value is not saved")

	require.NoError(t, te.SetPlaySound(ctx, false))
	assert.False(t, te.Settings().PlaySound)
	assert.False(t, te.stored(t).Settings.PlaySound)
}

func TestSaveBakery(t *testing.T) {
	te := newTestEngine(t, nil)
	ctx := context.Background()

	_, err := te.SaveBakery(ctx, wrongPIN, loyalty.BakeryConfig{Name: "X"})
	assert.True(t, loyalty.IsUnauthorized(err))

	got, err := te.SaveBakery(ctx, testPIN, loyalty.BakeryConfig{Name: "Gibbs", Hours: "6-2"})
	require.NoError(t, err)
	assert.Equal(t, got, te.Bakery())
	assert.Equal(t, got, te.stored(t).Bakery)
}
