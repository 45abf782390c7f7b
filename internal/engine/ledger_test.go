package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gibbs-bakehouse/stampcard/internal/loyalty"
)

func TestAddStamp_ByCode(t *testing.T) {
	te := newTestEngine(t, nil)
	ctx := context.Background()
	_, _, err := te.SignIn(ctx, testPhone, "Ava")
	require.NoError(t, err)

	c, err := te.AddStamp(ctx, testPIN, "209254", 15)
	require.NoError(t, err)
	assert.Equal(t, testPhone, c.Phone)
	assert.Equal(t, 1, c.Stamps)
	assert.Equal(t, 1, te.stored(t).Customers[testPhone].Stamps)
}

func TestAddStamp_GateCheckedBeforeLookup(t *testing.T) {
	te := newTestEngine(t, nil)
	ctx := context.Background()

	_, err := te.AddStamp(ctx, wrongPIN, "0499999999", 15)
	assert.True(t, loyalty.IsUnauthorized(err))

	_, err = te.AddStamp(ctx, nil, "0499999999", 15)
	assert.True(t, loyalty.IsUnauthorized(err))

	_, err = te.AddStamp(ctx, testPIN, "0499999999", 15)
	assert.True(t, loyalty.IsNotFound(err))
}

func TestLedger_WrongPINNeverMutates(t *testing.T) {
	te := newTestEngine(t, nil)
	ctx := context.Background()
	_, _, err := te.SignIn(ctx, testPhone, "")
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		_, err := te.AddStamp(ctx, testPIN, testPhone, 10)
		require.NoError(t, err)
	}
	before := te.Document()
	puts := te.kv.Puts()

	_, err = te.AddStamp(ctx, wrongPIN, testPhone, 50)
	assert.True(t, loyalty.IsUnauthorized(err))
	_, _, err = te.Redeem(ctx, wrongPIN, testPhone)
	assert.True(t, loyalty.IsUnauthorized(err))

	assert.Equal(t, before, te.Document())
	assert.Equal(t, puts, te.kv.Puts())
}

func TestRedeem_ReadsSettingsAtCallTime(t *testing.T) {
	te := newTestEngine(t, nil)
	ctx := context.Background()
	_, _, err := te.SignIn(ctx, testPhone, "")
	require.NoError(t, err)
	for i := 0; i < 6; i++ {
		_, err := te.AddStamp(ctx, testPIN, testPhone, 10)
		require.NoError(t, err)
	}

	_, _, err = te.Redeem(ctx, testPIN, testPhone)
	assert.True(t, loyalty.IsInsufficientStamps(err))

	next := te.Settings()
	next.StampsPerReward = 5
	next.DiscountPercent = 25
	_, err = te.SaveSettings(ctx, testPIN, next)
	require.NoError(t, err)

	c, discount, err := te.Redeem(ctx, testPIN, testPhone)
	require.NoError(t, err)
	assert.Equal(t, 25, discount)
	assert.Equal(t, 1, c.Stamps)
	assert.Equal(t, 1, c.RewardsRedeemed)
	assert.Equal(t, loyalty.Progress{Stamps: 1, Needed: 5, Remaining: 4}, te.Progress(c))
}

func TestEngine_EndToEnd(t *testing.T) {
	te := newTestEngine(t, nil)
	ctx := context.Background()
	session := te.NewSession()

	c, created, err := te.SignIn(ctx, testPhone, "")
	require.NoError(t, err)
	require.True(t, created)
	assert.Equal(t, 0, c.Stamps)
	assert.Len(t, te.Customers(), 1)
	require.Len(t, te.Activity(0), 1)
	assert.Equal(t, loyalty.ActivitySignup, te.Activity(0)[0].Type)

	require.True(t, session.Unlock("1357"))
	for i := 1; i <= 10; i++ {
		c, err = te.AddStamp(ctx, session, testPhone, 15)
		require.NoError(t, err)
		assert.Equal(t, i, c.Stamps)
	}

	c, discount, err := te.Redeem(ctx, session, testPhone)
	require.NoError(t, err)
	assert.Equal(t, 10, discount)
	assert.Equal(t, 0, c.Stamps)
	assert.Equal(t, 1, c.RewardsRedeemed)

	stored := te.stored(t)
	assert.Equal(t, c, stored.Customers[testPhone])
	assert.Len(t, stored.Activity, 12)
	assert.Len(t, te.Activity(loyalty.RecentActivityDisplay), 8)
}
