package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gibbs-bakehouse/stampcard/internal/loyalty"
)

func TestAddSpecial_TodayAndTomorrow(t *testing.T) {
	te := newTestEngine(t, nil)
	ctx := context.Background()

	_, err := te.AddSpecial(ctx, testPIN, loyalty.SpecialInput{Title: "Lamington", Price: "$4.50"})
	require.NoError(t, err)
	_, err = te.AddSpecial(ctx, testPIN, loyalty.SpecialInput{Title: "Hot Cross Bun", Day: "2024-03-02"})
	require.NoError(t, err)

	today := te.SpecialsToday()
	require.Len(t, today, 2)
	assert.Equal(t, "Lamington", today[0].Title)

	te.clock.Advance(24 * time.Hour)
	tomorrow := te.SpecialsToday()
	require.Len(t, tomorrow, 1)
	assert.Equal(t, "Hot Cross Bun", tomorrow[0].Title)
	assert.Equal(t, tomorrow, te.SpecialsForDay("2024-03-02"))

	assert.Len(t, te.Specials(), 3)
	assert.Len(t, te.stored(t).Specials, 3)
}

func TestAddSpecial_NeedsGate(t *testing.T) {
	te := newTestEngine(t, nil)

	_, err := te.AddSpecial(context.Background(), wrongPIN, loyalty.SpecialInput{Title: "Pie"})
	assert.True(t, loyalty.IsUnauthorized(err))
	assert.Len(t, te.Specials(), 1)
}

func TestImportSpecials_AllOrNothing(t *testing.T) {
	te := newTestEngine(t, nil)
	ctx := context.Background()
	puts := te.kv.Puts()

	_, err := te.ImportSpecials(ctx, testPIN, []loyalty.SpecialInput{
		{Title: "Scone"},
		{Title: ""},
	})
	require.Error(t, err)
	assert.True(t, loyalty.IsValidation(err))
	assert.Contains(t, err.Error(), "special 2")
	assert.Len(t, te.Specials(), 1)
	assert.Equal(t, puts, te.kv.Puts())
}

func TestImportSpecials_KeepsNewestTwenty(t *testing.T) {
	te := newTestEngine(t, nil)
	ctx := context.Background()

	var inputs []loyalty.SpecialInput
	for i := 1; i <= 25; i++ {
		inputs = append(inputs, loyalty.SpecialInput{Title: fmt.Sprintf("Special %02d", i)})
	}

	added, err := te.ImportSpecials(ctx, testPIN, inputs)
	require.NoError(t, err)
	assert.Len(t, added, 25)

	all := te.Specials()
	require.Len(t, all, loyalty.MaxSpecials)
	assert.Equal(t, "Special 25", all[0].Title)
	assert.Equal(t, "Special 06", all[loyalty.MaxSpecials-1].Title)
}
