package loyalty

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSpecial_Prepends(t *testing.T) {
	doc, env, _ := newTestDocument(t)

	sp, err := AddSpecial(doc, env, SpecialInput{Title: "Sourdough Loaf", Price: "$8.00", Desc: "Daily bake", Day: "2024-03-02"})
	require.NoError(t, err)
	assert.Equal(t, "Sourdough Loaf", sp.Title)
	assert.Equal(t, "2024-03-02", sp.Day)
	assert.NotEmpty(t, sp.ID)

	require.Len(t, doc.Specials, 2)
	assert.Equal(t, sp, doc.Specials[0], "newest first")
}

func TestAddSpecial_BlankDayMeansToday(t *testing.T) {
	doc, env, clock := newTestDocument(t)

	sp, err := AddSpecial(doc, env, SpecialInput{Title: "Cookie Box"})
	require.NoError(t, err)
	assert.Equal(t, DateKey(clock.Now()), sp.Day)
}

func TestAddSpecial_Validation(t *testing.T) {
	doc, env, _ := newTestDocument(t)

	_, err := AddSpecial(doc, env, SpecialInput{Title: "  ", Price: "$1"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, "title", err.(*Error).Field)

	_, err = AddSpecial(doc, env, SpecialInput{Title: "Pie", Day: "03/02/2024"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	assert.Len(t, doc.Specials, 1)
}

func TestAddSpecial_RetainsNewestTwenty(t *testing.T) {
	doc, env, _ := newTestDocument(t)
	seeded := doc.Specials[0]

	for i := 1; i <= 30; i++ {
		_, err := AddSpecial(doc, env, SpecialInput{Title: fmt.Sprintf("Special %02d", i)})
		require.NoError(t, err)
		assert.LessOrEqual(t, len(doc.Specials), MaxSpecials)
	}

	require.Len(t, doc.Specials, MaxSpecials)
	assert.Equal(t, "Special 30", doc.Specials[0].Title)
	assert.Equal(t, "Special 11", doc.Specials[MaxSpecials-1].Title)
	assert.NotContains(t, doc.Specials, seeded, "oldest evicted first")
}

func TestListToday_ExactDayMatch(t *testing.T) {
	env, clock := newTestEnv(t)
	clock.Set(time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC))
	doc := DefaultDocument(env)
	doc.Specials = nil

	for _, in := range []SpecialInput{
		{Title: "A", Day: "2024-03-01"},
		{Title: "B", Day: "2024-03-02"},
		{Title: "C", Day: "2024-03-01"},
	} {
		_, err := AddSpecial(doc, env, in)
		require.NoError(t, err)
	}

	today := ListToday(doc, clock.Now())
	require.Len(t, today, 2)
	assert.Equal(t, "C", today[0].Title)
	assert.Equal(t, "A", today[1].Title)

	tomorrow := ListToday(doc, clock.Now().Add(time.Minute))
	require.Len(t, tomorrow, 1)
	assert.Equal(t, "B", tomorrow[0].Title)

	assert.Empty(t, SpecialsForDay(doc, "2024-03-03"))
	assert.NotNil(t, SpecialsForDay(doc, "2024-03-03"))
}

func TestDateKey(t *testing.T) {
	assert.Equal(t, "2024-03-01", DateKey(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-12-31", DateKey(time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)))
}
