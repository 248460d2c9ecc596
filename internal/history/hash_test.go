package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemIDDeterminism(t *testing.T) {
	at := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

	id1, err := ItemID("wikipedia_en", "A/Go_(programming_language)", at)
	require.NoError(t, err)
	id2, err := ItemID("wikipedia_en", "A/Go_(programming_language)", at)
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
	assert.Len(t, id1, 64, "SHA-256 hex is 64 characters")
}

func TestItemIDSameDaySameID(t *testing.T) {
	morning := time.Date(2026, 10, 15, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 10, 15, 23, 59, 0, 0, time.UTC)
	nextDay := time.Date(2026, 10, 16, 0, 0, 1, 0, time.UTC)

	assert.Equal(t, MustItemID("s", "A/Page", morning), MustItemID("s", "A/Page", evening))
	assert.NotEqual(t, MustItemID("s", "A/Page", morning), MustItemID("s", "A/Page", nextDay))
}

func TestItemIDChangesWithInput(t *testing.T) {
	at := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	base := MustItemID("s1", "A/Page", at)
	assert.NotEqual(t, base, MustItemID("s2", "A/Page", at), "different source")
	assert.NotEqual(t, base, MustItemID("s1", "A/Other", at), "different page")
}

func TestItemIDUsesUTCDay(t *testing.T) {
	// 23:30 in UTC-5 is already the next day in UTC.
	loc := time.FixedZone("UTC-5", -5*60*60)
	local := time.Date(2026, 10, 15, 23, 30, 0, 0, loc)
	utc := time.Date(2026, 10, 16, 4, 30, 0, 0, time.UTC)

	assert.Equal(t, MustItemID("s", "A/Page", utc), MustItemID("s", "A/Page", local))
}

func TestItemIDRequiresFields(t *testing.T) {
	_, err := ItemID("", "A/Page", time.Now())
	assert.Error(t, err)

	_, err = ItemID("s", "", time.Now())
	assert.Error(t, err)
}
