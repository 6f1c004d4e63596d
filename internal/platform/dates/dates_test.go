package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Layouts(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)

	got, ok := Parse("2024-03-10", loc)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, loc), got)

	got, ok = Parse("2024-03-10T14:30", loc)
	require.True(t, ok)
	assert.Equal(t, 14, got.Hour())

	got, ok = Parse("2024-03-10T14:30:00Z", loc)
	require.True(t, ok)
	assert.Equal(t, time.UTC, got.Location())

	_, ok = Parse("10/03/2024", loc)
	assert.False(t, ok)

	_, ok = Parse("  ", loc)
	assert.False(t, ok)
}

func TestAfterToday(t *testing.T) {
	now := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)

	assert.False(t, AfterToday(now, now, time.UTC))
	assert.False(t, AfterToday(time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC), now, time.UTC))
	assert.True(t, AfterToday(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), now, time.UTC))
	assert.False(t, AfterToday(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), now, time.UTC))
}

func TestDateOnly(t *testing.T) {
	assert.True(t, DateOnly("2024-03-10"))
	assert.True(t, DateOnly(" 2024-03-10 "))
	assert.False(t, DateOnly("2024-03-10T14:30"))
	assert.False(t, DateOnly("2024-03-10T14:30:00Z"))
	assert.False(t, DateOnly(""))
}

func TestCivilDate(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	brt := time.FixedZone("BRT", -3*3600)

	// medianoche local en Tokio es el día anterior en UTC
	got := CivilDate(time.Date(2019, 3, 2, 0, 0, 0, 0, tokyo), tokyo)
	assert.Equal(t, time.Date(2019, 3, 2, 0, 0, 0, 0, time.UTC), got)

	got = CivilDate(time.Date(2019, 3, 2, 0, 0, 0, 0, brt), brt)
	assert.Equal(t, time.Date(2019, 3, 2, 0, 0, 0, 0, time.UTC), got)

	// un instante se ubica en el día de loc
	got = CivilDate(time.Date(2019, 3, 2, 1, 0, 0, 0, time.UTC), brt)
	assert.Equal(t, time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC), got)
}
