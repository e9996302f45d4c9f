package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZone_TodayUsesLocalCalendarDay(t *testing.T) {
	// 20:00 UTC on March 1 is already March 2 in UTC+8.
	instant := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)
	plus8 := NewZone(time.FixedZone("SGT", 8*60*60)).WithNow(func() time.Time { return instant })
	utc := NewZone(time.UTC).WithNow(func() time.Time { return instant })

	assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), plus8.Today())
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), utc.Today())
}

func TestZone_ZeroValue(t *testing.T) {
	var z Zone
	assert.Equal(t, time.UTC, z.Location())
	assert.False(t, z.Now().IsZero())
}

func TestLoadZone(t *testing.T) {
	z, err := LoadZone("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, z.Location())

	z, err = LoadZone("Local")
	require.NoError(t, err)
	assert.Equal(t, time.Local, z.Location())

	_, err = LoadZone("Mars/Olympus_Mons")
	assert.Error(t, err)
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2025, 2, 27, 23, 0, 0, 0, time.UTC)
	b := time.Date(2025, 3, 2, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, DaysBetween(a, b))
	assert.Equal(t, -3, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a))
}

func TestDescribeDeadline(t *testing.T) {
	z := NewZone(time.UTC).WithNow(func() time.Time { return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC) })

	assert.Equal(t, "closed", z.DescribeDeadline(time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "closes today", z.DescribeDeadline(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "closes tomorrow", z.DescribeDeadline(time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "closes in 30 days", z.DescribeDeadline(time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)))
}
