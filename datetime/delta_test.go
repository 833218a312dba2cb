package datetime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDays(t *testing.T) {
	assert.Equal(t, Delta{Days: 3}, Days(3))
	assert.Equal(t, Delta{Negative: true, Days: 2}, Days(-2))
	assert.True(t, Days(0).IsZero())
}

func TestDeltaOf(t *testing.T) {
	d := DeltaOf(-(90*time.Minute + 5*time.Second))
	assert.Equal(t, Delta{Negative: true, Hours: 1, Minutes: 30, Seconds: 5}, d)
	assert.Equal(t, -(90*time.Minute + 5*time.Second), d.ClockDuration())
}

func TestDeltaAddTo(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// The day before the spring transition is 23 hours long.
	start := time.Date(2024, 3, 9, 12, 0, 0, 0, ny)
	next := Days(1).AddTo(start)
	assert.Equal(t, time.Date(2024, 3, 10, 12, 0, 0, 0, ny), next)
	assert.Equal(t, 23*time.Hour, next.Sub(start))

	d := Delta{Negative: true, Weeks: 1, Hours: 2}
	assert.Equal(t, -7, d.CalendarDays())
	got := d.AddTo(time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), got)
}
