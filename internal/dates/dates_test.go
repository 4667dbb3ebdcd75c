package dates_test

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/kickerlog/kickerlog/internal/dates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2025-06-11 is a Wednesday.
var wednesday = time.Date(2025, 6, 11, 15, 30, 0, 0, time.UTC)

func newResolver() *dates.Resolver {
	return dates.NewResolver(clockwork.NewFakeClockAt(wednesday))
}

func TestResolveToday(t *testing.T) {
	r := newResolver().Resolve(dates.PeriodToday, nil, nil)
	require.NotNil(t, r)
	assert.Equal(t, time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, r.Start, r.End)
}

func TestResolveWeekStartsMonday(t *testing.T) {
	r := newResolver().Resolve(dates.PeriodWeek, nil, nil)
	require.NotNil(t, r)
	assert.Equal(t, time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), r.Start, "week starts Monday")
	assert.Equal(t, time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC), r.End)
}

func TestStartOfWeekOnSunday(t *testing.T) {
	sunday := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), dates.StartOfWeek(sunday))
}

func TestResolveMonth(t *testing.T) {
	r := newResolver().Resolve(dates.PeriodMonth, nil, nil)
	require.NotNil(t, r)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), r.Start)
}

func TestResolveAllIsUnbounded(t *testing.T) {
	assert.Nil(t, newResolver().Resolve(dates.PeriodAll, nil, nil))
	assert.Nil(t, newResolver().Resolve("garbage", nil, nil))
}

func TestResolveCustom(t *testing.T) {
	start := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2025, 5, 31, 23, 0, 0, 0, time.UTC)

	r := newResolver().Resolve(dates.PeriodCustom, &start, &end)
	require.NotNil(t, r)
	assert.Equal(t, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC), r.End)

	// Both bounds are required.
	assert.Nil(t, newResolver().Resolve(dates.PeriodCustom, &start, nil))
	assert.Nil(t, newResolver().Resolve(dates.PeriodCustom, nil, &end))
}

func TestRangeContains(t *testing.T) {
	r := newResolver().Resolve(dates.PeriodWeek, nil, nil)
	require.NotNil(t, r)
	assert.True(t, r.Contains(time.Date(2025, 6, 10, 23, 59, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)))
}
