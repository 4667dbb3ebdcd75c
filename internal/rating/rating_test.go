package rating_test

import (
	"testing"

	"github.com/kickerlog/kickerlog/internal/rating"
	"github.com/stretchr/testify/assert"
)

func TestTeamRating(t *testing.T) {
	assert.Equal(t, 1000, rating.TeamRating(1000, 1000))
	assert.Equal(t, 1008, rating.TeamRating(1000, 1016))
	// Integer truncation, not rounding.
	assert.Equal(t, 1000, rating.TeamRating(1000, 1001))
}

func TestRatingDeltaIsZeroSum(t *testing.T) {
	pairs := [][2]int{
		{1000, 1000},
		{1200, 800},
		{800, 1200},
		{100, 2400},
		{1500, 1499},
	}
	for _, p := range pairs {
		for _, team1Won := range []bool{true, false} {
			d1, d2 := rating.RatingDelta(p[0], p[1], team1Won)
			assert.Equal(t, -d1, d2, "deltas must negate for ratings %v", p)
			assert.LessOrEqual(t, d1, rating.KFactor)
			assert.GreaterOrEqual(t, d1, -rating.KFactor)
		}
	}
}

func TestRatingDeltaEvenMatch(t *testing.T) {
	// Equal ratings, team 1 wins: 32 * (1 - 0.5) = 16.
	d1, d2 := rating.RatingDelta(1000, 1000, true)
	assert.Equal(t, 16, d1)
	assert.Equal(t, -16, d2)

	// Equal ratings, team 2 wins: symmetric.
	d1, d2 = rating.RatingDelta(1000, 1000, false)
	assert.Equal(t, -16, d1)
	assert.Equal(t, 16, d2)
}

func TestRatingDeltaApproachesBounds(t *testing.T) {
	// Heavy favourite winning gains almost nothing.
	d1, _ := rating.RatingDelta(2400, 1000, true)
	assert.LessOrEqual(t, d1, 1)
	assert.GreaterOrEqual(t, d1, 0)

	// Heavy underdog winning gains close to K.
	d1, _ = rating.RatingDelta(1000, 2400, true)
	assert.Equal(t, rating.KFactor, d1)
}

func TestExpectedScore(t *testing.T) {
	assert.InDelta(t, 0.5, rating.ExpectedScore(1000, 1000), 1e-9)
	// 400 points of advantage is a 10:1 expectation.
	assert.InDelta(t, 10.0/11.0, rating.ExpectedScore(1400, 1000), 1e-9)

	sum := rating.ExpectedScore(1234, 987) + rating.ExpectedScore(987, 1234)
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestApplyDelta(t *testing.T) {
	assert.Equal(t, 1016, rating.ApplyDelta(1000, 16))
	assert.Equal(t, 984, rating.ApplyDelta(1000, -16))

	// Floor clamp.
	assert.Equal(t, rating.MinimumRating, rating.ApplyDelta(110, -16))
	assert.Equal(t, rating.MinimumRating, rating.ApplyDelta(100, -1000))

	// Monotonic in the delta.
	prev := rating.ApplyDelta(150, -200)
	for d := -199; d <= 200; d++ {
		cur := rating.ApplyDelta(150, d)
		assert.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
}
