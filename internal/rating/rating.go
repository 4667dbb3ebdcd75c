// Package rating implements the Elo-style rating math used for foosball doubles.
// A side's rating is the mean of its two players; the winner's delta is computed
// from the logistic expected score and the loser's delta is its exact negation,
// so the sum of all deltas in a match is always zero.
package rating

import "math"

const (
	// DefaultRating is assigned to every newly created player.
	DefaultRating = 1000
	// MinimumRating is the floor a player's rating can never drop below.
	MinimumRating = 100
	// KFactor bounds the magnitude of a single match's rating swing.
	KFactor = 32
)

// TeamRating returns the combined rating of a side, the integer-truncated
// mean of its two players.
func TeamRating(player1Rating, player2Rating int) int {
	return (player1Rating + player2Rating) / 2
}

// ExpectedScore returns the probability in (0,1) that a side rated self
// beats a side rated opponent.
func ExpectedScore(self, opponent int) float64 {
	return 1.0 / (1.0 + math.Pow(10, float64(opponent-self)/400.0))
}

// RatingDelta computes the rating change for both sides of a finished match.
// delta2 is always the exact negation of delta1, never computed independently,
// which keeps the delta pair zero-sum regardless of rounding.
func RatingDelta(team1Rating, team2Rating int, team1Won bool) (delta1, delta2 int) {
	expected1 := ExpectedScore(team1Rating, team2Rating)
	actual1 := 0.0
	if team1Won {
		actual1 = 1.0
	}

	delta1 = int(math.Round(KFactor * (actual1 - expected1)))
	delta2 = -delta1
	return delta1, delta2
}

// ApplyDelta returns the player's new rating, clamped at MinimumRating.
// Because of the clamp the applied effect of a match can be non-zero-sum
// when a participant already sits at the floor; only the delta pair itself
// is guaranteed to conserve the sum.
func ApplyDelta(current, delta int) int {
	newRating := current + delta
	if newRating < MinimumRating {
		return MinimumRating
	}
	return newRating
}
