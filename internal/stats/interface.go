package stats

// Aggregator derives player profiles, rankings, pair synergy and badges from
// the immutable match log. It never mutates anything.
type Aggregator interface {
	PlayerProfile(playerID int64) (*PlayerProfile, error)
	TeamRankings(teamID int64) ([]PlayerRanking, error)
	PairRankings(teamID int64) ([]PairStats, error)
	TeamBadges(teamID int64) (*TeamBadges, error)
}
