package stats

import (
	"database/sql"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/kickerlog/kickerlog/internal/match"
)

// store derives statistics from match history. All operations are read-only.
type store struct {
	db    *sql.DB
	clock clockwork.Clock
	mu    sync.RWMutex
}

// Thresholds for derived statistics.
const (
	// minSharedMatches is the minimum sample for partner/opponent stats and
	// pair rankings.
	minSharedMatches = 3
	// minGamesForPositionBadge gates BestWinRate, BestGoalkeeper and BestAttacker.
	minGamesForPositionBadge = 5
	// minGamesForCarried gates the Carried badge.
	minGamesForCarried = 10
	// carriedWinShare is the fraction of wins that must have come alongside a
	// higher-rated partner for a player to count as carried.
	carriedWinShare = 0.6
	// minHotStreak is the minimum active streak for the HotStreak badge.
	minHotStreak = 3
	// newcomerWindow marks players created recently as newcomers.
	newcomerWindow = 7 * 24 * time.Hour
)

// PlayerProfile is the full per-player statistics view.
type PlayerProfile struct {
	PlayerID      int64  `json:"player_id"`
	PlayerName    string `json:"player_name"`
	CurrentRating int    `json:"current_rating"`
	HighestRating int    `json:"highest_rating"`
	LowestRating  int    `json:"lowest_rating"`
	TotalMatches  int    `json:"total_matches"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	WinRate       float64 `json:"win_rate"`

	CurrentStreak    int `json:"current_streak"`
	LongestWinStreak int `json:"longest_win_streak"`
	ShutoutLosses    int `json:"shutout_losses"`
	ShutoutWins      int `json:"shutout_wins"`

	// PreferredPosition is empty for a player with no games.
	PreferredPosition string `json:"preferred_position,omitempty"`
	GamesAsGoalkeeper int    `json:"games_as_goalkeeper"`
	GamesAsAttacker   int    `json:"games_as_attacker"`
	GoalsForAsGoalkeeper     int `json:"goals_for_as_goalkeeper"`
	GoalsAgainstAsGoalkeeper int `json:"goals_against_as_goalkeeper"`
	GoalsForAsAttacker       int `json:"goals_for_as_attacker"`
	GoalsAgainstAsAttacker   int `json:"goals_against_as_attacker"`

	BestPartner    *PartnerStat `json:"best_partner,omitempty"`
	WorstPartner   *PartnerStat `json:"worst_partner,omitempty"`
	EasiestOpponent *PartnerStat `json:"easiest_opponent,omitempty"`
	HardestOpponent *PartnerStat `json:"hardest_opponent,omitempty"`

	RatingHistory []RatingPoint `json:"rating_history"`
}

// PartnerStat describes a recurring partner or opponent relationship.
type PartnerStat struct {
	PlayerID int64   `json:"player_id"`
	Name     string  `json:"name"`
	Games    int     `json:"games"`
	WinRate  float64 `json:"win_rate"`
}

// RatingPoint is one step of a player's rating trajectory, for charting.
type RatingPoint struct {
	Date   time.Time `json:"date"`
	Rating int       `json:"rating"`
}

// PlayerRanking is one row of the team leaderboard.
type PlayerRanking struct {
	Rank       int     `json:"rank"`
	PlayerID   int64   `json:"player_id"`
	PlayerName string  `json:"player_name"`
	AvatarID   int     `json:"avatar_id"`
	Rating     int     `json:"rating"`
	Matches    int     `json:"matches"`
	Wins       int     `json:"wins"`
	WinRate    float64 `json:"win_rate"`
}

// PairStats aggregates a recurring side pairing. The pair key is
// order-independent; Player1 is always the lower id.
type PairStats struct {
	Player1ID    int64   `json:"player1_id"`
	Player1Name  string  `json:"player1_name"`
	Player2ID    int64   `json:"player2_id"`
	Player2Name  string  `json:"player2_name"`
	Matches      int     `json:"matches"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	WinRate      float64 `json:"win_rate"`
	TotalScore   int     `json:"total_score"`
	AverageScore float64 `json:"average_score"`
}

// BadgeHolder names a badge winner and the value that earned it.
type BadgeHolder struct {
	PlayerID   int64  `json:"player_id"`
	PlayerName string `json:"player_name"`
	Value      int    `json:"value"`
}

// TeamBadges is the set of superlatives for a team. Single-winner badges are
// nil when no player meets the minimum sample.
type TeamBadges struct {
	TopRated       *BadgeHolder  `json:"top_rated,omitempty"`
	LastPlace      *BadgeHolder  `json:"last_place,omitempty"`
	HotStreak      *BadgeHolder  `json:"hot_streak,omitempty"`
	StreakKing     *BadgeHolder  `json:"streak_king,omitempty"`
	TableDiver     *BadgeHolder  `json:"table_diver,omitempty"`
	TableSender    *BadgeHolder  `json:"table_sender,omitempty"`
	BestWinRate    *BadgeHolder  `json:"best_win_rate,omitempty"`
	BestGoalkeeper *BadgeHolder  `json:"best_goalkeeper,omitempty"`
	BestAttacker   *BadgeHolder  `json:"best_attacker,omitempty"`
	TomkoMemorial  *BadgeHolder  `json:"tomko_memorial,omitempty"`
	Newcomers      []BadgeHolder `json:"newcomers"`
	Carried        []BadgeHolder `json:"carried"`
}

// historyMatch is one match with all four participation rows, as loaded for
// aggregation. Matches arrive ordered by id, the append-only sequence.
type historyMatch struct {
	id         int64
	playedAt   time.Time
	team1Score int
	team2Score int
	parts      []historyPart
}

func (h *historyMatch) sideScore(s match.Side) int {
	if s == match.SideOne {
		return h.team1Score
	}
	return h.team2Score
}

type historyPart struct {
	playerID int64
	name     string
	side     match.Side
	position match.Position
	delta    int
	before   int
	after    int
}

func (h *historyMatch) part(playerID int64) *historyPart {
	for i := range h.parts {
		if h.parts[i].playerID == playerID {
			return &h.parts[i]
		}
	}
	return nil
}
