package match

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// store handles all database operations for matches and participations.
type store struct {
	db    *sql.DB
	clock clockwork.Clock
	mu    sync.RWMutex
}

// Side identifies one of the two competing pairs within a match. An explicit
// type rather than a raw int so "my score" vs "opponent score" cannot be
// computed off the wrong column.
type Side int

const (
	SideOne Side = 1
	SideTwo Side = 2
)

// Other returns the opposing side.
func (s Side) Other() Side {
	if s == SideOne {
		return SideTwo
	}
	return SideOne
}

// Position is a player's role within their side.
type Position string

const (
	PositionGoalkeeper Position = "Goalkeeper"
	PositionAttacker   Position = "Attacker"
)

// Match is immutable once recorded, except for deletion within the guard
// window. Players holds the four participation rows.
type Match struct {
	ID         int64           `json:"id"`
	TeamID     int64           `json:"team_id"`
	Team1Score int             `json:"team1_score"`
	Team2Score int             `json:"team2_score"`
	PlayedAt   time.Time       `json:"played_at"`
	CreatedAt  time.Time       `json:"created_at"`
	Players    []Participation `json:"players,omitempty"`
}

// SideScore returns the score of the given side.
func (m *Match) SideScore(s Side) int {
	if s == SideOne {
		return m.Team1Score
	}
	return m.Team2Score
}

// OpponentScore returns the score of the side opposing s.
func (m *Match) OpponentScore(s Side) int {
	return m.SideScore(s.Other())
}

// Participation is one player's record of playing in one match, including
// the rating snapshot taken around it.
type Participation struct {
	ID           int64    `json:"id"`
	MatchID      int64    `json:"match_id"`
	PlayerID     int64    `json:"player_id"`
	PlayerName   string   `json:"player_name"`
	Side         Side     `json:"side"`
	Position     Position `json:"position"`
	RatingDelta  int      `json:"rating_delta"`
	RatingBefore int      `json:"rating_before"`
	RatingAfter  int      `json:"rating_after"`
}

// RecordInput names the four players by their role and carries the final score.
type RecordInput struct {
	Team1Goalkeeper int64 `json:"team1_goalkeeper"`
	Team1Attacker   int64 `json:"team1_attacker"`
	Team2Goalkeeper int64 `json:"team2_goalkeeper"`
	Team2Attacker   int64 `json:"team2_attacker"`
	Team1Score      int   `json:"team1_score"`
	Team2Score      int   `json:"team2_score"`
}

// ValidationError reports a malformed match submission. Nothing is persisted
// when one is returned.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid match: %s", e.Reason)
}

// PolicyError reports a deletion blocked by the guard rules, with the
// specific reason.
type PolicyError struct {
	Reason string
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("cannot delete match: %s", e.Reason)
}
