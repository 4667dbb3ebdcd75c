package match

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	"github.com/kickerlog/kickerlog/internal/rating"
)

// ErrNotFound is returned when the referenced match does not exist or
// belongs to a different team than the requester. The two cases are
// deliberately indistinguishable.
var ErrNotFound = errors.New("match not found")

// deletionWindow is how long after creation a match remains deletable.
const deletionWindow = 24 * time.Hour

// New creates a new MatchStore.
func New(db *sql.DB, clock clockwork.Clock) MatchStore {
	return &store{db: db, clock: clock}
}

// querier is satisfied by both *sql.DB and *sql.Tx, so the deletion
// eligibility check can run outside and inside a transaction.
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
}

type sidePlayers struct {
	goalkeeper int64
	attacker   int64
}

// Record validates and commits a match result. The match row, the four
// participation rows and the four player rating updates are one atomic unit;
// any failure rolls everything back.
func (s *store) Record(teamID int64, in RecordInput) (*Match, error) {
	if err := validateScores(in.Team1Score, in.Team2Score); err != nil {
		return nil, err
	}

	ids := []int64{in.Team1Goalkeeper, in.Team1Attacker, in.Team2Goalkeeper, in.Team2Attacker}
	seen := make(map[int64]struct{}, 4)
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return nil, &ValidationError{Reason: "all four players must be different"}
		}
		seen[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Read the four players inside the transaction so the rating snapshot
	// is consistent with the rows we are about to update.
	ratings := make(map[int64]int, 4)
	names := make(map[int64]string, 4)
	for _, id := range ids {
		var currentRating int
		var playerTeamID int64
		var isActive int
		var name string
		err := tx.QueryRow(
			"SELECT rating, team_id, is_active, name FROM players WHERE id = ?", id,
		).Scan(&currentRating, &playerTeamID, &isActive, &name)
		if err == sql.ErrNoRows {
			return nil, &ValidationError{Reason: fmt.Sprintf("player %d not found", id)}
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load player %d: %w", id, err)
		}
		if playerTeamID != teamID {
			return nil, &ValidationError{Reason: fmt.Sprintf("player %s does not belong to the team", name)}
		}
		if isActive != 1 {
			return nil, &ValidationError{Reason: fmt.Sprintf("player %s is not active", name)}
		}
		ratings[id] = currentRating
		names[id] = name
	}

	team1Rating := rating.TeamRating(ratings[in.Team1Goalkeeper], ratings[in.Team1Attacker])
	team2Rating := rating.TeamRating(ratings[in.Team2Goalkeeper], ratings[in.Team2Attacker])
	team1Won := in.Team1Score > in.Team2Score
	delta1, delta2 := rating.RatingDelta(team1Rating, team2Rating, team1Won)

	now := s.clock.Now()
	res, err := tx.Exec(
		"INSERT INTO matches (team_id, team1_score, team2_score, played_at, created_at) VALUES (?, ?, ?, ?, ?)",
		teamID, in.Team1Score, in.Team2Score, now.Unix(), now.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert match: %w", err)
	}
	matchID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read match id: %w", err)
	}

	m := &Match{
		ID:         matchID,
		TeamID:     teamID,
		Team1Score: in.Team1Score,
		Team2Score: in.Team2Score,
		PlayedAt:   now,
		CreatedAt:  now,
	}

	rows := []struct {
		playerID int64
		side     Side
		position Position
		delta    int
	}{
		{in.Team1Goalkeeper, SideOne, PositionGoalkeeper, delta1},
		{in.Team1Attacker, SideOne, PositionAttacker, delta1},
		{in.Team2Goalkeeper, SideTwo, PositionGoalkeeper, delta2},
		{in.Team2Attacker, SideTwo, PositionAttacker, delta2},
	}
	for _, r := range rows {
		before := ratings[r.playerID]
		after := rating.ApplyDelta(before, r.delta)

		pres, err := tx.Exec(`
			INSERT INTO match_players (match_id, player_id, side, position, rating_delta, rating_before, rating_after)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			matchID, r.playerID, int(r.side), string(r.position), r.delta, before, after,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert participation: %w", err)
		}
		pid, err := pres.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to read participation id: %w", err)
		}

		if _, err := tx.Exec("UPDATE players SET rating = ? WHERE id = ?", after, r.playerID); err != nil {
			return nil, fmt.Errorf("failed to update player rating: %w", err)
		}

		m.Players = append(m.Players, Participation{
			ID:           pid,
			MatchID:      matchID,
			PlayerID:     r.playerID,
			PlayerName:   names[r.playerID],
			Side:         r.side,
			Position:     r.position,
			RatingDelta:  r.delta,
			RatingBefore: before,
			RatingAfter:  after,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit match: %w", err)
	}

	log.Info("Recorded match", "matchID", matchID, "teamID", teamID,
		"score", fmt.Sprintf("%d-%d", in.Team1Score, in.Team2Score), "delta", delta1)
	return m, nil
}

func validateScores(score1, score2 int) error {
	switch {
	case score1 < 0 || score2 < 0:
		return &ValidationError{Reason: "scores cannot be negative"}
	case score1 > 10 || score2 > 10:
		return &ValidationError{Reason: "scores cannot exceed 10"}
	case score1 == score2:
		return &ValidationError{Reason: "scores cannot be equal (no draws allowed)"}
	case score1 != 10 && score2 != 10:
		return &ValidationError{Reason: "at least one side must score 10"}
	}
	return nil
}

// CanDelete reports whether a match is still deletable: it must exist, sit
// inside the deletion window, and be the most recent match of all four
// participants. Recency follows match id, the append-only sequence, because
// played_at is a display value.
func (s *store) CanDelete(matchID int64) (bool, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.canDelete(s.db, matchID)
}

func (s *store) canDelete(q querier, matchID int64) (bool, string, error) {
	var createdAt int64
	err := q.QueryRow("SELECT created_at FROM matches WHERE id = ?", matchID).Scan(&createdAt)
	if err == sql.ErrNoRows {
		return false, "match not found", nil
	}
	if err != nil {
		return false, "", fmt.Errorf("failed to load match: %w", err)
	}

	if s.clock.Now().Sub(time.Unix(createdAt, 0)) > deletionWindow {
		return false, fmt.Sprintf("matches can only be deleted within %d hours of creation", int(deletionWindow.Hours())), nil
	}

	rows, err := q.Query(`
		SELECT p.name
		FROM match_players mp
		JOIN players p ON p.id = mp.player_id
		WHERE mp.match_id = ?
		  AND EXISTS (
			SELECT 1 FROM match_players later
			WHERE later.player_id = mp.player_id AND later.match_id > mp.match_id
		  )`, matchID)
	if err != nil {
		return false, "", fmt.Errorf("failed to check later matches: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return false, "", err
		}
		return false, fmt.Sprintf("player %s has played matches after this one", name), nil
	}
	return true, "", rows.Err()
}

// Delete reverses a recorded match: every participant's rating is reset to
// the recorded rating_before (exact restoration, not delta reversal) and the
// match and its participations are removed, all in one transaction. The
// eligibility check reruns inside the transaction to close the race with a
// concurrent Record touching the same players.
func (s *store) Delete(matchID, teamID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	allowed, reason, err := s.canDelete(tx, matchID)
	if err != nil {
		return err
	}
	if !allowed {
		if reason == "match not found" {
			return ErrNotFound
		}
		return &PolicyError{Reason: reason}
	}

	var matchTeamID int64
	if err := tx.QueryRow("SELECT team_id FROM matches WHERE id = ?", matchID).Scan(&matchTeamID); err != nil {
		return fmt.Errorf("failed to load match team: %w", err)
	}
	if matchTeamID != teamID {
		// A foreign team's match looks exactly like a missing one.
		return ErrNotFound
	}

	if _, err := tx.Exec(`
		UPDATE players SET rating = (
			SELECT mp.rating_before FROM match_players mp
			WHERE mp.match_id = ? AND mp.player_id = players.id
		)
		WHERE id IN (SELECT player_id FROM match_players WHERE match_id = ?)`,
		matchID, matchID); err != nil {
		return fmt.Errorf("failed to restore ratings: %w", err)
	}

	// Participations cascade with the match row.
	if _, err := tx.Exec("DELETE FROM matches WHERE id = ?", matchID); err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit deletion: %w", err)
	}

	log.Info("Deleted match and restored ratings", "matchID", matchID, "teamID", teamID)
	return nil
}
