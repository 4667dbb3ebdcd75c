package match

import (
	"database/sql"
	"fmt"
	"time"
)

// DefaultPageSize is used by callers listing team history.
const DefaultPageSize = 20

// GetByID returns the match with its four participations attached.
func (s *store) GetByID(id int64) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(
		"SELECT id, team_id, team1_score, team2_score, played_at, created_at FROM matches WHERE id = ?", id)
	m, err := scanMatch(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan match: %w", err)
	}

	m.Players, err = loadParticipations(s.db, m.ID)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ListByTeam returns a page of the team's history, most recently played first.
func (s *store) ListByTeam(teamID int64, page, pageSize int) ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	return s.queryMatches(`
		SELECT id, team_id, team1_score, team2_score, played_at, created_at
		FROM matches WHERE team_id = ?
		ORDER BY played_at DESC, id DESC
		LIMIT ? OFFSET ?`, teamID, pageSize, (page-1)*pageSize)
}

func (s *store) CountByTeam(teamID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM matches WHERE team_id = ?", teamID).Scan(&count)
	return count, err
}

// ListByPlayer returns the player's most recently played matches.
func (s *store) ListByPlayer(playerID int64, limit int) ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit < 1 {
		limit = 10
	}
	return s.queryMatches(`
		SELECT m.id, m.team_id, m.team1_score, m.team2_score, m.played_at, m.created_at
		FROM matches m
		WHERE EXISTS (SELECT 1 FROM match_players mp WHERE mp.match_id = m.id AND mp.player_id = ?)
		ORDER BY m.played_at DESC, m.id DESC
		LIMIT ?`, playerID, limit)
}

func (s *store) CountByPlayer(playerID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM match_players WHERE player_id = ?", playerID).Scan(&count)
	return count, err
}

// CountSince counts team matches played at or after the given time.
func (s *store) CountSince(teamID int64, since time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM matches WHERE team_id = ? AND played_at >= ?",
		teamID, since.Unix()).Scan(&count)
	return count, err
}

// AverageCombinedScore returns the mean of team1_score+team2_score over the
// team's history, 0 with no matches.
func (s *store) AverageCombinedScore(teamID int64) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var avg sql.NullFloat64
	err := s.db.QueryRow(
		"SELECT AVG(team1_score + team2_score) FROM matches WHERE team_id = ?", teamID).Scan(&avg)
	if err != nil {
		return 0, err
	}
	return avg.Float64, nil
}

func (s *store) queryMatches(query string, args ...any) ([]*Match, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []*Match
	for rows.Next() {
		m, err := scanMatch(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, m := range matches {
		m.Players, err = loadParticipations(s.db, m.ID)
		if err != nil {
			return nil, err
		}
	}
	return matches, nil
}

func scanMatch(scan func(...any) error) (*Match, error) {
	var m Match
	var playedAt, createdAt int64
	if err := scan(&m.ID, &m.TeamID, &m.Team1Score, &m.Team2Score, &playedAt, &createdAt); err != nil {
		return nil, err
	}
	m.PlayedAt = time.Unix(playedAt, 0).UTC()
	m.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &m, nil
}

func loadParticipations(q querier, matchID int64) ([]Participation, error) {
	rows, err := q.Query(`
		SELECT mp.id, mp.match_id, mp.player_id, p.name, mp.side, mp.position, mp.rating_delta, mp.rating_before, mp.rating_after
		FROM match_players mp
		JOIN players p ON p.id = mp.player_id
		WHERE mp.match_id = ?
		ORDER BY mp.side, mp.position`, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participations: %w", err)
	}
	defer rows.Close()

	var parts []Participation
	for rows.Next() {
		var p Participation
		var side int
		var position string
		if err := rows.Scan(&p.ID, &p.MatchID, &p.PlayerID, &p.PlayerName, &side, &position, &p.RatingDelta, &p.RatingBefore, &p.RatingAfter); err != nil {
			return nil, fmt.Errorf("failed to scan participation: %w", err)
		}
		p.Side = Side(side)
		p.Position = Position(position)
		parts = append(parts, p)
	}
	return parts, rows.Err()
}
