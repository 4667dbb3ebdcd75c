package stats

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/kickerlog/kickerlog/internal/match"
)

// ErrPlayerNotFound is returned by PlayerProfile for an unknown player.
var ErrPlayerNotFound = errors.New("player not found")

// New creates a new Aggregator reading from the given database.
func New(db *sql.DB, clock clockwork.Clock) Aggregator {
	return &store{db: db, clock: clock}
}

const historyColumns = `
	SELECT m.id, m.played_at, m.team1_score, m.team2_score,
	       mp.player_id, p.name, mp.side, mp.position,
	       mp.rating_delta, mp.rating_before, mp.rating_after
	FROM matches m
	JOIN match_players mp ON mp.match_id = m.id
	JOIN players p ON p.id = mp.player_id`

// loadPlayerHistory returns every match the player took part in, with all
// four participation rows, ordered by match id.
func (s *store) loadPlayerHistory(playerID int64) ([]historyMatch, error) {
	return s.loadHistory(historyColumns+`
		WHERE m.id IN (SELECT match_id FROM match_players WHERE player_id = ?)
		ORDER BY m.id, mp.side, mp.position`, playerID)
}

// loadTeamHistory returns the team's full match log with participations,
// ordered by match id.
func (s *store) loadTeamHistory(teamID int64) ([]historyMatch, error) {
	return s.loadHistory(historyColumns+`
		WHERE m.team_id = ?
		ORDER BY m.id, mp.side, mp.position`, teamID)
}

func (s *store) loadHistory(query string, arg any) ([]historyMatch, error) {
	rows, err := s.db.Query(query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var history []historyMatch
	for rows.Next() {
		var matchID, playedAt int64
		var team1Score, team2Score int
		var part historyPart
		var side int
		var position string

		err := rows.Scan(&matchID, &playedAt, &team1Score, &team2Score,
			&part.playerID, &part.name, &side, &position,
			&part.delta, &part.before, &part.after)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		part.side = match.Side(side)
		part.position = match.Position(position)

		if len(history) == 0 || history[len(history)-1].id != matchID {
			history = append(history, historyMatch{
				id:         matchID,
				playedAt:   time.Unix(playedAt, 0).UTC(),
				team1Score: team1Score,
				team2Score: team2Score,
			})
		}
		last := &history[len(history)-1]
		last.parts = append(last.parts, part)
	}
	return history, rows.Err()
}

type playerRow struct {
	id        int64
	name      string
	avatarID  int
	rating    int
	createdAt time.Time
}

func (s *store) loadActivePlayers(teamID int64) ([]playerRow, error) {
	rows, err := s.db.Query(`
		SELECT id, name, avatar_id, rating, created_at
		FROM players WHERE team_id = ? AND is_active = 1
		ORDER BY id`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var players []playerRow
	for rows.Next() {
		var p playerRow
		var createdAt int64
		if err := rows.Scan(&p.id, &p.name, &p.avatarID, &p.rating, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		p.createdAt = time.Unix(createdAt, 0).UTC()
		players = append(players, p)
	}
	return players, rows.Err()
}
