package player

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	"github.com/kickerlog/kickerlog/internal/rating"
)

// ErrNotFound is returned when the referenced player does not exist or does
// not belong to the acting team.
var ErrNotFound = errors.New("player not found")

// ErrRecentActivity is returned when deactivating a player who has played
// within the recent-activity window.
var ErrRecentActivity = errors.New("player has recent matches and cannot be deactivated")

// recentActivityWindow guards deactivation: a player with a match in this
// window stays active.
const recentActivityWindow = 7 * 24 * time.Hour

// New creates a new PlayerStore.
func New(db *sql.DB, clock clockwork.Clock) PlayerStore {
	return &store{db: db, clock: clock}
}

// Create adds a player to a team, starting at the default rating.
func (s *store) Create(teamID int64, name string, avatarID int) (*Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	res, err := s.db.Exec(
		"INSERT INTO players (team_id, name, avatar_id, rating, is_active, created_at) VALUES (?, ?, ?, ?, 1, ?)",
		teamID, name, avatarID, rating.DefaultRating, now.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read player id: %w", err)
	}

	log.Info("Created player", "playerID", id, "teamID", teamID, "name", name)
	return &Player{
		ID:        id,
		TeamID:    teamID,
		Name:      name,
		AvatarID:  avatarID,
		Rating:    rating.DefaultRating,
		IsActive:  true,
		CreatedAt: now,
	}, nil
}

func (s *store) GetByID(id int64) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(
		"SELECT id, team_id, name, avatar_id, rating, is_active, created_at FROM players WHERE id = ?", id)
	p, err := scanPlayer(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan player: %w", err)
	}
	return p, nil
}

func (s *store) ListByTeam(teamID int64, includeInactive bool) ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT id, team_id, name, avatar_id, rating, is_active, created_at FROM players WHERE team_id = ?"
	if !includeInactive {
		query += " AND is_active = 1"
	}
	query += " ORDER BY name"

	rows, err := s.db.Query(query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		p, err := scanPlayer(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

// Update renames a player or changes their avatar. The team check keeps one
// team from editing another team's roster.
func (s *store) Update(playerID, teamID int64, name string, avatarID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		"UPDATE players SET name = ?, avatar_id = ? WHERE id = ? AND team_id = ?",
		name, avatarID, playerID, teamID,
	)
	if err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}
	return requireAffected(res)
}

// CanDeactivate reports whether the player has sat out the recent-activity
// window. Recency here follows played_at, the display ordering.
func (s *store) CanDeactivate(playerID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	threshold := s.clock.Now().Add(-recentActivityWindow).Unix()
	var hasRecent bool
	err := s.db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM match_players mp
			JOIN matches m ON m.id = mp.match_id
			WHERE mp.player_id = ? AND m.played_at >= ?
		)`, playerID, threshold).Scan(&hasRecent)
	if err != nil {
		return false, fmt.Errorf("failed to check recent activity: %w", err)
	}
	return !hasRecent, nil
}

func (s *store) Deactivate(playerID, teamID int64) error {
	ok, err := s.CanDeactivate(playerID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrRecentActivity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		"UPDATE players SET is_active = 0 WHERE id = ? AND team_id = ?", playerID, teamID)
	if err != nil {
		return fmt.Errorf("failed to deactivate player: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return err
	}
	log.Info("Deactivated player", "playerID", playerID)
	return nil
}

func (s *store) Reactivate(playerID, teamID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		"UPDATE players SET is_active = 1 WHERE id = ? AND team_id = ?", playerID, teamID)
	if err != nil {
		return fmt.Errorf("failed to reactivate player: %w", err)
	}
	return requireAffected(res)
}

// IsNameTaken checks case-insensitively within the team. Pass 0 for
// excludePlayerID when creating a new player.
func (s *store) IsNameTaken(teamID int64, name string, excludePlayerID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM players
			WHERE team_id = ? AND LOWER(name) = ? AND id != ?
		)`, teamID, strings.ToLower(name), excludePlayerID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check player name: %w", err)
	}
	return exists, nil
}

func (s *store) ActiveCount(teamID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM players WHERE team_id = ? AND is_active = 1", teamID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return count, nil
}

func scanPlayer(scan func(...any) error) (*Player, error) {
	var p Player
	var createdAt int64
	var isActive int
	if err := scan(&p.ID, &p.TeamID, &p.Name, &p.AvatarID, &p.Rating, &isActive, &createdAt); err != nil {
		return nil, err
	}
	p.IsActive = isActive == 1
	p.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &p, nil
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
