package team

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	"github.com/kickerlog/kickerlog/internal/slugger"
	"golang.org/x/crypto/bcrypt"
)

// ErrNotFound is returned when the referenced team does not exist.
var ErrNotFound = errors.New("team not found")

// ErrCodeNameTaken is returned when creating a team whose code name collides
// with an existing one.
var ErrCodeNameTaken = errors.New("code name already taken")

// New creates a new TeamStore.
func New(db *sql.DB, clock clockwork.Clock) TeamStore {
	return &store{db: db, clock: clock}
}

// Create registers a team. The code name is slug-normalized and must be
// unique; the password is stored as a bcrypt hash.
func (s *store) Create(name, codeName, password string) (*Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	normalized := slugger.Make(codeName)
	if normalized == "" {
		return nil, fmt.Errorf("invalid code name %q", codeName)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.clock.Now()
	res, err := s.db.Exec(
		"INSERT INTO teams (name, code_name, password_hash, created_at) VALUES (?, ?, ?, ?)",
		name, normalized, string(hash), now.Unix(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrCodeNameTaken
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read team id: %w", err)
	}

	log.Info("Created team", "teamID", id, "codeName", normalized)
	return &Team{
		ID:           id,
		Name:         name,
		CodeName:     normalized,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}, nil
}

func (s *store) GetByID(id int64) (*Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow("SELECT id, name, code_name, password_hash, created_at FROM teams WHERE id = ?", id)
	return scanTeam(row)
}

func (s *store) GetByCodeName(codeName string) (*Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(
		"SELECT id, name, code_name, password_hash, created_at FROM teams WHERE code_name = ?",
		strings.ToLower(codeName),
	)
	return scanTeam(row)
}

// ValidatePassword checks a login attempt. An unknown code name counts as a
// failed validation, not an error.
func (s *store) ValidatePassword(codeName, password string) (bool, error) {
	t, err := s.GetByCodeName(codeName)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return bcrypt.CompareHashAndPassword([]byte(t.PasswordHash), []byte(password)) == nil, nil
}

func (s *store) IsCodeNameTaken(codeName string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists bool
	err := s.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM teams WHERE code_name = ?)",
		strings.ToLower(codeName),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check code name: %w", err)
	}
	return exists, nil
}

// ListCodeNames returns every registered code name, used to pick a free
// suffix when a requested code name is already taken.
func (s *store) ListCodeNames() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT code_name FROM teams")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Delete removes the team; players, matches, participations and share tokens
// go with it through the cascade rules.
func (s *store) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM teams WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	log.Info("Deleted team", "teamID", id)
	return nil
}

func scanTeam(row *sql.Row) (*Team, error) {
	var t Team
	var createdAt int64
	err := row.Scan(&t.ID, &t.Name, &t.CodeName, &t.PasswordHash, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan team: %w", err)
	}
	t.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &t, nil
}
