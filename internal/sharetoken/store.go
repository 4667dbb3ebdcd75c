package sharetoken

import (
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
)

// ErrInvalidToken is returned for unknown or expired tokens.
var ErrInvalidToken = errors.New("share token is invalid or expired")

const tokenTTL = 24 * time.Hour

// New creates a new TokenStore backed by the given database.
func New(db *sql.DB, clock clockwork.Clock) TokenStore {
	return &store{db: db, clock: clock}
}

func (s *store) Issue(teamID int64) (*ShareToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	now := s.clock.Now()
	expires := now.Add(tokenTTL)
	res, err := s.db.Exec(
		"INSERT INTO share_tokens (team_id, token, created_at, expires_at) VALUES (?, ?, ?, ?)",
		teamID, token, now.Unix(), expires.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to store share token: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read token id: %w", err)
	}

	return &ShareToken{
		ID:        id,
		TeamID:    teamID,
		Token:     token,
		CreatedAt: now,
		ExpiresAt: expires,
	}, nil
}

func (s *store) Validate(token string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var teamID int64
	var expiresAt int64
	err := s.db.QueryRow(
		"SELECT team_id, expires_at FROM share_tokens WHERE token = ?", token).
		Scan(&teamID, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrInvalidToken
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up share token: %w", err)
	}
	if s.clock.Now().Unix() >= expiresAt {
		return 0, ErrInvalidToken
	}
	return teamID, nil
}

func (s *store) CleanupExpired() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		"DELETE FROM share_tokens WHERE expires_at <= ?", s.clock.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to clean up share tokens: %w", err)
	}
	return res.RowsAffected()
}
