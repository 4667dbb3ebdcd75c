package sharetoken

import (
	"database/sql"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// ShareToken grants read-only access to a team's statistics without a login.
type ShareToken struct {
	ID        int64     `json:"id"`
	TeamID    int64     `json:"team_id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type store struct {
	db    *sql.DB
	clock clockwork.Clock
	mu    sync.RWMutex
}
