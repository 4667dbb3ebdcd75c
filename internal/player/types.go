package player

import (
	"database/sql"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// store handles all database operations for players.
type store struct {
	db    *sql.DB
	clock clockwork.Clock
	mu    sync.RWMutex
}

// Player belongs to exactly one team. A deactivated player is excluded from
// new matches and most rankings but keeps their full history.
type Player struct {
	ID        int64     `json:"id"`
	TeamID    int64     `json:"team_id"`
	Name      string    `json:"name"`
	AvatarID  int       `json:"avatar_id"`
	Rating    int       `json:"rating"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
