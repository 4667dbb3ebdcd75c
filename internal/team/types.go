package team

import (
	"database/sql"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// store handles all database operations for teams.
type store struct {
	db    *sql.DB
	clock clockwork.Clock
	mu    sync.RWMutex
}

// Team owns players, matches and share tokens; deleting a team cascades
// to all three through the schema's foreign key rules.
type Team struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	CodeName     string    `json:"code_name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
