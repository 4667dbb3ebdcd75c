package notifier

import (
	"sync"

	"github.com/kickerlog/kickerlog/internal/match"
)

// Mock records the notifications it receives, for testing.
type Mock struct {
	mu       sync.Mutex
	recorded []*match.Match
	deleted  []*match.Match
	// Err, when set, is returned from every call.
	Err error
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) MatchRecorded(mt *match.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorded = append(m.recorded, mt)
	return m.Err
}

func (m *Mock) MatchDeleted(mt *match.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, mt)
	return m.Err
}

// Recorded returns the matches passed to MatchRecorded.
func (m *Mock) Recorded() []*match.Match {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*match.Match(nil), m.recorded...)
}

// Deleted returns the matches passed to MatchDeleted.
func (m *Mock) Deleted() []*match.Match {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*match.Match(nil), m.deleted...)
}
