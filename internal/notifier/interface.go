package notifier

import "github.com/kickerlog/kickerlog/internal/match"

// Notifier announces match life-cycle events to the team's channel.
// Implementations must tolerate being called concurrently.
type Notifier interface {
	MatchRecorded(m *match.Match) error
	MatchDeleted(m *match.Match) error
}

// Noop discards all notifications. Used when no channel is configured.
type Noop struct{}

func (Noop) MatchRecorded(*match.Match) error { return nil }
func (Noop) MatchDeleted(*match.Match) error  { return nil }
