package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu               sync.Mutex
	matchesRecorded  int
	matchesDeleted   int
	matchesRejected  int
	statsDurations   []float64
	slackNotifSent   int
	slackNotifFailed int
	startupTime      float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		statsDurations: make([]float64, 0),
	}
}

func (m *Mock) IncMatchesRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesRecorded++
}

func (m *Mock) IncMatchesDeleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesDeleted++
}

func (m *Mock) IncMatchesRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesRejected++
}

func (m *Mock) ObserveStatsDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statsDurations = append(m.statsDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// MatchesRecordedCount returns the number of times IncMatchesRecorded was called.
func (m *Mock) MatchesRecordedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesRecorded
}

// MatchesDeletedCount returns the number of times IncMatchesDeleted was called.
func (m *Mock) MatchesDeletedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesDeleted
}

// MatchesRejectedCount returns the number of times IncMatchesRejected was called.
func (m *Mock) MatchesRejectedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesRejected
}

// SlackNotifSentCount returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailedCount returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
