package notifier

import (
	"sync"

	"github.com/playpal-app/playpal-ranking/internal/ranking"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Call records
	SendLeaderChangeCalls []struct{ Prev, Next ranking.Entry }
	SendLeaderboardCalls  [][]ranking.Entry
	SendNotFoundCalls     []string

	// Spies for format functions
	FormatLeaderboardResponseFunc func(entries []ranking.Entry) (any, error)
	FormatRankResponseFunc        func(entry ranking.Entry) (any, error)
	FormatNotFoundResponseFunc    func(query string) (any, error)

	// Errors to return from the send methods
	SendErr error
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderChangeCalls = nil
	m.SendLeaderboardCalls = nil
	m.SendNotFoundCalls = nil
}

func (m *Mock) SendLeaderChange(prev, next ranking.Entry, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderChangeCalls = append(m.SendLeaderChangeCalls, struct{ Prev, Next ranking.Entry }{prev, next})
	return m.SendErr
}

func (m *Mock) SendLeaderboard(entries []ranking.Entry, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, entries)
	return m.SendErr
}

func (m *Mock) SendParticipantNotFound(query string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendNotFoundCalls = append(m.SendNotFoundCalls, query)
	return m.SendErr
}

func (m *Mock) FormatLeaderboardResponse(entries []ranking.Entry) (any, error) {
	m.mu.Lock()
	fn := m.FormatLeaderboardResponseFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(entries)
	}
	return map[string]any{"entries": len(entries)}, nil
}

func (m *Mock) FormatRankResponse(entry ranking.Entry) (any, error) {
	m.mu.Lock()
	fn := m.FormatRankResponseFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(entry)
	}
	return map[string]any{"rank": entry.Rank}, nil
}

func (m *Mock) FormatParticipantNotFoundResponse(query string) (any, error) {
	m.mu.Lock()
	fn := m.FormatNotFoundResponseFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(query)
	}
	return map[string]any{"query": query}, nil
}
