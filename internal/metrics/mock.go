package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu               sync.Mutex
	refreshRuns      int
	refreshFailures  int
	refreshDurations []float64
	realtimeEvents   int
	leaderboardSize  float64
	slackNotifSent   int
	slackNotifFailed int
	startupTime      float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		refreshDurations: make([]float64, 0),
	}
}

func (m *Mock) IncRefreshRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshRuns++
}

func (m *Mock) IncRefreshFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshFailures++
}

func (m *Mock) ObserveRefreshDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshDurations = append(m.refreshDurations, duration)
}

func (m *Mock) IncRealtimeEvents() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.realtimeEvents++
}

func (m *Mock) SetLeaderboardSize(size float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaderboardSize = size
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

// RefreshRuns returns the number of times IncRefreshRuns was called.
func (m *Mock) RefreshRuns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshRuns
}

// RefreshFailures returns the number of times IncRefreshFailures was called.
func (m *Mock) RefreshFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshFailures
}

// RealtimeEvents returns the number of times IncRealtimeEvents was called.
func (m *Mock) RealtimeEvents() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.realtimeEvents
}

// LeaderboardSize returns the most recently set leaderboard size.
func (m *Mock) LeaderboardSize() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.leaderboardSize
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
