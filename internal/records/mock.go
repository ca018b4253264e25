package records

import (
	"context"
	"sync"
)

// MockStore is a mock implementation of the RecordStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	GetBattlesFunc           func(ctx context.Context) ([]Battle, error)
	GetProfilesFunc          func(ctx context.Context, ids []string) ([]Profile, error)
	InsertProfilesFunc       func(ctx context.Context, profiles []Profile) error
	InsertBattlesFunc        func(ctx context.Context, battles []Battle) error
	InsertParticipationsFunc func(ctx context.Context, rows []ParticipationRow) error

	// Call records
	GetBattlesCalls           int
	GetProfilesCalls          [][]string
	InsertProfilesCalls       [][]Profile
	InsertBattlesCalls        [][]Battle
	InsertParticipationsCalls [][]ParticipationRow
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetBattlesCalls = 0
	m.GetProfilesCalls = nil
	m.InsertProfilesCalls = nil
	m.InsertBattlesCalls = nil
	m.InsertParticipationsCalls = nil
}

func (m *MockStore) GetBattles(ctx context.Context) ([]Battle, error) {
	m.mu.Lock()
	m.GetBattlesCalls++
	fn := m.GetBattlesFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return nil, nil
}

func (m *MockStore) GetProfiles(ctx context.Context, ids []string) ([]Profile, error) {
	m.mu.Lock()
	m.GetProfilesCalls = append(m.GetProfilesCalls, ids)
	fn := m.GetProfilesFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, ids)
	}
	return nil, nil
}

func (m *MockStore) InsertProfiles(ctx context.Context, profiles []Profile) error {
	m.mu.Lock()
	m.InsertProfilesCalls = append(m.InsertProfilesCalls, profiles)
	fn := m.InsertProfilesFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, profiles)
	}
	return nil
}

func (m *MockStore) InsertBattles(ctx context.Context, battles []Battle) error {
	m.mu.Lock()
	m.InsertBattlesCalls = append(m.InsertBattlesCalls, battles)
	fn := m.InsertBattlesFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, battles)
	}
	return nil
}

func (m *MockStore) InsertParticipations(ctx context.Context, rows []ParticipationRow) error {
	m.mu.Lock()
	m.InsertParticipationsCalls = append(m.InsertParticipationsCalls, rows)
	fn := m.InsertParticipationsFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, rows)
	}
	return nil
}
