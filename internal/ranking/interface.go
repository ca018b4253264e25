package ranking

import (
	"context"

	"github.com/playpal-app/playpal-ranking/internal/records"
)

// Store is the slice of the record store the engine reads from.
type Store interface {
	GetBattles(ctx context.Context) ([]records.Battle, error)
	GetProfiles(ctx context.Context, ids []string) ([]records.Profile, error)
}

// SnapshotStore persists the last published leaderboard so a restart can
// serve stale-but-available data before the first refresh completes.
type SnapshotStore interface {
	Save(entries []Entry) error
	Load() ([]Entry, error)
	Clear() error
}

// Notifier announces leadership changes. The full notification surface lives
// in the notifier package; the engine only needs this slice of it.
type Notifier interface {
	SendLeaderChange(prev, next Entry, dryRun bool) error
}
