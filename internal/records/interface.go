package records

import "context"

// RecordStore defines the narrow interface this service consumes from the
// hosted PlayPal data service. Reads power the ranking engine; inserts exist
// for the seeder and are never called on the serving path.
type RecordStore interface {
	GetBattles(ctx context.Context) ([]Battle, error)
	GetProfiles(ctx context.Context, ids []string) ([]Profile, error)
	InsertProfiles(ctx context.Context, profiles []Profile) error
	InsertBattles(ctx context.Context, battles []Battle) error
	InsertParticipations(ctx context.Context, rows []ParticipationRow) error
}
