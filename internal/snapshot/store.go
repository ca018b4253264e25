package snapshot

import (
	"database/sql"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/playpal-app/playpal-ranking/internal/ranking"
)

// store persists the published leaderboard so a restart can serve the last
// known ranking before the first refresh completes.
type store struct {
	db *sql.DB
	mu sync.Mutex
}

// New creates a new snapshot store backed by the given database.
func New(db *sql.DB) ranking.SnapshotStore {
	return &store{
		db: db,
	}
}

// Save replaces the persisted snapshot with the given entries in a single
// transaction, so readers never observe a half-written leaderboard.
func (s *store) Save(entries []ranking.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM leaderboard_snapshot"); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO leaderboard_snapshot
			(participant_id, nickname, avatar, rank, total_battles, wins, losses, win_rate, score, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, e := range entries {
		if _, err := stmt.Exec(e.ParticipantID, e.Nickname, e.Avatar, e.Rank, e.TotalBattles, e.Wins, e.Losses, e.WinRate, e.Score, now); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Debug("Persisted leaderboard snapshot", "entries", len(entries))
	return nil
}

// Load returns the persisted snapshot ordered by rank, or an empty slice
// when nothing has been saved yet.
func (s *store) Load() ([]ranking.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT participant_id, nickname, avatar, rank, total_battles, wins, losses, win_rate, score
		FROM leaderboard_snapshot
		ORDER BY rank ASC;
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []ranking.Entry
	for rows.Next() {
		var e ranking.Entry
		var avatar sql.NullString
		if err := rows.Scan(&e.ParticipantID, &e.Nickname, &avatar, &e.Rank, &e.TotalBattles, &e.Wins, &e.Losses, &e.WinRate, &e.Score); err != nil {
			return nil, err
		}
		e.Avatar = avatar.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear removes the persisted snapshot.
func (s *store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM leaderboard_snapshot")
	return err
}
