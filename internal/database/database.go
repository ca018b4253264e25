package database

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// InitDB initializes the database and ensures the schema is up to date.
func InitDB(dbPath string, primaryUrl string, authToken string) (*sql.DB, error) {
	// For local-only databases, dbPath is the filename.
	// With a primaryUrl the database lives on Turso instead.
	if primaryUrl == "" {
		log.Info("Initializing local-only SQLite database", "path", dbPath)
		db, err := sql.Open("libsql", "file:"+dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open local database: %w", err)
		}
		if err = createTables(db); err != nil {
			db.Close() // Close on error
			return nil, fmt.Errorf("failed to create tables for local db: %w", err)
		}
		return db, nil
	}
	log.Info("Initializing Turso database", "url", primaryUrl)
	db, err := sql.Open("libsql", primaryUrl+"?authToken="+authToken)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open db %s: %s", primaryUrl, err)
		return nil, fmt.Errorf("failed to open db %s: %w", primaryUrl, err)
	}
	if err = createTables(db); err != nil {
		db.Close() // Close on error
		return nil, fmt.Errorf("failed to create tables for remote db: %w", err)
	}
	return db, nil
}

func createTables(db *sql.DB) error {
	// Foreign key support is not enabled by default in SQLite
	_, err := db.Exec("PRAGMA foreign_keys = ON;")
	if err != nil {
		log.Error("Error enabling foreign keys:", "error", err)
		return err
	}

	createSnapshotTable := `
	CREATE TABLE IF NOT EXISTS leaderboard_snapshot (
		participant_id TEXT PRIMARY KEY,
		nickname TEXT NOT NULL,
		avatar TEXT,
		rank INTEGER NOT NULL,
		total_battles INTEGER NOT NULL DEFAULT 0,
		wins INTEGER NOT NULL DEFAULT 0,
		losses INTEGER NOT NULL DEFAULT 0,
		win_rate INTEGER NOT NULL DEFAULT 0,
		score DOUBLE NOT NULL DEFAULT 0,
		updated_at INTEGER NOT NULL
	);`

	_, err = db.Exec(createSnapshotTable)
	if err != nil {
		return err
	}
	log.Info("Database initialized successfully")
	return nil
}
