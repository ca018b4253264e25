package notifier

import (
	"github.com/playpal-app/playpal-ranking/internal/ranking"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For a change at the top of the leaderboard
	SendLeaderChange(prev, next ranking.Entry, dryRun bool) error
	// For publishing the full standings
	SendLeaderboard(entries []ranking.Entry, dryRun bool) error
	SendParticipantNotFound(query string, dryRun bool) error

	// For formatting responses for slash commands
	FormatLeaderboardResponse(entries []ranking.Entry) (any, error)
	FormatRankResponse(entry ranking.Entry) (any, error)
	FormatParticipantNotFoundResponse(query string) (any, error)
}
