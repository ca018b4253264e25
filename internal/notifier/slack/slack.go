package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/playpal-app/playpal-ranking/internal/metrics"
	"github.com/playpal-app/playpal-ranking/internal/notifier"
	"github.com/playpal-app/playpal-ranking/internal/ranking"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// Implement the Notifier interface
func (s *Notifier) SendLeaderChange(prev, next ranking.Entry, dryRun bool) error {
	msg := s.formatLeaderChange(prev, next)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendLeaderboard(entries []ranking.Entry, dryRun bool) error {
	msg := s.formatLeaderboard(entries)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendParticipantNotFound(query string, dryRun bool) error {
	msg := s.formatParticipantNotFound(query)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// FormatLeaderboardResponse formats a leaderboard message for a slash command response.
func (s *Notifier) FormatLeaderboardResponse(entries []ranking.Entry) (any, error) {
	return s.formatLeaderboard(entries), nil
}

// FormatRankResponse formats a single participant's standing for a slash command response.
func (s *Notifier) FormatRankResponse(entry ranking.Entry) (any, error) {
	return s.formatRank(entry), nil
}

// FormatParticipantNotFoundResponse formats a not-found message for a slash command response.
func (s *Notifier) FormatParticipantNotFoundResponse(query string) (any, error) {
	return s.formatParticipantNotFound(query), nil
}

// formatLeaderChange creates the Slack message announcing a new leader using Block Kit.
func (s *Notifier) formatLeaderChange(prev, next ranking.Entry) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 New leader! 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("%s takes the top spot with a score of %.3f (%d%% win rate over %d battles).",
		next.Nickname, next.Score, next.WinRate, next.TotalBattles)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	contextText := fmt.Sprintf("Previous leader: %s", prev.Nickname)
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", contextText, true, false)))

	return slack.NewBlockMessage(blocks...)
}

// formatLeaderboard creates the Slack message for the full standings using Block Kit.
func (s *Notifier) formatLeaderboard(entries []ranking.Entry) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 Leaderboard 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(entries) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No battles recorded yet.", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	var lines []string
	for _, e := range entries {
		medal := ""
		switch e.Rank {
		case 1:
			medal = "🥇 "
		case 2:
			medal = "🥈 "
		case 3:
			medal = "🥉 "
		}
		lines = append(lines, fmt.Sprintf("%d. %s%s: score %.3f, %d%% over %d battles",
			e.Rank, medal, e.Nickname, e.Score, e.WinRate, e.TotalBattles))
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatRank creates the Slack message for a single participant's standing.
func (s *Notifier) formatRank(entry ranking.Entry) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("Standing for %s", entry.Nickname), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("Rank: %d", entry.Rank), true, false),
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("Score: %.3f", entry.Score), true, false),
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("Record: %dW / %dL", entry.Wins, entry.Losses), true, false),
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("Battles: %d", entry.TotalBattles), true, false),
	}
	blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatParticipantNotFound creates the Slack message for a missing participant.
func (s *Notifier) formatParticipantNotFound(query string) slack.Message {
	text := slack.NewTextBlockObject("plain_text", fmt.Sprintf("No participant matching %q on the leaderboard.", query), false, false)
	return slack.NewBlockMessage(slack.NewSectionBlock(text, nil, nil))
}
