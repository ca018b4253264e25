package ranking

import "errors"

// DefaultNickname is shown for participants whose profile has no nickname.
const DefaultNickname = "未知用户"

// loadErrorMessage is the single user-facing message stored when a refresh
// fails. The previous leaderboard stays published.
const loadErrorMessage = "加载排行榜数据失败，请检查网络连接"

// ErrInvalidParticipation is returned when a participant is assigned to both
// sides of the same battle.
var ErrInvalidParticipation = errors.New("participant assigned to both sides of one battle")

// UserStats holds the per-participant outcome counts for one aggregation
// pass. Battles without a recorded winner count toward TotalBattles only.
type UserStats struct {
	ParticipantID string
	TotalBattles  int
	Wins          int
	Losses        int
}

// Entry is one ranked leaderboard row: aggregated stats joined with the
// participant's display profile. WinRate is an integer percentage for
// presentation; ranking uses the unrounded Score.
type Entry struct {
	Rank          int     `json:"rank"`
	ParticipantID string  `json:"participant_id"`
	Nickname      string  `json:"nickname"`
	Avatar        string  `json:"avatar"`
	TotalBattles  int     `json:"total_battles"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	WinRate       int     `json:"win_rate"`
	Score         float64 `json:"score"`
}

// RankSummary is the current user's position on the leaderboard.
type RankSummary struct {
	Rank         int `json:"rank"`
	WinRate      int `json:"win_rate"`
	TotalBattles int `json:"total_battles"`
}

// MatchHistory is a presentation-only grouping of battles by their parent
// match. It is derived from the same battle records as the leaderboard and
// carries no data of its own.
type MatchHistory struct {
	MatchID      string   `json:"match_id"`
	Sport        string   `json:"sport"`
	BattleCount  int      `json:"battle_count"`
	DecidedCount int      `json:"decided_count"`
	Participants []string `json:"participants"`
	TeamA        []string `json:"team_a"`
	TeamB        []string `json:"team_b"`
	LatestAt     string   `json:"latest_at"`
}
