package ranking

import (
	"cmp"
	"slices"
	"time"

	"github.com/playpal-app/playpal-ranking/internal/records"
)

// GroupByMatch folds battles into one history row per parent match. This is
// an alternate presentation of the same battle records the leaderboard is
// built from; it introduces no data model of its own.
func GroupByMatch(battles []records.Battle) []MatchHistory {
	type group struct {
		history MatchHistory
		latest  time.Time
		seen    map[string]bool
	}

	groups := make(map[string]*group)
	for _, battle := range battles {
		g, ok := groups[battle.MatchID]
		if !ok {
			g = &group{
				history: MatchHistory{MatchID: battle.MatchID, Sport: battle.Sport},
				seen:    make(map[string]bool),
			}
			groups[battle.MatchID] = g
		}

		g.history.BattleCount++
		if battle.Decided() {
			g.history.DecidedCount++
		}
		if battle.CreatedAt.After(g.latest) {
			g.latest = battle.CreatedAt
		}

		for _, p := range battle.Participants {
			if p.ParticipantID == "" || g.seen[p.ParticipantID] {
				continue
			}
			g.seen[p.ParticipantID] = true
			g.history.Participants = append(g.history.Participants, p.ParticipantID)
			switch p.Team {
			case records.TeamA:
				g.history.TeamA = append(g.history.TeamA, p.ParticipantID)
			case records.TeamB:
				g.history.TeamB = append(g.history.TeamB, p.ParticipantID)
			}
		}
	}

	histories := make([]MatchHistory, 0, len(groups))
	for _, g := range groups {
		slices.Sort(g.history.Participants)
		slices.Sort(g.history.TeamA)
		slices.Sort(g.history.TeamB)
		if !g.latest.IsZero() {
			g.history.LatestAt = g.latest.Format(time.RFC3339)
		}
		histories = append(histories, g.history)
	}

	// Newest match first, match id as the deterministic tie-break.
	slices.SortFunc(histories, func(a, b MatchHistory) int {
		if c := cmp.Compare(b.LatestAt, a.LatestAt); c != 0 {
			return c
		}
		return cmp.Compare(a.MatchID, b.MatchID)
	})
	return histories
}
