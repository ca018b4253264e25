package ranking

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/playpal-app/playpal-ranking/internal/records"
)

// ComputeUserStats aggregates per-participant outcome counts from a set of
// battles. Every participation increments TotalBattles; wins and losses are
// only counted against a recorded winner, so an unscored battle moves neither
// counter. The result is independent of input order.
//
// A participant assigned to both sides of the same battle fails the whole
// pass with ErrInvalidParticipation rather than being double-counted.
func ComputeUserStats(battles []records.Battle) (map[string]*UserStats, error) {
	stats := make(map[string]*UserStats)

	for _, battle := range battles {
		sides := make(map[string]string, len(battle.Participants))
		for _, p := range battle.Participants {
			if p.ParticipantID == "" {
				continue
			}
			if prev, ok := sides[p.ParticipantID]; ok && prev != p.Team {
				return nil, fmt.Errorf("battle %s participant %s: %w", battle.ID, p.ParticipantID, ErrInvalidParticipation)
			}
			sides[p.ParticipantID] = p.Team

			s, ok := stats[p.ParticipantID]
			if !ok {
				s = &UserStats{ParticipantID: p.ParticipantID}
				stats[p.ParticipantID] = s
			}
			s.TotalBattles++

			if !battle.Decided() {
				continue
			}
			if battle.WinnerTeam == p.Team {
				s.Wins++
			} else {
				s.Losses++
			}
		}
	}
	return stats, nil
}

// ComputeScore combines win rate (70%) with normalized activity volume (30%).
// Volume is capped at 50 battles so grinding past that earns no further
// bonus. A participant with no battles scores zero.
func ComputeScore(wins, totalBattles int) float64 {
	if totalBattles == 0 {
		return 0
	}
	winRate := float64(wins) / float64(totalBattles)
	normalizedVolume := math.Min(float64(totalBattles)/50.0, 1)
	return winRate*0.7 + normalizedVolume*0.3
}

// winRatePercent is the display rounding used for WinRate fields. Ranking
// never uses it.
func winRatePercent(wins, totalBattles int) int {
	if totalBattles == 0 {
		return 0
	}
	return int(math.Round(float64(wins) / float64(totalBattles) * 100))
}

// BuildLeaderboard joins aggregated stats with display profiles and produces
// the ranked list. Participants without a profile row are dropped. Ordering
// is score descending, then total battles descending, then participant id
// ascending so equal inputs always rank identically.
func BuildLeaderboard(stats map[string]*UserStats, profiles map[string]records.Profile) []Entry {
	entries := make([]Entry, 0, len(stats))

	for id, s := range stats {
		profile, ok := profiles[id]
		if !ok {
			continue
		}
		nickname := profile.Nickname
		if nickname == "" {
			nickname = DefaultNickname
		}
		entries = append(entries, Entry{
			ParticipantID: id,
			Nickname:      nickname,
			Avatar:        profile.Avatar,
			TotalBattles:  s.TotalBattles,
			Wins:          s.Wins,
			Losses:        s.Losses,
			WinRate:       winRatePercent(s.Wins, s.TotalBattles),
			Score:         ComputeScore(s.Wins, s.TotalBattles),
		})
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if c := cmp.Compare(b.TotalBattles, a.TotalBattles); c != 0 {
			return c
		}
		return cmp.Compare(a.ParticipantID, b.ParticipantID)
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// TopN returns the first n entries of a ranked list.
func TopN(entries []Entry, n int) []Entry {
	if n > len(entries) {
		n = len(entries)
	}
	return entries[:n]
}

// Remainder returns the entries after the first n.
func Remainder(entries []Entry, n int) []Entry {
	if n > len(entries) {
		return nil
	}
	return entries[n:]
}

// RankFor looks up a participant's position on a ranked list, returning nil
// when the participant has no entry.
func RankFor(entries []Entry, participantID string) *RankSummary {
	if participantID == "" {
		return nil
	}
	for _, e := range entries {
		if e.ParticipantID == participantID {
			return &RankSummary{
				Rank:         e.Rank,
				WinRate:      e.WinRate,
				TotalBattles: e.TotalBattles,
			}
		}
	}
	return nil
}
