package ranking

import (
	"fmt"
	"testing"

	"github.com/playpal-app/playpal-ranking/internal/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func battle(id, winner string, participants ...records.Participation) records.Battle {
	return records.Battle{
		ID:           id,
		MatchID:      "match-" + id,
		Sport:        "pickleball",
		WinnerTeam:   winner,
		Participants: participants,
	}
}

func onA(id string) records.Participation { return records.Participation{ParticipantID: id, Team: "A"} }
func onB(id string) records.Participation { return records.Participation{ParticipantID: id, Team: "B"} }

func TestComputeUserStats_DecidedBattle(t *testing.T) {
	// One battle, winner A: P1 wins, P2 loses, both played once.
	stats, err := ComputeUserStats([]records.Battle{
		battle("b1", "A", onA("p1"), onB("p2")),
	})
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, &UserStats{ParticipantID: "p1", TotalBattles: 1, Wins: 1, Losses: 0}, stats["p1"])
	assert.Equal(t, &UserStats{ParticipantID: "p2", TotalBattles: 1, Wins: 0, Losses: 1}, stats["p2"])
}

func TestComputeUserStats_UnscoredBattle(t *testing.T) {
	// A battle without a recorded winner counts toward participation but
	// moves neither the win nor the loss counter.
	stats, err := ComputeUserStats([]records.Battle{
		battle("b1", "", onA("p1"), onB("p2")),
	})
	require.NoError(t, err)

	for _, id := range []string{"p1", "p2"} {
		assert.Equal(t, 1, stats[id].TotalBattles, id)
		assert.Equal(t, 0, stats[id].Wins, id)
		assert.Equal(t, 0, stats[id].Losses, id)
	}
}

func TestComputeUserStats_SkipsEmptyParticipantID(t *testing.T) {
	stats, err := ComputeUserStats([]records.Battle{
		battle("b1", "A", onA("p1"), records.Participation{ParticipantID: "", Team: "B"}),
	})
	require.NoError(t, err)
	assert.Len(t, stats, 1)
}

func TestComputeUserStats_BothSidesRejected(t *testing.T) {
	_, err := ComputeUserStats([]records.Battle{
		battle("b1", "A", onA("p1"), onB("p1")),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidParticipation)
}

func TestComputeUserStats_SameSideTwiceAllowed(t *testing.T) {
	// A duplicated row on the same side is sloppy data, not a contradiction.
	stats, err := ComputeUserStats([]records.Battle{
		battle("b1", "A", onA("p1"), onA("p1"), onB("p2")),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, stats["p1"].TotalBattles)
	assert.Equal(t, 2, stats["p1"].Wins)
}

func TestComputeUserStats_ParticipationTotals(t *testing.T) {
	// Total battles across all participants always equals the total number
	// of participation rows, decided or not.
	battles := []records.Battle{
		battle("b1", "A", onA("p1"), onA("p2"), onB("p3"), onB("p4")),
		battle("b2", "B", onA("p1"), onB("p3")),
		battle("b3", "", onA("p2"), onB("p4")),
	}
	stats, err := ComputeUserStats(battles)
	require.NoError(t, err)

	wantRows := 0
	for _, b := range battles {
		wantRows += len(b.Participants)
	}
	gotRows := 0
	for _, s := range stats {
		gotRows += s.TotalBattles
	}
	assert.Equal(t, wantRows, gotRows)

	// Every participation in a decided battle yields exactly one of win or
	// loss, never both, never neither.
	for id, s := range stats {
		decided := 0
		for _, b := range battles {
			if !b.Decided() {
				continue
			}
			for _, p := range b.Participants {
				if p.ParticipantID == id {
					decided++
				}
			}
		}
		assert.Equal(t, decided, s.Wins+s.Losses, id)
	}
}

func TestComputeUserStats_OrderIndependent(t *testing.T) {
	battles := []records.Battle{
		battle("b1", "A", onA("p1"), onB("p2")),
		battle("b2", "B", onA("p1"), onB("p2")),
		battle("b3", "", onA("p2"), onB("p1")),
	}
	reversed := []records.Battle{battles[2], battles[1], battles[0]}

	forward, err := ComputeUserStats(battles)
	require.NoError(t, err)
	backward, err := ComputeUserStats(reversed)
	require.NoError(t, err)
	assert.Equal(t, forward, backward)
}

func TestComputeScore(t *testing.T) {
	tests := []struct {
		name         string
		wins         int
		totalBattles int
		want         float64
	}{
		{"no battles", 0, 0, 0},
		{"one win of one", 1, 1, 0.7*1 + 0.3*(1.0/50)},
		{"perfect fifty", 50, 50, 1.0},
		{"volume capped at fifty", 100, 100, 1.0},
		{"half rate at volume cap", 25, 50, 0.35 + 0.3},
		{"all losses", 0, 10, 0.3 * (10.0 / 50)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ComputeScore(tt.wins, tt.totalBattles), 1e-9)
		})
	}
}

func TestComputeScore_Bounds(t *testing.T) {
	for total := 0; total <= 120; total += 7 {
		for wins := 0; wins <= total; wins++ {
			score := ComputeScore(wins, total)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		}
	}
}

func TestComputeScore_MonotonicInWins(t *testing.T) {
	for total := 1; total <= 80; total += 11 {
		prev := -1.0
		for wins := 0; wins <= total; wins++ {
			score := ComputeScore(wins, total)
			assert.GreaterOrEqual(t, score, prev, "total=%d wins=%d", total, wins)
			prev = score
		}
	}
}

func profileMap(ids ...string) map[string]records.Profile {
	profiles := make(map[string]records.Profile, len(ids))
	for _, id := range ids {
		profiles[id] = records.Profile{ID: id, Nickname: "nick-" + id, Avatar: id + ".png"}
	}
	return profiles
}

func TestBuildLeaderboard_RanksAndSorts(t *testing.T) {
	stats := map[string]*UserStats{
		"p1": {ParticipantID: "p1", TotalBattles: 10, Wins: 9, Losses: 1},
		"p2": {ParticipantID: "p2", TotalBattles: 10, Wins: 5, Losses: 5},
		"p3": {ParticipantID: "p3", TotalBattles: 40, Wins: 36, Losses: 4},
	}

	entries := BuildLeaderboard(stats, profileMap("p1", "p2", "p3"))
	require.Len(t, entries, 3)

	// Dense 1-based ranks in score order.
	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, entries[i-1].Score, e.Score)
		}
	}
	assert.Equal(t, "p3", entries[0].ParticipantID, "higher volume at equal win rate outranks")
	assert.Equal(t, "p1", entries[1].ParticipantID)
	assert.Equal(t, "p2", entries[2].ParticipantID)
	assert.Equal(t, 90, entries[1].WinRate)
}

func TestBuildLeaderboard_TieBreaks(t *testing.T) {
	// Identical score and volume fall back to participant id so runs are
	// reproducible.
	stats := map[string]*UserStats{
		"p-b": {ParticipantID: "p-b", TotalBattles: 1, Wins: 0, Losses: 0},
		"p-a": {ParticipantID: "p-a", TotalBattles: 1, Wins: 0, Losses: 0},
	}
	entries := BuildLeaderboard(stats, profileMap("p-a", "p-b"))
	require.Len(t, entries, 2)
	assert.Equal(t, "p-a", entries[0].ParticipantID)
	assert.Equal(t, "p-b", entries[1].ParticipantID)

}

func TestBuildLeaderboard_PairwiseOrdering(t *testing.T) {
	stats := map[string]*UserStats{
		"p1": {ParticipantID: "p1", TotalBattles: 3, Wins: 2, Losses: 1},
		"p2": {ParticipantID: "p2", TotalBattles: 30, Wins: 20, Losses: 10},
		"p3": {ParticipantID: "p3", TotalBattles: 8, Wins: 0, Losses: 8},
		"p4": {ParticipantID: "p4", TotalBattles: 60, Wins: 60, Losses: 0},
		"p5": {ParticipantID: "p5", TotalBattles: 2, Wins: 0, Losses: 0},
	}
	entries := BuildLeaderboard(stats, profileMap("p1", "p2", "p3", "p4", "p5"))
	require.Len(t, entries, 5)

	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			higher, lower := entries[i], entries[j]
			ok := higher.Score > lower.Score ||
				(higher.Score == lower.Score && higher.TotalBattles >= lower.TotalBattles)
			assert.True(t, ok, "%s must outrank %s", higher.ParticipantID, lower.ParticipantID)
		}
	}
}

func TestBuildLeaderboard_DropsMissingProfiles(t *testing.T) {
	stats := map[string]*UserStats{
		"p1":    {ParticipantID: "p1", TotalBattles: 2, Wins: 1, Losses: 1},
		"ghost": {ParticipantID: "ghost", TotalBattles: 5, Wins: 5},
	}
	entries := BuildLeaderboard(stats, profileMap("p1"))
	require.Len(t, entries, 1)
	assert.Equal(t, "p1", entries[0].ParticipantID)
}

func TestBuildLeaderboard_DefaultNickname(t *testing.T) {
	stats := map[string]*UserStats{
		"p1": {ParticipantID: "p1", TotalBattles: 1, Wins: 1},
	}
	profiles := map[string]records.Profile{
		"p1": {ID: "p1", Nickname: "", Avatar: ""},
	}
	entries := BuildLeaderboard(stats, profiles)
	require.Len(t, entries, 1)
	assert.Equal(t, DefaultNickname, entries[0].Nickname)
	assert.Equal(t, "", entries[0].Avatar)
}

func TestBuildLeaderboard_Empty(t *testing.T) {
	entries := BuildLeaderboard(map[string]*UserStats{}, nil)
	assert.Empty(t, entries)
}

func TestScenario_SingleDecidedBattle(t *testing.T) {
	// One pickleball battle, winner A, P1 on A vs P2 on B.
	stats, err := ComputeUserStats([]records.Battle{
		battle("b1", "A", onA("p1"), onB("p2")),
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.706, ComputeScore(stats["p1"].Wins, stats["p1"].TotalBattles), 1e-9)

	entries := BuildLeaderboard(stats, profileMap("p1", "p2"))
	require.Len(t, entries, 2)
	assert.Equal(t, "p1", entries[0].ParticipantID)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "p2", entries[1].ParticipantID)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestScenario_FiftyStraightWins(t *testing.T) {
	var battles []records.Battle
	for i := 0; i < 50; i++ {
		battles = append(battles, battle(
			fmt.Sprintf("b%d", i), "A",
			onA("p3"), onB(fmt.Sprintf("opp%d", i)),
		))
	}
	stats, err := ComputeUserStats(battles)
	require.NoError(t, err)
	assert.Equal(t, 50, stats["p3"].Wins)
	assert.InDelta(t, 1.0, ComputeScore(stats["p3"].Wins, stats["p3"].TotalBattles), 1e-9)
}

func TestTopNAndRemainder(t *testing.T) {
	entries := []Entry{
		{Rank: 1, ParticipantID: "p1"},
		{Rank: 2, ParticipantID: "p2"},
		{Rank: 3, ParticipantID: "p3"},
		{Rank: 4, ParticipantID: "p4"},
	}

	assert.Len(t, TopN(entries, 3), 3)
	assert.Equal(t, "p4", Remainder(entries, 3)[0].ParticipantID)

	// Short lists do not panic.
	assert.Len(t, TopN(entries[:2], 3), 2)
	assert.Empty(t, Remainder(entries[:2], 3))
}

func TestRankFor(t *testing.T) {
	entries := []Entry{
		{Rank: 1, ParticipantID: "p1", WinRate: 80, TotalBattles: 10},
		{Rank: 2, ParticipantID: "p2", WinRate: 50, TotalBattles: 4},
	}

	got := RankFor(entries, "p2")
	require.NotNil(t, got)
	assert.Equal(t, &RankSummary{Rank: 2, WinRate: 50, TotalBattles: 4}, got)

	assert.Nil(t, RankFor(entries, "stranger"))
	assert.Nil(t, RankFor(entries, ""))
}
