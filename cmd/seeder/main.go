package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/playpal-app/playpal-ranking/internal/records"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"SUPABASE_URL", "SUPABASE_ANON_KEY"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	return config
}

var sports = []string{"匹克球", "网球", "羽毛球"}

func main() {
	log.Info("Starting record seeder...")
	cfg := loadConfig()

	store := records.NewClient(cfg["SUPABASE_URL"], cfg["SUPABASE_ANON_KEY"])
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// Test participants the leaderboard can rank.
	profiles := []records.Profile{
		{ID: "test-user-1", Email: "test1@playpal.com", Nickname: "测试用户1"},
		{ID: "test-user-2", Email: "test2@playpal.com", Nickname: "测试用户2"},
		{ID: "test-user-3", Email: "test3@playpal.com", Nickname: "测试用户3"},
		{ID: "test-user-4", Email: "test4@playpal.com", Nickname: "测试用户4"},
	}
	if err := store.InsertProfiles(ctx, profiles); err != nil {
		log.Fatalf("Failed to insert profiles: %s", err)
	}
	log.Info("Ensured test profiles exist.", "count", len(profiles))

	const numMatches = 20
	const battlesPerMatch = 3

	log.Info("Preparing to insert battles...", "matches", numMatches, "battles_per_match", battlesPerMatch)
	startTime := time.Now()

	var battles []records.Battle
	var participations []records.ParticipationRow

	for i := 0; i < numMatches; i++ {
		matchID := uuid.NewString()
		sport := sports[rand.Intn(len(sports))]
		matchTime := time.Now().Add(-time.Duration(rand.Intn(90*24)) * time.Hour)

		// Shuffle participants so wins spread across the four users.
		order := rand.Perm(len(profiles))

		for j := 0; j < battlesPerMatch; j++ {
			battleID := uuid.NewString()
			winner := ""
			// Roughly one battle in six stays unscored.
			if rand.Intn(6) != 0 {
				winner = []string{records.TeamA, records.TeamB}[rand.Intn(2)]
			}

			battles = append(battles, records.Battle{
				ID:         battleID,
				MatchID:    matchID,
				Sport:      sport,
				WinnerTeam: winner,
				CreatedAt:  matchTime.Add(time.Duration(j) * 30 * time.Minute),
			})
			participations = append(participations,
				records.ParticipationRow{BattleID: battleID, ParticipantID: profiles[order[0]].ID, Team: records.TeamA},
				records.ParticipationRow{BattleID: battleID, ParticipantID: profiles[order[1]].ID, Team: records.TeamA},
				records.ParticipationRow{BattleID: battleID, ParticipantID: profiles[order[2]].ID, Team: records.TeamB},
				records.ParticipationRow{BattleID: battleID, ParticipantID: profiles[order[3]].ID, Team: records.TeamB},
			)
		}
	}

	if err := store.InsertBattles(ctx, battles); err != nil {
		log.Fatalf("Failed to insert battles: %s", err)
	}
	if err := store.InsertParticipations(ctx, participations); err != nil {
		log.Fatalf("Failed to insert participations: %s", err)
	}

	fmt.Printf("Seeded %d battles across %d matches in %s\n", len(battles), numMatches, time.Since(startTime))
	log.Info("Seeding complete.", "battles", len(battles), "participations", len(participations))
}
