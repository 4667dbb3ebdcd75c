package main

import (
	"math/rand"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/kickerlog/kickerlog/internal/database"
	"github.com/kickerlog/kickerlog/internal/match"
	"github.com/kickerlog/kickerlog/internal/player"
	"github.com/kickerlog/kickerlog/internal/team"
)

const demoMatches = 25

// Seeds a local database with a demo team, six players and a batch of
// random match results. Meant for development only.
func main() {
	log.Info("Starting database seeder...")

	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}
	dbName, ok := os.LookupEnv("DB_NAME")
	if !ok {
		log.Fatalf("Error: Required environment variable DB_NAME is not set.")
	}

	db, dbTeardown, err := database.InitDB(dbName, os.Getenv("TURSO_PRIMARY_URL"), os.Getenv("TURSO_AUTH_TOKEN"), "./migrations")
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer dbTeardown()

	clock := clockwork.NewRealClock()
	teams := team.New(db, clock)
	players := player.New(db, clock)
	matches := match.New(db, clock)

	demoTeam, err := teams.Create("Demo Office", "demo-office", "demo-password")
	if err != nil {
		log.Fatalf("Failed to create demo team: %s", err)
	}
	log.Info("Created demo team", "teamID", demoTeam.ID, "codeName", demoTeam.CodeName)

	names := []string{"Ada", "Bob", "Cleo", "Dan", "Eve", "Finn"}
	ids := make([]int64, 0, len(names))
	for i, name := range names {
		created, err := players.Create(demoTeam.ID, name, i+1)
		if err != nil {
			log.Fatalf("Failed to create demo player: %s", err)
		}
		ids = append(ids, created.ID)
	}
	log.Info("Created demo players", "count", len(ids))

	recorded := 0
	for i := 0; i < demoMatches; i++ {
		lineup := rand.Perm(len(ids))[:4]
		winnerScore, loserScore := 10, rand.Intn(10)
		in := match.RecordInput{
			Team1Goalkeeper: ids[lineup[0]],
			Team1Attacker:   ids[lineup[1]],
			Team2Goalkeeper: ids[lineup[2]],
			Team2Attacker:   ids[lineup[3]],
		}
		if rand.Intn(2) == 0 {
			in.Team1Score, in.Team2Score = winnerScore, loserScore
		} else {
			in.Team1Score, in.Team2Score = loserScore, winnerScore
		}
		if _, err := matches.Record(demoTeam.ID, in); err != nil {
			log.Error("Failed to record demo match", "error", err)
			continue
		}
		recorded++
	}

	log.Info("Seeding complete", "matches", recorded)
}
