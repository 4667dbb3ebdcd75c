package stats_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/kickerlog/kickerlog/internal/database"
	"github.com/kickerlog/kickerlog/internal/match"
	"github.com/kickerlog/kickerlog/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB seeds one team with five active players (ids 1..5) rated 1000.
func setupTestDB(t *testing.T) (stats.Aggregator, match.MatchStore, *sql.DB, *clockwork.FakeClock, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	_, err = db.Exec("INSERT INTO teams (id, name, code_name, password_hash, created_at) VALUES (1, 'T', 'kicker', 'x', 0)")
	require.NoError(t, err)
	for i, name := range []string{"Ada", "Bob", "Cleo", "Dan", "Eve"} {
		_, err = db.Exec(
			"INSERT INTO players (id, team_id, name, rating, is_active, created_at) VALUES (?, 1, ?, 1000, 1, 0)",
			i+1, name)
		require.NoError(t, err)
	}

	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 11, 12, 0, 0, 0, time.UTC))
	return stats.New(db, clock), match.New(db, clock), db, clock, dbTeardown
}

func record(t *testing.T, matches match.MatchStore, gk1, atk1, gk2, atk2 int64, s1, s2 int) {
	t.Helper()
	_, err := matches.Record(1, match.RecordInput{
		Team1Goalkeeper: gk1, Team1Attacker: atk1,
		Team2Goalkeeper: gk2, Team2Attacker: atk2,
		Team1Score: s1, Team2Score: s2,
	})
	require.NoError(t, err)
}

// seedAdaHistory records four matches with Ada(1)+Bob(2) in goal/attack
// against Cleo(3)+Dan(4): win 10-0, win 10-5, lose 0-10, win 10-8.
func seedAdaHistory(t *testing.T, matches match.MatchStore, clock *clockwork.FakeClock) {
	record(t, matches, 1, 2, 3, 4, 10, 0)
	clock.Advance(time.Hour)
	record(t, matches, 1, 2, 3, 4, 10, 5)
	clock.Advance(time.Hour)
	record(t, matches, 1, 2, 3, 4, 0, 10)
	clock.Advance(time.Hour)
	record(t, matches, 1, 2, 3, 4, 10, 8)
}

func TestPlayerProfileEmpty(t *testing.T) {
	agg, _, _, _, teardown := setupTestDB(t)
	defer teardown()

	profile, err := agg.PlayerProfile(1)
	require.NoError(t, err)
	assert.Equal(t, 0, profile.TotalMatches)
	assert.Equal(t, 1000, profile.CurrentRating)
	assert.Equal(t, 1000, profile.HighestRating)
	assert.Empty(t, profile.PreferredPosition, "undefined with zero games")
	assert.Nil(t, profile.BestPartner)

	_, err = agg.PlayerProfile(99)
	assert.ErrorIs(t, err, stats.ErrPlayerNotFound)
}

func TestPlayerProfileFold(t *testing.T) {
	agg, matches, _, clock, teardown := setupTestDB(t)
	defer teardown()
	seedAdaHistory(t, matches, clock)

	profile, err := agg.PlayerProfile(1)
	require.NoError(t, err)

	assert.Equal(t, 4, profile.TotalMatches)
	assert.Equal(t, 3, profile.Wins)
	assert.Equal(t, 1, profile.Losses)
	assert.InDelta(t, 75.0, profile.WinRate, 1e-9)

	// W W L W: current streak +1, longest 2.
	assert.Equal(t, 1, profile.CurrentStreak)
	assert.Equal(t, 2, profile.LongestWinStreak)
	assert.Equal(t, 1, profile.ShutoutWins)
	assert.Equal(t, 1, profile.ShutoutLosses)

	// Ada kept goal every time.
	assert.Equal(t, 4, profile.GamesAsGoalkeeper)
	assert.Equal(t, 0, profile.GamesAsAttacker)
	assert.Equal(t, "Goalkeeper", profile.PreferredPosition)
	assert.Equal(t, 30, profile.GoalsForAsGoalkeeper)
	assert.Equal(t, 23, profile.GoalsAgainstAsGoalkeeper)

	require.Len(t, profile.RatingHistory, 4)
	last := profile.RatingHistory[len(profile.RatingHistory)-1]
	assert.Equal(t, profile.CurrentRating, last.Rating)
	assert.GreaterOrEqual(t, profile.HighestRating, profile.CurrentRating)
	assert.LessOrEqual(t, profile.LowestRating, 1000)
}

func TestPlayerProfilePartnersAndOpponents(t *testing.T) {
	agg, matches, _, clock, teardown := setupTestDB(t)
	defer teardown()
	seedAdaHistory(t, matches, clock)

	profile, err := agg.PlayerProfile(1)
	require.NoError(t, err)

	// Bob is Ada's only recurring partner; worst is omitted so it does not
	// duplicate best.
	require.NotNil(t, profile.BestPartner)
	assert.Equal(t, int64(2), profile.BestPartner.PlayerID)
	assert.Equal(t, 4, profile.BestPartner.Games)
	assert.InDelta(t, 75.0, profile.BestPartner.WinRate, 1e-9)
	assert.Nil(t, profile.WorstPartner)

	// Cleo and Dan tie at 75% against Ada; the lower id takes "easiest".
	require.NotNil(t, profile.EasiestOpponent)
	assert.Equal(t, int64(3), profile.EasiestOpponent.PlayerID)
	require.NotNil(t, profile.HardestOpponent)
	assert.Equal(t, int64(4), profile.HardestOpponent.PlayerID)
}

func TestPartnerRequiresThreeSharedMatches(t *testing.T) {
	agg, matches, _, clock, teardown := setupTestDB(t)
	defer teardown()

	// Only two matches together: below the minimum sample.
	record(t, matches, 1, 2, 3, 4, 10, 0)
	clock.Advance(time.Hour)
	record(t, matches, 1, 2, 3, 4, 10, 3)

	profile, err := agg.PlayerProfile(1)
	require.NoError(t, err)
	assert.Nil(t, profile.BestPartner)
	assert.Nil(t, profile.EasiestOpponent)
}

func TestTeamRankings(t *testing.T) {
	agg, matches, db, clock, teardown := setupTestDB(t)
	defer teardown()
	seedAdaHistory(t, matches, clock)

	rankings, err := agg.TeamRankings(1)
	require.NoError(t, err)
	require.Len(t, rankings, 5)

	// Ada and Bob won 3 of 4 and share the top rating; equal ratings order
	// by ascending id.
	assert.Equal(t, int64(1), rankings[0].PlayerID)
	assert.Equal(t, 1, rankings[0].Rank)
	assert.Equal(t, int64(2), rankings[1].PlayerID)
	assert.Equal(t, 4, rankings[0].Matches)
	assert.Equal(t, 3, rankings[0].Wins)
	assert.InDelta(t, 75.0, rankings[0].WinRate, 1e-9)

	// Eve never played: mid-table at 1000 with zero matches.
	assert.Equal(t, int64(5), rankings[2].PlayerID)
	assert.Equal(t, 0, rankings[2].Matches)
	assert.Zero(t, rankings[2].WinRate)

	// Deactivated players drop out of the board.
	_, err = db.Exec("UPDATE players SET is_active = 0 WHERE id = 5")
	require.NoError(t, err)
	rankings, err = agg.TeamRankings(1)
	require.NoError(t, err)
	assert.Len(t, rankings, 4)
}

func TestPairRankings(t *testing.T) {
	agg, matches, _, clock, teardown := setupTestDB(t)
	defer teardown()
	seedAdaHistory(t, matches, clock)

	// One extra pairing below the minimum sample.
	clock.Advance(time.Hour)
	record(t, matches, 5, 4, 2, 3, 10, 7)

	pairs, err := agg.PairRankings(1)
	require.NoError(t, err)
	require.Len(t, pairs, 2, "pairs with fewer than 3 shared matches are excluded")

	// (Ada,Bob) at 75% ahead of (Cleo,Dan) at 25%.
	assert.Equal(t, int64(1), pairs[0].Player1ID)
	assert.Equal(t, int64(2), pairs[0].Player2ID)
	assert.Equal(t, 4, pairs[0].Matches)
	assert.Equal(t, 3, pairs[0].Wins)
	assert.InDelta(t, 75.0, pairs[0].WinRate, 1e-9)
	assert.Equal(t, 30, pairs[0].TotalScore)
	assert.InDelta(t, 7.5, pairs[0].AverageScore, 1e-9)

	assert.Equal(t, int64(3), pairs[1].Player1ID)
	assert.Equal(t, int64(4), pairs[1].Player2ID)
	assert.Equal(t, 1, pairs[1].Wins)
	assert.Equal(t, 3, pairs[1].Losses)
}

func TestTeamBadges(t *testing.T) {
	agg, matches, db, clock, teardown := setupTestDB(t)
	defer teardown()
	seedAdaHistory(t, matches, clock)

	badges, err := agg.TeamBadges(1)
	require.NoError(t, err)

	require.NotNil(t, badges.TopRated)
	assert.Equal(t, int64(1), badges.TopRated.PlayerID, "rating tie resolves to the lower id")
	require.NotNil(t, badges.LastPlace)
	assert.Equal(t, int64(3), badges.LastPlace.PlayerID)

	require.NotNil(t, badges.TableSender)
	assert.Equal(t, int64(1), badges.TableSender.PlayerID)
	assert.Equal(t, 1, badges.TableSender.Value)
	require.NotNil(t, badges.TableDiver)
	assert.Equal(t, int64(1), badges.TableDiver.PlayerID)

	require.NotNil(t, badges.StreakKing)
	assert.Equal(t, 2, badges.StreakKing.Value)
	assert.Nil(t, badges.HotStreak, "active streak of 1 is below the minimum of 3")

	// Nobody has 5 games in a position yet.
	assert.Nil(t, badges.BestGoalkeeper)
	assert.Nil(t, badges.BestAttacker)
	assert.Nil(t, badges.BestWinRate)

	// All four matches landed on the same day.
	require.NotNil(t, badges.TomkoMemorial)
	assert.Equal(t, 4, badges.TomkoMemorial.Value)

	assert.Empty(t, badges.Newcomers, "seeded players are ancient")

	// A freshly created player shows up as newcomer.
	_, err = db.Exec(
		"INSERT INTO players (id, team_id, name, rating, is_active, created_at) VALUES (6, 1, 'Fay', 1000, 1, ?)",
		clock.Now().Add(-24*time.Hour).Unix())
	require.NoError(t, err)
	badges, err = agg.TeamBadges(1)
	require.NoError(t, err)
	require.Len(t, badges.Newcomers, 1)
	assert.Equal(t, "Fay", badges.Newcomers[0].PlayerName)
}

func TestTeamBadgesEmptyTeam(t *testing.T) {
	agg, _, db, _, teardown := setupTestDB(t)
	defer teardown()

	_, err := db.Exec("INSERT INTO teams (id, name, code_name, password_hash, created_at) VALUES (2, 'U', 'empty', 'x', 0)")
	require.NoError(t, err)

	badges, err := agg.TeamBadges(2)
	require.NoError(t, err)
	assert.Nil(t, badges.TopRated)
	assert.Empty(t, badges.Newcomers)
}

func TestPositionAndCarriedBadges(t *testing.T) {
	agg, matches, db, clock, teardown := setupTestDB(t)
	defer teardown()

	// Bob outrates Ada; side one wins every time, so all of Ada's wins come
	// alongside a higher-rated partner.
	_, err := db.Exec("UPDATE players SET rating = 900 WHERE id = 1")
	require.NoError(t, err)
	_, err = db.Exec("UPDATE players SET rating = 1200 WHERE id = 2")
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		record(t, matches, 1, 2, 3, 4, 10, 5)
		clock.Advance(time.Hour)
	}

	badges, err := agg.TeamBadges(1)
	require.NoError(t, err)

	// Ten games each: the position badges unlock.
	require.NotNil(t, badges.BestGoalkeeper)
	assert.Equal(t, int64(1), badges.BestGoalkeeper.PlayerID, "Ada concedes 5 per game, Cleo 10")
	assert.Equal(t, 50, badges.BestGoalkeeper.Value, "tenths of a goal per game")
	require.NotNil(t, badges.BestAttacker)
	assert.Equal(t, int64(2), badges.BestAttacker.PlayerID)
	assert.Equal(t, 100, badges.BestAttacker.Value)

	require.NotNil(t, badges.BestWinRate)
	assert.Equal(t, int64(1), badges.BestWinRate.PlayerID, "tie at 100% goes to the lower id")
	assert.Equal(t, 100, badges.BestWinRate.Value)

	require.NotNil(t, badges.HotStreak)
	assert.Equal(t, 10, badges.HotStreak.Value)

	require.Len(t, badges.Carried, 1)
	assert.Equal(t, int64(1), badges.Carried[0].PlayerID, "only Ada's wins leaned on a stronger partner")
	assert.Equal(t, 100, badges.Carried[0].Value)
}
