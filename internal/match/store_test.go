package match_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/kickerlog/kickerlog/internal/database"
	"github.com/kickerlog/kickerlog/internal/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory database with one team and four active
// players (ids 1..4) rated 1000.
func setupTestDB(t *testing.T) (match.MatchStore, *sql.DB, *clockwork.FakeClock, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	_, err = db.Exec("INSERT INTO teams (id, name, code_name, password_hash, created_at) VALUES (1, 'T', 'kicker', 'x', 0)")
	require.NoError(t, err)
	for i, name := range []string{"Ada", "Bob", "Cleo", "Dan"} {
		_, err = db.Exec(
			"INSERT INTO players (id, team_id, name, rating, is_active, created_at) VALUES (?, 1, ?, 1000, 1, 0)",
			i+1, name)
		require.NoError(t, err)
	}

	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 11, 12, 0, 0, 0, time.UTC))
	return match.New(db, clock), db, clock, dbTeardown
}

func validInput() match.RecordInput {
	return match.RecordInput{
		Team1Goalkeeper: 1, Team1Attacker: 2,
		Team2Goalkeeper: 3, Team2Attacker: 4,
		Team1Score: 10, Team2Score: 5,
	}
}

func playerRating(t *testing.T, db *sql.DB, id int64) int {
	t.Helper()
	var r int
	require.NoError(t, db.QueryRow("SELECT rating FROM players WHERE id = ?", id).Scan(&r))
	return r
}

func TestRecordValidation(t *testing.T) {
	store, db, _, teardown := setupTestDB(t)
	defer teardown()

	cases := []struct {
		name   string
		mutate func(*match.RecordInput)
		reason string
	}{
		{"equal scores", func(in *match.RecordInput) { in.Team1Score, in.Team2Score = 10, 10 }, "equal"},
		{"score above 10", func(in *match.RecordInput) { in.Team1Score, in.Team2Score = 11, 0 }, "exceed"},
		{"no winner at 10", func(in *match.RecordInput) { in.Team1Score, in.Team2Score = 0, 5 }, "score 10"},
		{"negative score", func(in *match.RecordInput) { in.Team1Score, in.Team2Score = -1, 10 }, "negative"},
		{"duplicate player", func(in *match.RecordInput) { in.Team2Attacker = in.Team1Goalkeeper }, "different"},
		{"unknown player", func(in *match.RecordInput) { in.Team2Attacker = 99 }, "not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)

			_, err := store.Record(1, in)
			var verr *match.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Reason, tc.reason)
		})
	}

	// No partial state after any rejection.
	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM matches").Scan(&count))
	assert.Equal(t, 0, count)
	assert.Equal(t, 1000, playerRating(t, db, 1))
}

func TestRecordRejectsInactiveAndForeignPlayers(t *testing.T) {
	store, db, _, teardown := setupTestDB(t)
	defer teardown()

	_, err := db.Exec("UPDATE players SET is_active = 0 WHERE id = 4")
	require.NoError(t, err)
	_, err = store.Record(1, validInput())
	var verr *match.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "not active")

	_, err = db.Exec("UPDATE players SET is_active = 1 WHERE id = 4")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO teams (id, name, code_name, password_hash, created_at) VALUES (2, 'U', 'other', 'x', 0)")
	require.NoError(t, err)
	_, err = db.Exec("UPDATE players SET team_id = 2 WHERE id = 4")
	require.NoError(t, err)

	_, err = store.Record(1, validInput())
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "belong")
}

func TestRecordEvenMatch(t *testing.T) {
	store, db, _, teardown := setupTestDB(t)
	defer teardown()

	m, err := store.Record(1, validInput())
	require.NoError(t, err)
	require.Len(t, m.Players, 4)

	// All four start at 1000: expected 0.5, delta 16 toward the winner.
	deltaSum := 0
	for _, p := range m.Players {
		assert.Equal(t, 1000, p.RatingBefore)
		switch p.Side {
		case match.SideOne:
			assert.Equal(t, 16, p.RatingDelta)
			assert.Equal(t, 1016, p.RatingAfter)
		case match.SideTwo:
			assert.Equal(t, -16, p.RatingDelta)
			assert.Equal(t, 984, p.RatingAfter)
		}
		deltaSum += p.RatingDelta
	}
	assert.Equal(t, 0, deltaSum, "deltas are zero-sum")

	// Stored ratings match the participation snapshots.
	assert.Equal(t, 1016, playerRating(t, db, 1))
	assert.Equal(t, 1016, playerRating(t, db, 2))
	assert.Equal(t, 984, playerRating(t, db, 3))
	assert.Equal(t, 984, playerRating(t, db, 4))
}

func TestRecordSnapshotsCurrentRatings(t *testing.T) {
	store, db, _, teardown := setupTestDB(t)
	defer teardown()

	_, err := store.Record(1, validInput())
	require.NoError(t, err)

	// Second match: before snapshots must equal the post-first ratings.
	m, err := store.Record(1, validInput())
	require.NoError(t, err)
	for _, p := range m.Players {
		assert.Equal(t, playerRating(t, db, p.PlayerID), p.RatingAfter)
		switch p.Side {
		case match.SideOne:
			assert.Equal(t, 1016, p.RatingBefore)
		case match.SideTwo:
			assert.Equal(t, 984, p.RatingBefore)
		}
	}
}

func TestRecordRespectsRatingFloor(t *testing.T) {
	store, db, _, teardown := setupTestDB(t)
	defer teardown()

	_, err := db.Exec("UPDATE players SET rating = 105 WHERE id IN (3, 4)")
	require.NoError(t, err)

	m, err := store.Record(1, validInput())
	require.NoError(t, err)

	for _, p := range m.Players {
		if p.Side == match.SideTwo {
			assert.Equal(t, 100, p.RatingAfter, "losers clamp at the floor")
			assert.Less(t, p.RatingDelta, 0)
		}
	}
	assert.Equal(t, 100, playerRating(t, db, 3))
}

func TestCanDeleteWindow(t *testing.T) {
	store, _, clock, teardown := setupTestDB(t)
	defer teardown()

	m, err := store.Record(1, validInput())
	require.NoError(t, err)

	allowed, _, err := store.CanDelete(m.ID)
	require.NoError(t, err)
	assert.True(t, allowed)

	clock.Advance(25 * time.Hour)
	allowed, reason, err := store.CanDelete(m.ID)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Contains(t, reason, "24 hours")
}

func TestCanDeleteBlockedByLaterMatch(t *testing.T) {
	store, _, _, teardown := setupTestDB(t)
	defer teardown()

	first, err := store.Record(1, validInput())
	require.NoError(t, err)
	_, err = store.Record(1, validInput())
	require.NoError(t, err)

	allowed, reason, err := store.CanDelete(first.ID)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Contains(t, reason, "has played matches after this one")
}

func TestCanDeleteMissingMatch(t *testing.T) {
	store, _, _, teardown := setupTestDB(t)
	defer teardown()

	allowed, reason, err := store.CanDelete(42)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, "match not found", reason)
}

func TestDeleteRestoresRatings(t *testing.T) {
	store, db, _, teardown := setupTestDB(t)
	defer teardown()

	m, err := store.Record(1, validInput())
	require.NoError(t, err)
	require.NoError(t, store.Delete(m.ID, 1))

	for id := int64(1); id <= 4; id++ {
		assert.Equal(t, 1000, playerRating(t, db, id), "rating reverts to the recorded before value")
	}

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM match_players").Scan(&count))
	assert.Equal(t, 0, count, "participations cascade with the match")

	_, err = store.GetByID(m.ID)
	assert.ErrorIs(t, err, match.ErrNotFound)
}

func TestDeleteWrongTeamLooksLikeNotFound(t *testing.T) {
	store, _, _, teardown := setupTestDB(t)
	defer teardown()

	m, err := store.Record(1, validInput())
	require.NoError(t, err)

	assert.ErrorIs(t, store.Delete(m.ID, 2), match.ErrNotFound)

	// The match survives a denied deletion.
	got, err := store.GetByID(m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)
}

func TestDeleteBlockedReturnsPolicyError(t *testing.T) {
	store, _, clock, teardown := setupTestDB(t)
	defer teardown()

	m, err := store.Record(1, validInput())
	require.NoError(t, err)
	clock.Advance(25 * time.Hour)

	err = store.Delete(m.ID, 1)
	var perr *match.PolicyError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Reason, "24 hours")
}

func TestListByTeamPagination(t *testing.T) {
	store, _, clock, teardown := setupTestDB(t)
	defer teardown()

	for i := 0; i < 5; i++ {
		_, err := store.Record(1, validInput())
		require.NoError(t, err)
		clock.Advance(time.Minute)
	}

	page1, err := store.ListByTeam(1, 1, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Greater(t, page1[0].ID, page1[1].ID, "most recent first")
	require.Len(t, page1[0].Players, 4)

	page3, err := store.ListByTeam(1, 3, 2)
	require.NoError(t, err)
	assert.Len(t, page3, 1)

	count, err := store.CountByTeam(1)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestPlayerAndPeriodReads(t *testing.T) {
	store, _, clock, teardown := setupTestDB(t)
	defer teardown()

	start := clock.Now()
	_, err := store.Record(1, validInput())
	require.NoError(t, err)
	clock.Advance(48 * time.Hour)
	_, err = store.Record(1, validInput())
	require.NoError(t, err)

	byPlayer, err := store.ListByPlayer(1, 10)
	require.NoError(t, err)
	assert.Len(t, byPlayer, 2)

	count, err := store.CountByPlayer(1)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	recent, err := store.CountSince(1, start.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, recent)

	avg, err := store.AverageCombinedScore(1)
	require.NoError(t, err)
	assert.InDelta(t, 15.0, avg, 1e-9)
}
