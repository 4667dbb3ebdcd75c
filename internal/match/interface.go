package match

import "time"

// MatchStore records, deletes and reads matches. Record and Delete each run
// as a single transaction; everything else is read-only.
type MatchStore interface {
	Record(teamID int64, in RecordInput) (*Match, error)
	GetByID(id int64) (*Match, error)
	ListByTeam(teamID int64, page, pageSize int) ([]*Match, error)
	CountByTeam(teamID int64) (int, error)
	ListByPlayer(playerID int64, limit int) ([]*Match, error)
	CountByPlayer(playerID int64) (int, error)
	CountSince(teamID int64, since time.Time) (int, error)
	AverageCombinedScore(teamID int64) (float64, error)
	CanDelete(matchID int64) (bool, string, error)
	Delete(matchID, teamID int64) error
}
