package player

// PlayerStore defines the interface for interacting with player data.
type PlayerStore interface {
	Create(teamID int64, name string, avatarID int) (*Player, error)
	GetByID(id int64) (*Player, error)
	ListByTeam(teamID int64, includeInactive bool) ([]Player, error)
	Update(playerID, teamID int64, name string, avatarID int) error
	CanDeactivate(playerID int64) (bool, error)
	Deactivate(playerID, teamID int64) error
	Reactivate(playerID, teamID int64) error
	IsNameTaken(teamID int64, name string, excludePlayerID int64) (bool, error)
	ActiveCount(teamID int64) (int, error)
}
