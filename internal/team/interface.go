package team

// TeamStore defines the interface for interacting with team data.
type TeamStore interface {
	Create(name, codeName, password string) (*Team, error)
	GetByID(id int64) (*Team, error)
	GetByCodeName(codeName string) (*Team, error)
	ValidatePassword(codeName, password string) (bool, error)
	IsCodeNameTaken(codeName string) (bool, error)
	ListCodeNames() ([]string, error)
	Delete(id int64) error
}
