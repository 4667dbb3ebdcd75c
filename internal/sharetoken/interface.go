package sharetoken

// TokenStore manages short-lived share links for team statistics.
type TokenStore interface {
	// Issue creates a fresh token for the team, valid for 24 hours.
	Issue(teamID int64) (*ShareToken, error)
	// Validate resolves a token to its team id. Expired or unknown tokens
	// return ErrInvalidToken.
	Validate(token string) (int64, error)
	// CleanupExpired removes tokens past their expiry and reports how many
	// were deleted.
	CleanupExpired() (int64, error)
}
