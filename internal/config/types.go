package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Turso         TursoConfig
	Slack         SlackConfig
}

// TursoConfig points at an optional remote libsql database. When PrimaryURL
// is empty the application runs against a local SQLite file.
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// SlackConfig controls the optional result-announcement notifier.
type SlackConfig struct {
	Enabled   bool
	Token     string
	ChannelID string
}
