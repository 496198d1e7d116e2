package config

const (
	// DefaultDatabasePath is the default path for the sqlite database
	DefaultDatabasePath = "./storyshelf.db"

	// DefaultTranslationModel is the chat model used for story translation
	DefaultTranslationModel = "gpt-4o-mini"
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)
