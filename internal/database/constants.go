package database

// DefaultMinConnections keeps one connection warm for the periodic flush.
const DefaultMinConnections = 1

// Error Messages - Database Operations
const (
	ErrMsgFailedToParseConnString = "failed to parse connection string"
	ErrMsgFailedToCreatePool      = "failed to create connection pool"
	ErrMsgFailedToPingDatabase    = "failed to ping database"
	ErrMsgFailedToCreateMigrator  = "failed to create migration provider"
	ErrMsgFailedToMigrate         = "failed to apply migrations"
)

// Log Messages
const (
	LogMsgConnected         = "Connected to postgres"
	LogMsgMigrationsApplied = "Database migrations applied"
)
