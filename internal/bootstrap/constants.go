package bootstrap

import "time"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0o755

	// LogFilePermission is the permission for log files
	LogFilePermission = 0o644
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileTimestampFormat is the timestamp format for log filenames (YYYY-MM-DD_HH-MM-SS)
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	// LogFileNamePattern is the format string for log filenames
	LogFileNamePattern = "session_%s.log"

	LogFileExtension = ".log"

	// LogFileRetentionCount is the number of older log files kept next to
	// the new session file.
	LogFileRetentionCount = 9
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStarting            = "Starting MessageStats"
	LogMsgConfigurationLoaded = "Configuration loaded"
	ErrMsgFailedCreateLogsDir = "failed to create logs directory"
	ErrMsgFailedOpenLogFile   = "failed to open log file"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file"
)

// =============================================================================
// Storage
// =============================================================================

const (
	// StoragePingTimeout bounds the startup connectivity check.
	StoragePingTimeout = 5 * time.Second

	HealthCheckStorage = "storage"
	HealthCheckDiscord = "discord"
)

const (
	LogMsgStorageFile     = "Using file storage"
	LogMsgStoragePostgres = "Using postgres storage"

	ErrMsgUnknownBackend    = "unknown storage backend"
	ErrMsgOpenFileStore     = "failed to open file store"
	ErrMsgConnectPostgres   = "failed to connect to postgres"
	ErrMsgMigratePostgres   = "failed to migrate postgres"
	ErrMsgDiscordNotReady   = "discord session is not ready"
	ErrMsgStorageDirMissing = "data directory is not accessible"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgShuttingDownServer   = "Shutting down server..."
	LogMsgServerStopped        = "Server stopped"
	LogMsgServerForcedShutdown = "Server forced to shutdown"
	LogMsgPushWorkerFailed     = "Push worker shutdown failed"
	LogMsgFinalFlushFailed     = "Final store flush failed, unsaved messages are lost"
	LogMsgFinalFlushDone       = "Store flushed"
	LogMsgBotCloseFailed       = "Discord session close failed"
)
