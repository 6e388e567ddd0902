package config

import "time"

// Storage backends
const (
	StorageBackendFile     = "file"
	StorageBackendPostgres = "postgres"
)

// Log formats
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Defaults
const (
	DefaultPort              = 8080
	DefaultLogLevel          = "INFO"
	DefaultLogFormat         = LogFormatJSON
	DefaultLogDir            = "logs"
	DefaultEnvironment       = "dev"
	DefaultDataDir           = "data"
	DefaultCommandPrefixes   = "%/"
	DefaultTimezone          = "Local"
	DefaultDBMaxConns        = 20
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = 30 * time.Minute
	DefaultFlushInterval     = 5 * time.Second
	DefaultGroupCacheTTL     = 5 * time.Minute
	DefaultGroupCacheSize    = 1000
	DefaultNicknameCacheTTL  = 5 * time.Minute
	DefaultNicknameCacheSize = 500
	DefaultMemberCacheTTL    = 5 * time.Minute
	DefaultMemberCacheSize   = 100
	DefaultSettingsCacheTTL  = time.Minute
)

// Example values that must not reach production
const (
	ExampleDBPassword = "change_this_secure_password"
	ExampleAPIKey     = "generate_with_openssl_rand_hex_32"
)

// Error messages
const (
	ErrMsgInvalidPort           = "invalid PORT value"
	ErrMsgInvalidStorageBackend = "STORAGE_BACKEND must be one of file, postgres"
	ErrMsgInvalidLogFormat      = "LOG_FORMAT must be one of json, text"
	ErrMsgInvalidTimezone       = "invalid TIMEZONE"
	ErrMsgMissingPrefixes       = "COMMAND_PREFIXES must not be empty"
	ErrMsgNonPositive           = "must be positive"
	ErrMsgMissingEnv            = "missing required environment variables"
)
