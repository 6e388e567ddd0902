package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Environment string
	Port        int
	LogLevel    string
	LogFormat   string
	LogDir      string
	APIKey      string // API key for the mutating HTTP endpoints

	StorageBackend string
	DataDir        string

	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	DBMaxConns        int
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration

	DiscordToken    string
	CommandPrefixes string
	Timezone        string
	RenderDir       string
	EnableSwagger   bool

	FlushInterval     time.Duration
	GroupCacheTTL     time.Duration
	GroupCacheSize    int
	NicknameCacheTTL  time.Duration
	NicknameCacheSize int
	MemberCacheTTL    time.Duration
	MemberCacheSize   int
	SettingsCacheTTL  time.Duration
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", DefaultEnvironment),
		LogLevel:    getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat:   getEnv("LOG_FORMAT", DefaultLogFormat),
		LogDir:      getEnv("LOG_DIR", DefaultLogDir),
		APIKey:      getEnv("API_KEY", ""),

		StorageBackend: getEnv("STORAGE_BACKEND", StorageBackendFile),
		DataDir:        getEnv("DATA_DIR", DefaultDataDir),

		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBName:            getEnv("DB_NAME", "messagestats"),
		DBMaxConns:        getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),
		DBMaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", DefaultDBMaxConnLifetime),

		DiscordToken:    getEnv("DISCORD_TOKEN", ""),
		CommandPrefixes: getEnv("COMMAND_PREFIXES", DefaultCommandPrefixes),
		Timezone:        getEnv("TIMEZONE", DefaultTimezone),
		RenderDir:       getEnv("RENDER_DIR", os.TempDir()),
		EnableSwagger:   getEnvAsBool("ENABLE_SWAGGER", true),

		FlushInterval:     getEnvAsDuration("STORE_FLUSH_INTERVAL", DefaultFlushInterval),
		GroupCacheTTL:     getEnvAsDuration("GROUP_CACHE_TTL", DefaultGroupCacheTTL),
		GroupCacheSize:    getEnvAsInt("GROUP_CACHE_SIZE", DefaultGroupCacheSize),
		NicknameCacheTTL:  getEnvAsDuration("NICKNAME_CACHE_TTL", DefaultNicknameCacheTTL),
		NicknameCacheSize: getEnvAsInt("NICKNAME_CACHE_SIZE", DefaultNicknameCacheSize),
		MemberCacheTTL:    getEnvAsDuration("MEMBER_CACHE_TTL", DefaultMemberCacheTTL),
		MemberCacheSize:   getEnvAsInt("MEMBER_CACHE_SIZE", DefaultMemberCacheSize),
		SettingsCacheTTL:  getEnvAsDuration("SETTINGS_CACHE_TTL", DefaultSettingsCacheTTL),
	}

	portStr := getEnv("PORT", strconv.Itoa(DefaultPort))
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgInvalidPort, err)
	}
	cfg.Port = port

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("%s: %d", ErrMsgInvalidPort, c.Port))
	}
	switch c.StorageBackend {
	case StorageBackendFile, StorageBackendPostgres:
	default:
		errs = append(errs, fmt.Errorf("%s: %q", ErrMsgInvalidStorageBackend, c.StorageBackend))
	}
	switch c.LogFormat {
	case LogFormatJSON, LogFormatText:
	default:
		errs = append(errs, fmt.Errorf("%s: %q", ErrMsgInvalidLogFormat, c.LogFormat))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if c.CommandPrefixes == "" {
		errs = append(errs, errors.New(ErrMsgMissingPrefixes))
	}
	positive := map[string]int64{
		"STORE_FLUSH_INTERVAL": int64(c.FlushInterval),
		"GROUP_CACHE_SIZE":     int64(c.GroupCacheSize),
		"NICKNAME_CACHE_SIZE":  int64(c.NicknameCacheSize),
		"MEMBER_CACHE_SIZE":    int64(c.MemberCacheSize),
	}
	for key, v := range positive {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s %s", key, ErrMsgNonPositive))
		}
	}
	return errors.Join(errs...)
}

// Location resolves TIMEZONE. Calendar days are counted in this zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", ErrMsgInvalidTimezone, c.Timezone, err)
	}
	return loc, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as int or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as bool or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsDuration retrieves an environment variable as a duration or returns a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
