package settings

import "time"

const (
	DefaultCacheTTL  = time.Minute
	DefaultCacheSize = 10
	cacheKey         = "settings"
)

// Error messages
const (
	ErrMsgLoadFailed    = "failed to load settings"
	ErrMsgSaveFailed    = "failed to save settings"
	ErrMsgInvalidDoc    = "settings document is invalid"
	ErrMsgUnknownToggle = "expected on or off"
)

// Log messages
const (
	LogMsgUsingDefaults = "No saved settings, using defaults"
	LogMsgUpdated       = "Settings updated"
)
