package server

import "time"

const (
	// MaxRequestBodyBytes caps inbound request bodies.
	MaxRequestBodyBytes = 1 << 20

	ReadHeaderTimeout = 5 * time.Second

	// FailedAuthAlertThreshold failed key checks from one address within
	// RateWindow raise a warning.
	FailedAuthAlertThreshold = 5

	// MaxRequestsPerWindow is the per-address request budget within RateWindow.
	MaxRequestsPerWindow = 1000

	RateWindow = 5 * time.Minute
)

// HTTP error messages for middleware responses
const (
	ErrMsgUnauthorized    = "Missing or invalid API key"
	ErrMsgAuthDisabled    = "API key not configured on this server"
	ErrMsgTooManyRequests = "Too many requests, slow down"
)

// Rejection reasons, used as the metrics label.
const (
	RejectUnauthorized = "unauthorized"
	RejectAuthDisabled = "auth_disabled"
	RejectRateLimited  = "rate_limited"
)

// Security alert message templates
const (
	SecurityAlertFailedAuth = "SECURITY ALERT: Multiple failed authentication attempts"
	SecurityAlertHighRate   = "SECURITY ALERT: Blocking high request rate"
)

// Log messages for server lifecycle and request handling
const (
	LogMsgServerStarting   = "Server starting"
	LogMsgRequestStarted   = "Request started"
	LogMsgRequestCompleted = "Request completed"
	LogMsgAuthFailed       = "Authentication failed"
	LogMsgAuthDisabled     = "API key not configured, mutating endpoints are disabled"
)

// HTTP header names
const (
	HeaderAPIKey         = "X-API-Key"
	HeaderForwardedFor   = "X-Forwarded-For"
	HeaderContentType    = "X-Content-Type-Options"
	HeaderFrameOptions   = "X-Frame-Options"
	HeaderReferrerPolicy = "Referrer-Policy"
)

// Security header values
const (
	HeaderValueNoSniff              = "nosniff"
	HeaderValueDeny                 = "DENY"
	HeaderValueReferrerStrictOrigin = "strict-origin-when-cross-origin"
)

// QuietPaths are not logged per request.
var QuietPaths = []string{
	"/healthz",
	"/readyz",
	"/metrics",
}
