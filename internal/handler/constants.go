package handler

import "time"

const (
	// ReadinessTimeout bounds each readiness probe.
	ReadinessTimeout = 2 * time.Second

	// URLParamGroupID is the chi route parameter naming a group.
	URLParamGroupID = "groupID"

	QueryParamType  = "type"
	QueryParamRoles = "roles"
	QueryParamLimit = "limit"

	StatusOK          = "ok"
	StatusUnavailable = "unavailable"
)

// User-facing error messages
const (
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgInvalidGroupID     = "Invalid group id"
	ErrMsgInvalidRankType    = "Invalid rank type"
	ErrMsgInvalidLimit       = "Limit must be between %d and %d"
	ErrMsgInvalidRoles       = "Roles must be a comma separated list of numeric ids"
	ErrMsgGroupNotFound      = "No data for this group yet"
	ErrMsgGroupExcluded      = "This group is excluded from statistics"
	ErrMsgRefreshFailed      = "Member list could not be fetched"
	ErrMsgRefreshUnavailable = "Nickname refresh is not configured"
	ErrMsgDependencyDown     = "%s check failed"
)

// Success messages
const (
	MsgGroupCleared   = "Group data cleared"
	MsgNothingToClear = "Group had no data"
)

// Log messages
const (
	LogMsgEncodeFailed     = "Failed to encode JSON response"
	LogMsgWriteFailed      = "Failed to write response buffer"
	LogMsgReadinessFailed  = "Readiness check failed"
	LogMsgListGroupsFailed = "Failed to list groups"
	LogMsgRankFailed       = "Failed to build rank"
	LogMsgClearFailed      = "Failed to clear group"
	LogMsgRefreshFailed    = "Failed to refresh nicknames"
	LogMsgGroupCleared     = "Group cleared via API"
)
