package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Group errors
	ErrMsgGroupNotFound  = "group not found"
	ErrMsgInvalidGroupID = "invalid group id"

	// User errors
	ErrMsgInvalidUserID   = "invalid user id"
	ErrMsgInvalidNickname = "invalid nickname"

	// Rank errors
	ErrMsgInvalidRankType   = "invalid rank type"
	ErrMsgInvalidRankLimit  = "rank limit out of range"
	ErrMsgRolesNeedPlatform = "role filter requires an explicit platform"

	// Timer errors
	ErrMsgInvalidPushTime = "invalid push time"
	ErrMsgNoPushTargets   = "no push target groups configured"

	// Member lookup errors
	ErrMsgMemberFetchFailed = "member list fetch failed"

	// Storage errors
	ErrMsgStorage          = "storage unavailable"
	ErrMsgSettingsNotFound = "settings not found"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrGroupNotFound  = errors.New(ErrMsgGroupNotFound)
	ErrInvalidGroupID = errors.New(ErrMsgInvalidGroupID)

	ErrInvalidUserID   = errors.New(ErrMsgInvalidUserID)
	ErrInvalidNickname = errors.New(ErrMsgInvalidNickname)

	ErrInvalidRankType   = errors.New(ErrMsgInvalidRankType)
	ErrInvalidRankLimit  = errors.New(ErrMsgInvalidRankLimit)
	ErrRolesNeedPlatform = errors.New(ErrMsgRolesNeedPlatform)

	ErrInvalidPushTime = errors.New(ErrMsgInvalidPushTime)
	ErrNoPushTargets   = errors.New(ErrMsgNoPushTargets)

	ErrMemberFetchFailed = errors.New(ErrMsgMemberFetchFailed)

	// ErrStorage marks failures of the durable backend. Callers surface it as
	// a retry-later message rather than the underlying cause.
	ErrStorage          = errors.New(ErrMsgStorage)
	ErrSettingsNotFound = errors.New(ErrMsgSettingsNotFound)

	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
