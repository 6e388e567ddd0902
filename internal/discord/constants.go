package discord

import "time"

const (
	// MemberPageSize is the largest page the guild member endpoint returns.
	MemberPageSize = 1000

	// MaxMessageLength is the Discord limit for one message body.
	MaxMessageLength = 2000

	// HandlerTimeout bounds the work done for one inbound message.
	HandlerTimeout = 30 * time.Second

	ImageContentType = "image/png"
)

// Error Messages
const (
	ErrMsgCreateSession  = "error creating Discord session"
	ErrMsgOpenConnection = "error opening connection"
	ErrMsgFetchMembers   = "failed to fetch guild members"
	ErrMsgSendMessage    = "failed to send message"
	ErrMsgOpenImage      = "failed to open image"
	ErrMsgEmptyReply     = "reply has neither text nor image"
)

// Log Messages
const (
	LogMsgBotReady        = "Discord bot is ready"
	LogMsgBotRunning      = "Discord bot is now running"
	LogMsgBotStopped      = "Discord bot stopped"
	LogMsgReplyFailed     = "Failed to send command reply"
	LogMsgGuildLookup     = "Guild lookup failed, using id as name"
	LogMsgPermissionCheck = "Permission check failed"
	LogMsgMembersFetched  = "Fetched guild members"
	LogMsgImageFallback   = "Image upload failed, sending text instead"
)
