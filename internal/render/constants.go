package render

// User-facing text
const (
	TotalLinePrefix   = "Total messages: "
	Separator         = "------------------------------"
	EmptyRankMessage  = "No messages recorded for this period."
	UnknownGroupReply = "No data for this group yet."
	rowFormat         = "%d. %s · %d msgs (%.2f%%)"
)

// Chart styling
const (
	chartHeight       = 600
	chartMinWidth     = 800
	chartBarWidth     = 36
	chartBarSpacing   = 12
	chartSidePadding  = 120
	chartTitleSize    = 14.0
	chartLabelSize    = 9.0
	chartLabelRotate  = 45.0
	chartPaddingTop   = 48
	chartMaxLabelRune = 14
	imagePattern      = "rank-*.png"
)

// Log messages
const (
	LogMsgImageFailed        = "Leaderboard image failed, sending text"
	LogMsgImageCleanupFailed = "Failed to remove leaderboard image"
)
