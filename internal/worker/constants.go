package worker

import "time"

// Log messages
const (
	LogMsgWorkerJobFailed   = "Worker job failed"
	LogMsgWorkerJobPanicked = "Worker job panicked"

	LogMsgPushStandby        = "Leaderboard push standby"
	LogMsgPushApproach       = "Leaderboard push scheduled"
	LogMsgPushDisabled       = "Leaderboard push disabled"
	LogMsgPushStarting       = "Pushing scheduled leaderboards"
	LogMsgPushCompleted      = "Scheduled leaderboards pushed"
	LogMsgPushGroupFailed    = "Scheduled leaderboard delivery failed"
	LogMsgPushNoOrigin       = "No known channel for push target group"
	LogMsgPushSettingsFailed = "Failed to load push settings"
	LogMsgPushInvalidTime    = "Invalid push time, push not scheduled"
	LogMsgFlushFailed        = "Store flush failed"
)

// Push scheduling
const (
	PushStandbyThreshold = 1 * time.Hour
	PushStandbyLead      = 45 * time.Minute
	PushJitterTolerance  = 10 * time.Second
	PushMaxConcurrency   = 4
	PushMaxRetries       = 3
	PushRetryInitial     = 500 * time.Millisecond
	PushGroupTimeout     = 30 * time.Second
)

// AttrKeyJob names the job in pool log records.
const AttrKeyJob = "job"

// Pool defaults
const (
	JobNameFlush         = "store_flush"
	DefaultPoolWorkers   = 2
	DefaultPoolQueueSize = 16
	FlushJobTimeout      = 30 * time.Second
)

// Test constants
const (
	TestWorkerCount           = 2
	TestQueueSize             = 10
	TestWorkerProcessWaitTime = 100
	TestExpectedJobCount      = 2
)
