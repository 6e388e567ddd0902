package bootstrap

import (
	"context"
	"log/slog"
)

type stopper interface {
	Stop(ctx context.Context) error
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

type flusher interface {
	Flush(ctx context.Context) error
}

// ShutdownComponents holds all components that need graceful shutdown.
// Nil fields are skipped.
type ShutdownComponents struct {
	Server     stopper
	PushWorker shutdowner
	// StopJobs stops the periodic flush scheduler and its worker pool.
	StopJobs func()
	Store    flusher
	Bot      interface{ Stop() error }
	Storage  *Storage
}

// GracefulShutdown stops components in dependency order:
//  1. HTTP server and Discord session (no new input)
//  2. push worker (cancel pending timers, wait for a running push)
//  3. periodic jobs, then one final store flush
//  4. storage
//
// Errors are logged and never stop the sequence.
func GracefulShutdown(ctx context.Context, c ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if c.Server != nil {
		if err := c.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}
	if c.Bot != nil {
		if err := c.Bot.Stop(); err != nil {
			slog.Error(LogMsgBotCloseFailed, "error", err)
		}
	}

	if c.PushWorker != nil {
		if err := c.PushWorker.Shutdown(ctx); err != nil {
			slog.Error(LogMsgPushWorkerFailed, "error", err)
		}
	}

	if c.StopJobs != nil {
		c.StopJobs()
	}
	if c.Store != nil {
		if err := c.Store.Flush(ctx); err != nil {
			slog.Error(LogMsgFinalFlushFailed, "error", err)
		} else {
			slog.Info(LogMsgFinalFlushDone)
		}
	}

	if c.Storage != nil {
		c.Storage.Close()
	}
	slog.Info(LogMsgServerStopped)
}
