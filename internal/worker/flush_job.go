package worker

import (
	"context"
	"fmt"
)

// Flusher persists pending changes.
type Flusher interface {
	Flush(ctx context.Context) error
}

// FlushJob writes dirty groups back to storage.
type FlushJob struct {
	Store Flusher
}

// Name implements Named.
func (FlushJob) Name() string { return JobNameFlush }

// Process runs one flush with a bounded deadline.
func (j FlushJob) Process(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, FlushJobTimeout)
	defer cancel()
	if err := j.Store.Flush(ctx); err != nil {
		return fmt.Errorf("%s: %w", LogMsgFlushFailed, err)
	}
	return nil
}
