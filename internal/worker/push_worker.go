package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sourcegraph/conc/pool"

	"github.com/osse101/MessageStats_Go/internal/domain"
	"github.com/osse101/MessageStats_Go/internal/logger"
	"github.com/osse101/MessageStats_Go/internal/metrics"
	"github.com/osse101/MessageStats_Go/internal/render"
	"github.com/osse101/MessageStats_Go/internal/stats"
)

// RankSource builds leaderboards.
type RankSource interface {
	GetRank(ctx context.Context, req stats.RankRequest) (*stats.RankResult, error)
}

// SettingsSource reads the current settings.
type SettingsSource interface {
	Get(ctx context.Context) (domain.Settings, error)
}

// OriginLookup maps a group to the channel pushes are delivered to.
type OriginLookup interface {
	Channel(groupID string) (string, bool)
}

// Sender delivers a rendered leaderboard to a channel.
type Sender interface {
	Send(ctx context.Context, channelID string, out render.Output) error
}

// PushConfig wires a PushWorker.
type PushConfig struct {
	Ranks     RankSource
	Settings  SettingsSource
	Origins   OriginLookup
	Sender    Sender
	Presenter *render.Presenter
	Location  *time.Location
	Now       func() time.Time

	MaxConcurrency int
	MaxRetries     uint64
	RetryInitial   time.Duration
}

// PushReport lists the outcome per target group.
type PushReport struct {
	Delivered []string
	Failed    []string
	Skipped   []string
}

// PushStatus describes the pending schedule.
type PushStatus struct {
	Scheduled bool
	Next      time.Time
}

type pushOutcome struct {
	groupID string
	result  string
}

// PushWorker delivers the configured leaderboard to every target group once
// a day at the configured local time.
type PushWorker struct {
	cfg      PushConfig
	timer    *time.Timer
	next     time.Time
	shutdown chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
}

// NewPushWorker creates a new PushWorker
func NewPushWorker(cfg PushConfig) *PushWorker {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = PushMaxConcurrency
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = PushMaxRetries
	}
	if cfg.RetryInitial <= 0 {
		cfg.RetryInitial = PushRetryInitial
	}
	if cfg.Presenter == nil {
		cfg.Presenter = render.NewPresenter(nil)
	}
	return &PushWorker{
		cfg:      cfg,
		shutdown: make(chan struct{}),
	}
}

// Start schedules the first push.
func (w *PushWorker) Start() {
	w.scheduleNext()
}

// Reload reschedules after the push settings changed.
func (w *PushWorker) Reload() {
	w.scheduleNext()
}

// Status reports whether a push is pending and when it fires.
func (w *PushWorker) Status() PushStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return PushStatus{Scheduled: !w.next.IsZero(), Next: w.next}
}

// scheduleNext reads the push time from the settings and arms the timer.
func (w *PushWorker) scheduleNext() {
	ctx := logger.WithNewRequestID(context.Background())
	log := logger.FromContext(ctx)

	select {
	case <-w.shutdown:
		return
	default:
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.next = time.Time{}

	settings, err := w.cfg.Settings.Get(ctx)
	if err != nil {
		log.Error(LogMsgPushSettingsFailed, "error", err)
		return
	}
	if !settings.Timer.Enabled || len(settings.Timer.TargetGroups) == 0 {
		log.Info(LogMsgPushDisabled)
		return
	}

	now := w.cfg.Now()
	duration, err := timeUntilNextPush(now, settings.Timer.PushTime, w.cfg.Location)
	if err != nil {
		log.Warn(LogMsgPushInvalidTime, "push_time", settings.Timer.PushTime, "error", err)
		return
	}
	w.next = now.Add(duration)

	// Two-stage scheduling to prevent "tight loop" rescheduling caused by early triggers
	if duration > PushStandbyThreshold {
		waitDuration := duration - PushStandbyLead
		w.timer = time.AfterFunc(waitDuration, w.scheduleNext)
		log.Info(LogMsgPushStandby, "next_check_at", now.Add(waitDuration), "push_at", w.next)
		return
	}

	pushTime := settings.Timer.PushTime
	w.timer = time.AfterFunc(duration, func() {
		select {
		case <-w.shutdown:
			return
		default:
		}

		// An early trigger leaves most of the interval; a punctual one
		// rolls over to almost a full day.
		rem, err := timeUntilNextPush(w.cfg.Now(), pushTime, w.cfg.Location)
		if err == nil && rem > PushJitterTolerance && rem < 23*time.Hour {
			w.scheduleNext()
			return
		}

		w.executePush()
		w.scheduleNext()
	})
	log.Info(LogMsgPushApproach, "push_at", w.next)
}

// executePush runs a scheduled push in a tracked goroutine
func (w *PushWorker) executePush() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		ctx := logger.WithNewRequestID(context.Background())
		if _, err := w.PushNow(ctx); err != nil {
			logger.FromContext(ctx).Error(LogMsgPushGroupFailed, "error", err)
		}
	}()
}

// PushNow delivers the configured leaderboard to every target group
// immediately, with bounded concurrency.
func (w *PushWorker) PushNow(ctx context.Context) (PushReport, error) {
	log := logger.FromContext(ctx)

	settings, err := w.cfg.Settings.Get(ctx)
	if err != nil {
		return PushReport{}, fmt.Errorf("%s: %w", LogMsgPushSettingsFailed, err)
	}
	targets := settings.Timer.TargetGroups
	if len(targets) == 0 {
		return PushReport{}, domain.ErrNoPushTargets
	}

	log.Info(LogMsgPushStarting, logger.AttrKeyCount, len(targets), logger.AttrKeyRankType, settings.Timer.RankType.String())

	p := pool.NewWithResults[pushOutcome]().WithMaxGoroutines(w.cfg.MaxConcurrency)
	for _, groupID := range targets {
		p.Go(func() pushOutcome {
			return pushOutcome{groupID: groupID, result: w.pushGroup(ctx, groupID, settings)}
		})
	}

	var report PushReport
	for _, o := range p.Wait() {
		metrics.PushDeliveries.WithLabelValues(o.result).Inc()
		switch o.result {
		case metrics.ResultSuccess:
			report.Delivered = append(report.Delivered, o.groupID)
		case metrics.ResultFailure:
			report.Failed = append(report.Failed, o.groupID)
		default:
			report.Skipped = append(report.Skipped, o.groupID)
		}
	}

	log.Info(LogMsgPushCompleted,
		"delivered", len(report.Delivered),
		"failed", len(report.Failed),
		"skipped", len(report.Skipped))
	return report, nil
}

func (w *PushWorker) pushGroup(ctx context.Context, groupID string, settings domain.Settings) string {
	log := logger.ForGroup(ctx, groupID)

	if settings.IsGroupBlocked(groupID) {
		return metrics.ResultSkipped
	}
	channelID, ok := w.cfg.Origins.Channel(groupID)
	if !ok {
		log.Warn(LogMsgPushNoOrigin)
		return metrics.ResultSkipped
	}

	ctx, cancel := context.WithTimeout(ctx, PushGroupTimeout)
	defer cancel()

	result, err := w.cfg.Ranks.GetRank(ctx, stats.RankRequest{GroupID: groupID, Type: settings.Timer.RankType})
	if errors.Is(err, domain.ErrGroupNotFound) {
		return metrics.ResultSkipped
	}
	if err != nil {
		log.Error(LogMsgPushGroupFailed, "error", err)
		return metrics.ResultFailure
	}

	out := w.cfg.Presenter.Present(ctx, render.NewView(result, settings.RankLimit), settings.SendImage)
	defer render.Cleanup(ctx, out)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = w.cfg.RetryInitial
	policy := backoff.WithContext(backoff.WithMaxRetries(b, w.cfg.MaxRetries), ctx)
	err = backoff.Retry(func() error {
		return w.cfg.Sender.Send(ctx, channelID, out)
	}, policy)
	if err != nil {
		log.Error(LogMsgPushGroupFailed, logger.AttrKeyChannelID, channelID, "error", err)
		return metrics.ResultFailure
	}
	return metrics.ResultSuccess
}

// Shutdown gracefully shuts down the push worker
// Cancels the pending timer and waits for any in-flight push to complete
func (w *PushWorker) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info("Shutting down push worker")

	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.next = time.Time{}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info("Push worker shutdown complete")
		return nil
	case <-ctx.Done():
		log.Warn("Push worker shutdown timeout, some deliveries may still be running")
		return ctx.Err()
	}
}

// timeUntilNextPush returns the wait until the next hh:mm in loc after now.
func timeUntilNextPush(now time.Time, hhmm string, loc *time.Location) (time.Duration, error) {
	at, err := time.Parse(domain.PushTimeLayout, hhmm)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidPushTime, hhmm)
	}
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), at.Hour(), at.Minute(), 0, 0, loc)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(local), nil
}
