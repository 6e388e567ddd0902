package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"

	"github.com/osse101/MessageStats_Go/internal/domain"
	"github.com/osse101/MessageStats_Go/internal/logger"
	"github.com/osse101/MessageStats_Go/internal/metrics"
	"github.com/osse101/MessageStats_Go/internal/store"
	"github.com/osse101/MessageStats_Go/internal/validation"
)

// GroupStore is the subset of the group data store the service uses.
type GroupStore interface {
	Update(ctx context.Context, groupID string, fn store.MutateFunc) error
	Snapshot(ctx context.Context, groupID string) (*domain.GroupStore, error)
	Clear(ctx context.Context, groupID string) (bool, error)
	Groups(ctx context.Context) ([]string, error)
}

// NicknameResolver supplies display names and keeps stored ones current.
type NicknameResolver interface {
	Resolve(ctx context.Context, groupID, userID, hint string) string
	Reconcile(ctx context.Context, groupID string) (int, error)
}

// SettingsProvider returns the current plugin settings.
type SettingsProvider interface {
	Get(ctx context.Context) (domain.Settings, error)
}

// Message is an observed group message.
type Message struct {
	GroupID    string
	GroupName  string
	UserID     string
	SenderName string
	// Roles are the sender's role ids. Nil means the platform did not report any.
	Roles []int64
}

// RankRequest selects a leaderboard.
type RankRequest struct {
	GroupID string
	Type    domain.RankType
	Roles   []int64
}

// RankResult is a computed leaderboard with the metadata renderers need.
type RankResult struct {
	GroupID   string
	GroupName string
	Type      domain.RankType
	Today     civil.Date
	Window    Window
	Windowed  bool
	Entries   []domain.RankEntry
	Total     int
}

// Service records messages and builds leaderboards.
type Service interface {
	RecordMessage(ctx context.Context, msg Message) (bool, error)
	GetRank(ctx context.Context, req RankRequest) (*RankResult, error)
	ClearGroup(ctx context.Context, groupID string) (bool, error)
	ListGroups(ctx context.Context) ([]string, error)
	Today() civil.Date
}

// Config controls how the service reads the calendar.
type Config struct {
	Location *time.Location
	Now      func() time.Time
}

type service struct {
	store    GroupStore
	names    NicknameResolver
	settings SettingsProvider
	location *time.Location
	now      func() time.Time
}

// NewService creates a new stats service. names may be nil, in which case the
// sender name (or a placeholder) is stored as the nickname.
func NewService(groups GroupStore, names NicknameResolver, settings SettingsProvider, cfg Config) Service {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &service{
		store:    groups,
		names:    names,
		settings: settings,
		location: cfg.Location,
		now:      cfg.Now,
	}
}

func (s *service) Today() civil.Date {
	return civil.DateOf(s.now().In(s.location))
}

// RecordMessage counts one message. It returns false without an error when
// the message is blocked or fails validation; only storage failures are errors.
func (s *service) RecordMessage(ctx context.Context, msg Message) (bool, error) {
	log := logger.FromContext(ctx)
	settings := s.currentSettings(ctx)

	if settings.IsGroupBlocked(msg.GroupID) {
		metrics.MessagesSkipped.WithLabelValues(SkipReasonBlockedGroup).Inc()
		return false, nil
	}
	if settings.IsUserBlocked(msg.UserID) {
		metrics.MessagesSkipped.WithLabelValues(SkipReasonBlockedUser).Inc()
		if settings.DetailedLogging {
			log.Info(LogMsgMessageBlocked, logger.AttrKeyGroupID, msg.GroupID, logger.AttrKeyUserID, msg.UserID)
		}
		return false, nil
	}

	nickname := s.resolveNickname(ctx, msg)
	if err := validation.ValidateMessage(msg.GroupID, msg.UserID, nickname); err != nil {
		metrics.MessagesSkipped.WithLabelValues(SkipReasonInvalid).Inc()
		if settings.DetailedLogging {
			log.Info(LogMsgMessageRejected, "error", err)
		} else {
			log.Debug(LogMsgMessageRejected, "error", err)
		}
		return false, nil
	}

	today := s.Today()
	err := s.store.Update(ctx, msg.GroupID, func(g *domain.GroupStore) (bool, error) {
		g.UserOrCreate(msg.UserID, nickname).RecordMessage(today, nickname, msg.Roles)
		if msg.GroupName != "" {
			g.GroupName = msg.GroupName
		}
		return true, nil
	})
	if err != nil {
		log.Error(LogMsgRecordFailed, logger.AttrKeyGroupID, msg.GroupID, "error", err)
		return false, fmt.Errorf("%s: %w", ErrMsgRecordFailed, err)
	}

	metrics.MessagesRecorded.Inc()
	return true, nil
}

func (s *service) resolveNickname(ctx context.Context, msg Message) string {
	if s.names != nil {
		return s.names.Resolve(ctx, msg.GroupID, msg.UserID, msg.SenderName)
	}
	if msg.SenderName != "" {
		return msg.SenderName
	}
	return domain.PlaceholderNickname(msg.UserID)
}

// GetRank builds a leaderboard from one consistent snapshot of the group.
// An unknown group yields domain.ErrGroupNotFound; a known group with no
// qualifying users yields an empty result.
func (s *service) GetRank(ctx context.Context, req RankRequest) (*RankResult, error) {
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidRankType, int(req.Type))
	}
	if err := validation.ValidateGroupID(req.GroupID); err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx)

	if s.names != nil {
		if _, err := s.names.Reconcile(ctx, req.GroupID); err != nil && !errors.Is(err, domain.ErrGroupNotFound) {
			log.Warn(LogMsgReconcileFailed, logger.AttrKeyGroupID, req.GroupID, "error", err)
		}
	}

	group, err := s.store.Snapshot(ctx, req.GroupID)
	if err != nil {
		if errors.Is(err, domain.ErrGroupNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgSnapshotFailed, err)
	}

	start := time.Now()
	today := s.Today()
	settings := s.currentSettings(ctx)
	entries := BuildRank(group, RankQuery{
		Type:    req.Type,
		Today:   today,
		Roles:   req.Roles,
		Blocked: settings.BlockedUsers,
	})
	window, windowed := WindowFor(req.Type, today)

	metrics.RankDuration.Observe(time.Since(start).Seconds())
	metrics.RankQueries.WithLabelValues(req.Type.String()).Inc()
	log.Debug(LogMsgRankBuilt, logger.AttrKeyGroupID, req.GroupID, logger.AttrKeyRankType, req.Type.String(), logger.AttrKeyCount, len(entries))

	return &RankResult{
		GroupID:   group.GroupID,
		GroupName: group.GroupName,
		Type:      req.Type,
		Today:     today,
		Window:    window,
		Windowed:  windowed,
		Entries:   entries,
		Total:     Total(entries),
	}, nil
}

func (s *service) ClearGroup(ctx context.Context, groupID string) (bool, error) {
	cleared, err := s.store.Clear(ctx, groupID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgClearFailed, err)
	}
	if cleared {
		logger.ForGroup(ctx, groupID).Info(LogMsgGroupCleared)
	}
	return cleared, nil
}

func (s *service) ListGroups(ctx context.Context) ([]string, error) {
	return s.store.Groups(ctx)
}

func (s *service) currentSettings(ctx context.Context) domain.Settings {
	if s.settings == nil {
		return domain.DefaultSettings()
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgSettingsFallback, "error", err)
		return domain.DefaultSettings()
	}
	return settings
}
