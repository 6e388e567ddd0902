package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/MessageStats_Go/internal/domain"
	"github.com/osse101/MessageStats_Go/internal/logger"
	"github.com/osse101/MessageStats_Go/internal/repository"
	"github.com/osse101/MessageStats_Go/internal/validation"
)

// Service reads and changes the shared plugin settings.
type Service interface {
	Get(ctx context.Context) (domain.Settings, error)
	Update(ctx context.Context, fn func(s *domain.Settings) error) (domain.Settings, error)
	CacheLen() int
}

type service struct {
	repo  repository.Settings
	cache *expirable.LRU[string, domain.Settings]
	mu    sync.Mutex // serializes Update
}

// NewService creates a settings service caching reads for ttl.
func NewService(repo repository.Settings, ttl time.Duration) Service {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &service{
		repo:  repo,
		cache: expirable.NewLRU[string, domain.Settings](DefaultCacheSize, nil, ttl),
	}
}

func (s *service) Get(ctx context.Context) (domain.Settings, error) {
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.Clone(), nil
	}
	loaded, err := s.load(ctx)
	if err != nil {
		return domain.Settings{}, err
	}
	s.cache.Add(cacheKey, loaded)
	return loaded.Clone(), nil
}

// Update applies fn to the current settings, validates and saves the result.
func (s *service) Update(ctx context.Context, fn func(s *domain.Settings) error) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load(ctx)
	if err != nil {
		return domain.Settings{}, err
	}
	if err := fn(&current); err != nil {
		return domain.Settings{}, err
	}

	doc, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return domain.Settings{}, fmt.Errorf("%s: %w", ErrMsgSaveFailed, err)
	}
	if err := validation.ValidateSettingsDocument(doc); err != nil {
		return domain.Settings{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if err := s.repo.SaveSettings(ctx, doc); err != nil {
		return domain.Settings{}, fmt.Errorf("%w: %s: %w", domain.ErrStorage, ErrMsgSaveFailed, err)
	}

	s.cache.Add(cacheKey, current)
	logger.FromContext(ctx).Info(LogMsgUpdated)
	return current.Clone(), nil
}

func (s *service) CacheLen() int {
	return s.cache.Len()
}

func (s *service) load(ctx context.Context) (domain.Settings, error) {
	doc, err := s.repo.LoadSettings(ctx)
	if errors.Is(err, domain.ErrSettingsNotFound) {
		logger.FromContext(ctx).Debug(LogMsgUsingDefaults)
		return domain.DefaultSettings(), nil
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("%w: %s: %w", domain.ErrStorage, ErrMsgLoadFailed, err)
	}
	if err := validation.ValidateSettingsDocument(doc); err != nil {
		return domain.Settings{}, fmt.Errorf("%s: %w", ErrMsgInvalidDoc, err)
	}

	settings := domain.DefaultSettings()
	if err := json.Unmarshal(doc, &settings); err != nil {
		return domain.Settings{}, fmt.Errorf("%s: %w", ErrMsgInvalidDoc, err)
	}
	return settings, nil
}

// ============================================================================
// Mutations
// ============================================================================

// SetRankLimit changes how many rows a leaderboard shows.
func SetRankLimit(limit int) func(*domain.Settings) error {
	return func(s *domain.Settings) error {
		if limit < domain.MinRankLimit || limit > domain.MaxRankLimit {
			return fmt.Errorf("%w: %d not in [%d, %d]", domain.ErrInvalidRankLimit, limit, domain.MinRankLimit, domain.MaxRankLimit)
		}
		s.RankLimit = limit
		return nil
	}
}

// SetSendImage switches between image and text leaderboards.
func SetSendImage(on bool) func(*domain.Settings) error {
	return func(s *domain.Settings) error {
		s.SendImage = on
		return nil
	}
}

// SetPushTime sets the daily push time and enables the push for groupID.
func SetPushTime(hhmm, groupID string) func(*domain.Settings) error {
	return func(s *domain.Settings) error {
		normalized, err := ParsePushTime(hhmm)
		if err != nil {
			return err
		}
		s.Timer.PushTime = normalized
		if groupID != "" && !slices.Contains(s.Timer.TargetGroups, groupID) {
			s.Timer.TargetGroups = append(s.Timer.TargetGroups, groupID)
		}
		s.Timer.Enabled = true
		return nil
	}
}

// AddPushTargets adds groups to the push list.
func AddPushTargets(groupIDs ...string) func(*domain.Settings) error {
	return func(s *domain.Settings) error {
		for _, id := range groupIDs {
			if err := validation.ValidateGroupID(id); err != nil {
				return err
			}
			if !slices.Contains(s.Timer.TargetGroups, id) {
				s.Timer.TargetGroups = append(s.Timer.TargetGroups, id)
			}
		}
		return nil
	}
}

// RemovePushTargets removes groups from the push list; with no ids it empties the list.
func RemovePushTargets(groupIDs ...string) func(*domain.Settings) error {
	return func(s *domain.Settings) error {
		if len(groupIDs) == 0 {
			s.Timer.TargetGroups = []string{}
			return nil
		}
		s.Timer.TargetGroups = slices.DeleteFunc(s.Timer.TargetGroups, func(id string) bool {
			return slices.Contains(groupIDs, id)
		})
		return nil
	}
}

// SetPushEnabled turns the push on or off. Turning it on needs a target group.
func SetPushEnabled(on bool) func(*domain.Settings) error {
	return func(s *domain.Settings) error {
		if on && len(s.Timer.TargetGroups) == 0 {
			return domain.ErrNoPushTargets
		}
		s.Timer.Enabled = on
		return nil
	}
}

// SetPushRankType selects which leaderboard is pushed.
func SetPushRankType(rankType domain.RankType) func(*domain.Settings) error {
	return func(s *domain.Settings) error {
		if !rankType.Valid() {
			return domain.ErrInvalidRankType
		}
		s.Timer.RankType = rankType
		return nil
	}
}

// ParsePushTime accepts H:MM or HH:MM and returns HH:MM.
func ParsePushTime(value string) (string, error) {
	t, err := time.Parse(domain.PushTimeLayout, strings.TrimSpace(value))
	if err != nil {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidPushTime, value)
	}
	return t.Format(domain.PushTimeLayout), nil
}

var (
	onAliases  = []string{"1", "true", "on", "yes", "enable", "enabled"}
	offAliases = []string{"0", "false", "off", "no", "disable", "disabled"}
)

// ParseToggle interprets an on/off argument.
func ParseToggle(value string) (bool, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch {
	case slices.Contains(onAliases, v):
		return true, nil
	case slices.Contains(offAliases, v):
		return false, nil
	}
	return false, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgUnknownToggle)
}
