package handler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/MessageStats_Go/internal/command"
	"github.com/osse101/MessageStats_Go/internal/domain"
	"github.com/osse101/MessageStats_Go/internal/logger"
	"github.com/osse101/MessageStats_Go/internal/render"
	"github.com/osse101/MessageStats_Go/internal/stats"
	"github.com/osse101/MessageStats_Go/internal/validation"
)

// SettingsSource reads the current plugin settings.
type SettingsSource interface {
	Get(ctx context.Context) (domain.Settings, error)
}

// Refresher rebuilds a group's nickname caches.
type Refresher interface {
	Refresh(ctx context.Context, groupID string) (int, error)
}

// GroupsResponse lists the groups with stored statistics.
type GroupsResponse struct {
	Groups []string `json:"groups"`
}

// RankEntryResponse is one leaderboard row.
type RankEntryResponse struct {
	Rank     int     `json:"rank"`
	UserID   string  `json:"user_id"`
	Nickname string  `json:"nickname"`
	Count    int     `json:"count"`
	Percent  float64 `json:"percent"`
}

// RankResponse is a leaderboard. Total covers every ranked user, not only
// the returned entries.
type RankResponse struct {
	GroupID   string              `json:"group_id"`
	GroupName string              `json:"group_name"`
	Type      domain.RankType     `json:"type"`
	Title     string              `json:"title"`
	Total     int                 `json:"total"`
	Entries   []RankEntryResponse `json:"entries"`
}

// RefreshResponse reports how many stored nicknames changed.
type RefreshResponse struct {
	Updated int `json:"updated"`
}

// GroupHandler serves the group statistics API.
type GroupHandler struct {
	stats    stats.Service
	settings SettingsSource
	names    Refresher
}

// NewGroupHandler creates a group handler. names may be nil.
func NewGroupHandler(svc stats.Service, settings SettingsSource, names Refresher) *GroupHandler {
	return &GroupHandler{stats: svc, settings: settings, names: names}
}

// HandleListGroups lists known groups
// @Summary List groups
// @Description Lists every group with stored message statistics
// @Tags groups
// @Produce json
// @Success 200 {object} GroupsResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/groups [get]
func (h *GroupHandler) HandleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.stats.ListGroups(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Error(LogMsgListGroupsFailed, "error", err)
		respondServiceError(w, err)
		return
	}
	if groups == nil {
		groups = []string{}
	}
	respondJSON(w, http.StatusOK, GroupsResponse{Groups: groups})
}

// HandleGetRank builds a leaderboard
// @Summary Get leaderboard
// @Description Builds the message leaderboard of a group for a time window
// @Tags groups
// @Produce json
// @Param groupID path string true "Group ID"
// @Param type query string false "Rank type (total, daily, weekly, monthly, yearly, lastyear)"
// @Param roles query string false "Comma separated role ids; users holding any of them are ranked"
// @Param limit query int false "Number of entries (defaults to the configured display count)"
// @Success 200 {object} RankResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/groups/{groupID}/rank [get]
func (h *GroupHandler) HandleGetRank(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	groupID, ok := groupIDParam(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	rankType := domain.RankTotal
	if raw := q.Get(QueryParamType); raw != "" {
		parsed, err := domain.ParseRankType(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRankType)
			return
		}
		rankType = parsed
	}

	var roles []int64
	if q.Has(QueryParamRoles) {
		roles = command.ParseRoles(q.Get(QueryParamRoles))
		if len(roles) == 0 {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRoles)
			return
		}
	}

	settings, err := h.settings.Get(ctx)
	if err != nil {
		log.Warn(LogMsgRankFailed, logger.AttrKeyGroupID, groupID, "error", err)
		settings = domain.DefaultSettings()
	}
	if settings.IsGroupBlocked(groupID) {
		respondError(w, http.StatusForbidden, ErrMsgGroupExcluded)
		return
	}

	limit := settings.RankLimit
	if raw := q.Get(QueryParamLimit); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < domain.MinRankLimit || n > domain.MaxRankLimit {
			respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgInvalidLimit, domain.MinRankLimit, domain.MaxRankLimit))
			return
		}
		limit = n
	}

	result, err := h.stats.GetRank(ctx, stats.RankRequest{GroupID: groupID, Type: rankType, Roles: roles})
	if err != nil {
		if !errors.Is(err, domain.ErrGroupNotFound) {
			log.Error(LogMsgRankFailed, logger.AttrKeyGroupID, groupID, "error", err)
		}
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newRankResponse(result, limit))
}

func newRankResponse(result *stats.RankResult, limit int) RankResponse {
	resp := RankResponse{
		GroupID:   result.GroupID,
		GroupName: result.GroupName,
		Type:      result.Type,
		Title:     render.Title(result.Type, result.Today),
		Total:     result.Total,
		Entries:   []RankEntryResponse{},
	}
	for i, e := range result.Entries {
		if i >= limit {
			break
		}
		pct := 0.0
		if result.Total > 0 {
			pct = math.Round(float64(e.Value)*10000/float64(result.Total)) / 100
		}
		resp.Entries = append(resp.Entries, RankEntryResponse{
			Rank:     i + 1,
			UserID:   e.User.UserID,
			Nickname: e.User.Nickname,
			Count:    e.Value,
			Percent:  pct,
		})
	}
	return resp
}

// HandleClearGroup deletes a group's statistics
// @Summary Clear group
// @Description Deletes every stored statistic of a group
// @Tags groups
// @Produce json
// @Security ApiKeyAuth
// @Param groupID path string true "Group ID"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {string} string "Unauthorized"
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/groups/{groupID} [delete]
func (h *GroupHandler) HandleClearGroup(w http.ResponseWriter, r *http.Request) {
	groupID, ok := groupIDParam(w, r)
	if !ok {
		return
	}
	log := logger.FromContext(r.Context())

	cleared, err := h.stats.ClearGroup(r.Context(), groupID)
	if err != nil {
		log.Error(LogMsgClearFailed, logger.AttrKeyGroupID, groupID, "error", err)
		respondServiceError(w, err)
		return
	}
	if !cleared {
		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgNothingToClear})
		return
	}
	log.Info(LogMsgGroupCleared, logger.AttrKeyGroupID, groupID)
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgGroupCleared})
}

// HandleRefresh rebuilds nickname caches
// @Summary Refresh nicknames
// @Description Fetches the member list and updates stored nicknames
// @Tags groups
// @Produce json
// @Security ApiKeyAuth
// @Param groupID path string true "Group ID"
// @Success 200 {object} RefreshResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/v1/groups/{groupID}/refresh [post]
func (h *GroupHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	groupID, ok := groupIDParam(w, r)
	if !ok {
		return
	}
	if h.names == nil {
		respondError(w, http.StatusServiceUnavailable, ErrMsgRefreshUnavailable)
		return
	}

	updated, err := h.names.Refresh(r.Context(), groupID)
	if err != nil {
		logger.FromContext(r.Context()).Warn(LogMsgRefreshFailed, logger.AttrKeyGroupID, groupID, "error", err)
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, RefreshResponse{Updated: updated})
}

func groupIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	groupID := chi.URLParam(r, URLParamGroupID)
	if err := validation.ValidateGroupID(groupID); err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidGroupID)
		return "", false
	}
	return groupID, true
}
