package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MessageStats_Go/internal/domain"
	"github.com/osse101/MessageStats_Go/internal/stats"
)

const testGroup = "123456789"

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) RecordMessage(ctx context.Context, msg stats.Message) (bool, error) {
	args := m.Called(ctx, msg)
	return args.Bool(0), args.Error(1)
}

func (m *MockStatsService) GetRank(ctx context.Context, req stats.RankRequest) (*stats.RankResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stats.RankResult), args.Error(1)
}

func (m *MockStatsService) ClearGroup(ctx context.Context, groupID string) (bool, error) {
	args := m.Called(ctx, groupID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStatsService) ListGroups(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStatsService) Today() civil.Date {
	return civil.Date{Year: 2024, Month: 1, Day: 15}
}

type MockRefresher struct {
	mock.Mock
}

func (m *MockRefresher) Refresh(ctx context.Context, groupID string) (int, error) {
	args := m.Called(ctx, groupID)
	return args.Int(0), args.Error(1)
}

type staticSettings struct {
	settings domain.Settings
	err      error
}

func (s staticSettings) Get(ctx context.Context) (domain.Settings, error) {
	return s.settings, s.err
}

func newTestRouter(h *GroupHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/groups", h.HandleListGroups)
	r.Get("/groups/{groupID}/rank", h.HandleGetRank)
	r.Delete("/groups/{groupID}", h.HandleClearGroup)
	r.Post("/groups/{groupID}/refresh", h.HandleRefresh)
	return r
}

func serve(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func rankResult(n int) *stats.RankResult {
	result := &stats.RankResult{
		GroupID:   testGroup,
		GroupName: "Test Guild",
		Type:      domain.RankDaily,
		Today:     civil.Date{Year: 2024, Month: 1, Day: 15},
	}
	for i := 0; i < n; i++ {
		count := n - i
		result.Entries = append(result.Entries, domain.RankEntry{
			User:  &domain.UserRecord{UserID: fmt.Sprint(i + 1), Nickname: fmt.Sprintf("user%d", i+1), MessageCount: count},
			Value: count,
		})
		result.Total += count
	}
	return result
}

func TestHandleHealthz(t *testing.T) {
	w := serve(t, HandleHealthz(), http.MethodGet, "/healthz")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"status":"ok"}`+"\n", w.Body.String())
}

func TestHandleReadyz(t *testing.T) {
	t.Run("all checks pass", func(t *testing.T) {
		ok := HealthCheck{Name: "storage", Check: func(ctx context.Context) error { return nil }}
		w := serve(t, HandleReadyz(ok), http.MethodGet, "/readyz")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("failing check", func(t *testing.T) {
		ok := HealthCheck{Name: "storage", Check: func(ctx context.Context) error { return nil }}
		down := HealthCheck{Name: "discord", Check: func(ctx context.Context) error { return errors.New("not connected") }}

		w := serve(t, HandleReadyz(ok, down), http.MethodGet, "/readyz")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"unavailable"`)
		assert.Contains(t, w.Body.String(), "discord check failed")
	})

	t.Run("checks get a deadline", func(t *testing.T) {
		var hasDeadline bool
		check := HealthCheck{Name: "db", Check: func(ctx context.Context) error {
			_, hasDeadline = ctx.Deadline()
			return nil
		}}
		serve(t, HandleReadyz(check), http.MethodGet, "/readyz")
		assert.True(t, hasDeadline)
	})
}

func TestHandleListGroups(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &MockStatsService{}
		svc.On("ListGroups", mock.Anything).Return([]string{"11111", "22222"}, nil)

		w := serve(t, newTestRouter(NewGroupHandler(svc, staticSettings{}, nil)), http.MethodGet, "/groups")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"groups":["11111","22222"]}`, w.Body.String())
	})

	t.Run("empty list is not null", func(t *testing.T) {
		svc := &MockStatsService{}
		svc.On("ListGroups", mock.Anything).Return(nil, nil)

		w := serve(t, newTestRouter(NewGroupHandler(svc, staticSettings{}, nil)), http.MethodGet, "/groups")
		assert.JSONEq(t, `{"groups":[]}`, w.Body.String())
	})

	t.Run("storage failure", func(t *testing.T) {
		svc := &MockStatsService{}
		svc.On("ListGroups", mock.Anything).Return(nil, fmt.Errorf("%w: disk", domain.ErrStorage))

		w := serve(t, newTestRouter(NewGroupHandler(svc, staticSettings{}, nil)), http.MethodGet, "/groups")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "disk")
	})
}

func TestHandleGetRank(t *testing.T) {
	defaults := staticSettings{settings: domain.DefaultSettings()}

	t.Run("success with limit", func(t *testing.T) {
		svc := &MockStatsService{}
		svc.On("GetRank", mock.Anything, stats.RankRequest{GroupID: testGroup, Type: domain.RankDaily}).
			Return(rankResult(3), nil)

		w := serve(t, newTestRouter(NewGroupHandler(svc, defaults, nil)), http.MethodGet,
			"/groups/"+testGroup+"/rank?type=today&limit=2")
		require.Equal(t, http.StatusOK, w.Code)

		var resp RankResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, domain.RankDaily, resp.Type)
		assert.Equal(t, "Message leaderboard for 2024-01-15", resp.Title)
		assert.Equal(t, 6, resp.Total)
		require.Len(t, resp.Entries, 2)
		assert.Equal(t, RankEntryResponse{Rank: 1, UserID: "1", Nickname: "user1", Count: 3, Percent: 50}, resp.Entries[0])
		assert.InDelta(t, 33.33, resp.Entries[1].Percent, 0.001)
		svc.AssertExpectations(t)
	})

	t.Run("roles are passed through", func(t *testing.T) {
		svc := &MockStatsService{}
		svc.On("GetRank", mock.Anything, stats.RankRequest{GroupID: testGroup, Type: domain.RankTotal, Roles: []int64{3, 7}}).
			Return(rankResult(1), nil)

		w := serve(t, newTestRouter(NewGroupHandler(svc, defaults, nil)), http.MethodGet,
			"/groups/"+testGroup+"/rank?roles=7,3,7")
		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("settings outage falls back to defaults", func(t *testing.T) {
		svc := &MockStatsService{}
		svc.On("GetRank", mock.Anything, mock.Anything).Return(rankResult(30), nil)

		h := NewGroupHandler(svc, staticSettings{err: domain.ErrStorage}, nil)
		w := serve(t, newTestRouter(h), http.MethodGet, "/groups/"+testGroup+"/rank")
		require.Equal(t, http.StatusOK, w.Code)

		var resp RankResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Entries, domain.DefaultRankLimit)
	})

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"invalid group", "/groups/12/rank", http.StatusBadRequest},
		{"invalid type", "/groups/" + testGroup + "/rank?type=hourly", http.StatusBadRequest},
		{"malformed roles", "/groups/" + testGroup + "/rank?roles=a,b", http.StatusBadRequest},
		{"limit too large", "/groups/" + testGroup + "/rank?limit=101", http.StatusBadRequest},
		{"limit not a number", "/groups/" + testGroup + "/rank?limit=ten", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockStatsService{}
			w := serve(t, newTestRouter(NewGroupHandler(svc, defaults, nil)), http.MethodGet, tt.target)
			assert.Equal(t, tt.status, w.Code)
			svc.AssertNotCalled(t, "GetRank", mock.Anything, mock.Anything)
		})
	}

	t.Run("blocked group", func(t *testing.T) {
		settings := domain.DefaultSettings()
		settings.BlockedGroups = []string{testGroup}
		svc := &MockStatsService{}

		w := serve(t, newTestRouter(NewGroupHandler(svc, staticSettings{settings: settings}, nil)), http.MethodGet,
			"/groups/"+testGroup+"/rank")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unknown group", func(t *testing.T) {
		svc := &MockStatsService{}
		svc.On("GetRank", mock.Anything, mock.Anything).Return(nil, domain.ErrGroupNotFound)

		w := serve(t, newTestRouter(NewGroupHandler(svc, defaults, nil)), http.MethodGet, "/groups/"+testGroup+"/rank")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgGroupNotFound)
	})
}

func TestHandleClearGroup(t *testing.T) {
	t.Run("cleared", func(t *testing.T) {
		svc := &MockStatsService{}
		svc.On("ClearGroup", mock.Anything, testGroup).Return(true, nil)

		w := serve(t, newTestRouter(NewGroupHandler(svc, staticSettings{}, nil)), http.MethodDelete, "/groups/"+testGroup)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), MsgGroupCleared)
	})

	t.Run("nothing stored", func(t *testing.T) {
		svc := &MockStatsService{}
		svc.On("ClearGroup", mock.Anything, testGroup).Return(false, nil)

		w := serve(t, newTestRouter(NewGroupHandler(svc, staticSettings{}, nil)), http.MethodDelete, "/groups/"+testGroup)
		assert.Contains(t, w.Body.String(), MsgNothingToClear)
	})
}

func TestHandleRefresh(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		names := &MockRefresher{}
		names.On("Refresh", mock.Anything, testGroup).Return(4, nil)

		w := serve(t, newTestRouter(NewGroupHandler(&MockStatsService{}, staticSettings{}, names)), http.MethodPost,
			"/groups/"+testGroup+"/refresh")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"updated":4}`, w.Body.String())
	})

	t.Run("fetch failure", func(t *testing.T) {
		names := &MockRefresher{}
		names.On("Refresh", mock.Anything, testGroup).Return(0, domain.ErrMemberFetchFailed)

		w := serve(t, newTestRouter(NewGroupHandler(&MockStatsService{}, staticSettings{}, names)), http.MethodPost,
			"/groups/"+testGroup+"/refresh")
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("not configured", func(t *testing.T) {
		w := serve(t, newTestRouter(NewGroupHandler(&MockStatsService{}, staticSettings{}, nil)), http.MethodPost,
			"/groups/"+testGroup+"/refresh")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
