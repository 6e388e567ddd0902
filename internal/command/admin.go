package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/osse101/MessageStats_Go/internal/domain"
	"github.com/osse101/MessageStats_Go/internal/nickname"
	"github.com/osse101/MessageStats_Go/internal/settings"
	"github.com/osse101/MessageStats_Go/internal/store"
)

func (r *Router) registerAdminCommands() {
	r.Register(&Command{Name: CmdRankLimit, Aliases: []string{"rank-count"}, Admin: true, Handler: r.setRankLimit})
	r.Register(&Command{Name: CmdRankImage, Aliases: []string{"rank-mode"}, Admin: true, Handler: r.setImageMode})
	r.Register(&Command{Name: CmdRankClear, Aliases: []string{"rank-reset"}, Admin: true, Handler: r.clearGroup})
	r.Register(&Command{Name: CmdRankRefresh, Admin: true, Handler: r.refreshMembers})
	r.Register(&Command{Name: CmdRankCache, Admin: true, Handler: r.cacheStatus})
}

func (r *Router) setRankLimit(ctx context.Context, req Request) Reply {
	usage := Reply{Text: fmt.Sprintf(ReplyLimitUsage, r.prefix(), domain.MinRankLimit, domain.MaxRankLimit)}
	if len(req.Args) == 0 {
		return usage
	}
	limit, err := strconv.Atoi(req.Args[0])
	if err != nil {
		return usage
	}

	_, err = r.cfg.Settings.Update(ctx, settings.SetRankLimit(limit))
	switch {
	case errors.Is(err, domain.ErrInvalidRankLimit):
		return usage
	case err != nil:
		return failure(ctx, req, err)
	}
	return Reply{Text: fmt.Sprintf(ReplyLimitSet, limit)}
}

func (r *Router) setImageMode(ctx context.Context, req Request) Reply {
	usage := Reply{Text: fmt.Sprintf(ReplyImageUsage, r.prefix())}
	if len(req.Args) == 0 {
		return usage
	}
	on, err := settings.ParseToggle(req.Args[0])
	if err != nil {
		return usage
	}

	if _, err := r.cfg.Settings.Update(ctx, settings.SetSendImage(on)); err != nil {
		return failure(ctx, req, err)
	}
	if on {
		return Reply{Text: ReplyImageOn}
	}
	return Reply{Text: ReplyImageOff}
}

func (r *Router) clearGroup(ctx context.Context, req Request) Reply {
	if req.GroupID == "" {
		return Reply{Text: ReplyGroupOnly}
	}
	cleared, err := r.cfg.Stats.ClearGroup(ctx, req.GroupID)
	if err != nil {
		return failure(ctx, req, err)
	}
	if !cleared {
		return Reply{Text: ReplyNothingToClear}
	}
	return Reply{Text: ReplyCleared}
}

func (r *Router) refreshMembers(ctx context.Context, req Request) Reply {
	if req.GroupID == "" {
		return Reply{Text: ReplyGroupOnly}
	}
	if r.cfg.Names == nil {
		return Reply{Text: fmt.Sprintf(ReplyRefreshed, 0)}
	}
	updated, err := r.cfg.Names.Refresh(ctx, req.GroupID)
	switch {
	case errors.Is(err, domain.ErrMemberFetchFailed):
		return Reply{Text: ReplyRefreshFailed}
	case err != nil:
		return failure(ctx, req, err)
	}
	return Reply{Text: fmt.Sprintf(ReplyRefreshed, updated)}
}

func (r *Router) cacheStatus(ctx context.Context, req Request) Reply {
	var (
		groups store.Stats
		names  nickname.CacheStats
	)
	if r.cfg.Store != nil {
		groups = r.cfg.Store.Stats()
	}
	if r.cfg.Names != nil {
		names = r.cfg.Names.Stats()
	}
	return Reply{Text: fmt.Sprintf(ReplyCacheStatus,
		names.Nicknames, names.MemberLists, names.MemberDicts,
		groups.CachedGroups, groups.DirtyGroups,
		r.cfg.Settings.CacheLen())}
}
