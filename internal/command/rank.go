package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/osse101/MessageStats_Go/internal/domain"
	"github.com/osse101/MessageStats_Go/internal/render"
	"github.com/osse101/MessageStats_Go/internal/stats"
	"github.com/osse101/MessageStats_Go/internal/validation"
)

// RankQuery is the parsed argument list of a rank command.
type RankQuery struct {
	GroupID  string
	Platform string
	// Roles is non-nil exactly when a roles= argument was given.
	Roles []int64
}

// ParseRankQuery reads a bare group id, group_id=, guild_id=, the discord
// hint and roles= from args. Unknown key=value pairs are treated like a
// bare argument.
func ParseRankQuery(args []string) RankQuery {
	var q RankQuery
	for _, arg := range args {
		if key, value, ok := strings.Cut(arg, "="); ok {
			key = strings.ToLower(strings.TrimSpace(key))
			value = strings.TrimSpace(value)
			switch key {
			case argKeyGroupID:
				q.GroupID = value
				continue
			case argKeyGuildID:
				q.GroupID = value
				q.Platform = PlatformDiscord
				continue
			case argKeyRoles:
				q.Roles = ParseRoles(value)
				continue
			}
		}

		if strings.EqualFold(arg, PlatformDiscord) {
			q.Platform = PlatformDiscord
			continue
		}
		if q.GroupID == "" {
			q.GroupID = strings.TrimSpace(arg)
		}
	}
	return q
}

// ParseRoles parses a comma separated id list into a sorted, de-duplicated
// slice. Unparsable parts are dropped; the result is never nil.
func ParseRoles(value string) []int64 {
	roles := []int64{}
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		roles = append(roles, id)
	}
	if len(roles) == 0 {
		return roles
	}
	return domain.NormalizeRoles(roles)
}

var rankCommands = []struct {
	name     string
	aliases  []string
	rankType domain.RankType
}{
	{CmdRank, []string{"leaderboard", "msgrank", "rank-total"}, domain.RankTotal},
	{CmdRankDaily, []string{"rank-today", "today-rank", "rank-day"}, domain.RankDaily},
	{CmdRankWeekly, []string{"rank-week", "week-rank"}, domain.RankWeekly},
	{CmdRankMonthly, []string{"rank-month", "month-rank"}, domain.RankMonthly},
	{CmdRankYearly, []string{"rank-year", "year-rank"}, domain.RankYearly},
	{CmdRankLastYear, []string{"rank-last-year", "lastyear-rank"}, domain.RankLastYear},
}

func (r *Router) registerRankCommands() {
	for _, rc := range rankCommands {
		rankType := rc.rankType
		r.Register(&Command{
			Name:    rc.name,
			Aliases: rc.aliases,
			Handler: func(ctx context.Context, req Request) Reply {
				return r.showRank(ctx, req, rankType)
			},
		})
	}
}

// resolveTarget applies the hint and role rules and picks the group to rank.
func (r *Router) resolveTarget(req Request, q RankQuery) (string, *Reply) {
	if q.Roles != nil {
		if q.Platform != PlatformDiscord {
			return "", &Reply{Text: fmt.Sprintf(ReplyRolesNeedHint, r.prefix())}
		}
		if len(q.Roles) == 0 {
			return "", &Reply{Text: ReplyRolesMalformed}
		}
	}

	target := q.GroupID
	if target == "" && q.Platform != "" && q.Platform != req.Platform {
		return "", &Reply{Text: fmt.Sprintf(ReplyNeedTarget, r.prefix())}
	}
	if target == "" {
		target = req.GroupID
	}
	if target == "" {
		return "", &Reply{Text: ReplyGroupOnly}
	}
	if err := validation.ValidateGroupID(target); err != nil {
		return "", &Reply{Text: fmt.Sprintf(ReplyInvalidGroupID, r.prefix())}
	}
	return target, nil
}

func (r *Router) showRank(ctx context.Context, req Request, rankType domain.RankType) Reply {
	q := ParseRankQuery(req.Args)
	target, usage := r.resolveTarget(req, q)
	if usage != nil {
		return *usage
	}

	settings := r.currentSettings(ctx)
	if settings.IsGroupBlocked(target) {
		return Reply{Text: ReplyGroupExcluded}
	}

	result, err := r.cfg.Stats.GetRank(ctx, stats.RankRequest{GroupID: target, Type: rankType, Roles: q.Roles})
	switch {
	case errors.Is(err, domain.ErrGroupNotFound):
		return Reply{Text: render.UnknownGroupReply}
	case errors.Is(err, domain.ErrInvalidGroupID):
		return Reply{Text: fmt.Sprintf(ReplyInvalidGroupID, r.prefix())}
	case err != nil:
		return failure(ctx, req, err)
	}

	if q.Roles != nil && len(result.Entries) == 0 {
		return Reply{Text: ReplyNoRoleMatches}
	}
	view := render.NewView(result, settings.RankLimit)
	return r.cfg.Presenter.Present(ctx, view, settings.SendImage)
}
