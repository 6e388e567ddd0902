package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/osse101/MessageStats_Go/internal/domain"
	"github.com/osse101/MessageStats_Go/internal/settings"
	"github.com/osse101/MessageStats_Go/internal/validation"
)

// minPushGroupIDLength is the shortest id accepted as a push target.
const minPushGroupIDLength = 5

func (r *Router) registerPushCommands() {
	r.Register(&Command{Name: CmdPushStatus, Admin: true, Handler: r.pushStatus})
	r.Register(&Command{Name: CmdPushNow, Admin: true, Handler: r.pushNow})
	r.Register(&Command{Name: CmdPushTime, Admin: true, Handler: r.pushTime})
	r.Register(&Command{Name: CmdPushGroups, Aliases: []string{"push-add"}, Admin: true, Handler: r.pushGroups})
	r.Register(&Command{Name: CmdPushRemove, Admin: true, Handler: r.pushRemove})
	r.Register(&Command{Name: CmdPushOn, Aliases: []string{"push-enable"}, Admin: true, Handler: r.pushToggle(true)})
	r.Register(&Command{Name: CmdPushOff, Aliases: []string{"push-disable"}, Admin: true, Handler: r.pushToggle(false)})
	r.Register(&Command{Name: CmdPushType, Admin: true, Handler: r.pushType})
}

// update applies a settings mutation and reschedules the push worker.
func (r *Router) update(ctx context.Context, fn func(*domain.Settings) error) (domain.Settings, error) {
	s, err := r.cfg.Settings.Update(ctx, fn)
	if err != nil {
		return s, err
	}
	if r.cfg.Pusher != nil {
		r.cfg.Pusher.Reload()
	}
	return s, nil
}

func (r *Router) pushStatus(ctx context.Context, req Request) Reply {
	s := r.currentSettings(ctx)

	var b strings.Builder
	b.WriteString("Scheduled leaderboard\n")
	fmt.Fprintf(&b, "Status: %s\n", onOff(s.Timer.Enabled))
	fmt.Fprintf(&b, "Time: %s\n", s.Timer.PushTime)
	fmt.Fprintf(&b, "Type: %s\n", s.Timer.RankType)
	mode := ReplyTextMode
	if s.SendImage {
		mode = ReplyImageMode
	}
	fmt.Fprintf(&b, "Mode: %s\n", mode)
	fmt.Fprintf(&b, "Entries: %d\n", s.RankLimit)

	b.WriteString("Target groups:")
	if len(s.Timer.TargetGroups) == 0 {
		b.WriteString(" " + ReplyNone)
	}
	for i, id := range s.Timer.TargetGroups {
		known := ReplyChannelUnknown
		if r.cfg.Origins != nil {
			if _, ok := r.cfg.Origins.Channel(id); ok {
				known = ReplyChannelKnown
			}
		}
		fmt.Fprintf(&b, "\n%d. %s (%s)", i+1, id, known)
	}

	next := ReplyNotScheduled
	if r.cfg.Pusher != nil {
		if st := r.cfg.Pusher.Status(); st.Scheduled {
			next = fmt.Sprintf("%s (in %s)", st.Next.Format(time.DateTime), time.Until(st.Next).Round(time.Minute))
		}
	}
	fmt.Fprintf(&b, "\nNext push: %s", next)
	return Reply{Text: b.String()}
}

func (r *Router) pushNow(ctx context.Context, req Request) Reply {
	if r.cfg.Pusher == nil {
		return Reply{Text: ReplyPushUnavailable}
	}
	report, err := r.cfg.Pusher.PushNow(ctx)
	switch {
	case errors.Is(err, domain.ErrNoPushTargets):
		return Reply{Text: fmt.Sprintf(ReplyPushNoTargets, r.prefix(), r.prefix())}
	case err != nil:
		return failure(ctx, req, err)
	}
	return Reply{Text: fmt.Sprintf(ReplyPushNowDone, len(report.Delivered), len(report.Failed), len(report.Skipped))}
}

func (r *Router) pushTime(ctx context.Context, req Request) Reply {
	usage := Reply{Text: fmt.Sprintf(ReplyPushTimeUsage, r.prefix())}
	if len(req.Args) == 0 {
		return usage
	}
	if req.GroupID == "" {
		return Reply{Text: ReplyGroupOnly}
	}

	s, err := r.update(ctx, settings.SetPushTime(req.Args[0], req.GroupID))
	switch {
	case errors.Is(err, domain.ErrInvalidPushTime):
		return usage
	case err != nil:
		return failure(ctx, req, err)
	}
	return Reply{Text: fmt.Sprintf(ReplyPushTimeSet, s.Timer.PushTime, req.GroupID, s.Timer.RankType)}
}

// pushGroupArgs keeps the arguments that look like group ids.
func pushGroupArgs(args []string) []string {
	var ids []string
	for _, a := range args {
		if len(a) < minPushGroupIDLength || !isDigits(a) {
			continue
		}
		if validation.ValidateGroupID(a) != nil {
			continue
		}
		ids = append(ids, a)
	}
	return ids
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}

func (r *Router) pushGroups(ctx context.Context, req Request) Reply {
	ids := pushGroupArgs(req.Args)
	if len(ids) == 0 {
		return Reply{Text: fmt.Sprintf(ReplyPushGroupsUsage, r.prefix())}
	}
	s, err := r.update(ctx, settings.AddPushTargets(ids...))
	if err != nil {
		return failure(ctx, req, err)
	}
	return Reply{Text: fmt.Sprintf(ReplyPushGroupsSet, strings.Join(s.Timer.TargetGroups, ", "))}
}

func (r *Router) pushRemove(ctx context.Context, req Request) Reply {
	ids := pushGroupArgs(req.Args)
	if len(req.Args) > 0 && len(ids) == 0 {
		return Reply{Text: fmt.Sprintf(ReplyPushGroupsUsage, r.prefix())}
	}
	s, err := r.update(ctx, settings.RemovePushTargets(ids...))
	if err != nil {
		return failure(ctx, req, err)
	}
	if len(s.Timer.TargetGroups) == 0 {
		return Reply{Text: ReplyPushCleared}
	}
	return Reply{Text: fmt.Sprintf(ReplyPushGroupsSet, strings.Join(s.Timer.TargetGroups, ", "))}
}

func (r *Router) pushToggle(on bool) Handler {
	return func(ctx context.Context, req Request) Reply {
		_, err := r.update(ctx, settings.SetPushEnabled(on))
		switch {
		case errors.Is(err, domain.ErrNoPushTargets):
			return Reply{Text: fmt.Sprintf(ReplyPushNoTargets, r.prefix(), r.prefix())}
		case err != nil:
			return failure(ctx, req, err)
		}
		if on {
			return Reply{Text: ReplyPushOn}
		}
		return Reply{Text: ReplyPushOff}
	}
}

func (r *Router) pushType(ctx context.Context, req Request) Reply {
	usage := Reply{Text: fmt.Sprintf(ReplyPushTypeUsage, r.prefix())}
	if len(req.Args) == 0 {
		return usage
	}
	rankType, err := domain.ParseRankType(req.Args[0])
	if err != nil {
		return usage
	}
	s, err := r.update(ctx, settings.SetPushRankType(rankType))
	if err != nil {
		return failure(ctx, req, err)
	}
	return Reply{Text: fmt.Sprintf(ReplyPushTypeSet, s.Timer.RankType)}
}

func onOff(on bool) string {
	if on {
		return ReplyEnabled
	}
	return ReplyDisabled
}
