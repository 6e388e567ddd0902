// Package command turns chat messages into statistics updates and command
// replies. It knows nothing about the chat platform beyond the Message it
// is handed.
package command

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/text/width"

	"github.com/osse101/MessageStats_Go/internal/domain"
	"github.com/osse101/MessageStats_Go/internal/logger"
	"github.com/osse101/MessageStats_Go/internal/metrics"
	"github.com/osse101/MessageStats_Go/internal/nickname"
	"github.com/osse101/MessageStats_Go/internal/render"
	"github.com/osse101/MessageStats_Go/internal/settings"
	"github.com/osse101/MessageStats_Go/internal/stats"
	"github.com/osse101/MessageStats_Go/internal/store"
	"github.com/osse101/MessageStats_Go/internal/worker"
)

// Message is one inbound chat message.
type Message struct {
	Platform   string
	GroupID    string
	GroupName  string
	ChannelID  string
	SenderID   string
	SelfID     string
	SenderName string
	Text       string
	// Roles is nil when the platform reported none.
	Roles   []int64
	FromBot bool
	IsAdmin bool
}

// Reply is the single message sent back for a command.
type Reply = render.Output

// NicknameRefresher rebuilds the nickname caches of a group.
type NicknameRefresher interface {
	Refresh(ctx context.Context, groupID string) (int, error)
	Stats() nickname.CacheStats
}

// Pusher runs and reschedules the scheduled leaderboard push.
type Pusher interface {
	PushNow(ctx context.Context) (worker.PushReport, error)
	Reload()
	Status() worker.PushStatus
}

// Origins remembers the channel each group was last seen on.
type Origins interface {
	Remember(groupID, channelID string)
	Channel(groupID string) (string, bool)
}

// StoreStats reports group cache occupancy.
type StoreStats interface {
	Stats() store.Stats
}

// Config wires a Router. Names, Pusher and Store may be nil.
type Config struct {
	Stats     stats.Service
	Settings  settings.Service
	Presenter *render.Presenter
	Names     NicknameRefresher
	Pusher    Pusher
	Origins   Origins
	Store     StoreStats
	Prefixes  string
}

// Handler executes a parsed command and returns its reply.
type Handler func(ctx context.Context, req Request) Reply

// Request is a parsed command invocation.
type Request struct {
	Message
	Name string
	Args []string
}

// Command describes one registered command.
type Command struct {
	Name    string
	Aliases []string
	// Admin commands are refused unless the sender may manage the server.
	Admin   bool
	Handler Handler
}

// Router observes every message and dispatches prefixed ones to commands.
type Router struct {
	cfg      Config
	prefixes []rune
	commands map[string]*Command
}

// NewRouter creates a router with every rank, admin and push command registered.
func NewRouter(cfg Config) *Router {
	if cfg.Presenter == nil {
		cfg.Presenter = render.NewPresenter(nil)
	}
	r := &Router{
		cfg:      cfg,
		prefixes: []rune(width.Fold.String(cfg.Prefixes)),
		commands: make(map[string]*Command),
	}
	r.registerRankCommands()
	r.registerAdminCommands()
	r.registerPushCommands()
	return r
}

// Register adds a command under its name and aliases.
func (r *Router) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.commands[alias] = cmd
	}
}

// Lookup finds a command by name or alias.
func (r *Router) Lookup(name string) (*Command, bool) {
	cmd, ok := r.commands[strings.ToLower(name)]
	return cmd, ok
}

// Dispatch handles one inbound message. Plain messages are recorded; a
// prefixed message naming a known command yields exactly one reply.
// handled is false when nothing should be sent back.
func (r *Router) Dispatch(ctx context.Context, msg Message) (reply Reply, handled bool) {
	if msg.FromBot || (msg.SelfID != "" && msg.SenderID == msg.SelfID) {
		metrics.MessagesSkipped.WithLabelValues(SkipReasonBot).Inc()
		return Reply{}, false
	}

	text := width.Fold.String(strings.TrimSpace(msg.Text))
	if !r.isCommand(text) {
		r.Observe(ctx, msg)
		return Reply{}, false
	}

	fields := strings.Fields(string([]rune(text)[1:]))
	if len(fields) == 0 {
		return Reply{}, false
	}
	cmd, ok := r.Lookup(fields[0])
	if !ok {
		return Reply{}, false
	}

	metrics.Commands.WithLabelValues(cmd.Name).Inc()
	if cmd.Admin && !msg.IsAdmin {
		return Reply{Text: ReplyNeedsAdmin}, true
	}
	return cmd.Handler(ctx, Request{Message: msg, Name: cmd.Name, Args: fields[1:]}), true
}

// Observe records a non-command message and remembers its channel.
func (r *Router) Observe(ctx context.Context, msg Message) {
	if msg.GroupID == "" {
		metrics.MessagesSkipped.WithLabelValues(SkipReasonNoGroup).Inc()
		return
	}
	if r.cfg.Origins != nil {
		r.cfg.Origins.Remember(msg.GroupID, msg.ChannelID)
	}

	recorded, err := r.cfg.Stats.RecordMessage(ctx, stats.Message{
		GroupID:    msg.GroupID,
		GroupName:  msg.GroupName,
		UserID:     msg.SenderID,
		SenderName: msg.SenderName,
		Roles:      msg.Roles,
	})
	switch {
	case err != nil:
		metrics.MessagesSkipped.WithLabelValues(SkipReasonRecordFailed).Inc()
		logger.ForGroup(ctx, msg.GroupID).Error(LogMsgRecordFailed, "error", err)
	case !recorded:
		metrics.MessagesSkipped.WithLabelValues(SkipReasonRejected).Inc()
	}
}

func (r *Router) isCommand(text string) bool {
	for _, c := range text {
		for _, p := range r.prefixes {
			if c == p {
				return true
			}
		}
		return false
	}
	return false
}

// prefix is the primary command prefix used in usage hints.
func (r *Router) prefix() string {
	if len(r.prefixes) == 0 {
		return ""
	}
	return string(r.prefixes[0])
}

// currentSettings falls back to defaults so a settings outage never blocks a reply.
func (r *Router) currentSettings(ctx context.Context) domain.Settings {
	s, err := r.cfg.Settings.Get(ctx)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgCommandFailed, "error", err)
		return domain.DefaultSettings()
	}
	return s
}

// failure maps an unexpected error to the generic retry reply.
func failure(ctx context.Context, req Request, err error) Reply {
	log := logger.FromContext(ctx)
	if errors.Is(err, domain.ErrStorage) {
		log.Error(LogMsgCommandFailed, "command", req.Name, logger.AttrKeyGroupID, req.GroupID, "error", err)
	} else {
		log.Warn(LogMsgCommandFailed, "command", req.Name, logger.AttrKeyGroupID, req.GroupID, "error", err)
	}
	return Reply{Text: ReplyTryAgainLater}
}
