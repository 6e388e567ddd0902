// Package discord adapts a discordgo session to the command router: it turns
// guild messages into command.Message values, fetches member lists and
// delivers text and chart replies.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/MessageStats_Go/internal/command"
	"github.com/osse101/MessageStats_Go/internal/logger"
	"github.com/osse101/MessageStats_Go/internal/render"
)

// Dispatcher handles one inbound chat message.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg command.Message) (command.Reply, bool)
}

// Bot represents the Discord bot
type Bot struct {
	Session  *discordgo.Session
	router   Dispatcher
	pageSize int

	mu       sync.Mutex
	stopping bool
	handlers sync.WaitGroup
}

// Config holds the bot configuration
type Config struct {
	Token string
}

// New creates a new Discord bot. The router is attached with SetRouter
// because the router itself depends on the bot as member fetcher.
func New(cfg Config) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgCreateSession, err)
	}
	s.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMessages |
		discordgo.IntentGuildMembers |
		discordgo.IntentMessageContent

	return newBot(s), nil
}

func newBot(s *discordgo.Session) *Bot {
	return &Bot{Session: s, pageSize: MemberPageSize}
}

// SetRouter attaches the message dispatcher.
func (b *Bot) SetRouter(router Dispatcher) {
	b.router = router
}

// Start registers the handlers and opens the gateway connection.
func (b *Bot) Start() error {
	b.Session.AddHandler(b.ready)
	b.Session.AddHandler(b.messageCreate)

	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgOpenConnection, err)
	}

	slog.Info(LogMsgBotRunning)
	return nil
}

// Stop closes the gateway connection and waits for message handlers that
// are still running, so nothing records into the store after Stop returns.
func (b *Bot) Stop() error {
	b.mu.Lock()
	b.stopping = true
	b.mu.Unlock()

	err := b.Session.Close()
	b.handlers.Wait()
	slog.Info(LogMsgBotStopped)
	return err
}

// track registers a handler with Stop. It reports false once Stop has begun.
func (b *Bot) track() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopping {
		return false
	}
	b.handlers.Add(1)
	return true
}

// Connected reports whether the gateway session is ready.
func (b *Bot) Connected() bool {
	return b.Session != nil && b.Session.DataReady
}

func (b *Bot) ready(s *discordgo.Session, r *discordgo.Ready) {
	slog.Info(LogMsgBotReady, "user", r.User.Username, "guilds", len(r.Guilds))
}

func (b *Bot) messageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if b.router == nil || m.Author == nil || !b.track() {
		return
	}
	defer b.handlers.Done()
	ctx, cancel := context.WithTimeout(context.Background(), HandlerTimeout)
	defer cancel()
	ctx = logger.WithNewRequestID(ctx)

	reply, handled := b.router.Dispatch(ctx, b.toMessage(ctx, s, m.Message))
	if !handled {
		return
	}
	defer render.Cleanup(ctx, reply)
	if err := b.Send(ctx, m.ChannelID, reply); err != nil {
		logger.ForGroup(ctx, m.GuildID).Error(LogMsgReplyFailed, "error", err)
	}
}

// toMessage translates a gateway message. Direct messages carry no group.
func (b *Bot) toMessage(ctx context.Context, s *discordgo.Session, m *discordgo.Message) command.Message {
	msg := command.Message{
		Platform:   command.PlatformDiscord,
		GroupID:    m.GuildID,
		ChannelID:  m.ChannelID,
		SenderID:   m.Author.ID,
		SenderName: senderName(m),
		Text:       m.Content,
		FromBot:    m.Author.Bot,
	}
	if s.State != nil && s.State.User != nil {
		msg.SelfID = s.State.User.ID
	}
	if m.GuildID == "" {
		return msg
	}

	if m.Member != nil {
		msg.Roles = parseRoles(m.Member.Roles)
	}
	msg.GroupName = guildName(ctx, s, m.GuildID)
	msg.IsAdmin = canManageServer(ctx, s, m)
	return msg
}

// senderName prefers the guild nick, then the global name, then the username.
func senderName(m *discordgo.Message) string {
	if m.Member != nil && m.Member.Nick != "" {
		return m.Member.Nick
	}
	if m.Author.GlobalName != "" {
		return m.Author.GlobalName
	}
	return m.Author.Username
}

// parseRoles converts role snowflakes. The result is non-nil so a member
// without roles clears the stored ones.
func parseRoles(ids []string) []int64 {
	roles := make([]int64, 0, len(ids))
	for _, id := range ids {
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			continue
		}
		roles = append(roles, n)
	}
	return roles
}

func guildName(ctx context.Context, s *discordgo.Session, guildID string) string {
	if s.State != nil {
		if g, err := s.State.Guild(guildID); err == nil && g.Name != "" {
			return g.Name
		}
	}
	g, err := s.Guild(guildID, discordgo.WithContext(ctx))
	if err != nil {
		logger.ForGroup(ctx, guildID).Debug(LogMsgGuildLookup, "error", err)
		return ""
	}
	return g.Name
}

func canManageServer(ctx context.Context, s *discordgo.Session, m *discordgo.Message) bool {
	if s.State == nil {
		return false
	}
	perms, err := s.State.MessagePermissions(m)
	if err != nil {
		logger.ForGroup(ctx, m.GuildID).Debug(LogMsgPermissionCheck, "error", err)
		return false
	}
	return perms&(discordgo.PermissionManageServer|discordgo.PermissionAdministrator) != 0
}
