package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/MessageStats_Go/internal/domain"
	"github.com/osse101/MessageStats_Go/internal/logger"
)

// FetchMembers pages through the guild member list. Retrying is left to the
// caller.
func (b *Bot) FetchMembers(ctx context.Context, groupID string) ([]domain.Member, error) {
	var (
		members []domain.Member
		after   string
	)
	for {
		page, err := b.Session.GuildMembers(groupID, after, b.pageSize, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFetchMembers, err)
		}
		for _, m := range page {
			if m.User == nil {
				continue
			}
			members = append(members, toMember(m))
			after = m.User.ID
		}
		if len(page) < b.pageSize {
			break
		}
	}

	logger.ForGroup(ctx, groupID).Debug(LogMsgMembersFetched, logger.AttrKeyCount, len(members))
	return members, nil
}

func toMember(m *discordgo.Member) domain.Member {
	name := m.User.GlobalName
	if name == "" {
		name = m.User.Username
	}
	return domain.Member{UserID: m.User.ID, Card: m.Nick, Nickname: name}
}
