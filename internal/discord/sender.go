package discord

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/MessageStats_Go/internal/logger"
	"github.com/osse101/MessageStats_Go/internal/metrics"
	"github.com/osse101/MessageStats_Go/internal/render"
)

// Send delivers out to a channel: the chart image when present, the text
// otherwise. A rejected upload falls back to the text when there is any.
// Long text is split on line boundaries. The image file is left for the
// caller to clean up.
func (b *Bot) Send(ctx context.Context, channelID string, out render.Output) error {
	hasText := strings.TrimSpace(out.Text) != ""
	if out.ImagePath != "" {
		err := b.sendImage(ctx, channelID, out.ImagePath)
		if err == nil || !hasText {
			return err
		}
		metrics.RenderFallbacks.Inc()
		logger.FromContext(ctx).Warn(LogMsgImageFallback, logger.AttrKeyChannelID, channelID, "error", err)
	}
	if !hasText {
		return errors.New(ErrMsgEmptyReply)
	}
	for _, chunk := range splitMessage(out.Text, MaxMessageLength) {
		if _, err := b.Session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{Content: chunk}, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgSendMessage, err)
		}
	}
	return nil
}

func (b *Bot) sendImage(ctx context.Context, channelID, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgOpenImage, err)
	}
	defer f.Close()

	data := &discordgo.MessageSend{
		Files: []*discordgo.File{{
			Name:        filepath.Base(path),
			ContentType: ImageContentType,
			Reader:      f,
		}},
	}
	if _, err := b.Session.ChannelMessageSendComplex(channelID, data, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgSendMessage, err)
	}
	return nil
}

// splitMessage cuts text into chunks of at most limit bytes, breaking after
// a newline where possible.
func splitMessage(text string, limit int) []string {
	var chunks []string
	for len(text) > limit {
		cut := strings.LastIndexByte(text[:limit], '\n')
		if cut <= 0 {
			cut = limit
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
		}
		chunks = append(chunks, strings.TrimRight(text[:cut], "\n"))
		text = strings.TrimLeft(text[cut:], "\n")
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}
