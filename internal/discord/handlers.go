package discord

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/chris/rednote/internal/agent"
	"github.com/chris/rednote/internal/render"
)

const (
	commandPrefix   = "!rednote"
	maxMessageLen   = 2000
	generateTimeout = 5 * time.Minute

	usageText     = "用法：`!rednote 产品名称 | 风格`，例如 `!rednote 深海蓝藻保湿面膜 | 活泼甜美`"
	exhaustedText = "没能在限定轮次内生成文案，请稍后再试。"
	failedText    = "生成失败了，请稍后再试。"
)

type command struct {
	product string
	style   string
}

// parseCommand reads "!rednote product | style". The style part is optional.
func parseCommand(content, defaultStyle string) (command, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(content), commandPrefix)
	if !ok {
		return command{}, false
	}
	product, style, _ := strings.Cut(rest, "|")
	cmd := command{product: strings.TrimSpace(product), style: strings.TrimSpace(style)}
	if cmd.product == "" {
		return command{}, false
	}
	if cmd.style == "" {
		cmd.style = defaultStyle
	}
	return cmd, true
}

func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore own messages
	if m.Author.ID == s.State.User.ID {
		return
	}

	// Only respond to DMs or when mentioned
	isDM := m.GuildID == ""
	isMentioned := false
	for _, u := range m.Mentions {
		if u.ID == s.State.User.ID {
			isMentioned = true
			break
		}
	}
	if !isDM && !isMentioned {
		return
	}

	if isDM && b.settings != nil {
		if err := b.settings.SetSetting("discord_user_id", m.Author.ID); err != nil {
			slog.Warn("storing DM user", "err", err)
		}
	}

	content := strings.TrimSpace(stripMention(m.Content, s.State.User.ID))
	if content == "" {
		return
	}
	cmd, ok := parseCommand(content, b.defaultStyle)
	if !ok {
		s.ChannelMessageSend(m.ChannelID, usageText)
		return
	}

	s.ChannelTyping(m.ChannelID)
	for _, chunk := range splitMessage(b.reply(cmd), maxMessageLen) {
		s.ChannelMessageSend(m.ChannelID, chunk)
	}
}

// reply runs the generation and returns the text to post.
func (b *Bot) reply(cmd command) string {
	ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
	defer cancel()

	res, err := b.gen.Generate(ctx, cmd.product, cmd.style)
	switch {
	case errors.Is(err, agent.ErrBudgetExhausted):
		slog.Warn("generation exhausted", "product", cmd.product, "err", err)
		return exhaustedText
	case err != nil:
		slog.Error("generation failed", "product", cmd.product, "err", err)
		return failedText
	}
	return render.Markdown(res.Artifact)
}

func stripMention(s, userID string) string {
	s = strings.ReplaceAll(s, "<@"+userID+">", "")
	s = strings.ReplaceAll(s, "<@!"+userID+">", "")
	return s
}

// splitMessage cuts s into chunks of at most maxLen bytes, preferring newline
// boundaries and never splitting a UTF-8 sequence.
func splitMessage(s string, maxLen int) []string {
	if len(s) <= maxLen {
		return []string{s}
	}
	var chunks []string
	for len(s) > 0 {
		end := maxLen
		if end > len(s) {
			end = len(s)
		}
		// Try to split at a newline
		if idx := strings.LastIndex(s[:end], "\n"); idx > 0 {
			end = idx + 1
		} else {
			for end > 1 && end < len(s) && !utf8.RuneStart(s[end]) {
				end--
			}
		}
		chunks = append(chunks, s[:end])
		s = s[end:]
	}
	return chunks
}
