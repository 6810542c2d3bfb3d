// Package discord exposes note generation as a Discord bot. A DM or mention
// of the form "!rednote 产品 | 风格" runs the agent and replies with the note.
package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/chris/rednote/internal/agent"
)

// Generator produces one note for a product.
type Generator interface {
	Generate(ctx context.Context, product, style string) (*agent.Result, error)
}

// Settings persists the DM target for scheduled deliveries.
type Settings interface {
	SetSetting(key, value string) error
}

type Bot struct {
	session      *discordgo.Session
	gen          Generator
	settings     Settings
	defaultStyle string
}

func NewBot(token string, gen Generator, settings Settings, defaultStyle string) (*Bot, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("creating Discord session: %w", err)
	}

	bot := &Bot{session: s, gen: gen, settings: settings, defaultStyle: defaultStyle}
	s.AddHandler(bot.onMessage)
	s.Identify.Intents = discordgo.IntentsDirectMessages | discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent

	if err := s.Open(); err != nil {
		return nil, fmt.Errorf("opening Discord connection: %w", err)
	}

	slog.Info("Discord bot connected", "user", s.State.User.Username)
	return bot, nil
}

// SendDM delivers content to a user's DM channel, split to Discord's limit.
func (b *Bot) SendDM(userID, content string) error {
	ch, err := b.session.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("opening DM channel: %w", err)
	}
	for _, chunk := range splitMessage(content, maxMessageLen) {
		if _, err := b.session.ChannelMessageSend(ch.ID, chunk); err != nil {
			return fmt.Errorf("sending DM: %w", err)
		}
	}
	return nil
}

func (b *Bot) Close() {
	b.session.Close()
}
