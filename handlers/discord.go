package handlers

import (
	"context"
	"fmt"

	"deck-tracker-bot/bot"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const guildMembersPageSize = 1000

// DiscordGateway adapts a discordgo session to bot.Gateway.
type DiscordGateway struct {
	session *discordgo.Session
	log     *zap.SugaredLogger
}

func NewDiscordGateway(token string, log *zap.SugaredLogger) (*DiscordGateway, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsMessageContent
	return &DiscordGateway{session: session, log: log}, nil
}

func (g *DiscordGateway) Send(channelID, content string) error {
	_, err := g.session.ChannelMessageSend(channelID, content)
	return err
}

// GuildMemberIDs pages through every current member of the guild.
func (g *DiscordGateway) GuildMemberIDs(guildID string) ([]string, error) {
	var ids []string
	after := ""
	for {
		members, err := g.session.GuildMembers(guildID, after, guildMembersPageSize)
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			if m.User != nil {
				ids = append(ids, m.User.ID)
			}
		}
		if len(members) < guildMembersPageSize || members[len(members)-1].User == nil {
			return ids, nil
		}
		after = members[len(members)-1].User.ID
	}
}

// Open connects to Discord and feeds every human-authored message to handle.
func (g *DiscordGateway) Open(ctx context.Context, handle func(context.Context, *bot.Message)) error {
	g.session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		g.log.Infow("🤖 bot is ready", "user", r.User.Username, "guilds", len(r.Guilds))
	})
	g.session.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.Bot {
			return
		}
		handle(ctx, toMessage(m.Message))
	})
	return g.session.Open()
}

func (g *DiscordGateway) Close() error {
	return g.session.Close()
}

func toMessage(m *discordgo.Message) *bot.Message {
	msg := &bot.Message{
		ID:         m.ID,
		AuthorID:   m.Author.ID,
		AuthorName: m.Author.Username,
		ChannelID:  m.ChannelID,
		GuildID:    m.GuildID,
		Content:    m.Content,
	}
	for _, a := range m.Attachments {
		msg.Attachments = append(msg.Attachments, bot.Attachment{
			Filename: a.Filename,
			URL:      a.URL,
			Size:     a.Size,
		})
	}
	return msg
}
