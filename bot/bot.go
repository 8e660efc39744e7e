// Package bot holds the gateway-independent types shared by command
// handlers and guards.
package bot

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// MaxMessageLength is Discord's per-message character limit.
const MaxMessageLength = 2000

type Attachment struct {
	Filename string
	URL      string
	Size     int
}

// Message is an incoming chat message.
type Message struct {
	ID          string
	AuthorID    string
	AuthorName  string
	ChannelID   string
	GuildID     string // empty for direct messages
	Content     string
	Attachments []Attachment
}

// IsDirect reports whether the message was sent outside a guild.
func (m *Message) IsDirect() bool {
	return m.GuildID == ""
}

// Gateway is the part of the chat connection the handlers use.
type Gateway interface {
	Send(channelID, content string) error
	GuildMemberIDs(guildID string) ([]string, error)
}

// Context carries one command invocation through guards and handler.
type Context struct {
	context.Context

	Message   *Message
	Command   string
	Args      []string
	RequestID string
	Gateway   Gateway
	Log       *zap.SugaredLogger
}

// Reply sends content back to the channel the command came from, split into
// messages no longer than MaxMessageLength.
func (c *Context) Reply(content string) error {
	for _, part := range SplitMessage(content, MaxMessageLength) {
		if err := c.Gateway.Send(c.Message.ChannelID, part); err != nil {
			c.Log.Errorw("❌ failed to send reply", "channel", c.Message.ChannelID, "error", err)
			return err
		}
	}
	return nil
}

type HandlerFunc func(c *Context) error

// Middleware wraps a handler, typically to reject the invocation early.
type Middleware func(next HandlerFunc) HandlerFunc

// Chain applies mws so the first one runs outermost.
func Chain(h HandlerFunc, mws ...Middleware) HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// SplitMessage breaks content on line boundaries into chunks of at most limit
// bytes. A single line longer than limit is hard-split.
func SplitMessage(content string, limit int) []string {
	if len(content) <= limit {
		return []string{content}
	}

	var parts []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			parts = append(parts, strings.TrimRight(cur.String(), "\n"))
			cur.Reset()
		}
	}
	for _, line := range strings.SplitAfter(content, "\n") {
		for len(line) > limit {
			flush()
			parts = append(parts, line[:limit])
			line = line[limit:]
		}
		if cur.Len()+len(line) > limit {
			flush()
		}
		cur.WriteString(line)
	}
	flush()
	return parts
}
