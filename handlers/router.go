package handlers

import (
	"context"
	"sort"
	"strings"

	"deck-tracker-bot/bot"
	"deck-tracker-bot/services"

	"github.com/google/uuid"
	"github.com/mattn/go-shellwords"
	"go.uber.org/zap"
)

// Command is one entry of the command table.
type Command struct {
	Name    string
	Usage   string
	Help    string
	Handler bot.HandlerFunc
}

// PromptHandler advances an interactive prompt with the caller's reply.
type PromptHandler func(c *bot.Context, p *services.Prompt) error

// Router maps prefixed chat messages to command handlers and routes plain
// replies to the caller's pending prompt.
type Router struct {
	prefix   string
	gateway  bot.Gateway
	prompts  *services.PromptTracker
	log      *zap.SugaredLogger
	commands map[string]*Command

	OnPromptReply PromptHandler
}

func NewRouter(prefix string, gateway bot.Gateway, prompts *services.PromptTracker, log *zap.SugaredLogger) *Router {
	return &Router{
		prefix:   prefix,
		gateway:  gateway,
		prompts:  prompts,
		log:      log,
		commands: map[string]*Command{},
	}
}

// Register adds a command; mws run before h, outermost first.
func (r *Router) Register(name, usage, help string, h bot.HandlerFunc, mws ...bot.Middleware) {
	r.commands[name] = &Command{
		Name:    name,
		Usage:   usage,
		Help:    help,
		Handler: bot.Chain(h, mws...),
	}
}

// Commands returns the command table sorted by name.
func (r *Router) Commands() []*Command {
	cmds := make([]*Command, 0, len(r.commands))
	for _, c := range r.commands {
		cmds = append(cmds, c)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

// Prefix is the command trigger, e.g. "!".
func (r *Router) Prefix() string {
	return r.prefix
}

// ParseCommand splits "!name arg1 "arg two"" into name and arguments.
// ok is false when content does not start with prefix.
func ParseCommand(prefix, content string) (name string, args []string, ok bool) {
	content = strings.TrimSpace(content)
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", nil, false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(content, prefix))
	if rest == "" {
		return "", nil, false
	}

	words, err := shellwords.Parse(rest)
	if err != nil || len(words) == 0 {
		// unbalanced quotes, e.g. an apostrophe in a card name
		words = strings.Fields(rest)
	}
	return strings.ToLower(words[0]), words[1:], true
}

// Handle processes one incoming message to completion.
func (r *Router) Handle(ctx context.Context, m *bot.Message) {
	c := &bot.Context{
		Context:   ctx,
		Message:   m,
		RequestID: uuid.NewString(),
		Gateway:   r.gateway,
	}

	name, args, ok := ParseCommand(r.prefix, m.Content)
	if !ok {
		r.handlePromptReply(c)
		return
	}

	cmd, found := r.commands[name]
	if !found {
		r.log.Debugw("unknown command", "command", name, "user", m.AuthorID)
		return
	}

	c.Command = name
	c.Args = args
	c.Log = r.log.With("request_id", c.RequestID, "command", name, "user", m.AuthorID, "channel", m.ChannelID)
	c.Log.Infow("➡️ command received", "args", len(args))

	if err := cmd.Handler(c); err != nil {
		c.Log.Errorw("❌ command failed", "error", err)
		_ = c.Reply("Something went wrong while running `" + name + "`. Please try again later.")
	}
}

func (r *Router) handlePromptReply(c *bot.Context) {
	if r.OnPromptReply == nil {
		return
	}
	p, ok := r.prompts.Take(services.PromptKey{UserID: c.Message.AuthorID, ChannelID: c.Message.ChannelID})
	if !ok {
		return
	}

	c.Command = "prompt:" + p.State.String()
	c.Log = r.log.With("request_id", c.RequestID, "command", c.Command, "user", c.Message.AuthorID, "channel", c.Message.ChannelID)
	if err := r.OnPromptReply(c, p); err != nil {
		c.Log.Errorw("❌ prompt reply failed", "error", err)
		_ = c.Reply("Something went wrong while processing your reply. Please try again later.")
	}
}
