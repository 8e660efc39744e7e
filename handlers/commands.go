package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"deck-tracker-bot/bot"
	"deck-tracker-bot/middleware"
	"deck-tracker-bot/services"
	"deck-tracker-bot/utils"
)

// CommandHandlers implements every chat command.
type CommandHandlers struct {
	Users      *services.UserService
	Decks      *services.DeckService
	Archetypes *services.ArchetypeService
	Matches    *services.MatchService
	Matchups   *services.MatchupService
	Prompts    *services.PromptTracker

	// Download fetches an attachment body
	Download func(ctx context.Context, url string) ([]byte, error)
	// Now dates logged matches
	Now func() time.Time

	router *Router
}

// SetupCommands registers the command table on r and routes prompt replies
// to h.
func SetupCommands(r *Router, h *CommandHandlers, ownerID string) {
	h.router = r
	if h.Download == nil {
		h.Download = func(ctx context.Context, url string) ([]byte, error) {
			return utils.Download(ctx, url, utils.MaxDeckListSize)
		}
	}
	if h.Now == nil {
		h.Now = time.Now
	}

	registered := middleware.Registered(h.Users)

	r.Register("register", "", "Register your account.", h.Register)
	r.Register("add_deck", "<deck_name> + attached deck list", "Add a deck; its archetype is detected from the list.", h.AddDeck, registered)
	r.Register("add_archetype", "", "Define a new archetype (owner only).", h.AddArchetype, middleware.OwnerOnly(ownerID))
	r.Register("log_match", "<deck_name> <won|lost>", "Log a match result for one of your decks.", h.LogMatch, registered)
	r.Register("matchup_spread", "<archetype>", "Win/loss record of an archetype by opponent, for this server.", h.MatchupSpread, middleware.GuildOnly())
	r.Register("matchup_history", "<archetype>", "Every match played with an archetype, for this server.", h.MatchupHistory, middleware.GuildOnly())
	r.Register("my_decks", "", "List your decks.", h.MyDecks, registered)
	r.Register("archetypes", "", "List known archetypes and their key cards.", h.ListArchetypes)
	r.Register("cancel", "", "Cancel the question the bot is waiting on.", h.Cancel)
	r.Register("help", "", "Show this list.", h.Help)

	r.OnPromptReply = h.PromptReply
}

func (h *CommandHandlers) usage(c *bot.Context) error {
	for _, cmd := range h.router.Commands() {
		if cmd.Name == c.Command {
			return c.Reply(fmt.Sprintf("Usage: `%s%s %s`", h.router.Prefix(), cmd.Name, cmd.Usage))
		}
	}
	return nil
}

func promptKey(c *bot.Context) services.PromptKey {
	return services.PromptKey{UserID: c.Message.AuthorID, ChannelID: c.Message.ChannelID}
}

// expireNotice sends msg to the prompt's channel when it times out.
func expireNotice(c *bot.Context, msg string) func() {
	gw, channelID, log := c.Gateway, c.Message.ChannelID, c.Log
	return func() {
		if err := gw.Send(channelID, msg); err != nil {
			log.Errorw("❌ failed to send timeout notice", "error", err)
		}
	}
}

// Register is idempotent.
func (h *CommandHandlers) Register(c *bot.Context) error {
	_, err := h.Users.Register(c, c.Message.AuthorID, c.Message.AuthorName)
	switch {
	case errors.Is(err, services.ErrAlreadyRegistered):
		return c.Reply("You are already registered.")
	case err != nil:
		return err
	}
	c.Log.Infow("✅ user registered", "username", c.Message.AuthorName)
	return c.Reply("You have been registered.")
}

func (h *CommandHandlers) AddDeck(c *bot.Context) error {
	deckName := strings.TrimSpace(strings.Join(c.Args, " "))
	if deckName == "" {
		return h.usage(c)
	}
	if len(c.Message.Attachments) == 0 {
		return c.Reply("Please attach your deck list as a text file.")
	}
	att := c.Message.Attachments[0]
	if att.Size > utils.MaxDeckListSize {
		return c.Reply("That file is too large to be a deck list.")
	}

	content, err := h.Download(c, att.URL)
	if err != nil {
		return fmt.Errorf("download attachment %s: %w", att.Filename, err)
	}

	deck, err := h.Decks.AddDeck(c, c.Message.AuthorID, deckName, content)
	switch {
	case errors.Is(err, services.ErrNotRegistered):
		return c.Reply("You need to register first.")
	case errors.Is(err, services.ErrDeckExists):
		return c.Reply(fmt.Sprintf("You already have a deck named %q.", deckName))
	case err != nil:
		return err
	}

	c.Log.Infow("✅ deck added", "deck", deck.Name, "archetype", deck.Archetype.Name)
	return c.Reply(fmt.Sprintf("Deck %q has been added with archetype %q.", deck.Name, deck.Archetype.Name))
}

func (h *CommandHandlers) AddArchetype(c *bot.Context) error {
	h.Prompts.Start(&services.Prompt{
		Key:      promptKey(c),
		State:    services.AwaitingName,
		OnExpire: expireNotice(c, "Timed out waiting for a response. Archetype creation cancelled."),
	}, services.ArchetypePromptTimeout)
	return c.Reply("Please enter the name of the new archetype.")
}

func (h *CommandHandlers) LogMatch(c *bot.Context) error {
	if len(c.Args) < 2 {
		return h.usage(c)
	}
	deckName := strings.Join(c.Args[:len(c.Args)-1], " ")
	resultToken := c.Args[len(c.Args)-1]

	pending, err := h.Matches.Prepare(c, c.Message.AuthorID, deckName, resultToken)
	switch {
	case errors.Is(err, services.ErrNotRegistered):
		return c.Reply("You need to register first.")
	case errors.Is(err, services.ErrDeckNotFound):
		return c.Reply("Deck not found.")
	case errors.Is(err, services.ErrInvalidResult):
		return c.Reply("Invalid result. Use `won`, `win` or `1` for a win and `lost`, `lose` or `2` for a loss.")
	case err != nil:
		return err
	}

	if _, err := h.Archetypes.EnsureOthers(c); err != nil {
		return err
	}
	archetypes, err := h.Archetypes.List(c)
	if err != nil {
		return err
	}
	choices := make([]string, len(archetypes))
	var b strings.Builder
	b.WriteString("Select the opponent's archetype by number:\n")
	for i, a := range archetypes {
		choices[i] = a.Name
		fmt.Fprintf(&b, "%d. %s\n", i+1, a.Name)
	}

	h.Prompts.Start(&services.Prompt{
		Key:      promptKey(c),
		State:    services.AwaitingArchetypeChoice,
		Match:    pending,
		Choices:  choices,
		OnExpire: expireNotice(c, "Timed out waiting for a response. Match not logged."),
	}, services.MatchPromptTimeout)
	return c.Reply(b.String())
}

func (h *CommandHandlers) MatchupSpread(c *bot.Context) error {
	report, ok, err := h.matchupReport(c)
	if err != nil || !ok {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Matchup spread for archetype %q: %s.\n\n", report.Archetype, report.Summary())
	b.WriteString("By opponent archetype:\n")
	for _, o := range report.Spread {
		fmt.Fprintf(&b, "%s: %d wins and %d losses\n", o.Opponent, o.Wins, o.Losses)
	}
	b.WriteString("\n")
	writeDetails(&b, report.Entries)
	return c.Reply(b.String())
}

func (h *CommandHandlers) MatchupHistory(c *bot.Context) error {
	report, ok, err := h.matchupReport(c)
	if err != nil || !ok {
		return err
	}
	return c.Reply(FormatHistory(report))
}

// FormatHistory renders the summary line and one line per match.
func FormatHistory(report *services.MatchupReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Matchup history for archetype %q: %s.\n\n", report.Archetype, report.Summary())
	writeDetails(&b, report.Entries)
	return b.String()
}

func writeDetails(b *strings.Builder, entries []services.MatchupEntry) {
	b.WriteString("Detailed matchups:\n")
	for _, e := range entries {
		date := "-"
		if e.Date != nil {
			date = e.Date.Format("2006-01-02")
		}
		fmt.Fprintf(b, "Date: %s, Player: %s, Deck: %s, Result: %s, Opponent Archetype: %s\n",
			date, e.Player, e.DeckName, e.Result, e.OpponentArchetype)
	}
}

// matchupReport resolves the archetype argument and the guild's members.
// ok is false when a reply has already been sent.
func (h *CommandHandlers) matchupReport(c *bot.Context) (*services.MatchupReport, bool, error) {
	name := strings.TrimSpace(strings.Join(c.Args, " "))
	if name == "" {
		return nil, false, h.usage(c)
	}

	members, err := c.Gateway.GuildMemberIDs(c.Message.GuildID)
	if err != nil {
		return nil, false, fmt.Errorf("list guild members: %w", err)
	}
	if members == nil {
		members = []string{}
	}

	report, err := h.Matchups.Report(c, name, members)
	if errors.Is(err, services.ErrArchetypeNotFound) {
		return nil, false, c.Reply(fmt.Sprintf("Unknown archetype %q.", name))
	}
	if err != nil {
		return nil, false, err
	}
	if len(report.Entries) == 0 {
		return nil, false, c.Reply(fmt.Sprintf("No matches found for archetype %q.", report.Archetype))
	}
	return report, true, nil
}

func (h *CommandHandlers) MyDecks(c *bot.Context) error {
	decks, err := h.Decks.ListDecks(c, c.Message.AuthorID)
	if err != nil {
		return err
	}
	if len(decks) == 0 {
		return c.Reply("You have no decks yet.")
	}
	var b strings.Builder
	b.WriteString("Your decks:\n")
	for _, d := range decks {
		fmt.Fprintf(&b, "%s (%s)\n", d.Name, d.Archetype.Name)
	}
	return c.Reply(b.String())
}

func (h *CommandHandlers) ListArchetypes(c *bot.Context) error {
	archetypes, err := h.Archetypes.List(c)
	if err != nil {
		return err
	}
	if len(archetypes) == 0 {
		return c.Reply("No archetypes defined yet.")
	}
	var b strings.Builder
	b.WriteString("Known archetypes:\n")
	for _, a := range services.OrderForMatching(archetypes) {
		if a.KeyCards == "" {
			fmt.Fprintf(&b, "%s\n", a.Name)
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", a.Name, a.KeyCards)
	}
	return c.Reply(b.String())
}

func (h *CommandHandlers) Cancel(c *bot.Context) error {
	if h.Prompts.Cancel(promptKey(c)) {
		return c.Reply("Cancelled.")
	}
	return c.Reply("Nothing to cancel.")
}

func (h *CommandHandlers) Help(c *bot.Context) error {
	var b strings.Builder
	b.WriteString("Commands:\n")
	for _, cmd := range h.router.Commands() {
		line := h.router.Prefix() + cmd.Name
		if cmd.Usage != "" {
			line += " " + cmd.Usage
		}
		fmt.Fprintf(&b, "`%s` %s\n", line, cmd.Help)
	}
	return c.Reply(b.String())
}

// PromptReply advances the interactive flow waiting on the caller.
func (h *CommandHandlers) PromptReply(c *bot.Context, p *services.Prompt) error {
	reply := strings.TrimSpace(c.Message.Content)

	switch p.State {
	case services.AwaitingName:
		if reply == "" {
			return c.Reply("The archetype name must not be empty. Archetype creation cancelled.")
		}
		p.ArchetypeName = reply
		p.State = services.AwaitingKeyCards
		h.Prompts.Start(p, services.ArchetypePromptTimeout)
		return c.Reply("Please enter the key cards, separated by commas.")

	case services.AwaitingKeyCards:
		archetype, err := h.Archetypes.Create(c, p.ArchetypeName, services.ParseKeyCards(reply))
		switch {
		case errors.Is(err, services.ErrArchetypeExists):
			return c.Reply(fmt.Sprintf("An archetype named %q already exists.", p.ArchetypeName))
		case errors.Is(err, services.ErrNoKeyCards):
			return c.Reply("At least one key card is required. Archetype creation cancelled.")
		case errors.Is(err, services.ErrEmptyName):
			return c.Reply("The archetype name must not be empty. Archetype creation cancelled.")
		case err != nil:
			return err
		}
		c.Log.Infow("✅ archetype added", "archetype", archetype.Name, "key_cards", archetype.KeyCards)
		return c.Reply(fmt.Sprintf("Archetype %q with key cards %q has been added.", archetype.Name, archetype.KeyCards))

	case services.AwaitingArchetypeChoice:
		opponent, err := p.Choose(reply)
		if err != nil {
			return c.Reply("Invalid selection. Match not logged.")
		}
		match, err := h.Matches.Record(c, p.Match, opponent, h.Now())
		if errors.Is(err, services.ErrArchetypeNotFound) {
			return c.Reply("Invalid selection. Match not logged.")
		}
		if err != nil {
			return err
		}
		c.Log.Infow("✅ match logged", "deck", p.Match.DeckName, "result", match.Result, "opponent", match.OpponentArchetype)
		return c.Reply(fmt.Sprintf("Match for deck %q with result %q against archetype %q logged.",
			p.Match.DeckName, match.Result, match.OpponentArchetype))
	}

	return fmt.Errorf("unknown prompt state %d", p.State)
}
