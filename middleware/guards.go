package middleware

import (
	"errors"

	"deck-tracker-bot/bot"
	"deck-tracker-bot/services"
)

// GuildOnly rejects commands sent as direct messages.
func GuildOnly() bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(c *bot.Context) error {
			if c.Message.IsDirect() {
				c.Log.Infow("🚫 guild-only command used in DM", "command", c.Command)
				return c.Reply("This command can only be used in a server channel.")
			}
			return next(c)
		}
	}
}

// OwnerOnly restricts a command to the configured owner account.
func OwnerOnly(ownerID string) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(c *bot.Context) error {
			if ownerID == "" || c.Message.AuthorID != ownerID {
				c.Log.Warnw("🚫 owner-only command refused", "command", c.Command, "user", c.Message.AuthorID)
				return c.Reply("You are not authorized to use this command.")
			}
			return next(c)
		}
	}
}

// Registered rejects callers without a User record.
func Registered(users *services.UserService) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(c *bot.Context) error {
			_, err := users.GetByDiscordID(c, c.Message.AuthorID)
			if errors.Is(err, services.ErrNotRegistered) {
				return c.Reply("You need to register first.")
			}
			if err != nil {
				return err
			}
			return next(c)
		}
	}
}
