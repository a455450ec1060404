// Package bot runs the chat channel: a sequential long-poll loop over
// the Telegram Bot API, command routing, and the password-confirmation
// flow for privileged actions.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/numpanel/apiserver/internal/notify"
	"github.com/numpanel/apiserver/internal/services"
	"github.com/numpanel/apiserver/internal/session"
	"github.com/numpanel/apiserver/types"
)

const (
	pollTimeoutSec = 20
	retryDelay     = 500 * time.Millisecond
)

// API is the slice of the Telegram client the bot needs. Tests supply a
// scripted implementation.
type API interface {
	GetUpdates(ctx context.Context, offset int64, timeoutSec int) ([]Update, error)
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendPhoto(ctx context.Context, chatID int64, photoURL, caption string) error
}

// actionRoles gates each sudo verb at issue time.
var actionRoles = map[string][]string{
	"addnumber":   {types.RoleAdmin, types.RoleReseller},
	"delnumber":   {types.RoleAdmin, types.RoleReseller},
	"listnumbers": {types.RoleAdmin, types.RoleReseller, types.RoleUser},
}

// Bot processes chat updates one at a time, in arrival order.
type Bot struct {
	api      API
	log      *slog.Logger
	users    *services.UserService
	numbers  *services.NumberService
	sessions *session.Registry
	notifier notify.Notifier
	sudo     *sudoFlow
}

func New(api API, log *slog.Logger, users *services.UserService, numbers *services.NumberService, sessions *session.Registry, notifier notify.Notifier) *Bot {
	return &Bot{
		api:      api,
		log:      log,
		users:    users,
		numbers:  numbers,
		sessions: sessions,
		notifier: notifier,
		sudo:     newSudoFlow(),
	}
}

// Run polls for updates until ctx is cancelled. Transport errors are
// logged and retried after a short delay; the loop never dies on them.
func (b *Bot) Run(ctx context.Context) {
	var offset int64
	for {
		updates, err := b.api.GetUpdates(ctx, offset, pollTimeoutSec)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			b.log.Warn("poll failed", "error", err)
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				return
			}
			continue
		}
		for _, upd := range updates {
			offset = upd.UpdateID + 1
			b.HandleUpdate(ctx, upd)
		}
	}
}

// HandleUpdate processes a single update. Errors stay inside: a broken
// update must not take the poll loop down with it.
func (b *Bot) HandleUpdate(ctx context.Context, upd Update) {
	if upd.Message == nil {
		return
	}
	text := strings.TrimSpace(upd.Message.Text)
	if text == "" {
		return
	}
	chatID := upd.Message.Chat.ID
	fromID := chatID
	if upd.Message.From != nil {
		fromID = upd.Message.From.ID
	}

	switch {
	case strings.HasPrefix(text, "/start"):
		b.handleStart(ctx, chatID, fromID)
	case strings.HasPrefix(text, "/login"):
		b.handleLogin(ctx, chatID, fromID, text)
	case strings.HasPrefix(text, "/menu"):
		b.handleMenu(ctx, chatID, fromID)
	case strings.HasPrefix(text, "/sudo"):
		b.handleSudo(ctx, chatID, fromID, text)
	default:
		if action, ok := b.sudo.Take(fromID); ok {
			b.confirmSudo(ctx, chatID, fromID, action, text)
		}
	}
}

func (b *Bot) handleStart(ctx context.Context, chatID, fromID int64) {
	if _, ok := b.sessions.ResolveChat(fromID); !ok {
		b.send(ctx, chatID, "Welcome. Please login with /login username password")
		return
	}
	if err := b.api.SendPhoto(ctx, chatID, "", startMenu); err != nil {
		b.log.Warn("send failed", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) handleLogin(ctx context.Context, chatID, fromID int64, text string) {
	parts := strings.Fields(text)
	if len(parts) < 3 {
		b.send(ctx, chatID, "Usage: /login username password")
		return
	}
	username, password := parts[1], parts[2]

	user, err := b.users.Authenticate(username, password, chatSource(fromID))
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			b.send(ctx, chatID, "Invalid credentials")
		} else {
			b.log.Error("login failed", "error", err)
			b.send(ctx, chatID, "Login temporarily unavailable")
		}
		return
	}

	b.sessions.CreateChat(fromID, user.Username, user.Role)
	b.send(ctx, chatID, fmt.Sprintf("Logged in as %s (%s). Use /menu to see options.", user.Username, user.Role))
}

func (b *Bot) handleMenu(ctx context.Context, chatID, fromID int64) {
	sess, ok := b.sessions.ResolveChat(fromID)
	if !ok {
		b.send(ctx, chatID, "Please /login first")
		return
	}
	b.send(ctx, chatID, menuForRole(sess.Role))
}

// handleSudo gates the action by role before asking for the password, so
// an unauthorized user learns about the missing permission right away
// instead of after typing their password.
func (b *Bot) handleSudo(ctx context.Context, chatID, fromID int64, text string) {
	parts := strings.Fields(text)
	if len(parts) < 2 {
		b.send(ctx, chatID, "Usage: /sudo [action] - you'll be prompted for password")
		return
	}

	sess, ok := b.sessions.ResolveChat(fromID)
	if !ok {
		b.send(ctx, chatID, "Please /login first")
		return
	}

	verb := parts[1]
	allowed, known := actionRoles[verb]
	if !known {
		b.send(ctx, chatID, "Unknown action")
		return
	}
	if !slices.Contains(allowed, sess.Role) {
		b.send(ctx, chatID, "Permission denied")
		return
	}

	b.sudo.Begin(fromID, strings.Join(parts[1:], " "))
	b.send(ctx, chatID, "Please reply with your password to confirm for sudo action.")
}

// confirmSudo handles the message following a /sudo prompt. The pending
// action has already been consumed by the caller.
func (b *Bot) confirmSudo(ctx context.Context, chatID, fromID int64, action, password string) {
	sess, ok := b.sessions.ResolveChat(fromID)
	if !ok {
		b.send(ctx, chatID, "Session expired, please /login")
		return
	}
	if !b.users.VerifyPassword(sess.Username, password) {
		b.send(ctx, chatID, "Wrong password")
		b.users.RecordFailedLogin(sess.Username, chatSource(fromID))
		return
	}
	b.runAction(ctx, chatID, sess, action)
}

func (b *Bot) runAction(ctx context.Context, chatID int64, sess types.Session, action string) {
	parts := strings.Fields(action)
	verb := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch verb {
	case "addnumber":
		err := b.numbers.Add(ctx, arg)
		switch {
		case err == nil:
			b.send(ctx, chatID, "Number added")
			b.notifier.Notify(ctx, fmt.Sprintf("[BOT] %s added %s", sess.Username, arg))
		case errors.Is(err, services.ErrInvalidNumber):
			b.send(ctx, chatID, "Invalid number")
		case errors.Is(err, services.ErrNumberExists):
			b.send(ctx, chatID, "Already exists")
		default:
			b.send(ctx, chatID, "Failed to update")
		}
	case "delnumber":
		err := b.numbers.Remove(ctx, arg)
		switch {
		case err == nil:
			b.send(ctx, chatID, "Deleted")
			b.notifier.Notify(ctx, fmt.Sprintf("[BOT] %s deleted %s", sess.Username, arg))
		case errors.Is(err, services.ErrNumberNotFound):
			b.send(ctx, chatID, "Not found")
		default:
			b.send(ctx, chatID, "Failed to update")
		}
	case "listnumbers":
		items, err := b.numbers.List(ctx)
		if err != nil {
			b.send(ctx, chatID, "Failed to fetch numbers")
			return
		}
		b.send(ctx, chatID, "Numbers:\n"+strings.Join(items, "\n"))
	default:
		b.send(ctx, chatID, "Unknown action")
	}
}

func (b *Bot) send(ctx context.Context, chatID int64, text string) {
	if err := b.api.SendMessage(ctx, chatID, text); err != nil {
		b.log.Warn("send failed", "chat_id", chatID, "error", err)
	}
}

func chatSource(id int64) string {
	return "tg:" + strconv.FormatInt(id, 10)
}
