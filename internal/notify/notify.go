// Package notify broadcasts audit lines to the configured admin chats.
package notify

import (
	"context"
	"log/slog"
)

// Notifier delivers an audit line. Delivery is best effort: a Notify call
// never fails the operation that triggered it.
type Notifier interface {
	Notify(ctx context.Context, text string)
}

// Sender is the outbound half of the chat client used for fanout.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// AdminNotifier sends each audit line to every configured admin chat.
type AdminNotifier struct {
	sender Sender
	admins []int64
	log    *slog.Logger
}

func NewAdminNotifier(sender Sender, admins []int64, log *slog.Logger) *AdminNotifier {
	return &AdminNotifier{sender: sender, admins: admins, log: log}
}

// Notify sends text to each admin chat. Individual send failures are
// logged and swallowed.
func (n *AdminNotifier) Notify(ctx context.Context, text string) {
	for _, chatID := range n.admins {
		if err := n.sender.SendMessage(ctx, chatID, text); err != nil {
			n.log.Warn("admin notification failed", "chat_id", chatID, "error", err)
		}
	}
}

// Nop discards every notification. Used in tests and when the bot is not
// configured.
type Nop struct{}

func (Nop) Notify(context.Context, string) {}
