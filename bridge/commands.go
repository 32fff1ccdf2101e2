package bridge

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

const (
	helpCommand    = "/help"
	helpText       = "The following commands are supported:\n/help - Display this help text"
	pollRetryDelay = 5 * time.Second
)

// CommandListener long-polls the Bot API and answers commands posted in the
// bridge's chat. Messages from any other chat are ignored, as is anything
// that is not a known command.
type CommandListener struct {
	log      *slog.Logger
	telegram *Telegram
	offset   int64
}

func NewCommandListener(log *slog.Logger, telegram *Telegram) *CommandListener {
	return &CommandListener{log: log, telegram: telegram}
}

// Run polls until ctx ends. A failed poll is retried after a delay; it
// never ends the loop on its own.
func (l *CommandListener) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		updates, err := l.telegram.GetUpdates(ctx, l.offset)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			l.log.Error("Polling telegram updates failed", "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(pollRetryDelay):
			}
			continue
		}
		for _, update := range updates {
			l.offset = update.UpdateID + 1
			l.handle(ctx, update)
		}
	}
}

func (l *CommandListener) handle(ctx context.Context, update Update) {
	if update.Message == nil || update.Message.Chat.ID != l.telegram.chatID {
		return
	}
	// Group chats address commands as /help@BotName.
	command, _, _ := strings.Cut(strings.TrimSpace(update.Message.Text), "@")
	switch command {
	case helpCommand:
		if _, err := l.telegram.SendMessage(ctx, helpText); err != nil {
			l.log.Error("Answering command failed", "command", command, "error", err)
		}
	}
}
