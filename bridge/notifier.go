package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/wtaylor/mumble-telegram-bot/domain"
)

const emptyRosterText = "🎧 Mumble: 0 users online"

// TelegramNotifier mirrors Mumble presence into a Telegram chat. Joins get a
// one-off notice, text messages are relayed, and a single pinned message
// holds the current roster, edited in place on every presence change. The
// pinned message id survives restarts through the state file.
type TelegramNotifier struct {
	log         *slog.Logger
	telegram    *Telegram
	states      *StateFile
	onlineUsers func() []domain.User
	ignoreBots  bool
}

func NewTelegramNotifier(log *slog.Logger, telegram *Telegram, states *StateFile, onlineUsers func() []domain.User, ignoreBots bool) *TelegramNotifier {
	return &TelegramNotifier{
		log:         log,
		telegram:    telegram,
		states:      states,
		onlineUsers: onlineUsers,
		ignoreBots:  ignoreBots,
	}
}

func (n *TelegramNotifier) Consume(ctx context.Context, e domain.Event) error {
	switch event := e.(type) {
	case domain.UserJoinedServer:
		if n.ignored(event.User) {
			return nil
		}
		notice := fmt.Sprintf("🎧➕ %s joined mumble", event.User.Name)
		if _, err := n.telegram.SendMessage(ctx, notice); err != nil {
			return fmt.Errorf("sending join notice: %w", err)
		}
		return n.refreshRoster(ctx)
	case domain.UserLeftServer, domain.UserUpdated:
		return n.refreshRoster(ctx)
	case domain.TextMessagePosted:
		return n.relayText(ctx, event)
	default:
		return nil
	}
}

func (n *TelegramNotifier) relayText(ctx context.Context, event domain.TextMessagePosted) error {
	sender := domain.UnknownUserName
	if event.Sender != nil {
		if n.ignored(*event.Sender) {
			return nil
		}
		sender = event.Sender.Name
	}
	if _, err := n.telegram.SendMessage(ctx, fmt.Sprintf("💬 %s: %s", sender, event.Message)); err != nil {
		return fmt.Errorf("relaying text message: %w", err)
	}
	return nil
}

// refreshRoster edits the pinned roster message to match the current online
// users, creating and pinning the message first if none exists yet.
func (n *TelegramNotifier) refreshRoster(ctx context.Context) error {
	messageID, err := n.pinnedMessageID(ctx)
	if err != nil {
		return err
	}
	if err := n.telegram.EditMessageText(ctx, messageID, n.rosterText()); err != nil {
		return fmt.Errorf("updating roster message: %w", err)
	}
	return nil
}

func (n *TelegramNotifier) rosterText() string {
	users := n.onlineUsers()
	if n.ignoreBots {
		users = lo.Filter(users, func(user domain.User, _ int) bool {
			return !user.InferIsBot()
		})
	}
	if len(users) == 0 {
		return emptyRosterText
	}
	names := lo.Map(users, func(user domain.User, _ int) string {
		return user.Name
	})
	return fmt.Sprintf("🎧 Mumble: %d users online (%s)", len(users), strings.Join(names, ", "))
}

func (n *TelegramNotifier) pinnedMessageID(ctx context.Context) (int64, error) {
	state, err := n.states.Load()
	if err != nil {
		return 0, fmt.Errorf("loading persistent state: %w", err)
	}
	if state.PinnedRosterMessageID != nil {
		return *state.PinnedRosterMessageID, nil
	}

	n.log.Info("No pinned roster message on record, creating one")
	messageID, err := n.telegram.SendMessage(ctx, emptyRosterText)
	if err != nil {
		return 0, fmt.Errorf("creating roster message: %w", err)
	}
	if err := n.telegram.PinChatMessage(ctx, messageID); err != nil {
		return 0, fmt.Errorf("pinning roster message: %w", err)
	}
	state.PinnedRosterMessageID = lo.ToPtr(messageID)
	if err := n.states.Save(state); err != nil {
		return 0, fmt.Errorf("saving pinned message id: %w", err)
	}
	return messageID, nil
}

func (n *TelegramNotifier) ignored(user domain.User) bool {
	return n.ignoreBots && user.InferIsBot()
}
