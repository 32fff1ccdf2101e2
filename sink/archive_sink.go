package sink

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wtaylor/mumble-telegram-bot/domain"
	"github.com/wtaylor/mumble-telegram-bot/repositories"
)

// ArchiveSink writes every text message seen on the server to the BadgerDB
// archive. Other events pass through untouched.
type ArchiveSink struct {
	repository repositories.IMessageRepository
	log        *slog.Logger
	now        func() time.Time
}

func NewArchiveSink(repository repositories.IMessageRepository, log *slog.Logger) ArchiveSink {
	return ArchiveSink{repository: repository, log: log, now: time.Now}
}

func (a ArchiveSink) Consume(_ context.Context, e domain.Event) error {
	switch evt := e.(type) {
	case domain.TextMessagePosted:
		return a.repository.StoreMessage(toArchivedMessage(evt, a.now()))
	default:
		return nil
	}
}

func toArchivedMessage(event domain.TextMessagePosted, at time.Time) repositories.ArchivedMessage {
	sender := domain.UnknownUserName
	if event.Sender != nil {
		sender = event.Sender.Name
	}
	return repositories.ArchivedMessage{
		ID:      uuid.New(),
		Sender:  sender,
		Content: event.Message,
		At:      at,
	}
}
