package repositories

import (
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_Record_Multiple_Messages(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()

	repository := NewMessageRepository(db, slog.Default(), nil)
	at := time.Now().UTC()
	archived := []ArchivedMessage{
		{uuid.New(), "Alice", "this message will self destruct in 5 seconds", at},
		{uuid.New(), "Bob", "too late", at.Add(1 * time.Minute)},
		{uuid.New(), "Clara", "boom", at.Add(2 * time.Minute)},
	}
	for _, am := range archived {
		err = repository.StoreMessage(am)
		req.NoError(err)
	}
	fetched, _, err := repository.GetMessages(nil)
	req.NoError(err)
	req.Len(fetched, len(archived))
	// Newest first
	req.Equal(archived[2], fetched[0])
	req.Equal(archived[1], fetched[1])
	req.Equal(archived[0], fetched[2])
}

func Test_Record_Multiple_Messages_And_Limit(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()

	limit := 2
	repository := NewMessageRepository(db, slog.Default(), &limit)
	at := time.Now().UTC()
	for i, sender := range []string{"Alice", "Bob", "Clara"} {
		err = repository.StoreMessage(ArchivedMessage{
			ID:      uuid.New(),
			Sender:  sender,
			Content: "hello",
			At:      at.Add(time.Duration(i) * time.Minute),
		})
		req.NoError(err)
	}
	fetched, cursor, err := repository.GetMessages(nil)
	req.NoError(err)
	req.Len(fetched, limit)
	req.Equal("Clara", fetched[0].Sender)
	req.Equal("Bob", fetched[1].Sender)

	// The cursor resumes the scan where the first page stopped
	rest, _, err := repository.GetMessages(cursor)
	req.NoError(err)
	req.Len(rest, 1)
	req.Equal("Alice", rest[0].Sender)
}
