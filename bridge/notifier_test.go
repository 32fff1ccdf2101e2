package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/wtaylor/mumble-telegram-bot/domain"
	"github.com/wtaylor/mumble-telegram-bot/logs"
)

// fakeTelegram records every Bot API call and answers sendMessage with
// incrementing message ids.
type fakeTelegram struct {
	mu            sync.Mutex
	nextMessageID int64
	calls         []apiCall
}

type apiCall struct {
	Method string
	Params map[string]any
}

func (f *fakeTelegram) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params map[string]any
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]

		f.mu.Lock()
		f.calls = append(f.calls, apiCall{Method: method, Params: params})
		f.nextMessageID++
		id := f.nextMessageID
		f.mu.Unlock()

		fmt.Fprintf(w, `{"ok":true,"result":{"message_id":%d}}`, id)
	}
}

func (f *fakeTelegram) recorded() []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]apiCall(nil), f.calls...)
}

func (f *fakeTelegram) texts(method string) []string {
	var texts []string
	for _, call := range f.recorded() {
		if call.Method == method {
			texts = append(texts, call.Params["text"].(string))
		}
	}
	return texts
}

func newTestNotifier(t *testing.T, fake *fakeTelegram, onlineUsers func() []domain.User, ignoreBots bool) *TelegramNotifier {
	t.Helper()
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)

	telegram := NewTelegram("test-token", 1234)
	telegram.baseURL = server.URL

	states := NewStateFile(filepath.Join(t.TempDir(), "bridge_state.json"))
	return NewTelegramNotifier(logs.GetLoggerFromLevel(slog.LevelError), telegram, states, onlineUsers, ignoreBots)
}

func Test_Join_Sends_Notice_And_Pins_Roster(t *testing.T) {
	req := require.New(t)
	fake := &fakeTelegram{}
	alice := domain.User{Session: 1, Name: "Alice"}
	notifier := newTestNotifier(t, fake, func() []domain.User { return []domain.User{alice} }, false)

	req.NoError(notifier.Consume(context.Background(), domain.UserJoinedServer{User: alice}))

	sent := fake.texts("sendMessage")
	req.Equal([]string{"🎧➕ Alice joined mumble", emptyRosterText}, sent)

	calls := fake.recorded()
	req.Equal("pinChatMessage", calls[2].Method)
	req.Equal(float64(2), calls[2].Params["message_id"])

	edits := fake.texts("editMessageText")
	req.Equal([]string{"🎧 Mumble: 1 users online (Alice)"}, edits)
}

func Test_Leave_Edits_Existing_Pinned_Roster(t *testing.T) {
	req := require.New(t)
	fake := &fakeTelegram{}
	notifier := newTestNotifier(t, fake, func() []domain.User { return nil }, false)
	req.NoError(notifier.states.Save(PersistentState{PinnedRosterMessageID: lo.ToPtr(int64(7))}))

	req.NoError(notifier.Consume(context.Background(), domain.UserLeftServer{User: domain.User{Name: "Alice"}}))

	// No new message, no pin, just an edit of message 7
	calls := fake.recorded()
	req.Len(calls, 1)
	req.Equal("editMessageText", calls[0].Method)
	req.Equal(float64(7), calls[0].Params["message_id"])
	req.Equal(emptyRosterText, calls[0].Params["text"])
}

func Test_Bot_Users_Are_Filtered_Out(t *testing.T) {
	req := require.New(t)
	fake := &fakeTelegram{}
	online := []domain.User{
		{Session: 1, Name: "Alice"},
		{Session: 2, Name: "MusicBot"},
	}
	notifier := newTestNotifier(t, fake, func() []domain.User { return online }, true)
	req.NoError(notifier.states.Save(PersistentState{PinnedRosterMessageID: lo.ToPtr(int64(7))}))

	// A bot joining produces no notice, only the roster refresh
	req.NoError(notifier.Consume(context.Background(), domain.UserJoinedServer{User: online[1]}))
	req.Empty(fake.texts("sendMessage"))
	req.Equal([]string{"🎧 Mumble: 1 users online (Alice)"}, fake.texts("editMessageText"))

	// A bot's text message is not relayed
	req.NoError(notifier.Consume(context.Background(), domain.TextMessagePosted{Message: "hi", Sender: &online[1]}))
	req.Empty(fake.texts("sendMessage"))
}

func Test_Text_Message_Is_Relayed(t *testing.T) {
	req := require.New(t)
	fake := &fakeTelegram{}
	notifier := newTestNotifier(t, fake, func() []domain.User { return nil }, false)

	alice := domain.User{Session: 1, Name: "Alice"}
	req.NoError(notifier.Consume(context.Background(), domain.TextMessagePosted{Message: "hello there", Sender: &alice}))
	req.NoError(notifier.Consume(context.Background(), domain.TextMessagePosted{Message: "who said that"}))

	req.Equal([]string{"💬 Alice: hello there", "💬 Unknown: who said that"}, fake.texts("sendMessage"))
}

func Test_Channel_Events_Are_Ignored(t *testing.T) {
	req := require.New(t)
	fake := &fakeTelegram{}
	notifier := newTestNotifier(t, fake, func() []domain.User { return nil }, false)

	req.NoError(notifier.Consume(context.Background(), domain.ChannelCreated{Channel: domain.Channel{ID: 1, Name: "General"}}))
	req.Empty(fake.recorded())
}

func Test_Telegram_Error_Is_Reported(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"ok":false,"description":"chat not found"}`)
	}))
	t.Cleanup(server.Close)

	telegram := NewTelegram("test-token", 1234)
	telegram.baseURL = server.URL

	_, err := telegram.SendMessage(context.Background(), "hello")
	req.ErrorContains(err, "chat not found")
}
