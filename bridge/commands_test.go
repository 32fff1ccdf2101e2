package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wtaylor/mumble-telegram-bot/logs"
)

func Test_Command_Listener_Answers_Help(t *testing.T) {
	req := require.New(t)
	fake := &fakeTelegram{}
	var polls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/getUpdates") {
			fake.handler()(w, r)
			return
		}
		// First poll carries chatter, a foreign chat, and a real command;
		// everything after is an empty batch.
		if polls.Add(1) == 1 {
			fmt.Fprint(w, `{"ok":true,"result":[`+
				`{"update_id":10,"message":{"text":"hello humans","chat":{"id":1234}}},`+
				`{"update_id":11,"message":{"text":"/help","chat":{"id":9999}}},`+
				`{"update_id":12,"message":{"text":"/help@MumbleBridgeBot","chat":{"id":1234}}}]}`)
			return
		}
		fmt.Fprint(w, `{"ok":true,"result":[]}`)
	}))
	t.Cleanup(server.Close)

	telegram := NewTelegram("test-token", 1234)
	telegram.baseURL = server.URL
	listener := NewCommandListener(logs.GetLoggerFromLevel(slog.LevelError), telegram)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- listener.Run(ctx) }()

	req.Eventually(func() bool {
		return len(fake.texts("sendMessage")) == 1
	}, time.Second, 5*time.Millisecond)
	cancel()
	req.NoError(<-done)

	// Only the command from the configured chat gets an answer
	req.Equal([]string{helpText}, fake.texts("sendMessage"))
	req.Equal(int64(13), listener.offset)
}

func Test_Command_Listener_Stops_On_Cancel_While_Polling(t *testing.T) {
	req := require.New(t)
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		fmt.Fprint(w, `{"ok":true,"result":[]}`)
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	telegram := NewTelegram("test-token", 1234)
	telegram.baseURL = server.URL
	listener := NewCommandListener(logs.GetLoggerFromLevel(slog.LevelError), telegram)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- listener.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(time.Second):
		t.Fatal("listener did not stop on cancel")
	}
}
