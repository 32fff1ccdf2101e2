// Package bridge forwards domain events from a Mumble connection to
// Telegram: join notices, text relay, and a pinned roster message edited in
// place. It subscribes to the client's event stream and fans every event out
// to its sinks. A companion listener answers commands posted in the chat.
package bridge

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/wtaylor/mumble-telegram-bot/broadcast"
	"github.com/wtaylor/mumble-telegram-bot/contract"
	"github.com/wtaylor/mumble-telegram-bot/domain"
)

// Bridge pumps the event subscription into its sinks.
//
// It provides best-effort fan-out with no guarantees regarding delivery,
// ordering across sinks, durability, or retries. A sink error is logged and
// never stops the loop.
type Bridge struct {
	log         *slog.Logger
	events      *broadcast.Receiver[domain.Event]
	sinks       []contract.EventSink
	sinkTimeout time.Duration
}

func NewBridge(log *slog.Logger, events *broadcast.Receiver[domain.Event], sinkTimeout time.Duration) *Bridge {
	return &Bridge{log: log, events: events, sinkTimeout: sinkTimeout}
}

func (b *Bridge) Add(sinks ...contract.EventSink) *Bridge {
	b.sinks = append(b.sinks, sinks...)
	return b
}

// Run consumes events until the stream closes (connection over) or ctx
// ends. Falling behind the event broadcast is logged and skipped over.
func (b *Bridge) Run(ctx context.Context) error {
	for {
		e, err := b.events.Recv(ctx)
		if err != nil {
			var lag *broadcast.LagError
			if errors.As(err, &lag) {
				b.log.Warn("Bridge lagged behind the event stream", "missed", lag.Missed)
				continue
			}
			if errors.Is(err, broadcast.ErrClosed) {
				b.log.Info("Event stream closed, bridge stopping")
			}
			return nil
		}
		b.Fanout(ctx, e)
	}
}

// Fanout hands one event to every sink, each under its own timeout.
func (b *Bridge) Fanout(ctx context.Context, e domain.Event) {
	for _, sink := range b.sinks {
		sinkCtx, cancel := context.WithTimeout(ctx, b.sinkTimeout)
		if err := sink.Consume(sinkCtx, e); err != nil {
			b.log.Error("Sink failed to consume event", "event", e.Name(), "error", err)
		}
		cancel()
	}
}
