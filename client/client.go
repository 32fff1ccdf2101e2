package client

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/samber/lo"

	"github.com/wtaylor/mumble-telegram-bot/broadcast"
	"github.com/wtaylor/mumble-telegram-bot/control"
	"github.com/wtaylor/mumble-telegram-bot/domain"
)

// Client is the stateful layer: it follows the inbound packet broadcast,
// keeps the server/channel/user aggregates consistent, and emits domain
// events whenever an aggregate actually changes.
//
// Events produced before the server finishes its initial state replay update
// the aggregates but are withheld from subscribers, so a fresh connection
// does not look like everybody joining at once.
type Client struct {
	Raw *RawClient

	log    *slog.Logger
	events *broadcast.Broadcaster[domain.Event]

	mu       sync.Mutex
	server   domain.Server
	channels map[uint32]domain.Channel
	users    map[uint32]domain.User
}

// Connect establishes the connection and starts the reconstruction engine.
func Connect(ctx context.Context, cfg Config, log *slog.Logger) (*Client, error) {
	raw, err := connectRaw(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	c := &Client{
		Raw:      raw,
		log:      log,
		events:   broadcast.New[domain.Event](queueCapacity),
		channels: make(map[uint32]domain.Channel),
		users:    make(map[uint32]domain.User),
	}

	// Subscribe before the loops start so the engine observes the state
	// replay from its very first packet.
	raw.sup.Add(&engineWorker{client: c, packets: raw.packets.Subscribe()})
	raw.start()
	return c, nil
}

// SubscribeEvents yields domain events emitted after the initial sync, in
// the order they were produced.
func (c *Client) SubscribeEvents() *broadcast.Receiver[domain.Event] {
	return c.events.Subscribe()
}

// OnlineUsers snapshots every currently known user.
func (c *Client) OnlineUsers() []domain.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return lo.Values(c.users)
}

// ServerState snapshots the server aggregate.
func (c *Client) ServerState() domain.Server {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.server
}

// Done closes when the connection has ended.
func (c *Client) Done() <-chan struct{} {
	return c.Raw.Done()
}

func (c *Client) Close() error {
	return c.Raw.Close()
}

// engineWorker is the single consumer that serializes all state mutation.
type engineWorker struct {
	client  *Client
	packets *broadcast.Receiver[control.Message]
}

func (w *engineWorker) Run(ctx context.Context) error {
	for {
		pkt, err := w.packets.Recv(ctx)
		if err != nil {
			var lag *broadcast.LagError
			if errors.As(err, &lag) {
				// State may now be stale until the server repeats itself;
				// there is nothing to replay, so note it and move on.
				w.client.log.Warn("State engine lagged behind the packet stream", "missed", lag.Missed)
				continue
			}
			w.client.events.Close()
			return nil
		}
		w.client.apply(pkt)
	}
}

// apply mutates the aggregates under the lock, then publishes outside it.
// The lock spans exactly one message and never a suspension point.
func (c *Client) apply(pkt control.Message) {
	c.mu.Lock()
	events := c.handle(pkt)
	synced := c.server.Synced
	c.mu.Unlock()

	if !synced {
		return
	}
	for _, e := range events {
		c.events.Send(e)
	}
}

// handle applies one packet to the aggregates and returns the semantic
// changes. Message types outside this dispatch carry no state and are
// dropped without error.
func (c *Client) handle(pkt control.Message) []domain.Event {
	switch p := pkt.(type) {
	case *control.ServerSync:
		return c.server.ApplySync(p)
	case *control.ServerConfig:
		return c.server.ApplyConfig(p)
	case *control.Version:
		return c.server.ApplyVersion(p)
	case *control.ChannelState:
		return c.handleChannelState(p)
	case *control.ChannelRemove:
		return c.handleChannelRemove(p)
	case *control.UserState:
		return c.handleUserState(p)
	case *control.UserRemove:
		return c.handleUserRemove(p)
	case *control.TextMessage:
		return c.handleTextMessage(p)
	default:
		return nil
	}
}

func (c *Client) handleChannelState(pkt *control.ChannelState) []domain.Event {
	if pkt.ChannelID == nil {
		return nil
	}
	channel, known := c.channels[*pkt.ChannelID]
	if !known {
		created := domain.NewChannel(pkt)
		c.channels[created.ID] = created
		return []domain.Event{domain.ChannelCreated{Channel: created}}
	}
	events := channel.Apply(pkt)
	c.channels[channel.ID] = channel
	return events
}

func (c *Client) handleChannelRemove(pkt *control.ChannelRemove) []domain.Event {
	if pkt.ChannelID == nil {
		return nil
	}
	channel, known := c.channels[*pkt.ChannelID]
	if !known {
		return nil
	}
	delete(c.channels, *pkt.ChannelID)
	return []domain.Event{domain.ChannelDeleted{Channel: channel}}
}

func (c *Client) handleUserState(pkt *control.UserState) []domain.Event {
	if pkt.Session == nil {
		return nil
	}
	user, known := c.users[*pkt.Session]
	if !known {
		joined := domain.NewUser(pkt)
		c.users[joined.Session] = joined
		return []domain.Event{domain.UserJoinedServer{User: joined}}
	}
	events := user.Apply(pkt)
	c.users[user.Session] = user
	return events
}

func (c *Client) handleUserRemove(pkt *control.UserRemove) []domain.Event {
	if pkt.Session == nil {
		return nil
	}
	user, known := c.users[*pkt.Session]
	if !known {
		return nil
	}
	delete(c.users, *pkt.Session)
	return []domain.Event{domain.UserLeftServer{User: user}}
}

// handleTextMessage never diffs anything: every text packet is an event.
// The sender snapshot is attached when the actor session is known.
func (c *Client) handleTextMessage(pkt *control.TextMessage) []domain.Event {
	if pkt.Message == nil {
		return nil
	}
	var sender *domain.User
	if pkt.Actor != nil {
		if user, known := c.users[*pkt.Actor]; known {
			sender = &user
		}
	}
	return []domain.Event{domain.TextMessagePosted{Message: *pkt.Message, Sender: sender}}
}
