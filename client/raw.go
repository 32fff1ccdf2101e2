// Package client connects to a Mumble server and rebuilds its state.
//
// RawClient owns the TLS connection and the duplex packet routing; Client
// layers the state reconstruction engine and the domain event stream on top.
// A dropped connection is terminal for either: reconnecting is the caller's
// decision.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"syscall"
	"time"

	"github.com/samber/lo"

	"github.com/wtaylor/mumble-telegram-bot/broadcast"
	"github.com/wtaylor/mumble-telegram-bot/control"
	apperrors "github.com/wtaylor/mumble-telegram-bot/errors"
	"github.com/wtaylor/mumble-telegram-bot/runtime/workers"
)

const (
	queueCapacity     = 32
	keepaliveInterval = 10 * time.Second
)

// RawClient exposes the live connection as an outbound submission queue and
// an inbound packet broadcast. It performs the handshake during connect and
// keeps the link alive with scheduled pings; it attaches no meaning to the
// packets it moves.
type RawClient struct {
	log      *slog.Logger
	conn     net.Conn
	codec    *control.Codec
	outbound chan control.Message
	packets  *broadcast.Broadcaster[control.Message]
	sup      *workers.Supervisor
	runCtx   context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

// ConnectRaw dials, handshakes, and starts the duplex loops. Any failure up
// to and including the handshake fails the whole attempt; no partially
// connected client is ever returned.
func ConnectRaw(ctx context.Context, cfg Config, log *slog.Logger) (*RawClient, error) {
	c, err := connectRaw(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	c.start()
	return c, nil
}

// connectRaw builds a fully handshaked client whose loops are not yet
// running, so a caller can subscribe before the first packet is broadcast.
func connectRaw(ctx context.Context, cfg Config, log *slog.Logger) (*RawClient, error) {
	conn, err := dialTLS(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", cfg.ConnectAddress(), err)
	}

	codec := control.NewCodec(conn)
	if err := handshake(codec, cfg, log); err != nil {
		_ = conn.Close()
		return nil, err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	c := &RawClient{
		log:      log,
		conn:     conn,
		codec:    codec,
		outbound: make(chan control.Message, queueCapacity),
		packets:  broadcast.New[control.Message](queueCapacity),
		sup:      workers.NewSupervisor(log),
		runCtx:   runCtx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	c.sup.Add(
		&outboundWorker{log: log, codec: codec, queue: c.outbound},
		&inboundWorker{log: log, codec: codec, packets: c.packets, done: c.done, cancel: cancel},
		&keepaliveWorker{log: log, interval: keepaliveInterval, send: c.Send},
	)
	return c, nil
}

func (c *RawClient) start() {
	go c.sup.Run(c.runCtx)
}

// handshake drives the strictly ordered connect sequence: identity,
// credentials, then the initial muted-and-deafened presence (this client
// never transmits audio). There is no timeout here; an unresponsive server
// stalls the connect call.
func handshake(codec *control.Codec, cfg Config, log *slog.Logger) error {
	log.Info("Exchanging version information")
	if err := codec.Write(clientVersion()); err != nil {
		return fmt.Errorf("sending version info: %w", err)
	}

	log.Info("Authenticating with server", "username", cfg.Username)
	authenticate := &control.Authenticate{
		Username: lo.ToPtr(cfg.Username),
		Password: cfg.Password,
		Opus:     lo.ToPtr(true),
	}
	if err := codec.Write(authenticate); err != nil {
		return fmt.Errorf("authenticating: %w", err)
	}

	log.Info("Muting and deafening bot user")
	presence := &control.UserState{
		SelfMute: lo.ToPtr(true),
		SelfDeaf: lo.ToPtr(true),
	}
	if err := codec.Write(presence); err != nil {
		return fmt.Errorf("sending initial presence: %w", err)
	}
	return nil
}

// Send enqueues a packet for transmission. A full queue blocks until space
// frees, ctx ends, or the connection is gone. Ordering is FIFO by enqueue
// time across all producers.
func (c *RawClient) Send(ctx context.Context, m control.Message) error {
	select {
	case c.outbound <- m:
		return nil
	case <-c.runCtx.Done():
		return apperrors.ErrConnectionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SubscribePackets yields every inbound packet broadcast from now on; there
// is no replay of earlier traffic.
func (c *RawClient) SubscribePackets() *broadcast.Receiver[control.Message] {
	return c.packets.Subscribe()
}

// Done closes when the inbound stream has ended. This is the disconnect
// signal; no reconnection is attempted.
func (c *RawClient) Done() <-chan struct{} {
	return c.done
}

// Close tears the connection down and stops every loop.
func (c *RawClient) Close() error {
	c.cancel()
	return c.conn.Close()
}

// outboundWorker drains the submission queue onto the wire in arrival
// order. A broken connection ends the loop; any other write failure is
// logged and the next message is attempted (at-most-once, no redelivery).
type outboundWorker struct {
	log   *slog.Logger
	codec *control.Codec
	queue chan control.Message
}

func (w *outboundWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case m := <-w.queue:
			w.log.Debug("Sending packet", "type", m.Type().String())
			if err := w.codec.Write(m); err != nil {
				if isBrokenConn(err) {
					w.log.Error("Connection to mumble server broken, sender stopping", "error", err)
					return nil
				}
				w.log.Error("Failed to send packet to mumble server", "type", m.Type().String(), "error", err)
			}
		}
	}
}

// inboundWorker reads frames until the stream ends and republishes them on
// the broadcast. A single undecodable frame is logged and skipped; it never
// ends the session.
type inboundWorker struct {
	log     *slog.Logger
	codec   *control.Codec
	packets *broadcast.Broadcaster[control.Message]
	done    chan struct{}
	cancel  context.CancelFunc
}

func (w *inboundWorker) Run(ctx context.Context) error {
	defer func() {
		w.packets.Close()
		close(w.done)
		// The connection is over; stop the sibling loops too.
		w.cancel()
	}()

	for {
		if ctx.Err() != nil {
			return nil
		}
		m, err := w.codec.Read()
		if err != nil {
			var decodeErr *control.DecodeError
			if errors.As(err, &decodeErr) {
				w.log.Error("Unexpected error parsing packet", "error", decodeErr)
				continue
			}
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				w.log.Warn("Server connection closed, no more packets will be received")
			} else {
				w.log.Error("Reading from mumble server failed", "error", err)
			}
			return nil
		}
		w.log.Debug("Received packet", "type", m.Type().String())
		w.packets.Send(m)
	}
}

// keepaliveWorker pings the server with the current Unix timestamp on a
// fixed interval for the life of the connection.
type keepaliveWorker struct {
	log      *slog.Logger
	interval time.Duration
	send     func(ctx context.Context, m control.Message) error
}

func (w *keepaliveWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.log.Debug("Sending scheduled ping packet to server")
			ping := &control.Ping{Timestamp: lo.ToPtr(uint64(time.Now().Unix()))}
			if err := w.send(ctx, ping); err != nil {
				w.log.Warn("Keepalive stopped, connection is gone", "error", err)
				return nil
			}
		}
	}
}

func isBrokenConn(err error) bool {
	return errors.Is(err, net.ErrClosed) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET)
}
