package client

import (
	"context"
	"io"
	"log/slog"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/wtaylor/mumble-telegram-bot/control"
)

func TestKeepaliveWorker_SendsTimestampedPings(t *testing.T) {
	req := require.New(t)
	sent := make(chan control.Message, 8)
	worker := &keepaliveWorker{
		log:      slog.Default(),
		interval: 10 * time.Millisecond,
		send: func(ctx context.Context, m control.Message) error {
			sent <- m
			return nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = worker.Run(ctx)
		close(done)
	}()

	before := uint64(time.Now().Unix())
	var first control.Message
	select {
	case first = <-sent:
	case <-time.After(time.Second):
		req.Fail("no ping sent")
	}
	cancel()
	<-done

	ping, ok := first.(*control.Ping)
	req.True(ok)
	req.NotNil(ping.Timestamp)
	req.GreaterOrEqual(*ping.Timestamp, before)
}

func TestKeepaliveWorker_StopsWhenConnectionIsGone(t *testing.T) {
	worker := &keepaliveWorker{
		log:      slog.Default(),
		interval: 5 * time.Millisecond,
		send: func(ctx context.Context, m control.Message) error {
			return io.ErrClosedPipe
		},
	}

	done := make(chan struct{})
	go func() {
		_ = worker.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("keepalive should stop on a dead connection")
	}
}

func TestOutboundWorker_WritesInArrivalOrder(t *testing.T) {
	req := require.New(t)
	clientSide, serverSide := net.Pipe()
	defer serverSide.Close()

	queue := make(chan control.Message, queueCapacity)
	worker := &outboundWorker{log: slog.Default(), codec: control.NewCodec(clientSide), queue: queue}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	want := []control.Message{
		&control.Ping{Timestamp: lo.ToPtr(uint64(1))},
		&control.TextMessage{Message: lo.ToPtr("first")},
		&control.Ping{Timestamp: lo.ToPtr(uint64(2))},
	}
	for _, m := range want {
		queue <- m
	}

	codec := control.NewCodec(serverSide)
	for _, m := range want {
		got, err := codec.Read()
		req.NoError(err)
		req.Equal(m, got)
	}
}

func TestOutboundWorker_StopsOnBrokenConnection(t *testing.T) {
	clientSide, serverSide := net.Pipe()
	_ = serverSide.Close()
	_ = clientSide.Close()

	queue := make(chan control.Message, 1)
	queue <- &control.Ping{Timestamp: lo.ToPtr(uint64(1))}
	worker := &outboundWorker{log: slog.Default(), codec: control.NewCodec(clientSide), queue: queue}

	done := make(chan struct{})
	go func() {
		_ = worker.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("writer should stop once the connection is broken")
	}
}

func TestIsBrokenConn(t *testing.T) {
	req := require.New(t)
	req.True(isBrokenConn(net.ErrClosed))
	req.True(isBrokenConn(io.ErrClosedPipe))
	req.True(isBrokenConn(syscall.EPIPE))
	req.True(isBrokenConn(syscall.ECONNRESET))
	req.False(isBrokenConn(io.ErrShortWrite))
}
