package contract

import (
	"context"
	"reflect"

	"github.com/wtaylor/mumble-telegram-bot/domain"
)

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink receives the domain events fanned out by the bridge.
// Consume must tolerate any event kind; slow sinks are cut off by the
// per-sink timeout of the fanout rather than stalling the event loop.
type EventSink interface {
	Consume(ctx context.Context, e domain.Event) error
}
