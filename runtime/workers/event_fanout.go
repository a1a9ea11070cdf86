package workers

import (
	"context"
	"fmt"
	"log/slog"
	"msn-reimagined/contract"
	"msn-reimagined/domain/event"
	"msn-reimagined/errors"
	"time"
)

// EventFanout broadcasts messenger events to in-process consumers.
//
// It provides best-effort fan-out with no guarantees regarding delivery,
// durability, or retries. Each sink sees events in bus order; a sink slower
// than sinkTimeout is skipped for that event.
type EventFanout struct {
	log         *slog.Logger
	sinks       []contract.EventSink
	registry    contract.IRegistry
	events      <-chan event.DomainEvent
	sinkTimeout time.Duration
}

func NewEventFanout(log *slog.Logger, sinks []contract.EventSink, registry contract.IRegistry,
	events <-chan event.DomainEvent, sinkTimeout time.Duration) *EventFanout {
	return &EventFanout{log: log, sinks: sinks, registry: registry, events: events, sinkTimeout: sinkTimeout}
}

// Run delivers until the bus is closed or ctx is done. Deliveries are bounded by
// sinkTimeout only, so cancelling ctx never cuts an event short.
func (w *EventFanout) Run(ctx context.Context) error {
	deliveryCtx := context.WithoutCancel(ctx)
	for {
		select {
		case evt, ok := <-w.events:
			if !ok {
				return nil
			}
			w.Fanout(deliveryCtx, evt)
		case <-ctx.Done():
			w.log.Debug("Context done, draining event fan-out", "buffered", len(w.events))
			w.drain(deliveryCtx)
			return nil
		}
	}
}

// drain delivers what is already buffered so a clean shutdown loses nothing.
// Each sink is still bounded by sinkTimeout.
func (w *EventFanout) drain(ctx context.Context) {
	for {
		select {
		case evt, ok := <-w.events:
			if !ok {
				return
			}
			w.Fanout(ctx, evt)
		default:
			return
		}
	}
}

// Fanout delivers evt to the permanent sinks, then to the watchers of its conversation.
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	for _, sink := range w.sinks {
		w.deliver(ctx, sink, evt)
	}
	for _, sink := range w.registry.GetSinksForContact(evt.ContactID()) {
		w.deliver(ctx, sink, evt)
	}
}

func (w *EventFanout) deliver(parent context.Context, sink contract.EventSink, evt event.DomainEvent) {
	ctx, cancel := context.WithTimeout(parent, w.sinkTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("%w: %v", errors.ErrSinkPanic, r)
			}
		}()
		done <- sink.Consume(ctx, evt)
	}()

	select {
	case err := <-done:
		if err != nil {
			w.log.Warn("Sink failed to consume event", "contact", evt.ContactID(), "error", err)
		}
	case <-ctx.Done():
		w.log.Warn("Sink timed out", "contact", evt.ContactID(), "timeout", w.sinkTimeout)
	}
}
