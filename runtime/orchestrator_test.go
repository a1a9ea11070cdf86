package runtime

import (
	"context"
	"log/slog"
	"msn-reimagined/domain/event"
	"msn-reimagined/mocks"
	"msn-reimagined/runtime/workers"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type chanSink struct {
	ch chan event.DomainEvent
}

func (s chanSink) Consume(ctx context.Context, e event.DomainEvent) error {
	select {
	case s.ch <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func receive(t *testing.T, ch <-chan event.DomainEvent) event.DomainEvent {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(2 * time.Second):
		require.FailNow(t, "no event received")
		return nil
	}
}

func TestOrchestrator_DeliversToPermanentAndWatchingSinks(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	supervisor := workers.NewSupervisor(log, 10*time.Millisecond)
	orchestrator := NewOrchestrator(log, supervisor, NewRegistry(), 16, time.Second)

	transcript := chanSink{ch: make(chan event.DomainEvent, 4)}
	window := chanSink{ch: make(chan event.DomainEvent, 4)}
	orchestrator.Add(transcript)
	orchestrator.Watch("window-1", "1", window)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		orchestrator.Start(ctx)
		close(done)
	}()

	// When events for two conversations are published
	opened := event.ChatOpened{At: start}
	opened.Contact.ID = "1"
	closed := event.ChatClosed{Contact: "2", At: start}
	orchestrator.Publish(opened)
	orchestrator.Publish(closed)

	// Then the transcript sees both in order, the window only its own
	req.Equal(opened, receive(t, transcript.ch))
	req.Equal(closed, receive(t, transcript.ch))
	req.Equal(opened, receive(t, window.ch))
	req.Empty(window.ch)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		req.Fail("orchestrator did not stop")
	}
}

func TestOrchestrator_Publish_DropsWhenBusFull(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	orchestrator := NewOrchestrator(log, mocks.NewMockISupervisor(ctrl), mocks.NewMockIRegistry(ctrl), 1, time.Second)

	// Nothing drains the bus: the second publish must return anyway
	req.NotPanics(func() {
		orchestrator.Publish(event.ChatClosed{Contact: "1", At: start})
		orchestrator.Publish(event.ChatClosed{Contact: "2", At: start})
	})
	req.Len(orchestrator.events, 1)
}

func TestOrchestrator_Watch_DelegatesToRegistry(t *testing.T) {
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockIRegistry(ctrl)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	orchestrator := NewOrchestrator(log, mocks.NewMockISupervisor(ctrl), registry, 1, time.Second)
	sink := Sink{}

	registry.EXPECT().Subscribe("w", "3", sink)
	registry.EXPECT().Unsubscribe("w", "3")

	orchestrator.Watch("w", "3", sink)
	orchestrator.Unwatch("w", "3")
}
