package runtime

import (
	"context"
	"log/slog"
	"msn-reimagined/contract"
	"msn-reimagined/domain/event"
	"msn-reimagined/runtime/workers"
	"sync"
	"time"
)

// Orchestrator carries messenger events to the presentation layer.
// It owns the event bus, the permanent sinks and the supervised fan-out worker.
// It contains no messenger rules.
type Orchestrator struct {
	mu             sync.Mutex
	log            *slog.Logger
	permanentSinks []contract.EventSink
	supervisor     contract.ISupervisor
	registry       contract.IRegistry
	events         chan event.DomainEvent
	sinkTimeout    time.Duration
	started        bool
}

func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor, registry contract.IRegistry,
	bufferSize int, sinkTimeout time.Duration) *Orchestrator {
	return &Orchestrator{
		log:         log,
		supervisor:  supervisor,
		registry:    registry,
		events:      make(chan event.DomainEvent, bufferSize),
		sinkTimeout: sinkTimeout,
	}
}

// Add registers sinks receiving every event. Must be called before Start.
func (o *Orchestrator) Add(sinks ...contract.EventSink) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.permanentSinks = append(o.permanentSinks, sinks...)
}

// Publish never blocks the messenger: when the bus is full the event is dropped.
func (o *Orchestrator) Publish(e event.DomainEvent) {
	select {
	case o.events <- e:
	default:
		o.log.Warn("Event bus full, dropping event", "contact", e.ContactID())
	}
}

// Watch subscribes a sink to the events of a single conversation.
func (o *Orchestrator) Watch(watcherID, contactID string, sink contract.EventSink) {
	o.registry.Subscribe(watcherID, contactID, sink)
}

func (o *Orchestrator) Unwatch(watcherID, contactID string) {
	o.registry.Unsubscribe(watcherID, contactID)
}

// Start registers the fan-out worker and blocks while the supervisor runs.
func (o *Orchestrator) Start(ctx context.Context) {
	o.mu.Lock()
	if o.started {
		o.mu.Unlock()
		return
	}
	o.started = true
	fanout := workers.NewEventFanout(o.log, o.permanentSinks, o.registry, o.events, o.sinkTimeout)
	o.supervisor.Add(fanout)
	o.mu.Unlock()

	o.log.Info("Starting orchestrator and all supervised workers")
	o.supervisor.Run(ctx)
}

// Stop cancels the supervised context; workers return on ctx.Done.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.supervisor.Stop()
}
