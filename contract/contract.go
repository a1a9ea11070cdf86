//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"msn-reimagined/domain"
	"msn-reimagined/domain/event"
	"reflect"
	"time"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// Used for logging and supervision purposes, avoiding manual naming in the Worker interface.
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

type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// Publisher accepts events without blocking the caller.
type Publisher interface {
	Publish(e event.DomainEvent)
}

type IRegistry interface {
	GetSinksForContact(contactID string) []EventSink
	Subscribe(watcherID, contactID string, sink EventSink)
	Unsubscribe(watcherID, contactID string)
}

// IDirectory is the read-only contact lookup used by the messenger.
type IDirectory interface {
	FindContact(id string) (domain.Contact, bool)
	List() []domain.Contact
}

// Scheduler runs fn once after d. It is the only source of deferred execution in the core.
type Scheduler interface {
	After(d time.Duration, fn func()) Timer
}

type Timer interface {
	// Stop prevents the callback from firing and reports whether it was still pending.
	Stop() bool
}

// Random is satisfied by *math/rand/v2.Rand.
type Random interface {
	IntN(n int) int
	Int64N(n int64) int64
}
