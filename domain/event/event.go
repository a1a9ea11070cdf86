package event

import (
	"msn-reimagined/domain"
	"time"
)

// DomainEvent is emitted by the messenger after a state change has been published.
type DomainEvent interface {
	ContactID() string
	OccurredAt() time.Time
}

type Trigger string

const (
	TriggerMessage Trigger = "message"
	TriggerNudge   Trigger = "nudge"
)

type ChatOpened struct {
	Contact domain.Contact
	At      time.Time
}

func (e ChatOpened) ContactID() string     { return e.Contact.ID }
func (e ChatOpened) OccurredAt() time.Time { return e.At }

type ChatClosed struct {
	Contact   string
	Discarded int // messages dropped with the conversation
	At        time.Time
}

func (e ChatClosed) ContactID() string     { return e.Contact }
func (e ChatClosed) OccurredAt() time.Time { return e.At }

type ChatMinimized struct {
	Contact   string
	Minimized bool
	At        time.Time
}

func (e ChatMinimized) ContactID() string     { return e.Contact }
func (e ChatMinimized) OccurredAt() time.Time { return e.At }

type MessageAppended struct {
	Contact string
	Message domain.Message
}

func (e MessageAppended) ContactID() string     { return e.Contact }
func (e MessageAppended) OccurredAt() time.Time { return e.Message.CreatedAt }

type ReplyScheduled struct {
	Contact string
	Trigger Trigger
	Delay   time.Duration
	At      time.Time
}

func (e ReplyScheduled) ContactID() string     { return e.Contact }
func (e ReplyScheduled) OccurredAt() time.Time { return e.At }

// ReplySkipped reports a simulated reply that was never scheduled or never delivered.
type ReplySkipped struct {
	Contact string
	Trigger Trigger
	Reason  SkipReason
	At      time.Time
}

func (e ReplySkipped) ContactID() string     { return e.Contact }
func (e ReplySkipped) OccurredAt() time.Time { return e.At }

type SkipReason string

const (
	SkipNotOnline          SkipReason = "contact not online"
	SkipConversationClosed SkipReason = "conversation closed"
)
