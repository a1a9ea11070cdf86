// Package domain contains core concepts of the messenger.
// This file defines Message events and related rules.
// Messages are immutable once appended to a conversation.
package domain

import (
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindText   Kind = "text"
	KindSystem Kind = "system"
)

const (
	SenderLocalUser = "You"
	SenderSystem    = "System"
)

// Message represents an immutable chat entry.
type Message struct {
	ID        uuid.UUID // unique within its conversation
	Seq       uint64    // insertion order, authoritative over CreatedAt
	Sender    string
	Body      string
	CreatedAt time.Time
	Kind      Kind
}

func NewTextMessage(sender, body string, at time.Time) Message {
	return Message{ID: uuid.New(), Sender: sender, Body: body, CreatedAt: at, Kind: KindText}
}

func NewSystemMessage(body string, at time.Time) Message {
	return Message{ID: uuid.New(), Sender: SenderSystem, Body: body, CreatedAt: at, Kind: KindSystem}
}

func (m Message) FromLocalUser() bool {
	return m.Kind == KindText && m.Sender == SenderLocalUser
}

func (m Message) IsSystem() bool {
	return m.Kind == KindSystem
}
