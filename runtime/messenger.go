package runtime

import (
	"fmt"
	"log/slog"
	"msn-reimagined/contract"
	"msn-reimagined/domain"
	"msn-reimagined/domain/event"
	"sync"
	"sync/atomic"
	"time"
)

// Messenger is the conversation store. It exclusively owns the map of open
// conversations, keyed by contact ID (one conversation per contact).
//
// Writers are serialized by mu and never modify a published map: each
// mutation builds a new map from the previous one and swaps it in, so
// readers calling Conversations or Conversation never lock and never observe
// a half-applied change.
//
// Operations on unknown contacts or absent conversations are silent no-ops.
// The returned bool only tells whether the state changed.
type Messenger struct {
	mu        sync.Mutex
	state     atomic.Pointer[domain.Conversations]
	log       *slog.Logger
	directory contract.IDirectory
	simulator *ReplySimulator
	publisher contract.Publisher
	now       func() time.Time
}

func NewMessenger(log *slog.Logger, directory contract.IDirectory, simulator *ReplySimulator,
	publisher contract.Publisher, now func() time.Time) *Messenger {
	m := &Messenger{
		log:       log,
		directory: directory,
		simulator: simulator,
		publisher: publisher,
		now:       now,
	}
	empty := make(domain.Conversations)
	m.state.Store(&empty)
	simulator.Bind(m)
	return m
}

func (m *Messenger) Directory() contract.IDirectory {
	return m.directory
}

// Conversations returns a copy of the current conversation map.
// Message slices are shared with the published state and must be treated as read-only.
func (m *Messenger) Conversations() domain.Conversations {
	return m.state.Load().Clone()
}

func (m *Messenger) Conversation(contactID string) (domain.Conversation, bool) {
	conv, ok := (*m.state.Load())[contactID]
	return conv, ok
}

// OpenChat creates an empty, visible conversation with a snapshot of the contact.
// Opening an already open chat changes nothing, not even its minimized flag.
func (m *Messenger) OpenChat(contactID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := *m.state.Load()
	if _, ok := current[contactID]; ok {
		return false
	}
	contact, ok := m.directory.FindContact(contactID)
	if !ok {
		m.log.Debug("OpenChat ignored, unknown contact", "contact", contactID)
		return false
	}
	next := current.Clone()
	next[contactID] = domain.NewConversation(contact)
	m.state.Store(&next)
	m.publisher.Publish(event.ChatOpened{Contact: contact, At: m.now()})
	return true
}

// CloseChat drops the conversation and its history. Replies already scheduled
// for it keep running and are discarded when they fire.
func (m *Messenger) CloseChat(contactID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := *m.state.Load()
	conv, ok := current[contactID]
	if !ok {
		return false
	}
	next := current.Clone()
	delete(next, contactID)
	m.state.Store(&next)
	m.publisher.Publish(event.ChatClosed{Contact: contactID, Discarded: len(conv.Messages), At: m.now()})
	return true
}

// MinimizeChat toggles the minimized flag; there is no separate restore.
func (m *Messenger) MinimizeChat(contactID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := *m.state.Load()
	conv, ok := current[contactID]
	if !ok {
		return false
	}
	next := current.Clone()
	next[contactID] = conv.ToggleMinimized()
	m.state.Store(&next)
	m.publisher.Publish(event.ChatMinimized{Contact: contactID, Minimized: next[contactID].Minimized, At: m.now()})
	return true
}

// SendMessage appends an outbound text message and asks the simulator for a reply.
// The body must already be validated by the caller. A chat that is not open yet
// is opened first, provided the contact exists.
func (m *Messenger) SendMessage(contactID, body string) bool {
	appended := m.appendLocal(contactID, func(domain.Contact) domain.Message {
		return domain.NewTextMessage(domain.SenderLocalUser, body, m.now())
	})
	if !appended {
		return false
	}
	m.simulator.Schedule(contactID, event.TriggerMessage)
	return true
}

// Nudge appends a system notice and asks the simulator for an acknowledgement.
// It follows the same auto-open rule as SendMessage.
func (m *Messenger) Nudge(contactID string) bool {
	appended := m.appendLocal(contactID, func(contact domain.Contact) domain.Message {
		return domain.NewSystemMessage(fmt.Sprintf("You sent a nudge to %s! 👋", contact.Name), m.now())
	})
	if !appended {
		return false
	}
	m.simulator.Schedule(contactID, event.TriggerNudge)
	return true
}

func (m *Messenger) appendLocal(contactID string, build func(domain.Contact) domain.Message) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := *m.state.Load()
	conv, ok := current[contactID]
	opened := false
	if !ok {
		contact, found := m.directory.FindContact(contactID)
		if !found {
			m.log.Debug("Message ignored, unknown contact", "contact", contactID)
			return false
		}
		conv = domain.NewConversation(contact)
		opened = true
	}

	next := current.Clone()
	next[contactID] = conv.Append(build(conv.Contact))
	m.state.Store(&next)

	if opened {
		m.publisher.Publish(event.ChatOpened{Contact: conv.Contact, At: m.now()})
	}
	last, _ := next[contactID].LastMessage()
	m.publisher.Publish(event.MessageAppended{Contact: contactID, Message: last})
	return true
}

// DeliverReply appends an inbound message only if the conversation is still open.
// A late reply never recreates a closed conversation.
func (m *Messenger) DeliverReply(contactID, sender, body string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := *m.state.Load()
	conv, ok := current[contactID]
	if !ok {
		return false
	}
	next := current.Clone()
	next[contactID] = conv.Append(domain.NewTextMessage(sender, body, m.now()))
	m.state.Store(&next)

	last, _ := next[contactID].LastMessage()
	m.publisher.Publish(event.MessageAppended{Contact: contactID, Message: last})
	return true
}

// Shutdown is the logout teardown: pending replies are cancelled and every
// conversation is dropped.
func (m *Messenger) Shutdown() {
	cancelled := m.simulator.CancelAll()

	m.mu.Lock()
	defer m.mu.Unlock()
	current := *m.state.Load()
	empty := make(domain.Conversations)
	m.state.Store(&empty)
	for _, id := range current.Keys() {
		m.publisher.Publish(event.ChatClosed{Contact: id, Discarded: len(current[id].Messages), At: m.now()})
	}
	m.log.Info("Messenger shut down", "closed", len(current), "cancelledReplies", cancelled)
}
