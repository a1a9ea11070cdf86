package domain

import (
	"sort"

	"github.com/samber/lo"
)

// Conversation is an open chat with exactly one contact.
// Contact is the snapshot taken when the chat was opened and may go stale.
type Conversation struct {
	Contact   Contact
	Messages  []Message
	Minimized bool
}

func NewConversation(contact Contact) Conversation {
	return Conversation{Contact: contact, Messages: []Message{}, Minimized: false}
}

// Append returns a copy of the conversation with msg added at the end.
// The returned value never shares its message backing array with c,
// so snapshots handed to readers stay untouched.
func (c Conversation) Append(msg Message) Conversation {
	msg.Seq = uint64(len(c.Messages)) + 1
	messages := make([]Message, len(c.Messages), len(c.Messages)+1)
	copy(messages, c.Messages)
	c.Messages = append(messages, msg)
	return c
}

func (c Conversation) ToggleMinimized() Conversation {
	c.Minimized = !c.Minimized
	return c
}

func (c Conversation) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// Conversations maps a contact ID to its open conversation.
type Conversations map[string]Conversation

func (c Conversations) Clone() Conversations {
	res := make(Conversations, len(c)+1)
	for k, v := range c {
		res[k] = v
	}
	return res
}

func (c Conversations) Keys() []string {
	keys := lo.Keys(c)
	sort.Strings(keys)
	return keys
}

// Minimized lists the contact IDs shown in the minimized tab strip.
func (c Conversations) Minimized() []string {
	return lo.Filter(c.Keys(), func(id string, _ int) bool {
		return c[id].Minimized
	})
}

func (c Conversations) Visible() []string {
	return lo.Filter(c.Keys(), func(id string, _ int) bool {
		return !c[id].Minimized
	})
}
