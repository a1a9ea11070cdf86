// Package projection builds local read models from observed events.
// Does not emit events or interact with UI directly.
package projection

import (
	"context"
	"msn-reimagined/domain"
	"msn-reimagined/domain/event"
	"sort"
	"sync"
)

// Summary is what happened in one conversation since the timeline started.
// It outlives the conversation: closing a chat only marks it closed.
type Summary struct {
	ContactID      string
	Name           string
	Sent           int
	Received       int
	Nudges         int
	SkippedReplies int
	Open           bool
	Last           *domain.Message
}

// Timeline keeps one Summary per contact.
type Timeline struct {
	mu        sync.RWMutex
	summaries map[string]*Summary
}

func NewTimeline() *Timeline {
	return &Timeline{summaries: make(map[string]*Summary)}
}

func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	summary := t.summary(e.ContactID())
	switch evt := e.(type) {
	case event.ChatOpened:
		summary.Name = evt.Contact.Name
		summary.Open = true
	case event.ChatClosed:
		summary.Open = false
	case event.MessageAppended:
		msg := evt.Message
		summary.Last = &msg
		switch {
		case msg.IsSystem():
			summary.Nudges++
		case msg.FromLocalUser():
			summary.Sent++
		default:
			summary.Received++
		}
	case event.ReplySkipped:
		summary.SkippedReplies++
	}
	return nil
}

func (t *Timeline) summary(contactID string) *Summary {
	s, ok := t.summaries[contactID]
	if !ok {
		s = &Summary{ContactID: contactID}
		t.summaries[contactID] = s
	}
	return s
}

// Summaries returns copies ordered by contact ID.
func (t *Timeline) Summaries() []Summary {
	t.mu.RLock()
	defer t.mu.RUnlock()

	res := make([]Summary, 0, len(t.summaries))
	for _, s := range t.summaries {
		res = append(res, *s)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ContactID < res[j].ContactID })
	return res
}

func (t *Timeline) Get(contactID string) (Summary, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.summaries[contactID]
	if !ok {
		return Summary{}, false
	}
	return *s, true
}
