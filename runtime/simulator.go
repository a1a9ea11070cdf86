package runtime

import (
	"fmt"
	"log/slog"
	"msn-reimagined/contract"
	"msn-reimagined/domain"
	"msn-reimagined/domain/event"
	"msn-reimagined/errors"
	"sync"
	"time"
)

// ReplyPolicy holds the timing and the phrase pools of the simulated counterpart.
type ReplyPolicy struct {
	MinDelay     time.Duration
	MaxDelay     time.Duration
	NudgeDelay   time.Duration
	ChatPhrases  []string
	NudgePhrases []string
}

func (p ReplyPolicy) Validate() error {
	if p.MinDelay < 0 || p.MaxDelay < p.MinDelay || p.NudgeDelay < 0 {
		return fmt.Errorf("%w: min=%s max=%s nudge=%s",
			errors.ErrInvalidDelayRange, p.MinDelay, p.MaxDelay, p.NudgeDelay)
	}
	if len(p.ChatPhrases) == 0 || len(p.NudgePhrases) == 0 {
		return errors.ErrEmptyPhrases
	}
	return nil
}

// ReplyTarget receives the replies once their timer fires.
// It reports false when the conversation no longer exists.
type ReplyTarget interface {
	DeliverReply(contactID, sender, body string) bool
}

// ReplySimulator fabricates inbound messages to emulate a live buddy.
// Every scheduled reply is an independent one-shot timer; replies may land
// out of send order, which is acceptable.
type ReplySimulator struct {
	mu        sync.Mutex
	log       *slog.Logger
	directory contract.IDirectory
	scheduler contract.Scheduler
	random    contract.Random
	publisher contract.Publisher
	policy    ReplyPolicy
	now       func() time.Time
	target    ReplyTarget
	nextID    uint64
	pending   map[uint64]contract.Timer
}

func NewReplySimulator(log *slog.Logger, directory contract.IDirectory, scheduler contract.Scheduler,
	random contract.Random, publisher contract.Publisher, policy ReplyPolicy, now func() time.Time) *ReplySimulator {
	return &ReplySimulator{
		log:       log,
		directory: directory,
		scheduler: scheduler,
		random:    random,
		publisher: publisher,
		policy:    policy,
		now:       now,
		pending:   make(map[uint64]contract.Timer),
	}
}

// Bind sets the store the replies are delivered to.
func (s *ReplySimulator) Bind(target ReplyTarget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.target = target
}

// Schedule arms a reply for contactID if the contact is online right now.
// Both triggers follow the same presence rule.
func (s *ReplySimulator) Schedule(contactID string, trigger event.Trigger) bool {
	contact, ok := s.directory.FindContact(contactID)
	if !ok {
		s.log.Debug("Reply not scheduled, unknown contact", "contact", contactID)
		return false
	}
	if !contact.IsOnline() {
		s.log.Debug("Reply not scheduled, contact not online",
			"contact", contactID, "presence", contact.Presence, "trigger", trigger)
		s.publisher.Publish(event.ReplySkipped{
			Contact: contactID, Trigger: trigger, Reason: event.SkipNotOnline, At: s.now(),
		})
		return false
	}

	s.mu.Lock()
	// *rand.Rand is not safe for concurrent use
	delay, pool := s.plan(trigger)
	s.nextID++
	id := s.nextID
	// Reserved before After returns so that a timer firing early still finds its slot
	s.pending[id] = nil
	s.mu.Unlock()

	timer := s.scheduler.After(delay, func() {
		if !s.release(id) {
			return
		}
		s.fire(contact, trigger, pool)
	})

	s.mu.Lock()
	if _, ok := s.pending[id]; ok {
		s.pending[id] = timer
	}
	s.mu.Unlock()

	s.publisher.Publish(event.ReplyScheduled{Contact: contactID, Trigger: trigger, Delay: delay, At: s.now()})
	return true
}

func (s *ReplySimulator) plan(trigger event.Trigger) (time.Duration, []string) {
	if trigger == event.TriggerNudge {
		return s.policy.NudgeDelay, s.policy.NudgePhrases
	}
	delay := s.policy.MinDelay
	if spread := s.policy.MaxDelay - s.policy.MinDelay; spread > 0 {
		delay += time.Duration(s.random.Int64N(int64(spread)))
	}
	return delay, s.policy.ChatPhrases
}

func (s *ReplySimulator) fire(contact domain.Contact, trigger event.Trigger, pool []string) {
	s.mu.Lock()
	target := s.target
	body := pool[s.random.IntN(len(pool))]
	s.mu.Unlock()
	if target == nil {
		return
	}

	if !target.DeliverReply(contact.ID, contact.Name, body) {
		s.log.Debug("Reply dropped, conversation closed", "contact", contact.ID, "trigger", trigger)
		s.publisher.Publish(event.ReplySkipped{
			Contact: contact.ID, Trigger: trigger, Reason: event.SkipConversationClosed, At: s.now(),
		})
	}
}

func (s *ReplySimulator) release(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pending[id]; !ok {
		return false
	}
	delete(s.pending, id)
	return true
}

// Pending counts replies still waiting for their timer.
func (s *ReplySimulator) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// CancelAll stops every pending reply. Used on logout teardown only:
// closing a single chat never cancels its replies.
func (s *ReplySimulator) CancelAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cancelled := 0
	for id, timer := range s.pending {
		if timer != nil && timer.Stop() {
			cancelled++
		}
		delete(s.pending, id)
	}
	return cancelled
}
