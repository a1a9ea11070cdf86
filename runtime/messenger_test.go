package runtime

import (
	"log/slog"
	"math/rand/v2"
	"msn-reimagined/directory"
	"msn-reimagined/domain"
	"msn-reimagined/domain/event"
	"sync"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2026, 10, 17, 20, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.DomainEvent
}

func (p *recordingPublisher) Publish(e event.DomainEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) skipped() []event.ReplySkipped {
	p.mu.Lock()
	defer p.mu.Unlock()
	var res []event.ReplySkipped
	for _, e := range p.events {
		if s, ok := e.(event.ReplySkipped); ok {
			res = append(res, s)
		}
	}
	return res
}

type fixture struct {
	messenger *Messenger
	simulator *ReplySimulator
	clock     *ManualScheduler
	publisher *recordingPublisher
	policy    ReplyPolicy
}

func newFixture(t *testing.T) fixture {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	dir, err := directory.LoadDefault(start)
	req.NoError(err)
	pools, err := DefaultPhrasePools()
	req.NoError(err)

	policy := ReplyPolicy{
		MinDelay:     time.Second,
		MaxDelay:     3 * time.Second,
		NudgeDelay:   1500 * time.Millisecond,
		ChatPhrases:  pools[ChatPool],
		NudgePhrases: pools[NudgePool],
	}
	clock := NewManualScheduler(start)
	publisher := &recordingPublisher{}
	simulator := NewReplySimulator(log, dir, clock, rand.New(rand.NewPCG(1, 2)), publisher, policy, clock.Now)
	return fixture{
		messenger: NewMessenger(log, dir, simulator, publisher, clock.Now),
		simulator: simulator,
		clock:     clock,
		publisher: publisher,
		policy:    policy,
	}
}

func bodies(conv domain.Conversation) []string {
	return lo.Map(conv.Messages, func(m domain.Message, _ int) string { return m.Body })
}

func TestMessenger_OpenChat_UnknownContact(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	for _, id := range []string{"", "0", "9", "unknown"} {
		req.False(f.messenger.OpenChat(id))
	}

	req.Empty(f.messenger.Conversations())
	req.Empty(f.publisher.events)
}

func TestMessenger_OpenChat_IsIdempotent(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	// Given a chat opened, used and minimized
	req.True(f.messenger.OpenChat("1"))
	req.True(f.messenger.SendMessage("1", "hi"))
	req.True(f.messenger.MinimizeChat("1"))

	// When it is opened again
	req.False(f.messenger.OpenChat("1"))

	// Then nothing was reset
	convs := f.messenger.Conversations()
	req.Len(convs, 1)
	req.Equal([]string{"hi"}, bodies(convs["1"]))
	req.True(convs["1"].Minimized)
}

func TestMessenger_OpenChat_CreatesEmptyVisibleConversation(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	req.True(f.messenger.OpenChat("1"))

	conv, ok := f.messenger.Conversation("1")
	req.True(ok)
	req.Empty(conv.Messages)
	req.False(conv.Minimized)
	req.Equal("Sarah Chen", conv.Contact.Name)
	req.IsType(event.ChatOpened{}, f.publisher.events[0])
}

func TestMessenger_SendMessage_KeepsCallOrder(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	req.True(f.messenger.OpenChat("5"))

	sent := []string{"one", "two", "three", "four"}
	for _, body := range sent {
		req.True(f.messenger.SendMessage("5", body))
	}

	// Before any simulated reply is delivered
	conv, _ := f.messenger.Conversation("5")
	req.Equal(sent, bodies(conv))
	for i, msg := range conv.Messages {
		req.Equal(uint64(i+1), msg.Seq)
		req.Equal(domain.SenderLocalUser, msg.Sender)
		req.Equal(domain.KindText, msg.Kind)
	}
	req.Equal(len(sent), f.simulator.Pending())
}

func TestMessenger_MinimizeChat_TwiceRestores(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	req.True(f.messenger.OpenChat("2"))

	req.True(f.messenger.MinimizeChat("2"))
	conv, _ := f.messenger.Conversation("2")
	req.True(conv.Minimized)

	req.True(f.messenger.MinimizeChat("2"))
	conv, _ = f.messenger.Conversation("2")
	req.False(conv.Minimized)
}

func TestMessenger_OnlineContactReplies(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	// Given contact 1 is online and its chat is open
	req.True(f.messenger.OpenChat("1"))
	conv, _ := f.messenger.Conversation("1")
	req.Empty(conv.Messages)
	req.False(conv.Minimized)

	// When a message is sent
	req.True(f.messenger.SendMessage("1", "hi"))
	conv, _ = f.messenger.Conversation("1")
	req.Len(conv.Messages, 1)
	req.Equal(domain.SenderLocalUser, conv.Messages[0].Sender)
	req.Equal("hi", conv.Messages[0].Body)

	// Then a reply lands once the maximum delay elapsed
	f.clock.Advance(f.policy.MaxDelay)
	conv, _ = f.messenger.Conversation("1")
	req.Len(conv.Messages, 2)
	req.Equal("Sarah Chen", conv.Messages[1].Sender)
	req.Equal(domain.KindText, conv.Messages[1].Kind)
	req.Contains(f.policy.ChatPhrases, conv.Messages[1].Body)
	req.False(conv.Messages[1].CreatedAt.Before(start.Add(f.policy.MinDelay)))
}

func TestMessenger_OfflineContactNeverReplies(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	// Given contact 4 is offline and no chat is open
	// When a message is sent
	req.True(f.messenger.SendMessage("4", "hello"))

	// Then the chat was opened on the fly
	conv, ok := f.messenger.Conversation("4")
	req.True(ok)
	req.Len(conv.Messages, 1)

	// And nothing answers, even long after the maximum delay
	f.clock.Advance(10 * f.policy.MaxDelay)
	conv, _ = f.messenger.Conversation("4")
	req.Len(conv.Messages, 1)
	req.Zero(f.clock.Pending())

	skipped := f.publisher.skipped()
	req.Len(skipped, 1)
	req.Equal(event.SkipNotOnline, skipped[0].Reason)
}

func TestMessenger_CloseChat_StrayReplyDoesNotResurrect(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	// Given a reply is pending for contact 5
	req.True(f.messenger.SendMessage("5", "are you there?"))
	req.Equal(1, f.clock.Pending())

	// When the chat is closed before the reply fires
	req.True(f.messenger.CloseChat("5"))
	req.Equal(1, f.clock.Pending())
	f.clock.Advance(f.policy.MaxDelay)

	// Then the conversation stays closed
	_, ok := f.messenger.Conversation("5")
	req.False(ok)
	req.Empty(f.messenger.Conversations())

	skipped := f.publisher.skipped()
	req.Len(skipped, 1)
	req.Equal(event.SkipConversationClosed, skipped[0].Reason)

	// And reopening starts from an empty history
	req.True(f.messenger.OpenChat("5"))
	conv, _ := f.messenger.Conversation("5")
	req.Empty(conv.Messages)
}

func TestMessenger_Nudge(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	// When an online contact is nudged
	req.True(f.messenger.Nudge("1"))

	conv, _ := f.messenger.Conversation("1")
	req.Len(conv.Messages, 1)
	req.True(conv.Messages[0].IsSystem())
	req.Equal(domain.SenderSystem, conv.Messages[0].Sender)
	req.Equal("You sent a nudge to Sarah Chen! 👋", conv.Messages[0].Body)

	// Then the acknowledgement arrives after the fixed nudge delay
	f.clock.Advance(f.policy.NudgeDelay - time.Millisecond)
	conv, _ = f.messenger.Conversation("1")
	req.Len(conv.Messages, 1)

	f.clock.Advance(time.Millisecond)
	conv, _ = f.messenger.Conversation("1")
	req.Len(conv.Messages, 2)
	req.Equal("Sarah Chen", conv.Messages[1].Sender)
	req.Contains(f.policy.NudgePhrases, conv.Messages[1].Body)
	req.NotContains(f.policy.ChatPhrases, conv.Messages[1].Body)
}

func TestMessenger_Nudge_NotOnlineGetsNoAcknowledgement(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	for _, id := range []string{"2", "3", "4"} {
		req.True(f.messenger.Nudge(id))
	}
	f.clock.Advance(time.Minute)

	for _, id := range []string{"2", "3", "4"} {
		conv, ok := f.messenger.Conversation(id)
		req.True(ok)
		req.Len(conv.Messages, 1)
		req.True(conv.Messages[0].IsSystem())
	}
	req.Len(f.publisher.skipped(), 3)
}

func TestMessenger_UnknownKeysDegradeGracefully(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	req.NotPanics(func() {
		req.False(f.messenger.CloseChat("1"))
		req.False(f.messenger.MinimizeChat("1"))
		req.False(f.messenger.SendMessage("404", "hello?"))
		req.False(f.messenger.Nudge("404"))
		req.False(f.messenger.DeliverReply("1", "Sarah Chen", "late"))
	})
	req.Empty(f.messenger.Conversations())
	req.Zero(f.clock.Pending())
}

func TestMessenger_SnapshotsAreImmutable(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	req.True(f.messenger.SendMessage("1", "first"))

	// Given a reader holding a snapshot
	before := f.messenger.Conversations()
	conv, _ := f.messenger.Conversation("1")

	// When the store keeps changing
	req.True(f.messenger.SendMessage("1", "second"))
	req.True(f.messenger.OpenChat("2"))
	req.True(f.messenger.MinimizeChat("1"))

	// Then the snapshot is unchanged
	req.Len(before, 1)
	req.Equal([]string{"first"}, bodies(before["1"]))
	req.False(before["1"].Minimized)
	req.Equal([]string{"first"}, bodies(conv))
}

func TestMessenger_Shutdown_CancelsPendingReplies(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	req.True(f.messenger.SendMessage("1", "hi"))
	req.True(f.messenger.Nudge("5"))
	req.Equal(2, f.clock.Pending())

	f.messenger.Shutdown()

	req.Zero(f.clock.Pending())
	req.Zero(f.simulator.Pending())
	req.Empty(f.messenger.Conversations())

	f.clock.Advance(time.Minute)
	req.Empty(f.messenger.Conversations())
}

func TestMessenger_ConcurrentWritersAndReaders(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	const writers, perWriter = 8, 25

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				f.messenger.SendMessage("1", "ping")
			}
		}()
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				if conv, ok := f.messenger.Conversation("1"); ok {
					for j, msg := range conv.Messages {
						if msg.Seq != uint64(j+1) {
							t.Errorf("torn read: seq %d at %d", msg.Seq, j)
						}
					}
				}
			}
		}()
	}
	wg.Wait()

	conv, _ := f.messenger.Conversation("1")
	req.Len(conv.Messages, writers*perWriter)
}
