package projection

import (
	"context"
	"msn-reimagined/domain"
	"msn-reimagined/domain/event"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimeline_Consume_Conversation(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline()
	ctx := context.Background()
	now := time.Now()
	sarah := domain.Contact{ID: "1", Name: "Sarah Chen", Presence: domain.PresenceOnline}

	events := []event.DomainEvent{
		event.ChatOpened{Contact: sarah, At: now},
		event.MessageAppended{Contact: "1", Message: domain.NewTextMessage(domain.SenderLocalUser, "hi", now)},
		event.MessageAppended{Contact: "1", Message: domain.NewSystemMessage("You sent a nudge to Sarah Chen! 👋", now)},
		event.MessageAppended{Contact: "1", Message: domain.NewTextMessage("Sarah Chen", "lol", now.Add(time.Second))},
		event.ChatClosed{Contact: "1", Discarded: 3, At: now.Add(2 * time.Second)},
		event.ReplySkipped{Contact: "1", Reason: event.SkipConversationClosed, At: now.Add(3 * time.Second)},
	}
	for _, e := range events {
		req.NoError(timeline.Consume(ctx, e))
	}

	summary, ok := timeline.Get("1")
	req.True(ok)
	req.Equal("Sarah Chen", summary.Name)
	req.Equal(1, summary.Sent)
	req.Equal(1, summary.Received)
	req.Equal(1, summary.Nudges)
	req.Equal(1, summary.SkippedReplies)
	req.False(summary.Open)
	req.Equal("lol", summary.Last.Body)
}

func TestTimeline_Summaries_Ordered(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline()
	ctx := context.Background()

	for _, id := range []string{"5", "1", "3"} {
		req.NoError(timeline.Consume(ctx, event.ChatOpened{Contact: domain.Contact{ID: id}, At: time.Now()}))
	}

	summaries := timeline.Summaries()
	req.Len(summaries, 3)
	req.Equal("1", summaries[0].ContactID)
	req.Equal("5", summaries[2].ContactID)

	_, ok := timeline.Get("2")
	req.False(ok)
}
