package services

import (
	"log/slog"
	"math/rand/v2"
	"msn-reimagined/auth"
	"msn-reimagined/directory"
	"msn-reimagined/errors"
	"msn-reimagined/mocks"
	"msn-reimagined/runtime"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type harness struct {
	service *MessengerService
	session *auth.Session
	clock   *runtime.ManualScheduler
}

func newHarness(t *testing.T) harness {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	start := time.Date(2026, 10, 17, 20, 0, 0, 0, time.UTC)

	dir, err := directory.LoadDefault(start)
	req.NoError(err)
	pools, err := runtime.DefaultPhrasePools()
	req.NoError(err)

	publisher := mocks.NewMockPublisher(ctrl)
	publisher.EXPECT().Publish(gomock.Any()).AnyTimes()

	clock := runtime.NewManualScheduler(start)
	policy := runtime.ReplyPolicy{
		MinDelay:     time.Second,
		MaxDelay:     3 * time.Second,
		NudgeDelay:   1500 * time.Millisecond,
		ChatPhrases:  pools[runtime.ChatPool],
		NudgePhrases: pools[runtime.NudgePool],
	}
	simulator := runtime.NewReplySimulator(log, dir, clock, rand.New(rand.NewPCG(7, 7)), publisher, policy, clock.Now)
	messenger := runtime.NewMessenger(log, dir, simulator, publisher, clock.Now)
	session := auth.NewSession(log)

	return harness{
		service: NewMessengerService(session, dir, messenger),
		session: session,
		clock:   clock,
	}
}

func (h harness) login(t *testing.T) {
	_, err := h.session.Login(auth.LoginRequest{Name: "Ann", Email: "ann@msn.local"})
	require.NoError(t, err)
}

func TestMessengerService_RequiresAuthentication(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)

	_, err := h.service.Contacts("")
	req.ErrorIs(err, errors.ErrNotAuthenticated)
	_, err = h.service.Conversations()
	req.ErrorIs(err, errors.ErrNotAuthenticated)
	req.ErrorIs(h.service.OpenChat("1"), errors.ErrNotAuthenticated)
	req.ErrorIs(h.service.CloseChat("1"), errors.ErrNotAuthenticated)
	req.ErrorIs(h.service.MinimizeChat("1"), errors.ErrNotAuthenticated)
	req.ErrorIs(h.service.SendMessage("1", "hi"), errors.ErrNotAuthenticated)
	req.ErrorIs(h.service.Nudge("1"), errors.ErrNotAuthenticated)
}

func TestMessengerService_UnknownContact(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	h.login(t)

	req.ErrorIs(h.service.OpenChat("99"), errors.ErrContactNotFound)
	req.ErrorIs(h.service.SendMessage("99", "hi"), errors.ErrContactNotFound)
	req.ErrorIs(h.service.Nudge("99"), errors.ErrContactNotFound)

	convs, err := h.service.Conversations()
	req.NoError(err)
	req.Empty(convs)
}

func TestMessengerService_SendMessage_RejectsBlankBody(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	h.login(t)
	req.NoError(h.service.OpenChat("1"))

	for _, body := range []string{"", "   ", "\n\t "} {
		req.ErrorIs(h.service.SendMessage("1", body), errors.ErrEmptyMessage)
	}

	// The store was never touched
	convs, _ := h.service.Conversations()
	req.Empty(convs["1"].Messages)
	req.Zero(h.clock.Pending())
}

func TestMessengerService_SendMessage_TrimsBody(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	h.login(t)

	req.NoError(h.service.SendMessage("1", "  hi there \n"))
	h.clock.Advance(3 * time.Second)

	convs, _ := h.service.Conversations()
	req.Len(convs["1"].Messages, 2)
	req.Equal("hi there", convs["1"].Messages[0].Body)
	req.Equal("Sarah Chen", convs["1"].Messages[1].Sender)
}

func TestMessengerService_CloseChat_NotOpenIsFine(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	h.login(t)

	req.NoError(h.service.CloseChat("3"))
	req.NoError(h.service.MinimizeChat("3"))

	convs, _ := h.service.Conversations()
	req.Empty(convs)
}

func TestMessengerService_Contacts_Search(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	h.login(t)

	all, err := h.service.Contacts("  ")
	req.NoError(err)
	req.Len(all, 8)

	found, err := h.service.Contacts("coffee")
	req.NoError(err)
	req.Len(found, 1)
	req.Equal("Lisa Park", found[0].Name)
}

func TestMessengerService_Logout_ShutsMessengerDown(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	h.login(t)

	// Given open chats with pending replies
	req.NoError(h.service.SendMessage("1", "hi"))
	req.NoError(h.service.Nudge("5"))
	req.Equal(2, h.clock.Pending())

	// When the user logs out
	req.NoError(h.session.Logout())

	// Then every reply is cancelled and nothing survives the next login
	req.Zero(h.clock.Pending())
	h.clock.Advance(time.Minute)
	h.login(t)
	convs, err := h.service.Conversations()
	req.NoError(err)
	req.Empty(convs)
}
