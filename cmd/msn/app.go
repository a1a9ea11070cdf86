package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"msn-reimagined/auth"
	"msn-reimagined/contract"
	"msn-reimagined/directory"
	"msn-reimagined/emoticon"
	"msn-reimagined/internal"
	"msn-reimagined/projection"
	"msn-reimagined/runtime"
	"msn-reimagined/runtime/workers"
	"msn-reimagined/services"
	"time"
)

// app wires the messenger stack: directory, reply simulator, conversation store,
// event bus with its supervised fan-out, session and service boundary.
type app struct {
	log          *slog.Logger
	config       internal.Config
	directory    *directory.Directory
	orchestrator *runtime.Orchestrator
	messenger    *runtime.Messenger
	session      *auth.Session
	service      *services.MessengerService
	timeline     *projection.Timeline
	emoticons    *emoticon.Replacer
	cancel       context.CancelFunc
	done         chan struct{}
}

func newApp(log *slog.Logger, config internal.Config, sinks ...contract.EventSink) (*app, error) {
	now := time.Now

	dir, err := directory.LoadDefault(now())
	if err != nil {
		return nil, fmt.Errorf("directory loading failed: %w", err)
	}
	pools, err := runtime.DefaultPhrasePools()
	if err != nil {
		return nil, fmt.Errorf("reply phrases loading failed: %w", err)
	}
	policy := runtime.ReplyPolicy{
		MinDelay:     config.ReplyMinDelay,
		MaxDelay:     config.ReplyMaxDelay,
		NudgeDelay:   config.NudgeReplyDelay,
		ChatPhrases:  pools[runtime.ChatPool],
		NudgePhrases: pools[runtime.NudgePool],
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	emoticons, err := emoticon.Default()
	if err != nil {
		return nil, err
	}

	sup := workers.NewSupervisor(log, config.RestartInterval)
	orchestrator := runtime.NewOrchestrator(log, sup, runtime.NewRegistry(), config.EventBufferSize, config.SinkTimeout)
	timeline := projection.NewTimeline()
	orchestrator.Add(timeline)
	orchestrator.Add(sinks...)

	seed := config.Seed(now())
	random := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	simulator := runtime.NewReplySimulator(log, dir, runtime.NewClockScheduler(), random, orchestrator, policy, now)
	messenger := runtime.NewMessenger(log, dir, simulator, orchestrator, now)
	session := auth.NewSession(log)

	log.Debug("Messenger wired", "contacts", len(dir.List()), "seed", seed,
		"minDelay", policy.MinDelay, "maxDelay", policy.MaxDelay)

	return &app{
		log:          log,
		config:       config,
		directory:    dir,
		orchestrator: orchestrator,
		messenger:    messenger,
		session:      session,
		service:      services.NewMessengerService(session, dir, messenger),
		timeline:     timeline,
		emoticons:    emoticons,
		done:         make(chan struct{}),
	}, nil
}

// start runs the event fan-out in the background until ctx is done or stop is called.
func (a *app) start(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(ctx)
	go func() {
		defer close(a.done)
		a.orchestrator.Start(ctx)
	}()
}

// stop logs the user out if needed, then waits for the buffered events to be delivered.
func (a *app) stop() {
	if a.session.IsAuthenticated() {
		if err := a.session.Logout(); err != nil {
			a.log.Warn("Logout failed", "error", err)
		}
	}
	a.orchestrator.Stop()
	// Covers a stop racing the supervisor start
	a.cancel()
	<-a.done
	a.log.Info("Program stopped cleanly")
}
