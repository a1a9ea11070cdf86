package ui

import (
	"context"
	"msn-reimagined/domain/event"

	tea "github.com/charmbracelet/bubbletea"
)

// EventMsg carries a messenger event into the Bubble Tea loop.
type EventMsg struct {
	Event event.DomainEvent
}

// ProgramSink forwards events to a running program, usually tea.Program.Send.
type ProgramSink struct {
	send func(tea.Msg)
}

func NewProgramSink(send func(tea.Msg)) ProgramSink {
	return ProgramSink{send: send}
}

func (s ProgramSink) Consume(ctx context.Context, e event.DomainEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.send(EventMsg{Event: e})
	return nil
}
