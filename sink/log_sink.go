package sink

import (
	"context"
	"fmt"
	"log/slog"
	"msn-reimagined/domain/event"
)

// LogSink writes the conversation transcript to the structured logger.
type LogSink struct {
	log *slog.Logger
}

func NewLogSink(log *slog.Logger) LogSink {
	return LogSink{log: log}
}

func (l LogSink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.ChatOpened:
		l.log.Info("Chat opened", "contact", evt.Contact.ID, "name", evt.Contact.Name,
			"presence", evt.Contact.Presence)
	case event.ChatClosed:
		l.log.Info("Chat closed", "contact", evt.Contact, "discarded", evt.Discarded)
	case event.ChatMinimized:
		l.log.Info("Chat minimized", "contact", evt.Contact, "minimized", evt.Minimized)
	case event.MessageAppended:
		l.log.Info(fmt.Sprintf("[%s] %s: %s", evt.Message.CreatedAt.Format("15:04:05"),
			evt.Message.Sender, evt.Message.Body),
			"contact", evt.Contact, "seq", evt.Message.Seq, "kind", evt.Message.Kind)
	case event.ReplyScheduled:
		l.log.Debug("Reply scheduled", "contact", evt.Contact, "trigger", evt.Trigger, "delay", evt.Delay)
	case event.ReplySkipped:
		l.log.Debug("Reply skipped", "contact", evt.Contact, "trigger", evt.Trigger, "reason", evt.Reason)
	default:
		l.log.Debug(fmt.Sprintf("Not implemented event : %T", evt))
	}
	return nil
}
