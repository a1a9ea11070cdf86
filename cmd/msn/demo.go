package main

import (
	"fmt"
	"io"
	"msn-reimagined/auth"
	"msn-reimagined/domain"
	"msn-reimagined/emoticon"
	"msn-reimagined/projection"
	"msn-reimagined/sink"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type step struct {
	label string
	run   func() error
}

func newDemoCmd(c *cli) *cobra.Command {
	var (
		settle time.Duration
		follow string
	)
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "play a scripted session on the real clock",
		Long: `Sign in, chat with online and offline buddies, nudge one of them and minimize
a window, then print what every conversation looks like once the replies landed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(c.log, c.config, sink.NewLogSink(c.log))
			if err != nil {
				return err
			}
			if follow != "" {
				a.orchestrator.Watch("demo-follow", follow, sink.NewLogSink(c.log.With("follow", follow)))
				defer a.orchestrator.Unwatch("demo-follow", follow)
			}
			a.start(cmd.Context())
			stopped := false
			defer func() {
				if !stopped {
					a.stop()
				}
			}()

			svc := a.service
			steps := []step{
				{"sign in", func() error {
					_, err := a.session.Login(auth.LoginRequest{Name: c.config.LocalUserName, Email: c.config.LocalUserEmail})
					return err
				}},
				{"open a chat with Sarah", func() error { return svc.OpenChat("1") }},
				{"say hi to Sarah", func() error { return svc.SendMessage("1", "Hey Sarah :)") }},
				{"write to David, who is offline", func() error { return svc.SendMessage("4", "Are you there? (y)") }},
				{"nudge Lisa", func() error { return svc.Nudge("5") }},
				{"open and minimize Mike", func() error {
					if err := svc.OpenChat("2"); err != nil {
						return err
					}
					return svc.MinimizeChat("2")
				}},
			}
			for _, s := range steps {
				c.log.Info("Demo step", "step", s.label)
				if err := s.run(); err != nil {
					return fmt.Errorf("%s: %w", s.label, err)
				}
			}

			wait := max(c.config.ReplyMaxDelay, c.config.NudgeReplyDelay) + settle
			c.log.Info("Waiting for replies", "wait", wait)
			select {
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			case <-time.After(wait):
			}

			convs, err := svc.Conversations()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printTranscripts(out, convs, a.emoticons)

			stopped = true
			a.stop()
			printSummary(out, a.timeline)
			return nil
		},
	}
	cmd.Flags().DurationVar(&settle, "settle", 500*time.Millisecond, "extra wait after the longest reply delay")
	cmd.Flags().StringVar(&follow, "follow", "", "also log every event of this contact's conversation, tagged follow=<id>")
	return cmd
}

func printTranscripts(w io.Writer, convs domain.Conversations, emoticons *emoticon.Replacer) {
	for _, id := range convs.Keys() {
		conv := convs[id]
		state := ""
		if conv.Minimized {
			state = " (minimized)"
		}
		fmt.Fprintf(w, "=== %s [%s]%s ===\n", conv.Contact.Name, conv.Contact.Presence.Label(), state)
		if len(conv.Messages) == 0 {
			fmt.Fprintln(w, "  (no messages)")
		}
		for _, msg := range conv.Messages {
			fmt.Fprintf(w, "  %s  %s: %s\n", msg.CreatedAt.Format("15:04:05"), msg.Sender, emoticons.Render(msg.Body))
		}
		fmt.Fprintln(w)
	}
}

func printSummary(w io.Writer, timeline *projection.Timeline) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Contact", "Sent", "Received", "Nudges", "Skipped replies", "Last message"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, s := range timeline.Summaries() {
		last := ""
		if s.Last != nil {
			last = fmt.Sprintf("%s: %s", s.Last.Sender, s.Last.Body)
		}
		table.Append([]string{
			s.Name,
			fmt.Sprint(s.Sent),
			fmt.Sprint(s.Received),
			fmt.Sprint(s.Nudges),
			fmt.Sprint(s.SkippedReplies),
			last,
		})
	}
	table.Render()
}
