package main

import (
	"fmt"
	"io"
	"msn-reimagined/directory"
	"msn-reimagined/domain"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var presenceColors = map[domain.Presence]color.Color{
	domain.PresenceOnline:  color.FgGreen,
	domain.PresenceAway:    color.FgYellow,
	domain.PresenceBusy:    color.FgRed,
	domain.PresenceOffline: color.FgGray,
}

func newBuddiesCmd(c *cli) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "buddies",
		Short: "print the buddy list",
		Long: `Print the buddy list grouped by presence: online, away, busy, offline.
The search is case-insensitive and matches names and status messages.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := directory.LoadDefault(time.Now())
			if err != nil {
				return err
			}
			c.log.Debug("Listing buddies", "search", search)
			printBuddies(cmd.OutOrStdout(), dir, search, time.Now())
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "filter on name or status message")
	return cmd
}

func printBuddies(w io.Writer, dir *directory.Directory, search string, now time.Time) {
	contacts := dir.Search(search)
	if len(contacts) == 0 {
		fmt.Fprintf(w, "No contacts found for %q\n", search)
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Name", "Presence", "Status message", "Last seen"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for _, group := range directory.GroupByPresence(contacts) {
		for _, contact := range group.Contacts {
			table.Append([]string{
				contact.ID,
				contact.Name,
				presenceColors[contact.Presence].Render("● " + contact.Presence.Label()),
				contact.StatusMessage,
				contact.LastSeenText(now),
			})
		}
	}
	table.Render()

	counts := dir.CountByPresence()
	summary := lo.Map(domain.PresenceOrder, func(p domain.Presence, _ int) string {
		return fmt.Sprintf("%s %d", p.Label(), counts[p])
	})
	fmt.Fprintf(w, "\n%s\n", strings.Join(summary, " • "))
}
