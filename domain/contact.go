package domain

import (
	"fmt"
	"time"
)

// Contact is a buddy of the local user as listed in the directory.
// LastSeen is maintained outside the messenger core and never mutated by it.
type Contact struct {
	ID            string   `validate:"required"`
	Name          string   `validate:"required"`
	Email         string   `validate:"omitempty,email"`
	Presence      Presence `validate:"required,oneof=online away busy offline"`
	StatusMessage string
	Avatar        string `validate:"omitempty,uri"`
	LastSeen      time.Time
}

func (c Contact) IsOnline() bool {
	return c.Presence == PresenceOnline
}

// LastSeenText renders the buddy list hint under a contact name.
func (c Contact) LastSeenText(now time.Time) string {
	if c.IsOnline() {
		return "Online now"
	}
	elapsed := now.Sub(c.LastSeen)
	switch {
	case elapsed < time.Minute:
		return "Last seen just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("Last seen %s ago", plural(int(elapsed/time.Minute), "minute"))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("Last seen %s ago", plural(int(elapsed/time.Hour), "hour"))
	default:
		return fmt.Sprintf("Last seen %s ago", plural(int(elapsed/(24*time.Hour)), "day"))
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
