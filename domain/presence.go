// Package domain contains core concepts of the messenger.
// This file defines the Presence enumeration shared by contacts and the local user.
package domain

import (
	"fmt"
	"msn-reimagined/errors"
	"strings"
)

type Presence string

const (
	PresenceOnline  Presence = "online"
	PresenceAway    Presence = "away"
	PresenceBusy    Presence = "busy"
	PresenceOffline Presence = "offline"
)

// PresenceOrder is the order in which the buddy list groups contacts.
var PresenceOrder = []Presence{PresenceOnline, PresenceAway, PresenceBusy, PresenceOffline}

func ParsePresence(s string) (Presence, error) {
	p := Presence(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", errors.ErrInvalidPresence, s)
	}
	return p, nil
}

func (p Presence) Valid() bool {
	switch p {
	case PresenceOnline, PresenceAway, PresenceBusy, PresenceOffline:
		return true
	}
	return false
}

func (p Presence) Label() string {
	switch p {
	case PresenceOnline:
		return "Online"
	case PresenceAway:
		return "Away"
	case PresenceBusy:
		return "Busy"
	case PresenceOffline:
		return "Offline"
	}
	return "Unknown"
}

func (p Presence) String() string {
	return string(p)
}
