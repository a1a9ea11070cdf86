package directory

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"msn-reimagined/domain"
	"time"
)

//go:embed buddies.json
var defaultBuddies []byte

type buddyRecord struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Status             string `json:"status"`
	StatusMessage      string `json:"statusMessage"`
	Avatar             string `json:"avatar"`
	LastSeenMinutesAgo int    `json:"lastSeenMinutesAgo"`
}

// LoadDefault builds the demo buddy list; last-seen offsets are resolved against now.
func LoadDefault(now time.Time) (*Directory, error) {
	return Load(defaultBuddies, now)
}

func Load(data []byte, now time.Time) (*Directory, error) {
	var records []buddyRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding buddies: %w", err)
	}
	contacts := make([]domain.Contact, 0, len(records))
	for _, r := range records {
		presence, err := domain.ParsePresence(r.Status)
		if err != nil {
			return nil, fmt.Errorf("buddy %q: %w", r.ID, err)
		}
		contacts = append(contacts, toContact(r, presence, now))
	}
	return New(contacts)
}

func toContact(r buddyRecord, presence domain.Presence, now time.Time) domain.Contact {
	return domain.Contact{
		ID:            r.ID,
		Name:          r.Name,
		Email:         r.Email,
		Presence:      presence,
		StatusMessage: r.StatusMessage,
		Avatar:        r.Avatar,
		LastSeen:      now.Add(-time.Duration(max(r.LastSeenMinutesAgo, 0)) * time.Minute),
	}
}
