package directory

import (
	"msn-reimagined/domain"
	"msn-reimagined/errors"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestLoadDefault(t *testing.T) {
	req := require.New(t)
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	dir, err := LoadDefault(now)
	req.NoError(err)
	req.Len(dir.List(), 8)

	sarah, ok := dir.FindContact("1")
	req.True(ok)
	req.Equal("Sarah Chen", sarah.Name)
	req.Equal(domain.PresenceOnline, sarah.Presence)

	david, ok := dir.FindContact("4")
	req.True(ok)
	req.Equal(domain.PresenceOffline, david.Presence)
	req.Equal(now.Add(-2*time.Hour), david.LastSeen)
}

func TestFindContact_Unknown(t *testing.T) {
	req := require.New(t)
	dir, err := LoadDefault(time.Now())
	req.NoError(err)

	contact, ok := dir.FindContact("42")
	req.False(ok)
	req.Empty(contact)
}

func TestNew_RejectsDuplicateAndInvalidContacts(t *testing.T) {
	tests := []struct {
		name     string
		contacts []domain.Contact
		wantErr  error
	}{
		{
			name: "Duplicate identifier",
			contacts: []domain.Contact{
				{ID: "1", Name: "Alice", Presence: domain.PresenceOnline},
				{ID: "1", Name: "Bob", Presence: domain.PresenceAway},
			},
			wantErr: errors.ErrDuplicateContact,
		},
		{
			name:     "Unknown presence",
			contacts: []domain.Contact{{ID: "1", Name: "Alice", Presence: "invisible"}},
		},
		{
			name:     "Missing name",
			contacts: []domain.Contact{{ID: "1", Presence: domain.PresenceOnline}},
		},
		{
			name:     "Invalid email",
			contacts: []domain.Contact{{ID: "1", Name: "Alice", Email: "alice", Presence: domain.PresenceOnline}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			_, err := New(tt.contacts)
			req.Error(err)
			if tt.wantErr != nil {
				req.ErrorIs(err, tt.wantErr)
			}
		})
	}
}

func TestLoad_InvalidStatus(t *testing.T) {
	req := require.New(t)
	_, err := Load([]byte(`[{"id":"1","name":"Alice","status":"invisible"}]`), time.Now())
	req.ErrorIs(err, errors.ErrInvalidPresence)
}

func TestSearch(t *testing.T) {
	req := require.New(t)
	dir, err := LoadDefault(time.Now())
	req.NoError(err)

	ids := func(contacts []domain.Contact) []string {
		return lo.Map(contacts, func(c domain.Contact, _ int) string { return c.ID })
	}

	// Name match, case-insensitive
	req.Equal([]string{"1"}, ids(dir.Search("SARAH")))
	// Status message match
	req.Equal([]string{"6"}, ids(dir.Search("dog")))
	// Both fields can match different contacts
	req.ElementsMatch([]string{"7", "8"}, ids(dir.Search("ca")))
	// Empty query keeps everyone
	req.Len(dir.Search("   "), 8)
	// No match
	req.Empty(dir.Search("zebra"))
}

func TestGroupByPresence(t *testing.T) {
	req := require.New(t)
	dir, err := LoadDefault(time.Now())
	req.NoError(err)

	groups := GroupByPresence(dir.List())
	req.Len(groups, 4)
	req.Equal(domain.PresenceOrder, lo.Map(groups, func(g Group, _ int) domain.Presence { return g.Presence }))
	req.Equal("Sarah Chen", groups[0].Contacts[0].Name)
	req.Equal("Lisa Park", groups[0].Contacts[1].Name)

	// Empty groups are omitted
	groups = GroupByPresence(dir.Search("coffee"))
	req.Len(groups, 1)
	req.Equal(domain.PresenceOnline, groups[0].Presence)

	req.Equal(map[domain.Presence]int{
		domain.PresenceOnline:  2,
		domain.PresenceAway:    2,
		domain.PresenceBusy:    2,
		domain.PresenceOffline: 2,
	}, dir.CountByPresence())
}
