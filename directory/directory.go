// Package directory holds the read-only contact list of a session.
// It is built once and never mutated, so it needs no locking.
package directory

import (
	"fmt"
	"msn-reimagined/domain"
	"msn-reimagined/errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

var validate = validator.New()

type Directory struct {
	contacts []domain.Contact
	byID     map[string]int
}

// New validates every contact and rejects duplicate identifiers.
func New(contacts []domain.Contact) (*Directory, error) {
	d := &Directory{
		contacts: make([]domain.Contact, 0, len(contacts)),
		byID:     make(map[string]int, len(contacts)),
	}
	for _, c := range contacts {
		if err := validate.Struct(c); err != nil {
			return nil, fmt.Errorf("contact %q: %w", c.ID, err)
		}
		if _, ok := d.byID[c.ID]; ok {
			return nil, fmt.Errorf("%w: %q", errors.ErrDuplicateContact, c.ID)
		}
		d.byID[c.ID] = len(d.contacts)
		d.contacts = append(d.contacts, c)
	}
	return d, nil
}

// FindContact returns false for an unknown id; callers treat that as a no-op.
func (d *Directory) FindContact(id string) (domain.Contact, bool) {
	i, ok := d.byID[id]
	if !ok {
		return domain.Contact{}, false
	}
	return d.contacts[i], true
}

// List returns the contacts in declaration order.
func (d *Directory) List() []domain.Contact {
	res := make([]domain.Contact, len(d.contacts))
	copy(res, d.contacts)
	return res
}

// Search keeps the contacts whose name or status message contains query,
// ignoring case. An empty query matches everybody.
func (d *Directory) Search(query string) []domain.Contact {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return d.List()
	}
	return lo.Filter(d.contacts, func(c domain.Contact, _ int) bool {
		return strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(strings.ToLower(c.StatusMessage), q)
	})
}

func (d *Directory) CountByPresence() map[domain.Presence]int {
	return lo.CountValuesBy(d.contacts, func(c domain.Contact) domain.Presence {
		return c.Presence
	})
}

// Group is one section of the buddy list.
type Group struct {
	Presence domain.Presence
	Contacts []domain.Contact
}

// GroupByPresence sections contacts in domain.PresenceOrder, omitting empty groups.
func GroupByPresence(contacts []domain.Contact) []Group {
	byPresence := lo.GroupBy(contacts, func(c domain.Contact) domain.Presence {
		return c.Presence
	})
	var groups []Group
	for _, p := range domain.PresenceOrder {
		if members, ok := byPresence[p]; ok && len(members) > 0 {
			groups = append(groups, Group{Presence: p, Contacts: members})
		}
	}
	return groups
}
