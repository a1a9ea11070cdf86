package services

import (
	"fmt"
	"msn-reimagined/auth"
	"msn-reimagined/directory"
	"msn-reimagined/domain"
	"msn-reimagined/errors"
	"msn-reimagined/runtime"
	"strings"
)

type IMessengerService interface {
	Contacts(query string) ([]domain.Contact, error)
	Conversations() (domain.Conversations, error)
	OpenChat(contactID string) error
	CloseChat(contactID string) error
	MinimizeChat(contactID string) error
	SendMessage(contactID, body string) error
	Nudge(contactID string) error
}

// MessengerService is the boundary used by the presentation layer.
// It validates commands and reports failures the store silently ignores.
type MessengerService struct {
	session   *auth.Session
	directory *directory.Directory
	messenger *runtime.Messenger
}

// NewMessengerService ties the messenger lifetime to the session: logging out
// shuts the messenger down.
func NewMessengerService(session *auth.Session, directory *directory.Directory, messenger *runtime.Messenger) *MessengerService {
	session.OnLogout(messenger.Shutdown)
	return &MessengerService{session: session, directory: directory, messenger: messenger}
}

// Contacts returns the buddies matching query, all of them when query is blank.
func (s *MessengerService) Contacts(query string) ([]domain.Contact, error) {
	if !s.session.IsAuthenticated() {
		return nil, errors.ErrNotAuthenticated
	}
	return s.directory.Search(query), nil
}

func (s *MessengerService) Conversations() (domain.Conversations, error) {
	if !s.session.IsAuthenticated() {
		return nil, errors.ErrNotAuthenticated
	}
	return s.messenger.Conversations(), nil
}

func (s *MessengerService) OpenChat(contactID string) error {
	if err := s.check(contactID); err != nil {
		return err
	}
	s.messenger.OpenChat(contactID)
	return nil
}

// CloseChat succeeds even if the chat was not open.
func (s *MessengerService) CloseChat(contactID string) error {
	if err := s.check(contactID); err != nil {
		return err
	}
	s.messenger.CloseChat(contactID)
	return nil
}

func (s *MessengerService) MinimizeChat(contactID string) error {
	if err := s.check(contactID); err != nil {
		return err
	}
	s.messenger.MinimizeChat(contactID)
	return nil
}

func (s *MessengerService) SendMessage(contactID, body string) error {
	if err := s.check(contactID); err != nil {
		return err
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return errors.ErrEmptyMessage
	}
	s.messenger.SendMessage(contactID, body)
	return nil
}

func (s *MessengerService) Nudge(contactID string) error {
	if err := s.check(contactID); err != nil {
		return err
	}
	s.messenger.Nudge(contactID)
	return nil
}

func (s *MessengerService) check(contactID string) error {
	if !s.session.IsAuthenticated() {
		return errors.ErrNotAuthenticated
	}
	if _, ok := s.directory.FindContact(contactID); !ok {
		return fmt.Errorf("%w: %q", errors.ErrContactNotFound, contactID)
	}
	return nil
}
