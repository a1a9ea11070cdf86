package auth

import (
	"fmt"
	"msn-reimagined/domain"
	"msn-reimagined/errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type LoginRequest struct {
	Name          string `validate:"required,max=64"`
	Email         string `validate:"required,email"`
	Presence      string `validate:"omitempty"`
	StatusMessage string `validate:"max=128"`
}

// ValidateLogin checks the request and normalizes it into the user shown to the messenger.
// A blank presence means online.
func ValidateLogin(req LoginRequest) (domain.LocalUser, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := validate.Struct(req); err != nil {
		return domain.LocalUser{}, fmt.Errorf("%w: %v", errors.ErrInvalidLogin, err)
	}

	presence := domain.PresenceOnline
	if strings.TrimSpace(req.Presence) != "" {
		p, err := domain.ParsePresence(req.Presence)
		if err != nil {
			return domain.LocalUser{}, err
		}
		presence = p
	}

	return domain.LocalUser{
		Name:          req.Name,
		Email:         req.Email,
		Presence:      presence,
		StatusMessage: req.StatusMessage,
	}, nil
}
