// Package domain contains core concepts of the messenger.
// This file defines the LocalUser supplied by the authentication collaborator.
// The messenger core only reads it.
package domain

type LocalUser struct {
	Name          string
	Email         string
	Presence      Presence
	StatusMessage string
}
