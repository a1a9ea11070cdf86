package ui

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Settings are display preferences, read from MSN_* variables.
type Settings struct {
	Theme     string `envconfig:"THEME" default:"light"`
	AltScreen bool   `envconfig:"ALT_SCREEN" default:"true"`
}

func LoadSettings() (Settings, error) {
	var s Settings
	if err := envconfig.Process("msn", &s); err != nil {
		return Settings{}, fmt.Errorf("ui settings: %w", err)
	}
	if _, err := ParseTheme(s.Theme); err != nil {
		return Settings{}, err
	}
	return s, nil
}
