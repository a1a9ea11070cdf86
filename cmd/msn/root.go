package main

import (
	"log/slog"
	"msn-reimagined/internal"

	"github.com/mama165/sdk-go/logs"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

type cli struct {
	config   internal.Config
	log      *slog.Logger
	logLevel string
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:     "msn",
		Short:   "MSN Messenger, reimagined in the terminal",
		Version: version,
		Long: `A nostalgic instant messenger: a buddy list grouped by presence, chat windows
that can be minimized, nudges, and buddies that answer by themselves.`,
		Example: `  # List buddies whose name or status mentions coffee
  $ msn buddies --search coffee

  # Start the terminal client
  $ msn chat

  # Play a scripted session and print its transcript
  $ msn demo`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			config, err := internal.LoadConfig()
			if err != nil {
				return err
			}
			if c.logLevel != "" {
				config.LogLevel = c.logLevel
			}
			c.config = config
			c.log = logs.GetLoggerFromString(config.LogLevel)
			return nil
		},
		SilenceUsage: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "override LOG_LEVEL")

	root.AddCommand(newBuddiesCmd(c), newChatCmd(c), newDemoCmd(c))
	return root
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
