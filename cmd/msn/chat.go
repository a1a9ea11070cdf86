package main

import (
	"errors"
	"log/slog"
	"msn-reimagined/auth"
	"msn-reimagined/sink"
	"msn-reimagined/ui"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

func newChatCmd(c *cli) *cobra.Command {
	var (
		autoLogin bool
		logFile   string
	)
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "start the terminal client",
		Long: `Start the terminal client. Display settings come from MSN_THEME (light or dark)
and MSN_ALT_SCREEN. Logs go to a file so they never garble the screen.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := ui.LoadSettings()
			if err != nil {
				return err
			}

			logWriter := &lumberjack.Logger{
				Filename:   logFile,
				MaxSize:    5,
				MaxBackups: 3,
				LocalTime:  true,
			}
			defer logWriter.Close()
			log := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{Level: parseLevel(c.config.LogLevel)}))

			var program *tea.Program
			forward := ui.NewProgramSink(func(msg tea.Msg) { program.Send(msg) })
			a, err := newApp(log, c.config, forward, sink.NewLogSink(log))
			if err != nil {
				return err
			}

			if autoLogin {
				if _, err := a.session.Login(auth.LoginRequest{
					Name: c.config.LocalUserName, Email: c.config.LocalUserEmail,
				}); err != nil {
					return err
				}
			}

			model := ui.NewModel(a.service, a.session, a.emoticons, settings, time.Now)
			var opts []tea.ProgramOption
			if settings.AltScreen {
				opts = append(opts, tea.WithAltScreen())
			}
			program = tea.NewProgram(model, append(opts, tea.WithContext(cmd.Context()))...)

			a.start(cmd.Context())
			defer a.stop()

			if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&autoLogin, "auto-login", false, "sign in as LOCAL_USER_NAME / LOCAL_USER_EMAIL")
	cmd.Flags().StringVar(&logFile, "log-file", "msn.log", "where the session logs are written")
	return cmd
}
