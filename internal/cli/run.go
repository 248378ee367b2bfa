package cli

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/remindflow/internal/app"
	"github.com/sandeepkv93/remindflow/internal/log"
	"github.com/sandeepkv93/remindflow/internal/notify"
	"github.com/sandeepkv93/remindflow/internal/update"
)

const shutdownTimeout = 10 * time.Second

// reminderBuffer bounds reminders queued for the terminal client.
const reminderBuffer = 16

func newTUICmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal client (the default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}
}

func runTUI(ctx context.Context, opts *options) error {
	ch := notify.NewChannel(reminderBuffer)
	sink := notify.Sink(ch)
	if opts.cfg.DesktopNotifications {
		sink = notify.NewFanout(notify.NewDesktop(), ch)
	}
	a, err := app.Open(ctx, opts.cfg, sink)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Error("close app failed", err)
		}
	}()
	a.Start(ctx)

	program := tea.NewProgram(update.NewModel(a, ch.C()), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("remindflow: terminal client: %w", err)
	}
	return nil
}

func newDaemonCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the reminder scheduler in the background until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := app.Open(ctx, opts.cfg, opts.defaultSink())
			if err != nil {
				return err
			}
			a.Start(ctx)
			log.Info("remindflow daemon started",
				"database", opts.cfg.DatabasePath(),
				"poll_interval", opts.cfg.PollInterval,
				"polling", a.Scheduler.Polling(),
			)

			wait := gfshutdown.GracefulShutdown(
				context.Background(),
				shutdownTimeout,
				map[string]gfshutdown.Operation{
					"remindflow": func(context.Context) error {
						log.Info("graceful shutdown initiated")
						return a.Close()
					},
				},
			)
			if code := <-wait; code != 0 {
				return fmt.Errorf("remindflow: daemon exited with code %d", code)
			}
			log.Info("remindflow daemon stopped")
			return nil
		},
	}
}
