// Package cli is the remindflow command line: one-shot schedule commands,
// the terminal client and the background reminder daemon.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/remindflow/internal/app"
	"github.com/sandeepkv93/remindflow/internal/config"
	"github.com/sandeepkv93/remindflow/internal/log"
	"github.com/sandeepkv93/remindflow/internal/notify"
)

type options struct {
	configPath string
	logLevel   string
	cfg        config.RuntimeConfig
}

// NewRootCommand builds the command tree. Without a subcommand it starts
// the terminal client.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "remindflow",
		Short: "remindflow: personal schedules with timed reminders",
		Long: `remindflow keeps a personal list of schedules and raises a desktop
notification before each one starts. Data lives in a local SQLite file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath(), "Path to the YAML config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level override: debug, info, warn, error")

	root.AddCommand(
		newTUICmd(opts),
		newDaemonCmd(opts),
		newAddCmd(opts),
		newListCmd(opts),
		newSearchCmd(opts),
		newMarkCmd(opts, "done", "Mark a schedule completed", markDone),
		newMarkCmd(opts, "undo", "Reopen a completed schedule", markUndo),
		newMarkCmd(opts, "archive", "Archive a schedule", markArchive),
		newMarkCmd(opts, "restore", "Restore an archived schedule", markRestore),
		newDeleteCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newBackupCmd(opts),
		newUsageCmd(opts),
		newHistoryCmd(opts),
		newSettingsCmd(opts),
		newNotifyCmd(opts),
	)
	return root
}

// Execute is the entry point called from main.
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (o *options) load() error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	log.SetLevel(log.ParseLevel(cfg.LogLevel))
	o.cfg = cfg
	return nil
}

// defaultSink is the desktop notifier, or a silent sink when desktop
// notifications are turned off in the config.
func (o *options) defaultSink() notify.Sink {
	if o.cfg.DesktopNotifications {
		return notify.NewDesktop()
	}
	return notify.Noop{}
}

// withApp opens the app for a one-shot command and closes it afterwards.
func (o *options) withApp(ctx context.Context, fn func(*app.App) error) error {
	a, err := app.Open(ctx, o.cfg, o.defaultSink())
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Error("close app failed", err)
		}
	}()
	return fn(a)
}
