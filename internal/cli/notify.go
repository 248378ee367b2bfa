package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/remindflow/internal/app"
	"github.com/sandeepkv93/remindflow/internal/notify"
)

var errPermissionDenied = errors.New("notification permission denied")

func newNotifyCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Send or check reminders",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "test",
			Short: "Send a test notification",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return opts.withApp(cmd.Context(), func(a *app.App) error {
					ensurePermission(cmd, a)
					if err := a.TestNotification(cmd.Context()); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "test notification sent")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "check",
			Short: "Notify every reminder of today that has not started yet",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return opts.withApp(cmd.Context(), func(a *app.App) error {
					ensurePermission(cmd, a)
					n, err := a.CheckNow(cmd.Context())
					fmt.Fprintf(cmd.OutOrStdout(), "notified %d reminder(s)\n", n)
					return err
				})
			},
		},
		&cobra.Command{
			Use:   "schedule <id>",
			Short: "Show the reminder for one schedule now",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withApp(cmd.Context(), func(a *app.App) error {
					ensurePermission(cmd, a)
					if err := a.NotifySchedule(cmd.Context(), args[0]); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "notified %s\n", args[0])
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "on",
			Short: "Turn reminders on",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return opts.withApp(cmd.Context(), func(a *app.App) error {
					return setNotifications(cmd, a, true)
				})
			},
		},
		&cobra.Command{
			Use:   "off",
			Short: "Turn reminders off",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return opts.withApp(cmd.Context(), func(a *app.App) error {
					return setNotifications(cmd, a, false)
				})
			},
		},
	)
	return cmd
}

func ensurePermission(cmd *cobra.Command, a *app.App) {
	if a.Permission() != notify.PermissionDefault {
		return
	}
	if _, err := a.RequestPermission(cmd.Context()); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "permission request failed: %v\n", err)
	}
}

func setNotifications(cmd *cobra.Command, a *app.App, on bool) error {
	ok, err := a.SetNotificationsEnabled(cmd.Context(), on)
	if err != nil {
		return err
	}
	if !ok {
		return errPermissionDenied
	}
	state := "off"
	if on {
		state = "on"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "notifications %s\n", state)
	return nil
}

func newHistoryCmd(opts *options) *cobra.Command {
	var markRead, clearAll bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the notification history, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd.Context(), func(a *app.App) error {
				out := cmd.OutOrStdout()
				switch {
				case clearAll:
					if err := a.History.Clear(cmd.Context()); err != nil {
						return err
					}
					fmt.Fprintln(out, "history cleared")
					return nil
				case markRead:
					if err := a.History.MarkAllRead(cmd.Context()); err != nil {
						return err
					}
					fmt.Fprintln(out, "history marked read")
					return nil
				}
				entries := a.History.Entries()
				fmt.Fprintf(out, "%d entries, %d unread\n", len(entries), a.History.CountUnread())
				for _, e := range entries {
					mark := " "
					if !e.Read {
						mark = "*"
					}
					fmt.Fprintf(out, "%s %s %s | %s\n", mark, e.CreatedAt.In(a.Location()).Format("2006-01-02 15:04"), e.Title, e.Body)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&markRead, "mark-read", false, "Mark every entry read")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Delete every entry")
	cmd.MarkFlagsMutuallyExclusive("mark-read", "clear")
	return cmd
}
