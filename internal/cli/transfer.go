package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/remindflow/internal/app"
)

func newExportCmd(opts *options) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all schedules to stdout or a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := app.ParseFormat(format)
			if err != nil {
				return err
			}
			return opts.withApp(cmd.Context(), func(a *app.App) error {
				if output == "" || output == "-" {
					return a.Export(cmd.OutOrStdout(), f)
				}
				out, err := os.Create(output)
				if err != nil {
					return err
				}
				if err := a.Export(out, f); err != nil {
					out.Close()
					return err
				}
				return out.Close()
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "Output format: csv, ics, json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

func newImportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import schedules and settings from a JSON export (- reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return opts.withApp(cmd.Context(), func(a *app.App) error {
				res, err := a.Import(cmd.Context(), in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d schedule(s), skipped %d", res.Added, res.Skipped)
				if res.SettingsApplied {
					fmt.Fprint(cmd.OutOrStdout(), ", settings replaced")
				}
				fmt.Fprintln(cmd.OutOrStdout())
				return nil
			})
		},
	}
}

func newBackupCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Store a backup record and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd.Context(), func(a *app.App) error {
				b, err := a.Backup(cmd.Context())
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(b)
			})
		},
	}
}

func newUsageCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show storage usage against the quota",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd.Context(), func(a *app.App) error {
				u := a.Usage(cmd.Context())
				pct := 0.0
				if u.Total > 0 {
					pct = float64(u.Used) * 100 / float64(u.Total)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "used %d of %d bytes (%.2f%%)\n", u.Used, u.Total, pct)
				return nil
			})
		},
	}
}
