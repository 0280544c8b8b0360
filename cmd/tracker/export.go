package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/job-tracker/internal/spreadsheet"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the owner's applications to an xlsx workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			deps, owner, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer deps.Close()

			apps, err := deps.Handlers.ListApplications.Handle(cmd.Context(), owner)
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer func() { err = errors.Join(err, f.Close()) }()

			if err = spreadsheet.Write(f, apps); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d applications to %s\n", len(apps), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "applications.xlsx", "output workbook path")
	return cmd
}
