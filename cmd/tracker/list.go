package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/job-tracker/internal/domain"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/spreadsheet"
)

func newListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List applications, most recently applied first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, owner, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer deps.Close()

			apps, err := deps.Handlers.ListApplications.Handle(cmd.Context(), owner)
			if err != nil {
				return err
			}

			if len(apps) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No applications tracked")
				return nil
			}
			renderApplications(cmd.OutOrStdout(), apps)
			return nil
		},
	}
}

func renderApplications(w io.Writer, apps []domain.JobApplication) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"ID", "Company", "Role", "Status", "Applied", "Comments"})
	for _, app := range apps {
		t.AppendRow(table.Row{
			app.ID,
			app.CompanyName,
			app.RoleTitle,
			app.Status.Label(),
			spreadsheet.FormatAppliedAt(app.AppliedAt),
			len(app.Comments),
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "Total", len(apps)})

	t.Render()
}
