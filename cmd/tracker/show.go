package main

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/job-tracker/internal/domain"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/spreadsheet"
)

func newShowCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one application and its comment timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, owner, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer deps.Close()

			app, found, err := deps.Handlers.GetApplicationByID.Handle(cmd.Context(), args[0], owner)
			if err != nil {
				return err
			}
			if !found {
				return domain.NewNotFoundError(args[0])
			}

			renderApplication(cmd.OutOrStdout(), app)
			return nil
		},
	}
}

func renderApplication(w io.Writer, app domain.JobApplication) {
	details := table.NewWriter()
	details.SetOutputMirror(w)
	details.SetStyle(table.StyleLight)

	details.AppendRows([]table.Row{
		{"ID", app.ID},
		{"Company", app.CompanyName},
		{"Role", app.RoleTitle},
		{"Status", app.Status.Label()},
		{"Applied", spreadsheet.FormatAppliedAt(app.AppliedAt)},
	})
	if app.HasURL() {
		details.AppendRow(table.Row{"URL", app.URL})
	}
	if app.HasRoleDescription() {
		details.AppendRow(table.Row{"Description", app.RoleDescription})
	}
	details.Render()

	if len(app.Comments) == 0 {
		fmt.Fprintln(w, "No comments")
		return
	}

	timeline := table.NewWriter()
	timeline.SetOutputMirror(w)
	timeline.SetStyle(table.StyleLight)
	timeline.AppendHeader(table.Row{"When", "Comment"})
	for _, c := range app.Comments {
		timeline.AppendRow(table.Row{c.CreatedAt.UTC().Format(time.RFC3339), c.Message})
	}
	timeline.Render()
}
