package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/job-tracker/internal/service"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/spreadsheet"
)

func newImportCommand(opts *rootOptions) *cobra.Command {
	var in string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Create applications from an xlsx workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if in == "" {
				return errors.New("--in is required")
			}

			deps, owner, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer deps.Close()

			f, err := os.Open(in)
			if err != nil {
				return fmt.Errorf("open %s: %w", in, err)
			}
			defer func() { _ = f.Close() }()

			rows, rejected, err := spreadsheet.Read(f)
			if err != nil {
				return err
			}

			ids := service.UUIDGenerator{}
			created := 0
			for _, row := range rows {
				id := row.ID
				if id == "" {
					id = ids.NewID()
				}
				_, createErr := deps.Handlers.CreateApplication.Handle(cmd.Context(), service.CreateApplicationInput{
					ID:              id,
					OwnerID:         owner,
					CompanyName:     row.CompanyName,
					RoleTitle:       row.RoleTitle,
					RoleDescription: row.RoleDescription,
					URL:             row.URL,
					AppliedAt:       row.AppliedAt,
					Status:          row.Status,
					InitialComment:  row.Comment,
				})
				if createErr != nil {
					rejected = append(rejected, spreadsheet.ImportError{Row: row.Row, Error: createErr.Error()})
					continue
				}
				created++
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d of %d rows\n", created, created+len(rejected))
			if len(rejected) > 0 {
				renderImportErrors(out, rejected)
				return fmt.Errorf("%d rows rejected", len(rejected))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "workbook to import")
	return cmd
}

func renderImportErrors(w io.Writer, rejected []spreadsheet.ImportError) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Row", "Error"})
	for _, r := range rejected {
		t.AppendRow(table.Row{strconv.Itoa(r.Row), r.Error})
	}
	t.SortBy([]table.SortBy{{Name: "Row", Mode: table.AscNumeric}})
	t.Render()
}
