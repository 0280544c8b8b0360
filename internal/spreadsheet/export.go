// Package spreadsheet converts job applications to and from xlsx workbooks.
package spreadsheet

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jonesrussell/north-cloud/job-tracker/internal/domain"
)

// Sheet names.
const (
	ApplicationsSheet = "Applications"
	CommentsSheet     = "Comments"
)

// ContentType is the MIME type of a written workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const dateLayout = "2006-01-02"

var applicationHeaders = []any{
	colID, colCompanyName, colRoleTitle, colStatus, colStatusLabel,
	colAppliedAt, colURL, colRoleDescription, colCommentCount,
}

var commentHeaders = []any{"application_id", "comment_id", "created_at", "message"}

// Write renders apps as a workbook with one row per application on the
// Applications sheet and one row per comment, in timeline order, on Comments.
func Write(w io.Writer, apps []domain.JobApplication) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", ApplicationsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(CommentsSheet); err != nil {
		return fmt.Errorf("create comments sheet: %w", err)
	}

	if err := setRow(f, ApplicationsSheet, 1, applicationHeaders); err != nil {
		return err
	}
	if err := setRow(f, CommentsSheet, 1, commentHeaders); err != nil {
		return err
	}

	commentRow := 2
	for i, app := range apps {
		row := []any{
			app.ID,
			app.CompanyName,
			app.RoleTitle,
			string(app.Status),
			app.Status.Label(),
			FormatAppliedAt(app.AppliedAt),
			app.URL,
			app.RoleDescription,
			len(app.Comments),
		}
		if err := setRow(f, ApplicationsSheet, i+2, row); err != nil {
			return err
		}

		for _, c := range app.Comments {
			row := []any{app.ID, c.ID, c.CreatedAt.UTC().Format(time.RFC3339), c.Message}
			if err := setRow(f, CommentsSheet, commentRow, row); err != nil {
				return err
			}
			commentRow++
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// FormatAppliedAt renders midnight-UTC dates as YYYY-MM-DD and anything else as RFC 3339.
func FormatAppliedAt(t time.Time) string {
	t = t.UTC()
	if t.Equal(t.Truncate(24 * time.Hour)) {
		return t.Format(dateLayout)
	}
	return t.Format(time.RFC3339)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name for row %d: %w", row, err)
	}
	if err = f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
