package spreadsheet

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jonesrussell/north-cloud/job-tracker/internal/domain"
)

// Column headers. Import matches them ignoring case, accents, spaces versus
// underscores, and column order.
const (
	colID              = "id"
	colCompanyName     = "company_name"
	colRoleTitle       = "role_title"
	colStatus          = "status"
	colStatusLabel     = "status_label"
	colAppliedAt       = "applied_at"
	colURL             = "url"
	colRoleDescription = "role_description"
	colCommentCount    = "comment_count"
	colComment         = "comment"

	headerRow = 1
)

var requiredColumns = []string{colCompanyName, colRoleTitle, colStatus, colAppliedAt}

// ApplicationRow is one parsed row. Row is the 1-based sheet row for error reporting.
type ApplicationRow struct {
	Row             int
	ID              string
	CompanyName     string
	RoleTitle       string
	RoleDescription string
	URL             string
	AppliedAt       time.Time
	Status          domain.Status
	Comment         string
}

// ImportError reports a rejected row.
type ImportError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// Read parses the Applications sheet. Rows that fail validation are returned as
// ImportErrors; the error return is reserved for unreadable workbooks.
func Read(r io.Reader) ([]ApplicationRow, []ImportError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(ApplicationsSheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s sheet: %w", ApplicationsSheet, err)
	}
	if len(rows) < headerRow {
		return nil, nil, fmt.Errorf("sheet %s has no header row", ApplicationsSheet)
	}

	columns := indexHeader(rows[0])
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, nil, fmt.Errorf("sheet %s is missing column %q", ApplicationsSheet, name)
		}
	}

	var (
		parsed   []ApplicationRow
		rejected []ImportError
	)
	for i, cells := range rows[headerRow:] {
		rowNumber := i + headerRow + 1
		if isBlank(cells) {
			continue
		}

		row, msg := parseRow(rowNumber, cells, columns)
		if msg != "" {
			rejected = append(rejected, ImportError{Row: rowNumber, Error: msg})
			continue
		}
		parsed = append(parsed, row)
	}
	return parsed, rejected, nil
}

func parseRow(rowNumber int, cells []string, columns map[string]int) (ApplicationRow, string) {
	get := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(cells) {
			return ""
		}
		return cleanCell(cells[idx])
	}

	row := ApplicationRow{
		Row:             rowNumber,
		ID:              get(colID),
		CompanyName:     get(colCompanyName),
		RoleTitle:       get(colRoleTitle),
		RoleDescription: get(colRoleDescription),
		URL:             get(colURL),
		Comment:         get(colComment),
	}

	if row.CompanyName == "" {
		return row, colCompanyName + " is required"
	}
	if row.RoleTitle == "" {
		return row, colRoleTitle + " is required"
	}

	appliedAt, err := domain.ParseAppliedDate(get(colAppliedAt))
	if err != nil {
		return row, colAppliedAt + " must be YYYY-MM-DD or RFC 3339"
	}
	row.AppliedAt = appliedAt

	status, ok := lookupStatus(get(colStatus))
	if !ok {
		return row, fmt.Sprintf("unknown status %q", get(colStatus))
	}
	row.Status = status

	return row, ""
}

// lookupStatus accepts a status value or its label.
func lookupStatus(value string) (domain.Status, bool) {
	key := foldKey(value)
	for _, status := range domain.AllStatuses() {
		if key == foldKey(string(status)) || key == foldKey(status.Label()) {
			return status, true
		}
	}
	return "", false
}

func indexHeader(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ReplaceAll(foldKey(name), " ", "_")] = i
	}
	return columns
}

// cleanCell trims a cell and composes it to NFC; workbooks saved on macOS often
// carry decomposed text.
func cleanCell(value string) string {
	return norm.NFC.String(strings.TrimSpace(value))
}

// foldKey lower-cases value and strips its accents.
func foldKey(value string) string {
	cleaned := cleanCell(value)
	stripAccents := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripAccents, cleaned)
	if err != nil {
		folded = cleaned
	}
	return strings.ToLower(folded)
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
