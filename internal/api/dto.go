package api

import (
	"time"

	"github.com/jonesrussell/north-cloud/job-tracker/internal/domain"
)

// timestampLayout is ISO 8601 with millisecond precision; UTC values render with a Z suffix.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

type createApplicationRequest struct {
	CompanyName     string `binding:"required"         json:"companyName"`
	RoleTitle       string `binding:"required"         json:"roleTitle"`
	RoleDescription string `binding:"omitempty,max=500" json:"roleDescription"`
	URL             string `json:"url"`
	AppliedAt       string `binding:"required"         json:"appliedAt"`
	Status          string `binding:"required"         json:"status"`
	InitialComment  string `binding:"omitempty,max=500" json:"initialComment"`
}

type updateStatusRequest struct {
	Status string `binding:"required" json:"status"`
}

type addCommentRequest struct {
	Comment string `binding:"required,max=500" json:"comment"`
}

type commentResponse struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
}

type applicationResponse struct {
	ID              string            `json:"id"`
	CompanyName     string            `json:"companyName"`
	RoleTitle       string            `json:"roleTitle"`
	RoleDescription *string           `json:"roleDescription"`
	URL             *string           `json:"url"`
	AppliedAt       string            `json:"appliedAt"`
	Status          domain.Status     `json:"status"`
	StatusLabel     string            `json:"statusLabel"`
	Comments        []commentResponse `json:"comments"`
	Version         int64             `json:"version"`
}

type statusResponse struct {
	Value domain.Status `json:"value"`
	Label string        `json:"label"`
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func toApplicationResponse(app domain.JobApplication) applicationResponse {
	comments := make([]commentResponse, 0, len(app.Comments))
	for _, c := range app.Comments {
		comments = append(comments, commentResponse{
			ID:        c.ID,
			Message:   c.Message,
			CreatedAt: formatTimestamp(c.CreatedAt),
		})
	}

	return applicationResponse{
		ID:              app.ID,
		CompanyName:     app.CompanyName,
		RoleTitle:       app.RoleTitle,
		RoleDescription: optional(app.RoleDescription),
		URL:             optional(app.URL),
		AppliedAt:       formatTimestamp(app.AppliedAt),
		Status:          app.Status,
		StatusLabel:     app.Status.Label(),
		Comments:        comments,
		Version:         app.Version,
	}
}

func toApplicationResponses(apps []domain.JobApplication) []applicationResponse {
	out := make([]applicationResponse, 0, len(apps))
	for _, app := range apps {
		out = append(out, toApplicationResponse(app))
	}
	return out
}
