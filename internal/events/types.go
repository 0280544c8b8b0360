// Package events publishes job application notifications to a Redis stream. The
// stream is an integration feed for other consumers; the tracker never reads it back.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/north-cloud/job-tracker/internal/domain"
)

// DefaultStreamName is the Redis stream notifications are appended to.
const DefaultStreamName = "job-application-events"

// EventType identifies a notification.
type EventType string

const (
	// ApplicationCreated is emitted after a new application is stored.
	ApplicationCreated EventType = "application.created"
	// ApplicationStatusChanged is emitted after a status transition is stored.
	ApplicationStatusChanged EventType = "application.status_changed"
	// ApplicationCommentAdded is emitted after a comment is appended.
	ApplicationCommentAdded EventType = "application.comment_added"
)

// ApplicationEvent is the envelope written to the stream.
type ApplicationEvent struct {
	EventID       uuid.UUID `json:"event_id"`
	EventType     EventType `json:"event_type"`
	ApplicationID string    `json:"application_id"`
	OwnerID       string    `json:"owner_id"`
	Timestamp     time.Time `json:"timestamp"`
	Payload       any       `json:"payload"`
}

// CreatedPayload is the payload of ApplicationCreated.
type CreatedPayload struct {
	CompanyName string        `json:"company_name"`
	RoleTitle   string        `json:"role_title"`
	Status      domain.Status `json:"status"`
	AppliedAt   time.Time     `json:"applied_at"`
}

// StatusChangedPayload is the payload of ApplicationStatusChanged.
type StatusChangedPayload struct {
	From domain.Status `json:"from"`
	To   domain.Status `json:"to"`
}

// CommentAddedPayload is the payload of ApplicationCommentAdded.
type CommentAddedPayload struct {
	CommentID string    `json:"comment_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCreatedEvent builds the notification for a freshly created application.
func NewCreatedEvent(app domain.JobApplication) ApplicationEvent {
	return ApplicationEvent{
		EventType:     ApplicationCreated,
		ApplicationID: app.ID,
		OwnerID:       app.OwnerID,
		Payload: CreatedPayload{
			CompanyName: app.CompanyName,
			RoleTitle:   app.RoleTitle,
			Status:      app.Status,
			AppliedAt:   app.AppliedAt,
		},
	}
}

// NewStatusChangedEvent builds the notification for a status transition.
func NewStatusChangedEvent(app domain.JobApplication, from domain.Status) ApplicationEvent {
	return ApplicationEvent{
		EventType:     ApplicationStatusChanged,
		ApplicationID: app.ID,
		OwnerID:       app.OwnerID,
		Payload:       StatusChangedPayload{From: from, To: app.Status},
	}
}

// NewCommentAddedEvent builds the notification for an appended comment.
func NewCommentAddedEvent(app domain.JobApplication, comment domain.Comment) ApplicationEvent {
	return ApplicationEvent{
		EventType:     ApplicationCommentAdded,
		ApplicationID: app.ID,
		OwnerID:       app.OwnerID,
		Payload: CommentAddedPayload{
			CommentID: comment.ID,
			Message:   comment.Message,
			CreatedAt: comment.CreatedAt,
		},
	}
}
