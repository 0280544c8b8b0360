package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jonesrussell/north-cloud/job-tracker/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/domain"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/events"
)

// CreateApplicationInput carries the fields of a new application. ID is minted by
// the caller. InitialComment, when non-empty, becomes the first timeline entry.
type CreateApplicationInput struct {
	ID              string
	OwnerID         string
	CompanyName     string
	RoleTitle       string
	RoleDescription string
	URL             string
	AppliedAt       time.Time
	Status          domain.Status
	InitialComment  string
	// InitialCommentID is generated when empty.
	InitialCommentID string
	// InitialCommentCreatedAt defaults to the clock when nil.
	InitialCommentCreatedAt *time.Time
}

// CreateApplication validates and stores a new application.
type CreateApplication struct {
	deps Dependencies
}

// NewCreateApplication builds the handler.
func NewCreateApplication(deps Dependencies) *CreateApplication {
	return &CreateApplication{deps: deps.withDefaults()}
}

// Handle creates the application and returns the stored value.
func (h *CreateApplication) Handle(ctx context.Context, input CreateApplicationInput) (domain.JobApplication, error) {
	var created domain.JobApplication

	err := instrument(ctx, h.deps, "create_application", func(ctx context.Context) error {
		comments := make([]domain.Comment, 0, 1)
		if input.InitialComment != "" {
			commentID := input.InitialCommentID
			if commentID == "" {
				commentID = h.deps.IDs.NewID()
			}
			comment, err := domain.NewComment(domain.CommentParams{
				ID:        commentID,
				Message:   input.InitialComment,
				CreatedAt: input.InitialCommentCreatedAt,
			}, h.deps.Clock)
			if err != nil {
				return err
			}
			comments = append(comments, comment)
		}

		app, err := domain.NewJobApplication(domain.ApplicationParams{
			ID:              input.ID,
			CompanyName:     input.CompanyName,
			RoleTitle:       input.RoleTitle,
			RoleDescription: input.RoleDescription,
			URL:             input.URL,
			AppliedAt:       input.AppliedAt,
			Status:          input.Status,
			OwnerID:         input.OwnerID,
			Comments:        comments,
		})
		if err != nil {
			return err
		}

		if err = h.deps.Repository.Save(ctx, app); err != nil {
			return fmt.Errorf("save application: %w", err)
		}

		h.deps.Logger.Info("Application created",
			logger.String("application_id", app.ID),
			logger.String("owner_id", app.OwnerID),
			logger.String("status", app.Status.String()),
		)
		publish(ctx, h.deps, events.NewCreatedEvent(app))

		created = app
		return nil
	})
	if err != nil {
		return domain.JobApplication{}, err
	}
	return created, nil
}

// UpdateApplicationStatusInput names the application and its new status.
type UpdateApplicationStatusInput struct {
	ID      string
	OwnerID string
	Status  domain.Status
}

// UpdateApplicationStatus moves an application to another status.
type UpdateApplicationStatus struct {
	deps Dependencies
}

// NewUpdateApplicationStatus builds the handler.
func NewUpdateApplicationStatus(deps Dependencies) *UpdateApplicationStatus {
	return &UpdateApplicationStatus{deps: deps.withDefaults()}
}

// Handle applies the transition. Setting the current status again writes nothing.
func (h *UpdateApplicationStatus) Handle(ctx context.Context, input UpdateApplicationStatusInput) error {
	return instrument(ctx, h.deps, "update_application_status", func(ctx context.Context) error {
		if err := requireOwner(input.OwnerID); err != nil {
			return err
		}

		app, found, err := h.deps.Repository.FindByID(ctx, input.ID, input.OwnerID)
		if err != nil {
			return fmt.Errorf("find application: %w", err)
		}
		if !found {
			return domain.NewNotFoundError(input.ID)
		}

		updated, changed, err := app.UpdateStatus(input.Status)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}

		if err = h.deps.Repository.Update(ctx, updated); err != nil {
			return fmt.Errorf("update application: %w", err)
		}

		h.deps.Logger.Info("Application status changed",
			logger.String("application_id", app.ID),
			logger.String("from", app.Status.String()),
			logger.String("to", updated.Status.String()),
		)
		publish(ctx, h.deps, events.NewStatusChangedEvent(updated, app.Status))
		return nil
	})
}

// AddCommentInput carries a new timeline comment. CommentID is generated when empty
// and a nil CommentCreatedAt is read from the clock.
type AddCommentInput struct {
	ID               string
	OwnerID          string
	CommentID        string
	Message          string
	CommentCreatedAt *time.Time
}

// AddComment appends a comment to an application's timeline.
type AddComment struct {
	deps Dependencies
}

// NewAddComment builds the handler.
func NewAddComment(deps Dependencies) *AddComment {
	return &AddComment{deps: deps.withDefaults()}
}

// Handle appends the comment.
func (h *AddComment) Handle(ctx context.Context, input AddCommentInput) error {
	return instrument(ctx, h.deps, "add_comment", func(ctx context.Context) error {
		if err := requireOwner(input.OwnerID); err != nil {
			return err
		}

		app, found, err := h.deps.Repository.FindByID(ctx, input.ID, input.OwnerID)
		if err != nil {
			return fmt.Errorf("find application: %w", err)
		}
		if !found {
			return domain.NewNotFoundError(input.ID)
		}

		commentID := input.CommentID
		if commentID == "" {
			commentID = h.deps.IDs.NewID()
		}
		comment, err := domain.NewComment(domain.CommentParams{
			ID:        commentID,
			Message:   input.Message,
			CreatedAt: input.CommentCreatedAt,
		}, h.deps.Clock)
		if err != nil {
			return err
		}

		updated := app.AddComment(comment)
		if err = h.deps.Repository.Update(ctx, updated); err != nil {
			return fmt.Errorf("update application: %w", err)
		}

		h.deps.Logger.Info("Comment added",
			logger.String("application_id", app.ID),
			logger.String("comment_id", comment.ID),
			logger.Int("comments", len(updated.Comments)),
		)
		publish(ctx, h.deps, events.NewCommentAddedEvent(updated, comment))
		return nil
	})
}
