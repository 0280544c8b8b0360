// Package service holds the command and query handlers of the job tracker. Each
// handler is a struct built from Dependencies; nothing here is a process-wide singleton.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/north-cloud/job-tracker/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/domain"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/events"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/repository"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/telemetry"
)

// EventPublisher receives notifications after successful writes. *events.Publisher
// satisfies it, including a nil one.
type EventPublisher interface {
	Publish(ctx context.Context, event events.ApplicationEvent) error
}

// IDGenerator mints identifiers for new comments.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator mints random UUIDs.
type UUIDGenerator struct{}

// NewID implements IDGenerator.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// Dependencies are shared by every handler. Repository is required; the rest have
// working defaults.
type Dependencies struct {
	Repository repository.Repository
	Clock      domain.Clock
	IDs        IDGenerator
	Logger     logger.Logger
	Publisher  EventPublisher
	Telemetry  *telemetry.Provider
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Clock == nil {
		d.Clock = domain.SystemClock{}
	}
	if d.IDs == nil {
		d.IDs = UUIDGenerator{}
	}
	if d.Logger == nil {
		d.Logger = logger.NewNop()
	}
	return d
}

// Handlers groups every command and query handler.
type Handlers struct {
	CreateApplication       *CreateApplication
	UpdateApplicationStatus *UpdateApplicationStatus
	AddComment              *AddComment
	GetApplicationByID      *GetApplicationByID
	ListApplications        *ListApplications
}

// NewHandlers builds every handler from deps.
func NewHandlers(deps Dependencies) *Handlers {
	deps = deps.withDefaults()
	return &Handlers{
		CreateApplication:       NewCreateApplication(deps),
		UpdateApplicationStatus: NewUpdateApplicationStatus(deps),
		AddComment:              NewAddComment(deps),
		GetApplicationByID:      NewGetApplicationByID(deps),
		ListApplications:        NewListApplications(deps),
	}
}

// requireOwner rejects a blank owner before the repository is consulted.
func requireOwner(ownerID string) error {
	if strings.TrimSpace(ownerID) == "" {
		return domain.ErrUnauthenticated
	}
	return nil
}

// instrument wraps one handler call in a span and records its outcome.
func instrument(ctx context.Context, deps Dependencies, command string, fn func(ctx context.Context) error) error {
	start := time.Now()
	ctx, span := deps.Telemetry.StartSpan(ctx, command)

	err := fn(ctx)

	telemetry.EndSpan(span, err)
	deps.Telemetry.RecordCommand(command, err, time.Since(start))
	return err
}

// publish delivers a notification. Failures are logged and never fail the command
// because the write has already been committed.
func publish(ctx context.Context, deps Dependencies, event events.ApplicationEvent) {
	if deps.Publisher == nil {
		return
	}

	err := deps.Publisher.Publish(ctx, event)
	deps.Telemetry.RecordEvent(string(event.EventType), err)
	if err != nil {
		deps.Logger.Warn("Failed to publish application event",
			logger.String("event_type", string(event.EventType)),
			logger.String("application_id", event.ApplicationID),
			logger.Error(err),
		)
	}
}
