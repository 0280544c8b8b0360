package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/north-cloud/job-tracker/infrastructure/logger"
)

// DefaultMaxLen caps the stream length. Trimming is approximate.
const DefaultMaxLen = 1000

// Publisher appends events to a Redis stream. A nil *Publisher is a valid no-op.
type Publisher struct {
	client *redis.Client
	stream string
	maxLen int64
	log    logger.Logger
}

// NewPublisher returns nil when client is nil so callers can wire it unconditionally.
func NewPublisher(client *redis.Client, stream string, log logger.Logger) *Publisher {
	if client == nil {
		return nil
	}
	if stream == "" {
		stream = DefaultStreamName
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Publisher{
		client: client,
		stream: stream,
		maxLen: DefaultMaxLen,
		log:    log,
	}
}

// Publish appends event to the stream, filling EventID and Timestamp when unset.
func (p *Publisher) Publish(ctx context.Context, event ApplicationEvent) error {
	if p == nil || p.client == nil {
		return nil
	}

	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	result := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{
			"event_type": string(event.EventType),
			"event":      string(payload),
		},
	})
	if publishErr := result.Err(); publishErr != nil {
		return fmt.Errorf("publish to stream %s: %w", p.stream, publishErr)
	}

	p.log.Debug("Published application event",
		logger.String("event_type", string(event.EventType)),
		logger.String("application_id", event.ApplicationID),
		logger.String("stream_id", result.Val()),
	)
	return nil
}

// Stream returns the stream name.
func (p *Publisher) Stream() string {
	if p == nil {
		return ""
	}
	return p.stream
}
