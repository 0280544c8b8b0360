package domain

import (
	"strings"
	"time"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time {
	return f()
}

// TimePrecision is the finest resolution every storage backend round-trips.
// Aggregate timestamps are truncated to it.
const TimePrecision = time.Microsecond

// SystemClock reads the wall clock in UTC at TimePrecision.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC().Truncate(TimePrecision)
}

// Comment is an immutable timeline entry on an application.
type Comment struct {
	ID        string
	Message   string
	CreatedAt time.Time
}

// CommentParams holds the inputs of NewComment. A nil CreatedAt is filled from the clock.
type CommentParams struct {
	ID        string
	Message   string
	CreatedAt *time.Time
}

// NewComment builds a Comment, trimming the message. A nil clock falls back to SystemClock.
func NewComment(params CommentParams, clock Clock) (Comment, error) {
	message := strings.TrimSpace(params.Message)
	if message == "" {
		return Comment{}, &Error{Kind: KindEmptyComment, Field: "message"}
	}

	var createdAt time.Time
	if params.CreatedAt != nil {
		createdAt = *params.CreatedAt
	} else {
		if clock == nil {
			clock = SystemClock{}
		}
		createdAt = clock.Now()
	}

	return Comment{
		ID:        params.ID,
		Message:   message,
		CreatedAt: createdAt.UTC().Truncate(TimePrecision),
	}, nil
}
