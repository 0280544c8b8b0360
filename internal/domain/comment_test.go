package domain_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jonesrussell/north-cloud/job-tracker/internal/domain"
)

func TestNewComment_TrimsMessage(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.February, 1, 9, 30, 0, 0, time.UTC)
	clock := domain.ClockFunc(func() time.Time { return now })

	comment, err := domain.NewComment(domain.CommentParams{ID: "c1", Message: "  note  "}, clock)
	if err != nil {
		t.Fatalf("NewComment() error = %v", err)
	}
	if comment.Message != "note" {
		t.Errorf("Message = %q, want %q", comment.Message, "note")
	}
	if !comment.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want clock time %v", comment.CreatedAt, now)
	}
}

func TestNewComment_UsesSuppliedTime(t *testing.T) {
	t.Parallel()

	supplied := time.Date(2023, time.December, 24, 18, 0, 0, 0, time.FixedZone("EST", -5*60*60))
	clock := domain.ClockFunc(func() time.Time {
		t.Fatal("clock must not be read when CreatedAt is supplied")
		return time.Time{}
	})

	comment, err := domain.NewComment(domain.CommentParams{ID: "c1", Message: "x", CreatedAt: &supplied}, clock)
	if err != nil {
		t.Fatalf("NewComment() error = %v", err)
	}
	if !comment.CreatedAt.Equal(supplied) {
		t.Errorf("CreatedAt = %v, want %v", comment.CreatedAt, supplied)
	}
	if comment.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt location = %v, want UTC", comment.CreatedAt.Location())
	}
}

func TestNewComment_TruncatesToStoragePrecision(t *testing.T) {
	t.Parallel()

	supplied := time.Date(2024, time.March, 1, 10, 0, 0, 123456789, time.UTC)
	want := time.Date(2024, time.March, 1, 10, 0, 0, 123456000, time.UTC)

	fromParams, err := domain.NewComment(domain.CommentParams{ID: "c1", Message: "x", CreatedAt: &supplied}, nil)
	if err != nil {
		t.Fatalf("NewComment() error = %v", err)
	}
	if !fromParams.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", fromParams.CreatedAt, want)
	}

	clock := domain.ClockFunc(func() time.Time { return supplied })
	fromClock, err := domain.NewComment(domain.CommentParams{ID: "c2", Message: "x"}, clock)
	if err != nil {
		t.Fatalf("NewComment() error = %v", err)
	}
	if !fromClock.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", fromClock.CreatedAt, want)
	}
}

func TestNewComment_RejectsBlankMessage(t *testing.T) {
	t.Parallel()

	for _, message := range []string{"", "   ", "\n\t"} {
		_, err := domain.NewComment(domain.CommentParams{ID: "c1", Message: message}, domain.SystemClock{})
		if !errors.Is(err, domain.ErrEmptyComment) {
			t.Errorf("NewComment(%q) error = %v, want EmptyComment", message, err)
		}
	}
}

func TestNewComment_NilClockFallsBackToSystemClock(t *testing.T) {
	t.Parallel()

	before := time.Now().Add(-time.Second)
	comment, err := domain.NewComment(domain.CommentParams{ID: "c1", Message: "hello"}, nil)
	if err != nil {
		t.Fatalf("NewComment() error = %v", err)
	}
	if comment.CreatedAt.Before(before) {
		t.Errorf("CreatedAt = %v, expected a current timestamp", comment.CreatedAt)
	}
}

func TestError_MatchesSentinelByKind(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("update status: %w", domain.NewNotFoundError("A1"))

	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("errors.Is(%v, ErrNotFound) = false", err)
	}
	if errors.Is(err, domain.ErrAlreadyExists) {
		t.Error("not-found error must not match ErrAlreadyExists")
	}

	kind, ok := domain.KindOf(err)
	if !ok || kind != domain.KindNotFound {
		t.Errorf("KindOf() = %q, %v", kind, ok)
	}
	if domain.IsValidation(err) {
		t.Error("not-found is not a validation failure")
	}
	if !domain.IsValidation(domain.ErrEmptyComment) {
		t.Error("EmptyComment is a validation failure")
	}
	if got := err.Error(); got != `update status: application "A1" does not exist` {
		t.Errorf("Error() = %q", got)
	}
}
