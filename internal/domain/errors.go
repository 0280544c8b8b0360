package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure so callers can branch without matching messages.
type Kind string

// Failure kinds.
const (
	KindEmptyCompanyName   Kind = "empty_company_name"
	KindEmptyRoleTitle     Kind = "empty_role_title"
	KindEmptyOwnerID       Kind = "empty_owner_id"
	KindInvalidAppliedDate Kind = "invalid_applied_date"
	KindInvalidPostingURL  Kind = "invalid_posting_url"
	KindInvalidStatus      Kind = "invalid_status"
	KindEmptyComment       Kind = "empty_comment"
	KindAlreadyExists      Kind = "already_exists"
	KindNotFound           Kind = "not_found"
	KindConflict           Kind = "conflict"
	KindUnauthenticated    Kind = "unauthenticated"
)

// Sentinels for errors.Is. Matching compares the Kind only, so an error carrying
// field or id context still matches its sentinel.
var (
	ErrEmptyCompanyName   = &Error{Kind: KindEmptyCompanyName}
	ErrEmptyRoleTitle     = &Error{Kind: KindEmptyRoleTitle}
	ErrEmptyOwnerID       = &Error{Kind: KindEmptyOwnerID}
	ErrInvalidAppliedDate = &Error{Kind: KindInvalidAppliedDate}
	ErrInvalidPostingURL  = &Error{Kind: KindInvalidPostingURL}
	ErrInvalidStatus      = &Error{Kind: KindInvalidStatus}
	ErrEmptyComment       = &Error{Kind: KindEmptyComment}
	ErrAlreadyExists      = &Error{Kind: KindAlreadyExists}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrConflict           = &Error{Kind: KindConflict}
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated}
)

// Error is a typed domain failure.
type Error struct {
	Kind Kind
	// Field names the offending input field, if any.
	Field string
	// ID is the application id the failure relates to, if any.
	ID string
	// Value is the rejected raw input, if any.
	Value string
	// Err is an optional underlying cause.
	Err error
}

func (e *Error) Error() string {
	msg := e.message()
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) message() string {
	switch e.Kind {
	case KindEmptyCompanyName:
		return "company name cannot be empty"
	case KindEmptyRoleTitle:
		return "role title cannot be empty"
	case KindEmptyOwnerID:
		return "owner id cannot be empty"
	case KindInvalidAppliedDate:
		return "applied date must be a valid date"
	case KindInvalidPostingURL:
		return fmt.Sprintf("posting url must be an absolute http or https url: %q", e.Value)
	case KindInvalidStatus:
		return fmt.Sprintf("unknown application status: %q", e.Value)
	case KindEmptyComment:
		return "comment message cannot be empty"
	case KindAlreadyExists:
		return fmt.Sprintf("application %q already exists", e.ID)
	case KindNotFound:
		return fmt.Sprintf("application %q does not exist", e.ID)
	case KindConflict:
		return fmt.Sprintf("application %q was modified concurrently", e.ID)
	case KindUnauthenticated:
		return "user is not authenticated"
	default:
		return string(e.Kind)
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the Kind of the first domain failure in err's chain.
func KindOf(err error) (Kind, bool) {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind, true
	}
	return "", false
}

// IsValidation reports whether err is an input-validation failure.
func IsValidation(err error) bool {
	kind, ok := KindOf(err)
	if !ok {
		return false
	}
	switch kind {
	case KindEmptyCompanyName, KindEmptyRoleTitle, KindEmptyOwnerID, KindInvalidAppliedDate,
		KindInvalidPostingURL, KindInvalidStatus, KindEmptyComment:
		return true
	default:
		return false
	}
}

// NewNotFoundError reports that id does not exist for the caller.
func NewNotFoundError(id string) error {
	return &Error{Kind: KindNotFound, ID: id}
}

// NewAlreadyExistsError reports an id collision.
func NewAlreadyExistsError(id string) error {
	return &Error{Kind: KindAlreadyExists, ID: id}
}

// NewConflictError reports a lost optimistic-concurrency race on id.
func NewConflictError(id string) error {
	return &Error{Kind: KindConflict, ID: id}
}
