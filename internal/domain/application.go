package domain

import (
	"net/url"
	"strings"
	"time"
)

// initialVersion is the version of a freshly constructed aggregate.
const initialVersion = 1

// JobApplication is the aggregate root. Values are immutable: UpdateStatus and
// AddComment return new values and never touch the receiver.
type JobApplication struct {
	ID              string
	CompanyName     string
	RoleTitle       string
	RoleDescription string // empty when absent
	URL             string // empty when absent, otherwise canonical absolute http(s)
	AppliedAt       time.Time
	Status          Status
	Comments        []Comment
	OwnerID         string
	// Version is the optimistic-concurrency counter checked by repository updates.
	Version int64
}

// ApplicationParams holds the inputs of NewJobApplication.
type ApplicationParams struct {
	ID              string
	CompanyName     string
	RoleTitle       string
	RoleDescription string
	URL             string
	AppliedAt       time.Time
	Status          Status
	OwnerID         string
	Comments        []Comment
}

// NewJobApplication validates params and builds a new aggregate.
// Core fields are checked before the status and the posting URL.
func NewJobApplication(params ApplicationParams) (JobApplication, error) {
	companyName := strings.TrimSpace(params.CompanyName)
	if companyName == "" {
		return JobApplication{}, &Error{Kind: KindEmptyCompanyName, Field: "companyName", ID: params.ID}
	}

	roleTitle := strings.TrimSpace(params.RoleTitle)
	if roleTitle == "" {
		return JobApplication{}, &Error{Kind: KindEmptyRoleTitle, Field: "roleTitle", ID: params.ID}
	}

	if params.AppliedAt.IsZero() {
		return JobApplication{}, &Error{Kind: KindInvalidAppliedDate, Field: "appliedAt", ID: params.ID}
	}

	ownerID := strings.TrimSpace(params.OwnerID)
	if ownerID == "" {
		return JobApplication{}, &Error{Kind: KindEmptyOwnerID, Field: "ownerId", ID: params.ID}
	}

	if err := AssertValidStatus(string(params.Status)); err != nil {
		return JobApplication{}, err
	}

	postingURL, err := NormalizePostingURL(params.URL)
	if err != nil {
		return JobApplication{}, err
	}

	comments := make([]Comment, len(params.Comments))
	copy(comments, params.Comments)

	return JobApplication{
		ID:              params.ID,
		CompanyName:     companyName,
		RoleTitle:       roleTitle,
		RoleDescription: strings.TrimSpace(params.RoleDescription),
		URL:             postingURL,
		AppliedAt:       params.AppliedAt.UTC().Truncate(TimePrecision),
		Status:          params.Status,
		Comments:        comments,
		OwnerID:         ownerID,
		Version:         initialVersion,
	}, nil
}

// UpdateStatus returns the aggregate with its status replaced. When status equals the
// current one the receiver itself is returned and changed is false.
func (a JobApplication) UpdateStatus(status Status) (updated JobApplication, changed bool, err error) {
	if validErr := AssertValidStatus(string(status)); validErr != nil {
		return a, false, validErr
	}
	if status == a.Status {
		return a, false, nil
	}

	next := a.Clone()
	next.Status = status
	return next, true, nil
}

// AddComment returns the aggregate with comment appended to its timeline.
// The comment is not validated here; NewComment does that.
func (a JobApplication) AddComment(comment Comment) JobApplication {
	next := a
	next.Comments = make([]Comment, len(a.Comments), len(a.Comments)+1)
	copy(next.Comments, a.Comments)
	next.Comments = append(next.Comments, comment)
	return next
}

// Clone returns a deep copy that shares no mutable state with a.
func (a JobApplication) Clone() JobApplication {
	clone := a
	if a.Comments != nil {
		clone.Comments = make([]Comment, len(a.Comments))
		copy(clone.Comments, a.Comments)
	}
	return clone
}

// HasRoleDescription reports whether the optional description is set.
func (a JobApplication) HasRoleDescription() bool {
	return a.RoleDescription != ""
}

// HasURL reports whether the optional posting URL is set.
func (a JobApplication) HasURL() bool {
	return a.URL != ""
}

// NormalizePostingURL trims raw and returns its canonical form. Blank input means no
// URL. Anything that is not an absolute http or https URL with a host is rejected.
func NormalizePostingURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}

	invalid := &Error{Kind: KindInvalidPostingURL, Field: "url", Value: raw}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		invalid.Err = err
		return "", invalid
	}
	if !parsed.IsAbs() || parsed.Host == "" || parsed.Opaque != "" {
		return "", invalid
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", invalid
	}
	if parsed.Hostname() == "" {
		return "", invalid
	}

	parsed.Host = strings.ToLower(parsed.Host)
	if port := parsed.Port(); (parsed.Scheme == "http" && port == "80") ||
		(parsed.Scheme == "https" && port == "443") {
		parsed.Host = strings.TrimSuffix(parsed.Host, ":"+port)
	}
	if parsed.Path == "" && parsed.RawPath == "" {
		parsed.Path = "/"
	}

	return parsed.String(), nil
}

const appliedDateLayout = "2006-01-02"

// ParseAppliedDate accepts a calendar date, read as midnight UTC, or an RFC 3339
// timestamp, normalized to UTC.
func ParseAppliedDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(appliedDateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, &Error{Kind: KindInvalidAppliedDate, Field: "appliedAt", Value: value, Err: err}
	}
	return t.UTC(), nil
}
