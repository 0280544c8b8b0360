// Package domain contains the job application aggregate, its status vocabulary,
// timeline comments and the typed failures raised when their invariants are violated.
package domain

import (
	"database/sql/driver"
	"fmt"
)

// Status is a step in the job application workflow.
type Status string

const (
	// StatusCVSent indicates the CV or application form has been submitted.
	StatusCVSent Status = "cv_sent"
	// StatusPhoneScreenScheduled indicates a recruiter or phone screen is booked.
	StatusPhoneScreenScheduled Status = "phone_screen_scheduled"
	// StatusTechnicalInterview indicates the technical interview stage.
	StatusTechnicalInterview Status = "technical_interview"
	// StatusOfferReceived indicates an offer has been made.
	StatusOfferReceived Status = "offer_received"
	// StatusRejected indicates the employer declined the application.
	StatusRejected Status = "rejected"
	// StatusWithdrawn indicates the applicant withdrew.
	StatusWithdrawn Status = "withdrawn"
)

// statusCount is the number of statuses in the vocabulary (used for pre-allocation).
const statusCount = 6

var statusLabels = map[Status]string{
	StatusCVSent:               "CV sent",
	StatusPhoneScreenScheduled: "Phone screen scheduled",
	StatusTechnicalInterview:   "Technical interview",
	StatusOfferReceived:        "Offer received",
	StatusRejected:             "Rejected",
	StatusWithdrawn:            "Withdrawn",
}

// AllStatuses returns the status vocabulary in workflow order.
func AllStatuses() []Status {
	statuses := make([]Status, 0, statusCount)
	statuses = append(statuses,
		StatusCVSent,
		StatusPhoneScreenScheduled,
		StatusTechnicalInterview,
		StatusOfferReceived,
		StatusRejected,
		StatusWithdrawn,
	)
	return statuses
}

// IsValid reports whether s belongs to the vocabulary.
func (s Status) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s Status) String() string {
	return string(s)
}

// Label returns a human readable name, or the raw value for unknown statuses.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// AssertValidStatus fails with an InvalidStatus error when value is not in the vocabulary.
func AssertValidStatus(value string) error {
	if !Status(value).IsValid() {
		return &Error{Kind: KindInvalidStatus, Field: "status", Value: value}
	}
	return nil
}

// ParseStatus converts a raw string into a Status.
func ParseStatus(value string) (Status, error) {
	if err := AssertValidStatus(value); err != nil {
		return "", err
	}
	return Status(value), nil
}

// UnmarshalText rejects unknown statuses while decoding JSON, YAML or form input.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalText encodes the raw status value.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s), nil
}

// Scan implements sql.Scanner so rows holding an unknown status fail to load.
func (s *Status) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return s.UnmarshalText([]byte(v))
	case []byte:
		return s.UnmarshalText(v)
	default:
		return fmt.Errorf("scan status: unsupported type %T", src)
	}
}

// Value implements driver.Valuer.
func (s Status) Value() (driver.Value, error) {
	if err := AssertValidStatus(string(s)); err != nil {
		return nil, err
	}
	return string(s), nil
}
