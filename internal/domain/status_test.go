package domain_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/jonesrussell/north-cloud/job-tracker/internal/domain"
)

func TestStatus_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status domain.Status
		want   bool
	}{
		{name: "cv sent", status: domain.StatusCVSent, want: true},
		{name: "phone screen", status: domain.StatusPhoneScreenScheduled, want: true},
		{name: "technical interview", status: domain.StatusTechnicalInterview, want: true},
		{name: "offer received", status: domain.StatusOfferReceived, want: true},
		{name: "rejected", status: domain.StatusRejected, want: true},
		{name: "withdrawn", status: domain.StatusWithdrawn, want: true},
		{name: "empty", status: domain.Status(""), want: false},
		{name: "wrong case", status: domain.Status("CV_SENT"), want: false},
		{name: "unknown", status: domain.Status("ghosted"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.status.IsValid(); got != tt.want {
				t.Errorf("Status(%q).IsValid() = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestAllStatuses(t *testing.T) {
	t.Parallel()

	statuses := domain.AllStatuses()
	if len(statuses) != 6 {
		t.Fatalf("AllStatuses() returned %d statuses, want 6", len(statuses))
	}
	if statuses[0] != domain.StatusCVSent || statuses[5] != domain.StatusWithdrawn {
		t.Errorf("AllStatuses() order = %v", statuses)
	}
	for _, s := range statuses {
		if s.Label() == string(s) {
			t.Errorf("status %q has no label", s)
		}
	}
}

func TestAssertValidStatus(t *testing.T) {
	t.Parallel()

	if err := domain.AssertValidStatus("offer_received"); err != nil {
		t.Fatalf("AssertValidStatus(offer_received) = %v, want nil", err)
	}

	err := domain.AssertValidStatus("hired")
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("AssertValidStatus(hired) = %v, want InvalidStatus", err)
	}

	var domainErr *domain.Error
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected *domain.Error, got %T", err)
	}
	if domainErr.Value != "hired" {
		t.Errorf("Value = %q, want %q", domainErr.Value, "hired")
	}
}

func TestStatus_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	var payload struct {
		Status domain.Status `json:"status"`
	}

	if err := json.Unmarshal([]byte(`{"status":"rejected"}`), &payload); err != nil {
		t.Fatalf("unmarshal valid status: %v", err)
	}
	if payload.Status != domain.StatusRejected {
		t.Errorf("Status = %q, want rejected", payload.Status)
	}

	err := json.Unmarshal([]byte(`{"status":"archived"}`), &payload)
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Errorf("unmarshal unknown status error = %v, want InvalidStatus", err)
	}
}

func TestStatus_Scan(t *testing.T) {
	t.Parallel()

	var s domain.Status
	if err := s.Scan([]byte("withdrawn")); err != nil {
		t.Fatalf("Scan([]byte) = %v", err)
	}
	if s != domain.StatusWithdrawn {
		t.Errorf("Scan([]byte) = %q, want withdrawn", s)
	}

	if err := s.Scan("bogus"); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Errorf("Scan(bogus) = %v, want InvalidStatus", err)
	}
	if err := s.Scan(42); err == nil {
		t.Error("Scan(int) should fail")
	}
}
