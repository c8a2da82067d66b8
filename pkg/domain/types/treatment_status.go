package types

import "fmt"

// TreatmentStatus represents the workflow status of a risk treatment
type TreatmentStatus string

const (
	TreatmentStatusPlanned    TreatmentStatus = "planned"
	TreatmentStatusInProgress TreatmentStatus = "in_progress"
	TreatmentStatusCompleted  TreatmentStatus = "completed"
	TreatmentStatusCancelled  TreatmentStatus = "cancelled"
)

// AllTreatmentStatuses returns all valid treatment statuses
func AllTreatmentStatuses() []TreatmentStatus {
	return []TreatmentStatus{
		TreatmentStatusPlanned,
		TreatmentStatusInProgress,
		TreatmentStatusCompleted,
		TreatmentStatusCancelled,
	}
}

// IsValid checks if the treatment status is valid
func (s TreatmentStatus) IsValid() bool {
	switch s {
	case TreatmentStatusPlanned,
		TreatmentStatusInProgress,
		TreatmentStatusCompleted,
		TreatmentStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is allowed from the status
func (s TreatmentStatus) IsTerminal() bool {
	return s == TreatmentStatusCompleted || s == TreatmentStatusCancelled
}

// Normalize returns the status, treating empty as TreatmentStatusPlanned
func (s TreatmentStatus) Normalize() TreatmentStatus {
	if s == "" {
		return TreatmentStatusPlanned
	}
	return s
}

// String returns the string representation of the treatment status
func (s TreatmentStatus) String() string {
	return string(s)
}

// ParseTreatmentStatus parses a string into a TreatmentStatus
func ParseTreatmentStatus(s string) (TreatmentStatus, error) {
	status := TreatmentStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid treatment status: %s", s)
	}
	return status, nil
}
