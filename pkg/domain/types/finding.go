package types

import "fmt"

// FindingType classifies the severity of an audit finding against a control
type FindingType string

const (
	FindingTypeMajorDeviation FindingType = "Major Deviation"
	FindingTypeMinorDeviation FindingType = "Minor Deviation"
	FindingTypeOFI            FindingType = "Opportunity for Improvement"
)

// AllFindingTypes returns all valid finding types
func AllFindingTypes() []FindingType {
	return []FindingType{
		FindingTypeMajorDeviation,
		FindingTypeMinorDeviation,
		FindingTypeOFI,
	}
}

// IsValid checks if the finding type is valid
func (t FindingType) IsValid() bool {
	switch t {
	case FindingTypeMajorDeviation,
		FindingTypeMinorDeviation,
		FindingTypeOFI:
		return true
	default:
		return false
	}
}

// String returns the string representation of the finding type
func (t FindingType) String() string {
	return string(t)
}

// ParseFindingType parses a string into a FindingType
func ParseFindingType(s string) (FindingType, error) {
	ft := FindingType(s)
	if !ft.IsValid() {
		return "", fmt.Errorf("invalid finding type: %s", s)
	}
	return ft, nil
}

// FindingStatus represents the workflow status of a finding
type FindingStatus string

const (
	FindingStatusOpen       FindingStatus = "Open"
	FindingStatusInProgress FindingStatus = "In Progress"
	FindingStatusClosed     FindingStatus = "Closed"
	FindingStatusAccepted   FindingStatus = "Accepted"
)

// AllFindingStatuses returns all valid finding statuses
func AllFindingStatuses() []FindingStatus {
	return []FindingStatus{
		FindingStatusOpen,
		FindingStatusInProgress,
		FindingStatusClosed,
		FindingStatusAccepted,
	}
}

// IsValid checks if the finding status is valid
func (s FindingStatus) IsValid() bool {
	switch s {
	case FindingStatusOpen,
		FindingStatusInProgress,
		FindingStatusClosed,
		FindingStatusAccepted:
		return true
	default:
		return false
	}
}

// IsActive reports whether the finding still counts against the owning
// control's compliance status. Only Closed findings are excluded.
func (s FindingStatus) IsActive() bool {
	return s != FindingStatusClosed
}

// String returns the string representation of the finding status
func (s FindingStatus) String() string {
	return string(s)
}

// ParseFindingStatus parses a string into a FindingStatus
func ParseFindingStatus(s string) (FindingStatus, error) {
	status := FindingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid finding status: %s", s)
	}
	return status, nil
}
