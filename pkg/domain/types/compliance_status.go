package types

import "fmt"

// ComplianceStatus is the derived compliance state of a control
type ComplianceStatus string

const (
	ComplianceStatusCompliant      ComplianceStatus = "compliant"
	ComplianceStatusMinorDeviation ComplianceStatus = "minor_deviation"
	ComplianceStatusMajorDeviation ComplianceStatus = "major_deviation"
	ComplianceStatusNotAssessed    ComplianceStatus = "not_assessed"
)

// AllComplianceStatuses returns all valid compliance statuses
func AllComplianceStatuses() []ComplianceStatus {
	return []ComplianceStatus{
		ComplianceStatusCompliant,
		ComplianceStatusMinorDeviation,
		ComplianceStatusMajorDeviation,
		ComplianceStatusNotAssessed,
	}
}

// IsValid checks if the compliance status is valid
func (s ComplianceStatus) IsValid() bool {
	switch s {
	case ComplianceStatusCompliant,
		ComplianceStatusMinorDeviation,
		ComplianceStatusMajorDeviation,
		ComplianceStatusNotAssessed:
		return true
	default:
		return false
	}
}

// UsableForMitigation reports whether a control in this state may offset
// residual risk when linked to a treatment.
func (s ComplianceStatus) UsableForMitigation() bool {
	return s == ComplianceStatusCompliant || s == ComplianceStatusMinorDeviation
}

// Normalize returns the status, treating empty as ComplianceStatusNotAssessed.
// not_assessed only exists before the first derivation run for a control.
func (s ComplianceStatus) Normalize() ComplianceStatus {
	if s == "" {
		return ComplianceStatusNotAssessed
	}
	return s
}

// String returns the string representation of the compliance status
func (s ComplianceStatus) String() string {
	return string(s)
}

// ParseComplianceStatus parses a string into a ComplianceStatus
func ParseComplianceStatus(s string) (ComplianceStatus, error) {
	status := ComplianceStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid compliance status: %s", s)
	}
	return status, nil
}
