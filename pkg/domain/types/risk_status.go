package types

import "fmt"

// RiskStatus represents the workflow status of a risk
type RiskStatus string

const (
	RiskStatusDraft         RiskStatus = "draft"
	RiskStatusPendingReview RiskStatus = "pending_review"
	RiskStatusApproved      RiskStatus = "approved"
	RiskStatusActive        RiskStatus = "active"
	RiskStatusMonitoring    RiskStatus = "monitoring"
	RiskStatusTreated       RiskStatus = "treated"
	RiskStatusClosed        RiskStatus = "closed"
	RiskStatusArchived      RiskStatus = "archived"
)

// AllRiskStatuses returns all valid risk statuses
func AllRiskStatuses() []RiskStatus {
	return []RiskStatus{
		RiskStatusDraft,
		RiskStatusPendingReview,
		RiskStatusApproved,
		RiskStatusActive,
		RiskStatusMonitoring,
		RiskStatusTreated,
		RiskStatusClosed,
		RiskStatusArchived,
	}
}

// IsValid checks if the risk status is valid
func (s RiskStatus) IsValid() bool {
	switch s {
	case RiskStatusDraft,
		RiskStatusPendingReview,
		RiskStatusApproved,
		RiskStatusActive,
		RiskStatusMonitoring,
		RiskStatusTreated,
		RiskStatusClosed,
		RiskStatusArchived:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status is closed or archived.
// Treatment cancellation leaves terminal risks untouched.
func (s RiskStatus) IsTerminal() bool {
	return s == RiskStatusClosed || s == RiskStatusArchived
}

// Normalize returns the status, treating empty as RiskStatusDraft
func (s RiskStatus) Normalize() RiskStatus {
	if s == "" {
		return RiskStatusDraft
	}
	return s
}

// String returns the string representation of the risk status
func (s RiskStatus) String() string {
	return string(s)
}

// ParseRiskStatus parses a string into a RiskStatus
func ParseRiskStatus(s string) (RiskStatus, error) {
	status := RiskStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid risk status: %s", s)
	}
	return status, nil
}
