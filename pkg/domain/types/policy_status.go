package types

import "fmt"

// PolicyStatus represents the workflow status of a policy document
type PolicyStatus string

const (
	PolicyStatusDraft    PolicyStatus = "draft"
	PolicyStatusInReview PolicyStatus = "in_review"
	PolicyStatusApproved PolicyStatus = "approved"
	PolicyStatusArchived PolicyStatus = "archived"
)

// AllPolicyStatuses returns all valid policy statuses
func AllPolicyStatuses() []PolicyStatus {
	return []PolicyStatus{
		PolicyStatusDraft,
		PolicyStatusInReview,
		PolicyStatusApproved,
		PolicyStatusArchived,
	}
}

// IsValid checks if the policy status is valid
func (s PolicyStatus) IsValid() bool {
	switch s {
	case PolicyStatusDraft,
		PolicyStatusInReview,
		PolicyStatusApproved,
		PolicyStatusArchived:
		return true
	default:
		return false
	}
}

// Normalize returns the status, treating empty as PolicyStatusDraft
func (s PolicyStatus) Normalize() PolicyStatus {
	if s == "" {
		return PolicyStatusDraft
	}
	return s
}

// String returns the string representation of the policy status
func (s PolicyStatus) String() string {
	return string(s)
}

// ParsePolicyStatus parses a string into a PolicyStatus
func ParsePolicyStatus(s string) (PolicyStatus, error) {
	status := PolicyStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid policy status: %s", s)
	}
	return status, nil
}
