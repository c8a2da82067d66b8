package model

import (
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/types"
)

// InternalControl is an organization-defined control with a derived
// compliance status.
type InternalControl struct {
	ID               int64
	Name             string
	Description      string
	OwnerID          string
	ComplianceStatus types.ComplianceStatus
	LastAssessedAt   time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// FrameworkControl is a control belonging to a compliance framework
type FrameworkControl struct {
	ID               int64
	FrameworkID      int64
	Code             string
	Name             string
	Description      string
	Implemented      bool
	ComplianceStatus types.ComplianceStatus
	LastAssessedAt   time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ControlFramework groups framework controls. At most one framework is
// active at a time.
type ControlFramework struct {
	ID        int64
	Name      string
	Version   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DeriveComplianceStatus computes a control's aggregate compliance status
// from all of its findings. Closed findings never affect the result; a
// Major Deviation wins over a Minor Deviation; Opportunity-for-Improvement
// findings never downgrade the status. Zero active findings yields
// compliant, not not_assessed.
func DeriveComplianceStatus(findings []*ControlFinding) types.ComplianceStatus {
	status := types.ComplianceStatusCompliant
	for _, f := range findings {
		if !f.Status.IsActive() {
			continue
		}
		switch f.FindingType {
		case types.FindingTypeMajorDeviation:
			return types.ComplianceStatusMajorDeviation
		case types.FindingTypeMinorDeviation:
			status = types.ComplianceStatusMinorDeviation
		}
	}
	return status
}
