package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/types"
)

// ControlFinding is an audit observation against exactly one control,
// either internal or framework.
type ControlFinding struct {
	ID                 int64
	InternalControlID  int64
	FrameworkControlID int64
	FindingType        types.FindingType
	Status             types.FindingStatus
	Title              string
	Description        string
	DueDate            time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ControlKind returns the kind of the owning control
func (f *ControlFinding) ControlKind() types.ControlKind {
	if f.InternalControlID != 0 {
		return types.ControlKindInternal
	}
	return types.ControlKindFramework
}

// ControlID returns the ID of the owning control
func (f *ControlFinding) ControlID() int64 {
	if f.InternalControlID != 0 {
		return f.InternalControlID
	}
	return f.FrameworkControlID
}

// Validate checks the finding's user-entered fields, including the
// exactly-one-owner constraint.
func (f *ControlFinding) Validate() error {
	if f.Title == "" {
		return goerr.Wrap(ErrValidation, "finding title is required")
	}
	if (f.InternalControlID == 0) == (f.FrameworkControlID == 0) {
		return goerr.Wrap(ErrValidation, "finding must reference exactly one control",
			goerr.V("internal_control_id", f.InternalControlID),
			goerr.V("framework_control_id", f.FrameworkControlID))
	}
	if !f.FindingType.IsValid() {
		return goerr.Wrap(ErrValidation, "invalid finding type", goerr.V("finding_type", f.FindingType))
	}
	if !f.Status.IsValid() {
		return goerr.Wrap(ErrValidation, "invalid finding status", goerr.V("status", f.Status))
	}
	return nil
}
