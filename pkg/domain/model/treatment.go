package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/types"
)

// ControlRef references a linked mitigating control
type ControlRef struct {
	Kind types.ControlKind
	ID   int64
}

// Treatment is a remediation plan for one risk. Starting or completing a
// treatment is the only action that writes residual fields onto the risk.
type Treatment struct {
	ID          int64
	RiskID      int64
	Title       string
	Description string
	Strategy    string
	Status      types.TreatmentStatus

	// Residual selections supplied when the treatment is started or
	// completed. Required for those transitions, optional while planned.
	ResidualSeverity   types.Severity
	ResidualLikelihood types.Likelihood

	ControlLinks []ControlRef
	CompletedAt  time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate checks the treatment's user-entered fields
func (t *Treatment) Validate() error {
	if t.RiskID == 0 {
		return goerr.Wrap(ErrValidation, "treatment requires a risk")
	}
	if t.Title == "" {
		return goerr.Wrap(ErrValidation, "treatment title is required")
	}
	if status := t.Status.Normalize(); !status.IsValid() {
		return goerr.Wrap(ErrValidation, "invalid treatment status", goerr.V("status", t.Status))
	}
	if t.ResidualSeverity != "" && !t.ResidualSeverity.IsValid() {
		return goerr.Wrap(ErrValidation, "invalid residual severity", goerr.V("severity", t.ResidualSeverity))
	}
	if t.ResidualLikelihood != "" && !t.ResidualLikelihood.IsValid() {
		return goerr.Wrap(ErrValidation, "invalid residual likelihood", goerr.V("likelihood", t.ResidualLikelihood))
	}
	return nil
}

// RequireResidual verifies both residual selections are present and valid.
// Called before the in_progress and completed transitions, ahead of any
// write.
func (t *Treatment) RequireResidual() error {
	if !t.ResidualSeverity.IsValid() {
		return goerr.Wrap(ErrValidation, "residual severity is required",
			goerr.V("severity", t.ResidualSeverity))
	}
	if !t.ResidualLikelihood.IsValid() {
		return goerr.Wrap(ErrValidation, "residual likelihood is required",
			goerr.V("likelihood", t.ResidualLikelihood))
	}
	return nil
}

// CanTransitionTo reports whether the treatment state machine allows moving
// to the given status. Cancellation is reachable from any non-terminal
// state; completed and cancelled are terminal.
func (t *Treatment) CanTransitionTo(next types.TreatmentStatus) bool {
	current := t.Status.Normalize()
	if current.IsTerminal() {
		return false
	}
	switch next {
	case types.TreatmentStatusInProgress:
		return current == types.TreatmentStatusPlanned
	case types.TreatmentStatusCompleted:
		return current == types.TreatmentStatusPlanned || current == types.TreatmentStatusInProgress
	case types.TreatmentStatusCancelled:
		return true
	default:
		return false
	}
}
