package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/types"
)

// Risk is a governance risk record. Inherent fields are user-entered;
// the residual block is written only by the treatment calculator.
type Risk struct {
	ID          int64
	Title       string
	Description string
	OwnerID     string

	InherentSeverity   types.Severity
	InherentLikelihood types.Likelihood
	InherentScore      int
	InherentLevel      types.RiskLevel

	// Net ("current") values after treatment. Empty until a treatment
	// has been started or completed.
	NetSeverity   types.Severity
	NetLikelihood types.Likelihood

	ResidualScore      int
	ResidualRating     types.RiskLevel
	ResidualLikelihood types.Likelihood
	ResidualUpdatedAt  time.Time

	Status     types.RiskStatus
	ReviewDate time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate checks the user-entered fields of the risk
func (r *Risk) Validate() error {
	if r.Title == "" {
		return goerr.Wrap(ErrValidation, "risk title is required")
	}
	if !r.InherentSeverity.IsValid() {
		return goerr.Wrap(ErrValidation, "invalid inherent severity", goerr.V("severity", r.InherentSeverity))
	}
	if !r.InherentLikelihood.IsValid() {
		return goerr.Wrap(ErrValidation, "invalid inherent likelihood", goerr.V("likelihood", r.InherentLikelihood))
	}
	if status := r.Status.Normalize(); !status.IsValid() {
		return goerr.Wrap(ErrValidation, "invalid risk status", goerr.V("status", r.Status))
	}
	return nil
}

// Rescore recomputes the derived inherent score and level from the current
// severity and likelihood selections.
func (r *Risk) Rescore() {
	r.InherentScore = RiskScore(r.InherentSeverity, r.InherentLikelihood)
	r.InherentLevel = LevelForScore(r.InherentScore)
}

// CurrentScore returns the residual score when a treatment has produced one,
// otherwise the inherent score.
func (r *Risk) CurrentScore() int {
	if r.HasResidual() {
		return r.ResidualScore
	}
	return r.InherentScore
}

// HasResidual reports whether the residual block is populated
func (r *Risk) HasResidual() bool {
	return !r.ResidualUpdatedAt.IsZero()
}

// ApplyResidual writes the residual block derived from the given severity
// and likelihood. The caller decides the accompanying status transition.
func (r *Risk) ApplyResidual(severity types.Severity, likelihood types.Likelihood, now time.Time) {
	score := RiskScore(severity, likelihood)
	r.NetSeverity = severity
	r.NetLikelihood = likelihood
	r.ResidualLikelihood = likelihood
	r.ResidualScore = score
	r.ResidualRating = LevelForScore(score)
	r.ResidualUpdatedAt = now
}

// ClearResidual removes all residual fields. Used when the treatment that
// produced them is cancelled or deleted.
func (r *Risk) ClearResidual() {
	r.NetSeverity = ""
	r.NetLikelihood = ""
	r.ResidualLikelihood = ""
	r.ResidualScore = 0
	r.ResidualRating = ""
	r.ResidualUpdatedAt = time.Time{}
}
