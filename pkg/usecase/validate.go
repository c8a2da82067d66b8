package usecase

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
)

// ValidationIssue describes one record whose stored derived fields disagree
// with what the derivation rules produce from the current inputs.
type ValidationIssue struct {
	Collection string
	ID         int64
	Field      string
	Expected   string
	Actual     string
}

// ValidationResult is the outcome of a DB consistency check
type ValidationResult struct {
	Issues []ValidationIssue
}

// HasIssues reports whether any inconsistency was found
func (r *ValidationResult) HasIssues() bool {
	return len(r.Issues) > 0
}

// ValidateDB re-derives every stored derived field and reports records that
// disagree with the stored value. Read-only: nothing is repaired.
func (uc *UseCases) ValidateDB(ctx context.Context) (*ValidationResult, error) {
	result := &ValidationResult{}

	if err := uc.validateRisks(ctx, result); err != nil {
		return nil, err
	}
	if err := uc.validateControls(ctx, result); err != nil {
		return nil, err
	}
	if err := uc.validateAssessments(ctx, result); err != nil {
		return nil, err
	}

	return result, nil
}

func (uc *UseCases) validateRisks(ctx context.Context, result *ValidationResult) error {
	risks, err := uc.repo.Risk().List(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list risks")
	}

	for _, r := range risks {
		score := model.RiskScore(r.InherentSeverity, r.InherentLikelihood)
		if r.InherentScore != score {
			result.Issues = append(result.Issues, ValidationIssue{
				Collection: "risks",
				ID:         r.ID,
				Field:      "inherent_score",
				Expected:   fmt.Sprintf("%d", score),
				Actual:     fmt.Sprintf("%d", r.InherentScore),
			})
		}
		if level := model.LevelForScore(score); r.InherentLevel != level {
			result.Issues = append(result.Issues, ValidationIssue{
				Collection: "risks",
				ID:         r.ID,
				Field:      "inherent_level",
				Expected:   level.String(),
				Actual:     r.InherentLevel.String(),
			})
		}

		if !r.HasResidual() {
			continue
		}
		residual := model.RiskScore(r.NetSeverity, r.NetLikelihood)
		if r.ResidualScore != residual {
			result.Issues = append(result.Issues, ValidationIssue{
				Collection: "risks",
				ID:         r.ID,
				Field:      "residual_score",
				Expected:   fmt.Sprintf("%d", residual),
				Actual:     fmt.Sprintf("%d", r.ResidualScore),
			})
		}
		if rating := model.LevelForScore(residual); r.ResidualRating != rating {
			result.Issues = append(result.Issues, ValidationIssue{
				Collection: "risks",
				ID:         r.ID,
				Field:      "residual_rating",
				Expected:   rating.String(),
				Actual:     r.ResidualRating.String(),
			})
		}
	}

	return nil
}

func (uc *UseCases) validateControls(ctx context.Context, result *ValidationResult) error {
	internals, err := uc.repo.InternalControl().List(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list internal controls")
	}
	for _, c := range internals {
		if err := uc.checkControlStatus(ctx, result, "internal_controls",
			types.ControlKindInternal, c.ID, c.ComplianceStatus); err != nil {
			return err
		}
	}

	frameworks, err := uc.repo.FrameworkControl().List(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list framework controls")
	}
	for _, c := range frameworks {
		if err := uc.checkControlStatus(ctx, result, "framework_controls",
			types.ControlKindFramework, c.ID, c.ComplianceStatus); err != nil {
			return err
		}
	}

	return nil
}

func (uc *UseCases) checkControlStatus(ctx context.Context, result *ValidationResult, collection string, kind types.ControlKind, controlID int64, stored types.ComplianceStatus) error {
	findings, err := uc.repo.Finding().ListByControl(ctx, kind, controlID)
	if err != nil {
		return goerr.Wrap(err, "failed to list findings for control",
			goerr.V("kind", kind), goerr.V("control_id", controlID))
	}

	// Controls that have never been assessed carry no derived value to check
	if stored.Normalize() == types.ComplianceStatusNotAssessed {
		return nil
	}

	if derived := model.DeriveComplianceStatus(findings); stored.Normalize() != derived {
		result.Issues = append(result.Issues, ValidationIssue{
			Collection: collection,
			ID:         controlID,
			Field:      "compliance_status",
			Expected:   derived.String(),
			Actual:     stored.String(),
		})
	}

	return nil
}

func (uc *UseCases) validateAssessments(ctx context.Context, result *ValidationResult) error {
	assessments, err := uc.repo.Bia().List(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list BIA assessments")
	}

	threshold := uc.riskConfig.Threshold()
	for _, a := range assessments {
		criticality, bucket := model.DeriveCriticality(a.Timeline, threshold)
		if a.DerivedCriticality != criticality {
			result.Issues = append(result.Issues, ValidationIssue{
				Collection: "bia_assessments",
				ID:         a.ID,
				Field:      "derived_criticality",
				Expected:   criticality.String(),
				Actual:     a.DerivedCriticality.String(),
			})
		}

		expected := ""
		if bucket != nil {
			expected = bucket.String()
		}
		actual := ""
		if a.TimeToHighBucket != nil {
			actual = a.TimeToHighBucket.String()
		}
		if expected != actual {
			result.Issues = append(result.Issues, ValidationIssue{
				Collection: "bia_assessments",
				ID:         a.ID,
				Field:      "time_to_high_bucket",
				Expected:   expected,
				Actual:     actual,
			})
		}
	}

	return nil
}
