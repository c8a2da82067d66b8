package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/utils/logging"
)

// RiskUseCase owns the risk register operations. Inherent score and level
// are derived on every write; callers never supply them.
type RiskUseCase struct {
	repo interfaces.Repository
}

func NewRiskUseCase(repo interfaces.Repository) *RiskUseCase {
	return &RiskUseCase{repo: repo}
}

func (uc *RiskUseCase) Create(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	risk.Status = risk.Status.Normalize()
	if err := risk.Validate(); err != nil {
		return nil, err
	}
	risk.Rescore()

	created, err := uc.repo.Risk().Create(ctx, risk)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create risk")
	}

	return created, nil
}

func (uc *RiskUseCase) Get(ctx context.Context, id int64) (*model.Risk, error) {
	return uc.repo.Risk().Get(ctx, id)
}

func (uc *RiskUseCase) List(ctx context.Context) ([]*model.Risk, error) {
	return uc.repo.Risk().List(ctx)
}

// Update rewrites the user-entered fields and re-derives the inherent
// score. The residual block is carried over from the stored risk: only the
// treatment workflow may change it.
func (uc *RiskUseCase) Update(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	existing, err := uc.repo.Risk().Get(ctx, risk.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V("id", risk.ID))
	}

	risk.Status = risk.Status.Normalize()
	if err := risk.Validate(); err != nil {
		return nil, err
	}
	risk.Rescore()

	risk.NetSeverity = existing.NetSeverity
	risk.NetLikelihood = existing.NetLikelihood
	risk.ResidualScore = existing.ResidualScore
	risk.ResidualRating = existing.ResidualRating
	risk.ResidualLikelihood = existing.ResidualLikelihood
	risk.ResidualUpdatedAt = existing.ResidualUpdatedAt

	updated, err := uc.repo.Risk().Update(ctx, risk)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update risk", goerr.V("id", risk.ID))
	}

	return updated, nil
}

// Delete removes the risk and its treatments. Treatment cleanup is best
// effort: a failed treatment delete is logged and does not fail the
// operation.
func (uc *RiskUseCase) Delete(ctx context.Context, id int64) error {
	if err := uc.repo.Risk().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete risk", goerr.V("id", id))
	}

	treatments, err := uc.repo.Treatment().ListByRisk(ctx, id)
	if err != nil {
		logging.From(ctx).Warn("failed to list treatments for deleted risk",
			"risk_id", id, "error", err)
		return nil
	}
	for _, t := range treatments {
		if err := uc.repo.Treatment().Delete(ctx, t.ID); err != nil {
			logging.From(ctx).Warn("failed to delete treatment for deleted risk",
				"risk_id", id, "treatment_id", t.ID, "error", err)
		}
	}

	return nil
}

// AppetiteCheck is the result of evaluating one risk against the active
// appetite. Band is nil when no band contains the risk's current score.
type AppetiteCheck struct {
	Risk  *model.Risk
	Score int
	Band  *model.AppetiteBand
}

// Violation reports whether the risk score fell outside every band
func (c *AppetiteCheck) Violation() bool {
	return c.Band == nil
}

// EvaluateAppetite matches every risk's current score against the active
// appetite. Returns nil, nil when no appetite is active.
func (uc *RiskUseCase) EvaluateAppetite(ctx context.Context) ([]*AppetiteCheck, error) {
	appetite, err := uc.repo.Appetite().GetActive(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get active appetite")
	}
	if appetite == nil {
		return nil, nil
	}

	risks, err := uc.repo.Risk().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risks")
	}

	checks := make([]*AppetiteCheck, 0, len(risks))
	for _, risk := range risks {
		score := risk.CurrentScore()
		checks = append(checks, &AppetiteCheck{
			Risk:  risk,
			Score: score,
			Band:  appetite.MatchBand(score),
		})
	}

	return checks, nil
}
