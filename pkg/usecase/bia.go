package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/model/config"
	"github.com/secmon-lab/briareus/pkg/utils/logging"
)

// BiaUseCase owns Business Impact Assessments and the primary assets they
// describe. Saving an assessment derives criticality once and mirrors the
// result onto the asset; later threshold changes never rewrite stored
// derivations.
type BiaUseCase struct {
	repo       interfaces.Repository
	riskConfig *config.RiskConfig
}

func NewBiaUseCase(repo interfaces.Repository, cfg *config.RiskConfig) *BiaUseCase {
	return &BiaUseCase{repo: repo, riskConfig: cfg}
}

// SaveAssessment creates or replaces the assessment for the target asset.
// The derived fields are computed here; a missing asset record is logged
// and skipped so the assessment write still succeeds.
func (uc *BiaUseCase) SaveAssessment(ctx context.Context, assessment *model.BiaAssessment) (*model.BiaAssessment, error) {
	if err := assessment.Validate(); err != nil {
		return nil, err
	}
	assessment.Derive(uc.riskConfig.Threshold())

	existing, err := uc.repo.Bia().GetByAsset(ctx, assessment.AssetID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get assessment by asset", goerr.V("assetID", assessment.AssetID))
	}

	var saved *model.BiaAssessment
	if existing == nil {
		saved, err = uc.repo.Bia().Create(ctx, assessment)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create assessment")
		}
	} else {
		assessment.ID = existing.ID
		saved, err = uc.repo.Bia().Update(ctx, assessment)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to update assessment", goerr.V("id", existing.ID))
		}
	}

	uc.mirrorToAsset(ctx, saved)

	return saved, nil
}

func (uc *BiaUseCase) GetAssessment(ctx context.Context, id int64) (*model.BiaAssessment, error) {
	return uc.repo.Bia().Get(ctx, id)
}

func (uc *BiaUseCase) GetAssessmentByAsset(ctx context.Context, assetID int64) (*model.BiaAssessment, error) {
	return uc.repo.Bia().GetByAsset(ctx, assetID)
}

func (uc *BiaUseCase) ListAssessments(ctx context.Context) ([]*model.BiaAssessment, error) {
	return uc.repo.Bia().List(ctx)
}

// DeleteAssessment removes the assessment and resets the asset's mirrored
// BIA fields.
func (uc *BiaUseCase) DeleteAssessment(ctx context.Context, id int64) error {
	existing, err := uc.repo.Bia().Get(ctx, id)
	if err != nil {
		return goerr.Wrap(err, "failed to get assessment", goerr.V("id", id))
	}

	if err := uc.repo.Bia().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete assessment", goerr.V("id", id))
	}

	asset, err := uc.repo.Asset().Get(ctx, existing.AssetID)
	if err != nil {
		logging.From(ctx).Warn("asset missing during assessment delete",
			"asset_id", existing.AssetID, "error", err)
		return nil
	}
	asset.Criticality = ""
	asset.RTOHours = 0
	asset.RPOHours = 0
	asset.MTDHours = 0
	asset.BIACompleted = false
	if _, err := uc.repo.Asset().Update(ctx, asset); err != nil {
		logging.From(ctx).Warn("failed to reset asset after assessment delete",
			"asset_id", asset.ID, "error", err)
	}

	return nil
}

func (uc *BiaUseCase) mirrorToAsset(ctx context.Context, assessment *model.BiaAssessment) {
	asset, err := uc.repo.Asset().Get(ctx, assessment.AssetID)
	if err != nil {
		logging.From(ctx).Warn("asset missing during assessment save",
			"asset_id", assessment.AssetID, "error", err)
		return
	}

	asset.Criticality = assessment.DerivedCriticality
	asset.RTOHours = assessment.RTOHours
	asset.RPOHours = assessment.RPOHours
	asset.MTDHours = assessment.MTDHours()
	asset.BIACompleted = true

	if _, err := uc.repo.Asset().Update(ctx, asset); err != nil {
		logging.From(ctx).Warn("failed to mirror assessment onto asset",
			"asset_id", asset.ID, "error", err)
	}
}

func (uc *BiaUseCase) CreateAsset(ctx context.Context, asset *model.PrimaryAsset) (*model.PrimaryAsset, error) {
	if asset.Name == "" {
		return nil, goerr.Wrap(model.ErrValidation, "asset name is required")
	}

	created, err := uc.repo.Asset().Create(ctx, asset)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create asset")
	}

	return created, nil
}

func (uc *BiaUseCase) GetAsset(ctx context.Context, id int64) (*model.PrimaryAsset, error) {
	return uc.repo.Asset().Get(ctx, id)
}

func (uc *BiaUseCase) ListAssets(ctx context.Context) ([]*model.PrimaryAsset, error) {
	return uc.repo.Asset().List(ctx)
}

// UpdateAsset rewrites the user-entered asset fields. The BIA-derived
// mirror fields are carried over from the stored asset.
func (uc *BiaUseCase) UpdateAsset(ctx context.Context, asset *model.PrimaryAsset) (*model.PrimaryAsset, error) {
	existing, err := uc.repo.Asset().Get(ctx, asset.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get asset", goerr.V("id", asset.ID))
	}
	if asset.Name == "" {
		return nil, goerr.Wrap(model.ErrValidation, "asset name is required")
	}

	asset.Criticality = existing.Criticality
	asset.RTOHours = existing.RTOHours
	asset.RPOHours = existing.RPOHours
	asset.MTDHours = existing.MTDHours
	asset.BIACompleted = existing.BIACompleted

	updated, err := uc.repo.Asset().Update(ctx, asset)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update asset", goerr.V("id", asset.ID))
	}

	return updated, nil
}

// DeleteAsset removes the asset and its assessment, if any
func (uc *BiaUseCase) DeleteAsset(ctx context.Context, id int64) error {
	if err := uc.repo.Asset().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete asset", goerr.V("id", id))
	}

	assessment, err := uc.repo.Bia().GetByAsset(ctx, id)
	if err != nil {
		logging.From(ctx).Warn("failed to query assessment for deleted asset",
			"asset_id", id, "error", err)
		return nil
	}
	if assessment != nil {
		if err := uc.repo.Bia().Delete(ctx, assessment.ID); err != nil {
			logging.From(ctx).Warn("failed to delete assessment for deleted asset",
				"asset_id", id, "assessment_id", assessment.ID, "error", err)
		}
	}

	return nil
}
