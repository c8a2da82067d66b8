package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
	"github.com/secmon-lab/briareus/pkg/utils/logging"
)

// TreatmentUseCase owns the treatment workflow. Start and Complete are the
// only paths that write residual fields onto a risk; Cancel is the only
// path that clears them.
type TreatmentUseCase struct {
	repo interfaces.Repository
}

func NewTreatmentUseCase(repo interfaces.Repository) *TreatmentUseCase {
	return &TreatmentUseCase{repo: repo}
}

func (uc *TreatmentUseCase) Create(ctx context.Context, treatment *model.Treatment) (*model.Treatment, error) {
	treatment.Status = types.TreatmentStatusPlanned
	if err := treatment.Validate(); err != nil {
		return nil, err
	}
	if _, err := uc.repo.Risk().Get(ctx, treatment.RiskID); err != nil {
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V("riskID", treatment.RiskID))
	}

	created, err := uc.repo.Treatment().Create(ctx, treatment)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create treatment")
	}

	return created, nil
}

func (uc *TreatmentUseCase) Get(ctx context.Context, id int64) (*model.Treatment, error) {
	return uc.repo.Treatment().Get(ctx, id)
}

func (uc *TreatmentUseCase) List(ctx context.Context) ([]*model.Treatment, error) {
	return uc.repo.Treatment().List(ctx)
}

func (uc *TreatmentUseCase) ListByRisk(ctx context.Context, riskID int64) ([]*model.Treatment, error) {
	return uc.repo.Treatment().ListByRisk(ctx, riskID)
}

// Update rewrites the descriptive fields and the residual selections.
// Status, risk binding and control links are managed by their own
// operations and carried over from the stored treatment.
func (uc *TreatmentUseCase) Update(ctx context.Context, treatment *model.Treatment) (*model.Treatment, error) {
	existing, err := uc.repo.Treatment().Get(ctx, treatment.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get treatment", goerr.V("id", treatment.ID))
	}

	treatment.RiskID = existing.RiskID
	treatment.Status = existing.Status
	treatment.ControlLinks = existing.ControlLinks
	treatment.CompletedAt = existing.CompletedAt
	if err := treatment.Validate(); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Treatment().Update(ctx, treatment)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update treatment", goerr.V("id", treatment.ID))
	}

	return updated, nil
}

// Start moves a planned treatment to in_progress. Both residual selections
// must be valid before any write; the residual block is applied to the
// risk and the risk moves to active.
func (uc *TreatmentUseCase) Start(ctx context.Context, id int64) (*model.Treatment, error) {
	treatment, err := uc.repo.Treatment().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get treatment", goerr.V("id", id))
	}

	if !treatment.CanTransitionTo(types.TreatmentStatusInProgress) {
		return nil, goerr.Wrap(model.ErrValidation, "treatment cannot start",
			goerr.V("id", id), goerr.V("status", treatment.Status))
	}
	if err := treatment.RequireResidual(); err != nil {
		return nil, err
	}

	risk, err := uc.repo.Risk().Get(ctx, treatment.RiskID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V("riskID", treatment.RiskID))
	}

	treatment.Status = types.TreatmentStatusInProgress
	updated, err := uc.repo.Treatment().Update(ctx, treatment)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update treatment", goerr.V("id", id))
	}

	risk.ApplyResidual(treatment.ResidualSeverity, treatment.ResidualLikelihood, time.Now().UTC())
	risk.Status = types.RiskStatusActive
	if _, err := uc.repo.Risk().Update(ctx, risk); err != nil {
		return nil, goerr.Wrap(err, "failed to write residual onto risk", goerr.V("riskID", risk.ID))
	}

	return updated, nil
}

// Complete moves a planned or in_progress treatment to completed. The
// residual block is applied to the risk and the risk moves to treated.
func (uc *TreatmentUseCase) Complete(ctx context.Context, id int64) (*model.Treatment, error) {
	treatment, err := uc.repo.Treatment().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get treatment", goerr.V("id", id))
	}

	if !treatment.CanTransitionTo(types.TreatmentStatusCompleted) {
		return nil, goerr.Wrap(model.ErrValidation, "treatment cannot complete",
			goerr.V("id", id), goerr.V("status", treatment.Status))
	}
	if err := treatment.RequireResidual(); err != nil {
		return nil, err
	}

	risk, err := uc.repo.Risk().Get(ctx, treatment.RiskID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V("riskID", treatment.RiskID))
	}

	now := time.Now().UTC()
	treatment.Status = types.TreatmentStatusCompleted
	treatment.CompletedAt = now
	updated, err := uc.repo.Treatment().Update(ctx, treatment)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update treatment", goerr.V("id", id))
	}

	risk.ApplyResidual(treatment.ResidualSeverity, treatment.ResidualLikelihood, now)
	risk.Status = types.RiskStatusTreated
	if _, err := uc.repo.Risk().Update(ctx, risk); err != nil {
		return nil, goerr.Wrap(err, "failed to write residual onto risk", goerr.V("riskID", risk.ID))
	}

	return updated, nil
}

// Cancel moves any non-terminal treatment to cancelled and clears the
// risk's residual block unconditionally, even when another treatment wrote
// it. A treated risk falls back to active; a terminal risk keeps its
// status and cancellation still succeeds.
func (uc *TreatmentUseCase) Cancel(ctx context.Context, id int64) (*model.Treatment, error) {
	treatment, err := uc.repo.Treatment().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get treatment", goerr.V("id", id))
	}

	if !treatment.CanTransitionTo(types.TreatmentStatusCancelled) {
		return nil, goerr.Wrap(model.ErrValidation, "treatment cannot cancel",
			goerr.V("id", id), goerr.V("status", treatment.Status))
	}

	treatment.Status = types.TreatmentStatusCancelled
	updated, err := uc.repo.Treatment().Update(ctx, treatment)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update treatment", goerr.V("id", id))
	}

	risk, err := uc.repo.Risk().Get(ctx, treatment.RiskID)
	if err != nil {
		logging.From(ctx).Warn("risk missing during treatment cancel",
			"treatment_id", id, "risk_id", treatment.RiskID, "error", err)
		return updated, nil
	}

	risk.ClearResidual()
	if risk.Status == types.RiskStatusTreated {
		risk.Status = types.RiskStatusActive
	}
	if _, err := uc.repo.Risk().Update(ctx, risk); err != nil {
		logging.From(ctx).Warn("failed to clear residual from risk",
			"treatment_id", id, "risk_id", risk.ID, "error", err)
	}

	return updated, nil
}

// Delete removes a treatment. Deleting the treatment that produced the
// risk's residual clears it, same as cancellation.
func (uc *TreatmentUseCase) Delete(ctx context.Context, id int64) error {
	treatment, err := uc.repo.Treatment().Get(ctx, id)
	if err != nil {
		return goerr.Wrap(err, "failed to get treatment", goerr.V("id", id))
	}

	if err := uc.repo.Treatment().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete treatment", goerr.V("id", id))
	}

	if treatment.Status.IsTerminal() && treatment.Status != types.TreatmentStatusCompleted {
		return nil
	}

	risk, err := uc.repo.Risk().Get(ctx, treatment.RiskID)
	if err != nil {
		logging.From(ctx).Warn("risk missing during treatment delete",
			"treatment_id", id, "risk_id", treatment.RiskID, "error", err)
		return nil
	}
	if risk.HasResidual() {
		risk.ClearResidual()
		if risk.Status == types.RiskStatusTreated {
			risk.Status = types.RiskStatusActive
		}
		if _, err := uc.repo.Risk().Update(ctx, risk); err != nil {
			logging.From(ctx).Warn("failed to clear residual from risk",
				"treatment_id", id, "risk_id", risk.ID, "error", err)
		}
	}

	return nil
}

// LinkControl attaches a mitigating control to the treatment. Only
// controls whose derived compliance status is usable for mitigation may be
// linked; the gate runs at link time against the stored status.
func (uc *TreatmentUseCase) LinkControl(ctx context.Context, id int64, ref model.ControlRef) (*model.Treatment, error) {
	treatment, err := uc.repo.Treatment().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get treatment", goerr.V("id", id))
	}

	var status types.ComplianceStatus
	switch ref.Kind {
	case types.ControlKindInternal:
		control, err := uc.repo.InternalControl().Get(ctx, ref.ID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get internal control", goerr.V("controlID", ref.ID))
		}
		status = control.ComplianceStatus
	case types.ControlKindFramework:
		control, err := uc.repo.FrameworkControl().Get(ctx, ref.ID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get framework control", goerr.V("controlID", ref.ID))
		}
		status = control.ComplianceStatus
	default:
		return nil, goerr.Wrap(model.ErrValidation, "invalid control kind", goerr.V("kind", ref.Kind))
	}

	if !status.UsableForMitigation() {
		return nil, goerr.Wrap(model.ErrValidation, "control is not usable for mitigation",
			goerr.V("kind", ref.Kind), goerr.V("controlID", ref.ID), goerr.V("status", status))
	}

	for _, l := range treatment.ControlLinks {
		if l == ref {
			return treatment, nil
		}
	}
	treatment.ControlLinks = append(treatment.ControlLinks, ref)

	updated, err := uc.repo.Treatment().Update(ctx, treatment)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update treatment", goerr.V("id", id))
	}

	return updated, nil
}

// UnlinkControl detaches a linked control. Unknown links are ignored.
func (uc *TreatmentUseCase) UnlinkControl(ctx context.Context, id int64, ref model.ControlRef) (*model.Treatment, error) {
	treatment, err := uc.repo.Treatment().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get treatment", goerr.V("id", id))
	}

	links := treatment.ControlLinks[:0]
	for _, l := range treatment.ControlLinks {
		if l != ref {
			links = append(links, l)
		}
	}
	treatment.ControlLinks = links

	updated, err := uc.repo.Treatment().Update(ctx, treatment)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update treatment", goerr.V("id", id))
	}

	return updated, nil
}
