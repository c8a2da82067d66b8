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

// FindingUseCase owns audit findings. Every write recomputes the owning
// control's compliance status.
type FindingUseCase struct {
	repo interfaces.Repository
}

func NewFindingUseCase(repo interfaces.Repository) *FindingUseCase {
	return &FindingUseCase{repo: repo}
}

func (uc *FindingUseCase) Create(ctx context.Context, finding *model.ControlFinding) (*model.ControlFinding, error) {
	if err := finding.Validate(); err != nil {
		return nil, err
	}
	if err := uc.checkControlExists(ctx, finding); err != nil {
		return nil, err
	}

	created, err := uc.repo.Finding().Create(ctx, finding)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create finding")
	}

	uc.RecomputeControl(ctx, created.ControlKind(), created.ControlID())

	return created, nil
}

func (uc *FindingUseCase) Get(ctx context.Context, id int64) (*model.ControlFinding, error) {
	return uc.repo.Finding().Get(ctx, id)
}

func (uc *FindingUseCase) List(ctx context.Context) ([]*model.ControlFinding, error) {
	return uc.repo.Finding().List(ctx)
}

func (uc *FindingUseCase) ListByControl(ctx context.Context, kind types.ControlKind, controlID int64) ([]*model.ControlFinding, error) {
	return uc.repo.Finding().ListByControl(ctx, kind, controlID)
}

// Update rewrites the finding. The owning control reference is immutable
// after creation.
func (uc *FindingUseCase) Update(ctx context.Context, finding *model.ControlFinding) (*model.ControlFinding, error) {
	existing, err := uc.repo.Finding().Get(ctx, finding.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get finding", goerr.V("id", finding.ID))
	}

	finding.InternalControlID = existing.InternalControlID
	finding.FrameworkControlID = existing.FrameworkControlID
	if err := finding.Validate(); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Finding().Update(ctx, finding)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update finding", goerr.V("id", finding.ID))
	}

	uc.RecomputeControl(ctx, updated.ControlKind(), updated.ControlID())

	return updated, nil
}

func (uc *FindingUseCase) Delete(ctx context.Context, id int64) error {
	existing, err := uc.repo.Finding().Get(ctx, id)
	if err != nil {
		return goerr.Wrap(err, "failed to get finding", goerr.V("id", id))
	}

	if err := uc.repo.Finding().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete finding", goerr.V("id", id))
	}

	uc.RecomputeControl(ctx, existing.ControlKind(), existing.ControlID())

	return nil
}

// RecomputeControl re-derives one control's compliance status from its
// findings and stamps LastAssessedAt. A missing control is logged and
// skipped so the triggering finding operation still succeeds.
func (uc *FindingUseCase) RecomputeControl(ctx context.Context, kind types.ControlKind, controlID int64) {
	findings, err := uc.repo.Finding().ListByControl(ctx, kind, controlID)
	if err != nil {
		logging.From(ctx).Warn("failed to list findings for compliance recompute",
			"kind", kind, "control_id", controlID, "error", err)
		return
	}

	derived := model.DeriveComplianceStatus(findings)
	now := time.Now().UTC()

	switch kind {
	case types.ControlKindInternal:
		control, err := uc.repo.InternalControl().Get(ctx, controlID)
		if err != nil {
			logging.From(ctx).Warn("control missing during compliance recompute",
				"kind", kind, "control_id", controlID, "error", err)
			return
		}
		control.ComplianceStatus = derived
		control.LastAssessedAt = now
		if _, err := uc.repo.InternalControl().Update(ctx, control); err != nil {
			logging.From(ctx).Warn("failed to store recomputed compliance status",
				"kind", kind, "control_id", controlID, "error", err)
		}
	case types.ControlKindFramework:
		control, err := uc.repo.FrameworkControl().Get(ctx, controlID)
		if err != nil {
			logging.From(ctx).Warn("control missing during compliance recompute",
				"kind", kind, "control_id", controlID, "error", err)
			return
		}
		control.ComplianceStatus = derived
		control.LastAssessedAt = now
		if _, err := uc.repo.FrameworkControl().Update(ctx, control); err != nil {
			logging.From(ctx).Warn("failed to store recomputed compliance status",
				"kind", kind, "control_id", controlID, "error", err)
		}
	}
}

func (uc *FindingUseCase) checkControlExists(ctx context.Context, finding *model.ControlFinding) error {
	switch finding.ControlKind() {
	case types.ControlKindInternal:
		if _, err := uc.repo.InternalControl().Get(ctx, finding.ControlID()); err != nil {
			return goerr.Wrap(err, "failed to get internal control", goerr.V("id", finding.ControlID()))
		}
	case types.ControlKindFramework:
		if _, err := uc.repo.FrameworkControl().Get(ctx, finding.ControlID()); err != nil {
			return goerr.Wrap(err, "failed to get framework control", goerr.V("id", finding.ControlID()))
		}
	}
	return nil
}
