package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
	"github.com/secmon-lab/briareus/pkg/utils/logging"
)

// ControlUseCase owns the two control collections and the frameworks that
// group framework controls. Compliance status is derived from findings and
// never accepted from callers.
type ControlUseCase struct {
	repo interfaces.Repository
}

func NewControlUseCase(repo interfaces.Repository) *ControlUseCase {
	return &ControlUseCase{repo: repo}
}

func (uc *ControlUseCase) CreateInternal(ctx context.Context, control *model.InternalControl) (*model.InternalControl, error) {
	if control.Name == "" {
		return nil, goerr.Wrap(model.ErrValidation, "control name is required")
	}
	control.ComplianceStatus = control.ComplianceStatus.Normalize()

	created, err := uc.repo.InternalControl().Create(ctx, control)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create internal control")
	}

	return created, nil
}

func (uc *ControlUseCase) GetInternal(ctx context.Context, id int64) (*model.InternalControl, error) {
	return uc.repo.InternalControl().Get(ctx, id)
}

func (uc *ControlUseCase) ListInternal(ctx context.Context) ([]*model.InternalControl, error) {
	return uc.repo.InternalControl().List(ctx)
}

// UpdateInternal rewrites the user-entered fields. The derived compliance
// status is carried over from the stored control.
func (uc *ControlUseCase) UpdateInternal(ctx context.Context, control *model.InternalControl) (*model.InternalControl, error) {
	existing, err := uc.repo.InternalControl().Get(ctx, control.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get internal control", goerr.V("id", control.ID))
	}
	if control.Name == "" {
		return nil, goerr.Wrap(model.ErrValidation, "control name is required")
	}

	control.ComplianceStatus = existing.ComplianceStatus
	control.LastAssessedAt = existing.LastAssessedAt

	updated, err := uc.repo.InternalControl().Update(ctx, control)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update internal control", goerr.V("id", control.ID))
	}

	return updated, nil
}

// DeleteInternal removes the control and its findings. Finding cleanup is
// best effort.
func (uc *ControlUseCase) DeleteInternal(ctx context.Context, id int64) error {
	if err := uc.repo.InternalControl().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete internal control", goerr.V("id", id))
	}
	uc.deleteFindings(ctx, types.ControlKindInternal, id)
	return nil
}

func (uc *ControlUseCase) CreateFrameworkControl(ctx context.Context, control *model.FrameworkControl) (*model.FrameworkControl, error) {
	if control.Name == "" {
		return nil, goerr.Wrap(model.ErrValidation, "control name is required")
	}
	if control.FrameworkID == 0 {
		return nil, goerr.Wrap(model.ErrValidation, "framework control requires a framework")
	}
	if _, err := uc.repo.Framework().Get(ctx, control.FrameworkID); err != nil {
		return nil, goerr.Wrap(err, "failed to get framework", goerr.V("frameworkID", control.FrameworkID))
	}
	control.ComplianceStatus = control.ComplianceStatus.Normalize()

	created, err := uc.repo.FrameworkControl().Create(ctx, control)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create framework control")
	}

	return created, nil
}

func (uc *ControlUseCase) GetFrameworkControl(ctx context.Context, id int64) (*model.FrameworkControl, error) {
	return uc.repo.FrameworkControl().Get(ctx, id)
}

func (uc *ControlUseCase) ListFrameworkControls(ctx context.Context) ([]*model.FrameworkControl, error) {
	return uc.repo.FrameworkControl().List(ctx)
}

func (uc *ControlUseCase) ListByFramework(ctx context.Context, frameworkID int64) ([]*model.FrameworkControl, error) {
	return uc.repo.FrameworkControl().ListByFramework(ctx, frameworkID)
}

func (uc *ControlUseCase) UpdateFrameworkControl(ctx context.Context, control *model.FrameworkControl) (*model.FrameworkControl, error) {
	existing, err := uc.repo.FrameworkControl().Get(ctx, control.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get framework control", goerr.V("id", control.ID))
	}
	if control.Name == "" {
		return nil, goerr.Wrap(model.ErrValidation, "control name is required")
	}

	control.FrameworkID = existing.FrameworkID
	control.ComplianceStatus = existing.ComplianceStatus
	control.LastAssessedAt = existing.LastAssessedAt

	updated, err := uc.repo.FrameworkControl().Update(ctx, control)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update framework control", goerr.V("id", control.ID))
	}

	return updated, nil
}

func (uc *ControlUseCase) DeleteFrameworkControl(ctx context.Context, id int64) error {
	if err := uc.repo.FrameworkControl().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete framework control", goerr.V("id", id))
	}
	uc.deleteFindings(ctx, types.ControlKindFramework, id)
	return nil
}

func (uc *ControlUseCase) deleteFindings(ctx context.Context, kind types.ControlKind, controlID int64) {
	findings, err := uc.repo.Finding().ListByControl(ctx, kind, controlID)
	if err != nil {
		logging.From(ctx).Warn("failed to list findings for deleted control",
			"kind", kind, "control_id", controlID, "error", err)
		return
	}
	for _, f := range findings {
		if err := uc.repo.Finding().Delete(ctx, f.ID); err != nil {
			logging.From(ctx).Warn("failed to delete finding for deleted control",
				"kind", kind, "control_id", controlID, "finding_id", f.ID, "error", err)
		}
	}
}

func (uc *ControlUseCase) CreateFramework(ctx context.Context, framework *model.ControlFramework) (*model.ControlFramework, error) {
	if framework.Name == "" {
		return nil, goerr.Wrap(model.ErrValidation, "framework name is required")
	}

	created, err := uc.repo.Framework().Create(ctx, framework)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create framework")
	}

	return created, nil
}

func (uc *ControlUseCase) GetFramework(ctx context.Context, id int64) (*model.ControlFramework, error) {
	return uc.repo.Framework().Get(ctx, id)
}

func (uc *ControlUseCase) ListFrameworks(ctx context.Context) ([]*model.ControlFramework, error) {
	return uc.repo.Framework().List(ctx)
}

func (uc *ControlUseCase) UpdateFramework(ctx context.Context, framework *model.ControlFramework) (*model.ControlFramework, error) {
	if framework.Name == "" {
		return nil, goerr.Wrap(model.ErrValidation, "framework name is required")
	}

	updated, err := uc.repo.Framework().Update(ctx, framework)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update framework", goerr.V("id", framework.ID))
	}

	return updated, nil
}

func (uc *ControlUseCase) DeleteFramework(ctx context.Context, id int64) error {
	return uc.repo.Framework().Delete(ctx, id)
}

func (uc *ControlUseCase) SetActiveFramework(ctx context.Context, id int64) error {
	return uc.repo.Framework().SetActive(ctx, id)
}
