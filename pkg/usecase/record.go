package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
)

// RecordUseCase owns the dashboard-only record collections: policies,
// vendors and evidence.
type RecordUseCase struct {
	repo interfaces.Repository
}

func NewRecordUseCase(repo interfaces.Repository) *RecordUseCase {
	return &RecordUseCase{repo: repo}
}

func (uc *RecordUseCase) CreatePolicy(ctx context.Context, policy *model.Policy) (*model.Policy, error) {
	if policy.Name == "" {
		return nil, goerr.Wrap(model.ErrValidation, "policy name is required")
	}
	policy.Status = policy.Status.Normalize()

	created, err := uc.repo.Policy().Create(ctx, policy)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create policy")
	}

	return created, nil
}

func (uc *RecordUseCase) GetPolicy(ctx context.Context, id int64) (*model.Policy, error) {
	return uc.repo.Policy().Get(ctx, id)
}

func (uc *RecordUseCase) ListPolicies(ctx context.Context) ([]*model.Policy, error) {
	return uc.repo.Policy().List(ctx)
}

func (uc *RecordUseCase) UpdatePolicy(ctx context.Context, policy *model.Policy) (*model.Policy, error) {
	if policy.Name == "" {
		return nil, goerr.Wrap(model.ErrValidation, "policy name is required")
	}
	policy.Status = policy.Status.Normalize()

	updated, err := uc.repo.Policy().Update(ctx, policy)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update policy", goerr.V("id", policy.ID))
	}

	return updated, nil
}

func (uc *RecordUseCase) DeletePolicy(ctx context.Context, id int64) error {
	return uc.repo.Policy().Delete(ctx, id)
}

func (uc *RecordUseCase) CreateVendor(ctx context.Context, vendor *model.Vendor) (*model.Vendor, error) {
	if vendor.Name == "" {
		return nil, goerr.Wrap(model.ErrValidation, "vendor name is required")
	}

	created, err := uc.repo.Vendor().Create(ctx, vendor)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create vendor")
	}

	return created, nil
}

func (uc *RecordUseCase) GetVendor(ctx context.Context, id int64) (*model.Vendor, error) {
	return uc.repo.Vendor().Get(ctx, id)
}

func (uc *RecordUseCase) ListVendors(ctx context.Context) ([]*model.Vendor, error) {
	return uc.repo.Vendor().List(ctx)
}

func (uc *RecordUseCase) UpdateVendor(ctx context.Context, vendor *model.Vendor) (*model.Vendor, error) {
	if vendor.Name == "" {
		return nil, goerr.Wrap(model.ErrValidation, "vendor name is required")
	}

	updated, err := uc.repo.Vendor().Update(ctx, vendor)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update vendor", goerr.V("id", vendor.ID))
	}

	return updated, nil
}

func (uc *RecordUseCase) DeleteVendor(ctx context.Context, id int64) error {
	return uc.repo.Vendor().Delete(ctx, id)
}

// CreateEvidence registers an evidence record against an existing control.
// The storage key is assigned here; the artifact bytes live elsewhere and
// are never read by this service.
func (uc *RecordUseCase) CreateEvidence(ctx context.Context, ev *model.Evidence) (*model.Evidence, error) {
	if ev.Name == "" {
		return nil, goerr.Wrap(model.ErrValidation, "evidence name is required")
	}

	switch ev.ControlKind {
	case types.ControlKindInternal:
		if _, err := uc.repo.InternalControl().Get(ctx, ev.ControlID); err != nil {
			return nil, goerr.Wrap(err, "failed to get internal control", goerr.V("controlID", ev.ControlID))
		}
	case types.ControlKindFramework:
		if _, err := uc.repo.FrameworkControl().Get(ctx, ev.ControlID); err != nil {
			return nil, goerr.Wrap(err, "failed to get framework control", goerr.V("controlID", ev.ControlID))
		}
	default:
		return nil, goerr.Wrap(model.ErrValidation, "invalid control kind", goerr.V("kind", ev.ControlKind))
	}

	ev.StorageKey = fmt.Sprintf("evidence/%s", uuid.New().String())

	created, err := uc.repo.Evidence().Create(ctx, ev)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create evidence")
	}

	return created, nil
}

func (uc *RecordUseCase) GetEvidence(ctx context.Context, id int64) (*model.Evidence, error) {
	return uc.repo.Evidence().Get(ctx, id)
}

func (uc *RecordUseCase) ListEvidence(ctx context.Context) ([]*model.Evidence, error) {
	return uc.repo.Evidence().List(ctx)
}

func (uc *RecordUseCase) UpdateEvidence(ctx context.Context, ev *model.Evidence) (*model.Evidence, error) {
	if ev.Name == "" {
		return nil, goerr.Wrap(model.ErrValidation, "evidence name is required")
	}

	updated, err := uc.repo.Evidence().Update(ctx, ev)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update evidence", goerr.V("id", ev.ID))
	}

	return updated, nil
}

func (uc *RecordUseCase) DeleteEvidence(ctx context.Context, id int64) error {
	return uc.repo.Evidence().Delete(ctx, id)
}
