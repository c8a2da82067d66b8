package interfaces

import (
	"context"

	"github.com/secmon-lab/briareus/pkg/domain/model"
)

// PolicyRepository defines the interface for Policy data access
type PolicyRepository interface {
	Create(ctx context.Context, policy *model.Policy) (*model.Policy, error)
	Get(ctx context.Context, id int64) (*model.Policy, error)
	List(ctx context.Context) ([]*model.Policy, error)
	Update(ctx context.Context, policy *model.Policy) (*model.Policy, error)
	Delete(ctx context.Context, id int64) error
}

// VendorRepository defines the interface for Vendor data access
type VendorRepository interface {
	Create(ctx context.Context, vendor *model.Vendor) (*model.Vendor, error)
	Get(ctx context.Context, id int64) (*model.Vendor, error)
	List(ctx context.Context) ([]*model.Vendor, error)
	Update(ctx context.Context, vendor *model.Vendor) (*model.Vendor, error)
	Delete(ctx context.Context, id int64) error
}

// EvidenceRepository defines the interface for Evidence data access
type EvidenceRepository interface {
	Create(ctx context.Context, ev *model.Evidence) (*model.Evidence, error)
	Get(ctx context.Context, id int64) (*model.Evidence, error)
	List(ctx context.Context) ([]*model.Evidence, error)
	Update(ctx context.Context, ev *model.Evidence) (*model.Evidence, error)
	Delete(ctx context.Context, id int64) error
}
