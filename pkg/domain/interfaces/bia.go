package interfaces

import (
	"context"

	"github.com/secmon-lab/briareus/pkg/domain/model"
)

// BiaRepository defines the interface for BiaAssessment data access
type BiaRepository interface {
	// Create creates a new assessment with auto-generated ID
	Create(ctx context.Context, assessment *model.BiaAssessment) (*model.BiaAssessment, error)

	// Get retrieves an assessment by ID
	Get(ctx context.Context, id int64) (*model.BiaAssessment, error)

	// List retrieves all assessments
	List(ctx context.Context) ([]*model.BiaAssessment, error)

	// GetByAsset retrieves the assessment for a specific asset.
	// Returns nil, nil when the asset has no assessment.
	GetByAsset(ctx context.Context, assetID int64) (*model.BiaAssessment, error)

	// Update updates an existing assessment
	Update(ctx context.Context, assessment *model.BiaAssessment) (*model.BiaAssessment, error)

	// Delete deletes an assessment by ID
	Delete(ctx context.Context, id int64) error
}

// AssetRepository defines the interface for PrimaryAsset data access
type AssetRepository interface {
	// Create creates a new asset with auto-generated ID
	Create(ctx context.Context, asset *model.PrimaryAsset) (*model.PrimaryAsset, error)

	// Get retrieves an asset by ID
	Get(ctx context.Context, id int64) (*model.PrimaryAsset, error)

	// List retrieves all assets
	List(ctx context.Context) ([]*model.PrimaryAsset, error)

	// Update updates an existing asset
	Update(ctx context.Context, asset *model.PrimaryAsset) (*model.PrimaryAsset, error)

	// Delete deletes an asset by ID
	Delete(ctx context.Context, id int64) error
}
