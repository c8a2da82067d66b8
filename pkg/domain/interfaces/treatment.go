package interfaces

import (
	"context"

	"github.com/secmon-lab/briareus/pkg/domain/model"
)

// TreatmentRepository defines the interface for Treatment data access
type TreatmentRepository interface {
	// Create creates a new treatment with auto-generated ID
	Create(ctx context.Context, treatment *model.Treatment) (*model.Treatment, error)

	// Get retrieves a treatment by ID
	Get(ctx context.Context, id int64) (*model.Treatment, error)

	// List retrieves all treatments
	List(ctx context.Context) ([]*model.Treatment, error)

	// ListByRisk retrieves all treatments for a specific risk
	ListByRisk(ctx context.Context, riskID int64) ([]*model.Treatment, error)

	// Update updates an existing treatment
	Update(ctx context.Context, treatment *model.Treatment) (*model.Treatment, error)

	// Delete deletes a treatment by ID
	Delete(ctx context.Context, id int64) error
}
