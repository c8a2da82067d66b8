package interfaces

import (
	"context"

	"github.com/secmon-lab/briareus/pkg/domain/model"
)

// AppetiteRepository defines the interface for RiskAppetite data access
type AppetiteRepository interface {
	// Create creates a new appetite with auto-generated ID
	Create(ctx context.Context, appetite *model.RiskAppetite) (*model.RiskAppetite, error)

	// Get retrieves an appetite by ID
	Get(ctx context.Context, id int64) (*model.RiskAppetite, error)

	// List retrieves all appetites
	List(ctx context.Context) ([]*model.RiskAppetite, error)

	// Update updates an existing appetite
	Update(ctx context.Context, appetite *model.RiskAppetite) (*model.RiskAppetite, error)

	// Delete deletes an appetite by ID
	Delete(ctx context.Context, id int64) error

	// GetActive retrieves the currently active appetite.
	// Returns nil, nil when no appetite is active.
	GetActive(ctx context.Context) (*model.RiskAppetite, error)

	// SetActive activates the appetite with the given ID after deactivating
	// all others (explicit two-step sequence).
	SetActive(ctx context.Context, id int64) error
}
