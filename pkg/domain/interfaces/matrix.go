package interfaces

import (
	"context"

	"github.com/secmon-lab/briareus/pkg/domain/model"
)

// MatrixRepository defines the interface for RiskMatrix data access
type MatrixRepository interface {
	// Create creates a new matrix with auto-generated ID
	Create(ctx context.Context, matrix *model.RiskMatrix) (*model.RiskMatrix, error)

	// Get retrieves a matrix by ID
	Get(ctx context.Context, id int64) (*model.RiskMatrix, error)

	// List retrieves all matrices
	List(ctx context.Context) ([]*model.RiskMatrix, error)

	// Update updates an existing matrix
	Update(ctx context.Context, matrix *model.RiskMatrix) (*model.RiskMatrix, error)

	// Delete deletes a matrix by ID
	Delete(ctx context.Context, id int64) error

	// GetActive retrieves the currently active matrix.
	// Returns nil, nil when no matrix is active.
	GetActive(ctx context.Context) (*model.RiskMatrix, error)

	// SetActive activates the matrix with the given ID after deactivating
	// all others. Implemented as an explicit two-step sequence, never a
	// unique-constraint side effect.
	SetActive(ctx context.Context, id int64) error
}
