package interfaces

import (
	"context"

	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
)

// FindingRepository defines the interface for ControlFinding data access
type FindingRepository interface {
	// Create creates a new finding with auto-generated ID
	Create(ctx context.Context, finding *model.ControlFinding) (*model.ControlFinding, error)

	// Get retrieves a finding by ID
	Get(ctx context.Context, id int64) (*model.ControlFinding, error)

	// List retrieves all findings
	List(ctx context.Context) ([]*model.ControlFinding, error)

	// ListByControl retrieves all findings attached to one control
	ListByControl(ctx context.Context, kind types.ControlKind, controlID int64) ([]*model.ControlFinding, error)

	// Update updates an existing finding
	Update(ctx context.Context, finding *model.ControlFinding) (*model.ControlFinding, error)

	// Delete deletes a finding by ID
	Delete(ctx context.Context, id int64) error
}
