package interfaces

import (
	"context"

	"github.com/secmon-lab/briareus/pkg/domain/model"
)

// InternalControlRepository defines the interface for InternalControl data access
type InternalControlRepository interface {
	// Create creates a new internal control with auto-generated ID
	Create(ctx context.Context, control *model.InternalControl) (*model.InternalControl, error)

	// Get retrieves an internal control by ID
	Get(ctx context.Context, id int64) (*model.InternalControl, error)

	// List retrieves all internal controls
	List(ctx context.Context) ([]*model.InternalControl, error)

	// Update updates an existing internal control
	Update(ctx context.Context, control *model.InternalControl) (*model.InternalControl, error)

	// Delete deletes an internal control by ID
	Delete(ctx context.Context, id int64) error
}

// FrameworkControlRepository defines the interface for FrameworkControl data access
type FrameworkControlRepository interface {
	// Create creates a new framework control with auto-generated ID
	Create(ctx context.Context, control *model.FrameworkControl) (*model.FrameworkControl, error)

	// Get retrieves a framework control by ID
	Get(ctx context.Context, id int64) (*model.FrameworkControl, error)

	// List retrieves all framework controls
	List(ctx context.Context) ([]*model.FrameworkControl, error)

	// ListByFramework retrieves all controls belonging to one framework
	ListByFramework(ctx context.Context, frameworkID int64) ([]*model.FrameworkControl, error)

	// Update updates an existing framework control
	Update(ctx context.Context, control *model.FrameworkControl) (*model.FrameworkControl, error)

	// Delete deletes a framework control by ID
	Delete(ctx context.Context, id int64) error
}

// FrameworkRepository defines the interface for ControlFramework data access
type FrameworkRepository interface {
	// Create creates a new framework with auto-generated ID
	Create(ctx context.Context, framework *model.ControlFramework) (*model.ControlFramework, error)

	// Get retrieves a framework by ID
	Get(ctx context.Context, id int64) (*model.ControlFramework, error)

	// List retrieves all frameworks
	List(ctx context.Context) ([]*model.ControlFramework, error)

	// Update updates an existing framework
	Update(ctx context.Context, framework *model.ControlFramework) (*model.ControlFramework, error)

	// Delete deletes a framework by ID
	Delete(ctx context.Context, id int64) error

	// SetActive activates the framework with the given ID after deactivating
	// all others (explicit two-step sequence).
	SetActive(ctx context.Context, id int64) error
}
