package interfaces

import (
	"context"

	"github.com/secmon-lab/briareus/pkg/domain/model"
)

// SnapshotRepository defines the interface for DashboardSnapshot persistence.
// Snapshots are immutable: there is no update.
type SnapshotRepository interface {
	// Put stores a snapshot
	Put(ctx context.Context, snapshot *model.DashboardSnapshot) error

	// Latest retrieves the most recent snapshot.
	// Returns nil, nil when no snapshot exists.
	Latest(ctx context.Context) (*model.DashboardSnapshot, error)

	// List retrieves snapshots ordered by TakenAt descending, newest first
	List(ctx context.Context, limit int) ([]*model.DashboardSnapshot, error)
}
