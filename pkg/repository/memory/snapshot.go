package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/secmon-lab/briareus/pkg/domain/model"
)

type snapshotRepository struct {
	mu        sync.RWMutex
	snapshots []*model.DashboardSnapshot
}

func newSnapshotRepository() *snapshotRepository {
	return &snapshotRepository{}
}

func copySnapshot(s *model.DashboardSnapshot) *model.DashboardSnapshot {
	copied := *s
	copied.Degraded = append([]string(nil), s.Degraded...)
	copied.Frameworks = append([]model.FrameworkCompliance(nil), s.Frameworks...)
	return &copied
}

func (r *snapshotRepository) Put(ctx context.Context, snapshot *model.DashboardSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.snapshots = append(r.snapshots, copySnapshot(snapshot))
	return nil
}

func (r *snapshotRepository) Latest(ctx context.Context) (*model.DashboardSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.snapshots) == 0 {
		return nil, nil
	}

	latest := r.snapshots[0]
	for _, s := range r.snapshots[1:] {
		if s.TakenAt.After(latest.TakenAt) {
			latest = s
		}
	}
	return copySnapshot(latest), nil
}

func (r *snapshotRepository) List(ctx context.Context, limit int) ([]*model.DashboardSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.DashboardSnapshot, 0, len(r.snapshots))
	for _, s := range r.snapshots {
		result = append(result, copySnapshot(s))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TakenAt.After(result[j].TakenAt)
	})

	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}
