package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/repository/memory"
)

func runSnapshotRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Latest returns nil when no snapshot exists", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		latest, err := repo.Snapshot().Latest(ctx)
		if err != nil {
			t.Fatalf("failed to get latest snapshot: %v", err)
		}
		if latest != nil {
			t.Errorf("expected nil snapshot, got ID=%s", latest.ID)
		}
	})

	t.Run("Latest returns the most recent snapshot", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		base := time.Now().UTC().Truncate(time.Millisecond)
		for i := 0; i < 3; i++ {
			err := repo.Snapshot().Put(ctx, &model.DashboardSnapshot{
				ID:      fmt.Sprintf("snap-%d", i),
				TakenAt: base.Add(time.Duration(i) * time.Minute),
				Risks:   model.RiskSummary{Total: i},
			})
			if err != nil {
				t.Fatalf("failed to put snapshot %d: %v", i, err)
			}
		}

		latest, err := repo.Snapshot().Latest(ctx)
		if err != nil {
			t.Fatalf("failed to get latest snapshot: %v", err)
		}
		if latest == nil {
			t.Fatal("expected a snapshot")
		}
		if latest.ID != "snap-2" {
			t.Errorf("expected ID=snap-2, got %s", latest.ID)
		}
		if latest.Risks.Total != 2 {
			t.Errorf("expected risks total=2, got %d", latest.Risks.Total)
		}
	})

	t.Run("List returns newest first and respects limit", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		base := time.Now().UTC().Truncate(time.Millisecond)
		for i := 0; i < 5; i++ {
			err := repo.Snapshot().Put(ctx, &model.DashboardSnapshot{
				ID:      fmt.Sprintf("snap-%d", i),
				TakenAt: base.Add(time.Duration(i) * time.Minute),
			})
			if err != nil {
				t.Fatalf("failed to put snapshot %d: %v", i, err)
			}
		}

		snapshots, err := repo.Snapshot().List(ctx, 3)
		if err != nil {
			t.Fatalf("failed to list snapshots: %v", err)
		}
		if len(snapshots) != 3 {
			t.Fatalf("expected 3 snapshots, got %d", len(snapshots))
		}
		if snapshots[0].ID != "snap-4" {
			t.Errorf("expected first ID=snap-4, got %s", snapshots[0].ID)
		}
		if snapshots[2].ID != "snap-2" {
			t.Errorf("expected last ID=snap-2, got %s", snapshots[2].ID)
		}
	})

	t.Run("List with zero limit returns everything", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		base := time.Now().UTC().Truncate(time.Millisecond)
		for i := 0; i < 2; i++ {
			err := repo.Snapshot().Put(ctx, &model.DashboardSnapshot{
				ID:      fmt.Sprintf("snap-%d", i),
				TakenAt: base.Add(time.Duration(i) * time.Minute),
			})
			if err != nil {
				t.Fatalf("failed to put snapshot %d: %v", i, err)
			}
		}

		snapshots, err := repo.Snapshot().List(ctx, 0)
		if err != nil {
			t.Fatalf("failed to list snapshots: %v", err)
		}
		if len(snapshots) != 2 {
			t.Errorf("expected 2 snapshots, got %d", len(snapshots))
		}
	})

	t.Run("Degraded sections are preserved", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		err := repo.Snapshot().Put(ctx, &model.DashboardSnapshot{
			ID:       "degraded-snap",
			TakenAt:  time.Now().UTC(),
			Degraded: []string{"vendors", "evidence"},
		})
		if err != nil {
			t.Fatalf("failed to put snapshot: %v", err)
		}

		latest, err := repo.Snapshot().Latest(ctx)
		if err != nil {
			t.Fatalf("failed to get latest snapshot: %v", err)
		}
		if len(latest.Degraded) != 2 {
			t.Fatalf("expected 2 degraded sections, got %d", len(latest.Degraded))
		}
		if latest.Degraded[0] != "vendors" {
			t.Errorf("expected first degraded section 'vendors', got %s", latest.Degraded[0])
		}
	})
}

func TestMemorySnapshotRepository(t *testing.T) {
	runSnapshotRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreSnapshotRepository(t *testing.T) {
	runSnapshotRepositoryTest(t, newFirestoreRepository)
}
