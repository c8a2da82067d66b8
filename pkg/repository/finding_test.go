package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
	"github.com/secmon-lab/briareus/pkg/repository/memory"
)

func runFindingRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create and Get round trip", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		due := time.Now().UTC().Add(14 * 24 * time.Hour).Truncate(time.Millisecond)
		created, err := repo.Finding().Create(ctx, &model.ControlFinding{
			InternalControlID: 7,
			FindingType:       types.FindingTypeMinorDeviation,
			Status:            types.FindingStatusOpen,
			Title:             "Log retention below policy",
			DueDate:           due,
		})
		if err != nil {
			t.Fatalf("failed to create finding: %v", err)
		}
		if created.ID == 0 {
			t.Error("expected non-zero ID")
		}

		retrieved, err := repo.Finding().Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to get finding: %v", err)
		}
		if retrieved.InternalControlID != 7 {
			t.Errorf("expected internal control ID=7, got %d", retrieved.InternalControlID)
		}
		if retrieved.FindingType != types.FindingTypeMinorDeviation {
			t.Errorf("expected type='Minor Deviation', got %s", retrieved.FindingType)
		}
		if retrieved.Status != types.FindingStatusOpen {
			t.Errorf("expected status='Open', got %s", retrieved.Status)
		}
		if !retrieved.DueDate.Equal(due) {
			t.Errorf("expected due date=%v, got %v", due, retrieved.DueDate)
		}
	})

	t.Run("ListByControl filters by kind and control, newest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		first, err := repo.Finding().Create(ctx, &model.ControlFinding{
			InternalControlID: 1,
			FindingType:       types.FindingTypeMinorDeviation,
			Status:            types.FindingStatusOpen,
			Title:             "First",
		})
		if err != nil {
			t.Fatalf("failed to create first finding: %v", err)
		}

		time.Sleep(10 * time.Millisecond)

		second, err := repo.Finding().Create(ctx, &model.ControlFinding{
			InternalControlID: 1,
			FindingType:       types.FindingTypeMajorDeviation,
			Status:            types.FindingStatusOpen,
			Title:             "Second",
		})
		if err != nil {
			t.Fatalf("failed to create second finding: %v", err)
		}

		// Same numeric ID on the other control kind must not match
		_, err = repo.Finding().Create(ctx, &model.ControlFinding{
			FrameworkControlID: 1,
			FindingType:        types.FindingTypeOFI,
			Status:             types.FindingStatusOpen,
			Title:              "Framework finding",
		})
		if err != nil {
			t.Fatalf("failed to create framework finding: %v", err)
		}

		findings, err := repo.Finding().ListByControl(ctx, types.ControlKindInternal, 1)
		if err != nil {
			t.Fatalf("failed to list findings: %v", err)
		}
		if len(findings) != 2 {
			t.Fatalf("expected 2 findings, got %d", len(findings))
		}
		if findings[0].ID != second.ID {
			t.Errorf("expected newest finding first, got ID=%d", findings[0].ID)
		}
		if findings[1].ID != first.ID {
			t.Errorf("expected oldest finding last, got ID=%d", findings[1].ID)
		}
	})

	t.Run("ListByControl returns empty for unknown control", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		findings, err := repo.Finding().ListByControl(ctx, types.ControlKindInternal, 99999)
		if err != nil {
			t.Fatalf("failed to list findings: %v", err)
		}
		if len(findings) != 0 {
			t.Errorf("expected 0 findings, got %d", len(findings))
		}
	})

	t.Run("Update modifies status", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Finding().Create(ctx, &model.ControlFinding{
			InternalControlID: 3,
			FindingType:       types.FindingTypeMajorDeviation,
			Status:            types.FindingStatusOpen,
			Title:             "Expired certificates",
		})
		if err != nil {
			t.Fatalf("failed to create finding: %v", err)
		}

		created.Status = types.FindingStatusClosed
		updated, err := repo.Finding().Update(ctx, created)
		if err != nil {
			t.Fatalf("failed to update finding: %v", err)
		}
		if updated.Status != types.FindingStatusClosed {
			t.Errorf("expected status='Closed', got %s", updated.Status)
		}
	})

	t.Run("Delete removes finding", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Finding().Create(ctx, &model.ControlFinding{
			InternalControlID: 5,
			FindingType:       types.FindingTypeOFI,
			Status:            types.FindingStatusOpen,
			Title:             "Consider automating review",
		})
		if err != nil {
			t.Fatalf("failed to create finding: %v", err)
		}

		if err := repo.Finding().Delete(ctx, created.ID); err != nil {
			t.Fatalf("failed to delete finding: %v", err)
		}

		_, err = repo.Finding().Get(ctx, created.ID)
		if err == nil {
			t.Error("expected error when getting deleted finding")
		}
		if !isNotFound(err) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestMemoryFindingRepository(t *testing.T) {
	runFindingRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreFindingRepository(t *testing.T) {
	runFindingRepositoryTest(t, newFirestoreRepository)
}
