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

func runTreatmentRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create and Get round trip", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Treatment().Create(ctx, &model.Treatment{
			RiskID:             42,
			Title:              "Deploy MFA",
			Strategy:           "mitigate",
			Status:             types.TreatmentStatusPlanned,
			ResidualSeverity:   types.SeverityLow,
			ResidualLikelihood: types.LikelihoodRare,
			ControlLinks: []model.ControlRef{
				{Kind: types.ControlKindInternal, ID: 3},
			},
		})
		if err != nil {
			t.Fatalf("failed to create treatment: %v", err)
		}
		if created.ID == 0 {
			t.Error("expected non-zero ID")
		}

		retrieved, err := repo.Treatment().Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to get treatment: %v", err)
		}
		if retrieved.RiskID != 42 {
			t.Errorf("expected risk ID=42, got %d", retrieved.RiskID)
		}
		if retrieved.Status != types.TreatmentStatusPlanned {
			t.Errorf("expected status=planned, got %s", retrieved.Status)
		}
		if retrieved.ResidualSeverity != types.SeverityLow {
			t.Errorf("expected residual severity=low, got %s", retrieved.ResidualSeverity)
		}
		if len(retrieved.ControlLinks) != 1 {
			t.Fatalf("expected 1 control link, got %d", len(retrieved.ControlLinks))
		}
		if retrieved.ControlLinks[0].Kind != types.ControlKindInternal || retrieved.ControlLinks[0].ID != 3 {
			t.Errorf("unexpected control link: %+v", retrieved.ControlLinks[0])
		}
	})

	t.Run("ListByRisk filters by risk, newest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		first, err := repo.Treatment().Create(ctx, &model.Treatment{
			RiskID: 1,
			Title:  "First",
			Status: types.TreatmentStatusPlanned,
		})
		if err != nil {
			t.Fatalf("failed to create first treatment: %v", err)
		}

		time.Sleep(10 * time.Millisecond)

		second, err := repo.Treatment().Create(ctx, &model.Treatment{
			RiskID: 1,
			Title:  "Second",
			Status: types.TreatmentStatusPlanned,
		})
		if err != nil {
			t.Fatalf("failed to create second treatment: %v", err)
		}

		_, err = repo.Treatment().Create(ctx, &model.Treatment{
			RiskID: 2,
			Title:  "Other risk",
			Status: types.TreatmentStatusPlanned,
		})
		if err != nil {
			t.Fatalf("failed to create other treatment: %v", err)
		}

		treatments, err := repo.Treatment().ListByRisk(ctx, 1)
		if err != nil {
			t.Fatalf("failed to list treatments: %v", err)
		}
		if len(treatments) != 2 {
			t.Fatalf("expected 2 treatments, got %d", len(treatments))
		}
		if treatments[0].ID != second.ID {
			t.Errorf("expected newest treatment first, got ID=%d", treatments[0].ID)
		}
		if treatments[1].ID != first.ID {
			t.Errorf("expected oldest treatment last, got ID=%d", treatments[1].ID)
		}
	})

	t.Run("ListByRisk returns empty for unknown risk", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		treatments, err := repo.Treatment().ListByRisk(ctx, 99999)
		if err != nil {
			t.Fatalf("failed to list treatments: %v", err)
		}
		if len(treatments) != 0 {
			t.Errorf("expected 0 treatments, got %d", len(treatments))
		}
	})

	t.Run("Update persists status transition and completion time", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Treatment().Create(ctx, &model.Treatment{
			RiskID: 7,
			Title:  "Segment the network",
			Status: types.TreatmentStatusInProgress,
		})
		if err != nil {
			t.Fatalf("failed to create treatment: %v", err)
		}

		completedAt := time.Now().UTC().Truncate(time.Millisecond)
		created.Status = types.TreatmentStatusCompleted
		created.CompletedAt = completedAt

		updated, err := repo.Treatment().Update(ctx, created)
		if err != nil {
			t.Fatalf("failed to update treatment: %v", err)
		}
		if updated.Status != types.TreatmentStatusCompleted {
			t.Errorf("expected status=completed, got %s", updated.Status)
		}
		if !updated.CompletedAt.Equal(completedAt) {
			t.Errorf("expected completedAt=%v, got %v", completedAt, updated.CompletedAt)
		}
	})

	t.Run("Delete removes treatment", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Treatment().Create(ctx, &model.Treatment{
			RiskID: 9,
			Title:  "Short-lived",
			Status: types.TreatmentStatusPlanned,
		})
		if err != nil {
			t.Fatalf("failed to create treatment: %v", err)
		}

		if err := repo.Treatment().Delete(ctx, created.ID); err != nil {
			t.Fatalf("failed to delete treatment: %v", err)
		}

		_, err = repo.Treatment().Get(ctx, created.ID)
		if err == nil {
			t.Error("expected error when getting deleted treatment")
		}
		if !isNotFound(err) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestMemoryTreatmentRepository(t *testing.T) {
	runTreatmentRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreTreatmentRepository(t *testing.T) {
	runTreatmentRepositoryTest(t, newFirestoreRepository)
}
