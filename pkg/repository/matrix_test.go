package repository_test

import (
	"context"
	"testing"

	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/repository/memory"
)

func runMatrixRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	scale := []model.MatrixLevel{
		{Level: 1, Label: "Low"},
		{Level: 2, Label: "Medium"},
		{Level: 3, Label: "High"},
	}

	t.Run("GetActive returns nil when no matrix is active", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		active, err := repo.Matrix().GetActive(ctx)
		if err != nil {
			t.Fatalf("failed to get active matrix: %v", err)
		}
		if active != nil {
			t.Errorf("expected nil active matrix, got ID=%d", active.ID)
		}

		_, err = repo.Matrix().Create(ctx, &model.RiskMatrix{
			Name:       "Inactive",
			Likelihood: scale,
			Impact:     scale,
		})
		if err != nil {
			t.Fatalf("failed to create matrix: %v", err)
		}

		active, err = repo.Matrix().GetActive(ctx)
		if err != nil {
			t.Fatalf("failed to get active matrix: %v", err)
		}
		if active != nil {
			t.Error("creating a matrix must not activate it")
		}
	})

	t.Run("SetActive deactivates the previous matrix", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		first, err := repo.Matrix().Create(ctx, &model.RiskMatrix{
			Name:       "FY25",
			Likelihood: scale,
			Impact:     scale,
		})
		if err != nil {
			t.Fatalf("failed to create first matrix: %v", err)
		}
		second, err := repo.Matrix().Create(ctx, &model.RiskMatrix{
			Name:       "FY26",
			Likelihood: scale,
			Impact:     scale,
		})
		if err != nil {
			t.Fatalf("failed to create second matrix: %v", err)
		}

		if err := repo.Matrix().SetActive(ctx, first.ID); err != nil {
			t.Fatalf("failed to activate first matrix: %v", err)
		}
		if err := repo.Matrix().SetActive(ctx, second.ID); err != nil {
			t.Fatalf("failed to activate second matrix: %v", err)
		}

		active, err := repo.Matrix().GetActive(ctx)
		if err != nil {
			t.Fatalf("failed to get active matrix: %v", err)
		}
		if active == nil {
			t.Fatal("expected an active matrix")
		}
		if active.ID != second.ID {
			t.Errorf("expected active ID=%d, got %d", second.ID, active.ID)
		}

		stored, err := repo.Matrix().Get(ctx, first.ID)
		if err != nil {
			t.Fatalf("failed to get first matrix: %v", err)
		}
		if stored.Active {
			t.Error("first matrix should have been deactivated")
		}
	})

	t.Run("SetActive returns error for non-existent matrix", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		err := repo.Matrix().SetActive(ctx, 99999)
		if err == nil {
			t.Error("expected error for non-existent matrix")
		}
		if !isNotFound(err) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Scales survive a round trip", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Matrix().Create(ctx, &model.RiskMatrix{
			Name:       "Detailed",
			Likelihood: scale,
			Impact:     scale,
		})
		if err != nil {
			t.Fatalf("failed to create matrix: %v", err)
		}

		retrieved, err := repo.Matrix().Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to get matrix: %v", err)
		}
		if len(retrieved.Likelihood) != 3 {
			t.Fatalf("expected 3 likelihood levels, got %d", len(retrieved.Likelihood))
		}
		if retrieved.Likelihood[2].Level != 3 || retrieved.Likelihood[2].Label != "High" {
			t.Errorf("unexpected third level: %+v", retrieved.Likelihood[2])
		}
	})
}

func runAppetiteRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	bands := []model.AppetiteBand{
		{Label: "Acceptable", MinScore: 1, MaxScore: 8, AuthorizedActions: []string{"monitor"}},
		{Label: "Escalate", MinScore: 9, MaxScore: 25, AuthorizedActions: []string{"treat", "escalate"}},
	}

	t.Run("GetActive returns nil when no appetite is active", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		active, err := repo.Appetite().GetActive(ctx)
		if err != nil {
			t.Fatalf("failed to get active appetite: %v", err)
		}
		if active != nil {
			t.Errorf("expected nil active appetite, got ID=%d", active.ID)
		}
	})

	t.Run("SetActive deactivates the previous appetite", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		first, err := repo.Appetite().Create(ctx, &model.RiskAppetite{Name: "Conservative", Bands: bands})
		if err != nil {
			t.Fatalf("failed to create first appetite: %v", err)
		}
		second, err := repo.Appetite().Create(ctx, &model.RiskAppetite{Name: "Aggressive", Bands: bands})
		if err != nil {
			t.Fatalf("failed to create second appetite: %v", err)
		}

		if err := repo.Appetite().SetActive(ctx, first.ID); err != nil {
			t.Fatalf("failed to activate first appetite: %v", err)
		}
		if err := repo.Appetite().SetActive(ctx, second.ID); err != nil {
			t.Fatalf("failed to activate second appetite: %v", err)
		}

		active, err := repo.Appetite().GetActive(ctx)
		if err != nil {
			t.Fatalf("failed to get active appetite: %v", err)
		}
		if active == nil {
			t.Fatal("expected an active appetite")
		}
		if active.ID != second.ID {
			t.Errorf("expected active ID=%d, got %d", second.ID, active.ID)
		}

		stored, err := repo.Appetite().Get(ctx, first.ID)
		if err != nil {
			t.Fatalf("failed to get first appetite: %v", err)
		}
		if stored.Active {
			t.Error("first appetite should have been deactivated")
		}
	})

	t.Run("Bands survive a round trip", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Appetite().Create(ctx, &model.RiskAppetite{Name: "Default", Bands: bands})
		if err != nil {
			t.Fatalf("failed to create appetite: %v", err)
		}

		retrieved, err := repo.Appetite().Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to get appetite: %v", err)
		}
		if len(retrieved.Bands) != 2 {
			t.Fatalf("expected 2 bands, got %d", len(retrieved.Bands))
		}
		if retrieved.Bands[1].Label != "Escalate" {
			t.Errorf("expected second band label='Escalate', got %s", retrieved.Bands[1].Label)
		}
		if retrieved.Bands[1].MinScore != 9 || retrieved.Bands[1].MaxScore != 25 {
			t.Errorf("unexpected second band range: %d-%d", retrieved.Bands[1].MinScore, retrieved.Bands[1].MaxScore)
		}
		if len(retrieved.Bands[1].AuthorizedActions) != 2 {
			t.Errorf("expected 2 authorized actions, got %d", len(retrieved.Bands[1].AuthorizedActions))
		}
	})
}

func TestMemoryMatrixRepository(t *testing.T) {
	runMatrixRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreMatrixRepository(t *testing.T) {
	runMatrixRepositoryTest(t, newFirestoreRepository)
}

func TestMemoryAppetiteRepository(t *testing.T) {
	runAppetiteRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreAppetiteRepository(t *testing.T) {
	runAppetiteRepositoryTest(t, newFirestoreRepository)
}
