package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
	"github.com/secmon-lab/briareus/pkg/repository/firestore"
	"github.com/secmon-lab/briareus/pkg/repository/memory"
)

func isNotFound(err error) bool {
	return errors.Is(err, memory.ErrNotFound) || errors.Is(err, firestore.ErrNotFound)
}

func runRiskRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create creates risk with auto-increment ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created1, err := repo.Risk().Create(ctx, &model.Risk{
			Title:              "SQL injection in reporting API",
			InherentSeverity:   types.SeverityHigh,
			InherentLikelihood: types.LikelihoodPossible,
		})
		if err != nil {
			t.Fatalf("failed to create risk1: %v", err)
		}

		if created1.ID != 1 {
			t.Errorf("expected ID=1, got %d", created1.ID)
		}
		if created1.Title != "SQL injection in reporting API" {
			t.Errorf("unexpected title: %s", created1.Title)
		}
		if created1.CreatedAt.IsZero() {
			t.Error("expected non-zero CreatedAt")
		}
		if created1.UpdatedAt.IsZero() {
			t.Error("expected non-zero UpdatedAt")
		}

		created2, err := repo.Risk().Create(ctx, &model.Risk{
			Title:              "Credential stuffing",
			InherentSeverity:   types.SeverityMedium,
			InherentLikelihood: types.LikelihoodLikely,
		})
		if err != nil {
			t.Fatalf("failed to create risk2: %v", err)
		}

		if created2.ID != 2 {
			t.Errorf("expected ID=2, got %d", created2.ID)
		}
	})

	t.Run("Get retrieves existing risk", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Risk().Create(ctx, &model.Risk{
			Title:              "Unpatched edge devices",
			Description:        "VPN appliances behind on firmware",
			InherentSeverity:   types.SeverityCritical,
			InherentLikelihood: types.LikelihoodUnlikely,
			InherentScore:      10,
			InherentLevel:      types.RiskLevelMedium,
			Status:             types.RiskStatusActive,
		})
		if err != nil {
			t.Fatalf("failed to create risk: %v", err)
		}

		retrieved, err := repo.Risk().Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to get risk: %v", err)
		}

		if retrieved.ID != created.ID {
			t.Errorf("expected ID=%d, got %d", created.ID, retrieved.ID)
		}
		if retrieved.Title != created.Title {
			t.Errorf("expected title=%s, got %s", created.Title, retrieved.Title)
		}
		if retrieved.InherentSeverity != types.SeverityCritical {
			t.Errorf("expected severity=critical, got %s", retrieved.InherentSeverity)
		}
		if retrieved.InherentScore != 10 {
			t.Errorf("expected score=10, got %d", retrieved.InherentScore)
		}
		if retrieved.Status != types.RiskStatusActive {
			t.Errorf("expected status=active, got %s", retrieved.Status)
		}
		if !retrieved.CreatedAt.Equal(created.CreatedAt) {
			t.Errorf("expected createdAt=%v, got %v", created.CreatedAt, retrieved.CreatedAt)
		}
	})

	t.Run("Get returns error for non-existent risk", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Risk().Get(ctx, 99999)
		if err == nil {
			t.Error("expected error for non-existent risk")
		}
		if !isNotFound(err) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("List returns all risks", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		risks, err := repo.Risk().List(ctx)
		if err != nil {
			t.Fatalf("failed to list risks: %v", err)
		}
		if len(risks) != 0 {
			t.Errorf("expected 0 risks, got %d", len(risks))
		}

		risk1, err := repo.Risk().Create(ctx, &model.Risk{Title: "Risk 1"})
		if err != nil {
			t.Fatalf("failed to create risk1: %v", err)
		}
		risk2, err := repo.Risk().Create(ctx, &model.Risk{Title: "Risk 2"})
		if err != nil {
			t.Fatalf("failed to create risk2: %v", err)
		}

		risks, err = repo.Risk().List(ctx)
		if err != nil {
			t.Fatalf("failed to list risks: %v", err)
		}
		if len(risks) != 2 {
			t.Errorf("expected 2 risks, got %d", len(risks))
		}

		foundRisk1 := false
		foundRisk2 := false
		for _, r := range risks {
			if r.ID == risk1.ID && r.Title == risk1.Title {
				foundRisk1 = true
			}
			if r.ID == risk2.ID && r.Title == risk2.Title {
				foundRisk2 = true
			}
		}
		if !foundRisk1 {
			t.Error("risk1 not found in list")
		}
		if !foundRisk2 {
			t.Error("risk2 not found in list")
		}
	})

	t.Run("Update modifies existing risk", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Risk().Create(ctx, &model.Risk{
			Title:       "Original Title",
			Description: "Original Description",
		})
		if err != nil {
			t.Fatalf("failed to create risk: %v", err)
		}

		// Wait a bit to ensure UpdatedAt will be different
		time.Sleep(10 * time.Millisecond)

		updated, err := repo.Risk().Update(ctx, &model.Risk{
			ID:          created.ID,
			Title:       "Updated Title",
			Description: "Updated Description",
		})
		if err != nil {
			t.Fatalf("failed to update risk: %v", err)
		}

		if updated.ID != created.ID {
			t.Errorf("ID should not change, got %d", updated.ID)
		}
		if updated.Title != "Updated Title" {
			t.Errorf("expected title='Updated Title', got %s", updated.Title)
		}
		if !updated.CreatedAt.Equal(created.CreatedAt) {
			t.Errorf("CreatedAt should not change, got %v", updated.CreatedAt)
		}
		if !updated.UpdatedAt.After(created.UpdatedAt) {
			t.Errorf("UpdatedAt should be after original, got %v", updated.UpdatedAt)
		}

		retrieved, err := repo.Risk().Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to get updated risk: %v", err)
		}
		if retrieved.Title != "Updated Title" {
			t.Errorf("expected title='Updated Title' after retrieval, got %s", retrieved.Title)
		}
	})

	t.Run("Update returns error for non-existent risk", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Risk().Update(ctx, &model.Risk{
			ID:    99999,
			Title: "Non-existent",
		})
		if err == nil {
			t.Error("expected error for non-existent risk")
		}
		if !isNotFound(err) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Delete removes existing risk", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Risk().Create(ctx, &model.Risk{Title: "To Be Deleted"})
		if err != nil {
			t.Fatalf("failed to create risk: %v", err)
		}

		if err := repo.Risk().Delete(ctx, created.ID); err != nil {
			t.Fatalf("failed to delete risk: %v", err)
		}

		_, err = repo.Risk().Get(ctx, created.ID)
		if err == nil {
			t.Error("expected error when getting deleted risk")
		}
		if !isNotFound(err) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Delete returns error for non-existent risk", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		err := repo.Risk().Delete(ctx, 99999)
		if err == nil {
			t.Error("expected error for non-existent risk")
		}
		if !isNotFound(err) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Residual fields are persisted and retrieved", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		now := time.Now().UTC().Truncate(time.Millisecond)
		created, err := repo.Risk().Create(ctx, &model.Risk{
			Title:              "Treated risk",
			InherentSeverity:   types.SeverityCritical,
			InherentLikelihood: types.LikelihoodLikely,
			InherentScore:      20,
			InherentLevel:      types.RiskLevelCritical,
			NetSeverity:        types.SeverityLow,
			NetLikelihood:      types.LikelihoodUnlikely,
			ResidualScore:      4,
			ResidualRating:     types.RiskLevelLow,
			ResidualLikelihood: types.LikelihoodUnlikely,
			ResidualUpdatedAt:  now,
			Status:             types.RiskStatusTreated,
		})
		if err != nil {
			t.Fatalf("failed to create risk: %v", err)
		}

		retrieved, err := repo.Risk().Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to get risk: %v", err)
		}

		if retrieved.NetSeverity != types.SeverityLow {
			t.Errorf("expected net severity=low, got %s", retrieved.NetSeverity)
		}
		if retrieved.NetLikelihood != types.LikelihoodUnlikely {
			t.Errorf("expected net likelihood=unlikely, got %s", retrieved.NetLikelihood)
		}
		if retrieved.ResidualScore != 4 {
			t.Errorf("expected residual score=4, got %d", retrieved.ResidualScore)
		}
		if retrieved.ResidualRating != types.RiskLevelLow {
			t.Errorf("expected residual rating=low, got %s", retrieved.ResidualRating)
		}
		if !retrieved.HasResidual() {
			t.Error("expected HasResidual to be true")
		}
		if retrieved.CurrentScore() != 4 {
			t.Errorf("expected current score=4, got %d", retrieved.CurrentScore())
		}
	})
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	ctx := context.Background()
	prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())
	repo, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	if err != nil {
		t.Fatalf("failed to create firestore repository: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("failed to close firestore repository: %v", err)
		}
	})
	return repo
}

func TestMemoryRiskRepository(t *testing.T) {
	runRiskRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreRiskRepository(t *testing.T) {
	runRiskRepositoryTest(t, newFirestoreRepository)
}
