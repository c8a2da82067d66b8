package repository_test

import (
	"context"
	"testing"

	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
	"github.com/secmon-lab/briareus/pkg/repository/memory"
)

func runBiaRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("GetByAsset returns nil when no assessment exists", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		assessment, err := repo.Bia().GetByAsset(ctx, 12345)
		if err != nil {
			t.Fatalf("failed to get assessment by asset: %v", err)
		}
		if assessment != nil {
			t.Errorf("expected nil assessment, got ID=%d", assessment.ID)
		}
	})

	t.Run("Timeline and derived fields survive a round trip", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		bucket := types.TimeBucket3Days
		created, err := repo.Bia().Create(ctx, &model.BiaAssessment{
			AssetID: 10,
			Timeline: []model.BiaTimelineEntry{
				{Bucket: types.TimeBucket1Day, ImpactLevel: 2},
				{Bucket: types.TimeBucket3Days, ImpactLevel: 5},
			},
			RTOHours:           24,
			RPOHours:           4,
			DerivedCriticality: types.CriticalityHigh,
			TimeToHighBucket:   &bucket,
		})
		if err != nil {
			t.Fatalf("failed to create assessment: %v", err)
		}

		retrieved, err := repo.Bia().GetByAsset(ctx, 10)
		if err != nil {
			t.Fatalf("failed to get assessment by asset: %v", err)
		}
		if retrieved == nil {
			t.Fatal("expected an assessment")
		}
		if retrieved.ID != created.ID {
			t.Errorf("expected ID=%d, got %d", created.ID, retrieved.ID)
		}
		if len(retrieved.Timeline) != 2 {
			t.Fatalf("expected 2 timeline entries, got %d", len(retrieved.Timeline))
		}
		if retrieved.Timeline[1].Bucket != types.TimeBucket3Days || retrieved.Timeline[1].ImpactLevel != 5 {
			t.Errorf("unexpected second timeline entry: %+v", retrieved.Timeline[1])
		}
		if retrieved.DerivedCriticality != types.CriticalityHigh {
			t.Errorf("expected criticality=High, got %s", retrieved.DerivedCriticality)
		}
		if retrieved.TimeToHighBucket == nil {
			t.Fatal("expected non-nil TimeToHighBucket")
		}
		if *retrieved.TimeToHighBucket != types.TimeBucket3Days {
			t.Errorf("expected bucket=3d, got %s", *retrieved.TimeToHighBucket)
		}
	})

	t.Run("Nil TimeToHighBucket survives a round trip", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Bia().Create(ctx, &model.BiaAssessment{
			AssetID: 11,
			Timeline: []model.BiaTimelineEntry{
				{Bucket: types.TimeBucket1Month, ImpactLevel: 1},
			},
			DerivedCriticality: types.CriticalityLow,
		})
		if err != nil {
			t.Fatalf("failed to create assessment: %v", err)
		}

		retrieved, err := repo.Bia().GetByAsset(ctx, 11)
		if err != nil {
			t.Fatalf("failed to get assessment by asset: %v", err)
		}
		if retrieved.TimeToHighBucket != nil {
			t.Errorf("expected nil TimeToHighBucket, got %s", *retrieved.TimeToHighBucket)
		}
	})

	t.Run("Update replaces timeline", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Bia().Create(ctx, &model.BiaAssessment{
			AssetID: 12,
			Timeline: []model.BiaTimelineEntry{
				{Bucket: types.TimeBucket1Day, ImpactLevel: 5},
			},
			DerivedCriticality: types.CriticalityCritical,
		})
		if err != nil {
			t.Fatalf("failed to create assessment: %v", err)
		}

		created.Timeline = []model.BiaTimelineEntry{
			{Bucket: types.TimeBucket1Week, ImpactLevel: 4},
			{Bucket: types.TimeBucket2Weeks, ImpactLevel: 5},
		}
		created.DerivedCriticality = types.CriticalityMedium

		updated, err := repo.Bia().Update(ctx, created)
		if err != nil {
			t.Fatalf("failed to update assessment: %v", err)
		}
		if len(updated.Timeline) != 2 {
			t.Fatalf("expected 2 timeline entries, got %d", len(updated.Timeline))
		}
		if updated.DerivedCriticality != types.CriticalityMedium {
			t.Errorf("expected criticality=Medium, got %s", updated.DerivedCriticality)
		}
	})

	t.Run("Asset round trip with mirrored fields", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Asset().Create(ctx, &model.PrimaryAsset{
			Name:         "Billing API",
			OwnerID:      "U456",
			Criticality:  types.CriticalityCritical,
			RTOHours:     4,
			RPOHours:     1,
			MTDHours:     24,
			BIACompleted: true,
		})
		if err != nil {
			t.Fatalf("failed to create asset: %v", err)
		}

		retrieved, err := repo.Asset().Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to get asset: %v", err)
		}
		if retrieved.Criticality != types.CriticalityCritical {
			t.Errorf("expected criticality=Critical, got %s", retrieved.Criticality)
		}
		if retrieved.MTDHours != 24 {
			t.Errorf("expected MTD=24, got %d", retrieved.MTDHours)
		}
		if !retrieved.BIACompleted {
			t.Error("expected BIACompleted=true")
		}
	})
}

func TestMemoryBiaRepository(t *testing.T) {
	runBiaRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreBiaRepository(t *testing.T) {
	runBiaRepositoryTest(t, newFirestoreRepository)
}
