package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
	"github.com/secmon-lab/briareus/pkg/repository/memory"
	"github.com/secmon-lab/briareus/pkg/usecase"
)

func TestValidateDB_CleanDatabase(t *testing.T) {
	uc := usecase.New(memory.New())
	ctx := context.Background()
	seedDashboard(t, uc)

	result, err := uc.ValidateDB(ctx)
	gt.NoError(t, err).Required()
	gt.B(t, result.HasIssues()).False()
	gt.A(t, result.Issues).Length(0)
}

func TestValidateDB_DetectsDrift(t *testing.T) {
	t.Run("tampered inherent score", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)
		ctx := context.Background()

		risk, err := uc.Risk.Create(ctx, &model.Risk{
			Title:              "Phishing campaign",
			InherentSeverity:   types.SeverityHigh,
			InherentLikelihood: types.LikelihoodLikely,
		})
		gt.NoError(t, err).Required()

		// Corrupt the stored derivation behind the use case's back
		risk.InherentScore = 7
		risk.InherentLevel = types.RiskLevelLow
		_, err = repo.Risk().Update(ctx, risk)
		gt.NoError(t, err).Required()

		result, err := uc.ValidateDB(ctx)
		gt.NoError(t, err).Required()
		gt.B(t, result.HasIssues()).True()
		gt.A(t, result.Issues).Length(2)

		gt.Value(t, result.Issues[0].Collection).Equal("risks")
		gt.Value(t, result.Issues[0].Field).Equal("inherent_score")
		gt.Value(t, result.Issues[0].Expected).Equal("16")
		gt.Value(t, result.Issues[0].Actual).Equal("7")
		gt.Value(t, result.Issues[1].Field).Equal("inherent_level")
	})

	t.Run("tampered control status", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)
		ctx := context.Background()

		control, err := uc.Control.CreateInternal(ctx, &model.InternalControl{Name: "Backups"})
		gt.NoError(t, err).Required()

		_, err = uc.Finding.Create(ctx, &model.ControlFinding{
			InternalControlID: control.ID,
			FindingType:       types.FindingTypeMajorDeviation,
			Status:            types.FindingStatusOpen,
			Title:             "No restore test this year",
		})
		gt.NoError(t, err).Required()

		stored, err := repo.InternalControl().Get(ctx, control.ID)
		gt.NoError(t, err).Required()
		stored.ComplianceStatus = types.ComplianceStatusCompliant
		_, err = repo.InternalControl().Update(ctx, stored)
		gt.NoError(t, err).Required()

		result, err := uc.ValidateDB(ctx)
		gt.NoError(t, err).Required()
		gt.A(t, result.Issues).Length(1)
		gt.Value(t, result.Issues[0].Collection).Equal("internal_controls")
		gt.Value(t, result.Issues[0].Field).Equal("compliance_status")
		gt.Value(t, result.Issues[0].Expected).Equal("major_deviation")
		gt.Value(t, result.Issues[0].Actual).Equal("compliant")
	})

	t.Run("never-assessed control is not drift", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		_, err := uc.Control.CreateInternal(ctx, &model.InternalControl{Name: "Logging"})
		gt.NoError(t, err).Required()

		result, err := uc.ValidateDB(ctx)
		gt.NoError(t, err).Required()
		gt.B(t, result.HasIssues()).False()
	})

	t.Run("tampered assessment bucket", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)
		ctx := context.Background()

		asset, err := uc.Bia.CreateAsset(ctx, &model.PrimaryAsset{Name: "Ledger"})
		gt.NoError(t, err).Required()

		saved, err := uc.Bia.SaveAssessment(ctx, &model.BiaAssessment{
			AssetID: asset.ID,
			Timeline: []model.BiaTimelineEntry{
				{Bucket: types.TimeBucket1Week, ImpactLevel: 5},
			},
		})
		gt.NoError(t, err).Required()

		saved.DerivedCriticality = types.CriticalityCritical
		saved.TimeToHighBucket = nil
		_, err = repo.Bia().Update(ctx, saved)
		gt.NoError(t, err).Required()

		result, err := uc.ValidateDB(ctx)
		gt.NoError(t, err).Required()
		gt.A(t, result.Issues).Length(2)
		gt.Value(t, result.Issues[0].Collection).Equal("bia_assessments")
		gt.Value(t, result.Issues[0].Field).Equal("derived_criticality")
		gt.Value(t, result.Issues[0].Expected).Equal("Medium")
		gt.Value(t, result.Issues[1].Field).Equal("time_to_high_bucket")
		gt.Value(t, result.Issues[1].Expected).Equal("1w")
	})
}
