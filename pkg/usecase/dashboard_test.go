package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
	"github.com/secmon-lab/briareus/pkg/repository/memory"
	"github.com/secmon-lab/briareus/pkg/usecase"
)

func seedDashboard(t *testing.T, uc *usecase.UseCases) {
	t.Helper()
	ctx := context.Background()

	_, err := uc.Appetite.Create(ctx, &model.RiskAppetite{
		Name: "Default",
		Bands: []model.AppetiteBand{
			{Label: "Acceptable", MinScore: 1, MaxScore: 12},
		},
	})
	gt.NoError(t, err).Required()
	appetites, err := uc.Appetite.List(ctx)
	gt.NoError(t, err).Required()
	gt.NoError(t, uc.Appetite.SetActive(ctx, appetites[0].ID)).Required()

	// Score 25: outside every band
	_, err = uc.Risk.Create(ctx, &model.Risk{
		Title:              "Region outage",
		InherentSeverity:   types.SeverityCritical,
		InherentLikelihood: types.LikelihoodAlmostCertain,
	})
	gt.NoError(t, err).Required()

	// Score 2: acceptable
	_, err = uc.Risk.Create(ctx, &model.Risk{
		Title:              "Stale docs",
		InherentSeverity:   types.SeverityLow,
		InherentLikelihood: types.LikelihoodRare,
	})
	gt.NoError(t, err).Required()

	control, err := uc.Control.CreateInternal(ctx, &model.InternalControl{Name: "Access reviews"})
	gt.NoError(t, err).Required()

	_, err = uc.Finding.Create(ctx, &model.ControlFinding{
		InternalControlID: control.ID,
		FindingType:       types.FindingTypeMinorDeviation,
		Status:            types.FindingStatusOpen,
		Title:             "Two reviews skipped",
		DueDate:           time.Now().UTC().Add(-24 * time.Hour),
	})
	gt.NoError(t, err).Required()

	framework, err := uc.Control.CreateFramework(ctx, &model.ControlFramework{Name: "ISO 27001", Version: "2022"})
	gt.NoError(t, err).Required()
	_, err = uc.Control.CreateFrameworkControl(ctx, &model.FrameworkControl{
		FrameworkID: framework.ID,
		Code:        "A.5.1",
		Name:        "Policies for information security",
		Implemented: true,
	})
	gt.NoError(t, err).Required()
	_, err = uc.Control.CreateFrameworkControl(ctx, &model.FrameworkControl{
		FrameworkID: framework.ID,
		Code:        "A.5.2",
		Name:        "Information security roles",
	})
	gt.NoError(t, err).Required()

	asset, err := uc.Bia.CreateAsset(ctx, &model.PrimaryAsset{Name: "Billing API"})
	gt.NoError(t, err).Required()
	_, err = uc.Bia.SaveAssessment(ctx, &model.BiaAssessment{
		AssetID: asset.ID,
		Timeline: []model.BiaTimelineEntry{
			{Bucket: types.TimeBucket1Day, ImpactLevel: 5},
		},
	})
	gt.NoError(t, err).Required()
	_, err = uc.Bia.CreateAsset(ctx, &model.PrimaryAsset{Name: "Wiki"})
	gt.NoError(t, err).Required()

	_, err = uc.Record.CreatePolicy(ctx, &model.Policy{
		Name:       "Acceptable Use",
		Status:     types.PolicyStatusApproved,
		ReviewDate: time.Now().UTC().Add(-48 * time.Hour),
	})
	gt.NoError(t, err).Required()

	_, err = uc.Record.CreateVendor(ctx, &model.Vendor{
		Name:       "Cloud Host",
		RiskRating: types.RiskLevelMedium,
	})
	gt.NoError(t, err).Required()

	_, err = uc.Record.CreateEvidence(ctx, &model.Evidence{
		Name:        "Q2 review export",
		ControlKind: types.ControlKindInternal,
		ControlID:   control.ID,
		ExpiresAt:   time.Now().UTC().Add(-time.Hour),
	})
	gt.NoError(t, err).Required()
}

func TestDashboardUseCase_Build(t *testing.T) {
	uc := usecase.New(memory.New())
	ctx := context.Background()
	seedDashboard(t, uc)

	snapshot, err := uc.Dashboard.Build(ctx)
	gt.NoError(t, err).Required()
	gt.A(t, snapshot.Degraded).Length(0)

	gt.Number(t, snapshot.Risks.Total).Equal(2)
	gt.Number(t, snapshot.Risks.ByLevel["critical"]).Equal(1)
	gt.Number(t, snapshot.Risks.ByLevel["low"]).Equal(1)
	gt.A(t, snapshot.Risks.AppetiteViolations).Length(1)

	gt.Number(t, snapshot.InternalControls.Total).Equal(1)
	gt.Number(t, snapshot.InternalControls.ByStatus["minor_deviation"]).Equal(1)
	gt.Number(t, snapshot.InternalControls.Usable).Equal(1)

	gt.Number(t, snapshot.FrameworkControls.Total).Equal(2)

	gt.A(t, snapshot.Frameworks).Length(1)
	gt.Number(t, snapshot.Frameworks[0].Total).Equal(2)
	gt.Number(t, snapshot.Frameworks[0].Implemented).Equal(1)
	gt.Number(t, snapshot.Frameworks[0].Percent).Equal(50)

	gt.Number(t, snapshot.Findings.Total).Equal(1)
	gt.Number(t, snapshot.Findings.Active).Equal(1)
	gt.Number(t, snapshot.Findings.Overdue).Equal(1)

	gt.Number(t, snapshot.Assets.Total).Equal(2)
	gt.Number(t, snapshot.Assets.BIACompleted).Equal(1)
	gt.Number(t, snapshot.Assets.ByCriticality["Critical"]).Equal(1)

	gt.Number(t, snapshot.Policies.Total).Equal(1)
	gt.Number(t, snapshot.Policies.OverdueReview).Equal(1)

	gt.Number(t, snapshot.Vendors.Total).Equal(1)
	gt.Number(t, snapshot.Vendors.ByRating["medium"]).Equal(1)

	gt.Number(t, snapshot.Evidence.Total).Equal(1)
	gt.Number(t, snapshot.Evidence.Expired).Equal(1)
}

func TestDashboardUseCase_SnapshotHistory(t *testing.T) {
	uc := usecase.New(memory.New())
	ctx := context.Background()
	seedDashboard(t, uc)

	latest, err := uc.Dashboard.Latest(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, latest).Nil()

	first, err := uc.Dashboard.Snapshot(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, first.ID).NotEqual("")

	second, err := uc.Dashboard.Snapshot(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, second.ID).NotEqual(first.ID)

	latest, err = uc.Dashboard.Latest(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, latest).NotNil()
	gt.Value(t, latest.ID).Equal(second.ID)

	history, err := uc.Dashboard.History(ctx, 1)
	gt.NoError(t, err).Required()
	gt.A(t, history).Length(1)
	gt.Value(t, history[0].ID).Equal(second.ID)
}

type failingPolicyRepo struct {
	interfaces.PolicyRepository
}

func (r *failingPolicyRepo) List(ctx context.Context) ([]*model.Policy, error) {
	return nil, errors.New("backend unavailable")
}

type degradedRepo struct {
	interfaces.Repository
}

func (r *degradedRepo) Policy() interfaces.PolicyRepository {
	return &failingPolicyRepo{}
}

func TestDashboardUseCase_Build_DegradesFailedSection(t *testing.T) {
	uc := usecase.New(&degradedRepo{Repository: memory.New()})
	ctx := context.Background()

	_, err := uc.Record.CreateVendor(ctx, &model.Vendor{
		Name:       "Cloud Host",
		RiskRating: types.RiskLevelMedium,
	})
	gt.NoError(t, err).Required()

	snapshot, err := uc.Dashboard.Build(ctx)
	gt.NoError(t, err).Required()

	gt.A(t, snapshot.Degraded).Length(1)
	gt.Value(t, snapshot.Degraded[0]).Equal("policies")
	gt.Number(t, snapshot.Policies.Total).Equal(0)
	gt.Number(t, snapshot.Vendors.Total).Equal(1)
}
