package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
	"github.com/secmon-lab/briareus/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// DashboardUseCase aggregates the whole system into one read model. Each
// section is computed independently; a failed read degrades that section
// to its zero value and records the section name, it never fails the
// build.
type DashboardUseCase struct {
	repo interfaces.Repository
}

func NewDashboardUseCase(repo interfaces.Repository) *DashboardUseCase {
	return &DashboardUseCase{repo: repo}
}

// Build computes a snapshot from live data. Sections load concurrently.
func (uc *DashboardUseCase) Build(ctx context.Context) (*model.DashboardSnapshot, error) {
	snapshot := &model.DashboardSnapshot{
		TakenAt: time.Now().UTC(),
	}

	var mu sync.Mutex
	degrade := func(section string, err error) {
		logging.From(ctx).Warn("dashboard section degraded", "section", section, "error", err)
		mu.Lock()
		snapshot.Degraded = append(snapshot.Degraded, section)
		mu.Unlock()
	}

	var eg errgroup.Group

	eg.Go(func() error {
		summary, err := uc.riskSummary(ctx)
		if err != nil {
			degrade("risks", err)
			return nil
		}
		snapshot.Risks = *summary
		return nil
	})

	eg.Go(func() error {
		controls, err := uc.repo.InternalControl().List(ctx)
		if err != nil {
			degrade("internal_controls", err)
			return nil
		}
		summary := model.ControlSummary{Total: len(controls), ByStatus: map[string]int{}}
		for _, c := range controls {
			summary.ByStatus[c.ComplianceStatus.String()]++
			if c.ComplianceStatus.UsableForMitigation() {
				summary.Usable++
			}
		}
		snapshot.InternalControls = summary
		return nil
	})

	eg.Go(func() error {
		controls, err := uc.repo.FrameworkControl().List(ctx)
		if err != nil {
			degrade("framework_controls", err)
			return nil
		}
		summary := model.ControlSummary{Total: len(controls), ByStatus: map[string]int{}}
		for _, c := range controls {
			summary.ByStatus[c.ComplianceStatus.String()]++
			if c.ComplianceStatus.UsableForMitigation() {
				summary.Usable++
			}
		}
		snapshot.FrameworkControls = summary
		return nil
	})

	eg.Go(func() error {
		compliance, err := uc.frameworkCompliance(ctx)
		if err != nil {
			degrade("frameworks", err)
			return nil
		}
		snapshot.Frameworks = compliance
		return nil
	})

	eg.Go(func() error {
		findings, err := uc.repo.Finding().List(ctx)
		if err != nil {
			degrade("findings", err)
			return nil
		}
		now := time.Now().UTC()
		summary := model.FindingSummary{Total: len(findings), ByType: map[string]int{}}
		for _, f := range findings {
			summary.ByType[f.FindingType.String()]++
			if f.Status.IsActive() {
				summary.Active++
				if !f.DueDate.IsZero() && f.DueDate.Before(now) {
					summary.Overdue++
				}
			}
		}
		snapshot.Findings = summary
		return nil
	})

	eg.Go(func() error {
		assets, err := uc.repo.Asset().List(ctx)
		if err != nil {
			degrade("assets", err)
			return nil
		}
		summary := model.AssetSummary{Total: len(assets), ByCriticality: map[string]int{}}
		for _, a := range assets {
			if a.Criticality != "" {
				summary.ByCriticality[a.Criticality.String()]++
			}
			if a.BIACompleted {
				summary.BIACompleted++
			}
		}
		snapshot.Assets = summary
		return nil
	})

	eg.Go(func() error {
		treatments, err := uc.repo.Treatment().List(ctx)
		if err != nil {
			degrade("treatments", err)
			return nil
		}
		summary := model.TreatmentSummary{Total: len(treatments), ByStatus: map[string]int{}}
		for _, t := range treatments {
			summary.ByStatus[t.Status.String()]++
		}
		snapshot.Treatments = summary
		return nil
	})

	eg.Go(func() error {
		policies, err := uc.repo.Policy().List(ctx)
		if err != nil {
			degrade("policies", err)
			return nil
		}
		now := time.Now().UTC()
		summary := model.PolicySummary{Total: len(policies), ByStatus: map[string]int{}}
		for _, p := range policies {
			summary.ByStatus[p.Status.String()]++
			if !p.ReviewDate.IsZero() && p.ReviewDate.Before(now) {
				summary.OverdueReview++
			}
		}
		snapshot.Policies = summary
		return nil
	})

	eg.Go(func() error {
		vendors, err := uc.repo.Vendor().List(ctx)
		if err != nil {
			degrade("vendors", err)
			return nil
		}
		now := time.Now().UTC()
		summary := model.VendorSummary{Total: len(vendors), ByRating: map[string]int{}}
		for _, v := range vendors {
			summary.ByRating[v.RiskRating.String()]++
			if !v.ReviewDate.IsZero() && v.ReviewDate.Before(now) {
				summary.OverdueReview++
			}
		}
		snapshot.Vendors = summary
		return nil
	})

	eg.Go(func() error {
		evs, err := uc.repo.Evidence().List(ctx)
		if err != nil {
			degrade("evidence", err)
			return nil
		}
		now := time.Now().UTC()
		summary := model.EvidenceSummary{Total: len(evs)}
		for _, ev := range evs {
			if !ev.ExpiresAt.IsZero() && ev.ExpiresAt.Before(now) {
				summary.Expired++
			}
		}
		snapshot.Evidence = summary
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, goerr.Wrap(err, "failed to build dashboard")
	}

	return snapshot, nil
}

func (uc *DashboardUseCase) riskSummary(ctx context.Context) (*model.RiskSummary, error) {
	risks, err := uc.repo.Risk().List(ctx)
	if err != nil {
		return nil, err
	}

	appetite, err := uc.repo.Appetite().GetActive(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	summary := &model.RiskSummary{
		Total:    len(risks),
		ByStatus: map[string]int{},
		ByLevel:  map[string]int{},
	}
	for _, r := range risks {
		summary.ByStatus[r.Status.Normalize().String()]++

		level := r.InherentLevel
		if r.HasResidual() {
			level = r.ResidualRating
		}
		summary.ByLevel[level.String()]++

		if r.Status.Normalize() == types.RiskStatusTreated {
			summary.Treated++
		}
		if !r.ReviewDate.IsZero() && r.ReviewDate.Before(now) {
			summary.OverdueReview++
		}
		if appetite != nil && appetite.MatchBand(r.CurrentScore()) == nil {
			summary.AppetiteViolations = append(summary.AppetiteViolations, r.ID)
		}
	}

	return summary, nil
}

func (uc *DashboardUseCase) frameworkCompliance(ctx context.Context) ([]model.FrameworkCompliance, error) {
	frameworks, err := uc.repo.Framework().List(ctx)
	if err != nil {
		return nil, err
	}

	var out []model.FrameworkCompliance
	for _, fw := range frameworks {
		controls, err := uc.repo.FrameworkControl().ListByFramework(ctx, fw.ID)
		if err != nil {
			return nil, err
		}

		fc := model.FrameworkCompliance{
			FrameworkID: fw.ID,
			Name:        fw.Name,
			Total:       len(controls),
		}
		for _, c := range controls {
			if c.Implemented {
				fc.Implemented++
			}
		}
		if fc.Total > 0 {
			fc.Percent = float64(fc.Implemented) / float64(fc.Total) * 100
		}
		out = append(out, fc)
	}

	return out, nil
}

// Snapshot builds the dashboard and persists it
func (uc *DashboardUseCase) Snapshot(ctx context.Context) (*model.DashboardSnapshot, error) {
	snapshot, err := uc.Build(ctx)
	if err != nil {
		return nil, err
	}
	snapshot.ID = uuid.New().String()

	if err := uc.repo.Snapshot().Put(ctx, snapshot); err != nil {
		return nil, goerr.Wrap(err, "failed to store snapshot")
	}

	return snapshot, nil
}

func (uc *DashboardUseCase) Latest(ctx context.Context) (*model.DashboardSnapshot, error) {
	return uc.repo.Snapshot().Latest(ctx)
}

func (uc *DashboardUseCase) History(ctx context.Context, limit int) ([]*model.DashboardSnapshot, error) {
	return uc.repo.Snapshot().List(ctx, limit)
}
