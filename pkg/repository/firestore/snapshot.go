package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"google.golang.org/api/iterator"
)

// snapshotDocument tags the top-level fields; the summary structs are
// stored with their exported field names as-is since snapshots are
// write-once and read back whole.
type snapshotDocument struct {
	ID      string    `firestore:"id"`
	TakenAt time.Time `firestore:"taken_at"`

	Risks             model.RiskSummary           `firestore:"risks"`
	InternalControls  model.ControlSummary        `firestore:"internal_controls"`
	FrameworkControls model.ControlSummary        `firestore:"framework_controls"`
	Frameworks        []model.FrameworkCompliance `firestore:"frameworks"`
	Findings          model.FindingSummary        `firestore:"findings"`
	Assets            model.AssetSummary          `firestore:"assets"`
	Treatments        model.TreatmentSummary      `firestore:"treatments"`
	Policies          model.PolicySummary         `firestore:"policies"`
	Vendors           model.VendorSummary         `firestore:"vendors"`
	Evidence          model.EvidenceSummary       `firestore:"evidence"`

	Degraded []string `firestore:"degraded"`
}

func toSnapshotDocument(snapshot *model.DashboardSnapshot) *snapshotDocument {
	return &snapshotDocument{
		ID:                snapshot.ID,
		TakenAt:           snapshot.TakenAt,
		Risks:             snapshot.Risks,
		InternalControls:  snapshot.InternalControls,
		FrameworkControls: snapshot.FrameworkControls,
		Frameworks:        snapshot.Frameworks,
		Findings:          snapshot.Findings,
		Assets:            snapshot.Assets,
		Treatments:        snapshot.Treatments,
		Policies:          snapshot.Policies,
		Vendors:           snapshot.Vendors,
		Evidence:          snapshot.Evidence,
		Degraded:          snapshot.Degraded,
	}
}

func (d *snapshotDocument) toModel() *model.DashboardSnapshot {
	return &model.DashboardSnapshot{
		ID:                d.ID,
		TakenAt:           d.TakenAt,
		Risks:             d.Risks,
		InternalControls:  d.InternalControls,
		FrameworkControls: d.FrameworkControls,
		Frameworks:        d.Frameworks,
		Findings:          d.Findings,
		Assets:            d.Assets,
		Treatments:        d.Treatments,
		Policies:          d.Policies,
		Vendors:           d.Vendors,
		Evidence:          d.Evidence,
		Degraded:          d.Degraded,
	}
}

type snapshotRepository struct {
	client *firestore.Client
	prefix string
}

func (r *snapshotRepository) collection() string { return r.prefix + "dashboard_snapshots" }

func (r *snapshotRepository) Put(ctx context.Context, snapshot *model.DashboardSnapshot) error {
	docRef := r.client.Collection(r.collection()).Doc(snapshot.ID)
	if _, err := docRef.Set(ctx, toSnapshotDocument(snapshot)); err != nil {
		return goerr.Wrap(err, "failed to put snapshot", goerr.V("id", snapshot.ID))
	}
	return nil
}

func (r *snapshotRepository) Latest(ctx context.Context) (*model.DashboardSnapshot, error) {
	iter := r.client.Collection(r.collection()).
		OrderBy("taken_at", firestore.Desc).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query latest snapshot")
	}

	var snapshotDoc snapshotDocument
	if err := doc.DataTo(&snapshotDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal snapshot")
	}

	return snapshotDoc.toModel(), nil
}

func (r *snapshotRepository) List(ctx context.Context, limit int) ([]*model.DashboardSnapshot, error) {
	query := r.client.Collection(r.collection()).OrderBy("taken_at", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var snapshots []*model.DashboardSnapshot
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate snapshots")
		}

		var snapshotDoc snapshotDocument
		if err := doc.DataTo(&snapshotDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal snapshot")
		}

		snapshots = append(snapshots, snapshotDoc.toModel())
	}

	return snapshots, nil
}
