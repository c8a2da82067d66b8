package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type controlRefDocument struct {
	Kind string `firestore:"kind"`
	ID   int64  `firestore:"id"`
}

type treatmentDocument struct {
	ID          int64  `firestore:"id"`
	RiskID      int64  `firestore:"risk_id"`
	Title       string `firestore:"title"`
	Description string `firestore:"description"`
	Strategy    string `firestore:"strategy"`
	Status      string `firestore:"status"`

	ResidualSeverity   string `firestore:"residual_severity"`
	ResidualLikelihood string `firestore:"residual_likelihood"`

	ControlLinks []controlRefDocument `firestore:"control_links"`
	CompletedAt  time.Time            `firestore:"completed_at"`
	CreatedAt    time.Time            `firestore:"created_at"`
	UpdatedAt    time.Time            `firestore:"updated_at"`
}

func toTreatmentDocument(treatment *model.Treatment) *treatmentDocument {
	links := make([]controlRefDocument, len(treatment.ControlLinks))
	for i, l := range treatment.ControlLinks {
		links[i] = controlRefDocument{Kind: l.Kind.String(), ID: l.ID}
	}
	return &treatmentDocument{
		ID:                 treatment.ID,
		RiskID:             treatment.RiskID,
		Title:              treatment.Title,
		Description:        treatment.Description,
		Strategy:           treatment.Strategy,
		Status:             treatment.Status.String(),
		ResidualSeverity:   treatment.ResidualSeverity.String(),
		ResidualLikelihood: treatment.ResidualLikelihood.String(),
		ControlLinks:       links,
		CompletedAt:        treatment.CompletedAt,
		CreatedAt:          treatment.CreatedAt,
		UpdatedAt:          treatment.UpdatedAt,
	}
}

func (d *treatmentDocument) toModel() *model.Treatment {
	links := make([]model.ControlRef, len(d.ControlLinks))
	for i, l := range d.ControlLinks {
		links[i] = model.ControlRef{Kind: types.ControlKind(l.Kind), ID: l.ID}
	}
	return &model.Treatment{
		ID:                 d.ID,
		RiskID:             d.RiskID,
		Title:              d.Title,
		Description:        d.Description,
		Strategy:           d.Strategy,
		Status:             types.TreatmentStatus(d.Status),
		ResidualSeverity:   types.Severity(d.ResidualSeverity),
		ResidualLikelihood: types.Likelihood(d.ResidualLikelihood),
		ControlLinks:       links,
		CompletedAt:        d.CompletedAt,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

type treatmentRepository struct {
	client *firestore.Client
	prefix string
}

func (r *treatmentRepository) collection() string { return r.prefix + "treatments" }

func (r *treatmentRepository) Create(ctx context.Context, treatment *model.Treatment) (*model.Treatment, error) {
	id, err := nextID(ctx, r.client, r.prefix, "treatment_counter")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := *treatment
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))
	if _, err := docRef.Set(ctx, toTreatmentDocument(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create treatment")
	}

	return &created, nil
}

func (r *treatmentRepository) Get(ctx context.Context, id int64) (*model.Treatment, error) {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "treatment not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get treatment", goerr.V("id", id))
	}

	var treatmentDoc treatmentDocument
	if err := doc.DataTo(&treatmentDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal treatment", goerr.V("id", id))
	}

	return treatmentDoc.toModel(), nil
}

func (r *treatmentRepository) List(ctx context.Context) ([]*model.Treatment, error) {
	return r.list(ctx, r.client.Collection(r.collection()).Query)
}

func (r *treatmentRepository) ListByRisk(ctx context.Context, riskID int64) ([]*model.Treatment, error) {
	return r.list(ctx, r.client.Collection(r.collection()).
		Where("risk_id", "==", riskID).
		OrderBy("created_at", firestore.Desc))
}

func (r *treatmentRepository) list(ctx context.Context, query firestore.Query) ([]*model.Treatment, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var treatments []*model.Treatment
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate treatments")
		}

		var treatmentDoc treatmentDocument
		if err := doc.DataTo(&treatmentDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal treatment")
		}

		treatments = append(treatments, treatmentDoc.toModel())
	}

	return treatments, nil
}

func (r *treatmentRepository) Update(ctx context.Context, treatment *model.Treatment) (*model.Treatment, error) {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", treatment.ID))

	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "treatment not found", goerr.V("id", treatment.ID))
		}
		return nil, goerr.Wrap(err, "failed to get treatment", goerr.V("id", treatment.ID))
	}

	var existing treatmentDocument
	if err := doc.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal treatment", goerr.V("id", treatment.ID))
	}

	updated := *treatment
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, toTreatmentDocument(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update treatment", goerr.V("id", treatment.ID))
	}

	return &updated, nil
}

func (r *treatmentRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))

	_, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "treatment not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get treatment", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete treatment", goerr.V("id", id))
	}

	return nil
}
