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

type riskDocument struct {
	ID          int64  `firestore:"id"`
	Title       string `firestore:"title"`
	Description string `firestore:"description"`
	OwnerID     string `firestore:"owner_id"`

	InherentSeverity   string `firestore:"inherent_severity"`
	InherentLikelihood string `firestore:"inherent_likelihood"`
	InherentScore      int    `firestore:"inherent_score"`
	InherentLevel      string `firestore:"inherent_level"`

	NetSeverity   string `firestore:"net_severity"`
	NetLikelihood string `firestore:"net_likelihood"`

	ResidualScore      int       `firestore:"residual_score"`
	ResidualRating     string    `firestore:"residual_rating"`
	ResidualLikelihood string    `firestore:"residual_likelihood"`
	ResidualUpdatedAt  time.Time `firestore:"residual_updated_at"`

	Status     string    `firestore:"status"`
	ReviewDate time.Time `firestore:"review_date"`
	CreatedAt  time.Time `firestore:"created_at"`
	UpdatedAt  time.Time `firestore:"updated_at"`
}

func toRiskDocument(risk *model.Risk) *riskDocument {
	return &riskDocument{
		ID:                 risk.ID,
		Title:              risk.Title,
		Description:        risk.Description,
		OwnerID:            risk.OwnerID,
		InherentSeverity:   risk.InherentSeverity.String(),
		InherentLikelihood: risk.InherentLikelihood.String(),
		InherentScore:      risk.InherentScore,
		InherentLevel:      risk.InherentLevel.String(),
		NetSeverity:        risk.NetSeverity.String(),
		NetLikelihood:      risk.NetLikelihood.String(),
		ResidualScore:      risk.ResidualScore,
		ResidualRating:     risk.ResidualRating.String(),
		ResidualLikelihood: risk.ResidualLikelihood.String(),
		ResidualUpdatedAt:  risk.ResidualUpdatedAt,
		Status:             risk.Status.String(),
		ReviewDate:         risk.ReviewDate,
		CreatedAt:          risk.CreatedAt,
		UpdatedAt:          risk.UpdatedAt,
	}
}

func (d *riskDocument) toModel() *model.Risk {
	return &model.Risk{
		ID:                 d.ID,
		Title:              d.Title,
		Description:        d.Description,
		OwnerID:            d.OwnerID,
		InherentSeverity:   types.Severity(d.InherentSeverity),
		InherentLikelihood: types.Likelihood(d.InherentLikelihood),
		InherentScore:      d.InherentScore,
		InherentLevel:      types.RiskLevel(d.InherentLevel),
		NetSeverity:        types.Severity(d.NetSeverity),
		NetLikelihood:      types.Likelihood(d.NetLikelihood),
		ResidualScore:      d.ResidualScore,
		ResidualRating:     types.RiskLevel(d.ResidualRating),
		ResidualLikelihood: types.Likelihood(d.ResidualLikelihood),
		ResidualUpdatedAt:  d.ResidualUpdatedAt,
		Status:             types.RiskStatus(d.Status),
		ReviewDate:         d.ReviewDate,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

type riskRepository struct {
	client *firestore.Client
	prefix string
}

func (r *riskRepository) collection() string { return r.prefix + "risks" }

func (r *riskRepository) Create(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	id, err := nextID(ctx, r.client, r.prefix, "risk_counter")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := *risk
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))
	if _, err := docRef.Set(ctx, toRiskDocument(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create risk")
	}

	return &created, nil
}

func (r *riskRepository) Get(ctx context.Context, id int64) (*model.Risk, error) {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V("id", id))
	}

	var riskDoc riskDocument
	if err := doc.DataTo(&riskDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal risk", goerr.V("id", id))
	}

	return riskDoc.toModel(), nil
}

func (r *riskRepository) List(ctx context.Context) ([]*model.Risk, error) {
	iter := r.client.Collection(r.collection()).Documents(ctx)
	defer iter.Stop()

	var risks []*model.Risk
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate risks")
		}

		var riskDoc riskDocument
		if err := doc.DataTo(&riskDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal risk")
		}

		risks = append(risks, riskDoc.toModel())
	}

	return risks, nil
}

func (r *riskRepository) Update(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", risk.ID))

	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", risk.ID))
		}
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V("id", risk.ID))
	}

	var existing riskDocument
	if err := doc.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal risk", goerr.V("id", risk.ID))
	}

	updated := *risk
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, toRiskDocument(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update risk", goerr.V("id", risk.ID))
	}

	return &updated, nil
}

func (r *riskRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))

	_, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get risk", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete risk", goerr.V("id", id))
	}

	return nil
}
