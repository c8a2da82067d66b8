package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type appetiteBandDocument struct {
	Label             string   `firestore:"label"`
	MinScore          int      `firestore:"min_score"`
	MaxScore          int      `firestore:"max_score"`
	AuthorizedActions []string `firestore:"authorized_actions"`
}

type appetiteDocument struct {
	ID        int64                  `firestore:"id"`
	Name      string                 `firestore:"name"`
	Bands     []appetiteBandDocument `firestore:"bands"`
	Active    bool                   `firestore:"active"`
	CreatedAt time.Time              `firestore:"created_at"`
	UpdatedAt time.Time              `firestore:"updated_at"`
}

func toAppetiteDocument(appetite *model.RiskAppetite) *appetiteDocument {
	bands := make([]appetiteBandDocument, len(appetite.Bands))
	for i, b := range appetite.Bands {
		bands[i] = appetiteBandDocument{
			Label:             b.Label,
			MinScore:          b.MinScore,
			MaxScore:          b.MaxScore,
			AuthorizedActions: b.AuthorizedActions,
		}
	}
	return &appetiteDocument{
		ID:        appetite.ID,
		Name:      appetite.Name,
		Bands:     bands,
		Active:    appetite.Active,
		CreatedAt: appetite.CreatedAt,
		UpdatedAt: appetite.UpdatedAt,
	}
}

func (d *appetiteDocument) toModel() *model.RiskAppetite {
	bands := make([]model.AppetiteBand, len(d.Bands))
	for i, b := range d.Bands {
		bands[i] = model.AppetiteBand{
			Label:             b.Label,
			MinScore:          b.MinScore,
			MaxScore:          b.MaxScore,
			AuthorizedActions: b.AuthorizedActions,
		}
	}
	return &model.RiskAppetite{
		ID:        d.ID,
		Name:      d.Name,
		Bands:     bands,
		Active:    d.Active,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type appetiteRepository struct {
	client *firestore.Client
	prefix string
}

func (r *appetiteRepository) collection() string { return r.prefix + "risk_appetites" }

func (r *appetiteRepository) Create(ctx context.Context, appetite *model.RiskAppetite) (*model.RiskAppetite, error) {
	id, err := nextID(ctx, r.client, r.prefix, "appetite_counter")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := *appetite
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))
	if _, err := docRef.Set(ctx, toAppetiteDocument(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create appetite")
	}

	return &created, nil
}

func (r *appetiteRepository) Get(ctx context.Context, id int64) (*model.RiskAppetite, error) {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "appetite not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get appetite", goerr.V("id", id))
	}

	var appetiteDoc appetiteDocument
	if err := doc.DataTo(&appetiteDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal appetite", goerr.V("id", id))
	}

	return appetiteDoc.toModel(), nil
}

func (r *appetiteRepository) List(ctx context.Context) ([]*model.RiskAppetite, error) {
	iter := r.client.Collection(r.collection()).Documents(ctx)
	defer iter.Stop()

	var appetites []*model.RiskAppetite
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate appetites")
		}

		var appetiteDoc appetiteDocument
		if err := doc.DataTo(&appetiteDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal appetite")
		}

		appetites = append(appetites, appetiteDoc.toModel())
	}

	return appetites, nil
}

func (r *appetiteRepository) Update(ctx context.Context, appetite *model.RiskAppetite) (*model.RiskAppetite, error) {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", appetite.ID))

	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "appetite not found", goerr.V("id", appetite.ID))
		}
		return nil, goerr.Wrap(err, "failed to get appetite", goerr.V("id", appetite.ID))
	}

	var existing appetiteDocument
	if err := doc.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal appetite", goerr.V("id", appetite.ID))
	}

	updated := *appetite
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, toAppetiteDocument(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update appetite", goerr.V("id", appetite.ID))
	}

	return &updated, nil
}

func (r *appetiteRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))

	_, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "appetite not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get appetite", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete appetite", goerr.V("id", id))
	}

	return nil
}

func (r *appetiteRepository) GetActive(ctx context.Context) (*model.RiskAppetite, error) {
	iter := r.client.Collection(r.collection()).Where("active", "==", true).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query active appetite")
	}

	var appetiteDoc appetiteDocument
	if err := doc.DataTo(&appetiteDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal appetite")
	}

	return appetiteDoc.toModel(), nil
}

func (r *appetiteRepository) SetActive(ctx context.Context, id int64) error {
	target := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))
	if _, err := target.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "appetite not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get appetite", goerr.V("id", id))
	}

	now := time.Now().UTC()

	iter := r.client.Collection(r.collection()).Where("active", "==", true).Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to query active appetites")
		}
		if _, err := doc.Ref.Update(ctx, []firestore.Update{
			{Path: "active", Value: false},
			{Path: "updated_at", Value: now},
		}); err != nil {
			return goerr.Wrap(err, "failed to deactivate appetite")
		}
	}

	if _, err := target.Update(ctx, []firestore.Update{
		{Path: "active", Value: true},
		{Path: "updated_at", Value: now},
	}); err != nil {
		return goerr.Wrap(err, "failed to activate appetite", goerr.V("id", id))
	}

	return nil
}
