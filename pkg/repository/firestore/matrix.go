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

type matrixLevelDocument struct {
	Level       int    `firestore:"level"`
	Label       string `firestore:"label"`
	Description string `firestore:"description"`
}

type matrixDocument struct {
	ID         int64                 `firestore:"id"`
	Name       string                `firestore:"name"`
	Likelihood []matrixLevelDocument `firestore:"likelihood"`
	Impact     []matrixLevelDocument `firestore:"impact"`
	Active     bool                  `firestore:"active"`
	CreatedAt  time.Time             `firestore:"created_at"`
	UpdatedAt  time.Time             `firestore:"updated_at"`
}

func toMatrixLevelDocuments(levels []model.MatrixLevel) []matrixLevelDocument {
	docs := make([]matrixLevelDocument, len(levels))
	for i, lv := range levels {
		docs[i] = matrixLevelDocument{Level: lv.Level, Label: lv.Label, Description: lv.Description}
	}
	return docs
}

func fromMatrixLevelDocuments(docs []matrixLevelDocument) []model.MatrixLevel {
	levels := make([]model.MatrixLevel, len(docs))
	for i, d := range docs {
		levels[i] = model.MatrixLevel{Level: d.Level, Label: d.Label, Description: d.Description}
	}
	return levels
}

func toMatrixDocument(matrix *model.RiskMatrix) *matrixDocument {
	return &matrixDocument{
		ID:         matrix.ID,
		Name:       matrix.Name,
		Likelihood: toMatrixLevelDocuments(matrix.Likelihood),
		Impact:     toMatrixLevelDocuments(matrix.Impact),
		Active:     matrix.Active,
		CreatedAt:  matrix.CreatedAt,
		UpdatedAt:  matrix.UpdatedAt,
	}
}

func (d *matrixDocument) toModel() *model.RiskMatrix {
	return &model.RiskMatrix{
		ID:         d.ID,
		Name:       d.Name,
		Likelihood: fromMatrixLevelDocuments(d.Likelihood),
		Impact:     fromMatrixLevelDocuments(d.Impact),
		Active:     d.Active,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

type matrixRepository struct {
	client *firestore.Client
	prefix string
}

func (r *matrixRepository) collection() string { return r.prefix + "risk_matrices" }

func (r *matrixRepository) Create(ctx context.Context, matrix *model.RiskMatrix) (*model.RiskMatrix, error) {
	id, err := nextID(ctx, r.client, r.prefix, "matrix_counter")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := *matrix
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))
	if _, err := docRef.Set(ctx, toMatrixDocument(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create matrix")
	}

	return &created, nil
}

func (r *matrixRepository) Get(ctx context.Context, id int64) (*model.RiskMatrix, error) {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "matrix not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get matrix", goerr.V("id", id))
	}

	var matrixDoc matrixDocument
	if err := doc.DataTo(&matrixDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal matrix", goerr.V("id", id))
	}

	return matrixDoc.toModel(), nil
}

func (r *matrixRepository) List(ctx context.Context) ([]*model.RiskMatrix, error) {
	iter := r.client.Collection(r.collection()).Documents(ctx)
	defer iter.Stop()

	var matrices []*model.RiskMatrix
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate matrices")
		}

		var matrixDoc matrixDocument
		if err := doc.DataTo(&matrixDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal matrix")
		}

		matrices = append(matrices, matrixDoc.toModel())
	}

	return matrices, nil
}

func (r *matrixRepository) Update(ctx context.Context, matrix *model.RiskMatrix) (*model.RiskMatrix, error) {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", matrix.ID))

	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "matrix not found", goerr.V("id", matrix.ID))
		}
		return nil, goerr.Wrap(err, "failed to get matrix", goerr.V("id", matrix.ID))
	}

	var existing matrixDocument
	if err := doc.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal matrix", goerr.V("id", matrix.ID))
	}

	updated := *matrix
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, toMatrixDocument(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update matrix", goerr.V("id", matrix.ID))
	}

	return &updated, nil
}

func (r *matrixRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))

	_, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "matrix not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get matrix", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete matrix", goerr.V("id", id))
	}

	return nil
}

func (r *matrixRepository) GetActive(ctx context.Context) (*model.RiskMatrix, error) {
	iter := r.client.Collection(r.collection()).Where("active", "==", true).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query active matrix")
	}

	var matrixDoc matrixDocument
	if err := doc.DataTo(&matrixDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal matrix")
	}

	return matrixDoc.toModel(), nil
}

// SetActive deactivates every active matrix, then activates the target.
// Two explicit writes rather than a uniqueness constraint.
func (r *matrixRepository) SetActive(ctx context.Context, id int64) error {
	target := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))
	if _, err := target.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "matrix not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get matrix", goerr.V("id", id))
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
			return goerr.Wrap(err, "failed to query active matrices")
		}
		if _, err := doc.Ref.Update(ctx, []firestore.Update{
			{Path: "active", Value: false},
			{Path: "updated_at", Value: now},
		}); err != nil {
			return goerr.Wrap(err, "failed to deactivate matrix")
		}
	}

	if _, err := target.Update(ctx, []firestore.Update{
		{Path: "active", Value: true},
		{Path: "updated_at", Value: now},
	}); err != nil {
		return goerr.Wrap(err, "failed to activate matrix", goerr.V("id", id))
	}

	return nil
}
