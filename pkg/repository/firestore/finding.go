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

type findingDocument struct {
	ID                 int64     `firestore:"id"`
	InternalControlID  int64     `firestore:"internal_control_id"`
	FrameworkControlID int64     `firestore:"framework_control_id"`
	FindingType        string    `firestore:"finding_type"`
	Status             string    `firestore:"status"`
	Title              string    `firestore:"title"`
	Description        string    `firestore:"description"`
	DueDate            time.Time `firestore:"due_date"`
	CreatedAt          time.Time `firestore:"created_at"`
	UpdatedAt          time.Time `firestore:"updated_at"`
}

func toFindingDocument(finding *model.ControlFinding) *findingDocument {
	return &findingDocument{
		ID:                 finding.ID,
		InternalControlID:  finding.InternalControlID,
		FrameworkControlID: finding.FrameworkControlID,
		FindingType:        finding.FindingType.String(),
		Status:             finding.Status.String(),
		Title:              finding.Title,
		Description:        finding.Description,
		DueDate:            finding.DueDate,
		CreatedAt:          finding.CreatedAt,
		UpdatedAt:          finding.UpdatedAt,
	}
}

func (d *findingDocument) toModel() *model.ControlFinding {
	return &model.ControlFinding{
		ID:                 d.ID,
		InternalControlID:  d.InternalControlID,
		FrameworkControlID: d.FrameworkControlID,
		FindingType:        types.FindingType(d.FindingType),
		Status:             types.FindingStatus(d.Status),
		Title:              d.Title,
		Description:        d.Description,
		DueDate:            d.DueDate,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

type findingRepository struct {
	client *firestore.Client
	prefix string
}

func (r *findingRepository) collection() string { return r.prefix + "control_findings" }

func (r *findingRepository) Create(ctx context.Context, finding *model.ControlFinding) (*model.ControlFinding, error) {
	id, err := nextID(ctx, r.client, r.prefix, "finding_counter")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := *finding
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))
	if _, err := docRef.Set(ctx, toFindingDocument(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create finding")
	}

	return &created, nil
}

func (r *findingRepository) Get(ctx context.Context, id int64) (*model.ControlFinding, error) {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "finding not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get finding", goerr.V("id", id))
	}

	var findingDoc findingDocument
	if err := doc.DataTo(&findingDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal finding", goerr.V("id", id))
	}

	return findingDoc.toModel(), nil
}

func (r *findingRepository) List(ctx context.Context) ([]*model.ControlFinding, error) {
	return r.list(ctx, r.client.Collection(r.collection()).Query)
}

func (r *findingRepository) ListByControl(ctx context.Context, kind types.ControlKind, controlID int64) ([]*model.ControlFinding, error) {
	field := "internal_control_id"
	if kind == types.ControlKindFramework {
		field = "framework_control_id"
	}
	return r.list(ctx, r.client.Collection(r.collection()).
		Where(field, "==", controlID).
		OrderBy("created_at", firestore.Desc))
}

func (r *findingRepository) list(ctx context.Context, query firestore.Query) ([]*model.ControlFinding, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var findings []*model.ControlFinding
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate findings")
		}

		var findingDoc findingDocument
		if err := doc.DataTo(&findingDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal finding")
		}

		findings = append(findings, findingDoc.toModel())
	}

	return findings, nil
}

func (r *findingRepository) Update(ctx context.Context, finding *model.ControlFinding) (*model.ControlFinding, error) {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", finding.ID))

	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "finding not found", goerr.V("id", finding.ID))
		}
		return nil, goerr.Wrap(err, "failed to get finding", goerr.V("id", finding.ID))
	}

	var existing findingDocument
	if err := doc.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal finding", goerr.V("id", finding.ID))
	}

	updated := *finding
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, toFindingDocument(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update finding", goerr.V("id", finding.ID))
	}

	return &updated, nil
}

func (r *findingRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))

	_, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "finding not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get finding", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete finding", goerr.V("id", id))
	}

	return nil
}
