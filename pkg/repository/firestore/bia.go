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

type biaTimelineDocument struct {
	Bucket      string `firestore:"bucket"`
	ImpactLevel int    `firestore:"impact_level"`
}

type biaDocument struct {
	ID                 int64                 `firestore:"id"`
	AssetID            int64                 `firestore:"asset_id"`
	Timeline           []biaTimelineDocument `firestore:"timeline"`
	RTOHours           int                   `firestore:"rto_hours"`
	RPOHours           int                   `firestore:"rpo_hours"`
	DerivedCriticality string                `firestore:"derived_criticality"`
	TimeToHighBucket   string                `firestore:"time_to_high_bucket"`
	CreatedAt          time.Time             `firestore:"created_at"`
	UpdatedAt          time.Time             `firestore:"updated_at"`
}

func toBiaDocument(assessment *model.BiaAssessment) *biaDocument {
	timeline := make([]biaTimelineDocument, len(assessment.Timeline))
	for i, e := range assessment.Timeline {
		timeline[i] = biaTimelineDocument{Bucket: e.Bucket.String(), ImpactLevel: e.ImpactLevel}
	}
	doc := &biaDocument{
		ID:                 assessment.ID,
		AssetID:            assessment.AssetID,
		Timeline:           timeline,
		RTOHours:           assessment.RTOHours,
		RPOHours:           assessment.RPOHours,
		DerivedCriticality: assessment.DerivedCriticality.String(),
		CreatedAt:          assessment.CreatedAt,
		UpdatedAt:          assessment.UpdatedAt,
	}
	if assessment.TimeToHighBucket != nil {
		doc.TimeToHighBucket = assessment.TimeToHighBucket.String()
	}
	return doc
}

func (d *biaDocument) toModel() *model.BiaAssessment {
	timeline := make([]model.BiaTimelineEntry, len(d.Timeline))
	for i, e := range d.Timeline {
		timeline[i] = model.BiaTimelineEntry{Bucket: types.TimeBucket(e.Bucket), ImpactLevel: e.ImpactLevel}
	}
	assessment := &model.BiaAssessment{
		ID:                 d.ID,
		AssetID:            d.AssetID,
		Timeline:           timeline,
		RTOHours:           d.RTOHours,
		RPOHours:           d.RPOHours,
		DerivedCriticality: types.Criticality(d.DerivedCriticality),
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
	if d.TimeToHighBucket != "" {
		bucket := types.TimeBucket(d.TimeToHighBucket)
		assessment.TimeToHighBucket = &bucket
	}
	return assessment
}

type biaRepository struct {
	client *firestore.Client
	prefix string
}

func (r *biaRepository) collection() string { return r.prefix + "bia_assessments" }

func (r *biaRepository) Create(ctx context.Context, assessment *model.BiaAssessment) (*model.BiaAssessment, error) {
	id, err := nextID(ctx, r.client, r.prefix, "bia_counter")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := *assessment
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))
	if _, err := docRef.Set(ctx, toBiaDocument(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create assessment")
	}

	return &created, nil
}

func (r *biaRepository) Get(ctx context.Context, id int64) (*model.BiaAssessment, error) {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get assessment", goerr.V("id", id))
	}

	var biaDoc biaDocument
	if err := doc.DataTo(&biaDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal assessment", goerr.V("id", id))
	}

	return biaDoc.toModel(), nil
}

func (r *biaRepository) List(ctx context.Context) ([]*model.BiaAssessment, error) {
	iter := r.client.Collection(r.collection()).Documents(ctx)
	defer iter.Stop()

	var assessments []*model.BiaAssessment
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate assessments")
		}

		var biaDoc biaDocument
		if err := doc.DataTo(&biaDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal assessment")
		}

		assessments = append(assessments, biaDoc.toModel())
	}

	return assessments, nil
}

func (r *biaRepository) GetByAsset(ctx context.Context, assetID int64) (*model.BiaAssessment, error) {
	iter := r.client.Collection(r.collection()).Where("asset_id", "==", assetID).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query assessment by asset", goerr.V("assetID", assetID))
	}

	var biaDoc biaDocument
	if err := doc.DataTo(&biaDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal assessment", goerr.V("assetID", assetID))
	}

	return biaDoc.toModel(), nil
}

func (r *biaRepository) Update(ctx context.Context, assessment *model.BiaAssessment) (*model.BiaAssessment, error) {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", assessment.ID))

	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", assessment.ID))
		}
		return nil, goerr.Wrap(err, "failed to get assessment", goerr.V("id", assessment.ID))
	}

	var existing biaDocument
	if err := doc.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal assessment", goerr.V("id", assessment.ID))
	}

	updated := *assessment
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, toBiaDocument(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update assessment", goerr.V("id", assessment.ID))
	}

	return &updated, nil
}

func (r *biaRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))

	_, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get assessment", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete assessment", goerr.V("id", id))
	}

	return nil
}

type assetDocument struct {
	ID           int64     `firestore:"id"`
	Name         string    `firestore:"name"`
	Description  string    `firestore:"description"`
	OwnerID      string    `firestore:"owner_id"`
	Criticality  string    `firestore:"criticality"`
	RTOHours     int       `firestore:"rto_hours"`
	RPOHours     int       `firestore:"rpo_hours"`
	MTDHours     int       `firestore:"mtd_hours"`
	BIACompleted bool      `firestore:"bia_completed"`
	CreatedAt    time.Time `firestore:"created_at"`
	UpdatedAt    time.Time `firestore:"updated_at"`
}

func toAssetDocument(asset *model.PrimaryAsset) *assetDocument {
	return &assetDocument{
		ID:           asset.ID,
		Name:         asset.Name,
		Description:  asset.Description,
		OwnerID:      asset.OwnerID,
		Criticality:  asset.Criticality.String(),
		RTOHours:     asset.RTOHours,
		RPOHours:     asset.RPOHours,
		MTDHours:     asset.MTDHours,
		BIACompleted: asset.BIACompleted,
		CreatedAt:    asset.CreatedAt,
		UpdatedAt:    asset.UpdatedAt,
	}
}

func (d *assetDocument) toModel() *model.PrimaryAsset {
	return &model.PrimaryAsset{
		ID:           d.ID,
		Name:         d.Name,
		Description:  d.Description,
		OwnerID:      d.OwnerID,
		Criticality:  types.Criticality(d.Criticality),
		RTOHours:     d.RTOHours,
		RPOHours:     d.RPOHours,
		MTDHours:     d.MTDHours,
		BIACompleted: d.BIACompleted,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type assetRepository struct {
	client *firestore.Client
	prefix string
}

func (r *assetRepository) collection() string { return r.prefix + "primary_assets" }

func (r *assetRepository) Create(ctx context.Context, asset *model.PrimaryAsset) (*model.PrimaryAsset, error) {
	id, err := nextID(ctx, r.client, r.prefix, "asset_counter")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := *asset
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))
	if _, err := docRef.Set(ctx, toAssetDocument(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create asset")
	}

	return &created, nil
}

func (r *assetRepository) Get(ctx context.Context, id int64) (*model.PrimaryAsset, error) {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "asset not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get asset", goerr.V("id", id))
	}

	var assetDoc assetDocument
	if err := doc.DataTo(&assetDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal asset", goerr.V("id", id))
	}

	return assetDoc.toModel(), nil
}

func (r *assetRepository) List(ctx context.Context) ([]*model.PrimaryAsset, error) {
	iter := r.client.Collection(r.collection()).Documents(ctx)
	defer iter.Stop()

	var assets []*model.PrimaryAsset
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate assets")
		}

		var assetDoc assetDocument
		if err := doc.DataTo(&assetDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal asset")
		}

		assets = append(assets, assetDoc.toModel())
	}

	return assets, nil
}

func (r *assetRepository) Update(ctx context.Context, asset *model.PrimaryAsset) (*model.PrimaryAsset, error) {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", asset.ID))

	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "asset not found", goerr.V("id", asset.ID))
		}
		return nil, goerr.Wrap(err, "failed to get asset", goerr.V("id", asset.ID))
	}

	var existing assetDocument
	if err := doc.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal asset", goerr.V("id", asset.ID))
	}

	updated := *asset
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, toAssetDocument(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update asset", goerr.V("id", asset.ID))
	}

	return &updated, nil
}

func (r *assetRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))

	_, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "asset not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get asset", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete asset", goerr.V("id", id))
	}

	return nil
}
