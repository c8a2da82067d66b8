package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/model"
)

type biaRepository struct {
	mu          sync.RWMutex
	assessments map[int64]*model.BiaAssessment
	nextID      int64
}

func newBiaRepository() *biaRepository {
	return &biaRepository{
		assessments: make(map[int64]*model.BiaAssessment),
		nextID:      1,
	}
}

func copyAssessment(a *model.BiaAssessment) *model.BiaAssessment {
	copied := *a
	copied.Timeline = append([]model.BiaTimelineEntry(nil), a.Timeline...)
	if a.TimeToHighBucket != nil {
		b := *a.TimeToHighBucket
		copied.TimeToHighBucket = &b
	}
	return &copied
}

func (r *biaRepository) Create(ctx context.Context, assessment *model.BiaAssessment) (*model.BiaAssessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyAssessment(assessment)
	created.ID = r.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.assessments[created.ID] = created
	return copyAssessment(created), nil
}

func (r *biaRepository) Get(ctx context.Context, id int64) (*model.BiaAssessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assessment, exists := r.assessments[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", id))
	}

	return copyAssessment(assessment), nil
}

func (r *biaRepository) List(ctx context.Context) ([]*model.BiaAssessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assessments := make([]*model.BiaAssessment, 0, len(r.assessments))
	for _, a := range r.assessments {
		assessments = append(assessments, copyAssessment(a))
	}

	return assessments, nil
}

func (r *biaRepository) GetByAsset(ctx context.Context, assetID int64) (*model.BiaAssessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.assessments {
		if a.AssetID == assetID {
			return copyAssessment(a), nil
		}
	}
	return nil, nil
}

func (r *biaRepository) Update(ctx context.Context, assessment *model.BiaAssessment) (*model.BiaAssessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.assessments[assessment.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", assessment.ID))
	}

	updated := copyAssessment(assessment)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.assessments[updated.ID] = updated
	return copyAssessment(updated), nil
}

func (r *biaRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.assessments[id]; !exists {
		return goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", id))
	}

	delete(r.assessments, id)
	return nil
}

type assetRepository struct {
	mu     sync.RWMutex
	assets map[int64]*model.PrimaryAsset
	nextID int64
}

func newAssetRepository() *assetRepository {
	return &assetRepository{
		assets: make(map[int64]*model.PrimaryAsset),
		nextID: 1,
	}
}

func copyAsset(a *model.PrimaryAsset) *model.PrimaryAsset {
	copied := *a
	return &copied
}

func (r *assetRepository) Create(ctx context.Context, asset *model.PrimaryAsset) (*model.PrimaryAsset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyAsset(asset)
	created.ID = r.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.assets[created.ID] = created
	return copyAsset(created), nil
}

func (r *assetRepository) Get(ctx context.Context, id int64) (*model.PrimaryAsset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	asset, exists := r.assets[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "asset not found", goerr.V("id", id))
	}

	return copyAsset(asset), nil
}

func (r *assetRepository) List(ctx context.Context) ([]*model.PrimaryAsset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assets := make([]*model.PrimaryAsset, 0, len(r.assets))
	for _, a := range r.assets {
		assets = append(assets, copyAsset(a))
	}

	return assets, nil
}

func (r *assetRepository) Update(ctx context.Context, asset *model.PrimaryAsset) (*model.PrimaryAsset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.assets[asset.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "asset not found", goerr.V("id", asset.ID))
	}

	updated := copyAsset(asset)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.assets[updated.ID] = updated
	return copyAsset(updated), nil
}

func (r *assetRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.assets[id]; !exists {
		return goerr.Wrap(ErrNotFound, "asset not found", goerr.V("id", id))
	}

	delete(r.assets, id)
	return nil
}
