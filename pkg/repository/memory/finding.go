package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
)

type findingRepository struct {
	mu       sync.RWMutex
	findings map[int64]*model.ControlFinding
	nextID   int64
}

func newFindingRepository() *findingRepository {
	return &findingRepository{
		findings: make(map[int64]*model.ControlFinding),
		nextID:   1,
	}
}

func copyFinding(f *model.ControlFinding) *model.ControlFinding {
	copied := *f
	return &copied
}

func (r *findingRepository) Create(ctx context.Context, finding *model.ControlFinding) (*model.ControlFinding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyFinding(finding)
	created.ID = r.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.findings[created.ID] = created
	return copyFinding(created), nil
}

func (r *findingRepository) Get(ctx context.Context, id int64) (*model.ControlFinding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	finding, exists := r.findings[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "finding not found", goerr.V("id", id))
	}

	return copyFinding(finding), nil
}

func (r *findingRepository) List(ctx context.Context) ([]*model.ControlFinding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	findings := make([]*model.ControlFinding, 0, len(r.findings))
	for _, f := range r.findings {
		findings = append(findings, copyFinding(f))
	}

	return findings, nil
}

func (r *findingRepository) ListByControl(ctx context.Context, kind types.ControlKind, controlID int64) ([]*model.ControlFinding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var findings []*model.ControlFinding
	for _, f := range r.findings {
		if f.ControlKind() == kind && f.ControlID() == controlID {
			findings = append(findings, copyFinding(f))
		}
	}
	sort.Slice(findings, func(i, j int) bool {
		return findings[i].CreatedAt.After(findings[j].CreatedAt)
	})

	return findings, nil
}

func (r *findingRepository) Update(ctx context.Context, finding *model.ControlFinding) (*model.ControlFinding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.findings[finding.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "finding not found", goerr.V("id", finding.ID))
	}

	updated := copyFinding(finding)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.findings[updated.ID] = updated
	return copyFinding(updated), nil
}

func (r *findingRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.findings[id]; !exists {
		return goerr.Wrap(ErrNotFound, "finding not found", goerr.V("id", id))
	}

	delete(r.findings, id)
	return nil
}
