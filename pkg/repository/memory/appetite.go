package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/model"
)

type appetiteRepository struct {
	mu        sync.RWMutex
	appetites map[int64]*model.RiskAppetite
	nextID    int64
}

func newAppetiteRepository() *appetiteRepository {
	return &appetiteRepository{
		appetites: make(map[int64]*model.RiskAppetite),
		nextID:    1,
	}
}

func copyAppetite(a *model.RiskAppetite) *model.RiskAppetite {
	copied := *a
	copied.Bands = make([]model.AppetiteBand, len(a.Bands))
	for i, b := range a.Bands {
		copied.Bands[i] = b
		copied.Bands[i].AuthorizedActions = append([]string(nil), b.AuthorizedActions...)
	}
	return &copied
}

func (r *appetiteRepository) Create(ctx context.Context, appetite *model.RiskAppetite) (*model.RiskAppetite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyAppetite(appetite)
	created.ID = r.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.appetites[created.ID] = created
	return copyAppetite(created), nil
}

func (r *appetiteRepository) Get(ctx context.Context, id int64) (*model.RiskAppetite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	appetite, exists := r.appetites[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "appetite not found", goerr.V("id", id))
	}

	return copyAppetite(appetite), nil
}

func (r *appetiteRepository) List(ctx context.Context) ([]*model.RiskAppetite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	appetites := make([]*model.RiskAppetite, 0, len(r.appetites))
	for _, a := range r.appetites {
		appetites = append(appetites, copyAppetite(a))
	}

	return appetites, nil
}

func (r *appetiteRepository) Update(ctx context.Context, appetite *model.RiskAppetite) (*model.RiskAppetite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.appetites[appetite.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "appetite not found", goerr.V("id", appetite.ID))
	}

	updated := copyAppetite(appetite)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.appetites[updated.ID] = updated
	return copyAppetite(updated), nil
}

func (r *appetiteRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.appetites[id]; !exists {
		return goerr.Wrap(ErrNotFound, "appetite not found", goerr.V("id", id))
	}

	delete(r.appetites, id)
	return nil
}

func (r *appetiteRepository) GetActive(ctx context.Context) (*model.RiskAppetite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.appetites {
		if a.Active {
			return copyAppetite(a), nil
		}
	}
	return nil, nil
}

// SetActive deactivates all appetites, then activates the given one
func (r *appetiteRepository) SetActive(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	target, exists := r.appetites[id]
	if !exists {
		return goerr.Wrap(ErrNotFound, "appetite not found", goerr.V("id", id))
	}

	now := time.Now().UTC()
	for _, a := range r.appetites {
		if a.Active {
			a.Active = false
			a.UpdatedAt = now
		}
	}
	target.Active = true
	target.UpdatedAt = now
	return nil
}
