package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/model"
)

type treatmentRepository struct {
	mu         sync.RWMutex
	treatments map[int64]*model.Treatment
	nextID     int64
}

func newTreatmentRepository() *treatmentRepository {
	return &treatmentRepository{
		treatments: make(map[int64]*model.Treatment),
		nextID:     1,
	}
}

func copyTreatment(t *model.Treatment) *model.Treatment {
	copied := *t
	copied.ControlLinks = append([]model.ControlRef(nil), t.ControlLinks...)
	return &copied
}

func (r *treatmentRepository) Create(ctx context.Context, treatment *model.Treatment) (*model.Treatment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyTreatment(treatment)
	created.ID = r.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.treatments[created.ID] = created
	return copyTreatment(created), nil
}

func (r *treatmentRepository) Get(ctx context.Context, id int64) (*model.Treatment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	treatment, exists := r.treatments[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "treatment not found", goerr.V("id", id))
	}

	return copyTreatment(treatment), nil
}

func (r *treatmentRepository) List(ctx context.Context) ([]*model.Treatment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	treatments := make([]*model.Treatment, 0, len(r.treatments))
	for _, t := range r.treatments {
		treatments = append(treatments, copyTreatment(t))
	}

	return treatments, nil
}

func (r *treatmentRepository) ListByRisk(ctx context.Context, riskID int64) ([]*model.Treatment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var treatments []*model.Treatment
	for _, t := range r.treatments {
		if t.RiskID == riskID {
			treatments = append(treatments, copyTreatment(t))
		}
	}
	sort.Slice(treatments, func(i, j int) bool {
		return treatments[i].CreatedAt.After(treatments[j].CreatedAt)
	})

	return treatments, nil
}

func (r *treatmentRepository) Update(ctx context.Context, treatment *model.Treatment) (*model.Treatment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.treatments[treatment.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "treatment not found", goerr.V("id", treatment.ID))
	}

	updated := copyTreatment(treatment)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.treatments[updated.ID] = updated
	return copyTreatment(updated), nil
}

func (r *treatmentRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.treatments[id]; !exists {
		return goerr.Wrap(ErrNotFound, "treatment not found", goerr.V("id", id))
	}

	delete(r.treatments, id)
	return nil
}
