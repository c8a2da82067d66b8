package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/model"
)

type matrixRepository struct {
	mu       sync.RWMutex
	matrices map[int64]*model.RiskMatrix
	nextID   int64
}

func newMatrixRepository() *matrixRepository {
	return &matrixRepository{
		matrices: make(map[int64]*model.RiskMatrix),
		nextID:   1,
	}
}

func copyMatrix(m *model.RiskMatrix) *model.RiskMatrix {
	copied := *m
	copied.Likelihood = append([]model.MatrixLevel(nil), m.Likelihood...)
	copied.Impact = append([]model.MatrixLevel(nil), m.Impact...)
	return &copied
}

func (r *matrixRepository) Create(ctx context.Context, matrix *model.RiskMatrix) (*model.RiskMatrix, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyMatrix(matrix)
	created.ID = r.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.matrices[created.ID] = created
	return copyMatrix(created), nil
}

func (r *matrixRepository) Get(ctx context.Context, id int64) (*model.RiskMatrix, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matrix, exists := r.matrices[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "matrix not found", goerr.V("id", id))
	}

	return copyMatrix(matrix), nil
}

func (r *matrixRepository) List(ctx context.Context) ([]*model.RiskMatrix, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matrices := make([]*model.RiskMatrix, 0, len(r.matrices))
	for _, m := range r.matrices {
		matrices = append(matrices, copyMatrix(m))
	}

	return matrices, nil
}

func (r *matrixRepository) Update(ctx context.Context, matrix *model.RiskMatrix) (*model.RiskMatrix, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.matrices[matrix.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "matrix not found", goerr.V("id", matrix.ID))
	}

	updated := copyMatrix(matrix)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.matrices[updated.ID] = updated
	return copyMatrix(updated), nil
}

func (r *matrixRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.matrices[id]; !exists {
		return goerr.Wrap(ErrNotFound, "matrix not found", goerr.V("id", id))
	}

	delete(r.matrices, id)
	return nil
}

func (r *matrixRepository) GetActive(ctx context.Context) (*model.RiskMatrix, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.matrices {
		if m.Active {
			return copyMatrix(m), nil
		}
	}
	return nil, nil
}

// SetActive deactivates all matrices, then activates the given one
func (r *matrixRepository) SetActive(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	target, exists := r.matrices[id]
	if !exists {
		return goerr.Wrap(ErrNotFound, "matrix not found", goerr.V("id", id))
	}

	now := time.Now().UTC()
	for _, m := range r.matrices {
		if m.Active {
			m.Active = false
			m.UpdatedAt = now
		}
	}
	target.Active = true
	target.UpdatedAt = now
	return nil
}
