package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/model"
)

type internalControlRepository struct {
	mu       sync.RWMutex
	controls map[int64]*model.InternalControl
	nextID   int64
}

func newInternalControlRepository() *internalControlRepository {
	return &internalControlRepository{
		controls: make(map[int64]*model.InternalControl),
		nextID:   1,
	}
}

func copyInternalControl(c *model.InternalControl) *model.InternalControl {
	copied := *c
	return &copied
}

func (r *internalControlRepository) Create(ctx context.Context, control *model.InternalControl) (*model.InternalControl, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyInternalControl(control)
	created.ID = r.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.controls[created.ID] = created
	return copyInternalControl(created), nil
}

func (r *internalControlRepository) Get(ctx context.Context, id int64) (*model.InternalControl, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	control, exists := r.controls[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "internal control not found", goerr.V("id", id))
	}

	return copyInternalControl(control), nil
}

func (r *internalControlRepository) List(ctx context.Context) ([]*model.InternalControl, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	controls := make([]*model.InternalControl, 0, len(r.controls))
	for _, c := range r.controls {
		controls = append(controls, copyInternalControl(c))
	}

	return controls, nil
}

func (r *internalControlRepository) Update(ctx context.Context, control *model.InternalControl) (*model.InternalControl, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.controls[control.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "internal control not found", goerr.V("id", control.ID))
	}

	updated := copyInternalControl(control)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.controls[updated.ID] = updated
	return copyInternalControl(updated), nil
}

func (r *internalControlRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.controls[id]; !exists {
		return goerr.Wrap(ErrNotFound, "internal control not found", goerr.V("id", id))
	}

	delete(r.controls, id)
	return nil
}

type frameworkControlRepository struct {
	mu       sync.RWMutex
	controls map[int64]*model.FrameworkControl
	nextID   int64
}

func newFrameworkControlRepository() *frameworkControlRepository {
	return &frameworkControlRepository{
		controls: make(map[int64]*model.FrameworkControl),
		nextID:   1,
	}
}

func copyFrameworkControl(c *model.FrameworkControl) *model.FrameworkControl {
	copied := *c
	return &copied
}

func (r *frameworkControlRepository) Create(ctx context.Context, control *model.FrameworkControl) (*model.FrameworkControl, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyFrameworkControl(control)
	created.ID = r.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.controls[created.ID] = created
	return copyFrameworkControl(created), nil
}

func (r *frameworkControlRepository) Get(ctx context.Context, id int64) (*model.FrameworkControl, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	control, exists := r.controls[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "framework control not found", goerr.V("id", id))
	}

	return copyFrameworkControl(control), nil
}

func (r *frameworkControlRepository) List(ctx context.Context) ([]*model.FrameworkControl, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	controls := make([]*model.FrameworkControl, 0, len(r.controls))
	for _, c := range r.controls {
		controls = append(controls, copyFrameworkControl(c))
	}

	return controls, nil
}

func (r *frameworkControlRepository) ListByFramework(ctx context.Context, frameworkID int64) ([]*model.FrameworkControl, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var controls []*model.FrameworkControl
	for _, c := range r.controls {
		if c.FrameworkID == frameworkID {
			controls = append(controls, copyFrameworkControl(c))
		}
	}

	return controls, nil
}

func (r *frameworkControlRepository) Update(ctx context.Context, control *model.FrameworkControl) (*model.FrameworkControl, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.controls[control.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "framework control not found", goerr.V("id", control.ID))
	}

	updated := copyFrameworkControl(control)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.controls[updated.ID] = updated
	return copyFrameworkControl(updated), nil
}

func (r *frameworkControlRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.controls[id]; !exists {
		return goerr.Wrap(ErrNotFound, "framework control not found", goerr.V("id", id))
	}

	delete(r.controls, id)
	return nil
}

type frameworkRepository struct {
	mu         sync.RWMutex
	frameworks map[int64]*model.ControlFramework
	nextID     int64
}

func newFrameworkRepository() *frameworkRepository {
	return &frameworkRepository{
		frameworks: make(map[int64]*model.ControlFramework),
		nextID:     1,
	}
}

func copyFramework(f *model.ControlFramework) *model.ControlFramework {
	copied := *f
	return &copied
}

func (r *frameworkRepository) Create(ctx context.Context, framework *model.ControlFramework) (*model.ControlFramework, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyFramework(framework)
	created.ID = r.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.frameworks[created.ID] = created
	return copyFramework(created), nil
}

func (r *frameworkRepository) Get(ctx context.Context, id int64) (*model.ControlFramework, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	framework, exists := r.frameworks[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "framework not found", goerr.V("id", id))
	}

	return copyFramework(framework), nil
}

func (r *frameworkRepository) List(ctx context.Context) ([]*model.ControlFramework, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	frameworks := make([]*model.ControlFramework, 0, len(r.frameworks))
	for _, f := range r.frameworks {
		frameworks = append(frameworks, copyFramework(f))
	}

	return frameworks, nil
}

func (r *frameworkRepository) Update(ctx context.Context, framework *model.ControlFramework) (*model.ControlFramework, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.frameworks[framework.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "framework not found", goerr.V("id", framework.ID))
	}

	updated := copyFramework(framework)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.frameworks[updated.ID] = updated
	return copyFramework(updated), nil
}

func (r *frameworkRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.frameworks[id]; !exists {
		return goerr.Wrap(ErrNotFound, "framework not found", goerr.V("id", id))
	}

	delete(r.frameworks, id)
	return nil
}

// SetActive deactivates all frameworks, then activates the given one
func (r *frameworkRepository) SetActive(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	target, exists := r.frameworks[id]
	if !exists {
		return goerr.Wrap(ErrNotFound, "framework not found", goerr.V("id", id))
	}

	now := time.Now().UTC()
	for _, f := range r.frameworks {
		if f.Active {
			f.Active = false
			f.UpdatedAt = now
		}
	}
	target.Active = true
	target.UpdatedAt = now
	return nil
}
