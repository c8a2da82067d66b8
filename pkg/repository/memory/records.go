package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/model"
)

type policyRepository struct {
	mu       sync.RWMutex
	policies map[int64]*model.Policy
	nextID   int64
}

func newPolicyRepository() *policyRepository {
	return &policyRepository{
		policies: make(map[int64]*model.Policy),
		nextID:   1,
	}
}

func (r *policyRepository) Create(ctx context.Context, policy *model.Policy) (*model.Policy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := *policy
	created.ID = r.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.policies[created.ID] = &created
	result := created
	return &result, nil
}

func (r *policyRepository) Get(ctx context.Context, id int64) (*model.Policy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	policy, exists := r.policies[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "policy not found", goerr.V("id", id))
	}

	copied := *policy
	return &copied, nil
}

func (r *policyRepository) List(ctx context.Context) ([]*model.Policy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	policies := make([]*model.Policy, 0, len(r.policies))
	for _, p := range r.policies {
		copied := *p
		policies = append(policies, &copied)
	}

	return policies, nil
}

func (r *policyRepository) Update(ctx context.Context, policy *model.Policy) (*model.Policy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.policies[policy.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "policy not found", goerr.V("id", policy.ID))
	}

	updated := *policy
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.policies[updated.ID] = &updated
	result := updated
	return &result, nil
}

func (r *policyRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.policies[id]; !exists {
		return goerr.Wrap(ErrNotFound, "policy not found", goerr.V("id", id))
	}

	delete(r.policies, id)
	return nil
}

type vendorRepository struct {
	mu      sync.RWMutex
	vendors map[int64]*model.Vendor
	nextID  int64
}

func newVendorRepository() *vendorRepository {
	return &vendorRepository{
		vendors: make(map[int64]*model.Vendor),
		nextID:  1,
	}
}

func (r *vendorRepository) Create(ctx context.Context, vendor *model.Vendor) (*model.Vendor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := *vendor
	created.ID = r.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.vendors[created.ID] = &created
	result := created
	return &result, nil
}

func (r *vendorRepository) Get(ctx context.Context, id int64) (*model.Vendor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	vendor, exists := r.vendors[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "vendor not found", goerr.V("id", id))
	}

	copied := *vendor
	return &copied, nil
}

func (r *vendorRepository) List(ctx context.Context) ([]*model.Vendor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	vendors := make([]*model.Vendor, 0, len(r.vendors))
	for _, v := range r.vendors {
		copied := *v
		vendors = append(vendors, &copied)
	}

	return vendors, nil
}

func (r *vendorRepository) Update(ctx context.Context, vendor *model.Vendor) (*model.Vendor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.vendors[vendor.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "vendor not found", goerr.V("id", vendor.ID))
	}

	updated := *vendor
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.vendors[updated.ID] = &updated
	result := updated
	return &result, nil
}

func (r *vendorRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.vendors[id]; !exists {
		return goerr.Wrap(ErrNotFound, "vendor not found", goerr.V("id", id))
	}

	delete(r.vendors, id)
	return nil
}

type evidenceRepository struct {
	mu       sync.RWMutex
	evidence map[int64]*model.Evidence
	nextID   int64
}

func newEvidenceRepository() *evidenceRepository {
	return &evidenceRepository{
		evidence: make(map[int64]*model.Evidence),
		nextID:   1,
	}
}

func (r *evidenceRepository) Create(ctx context.Context, ev *model.Evidence) (*model.Evidence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := *ev
	created.ID = r.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.evidence[created.ID] = &created
	result := created
	return &result, nil
}

func (r *evidenceRepository) Get(ctx context.Context, id int64) (*model.Evidence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ev, exists := r.evidence[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "evidence not found", goerr.V("id", id))
	}

	copied := *ev
	return &copied, nil
}

func (r *evidenceRepository) List(ctx context.Context) ([]*model.Evidence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*model.Evidence, 0, len(r.evidence))
	for _, ev := range r.evidence {
		copied := *ev
		items = append(items, &copied)
	}

	return items, nil
}

func (r *evidenceRepository) Update(ctx context.Context, ev *model.Evidence) (*model.Evidence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.evidence[ev.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "evidence not found", goerr.V("id", ev.ID))
	}

	updated := *ev
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.evidence[updated.ID] = &updated
	result := updated
	return &result, nil
}

func (r *evidenceRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.evidence[id]; !exists {
		return goerr.Wrap(ErrNotFound, "evidence not found", goerr.V("id", id))
	}

	delete(r.evidence, id)
	return nil
}
