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

type policyDocument struct {
	ID         int64     `firestore:"id"`
	Name       string    `firestore:"name"`
	OwnerID    string    `firestore:"owner_id"`
	Status     string    `firestore:"status"`
	ReviewDate time.Time `firestore:"review_date"`
	CreatedAt  time.Time `firestore:"created_at"`
	UpdatedAt  time.Time `firestore:"updated_at"`
}

func toPolicyDocument(policy *model.Policy) *policyDocument {
	return &policyDocument{
		ID:         policy.ID,
		Name:       policy.Name,
		OwnerID:    policy.OwnerID,
		Status:     policy.Status.String(),
		ReviewDate: policy.ReviewDate,
		CreatedAt:  policy.CreatedAt,
		UpdatedAt:  policy.UpdatedAt,
	}
}

func (d *policyDocument) toModel() *model.Policy {
	return &model.Policy{
		ID:         d.ID,
		Name:       d.Name,
		OwnerID:    d.OwnerID,
		Status:     types.PolicyStatus(d.Status),
		ReviewDate: d.ReviewDate,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

type policyRepository struct {
	client *firestore.Client
	prefix string
}

func (r *policyRepository) collection() string { return r.prefix + "policies" }

func (r *policyRepository) Create(ctx context.Context, policy *model.Policy) (*model.Policy, error) {
	id, err := nextID(ctx, r.client, r.prefix, "policy_counter")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := *policy
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))
	if _, err := docRef.Set(ctx, toPolicyDocument(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create policy")
	}

	return &created, nil
}

func (r *policyRepository) Get(ctx context.Context, id int64) (*model.Policy, error) {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "policy not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get policy", goerr.V("id", id))
	}

	var policyDoc policyDocument
	if err := doc.DataTo(&policyDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal policy", goerr.V("id", id))
	}

	return policyDoc.toModel(), nil
}

func (r *policyRepository) List(ctx context.Context) ([]*model.Policy, error) {
	iter := r.client.Collection(r.collection()).Documents(ctx)
	defer iter.Stop()

	var policies []*model.Policy
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate policies")
		}

		var policyDoc policyDocument
		if err := doc.DataTo(&policyDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal policy")
		}

		policies = append(policies, policyDoc.toModel())
	}

	return policies, nil
}

func (r *policyRepository) Update(ctx context.Context, policy *model.Policy) (*model.Policy, error) {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", policy.ID))

	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "policy not found", goerr.V("id", policy.ID))
		}
		return nil, goerr.Wrap(err, "failed to get policy", goerr.V("id", policy.ID))
	}

	var existing policyDocument
	if err := doc.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal policy", goerr.V("id", policy.ID))
	}

	updated := *policy
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, toPolicyDocument(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update policy", goerr.V("id", policy.ID))
	}

	return &updated, nil
}

func (r *policyRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))

	_, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "policy not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get policy", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete policy", goerr.V("id", id))
	}

	return nil
}

type vendorDocument struct {
	ID         int64     `firestore:"id"`
	Name       string    `firestore:"name"`
	RiskRating string    `firestore:"risk_rating"`
	ReviewDate time.Time `firestore:"review_date"`
	CreatedAt  time.Time `firestore:"created_at"`
	UpdatedAt  time.Time `firestore:"updated_at"`
}

func toVendorDocument(vendor *model.Vendor) *vendorDocument {
	return &vendorDocument{
		ID:         vendor.ID,
		Name:       vendor.Name,
		RiskRating: vendor.RiskRating.String(),
		ReviewDate: vendor.ReviewDate,
		CreatedAt:  vendor.CreatedAt,
		UpdatedAt:  vendor.UpdatedAt,
	}
}

func (d *vendorDocument) toModel() *model.Vendor {
	return &model.Vendor{
		ID:         d.ID,
		Name:       d.Name,
		RiskRating: types.RiskLevel(d.RiskRating),
		ReviewDate: d.ReviewDate,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

type vendorRepository struct {
	client *firestore.Client
	prefix string
}

func (r *vendorRepository) collection() string { return r.prefix + "vendors" }

func (r *vendorRepository) Create(ctx context.Context, vendor *model.Vendor) (*model.Vendor, error) {
	id, err := nextID(ctx, r.client, r.prefix, "vendor_counter")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := *vendor
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))
	if _, err := docRef.Set(ctx, toVendorDocument(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create vendor")
	}

	return &created, nil
}

func (r *vendorRepository) Get(ctx context.Context, id int64) (*model.Vendor, error) {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "vendor not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get vendor", goerr.V("id", id))
	}

	var vendorDoc vendorDocument
	if err := doc.DataTo(&vendorDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal vendor", goerr.V("id", id))
	}

	return vendorDoc.toModel(), nil
}

func (r *vendorRepository) List(ctx context.Context) ([]*model.Vendor, error) {
	iter := r.client.Collection(r.collection()).Documents(ctx)
	defer iter.Stop()

	var vendors []*model.Vendor
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate vendors")
		}

		var vendorDoc vendorDocument
		if err := doc.DataTo(&vendorDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal vendor")
		}

		vendors = append(vendors, vendorDoc.toModel())
	}

	return vendors, nil
}

func (r *vendorRepository) Update(ctx context.Context, vendor *model.Vendor) (*model.Vendor, error) {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", vendor.ID))

	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "vendor not found", goerr.V("id", vendor.ID))
		}
		return nil, goerr.Wrap(err, "failed to get vendor", goerr.V("id", vendor.ID))
	}

	var existing vendorDocument
	if err := doc.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal vendor", goerr.V("id", vendor.ID))
	}

	updated := *vendor
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, toVendorDocument(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update vendor", goerr.V("id", vendor.ID))
	}

	return &updated, nil
}

func (r *vendorRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))

	_, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "vendor not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get vendor", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete vendor", goerr.V("id", id))
	}

	return nil
}

type evidenceDocument struct {
	ID          int64     `firestore:"id"`
	Name        string    `firestore:"name"`
	StorageKey  string    `firestore:"storage_key"`
	ControlKind string    `firestore:"control_kind"`
	ControlID   int64     `firestore:"control_id"`
	CollectedAt time.Time `firestore:"collected_at"`
	ExpiresAt   time.Time `firestore:"expires_at"`
	CreatedAt   time.Time `firestore:"created_at"`
	UpdatedAt   time.Time `firestore:"updated_at"`
}

func toEvidenceDocument(ev *model.Evidence) *evidenceDocument {
	return &evidenceDocument{
		ID:          ev.ID,
		Name:        ev.Name,
		StorageKey:  ev.StorageKey,
		ControlKind: ev.ControlKind.String(),
		ControlID:   ev.ControlID,
		CollectedAt: ev.CollectedAt,
		ExpiresAt:   ev.ExpiresAt,
		CreatedAt:   ev.CreatedAt,
		UpdatedAt:   ev.UpdatedAt,
	}
}

func (d *evidenceDocument) toModel() *model.Evidence {
	return &model.Evidence{
		ID:          d.ID,
		Name:        d.Name,
		StorageKey:  d.StorageKey,
		ControlKind: types.ControlKind(d.ControlKind),
		ControlID:   d.ControlID,
		CollectedAt: d.CollectedAt,
		ExpiresAt:   d.ExpiresAt,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type evidenceRepository struct {
	client *firestore.Client
	prefix string
}

func (r *evidenceRepository) collection() string { return r.prefix + "evidence" }

func (r *evidenceRepository) Create(ctx context.Context, ev *model.Evidence) (*model.Evidence, error) {
	id, err := nextID(ctx, r.client, r.prefix, "evidence_counter")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := *ev
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))
	if _, err := docRef.Set(ctx, toEvidenceDocument(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create evidence")
	}

	return &created, nil
}

func (r *evidenceRepository) Get(ctx context.Context, id int64) (*model.Evidence, error) {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "evidence not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get evidence", goerr.V("id", id))
	}

	var evidenceDoc evidenceDocument
	if err := doc.DataTo(&evidenceDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal evidence", goerr.V("id", id))
	}

	return evidenceDoc.toModel(), nil
}

func (r *evidenceRepository) List(ctx context.Context) ([]*model.Evidence, error) {
	iter := r.client.Collection(r.collection()).Documents(ctx)
	defer iter.Stop()

	var evs []*model.Evidence
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate evidence")
		}

		var evidenceDoc evidenceDocument
		if err := doc.DataTo(&evidenceDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal evidence")
		}

		evs = append(evs, evidenceDoc.toModel())
	}

	return evs, nil
}

func (r *evidenceRepository) Update(ctx context.Context, ev *model.Evidence) (*model.Evidence, error) {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", ev.ID))

	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "evidence not found", goerr.V("id", ev.ID))
		}
		return nil, goerr.Wrap(err, "failed to get evidence", goerr.V("id", ev.ID))
	}

	var existing evidenceDocument
	if err := doc.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal evidence", goerr.V("id", ev.ID))
	}

	updated := *ev
	updated.ID = existing.ID
	updated.StorageKey = existing.StorageKey
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, toEvidenceDocument(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update evidence", goerr.V("id", ev.ID))
	}

	return &updated, nil
}

func (r *evidenceRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))

	_, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "evidence not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get evidence", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete evidence", goerr.V("id", id))
	}

	return nil
}
