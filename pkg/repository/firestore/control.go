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

type internalControlDocument struct {
	ID               int64     `firestore:"id"`
	Name             string    `firestore:"name"`
	Description      string    `firestore:"description"`
	OwnerID          string    `firestore:"owner_id"`
	ComplianceStatus string    `firestore:"compliance_status"`
	LastAssessedAt   time.Time `firestore:"last_assessed_at"`
	CreatedAt        time.Time `firestore:"created_at"`
	UpdatedAt        time.Time `firestore:"updated_at"`
}

func toInternalControlDocument(control *model.InternalControl) *internalControlDocument {
	return &internalControlDocument{
		ID:               control.ID,
		Name:             control.Name,
		Description:      control.Description,
		OwnerID:          control.OwnerID,
		ComplianceStatus: control.ComplianceStatus.String(),
		LastAssessedAt:   control.LastAssessedAt,
		CreatedAt:        control.CreatedAt,
		UpdatedAt:        control.UpdatedAt,
	}
}

func (d *internalControlDocument) toModel() *model.InternalControl {
	return &model.InternalControl{
		ID:               d.ID,
		Name:             d.Name,
		Description:      d.Description,
		OwnerID:          d.OwnerID,
		ComplianceStatus: types.ComplianceStatus(d.ComplianceStatus),
		LastAssessedAt:   d.LastAssessedAt,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

type internalControlRepository struct {
	client *firestore.Client
	prefix string
}

func (r *internalControlRepository) collection() string { return r.prefix + "internal_controls" }

func (r *internalControlRepository) Create(ctx context.Context, control *model.InternalControl) (*model.InternalControl, error) {
	id, err := nextID(ctx, r.client, r.prefix, "internal_control_counter")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := *control
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))
	if _, err := docRef.Set(ctx, toInternalControlDocument(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create internal control")
	}

	return &created, nil
}

func (r *internalControlRepository) Get(ctx context.Context, id int64) (*model.InternalControl, error) {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "internal control not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get internal control", goerr.V("id", id))
	}

	var controlDoc internalControlDocument
	if err := doc.DataTo(&controlDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal internal control", goerr.V("id", id))
	}

	return controlDoc.toModel(), nil
}

func (r *internalControlRepository) List(ctx context.Context) ([]*model.InternalControl, error) {
	iter := r.client.Collection(r.collection()).Documents(ctx)
	defer iter.Stop()

	var controls []*model.InternalControl
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate internal controls")
		}

		var controlDoc internalControlDocument
		if err := doc.DataTo(&controlDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal internal control")
		}

		controls = append(controls, controlDoc.toModel())
	}

	return controls, nil
}

func (r *internalControlRepository) Update(ctx context.Context, control *model.InternalControl) (*model.InternalControl, error) {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", control.ID))

	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "internal control not found", goerr.V("id", control.ID))
		}
		return nil, goerr.Wrap(err, "failed to get internal control", goerr.V("id", control.ID))
	}

	var existing internalControlDocument
	if err := doc.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal internal control", goerr.V("id", control.ID))
	}

	updated := *control
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, toInternalControlDocument(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update internal control", goerr.V("id", control.ID))
	}

	return &updated, nil
}

func (r *internalControlRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))

	_, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "internal control not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get internal control", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete internal control", goerr.V("id", id))
	}

	return nil
}

type frameworkControlDocument struct {
	ID               int64     `firestore:"id"`
	FrameworkID      int64     `firestore:"framework_id"`
	Code             string    `firestore:"code"`
	Name             string    `firestore:"name"`
	Description      string    `firestore:"description"`
	Implemented      bool      `firestore:"implemented"`
	ComplianceStatus string    `firestore:"compliance_status"`
	LastAssessedAt   time.Time `firestore:"last_assessed_at"`
	CreatedAt        time.Time `firestore:"created_at"`
	UpdatedAt        time.Time `firestore:"updated_at"`
}

func toFrameworkControlDocument(control *model.FrameworkControl) *frameworkControlDocument {
	return &frameworkControlDocument{
		ID:               control.ID,
		FrameworkID:      control.FrameworkID,
		Code:             control.Code,
		Name:             control.Name,
		Description:      control.Description,
		Implemented:      control.Implemented,
		ComplianceStatus: control.ComplianceStatus.String(),
		LastAssessedAt:   control.LastAssessedAt,
		CreatedAt:        control.CreatedAt,
		UpdatedAt:        control.UpdatedAt,
	}
}

func (d *frameworkControlDocument) toModel() *model.FrameworkControl {
	return &model.FrameworkControl{
		ID:               d.ID,
		FrameworkID:      d.FrameworkID,
		Code:             d.Code,
		Name:             d.Name,
		Description:      d.Description,
		Implemented:      d.Implemented,
		ComplianceStatus: types.ComplianceStatus(d.ComplianceStatus),
		LastAssessedAt:   d.LastAssessedAt,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

type frameworkControlRepository struct {
	client *firestore.Client
	prefix string
}

func (r *frameworkControlRepository) collection() string { return r.prefix + "framework_controls" }

func (r *frameworkControlRepository) Create(ctx context.Context, control *model.FrameworkControl) (*model.FrameworkControl, error) {
	id, err := nextID(ctx, r.client, r.prefix, "framework_control_counter")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := *control
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))
	if _, err := docRef.Set(ctx, toFrameworkControlDocument(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create framework control")
	}

	return &created, nil
}

func (r *frameworkControlRepository) Get(ctx context.Context, id int64) (*model.FrameworkControl, error) {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "framework control not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get framework control", goerr.V("id", id))
	}

	var controlDoc frameworkControlDocument
	if err := doc.DataTo(&controlDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal framework control", goerr.V("id", id))
	}

	return controlDoc.toModel(), nil
}

func (r *frameworkControlRepository) List(ctx context.Context) ([]*model.FrameworkControl, error) {
	return r.list(ctx, r.client.Collection(r.collection()).Query)
}

func (r *frameworkControlRepository) ListByFramework(ctx context.Context, frameworkID int64) ([]*model.FrameworkControl, error) {
	return r.list(ctx, r.client.Collection(r.collection()).Where("framework_id", "==", frameworkID))
}

func (r *frameworkControlRepository) list(ctx context.Context, query firestore.Query) ([]*model.FrameworkControl, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var controls []*model.FrameworkControl
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate framework controls")
		}

		var controlDoc frameworkControlDocument
		if err := doc.DataTo(&controlDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal framework control")
		}

		controls = append(controls, controlDoc.toModel())
	}

	return controls, nil
}

func (r *frameworkControlRepository) Update(ctx context.Context, control *model.FrameworkControl) (*model.FrameworkControl, error) {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", control.ID))

	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "framework control not found", goerr.V("id", control.ID))
		}
		return nil, goerr.Wrap(err, "failed to get framework control", goerr.V("id", control.ID))
	}

	var existing frameworkControlDocument
	if err := doc.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal framework control", goerr.V("id", control.ID))
	}

	updated := *control
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, toFrameworkControlDocument(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update framework control", goerr.V("id", control.ID))
	}

	return &updated, nil
}

func (r *frameworkControlRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))

	_, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "framework control not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get framework control", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete framework control", goerr.V("id", id))
	}

	return nil
}

type frameworkDocument struct {
	ID        int64     `firestore:"id"`
	Name      string    `firestore:"name"`
	Version   string    `firestore:"version"`
	Active    bool      `firestore:"active"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func toFrameworkDocument(framework *model.ControlFramework) *frameworkDocument {
	return &frameworkDocument{
		ID:        framework.ID,
		Name:      framework.Name,
		Version:   framework.Version,
		Active:    framework.Active,
		CreatedAt: framework.CreatedAt,
		UpdatedAt: framework.UpdatedAt,
	}
}

func (d *frameworkDocument) toModel() *model.ControlFramework {
	return &model.ControlFramework{
		ID:        d.ID,
		Name:      d.Name,
		Version:   d.Version,
		Active:    d.Active,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type frameworkRepository struct {
	client *firestore.Client
	prefix string
}

func (r *frameworkRepository) collection() string { return r.prefix + "control_frameworks" }

func (r *frameworkRepository) Create(ctx context.Context, framework *model.ControlFramework) (*model.ControlFramework, error) {
	id, err := nextID(ctx, r.client, r.prefix, "framework_counter")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := *framework
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))
	if _, err := docRef.Set(ctx, toFrameworkDocument(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create framework")
	}

	return &created, nil
}

func (r *frameworkRepository) Get(ctx context.Context, id int64) (*model.ControlFramework, error) {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "framework not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get framework", goerr.V("id", id))
	}

	var frameworkDoc frameworkDocument
	if err := doc.DataTo(&frameworkDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal framework", goerr.V("id", id))
	}

	return frameworkDoc.toModel(), nil
}

func (r *frameworkRepository) List(ctx context.Context) ([]*model.ControlFramework, error) {
	iter := r.client.Collection(r.collection()).Documents(ctx)
	defer iter.Stop()

	var frameworks []*model.ControlFramework
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate frameworks")
		}

		var frameworkDoc frameworkDocument
		if err := doc.DataTo(&frameworkDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal framework")
		}

		frameworks = append(frameworks, frameworkDoc.toModel())
	}

	return frameworks, nil
}

func (r *frameworkRepository) Update(ctx context.Context, framework *model.ControlFramework) (*model.ControlFramework, error) {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", framework.ID))

	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "framework not found", goerr.V("id", framework.ID))
		}
		return nil, goerr.Wrap(err, "failed to get framework", goerr.V("id", framework.ID))
	}

	var existing frameworkDocument
	if err := doc.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal framework", goerr.V("id", framework.ID))
	}

	updated := *framework
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, toFrameworkDocument(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update framework", goerr.V("id", framework.ID))
	}

	return &updated, nil
}

func (r *frameworkRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))

	_, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "framework not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get framework", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete framework", goerr.V("id", id))
	}

	return nil
}

func (r *frameworkRepository) SetActive(ctx context.Context, id int64) error {
	target := r.client.Collection(r.collection()).Doc(fmt.Sprintf("%d", id))
	if _, err := target.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "framework not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get framework", goerr.V("id", id))
	}

	now := time.Now().UTC()

	iter := r.client.Collection(r.collection()).Where("active", "==", true).Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to query active frameworks")
		}
		if _, err := doc.Ref.Update(ctx, []firestore.Update{
			{Path: "active", Value: false},
			{Path: "updated_at", Value: now},
		}); err != nil {
			return goerr.Wrap(err, "failed to deactivate framework")
		}
	}

	if _, err := target.Update(ctx, []firestore.Update{
		{Path: "active", Value: true},
		{Path: "updated_at", Value: now},
	}); err != nil {
		return goerr.Wrap(err, "failed to activate framework", goerr.V("id", id))
	}

	return nil
}
