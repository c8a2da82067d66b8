package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrNotFound is returned when a document does not exist
var ErrNotFound = goerr.New("record not found")

// Firestore is the production implementation of interfaces.Repository
type Firestore struct {
	client           *firestore.Client
	risk             *riskRepository
	matrix           *matrixRepository
	appetite         *appetiteRepository
	internalControl  *internalControlRepository
	frameworkControl *frameworkControlRepository
	framework        *frameworkRepository
	finding          *findingRepository
	bia              *biaRepository
	asset            *assetRepository
	treatment        *treatmentRepository
	policy           *policyRepository
	vendor           *vendorRepository
	evidence         *evidenceRepository
	snapshot         *snapshotRepository
}

var _ interfaces.Repository = &Firestore{}

// Option configures the Firestore repository
type Option func(*options)

type options struct {
	prefix string
}

// WithCollectionPrefix prepends the given prefix to every collection name.
// Used by tests to isolate runs within a shared database.
func WithCollectionPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// New creates a Firestore-backed repository. databaseID may be empty to use
// the default database.
func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var client *firestore.Client
	var err error
	if databaseID == "" {
		client, err = firestore.NewClient(ctx, projectID)
	} else {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	return &Firestore{
		client:           client,
		risk:             &riskRepository{client: client, prefix: o.prefix},
		matrix:           &matrixRepository{client: client, prefix: o.prefix},
		appetite:         &appetiteRepository{client: client, prefix: o.prefix},
		internalControl:  &internalControlRepository{client: client, prefix: o.prefix},
		frameworkControl: &frameworkControlRepository{client: client, prefix: o.prefix},
		framework:        &frameworkRepository{client: client, prefix: o.prefix},
		finding:          &findingRepository{client: client, prefix: o.prefix},
		bia:              &biaRepository{client: client, prefix: o.prefix},
		asset:            &assetRepository{client: client, prefix: o.prefix},
		treatment:        &treatmentRepository{client: client, prefix: o.prefix},
		policy:           &policyRepository{client: client, prefix: o.prefix},
		vendor:           &vendorRepository{client: client, prefix: o.prefix},
		evidence:         &evidenceRepository{client: client, prefix: o.prefix},
		snapshot:         &snapshotRepository{client: client, prefix: o.prefix},
	}, nil
}

func (f *Firestore) Risk() interfaces.RiskRepository                         { return f.risk }
func (f *Firestore) Matrix() interfaces.MatrixRepository                     { return f.matrix }
func (f *Firestore) Appetite() interfaces.AppetiteRepository                 { return f.appetite }
func (f *Firestore) InternalControl() interfaces.InternalControlRepository   { return f.internalControl }
func (f *Firestore) FrameworkControl() interfaces.FrameworkControlRepository { return f.frameworkControl }
func (f *Firestore) Framework() interfaces.FrameworkRepository               { return f.framework }
func (f *Firestore) Finding() interfaces.FindingRepository                   { return f.finding }
func (f *Firestore) Bia() interfaces.BiaRepository                           { return f.bia }
func (f *Firestore) Asset() interfaces.AssetRepository                       { return f.asset }
func (f *Firestore) Treatment() interfaces.TreatmentRepository               { return f.treatment }
func (f *Firestore) Policy() interfaces.PolicyRepository                     { return f.policy }
func (f *Firestore) Vendor() interfaces.VendorRepository                     { return f.vendor }
func (f *Firestore) Evidence() interfaces.EvidenceRepository                 { return f.evidence }
func (f *Firestore) Snapshot() interfaces.SnapshotRepository                 { return f.snapshot }

// Close releases the underlying client
func (f *Firestore) Close() error {
	return f.client.Close()
}

// nextID allocates the next auto-increment ID for a collection using a
// counter document transaction.
func nextID(ctx context.Context, client *firestore.Client, prefix, name string) (int64, error) {
	counterRef := client.Collection(prefix + "counters").Doc(name)

	var id int64
	err := client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(counterRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				id = 1
				return tx.Set(counterRef, map[string]interface{}{
					"value": id,
				})
			}
			return goerr.Wrap(err, "failed to get counter", goerr.V("name", name))
		}

		current, err := doc.DataAt("value")
		if err != nil {
			return goerr.Wrap(err, "failed to get counter value", goerr.V("name", name))
		}

		id = current.(int64) + 1
		return tx.Update(counterRef, []firestore.Update{
			{Path: "value", Value: id},
		})
	})
	if err != nil {
		return 0, goerr.Wrap(err, "counter transaction failed", goerr.V("name", name))
	}

	return id, nil
}
