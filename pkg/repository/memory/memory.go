package memory

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = goerr.New("record not found")

// Memory is an in-memory implementation of interfaces.Repository,
// intended for development and tests.
type Memory struct {
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

var _ interfaces.Repository = &Memory{}

// New creates a new in-memory repository
func New() *Memory {
	return &Memory{
		risk:             newRiskRepository(),
		matrix:           newMatrixRepository(),
		appetite:         newAppetiteRepository(),
		internalControl:  newInternalControlRepository(),
		frameworkControl: newFrameworkControlRepository(),
		framework:        newFrameworkRepository(),
		finding:          newFindingRepository(),
		bia:              newBiaRepository(),
		asset:            newAssetRepository(),
		treatment:        newTreatmentRepository(),
		policy:           newPolicyRepository(),
		vendor:           newVendorRepository(),
		evidence:         newEvidenceRepository(),
		snapshot:         newSnapshotRepository(),
	}
}

func (m *Memory) Risk() interfaces.RiskRepository                         { return m.risk }
func (m *Memory) Matrix() interfaces.MatrixRepository                     { return m.matrix }
func (m *Memory) Appetite() interfaces.AppetiteRepository                 { return m.appetite }
func (m *Memory) InternalControl() interfaces.InternalControlRepository   { return m.internalControl }
func (m *Memory) FrameworkControl() interfaces.FrameworkControlRepository { return m.frameworkControl }
func (m *Memory) Framework() interfaces.FrameworkRepository               { return m.framework }
func (m *Memory) Finding() interfaces.FindingRepository                   { return m.finding }
func (m *Memory) Bia() interfaces.BiaRepository                           { return m.bia }
func (m *Memory) Asset() interfaces.AssetRepository                       { return m.asset }
func (m *Memory) Treatment() interfaces.TreatmentRepository               { return m.treatment }
func (m *Memory) Policy() interfaces.PolicyRepository                     { return m.policy }
func (m *Memory) Vendor() interfaces.VendorRepository                     { return m.vendor }
func (m *Memory) Evidence() interfaces.EvidenceRepository                 { return m.evidence }
func (m *Memory) Snapshot() interfaces.SnapshotRepository                 { return m.snapshot }

// Close releases nothing; present to satisfy interfaces.Repository
func (m *Memory) Close() error {
	return nil
}
