package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Risk() RiskRepository
	Matrix() MatrixRepository
	Appetite() AppetiteRepository
	InternalControl() InternalControlRepository
	FrameworkControl() FrameworkControlRepository
	Framework() FrameworkRepository
	Finding() FindingRepository
	Bia() BiaRepository
	Asset() AssetRepository
	Treatment() TreatmentRepository
	Policy() PolicyRepository
	Vendor() VendorRepository
	Evidence() EvidenceRepository
	Snapshot() SnapshotRepository

	Close() error
}
