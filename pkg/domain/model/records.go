package model

import (
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/types"
)

// Policy is a governed policy document. Read by the dashboard only; no
// derivation logic attaches to it.
type Policy struct {
	ID         int64
	Name       string
	OwnerID    string
	Status     types.PolicyStatus
	ReviewDate time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Vendor is a third party tracked for vendor risk. Dashboard-only.
type Vendor struct {
	ID         int64
	Name       string
	RiskRating types.RiskLevel
	ReviewDate time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Evidence is a pointer to an uploaded artifact supporting a control.
// The engine never touches the bytes; StorageKey is assigned on create.
type Evidence struct {
	ID          int64
	Name        string
	StorageKey  string
	ControlKind types.ControlKind
	ControlID   int64
	CollectedAt time.Time
	ExpiresAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
