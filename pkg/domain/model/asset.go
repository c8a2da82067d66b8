package model

import (
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/types"
)

// PrimaryAsset is a business asset subject to Business Impact Assessment.
// Criticality and the recovery objectives mirror the latest saved
// assessment for the asset.
type PrimaryAsset struct {
	ID           int64
	Name         string
	Description  string
	OwnerID      string
	Criticality  types.Criticality
	RTOHours     int
	RPOHours     int
	MTDHours     int
	BIACompleted bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
