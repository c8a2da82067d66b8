package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/types"
)

// BiaTimelineEntry records the impact level an asset outage reaches by a
// given time bucket.
type BiaTimelineEntry struct {
	Bucket      types.TimeBucket
	ImpactLevel int
}

// BiaAssessment is a Business Impact Assessment for one primary asset.
// DerivedCriticality and TimeToHighBucket are written once per save and do
// not auto-update when the threshold configuration changes later.
type BiaAssessment struct {
	ID                 int64
	AssetID            int64
	Timeline           []BiaTimelineEntry
	RTOHours           int
	RPOHours           int
	DerivedCriticality types.Criticality
	TimeToHighBucket   *types.TimeBucket
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Validate checks the assessment's user-entered fields. Buckets may be
// missing but never duplicated or unknown.
func (a *BiaAssessment) Validate() error {
	if a.AssetID == 0 {
		return goerr.Wrap(ErrValidation, "assessment requires an asset")
	}
	seen := make(map[types.TimeBucket]bool, len(a.Timeline))
	for _, e := range a.Timeline {
		if !e.Bucket.IsValid() {
			return goerr.Wrap(ErrValidation, "invalid time bucket", goerr.V("bucket", e.Bucket))
		}
		if seen[e.Bucket] {
			return goerr.Wrap(ErrValidation, "duplicate time bucket", goerr.V("bucket", e.Bucket))
		}
		seen[e.Bucket] = true
		if e.ImpactLevel < 1 {
			return goerr.Wrap(ErrValidation, "impact level must be at least 1",
				goerr.V("bucket", e.Bucket), goerr.V("impact_level", e.ImpactLevel))
		}
	}
	return nil
}

// DeriveCriticality walks the fixed bucket order and returns the
// criticality of the earliest bucket present in the timeline whose impact
// level reaches highThreshold, together with that bucket. Missing buckets
// are skipped, not treated as zero impact. When no bucket reaches the
// threshold the result is (Low, nil).
func DeriveCriticality(timeline []BiaTimelineEntry, highThreshold int) (types.Criticality, *types.TimeBucket) {
	byBucket := make(map[types.TimeBucket]int, len(timeline))
	for _, e := range timeline {
		byBucket[e.Bucket] = e.ImpactLevel
	}
	for _, bucket := range types.AllTimeBuckets() {
		level, ok := byBucket[bucket]
		if !ok {
			continue
		}
		if level >= highThreshold {
			b := bucket
			return bucket.Criticality(), &b
		}
	}
	return types.CriticalityLow, nil
}

// Derive recomputes the assessment's derived fields in place
func (a *BiaAssessment) Derive(highThreshold int) {
	a.DerivedCriticality, a.TimeToHighBucket = DeriveCriticality(a.Timeline, highThreshold)
}

// MTDHours returns the Maximum Tolerable Downtime implied by the bucket at
// which impact first reaches high, or zero when it never does.
func (a *BiaAssessment) MTDHours() int {
	if a.TimeToHighBucket == nil {
		return 0
	}
	return a.TimeToHighBucket.Hours()
}
