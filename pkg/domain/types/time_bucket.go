package types

import "fmt"

// TimeBucket is a fixed time-to-impact bucket in a BIA timeline
type TimeBucket string

const (
	TimeBucket1Day    TimeBucket = "1d"
	TimeBucket3Days   TimeBucket = "3d"
	TimeBucket1Week   TimeBucket = "1w"
	TimeBucket2Weeks  TimeBucket = "2w"
	TimeBucket1Month  TimeBucket = "1m"
	TimeBucketOver1Mo TimeBucket = "gt1m"
)

// AllTimeBuckets returns the buckets in ascending time-to-impact order.
// The order is fixed; criticality derivation walks it front to back.
func AllTimeBuckets() []TimeBucket {
	return []TimeBucket{
		TimeBucket1Day,
		TimeBucket3Days,
		TimeBucket1Week,
		TimeBucket2Weeks,
		TimeBucket1Month,
		TimeBucketOver1Mo,
	}
}

// IsValid checks if the time bucket is valid
func (b TimeBucket) IsValid() bool {
	switch b {
	case TimeBucket1Day,
		TimeBucket3Days,
		TimeBucket1Week,
		TimeBucket2Weeks,
		TimeBucket1Month,
		TimeBucketOver1Mo:
		return true
	default:
		return false
	}
}

// Criticality returns the criticality label assigned when this bucket is the
// earliest one whose impact reaches the high threshold.
func (b TimeBucket) Criticality() Criticality {
	switch b {
	case TimeBucket1Day:
		return CriticalityCritical
	case TimeBucket3Days:
		return CriticalityHigh
	case TimeBucket1Week, TimeBucket2Weeks:
		return CriticalityMedium
	default:
		return CriticalityLow
	}
}

// Hours returns the Maximum Tolerable Downtime the bucket represents
func (b TimeBucket) Hours() int {
	switch b {
	case TimeBucket1Day:
		return 24
	case TimeBucket3Days:
		return 72
	case TimeBucket1Week:
		return 168
	case TimeBucket2Weeks:
		return 336
	case TimeBucket1Month:
		return 720
	default:
		return 1440
	}
}

// String returns the string representation of the time bucket
func (b TimeBucket) String() string {
	return string(b)
}

// ParseTimeBucket parses a string into a TimeBucket
func ParseTimeBucket(s string) (TimeBucket, error) {
	b := TimeBucket(s)
	if !b.IsValid() {
		return "", fmt.Errorf("invalid time bucket: %s", s)
	}
	return b, nil
}
