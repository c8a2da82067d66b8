package model

import "github.com/secmon-lab/briareus/pkg/domain/types"

// RiskScore returns the product of the severity and likelihood weights.
// The result is an integer in [1,25].
func RiskScore(severity types.Severity, likelihood types.Likelihood) int {
	return severity.Score() * likelihood.Score()
}

// LevelForScore maps a risk score to its coarse level. Each tier boundary is
// inclusive on the lower bound: 20..25 critical, 12..19 high, 6..11 medium,
// 1..5 low.
func LevelForScore(score int) types.RiskLevel {
	switch {
	case score >= 20:
		return types.RiskLevelCritical
	case score >= 12:
		return types.RiskLevelHigh
	case score >= 6:
		return types.RiskLevelMedium
	default:
		return types.RiskLevelLow
	}
}
