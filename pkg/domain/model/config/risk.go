package config

// MatrixLevel is one ordinal level of a configured scale
type MatrixLevel struct {
	Level       int    `toml:"level"`
	Label       string `toml:"label"`
	Description string `toml:"description"`
}

// AppetiteBand is a configured default appetite band
type AppetiteBand struct {
	Label             string   `toml:"label"`
	MinScore          int      `toml:"min_score"`
	MaxScore          int      `toml:"max_score"`
	AuthorizedActions []string `toml:"authorized_actions"`
}

// RiskConfig holds the runtime risk configuration: the matrix scales shown
// to users, the impact level at which a BIA bucket counts as "high", and
// the default appetite bands seeded for new deployments.
type RiskConfig struct {
	Likelihood          []MatrixLevel  `toml:"likelihood"`
	Impact              []MatrixLevel  `toml:"impact"`
	HighImpactThreshold int            `toml:"high_impact_threshold"`
	AppetiteBands       []AppetiteBand `toml:"appetite_bands"`
}

// DefaultHighImpactThreshold applies when the configuration omits the
// threshold. Matches a 5-level impact scale where 4 and 5 are "high".
const DefaultHighImpactThreshold = 4

// Threshold returns the configured high-impact threshold or the default
func (c *RiskConfig) Threshold() int {
	if c == nil || c.HighImpactThreshold == 0 {
		return DefaultHighImpactThreshold
	}
	return c.HighImpactThreshold
}
