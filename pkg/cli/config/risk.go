package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	toml "github.com/pelletier/go-toml/v2"
	domainConfig "github.com/secmon-lab/briareus/pkg/domain/model/config"
	"github.com/urfave/cli/v3"
)

// Risk holds the CLI flag for the risk configuration file
type Risk struct {
	path string
}

// Flags returns CLI flags for risk configuration
func (r *Risk) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "risk-config",
			Usage:       "Path to risk configuration TOML file (scales, high-impact threshold, appetite bands)",
			Sources:     cli.EnvVars("BRIAREUS_RISK_CONFIG"),
			Destination: &r.path,
		},
	}
}

// Path returns the configured file path
func (r *Risk) Path() string {
	return r.path
}

// Configure loads and validates the risk configuration. Returns nil when no
// file is specified; the engine then falls back to its built-in defaults.
func (r *Risk) Configure() (*domainConfig.RiskConfig, error) {
	if r.path == "" {
		return nil, nil
	}
	return LoadRiskConfiguration(r.path)
}

// LoadRiskConfiguration loads the risk configuration from a TOML file
func LoadRiskConfiguration(path string) (*domainConfig.RiskConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read risk config file", goerr.V("path", path))
	}

	var cfg domainConfig.RiskConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML risk config", goerr.V("path", path))
	}

	if err := ValidateRiskConfiguration(&cfg); err != nil {
		return nil, goerr.Wrap(err, "risk config validation failed", goerr.V("path", path))
	}

	return &cfg, nil
}

// ValidateRiskConfiguration checks the loaded configuration. Scales must be
// contiguous from level 1 when present; the threshold must match a 5-point
// scale; appetite bands must each have a sane range, though gaps and
// overlaps between bands are allowed.
func ValidateRiskConfiguration(cfg *domainConfig.RiskConfig) error {
	if err := validateScale("likelihood", cfg.Likelihood); err != nil {
		return err
	}
	if err := validateScale("impact", cfg.Impact); err != nil {
		return err
	}

	if cfg.HighImpactThreshold < 0 || cfg.HighImpactThreshold > 5 {
		return goerr.New("high_impact_threshold must be between 1 and 5",
			goerr.V("threshold", cfg.HighImpactThreshold))
	}

	for i, b := range cfg.AppetiteBands {
		if b.Label == "" {
			return goerr.New("appetite band label is required", goerr.V("index", i))
		}
		if b.MinScore < 1 || b.MaxScore > 25 || b.MinScore > b.MaxScore {
			return goerr.New("appetite band range must satisfy 1 <= min <= max <= 25",
				goerr.V("label", b.Label),
				goerr.V("min", b.MinScore),
				goerr.V("max", b.MaxScore))
		}
	}

	return nil
}

func validateScale(name string, levels []domainConfig.MatrixLevel) error {
	if len(levels) == 0 {
		return nil
	}
	if len(levels) > 5 {
		return goerr.New("scale has too many levels", goerr.V("scale", name), goerr.V("count", len(levels)))
	}

	seen := make(map[int]bool, len(levels))
	for _, lv := range levels {
		if lv.Label == "" {
			return goerr.New("scale level label is required", goerr.V("scale", name), goerr.V("level", lv.Level))
		}
		if lv.Level < 1 || lv.Level > len(levels) {
			return goerr.New("scale levels must be contiguous from 1",
				goerr.V("scale", name), goerr.V("level", lv.Level), goerr.V("count", len(levels)))
		}
		if seen[lv.Level] {
			return goerr.New("duplicate scale level", goerr.V("scale", name), goerr.V("level", lv.Level))
		}
		seen[lv.Level] = true
	}

	return nil
}
