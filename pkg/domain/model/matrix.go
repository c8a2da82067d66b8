package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/types"
)

// MatrixLevel is one ordinal level of a matrix scale
type MatrixLevel struct {
	Level       int
	Label       string
	Description string
}

// RiskMatrix defines the ordinal likelihood and impact scales that
// parametrize scoring. At most one matrix is active at a time.
type RiskMatrix struct {
	ID         int64
	Name       string
	Likelihood []MatrixLevel
	Impact     []MatrixLevel
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Levels returns the ordered levels for the given scale kind
func (m *RiskMatrix) Levels(kind types.LevelKind) []MatrixLevel {
	if kind == types.LevelKindLikelihood {
		return m.Likelihood
	}
	return m.Impact
}

// Validate checks that both scales are contiguous integers starting at 1
func (m *RiskMatrix) Validate() error {
	if m.Name == "" {
		return goerr.Wrap(ErrValidation, "matrix name is required")
	}
	if err := validateScale(m.Likelihood); err != nil {
		return goerr.Wrap(err, "invalid likelihood scale")
	}
	if err := validateScale(m.Impact); err != nil {
		return goerr.Wrap(err, "invalid impact scale")
	}
	return nil
}

func validateScale(levels []MatrixLevel) error {
	if len(levels) == 0 {
		return goerr.Wrap(ErrValidation, "scale requires at least one level")
	}
	for i, lv := range levels {
		if lv.Level != i+1 {
			return goerr.Wrap(ErrValidation, "levels must be contiguous from 1",
				goerr.V("position", i), goerr.V("level", lv.Level))
		}
		if lv.Label == "" {
			return goerr.Wrap(ErrValidation, "level label is required", goerr.V("level", lv.Level))
		}
	}
	return nil
}
