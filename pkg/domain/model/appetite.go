package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// AppetiteBand is a labeled inclusive score range with the actions an
// organization authorizes for scores in that range.
type AppetiteBand struct {
	Label             string
	MinScore          int
	MaxScore          int
	AuthorizedActions []string
}

// Contains reports whether the score falls in the band's inclusive range
func (b *AppetiteBand) Contains(score int) bool {
	return score >= b.MinScore && score <= b.MaxScore
}

// RiskAppetite owns an ordered set of bands. At most one appetite is active
// at a time.
type RiskAppetite struct {
	ID        int64
	Name      string
	Bands     []AppetiteBand
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MatchBand returns the first band, in stored order, whose range contains
// the score, or nil when no band matches. Bands may be stored in arbitrary
// order and may overlap or leave gaps; the policy is first-match, not
// narrowest-match. A nil result is an appetite violation to be escalated by
// the caller, never silently ignored.
func (a *RiskAppetite) MatchBand(score int) *AppetiteBand {
	for i := range a.Bands {
		if a.Bands[i].Contains(score) {
			return &a.Bands[i]
		}
	}
	return nil
}

// Validate checks the appetite's user-entered fields. Gaps and overlaps
// between bands are tolerated; only the per-band ranges are checked.
func (a *RiskAppetite) Validate() error {
	if a.Name == "" {
		return goerr.Wrap(ErrValidation, "appetite name is required")
	}
	for i, b := range a.Bands {
		if b.Label == "" {
			return goerr.Wrap(ErrValidation, "band label is required", goerr.V("index", i))
		}
		if b.MinScore > b.MaxScore {
			return goerr.Wrap(ErrValidation, "band min exceeds max",
				goerr.V("label", b.Label), goerr.V("min", b.MinScore), goerr.V("max", b.MaxScore))
		}
	}
	return nil
}
