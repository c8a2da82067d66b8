package types

import "fmt"

// Likelihood represents how likely a risk is to materialize
type Likelihood string

const (
	LikelihoodAlmostCertain Likelihood = "almost_certain"
	LikelihoodLikely        Likelihood = "likely"
	LikelihoodPossible      Likelihood = "possible"
	LikelihoodUnlikely      Likelihood = "unlikely"
	LikelihoodRare          Likelihood = "rare"
)

// AllLikelihoods returns all valid likelihoods
func AllLikelihoods() []Likelihood {
	return []Likelihood{
		LikelihoodAlmostCertain,
		LikelihoodLikely,
		LikelihoodPossible,
		LikelihoodUnlikely,
		LikelihoodRare,
	}
}

// IsValid checks if the likelihood is valid
func (l Likelihood) IsValid() bool {
	switch l {
	case LikelihoodAlmostCertain,
		LikelihoodLikely,
		LikelihoodPossible,
		LikelihoodUnlikely,
		LikelihoodRare:
		return true
	default:
		return false
	}
}

// Score returns the fixed numeric weight of the likelihood (almost_certain=5 .. rare=1).
// It panics on an unknown value: external input must go through ParseLikelihood first.
func (l Likelihood) Score() int {
	switch l {
	case LikelihoodAlmostCertain:
		return 5
	case LikelihoodLikely:
		return 4
	case LikelihoodPossible:
		return 3
	case LikelihoodUnlikely:
		return 2
	case LikelihoodRare:
		return 1
	default:
		panic(fmt.Sprintf("unknown likelihood: %s", string(l)))
	}
}

// String returns the string representation of the likelihood
func (l Likelihood) String() string {
	return string(l)
}

// ParseLikelihood parses a string into a Likelihood
func ParseLikelihood(s string) (Likelihood, error) {
	lik := Likelihood(s)
	if !lik.IsValid() {
		return "", fmt.Errorf("invalid likelihood: %s", s)
	}
	return lik, nil
}
