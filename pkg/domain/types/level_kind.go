package types

import "fmt"

// LevelKind selects one of the two ordinal scales of a risk matrix
type LevelKind string

const (
	LevelKindLikelihood LevelKind = "likelihood"
	LevelKindImpact     LevelKind = "impact"
)

// IsValid checks if the level kind is valid
func (k LevelKind) IsValid() bool {
	return k == LevelKindLikelihood || k == LevelKindImpact
}

// String returns the string representation of the level kind
func (k LevelKind) String() string {
	return string(k)
}

// ParseLevelKind parses a string into a LevelKind
func ParseLevelKind(s string) (LevelKind, error) {
	k := LevelKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid level kind: %s", s)
	}
	return k, nil
}
