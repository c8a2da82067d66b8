package types

import "fmt"

// ControlKind distinguishes the two control collections
type ControlKind string

const (
	ControlKindInternal  ControlKind = "internal_control"
	ControlKindFramework ControlKind = "framework_control"
)

// AllControlKinds returns all valid control kinds
func AllControlKinds() []ControlKind {
	return []ControlKind{
		ControlKindInternal,
		ControlKindFramework,
	}
}

// IsValid checks if the control kind is valid
func (k ControlKind) IsValid() bool {
	switch k {
	case ControlKindInternal, ControlKindFramework:
		return true
	default:
		return false
	}
}

// String returns the string representation of the control kind
func (k ControlKind) String() string {
	return string(k)
}

// ParseControlKind parses a string into a ControlKind
func ParseControlKind(s string) (ControlKind, error) {
	k := ControlKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid control kind: %s", s)
	}
	return k, nil
}
