package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for domain validation
var (
	// ErrValidation marks caller input outside the allowed domain.
	// It is always raised before any write.
	ErrValidation = goerr.New("validation failed")
)
