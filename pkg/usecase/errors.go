package usecase

import (
	"errors"

	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/repository/firestore"
	"github.com/secmon-lab/briareus/pkg/repository/memory"
)

// IsNotFound reports whether the error is a missing-record error from
// either repository backend.
func IsNotFound(err error) bool {
	return errors.Is(err, memory.ErrNotFound) || errors.Is(err, firestore.ErrNotFound)
}

// IsValidation reports whether the error originated from domain validation
func IsValidation(err error) bool {
	return errors.Is(err, model.ErrValidation)
}
