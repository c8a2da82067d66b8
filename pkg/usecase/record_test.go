package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
	"github.com/secmon-lab/briareus/pkg/repository/memory"
	"github.com/secmon-lab/briareus/pkg/usecase"
)

func TestRecordUseCase_CreateEvidence(t *testing.T) {
	t.Run("assigns a storage key", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		control, err := uc.Control.CreateInternal(ctx, &model.InternalControl{Name: "Key rotation"})
		gt.NoError(t, err).Required()

		ev, err := uc.Record.CreateEvidence(ctx, &model.Evidence{
			Name:        "Rotation log export",
			ControlKind: types.ControlKindInternal,
			ControlID:   control.ID,
		})
		gt.NoError(t, err).Required()
		gt.B(t, strings.HasPrefix(ev.StorageKey, "evidence/")).True()
	})

	t.Run("rejects unknown control", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		_, err := uc.Record.CreateEvidence(ctx, &model.Evidence{
			Name:        "Orphan",
			ControlKind: types.ControlKindInternal,
			ControlID:   404,
		})
		gt.Value(t, err).NotNil()
		gt.B(t, usecase.IsNotFound(err)).True()
	})

	t.Run("rejects missing control kind", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		_, err := uc.Record.CreateEvidence(ctx, &model.Evidence{Name: "Unbound"})
		gt.Value(t, err).NotNil()
		gt.B(t, usecase.IsValidation(err)).True()
	})
}

func TestRecordUseCase_CreatePolicy_NormalizesStatus(t *testing.T) {
	uc := usecase.New(memory.New())
	ctx := context.Background()

	policy, err := uc.Record.CreatePolicy(ctx, &model.Policy{Name: "Data Retention"})
	gt.NoError(t, err).Required()
	gt.Value(t, policy.Status).Equal(types.PolicyStatusDraft)
}
