package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/repository/memory"
	"github.com/secmon-lab/briareus/pkg/usecase"
)

func newTestMatrix(name string) *model.RiskMatrix {
	return &model.RiskMatrix{
		Name: name,
		Likelihood: []model.MatrixLevel{
			{Level: 1, Label: "Rare"},
			{Level: 2, Label: "Unlikely"},
			{Level: 3, Label: "Possible"},
		},
		Impact: []model.MatrixLevel{
			{Level: 1, Label: "Minor"},
			{Level: 2, Label: "Moderate"},
			{Level: 3, Label: "Severe"},
		},
	}
}

func TestMatrixUseCase_SetActive(t *testing.T) {
	uc := usecase.New(memory.New())
	ctx := context.Background()

	first, err := uc.Matrix.Create(ctx, newTestMatrix("FY25"))
	gt.NoError(t, err).Required()
	second, err := uc.Matrix.Create(ctx, newTestMatrix("FY26"))
	gt.NoError(t, err).Required()

	gt.NoError(t, uc.Matrix.SetActive(ctx, first.ID)).Required()

	active, err := uc.Matrix.GetActive(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, active).NotNil()
	gt.Number(t, active.ID).Equal(first.ID)

	// Activating another matrix deactivates the first
	gt.NoError(t, uc.Matrix.SetActive(ctx, second.ID)).Required()

	active, err = uc.Matrix.GetActive(ctx)
	gt.NoError(t, err).Required()
	gt.Number(t, active.ID).Equal(second.ID)

	stored, err := uc.Matrix.Get(ctx, first.ID)
	gt.NoError(t, err).Required()
	gt.B(t, stored.Active).False()
}

func TestMatrixUseCase_Create_RejectsBrokenScale(t *testing.T) {
	uc := usecase.New(memory.New())
	ctx := context.Background()

	m := newTestMatrix("Broken")
	m.Impact[1].Level = 5

	_, err := uc.Matrix.Create(ctx, m)
	gt.Value(t, err).NotNil()
	gt.B(t, usecase.IsValidation(err)).True()
}

func TestAppetiteUseCase_SetActive(t *testing.T) {
	uc := usecase.New(memory.New())
	ctx := context.Background()

	// No appetite yet: GetActive reports none without an error
	active, err := uc.Appetite.GetActive(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, active).Nil()

	first, err := uc.Appetite.Create(ctx, &model.RiskAppetite{
		Name: "Conservative",
		Bands: []model.AppetiteBand{
			{Label: "Acceptable", MinScore: 1, MaxScore: 8},
			{Label: "Escalate", MinScore: 9, MaxScore: 25},
		},
	})
	gt.NoError(t, err).Required()
	second, err := uc.Appetite.Create(ctx, &model.RiskAppetite{
		Name: "Aggressive",
		Bands: []model.AppetiteBand{
			{Label: "Acceptable", MinScore: 1, MaxScore: 15},
			{Label: "Escalate", MinScore: 16, MaxScore: 25},
		},
	})
	gt.NoError(t, err).Required()

	gt.NoError(t, uc.Appetite.SetActive(ctx, first.ID)).Required()
	gt.NoError(t, uc.Appetite.SetActive(ctx, second.ID)).Required()

	active, err = uc.Appetite.GetActive(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, active).NotNil()
	gt.Number(t, active.ID).Equal(second.ID)

	stored, err := uc.Appetite.Get(ctx, first.ID)
	gt.NoError(t, err).Required()
	gt.B(t, stored.Active).False()
}

func TestAppetiteUseCase_Create_RejectsInvertedBand(t *testing.T) {
	uc := usecase.New(memory.New())
	ctx := context.Background()

	_, err := uc.Appetite.Create(ctx, &model.RiskAppetite{
		Name: "Backwards",
		Bands: []model.AppetiteBand{
			{Label: "Oops", MinScore: 10, MaxScore: 5},
		},
	})
	gt.Value(t, err).NotNil()
	gt.B(t, usecase.IsValidation(err)).True()
}
