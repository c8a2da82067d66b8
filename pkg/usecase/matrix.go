package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
)

type MatrixUseCase struct {
	repo interfaces.Repository
}

func NewMatrixUseCase(repo interfaces.Repository) *MatrixUseCase {
	return &MatrixUseCase{repo: repo}
}

func (uc *MatrixUseCase) Create(ctx context.Context, matrix *model.RiskMatrix) (*model.RiskMatrix, error) {
	if err := matrix.Validate(); err != nil {
		return nil, err
	}

	created, err := uc.repo.Matrix().Create(ctx, matrix)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create matrix")
	}

	return created, nil
}

func (uc *MatrixUseCase) Get(ctx context.Context, id int64) (*model.RiskMatrix, error) {
	return uc.repo.Matrix().Get(ctx, id)
}

func (uc *MatrixUseCase) List(ctx context.Context) ([]*model.RiskMatrix, error) {
	return uc.repo.Matrix().List(ctx)
}

func (uc *MatrixUseCase) GetActive(ctx context.Context) (*model.RiskMatrix, error) {
	return uc.repo.Matrix().GetActive(ctx)
}

func (uc *MatrixUseCase) Update(ctx context.Context, matrix *model.RiskMatrix) (*model.RiskMatrix, error) {
	if err := matrix.Validate(); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Matrix().Update(ctx, matrix)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update matrix", goerr.V("id", matrix.ID))
	}

	return updated, nil
}

func (uc *MatrixUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Matrix().Delete(ctx, id)
}

func (uc *MatrixUseCase) SetActive(ctx context.Context, id int64) error {
	return uc.repo.Matrix().SetActive(ctx, id)
}
