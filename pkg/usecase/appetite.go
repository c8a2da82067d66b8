package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
)

type AppetiteUseCase struct {
	repo interfaces.Repository
}

func NewAppetiteUseCase(repo interfaces.Repository) *AppetiteUseCase {
	return &AppetiteUseCase{repo: repo}
}

func (uc *AppetiteUseCase) Create(ctx context.Context, appetite *model.RiskAppetite) (*model.RiskAppetite, error) {
	if err := appetite.Validate(); err != nil {
		return nil, err
	}

	created, err := uc.repo.Appetite().Create(ctx, appetite)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create appetite")
	}

	return created, nil
}

func (uc *AppetiteUseCase) Get(ctx context.Context, id int64) (*model.RiskAppetite, error) {
	return uc.repo.Appetite().Get(ctx, id)
}

func (uc *AppetiteUseCase) List(ctx context.Context) ([]*model.RiskAppetite, error) {
	return uc.repo.Appetite().List(ctx)
}

func (uc *AppetiteUseCase) GetActive(ctx context.Context) (*model.RiskAppetite, error) {
	return uc.repo.Appetite().GetActive(ctx)
}

func (uc *AppetiteUseCase) Update(ctx context.Context, appetite *model.RiskAppetite) (*model.RiskAppetite, error) {
	if err := appetite.Validate(); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Appetite().Update(ctx, appetite)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update appetite", goerr.V("id", appetite.ID))
	}

	return updated, nil
}

func (uc *AppetiteUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Appetite().Delete(ctx, id)
}

func (uc *AppetiteUseCase) SetActive(ctx context.Context, id int64) error {
	return uc.repo.Appetite().SetActive(ctx, id)
}
