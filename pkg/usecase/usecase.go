package usecase

import (
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model/config"
)

// UseCases bundles the application operations over one repository
type UseCases struct {
	repo       interfaces.Repository
	riskConfig *config.RiskConfig

	Risk      *RiskUseCase
	Matrix    *MatrixUseCase
	Appetite  *AppetiteUseCase
	Control   *ControlUseCase
	Finding   *FindingUseCase
	Bia       *BiaUseCase
	Treatment *TreatmentUseCase
	Record    *RecordUseCase
	Dashboard *DashboardUseCase
}

type Option func(*UseCases)

func WithRiskConfig(cfg *config.RiskConfig) Option {
	return func(uc *UseCases) {
		uc.riskConfig = cfg
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Risk = NewRiskUseCase(repo)
	uc.Matrix = NewMatrixUseCase(repo)
	uc.Appetite = NewAppetiteUseCase(repo)
	uc.Control = NewControlUseCase(repo)
	uc.Finding = NewFindingUseCase(repo)
	uc.Bia = NewBiaUseCase(repo, uc.riskConfig)
	uc.Treatment = NewTreatmentUseCase(repo)
	uc.Record = NewRecordUseCase(repo)
	uc.Dashboard = NewDashboardUseCase(repo)

	return uc
}
