package model_test

import (
	"testing"
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
)

func TestRisk_Rescore(t *testing.T) {
	risk := &model.Risk{
		Title:              "Data center outage",
		InherentSeverity:   types.SeverityHigh,
		InherentLikelihood: types.LikelihoodPossible,
	}
	risk.Rescore()

	if risk.InherentScore != 12 {
		t.Errorf("InherentScore = %d, want 12", risk.InherentScore)
	}
	if risk.InherentLevel != types.RiskLevelHigh {
		t.Errorf("InherentLevel = %s, want high", risk.InherentLevel)
	}
}

func TestRisk_ApplyAndClearResidual(t *testing.T) {
	now := time.Now()
	risk := &model.Risk{
		Title:              "Vendor dependency",
		InherentSeverity:   types.SeverityCritical,
		InherentLikelihood: types.LikelihoodLikely,
	}
	risk.Rescore()

	if risk.HasResidual() {
		t.Error("HasResidual() = true before any treatment")
	}
	if risk.CurrentScore() != 20 {
		t.Errorf("CurrentScore() = %d, want inherent 20", risk.CurrentScore())
	}

	risk.ApplyResidual(types.SeverityLow, types.LikelihoodUnlikely, now)

	if !risk.HasResidual() {
		t.Error("HasResidual() = false after ApplyResidual")
	}
	if risk.ResidualScore != 4 {
		t.Errorf("ResidualScore = %d, want 4", risk.ResidualScore)
	}
	if risk.ResidualRating != types.RiskLevelLow {
		t.Errorf("ResidualRating = %s, want low", risk.ResidualRating)
	}
	if risk.NetSeverity != types.SeverityLow {
		t.Errorf("NetSeverity = %s, want low", risk.NetSeverity)
	}
	if risk.NetLikelihood != types.LikelihoodUnlikely {
		t.Errorf("NetLikelihood = %s, want unlikely", risk.NetLikelihood)
	}
	if risk.ResidualLikelihood != types.LikelihoodUnlikely {
		t.Errorf("ResidualLikelihood = %s, want unlikely", risk.ResidualLikelihood)
	}
	if risk.ResidualUpdatedAt != now {
		t.Errorf("ResidualUpdatedAt = %v, want %v", risk.ResidualUpdatedAt, now)
	}
	if risk.CurrentScore() != 4 {
		t.Errorf("CurrentScore() = %d, want residual 4", risk.CurrentScore())
	}

	risk.ClearResidual()

	if risk.HasResidual() {
		t.Error("HasResidual() = true after ClearResidual")
	}
	if risk.NetSeverity != "" || risk.NetLikelihood != "" || risk.ResidualLikelihood != "" {
		t.Error("residual selections not cleared")
	}
	if risk.ResidualScore != 0 || risk.ResidualRating != "" {
		t.Error("residual score/rating not cleared")
	}
	if risk.CurrentScore() != 20 {
		t.Errorf("CurrentScore() = %d, want inherent 20 after clear", risk.CurrentScore())
	}
}

func TestRisk_Validate(t *testing.T) {
	valid := &model.Risk{
		Title:              "Unpatched servers",
		InherentSeverity:   types.SeverityMedium,
		InherentLikelihood: types.LikelihoodLikely,
		Status:             types.RiskStatusActive,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	noTitle := &model.Risk{
		InherentSeverity:   types.SeverityMedium,
		InherentLikelihood: types.LikelihoodLikely,
	}
	if err := noTitle.Validate(); err == nil {
		t.Error("Validate() = nil for risk without title")
	}

	badSeverity := &model.Risk{
		Title:              "Bad",
		InherentSeverity:   types.Severity("catastrophic"),
		InherentLikelihood: types.LikelihoodLikely,
	}
	if err := badSeverity.Validate(); err == nil {
		t.Error("Validate() = nil for invalid severity")
	}
}
