package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
	"github.com/secmon-lab/briareus/pkg/repository/memory"
	"github.com/secmon-lab/briareus/pkg/usecase"
)

func TestFindingUseCase_RecomputesControlStatus(t *testing.T) {
	uc := usecase.New(memory.New())
	ctx := context.Background()

	control, err := uc.Control.CreateInternal(ctx, &model.InternalControl{
		Name: "Access review",
	})
	gt.NoError(t, err).Required()
	gt.Value(t, control.ComplianceStatus).Equal(types.ComplianceStatusNotAssessed)

	minor, err := uc.Finding.Create(ctx, &model.ControlFinding{
		Title:             "Review log incomplete",
		InternalControlID: control.ID,
		FindingType:       types.FindingTypeMinorDeviation,
		Status:            types.FindingStatusOpen,
	})
	gt.NoError(t, err).Required()

	stored, err := uc.Control.GetInternal(ctx, control.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, stored.ComplianceStatus).Equal(types.ComplianceStatusMinorDeviation)
	gt.B(t, stored.LastAssessedAt.IsZero()).False()

	major, err := uc.Finding.Create(ctx, &model.ControlFinding{
		Title:             "Review not performed",
		InternalControlID: control.ID,
		FindingType:       types.FindingTypeMajorDeviation,
		Status:            types.FindingStatusOpen,
	})
	gt.NoError(t, err).Required()

	stored, err = uc.Control.GetInternal(ctx, control.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, stored.ComplianceStatus).Equal(types.ComplianceStatusMajorDeviation)

	// Closing the major finding drops the control back to minor
	major.Status = types.FindingStatusClosed
	_, err = uc.Finding.Update(ctx, major)
	gt.NoError(t, err).Required()

	stored, err = uc.Control.GetInternal(ctx, control.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, stored.ComplianceStatus).Equal(types.ComplianceStatusMinorDeviation)

	// Deleting the last active finding restores compliant; the closed
	// major finding never counts
	gt.NoError(t, uc.Finding.Delete(ctx, minor.ID)).Required()

	stored, err = uc.Control.GetInternal(ctx, control.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, stored.ComplianceStatus).Equal(types.ComplianceStatusCompliant)
}

func TestFindingUseCase_RecomputeIsIdempotent(t *testing.T) {
	uc := usecase.New(memory.New())
	ctx := context.Background()

	control, err := uc.Control.CreateInternal(ctx, &model.InternalControl{
		Name: "Patching cadence",
	})
	gt.NoError(t, err).Required()

	_, err = uc.Finding.Create(ctx, &model.ControlFinding{
		Title:             "Patch SLA missed",
		InternalControlID: control.ID,
		FindingType:       types.FindingTypeMinorDeviation,
		Status:            types.FindingStatusOpen,
	})
	gt.NoError(t, err).Required()

	uc.Finding.RecomputeControl(ctx, types.ControlKindInternal, control.ID)
	uc.Finding.RecomputeControl(ctx, types.ControlKindInternal, control.ID)

	stored, err := uc.Control.GetInternal(ctx, control.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, stored.ComplianceStatus).Equal(types.ComplianceStatusMinorDeviation)
}

func TestFindingUseCase_Create(t *testing.T) {
	t.Run("rejects a finding against a missing control", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		_, err := uc.Finding.Create(ctx, &model.ControlFinding{
			Title:             "Orphan finding",
			InternalControlID: 42,
			FindingType:       types.FindingTypeMinorDeviation,
			Status:            types.FindingStatusOpen,
		})
		gt.Value(t, err).NotNil()
	})

	t.Run("rejects dual ownership", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		_, err := uc.Finding.Create(ctx, &model.ControlFinding{
			Title:              "Confused finding",
			InternalControlID:  1,
			FrameworkControlID: 2,
			FindingType:        types.FindingTypeMinorDeviation,
			Status:             types.FindingStatusOpen,
		})
		gt.Value(t, err).NotNil()
		gt.B(t, usecase.IsValidation(err)).True()
	})
}

func TestFindingUseCase_Update_PinsOwnership(t *testing.T) {
	uc := usecase.New(memory.New())
	ctx := context.Background()

	first, err := uc.Control.CreateInternal(ctx, &model.InternalControl{Name: "First"})
	gt.NoError(t, err).Required()
	second, err := uc.Control.CreateInternal(ctx, &model.InternalControl{Name: "Second"})
	gt.NoError(t, err).Required()

	finding, err := uc.Finding.Create(ctx, &model.ControlFinding{
		Title:             "Drift",
		InternalControlID: first.ID,
		FindingType:       types.FindingTypeMinorDeviation,
		Status:            types.FindingStatusOpen,
	})
	gt.NoError(t, err).Required()

	// Attempt to move the finding onto the second control
	finding.InternalControlID = second.ID
	updated, err := uc.Finding.Update(ctx, finding)
	gt.NoError(t, err).Required()
	gt.Number(t, updated.InternalControlID).Equal(first.ID)
}
