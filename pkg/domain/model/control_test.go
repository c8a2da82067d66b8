package model_test

import (
	"testing"

	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
)

func TestDeriveComplianceStatus(t *testing.T) {
	t.Run("zero findings yields compliant", func(t *testing.T) {
		got := model.DeriveComplianceStatus(nil)
		if got != types.ComplianceStatusCompliant {
			t.Errorf("status = %s, want compliant", got)
		}
	})

	t.Run("major deviation wins over minor", func(t *testing.T) {
		findings := []*model.ControlFinding{
			{FindingType: types.FindingTypeMinorDeviation, Status: types.FindingStatusOpen},
			{FindingType: types.FindingTypeMajorDeviation, Status: types.FindingStatusOpen},
		}
		got := model.DeriveComplianceStatus(findings)
		if got != types.ComplianceStatusMajorDeviation {
			t.Errorf("status = %s, want major_deviation", got)
		}
	})

	t.Run("closed findings are ignored", func(t *testing.T) {
		findings := []*model.ControlFinding{
			{FindingType: types.FindingTypeMajorDeviation, Status: types.FindingStatusClosed},
			{FindingType: types.FindingTypeMinorDeviation, Status: types.FindingStatusClosed},
		}
		got := model.DeriveComplianceStatus(findings)
		if got != types.ComplianceStatusCompliant {
			t.Errorf("status = %s, want compliant when all findings closed", got)
		}
	})

	t.Run("in-progress minor deviation still counts", func(t *testing.T) {
		findings := []*model.ControlFinding{
			{FindingType: types.FindingTypeMinorDeviation, Status: types.FindingStatusInProgress},
		}
		got := model.DeriveComplianceStatus(findings)
		if got != types.ComplianceStatusMinorDeviation {
			t.Errorf("status = %s, want minor_deviation", got)
		}
	})

	t.Run("OFI findings never downgrade", func(t *testing.T) {
		findings := []*model.ControlFinding{
			{FindingType: types.FindingTypeOFI, Status: types.FindingStatusOpen},
			{FindingType: types.FindingTypeOFI, Status: types.FindingStatusAccepted},
		}
		got := model.DeriveComplianceStatus(findings)
		if got != types.ComplianceStatusCompliant {
			t.Errorf("status = %s, want compliant with only OFI findings", got)
		}
	})

	t.Run("accepted findings still count", func(t *testing.T) {
		findings := []*model.ControlFinding{
			{FindingType: types.FindingTypeMinorDeviation, Status: types.FindingStatusAccepted},
		}
		got := model.DeriveComplianceStatus(findings)
		if got != types.ComplianceStatusMinorDeviation {
			t.Errorf("status = %s, want minor_deviation for accepted finding", got)
		}
	})
}

func TestComplianceStatus_UsableForMitigation(t *testing.T) {
	cases := []struct {
		status types.ComplianceStatus
		want   bool
	}{
		{types.ComplianceStatusCompliant, true},
		{types.ComplianceStatusMinorDeviation, true},
		{types.ComplianceStatusMajorDeviation, false},
		{types.ComplianceStatusNotAssessed, false},
	}

	for _, tc := range cases {
		if got := tc.status.UsableForMitigation(); got != tc.want {
			t.Errorf("%s.UsableForMitigation() = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestControlFinding_Validate_ExactlyOneOwner(t *testing.T) {
	both := &model.ControlFinding{
		Title:              "Finding",
		InternalControlID:  1,
		FrameworkControlID: 2,
		FindingType:        types.FindingTypeMinorDeviation,
		Status:             types.FindingStatusOpen,
	}
	if err := both.Validate(); err == nil {
		t.Error("Validate() = nil for finding referencing both controls")
	}

	neither := &model.ControlFinding{
		Title:       "Finding",
		FindingType: types.FindingTypeMinorDeviation,
		Status:      types.FindingStatusOpen,
	}
	if err := neither.Validate(); err == nil {
		t.Error("Validate() = nil for finding referencing no control")
	}

	internal := &model.ControlFinding{
		Title:             "Finding",
		InternalControlID: 1,
		FindingType:       types.FindingTypeMinorDeviation,
		Status:            types.FindingStatusOpen,
	}
	if err := internal.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
	if internal.ControlKind() != types.ControlKindInternal {
		t.Errorf("ControlKind() = %s, want internal", internal.ControlKind())
	}
	if internal.ControlID() != 1 {
		t.Errorf("ControlID() = %d, want 1", internal.ControlID())
	}
}
