package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/briareus/pkg/cli/config"
)

func TestLoadRiskConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{
			name: "valid configuration",
			content: `
high_impact_threshold = 4

[[likelihood]]
level = 1
label = "Rare"

[[likelihood]]
level = 2
label = "Likely"

[[impact]]
level = 1
label = "Minor"

[[impact]]
level = 2
label = "Severe"

[[appetite_bands]]
label = "Acceptable"
min_score = 1
max_score = 8
authorized_actions = ["monitor"]
`,
			wantErr: false,
		},
		{
			name:    "empty configuration falls back to defaults",
			content: ``,
			wantErr: false,
		},
		{
			name:    "config file not found",
			content: "", // Won't create the file
			wantErr: true,
		},
		{
			name: "too many scale levels",
			content: `
[[impact]]
level = 1
label = "A"
[[impact]]
level = 2
label = "B"
[[impact]]
level = 3
label = "C"
[[impact]]
level = 4
label = "D"
[[impact]]
level = 5
label = "E"
[[impact]]
level = 6
label = "F"
`,
			wantErr: true,
		},
		{
			name: "non-contiguous scale levels",
			content: `
[[likelihood]]
level = 1
label = "Rare"

[[likelihood]]
level = 3
label = "Likely"
`,
			wantErr: true,
		},
		{
			name: "duplicate scale level",
			content: `
[[impact]]
level = 1
label = "Minor"

[[impact]]
level = 1
label = "Also Minor"
`,
			wantErr: true,
		},
		{
			name: "missing scale label",
			content: `
[[impact]]
level = 1
`,
			wantErr: true,
		},
		{
			name: "threshold out of range",
			content: `
high_impact_threshold = 6
`,
			wantErr: true,
		},
		{
			name: "appetite band without label",
			content: `
[[appetite_bands]]
min_score = 1
max_score = 8
`,
			wantErr: true,
		},
		{
			name: "appetite band min above max",
			content: `
[[appetite_bands]]
label = "Backwards"
min_score = 10
max_score = 5
`,
			wantErr: true,
		},
		{
			name: "appetite band beyond the score range",
			content: `
[[appetite_bands]]
label = "Too wide"
min_score = 1
max_score = 30
`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			path := filepath.Join(tmpDir, "risk.toml")
			if tt.name != "config file not found" {
				gt.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600)).Required()
			}

			cfg, err := config.LoadRiskConfiguration(path)
			if tt.wantErr {
				gt.Value(t, err).NotNil()
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, cfg).NotNil()
		})
	}
}

func TestLoadRiskConfiguration_ParsedValues(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "risk.toml")
	content := `
high_impact_threshold = 3

[[impact]]
level = 1
label = "Minor"
description = "Routine impact"

[[appetite_bands]]
label = "Escalate"
min_score = 9
max_score = 25
authorized_actions = ["treat", "escalate"]
`
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600)).Required()

	cfg, err := config.LoadRiskConfiguration(path)
	gt.NoError(t, err).Required()

	gt.Number(t, cfg.Threshold()).Equal(3)
	gt.A(t, cfg.Impact).Length(1)
	gt.Value(t, cfg.Impact[0].Label).Equal("Minor")
	gt.Value(t, cfg.Impact[0].Description).Equal("Routine impact")
	gt.A(t, cfg.AppetiteBands).Length(1)
	gt.Value(t, cfg.AppetiteBands[0].Label).Equal("Escalate")
	gt.Number(t, cfg.AppetiteBands[0].MinScore).Equal(9)
	gt.A(t, cfg.AppetiteBands[0].AuthorizedActions).Length(2)
}

func TestRiskConfigure_NoPath(t *testing.T) {
	var r config.Risk
	cfg, err := r.Configure()
	gt.NoError(t, err).Required()
	gt.Value(t, cfg).Nil()
}
