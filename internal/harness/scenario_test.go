package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/histview/internal/history"
)

const minimalScenario = `
name: minimal
description: "one step"
initial:
  source_id: S1
items:
  - id: A
steps:
  - action: ExternalListUpdated
`

func TestLoadScenario_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minimal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalScenario), 0644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "minimal", s.Name)
	assert.Equal(t, "S1", s.Initial.SourceID)
	require.Len(t, s.Steps, 1)
	assert.Nil(t, s.Steps[0].Items, "absent items stays nil")
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_ExpectEmptyListIsNotNil(t *testing.T) {
	s, err := ParseScenario([]byte(minimalScenario + `
    expect:
      selected: []
`))
	require.NoError(t, err)
	require.NotNil(t, s.Steps[0].Expect)
	assert.NotNil(t, s.Steps[0].Expect.Selected)
	assert.Empty(t, s.Steps[0].Expect.Selected)
	assert.Nil(t, s.Steps[0].Expect.Visible)
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "unknown field",
			yaml:    minimalScenario + "bogus: 1\n",
			wantErr: "field bogus not found",
		},
		{
			name:    "missing name",
			yaml:    "description: d\nsteps:\n  - action: RequestExit\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: n\nsteps:\n  - action: RequestExit\n",
			wantErr: "description is required",
		},
		{
			name:    "no steps",
			yaml:    "name: n\ndescription: d\n",
			wantErr: "steps list is required",
		},
		{
			name:    "unknown action",
			yaml:    "name: n\ndescription: d\nsteps:\n  - action: Explode\n",
			wantErr: `unknown action "Explode"`,
		},
		{
			name:    "click without item",
			yaml:    "name: n\ndescription: d\nsteps:\n  - action: ItemClicked\n",
			wantErr: "item is required",
		},
		{
			name: "click on unknown item",
			yaml: "name: n\ndescription: d\ninitial: {source_id: S1}\nitems: [{id: A}]\n" +
				"steps:\n  - action: ItemLongClicked\n    item: Z\n",
			wantErr: `unknown item "Z"`,
		},
		{
			name: "duplicate fixture",
			yaml: "name: n\ndescription: d\ninitial: {source_id: S1}\nitems: [{id: A}, {id: A}]\n" +
				"steps:\n  - action: RequestExit\n",
			wantErr: `duplicate id "A"`,
		},
		{
			name:    "fixture without source",
			yaml:    "name: n\ndescription: d\nitems: [{id: A}]\nsteps:\n  - action: RequestExit\n",
			wantErr: "source is required",
		},
		{
			name:    "bad scope",
			yaml:    "name: n\ndescription: d\nsteps:\n  - action: ConfirmDeleteClicked\n    scope: some\n",
			wantErr: "unknown delete scope",
		},
		{
			name:    "unknown assertion",
			yaml:    minimalScenario + "assertions:\n  - type: vibes\n",
			wantErr: "unknown assertion type",
		},
		{
			name:    "final_state unknown field",
			yaml:    minimalScenario + "assertions:\n  - type: final_state\n    expect: {colour: red}\n",
			wantErr: `unknown final_state field "colour"`,
		},
		{
			name:    "trace_order without actions",
			yaml:    minimalScenario + "assertions:\n  - type: trace_order\n",
			wantErr: "actions list is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseScenario_AllActionKindsAccepted(t *testing.T) {
	for kind := range knownActions {
		step := Step{Action: string(kind), Item: "A"}
		assert.NoError(t, validateStep(step, map[string]bool{"A": true}), string(kind))
	}
	assert.Len(t, knownActions, 10)
	_, ok := knownActions[history.KindExternalListUpdated]
	assert.True(t, ok)
}
