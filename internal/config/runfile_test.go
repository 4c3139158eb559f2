package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/staircase/internal/adapt"
	serrors "github.com/five82/staircase/internal/errors"
)

const fullRunFile = `
initial_step_size: 2
starting_difference: 12
step_size_modifier: 0.7071
down_up: [2, 1]
terminate_on_nturns: 8
terminate_on_ntrials: 150
terminate_on_max_difference: 25
threshold_on_last_nturns: 6
change_step_size_on_difference: 2
change_step_size_on_ntrials: 15
prompt: "Which of the three is different?"
isi: 250
`

func TestParseRunFileExplicitOptions(t *testing.T) {
	rf, err := ParseRunFile([]byte(fullRunFile))
	require.NoError(t, err)

	require.Len(t, rf.Conditions, 1)
	assert.Equal(t, Preset(""), rf.Preset)

	c := rf.Conditions[0]
	assert.Equal(t, DefaultConditionName, c.Name)
	assert.Equal(t, adapt.Config{
		InitialStepSize:            2,
		StartingDifference:         12,
		DownUp:                     adapt.DownUp{Down: 2, Up: 1},
		StepSizeModifier:           0.7071,
		ChangeStepSizeOnDifference: 2,
		ChangeStepSizeOnNTrials:    15,
		TerminateOnNTurns:          8,
		TerminateOnNTrials:         150,
		TerminateOnMaxDifference:   25,
		ThresholdOnLastNTurns:      6,
	}, c.Config)
}

func TestParseRunFileMissingOption(t *testing.T) {
	data := `
initial_step_size: 2
starting_difference: 12
down_up: [2, 1]
`
	_, err := ParseRunFile([]byte(data))
	require.Error(t, err)
	assert.True(t, serrors.IsConfig(err))
	assert.ErrorIs(t, err, adapt.ErrMissingOption)

	field, ok := serrors.MissingField(err)
	require.True(t, ok)
	assert.Equal(t, adapt.OptTerminateOnNTurns, field)
}

func TestParseRunFileEmpty(t *testing.T) {
	_, err := ParseRunFile(nil)
	require.Error(t, err)
	field, ok := serrors.MissingField(err)
	require.True(t, ok)
	assert.Equal(t, adapt.OptInitialStepSize, field)
}

func TestParseRunFilePresetWithConditions(t *testing.T) {
	data := `
preset: 3down1up
terminate_on_ntrials: 80
conditions:
  - name: f0
    starting_difference: 12
  - name: vtl
    starting_difference: 8
    initial_step_size: 1
    down_up: [2, 1]
`
	rf, err := ParseRunFile([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, Preset3Down1Up, rf.Preset)
	require.Len(t, rf.Conditions, 2)

	f0 := rf.Conditions[0]
	assert.Equal(t, "f0", f0.Name)
	assert.Equal(t, adapt.DownUp{Down: 3, Up: 1}, f0.Config.DownUp)
	assert.Equal(t, 80, f0.Config.TerminateOnNTrials)
	assert.Equal(t, 12.0, f0.Config.StartingDifference)

	vtl := rf.Conditions[1]
	assert.Equal(t, "vtl", vtl.Name)
	assert.Equal(t, adapt.DownUp{Down: 2, Up: 1}, vtl.Config.DownUp)
	assert.Equal(t, 80, vtl.Config.TerminateOnNTrials)
	assert.Equal(t, 8.0, vtl.Config.StartingDifference)
	assert.Equal(t, 1.0, vtl.Config.InitialStepSize)
}

func TestParseRunFileConditionNames(t *testing.T) {
	data := `
preset: 2down1up
conditions:
  - starting_difference: 10
  - starting_difference: 11
`
	rf, err := ParseRunFile([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, "condition-1", rf.Conditions[0].Name)
	assert.Equal(t, "condition-2", rf.Conditions[1].Name)
}

func TestParseRunFileErrors(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		sentinel error
		kind     serrors.ErrorKind
	}{
		{
			name: "invalid yaml",
			data: "down_up: [2, 1\n",
			kind: serrors.KindParse,
		},
		{
			name:     "unknown preset",
			data:     "preset: 5down1up\n",
			sentinel: ErrInvalidPreset,
			kind:     serrors.KindConfig,
		},
		{
			name:     "down up of wrong length",
			data:     "preset: 2down1up\ndown_up: [2]\n",
			sentinel: ErrInvalidDownUp,
			kind:     serrors.KindConfig,
		},
		{
			name:     "duplicate condition",
			data:     "preset: 2down1up\nconditions:\n  - name: a\n  - name: a\n",
			sentinel: ErrDuplicateCondition,
			kind:     serrors.KindConfig,
		},
		{
			name:     "condition violates constraint",
			data:     "preset: 2down1up\nconditions:\n  - name: a\n    step_size_modifier: 1.2\n",
			sentinel: adapt.ErrOutOfRange,
			kind:     serrors.KindConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRunFile([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, serrors.IsKind(err, tt.kind), "got %v", err)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
		})
	}
}

func TestLoadRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fullRunFile), 0o644))

	rf, err := LoadRunFile(path)
	require.NoError(t, err)
	assert.Len(t, rf.Conditions, 1)

	_, err = LoadRunFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, serrors.IsKind(err, serrors.KindIO))
}
