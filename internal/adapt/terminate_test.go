package adapt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serrors "github.com/five82/staircase/internal/errors"
)

func TestTurnIndices(t *testing.T) {
	tests := []struct {
		name  string
		steps []float64
		want  []int
	}{
		{"empty", nil, nil},
		{"all holds", []float64{0, 0, 0}, nil},
		{"monotonic", []float64{-2, -2, 0, -1}, nil},
		{"two reversals", []float64{2, 2, -2, -2, 1, 1}, []int{2, 4}},
		{"three reversals", []float64{2, 2, -2, -2, 1, 1, -1}, []int{2, 4, 6}},
		{"holds are skipped", []float64{0, 1, 0, -1, 0, 0, 1}, []int{3, 6}},
		{"leading hold", []float64{0, -2, 2}, []int{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TurnIndices(tt.steps)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.want), CountTurns(tt.steps))
		})
	}
}

func TestComputeThreshold(t *testing.T) {
	thr, geom, err := ComputeThreshold([]float64{10, 8, 10, 8}, []int{0, 1, 2, 3})
	require.NoError(t, err)
	assert.InDelta(t, 9.0, thr, 1e-12)
	assert.InDelta(t, math.Sqrt(80), geom, 1e-12)
	assert.InDelta(t, 8.944, geom, 1e-3)
}

func TestComputeThresholdSelectsIndices(t *testing.T) {
	thr, geom, err := ComputeThreshold([]float64{12, 10, 4, 9, 1}, []int{2, 4})
	require.NoError(t, err)
	assert.InDelta(t, 2.5, thr, 1e-12)
	assert.InDelta(t, 2.0, geom, 1e-12)
}

func TestComputeThresholdRejectsNonPositive(t *testing.T) {
	tests := []struct {
		name    string
		diffs   []float64
		indices []int
	}{
		{"zero difference", []float64{4, 0, 2}, []int{0, 1, 2}},
		{"negative difference", []float64{4, -1}, []int{1}},
		{"no anchors", []float64{4, 2}, nil},
		{"index out of range", []float64{4, 2}, []int{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			thr, geom, err := ComputeThreshold(tt.diffs, tt.indices)
			require.Error(t, err)
			assert.True(t, serrors.IsKind(err, serrors.KindInvariant))
			assert.True(t, math.IsNaN(thr))
			assert.True(t, math.IsNaN(geom))
		})
	}
}

func TestAnchorIndices(t *testing.T) {
	assert.Equal(t, []int{2, 4, 6, 9}, AnchorIndices([]int{2, 4, 6}, 10, 6))
	assert.Equal(t, []int{6, 9}, AnchorIndices([]int{2, 4, 6}, 10, 2))
	assert.Equal(t, []int{6, 6}, AnchorIndices([]int{2, 4, 6}, 7, 2), "latest index is appended even when it is a turn")
}

// alignedConfig reaches two turns on the third trial of an alternating run.
func alignedConfig() Config {
	return Config{
		InitialStepSize:            1,
		StartingDifference:         10,
		DownUp:                     DownUp{Down: 1, Up: 1},
		StepSizeModifier:           0.5,
		ChangeStepSizeOnDifference: 0.01,
		ChangeStepSizeOnNTrials:    1000,
		TerminateOnNTurns:          2,
		TerminateOnNTrials:         3,
		TerminateOnMaxDifference:   100,
		ThresholdOnLastNTurns:      2,
	}
}

func TestEvaluateContinue(t *testing.T) {
	cfg := alignedConfig()
	state := NewState(&cfg)
	state.AddTrial(10, 0, true)
	state.CurrentStep = -1
	state.CurrentDifference = 9

	d, err := Evaluate(state, &cfg)
	require.NoError(t, err)
	assert.True(t, d.Continue)
	assert.Nil(t, d.Result)
	assert.Equal(t, 0, d.Turns)
	assert.Equal(t, 0.0, d.Progress)
}

func TestEvaluateNTrialsWinsOverTurns(t *testing.T) {
	cfg := alignedConfig()
	state := NewState(&cfg)
	state.AddTrial(10, 0, true)
	state.AddTrial(9, -1, false)
	state.AddTrial(10, 1, true)
	state.CurrentStep = -1
	state.CurrentDifference = 9

	require.Equal(t, 2, CountTurns(state.Steps()), "turn criterion is met as well")

	d, err := Evaluate(state, &cfg)
	require.NoError(t, err)
	require.False(t, d.Continue)
	assert.Equal(t, ReasonNTrials, d.Result.Reason)
	assert.True(t, math.IsNaN(d.Result.Threshold))
	assert.True(t, math.IsNaN(d.Result.GeometricThreshold))
	assert.False(t, d.Result.HasThreshold())
	assert.Equal(t, 1.0, d.Progress)
	assert.Len(t, d.Result.TrialRecords, 3)
}

func TestEvaluateMaxDifference(t *testing.T) {
	cfg := alignedConfig()
	cfg.TerminateOnMaxDifference = 12
	state := NewState(&cfg)
	state.AddTrial(10, 0, false)
	state.CurrentStep = 5
	state.CurrentDifference = 15

	d, err := Evaluate(state, &cfg)
	require.NoError(t, err)
	require.False(t, d.Continue)
	assert.Equal(t, ReasonMaxDifference, d.Result.Reason)
	assert.True(t, math.IsNaN(d.Result.Threshold))
	assert.Equal(t, []float64{10, 15}, d.Result.Differences)
	assert.Empty(t, d.Result.AnchorIndices)
}

func TestEvaluateNTrialsWinsOverMaxDifference(t *testing.T) {
	cfg := alignedConfig()
	cfg.TerminateOnNTrials = 1
	cfg.TerminateOnMaxDifference = 12
	state := NewState(&cfg)
	state.AddTrial(10, 0, false)
	state.CurrentStep = 5
	state.CurrentDifference = 15

	d, err := Evaluate(state, &cfg)
	require.NoError(t, err)
	assert.Equal(t, ReasonNTrials, d.Result.Reason)
}

func TestEvaluateNTurns(t *testing.T) {
	cfg := alignedConfig()
	cfg.TerminateOnNTrials = 4
	state := NewState(&cfg)
	state.AddTrial(10, 0, true)
	state.AddTrial(9, -1, false)
	state.AddTrial(10, 1, true)
	state.CurrentStep = -1
	state.CurrentDifference = 9

	d, err := Evaluate(state, &cfg)
	require.NoError(t, err)
	require.False(t, d.Continue)

	r := d.Result
	assert.Equal(t, ReasonNTurns, r.Reason)
	assert.True(t, r.HasThreshold())
	assert.Equal(t, []float64{0, -1, 1, -1}, r.Steps)
	assert.Equal(t, []float64{10, 9, 10, 9}, r.Differences)
	assert.Equal(t, []bool{true, false, true}, r.Corrects)
	assert.Equal(t, []int{2, 3}, r.TurnIndices)
	assert.Equal(t, []int{3, 3}, r.AnchorIndices)
	assert.InDelta(t, 9.0, r.Threshold, 1e-12)
	assert.InDelta(t, 9.0, r.GeometricThreshold, 1e-12)
	assert.Equal(t, 2, d.Turns)
}

func TestEvaluateProgress(t *testing.T) {
	cfg := alignedConfig()
	cfg.TerminateOnNTurns = 4
	cfg.ThresholdOnLastNTurns = 4
	cfg.TerminateOnNTrials = 100
	state := NewState(&cfg)
	state.AddTrial(10, 0, true)
	state.AddTrial(9, -1, false)
	state.CurrentStep = 1
	state.CurrentDifference = 10

	d, err := Evaluate(state, &cfg)
	require.NoError(t, err)
	assert.True(t, d.Continue)
	assert.Equal(t, 1, d.Turns)
	assert.Equal(t, 0.25, d.Progress)
}
