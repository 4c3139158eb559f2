package summary

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/staircase/internal/adapt"
)

func converged(threshold float64) *adapt.ThresholdResult {
	return &adapt.ThresholdResult{
		Threshold:          threshold,
		GeometricThreshold: threshold,
		Reason:             adapt.ReasonNTurns,
	}
}

func stopped(reason adapt.Reason) *adapt.ThresholdResult {
	return &adapt.ThresholdResult{
		Threshold:          math.NaN(),
		GeometricThreshold: math.NaN(),
		Reason:             reason,
	}
}

func TestSummarize(t *testing.T) {
	results := []*adapt.ThresholdResult{
		converged(4),
		converged(6),
		converged(8),
		stopped(adapt.ReasonNTrials),
		nil,
	}

	s, err := Summarize(results)
	require.NoError(t, err)

	assert.Equal(t, 4, s.Runs)
	assert.Equal(t, 3, s.Converged)
	assert.InDelta(t, 0.75, s.ConvergenceRate(), 1e-12)
	assert.InDelta(t, 6, s.Mean, 1e-12)
	assert.InDelta(t, 2, s.StdDev, 1e-12)
	assert.InDelta(t, 6, s.Median, 1e-12)
	assert.Equal(t, 4.0, s.Min)
	assert.Equal(t, 8.0, s.Max)
	assert.InDelta(t, math.Cbrt(4*6*8), s.GeometricMean, 1e-9)
	assert.Equal(t, map[adapt.Reason]int{adapt.ReasonNTurns: 3, adapt.ReasonNTrials: 1}, s.Reasons)
	assert.Equal(t, map[string]int{"nturns": 3, "ntrials": 1}, s.ReasonCounts())
}

func TestSummarizeNoThresholds(t *testing.T) {
	s, err := Summarize([]*adapt.ThresholdResult{
		stopped(adapt.ReasonMaxDifference),
		stopped(adapt.ReasonNTrials),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, s.Runs)
	assert.Equal(t, 0, s.Converged)
	assert.True(t, math.IsNaN(s.Mean))
	assert.True(t, math.IsNaN(s.StdDev))
	assert.True(t, math.IsNaN(s.Median))
	assert.Equal(t, 0.0, s.ConvergenceRate())
}

func TestSummarizeSingleRun(t *testing.T) {
	s, err := Summarize([]*adapt.ThresholdResult{converged(5)})
	require.NoError(t, err)
	assert.Equal(t, 5.0, s.Mean)
	assert.True(t, math.IsNaN(s.StdDev))
}

func TestSummarizeEmpty(t *testing.T) {
	s, err := Summarize(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Runs)
	assert.True(t, math.IsNaN(s.ConvergenceRate()))
}

func TestPercentile(t *testing.T) {
	results := []*adapt.ThresholdResult{converged(1), converged(2), converged(3), converged(4), stopped(adapt.ReasonNTrials)}

	p, err := Percentile(results, 50)
	require.NoError(t, err)
	assert.InDelta(t, 2, p, 1e-12)

	p, err = Percentile([]*adapt.ThresholdResult{stopped(adapt.ReasonNTrials)}, 50)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(p))
}
