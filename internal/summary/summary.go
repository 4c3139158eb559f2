// Package summary computes descriptive statistics across staircase runs.
package summary

import (
	"errors"
	"math"

	"github.com/montanaflynn/stats"

	"github.com/five82/staircase/internal/adapt"
)

// Summary aggregates the results of several runs of one or more conditions.
type Summary struct {
	Runs      int
	Converged int

	// Threshold statistics over converged runs. NaN when no run converged;
	// StdDev is also NaN with a single converged run.
	Mean          float64
	StdDev        float64
	Median        float64
	Min           float64
	Max           float64
	GeometricMean float64

	// Reasons counts runs by stop reason.
	Reasons map[adapt.Reason]int
}

// ConvergenceRate returns the fraction of runs that produced a threshold.
func (s Summary) ConvergenceRate() float64 {
	if s.Runs == 0 {
		return math.NaN()
	}
	return float64(s.Converged) / float64(s.Runs)
}

// ReasonCounts returns Reasons keyed by plain strings.
func (s Summary) ReasonCounts() map[string]int {
	out := make(map[string]int, len(s.Reasons))
	for reason, n := range s.Reasons {
		out[string(reason)] = n
	}
	return out
}

// Summarize computes statistics over results. Nil entries (failed runs) are
// skipped and not counted.
func Summarize(results []*adapt.ThresholdResult) (Summary, error) {
	s := Summary{
		Mean:          math.NaN(),
		StdDev:        math.NaN(),
		Median:        math.NaN(),
		Min:           math.NaN(),
		Max:           math.NaN(),
		GeometricMean: math.NaN(),
		Reasons:       make(map[adapt.Reason]int),
	}

	var thresholds stats.Float64Data
	for _, r := range results {
		if r == nil {
			continue
		}
		s.Runs++
		s.Reasons[r.Reason]++
		if r.HasThreshold() {
			thresholds = append(thresholds, r.Threshold)
		}
	}
	s.Converged = len(thresholds)

	if len(thresholds) == 0 {
		return s, nil
	}

	var err error
	if s.Mean, err = stats.Mean(thresholds); err != nil {
		return s, err
	}
	if s.Median, err = stats.Median(thresholds); err != nil {
		return s, err
	}
	if s.Min, err = stats.Min(thresholds); err != nil {
		return s, err
	}
	if s.Max, err = stats.Max(thresholds); err != nil {
		return s, err
	}
	if s.GeometricMean, err = stats.GeometricMean(thresholds); err != nil {
		return s, err
	}
	if len(thresholds) > 1 {
		if s.StdDev, err = stats.StandardDeviationSample(thresholds); err != nil {
			return s, err
		}
	}

	return s, nil
}

// Percentile returns the p-th percentile of the converged thresholds.
func Percentile(results []*adapt.ThresholdResult, p float64) (float64, error) {
	var thresholds stats.Float64Data
	for _, r := range results {
		if r != nil && r.HasThreshold() {
			thresholds = append(thresholds, r.Threshold)
		}
	}
	v, err := stats.Percentile(thresholds, p)
	if errors.Is(err, stats.ErrEmptyInput) {
		return math.NaN(), nil
	}
	return v, err
}
