package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/five82/staircase/internal/util"
)

// JSONReporter outputs one JSON object per event (NDJSON). Non-finite
// numbers are written as null.
type JSONReporter struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONReporter creates a new JSON reporter that writes to stdout.
func NewJSONReporter() *JSONReporter {
	return &JSONReporter{writer: os.Stdout}
}

// NewJSONReporterWithWriter creates a JSON reporter with a custom writer.
func NewJSONReporterWithWriter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w}
}

func (r *JSONReporter) timestamp() int64 {
	return time.Now().Unix()
}

func (r *JSONReporter) write(v map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintln(r.writer, string(data))
}

func (r *JSONReporter) RunStarted(info RunInfo) {
	r.write(map[string]any{
		"type":                 "run_started",
		"run_id":               info.RunID,
		"condition":            info.Condition,
		"rule":                 info.Rule,
		"target_percent":       util.JSONNumber(info.TargetPercent),
		"starting_difference":  info.StartingDifference,
		"initial_step_size":    info.InitialStepSize,
		"terminate_on_nturns":  info.TerminateOnNTurns,
		"terminate_on_ntrials": info.TerminateOnNTrials,
		"timestamp":            r.timestamp(),
	})
}

func (r *JSONReporter) TrialComplete(update TrialUpdate) {
	r.write(map[string]any{
		"type":            "trial",
		"run_id":          update.RunID,
		"condition":       update.Condition,
		"trial":           update.Trial,
		"difference":      update.Difference,
		"step":            update.Step,
		"correct":         update.Correct,
		"next_step":       update.NextStep,
		"next_difference": update.NextDifference,
		"step_size":       update.StepSize,
		"turns":           update.Turns,
		"progress":        update.Progress,
		"timestamp":       r.timestamp(),
	})
}

func (r *JSONReporter) RunComplete(outcome RunOutcome) {
	r.write(map[string]any{
		"type":                "run_complete",
		"run_id":              outcome.RunID,
		"condition":           outcome.Condition,
		"reason":              outcome.Reason,
		"threshold":           util.JSONNumber(outcome.Threshold),
		"geometric_threshold": util.JSONNumber(outcome.GeometricThreshold),
		"trials":              outcome.Trials,
		"turns":               outcome.Turns,
		"duration_ms":         outcome.Duration.Milliseconds(),
		"timestamp":           r.timestamp(),
	})
}

func (r *JSONReporter) BatchStarted(info BatchStartInfo) {
	r.write(map[string]any{
		"type":       "batch_started",
		"total_runs": info.TotalRuns,
		"conditions": info.Conditions,
		"jobs":       info.Jobs,
		"timestamp":  r.timestamp(),
	})
}

func (r *JSONReporter) BatchComplete(summary BatchSummary) {
	r.write(map[string]any{
		"type":             "batch_complete",
		"total_runs":       summary.TotalRuns,
		"converged_count":  summary.ConvergedCount,
		"failed_count":     summary.FailedCount,
		"mean_threshold":   util.JSONNumber(summary.MeanThreshold),
		"stddev_threshold": util.JSONNumber(summary.StdDevThreshold),
		"median_threshold": util.JSONNumber(summary.MedianThreshold),
		"min_threshold":    util.JSONNumber(summary.MinThreshold),
		"max_threshold":    util.JSONNumber(summary.MaxThreshold),
		"reasons":          summary.Reasons,
		"duration_ms":      summary.TotalDuration.Milliseconds(),
		"timestamp":        r.timestamp(),
	})
}

func (r *JSONReporter) Warning(message string) {
	r.write(map[string]any{
		"type":      "warning",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) Error(err ReporterError) {
	r.write(map[string]any{
		"type":       "error",
		"title":      err.Title,
		"message":    err.Message,
		"context":    err.Context,
		"suggestion": err.Suggestion,
		"timestamp":  r.timestamp(),
	})
}

// Verbose messages are terminal-only.
func (r *JSONReporter) Verbose(string) {}
