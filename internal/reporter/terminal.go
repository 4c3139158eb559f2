package reporter

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/five82/staircase/internal/util"
)

// TerminalReporter outputs human-friendly text to the terminal.
type TerminalReporter struct {
	mu          sync.Mutex
	out         io.Writer
	progressOut io.Writer
	progress    *progressbar.ProgressBar
	maxPercent  int
	verbose     bool
	cyan        *color.Color
	green       *color.Color
	yellow      *color.Color
	red         *color.Color
	magenta     *color.Color
	bold        *color.Color
	faint       *color.Color
}

// NewTerminalReporter creates a new terminal reporter writing to stdout, with
// the progress bar on stderr.
func NewTerminalReporter(verbose bool) *TerminalReporter {
	return NewTerminalReporterWithWriter(os.Stdout, os.Stderr, verbose)
}

// NewTerminalReporterWithWriter creates a terminal reporter with custom
// writers for text and for the progress bar.
func NewTerminalReporterWithWriter(out, progressOut io.Writer, verbose bool) *TerminalReporter {
	return &TerminalReporter{
		out:         out,
		progressOut: progressOut,
		verbose:     verbose,
		cyan:        color.New(color.FgCyan, color.Bold),
		green:       color.New(color.FgGreen),
		yellow:      color.New(color.FgYellow, color.Bold),
		red:         color.New(color.FgRed, color.Bold),
		magenta:     color.New(color.FgMagenta),
		bold:        color.New(color.Bold),
		faint:       color.New(color.Faint),
	}
}

func (r *TerminalReporter) finishProgress() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress != nil {
		_ = r.progress.Finish()
		r.progress = nil
	}
	r.maxPercent = 0
}

// printLabel prints a bold label with fixed width padding followed by a value.
// Width is applied to the plain text before styling to ensure proper alignment.
func (r *TerminalReporter) printLabel(width int, label, value string) {
	paddedLabel := fmt.Sprintf("%-*s", width, label)
	_, _ = fmt.Fprintf(r.out, "  %s %s\n", r.bold.Sprint(paddedLabel), value)
}

func (r *TerminalReporter) RunStarted(info RunInfo) {
	r.finishProgress()

	_, _ = fmt.Fprintln(r.out)
	_, _ = r.cyan.Fprintln(r.out, "RUN")
	const w = 11
	r.printLabel(w, "Condition:", info.Condition)
	r.printLabel(w, "Rule:", fmt.Sprintf("%s (tracks %s correct)", info.Rule, util.FormatPercent(info.TargetPercent)))
	r.printLabel(w, "Start:", fmt.Sprintf("difference %s, step %s",
		util.FormatThreshold(info.StartingDifference), util.FormatThreshold(info.InitialStepSize)))
	r.printLabel(w, "Stop:", fmt.Sprintf("%d turns or %d trials", info.TerminateOnNTurns, info.TerminateOnNTrials))
	if r.verbose {
		r.printLabel(w, "Run ID:", r.faint.Sprint(info.RunID))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.progress = progressbar.NewOptions(
		100,
		progressbar.OptionSetDescription(""),
		progressbar.OptionSetWidth(40),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(r.progressOut),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "Turns [",
			BarEnd:        "]",
		}),
	)
}

func (r *TerminalReporter) TrialComplete(update TrialUpdate) {
	if r.verbose {
		mark := r.green.Sprint("✓")
		if !update.Correct {
			mark = r.red.Sprint("✗")
		}
		r.mu.Lock()
		if r.progress != nil {
			_ = r.progress.Clear()
		}
		r.mu.Unlock()
		_, _ = fmt.Fprintf(r.out, "  %s trial %3d  diff %7s  %s  next %s\n",
			r.magenta.Sprint("›"), update.Trial, util.FormatThreshold(update.Difference),
			mark, util.FormatStep(update.NextStep))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.progress == nil {
		return
	}

	percent := min(max(int(update.Progress*100), 0), 100)
	if percent >= r.maxPercent {
		r.maxPercent = percent
		_ = r.progress.Set(percent)
	}

	r.progress.Describe(fmt.Sprintf("trial %d, diff %s, %d turns",
		update.Trial, util.FormatThreshold(update.Difference), update.Turns))
}

func (r *TerminalReporter) RunComplete(outcome RunOutcome) {
	r.finishProgress()

	// Batch runs finish concurrently; keep each block together.
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintln(r.out)
	_, _ = r.cyan.Fprintln(r.out, "RESULT")
	const w = 11
	r.printLabel(w, "Condition:", outcome.Condition)

	if outcome.Converged() {
		r.printLabel(w, "Threshold:", color.New(color.FgGreen, color.Bold).Sprint(util.FormatThreshold(outcome.Threshold)))
		r.printLabel(w, "Geometric:", util.FormatThreshold(outcome.GeometricThreshold))
	} else {
		r.printLabel(w, "Threshold:", r.yellow.Sprintf("none (stopped on %s)", outcome.Reason))
	}
	r.printLabel(w, "Trials:", fmt.Sprintf("%d (%d turns)", outcome.Trials, outcome.Turns))
	r.printLabel(w, "Time:", util.FormatElapsed(outcome.Duration))
}

func (r *TerminalReporter) BatchStarted(info BatchStartInfo) {
	_, _ = fmt.Fprintln(r.out)
	_, _ = r.cyan.Fprintln(r.out, "BATCH")
	_, _ = fmt.Fprintf(r.out, "  Running %d runs with %d jobs\n", info.TotalRuns, info.Jobs)
	for i, name := range info.Conditions {
		_, _ = fmt.Fprintf(r.out, "  %d. %s\n", i+1, name)
	}
}

func (r *TerminalReporter) BatchComplete(summary BatchSummary) {
	_, _ = fmt.Fprintln(r.out)
	_, _ = r.cyan.Fprintln(r.out, "BATCH SUMMARY")
	_, _ = fmt.Fprintf(r.out, "  %s\n", r.bold.Sprintf("%d of %d converged", summary.ConvergedCount, summary.TotalRuns))
	if summary.FailedCount > 0 {
		_, _ = fmt.Fprintf(r.out, "  %s\n", r.red.Sprintf("%d failed", summary.FailedCount))
	}

	reasons := make([]string, 0, len(summary.Reasons))
	for reason := range summary.Reasons {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		_, _ = fmt.Fprintf(r.out, "  - %s: %d\n", reason, summary.Reasons[reason])
	}

	const w = 10
	r.printLabel(w, "Mean:", fmt.Sprintf("%s (sd %s)",
		util.FormatThreshold(summary.MeanThreshold), util.FormatThreshold(summary.StdDevThreshold)))
	r.printLabel(w, "Median:", util.FormatThreshold(summary.MedianThreshold))
	r.printLabel(w, "Range:", fmt.Sprintf("%s to %s",
		util.FormatThreshold(summary.MinThreshold), util.FormatThreshold(summary.MaxThreshold)))
	r.printLabel(w, "Time:", util.FormatElapsed(summary.TotalDuration))

	for _, run := range summary.Runs {
		_, _ = fmt.Fprintf(r.out, "  - %s: %s (%s, %d trials)\n",
			run.Condition, util.FormatThreshold(run.Threshold), run.Reason, run.Trials)
	}
}

func (r *TerminalReporter) Warning(message string) {
	_, _ = fmt.Fprintln(r.out)
	_, _ = r.yellow.Fprintf(r.out, "WARN: %s\n", message)
}

func (r *TerminalReporter) Error(err ReporterError) {
	_, _ = fmt.Fprintln(os.Stderr)
	_, _ = r.red.Fprintf(os.Stderr, "ERROR %s\n", err.Title)
	_, _ = fmt.Fprintf(os.Stderr, "  %s\n", err.Message)
	if err.Context != "" {
		_, _ = fmt.Fprintf(os.Stderr, "  Context: %s\n", err.Context)
	}
	if err.Suggestion != "" {
		_, _ = fmt.Fprintf(os.Stderr, "  Suggestion: %s\n", err.Suggestion)
	}
}

func (r *TerminalReporter) Verbose(message string) {
	if !r.verbose {
		return
	}
	_, _ = fmt.Fprintf(r.out, "  %s\n", r.faint.Sprint(message))
}
