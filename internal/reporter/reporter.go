package reporter

// Reporter defines the interface for progress reporting.
type Reporter interface {
	RunStarted(info RunInfo)
	TrialComplete(update TrialUpdate)
	RunComplete(outcome RunOutcome)
	BatchStarted(info BatchStartInfo)
	BatchComplete(summary BatchSummary)
	Warning(message string)
	Error(err ReporterError)
	Verbose(message string)
}

// NullReporter is a no-op reporter that discards all updates.
type NullReporter struct{}

func (NullReporter) RunStarted(RunInfo)          {}
func (NullReporter) TrialComplete(TrialUpdate)   {}
func (NullReporter) RunComplete(RunOutcome)      {}
func (NullReporter) BatchStarted(BatchStartInfo) {}
func (NullReporter) BatchComplete(BatchSummary)  {}
func (NullReporter) Warning(string)              {}
func (NullReporter) Error(ReporterError)         {}
func (NullReporter) Verbose(string)              {}

// WithoutTrials wraps r and drops per-run start and trial events. Batches use
// it so concurrent runs do not fight over one progress bar.
func WithoutTrials(r Reporter) Reporter {
	return trialFilter{r}
}

type trialFilter struct {
	Reporter
}

func (trialFilter) RunStarted(RunInfo)        {}
func (trialFilter) TrialComplete(TrialUpdate) {}
