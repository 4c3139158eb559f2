package adapt

// TrialRecord is one completed trial. Records are never modified once
// appended.
type TrialRecord struct {
	// Step is the step applied to arrive at Difference.
	Step float64

	// Difference is the value used to produce the trial's stimulus.
	Difference float64

	// Correct is the subject's outcome.
	Correct bool
}

// State is the mutable staircase state for a single run.
type State struct {
	// CurrentStep is the step to apply for the upcoming trial: 0,
	// +CurrentStepSize or -CurrentStepSize.
	CurrentStep float64

	// CurrentStepSize is always > 0 and never grows.
	CurrentStepSize float64

	// CurrentDifference is always > 0.
	CurrentDifference float64

	// TrialsSinceShrink counts trials since the last modifier shrink.
	TrialsSinceShrink int

	// RecentOutcomes holds the most recent run of outcomes, at most
	// DownUp.Window() long. It is cleared whenever a move fires.
	RecentOutcomes []bool

	// Records is the append-only trial history.
	Records []TrialRecord
}

// NewState creates the initial state for a run.
func NewState(cfg *Config) *State {
	return &State{
		CurrentStep:       0,
		CurrentStepSize:   cfg.InitialStepSize,
		CurrentDifference: cfg.StartingDifference,
		RecentOutcomes:    make([]bool, 0, cfg.DownUp.Window()),
		Records:           make([]TrialRecord, 0, 64),
	}
}

// AddTrial appends a completed trial to the history.
func (s *State) AddTrial(difference, step float64, correct bool) {
	s.Records = append(s.Records, TrialRecord{
		Step:       step,
		Difference: difference,
		Correct:    correct,
	})
}

// Steps returns the applied steps extended with the pending CurrentStep.
func (s *State) Steps() []float64 {
	steps := make([]float64, 0, len(s.Records)+1)
	for _, r := range s.Records {
		steps = append(steps, r.Step)
	}
	return append(steps, s.CurrentStep)
}

// Differences returns the realized differences extended with the predicted
// next difference (CurrentDifference after an advance).
func (s *State) Differences() []float64 {
	diffs := make([]float64, 0, len(s.Records)+1)
	for _, r := range s.Records {
		diffs = append(diffs, r.Difference)
	}
	return append(diffs, s.CurrentDifference)
}

// Corrects returns the outcome of every completed trial.
func (s *State) Corrects() []bool {
	corrects := make([]bool, len(s.Records))
	for i, r := range s.Records {
		corrects[i] = r.Correct
	}
	return corrects
}

// Clone returns a deep copy of the state.
func (s *State) Clone() State {
	c := *s
	c.RecentOutcomes = append([]bool(nil), s.RecentOutcomes...)
	c.Records = append([]TrialRecord(nil), s.Records...)
	return c
}
