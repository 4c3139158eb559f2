package adapt

// UpdateStep runs the step/direction policy for the trial that just
// completed and stores the result in state.CurrentStep.
//
// The down rule is checked first. When it fires and a full step would drive
// the difference to zero or below, the step size is halved relative to the
// difference instead; that halving is not a modifier shrink and leaves the
// trial counter alone.
func UpdateStep(state *State, cfg *Config, correct bool) float64 {
	state.RecentOutcomes = append(state.RecentOutcomes, correct)
	if w := cfg.DownUp.Window(); len(state.RecentOutcomes) > w {
		state.RecentOutcomes = state.RecentOutcomes[len(state.RecentOutcomes)-w:]
	}

	state.TrialsSinceShrink++

	var step float64

	switch {
	case lastRun(state.RecentOutcomes, cfg.DownUp.Down, true):
		if state.CurrentDifference-state.CurrentStepSize <= 0 {
			state.CurrentStepSize = state.CurrentDifference / 2
		} else if shouldShrink(state, cfg) {
			shrink(state, cfg)
		}
		step = -state.CurrentStepSize
		state.RecentOutcomes = state.RecentOutcomes[:0]

	case lastRun(state.RecentOutcomes, cfg.DownUp.Up, false):
		if shouldShrink(state, cfg) {
			shrink(state, cfg)
		}
		step = state.CurrentStepSize
		state.RecentOutcomes = state.RecentOutcomes[:0]
	}

	// Edge-triggered: the periodic shrink fires once per period even when no
	// move happened on the trial that hit the limit.
	if state.TrialsSinceShrink == cfg.ChangeStepSizeOnNTrials {
		state.TrialsSinceShrink = 0
	}

	state.CurrentStep = step
	return step
}

func shouldShrink(state *State, cfg *Config) bool {
	return state.CurrentDifference <= state.CurrentStepSize*cfg.ChangeStepSizeOnDifference ||
		state.TrialsSinceShrink == cfg.ChangeStepSizeOnNTrials
}

func shrink(state *State, cfg *Config) {
	state.CurrentStepSize *= cfg.StepSizeModifier
	state.TrialsSinceShrink = 0
}

// lastRun reports whether the last n outcomes all equal want.
func lastRun(outcomes []bool, n int, want bool) bool {
	if n < 1 || len(outcomes) < n {
		return false
	}
	for _, o := range outcomes[len(outcomes)-n:] {
		if o != want {
			return false
		}
	}
	return true
}
