package adapt

// TurnIndices returns the indices into steps at which the direction reverses.
// Zero steps (holds) are skipped; a turn is recorded at the first nonzero
// step whose sign differs from the previous nonzero step.
func TurnIndices(steps []float64) []int {
	var turns []int
	var prev float64

	for i, s := range steps {
		if s == 0 {
			continue
		}
		sign := sign(s)
		if prev != 0 && sign != prev {
			turns = append(turns, i)
		}
		prev = sign
	}

	return turns
}

// CountTurns returns the number of reversals in steps.
func CountTurns(steps []float64) int {
	return len(TurnIndices(steps))
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
