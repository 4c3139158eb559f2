package staircase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	ctrl, err := New()
	require.NoError(t, err)

	cfg := ctrl.Config()
	assert.Equal(t, DownUp{Down: 2, Up: 1}, cfg.DownUp)
	assert.False(t, ctrl.Done())
	assert.Equal(t, cfg.StartingDifference, ctrl.CurrentDifference())
}

func TestNewOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		check   func(t *testing.T, cfg Config)
		wantErr bool
	}{
		{
			name: "preset",
			opts: []Option{WithPreset(Preset3Down1Up)},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, 3, cfg.DownUp.Down)
			},
		},
		{
			name: "options after preset win",
			opts: []Option{
				WithPreset(Preset1Down1Up),
				WithStartingDifference(20),
				WithInitialStepSize(4),
				WithThresholdOnLastNTurns(4),
			},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, 1, cfg.DownUp.Down)
				assert.Equal(t, 20.0, cfg.StartingDifference)
				assert.Equal(t, 4.0, cfg.InitialStepSize)
				assert.Equal(t, 4, cfg.ThresholdOnLastNTurns)
			},
		},
		{
			name: "termination and shrink",
			opts: []Option{
				WithTermination(8, 60, 40),
				WithShrink(2, 6),
				WithStepSizeModifier(0.5),
			},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, 8, cfg.TerminateOnNTurns)
				assert.Equal(t, 60, cfg.TerminateOnNTrials)
				assert.Equal(t, 40.0, cfg.TerminateOnMaxDifference)
				assert.Equal(t, 2.0, cfg.ChangeStepSizeOnDifference)
				assert.Equal(t, 6, cfg.ChangeStepSizeOnNTrials)
				assert.Equal(t, 0.5, cfg.StepSizeModifier)
			},
		},
		{
			name:    "modifier out of range",
			opts:    []Option{WithStepSizeModifier(1.5)},
			wantErr: true,
		},
		{
			name:    "invalid rule",
			opts:    []Option{WithDownUp(0, 1)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewConfig(tt.opts...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)

			_, err = New(tt.opts...)
			assert.NoError(t, err)
		})
	}
}

func TestParsePreset(t *testing.T) {
	p, err := ParsePreset("3DOWN1UP")
	require.NoError(t, err)
	assert.Equal(t, Preset3Down1Up, p)

	_, err = ParsePreset("4down1up")
	assert.Error(t, err)
}

func TestControllerLoop(t *testing.T) {
	ctrl, err := New(WithStartingDifference(12), WithTermination(6, 200, 100))
	require.NoError(t, err)

	for !ctrl.Done() {
		d := ctrl.CurrentDifference()
		require.NoError(t, ctrl.RecordTrial(d, ctrl.NextStep(), d >= 6))
		_, _, err := ctrl.Advance()
		require.NoError(t, err)
	}

	res := ctrl.Result()
	require.NotNil(t, res)
	assert.Equal(t, ReasonNTurns, res.Reason)
	assert.True(t, res.HasThreshold())
}

func TestSimulate(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	var events []Event
	res, err := Simulate(context.Background(), cfg, DefaultListener(), 7, func(e Event) error {
		events = append(events, e)
		return nil
	})
	require.NoError(t, err)
	require.NotNil(t, res.Result)

	require.GreaterOrEqual(t, len(events), 3)
	assert.Equal(t, EventTypeRunStarted, events[0].Type())
	assert.Equal(t, EventTypeRunComplete, events[len(events)-1].Type())

	trials := 0
	for _, e := range events {
		if e.Type() == EventTypeTrial {
			trials++
		}
	}
	assert.Equal(t, len(res.Trials), trials)

	done, ok := events[len(events)-1].(RunCompleteEvent)
	require.True(t, ok)
	assert.Equal(t, res.RunID, done.RunID)
	assert.Equal(t, string(res.Result.Reason), done.Reason)
}

func TestSimulateDeterministic(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	a, err := Simulate(context.Background(), cfg, DefaultListener(), 42, nil)
	require.NoError(t, err)
	b, err := Simulate(context.Background(), cfg, DefaultListener(), 42, nil)
	require.NoError(t, err)

	assert.Equal(t, a.Result.Differences, b.Result.Differences)
	assert.Equal(t, a.Result.Corrects, b.Result.Corrects)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestSimulateInvalidListener(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	params := DefaultListener()
	params.Alternatives = 1
	_, err = Simulate(context.Background(), cfg, params, 1, nil)
	assert.Error(t, err)
}
