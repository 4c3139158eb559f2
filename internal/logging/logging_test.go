package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupDisabled(t *testing.T) {
	l, err := Setup(t.TempDir(), true, true)
	require.NoError(t, err)
	assert.Nil(t, l)

	// nil loggers are usable
	l.Info("ignored %d", 1)
	l.Debug("ignored")
	assert.Equal(t, "", l.FilePath())
	assert.NoError(t, l.Close())
	assert.NotNil(t, l.Structured(false))
}

func TestSetupWritesFile(t *testing.T) {
	dir := t.TempDir()
	l, err := Setup(dir, false, false)
	require.NoError(t, err)
	require.NotNil(t, l)

	assert.True(t, strings.HasPrefix(l.FilePath(), dir))
	assert.Contains(t, l.FilePath(), "staircase_run_")

	l.Info("condition %s", "f0")
	l.Debug("hidden without verbose")
	l.Structured(false).Info("trial", "difference", 12.0)
	require.NoError(t, l.Close())

	data, err := os.ReadFile(l.FilePath())
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "[INFO] Staircase starting")
	assert.Contains(t, text, "[INFO] condition f0")
	assert.NotContains(t, text, "hidden without verbose")
	assert.Contains(t, text, "difference=12")
}

func TestLoggerLevelsAndRunTags(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelInfo, Output: &buf, Enabled: true})

	l.Debug("dropped")
	l.WithRun("abc", "f0").Info("stopped", "reason", "nturns")

	text := buf.String()
	assert.NotContains(t, text, "dropped")
	assert.Contains(t, text, "run_id=abc")
	assert.Contains(t, text, "condition=f0")
	assert.Contains(t, text, "reason=nturns")
}

func TestSetupJSONRecords(t *testing.T) {
	l, err := Setup(t.TempDir(), true, false)
	require.NoError(t, err)

	l.Structured(true).Debug("trial", "difference", 12.5)
	require.NoError(t, l.Close())

	data, err := os.ReadFile(l.FilePath())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"trial"`)
	assert.Contains(t, string(data), `"difference":12.5`)
}

func TestPrefixGroupsAttributes(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelInfo, Output: &buf, Enabled: true})

	l.WithPrefix("batch").Info("complete", "runs", 4)
	assert.Contains(t, buf.String(), "batch.runs=4")
}

func TestDisabledLogger(t *testing.T) {
	l := New(Config{Enabled: false})
	l.Error("nothing")
	assert.NotNil(t, l.Logger)
}
