package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind     ErrorKind
		expected string
	}{
		{KindConfig, "Configuration error"},
		{KindInvalidTransition, "Invalid transition"},
		{KindInvariant, "Invariant violation"},
		{KindIO, "I/O error"},
		{KindParse, "Parse error"},
		{KindOperationFailed, "Operation failed"},
		{KindCancelled, "Operation cancelled"},
		{ErrorKind(99), "Unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.String())
		})
	}
}

func TestCoreErrorError(t *testing.T) {
	err := &CoreError{
		Kind:       KindIO,
		Message:    "test message",
		Underlying: errors.New("underlying error"),
	}
	assert.Equal(t, "I/O error: test message: underlying error", err.Error())

	err2 := &CoreError{Kind: KindConfig, Message: "config issue"}
	assert.Equal(t, "Configuration error: config issue", err2.Error())
}

func TestCoreErrorIs(t *testing.T) {
	err1 := &CoreError{Kind: KindIO, Message: "test1"}
	err2 := &CoreError{Kind: KindIO, Message: "test2"}
	err3 := &CoreError{Kind: KindConfig, Message: "test3"}

	assert.True(t, err1.Is(err2), "same kind errors should match")
	assert.False(t, err1.Is(err3), "different kind errors should not match")
}

func TestMissingOptionError(t *testing.T) {
	sentinel := errors.New("missing option")
	err := NewMissingOptionError("down_up", sentinel)

	assert.Equal(t, "Configuration error: down_up is a mandatory option to provide", err.Error())
	assert.True(t, IsConfig(err))
	assert.ErrorIs(t, err, sentinel)

	field, ok := MissingField(err)
	require.True(t, ok)
	assert.Equal(t, "down_up", field)
}

func TestConstraintError(t *testing.T) {
	err := NewConstraintError("step_size_modifier", "must be in (0, 1), got 1.5", nil)

	assert.Equal(t, "Configuration error: step_size_modifier must be in (0, 1), got 1.5", err.Error())
	field, ok := MissingField(err)
	require.True(t, ok)
	assert.Equal(t, "step_size_modifier", field)
}

func TestInvalidTransitionError(t *testing.T) {
	err := NewInvalidTransitionError("Advance", "nturns")

	assert.True(t, IsInvalidTransition(err))
	assert.False(t, IsConfig(err))
	assert.Contains(t, err.Error(), "Advance called after the run stopped (nturns)")

	var trErr *InvalidTransitionError
	require.True(t, errors.As(err, &trErr))
	assert.Equal(t, "Advance", trErr.Op)
}

func TestIsKind(t *testing.T) {
	err := NewInvariantError("difference 0 reached threshold computation")

	assert.True(t, IsKind(err, KindInvariant))
	assert.False(t, IsKind(err, KindIO))
	assert.False(t, IsKind(errors.New("plain error"), KindInvariant))

	_, ok := MissingField(errors.New("plain"))
	assert.False(t, ok)
}

func TestIsCancelled(t *testing.T) {
	assert.True(t, IsCancelled(NewCancelledError()))
	assert.False(t, IsCancelled(NewParseError("bad yaml", nil)))
}
