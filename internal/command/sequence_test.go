package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSequenceStrict(t *testing.T) {
	result := ValidateSequence([]string{"time set day", "bogus foo", "weather clear"}, true)

	assert.True(t, result.Strict)
	assert.True(t, result.ShouldAbort)
	require.Len(t, result.Valid, 1)
	require.Len(t, result.Invalid, 1)
	assert.Equal(t, "time", result.Valid[0].BaseToken)
	assert.Equal(t, "bogus", result.Invalid[0].BaseToken)
}

func TestValidateSequenceStrictAllValid(t *testing.T) {
	result := ValidateSequence([]string{"//pos1", "//pos2", "//set stone"}, true)

	assert.False(t, result.ShouldAbort)
	assert.Len(t, result.Valid, 3)
	assert.Empty(t, result.Invalid)
}

func TestValidateSequenceLenient(t *testing.T) {
	result := ValidateSequence([]string{"time set day", "bogus foo", "weather clear", "bad again"}, false)

	assert.False(t, result.Strict)
	assert.False(t, result.ShouldAbort)
	require.Len(t, result.Valid, 2)
	assert.Equal(t, "time", result.Valid[0].BaseToken)
	assert.Equal(t, "weather", result.Valid[1].BaseToken)
	require.Len(t, result.Invalid, 2)
	assert.Equal(t, "bogus", result.Invalid[0].BaseToken)
	assert.Equal(t, "bad", result.Invalid[1].BaseToken)

	assert.Equal(t, []string{"time set day", "weather clear"}, result.NormalizedCommands())

	first, ok := result.FirstRejected()
	require.True(t, ok)
	assert.Equal(t, "bogus", first.BaseToken)
}

func TestValidateSequenceLenientAllInvalid(t *testing.T) {
	result := ValidateSequence([]string{"bogus foo", "bad again"}, false)

	assert.True(t, result.ShouldAbort)
	assert.Empty(t, result.Valid)
	assert.Len(t, result.Invalid, 2)
}

func TestValidateSequenceEmptyInput(t *testing.T) {
	lenient := ValidateSequence(nil, false)
	assert.True(t, lenient.ShouldAbort)

	strict := ValidateSequence(nil, true)
	assert.False(t, strict.ShouldAbort)

	_, ok := strict.FirstRejected()
	assert.False(t, ok)
}

func TestValidateSequenceCountsProcessedPrefix(t *testing.T) {
	commands := []string{"time set day", "weather clear", "", "give @p dirt", "nope"}

	strict := ValidateSequence(commands, true)
	assert.Equal(t, 3, len(strict.Valid)+len(strict.Invalid))
	assert.Equal(t, EmptyToken, strict.Invalid[0].BaseToken)

	lenient := ValidateSequence(commands, false)
	assert.Equal(t, len(commands), len(lenient.Valid)+len(lenient.Invalid))
}
