package command

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParse_Empty(t *testing.T) {
	result := Parse("")
	assert.Equal(t, "", result.Command)
	assert.Nil(t, result.Args)
}

func TestParse_SingleWord(t *testing.T) {
	result := Parse("quest")
	assert.Equal(t, "quest", result.Command)
	assert.Nil(t, result.Args)
	assert.Equal(t, "", result.RawArgs)
}

func TestParse_Lowercase(t *testing.T) {
	result := Parse("BREW 1 7")
	assert.Equal(t, "brew", result.Command)
	assert.Equal(t, []string{"1", "7"}, result.Args)
}

func TestParse_WithArgs(t *testing.T) {
	result := Parse("send mission-01 agent-000")
	assert.Equal(t, "send", result.Command)
	assert.Equal(t, []string{"mission-01", "agent-000"}, result.Args)
	assert.Equal(t, "mission-01 agent-000", result.RawArgs)
}

func TestParse_ExtraWhitespace(t *testing.T) {
	result := Parse("  dossier   Mr.   Jones  ")
	assert.Equal(t, "dossier", result.Command)
	assert.Equal(t, []string{"Mr.", "Jones"}, result.Args)
	assert.Equal(t, "Mr.   Jones", result.RawArgs)
}

func TestParse_Alias(t *testing.T) {
	result := Parse("?")
	assert.Equal(t, "?", result.Command)
}

func TestParse_ArgumentCaseKept(t *testing.T) {
	result := Parse("origin Street Urchin")
	assert.Equal(t, "origin", result.Command)
	assert.Equal(t, "Street Urchin", result.RawArgs)
}

func TestPosition_OneBasedToIndex(t *testing.T) {
	i, err := Parse("choose 1").Position(0)
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	i, err = Parse("use 12").Position(0)
	require.NoError(t, err)
	assert.Equal(t, 11, i)
}

func TestPosition_Rejects(t *testing.T) {
	_, err := Parse("choose").Position(0)
	assert.ErrorIs(t, err, ErrMissingArgument)

	_, err = Parse("choose zero").Position(0)
	assert.ErrorIs(t, err, ErrNotNumber)

	_, err = Parse("choose 0").Position(0)
	assert.ErrorIs(t, err, ErrNotPosition)

	_, err = Parse("choose -3").Position(0)
	assert.ErrorIs(t, err, ErrNotPosition)

	_, err = Parse("choose 1").Position(-1)
	assert.ErrorIs(t, err, ErrMissingArgument)
}

func TestInts(t *testing.T) {
	ids, err := Parse("brew 1 7 12").Ints()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 7, 12}, ids)

	ids, err = Parse("brew").Ints()
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = Parse("brew 1 a").Ints()
	assert.ErrorIs(t, err, ErrNotNumber)
	var argErr *ArgError
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, "a", argErr.Arg)
}

func TestPropertyPositionInvertsDisplayNumber(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 10000).Draw(t, "n")
		i, err := Parse(fmt.Sprintf("answer %d", n)).Position(0)
		if err != nil {
			t.Fatalf("position %d rejected: %v", n, err)
		}
		if i != n-1 {
			t.Fatalf("position %d gave index %d", n, i)
		}
	})
}

func TestPropertyParseAlwaysLowercasesCommand(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		word := rapid.StringMatching(`[A-Za-z]{1,20}`).Draw(t, "word")
		result := Parse(word)
		for _, c := range result.Command {
			if c >= 'A' && c <= 'Z' {
				t.Fatalf("command %q contains uppercase char in Parse result %q", word, result.Command)
			}
		}
	})
}

func TestPropertyParseNonEmptyInputHasCommand(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		word := rapid.StringMatching(`[a-z]{1,10}`).Draw(t, "word")
		result := Parse(word)
		if result.Command == "" {
			t.Fatalf("non-empty input %q produced empty command", word)
		}
	})
}
