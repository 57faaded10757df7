package buff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/nightcourt/internal/game/buff"
)

func TestParse_Valid(t *testing.T) {
	def, err := buff.Parse([]byte(`
id: buff_blood_fury
name: Blood Fury
effects:
  - stat: attack
    value: 10
duration: 3
`))
	require.NoError(t, err)
	assert.Equal(t, "buff_blood_fury", def.ID)
	assert.Equal(t, []buff.Effect{{Stat: buff.StatAttack, Value: 10}}, def.Effects)
}

func TestParse_UnknownStat(t *testing.T) {
	_, err := buff.Parse([]byte("id: x\neffects:\n  - stat: speed\n    value: 1\nduration: 1\n"))
	assert.Error(t, err)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := buff.Parse([]byte("id: x\npotency: 3\n"))
	assert.Error(t, err)
}

func TestDef_Validate_NegativeDuration(t *testing.T) {
	assert.Error(t, buff.Def{ID: "x", Duration: -1}.Validate())
}
