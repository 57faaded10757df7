package observability

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/nightcourt/internal/game/dice"
)

func TestRollClass(t *testing.T) {
	assert.Equal(t, "botch", RollClass(dice.PoolResult{IsBotch: true}))
	assert.Equal(t, "critical", RollClass(dice.PoolResult{Successes: 1, IsCritical: true}))
	assert.Equal(t, "success", RollClass(dice.PoolResult{Successes: 2}))
	assert.Equal(t, "failure", RollClass(dice.PoolResult{}))
}

func TestMetrics_ObserveRoll(t *testing.T) {
	m := NewMetrics()
	m.ObserveRoll(dice.PoolResult{Successes: 1})
	m.ObserveRoll(dice.PoolResult{Successes: 3})
	m.ObserveRoll(dice.PoolResult{IsBotch: true})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.DiceRolls.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DiceRolls.WithLabelValues("botch")))
	assert.Zero(t, testutil.ToFloat64(m.DiceRolls.WithLabelValues("critical")))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.Brews.WithLabelValues("dud").Inc()
	m.Achievements.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `nightcourt_brews_total{kind="dud"} 1`)
	assert.Contains(t, string(body), "nightcourt_achievements_unlocked_total 1")
}

func TestMetrics_RegistriesAreIndependent(t *testing.T) {
	a, b := NewMetrics(), NewMetrics()
	a.Achievements.Inc()
	assert.Zero(t, testutil.ToFloat64(b.Achievements))
}
