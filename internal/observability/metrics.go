package observability

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cory-johannsen/nightcourt/internal/game/dice"
)

// Metrics holds the hub's prometheus collectors on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	DiceRolls      *prometheus.CounterVec
	Encounters     *prometheus.CounterVec
	Conflicts      *prometheus.CounterVec
	Brews          *prometheus.CounterVec
	Missions       *prometheus.CounterVec
	SpendRefusals  *prometheus.CounterVec
	Diversions     *prometheus.CounterVec
	Achievements   prometheus.Counter
	ScriptFailures prometheus.Counter
}

// NewMetrics registers every collector on a fresh registry.
//
// Postcondition: All collectors start at zero.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		DiceRolls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nightcourt_dice_rolls_total",
			Help: "Pool rolls by classification.",
		}, []string{"class"}),
		Encounters: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nightcourt_encounters_total",
			Help: "Arena encounters by outcome.",
		}, []string{"outcome"}),
		Conflicts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nightcourt_social_conflicts_total",
			Help: "Social conflicts by outcome.",
		}, []string{"outcome"}),
		Brews: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nightcourt_brews_total",
			Help: "Alchemy brews by result kind.",
		}, []string{"kind"}),
		Missions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nightcourt_missions_total",
			Help: "Syndicate missions by outcome.",
		}, []string{"outcome"}),
		SpendRefusals: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nightcourt_spend_refusals_total",
			Help: "Spends refused for insufficient balance, by currency.",
		}, []string{"currency"}),
		Diversions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nightcourt_diversions_total",
			Help: "Trivia answers, glyph decodes and meditations by result.",
		}, []string{"game", "result"}),
		Achievements: f.NewCounter(prometheus.CounterOpts{
			Name: "nightcourt_achievements_unlocked_total",
			Help: "Achievements unlocked.",
		}),
		ScriptFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "nightcourt_script_fallbacks_total",
			Help: "Narrative hook calls that fell back to built-in text.",
		}),
	}
}

// RollClass names the classification of a pool result.
func RollClass(r dice.PoolResult) string {
	switch {
	case r.IsBotch:
		return "botch"
	case r.IsCritical:
		return "critical"
	case r.Successes > 0:
		return "success"
	default:
		return "failure"
	}
}

// ObserveRoll counts r under its classification. It has the signature of
// dice.Roller.Observe.
func (m *Metrics) ObserveRoll(r dice.PoolResult) {
	m.DiceRolls.WithLabelValues(RollClass(r)).Inc()
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
//
// Precondition: addr must be a valid listen address.
// Postcondition: Returns nil after a clean shutdown, or the listen error.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	logger.Info("metrics listening", zap.String("addr", addr))

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
