package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/metrics"
	"github.com/san-kum/verletsim/internal/sim"
)

// Experiment is one configured, seeded simulation run.
type Experiment struct {
	cfg       *config.Config
	simulator *sim.Simulator
	metrics   []dynamo.Metric
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Options maps the config onto simulator options with the named layout.
func Options(cfg *config.Config, registry *Registry, logger *slog.Logger) (sim.Options, error) {
	spawn, err := registry.GetLayout(cfg.Layout)
	if err != nil {
		return sim.Options{}, err
	}
	return sim.Options{
		Particles: cfg.Particles,
		Radius:    cfg.Radius,
		Gravity:   cfg.Gravity,
		Scale:     cfg.Scale,
		Epsilon:   cfg.Epsilon,
		Width:     cfg.Viewport.Width,
		Height:    cfg.Viewport.Height,
		Seed:      cfg.Seed,
		Spawn:     spawn,
		Logger:    logger,
	}, nil
}

func (e *Experiment) Setup(registry *Registry, logger *slog.Logger, extra ...dynamo.Metric) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	opts, err := Options(e.cfg, registry, logger)
	if err != nil {
		return err
	}
	s, err := sim.New(opts)
	if err != nil {
		return err
	}

	e.metrics = append(metrics.Defaults(e.cfg.Dt(), e.cfg.Gravity), extra...)
	for _, m := range e.metrics {
		s.AddMetric(m)
	}
	e.simulator = s
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.cfg.RunConfig())
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

// Metric returns the attached metric with the given name, or nil.
func (e *Experiment) Metric(name string) dynamo.Metric {
	for _, m := range e.metrics {
		if m.Name() == name {
			return m
		}
	}
	return nil
}
