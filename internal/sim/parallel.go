package sim

import (
	"context"

	"github.com/san-kum/verletsim/internal/dynamo"
	"golang.org/x/sync/errgroup"
)

// MetricFactory builds a fresh metric set for one ensemble member. Metrics
// keep per-run state, so members cannot share them.
type MetricFactory func() []dynamo.Metric

// Ensemble runs independent simulations, one per seed, in parallel. Each
// member owns its particle set; nothing is shared between goroutines.
type Ensemble struct {
	opts      Options
	numRuns   int
	seedStart int64
	metrics   MetricFactory
}

func NewEnsemble(opts Options, numRuns int, seedStart int64, metrics MetricFactory) *Ensemble {
	return &Ensemble{opts: opts, numRuns: numRuns, seedStart: seedStart, metrics: metrics}
}

func (e *Ensemble) Run(ctx context.Context, cfg dynamo.Config) ([]*dynamo.Result, error) {
	results := make([]*dynamo.Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < e.numRuns; i++ {
		idx := i
		g.Go(func() error {
			opts := e.opts
			opts.Seed = e.seedStart + int64(idx)

			s, err := New(opts)
			if err != nil {
				return err
			}
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}

			res, err := s.Run(ctx, cfg)
			if err != nil {
				return err
			}
			results[idx] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Seed returns the seed used by member i.
func (e *Ensemble) Seed(i int) int64 { return e.seedStart + int64(i) }
