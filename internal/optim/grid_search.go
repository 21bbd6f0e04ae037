package optim

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/experiment"
)

// GridSearch evaluates every combination of parameter values and keeps the
// one with the lowest metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// ParseAxis reads "name=v1,v2,...".
func ParseAxis(s string) (string, []float64, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok || name == "" || list == "" {
		return "", nil, fmt.Errorf("grid axis %q: want name=v1,v2: %w", s, dynamo.ErrParameterBounds)
	}
	parts := strings.Split(list, ",")
	values := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return "", nil, fmt.Errorf("grid axis %q: %w", s, err)
		}
		values = append(values, v)
	}
	return name, values, nil
}

// Evaluation is one grid point. Err is set when the point could not be
// built or run; such points never win.
type Evaluation struct {
	Params map[string]float64
	Value  float64
	Err    error
}

func (g *GridSearch) Search(
	ctx context.Context,
	base *config.Config,
	registry *experiment.Registry,
	logger *slog.Logger,
	metricName string,
) (*Evaluation, []Evaluation, error) {
	for _, name := range g.paramNames {
		if _, err := base.Param(name); err != nil {
			return nil, nil, err
		}
	}
	if len(g.paramNames) != len(g.ranges) {
		return nil, nil, fmt.Errorf("%d parameters but %d ranges: %w", len(g.paramNames), len(g.ranges), dynamo.ErrDimensionMismatch)
	}

	var all []Evaluation
	g.searchRecursive(ctx, 0, make(map[string]float64), func(params map[string]float64) {
		all = append(all, evaluate(ctx, base, registry, logger, metricName, params))
	})
	if err := ctx.Err(); err != nil {
		return nil, all, fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, err)
	}

	var best *Evaluation
	for i := range all {
		e := &all[i]
		if e.Err != nil || math.IsNaN(e.Value) {
			continue
		}
		if best == nil || e.Value < best.Value {
			best = e
		}
	}
	if best == nil {
		return nil, all, fmt.Errorf("no grid point produced %s", metricName)
	}
	return best, all, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, visit func(map[string]float64)) {
	if ctx.Err() != nil {
		return
	}
	if depth == len(g.paramNames) {
		visit(current)
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.searchRecursive(ctx, depth+1, newParams, visit)
	}
}

func evaluate(ctx context.Context, base *config.Config, registry *experiment.Registry, logger *slog.Logger, metricName string, params map[string]float64) Evaluation {
	ev := Evaluation{Params: params, Value: math.Inf(1)}
	cfg := *base
	for name, v := range params {
		if ev.Err = cfg.SetParam(name, v); ev.Err != nil {
			return ev
		}
	}

	exp := experiment.New(&cfg)
	if ev.Err = exp.Setup(registry, logger); ev.Err != nil {
		return ev
	}
	result, err := exp.Run(ctx)
	if err != nil {
		ev.Err = err
		return ev
	}
	val, ok := result.Metrics[metricName]
	if !ok {
		ev.Err = fmt.Errorf("unknown metric %q", metricName)
		return ev
	}
	ev.Value = val
	return ev
}
