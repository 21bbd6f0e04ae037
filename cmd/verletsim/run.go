package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/verletsim/internal/analysis"
	"github.com/san-kum/verletsim/internal/automation"
	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/experiment"
	"github.com/san-kum/verletsim/internal/metrics"
	"github.com/san-kum/verletsim/internal/sim"
	"github.com/san-kum/verletsim/internal/storage"
	"github.com/san-kum/verletsim/internal/viz"
	"github.com/spf13/cobra"
)

// resolveConfig layers defaults, preset, config file and explicitly set
// flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("particles") {
		cfg.Particles = particles
	}
	if flags.Changed("radius") {
		cfg.Radius = radius
	}
	if flags.Changed("gravity") {
		cfg.Gravity = gravity
	}
	if flags.Changed("scale") {
		cfg.Scale = scale
	}
	if flags.Changed("epsilon") {
		cfg.Epsilon = epsilon
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("ticks") {
		cfg.Ticks = ticks
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("layout") {
		cfg.Layout = layout
	}
	if flags.Changed("width") {
		cfg.Viewport.Width = width
	}
	if flags.Changed("height") {
		cfg.Viewport.Height = height
	}
	if flags.Changed("check-nan") {
		cfg.CheckNaN = checkNaN
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry(), logger, metrics.NewOverlap()); err != nil {
		return err
	}
	s := exp.GetSimulator()
	rec := storage.NewRecorder(cfg.Dt(), cfg.Gravity, cfg.Ticks)
	s.AddObserver(rec)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Fprintf(out, "running %s layout: %d particles, %d ticks...\n", cfg.Layout, cfg.Particles, cfg.Ticks)
	start := time.Now()
	result, runErr := exp.Run(ctx)
	if runErr != nil && !errors.Is(runErr, dynamo.ErrContextCanceled) {
		return runErr
	}
	elapsed := time.Since(start)

	meta := automation.Metadata(cfg, exp, result)
	runID, err := st.Save(meta, rec.Frames(), result.Positions)
	if err != nil {
		return err
	}
	logger.Info("run stored", "id", runID, "dir", dataDir)

	fmt.Fprintf(out, "completed in %v\n", elapsed)
	fmt.Fprintf(out, "run id: %s\n", runID)
	fmt.Fprintf(out, "ticks: %d (%.2fs simulated)\n", result.Ticks, result.Time)
	fmt.Fprintln(out, "\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Fprintf(out, "  %s: %.6f\n", name, result.Metrics[name])
	}
	for _, e := range result.Errors {
		fmt.Fprintf(out, "warning: %v\n", e)
	}

	return runErr
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	// the alt screen owns the terminal, so diagnostics are dropped
	if err := exp.Setup(experiment.NewRegistry(), slog.New(slog.NewTextHandler(io.Discard, nil))); err != nil {
		return err
	}

	title := cfg.Layout
	if preset != "" {
		title = preset
	}
	m := viz.NewModel(exp.GetSimulator(), viz.LiveOptions{
		Title:   title,
		Dt:      cfg.Dt(),
		FPS:     cfg.FPS,
		GIFPath: gifPath,
	})
	return viz.RunLive(m)
}

func benchSimulation(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	counts := []int{100, 500, 1000, 2000}

	fmt.Fprintf(out, "benchmarking %d ticks per count\n\n", benchTicks)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tPAIRS\tTIME\tTICKS/SEC\tPAIRS/SEC")

	for _, n := range counts {
		opts := sim.DefaultOptions()
		opts.Particles = n
		opts.Seed = 42
		s, err := sim.New(opts)
		if err != nil {
			return err
		}

		start := time.Now()
		for i := 0; i < benchTicks; i++ {
			s.Advance(dynamo.DefaultDt)
		}
		elapsed := time.Since(start)

		pairs := n * (n - 1) / 2
		tps := float64(benchTicks) / elapsed.Seconds()
		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\t%.3g\n", n, pairs, elapsed, tps, tps*float64(pairs))
	}
	return w.Flush()
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if numRuns <= 0 {
		return fmt.Errorf("runs must be positive, got %d: %w", numRuns, dynamo.ErrParameterBounds)
	}
	logger, err := newLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	opts, err := experiment.Options(cfg, experiment.NewRegistry(), logger)
	if err != nil {
		return err
	}

	factory := func() []dynamo.Metric { return metrics.Defaults(cfg.Dt(), cfg.Gravity) }
	ens := sim.NewEnsemble(opts, numRuns, cfg.Seed, factory)

	start := time.Now()
	results, err := ens.Run(cmd.Context(), cfg.RunConfig())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d runs in %v\n\n", numRuns, time.Since(start))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tTICKS\tENERGY\tDRIFT\tCONTAINMENT\tERRORS")
	for i, res := range results {
		fmt.Fprintf(w, "%d\t%d\t%.4f\t%.4f\t%.4f\t%d\n", ens.Seed(i), res.Ticks,
			res.Metrics["energy"], res.Metrics["energy_drift"], res.Metrics["containment"], len(res.Errors))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !verify {
		return nil
	}
	again, err := sim.NewEnsemble(opts, numRuns, cfg.Seed, factory).Run(cmd.Context(), cfg.RunConfig())
	if err != nil {
		return err
	}
	for i := range results {
		if !samePositions(results[i].Positions, again[i].Positions) {
			return fmt.Errorf("seed %d is not reproducible", ens.Seed(i))
		}
	}
	fmt.Fprintln(out, "\nall seeds reproduced bit for bit")
	return nil
}

func samePositions(a, b []dynamo.Vec2) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Float64bits(a[i].X) != math.Float64bits(b[i].X) || math.Float64bits(a[i].Y) != math.Float64bits(b[i].Y) {
			return false
		}
	}
	return true
}

func runDivergence(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := experiment.Options(cfg, experiment.NewRegistry(), nil)
	if err != nil {
		return err
	}

	div, err := analysis.MeasureDivergence(opts, cfg.Ticks, cfg.Dt(), perturbation)
	if err != nil {
		return err
	}
	if len(div.Separation) > 1 {
		logSep := make([]float64, len(div.Separation))
		for i, s := range div.Separation {
			logSep[i] = math.Log10(math.Max(s, 1e-300))
		}
		fmt.Fprintln(out, asciigraph.Plot(logSep,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("log10 rms separation"),
		))
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "displacement: %g\n", perturbation)
	fmt.Fprintf(out, "growth rate: %.4f /s\n", div.Exponent)
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if preset != "" {
		if cfg = config.GetPreset(preset); cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
	return nil
}

func writeOutput(path string, stdout io.Writer, content string) error {
	if path == "" {
		_, err := fmt.Fprintln(stdout, content)
		return err
	}
	return os.WriteFile(path, []byte(content+"\n"), 0644)
}
