package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/experiment"
	"github.com/san-kum/verletsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string

	configFile string
	preset     string
	particles  int
	radius     float64
	gravity    float64
	scale      float64
	epsilon    float64
	fps        int
	ticks      int
	seed       int64
	layout     string
	width      int
	height     int
	checkNaN   bool

	numRuns      int
	verify       bool
	perturbation float64
	svgOut       string
	svgWidth     int
	svgMode      string
	gifPath      string
	benchTicks   int

	sweepParam string
	sweepFrom  float64
	sweepTo    float64
	sweepSteps int
	gridAxes   []string
	tuneMetric string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "verletsim",
		Short: "2d verlet particle collision sandbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(experiment.NewRegistry(), slog.New(slog.NewTextHandler(io.Discard, nil)))
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".verletsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().StringVar(&gifPath, "gif", "simulation.gif", "gif recording path")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure ticks per second for several particle counts",
		Args:  cobra.NoArgs,
		RunE:  benchSimulation,
	}
	benchCmd.Flags().IntVar(&benchTicks, "ticks", 120, "ticks per measurement")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run several seeds in parallel",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	addSimFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 4, "number of seeds")
	ensembleCmd.Flags().BoolVar(&verify, "verify", false, "rerun every seed and compare positions bit for bit")

	divergenceCmd := &cobra.Command{
		Use:   "divergence",
		Short: "measure sensitivity to a small displacement of one particle",
		Args:  cobra.NoArgs,
		RunE:  runDivergence,
	}
	addSimFlags(divergenceCmd)
	divergenceCmd.Flags().Float64Var(&perturbation, "delta", 1e-6, "initial displacement of particle 0")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot mean height and energy of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of the mean height",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render the final positions or centroid path as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width in pixels")
	exportSVGCmd.Flags().StringVar(&svgMode, "mode", "particles", "particles, path or canvas")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(out, "  %-10s %5d particles  g=%-6g layout=%s\n", name, p.Particles, p.Gravity, p.Layout)
			}
			return nil
		},
	}

	layoutsCmd := &cobra.Command{
		Use:   "layouts",
		Short: "list spawn layouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range experiment.NewRegistry().ListLayouts() {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a config file from defaults or a preset",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "start from preset")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run the steps of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "vary one parameter and tabulate the metrics",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "gravity", "parameter to vary")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", -1, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", -10, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search parameters minimizing a metric",
		Args:  cobra.NoArgs,
		RunE:  runTune,
	}
	addSimFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&gridAxes, "grid", nil, "axis as name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "energy_drift", "metric to minimize")

	rootCmd.AddCommand(runCmd, liveCmd, benchCmd, ensembleCmd, divergenceCmd, listCmd, plotCmd,
		analyzeCmd, exportCmd, exportJSONCmd, exportSVGCmd, presetsCmd, layoutsCmd, initCmd,
		scenarioCmd, sweepCmd, tuneCmd)
	return rootCmd
}

func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.IntVar(&particles, "particles", 2000, "number of particles")
	f.Float64Var(&radius, "radius", 1, "particle radius")
	f.Float64Var(&gravity, "gravity", -2.5, "vertical acceleration")
	f.Float64Var(&scale, "scale", 100, "half-diagonal of the bounds in world units")
	f.Float64Var(&epsilon, "epsilon", dynamo.DefaultEpsilon, "skip pairs closer than this (0 keeps coincident pairs)")
	f.IntVar(&fps, "fps", 60, "ticks per second")
	f.IntVar(&ticks, "ticks", config.DefaultTicks, "number of ticks")
	f.Int64Var(&seed, "seed", 0, "random seed")
	f.StringVar(&layout, "layout", config.DefaultLayout, "spawn layout")
	f.IntVar(&width, "width", 800, "viewport width")
	f.IntVar(&height, "height", 600, "viewport height")
	f.BoolVar(&checkNaN, "check-nan", true, "stop when a position becomes non-finite")
}

func newLogger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", logLevel, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}
