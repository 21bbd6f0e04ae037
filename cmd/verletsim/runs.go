package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/verletsim/internal/analysis"
	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/export"
	"github.com/san-kum/verletsim/internal/storage"
	"github.com/san-kum/verletsim/internal/viz"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
)

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLAYOUT\tTIME\tPARTICLES\tTICKS\tSEED\tENERGY")
	for _, run := range runs {
		energy := "-"
		if v, ok := run.Metrics["energy"]; ok {
			energy = fmt.Sprintf("%.4f", v)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			run.ID,
			run.Layout,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Ticks,
			run.Seed,
			energy,
		)
	}
	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []storage.Frame, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(frames) == 0 {
		return nil, nil, fmt.Errorf("run %s has no frames", runID)
	}
	return meta, frames, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "layout: %s, %d particles\n", meta.Layout, meta.Particles)
	fmt.Fprintf(out, "ticks: %d\n\n", len(frames))

	n := float64(max(meta.Particles, 1))
	plots := []struct {
		caption string
		pick    func(storage.Frame) float64
	}{
		{"mean height", func(f storage.Frame) float64 { return f.CenterY }},
		{"mean x", func(f storage.Frame) float64 { return f.CenterX }},
		{"energy per particle", func(f storage.Frame) float64 { return f.Energy() / n }},
	}
	for _, p := range plots {
		graph := asciigraph.Plot(storage.Series(frames, p.pick),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(p.caption),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if meta.Dt <= 0 {
		return fmt.Errorf("run %s has no tick duration", meta.ID)
	}
	if len(frames) < 2 {
		return fmt.Errorf("run %s has too few frames to analyze", meta.ID)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "frequency analysis: %s\n", meta.ID)
	fmt.Fprintf(out, "layout: %s\n\n", meta.Layout)

	heights := storage.Series(frames, func(f storage.Frame) float64 { return f.CenterY })
	spectrum := analysis.PowerSpectrum(heights, 1/meta.Dt)

	// lower quarter of the band up to nyquist
	plotData := spectrum.Band(1 / (8 * meta.Dt))
	if len(plotData) < 2 {
		plotData = spectrum.Power
	}
	fmt.Fprintln(out, asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (mean height)"),
	))
	fmt.Fprintln(out)

	freq, _ := spectrum.Dominant()
	fmt.Fprintf(out, "dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Fprintf(out, "period: %.3f s\n", 1.0/freq)
	}

	mean := stat.Mean(heights, nil)
	crossings := analysis.Crossings(heights, mean, meta.Dt)
	fmt.Fprintf(out, "upward crossings of mean height: %d", len(crossings))
	if p := analysis.MeanPeriod(crossings); p > 0 {
		fmt.Fprintf(out, " (mean spacing %.3f s)", p)
	}
	fmt.Fprintln(out)

	path := make([]dynamo.Vec2, len(frames))
	for i, f := range frames {
		path[i] = dynamo.Vec2{X: f.CenterX, Y: f.CenterY}
	}
	fmt.Fprintln(out, "\ncentroid path (o start, x end):")
	fmt.Fprint(out, analysis.TrajectoryToASCII(path, 70, 20))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(cmd.OutOrStdout(), args[0])
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	var svg string
	switch svgMode {
	case "particles", "canvas":
		positions, err := st.LoadPositions(runID)
		if err != nil {
			return err
		}
		if svgMode == "particles" {
			svg = export.ParticlesToSVG(positions, meta.Radius, meta.Bounds, svgWidth)
			break
		}
		canvas := viz.NewCanvas(max(svgWidth/8, 10), max(svgWidth/8*3/8, 5))
		canvas.DrawParticles(positions, meta.Radius, meta.Bounds)
		svg = export.CanvasToSVG(canvas, 4)
	case "path":
		frames, err := st.LoadFrames(runID)
		if err != nil {
			return err
		}
		path := make([]dynamo.Vec2, len(frames))
		for i, f := range frames {
			path[i] = dynamo.Vec2{X: f.CenterX, Y: f.CenterY}
		}
		svg = export.PathToSVG(path, meta.Bounds, svgWidth, "#ff00ff")
	default:
		return fmt.Errorf("unknown svg mode: %s (particles, path, canvas)", svgMode)
	}

	if svg == "" {
		return fmt.Errorf("run %s has nothing to draw", runID)
	}
	return writeOutput(svgOut, cmd.OutOrStdout(), svg)
}
