package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/verletsim/internal/automation"
	"github.com/san-kum/verletsim/internal/experiment"
	"github.com/san-kum/verletsim/internal/optim"
	"github.com/san-kum/verletsim/internal/storage"
	"github.com/spf13/cobra"
)

func runScenario(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	logger, err := newLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Fprintf(out, "scenario %s: %d steps\n", sc.Name, len(sc.Steps))
	results, err := automation.RunScenario(cmd.Context(), sc, experiment.NewRegistry(), st, logger)
	for _, r := range results {
		id := r.RunID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(out, "  %-16s %5d particles  %4d ticks  energy=%-12.4f run=%s\n",
			r.Name, r.Config.Particles, r.Result.Ticks, r.Result.Metrics["energy"], id)
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	sweep := &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  sweepFrom,
		ParamMax:  sweepTo,
		NumSteps:  sweepSteps,
	}
	results, err := automation.RunSweep(cmd.Context(), sweep, experiment.NewRegistry(), logger)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return nil
	}

	names := sortedKeys(results[0].Metrics)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\terrors\n", sweepParam, strings.Join(names, "\t"))
	for _, r := range results {
		fmt.Fprintf(w, "%g", r.ParamValue)
		for _, name := range names {
			fmt.Fprintf(w, "\t%.6g", r.Metrics[name])
		}
		fmt.Fprintf(w, "\t%d\n", r.Errors)
	}
	return w.Flush()
}

func runTune(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if len(gridAxes) == 0 {
		return fmt.Errorf("tune needs at least one --grid axis")
	}

	var names []string
	var ranges [][]float64
	for _, axis := range gridAxes {
		name, values, err := optim.ParseAxis(axis)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	best, all, err := optim.NewGridSearch(names, ranges).Search(cmd.Context(), cfg, experiment.NewRegistry(), logger, tuneMetric)
	for _, e := range all {
		if e.Err != nil {
			fmt.Fprintf(out, "  %s  error: %v\n", formatParams(e.Params), e.Err)
			continue
		}
		fmt.Fprintf(out, "  %s  %s=%.6g\n", formatParams(e.Params), tuneMetric, e.Value)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "best: %s  %s=%.6g\n", formatParams(best.Params), tuneMetric, best.Value)
	return nil
}

func formatParams(p map[string]float64) string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%g", name, p[name])
	}
	return strings.Join(parts, " ")
}
