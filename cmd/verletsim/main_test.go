package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/storage"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestResolveConfigLayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	cfg := config.GetPreset("sparse")
	cfg.Gravity = -9
	if err := config.Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	root := newRootCmd()
	runCmd, _, err := root.Find([]string{"run"})
	if err != nil {
		t.Fatal(err)
	}
	if err := runCmd.ParseFlags([]string{"--preset", "heavy", "--config", path, "--particles", "12"}); err != nil {
		t.Fatal(err)
	}

	got, err := resolveConfig(runCmd)
	if err != nil {
		t.Fatalf("resolveConfig: %v", err)
	}
	if got.Gravity != -9 {
		t.Errorf("config file should override preset, gravity = %v", got.Gravity)
	}
	if got.Particles != 12 {
		t.Errorf("flag should override config, particles = %d", got.Particles)
	}
	if got.Ticks != cfg.Ticks {
		t.Errorf("unchanged flag overrode ticks: %d", got.Ticks)
	}
}

func TestResolveConfigErrors(t *testing.T) {
	if _, err := execute(t, "run", "--preset", "nope", "--data", t.TempDir()); err == nil {
		t.Error("expected unknown preset error")
	}
	if _, err := execute(t, "run", "--radius", "0", "--data", t.TempDir()); err == nil {
		t.Error("expected radius validation error")
	}
	if _, err := execute(t, "run", "--layout", "spiral", "--particles", "2", "--data", t.TempDir()); err == nil {
		t.Error("expected unknown layout error")
	}
}

func TestRunStoresRun(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "run", "--particles", "16", "--ticks", "20", "--seed", "5", "--data", dir)
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	if !strings.Contains(out, "run id:") || !strings.Contains(out, "containment") {
		t.Errorf("unexpected output:\n%s", out)
	}

	runs, err := storage.New(dir).List()
	if err != nil || len(runs) != 1 {
		t.Fatalf("runs = %v, %v", runs, err)
	}
	id := runs[0].ID
	if runs[0].Particles != 16 || runs[0].Ticks != 20 || runs[0].Seed != 5 {
		t.Errorf("metadata = %+v", runs[0])
	}
	if len(runs[0].NonFinite) != 0 || strings.Contains(out, "warning") {
		t.Errorf("run went non-finite: %v\n%s", runs[0].NonFinite, out)
	}
	frames, err := storage.New(dir).LoadFrames(id)
	if err != nil || len(frames) != 20 {
		t.Fatalf("frames = %d, %v", len(frames), err)
	}

	for _, args := range [][]string{
		{"list"},
		{"plot", id},
		{"analyze", id},
		{"export", id},
		{"export-json", id},
		{"export-svg", id},
		{"export-svg", id, "--mode", "path"},
		{"export-svg", id, "--mode", "canvas"},
	} {
		out, err := execute(t, append(args, "--data", dir)...)
		if err != nil {
			t.Errorf("%v: %v", args, err)
		}
		if out == "" {
			t.Errorf("%v: no output", args)
		}
	}

	svgPath := filepath.Join(dir, "final.svg")
	if _, err := execute(t, "export-svg", id, "--data", dir, "-o", svgPath); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(svgPath)
	if err != nil || !strings.Contains(string(data), "<circle") {
		t.Errorf("svg file not written: %v", err)
	}

	if _, err := execute(t, "export-svg", id, "--data", dir, "--mode", "bogus"); err == nil {
		t.Error("expected unknown mode error")
	}
}

func TestEnsembleVerify(t *testing.T) {
	out, err := execute(t, "ensemble", "--runs", "3", "--particles", "20", "--ticks", "15", "--verify")
	if err != nil {
		t.Fatalf("ensemble: %v\n%s", err, out)
	}
	if !strings.Contains(out, "reproduced bit for bit") {
		t.Errorf("missing verification line:\n%s", out)
	}
}

func TestInitAndListings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lattice.yaml")
	if _, err := execute(t, "init", path, "--preset", "lattice"); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil || cfg.Layout != "grid" {
		t.Errorf("init wrote %+v, %v", cfg, err)
	}

	out, err := execute(t, "presets")
	if err != nil || !strings.Contains(out, "faithful") {
		t.Errorf("presets output: %q, %v", out, err)
	}
	out, err = execute(t, "layouts")
	if err != nil || !strings.Contains(out, "column") {
		t.Errorf("layouts output: %q, %v", out, err)
	}
}

func TestLogLevel(t *testing.T) {
	if _, err := execute(t, "run", "--log-level", "loud", "--particles", "1", "--ticks", "1", "--data", t.TempDir()); err == nil {
		t.Error("expected bad log level error")
	}
}

func TestScenarioCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.yaml")
	scenario := `name: demo
steps:
  - name: warm
    preset: sparse
    config: {particles: 10, ticks: 5}
    save: true
  - preset: heavy
    config: {particles: 6, ticks: 3}
`
	if err := os.WriteFile(path, []byte(scenario), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "scenario", path, "--data", dir)
	if err != nil {
		t.Fatalf("scenario: %v\n%s", err, out)
	}
	if !strings.Contains(out, "warm") || !strings.Contains(out, "step-2") {
		t.Errorf("unexpected output:\n%s", out)
	}
	runs, err := storage.New(dir).List()
	if err != nil || len(runs) != 1 || runs[0].Particles != 10 {
		t.Errorf("stored runs = %+v, %v", runs, err)
	}

	if _, err := execute(t, "scenario", filepath.Join(dir, "missing.yaml"), "--data", dir); err == nil {
		t.Error("expected missing file error")
	}
}

func TestSweepCommand(t *testing.T) {
	out, err := execute(t, "sweep", "--preset", "sparse", "--particles", "8", "--ticks", "4",
		"--param", "gravity", "--from", "-1", "--to", "-3", "--steps", "3")
	if err != nil {
		t.Fatalf("sweep: %v\n%s", err, out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("want header and 3 rows, got:\n%s", out)
	}
	if !strings.HasPrefix(lines[0], "gravity") || !strings.Contains(lines[0], "containment") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "-2") {
		t.Errorf("middle row = %q", lines[2])
	}
	if strings.Contains(out, "NaN") {
		t.Errorf("sweep produced NaN metrics:\n%s", out)
	}

	if _, err := execute(t, "sweep", "--param", "mass", "--particles", "2", "--ticks", "1"); err == nil {
		t.Error("expected unknown parameter error")
	}
}

func TestTuneCommand(t *testing.T) {
	out, err := execute(t, "tune", "--preset", "sparse", "--particles", "8", "--ticks", "4",
		"--grid", "gravity=-1,-2", "--grid", "radius=0.5,1", "--metric", "containment")
	if err != nil {
		t.Fatalf("tune: %v\n%s", err, out)
	}
	if strings.Count(out, "containment=") != 5 || !strings.Contains(out, "best: ") {
		t.Errorf("unexpected output:\n%s", out)
	}

	if _, err := execute(t, "tune", "--particles", "2", "--ticks", "1"); err == nil {
		t.Error("expected missing grid error")
	}
	if _, err := execute(t, "tune", "--particles", "2", "--ticks", "1", "--grid", "gravity"); err == nil {
		t.Error("expected malformed axis error")
	}
}
