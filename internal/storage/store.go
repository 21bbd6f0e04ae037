package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/verletsim/internal/dynamo"
)

const (
	metadataFile  = "metadata.json"
	framesFile    = "frames.csv"
	positionsFile = "positions.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Layout    string             `json:"layout"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Particles int                `json:"particles"`
	Radius    float64            `json:"radius"`
	Gravity   float64            `json:"gravity"`
	Epsilon   float64            `json:"epsilon"`
	Dt        float64            `json:"dt"`
	Ticks     int                `json:"ticks"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	Bounds    dynamo.Bounds      `json:"bounds"`
	Metrics   map[string]float64 `json:"metrics"`
	// NonFinite names metrics whose value was NaN or infinite; JSON cannot
	// carry them, so they are dropped from Metrics.
	NonFinite []string `json:"non_finite,omitempty"`
}

func (m *RunMetadata) dropNonFinite() {
	finite := make(map[string]float64, len(m.Metrics))
	for name, v := range m.Metrics {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			m.NonFinite = append(m.NonFinite, name)
			continue
		}
		finite[name] = v
	}
	sort.Strings(m.NonFinite)
	m.Metrics = finite
}

// Save writes a run directory holding the metadata, the per-tick frames and
// the final positions. The run ID is assigned here.
func (s *Store) Save(meta RunMetadata, frames []Frame, positions []dynamo.Vec2) (string, error) {
	meta.Timestamp = time.Now()
	meta.dropNonFinite()
	meta.ID = fmt.Sprintf("%s_%d", meta.Layout, meta.Timestamp.UnixNano())
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), frames); err != nil {
		return "", err
	}
	if err := writePositions(filepath.Join(runDir, positionsFile), positions); err != nil {
		return "", err
	}

	return meta.ID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeFrames(path string, frames []Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(frameHeader); err != nil {
		return err
	}
	for _, fr := range frames {
		if err := w.Write(fr.record()); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writePositions(path string, positions []dynamo.Vec2) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"index", "x", "y"}); err != nil {
		return err
	}
	for i, p := range positions {
		if err := w.Write([]string{strconv.Itoa(i), formatFloat(p.X), formatFloat(p.Y)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, nil
	}
	return records[1:], nil
}

func (s *Store) LoadFrames(runID string) ([]Frame, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}

	frames := make([]Frame, 0, len(records))
	for _, rec := range records {
		fr, err := parseFrame(rec)
		if err != nil {
			continue
		}
		frames = append(frames, fr)
	}
	return frames, nil
}

func (s *Store) LoadPositions(runID string) ([]dynamo.Vec2, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, positionsFile))
	if err != nil {
		return nil, err
	}

	positions := make([]dynamo.Vec2, 0, len(records))
	for _, rec := range records {
		if len(rec) < 3 {
			continue
		}
		x, errX := strconv.ParseFloat(rec[1], 64)
		y, errY := strconv.ParseFloat(rec[2], 64)
		if errX != nil || errY != nil {
			continue
		}
		positions = append(positions, dynamo.Vec2{X: x, Y: y})
	}
	return positions, nil
}
