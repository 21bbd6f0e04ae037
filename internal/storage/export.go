package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/verletsim/internal/dynamo"
)

type ExportData struct {
	Meta      RunMetadata   `json:"meta"`
	Frames    []Frame       `json:"frames"`
	Positions []dynamo.Vec2 `json:"positions"`
}

// ExportJSON writes a full run, metadata plus data, as indented JSON.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}
	positions, err := s.LoadPositions(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Meta: *meta, Frames: frames, Positions: positions})
}
