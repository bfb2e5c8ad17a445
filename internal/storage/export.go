package storage

import (
	"encoding/json"
	"io"

	"github.com/samcarey/aetherweave/internal/sim"
)

type ExportData struct {
	ID       string             `json:"id"`
	Roster   string             `json:"roster"`
	FrameDt  float64            `json:"frame_dt"`
	Duration float64            `json:"duration"`
	Speed    float64            `json:"speed"`
	Bodies   []string           `json:"bodies"`
	Steps    int                `json:"steps"`
	Times    []float64          `json:"times"`
	States   []sim.State        `json:"states"`
	Metrics  map[string]float64 `json:"metrics"`
}

// ExportJSON writes a stored run as a single indented JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	states, times, err := s.LoadStates(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		ID:       meta.ID,
		Roster:   meta.Roster,
		FrameDt:  meta.FrameDt,
		Duration: meta.Duration,
		Speed:    meta.Speed,
		Bodies:   meta.Bodies,
		Steps:    len(times),
		Times:    times,
		States:   states,
		Metrics:  meta.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
