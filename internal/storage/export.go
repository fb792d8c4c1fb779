package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/heatgrid/internal/sim"
	"gonum.org/v1/gonum/mat"
)

type ExportData struct {
	Run     RunMetadata `json:"run"`
	Field   [][]float64 `json:"field"`
	History ExportTrace `json:"history"`
}

type ExportTrace struct {
	Steps []int     `json:"steps"`
	Mass  []float64 `json:"mass"`
	Peak  []float64 `json:"peak"`
}

func (s *Store) Export(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	field, err := s.LoadField(runID)
	if err != nil {
		return nil, err
	}
	tr, err := s.LoadHistory(runID)
	if err != nil {
		return nil, err
	}
	return &ExportData{Run: *meta, Field: toRows(field), History: exportTrace(tr)}, nil
}

func (s *Store) ExportJSON(w io.Writer, runID string) error {
	data, err := s.Export(runID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func toRows(m mat.Matrix) [][]float64 {
	r, c := m.Dims()
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = make([]float64, c)
		for j := range rows[i] {
			rows[i][j] = m.At(i, j)
		}
	}
	return rows
}

func exportTrace(tr sim.Trace) ExportTrace {
	return ExportTrace{Steps: tr.Steps, Mass: tr.Mass, Peak: tr.Peak}
}
