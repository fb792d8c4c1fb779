package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/heatgrid/internal/diffusion"
	"github.com/san-kum/heatgrid/internal/sim"
	"gonum.org/v1/gonum/mat"
)

const (
	metadataFile = "metadata.json"
	fieldFile    = "field.txt"
	historyFile  = "history.csv"
	snapshotDir  = "snapshots"
)

var ErrNoField = errors.New("storage: result has no field")

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
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Timestamp     time.Time          `json:"timestamp"`
	Rows          int                `json:"rows"`
	Cols          int                `json:"cols"`
	Modes         [4]string          `json:"modes"`
	Steps         int                `json:"steps"`
	StepsTaken    int                `json:"steps_taken"`
	SnapshotEvery int                `json:"snapshot_every"`
	Workers       int                `json:"workers"`
	Metrics       map[string]float64 `json:"metrics"`
	Errors        []string           `json:"errors,omitempty"`
}

// Save writes a run directory holding the metadata, the final field and every
// snapshot as text dumps, and the mass/peak history as CSV.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	final := result.Final()
	if final == nil {
		return "", ErrNoField
	}

	now := time.Now()
	if meta.Name == "" {
		meta.Name = "run"
	}
	meta.ID = fmt.Sprintf("%s_%d", meta.Name, now.UnixNano())
	meta.Timestamp = now
	meta.StepsTaken = result.StepsTaken
	meta.Rows, meta.Cols = final.Dims()
	meta.Metrics = result.Metrics
	for _, err := range result.Errors {
		meta.Errors = append(meta.Errors, err.Error())
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(filepath.Join(runDir, snapshotDir), 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeDump(filepath.Join(runDir, fieldFile), final); err != nil {
		return "", err
	}
	for _, snap := range result.Snapshots {
		path := filepath.Join(runDir, snapshotDir, snapshotName(snap.Step))
		if err := writeDump(path, snap.Field); err != nil {
			return "", err
		}
	}
	if err := writeHistory(filepath.Join(runDir, historyFile), result.Trace); err != nil {
		return "", err
	}

	return meta.ID, nil
}

func snapshotName(step int) string {
	return fmt.Sprintf("step_%08d.txt", step)
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

func writeDump(path string, m mat.Matrix) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = diffusion.Write(f, m)
	return err
}

func writeHistory(path string, tr sim.Trace) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"step", "mass", "peak"}); err != nil {
		return err
	}
	for i := range tr.Steps {
		row := []string{
			strconv.Itoa(tr.Steps[i]),
			strconv.FormatFloat(tr.Mass[i], 'f', 6, 64),
			strconv.FormatFloat(tr.Peak[i], 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadField(runID string) (*mat.Dense, error) {
	return readDump(filepath.Join(s.baseDir, runID, fieldFile))
}

// Snapshots returns the steps with a stored snapshot, in ascending order.
func (s *Store) Snapshots(runID string) ([]int, error) {
	entries, err := os.ReadDir(filepath.Join(s.baseDir, runID, snapshotDir))
	if err != nil {
		return nil, err
	}
	steps := make([]int, 0, len(entries))
	for _, entry := range entries {
		name := strings.TrimSuffix(strings.TrimPrefix(entry.Name(), "step_"), ".txt")
		step, err := strconv.Atoi(name)
		if err != nil {
			continue
		}
		steps = append(steps, step)
	}
	sort.Ints(steps)
	return steps, nil
}

func (s *Store) LoadSnapshot(runID string, step int) (*mat.Dense, error) {
	return readDump(filepath.Join(s.baseDir, runID, snapshotDir, snapshotName(step)))
}

func readDump(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return diffusion.Parse(f)
}

func (s *Store) LoadHistory(runID string) (sim.Trace, error) {
	var tr sim.Trace

	f, err := os.Open(filepath.Join(s.baseDir, runID, historyFile))
	if err != nil {
		return tr, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return tr, err
	}

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 3 {
			continue
		}
		step, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		mass, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		peak, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			continue
		}
		tr.Steps = append(tr.Steps, step)
		tr.Mass = append(tr.Mass, mass)
		tr.Peak = append(tr.Peak, peak)
	}

	return tr, nil
}

// ReadHistoryCSV returns the raw history file for export.
func (s *Store) ReadHistoryCSV(runID string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.baseDir, runID, historyFile))
}
