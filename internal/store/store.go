// Package store persists planning and following runs under a data
// directory, one subdirectory per run: metadata.json, path.csv with the
// planned waypoints and trace.csv with the per-tick control trace.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/paulmach/orb"

	"github.com/san-kum/kinoplan/internal/follow"
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

// RunMetadata summarizes one run.
type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Budget    int                `json:"budget"`
	StepDt    float64            `json:"step_dt"`
	ControlDt float64            `json:"control_dt"`
	Kp        float64            `json:"kp"`
	Ki        float64            `json:"ki"`
	Kd        float64            `json:"kd"`
	Waypoints int                `json:"waypoints"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes one run. A nil trace is fine for plan-only runs.
func (s *Store) Save(meta RunMetadata, path []orb.Point, trace []follow.Sample) (string, error) {
	runID := fmt.Sprintf("%s_%d", meta.Preset, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Waypoints = len(path)

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := s.writePath(runDir, path); err != nil {
		return "", err
	}
	if err := s.writeTrace(runDir, trace); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) writePath(runDir string, path []orb.Point) error {
	f, err := os.Create(filepath.Join(runDir, "path.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"x", "y"}); err != nil {
		return err
	}
	for _, p := range path {
		row := []string{ff(p[0]), ff(p[1])}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) writeTrace(runDir string, trace []follow.Sample) error {
	f, err := os.Create(filepath.Join(runDir, "trace.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"time", "segment", "x", "y", "ux", "uy", "deviation"}); err != nil {
		return err
	}
	for _, smp := range trace {
		row := []string{
			ff(smp.Time),
			strconv.Itoa(smp.Segment),
			ff(smp.Pos[0]), ff(smp.Pos[1]),
			ff(smp.Control[0]), ff(smp.Control[1]),
			ff(smp.Deviation),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func ff(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// List returns metadata for every run in the data directory.
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
	return runs, nil
}

// Load reads one run's metadata.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadPath reads one run's planned waypoints.
func (s *Store) LoadPath(runID string) ([]orb.Point, error) {
	records, err := s.readCSV(filepath.Join(s.baseDir, runID, "path.csv"))
	if err != nil {
		return nil, err
	}
	path := make([]orb.Point, 0, len(records))
	for _, rec := range records {
		if len(rec) < 2 {
			continue
		}
		x, errX := strconv.ParseFloat(rec[0], 64)
		y, errY := strconv.ParseFloat(rec[1], 64)
		if errX != nil || errY != nil {
			continue
		}
		path = append(path, orb.Point{x, y})
	}
	return path, nil
}

// LoadTrace reads one run's control trace.
func (s *Store) LoadTrace(runID string) ([]follow.Sample, error) {
	records, err := s.readCSV(filepath.Join(s.baseDir, runID, "trace.csv"))
	if err != nil {
		return nil, err
	}
	trace := make([]follow.Sample, 0, len(records))
	for _, rec := range records {
		if len(rec) < 7 {
			continue
		}
		vals := make([]float64, 7)
		ok := true
		for i, field := range rec[:7] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				ok = false
				break
			}
			vals[i] = v
		}
		if !ok {
			continue
		}
		trace = append(trace, follow.Sample{
			Time:      vals[0],
			Segment:   int(vals[1]),
			Pos:       orb.Point{vals[2], vals[3]},
			Control:   orb.Point{vals[4], vals[5]},
			Deviation: vals[6],
		})
	}
	return trace, nil
}

// readCSV returns all data rows of a headed CSV file.
func (s *Store) readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return nil, nil
	}
	return records[1:], nil
}

// ExportJSON writes the run metadata and trace as a single JSON document.
func (s *Store) ExportJSON(runID, outPath string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	path, err := s.LoadPath(runID)
	if err != nil {
		return err
	}
	trace, err := s.LoadTrace(runID)
	if err != nil {
		return err
	}

	doc := struct {
		Metadata *RunMetadata    `json:"metadata"`
		Path     []orb.Point     `json:"path"`
		Trace    []follow.Sample `json:"trace"`
	}{meta, path, trace}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
