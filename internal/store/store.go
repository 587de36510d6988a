// Package store persists recorded runs and saved camera positions under
// a data directory. Runs are a metadata JSON plus a series CSV per run;
// camera positions are one JSON record per simulation id. The store is
// deliberately dumb: access control and any richer backend belong to an
// external collaborator.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/scilab/internal/record"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return err
	}
	return os.MkdirAll(filepath.Join(s.baseDir, "camera"), 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Simulation string             `json:"simulation"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Params     map[string]float64 `json:"params"`
	Series     []string           `json:"series"`
	Final      map[string]float64 `json:"final"`
}

// SaveRun writes one recorded run and returns its id. All series share
// the clock's tick timestamps, so the CSV has one time column followed by
// one column per series.
func (s *Store) SaveRun(simulation string, dt, duration float64, params map[string]float64, rec *record.Recorder) (string, error) {
	runID := fmt.Sprintf("%s_%d", simulation, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	names := rec.Names()
	final := make(map[string]float64, len(names))
	for _, n := range names {
		if last, ok := rec.Last(n); ok {
			final[n] = last.Value
		}
	}

	meta := RunMetadata{
		ID:         runID,
		Simulation: simulation,
		Timestamp:  time.Now(),
		Dt:         dt,
		Duration:   duration,
		Params:     params,
		Series:     names,
		Final:      final,
	}

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

	csvFile, err := os.Create(filepath.Join(runDir, "series.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := append([]string{"time"}, names...)
	if err := w.Write(header); err != nil {
		return "", err
	}
	if len(names) == 0 {
		return runID, nil
	}
	ref := rec.Series(names[0])
	for i := range ref {
		row := make([]string, 0, len(names)+1)
		row = append(row, strconv.FormatFloat(ref[i].Time, 'f', 6, 64))
		for _, n := range names {
			series := rec.Series(n)
			v := 0.0
			if i < len(series) {
				v = series[i].Value
			}
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	return runID, nil
}

// List returns metadata for all stored runs, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var runs []RunMetadata
	for _, e := range entries {
		if !e.IsDir() || e.Name() == "camera" {
			continue
		}
		meta, err := s.Load(e.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

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

// LoadSeries reads a run's CSV back into per-series sample slices.
func (s *Store) LoadSeries(runID string) (map[string][]record.Sample, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "series.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("store: empty series file for %s", runID)
	}
	header := rows[0]
	out := make(map[string][]record.Sample, len(header)-1)
	for _, row := range rows[1:] {
		if len(row) != len(header) {
			continue
		}
		t, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			continue
		}
		for i := 1; i < len(row); i++ {
			v, err := strconv.ParseFloat(row[i], 64)
			if err != nil {
				continue
			}
			name := header[i]
			out[name] = append(out[name], record.Sample{Time: t, Value: v})
		}
	}
	return out, nil
}
