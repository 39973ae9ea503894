package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/swingsim/internal/dynamo"
	"github.com/san-kum/swingsim/internal/physics"
	"github.com/san-kum/swingsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	seriesFile   = "series.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

var seriesHeader = []string{"time", "angle", "velocity", "x", "y", "energy"}

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
	ID           string             `json:"id"`
	Label        string             `json:"label,omitempty"`
	Timestamp    time.Time          `json:"timestamp"`
	Params       sim.Parameters     `json:"params"`
	RestMode     string             `json:"rest_mode"`
	Integrator   string             `json:"integrator"`
	Samples      int                `json:"samples"`
	StoppingTime float64            `json:"stopping_time"`
	Stopped      bool               `json:"stopped"`
	Cycles       int                `json:"cycles"`
	Metrics      map[string]float64 `json:"metrics"`
}

// RunInfo describes how a series was produced.
type RunInfo struct {
	Label      string
	RestMode   string
	Integrator string
}

// NewRunID returns swing_<unix seconds>_<8 hex chars>.
func NewRunID(now time.Time) string {
	return fmt.Sprintf("swing_%d_%s", now.Unix(), uuid.NewString()[:8])
}

// Save writes the run directory. On any failure the partial directory is
// removed so List never sees a half-written run.
func (s *Store) Save(ts *sim.TimeSeries, info RunInfo) (string, error) {
	now := time.Now()
	runID := NewRunID(now)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:           runID,
		Label:        info.Label,
		Timestamp:    now,
		Params:       ts.Params,
		RestMode:     info.RestMode,
		Integrator:   info.Integrator,
		Samples:      ts.Len(),
		StoppingTime: ts.StoppingTime,
		Stopped:      ts.Stopped,
		Cycles:       ts.Cycles,
		Metrics:      ts.Metrics,
	}

	err := writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	})
	if err == nil {
		err = writeFile(filepath.Join(runDir, seriesFile), func(w io.Writer) error {
			return WriteSeriesCSV(w, ts)
		})
	}
	if err != nil {
		os.RemoveAll(runDir)
		return "", fmt.Errorf("save %s: %w", runID, err)
	}
	return runID, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteSeriesCSV writes one row per sample with full float precision.
func WriteSeriesCSV(out io.Writer, ts *sim.TimeSeries) error {
	w := csv.NewWriter(out)
	if err := w.Write(seriesHeader); err != nil {
		return err
	}

	for i := 0; i < ts.Len(); i++ {
		row := []string{
			formatFloat(ts.Times[i]),
			formatFloat(ts.Angles[i]),
			formatFloat(ts.Velocities[i]),
			formatFloat(ts.Positions[i].X),
			formatFloat(ts.Positions[i].Y),
			formatFloat(ts.Energies[i]),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first. Directories without valid
// metadata are skipped.
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
			log.Printf("storage: skipping %s: %v", entry.Name(), err)
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("metadata %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadSeries rebuilds the TimeSeries of a saved run.
func (s *Store) LoadSeries(runID string) (*sim.TimeSeries, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s has no series", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(seriesHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("series %s: %w", runID, err)
	}

	ts := &sim.TimeSeries{
		Params:       meta.Params,
		StoppingTime: meta.StoppingTime,
		Stopped:      meta.Stopped,
		Cycles:       meta.Cycles,
		Metrics:      meta.Metrics,
	}
	if len(records) < 2 {
		return ts, nil
	}

	n := len(records) - 1
	ts.Times = make([]float64, 0, n)
	ts.Angles = make([]float64, 0, n)
	ts.Velocities = make([]float64, 0, n)
	ts.Positions = make([]dynamo.Vec2, 0, n)
	ts.Energies = make([]float64, 0, n)

	for i, record := range records[1:] {
		var vals [6]float64
		for j := range vals {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("series %s row %d: %w", runID, i+1, err)
			}
			vals[j] = v
		}
		ts.Times = append(ts.Times, vals[0])
		ts.Angles = append(ts.Angles, vals[1])
		ts.Velocities = append(ts.Velocities, vals[2])
		ts.Positions = append(ts.Positions, dynamo.Vec2{X: vals[3], Y: vals[4]})
		ts.Energies = append(ts.Energies, vals[5])
	}

	return ts, nil
}

type exportFrame struct {
	Time     float64        `json:"time"`
	Angle    float64        `json:"angle"`
	Velocity float64        `json:"velocity"`
	Position dynamo.Vec2    `json:"position"`
	Energy   float64        `json:"energy"`
	Forces   physics.Forces `json:"forces"`
}

type exportDoc struct {
	Run    RunMetadata   `json:"run"`
	Frames []exportFrame `json:"frames"`
}

// ExportJSON writes the metadata and every frame, with its display forces,
// of a saved run.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	ts, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}

	swing := ts.Params.Swing()
	doc := exportDoc{Run: *meta, Frames: make([]exportFrame, ts.Len())}
	for i := range doc.Frames {
		doc.Frames[i] = exportFrame{
			Time:     ts.Times[i],
			Angle:    ts.Angles[i],
			Velocity: ts.Velocities[i],
			Position: ts.Positions[i],
			Energy:   ts.Energies[i],
			Forces:   swing.Forces(ts.Angles[i], ts.Velocities[i]),
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// ExportCSV copies the stored series of a run to w.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	ts, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}
	return WriteSeriesCSV(w, ts)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
