package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/swingsim/internal/sim"
)

func simulate(t *testing.T) *sim.TimeSeries {
	t.Helper()
	p := sim.DefaultParameters()
	p.Duration = 3
	ts, err := sim.Simulate(p)
	require.NoError(t, err)
	return ts
}

func TestNewRunID(t *testing.T) {
	now := time.Unix(1700000000, 0)
	id := NewRunID(now)
	assert.Regexp(t, regexp.MustCompile(`^swing_1700000000_[0-9a-f]{8}$`), id)
	assert.NotEqual(t, id, NewRunID(now))
}

func TestSaveLoadSeries(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	ts := simulate(t)
	ts.Metrics["peak_speed"] = 1.25

	id, err := st.Save(ts, RunInfo{Label: "demo", RestMode: "accumulating", Integrator: "semi-implicit"})
	require.NoError(t, err)

	meta, err := st.Load(id)
	require.NoError(t, err)
	assert.Equal(t, id, meta.ID)
	assert.Equal(t, "demo", meta.Label)
	assert.Equal(t, ts.Params, meta.Params)
	assert.Equal(t, ts.Len(), meta.Samples)
	assert.Equal(t, sim.NeverStopped, meta.StoppingTime)
	assert.False(t, meta.Stopped)
	assert.Equal(t, 1.25, meta.Metrics["peak_speed"])

	loaded, err := st.LoadSeries(id)
	require.NoError(t, err)
	assert.Equal(t, ts.Times, loaded.Times)
	assert.Equal(t, ts.Angles, loaded.Angles)
	assert.Equal(t, ts.Velocities, loaded.Velocities)
	assert.Equal(t, ts.Positions, loaded.Positions)
	assert.Equal(t, ts.Energies, loaded.Energies)
	assert.Equal(t, ts.Cycles, loaded.Cycles)
}

func TestSaveFailureLeavesNoRun(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	require.NoError(t, st.Init())

	ts := simulate(t)
	ts.Metrics["energy_drift"] = math.NaN()

	id, err := st.Save(ts, RunInfo{Label: "broken"})
	require.Error(t, err)
	assert.Empty(t, id)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestListSkipsBrokenRuns(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	id, err := st.Save(simulate(t), RunInfo{})
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "garbage"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "garbage", metadataFile), []byte("{"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
}

func TestMissingRun(t *testing.T) {
	st := New(t.TempDir())

	_, err := st.Load("swing_0_deadbeef")
	assert.True(t, errors.Is(err, ErrRunNotFound))

	_, err = st.LoadSeries("swing_0_deadbeef")
	assert.True(t, errors.Is(err, ErrRunNotFound))

	err = st.ExportJSON(&bytes.Buffer{}, "swing_0_deadbeef")
	assert.True(t, errors.Is(err, ErrRunNotFound))
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	ts := simulate(t)
	id, err := st.Save(ts, RunInfo{RestMode: "accumulating"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, st.ExportJSON(&buf, id))

	var doc struct {
		Run    RunMetadata `json:"run"`
		Frames []struct {
			Time   float64 `json:"time"`
			Forces struct {
				Weight struct{ X, Y float64 }
			} `json:"forces"`
		} `json:"frames"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, id, doc.Run.ID)
	require.Len(t, doc.Frames, ts.Len())
	assert.InDelta(t, -ts.Params.Mass*9.81, doc.Frames[0].Forces.Weight.Y, 1e-9)
}

func TestExportCSV(t *testing.T) {
	st := New(t.TempDir())
	ts := simulate(t)
	id, err := st.Save(ts, RunInfo{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, st.ExportCSV(&buf, id))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "time,angle,velocity,x,y,energy", lines[0])
	assert.Len(t, lines, ts.Len()+1)
}
