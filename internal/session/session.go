// Package session holds the two-phase lifecycle of an interactive run:
// collecting parameters, then playing back one simulated series.
package session

import (
	"errors"

	"github.com/san-kum/swingsim/internal/config"
	"github.com/san-kum/swingsim/internal/sim"
)

type Phase int

const (
	CollectingParameters Phase = iota
	Simulating
)

func (p Phase) String() string {
	switch p {
	case Simulating:
		return "simulating"
	default:
		return "collecting-parameters"
	}
}

var ErrNotCollecting = errors.New("session: already simulating")

// Session owns the form values and, while Simulating, the series being shown.
// Reset always returns to the same Session value.
type Session struct {
	phase  Phase
	form   config.FormValues
	series *sim.TimeSeries
	opts   []sim.Option
	err    error
}

func New(form config.FormValues, opts ...sim.Option) *Session {
	return &Session{
		phase: CollectingParameters,
		form:  form,
		opts:  opts,
	}
}

func (s *Session) Phase() Phase { return s.phase }

func (s *Session) Form() config.FormValues { return s.form }

// Series is nil unless the phase is Simulating.
func (s *Session) Series() *sim.TimeSeries { return s.series }

// Err is the engine error from the last failed Start.
func (s *Session) Err() error { return s.err }

// Start runs the engine once on form and moves to Simulating. On failure the
// session stays in CollectingParameters and the form is kept for editing.
func (s *Session) Start(form config.FormValues) error {
	if s.phase != CollectingParameters {
		return ErrNotCollecting
	}
	s.form = form

	ts, err := sim.Simulate(form.Parameters(), s.opts...)
	if err != nil {
		s.err = err
		return err
	}

	s.err = nil
	s.series = ts
	s.phase = Simulating
	return nil
}

// Reset discards the series and goes back to the form with the last values.
func (s *Session) Reset() {
	s.series = nil
	s.phase = CollectingParameters
}
