package sim

import (
	"math"
	"time"

	"imuviz/internal/orient"
)

// Source is the synthetic orientation source: no hardware, no clock.
// An internal time accumulator advances by a fixed step on every poll,
// so the output sequence is deterministic regardless of the actual
// frame rate. Implements orient.Source.
type Source struct {
	t        float64 // accumulated seconds
	scenario *Scenario
}

// Each poll advances the accumulator by 20ms of model time.
const timeStep = 0.02

// NewSource returns the built-in waveform source: heading sweeps
// linearly mod 360, roll and pitch oscillate on distinct periods.
func NewSource() *Source { return &Source{} }

// NewScenarioSource returns a source that plays a validated keyframe
// scenario instead of the built-in waveform.
func NewScenarioSource(sc *Scenario) *Source { return &Source{scenario: sc} }

// Orientation synthesizes the pose at the current accumulated time and
// advances the accumulator. The first poll is at t=0: identity.
func (s *Source) Orientation() (orient.Snapshot, error) {
	h, r, p := s.anglesAt(s.t)
	s.t += timeStep

	// Compose through the same fixed heading→pitch→roll order the
	// Euler display derivation inverts, so synthetic output is
	// representative of real sensor composition.
	return orient.NewSnapshot(orient.FromEuler(h, r, p)), nil
}

func (s *Source) anglesAt(t float64) (heading, roll, pitch float64) {
	if s.scenario != nil {
		kf := s.scenario.At(time.Duration(t * float64(time.Second)))
		return kf.HeadingDeg, kf.RollDeg, kf.PitchDeg
	}
	heading = math.Mod(t*20, 360)
	roll = 30 * math.Sin(t*0.5)
	pitch = 20 * math.Sin(t*0.3)
	return heading, roll, pitch
}

// Calibration always reports full confidence; there is nothing to
// calibrate.
func (s *Source) Calibration() (orient.Calibration, error) {
	return orient.Calibration{Sys: 3, Gyro: 3, Accel: 3, Mag: 3}, nil
}

// Close is a no-op; the synthetic source holds no resources.
func (s *Source) Close() error { return nil }
