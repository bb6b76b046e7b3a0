package sim

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Script is a deterministic, script-driven orientation timeline for the
// synthetic source. Time is expressed as Go duration strings ("0s",
// "250ms", "10s"); keyframes must be sorted by non-decreasing t.
//
// YAML schema (v1):
//
//	version: 1
//	loop: true
//	keyframes:
//	  - t: 0s
//	    heading_deg: 0
//	    roll_deg: 0
//	    pitch_deg: 0
//	  - t: 10s
//	    heading_deg: 180
//	    roll_deg: 25
//	    pitch_deg: -10
//
// Keep this struct stable: scripts are test fixtures.
type Script struct {
	Version   int        `yaml:"version"`
	Loop      bool       `yaml:"loop"`
	Keyframes []Keyframe `yaml:"keyframes"`
}

// Keyframe is a time-stamped pose in display angles. Angles are
// composed into a quaternion by the source; scripts never describe
// quaternions directly.
type Keyframe struct {
	T          time.Duration `yaml:"t"`
	HeadingDeg float64       `yaml:"heading_deg"`
	RollDeg    float64       `yaml:"roll_deg"`
	PitchDeg   float64       `yaml:"pitch_deg"`
}

// Scenario is the validated runtime representation.
type Scenario struct {
	script   Script
	duration time.Duration
}

// LoadScript reads and unmarshals a YAML scenario script from path.
func LoadScript(path string) (Script, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Script{}, err
	}
	return ParseScriptYAML(b)
}

// ParseScriptYAML parses a YAML scenario script.
func ParseScriptYAML(b []byte) (Script, error) {
	var s Script
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Script{}, err
	}
	return s, nil
}

// NewScenario validates script and returns a runtime Scenario.
func NewScenario(script Script) (*Scenario, error) {
	if script.Version == 0 {
		script.Version = 1
	}
	if script.Version != 1 {
		return nil, fmt.Errorf("unsupported scenario version %d", script.Version)
	}
	if len(script.Keyframes) == 0 {
		return nil, fmt.Errorf("keyframes is required")
	}
	for i, kf := range script.Keyframes {
		if kf.T < 0 {
			return nil, fmt.Errorf("keyframes[%d].t must be >= 0", i)
		}
		if i > 0 && kf.T < script.Keyframes[i-1].T {
			return nil, fmt.Errorf("keyframes must be sorted by t (index %d)", i)
		}
	}

	dur := script.Keyframes[len(script.Keyframes)-1].T
	if dur <= 0 && len(script.Keyframes) > 1 {
		return nil, fmt.Errorf("last keyframe must have t > 0")
	}
	return &Scenario{script: script, duration: dur}, nil
}

// Duration returns the time of the last keyframe.
func (s *Scenario) Duration() time.Duration {
	if s == nil {
		return 0
	}
	return s.duration
}

// At computes the interpolated pose at elapsed. When the script loops,
// elapsed wraps around Duration; otherwise the final keyframe holds.
// Heading interpolates along the shortest angular path so a 350°→10°
// segment passes through 0°, not 180°.
func (s *Scenario) At(elapsed time.Duration) Keyframe {
	if s == nil || len(s.script.Keyframes) == 0 {
		return Keyframe{}
	}
	kfs := s.script.Keyframes

	if elapsed < 0 {
		elapsed = 0
	}
	if s.duration > 0 {
		if s.script.Loop {
			elapsed = elapsed % s.duration
		} else if elapsed > s.duration {
			elapsed = s.duration
		}
	}

	if elapsed <= kfs[0].T {
		return kfs[0]
	}
	for i := 1; i < len(kfs); i++ {
		if elapsed > kfs[i].T {
			continue
		}
		a, b := kfs[i-1], kfs[i]
		span := b.T - a.T
		if span <= 0 {
			return b
		}
		f := float64(elapsed-a.T) / float64(span)
		return Keyframe{
			T:          elapsed,
			HeadingDeg: interpAngle(a.HeadingDeg, b.HeadingDeg, f),
			RollDeg:    a.RollDeg + (b.RollDeg-a.RollDeg)*f,
			PitchDeg:   a.PitchDeg + (b.PitchDeg-a.PitchDeg)*f,
		}
	}
	return kfs[len(kfs)-1]
}

// interpAngle interpolates degrees along the shortest path, result
// normalized to [0, 360).
func interpAngle(a, b, f float64) float64 {
	d := b - a
	for d > 180 {
		d -= 360
	}
	for d < -180 {
		d += 360
	}
	v := a + d*f
	for v < 0 {
		v += 360
	}
	for v >= 360 {
		v -= 360
	}
	return v
}
