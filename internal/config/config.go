package config

import (
	"fmt"
	"strconv"
)

// Update rate bounds. The session loop derives its ticker interval as
// 1s/rate; outside this window the conversion to time.Duration
// truncates to zero or overflows, either of which time.NewTicker
// rejects with a panic.
const (
	minRateHz = 0.001
	maxRateHz = 1000
)

// Config is the flag surface of the visualizer. There is no config
// file and no environment lookup; everything arrives on the command
// line and is validated here before any resource is acquired.
type Config struct {
	// Synthetic selects the generated source instead of hardware.
	Synthetic bool
	// Scenario optionally points at a YAML keyframe script for the
	// synthetic source.
	Scenario string

	Bus  int
	Addr uint16
	// ResetPin optionally names a BCM GPIO wired to the sensor's NRST
	// pin, pulsed before the bus is configured. 0 disables.
	ResetPin int

	Width  int
	Height int
	RateHz float64
}

func Default() Config {
	return Config{
		Bus:    2,
		Addr:   0x29,
		Width:  1024,
		Height: 768,
		RateHz: 50,
	}
}

// ParseAddr parses an I2C device address given as a decimal or
// 0x-prefixed literal.
func ParseAddr(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	if v == 0 || v > 0x7F {
		return 0, fmt.Errorf("address 0x%X out of 7-bit range", v)
	}
	return uint16(v), nil
}

// Validate rejects configurations the session could not run with.
func Validate(c Config) error {
	if c.RateHz <= 0 {
		return fmt.Errorf("rate must be > 0 Hz, got %v", c.RateHz)
	}
	// Negated comparison so NaN fails too.
	if !(c.RateHz >= minRateHz && c.RateHz <= maxRateHz) {
		return fmt.Errorf("rate must be between %v and %v Hz, got %v", minRateHz, maxRateHz, c.RateHz)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("window size %dx%d is invalid", c.Width, c.Height)
	}
	if !c.Synthetic {
		if c.Bus < 0 {
			return fmt.Errorf("bus number %d is invalid", c.Bus)
		}
		if c.Addr == 0 || c.Addr > 0x7F {
			return fmt.Errorf("address 0x%X out of 7-bit range", c.Addr)
		}
		if c.Scenario != "" {
			return fmt.Errorf("-scenario requires -synthetic")
		}
	}
	if c.ResetPin < 0 {
		return fmt.Errorf("reset pin %d is invalid", c.ResetPin)
	}
	return nil
}
