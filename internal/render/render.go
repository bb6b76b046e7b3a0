package render

import (
	"fmt"
	"math"

	"imuviz/internal/orient"
)

// Scene is the drawing boundary: the session loop hands it one
// snapshot per frame and asks nothing else of it. The GL window is the
// only real implementation; tests use fakes.
type Scene interface {
	Init() error

	// DrawFrame renders one frame from the snapshot's rotation matrix
	// and the display scalars. Rotation comes from the quaternion
	// matrix only; the Euler values are overlay text.
	DrawFrame(snap orient.Snapshot, cal orient.Calibration)

	// ShouldQuit reports whether the user asked to leave (window close
	// or ESC). Checked once per frame before polling the sensor.
	ShouldQuit() bool

	Close()
}

type rgb struct{ r, g, b float32 }

var (
	colWhite  = rgb{1, 1, 1}
	colRed    = rgb{1, 0.2, 0.2}
	colGreen  = rgb{0.2, 1, 0.2}
	colBlue   = rgb{0.3, 0.5, 1}
	colYellow = rgb{1, 1, 0.2}
	colCyan   = rgb{0.2, 1, 1}
	colOrange = rgb{1, 0.6, 0.1}
	colGray   = rgb{0.5, 0.5, 0.5}
	colGrid   = rgb{0.3, 0.3, 0.4}
)

var compassPoints = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// headingToDirection names the nearest of the 16 compass points.
func headingToDirection(heading float64) string {
	i := int((heading+11.25)/22.5) % 16
	if i < 0 {
		i += 16
	}
	return compassPoints[i]
}

// compassXZ converts a compass bearing in degrees to a unit direction
// on the ground plane. North is -Z toward the camera's far side; the
// math convention flip (-deg + 90) matches the compass rose layout.
func compassXZ(deg float64) (x, z float64) {
	a := (-deg + 90) * math.Pi / 180
	return math.Cos(a), -math.Sin(a)
}

// overlayLines formats the text overlay. The degree readouts align in
// a fixed-width column; the compass direction line is drawn separately
// in yellow.
func overlayLines(snap orient.Snapshot, cal orient.Calibration) []string {
	return []string{
		fmt.Sprintf("Heading: %7.2f deg", snap.Heading),
		fmt.Sprintf("Roll:    %7.2f deg", snap.Roll),
		fmt.Sprintf("Pitch:   %7.2f deg", snap.Pitch),
		"",
		fmt.Sprintf("Calib: S%d G%d A%d M%d", cal.Sys, cal.Gyro, cal.Accel, cal.Mag),
	}
}

func directionLine(snap orient.Snapshot) string {
	return "Direction: " + headingToDirection(snap.Heading)
}
