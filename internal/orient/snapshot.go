package orient

// Snapshot is one polled orientation: the quaternion that drives
// rendering plus the Euler projections shown in the overlay. A fresh
// value is produced on every poll and simply supersedes the previous
// one; nothing mutates it.
type Snapshot struct {
	Quat    Quaternion
	Heading float64 // degrees, [0, 360)
	Roll    float64 // degrees, about the forward axis
	Pitch   float64 // degrees, [-90, 90]
}

// NewSnapshot derives the display angles from q.
func NewSnapshot(q Quaternion) Snapshot {
	h, r, p := q.Euler()
	return Snapshot{Quat: q, Heading: h, Roll: r, Pitch: p}
}

// Calibration is the BNO055 per-subsystem confidence report, each
// field 0 (uncalibrated) to 3 (fully calibrated). Purely advisory;
// nothing links it to the orientation it was polled alongside.
type Calibration struct {
	Sys   int
	Gyro  int
	Accel int
	Mag   int
}

// Full reports whether every subsystem is at level 3.
func (c Calibration) Full() bool {
	return c.Sys == 3 && c.Gyro == 3 && c.Accel == 3 && c.Mag == 3
}

// Source is a live orientation provider: the BNO055 driver or the
// synthetic generator. Constructors acquire the underlying resource;
// Close releases it and is safe to call more than once. A closed set
// of two implementations is all this tool ever needs.
type Source interface {
	// Orientation polls the current orientation and returns a fresh
	// snapshot. A transport failure is fatal to the session; callers
	// do not retry.
	Orientation() (Snapshot, error)

	// Calibration polls the calibration status registers.
	Calibration() (Calibration, error)

	Close() error
}
