package orient

import "math"

// Quaternion is a unit rotation quaternion (w, x, y, z).
//
// Values are immutable once constructed. The sensor supplies
// near-normalized quaternions after fixed-point scaling; nothing here
// renormalizes.
//
// Axis convention (scene frame): X = forward (roll axis), Y = up
// (heading axis), Z = right (pitch axis).
type Quaternion struct {
	W, X, Y, Z float64
}

const (
	radToDeg = 180 / math.Pi
	degToRad = math.Pi / 180
)

// Identity returns the no-rotation quaternion.
func Identity() Quaternion { return Quaternion{W: 1} }

// RotationMatrix builds the homogeneous 4x4 rotation matrix for q in
// column-major order, ready for gl.MultMatrixf. The bottom row and
// column are fixed to (0, 0, 0, 1).
//
// This is the only path from orientation to rendered rotation. Euler
// angles never feed the matrix; see Euler.
func (q Quaternion) RotationMatrix() [16]float32 {
	w, x, y, z := q.W, q.X, q.Y, q.Z

	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	return [16]float32{
		float32(1 - 2*(yy+zz)), float32(2 * (xy + wz)), float32(2 * (xz - wy)), 0,
		float32(2 * (xy - wz)), float32(1 - 2*(xx+zz)), float32(2 * (yz + wx)), 0,
		float32(2 * (xz + wy)), float32(2 * (yz - wx)), float32(1 - 2*(xx+yy)), 0,
		0, 0, 0, 1,
	}
}

// Euler derives (heading, roll, pitch) in degrees for display.
//
// Heading is rotation about Y (up), normalized to [0, 360). Roll is
// rotation about X (forward) in [-180, 180]. Pitch is rotation about Z
// (right) in [-90, 90]; at the gimbal pole the asin argument is clamped
// to exactly ±90° using its sign rather than producing NaN.
//
// Strictly a display projection. Rendering rotation always goes through
// RotationMatrix so the gimbal pole costs nothing but a flat readout.
func (q Quaternion) Euler() (heading, roll, pitch float64) {
	w, x, y, z := q.W, q.X, q.Y, q.Z

	sinyCosp := 2 * (w*y + x*z)
	cosyCosp := 1 - 2*(y*y+z*z)
	heading = math.Atan2(sinyCosp, cosyCosp) * radToDeg
	if heading < 0 {
		heading += 360
	}
	// A heading a few ulps below zero rounds to exactly 360 above;
	// fold it back so the range stays [0, 360).
	if heading >= 360 {
		heading = 0
	}

	sinp := 2 * (w*z - x*y)
	if math.Abs(sinp) >= 1 {
		// Gimbal pole: clamp to exactly ±90° instead of letting asin
		// return NaN when float error pushes the argument past 1.
		pitch = math.Copysign(90, sinp)
	} else {
		pitch = math.Asin(sinp) * radToDeg
	}

	sinrCosp := 2 * (w*x + y*z)
	cosrCosp := 1 - 2*(x*x+z*z)
	roll = math.Atan2(sinrCosp, cosrCosp) * radToDeg

	return heading, roll, pitch
}

// RemapAxes converts a quaternion from the BNO055 body frame
// (X=right, Y=forward, Z=up) to the scene frame (X=forward, Y=up,
// Z=right). The vector part is a 3-cycle permutation; w is untouched.
//
// Applied exactly once, immediately after raw register decoding and
// before any Euler or matrix derivation.
func RemapAxes(raw Quaternion) Quaternion {
	return Quaternion{
		W: raw.W,
		X: raw.Y, // scene forward = sensor forward (Y)
		Y: raw.Z, // scene up = sensor up (Z)
		Z: raw.X, // scene right = sensor right (X)
	}
}

// FromEuler composes a quaternion from display angles in degrees,
// rotating about the heading axis (Y) first, then the pitch axis (Z),
// then the roll axis (X). This is the expanded half-angle product
// qr*qp*qh, the exact composition that Euler inverts (up to the
// double-cover sign) away from the pitch poles.
func FromEuler(headingDeg, rollDeg, pitchDeg float64) Quaternion {
	h := headingDeg * degToRad
	r := rollDeg * degToRad
	p := pitchDeg * degToRad

	ch, sh := math.Cos(h/2), math.Sin(h/2)
	cp, sp := math.Cos(p/2), math.Sin(p/2)
	cr, sr := math.Cos(r/2), math.Sin(r/2)

	return Quaternion{
		W: cr*cp*ch + sr*sp*sh,
		X: sr*cp*ch - cr*sp*sh,
		Y: cr*cp*sh - sr*sp*ch,
		Z: cr*sp*ch + sr*cp*sh,
	}
}
