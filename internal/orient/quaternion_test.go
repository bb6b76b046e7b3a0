package orient

import (
	"math"
	"testing"

	"github.com/westphae/quaternion"
)

func approxEq(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

// angleEq compares angles in degrees modulo 360.
func angleEq(a, b, tol float64) bool {
	d := math.Mod(a-b, 360)
	if d > 180 {
		d -= 360
	}
	if d < -180 {
		d += 360
	}
	return math.Abs(d) < tol
}

func normalize(q Quaternion) Quaternion {
	n := math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
	return Quaternion{W: q.W / n, X: q.X / n, Y: q.Y / n, Z: q.Z / n}
}

var testQuats = []Quaternion{
	Identity(),
	normalize(Quaternion{W: 1, X: 1, Y: 0, Z: 0}),
	normalize(Quaternion{W: 1, X: 0, Y: 1, Z: 0}),
	normalize(Quaternion{W: 1, X: 0, Y: 0, Z: 1}),
	normalize(Quaternion{W: 0.9, X: -0.2, Y: 0.3, Z: 0.1}),
	normalize(Quaternion{W: 0.1, X: 0.7, Y: -0.5, Z: 0.4}),
	normalize(Quaternion{W: -0.6, X: 0.2, Y: 0.6, Z: -0.3}),
	FromEuler(123.4, -45.6, 67.8),
	FromEuler(359.9, 179.0, -89.0),
}

func TestRotationMatrix_OrthonormalBlock(t *testing.T) {
	for _, q := range testQuats {
		m := q.RotationMatrix()

		// Columns of the 3x3 block.
		var col [3][3]float64
		for c := 0; c < 3; c++ {
			for r := 0; r < 3; r++ {
				col[c][r] = float64(m[4*c+r])
			}
		}

		for c := 0; c < 3; c++ {
			n := col[c][0]*col[c][0] + col[c][1]*col[c][1] + col[c][2]*col[c][2]
			if !approxEq(n, 1, 1e-5) {
				t.Fatalf("q=%+v col %d norm²=%v want 1", q, c, n)
			}
		}
		for a := 0; a < 3; a++ {
			for b := a + 1; b < 3; b++ {
				dot := col[a][0]*col[b][0] + col[a][1]*col[b][1] + col[a][2]*col[b][2]
				if !approxEq(dot, 0, 1e-5) {
					t.Fatalf("q=%+v cols %d,%d dot=%v want 0", q, a, b, dot)
				}
			}
		}

		// Bottom row and right column of the homogeneous matrix.
		for _, i := range []int{3, 7, 11, 12, 13, 14} {
			if m[i] != 0 {
				t.Fatalf("q=%+v m[%d]=%v want 0", q, i, m[i])
			}
		}
		if m[15] != 1 {
			t.Fatalf("q=%+v m[15]=%v want 1", q, m[15])
		}
	}
}

// The matrix columns must be the images of the basis vectors under
// q v q*, computed independently with the westphae quaternion package.
func TestRotationMatrix_MatchesQuaternionRotation(t *testing.T) {
	basis := []quaternion.Quaternion{
		{X: 1}, {Y: 1}, {Z: 1},
	}
	for _, q := range testQuats {
		e := quaternion.Quaternion{W: q.W, X: q.X, Y: q.Y, Z: q.Z}
		m := q.RotationMatrix()
		for c, v := range basis {
			u := quaternion.Prod(e, v, e.Conj())
			got := [3]float64{float64(m[4*c]), float64(m[4*c+1]), float64(m[4*c+2])}
			if !approxEq(got[0], u.X, 1e-5) || !approxEq(got[1], u.Y, 1e-5) || !approxEq(got[2], u.Z, 1e-5) {
				t.Fatalf("q=%+v col %d = %v want (%v,%v,%v)", q, c, got, u.X, u.Y, u.Z)
			}
		}
	}
}

// FromEuler must equal the sequential product of the single-axis
// half-angle quaternions, heading applied first.
func TestFromEuler_MatchesSequentialProducts(t *testing.T) {
	cases := []struct{ h, r, p float64 }{
		{0, 0, 0},
		{90, 0, 0},
		{90, 90, 0},
		{45, -30, 20},
		{280, 170, -75},
	}
	for _, c := range cases {
		h := c.h * degToRad
		r := c.r * degToRad
		p := c.p * degToRad
		qh := quaternion.Quaternion{W: math.Cos(h / 2), Y: math.Sin(h / 2)}
		qp := quaternion.Quaternion{W: math.Cos(p / 2), Z: math.Sin(p / 2)}
		qr := quaternion.Quaternion{W: math.Cos(r / 2), X: math.Sin(r / 2)}
		want := quaternion.Prod(qr, qp, qh)

		got := FromEuler(c.h, c.r, c.p)
		if !approxEq(got.W, want.W, 1e-12) || !approxEq(got.X, want.X, 1e-12) ||
			!approxEq(got.Y, want.Y, 1e-12) || !approxEq(got.Z, want.Z, 1e-12) {
			t.Fatalf("FromEuler(%v,%v,%v)=%+v want %+v", c.h, c.r, c.p, got, want)
		}
	}
}

func TestEuler_RoundTrip(t *testing.T) {
	cases := []struct{ h, r, p float64 }{
		{0, 0, 0},
		{10, 0, 0},
		{90, 0, 0},
		{350.5, 0, 0},
		{0, 45, 0},
		{0, -120, 0},
		{0, 0, 45},
		{0, 0, -80},
		{30, 20, 10},
		{200, -60, 40},
		{359, 150, -85},
	}
	for _, c := range cases {
		q := FromEuler(c.h, c.r, c.p)
		h, r, p := q.Euler()
		if !angleEq(h, c.h, 1e-9) || !angleEq(r, c.r, 1e-9) || !angleEq(p, c.p, 1e-9) {
			t.Fatalf("FromEuler(%v,%v,%v).Euler() = (%v,%v,%v)", c.h, c.r, c.p, h, r, p)
		}

		// Reconstruction reproduces the quaternion up to double-cover sign.
		q2 := FromEuler(h, r, p)
		same := approxEq(q2.W, q.W, 1e-9) && approxEq(q2.X, q.X, 1e-9) &&
			approxEq(q2.Y, q.Y, 1e-9) && approxEq(q2.Z, q.Z, 1e-9)
		neg := approxEq(q2.W, -q.W, 1e-9) && approxEq(q2.X, -q.X, 1e-9) &&
			approxEq(q2.Y, -q.Y, 1e-9) && approxEq(q2.Z, -q.Z, 1e-9)
		if !same && !neg {
			t.Fatalf("round trip of (%v,%v,%v): %+v vs %+v", c.h, c.r, c.p, q, q2)
		}
	}
}

func TestEuler_HeadingRange(t *testing.T) {
	for _, q := range testQuats {
		h, _, _ := q.Euler()
		if h < 0 || h >= 360 {
			t.Fatalf("q=%+v heading=%v out of [0,360)", q, h)
		}
	}

	// Exactly 0° raw heading must not be reported negative.
	if h, _, _ := Identity().Euler(); h != 0 {
		t.Fatalf("identity heading=%v want 0", h)
	}

	// A heading a few ulps below zero normalizes to 360.0 in float64
	// (360 - 1e-14 has no closer representable value); it must fold to
	// 0, not report 360.
	if h, _, _ := FromEuler(-1e-14, 0, 0).Euler(); h != 0 {
		t.Fatalf("near-zero-negative heading=%v want 0", h)
	}
}

func TestEuler_PitchClampsAtPole(t *testing.T) {
	// w = z = sqrt(2)/2 drives the asin argument to 1 (or a hair past
	// it in floating point).
	s := math.Sqrt(2) / 2
	cases := []struct {
		q    Quaternion
		want float64
	}{
		{Quaternion{W: s, Z: s}, 90},
		{Quaternion{W: s, Z: -s}, -90},
		// Deliberately non-unit inputs push |sinp| well past 1; the
		// clamp policy still applies (caller guarantees near-unit norm,
		// the math stays defined regardless).
		{Quaternion{W: 1, Z: 1}, 90},
		{Quaternion{W: 1, Z: -1}, -90},
	}
	for _, c := range cases {
		_, _, p := c.q.Euler()
		if math.IsNaN(p) {
			t.Fatalf("q=%+v pitch is NaN", c.q)
		}
		if p != c.want {
			t.Fatalf("q=%+v pitch=%v want exactly %v", c.q, p, c.want)
		}
	}
}

func TestRemapAxes(t *testing.T) {
	raw := Quaternion{W: 0.5, X: 0.1, Y: 0.2, Z: 0.3}

	one := RemapAxes(raw)
	if one.W != raw.W {
		t.Fatalf("remap changed w: %v -> %v", raw.W, one.W)
	}
	if one.X != raw.Y || one.Y != raw.Z || one.Z != raw.X {
		t.Fatalf("remap(%+v)=%+v want x<-y, y<-z, z<-x", raw, one)
	}
	if one == raw {
		t.Fatalf("remap must change axis assignment for %+v", raw)
	}

	// The remap is a 3-cycle: three applications restore the original.
	if got := RemapAxes(RemapAxes(RemapAxes(raw))); got != raw {
		t.Fatalf("triple remap of %+v = %+v want original", raw, got)
	}
}
