package render

import "math"

// Fixed-function GL has no GLU here, so the projection and view
// matrices are built by hand, column-major for gl.LoadMatrixf /
// gl.MultMatrixf.

// perspectiveMatrix builds the equivalent of gluPerspective(fovyDeg,
// aspect, near, far).
func perspectiveMatrix(fovyDeg, aspect, near, far float64) [16]float32 {
	f := 1 / math.Tan(fovyDeg*math.Pi/180/2)
	nf := 1 / (near - far)

	var m [16]float32
	m[0] = float32(f / aspect)
	m[5] = float32(f)
	m[10] = float32((far + near) * nf)
	m[11] = -1
	m[14] = float32(2 * far * near * nf)
	return m
}

// lookAtMatrix builds the equivalent of gluLookAt(eye, center, up).
func lookAtMatrix(eye, center, up [3]float64) [16]float32 {
	fwd := normalize3(sub3(center, eye))
	side := normalize3(cross3(fwd, up))
	u := cross3(side, fwd)

	var m [16]float32
	m[0], m[4], m[8] = float32(side[0]), float32(side[1]), float32(side[2])
	m[1], m[5], m[9] = float32(u[0]), float32(u[1]), float32(u[2])
	m[2], m[6], m[10] = float32(-fwd[0]), float32(-fwd[1]), float32(-fwd[2])
	m[12] = float32(-dot3(side, eye))
	m[13] = float32(-dot3(u, eye))
	m[14] = float32(dot3(fwd, eye))
	m[15] = 1
	return m
}

func sub3(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func dot3(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func cross3(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func normalize3(v [3]float64) [3]float64 {
	n := math.Sqrt(dot3(v, v))
	if n == 0 {
		return v
	}
	return [3]float64{v[0] / n, v[1] / n, v[2] / n}
}
