package render

import (
	"fmt"
	"math"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"imuviz/internal/orient"
)

// Window is the OpenGL Scene implementation: a fixed-function GL 2.1
// context in a GLFW window. All calls must stay on the main OS thread
// (cmd/imuviz locks it).
type Window struct {
	width  int
	height int

	win  *glfw.Window
	quit bool
}

func NewWindow(width, height int) *Window {
	return &Window{width: width, height: height}
}

func (w *Window) Init() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("render: glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	win, err := glfw.CreateWindow(w.width, w.height, "BNO055 IMU Visualizer", nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("render: create window: %w", err)
	}
	win.MakeContextCurrent()
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.quit = true
		}
	})

	if err := gl.Init(); err != nil {
		win.Destroy()
		glfw.Terminate()
		return fmt.Errorf("render: gl init: %w", err)
	}

	// The session loop paces frames with its own ticker; don't let
	// vsync add a second clock.
	glfw.SwapInterval(0)

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(0.1, 0.1, 0.15, 1)

	gl.Enable(gl.LIGHTING)
	gl.Enable(gl.LIGHT0)
	lightPos := [4]float32{5, 10, 5, 1}
	ambient := [4]float32{0.3, 0.3, 0.3, 1}
	diffuse := [4]float32{0.8, 0.8, 0.8, 1}
	gl.Lightfv(gl.LIGHT0, gl.POSITION, &lightPos[0])
	gl.Lightfv(gl.LIGHT0, gl.AMBIENT, &ambient[0])
	gl.Lightfv(gl.LIGHT0, gl.DIFFUSE, &diffuse[0])

	gl.Enable(gl.COLOR_MATERIAL)
	gl.ColorMaterial(gl.FRONT_AND_BACK, gl.AMBIENT_AND_DIFFUSE)

	w.win = win
	return nil
}

func (w *Window) ShouldQuit() bool {
	if w.win == nil {
		return true
	}
	glfw.PollEvents()
	return w.quit || w.win.ShouldClose()
}

func (w *Window) DrawFrame(snap orient.Snapshot, cal orient.Calibration) {
	if w.win == nil {
		return
	}

	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	w.setPerspective()

	drawGrid(10, 20)
	drawAxes(3)
	drawCompass()
	drawNeedle(snap.Heading)

	// The model rotates by the quaternion matrix, never by Euler
	// angles, so the gimbal pole only flattens the text readout.
	gl.PushMatrix()
	m := snap.Quat.RotationMatrix()
	gl.MultMatrixf(&m[0])
	drawAircraft()
	gl.PopMatrix()

	w.drawOverlay(snap, cal)

	w.win.SwapBuffers()
}

// Close destroys the window and GLFW state. Safe to call repeatedly.
func (w *Window) Close() {
	if w.win == nil {
		return
	}
	w.win.Destroy()
	w.win = nil
	glfw.Terminate()
}

func (w *Window) setPerspective() {
	gl.MatrixMode(gl.PROJECTION)
	gl.LoadIdentity()
	proj := perspectiveMatrix(45, float64(w.width)/float64(w.height), 0.1, 100)
	gl.LoadMatrixf(&proj[0])

	gl.MatrixMode(gl.MODELVIEW)
	gl.LoadIdentity()
	view := lookAtMatrix([3]float64{6, 4, 6}, [3]float64{0, 0, 0}, [3]float64{0, 1, 0})
	gl.LoadMatrixf(&view[0])
}

func setColor(c rgb) { gl.Color3f(c.r, c.g, c.b) }

func drawGrid(size float32, divisions int) {
	gl.Disable(gl.LIGHTING)
	setColor(colGrid)
	gl.Begin(gl.LINES)

	step := size / float32(divisions)
	half := size / 2
	for i := 0; i <= divisions; i++ {
		pos := -half + float32(i)*step
		gl.Vertex3f(-half, 0, pos)
		gl.Vertex3f(half, 0, pos)
		gl.Vertex3f(pos, 0, -half)
		gl.Vertex3f(pos, 0, half)
	}

	gl.End()
	gl.Enable(gl.LIGHTING)
}

func drawAxes(length float32) {
	gl.Disable(gl.LIGHTING)
	gl.LineWidth(2)
	gl.Begin(gl.LINES)

	setColor(colRed)
	gl.Vertex3f(0, 0, 0)
	gl.Vertex3f(length, 0, 0)

	setColor(colGreen)
	gl.Vertex3f(0, 0, 0)
	gl.Vertex3f(0, length, 0)

	setColor(colBlue)
	gl.Vertex3f(0, 0, 0)
	gl.Vertex3f(0, 0, length)

	gl.End()
	gl.LineWidth(1)
	gl.Enable(gl.LIGHTING)
}

func drawCompass() {
	gl.Disable(gl.LIGHTING)
	const radius = 4.0
	const y = 0.01 // sit just above the grid

	setColor(colGray)
	gl.Begin(gl.LINE_LOOP)
	for i := 0; i < 64; i++ {
		a := 2 * math.Pi * float64(i) / 64
		gl.Vertex3f(float32(radius*math.Cos(a)), y, float32(radius*math.Sin(a)))
	}
	gl.End()

	// Cardinal spokes; north in red.
	gl.LineWidth(2)
	for _, c := range []struct {
		deg float64
		col rgb
	}{
		{0, colRed}, {90, colWhite}, {180, colWhite}, {270, colWhite},
	} {
		x, z := compassXZ(c.deg)
		setColor(c.col)
		gl.Begin(gl.LINES)
		gl.Vertex3f(float32(x*radius*0.85), y, float32(z*radius*0.85))
		gl.Vertex3f(float32(x*radius), y, float32(z*radius))
		gl.End()
	}

	// Minor ticks every 30°.
	setColor(colGray)
	gl.LineWidth(1)
	for deg := 0; deg < 360; deg += 30 {
		if deg%90 == 0 {
			continue
		}
		x, z := compassXZ(float64(deg))
		gl.Begin(gl.LINES)
		gl.Vertex3f(float32(x*radius*0.9), y, float32(z*radius*0.9))
		gl.Vertex3f(float32(x*radius), y, float32(z*radius))
		gl.End()
	}

	gl.Enable(gl.LIGHTING)
}

func drawNeedle(headingDeg float64) {
	gl.Disable(gl.LIGHTING)
	setColor(colYellow)
	gl.LineWidth(3)

	const length = 4.5
	x, z := compassXZ(headingDeg)

	gl.Begin(gl.LINES)
	gl.Vertex3f(0, 0.02, 0)
	gl.Vertex3f(float32(x*length), 0.02, float32(z*length))
	gl.End()

	gl.LineWidth(1)
	gl.Enable(gl.LIGHTING)
}

// drawAircraft assembles the aircraft-like model from scaled unit
// cubes and cones. The fuselage points down +X (scene forward).
func drawAircraft() {
	// Fuselage.
	setColor(colOrange)
	gl.PushMatrix()
	gl.Scalef(2, 0.3, 0.3)
	drawCube()
	gl.PopMatrix()

	// Nose cone.
	gl.PushMatrix()
	gl.Translatef(1.2, 0, 0)
	gl.Rotatef(90, 0, 1, 0)
	drawCone(0.3, 0.6, 16)
	gl.PopMatrix()

	// Vertical tail fin.
	setColor(colRed)
	gl.PushMatrix()
	gl.Translatef(-0.8, 0.4, 0)
	gl.Scalef(0.4, 0.5, 0.05)
	drawCube()
	gl.PopMatrix()

	// Wings.
	setColor(colCyan)
	gl.PushMatrix()
	gl.Scalef(0.5, 0.05, 1.5)
	drawCube()
	gl.PopMatrix()

	// Horizontal stabilizers.
	gl.PushMatrix()
	gl.Translatef(-0.8, 0, 0)
	gl.Scalef(0.3, 0.05, 0.6)
	drawCube()
	gl.PopMatrix()

	// Direction arrow on top.
	setColor(colYellow)
	gl.PushMatrix()
	gl.Translatef(0.5, 0.25, 0)
	gl.Rotatef(90, 0, 1, 0)
	drawCone(0.1, 0.4, 8)
	gl.PopMatrix()
}

var cubeVertices = [8][3]float32{
	{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5},
	{0.5, 0.5, -0.5}, {-0.5, 0.5, -0.5},
	{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5},
	{0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5},
}

var cubeFaces = [6][4]int{
	{0, 1, 2, 3}, {4, 7, 6, 5},
	{0, 4, 5, 1}, {2, 6, 7, 3},
	{0, 3, 7, 4}, {1, 5, 6, 2},
}

var cubeNormals = [6][3]float32{
	{0, 0, -1}, {0, 0, 1},
	{0, -1, 0}, {0, 1, 0},
	{-1, 0, 0}, {1, 0, 0},
}

func drawCube() {
	gl.Begin(gl.QUADS)
	for i, face := range cubeFaces {
		n := cubeNormals[i]
		gl.Normal3f(n[0], n[1], n[2])
		for _, vi := range face {
			v := cubeVertices[vi]
			gl.Vertex3f(v[0], v[1], v[2])
		}
	}
	gl.End()
}

// drawCone draws a cone pointing down +Z.
func drawCone(radius, height float32, segments int) {
	gl.Begin(gl.TRIANGLE_FAN)
	gl.Normal3f(0, 0, 1)
	gl.Vertex3f(0, 0, height)
	for i := 0; i <= segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		x := radius * float32(math.Cos(a))
		y := radius * float32(math.Sin(a))
		gl.Normal3f(x, y, 0.5)
		gl.Vertex3f(x, y, 0)
	}
	gl.End()

	gl.Begin(gl.TRIANGLE_FAN)
	gl.Normal3f(0, 0, -1)
	gl.Vertex3f(0, 0, 0)
	for i := segments; i >= 0; i-- {
		a := 2 * math.Pi * float64(i) / float64(segments)
		gl.Vertex3f(radius*float32(math.Cos(a)), radius*float32(math.Sin(a)), 0)
	}
	gl.End()
}

func (w *Window) drawOverlay(snap orient.Snapshot, cal orient.Calibration) {
	gl.Disable(gl.LIGHTING)
	gl.Disable(gl.DEPTH_TEST)

	// 2D ortho with y growing downward, like screen coordinates.
	gl.MatrixMode(gl.PROJECTION)
	gl.PushMatrix()
	gl.LoadIdentity()
	gl.Ortho(0, float64(w.width), float64(w.height), 0, -1, 1)
	gl.MatrixMode(gl.MODELVIEW)
	gl.PushMatrix()
	gl.LoadIdentity()

	y := float32(20)
	for _, line := range overlayLines(snap, cal) {
		w.drawText(line, 20, y, colWhite)
		y += 25
	}

	w.drawText(directionLine(snap), 20, float32(w.height-30), colYellow)
	w.drawText("ESC to quit", float32(w.width-150), float32(w.height-30), colGray)

	gl.MatrixMode(gl.PROJECTION)
	gl.PopMatrix()
	gl.MatrixMode(gl.MODELVIEW)
	gl.PopMatrix()

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.LIGHTING)
}

// drawText blits a rasterized line at (x, y) in the y-down overlay
// projection; (x, y) is the top-left corner of the text.
func (w *Window) drawText(s string, x, y float32, c rgb) {
	if s == "" {
		return
	}
	img := rasterizeText(s, c)
	b := img.Bounds()

	// RGBA rows are top-down; flip the unpack direction so the raster
	// position is the top of the text in the y-down projection.
	gl.PixelZoom(1, -1)
	gl.RasterPos2f(x, y)
	gl.DrawPixels(int32(b.Dx()), int32(b.Dy()), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.PixelZoom(1, 1)
}
