package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tank/camera"
)

// Zoom factor per mouse wheel notch.
const wheelZoomStep = 1.1

// Clicker receives clicks in tank coordinates.
type Clicker interface {
	Click(x, y float64) bool
}

// HandleClick forwards a left click to c unless the pointer is over one of
// the blocked screen rectangles. It reports whether a click was delivered.
func HandleClick(c Clicker, vp Viewport, blocked ...rl.Rectangle) bool {
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return false
	}
	p := rl.GetMousePosition()
	for _, r := range blocked {
		if rl.CheckCollisionPointRec(p, r) {
			return false
		}
	}
	x, y := vp.ToTank(p)
	c.Click(x, y)
	return true
}

// HandleCamera applies wheel zoom around the pointer, right-drag panning and
// the R reset key to cam. vp must be the viewport built from cam.Visible().
func HandleCamera(cam *camera.Camera, vp Viewport) {
	if rl.IsKeyPressed(rl.KeyR) {
		cam.Reset()
		return
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		x, y := vp.ToTank(rl.GetMousePosition())
		cam.ZoomAt(math.Pow(wheelZoomStep, float64(wheel)), x, y)
	}

	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		sx, sy := vp.scale()
		// Content follows the pointer; screen y is flipped
		cam.Pan(-float64(d.X)/sx, float64(d.Y)/sy)
	}
}
