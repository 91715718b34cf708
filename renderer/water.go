package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	waterTop    = rl.Color{R: 40, G: 110, B: 170, A: 255}
	waterBottom = rl.Color{R: 10, G: 35, B: 70, A: 255}
	causticTint = rl.Color{R: 200, G: 230, B: 255, A: 28}
	sandColor   = rl.Color{R: 150, G: 130, B: 90, A: 255}
)

// WaterBackground renders a depth gradient with drifting caustic bands.
type WaterBackground struct {
	width  float32
	height float32
	bands  int
}

// NewWaterBackground creates a new water background renderer.
func NewWaterBackground(width, height int32) *WaterBackground {
	return &WaterBackground{
		width:  float32(width),
		height: float32(height),
		bands:  6,
	}
}

// Resize updates the drawing area.
func (w *WaterBackground) Resize(width, height int32) {
	w.width = float32(width)
	w.height = float32(height)
}

// Draw renders the water at simulated time t seconds.
func (w *WaterBackground) Draw(t float32) {
	rl.DrawRectangleGradientV(0, 0, int32(w.width), int32(w.height), waterTop, waterBottom)

	// Caustics: slow sine bands that wander horizontally
	for i := 0; i < w.bands; i++ {
		phase := float64(t)*0.3 + float64(i)*1.7
		x := w.width * float32(0.5+0.45*math.Sin(phase))
		bandW := w.width / float32(w.bands*2)
		rl.DrawRectangle(int32(x-bandW/2), 0, int32(bandW), int32(w.height), causticTint)
	}

	rl.DrawRectangle(0, int32(w.height)-6, int32(w.width), 6, sandColor)
}
