// Package renderer draws a tank with raylib and routes pointer input back
// into it.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tank/denizen"
)

// Viewport maps the tank rectangle onto the window. Tank y grows upwards,
// screen y grows downwards.
type Viewport struct {
	Bounds  denizen.Bounds
	ScreenW float32
	ScreenH float32
}

func (v Viewport) scale() (sx, sy float64) {
	w := v.Bounds.MaxX - v.Bounds.MinX
	h := v.Bounds.MaxY - v.Bounds.MinY
	if w <= 0 || h <= 0 {
		return 1, 1
	}
	return float64(v.ScreenW) / w, float64(v.ScreenH) / h
}

// Rect returns the screen rectangle of a denizen box.
func (v Viewport) Rect(r denizen.RenderRules) rl.Rectangle {
	sx, sy := v.scale()
	top := r.Y + r.CSS.Height
	return rl.Rectangle{
		X:      float32((r.X - v.Bounds.MinX) * sx),
		Y:      float32((v.Bounds.MaxY - top) * sy),
		Width:  float32(r.CSS.Width * sx),
		Height: float32(r.CSS.Height * sy),
	}
}

// ToTank maps a screen point to tank coordinates.
func (v Viewport) ToTank(p rl.Vector2) (x, y float64) {
	sx, sy := v.scale()
	x = v.Bounds.MinX + float64(p.X)/sx
	y = v.Bounds.MaxY - float64(p.Y)/sy
	return x, y
}
