// Package camera provides pan and zoom over the tank rectangle.
package camera

import "github.com/pthm-cable/tank/denizen"

// Camera selects the part of the tank shown in the window. The visible
// rectangle always stays inside the tank.
type Camera struct {
	// Center of the view in tank coordinates
	X, Y float64

	// Zoom level (1.0 = whole tank, 2.0 = half the width and height)
	Zoom float64

	// Tank rectangle the view is confined to
	Tank denizen.Bounds

	// Zoom constraints
	MinZoom, MaxZoom float64
}

// New creates a camera showing the whole tank.
func New(tank denizen.Bounds) *Camera {
	c := &Camera{
		Tank:    tank,
		MinZoom: 1.0,
		MaxZoom: 4.0,
	}
	c.Reset()
	return c
}

// Visible returns the tank-coordinate rectangle currently in view.
func (c *Camera) Visible() denizen.Bounds {
	halfW, halfH := c.halfExtents()
	return denizen.Bounds{
		MinX: c.X - halfW,
		MaxX: c.X + halfW,
		MinY: c.Y - halfH,
		MaxY: c.Y + halfH,
	}
}

// SetTank changes the confining rectangle, e.g. after a window resize.
func (c *Camera) SetTank(b denizen.Bounds) {
	if b == c.Tank {
		return
	}
	c.Tank = b
	c.clampCenter()
}

// Pan moves the view center by (dx, dy) tank units.
func (c *Camera) Pan(dx, dy float64) {
	c.X += dx
	c.Y += dy
	c.clampCenter()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = min(max(zoom, c.MinZoom), c.MaxZoom)
	c.clampCenter()
}

// ZoomAt multiplies the zoom by factor while keeping the tank point (x, y)
// at the same place on screen.
func (c *Camera) ZoomAt(factor, x, y float64) {
	before := c.Visible()
	c.SetZoom(c.Zoom * factor)
	after := c.Visible()

	// Fraction of the view the anchor sat at before zooming
	fx := (x - before.MinX) / (before.MaxX - before.MinX)
	fy := (y - before.MinY) / (before.MaxY - before.MinY)
	c.Pan(x-(after.MinX+fx*(after.MaxX-after.MinX)), y-(after.MinY+fy*(after.MaxY-after.MinY)))
}

// Reset returns the camera to the whole-tank view.
func (c *Camera) Reset() {
	c.X = (c.Tank.MinX + c.Tank.MaxX) / 2
	c.Y = (c.Tank.MinY + c.Tank.MaxY) / 2
	c.Zoom = 1.0
}

func (c *Camera) halfExtents() (w, h float64) {
	return (c.Tank.MaxX - c.Tank.MinX) / (2 * c.Zoom), (c.Tank.MaxY - c.Tank.MinY) / (2 * c.Zoom)
}

// clampCenter keeps the visible rectangle inside the tank.
func (c *Camera) clampCenter() {
	halfW, halfH := c.halfExtents()
	c.X = clamp(c.X, c.Tank.MinX+halfW, c.Tank.MaxX-halfW)
	c.Y = clamp(c.Y, c.Tank.MinY+halfH, c.Tank.MaxY-halfH)
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
