package camera

import (
	"math"
	"testing"

	"github.com/pthm-cable/tank/denizen"
)

var tankBounds = denizen.Bounds{MinX: 0, MaxX: 1280, MinY: 0, MaxY: 720}

func TestNew(t *testing.T) {
	cam := New(tankBounds)

	// Should be centered on the tank
	if cam.X != 640 || cam.Y != 360 {
		t.Errorf("expected camera at (640, 360), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
	if got := cam.Visible(); got != tankBounds {
		t.Errorf("Visible() = %+v, want whole tank", got)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(tankBounds)

	cam.SetZoom(0.1)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to min %f, got %f", cam.MinZoom, cam.Zoom)
	}

	cam.SetZoom(10)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to max %f, got %f", cam.MaxZoom, cam.Zoom)
	}
}

func TestVisibleAtZoom(t *testing.T) {
	cam := New(tankBounds)
	cam.SetZoom(2)

	want := denizen.Bounds{MinX: 320, MaxX: 960, MinY: 180, MaxY: 540}
	if got := cam.Visible(); got != want {
		t.Errorf("Visible() = %+v, want %+v", got, want)
	}
}

func TestPanStaysInsideTank(t *testing.T) {
	tests := []struct {
		name   string
		zoom   float64
		dx, dy float64
		wantX  float64
		wantY  float64
	}{
		{"whole tank cannot move", 1, 500, 500, 640, 360},
		{"small pan", 2, 100, -50, 740, 310},
		{"clamped right and top", 2, 5000, 5000, 960, 540},
		{"clamped left and bottom", 4, -5000, -5000, 160, 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := New(tankBounds)
			cam.SetZoom(tt.zoom)
			cam.Pan(tt.dx, tt.dy)
			if cam.X != tt.wantX || cam.Y != tt.wantY {
				t.Errorf("center = (%v, %v), want (%v, %v)", cam.X, cam.Y, tt.wantX, tt.wantY)
			}
			v := cam.Visible()
			if v.MinX < tankBounds.MinX || v.MaxX > tankBounds.MaxX || v.MinY < tankBounds.MinY || v.MaxY > tankBounds.MaxY {
				t.Errorf("visible %+v leaves the tank", v)
			}
		})
	}
}

func TestZoomAtKeepsAnchor(t *testing.T) {
	cam := New(tankBounds)
	x, y := 400.0, 300.0

	before := cam.Visible()
	fx := (x - before.MinX) / (before.MaxX - before.MinX)
	fy := (y - before.MinY) / (before.MaxY - before.MinY)

	cam.ZoomAt(2, x, y)
	if cam.Zoom != 2 {
		t.Fatalf("zoom = %v, want 2", cam.Zoom)
	}

	after := cam.Visible()
	gx := (x - after.MinX) / (after.MaxX - after.MinX)
	gy := (y - after.MinY) / (after.MaxY - after.MinY)
	if math.Abs(gx-fx) > 1e-9 || math.Abs(gy-fy) > 1e-9 {
		t.Errorf("anchor moved on screen: (%v, %v) -> (%v, %v)", fx, fy, gx, gy)
	}
}

func TestSetTankReclamps(t *testing.T) {
	cam := New(tankBounds)
	cam.SetZoom(2)
	cam.Pan(1000, 1000)

	cam.SetTank(denizen.Bounds{MaxX: 640, MaxY: 360})
	v := cam.Visible()
	if v.MaxX > 640 || v.MaxY > 360 {
		t.Errorf("visible %+v leaves the resized tank", v)
	}

	cam.Reset()
	if cam.X != 320 || cam.Y != 180 || cam.Zoom != 1 {
		t.Errorf("Reset() = (%v, %v) zoom %v", cam.X, cam.Y, cam.Zoom)
	}
}
