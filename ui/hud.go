package ui

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tank/denizen"
	"github.com/pthm-cable/tank/telemetry"
)

// Controls is the simulation surface the HUD reads and steers.
type Controls interface {
	Paused() bool
	SetPaused(p bool)
	Speed() int
	SetSpeed(n int)
	Autoclick() bool
	SetAutoclick(on bool)
	SimTime() time.Duration
	Population() telemetry.Population
	PerfStats() telemetry.PerfStats
}

// Row is one label/value line of the HUD.
type Row struct {
	Label string
	Value string
}

// PopulationRows lists the live count of every kind plus the total.
func PopulationRows(pop telemetry.Population) []Row {
	rows := make([]Row, 0, len(denizen.Kinds())+1)
	total := 0
	for _, kind := range denizen.Kinds() {
		rows = append(rows, Row{Label: kind.String(), Value: fmt.Sprintf("%d", pop[kind])})
		total += pop[kind]
	}
	return append(rows, Row{Label: "total", Value: fmt.Sprintf("%d", total)})
}

// HUD renders the control panel in the top-left corner.
type HUD struct {
	renderer *Renderer
	x, y     int32
	width    int32
	height   int32
}

// NewHUD creates a new HUD.
func NewHUD(x, y int32) *HUD {
	return &HUD{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    230,
	}
}

// Bounds returns the screen area the HUD covers, so clicks on it are not
// delivered to the tank.
func (h *HUD) Bounds() rl.Rectangle {
	return rl.Rectangle{X: float32(h.x), Y: float32(h.y), Width: float32(h.width), Height: float32(h.height)}
}

// Draw renders the HUD and applies any control changes to c.
func (h *HUD) Draw(c Controls, title string) {
	r := h.renderer
	pad := r.Theme.Padding
	x := h.x + pad
	inner := h.width - pad*2

	// Panel height from the previous frame; the layout is stable
	if h.height > 0 {
		r.DrawPanel(h.x, h.y, h.width, h.height)
	}

	y := h.y + pad
	rl.DrawText(title, x, y, 18, rl.White)
	y += 24

	state := "running"
	if c.Paused() {
		state = "PAUSED"
	}
	y = r.DrawLabelValue(x, y, "sim time", fmt.Sprintf("%.1fs (%s)", c.SimTime().Seconds(), state))
	y += 4

	// Controls
	pauseLabel := "Pause"
	if c.Paused() {
		pauseLabel = "Resume"
	}
	half := float32(inner-6) / 2
	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: half, Height: 22}, pauseLabel) {
		c.SetPaused(!c.Paused())
	}
	autoLabel := "Autoclick: off"
	if c.Autoclick() {
		autoLabel = "Autoclick: on"
	}
	if gui.Button(rl.Rectangle{X: float32(x) + half + 6, Y: float32(y), Width: half, Height: 22}, autoLabel) {
		c.SetAutoclick(!c.Autoclick())
	}
	y += 30

	rl.DrawText(fmt.Sprintf("Speed: %dx", c.Speed()), x, y, r.Theme.FontSize, r.Theme.LabelColor)
	y += r.Theme.LineHeight
	speed := gui.SliderBar(
		rl.Rectangle{X: float32(x) + 12, Y: float32(y), Width: float32(inner) - 36, Height: 16},
		"1", "10",
		float32(c.Speed()), 1, 10,
	)
	if n := int(speed + 0.5); n != c.Speed() {
		c.SetSpeed(n)
	}
	y += 26

	// Population
	y = r.DrawSectionHeader(x, y, "Population")
	for _, row := range PopulationRows(c.Population()) {
		y = r.DrawLabelValue(x, y, row.Label, row.Value)
	}
	y += 4

	// Step timings
	perf := c.PerfStats()
	y = r.DrawSectionHeader(x, y, "Step timings")
	y = r.DrawLabelValue(x, y, "fps", fmt.Sprintf("%.0f", perf.FPS))
	y = r.DrawLabelValue(x, y, "step", perf.AvgStep.Round(time.Microsecond).String())
	for _, phase := range []string{telemetry.PhaseAutoclick, telemetry.PhaseSweep, telemetry.PhaseTelemetry} {
		y = r.DrawBar(x, y, phase, float32(perf.PhasePct[phase]/100), inner)
	}

	h.height = y + pad - h.y
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32) {
	rl.DrawText("click: interact | shift+click: inspect | space: pause | </>: speed | A: autoclick | wheel/right-drag: zoom/pan | R: reset view | F11: fullscreen", 10, screenHeight-25, 14, rl.Gray)
}
