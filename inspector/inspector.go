// Package inspector shows the live state of one selected denizen in a
// raylib side panel.
package inspector

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tank/denizen"
	"github.com/pthm-cable/tank/renderer"
	"github.com/pthm-cable/tank/telemetry"
)

// Panel dimensions
const (
	PanelWidth   = 360
	PanelPadding = 10
	HeaderHeight = 30
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorSection     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorSectionText = rl.Color{R: 200, G: 200, B: 220, A: 255}
	ColorBiteRange   = rl.Color{R: 255, G: 120, B: 90, A: 160}
)

// Source is the simulation surface the inspector reads.
type Source interface {
	DenizenAt(x, y float64) (denizen.ID, bool)
	Inspect(id denizen.ID) (denizen.Denizen, telemetry.LifetimeStats, bool)
	Now() time.Time
}

// Inspector manages denizen selection and panel rendering.
type Inspector struct {
	selected    denizen.ID
	hasSelected bool
	panelX      int32
	panelY      int32
	panelHeight int32
}

// NewInspector creates a new inspector instance.
func NewInspector(screenWidth int32) *Inspector {
	ins := &Inspector{panelY: 10}
	ins.Resize(screenWidth)
	return ins
}

// Resize keeps the panel against the right edge of the window.
func (ins *Inspector) Resize(screenWidth int32) {
	ins.panelX = screenWidth - PanelWidth - 10
}

// HandleInput selects the denizen under the pointer on shift+left click and
// closes the panel from its close button. It reports whether the click was
// consumed, in which case it must not reach the tank.
func (ins *Inspector) HandleInput(src Source, vp renderer.Viewport) bool {
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return false
	}
	mouse := rl.GetMousePosition()

	if ins.hasSelected {
		closeBtn := rl.Rectangle{
			X:      float32(ins.panelX + PanelWidth - 25),
			Y:      float32(ins.panelY + 5),
			Width:  20,
			Height: 20,
		}
		if rl.CheckCollisionPointRec(mouse, closeBtn) {
			ins.Deselect()
			return true
		}
		// Clicks inside the panel are ignored
		if rl.CheckCollisionPointRec(mouse, ins.Bounds()) {
			return true
		}
	}

	if !rl.IsKeyDown(rl.KeyLeftShift) && !rl.IsKeyDown(rl.KeyRightShift) {
		return false
	}
	x, y := vp.ToTank(mouse)
	if id, ok := src.DenizenAt(x, y); ok {
		ins.Select(id)
	} else {
		ins.Deselect()
	}
	return true
}

// Select makes id the inspected denizen.
func (ins *Inspector) Select(id denizen.ID) {
	ins.selected = id
	ins.hasSelected = true
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
}

// Selected returns the currently selected denizen.
func (ins *Inspector) Selected() (denizen.ID, bool) {
	return ins.selected, ins.hasSelected
}

// Bounds returns the screen area of the panel, empty when nothing is selected.
func (ins *Inspector) Bounds() rl.Rectangle {
	if !ins.hasSelected {
		return rl.Rectangle{}
	}
	return rl.Rectangle{
		X:      float32(ins.panelX),
		Y:      float32(ins.panelY),
		Width:  PanelWidth,
		Height: float32(ins.panelHeight),
	}
}

// LifetimeRows returns the label/value pairs of the lifetime section.
func LifetimeRows(kind denizen.Kind, stats telemetry.LifetimeStats, now time.Time) [][2]string {
	age := "unknown"
	if !stats.Born.IsZero() {
		age = fmt.Sprintf("%.1fs", now.Sub(stats.Born).Seconds())
	}
	rows := [][2]string{
		{"Age", age},
		{"Clicks", fmt.Sprintf("%d", stats.Clicks)},
	}
	if kind == denizen.KindBiteFish {
		rows = append(rows, [2]string{"Bites", fmt.Sprintf("%d", stats.Bites)})
	}
	return rows
}

// Draw renders the inspector panel if a denizen is selected. A selection
// that has left the tank is dropped.
func (ins *Inspector) Draw(src Source) {
	if !ins.hasSelected {
		return
	}

	d, stats, ok := src.Inspect(ins.selected)
	if !ok {
		ins.Deselect()
		return
	}
	core := d.Core()
	rows := LifetimeRows(core.Kind, stats, src.Now())
	fields := ExtractFields(d)

	ins.panelHeight = ins.calculatePanelHeight(len(rows), fields)

	// Draw panel background
	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, ins.panelHeight, ColorPanelBg)
	rl.DrawRectangleLinesEx(ins.Bounds(), 1, ColorPanelBorder)

	// Draw header
	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText("INSPECTOR", ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	// Draw close button
	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	// Content area
	y := ins.panelY + HeaderHeight + PanelPadding
	x := ins.panelX + PanelPadding

	rl.DrawText(fmt.Sprintf("ID: %d  Kind: %s", core.ID, core.Kind), x, y, 14, ColorHeaderText)
	y += 22

	y = ins.drawSeparator(x, y)

	ins.drawSectionHeader(x, y, "LIFETIME")
	y += 20
	for _, row := range rows {
		y += DrawLabel(x, y, row[0], row[1], nil)
	}

	y = ins.drawSeparator(x, y)

	ins.drawSectionHeader(x, y, "STATE")
	y += 20
	for _, f := range fields {
		y += DrawField(x, y, f)
	}
}

func (ins *Inspector) drawSeparator(x, y int32) int32 {
	y += 4
	rl.DrawLine(x, y, ins.panelX+PanelWidth-PanelPadding, y, ColorPanelBorder)
	return y + 8
}

// drawSectionHeader renders a section title.
func (ins *Inspector) drawSectionHeader(x, y int32, title string) {
	rl.DrawRectangle(x-2, y-2, PanelWidth-2*PanelPadding+4, 18, ColorSection)
	rl.DrawText(title, x+2, y, 14, ColorSectionText)
}

// calculatePanelHeight computes the dynamic panel height.
func (ins *Inspector) calculatePanelHeight(rows int, fields []Field) int32 {
	height := int32(HeaderHeight + PanelPadding) // header
	height += 22                                 // ID line
	height += 12                                 // separator
	height += 20 + int32(rows)*18                // lifetime
	height += 12                                 // separator
	height += 20                                 // state header
	for _, f := range fields {
		height += fieldHeight(f)
	}
	return height + PanelPadding
}

// DrawSelectionHighlight outlines the selected denizen and, for a bite fish,
// its bite range.
func (ins *Inspector) DrawSelectionHighlight(src Source, vp renderer.Viewport) {
	if !ins.hasSelected {
		return
	}
	d, _, ok := src.Inspect(ins.selected)
	if !ok {
		return
	}

	core := d.Core()
	r := vp.Rect(core.RenderRules())
	rl.DrawRectangleLinesEx(r, 2, rl.Yellow)

	b, ok := d.(*denizen.BiteFish)
	if !ok || core.Width <= 0 || core.Height <= 0 {
		return
	}
	rx := float32(b.BiteRadius()) * r.Width / float32(core.Width)
	ry := float32(b.BiteRadius()) * r.Height / float32(core.Height)
	rl.DrawEllipseLines(int32(r.X+r.Width/2), int32(r.Y+r.Height/2), rx, ry, ColorBiteRange)
}
