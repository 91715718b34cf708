// Package termview presents a tank in a terminal: one glyph per denizen,
// a status line, and mouse clicks routed back into the tank.
package termview

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/pthm-cable/tank/denizen"
	"github.com/pthm-cable/tank/tank"
)

// Sim is the simulation surface the view drives.
type Sim interface {
	Update(dt time.Duration)
	Tank() *tank.Tank
	Click(x, y float64) bool
	TogglePause()
	Paused() bool
	Speed() int
	SetSpeed(n int)
	Autoclick() bool
	SetAutoclick(on bool)
	SimTime() time.Duration
}

var glyphs = map[denizen.Kind]string{
	denizen.KindFish:       "🐟",
	denizen.KindSwitchFish: "🐠",
	denizen.KindGoFish:     "🐡",
	denizen.KindBiteFish:   "🦈",
	denizen.KindSeed:       "•",
	denizen.KindStarter:    "🌋",
	denizen.KindEffect:     "✶",
}

var colors = map[denizen.Kind]tcell.Color{
	denizen.KindFish:       tcell.ColorSilver,
	denizen.KindSwitchFish: tcell.ColorAqua,
	denizen.KindGoFish:     tcell.ColorYellow,
	denizen.KindBiteFish:   tcell.ColorRed,
	denizen.KindSeed:       tcell.ColorGreen,
	denizen.KindStarter:    tcell.ColorOrangeRed,
	denizen.KindEffect:     tcell.ColorFuchsia,
}

var (
	waterStyle  = tcell.StyleDefault.Background(tcell.ColorNavy)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
)

// View maps tank coordinates onto the terminal grid. The bottom row is the
// status line; tank y grows upwards, screen rows grow downwards.
type View struct {
	screen  tcell.Screen
	buttons tcell.ButtonMask // held on the previous mouse event
}

// New creates a view drawing on screen. The screen must be initialised.
func New(screen tcell.Screen) *View {
	return &View{screen: screen}
}

// field returns the size of the tank area in cells.
func (v *View) field() (cols, rows int) {
	w, h := v.screen.Size()
	return w, max(h-1, 0)
}

// toCell maps a tank point to a cell. ok is false outside the field.
func (v *View) toCell(b denizen.Bounds, x, y float64) (col, row int, ok bool) {
	cols, rows := v.field()
	if cols == 0 || rows == 0 || b.MaxX <= b.MinX || b.MaxY <= b.MinY {
		return 0, 0, false
	}
	fx := (x - b.MinX) / (b.MaxX - b.MinX)
	fy := (y - b.MinY) / (b.MaxY - b.MinY)
	if fx < 0 || fx >= 1 || fy < 0 || fy >= 1 {
		return 0, 0, false
	}
	col = int(fx * float64(cols))
	row = rows - 1 - int(fy*float64(rows))
	return col, row, true
}

// toTank maps a cell to the tank point at its center.
func (v *View) toTank(b denizen.Bounds, col, row int) (x, y float64) {
	cols, rows := v.field()
	x = b.MinX + (float64(col)+0.5)*(b.MaxX-b.MinX)/float64(cols)
	y = b.MinY + (float64(rows-1-row)+0.5)*(b.MaxY-b.MinY)/float64(rows)
	return x, y
}

// Draw paints the water, one glyph per denizen at its box center, and the
// status line. Later rules draw over earlier ones.
func (v *View) Draw(b denizen.Bounds, rules []denizen.RenderRules, status string) {
	cols, rows := v.field()
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			v.screen.SetContent(col, row, ' ', nil, waterStyle)
		}
	}

	for _, r := range rules {
		col, row, ok := v.toCell(b, r.X+r.CSS.Width/2, r.Y+r.CSS.Height/2)
		if !ok {
			continue
		}
		style := waterStyle.Foreground(colors[r.Kind])
		v.putGlyph(col, row, glyphs[r.Kind], style)
	}

	v.putStatus(rows, status)
	v.screen.Show()
}

// putGlyph draws a glyph at (x, y), padding the second column of wide glyphs.
func (v *View) putGlyph(x, y int, glyph string, style tcell.Style) {
	runes := []rune(glyph)
	if len(runes) == 0 {
		return
	}
	v.screen.SetContent(x, y, runes[0], runes[1:], style)
	if runewidth.StringWidth(glyph) == 2 {
		v.screen.SetContent(x+1, y, ' ', nil, style)
	}
}

// putStatus writes s on row y, truncated to the screen width.
func (v *View) putStatus(y int, s string) {
	w, _ := v.screen.Size()
	s = runewidth.Truncate(s, w, "…")
	x := 0
	for _, r := range s {
		v.screen.SetContent(x, y, r, nil, statusStyle)
		x += runewidth.RuneWidth(r)
	}
	for ; x < w; x++ {
		v.screen.SetContent(x, y, ' ', nil, statusStyle)
	}
}

// Status formats the status line for sim.
func Status(sim Sim) string {
	t := sim.Tank()
	state := "running"
	if sim.Paused() {
		state = "paused"
	}
	auto := "off"
	if sim.Autoclick() {
		auto = "on"
	}
	fish := t.Count(denizen.KindFish) + t.Count(denizen.KindSwitchFish) +
		t.Count(denizen.KindGoFish) + t.Count(denizen.KindBiteFish)
	return fmt.Sprintf(" %s %.1fs x%d | fish %d seeds %d | auto %s | space pause  +/- speed  a auto  q quit",
		state, sim.SimTime().Seconds(), sim.Speed(), fish, t.Count(denizen.KindSeed), auto)
}

// HandleEvent applies one input event to sim and reports whether the user
// asked to quit.
func (v *View) HandleEvent(ev tcell.Event, sim Sim) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.screen.Sync()
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				return true
			case ' ':
				sim.TogglePause()
			case '+', '=':
				sim.SetSpeed(sim.Speed() + 1)
			case '-':
				sim.SetSpeed(sim.Speed() - 1)
			case 'a', 'A':
				sim.SetAutoclick(!sim.Autoclick())
			}
		}
	case *tcell.EventMouse:
		buttons := ev.Buttons()
		pressed := buttons&tcell.Button1 != 0 && v.buttons&tcell.Button1 == 0
		v.buttons = buttons
		if !pressed {
			return false
		}
		col, row := ev.Position()
		if cols, rows := v.field(); col >= cols || row >= rows {
			return false
		}
		x, y := v.toTank(sim.Tank().Bounds(), col, row)
		sim.Click(x, y)
	}
	return false
}

// Run drives sim at one update per frame until the user quits or ctx ends.
func (v *View) Run(ctx context.Context, sim Sim, frame time.Duration) error {
	events := make(chan tcell.Event, 32)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(frame)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if v.HandleEvent(ev, sim) {
				return nil
			}
		case now := <-ticker.C:
			sim.Update(now.Sub(last))
			last = now
			t := sim.Tank()
			v.Draw(t.Bounds(), t.Snapshot(), Status(sim))
		}
	}
}
