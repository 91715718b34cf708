// Package tank hosts denizens: it owns the registry, the bounds, proximity
// queries, delayed removal, the species catalog and the per-frame sweep.
package tank

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/tank/denizen"
	"github.com/pthm-cable/tank/vec"
)

// slot is the registry component carried by every denizen entity.
type slot struct {
	id  denizen.ID
	d   denizen.Denizen
	due time.Time // pending delayed removal, zero if none
}

// Species is a named entry of the catalog seeds draw from.
type Species struct {
	Name    string
	Factory denizen.Factory
}

// Observer is notified of registry changes. Callbacks run synchronously
// inside the tank and must not call back into it.
type Observer interface {
	Registered(id denizen.ID, d denizen.Denizen, now time.Time)
	Removed(id denizen.ID, d denizen.Denizen, now time.Time)
	Clicked(id denizen.ID, d denizen.Denizen, now time.Time)
}

type nopObserver struct{}

func (nopObserver) Registered(denizen.ID, denizen.Denizen, time.Time) {}
func (nopObserver) Removed(denizen.ID, denizen.Denizen, time.Time) {}
func (nopObserver) Clicked(denizen.ID, denizen.Denizen, time.Time) {}

// Options configures a new tank.
type Options struct {
	Bounds   denizen.Bounds
	CellSize float64    // spatial grid cell size, default 100
	Clock    Clock      // default SystemClock
	Rand     *rand.Rand // default seeded from the clock
}

// Tank is the host world. It implements denizen.World.
type Tank struct {
	world  *ecs.World
	slots  *ecs.Map1[slot]
	filter *ecs.Filter1[slot]
	index  map[denizen.ID]ecs.Entity
	nextID denizen.ID

	bounds   denizen.Bounds
	cellSize float64
	grid     *spatialGrid
	dirty    bool
	scratch  []denizen.ID

	clock    Clock
	rng      *rand.Rand
	species  []Species
	observer Observer
	frames   uint64
}

var _ denizen.World = (*Tank)(nil)

// New creates an empty tank.
func New(opts Options) *Tank {
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(opts.Clock.Now().UnixNano()))
	}
	if opts.CellSize <= 0 {
		opts.CellSize = 100
	}

	world := ecs.NewWorld()
	return &Tank{
		world:    world,
		slots:    ecs.NewMap1[slot](world),
		filter:   ecs.NewFilter1[slot](world),
		index:    make(map[denizen.ID]ecs.Entity),
		bounds:   opts.Bounds,
		cellSize: opts.CellSize,
		grid:     newSpatialGrid(opts.Bounds, opts.CellSize),
		clock:    opts.Clock,
		rng:      opts.Rand,
		observer: nopObserver{},
	}
}

// SetObserver installs o. Nil restores the no-op observer.
func (t *Tank) SetObserver(o Observer) {
	if o == nil {
		o = nopObserver{}
	}
	t.observer = o
}

// RegisterDenizen adds d to the live set and returns its id. Ids increase
// monotonically and are never reused.
func (t *Tank) RegisterDenizen(d denizen.Denizen) denizen.ID {
	t.nextID++
	id := t.nextID
	t.index[id] = t.slots.NewEntity(&slot{id: id, d: d})
	t.dirty = true
	t.observer.Registered(id, d, t.Now())
	return id
}

// RemoveDenizen removes the denizen now, or after delay when delay is
// positive. A delayed denizen stays live and keeps being updated until its
// deadline passes; the earliest requested deadline wins. Unknown ids are
// ignored.
func (t *Tank) RemoveDenizen(id denizen.ID, delay time.Duration) {
	e, ok := t.index[id]
	if !ok {
		return
	}
	if delay <= 0 {
		t.evict(id, e)
		return
	}
	s := t.slots.Get(e)
	due := t.Now().Add(delay)
	if s.due.IsZero() || due.Before(s.due) {
		s.due = due
	}
}

func (t *Tank) evict(id denizen.ID, e ecs.Entity) {
	d := t.slots.Get(e).d
	t.world.RemoveEntity(e)
	delete(t.index, id)
	t.observer.Removed(id, d, t.Now())
}

// Bounds returns the current tank rectangle.
func (t *Tank) Bounds() denizen.Bounds { return t.bounds }

// Resize replaces the bounds. Denizens left far outside are culled on their
// next update.
func (t *Tank) Resize(b denizen.Bounds) {
	t.bounds = b
	t.grid = newSpatialGrid(b, t.cellSize)
	t.dirty = true
}

// ProximateDenizens returns the live denizens whose center is within radius
// of pos. The result is a fresh slice; removing members while walking it is
// safe.
func (t *Tank) ProximateDenizens(pos vec.Vec2, radius float64) []denizen.Denizen {
	if radius < 0 {
		return nil
	}
	if t.dirty {
		t.rebuild()
	}

	t.scratch = t.grid.candidates(t.scratch[:0], pos.X, pos.Y, radius)
	var out []denizen.Denizen
	for _, id := range t.scratch {
		e, ok := t.index[id]
		if !ok {
			continue
		}
		d := t.slots.Get(e).d
		if d.Core().Position.Dist(pos) <= radius {
			out = append(out, d)
		}
	}
	return out
}

func (t *Tank) rebuild() {
	t.grid.clear()
	for _, d := range t.live() {
		c := d.Core()
		t.grid.insert(c.ID, c.Position.X, c.Position.Y)
	}
	t.dirty = false
}

// AddSpecies appends a named factory to the catalog.
func (t *Tank) AddSpecies(name string, f denizen.Factory) {
	t.species = append(t.species, Species{Name: name, Factory: f})
}

// Species looks up a catalog entry by name.
func (t *Tank) Species(name string) (denizen.Factory, bool) {
	for _, s := range t.species {
		if s.Name == name {
			return s.Factory, true
		}
	}
	return nil, false
}

// SpeciesNames lists the catalog in insertion order.
func (t *Tank) SpeciesNames() []string {
	names := make([]string, len(t.species))
	for i, s := range t.species {
		names[i] = s.Name
	}
	return names
}

// RandomSpecies picks a catalog entry uniformly. It returns nil when the
// catalog is empty.
func (t *Tank) RandomSpecies() denizen.Factory {
	if len(t.species) == 0 {
		return nil
	}
	return t.species[t.rng.Intn(len(t.species))].Factory
}

// Now returns the tank clock's time.
func (t *Tank) Now() time.Time { return t.clock.Now() }

// Rand returns the tank's random source.
func (t *Tank) Rand() *rand.Rand { return t.rng }

// Update runs one frame at the clock's current time. Due delayed removals are
// purged first; then every denizen live at the start of the sweep is updated
// once unless it was removed earlier in the same sweep. Denizens spawned
// during the sweep wait for the next frame.
func (t *Tank) Update() {
	now := t.clock.Now()
	t.frames++
	t.purge(now)

	for _, d := range t.live() {
		id := d.Core().ID
		if _, ok := t.index[id]; !ok {
			continue
		}
		d.Update(now)
		t.dirty = true
	}
}

// purge evicts denizens whose removal deadline has passed.
func (t *Tank) purge(now time.Time) {
	// Collect first: the world is locked while a query is open
	var due []slot
	query := t.filter.Query()
	for query.Next() {
		s := query.Get()
		if !s.due.IsZero() && !now.Before(s.due) {
			due = append(due, *s)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].id < due[j].id })

	for _, s := range due {
		if e, ok := t.index[s.id]; ok {
			t.evict(s.id, e)
		}
	}
}

// live returns the live denizens ordered by id.
func (t *Tank) live() []denizen.Denizen {
	var slots []*slot
	query := t.filter.Query()
	for query.Next() {
		slots = append(slots, query.Get())
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].id < slots[j].id })

	out := make([]denizen.Denizen, len(slots))
	for i, s := range slots {
		out[i] = s.d
	}
	return out
}

// Frames returns how many times Update has run.
func (t *Tank) Frames() uint64 { return t.frames }

// Len returns the number of live denizens.
func (t *Tank) Len() int { return len(t.index) }

// Count returns the number of live denizens of one kind.
func (t *Tank) Count(kind denizen.Kind) int {
	n := 0
	for _, d := range t.live() {
		if d.Core().Kind == kind {
			n++
		}
	}
	return n
}

// Get returns a live denizen by id.
func (t *Tank) Get(id denizen.ID) (denizen.Denizen, bool) {
	e, ok := t.index[id]
	if !ok {
		return nil, false
	}
	return t.slots.Get(e).d, true
}

// Each calls fn for every live denizen in id order. fn may kill or spawn
// denizens; the walk covers the set as it was when Each started.
func (t *Tank) Each(fn func(denizen.Denizen)) {
	for _, d := range t.live() {
		fn(d)
	}
}

// Snapshot returns the render rules of every live denizen in id order.
func (t *Tank) Snapshot() []denizen.RenderRules {
	live := t.live()
	out := make([]denizen.RenderRules, len(live))
	for i, d := range live {
		out[i] = d.RenderRules()
	}
	return out
}

// Click delivers a click at (x, y) to the topmost denizen whose box contains
// the point. The most recently registered denizen is on top. It reports
// whether anything was hit; a denizen without click behavior yields an error
// wrapping denizen.ErrNotImplemented.
func (t *Tank) Click(x, y float64) (bool, error) {
	d, ok := t.At(x, y)
	if !ok {
		return false, nil
	}
	return true, t.click(d)
}

// At returns the topmost live denizen whose box contains (x, y).
func (t *Tank) At(x, y float64) (denizen.Denizen, bool) {
	p := vec.New(x, y)
	live := t.live()
	for i := len(live) - 1; i >= 0; i-- {
		if live[i].Core().Contains(p) {
			return live[i], true
		}
	}
	return nil, false
}

// ClickDenizen delivers a click to a live denizen by id.
func (t *Tank) ClickDenizen(id denizen.ID) error {
	d, ok := t.Get(id)
	if !ok {
		return fmt.Errorf("denizen %d is not live", id)
	}
	return t.click(d)
}

func (t *Tank) click(d denizen.Denizen) (err error) {
	c := d.Core()
	id, kind := c.ID, c.Kind
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok && errors.Is(e, denizen.ErrNotImplemented) {
				err = fmt.Errorf("clicking %s %d: %w", kind, id, e)
				return
			}
			panic(r)
		}
	}()

	t.observer.Clicked(id, d, t.Now())
	t.dirty = true
	d.OnClick()
	return nil
}
