package tank

import (
	"github.com/pthm-cable/tank/denizen"
)

// spatialGrid buckets denizen ids by cell for radius queries. Positions
// outside the bounds are clamped into the edge cells, so denizens drifting
// past the walls stay findable until they are culled.
type spatialGrid struct {
	cellSize float64
	originX  float64
	originY  float64
	cols     int
	rows     int
	cells    [][]denizen.ID
}

func newSpatialGrid(b denizen.Bounds, cellSize float64) *spatialGrid {
	if cellSize <= 0 {
		cellSize = 100
	}
	cols := int((b.MaxX-b.MinX)/cellSize) + 1
	rows := int((b.MaxY-b.MinY)/cellSize) + 1
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	cells := make([][]denizen.ID, cols*rows)
	for i := range cells {
		cells[i] = make([]denizen.ID, 0, 8)
	}

	return &spatialGrid{
		cellSize: cellSize,
		originX:  b.MinX,
		originY:  b.MinY,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

func (g *spatialGrid) clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func (g *spatialGrid) insert(id denizen.ID, x, y float64) {
	col, row := g.cell(x, y)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], id)
}

// candidates appends every id bucketed in a cell overlapping the square of
// half-width radius around (x, y). Callers do the exact distance test.
func (g *spatialGrid) candidates(dst []denizen.ID, x, y, radius float64) []denizen.ID {
	minCol, minRow := g.cell(x-radius, y-radius)
	maxCol, maxRow := g.cell(x+radius, y+radius)

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			dst = append(dst, g.cells[row*g.cols+col]...)
		}
	}
	return dst
}

// cell returns the clamped cell coordinates for a tank position.
func (g *spatialGrid) cell(x, y float64) (col, row int) {
	fc := (x - g.originX) / g.cellSize
	fr := (y - g.originY) / g.cellSize

	// Clamp before converting so huge offsets cannot overflow
	switch {
	case fc < 0:
		col = 0
	case fc >= float64(g.cols):
		col = g.cols - 1
	default:
		col = int(fc)
	}
	switch {
	case fr < 0:
		row = 0
	case fr >= float64(g.rows):
		row = g.rows - 1
	default:
		row = int(fr)
	}
	return col, row
}
