package engine

import (
	"github.com/oakhurst-games/microcity/server/internal/domain/tiles"
)

// Grid is the shared mutable tile map. Cells are packed 16-bit codes: the
// low bits hold the tile atlas index, the high bits per-cell flags. The zone
// simulation writes base-pattern bits for zoned tiles; the power scan (an
// external collaborator) owns the power flag, which every write here
// preserves.
type Grid struct {
	Width  int
	Height int
	cells  []uint16

	// Trace is an optional diagnostic hook invoked on every write. The
	// reason tag identifies the mutating operation.
	Trace func(x, y int, id uint16, reason string)
}

// NewGrid returns a dirt-filled grid of the given size.
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		cells:  make([]uint16, width*height),
	}
}

// InBounds reports whether (x,y) is a valid cell coordinate.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// TileAt returns the full packed cell, or 0 for out-of-bounds coordinates.
func (g *Grid) TileAt(x, y int) uint16 {
	if !g.InBounds(x, y) {
		return 0
	}
	return g.cells[y*g.Width+x]
}

// TileID returns the bare atlas index at (x,y) with flags stripped.
func (g *Grid) TileID(x, y int) int {
	return tiles.ID(g.TileAt(x, y))
}

// SetTile writes a new atlas index plus the given flags at (x,y), preserving
// the cell's power flag. Out-of-bounds writes are a no-op. The reason tag is
// diagnostic only.
func (g *Grid) SetTile(x, y int, id uint16, flags uint16, reason string) {
	if !g.InBounds(x, y) {
		return
	}
	idx := y*g.Width + x
	power := g.cells[idx] & tiles.PowerBit
	g.cells[idx] = (id & tiles.LoMask) | flags | power
	if g.Trace != nil {
		g.Trace(x, y, id, reason)
	}
}

// SetRaw overwrites a cell verbatim, flags included. Used by map setup and
// snapshot import, never by the simulation itself.
func (g *Grid) SetRaw(x, y int, cell uint16) {
	if !g.InBounds(x, y) {
		return
	}
	g.cells[y*g.Width+x] = cell
}

// Cells exposes the backing array for snapshot export. Callers must not
// retain the slice across ticks.
func (g *Grid) Cells() []uint16 {
	return g.cells
}

// EachZoneCenter invokes fn for every cell carrying the zone-center flag,
// scanning north to south, west to east.
func (g *Grid) EachZoneCenter(fn func(x, y int, cell uint16)) {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if cell := g.cells[y*g.Width+x]; tiles.IsZoneCenter(cell) {
				fn(x, y, cell)
			}
		}
	}
}
