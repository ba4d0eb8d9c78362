package engine

import (
	"testing"

	"github.com/oakhurst-games/microcity/server/internal/domain/tiles"

	"github.com/oakhurst-games/microcity/server/internal/platform/logger"
)

// scriptedDice replays a fixed roll sequence; once exhausted it returns 0.
// Rolls are taken verbatim, so scripts must stay below the modulus the code
// under test passes to Intn.
type scriptedDice struct {
	rolls []int
	pos   int
}

func (d *scriptedDice) Intn(n int) int {
	if d.pos >= len(d.rolls) {
		return 0
	}
	v := d.rolls[d.pos] % n
	d.pos++
	return v
}

// fixedDice always returns the same roll (modulo the requested range).
type fixedDice struct{ roll int }

func (d fixedDice) Intn(n int) int { return d.roll % n }

func testLogger() *logger.Logger {
	return logger.NewLogger()
}

func bulldozableGrid(w, h int) *Grid {
	g := NewGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.SetRaw(x, y, uint16(tiles.Dirt)|tiles.BullBit)
		}
	}
	return g
}

func TestZonePlopWritesCluster(t *testing.T) {
	g := bulldozableGrid(8, 8)
	p := NewPlacer(g, fixedDice{roll: 0}, testLogger())

	if !p.ZonePlop(4, 4, tiles.RZB) {
		t.Fatalf("Expected placement to succeed")
	}

	center := g.TileAt(4, 4)
	if tiles.ID(center) != tiles.RZB {
		t.Errorf("Expected center id %d, got %d", tiles.RZB, tiles.ID(center))
	}
	if center&tiles.ZoneBit == 0 || center&tiles.CondBit == 0 {
		t.Errorf("Expected center to carry zone and conductive flags, got %04x", center)
	}
	if center&tiles.PowerBit != 0 {
		t.Errorf("Expected placement to leave the power flag to the power scan")
	}

	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			cell := g.TileAt(4+dx, 4+dy)
			if cell&tiles.ZoneBit != 0 {
				t.Errorf("Expected neighbor %d,%d without zone flag", 4+dx, 4+dy)
			}
			id := tiles.ID(cell)
			if id != tiles.RZB+tiles.ClusterStride {
				t.Errorf("Expected neighbor id %d at %d,%d, got %d", tiles.RZB+tiles.ClusterStride, 4+dx, 4+dy, id)
			}
		}
	}
}

func TestZonePlopStrideInvariant(t *testing.T) {
	g := bulldozableGrid(8, 8)
	p := NewPlacer(g, fixedDice{roll: 1}, testLogger())

	for value := 0; value <= 3; value++ {
		for density := -4; density <= 4; density++ {
			if !p.ResPlop(4, 4, density, value) {
				continue
			}
			id := g.TileID(4, 4)
			if (id-tiles.RZB)%tiles.ClusterStride != 0 {
				t.Errorf("Center %d off stride for value=%d density=%d", id, value, density)
			}
		}
	}
}

func TestZonePlopSkipsRoadsAndProtectedCells(t *testing.T) {
	g := bulldozableGrid(8, 8)
	g.SetRaw(3, 3, uint16(tiles.Roads)) // road, no BullBit needed to survive
	g.SetRaw(5, 5, uint16(tiles.Nuclear)|tiles.ZoneFlags&^tiles.BullBit)
	p := NewPlacer(g, fixedDice{roll: 0}, testLogger())

	if !p.ZonePlop(4, 4, tiles.ComClr) {
		t.Fatalf("Expected placement to succeed despite protected neighbors")
	}

	if got := g.TileID(3, 3); got != tiles.Roads {
		t.Errorf("Expected road preserved, got %d", got)
	}
	if got := g.TileID(5, 5); got != tiles.Nuclear {
		t.Errorf("Expected non-bulldozable cell preserved, got %d", got)
	}
	if got := g.TileID(4, 3); got != tiles.ComClr+tiles.ClusterStride {
		t.Errorf("Expected writable neighbor rebuilt, got %d", got)
	}
}

func TestZonePlopCenterPreconditions(t *testing.T) {
	g := bulldozableGrid(8, 8)
	p := NewPlacer(g, fixedDice{roll: 0}, testLogger())

	if p.ZonePlop(-1, 4, tiles.RZB) {
		t.Errorf("Expected out-of-bounds placement to fail")
	}

	g.SetRaw(4, 4, uint16(tiles.Dirt)) // no BullBit
	if p.ZonePlop(4, 4, tiles.RZB) {
		t.Errorf("Expected placement on a protected center to fail")
	}

	g.SetRaw(4, 4, uint16(tiles.Dirt)|tiles.BullBit)
	if p.ZonePlop(4, 4, tiles.Rubble) {
		t.Errorf("Expected placement with a non-zone base to fail")
	}
}

func TestPlopAtEdgeIsPartial(t *testing.T) {
	g := bulldozableGrid(8, 8)
	p := NewPlacer(g, fixedDice{roll: 0}, testLogger())

	if !p.IndPlop(0, 0, 0, 0) {
		t.Fatalf("Expected corner placement to succeed")
	}
	if got := g.TileID(0, 0); got != tiles.IZB {
		t.Errorf("Expected center id %d, got %d", tiles.IZB, got)
	}
	if got := g.TileID(1, 1); got != tiles.IZB+tiles.ClusterStride {
		t.Errorf("Expected in-bounds neighbor written, got %d", got)
	}
}

func TestPlopRejectsInvalidCombination(t *testing.T) {
	g := bulldozableGrid(8, 8)
	p := NewPlacer(g, fixedDice{roll: 0}, testLogger())

	// Density 5 is outside the residential encoding.
	if p.ResPlop(4, 4, 5, 2) {
		t.Errorf("Expected out-of-range density to be rejected")
	}
	if got := g.TileID(4, 4); got != tiles.Dirt {
		t.Errorf("Expected grid untouched after rejected plop, got %d", got)
	}
}
