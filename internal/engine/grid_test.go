package engine

import (
	"testing"

	"github.com/oakhurst-games/microcity/server/internal/domain/tiles"
)

func TestGridSetTilePreservesPower(t *testing.T) {
	g := NewGrid(8, 8)
	g.SetRaw(3, 3, uint16(tiles.FreeZ)|tiles.ZoneFlags|tiles.PowerBit)

	g.SetTile(3, 3, uint16(tiles.RZB), tiles.ZoneFlags, "test")

	cell := g.TileAt(3, 3)
	if tiles.ID(cell) != tiles.RZB {
		t.Errorf("Expected tile id %d, got %d", tiles.RZB, tiles.ID(cell))
	}
	if cell&tiles.PowerBit == 0 {
		t.Errorf("Expected power flag preserved across SetTile")
	}

	// And an unpowered cell stays unpowered.
	g.SetRaw(4, 4, uint16(tiles.FreeZ)|tiles.ZoneFlags)
	g.SetTile(4, 4, uint16(tiles.RZB), tiles.ZoneFlags, "test")
	if g.TileAt(4, 4)&tiles.PowerBit != 0 {
		t.Errorf("Expected unpowered cell to stay unpowered")
	}
}

func TestGridOutOfBounds(t *testing.T) {
	g := NewGrid(4, 4)

	if g.InBounds(-1, 0) || g.InBounds(0, -1) || g.InBounds(4, 0) || g.InBounds(0, 4) {
		t.Errorf("Expected out-of-range coordinates to be out of bounds")
	}
	if got := g.TileAt(-1, 2); got != 0 {
		t.Errorf("Expected 0 for out-of-bounds read, got %d", got)
	}

	// Out-of-bounds writes must not panic and must not change anything.
	g.SetTile(9, 9, uint16(tiles.RZB), tiles.ZoneFlags, "test")
	g.SetRaw(-3, 1, 0xFFFF)
	for i, cell := range g.Cells() {
		if cell != 0 {
			t.Errorf("Expected cell %d untouched, got %04x", i, cell)
		}
	}
}

func TestEachZoneCenterScanOrder(t *testing.T) {
	g := NewGrid(6, 6)
	g.SetRaw(4, 1, uint16(tiles.FreeZ)|tiles.ZoneFlags)
	g.SetRaw(1, 1, uint16(tiles.ComClr)|tiles.ZoneFlags)
	g.SetRaw(2, 4, uint16(tiles.IndClr)|tiles.ZoneFlags)
	// A flagless tile with a zone-range id must not be visited.
	g.SetRaw(3, 3, uint16(tiles.RZB))

	var visited [][2]int
	g.EachZoneCenter(func(x, y int, cell uint16) {
		visited = append(visited, [2]int{x, y})
	})

	want := [][2]int{{1, 1}, {4, 1}, {2, 4}}
	if len(visited) != len(want) {
		t.Fatalf("Expected %d centers, got %d", len(want), len(visited))
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Errorf("Expected visit %d at %v, got %v", i, want[i], visited[i])
		}
	}
}
