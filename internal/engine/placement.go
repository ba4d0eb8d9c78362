package engine

import (
	"github.com/oakhurst-games/microcity/server/internal/domain/tiles"

	"github.com/oakhurst-games/microcity/server/internal/platform/logger"
)

// Placer writes a zone's 3x3 tile cluster from a computed center code.
type Placer struct {
	grid *Grid
	dice Dice
	log  *logger.Logger
}

// NewPlacer wires the placement component.
func NewPlacer(grid *Grid, dice Dice, log *logger.Logger) *Placer {
	return &Placer{grid: grid, dice: dice, log: log}
}

// ZonePlop writes a zone center at (x,y) and resynchronizes the eight
// surrounding cells. The center write asserts the zone-center, conductive,
// burnable and bulldozable flags; the power flag is left to the power scan.
// Neighbors that are out of bounds, road/rail, or not bulldozable are
// skipped without aborting the placement — partial success is normal next
// to roads and other zones. Returns false only when the center precondition
// fails or the base code is invalid.
func (p *Placer) ZonePlop(x, y, base int) bool {
	if !p.grid.InBounds(x, y) {
		return false
	}
	if p.grid.TileAt(x, y)&tiles.BullBit == 0 {
		return false
	}
	if base < tiles.ResBase || base > tiles.LastZone {
		p.log.Debug("placement: invalid zone base %d at %d,%d", base, x, y)
		return false
	}

	p.grid.SetTile(x, y, uint16(base), tiles.ZoneFlags, "plop-center")

	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if !p.grid.InBounds(nx, ny) {
				continue
			}
			cell := p.grid.TileAt(nx, ny)
			if tiles.IsRoadOrRail(tiles.ID(cell)) {
				continue
			}
			if cell&tiles.BullBit == 0 {
				continue
			}

			neighbor := base + tiles.ClusterStride + p.dice.Intn(2)
			if neighbor < 0 || neighbor > tiles.LastZone {
				p.log.Debug("placement: neighbor %d out of atlas at %d,%d", neighbor, nx, ny)
				continue
			}
			p.grid.SetTile(nx, ny, uint16(neighbor), tiles.CondBit|tiles.BurnBit|tiles.BullBit, "plop-surround")
		}
	}

	return true
}

// ResPlop places a residential cluster for the given density and value tier.
func (p *Placer) ResPlop(x, y, density, value int) bool {
	cb, err := tiles.NewCombined(tiles.KindResidential, value, density)
	if err != nil {
		p.log.Debug("placement: %v at %d,%d", err, x, y)
		return false
	}
	return p.ZonePlop(x, y, cb.TileID())
}

// ComPlop places a commercial cluster.
func (p *Placer) ComPlop(x, y, density, value int) bool {
	cb, err := tiles.NewCombined(tiles.KindCommercial, value, density)
	if err != nil {
		p.log.Debug("placement: %v at %d,%d", err, x, y)
		return false
	}
	return p.ZonePlop(x, y, cb.TileID())
}

// IndPlop places an industrial cluster.
func (p *Placer) IndPlop(x, y, density, value int) bool {
	cb, err := tiles.NewCombined(tiles.KindIndustrial, value, density)
	if err != nil {
		p.log.Debug("placement: %v at %d,%d", err, x, y)
		return false
	}
	return p.ZonePlop(x, y, cb.TileID())
}
