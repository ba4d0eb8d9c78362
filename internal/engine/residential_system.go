package engine

import (
	"github.com/oakhurst-games/microcity/server/internal/domain/census"
	"github.com/oakhurst-games/microcity/server/internal/domain/tiles"
	"github.com/oakhurst-games/microcity/server/internal/events"
	"github.com/oakhurst-games/microcity/server/internal/platform/logger"
	"github.com/oakhurst-games/microcity/server/internal/platform/metrics"
)

// growthCadenceMask gates growth/decline re-evaluation to every 8th tick.
const growthCadenceMask = 7

// unpoweredPenalty is the decline score substituted when a zone loses power.
const unpoweredPenalty = -500

// ResidentialSystem runs the growth/decline state machine for residential
// zone centers.
type ResidentialSystem struct {
	grid   *Grid
	fields *Fields
	pop    *PopModel
	eval   *Evaluator
	placer *Placer
	census *census.Counters
	collab Collaborators
	dice   Dice
	log    *logger.Logger
	events *events.EventLog
}

// NewResidentialSystem wires the residential handler.
func NewResidentialSystem(grid *Grid, fields *Fields, pop *PopModel, eval *Evaluator, placer *Placer, counters *census.Counters, collab Collaborators, dice Dice, log *logger.Logger, eventLog *events.EventLog) *ResidentialSystem {
	return &ResidentialSystem{
		grid:   grid,
		fields: fields,
		pop:    pop,
		eval:   eval,
		placer: placer,
		census: counters,
		collab: collab,
		dice:   dice,
		log:    log,
		events: eventLog,
	}
}

// Process handles one residential zone center for the given tick.
func (s *ResidentialSystem) Process(x, y int, tick int64) {
	cell := s.grid.TileAt(x, y)
	if !tiles.IsZoneCenter(cell) {
		return
	}
	powered := tiles.IsPowered(cell)
	id := tiles.ID(cell)

	// Previous window total, snapshotted before this tile contributes.
	windowPop := s.census.ResWindow

	pop := s.pop.Residential(id)
	if pop == 0 && powered {
		// A powered empty zone still counts as minimally occupied.
		pop = 1
	}
	s.census.AddResidential(pop)

	traf := 1
	if pop > 0 && tick&growthCadenceMask == 0 {
		outcome := s.collab.makeTraffic(tiles.KindResidential)
		if outcome > 0 {
			s.census.ResWindow += pop
		} else if outcome < 0 {
			traf = -1
		}
	}

	if tick&growthCadenceMask == 0 {
		if !powered {
			// Unpowered residential declines unconditionally.
			s.decline(windowPop, unpoweredPenalty, x, y, tick)
		} else {
			score := s.eval.EvalRes(traf, x, y)
			if score > 0 {
				s.grow(windowPop, s.eval.CRVal(x, y), x, y, tick)
			} else if score < 0 {
				s.decline(windowPop, score, x, y, tick)
			}
		}
	}
}

// grow implements residential build-out and in-place density upgrades.
func (s *ResidentialSystem) grow(pop, value, x, y int, tick int64) {
	if s.fields.PollutionAt(x, y) > 128 {
		return
	}

	id := s.grid.TileID(x, y)
	if tiles.Classify(id) != tiles.KindResidential {
		// Hospitals and churches share the residential range; never
		// rewrite them.
		s.log.Debug("residential: skipping non-residential center %d at %d,%d", id, x, y)
		return
	}

	// Undeveloped and minimum-pattern centers with almost no occupants
	// try to spread into neighboring lots instead of upgrading in place.
	if pop < 8 && (id == tiles.FreeZ || id == tiles.RZB) {
		s.buildHouse(x, y, value, tick)
		return
	}

	if id == tiles.FreeZ {
		if s.fields.PopDensityAt(x, y) > 64 {
			// Dense undeveloped center upgrades to a proper zoned pattern.
			if s.placer.ResPlop(x, y, 0, value) {
				s.emitTransition(events.EventTypeZoneGrowth, x, y, id, s.grid.TileID(x, y), "freez-upgrade", tick)
				metrics.Get().RecordGrowth()
			}
		}
		return
	}

	if pop < 40 {
		density := (pop / 8) - 1
		if s.placer.ResPlop(x, y, density, value) {
			s.emitTransition(events.EventTypeZoneGrowth, x, y, id, s.grid.TileID(x, y), "density-upgrade", tick)
			metrics.Get().RecordGrowth()
		}
	}
}

// decline steps the zone down one combined index, or ruins it outright.
func (s *ResidentialSystem) decline(pop, value, x, y int, tick int64) {
	cell := s.grid.TileAt(x, y)
	if !tiles.IsZoneCenter(cell) {
		return
	}
	id := tiles.ID(cell)

	cb, err := tiles.DecodeCenter(tiles.KindResidential, id)
	if err != nil {
		// Structural invariant violation: upstream corruption. Log and
		// abort without mutating state.
		s.log.Debug("residential: decline on invalid center %d at %d,%d: %v", id, x, y, err)
		return
	}

	if cb.Index() > 0 {
		if pop > 16 {
			// High population forces a one-step decline.
			s.stepDown(cb, x, y, tick)
		} else if s.dice.Intn(4) == 0 {
			// Low population decays gradually.
			s.stepDown(cb, x, y, tick)
		}
		return
	}

	// Already at the minimum pattern: very low value, empty, and two coin
	// flips against it means complete ruin.
	if value < 30 && pop == 0 && s.dice.Intn(4) == 0 {
		if s.dice.Intn(2) == 0 {
			s.grid.SetTile(x, y, tiles.Rubble, tiles.BullBit, "res-ruin")
			s.emitTransition(events.EventTypeZoneRuined, x, y, id, tiles.Rubble, "ruined", tick)
			metrics.Get().RecordRuin()
		}
	}
}

func (s *ResidentialSystem) stepDown(cb tiles.Combined, x, y int, tick int64) {
	next, ok := cb.Decrement()
	if !ok {
		return
	}
	from := cb.TileID()
	to := next.TileID()
	s.grid.SetTile(x, y, uint16(to), tiles.ZoneFlags, "res-decline")
	s.emitTransition(events.EventTypeZoneDecline, x, y, from, to, "decline", tick)
	metrics.Get().RecordDecline()
}

// buildHouse searches the 8 neighboring cells for the best vacant lot.
// Establishing the house is bookkeeping only: the winning lot is recorded,
// never committed to the grid, matching the simulation this was ported from.
func (s *ResidentialSystem) buildHouse(x, y, value int, tick int64) {
	best := 0
	bestX, bestY := -1, -1

	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			score := s.evalLot(x+dx, y+dy)
			if score > best {
				best = score
				bestX, bestY = x+dx, y+dy
			}
		}
	}

	if best > 0 {
		s.log.Debug("residential: house lot scored %d at %d,%d (value %d)", best, bestX, bestY, value)
		if s.events != nil {
			s.events.Append(events.SimEvent{
				Type: events.EventTypeHouseLot,
				X:    bestX,
				Y:    bestY,
				Tick: tick,
			})
		}
		metrics.Get().RecordHouseLot()
	}
}

// evalLot scores a candidate house lot: -1 out of bounds, 0 occupied,
// 1 buildable dirt.
func (s *ResidentialSystem) evalLot(x, y int) int {
	if !s.grid.InBounds(x, y) {
		return -1
	}
	id := s.grid.TileID(x, y)
	if id >= tiles.ResBase && id <= tiles.ResBase+8 {
		return 0
	}
	if id != tiles.Dirt {
		return 0
	}
	return 1
}

func (s *ResidentialSystem) emitTransition(t events.EventType, x, y, from, to int, reason string, tick int64) {
	if s.events == nil {
		return
	}
	s.events.Append(events.SimEvent{
		Type: t,
		X:    x,
		Y:    y,
		Payload: events.ZoneTransitionPayload{
			Kind:     tiles.KindResidential.String(),
			FromTile: from,
			ToTile:   to,
			Reason:   reason,
		},
		Tick: tick,
	})
}
