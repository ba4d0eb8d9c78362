package engine

import (
	"github.com/oakhurst-games/microcity/server/internal/domain/census"
	"github.com/oakhurst-games/microcity/server/internal/domain/tiles"
	"github.com/oakhurst-games/microcity/server/internal/events"
	"github.com/oakhurst-games/microcity/server/internal/platform/logger"
	"github.com/oakhurst-games/microcity/server/internal/platform/metrics"
)

// IndustrialSystem runs the growth/decline state machine for industrial
// zone centers.
type IndustrialSystem struct {
	grid   *Grid
	pop    *PopModel
	eval   *Evaluator
	placer *Placer
	census *census.Counters
	collab Collaborators
	dice   Dice
	log    *logger.Logger
	events *events.EventLog
}

// NewIndustrialSystem wires the industrial handler.
func NewIndustrialSystem(grid *Grid, pop *PopModel, eval *Evaluator, placer *Placer, counters *census.Counters, collab Collaborators, dice Dice, log *logger.Logger, eventLog *events.EventLog) *IndustrialSystem {
	return &IndustrialSystem{
		grid:   grid,
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

// Process handles one industrial zone center for the given tick.
func (s *IndustrialSystem) Process(x, y int, tick int64) {
	cell := s.grid.TileAt(x, y)
	if !tiles.IsZoneCenter(cell) {
		return
	}
	powered := tiles.IsPowered(cell)
	id := tiles.ID(cell)

	// The smoke signal fires for every industrial center; the animator
	// decides what an unpowered plant looks like.
	s.collab.triggerSmoke(x, y)

	windowPop := s.census.IndWindow

	pop := s.pop.Industrial(id)
	if pop == 0 && powered {
		pop = 1
	}
	s.census.AddIndustrial(pop)

	traf := 1
	if pop > 0 && tick&growthCadenceMask == 0 {
		outcome := s.collab.makeTraffic(tiles.KindIndustrial)
		if outcome > 0 {
			s.census.IndWindow += pop
		} else if outcome < 0 {
			traf = -1
		}
	}

	if tick&growthCadenceMask == 0 {
		if !powered {
			s.decline(x, y, tick)
		} else {
			// Industry has no land-value signal; it grows whenever
			// traffic routes and occupancy is below the ceiling.
			if s.eval.EvalInd(traf) < 0 {
				s.decline(x, y, tick)
			} else {
				s.grow(windowPop, x, y, tick)
			}
		}
	}
}

// grow upgrades low-occupancy industrial zones one density step.
func (s *IndustrialSystem) grow(pop, x, y int, tick int64) {
	if pop >= 4 {
		return
	}
	from := s.grid.TileID(x, y)
	if s.placer.IndPlop(x, y, pop, 0) {
		s.emitTransition(events.EventTypeZoneGrowth, x, y, from, s.grid.TileID(x, y), "density-upgrade", tick)
		metrics.Get().RecordGrowth()
	}
}

// decline steps the tile id down by one at a 1-in-8 chance, with the empty
// zone pattern as the floor.
func (s *IndustrialSystem) decline(x, y int, tick int64) {
	id := s.grid.TileID(x, y)
	base := id - tiles.IndBase
	if base <= 0 {
		return
	}
	if s.dice.Intn(declineChanceRange) != 0 {
		return
	}
	to := tiles.IndBase + base - 1
	s.grid.SetTile(x, y, uint16(to), tiles.ZoneFlags, "ind-decline")
	s.emitTransition(events.EventTypeZoneDecline, x, y, id, to, "decline", tick)
	metrics.Get().RecordDecline()
}

func (s *IndustrialSystem) emitTransition(t events.EventType, x, y, from, to int, reason string, tick int64) {
	if s.events == nil {
		return
	}
	s.events.Append(events.SimEvent{
		Type: t,
		X:    x,
		Y:    y,
		Payload: events.ZoneTransitionPayload{
			Kind:     tiles.KindIndustrial.String(),
			FromTile: from,
			ToTile:   to,
			Reason:   reason,
		},
		Tick: tick,
	})
}
