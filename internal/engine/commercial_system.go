package engine

import (
	"github.com/oakhurst-games/microcity/server/internal/domain/census"
	"github.com/oakhurst-games/microcity/server/internal/domain/tiles"
	"github.com/oakhurst-games/microcity/server/internal/events"
	"github.com/oakhurst-games/microcity/server/internal/platform/logger"
	"github.com/oakhurst-games/microcity/server/internal/platform/metrics"
)

// declineChanceRange gives commercial and industrial zones a 1-in-8 chance
// of actually stepping down when a decline is due.
const declineChanceRange = 8

// CommercialSystem runs the growth/decline state machine for commercial
// zone centers.
type CommercialSystem struct {
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

// NewCommercialSystem wires the commercial handler.
func NewCommercialSystem(grid *Grid, fields *Fields, pop *PopModel, eval *Evaluator, placer *Placer, counters *census.Counters, collab Collaborators, dice Dice, log *logger.Logger, eventLog *events.EventLog) *CommercialSystem {
	return &CommercialSystem{
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

// Process handles one commercial zone center for the given tick.
func (s *CommercialSystem) Process(x, y int, tick int64) {
	cell := s.grid.TileAt(x, y)
	if !tiles.IsZoneCenter(cell) {
		return
	}
	powered := tiles.IsPowered(cell)
	id := tiles.ID(cell)

	windowPop := s.census.ComWindow

	pop := s.pop.Commercial(id)
	if pop == 0 && powered {
		pop = 1
	}
	s.census.AddCommercial(pop)

	traf := 1
	if pop > 0 && tick&growthCadenceMask == 0 {
		outcome := s.collab.makeTraffic(tiles.KindCommercial)
		if outcome > 0 {
			s.census.ComWindow += pop
		} else if outcome < 0 {
			traf = -1
		}
	}

	if tick&growthCadenceMask == 0 {
		if !powered {
			s.decline(x, y, tick)
		} else {
			score := s.eval.EvalCom(traf, x, y)
			if score > 0 {
				s.grow(windowPop, s.eval.CRVal(x, y), x, y, tick)
			} else if score < 0 {
				s.decline(x, y, tick)
			}
		}
	}
}

// grow upgrades the zone when the window population fits under the
// land-value ceiling.
func (s *CommercialSystem) grow(pop, value, x, y int, tick int64) {
	// Land value caps how much commerce a lot can support.
	if pop > s.fields.LandValueAt(x, y)>>5 {
		return
	}
	if pop >= 6 {
		return
	}
	from := s.grid.TileID(x, y)
	if s.placer.ComPlop(x, y, pop, value) {
		s.emitTransition(events.EventTypeZoneGrowth, x, y, from, s.grid.TileID(x, y), "density-upgrade", tick)
		metrics.Get().RecordGrowth()
	}
}

// decline steps the tile id down by one, drifting the center through the
// intermediate patterns of the commercial range. The empty zone pattern is
// the floor.
func (s *CommercialSystem) decline(x, y int, tick int64) {
	id := s.grid.TileID(x, y)
	base := id - tiles.ComBase
	if base <= 0 {
		return
	}
	if s.dice.Intn(declineChanceRange) != 0 {
		return
	}
	to := tiles.ComBase + base - 1
	s.grid.SetTile(x, y, uint16(to), tiles.ZoneFlags, "com-decline")
	s.emitTransition(events.EventTypeZoneDecline, x, y, id, to, "decline", tick)
	metrics.Get().RecordDecline()
}

func (s *CommercialSystem) emitTransition(t events.EventType, x, y, from, to int, reason string, tick int64) {
	if s.events == nil {
		return
	}
	s.events.Append(events.SimEvent{
		Type: t,
		X:    x,
		Y:    y,
		Payload: events.ZoneTransitionPayload{
			Kind:     tiles.KindCommercial.String(),
			FromTile: from,
			ToTile:   to,
			Reason:   reason,
		},
		Tick: tick,
	})
}
