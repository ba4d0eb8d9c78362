package engine

import (
	"github.com/oakhurst-games/microcity/server/internal/domain/census"
	"github.com/oakhurst-games/microcity/server/internal/domain/tiles"
	"github.com/oakhurst-games/microcity/server/internal/events"
	"github.com/oakhurst-games/microcity/server/internal/platform/logger"
	"github.com/oakhurst-games/microcity/server/internal/platform/metrics"
	"github.com/oakhurst-games/microcity/server/internal/platform/tuning"
)

// Cadence masks for the slower zone families.
const (
	civicCadenceMask   = 3
	specialCadenceMask = 15
)

// Hospital and church census contributions; halved without power.
const (
	hospitalPop = 30
	churchPop   = 10
)

// stadiumComPop is the fixed commercial census contribution of a stadium.
const stadiumComPop = 50

// ServicesSystem handles hospitals, churches and the special zones: power
// plants, police and fire stations, stadiums, ports and airports.
type ServicesSystem struct {
	grid   *Grid
	fields *Fields
	census *census.Counters
	collab Collaborators
	dice   Dice
	cfg    *tuning.Tuning
	log    *logger.Logger
	events *events.EventLog
}

// NewServicesSystem wires the civic/special zone handler.
func NewServicesSystem(grid *Grid, fields *Fields, counters *census.Counters, collab Collaborators, dice Dice, cfg *tuning.Tuning, log *logger.Logger, eventLog *events.EventLog) *ServicesSystem {
	return &ServicesSystem{
		grid:   grid,
		fields: fields,
		census: counters,
		collab: collab,
		dice:   dice,
		cfg:    cfg,
		log:    log,
		events: eventLog,
	}
}

// ProcessCivic handles one hospital or church center for the given tick.
func (s *ServicesSystem) ProcessCivic(x, y int, tick int64) {
	cell := s.grid.TileAt(x, y)
	if !tiles.IsZoneCenter(cell) {
		return
	}
	if tick&civicCadenceMask != 0 {
		return
	}
	powered := tiles.IsPowered(cell)

	switch tiles.ID(cell) {
	case tiles.Hospital:
		pop := hospitalPop
		if !powered {
			pop /= 2
		}
		s.census.AddResidential(pop)
		// Hospitals generate a trickle of industrial demand (supplies,
		// laundry, waste).
		if s.dice.Intn(20) < 10 {
			s.census.IndWindow++
		}
	case tiles.Church:
		pop := churchPop
		if !powered {
			pop /= 2
		}
		s.census.AddResidential(pop)
		if s.dice.Intn(20) < 10 {
			s.census.ResWindow++
		}
	}
}

// ProcessSpecial handles one special zone center for the given tick.
func (s *ServicesSystem) ProcessSpecial(x, y int, tick int64) {
	cell := s.grid.TileAt(x, y)
	if !tiles.IsZoneCenter(cell) {
		return
	}
	if tick&specialCadenceMask != 0 {
		return
	}
	powered := tiles.IsPowered(cell)

	switch tiles.ID(cell) {
	case tiles.CoalPlant:
		s.collab.triggerSmoke(x, y)

	case tiles.Stadium:
		// Reserved for future crowd effects around the stadium.
		cx := (x - 1) + s.dice.Intn(3)
		cy := (y - 1) + s.dice.Intn(3)
		s.log.Debug("stadium crowd focus at %d,%d", cx, cy)

		s.census.AddCommercial(stadiumComPop)
		if s.dice.Intn(5) == 1 {
			s.census.ComWindow++
		}

	case tiles.Nuclear:
		s.census.AddNuclear()
		s.checkMeltdown(x, y, tick)

	case tiles.PoliceSt:
		s.writeCoverage(x, y, powered, s.cfg.PoliceEffect, s.fields.WritePoliceCover, "police", tick)

	case tiles.FireStation:
		s.writeCoverage(x, y, powered, s.cfg.FireEffect, s.fields.WriteFireCover, "fire", tick)
	}
}

// checkMeltdown rolls the difficulty-scaled meltdown chance for a nuclear
// plant.
func (s *ServicesSystem) checkMeltdown(x, y int, tick int64) {
	if !s.cfg.DisastersEnabled {
		return
	}
	level := s.cfg.GameLevel
	if level < 0 || level >= len(s.cfg.MeltdownRisk) {
		return
	}
	if s.dice.Intn(s.cfg.MeltdownRisk[level]) != 0 {
		return
	}
	s.log.Warn("nuclear meltdown at %d,%d", x, y)
	s.collab.triggerMeltdown(x, y)
	if s.events != nil {
		s.events.Append(events.SimEvent{
			Type: events.EventTypeMeltdown,
			X:    x,
			Y:    y,
			Tick: tick,
		})
	}
	metrics.Get().RecordMeltdown()
}

// writeCoverage computes a station's effect, halved once without power and
// once more without road access, and stamps it into the quarter-resolution
// coverage field.
func (s *ServicesSystem) writeCoverage(x, y int, powered bool, effect int, write func(x, y, effect int) int, service string, tick int64) {
	if !powered {
		effect >>= 1
	}
	if !s.collab.hasRoadAccess(x, y) {
		effect >>= 1
	}
	effect = write(x, y, effect)
	if s.events != nil {
		s.events.Append(events.SimEvent{
			Type: events.EventTypeCoverageUpdate,
			X:    x,
			Y:    y,
			Payload: events.CoveragePayload{
				Service: service,
				Effect:  effect,
			},
			Tick: tick,
		})
	}
	metrics.Get().RecordCoverageWrite()
}
