package engine

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/oakhurst-games/microcity/server/internal/domain/census"
	"github.com/oakhurst-games/microcity/server/internal/events"
	"github.com/oakhurst-games/microcity/server/internal/platform/logger"
	"github.com/oakhurst-games/microcity/server/internal/platform/metrics"
	"github.com/oakhurst-games/microcity/server/internal/platform/tuning"
)

// ticksPerYear is the length of the in-game calendar; four ticks make a
// month, 48 a year.
const (
	ticksPerMonth = 4
	ticksPerYear  = 48
)

// Engine is the central orchestrator: it owns the map grid, the ambient
// fields, the census counters and the per-kind zone systems, and advances
// them one synchronous step at a time.
type Engine struct {
	mu sync.Mutex

	grid   *Grid
	fields *Fields
	census *census.Counters

	dispatcher *Dispatcher

	cityTime int64

	eventLog *events.EventLog
	logger   *logger.Logger
	cfg      *tuning.Tuning

	lastCensus census.Snapshot
}

// NewEngine builds the full system graph on top of the given grid and
// fields. A nil dice falls back to a seeded source from the tuning config.
func NewEngine(cfg *tuning.Tuning, grid *Grid, fields *Fields, collab Collaborators, dice Dice, eventLog *events.EventLog, log *logger.Logger) *Engine {
	if dice == nil {
		seed := cfg.RandomSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		dice = rand.New(rand.NewSource(seed))
	}

	counters := census.New()
	pop := NewPopModel()
	eval := NewEvaluator(fields)
	placer := NewPlacer(grid, dice, log)

	res := NewResidentialSystem(grid, fields, pop, eval, placer, counters, collab, dice, log, eventLog)
	com := NewCommercialSystem(grid, fields, pop, eval, placer, counters, collab, dice, log, eventLog)
	ind := NewIndustrialSystem(grid, pop, eval, placer, counters, collab, dice, log, eventLog)
	services := NewServicesSystem(grid, fields, counters, collab, dice, cfg, log, eventLog)

	return &Engine{
		grid:       grid,
		fields:     fields,
		census:     counters,
		dispatcher: NewDispatcher(res, com, ind, services),
		eventLog:   eventLog,
		logger:     log,
		cfg:        cfg,
	}
}

// Step advances the simulation one tick: a full north-to-south scan of the
// map, dispatching every zone center, then the calendar bump and the tick
// event. Returns the census totals accumulated during the pass.
func (e *Engine) Step() census.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	tick := e.cityTime

	// Totals are rebuilt from scratch each pass; the 8-tick window
	// counters survive across passes and reset on their own cadence.
	e.census.ResetCensus()

	e.grid.EachZoneCenter(func(x, y int, cell uint16) {
		e.dispatcher.Dispatch(x, y, cell, tick)
	})

	// The growth windows close with the cadence tick: zones processed in
	// this pass read the total accumulated since the previous window, each
	// before its own contribution. Civic nudges between cadence ticks land
	// in the next window.
	if tick&growthCadenceMask == 0 {
		e.census.ResetResWindow()
		e.census.ResetComWindow()
		e.census.ResetIndWindow()
	}

	e.lastCensus = e.census.Snapshot()
	e.cityTime++

	if e.eventLog != nil {
		e.eventLog.Append(events.SimEvent{
			Type: events.EventTypeTimeTick,
			Payload: events.TimeTickPayload{
				Tick:      tick,
				CityMonth: int((tick % ticksPerYear) / ticksPerMonth),
				Census:    e.lastCensus,
			},
			Tick:      tick,
			CityMonth: int((tick % ticksPerYear) / ticksPerMonth),
		})
	}

	return e.lastCensus
}

// Tick returns the number of completed steps.
func (e *Engine) Tick() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cityTime
}

// CityMonth returns the in-game month (0-11) of the current tick.
func (e *Engine) CityMonth() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return int((e.cityTime % ticksPerYear) / ticksPerMonth)
}

// SetTime lets bootstrap code fast-forward the clock, e.g. when resuming
// from a persisted snapshot.
func (e *Engine) SetTime(tick int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cityTime = tick
}

// Grid exposes the map grid for bootstrap and tests. The simulation loop
// mutates it once Run starts; concurrent readers must go through CopyCells
// or TileAt instead.
func (e *Engine) Grid() *Grid { return e.grid }

// CopyCells returns a copy of the map cells taken under the engine lock.
// Safe to call while the simulation loop is running; the copy is the
// caller's to keep.
func (e *Engine) CopyCells() []uint16 {
	e.mu.Lock()
	defer e.mu.Unlock()
	cells := e.grid.Cells()
	out := make([]uint16, len(cells))
	copy(out, cells)
	return out
}

// TileAt reads one packed cell under the engine lock. The second return is
// false for out-of-bounds coordinates.
func (e *Engine) TileAt(x, y int) (uint16, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.grid.InBounds(x, y) {
		return 0, false
	}
	return e.grid.TileAt(x, y), true
}

// Fields exposes the ambient field maps.
func (e *Engine) Fields() *Fields { return e.fields }

// Census returns the totals of the most recent completed step.
func (e *Engine) Census() census.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastCensus
}

// Run advances the simulation in real time until the context is cancelled.
// Call in a goroutine. Each step is timed; slow steps are logged.
func (e *Engine) Run(ctx context.Context) {
	interval := time.Duration(e.cfg.TickMs) * time.Millisecond
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	e.logger.Info("simulation loop started (tick every %s)", interval)

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("simulation loop stopped")
			return
		case <-ticker.C:
			start := time.Now()
			snap := e.Step()
			d := time.Since(start)
			metrics.Get().RecordTick(d)
			if d > interval {
				e.logger.Warn("tick %d overran its budget: %s (res=%d com=%d ind=%d)",
					e.Tick()-1, d, snap.Residential, snap.Commercial, snap.Industrial)
			}
		}
	}
}
