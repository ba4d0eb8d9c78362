// Package census holds the citywide population accumulators fed by the zone
// simulation. The counters are plain fields on an explicit state object owned
// by the tick driver; window resets are explicit methods, never implicit
// side effects of a handler.
package census

// Counters accumulates zone populations within a tick window.
//
// Residential/Commercial/Industrial/Nuclear feed the citywide census and are
// incremented by every processed zone tile. The *Window counters are the
// traffic-weighted accumulators that gate growth decisions; growth and
// decline read the previous window total as a snapshot before the current
// tile contributes.
type Counters struct {
	Residential int
	Commercial  int
	Industrial  int
	Nuclear     int

	ResWindow int
	ComWindow int
	IndWindow int
}

// Snapshot is an immutable copy of the citywide totals.
type Snapshot struct {
	Residential int `json:"residential"`
	Commercial  int `json:"commercial"`
	Industrial  int `json:"industrial"`
	Nuclear     int `json:"nuclear"`
}

// New returns zeroed counters.
func New() *Counters {
	return &Counters{}
}

// AddResidential adds a processed residential zone's population to the census.
func (c *Counters) AddResidential(pop int) { c.Residential += pop }

// AddCommercial adds a processed commercial zone's population to the census.
func (c *Counters) AddCommercial(pop int) { c.Commercial += pop }

// AddIndustrial adds a processed industrial zone's population to the census.
func (c *Counters) AddIndustrial(pop int) { c.Industrial += pop }

// AddNuclear records one processed nuclear plant.
func (c *Counters) AddNuclear() { c.Nuclear++ }

// ResetResWindow zeroes the residential window accumulator at the end of a
// cadence window so each window is a fresh measurement.
func (c *Counters) ResetResWindow() { c.ResWindow = 0 }

// ResetComWindow zeroes the commercial window accumulator.
func (c *Counters) ResetComWindow() { c.ComWindow = 0 }

// ResetIndWindow zeroes the industrial window accumulator.
func (c *Counters) ResetIndWindow() { c.IndWindow = 0 }

// ResetCensus zeroes the citywide totals. The census taker calls this once
// per census period after publishing the totals.
func (c *Counters) ResetCensus() {
	c.Residential = 0
	c.Commercial = 0
	c.Industrial = 0
	c.Nuclear = 0
}

// Snapshot copies the citywide totals.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Residential: c.Residential,
		Commercial:  c.Commercial,
		Industrial:  c.Industrial,
		Nuclear:     c.Nuclear,
	}
}
