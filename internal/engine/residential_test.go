package engine

import (
	"testing"

	"github.com/oakhurst-games/microcity/server/internal/domain/census"
	"github.com/oakhurst-games/microcity/server/internal/domain/tiles"
	"github.com/oakhurst-games/microcity/server/internal/events"
)

type resFixture struct {
	grid     *Grid
	fields   *Fields
	counters *census.Counters
	events   *events.EventLog
	sys      *ResidentialSystem
}

func newResFixture(dice Dice) *resFixture {
	grid := NewGrid(16, 16)
	fields := NewFields(16, 16)
	counters := census.New()
	eventLog := events.NewEventLog(nil)
	log := testLogger()
	eval := NewEvaluator(fields)
	sys := NewResidentialSystem(grid, fields, NewPopModel(), eval,
		NewPlacer(grid, dice, log), counters, Collaborators{}, dice, log, eventLog)
	return &resFixture{grid: grid, fields: fields, counters: counters, events: eventLog, sys: sys}
}

func (f *resFixture) setCenter(x, y, id int, powered bool) {
	cell := uint16(id) | tiles.ZoneFlags
	if powered {
		cell |= tiles.PowerBit
	}
	f.grid.SetRaw(x, y, cell)
}

func TestResidentialLowPopSearchesForHouseLot(t *testing.T) {
	f := newResFixture(fixedDice{roll: 0})
	f.setCenter(5, 5, tiles.RZB, true)
	f.fields.LandValue[2][2] = 100 // tier 2, positive growth score

	f.sys.Process(5, 5, 0)

	if got := f.grid.TileID(5, 5); got != tiles.RZB {
		t.Errorf("Expected center unchanged at %d, got %d", tiles.RZB, got)
	}
	lots := f.events.GetByType(events.EventTypeHouseLot)
	if len(lots) != 1 {
		t.Fatalf("Expected 1 house lot event, got %d", len(lots))
	}
	// All eight neighbors are dirt; the scan takes the first winner.
	if lots[0].X != 4 || lots[0].Y != 4 {
		t.Errorf("Expected lot at 4,4, got %d,%d", lots[0].X, lots[0].Y)
	}
}

func TestResidentialGrowthUpgradesDensity(t *testing.T) {
	f := newResFixture(fixedDice{roll: 0})
	f.setCenter(5, 5, tiles.RZB, true)
	f.fields.LandValue[2][2] = 100
	f.counters.ResWindow = 25 // window population in the upgrade band

	f.sys.Process(5, 5, 0)

	// density = 25/8 - 1 = 2, value tier 2 => index 2*4+2 = 10.
	want := tiles.RZB + 10*tiles.ClusterStride
	if got := f.grid.TileID(5, 5); got != want {
		t.Errorf("Expected upgraded center %d, got %d", want, got)
	}
	if len(f.events.GetByType(events.EventTypeZoneGrowth)) != 1 {
		t.Errorf("Expected a growth event")
	}
}

func TestResidentialDeclineStepsDownOneIndex(t *testing.T) {
	f := newResFixture(fixedDice{roll: 1}) // never rolls 0: only forced declines fire
	f.setCenter(5, 5, tiles.RZB+5*tiles.ClusterStride, true)
	f.counters.ResWindow = 50 // forces the step regardless of dice

	// Land value 0 scores -3000.
	f.sys.Process(5, 5, 0)

	want := tiles.RZB + 4*tiles.ClusterStride
	if got := f.grid.TileID(5, 5); got != want {
		t.Errorf("Expected decline to %d, got %d", want, got)
	}
	if len(f.events.GetByType(events.EventTypeZoneDecline)) != 1 {
		t.Errorf("Expected a decline event")
	}
}

func TestResidentialUnpoweredDeclinesDespiteHighLandValue(t *testing.T) {
	f := newResFixture(fixedDice{roll: 0})
	f.setCenter(5, 5, tiles.RZB+tiles.ClusterStride, false)
	f.fields.LandValue[2][2] = 200

	f.sys.Process(5, 5, 0)

	if got := f.grid.TileID(5, 5); got != tiles.RZB {
		t.Errorf("Expected unpowered center stepped down to %d, got %d", tiles.RZB, got)
	}
}

func TestResidentialRuinAtMinimumPattern(t *testing.T) {
	f := newResFixture(fixedDice{roll: 0}) // both ruin rolls come up
	f.setCenter(5, 5, tiles.RZB, false)

	f.sys.Process(5, 5, 0)

	cell := f.grid.TileAt(5, 5)
	if tiles.ID(cell) != tiles.Rubble {
		t.Errorf("Expected rubble, got %d", tiles.ID(cell))
	}
	if tiles.IsZoneCenter(cell) {
		t.Errorf("Expected zone flag cleared on ruin")
	}
	if cell&tiles.BullBit == 0 {
		t.Errorf("Expected rubble to stay bulldozable")
	}
	if len(f.events.GetByType(events.EventTypeZoneRuined)) != 1 {
		t.Errorf("Expected a ruin event")
	}
}

func TestResidentialRuinNeedsBothRolls(t *testing.T) {
	f := newResFixture(&scriptedDice{rolls: []int{0, 1}}) // second flip fails
	f.setCenter(5, 5, tiles.RZB, false)

	f.sys.Process(5, 5, 0)

	if got := f.grid.TileID(5, 5); got != tiles.RZB {
		t.Errorf("Expected center to survive the failed coin flip, got %d", got)
	}
}

func TestResidentialSkipsOffCadenceTicks(t *testing.T) {
	f := newResFixture(fixedDice{roll: 0})
	f.setCenter(5, 5, tiles.RZB, false) // would ruin on a cadence tick

	f.sys.Process(5, 5, 3)

	if got := f.grid.TileID(5, 5); got != tiles.RZB {
		t.Errorf("Expected no transition off cadence, got %d", got)
	}
	if got := f.counters.Residential; got != 16 {
		t.Errorf("Expected census population 16 on every tick, got %d", got)
	}
}

func TestResidentialPollutionBlocksGrowth(t *testing.T) {
	f := newResFixture(fixedDice{roll: 0})
	f.setCenter(5, 5, tiles.RZB+tiles.ClusterStride, true)
	f.fields.LandValue[2][2] = 255
	f.fields.Pollution[2][2] = 130
	f.counters.ResWindow = 25

	f.sys.Process(5, 5, 0)

	if got := f.grid.TileID(5, 5); got != tiles.RZB+tiles.ClusterStride {
		t.Errorf("Expected polluted center unchanged, got %d", got)
	}
}

func TestResidentialNeverRewritesHospital(t *testing.T) {
	f := newResFixture(fixedDice{roll: 0})
	f.setCenter(5, 5, tiles.Hospital, true)
	f.fields.LandValue[2][2] = 100
	f.counters.ResWindow = 25

	f.sys.Process(5, 5, 0)

	if got := f.grid.TileID(5, 5); got != tiles.Hospital {
		t.Errorf("Expected hospital untouched, got %d", got)
	}
}

func TestResidentialPoweredEmptyCountsAsOne(t *testing.T) {
	f := newResFixture(fixedDice{roll: 1})
	f.setCenter(5, 5, tiles.FreeZ, true)

	f.sys.Process(5, 5, 1) // off cadence, census only

	if got := f.counters.Residential; got != 1 {
		t.Errorf("Expected minimal population 1, got %d", got)
	}
}
