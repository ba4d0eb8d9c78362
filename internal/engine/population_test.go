package engine

import (
	"testing"

	"github.com/oakhurst-games/microcity/server/internal/domain/tiles"
)

func TestResidentialPopulation(t *testing.T) {
	m := NewPopModel()

	cases := []struct {
		id   int
		want int
	}{
		{tiles.RZB, 16},
		{tiles.RZB + 9, 24},
		{tiles.RZB + 18, 32},
		{tiles.RZB + 27, 40},
		// Index 4 wraps the density component back to 0.
		{tiles.RZB + 36, 16},
		// Undeveloped center, bare dirt, and ids past the atlas all decode to 0.
		{tiles.FreeZ, 0},
		{tiles.Dirt, 0},
		{tiles.LastZone + 1, 0},
	}

	for _, c := range cases {
		if got := m.Residential(c.id); got != c.want {
			t.Errorf("Residential(%d) = %d, want %d", c.id, got, c.want)
		}
	}
}

func TestCommercialPopulation(t *testing.T) {
	m := NewPopModel()

	if got := m.Commercial(tiles.ComClr); got != 0 {
		t.Errorf("Commercial(ComClr) = %d, want 0", got)
	}
	if got := m.Commercial(tiles.ComBase); got != 1 {
		t.Errorf("Commercial(%d) = %d, want 1", tiles.ComBase, got)
	}
	if got := m.Commercial(tiles.ComBase + 4*9); got != 5 {
		t.Errorf("Commercial(%d) = %d, want 5", tiles.ComBase+4*9, got)
	}
	// The density component wraps at 5 steps.
	if got := m.Commercial(tiles.ComBase + 5*9); got != 1 {
		t.Errorf("Commercial(%d) = %d, want 1", tiles.ComBase+5*9, got)
	}
	if got := m.Commercial(tiles.ResBase); got != 0 {
		t.Errorf("Commercial(%d) = %d, want 0 for a residential tile", tiles.ResBase, got)
	}
}

func TestIndustrialPopulation(t *testing.T) {
	m := NewPopModel()

	if got := m.Industrial(tiles.IndClr); got != 0 {
		t.Errorf("Industrial(IndClr) = %d, want 0", got)
	}
	if got := m.Industrial(tiles.IndBase); got != 1 {
		t.Errorf("Industrial(%d) = %d, want 1", tiles.IndBase, got)
	}
	if got := m.Industrial(tiles.IndBase + 3*9); got != 4 {
		t.Errorf("Industrial(%d) = %d, want 4", tiles.IndBase+3*9, got)
	}
	if got := m.Industrial(tiles.IndBase + 4*9); got != 1 {
		t.Errorf("Industrial(%d) = %d, want 1 after density wrap", tiles.IndBase+4*9, got)
	}
}

func TestPopulationIdempotent(t *testing.T) {
	m := NewPopModel()

	first := m.Residential(tiles.RZB + 18)
	second := m.Residential(tiles.RZB + 18)
	if first != second {
		t.Errorf("Repeated decode diverged: %d then %d", first, second)
	}

	first = m.Commercial(tiles.CZB)
	second = m.Commercial(tiles.CZB)
	if first != second {
		t.Errorf("Repeated commercial decode diverged: %d then %d", first, second)
	}
}

func TestPopulationCeilings(t *testing.T) {
	m := NewPopModel()

	// Walk the whole atlas; no decode may exceed its kind's ceiling.
	for id := 0; id <= tiles.LastZone+10; id++ {
		if pop := m.Residential(id); pop > maxResPop {
			t.Errorf("Residential(%d) = %d exceeds ceiling %d", id, pop, maxResPop)
		}
		if pop := m.Commercial(id); pop > maxComPop {
			t.Errorf("Commercial(%d) = %d exceeds ceiling %d", id, pop, maxComPop)
		}
		if pop := m.Industrial(id); pop > maxIndPop {
			t.Errorf("Industrial(%d) = %d exceeds ceiling %d", id, pop, maxIndPop)
		}
	}
}
