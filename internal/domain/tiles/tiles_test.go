package tiles

import "testing"

func TestClassifyRanges(t *testing.T) {
	cases := []struct {
		id   int
		want Kind
	}{
		{Dirt, KindNone},
		{Rubble, KindNone},
		{ResBase - 1, KindNone},
		{ResBase, KindResidential},
		{FreeZ, KindResidential},
		{RZB, KindResidential},
		{HospitalBase - 1, KindResidential},
		{Hospital, KindHospital},
		{Church, KindChurch},
		{ComBase, KindCommercial},
		{CZB, KindCommercial},
		{IndBase - 1, KindCommercial},
		{IndBase, KindIndustrial},
		{IZB, KindIndustrial},
		{PortBase - 1, KindIndustrial},
		{Port, KindPort},
		{Airport, KindAirport},
		{CoalPlant, KindCoalPower},
		{FireStation, KindFireStation},
		{PoliceSt, KindPoliceStation},
		{Stadium, KindStadium},
		{Nuclear, KindNuclear},
		{LastZone, KindNuclear},
		{LastZone + 1, KindNone},
	}

	for _, c := range cases {
		if got := Classify(c.id); got != c.want {
			t.Errorf("Classify(%d) = %s, want %s", c.id, got, c.want)
		}
	}
}

func TestPackedCellHelpers(t *testing.T) {
	cell := uint16(RZB) | ZoneBit | PowerBit | CondBit

	if got := ID(cell); got != RZB {
		t.Errorf("ID() = %d, want %d", got, RZB)
	}
	if !IsZoneCenter(cell) {
		t.Error("Expected zone-center flag to be detected")
	}
	if !IsPowered(cell) {
		t.Error("Expected power flag to be detected")
	}

	plain := uint16(Dirt)
	if IsZoneCenter(plain) || IsPowered(plain) {
		t.Error("Dirt cell should carry no flags")
	}
}

func TestIsRoadOrRail(t *testing.T) {
	if !IsRoadOrRail(Roads) {
		t.Errorf("Expected tile %d to classify as road", Roads)
	}
	if !IsRoadOrRail(LastRail) {
		t.Errorf("Expected tile %d to classify as rail", LastRail)
	}
	if IsRoadOrRail(Dirt) {
		t.Error("Dirt should not classify as road or rail")
	}
	if IsRoadOrRail(ResBase) {
		t.Error("Residential base should not classify as road or rail")
	}
}
