package tiles

import "testing"

func TestCombinedEncodingInvariant(t *testing.T) {
	// Every constructible center must land on its kind's stride.
	bases := map[Kind]int{
		KindResidential: RZB,
		KindCommercial:  CZB,
		KindIndustrial:  IZB,
	}

	for kind, base := range bases {
		for value := 0; value <= 3; value++ {
			for density := -4; density <= 4; density++ {
				cb, err := NewCombined(kind, value, density)
				if err != nil {
					continue // out of the kind's tile range
				}
				if (cb.TileID()-base)%ClusterStride != 0 {
					t.Errorf("%s value=%d density=%d: tile %d violates stride invariant",
						kind, value, density, cb.TileID())
				}
			}
		}
	}
}

func TestCombinedRoundTrip(t *testing.T) {
	cb, err := NewCombined(KindResidential, 2, 1)
	if err != nil {
		t.Fatalf("NewCombined failed: %v", err)
	}
	if got := cb.Index(); got != 9 {
		t.Errorf("Index() = %d, want 9", got)
	}

	dec, err := DecodeCenter(KindResidential, cb.TileID())
	if err != nil {
		t.Fatalf("DecodeCenter(%d) failed: %v", cb.TileID(), err)
	}
	if dec.Index() != cb.Index() {
		t.Errorf("Decoded index %d, want %d", dec.Index(), cb.Index())
	}
	if dec.TileID() != cb.TileID() {
		t.Errorf("Decoded tile %d, want %d", dec.TileID(), cb.TileID())
	}
}

func TestResidentialDensityBounds(t *testing.T) {
	if _, err := NewCombined(KindResidential, 0, -5); err == nil {
		t.Error("Expected density -5 to be rejected")
	}
	if _, err := NewCombined(KindResidential, 0, 5); err == nil {
		t.Error("Expected density 5 to be rejected")
	}
	// Negative densities within range are normal for low-population zones.
	if _, err := NewCombined(KindResidential, 1, -1); err != nil {
		t.Errorf("Expected density -1 to be accepted, got %v", err)
	}
}

func TestResidentialCannotReachHospitalRange(t *testing.T) {
	// value 3, density 4 would encode index 16 = tile 409, the hospital.
	if _, err := NewCombined(KindResidential, 3, 4); err == nil {
		t.Error("Expected encoding into the hospital sub-range to be rejected")
	}
}

func TestDecodeCenterRejectsOffStride(t *testing.T) {
	if _, err := DecodeCenter(KindResidential, RZB+1); err == nil {
		t.Errorf("Expected tile %d to be rejected as a center", RZB+1)
	}
	// FreeZ sits below RZB and off the stride.
	if _, err := DecodeCenter(KindResidential, FreeZ); err == nil {
		t.Error("Expected the undeveloped center to be rejected by decode")
	}
}

func TestDecrementNeverPromotes(t *testing.T) {
	cb, err := NewCombined(KindResidential, 1, 1) // index 5
	if err != nil {
		t.Fatalf("NewCombined failed: %v", err)
	}

	prev := cb.Index()
	for {
		next, ok := cb.Decrement()
		if !ok {
			break
		}
		if next.Index() >= prev {
			t.Fatalf("Decrement went from index %d to %d", prev, next.Index())
		}
		prev = next.Index()
		cb = next
	}

	if cb.Index() != 0 {
		t.Errorf("Expected repeated decrement to reach index 0, got %d", cb.Index())
	}
	if _, ok := cb.Decrement(); ok {
		t.Error("Expected decrement at index 0 to be a no-op")
	}
}
