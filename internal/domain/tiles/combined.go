package tiles

import "fmt"

// Combined is a validated density/value encoding for a growable zone center.
// The center tile of a residential, commercial or industrial zone encodes
//
//	index = valueTier*multiplier + density
//	tileID = index*ClusterStride + kindCenterBase
//
// so that (tileID - kindCenterBase) % ClusterStride == 0 holds for every
// valid center. Construction rejects any combination that would encode a
// tile outside the kind's range, which keeps invalid centers unrepresentable.
type Combined struct {
	kind    Kind
	value   int
	density int
}

// Per-kind encoding parameters.
type codec struct {
	multiplier int
	centerBase int
	rangeLo    int // inclusive
	rangeHi    int // exclusive
}

var codecs = map[Kind]codec{
	// Residential centers stop short of the hospital sub-range even though
	// the arithmetic could reach into it.
	KindResidential: {multiplier: 4, centerBase: RZB, rangeLo: ResBase, rangeHi: HospitalBase},
	KindCommercial:  {multiplier: 5, centerBase: CZB, rangeLo: ComBase, rangeHi: IndBase},
	KindIndustrial:  {multiplier: 4, centerBase: IZB, rangeLo: IndBase, rangeHi: PortBase},
}

// NewCombined builds a validated center encoding for the given kind.
// The value tier is clamped to 0..3. Residential densities are accepted in
// -4..4 (negative densities are normal for low-population zones); other
// kinds are bounded by the range check on the encoded tile alone.
func NewCombined(kind Kind, value, density int) (Combined, error) {
	c, ok := codecs[kind]
	if !ok {
		return Combined{}, fmt.Errorf("tiles: kind %s has no center encoding", kind)
	}
	if kind == KindResidential && (density < -4 || density > 4) {
		return Combined{}, fmt.Errorf("tiles: density %d out of range for %s", density, kind)
	}
	if value < 0 {
		value = 0
	}
	if value > 3 {
		value = 3
	}
	cb := Combined{kind: kind, value: value, density: density}
	id := cb.TileID()
	if id < c.rangeLo || id >= c.rangeHi {
		return Combined{}, fmt.Errorf("tiles: %s center %d out of range [%d,%d)", kind, id, c.rangeLo, c.rangeHi)
	}
	return cb, nil
}

// DecodeCenter recovers the combined encoding from an existing center tile.
// It fails when the tile does not satisfy the kind's structural invariant,
// which indicates upstream corruption rather than a recoverable state.
func DecodeCenter(kind Kind, id int) (Combined, error) {
	c, ok := codecs[kind]
	if !ok {
		return Combined{}, fmt.Errorf("tiles: kind %s has no center encoding", kind)
	}
	if id < c.rangeLo || id >= c.rangeHi {
		return Combined{}, fmt.Errorf("tiles: tile %d outside %s range", id, kind)
	}
	offset := id - c.centerBase
	if offset%ClusterStride != 0 {
		return Combined{}, fmt.Errorf("tiles: tile %d is not a valid %s center", id, kind)
	}
	index := offset / ClusterStride
	value := 0
	density := index
	// Recover the largest value tier that keeps density within -4..4.
	for value < 3 && density > 4 {
		value++
		density = index - value*c.multiplier
	}
	if density < -4 || density > 4 {
		return Combined{}, fmt.Errorf("tiles: tile %d decodes to density %d for %s", id, density, kind)
	}
	return Combined{kind: kind, value: value, density: density}, nil
}

// Index is the combined density/value index driving growth and decline.
func (cb Combined) Index() int {
	return cb.value*codecs[cb.kind].multiplier + cb.density
}

// TileID is the center tile atlas index the encoding maps to.
func (cb Combined) TileID() int {
	return cb.Index()*ClusterStride + codecs[cb.kind].centerBase
}

// Value returns the land-value tier component.
func (cb Combined) Value() int { return cb.value }

// Density returns the density component.
func (cb Combined) Density() int { return cb.density }

// Kind returns the zone kind the encoding belongs to.
func (cb Combined) Kind() Kind { return cb.kind }

// Decrement steps the combined index down by one, re-validating the result.
// The second return is false when the zone is already at its minimum index;
// decline treats that as a no-op. The decoded index after a successful
// decrement is always strictly less than before.
func (cb Combined) Decrement() (Combined, bool) {
	index := cb.Index()
	if index <= 0 {
		return cb, false
	}
	c := codecs[cb.kind]
	next := index - 1
	id := next*ClusterStride + c.centerBase
	if id < c.rangeLo || id >= c.rangeHi {
		return cb, false
	}
	dec, err := DecodeCenter(cb.kind, id)
	if err != nil {
		return cb, false
	}
	return dec, true
}
