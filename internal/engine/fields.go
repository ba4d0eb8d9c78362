package engine

// Fields bundles the externally maintained scalar fields the zone simulation
// reads, plus the two coverage grids it writes. Land value, pollution and
// population density are sampled at half map resolution; the commercial
// demand rate at eighth resolution; police and fire coverage at quarter
// resolution.
type Fields struct {
	LandValue  [][]int // half resolution, 0..255
	Pollution  [][]int // half resolution, 0..255
	PopDensity [][]int // half resolution, 0..255
	ComRate    [][]int // eighth resolution, signed demand score

	PoliceCover [][]int // quarter resolution, written by this core
	FireCover   [][]int // quarter resolution, written by this core
}

// CoverageMax caps a coverage cell; smoothing downstream assumes this bound.
const CoverageMax = 250

// NewFields allocates zeroed field arrays for a map of the given size.
func NewFields(width, height int) *Fields {
	return &Fields{
		LandValue:   newField(width/2+1, height/2+1),
		Pollution:   newField(width/2+1, height/2+1),
		PopDensity:  newField(width/2+1, height/2+1),
		ComRate:     newField(width/8+1, height/8+1),
		PoliceCover: newField(width/4+1, height/4+1),
		FireCover:   newField(width/4+1, height/4+1),
	}
}

func newField(w, h int) [][]int {
	f := make([][]int, h)
	for i := range f {
		f[i] = make([]int, w)
	}
	return f
}

// LandValueAt samples land value at the half-resolution cell containing (x,y).
func (f *Fields) LandValueAt(x, y int) int {
	return at(f.LandValue, x>>1, y>>1)
}

// PollutionAt samples pollution at the half-resolution cell containing (x,y).
func (f *Fields) PollutionAt(x, y int) int {
	return at(f.Pollution, x>>1, y>>1)
}

// PopDensityAt samples population density at the half-resolution cell
// containing (x,y).
func (f *Fields) PopDensityAt(x, y int) int {
	return at(f.PopDensity, x>>1, y>>1)
}

// ComRateAt samples the commercial demand rate at the eighth-resolution cell
// containing (x,y).
func (f *Fields) ComRateAt(x, y int) int {
	return at(f.ComRate, x>>3, y>>3)
}

// WritePoliceCover records a police station's effect at the quarter cell
// containing (x,y). A higher value already present (another station sharing
// the cell) wins; the stored value never exceeds CoverageMax.
func (f *Fields) WritePoliceCover(x, y, effect int) int {
	return writeClamped(f.PoliceCover, x>>2, y>>2, effect)
}

// WriteFireCover records a fire station's effect at the quarter cell
// containing (x,y), with the same precedence and clamp as police coverage.
func (f *Fields) WriteFireCover(x, y, effect int) int {
	return writeClamped(f.FireCover, x>>2, y>>2, effect)
}

// PoliceCoverAt reads back the quarter cell containing (x,y).
func (f *Fields) PoliceCoverAt(x, y int) int {
	return at(f.PoliceCover, x>>2, y>>2)
}

// FireCoverAt reads back the quarter cell containing (x,y).
func (f *Fields) FireCoverAt(x, y int) int {
	return at(f.FireCover, x>>2, y>>2)
}

func at(field [][]int, cx, cy int) int {
	if cy < 0 || cy >= len(field) || cx < 0 || cx >= len(field[cy]) {
		return 0
	}
	return field[cy][cx]
}

func writeClamped(field [][]int, cx, cy, effect int) int {
	if cy < 0 || cy >= len(field) || cx < 0 || cx >= len(field[cy]) {
		return 0
	}
	v := effect
	if field[cy][cx] > v {
		v = field[cy][cx]
	}
	if v > CoverageMax {
		v = CoverageMax
	}
	field[cy][cx] = v
	return v
}
