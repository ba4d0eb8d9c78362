package engine

import (
	"github.com/oakhurst-games/microcity/server/internal/domain/tiles"
)

// Population ceilings per zone kind. A decode producing a higher raw value
// is treated as failure and yields 0.
const (
	maxResPop = 1000
	maxComPop = 100
	maxIndPop = 50
)

// popCacheSize bounds the memoization window. Offsets outside the window are
// still computed correctly, just not cached.
const popCacheSize = 512

// PopModel derives zone populations from tile atlas indices. Results are
// memoized in fixed-capacity direct-mapped arrays keyed by the offset from
// ResBase; offsets are unique per tile index within a kind, so entries are
// written once and never evicted.
type PopModel struct {
	res [popCacheSize]int16
	com [popCacheSize]int16
	ind [popCacheSize]int16
}

// NewPopModel returns an empty model; caches populate lazily.
func NewPopModel() *PopModel {
	return &PopModel{}
}

// Residential returns the population of a residential center tile.
// Density decodes as ((id-RZB)/9)%4, population as density*8+16. The
// undeveloped center (FreeZ) sits below RZB and yields 0.
func (m *PopModel) Residential(id int) int {
	if id < tiles.ResBase || id > tiles.LastZone {
		return 0
	}

	index := id - tiles.ResBase
	if index >= 0 && index < popCacheSize && m.res[index] != 0 {
		return int(m.res[index])
	}

	// Guards the density decode against offsets outside the encoding.
	if id < tiles.RZB || id-tiles.RZB > popCacheSize {
		return 0
	}

	density := ((id - tiles.RZB) / tiles.ClusterStride) % 4
	result := density*8 + 16

	if result < 0 || result > maxResPop {
		return 0
	}

	if index >= 0 && index < popCacheSize {
		m.res[index] = int16(result)
	}
	return result
}

// Commercial returns the population of a commercial center tile.
// Density decodes as ((id-ComBase)/9)%5 + 1; the undeveloped center yields 0.
func (m *PopModel) Commercial(id int) int {
	if id < tiles.ComBase || id > tiles.LastZone {
		return 0
	}
	if id == tiles.ComClr {
		return 0
	}

	index := id - tiles.ResBase
	if index >= 0 && index < popCacheSize && m.com[index] != 0 {
		return int(m.com[index])
	}

	if id-tiles.ComBase > popCacheSize {
		return 0
	}

	density := ((id-tiles.ComBase)/tiles.ClusterStride)%5 + 1
	result := density

	if result < 0 || result > maxComPop {
		return 0
	}

	if index >= 0 && index < popCacheSize {
		m.com[index] = int16(result)
	}
	return result
}

// Industrial returns the population of an industrial center tile.
// Density decodes as ((id-IndBase)/9)%4 + 1; the undeveloped center yields 0.
func (m *PopModel) Industrial(id int) int {
	if id < tiles.IndBase || id > tiles.LastZone {
		return 0
	}
	if id == tiles.IndClr {
		return 0
	}

	index := id - tiles.ResBase
	if index >= 0 && index < popCacheSize && m.ind[index] != 0 {
		return int(m.ind[index])
	}

	if id-tiles.IndBase > popCacheSize {
		return 0
	}

	density := ((id-tiles.IndBase)/tiles.ClusterStride)%4 + 1
	result := density

	if result < 0 || result > maxIndPop {
		return 0
	}

	if index >= 0 && index < popCacheSize {
		m.ind[index] = int16(result)
	}
	return result
}
