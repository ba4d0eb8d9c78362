package engine

import (
	"github.com/oakhurst-games/microcity/server/internal/domain/tiles"
	"github.com/oakhurst-games/microcity/server/internal/platform/metrics"
)

// Dispatcher routes each zone center to the system that owns its kind.
// Classification happens exactly once per visit; the kind tag travels with
// the call from there on.
type Dispatcher struct {
	res      *ResidentialSystem
	com      *CommercialSystem
	ind      *IndustrialSystem
	services *ServicesSystem
}

// NewDispatcher bundles the per-kind systems behind a single entry point.
func NewDispatcher(res *ResidentialSystem, com *CommercialSystem, ind *IndustrialSystem, services *ServicesSystem) *Dispatcher {
	return &Dispatcher{res: res, com: com, ind: ind, services: services}
}

// Dispatch processes a single zone center. Cells without the zone-center
// flag and tiles outside every zone range are ignored.
func (d *Dispatcher) Dispatch(x, y int, cell uint16, tick int64) {
	if !tiles.IsZoneCenter(cell) {
		return
	}
	kind := tiles.Classify(tiles.ID(cell))
	if kind == tiles.KindNone {
		return
	}
	metrics.Get().RecordZone()

	switch kind {
	case tiles.KindResidential:
		d.res.Process(x, y, tick)
	case tiles.KindCommercial:
		d.com.Process(x, y, tick)
	case tiles.KindIndustrial:
		d.ind.Process(x, y, tick)
	case tiles.KindHospital, tiles.KindChurch:
		d.services.ProcessCivic(x, y, tick)
	default:
		d.services.ProcessSpecial(x, y, tick)
	}
}
