// Package tiles defines the packed 16-bit tile encoding used by the map grid
// and the zone classification derived from it. The low 10 bits of a cell hold
// the tile atlas index; the high bits are per-cell flags.
package tiles

// Flag bits of a packed map cell.
const (
	PowerBit uint16 = 0x8000 // tile is connected to the power grid
	CondBit  uint16 = 0x4000 // tile conducts power
	BurnBit  uint16 = 0x2000 // tile can catch fire
	BullBit  uint16 = 0x1000 // tile can be bulldozed
	AnimBit  uint16 = 0x0800 // tile participates in map animation
	ZoneBit  uint16 = 0x0400 // tile is a zone center
	LoMask   uint16 = 0x03FF // tile atlas index

	// ZoneFlags are the flags asserted on every zone-center write.
	ZoneFlags = ZoneBit | CondBit | BurnBit | BullBit
)

// Tile atlas indices. The zone ranges are contiguous and ordered
// residential < commercial < industrial < port/special, with disjoint
// sub-ranges for each special kind.
const (
	Dirt   = 0
	Rubble = 44

	RoadBase = 64
	Roads    = 66
	LastRoad = 206
	RailBase = 224
	LastRail = 238

	ResBase = 240
	FreeZ   = 244 // undeveloped residential zone center
	House   = 249
	LhThr   = 249 // lowest free-house tile
	HhThr   = 260 // highest free-house tile
	RZB     = 265 // first developed residential zone center

	HospitalBase = 405
	Hospital     = 409
	ChurchBase   = 414
	Church       = 418

	ComBase = 423
	ComClr  = 427 // undeveloped commercial zone center
	CZB     = 436 // first developed commercial zone center

	IndBase = 612
	IndClr  = 616 // undeveloped industrial zone center
	IZB     = 625 // first developed industrial zone center

	PortBase    = 693
	Port        = 698
	AirportBase = 709
	Airport     = 716
	CoalBase    = 745
	CoalPlant   = 750
	FireStBase  = 761
	FireStation = 765
	PoliceBase  = 770
	PoliceSt    = 774
	StadiumBase = 779
	Stadium     = 784
	FullStBase  = 800
	NuclearBase = 811
	Nuclear     = 816
	LastZone    = 826
)

// ClusterStride is the atlas distance between adjacent zone-center encodings
// of the same kind; each 3x3 cluster occupies one stride of consecutive tiles.
const ClusterStride = 9

// Kind is the zone kind tag produced once at classification time and passed
// through the call chain, so that a tile is never range-checked twice.
type Kind int

const (
	KindNone Kind = iota
	KindResidential
	KindCommercial
	KindIndustrial
	KindHospital
	KindChurch
	KindPort
	KindAirport
	KindCoalPower
	KindFireStation
	KindPoliceStation
	KindStadium
	KindNuclear
)

var kindNames = map[Kind]string{
	KindNone:          "none",
	KindResidential:   "residential",
	KindCommercial:    "commercial",
	KindIndustrial:    "industrial",
	KindHospital:      "hospital",
	KindChurch:        "church",
	KindPort:          "port",
	KindAirport:       "airport",
	KindCoalPower:     "coal_power",
	KindFireStation:   "fire_station",
	KindPoliceStation: "police_station",
	KindStadium:       "stadium",
	KindNuclear:       "nuclear",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Classify maps a bare tile atlas index (flags stripped) to its zone kind.
// Indices outside every zone range classify as KindNone.
func Classify(id int) Kind {
	switch {
	case id < ResBase || id > LastZone:
		return KindNone
	case id < HospitalBase:
		return KindResidential
	case id < ChurchBase:
		return KindHospital
	case id < ComBase:
		return KindChurch
	case id < IndBase:
		return KindCommercial
	case id < PortBase:
		return KindIndustrial
	case id < AirportBase:
		return KindPort
	case id < CoalBase:
		return KindAirport
	case id < FireStBase:
		return KindCoalPower
	case id < PoliceBase:
		return KindFireStation
	case id < StadiumBase:
		return KindPoliceStation
	case id < NuclearBase:
		return KindStadium
	default:
		return KindNuclear
	}
}

// ID strips the flag bits off a packed cell.
func ID(cell uint16) int { return int(cell & LoMask) }

// IsZoneCenter reports whether a packed cell carries the zone-center flag.
func IsZoneCenter(cell uint16) bool { return cell&ZoneBit != 0 }

// IsPowered reports whether a packed cell carries the power flag.
func IsPowered(cell uint16) bool { return cell&PowerBit != 0 }

// IsRoadOrRail reports whether a bare tile index belongs to the road or rail
// network. Zone placement never overwrites these.
func IsRoadOrRail(id int) bool { return id >= Roads && id <= LastRail }
