// Package storage - reconstructor.go
// Rebuilds the city's growth history from the zone event ledger.
// This is the core of event sourcing: state = f(events).
package storage

import (
	"context"
	"fmt"
)

// Reconstructor rebuilds city history from the event log.
// This is used for:
// 1. Resuming a city after a restart
// 2. Auditing why a district grew or collapsed
// 3. Debugging tile corruption reports
type Reconstructor struct {
	eventRepo EventRepository
}

// NewReconstructor creates a new history reconstructor.
func NewReconstructor(eventRepo EventRepository) *Reconstructor {
	return &Reconstructor{eventRepo: eventRepo}
}

// KindHistory aggregates transitions for one zone kind.
type KindHistory struct {
	Kind     string `json:"kind"`
	Growth   int    `json:"growth"`
	Declines int    `json:"declines"`
	Ruins    int    `json:"ruins"`
}

// CityHistory is the reconstructed trajectory of the city over a tick range.
type CityHistory struct {
	FromTick  int64                  `json:"from_tick"`
	ToTick    int64                  `json:"to_tick"`
	ByKind    map[string]KindHistory `json:"by_kind"`
	Meltdowns int                    `json:"meltdowns"`
	HouseLots int                    `json:"house_lots"`
}

// TileTimeline is the ordered list of pattern changes at one map cell.
type TileTimeline struct {
	X       int              `json:"x"`
	Y       int              `json:"y"`
	Changes []TimelineChange `json:"changes"`
}

// TimelineChange is one step of a tile's history.
type TimelineChange struct {
	Tick     int64  `json:"tick"`
	Type     string `json:"type"`
	FromTile int    `json:"from_tile"`
	ToTile   int    `json:"to_tile"`
	Reason   string `json:"reason"`
}

// RebuildHistory aggregates zone transitions from sinceTick onward.
func (r *Reconstructor) RebuildHistory(ctx context.Context, sinceTick int64) (*CityHistory, error) {
	events, err := r.eventRepo.GetSinceTick(ctx, sinceTick)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}

	hist := &CityHistory{
		FromTick: sinceTick,
		ToTick:   sinceTick,
		ByKind:   make(map[string]KindHistory),
	}

	for _, e := range events {
		if e.Tick > hist.ToTick {
			hist.ToTick = e.Tick
		}

		switch e.EventType {
		case "ZONE_GROWTH", "ZONE_DECLINE", "ZONE_RUINED":
			kind := payloadString(e.Payload, "kind")
			kh := hist.ByKind[kind]
			kh.Kind = kind
			switch e.EventType {
			case "ZONE_GROWTH":
				kh.Growth++
			case "ZONE_DECLINE":
				kh.Declines++
			case "ZONE_RUINED":
				kh.Ruins++
			}
			hist.ByKind[kind] = kh
		case "MELTDOWN":
			hist.Meltdowns++
		case "HOUSE_LOT":
			hist.HouseLots++
		}
	}

	return hist, nil
}

// RebuildTile reconstructs the history of a single map cell.
func (r *Reconstructor) RebuildTile(ctx context.Context, x, y int) (*TileTimeline, error) {
	events, err := r.eventRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}

	tl := &TileTimeline{X: x, Y: y}
	for _, e := range events {
		if e.X != x || e.Y != y {
			continue
		}
		switch e.EventType {
		case "ZONE_GROWTH", "ZONE_DECLINE", "ZONE_RUINED":
			tl.Changes = append(tl.Changes, TimelineChange{
				Tick:     e.Tick,
				Type:     e.EventType,
				FromTile: payloadInt(e.Payload, "from_tile"),
				ToTile:   payloadInt(e.Payload, "to_tile"),
				Reason:   payloadString(e.Payload, "reason"),
			})
		}
	}
	return tl, nil
}

func payloadString(payload map[string]interface{}, key string) string {
	if v, ok := payload[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func payloadInt(payload map[string]interface{}, key string) int {
	if v, ok := payload[key]; ok {
		// JSON round-trips numbers as float64.
		if f, ok := v.(float64); ok {
			return int(f)
		}
	}
	return 0
}
