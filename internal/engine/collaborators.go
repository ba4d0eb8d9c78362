package engine

import (
	"github.com/oakhurst-games/microcity/server/internal/domain/tiles"
)

// Dice is the injected random source for every probabilistic transition.
// *math/rand.Rand satisfies it; tests substitute a scripted sequence for
// deterministic replay.
type Dice interface {
	Intn(n int) int
}

// TrafficRouter is the black-box traffic demand generator. MakeTraffic
// attempts to route a trip from a zone of the given origin kind; a positive
// outcome means a path was found, a negative outcome forces the zone into
// decline regardless of land value.
type TrafficRouter interface {
	MakeTraffic(origin tiles.Kind) int
}

// SmokeAnimator triggers the smoke/pollution animation collaborator.
type SmokeAnimator interface {
	TriggerSmoke(x, y int)
}

// MeltdownTrigger starts the meltdown disaster sub-simulation.
type MeltdownTrigger interface {
	TriggerMeltdown(x, y int)
}

// RoadProber answers whether a service station has connected road access.
type RoadProber interface {
	HasRoadAccess(x, y int) bool
}

// Collaborators bundles the external systems the zone simulation calls out
// to. Nil members degrade to neutral behaviour: traffic always routes, smoke
// and meltdowns are dropped, road access is assumed.
type Collaborators struct {
	Traffic   TrafficRouter
	Smoke     SmokeAnimator
	Disasters MeltdownTrigger
	Roads     RoadProber
}

func (c Collaborators) makeTraffic(origin tiles.Kind) int {
	if c.Traffic == nil {
		return 1
	}
	return c.Traffic.MakeTraffic(origin)
}

func (c Collaborators) triggerSmoke(x, y int) {
	if c.Smoke != nil {
		c.Smoke.TriggerSmoke(x, y)
	}
}

func (c Collaborators) triggerMeltdown(x, y int) {
	if c.Disasters != nil {
		c.Disasters.TriggerMeltdown(x, y)
	}
}

func (c Collaborators) hasRoadAccess(x, y int) bool {
	if c.Roads == nil {
		return true
	}
	return c.Roads.HasRoadAccess(x, y)
}
