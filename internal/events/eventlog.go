// Package events provides the append-only audit log of the simulation.
// Zone transitions, disasters, and tick markers land here; the log is
// advisory and is never read back by the simulation core.
package events

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/oakhurst-games/microcity/server/internal/domain/census"
)

// EventType defines the category of a simulation event.
type EventType string

const (
	EventTypeTimeTick       EventType = "TIME_TICK"
	EventTypeZoneGrowth     EventType = "ZONE_GROWTH"
	EventTypeZoneDecline    EventType = "ZONE_DECLINE"
	EventTypeZoneRuined     EventType = "ZONE_RUINED"
	EventTypeHouseLot       EventType = "HOUSE_LOT"
	EventTypeMeltdown       EventType = "MELTDOWN"
	EventTypeCoverageUpdate EventType = "COVERAGE_UPDATE"
	EventTypeCensusWindow   EventType = "CENSUS_WINDOW"
)

// ZoneTransitionPayload describes a tile pattern change at a zone center.
type ZoneTransitionPayload struct {
	Kind     string `json:"kind"`
	FromTile int    `json:"from_tile"`
	ToTile   int    `json:"to_tile"`
	Reason   string `json:"reason"`
}

// CoveragePayload describes a police/fire coverage write.
type CoveragePayload struct {
	Service string `json:"service"`
	Effect  int    `json:"effect"`
}

// TimeTickPayload is the data attached to each tick marker event.
type TimeTickPayload struct {
	Tick      int64           `json:"tick"`
	CityMonth int             `json:"city_month"`
	Census    census.Snapshot `json:"census"`
}

// SimEvent represents an immutable record of a simulation occurrence.
type SimEvent struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Type      EventType   `json:"type"`
	X         int         `json:"x"`
	Y         int         `json:"y"`
	Payload   interface{} `json:"payload"`
	Tick      int64       `json:"tick"`
	CityMonth int         `json:"city_month"`
}

// EventPersister defines how an event is durably stored.
type EventPersister interface {
	Append(event SimEvent) error
}

// EventLog is the in-memory append-only log of simulation events.
// Durable storage (SQLite/Postgres) hangs off the persister.
type EventLog struct {
	mu        sync.RWMutex
	events    []SimEvent
	persister EventPersister
}

// NewEventLog creates a new event log with an optional persister.
func NewEventLog(persister EventPersister) *EventLog {
	return &EventLog{
		events:    make([]SimEvent, 0),
		persister: persister,
	}
}

// Append adds a new event to the log. Events are immutable once appended.
func (el *EventLog) Append(event SimEvent) {
	if event.ID == "" {
		event.ID = GenerateEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	el.mu.Lock()
	el.events = append(el.events, event)
	el.mu.Unlock()

	if el.persister != nil {
		// Write through to persistent storage. The sim loop must not block
		// on the ledger.
		go func(e SimEvent) {
			_ = el.persister.Append(e)
		}(event)
	}
}

// GetByType returns all events of a given type.
func (el *EventLog) GetByType(t EventType) []SimEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []SimEvent
	for _, e := range el.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// GetSinceTick returns all events from ticks >= tick.
func (el *EventLog) GetSinceTick(tick int64) []SimEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []SimEvent
	for _, e := range el.events {
		if e.Tick >= tick {
			result = append(result, e)
		}
	}
	return result
}

// Replay returns the full history of events for state reconstruction.
func (el *EventLog) Replay() []SimEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return el.events
}

// Len returns the number of appended events.
func (el *EventLog) Len() int {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return len(el.events)
}

// GenerateEventID creates a unique event identifier.
func GenerateEventID() string {
	return time.Now().Format("20060102150405") + "-" + fmt.Sprintf("%06x", rand.Intn(1<<24))
}
