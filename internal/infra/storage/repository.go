// Package storage provides the persistence layer for the city server.
// This package implements the repository pattern to keep the simulation pure.
package storage

import (
	"context"
	"time"
)

// ZoneEvent mirrors the simulation event structure for persistence.
// The engine package should NOT import this; it writes through the event
// log's persister interface instead.
type ZoneEvent struct {
	ID        string                 `json:"id" db:"id"`
	Timestamp time.Time              `json:"timestamp" db:"timestamp"`
	EventType string                 `json:"event_type" db:"event_type"`
	X         int                    `json:"x" db:"x"`
	Y         int                    `json:"y" db:"y"`
	Payload   map[string]interface{} `json:"payload" db:"payload"`
	Tick      int64                  `json:"tick" db:"tick"`
	CityMonth int                    `json:"city_month" db:"city_month"`
}

// EventRepository defines the interface for event persistence.
type EventRepository interface {
	// Append adds a new event to the immutable ledger.
	Append(ctx context.Context, event ZoneEvent) error

	// GetAll retrieves the full ledger in tick order (for replay).
	GetAll(ctx context.Context) ([]ZoneEvent, error)

	// GetByEventType retrieves all events of a specific type.
	GetByEventType(ctx context.Context, eventType string) ([]ZoneEvent, error)

	// GetSinceTick retrieves all events from ticks >= tick.
	GetSinceTick(ctx context.Context, tick int64) ([]ZoneEvent, error)
}

// CensusRecord is one persisted per-tick census row.
type CensusRecord struct {
	Tick        int64     `json:"tick" db:"tick"`
	CityMonth   int       `json:"city_month" db:"city_month"`
	Residential int       `json:"residential" db:"residential"`
	Commercial  int       `json:"commercial" db:"commercial"`
	Industrial  int       `json:"industrial" db:"industrial"`
	Nuclear     int       `json:"nuclear" db:"nuclear"`
	Timestamp   time.Time `json:"timestamp" db:"timestamp"`
}

// CensusRepository defines the interface for census history.
type CensusRepository interface {
	// Insert appends one census row.
	Insert(ctx context.Context, rec CensusRecord) error

	// Latest returns the most recent row, or nil when the table is empty.
	Latest(ctx context.Context) (*CensusRecord, error)

	// GetRange returns rows with fromTick <= tick < toTick in tick order.
	GetRange(ctx context.Context, fromTick, toTick int64) ([]CensusRecord, error)
}

// GridSnapshot is a compressed point-in-time copy of the full map.
type GridSnapshot struct {
	Tick      int64     `json:"tick" db:"tick"`
	Width     int       `json:"width" db:"width"`
	Height    int       `json:"height" db:"height"`
	Blob      []byte    `json:"-" db:"blob"` // zstd-compressed cells
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}

// GridSnapshotRepository defines the interface for map snapshots.
type GridSnapshotRepository interface {
	// Save stores one snapshot; snapshots are keyed by tick.
	Save(ctx context.Context, snap GridSnapshot) error

	// Latest returns the most recent snapshot, or nil when none exist.
	Latest(ctx context.Context) (*GridSnapshot, error)
}
