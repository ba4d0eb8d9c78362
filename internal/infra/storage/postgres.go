// Package storage - postgres.go
// PostgreSQL implementation of EventRepository for shared deployments.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PostgresEventRepository implements EventRepository using PostgreSQL.
type PostgresEventRepository struct {
	db *sql.DB
}

// NewPostgresEventRepository creates a new PostgreSQL event repository.
func NewPostgresEventRepository(db *sql.DB) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

// Append inserts a new event into the immutable ledger.
func (r *PostgresEventRepository) Append(ctx context.Context, event ZoneEvent) error {
	payloadJSON, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO zone_events (id, timestamp, event_type, x, y, payload, tick, city_month)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.db.ExecContext(ctx, query,
		event.ID,
		event.Timestamp,
		event.EventType,
		event.X,
		event.Y,
		payloadJSON,
		event.Tick,
		event.CityMonth,
	)

	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}

	return nil
}

// GetAll retrieves the full ledger in tick order.
func (r *PostgresEventRepository) GetAll(ctx context.Context) ([]ZoneEvent, error) {
	query := `
		SELECT id, timestamp, event_type, x, y, payload, tick, city_month
		FROM zone_events
		ORDER BY tick ASC, timestamp ASC
	`

	return r.queryEvents(ctx, query)
}

// GetByEventType retrieves all events of a specific type.
func (r *PostgresEventRepository) GetByEventType(ctx context.Context, eventType string) ([]ZoneEvent, error) {
	query := `
		SELECT id, timestamp, event_type, x, y, payload, tick, city_month
		FROM zone_events
		WHERE event_type = $1
		ORDER BY tick ASC, timestamp ASC
	`

	return r.queryEvents(ctx, query, eventType)
}

// GetSinceTick retrieves all events from ticks >= tick.
func (r *PostgresEventRepository) GetSinceTick(ctx context.Context, tick int64) ([]ZoneEvent, error) {
	query := `
		SELECT id, timestamp, event_type, x, y, payload, tick, city_month
		FROM zone_events
		WHERE tick >= $1
		ORDER BY tick ASC, timestamp ASC
	`

	return r.queryEvents(ctx, query, tick)
}

// queryEvents is a helper to execute queries and scan results.
func (r *PostgresEventRepository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]ZoneEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []ZoneEvent
	for rows.Next() {
		var e ZoneEvent
		var payloadJSON []byte

		err := rows.Scan(
			&e.ID,
			&e.Timestamp,
			&e.EventType,
			&e.X,
			&e.Y,
			&payloadJSON,
			&e.Tick,
			&e.CityMonth,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		if err := json.Unmarshal(payloadJSON, &e.Payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
		}

		events = append(events, e)
	}

	return events, nil
}

// Ensure PostgresEventRepository implements EventRepository
var _ EventRepository = (*PostgresEventRepository)(nil)
