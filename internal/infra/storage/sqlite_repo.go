package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// SQLiteEventRepository implements EventRepository for SQLite.
type SQLiteEventRepository struct {
	db *sql.DB
}

func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

func (r *SQLiteEventRepository) Append(ctx context.Context, event ZoneEvent) error {
	payloadBytes, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO zone_events (id, timestamp, event_type, x, y, payload, tick, city_month)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.Timestamp, event.EventType, event.X, event.Y,
		string(payloadBytes), event.Tick, event.CityMonth,
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *SQLiteEventRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]ZoneEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []ZoneEvent
	for rows.Next() {
		var e ZoneEvent
		var payloadStr string
		err := rows.Scan(
			&e.ID, &e.Timestamp, &e.EventType, &e.X, &e.Y,
			&payloadStr, &e.Tick, &e.CityMonth,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payloadStr), &e.Payload); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *SQLiteEventRepository) GetAll(ctx context.Context) ([]ZoneEvent, error) {
	query := `SELECT id, timestamp, event_type, x, y, payload, tick, city_month FROM zone_events ORDER BY tick ASC, timestamp ASC`
	return r.getMany(ctx, query)
}

func (r *SQLiteEventRepository) GetByEventType(ctx context.Context, eventType string) ([]ZoneEvent, error) {
	query := `SELECT id, timestamp, event_type, x, y, payload, tick, city_month FROM zone_events WHERE event_type = ? ORDER BY tick ASC, timestamp ASC`
	return r.getMany(ctx, query, eventType)
}

func (r *SQLiteEventRepository) GetSinceTick(ctx context.Context, tick int64) ([]ZoneEvent, error) {
	query := `SELECT id, timestamp, event_type, x, y, payload, tick, city_month FROM zone_events WHERE tick >= ? ORDER BY tick ASC, timestamp ASC`
	return r.getMany(ctx, query, tick)
}

// ---------------------------------------------------------
// SQLiteCensusRepository
// ---------------------------------------------------------

type SQLiteCensusRepository struct {
	db *sql.DB
}

func NewSQLiteCensusRepository(db *sql.DB) *SQLiteCensusRepository {
	return &SQLiteCensusRepository{db: db}
}

func (r *SQLiteCensusRepository) Insert(ctx context.Context, rec CensusRecord) error {
	query := `
		INSERT INTO census_snapshots (tick, city_month, residential, commercial, industrial, nuclear, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(tick) DO UPDATE SET
			city_month=excluded.city_month,
			residential=excluded.residential,
			commercial=excluded.commercial,
			industrial=excluded.industrial,
			nuclear=excluded.nuclear,
			timestamp=excluded.timestamp
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.Tick, rec.CityMonth, rec.Residential, rec.Commercial,
		rec.Industrial, rec.Nuclear, rec.Timestamp,
	)
	return err
}

func (r *SQLiteCensusRepository) Latest(ctx context.Context) (*CensusRecord, error) {
	query := `SELECT tick, city_month, residential, commercial, industrial, nuclear, timestamp FROM census_snapshots ORDER BY tick DESC LIMIT 1`
	var rec CensusRecord
	err := r.db.QueryRowContext(ctx, query).Scan(
		&rec.Tick, &rec.CityMonth, &rec.Residential, &rec.Commercial,
		&rec.Industrial, &rec.Nuclear, &rec.Timestamp,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *SQLiteCensusRepository) GetRange(ctx context.Context, fromTick, toTick int64) ([]CensusRecord, error) {
	query := `SELECT tick, city_month, residential, commercial, industrial, nuclear, timestamp FROM census_snapshots WHERE tick >= ? AND tick < ? ORDER BY tick ASC`
	rows, err := r.db.QueryContext(ctx, query, fromTick, toTick)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []CensusRecord
	for rows.Next() {
		var rec CensusRecord
		if err := rows.Scan(&rec.Tick, &rec.CityMonth, &rec.Residential, &rec.Commercial, &rec.Industrial, &rec.Nuclear, &rec.Timestamp); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// ---------------------------------------------------------
// SQLiteGridSnapshotRepository
// ---------------------------------------------------------

type SQLiteGridSnapshotRepository struct {
	db *sql.DB
}

func NewSQLiteGridSnapshotRepository(db *sql.DB) *SQLiteGridSnapshotRepository {
	return &SQLiteGridSnapshotRepository{db: db}
}

func (r *SQLiteGridSnapshotRepository) Save(ctx context.Context, snap GridSnapshot) error {
	query := `
		INSERT INTO grid_snapshots (tick, width, height, blob, timestamp)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(tick) DO UPDATE SET
			width=excluded.width,
			height=excluded.height,
			blob=excluded.blob,
			timestamp=excluded.timestamp
	`
	_, err := r.db.ExecContext(ctx, query, snap.Tick, snap.Width, snap.Height, snap.Blob, snap.Timestamp)
	return err
}

func (r *SQLiteGridSnapshotRepository) Latest(ctx context.Context) (*GridSnapshot, error) {
	query := `SELECT tick, width, height, blob, timestamp FROM grid_snapshots ORDER BY tick DESC LIMIT 1`
	var snap GridSnapshot
	err := r.db.QueryRowContext(ctx, query).Scan(&snap.Tick, &snap.Width, &snap.Height, &snap.Blob, &snap.Timestamp)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &snap, nil
}

var _ EventRepository = (*SQLiteEventRepository)(nil)
var _ CensusRepository = (*SQLiteCensusRepository)(nil)
var _ GridSnapshotRepository = (*SQLiteGridSnapshotRepository)(nil)
