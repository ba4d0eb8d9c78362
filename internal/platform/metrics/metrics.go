// Package metrics provides observability for the simulation server.
// Counters are cheap enough to record from the hot per-tile path.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers simulation and transport metrics.
type Collector struct {
	// Tick metrics
	TickCount      int64
	TickLatencySum int64 // nanoseconds
	TickLatencyMax int64
	LastTickTime   time.Time

	// Zone metrics
	ZonesProcessed int64
	GrowthEvents   int64
	DeclineEvents  int64
	RuinEvents     int64
	HouseLots      int64 // build-out lots scored but not committed
	Meltdowns      int64
	CoverageWrites int64

	// Ledger metrics
	EventsWritten    int64
	EventWriteLatSum int64
	EventWriteLatMax int64
	EventWriteErrors int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesOut       int64
	WSErrors            int64

	// System
	StartTime time.Time
	mu        sync.RWMutex
}

// Global collector instance
var collector = &Collector{
	StartTime: time.Now(),
}

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// RecordTick records a tick cycle completion.
func (c *Collector) RecordTick(latency time.Duration) {
	atomic.AddInt64(&c.TickCount, 1)
	atomic.AddInt64(&c.TickLatencySum, int64(latency))

	// Update max (non-atomic but acceptable for metrics)
	if int64(latency) > atomic.LoadInt64(&c.TickLatencyMax) {
		atomic.StoreInt64(&c.TickLatencyMax, int64(latency))
	}

	c.mu.Lock()
	c.LastTickTime = time.Now()
	c.mu.Unlock()
}

// RecordZone records one processed zone-center tile.
func (c *Collector) RecordZone() {
	atomic.AddInt64(&c.ZonesProcessed, 1)
}

// RecordGrowth records a zone growth transition.
func (c *Collector) RecordGrowth() {
	atomic.AddInt64(&c.GrowthEvents, 1)
}

// RecordDecline records a zone decline transition.
func (c *Collector) RecordDecline() {
	atomic.AddInt64(&c.DeclineEvents, 1)
}

// RecordRuin records a zone converted to rubble.
func (c *Collector) RecordRuin() {
	atomic.AddInt64(&c.RuinEvents, 1)
}

// RecordHouseLot records a scored build-out lot.
func (c *Collector) RecordHouseLot() {
	atomic.AddInt64(&c.HouseLots, 1)
}

// RecordMeltdown records a triggered meltdown.
func (c *Collector) RecordMeltdown() {
	atomic.AddInt64(&c.Meltdowns, 1)
}

// RecordCoverageWrite records a police/fire coverage grid write.
func (c *Collector) RecordCoverageWrite() {
	atomic.AddInt64(&c.CoverageWrites, 1)
}

// RecordEventWrite records an event write to the ledger.
func (c *Collector) RecordEventWrite(latency time.Duration, err error) {
	atomic.AddInt64(&c.EventsWritten, 1)
	atomic.AddInt64(&c.EventWriteLatSum, int64(latency))

	if int64(latency) > atomic.LoadInt64(&c.EventWriteLatMax) {
		atomic.StoreInt64(&c.EventWriteLatMax, int64(latency))
	}

	if err != nil {
		atomic.AddInt64(&c.EventWriteErrors, 1)
	}
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records an outgoing WebSocket message.
func (c *Collector) RecordWSMessage() {
	atomic.AddInt64(&c.WSMessagesOut, 1)
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tickCount := atomic.LoadInt64(&c.TickCount)
	eventsWritten := atomic.LoadInt64(&c.EventsWritten)

	var tickAvg, eventAvg float64
	if tickCount > 0 {
		tickAvg = float64(atomic.LoadInt64(&c.TickLatencySum)) / float64(tickCount) / 1e6 // ms
	}
	if eventsWritten > 0 {
		eventAvg = float64(atomic.LoadInt64(&c.EventWriteLatSum)) / float64(eventsWritten) / 1e6
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"tick": map[string]interface{}{
			"count":          tickCount,
			"avg_latency_ms": tickAvg,
			"max_latency_ms": float64(atomic.LoadInt64(&c.TickLatencyMax)) / 1e6,
			"last_tick":      c.LastTickTime.Format(time.RFC3339),
		},

		"zones": map[string]interface{}{
			"processed":       atomic.LoadInt64(&c.ZonesProcessed),
			"growth":          atomic.LoadInt64(&c.GrowthEvents),
			"decline":         atomic.LoadInt64(&c.DeclineEvents),
			"ruined":          atomic.LoadInt64(&c.RuinEvents),
			"house_lots":      atomic.LoadInt64(&c.HouseLots),
			"meltdowns":       atomic.LoadInt64(&c.Meltdowns),
			"coverage_writes": atomic.LoadInt64(&c.CoverageWrites),
		},

		"events": map[string]interface{}{
			"written":          eventsWritten,
			"avg_write_lat_ms": eventAvg,
			"max_write_lat_ms": float64(atomic.LoadInt64(&c.EventWriteLatMax)) / 1e6,
			"errors":           atomic.LoadInt64(&c.EventWriteErrors),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")

		snapshot := collector.Snapshot()
		json.NewEncoder(w).Encode(snapshot)
	}
}

// PrometheusHandler returns metrics in Prometheus format.
func PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		c := collector

		fmt.Fprintf(w, "# HELP microcity_tick_count Total tick cycles\n")
		fmt.Fprintf(w, "# TYPE microcity_tick_count counter\n")
		fmt.Fprintf(w, "microcity_tick_count %d\n\n", atomic.LoadInt64(&c.TickCount))

		fmt.Fprintf(w, "# HELP microcity_tick_latency_max_ms Maximum tick latency\n")
		fmt.Fprintf(w, "# TYPE microcity_tick_latency_max_ms gauge\n")
		fmt.Fprintf(w, "microcity_tick_latency_max_ms %.2f\n\n", float64(atomic.LoadInt64(&c.TickLatencyMax))/1e6)

		fmt.Fprintf(w, "# HELP microcity_zones_processed Total zone-center tiles processed\n")
		fmt.Fprintf(w, "# TYPE microcity_zones_processed counter\n")
		fmt.Fprintf(w, "microcity_zones_processed %d\n\n", atomic.LoadInt64(&c.ZonesProcessed))

		fmt.Fprintf(w, "# HELP microcity_zone_transitions_total Zone growth/decline/ruin transitions\n")
		fmt.Fprintf(w, "# TYPE microcity_zone_transitions_total counter\n")
		fmt.Fprintf(w, "microcity_zone_transitions_total{kind=\"growth\"} %d\n", atomic.LoadInt64(&c.GrowthEvents))
		fmt.Fprintf(w, "microcity_zone_transitions_total{kind=\"decline\"} %d\n", atomic.LoadInt64(&c.DeclineEvents))
		fmt.Fprintf(w, "microcity_zone_transitions_total{kind=\"ruin\"} %d\n\n", atomic.LoadInt64(&c.RuinEvents))

		fmt.Fprintf(w, "# HELP microcity_meltdowns Total nuclear meltdowns triggered\n")
		fmt.Fprintf(w, "# TYPE microcity_meltdowns counter\n")
		fmt.Fprintf(w, "microcity_meltdowns %d\n\n", atomic.LoadInt64(&c.Meltdowns))

		fmt.Fprintf(w, "# HELP microcity_coverage_writes Total police/fire coverage writes\n")
		fmt.Fprintf(w, "# TYPE microcity_coverage_writes counter\n")
		fmt.Fprintf(w, "microcity_coverage_writes %d\n\n", atomic.LoadInt64(&c.CoverageWrites))

		fmt.Fprintf(w, "# HELP microcity_events_written Total ledger events written\n")
		fmt.Fprintf(w, "# TYPE microcity_events_written counter\n")
		fmt.Fprintf(w, "microcity_events_written %d\n\n", atomic.LoadInt64(&c.EventsWritten))

		fmt.Fprintf(w, "# HELP microcity_event_write_errors Total ledger write errors\n")
		fmt.Fprintf(w, "# TYPE microcity_event_write_errors counter\n")
		fmt.Fprintf(w, "microcity_event_write_errors %d\n\n", atomic.LoadInt64(&c.EventWriteErrors))

		fmt.Fprintf(w, "# HELP microcity_ws_connections Active WebSocket connections\n")
		fmt.Fprintf(w, "# TYPE microcity_ws_connections gauge\n")
		fmt.Fprintf(w, "microcity_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP microcity_ws_messages_out Total outgoing WebSocket messages\n")
		fmt.Fprintf(w, "# TYPE microcity_ws_messages_out counter\n")
		fmt.Fprintf(w, "microcity_ws_messages_out %d\n", atomic.LoadInt64(&c.WSMessagesOut))
	}
}
