// Package main is the entry point for the MicroCity authoritative server.
// It only handles dependency injection and server initialization.
// NO simulation logic belongs here.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/oakhurst-games/microcity/server/internal/domain/tiles"
	"github.com/oakhurst-games/microcity/server/internal/engine"
	"github.com/oakhurst-games/microcity/server/internal/events"
	"github.com/oakhurst-games/microcity/server/internal/infra/storage"
	"github.com/oakhurst-games/microcity/server/internal/network"
	"github.com/oakhurst-games/microcity/server/internal/platform/logger"
	"github.com/oakhurst-games/microcity/server/internal/platform/metrics"
	"github.com/oakhurst-games/microcity/server/internal/platform/tuning"
)

// SQLitePersisterAdapter translates simulation events to storage events.
type SQLitePersisterAdapter struct {
	repo *storage.SQLiteEventRepository
}

func (a *SQLitePersisterAdapter) Append(event events.SimEvent) error {
	payloadBytes, _ := json.Marshal(event.Payload)
	var payloadMap map[string]interface{}
	json.Unmarshal(payloadBytes, &payloadMap)

	storageEvent := storage.ZoneEvent{
		ID:        event.ID,
		Timestamp: event.Timestamp,
		EventType: string(event.Type),
		X:         event.X,
		Y:         event.Y,
		Payload:   payloadMap,
		Tick:      event.Tick,
		CityMonth: event.CityMonth,
	}

	start := time.Now()
	err := a.repo.Append(context.Background(), storageEvent)
	metrics.Get().RecordEventWrite(time.Since(start), err)
	return err
}

// bootstrapGrid restores the map from the latest snapshot, or seeds a small
// starter city when the database is empty.
func bootstrapGrid(ctx context.Context, snapRepo *storage.SQLiteGridSnapshotRepository, eng *engine.Engine, appLogger *logger.Logger) {
	snap, err := snapRepo.Latest(ctx)
	if err != nil {
		appLogger.Error("failed to query grid snapshots: %v", err)
	}

	grid := eng.Grid()
	if snap != nil && snap.Width == grid.Width && snap.Height == grid.Height {
		cells, err := storage.DecodeGridCells(snap.Blob, grid.Width*grid.Height)
		if err != nil {
			appLogger.Error("failed to decode grid snapshot: %v", err)
		} else {
			for y := 0; y < grid.Height; y++ {
				for x := 0; x < grid.Width; x++ {
					grid.SetRaw(x, y, cells[y*grid.Width+x])
				}
			}
			eng.SetTime(snap.Tick)
			appLogger.Info("restored map from snapshot at tick %d", snap.Tick)
			return
		}
	}

	appLogger.Info("database empty, seeding starter city")
	seedStarterCity(grid)
}

// seedStarterCity lays down a minimal powered settlement: three zone
// clusters along a road, a coal plant, and a fire station.
func seedStarterCity(grid *engine.Grid) {
	centers := []struct {
		x, y int
		id   uint16
	}{
		{10, 10, tiles.FreeZ},
		{14, 10, tiles.ComClr},
		{18, 10, tiles.IndClr},
		{24, 10, tiles.CoalPlant},
		{10, 16, tiles.FireStation},
	}
	for _, c := range centers {
		grid.SetRaw(c.x, c.y, c.id|tiles.ZoneFlags|tiles.PowerBit)
	}
	// A road along the southern edge of the clusters.
	for x := 8; x <= 26; x++ {
		grid.SetRaw(x, 12, uint16(tiles.Roads)|tiles.BurnBit|tiles.BullBit)
	}
}

func main() {
	configPath := flag.String("config", "", "path to tuning.yaml (defaults apply without one)")
	dbPath := flag.String("db", "city.db", "path to the SQLite database")
	addr := flag.String("addr", ":8080", "HTTP listen address")
	debug := flag.Bool("debug", false, "enable tile-level debug logging")
	flag.Parse()

	log.Println("[CITY-SERVER] Initializing MicroCity authoritative server...")

	appLogger := logger.NewLogger()
	if *debug {
		appLogger.EnableDebug()
	}

	cfg := tuning.Default()
	if *configPath != "" {
		var err error
		cfg, err = tuning.Load(*configPath)
		if err != nil {
			appLogger.Error("failed to load tuning: %v", err)
			os.Exit(1)
		}
	}

	appLogger.Info("initializing SQLite database %q...", *dbPath)
	db, err := storage.InitSQLite(*dbPath)
	if err != nil {
		appLogger.Error("failed to initialize SQLite: %v", err)
		os.Exit(1)
	}
	eventRepo := storage.NewSQLiteEventRepository(db)
	censusRepo := storage.NewSQLiteCensusRepository(db)
	gridSnapRepo := storage.NewSQLiteGridSnapshotRepository(db)
	eventPersister := &SQLitePersisterAdapter{repo: eventRepo}

	appLogger.Info("bootstrapping event log...")
	eventLog := events.NewEventLog(eventPersister)

	appLogger.Info("bootstrapping simulation engine...")
	grid := engine.NewGrid(cfg.MapWidth, cfg.MapHeight)
	fields := engine.NewFields(cfg.MapWidth, cfg.MapHeight)
	eng := engine.NewEngine(&cfg, grid, fields, engine.Collaborators{}, nil, eventLog, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bootstrapGrid(ctx, gridSnapRepo, eng, appLogger)

	go eng.Run(ctx)

	// Census persistence and periodic map snapshots.
	go func() {
		interval := time.Duration(cfg.TickMs*cfg.SnapshotEveryTicks) * time.Millisecond
		snapshotTicker := time.NewTicker(interval)
		defer snapshotTicker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-snapshotTicker.C:
				tick := eng.Tick()
				snap := eng.Census()
				rec := storage.CensusRecord{
					Tick:        tick,
					CityMonth:   eng.CityMonth(),
					Residential: snap.Residential,
					Commercial:  snap.Commercial,
					Industrial:  snap.Industrial,
					Nuclear:     snap.Nuclear,
					Timestamp:   time.Now(),
				}
				if err := censusRepo.Insert(ctx, rec); err != nil {
					appLogger.Error("failed to persist census: %v", err)
				}

				blob, err := storage.EncodeGridCells(eng.CopyCells())
				if err != nil {
					appLogger.Error("failed to encode grid snapshot: %v", err)
					continue
				}
				gs := storage.GridSnapshot{
					Tick:      tick,
					Width:     eng.Grid().Width,
					Height:    eng.Grid().Height,
					Blob:      blob,
					Timestamp: time.Now(),
				}
				if err := gridSnapRepo.Save(ctx, gs); err != nil {
					appLogger.Error("failed to persist grid snapshot: %v", err)
				}
			}
		}
	}()

	appLogger.Info("bootstrapping WebSocket hub...")
	hub := network.NewHub(eng, appLogger)
	go hub.Run(ctx)
	hub.StartEventPoller(ctx, eventLog)

	reconstructor := storage.NewReconstructor(eventRepo)

	// Setup API routes
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r, appLogger)
	})

	http.HandleFunc("/metrics", metrics.Handler())
	http.HandleFunc("/metrics/prometheus", metrics.PrometheusHandler())

	http.HandleFunc("/api/census", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"tick":       eng.Tick(),
			"city_month": eng.CityMonth(),
			"census":     eng.Census(),
		})
	})

	http.HandleFunc("/api/history", func(w http.ResponseWriter, r *http.Request) {
		sinceTick, _ := strconv.ParseInt(r.URL.Query().Get("since_tick"), 10, 64)
		hist, err := reconstructor.RebuildHistory(r.Context(), sinceTick)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(hist)
	})

	http.HandleFunc("/api/tile", func(w http.ResponseWriter, r *http.Request) {
		x, _ := strconv.Atoi(r.URL.Query().Get("x"))
		y, _ := strconv.Atoi(r.URL.Query().Get("y"))
		tl, err := reconstructor.RebuildTile(r.Context(), x, y)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(tl)
	})

	go func() {
		log.Printf("[CITY-SERVER] HTTP API & WS server listening on %s", *addr)
		if err := http.ListenAndServe(*addr, nil); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	log.Println("[CITY-SERVER] Server running. Press Ctrl+C to exit.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[CITY-SERVER] Shutting down...")
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow cross-origin requests from the viewer dev server
	},
}

// serveWs handles websocket requests from the peer.
func serveWs(hub *network.Hub, w http.ResponseWriter, r *http.Request, log *logger.Logger) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade websocket connection: %v", err)
		return
	}

	client := network.NewClient(hub, conn)
	client.Register()

	go client.WritePump()
	go client.ReadPump()
}
