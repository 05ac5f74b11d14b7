package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/banshee-data/census.report/internal/api"
	"github.com/banshee-data/census.report/internal/census"
	"github.com/banshee-data/census.report/internal/config"
	"github.com/banshee-data/census.report/internal/db"
	"github.com/banshee-data/census.report/internal/fsutil"
	"github.com/banshee-data/census.report/internal/security"
	"github.com/banshee-data/census.report/internal/version"
)

var (
	configPath   = flag.String("config", "", "Path to a dashboard JSON config (see "+config.DefaultConfigPath+")")
	densityCSV   = flag.String("density", "", "Population density CSV (overrides config)")
	ageGenderCSV = flag.String("age-gender", "", "Population by age and sex CSV (overrides config)")
	listen       = flag.String("listen", "", "Listen address (overrides config, default "+config.DefaultListen+")")
	snapshotDB   = flag.String("snapshot-db", "", "Write a sqlite snapshot of the tables here and serve it on /debug/tailsql/")
	devMode      = flag.Bool("dev", false, "Read snapshot migrations from internal/db/migrations on disk")
	showVersion  = flag.Bool("version", false, "Print version and exit")
)

func loadConfig(path string) (*config.DashboardConfig, error) {
	if path == "" {
		return config.EmptyDashboardConfig(), nil
	}
	return config.LoadDashboardConfig(path)
}

// buildHandler loads the dataset, optionally writes the sqlite snapshot, and
// returns the dashboard handler with a cleanup for the snapshot database.
func buildHandler(ctx context.Context, cfg *config.DashboardConfig, fsys fsutil.FileSystem) (http.Handler, func(), error) {
	ds, err := census.LoadCached(fsys, cfg.GetDensityCSV(), cfg.GetAgeGenderCSV())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load census data: %w", err)
	}

	server := api.NewServer(ds, cfg)
	mux := server.ServeMux()
	cleanup := func() {}

	if path := cfg.GetSnapshotDB(); path != "" {
		if err := security.ValidateOutputPath(path); err != nil {
			return nil, nil, fmt.Errorf("invalid snapshot path: %w", err)
		}
		snap, err := db.NewDB(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open snapshot database: %w", err)
		}
		if err := snap.WriteSnapshot(ctx, ds); err != nil {
			snap.Close()
			return nil, nil, fmt.Errorf("failed to write snapshot: %w", err)
		}
		if err := snap.AttachAdminRoutes(mux); err != nil {
			snap.Close()
			return nil, nil, err
		}
		server.SetSnapshot(snap)
		cleanup = func() {
			if err := snap.Close(); err != nil {
				log.Printf("failed to close snapshot database: %v", err)
			}
		}
	}

	return api.LoggingMiddleware(mux), cleanup, nil
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	log.Printf("starting %s", version.String())

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg.Override(*densityCSV, *ageGenderCSV, *listen, *snapshotDB)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	db.DevMode = *devMode

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler, cleanup, err := buildHandler(ctx, cfg, fsutil.OSFileSystem{})
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer cleanup()

	server := &http.Server{
		Addr:              cfg.GetListen(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("dashboard listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
		if err := server.Close(); err != nil {
			log.Printf("HTTP server force close error: %v", err)
		}
	}

	log.Printf("Graceful shutdown complete")
}
