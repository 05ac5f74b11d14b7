package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/banshee-data/census.report/internal/config"
	"github.com/banshee-data/census.report/internal/fsutil"
	"github.com/banshee-data/census.report/internal/monitoring"
	"github.com/banshee-data/census.report/internal/testutil"
)

func fixtureConfig(snapshot string) *config.DashboardConfig {
	cfg := config.EmptyDashboardConfig()
	cfg.Override(testutil.DensityFixture, testutil.AgeGenderFixture, "", snapshot)
	return cfg
}

func TestFlagDefaults(t *testing.T) {
	for name, v := range map[string]*string{
		"config":      configPath,
		"density":     densityCSV,
		"age-gender":  ageGenderCSV,
		"listen":      listen,
		"snapshot-db": snapshotDB,
	} {
		if v == nil {
			t.Fatalf("flag -%s not defined", name)
		}
		if *v != "" {
			t.Errorf("flag -%s default = %q, want empty so config values apply", name, *v)
		}
	}
	if *devMode {
		t.Error("-dev should default to false")
	}
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig(\"\"): %v", err)
	}
	if cfg.GetListen() != config.DefaultListen {
		t.Errorf("listen = %q, want %q", cfg.GetListen(), config.DefaultListen)
	}

	cfg, err = loadConfig(filepath.Join("..", "..", config.DefaultConfigPath))
	if err != nil {
		t.Fatalf("loading defaults file: %v", err)
	}
	if cfg.GetDefaultAgeLocation() != "ENGLAND" {
		t.Errorf("default age location = %q", cfg.GetDefaultAgeLocation())
	}

	if _, err := loadConfig("missing.json"); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestBuildHandler(t *testing.T) {
	defer monitoring.Mute()()

	h, cleanup, err := buildHandler(context.Background(), fixtureConfig(""), testutil.NewFixtureFS())
	if err != nil {
		t.Fatalf("buildHandler: %v", err)
	}
	defer cleanup()

	for _, path := range []string{"/", "/health", "/api/options", "/charts/density?location=ENGLAND"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
		if rec.Header().Get("X-Request-ID") == "" {
			t.Errorf("%s: missing request id", path)
		}
	}
}

func TestBuildHandler_Snapshot(t *testing.T) {
	defer monitoring.Mute()()

	path := filepath.Join(t.TempDir(), "census.db")
	h, cleanup, err := buildHandler(context.Background(), fixtureConfig(path), testutil.NewFixtureFS())
	if err != nil {
		t.Fatalf("buildHandler: %v", err)
	}
	defer cleanup()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp struct {
		Snapshot struct {
			DensityRows int `json:"density_rows"`
			LongRows    int `json:"age_gender_long_rows"`
		} `json:"snapshot"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if resp.Snapshot.DensityRows != 5 {
		t.Errorf("snapshot density rows = %d, want 5", resp.Snapshot.DensityRows)
	}
	wantLong := 2 * len(testutil.FixtureLocations) * 2 * len(testutil.FixtureAges)
	if resp.Snapshot.LongRows != wantLong {
		t.Errorf("snapshot long rows = %d, want %d", resp.Snapshot.LongRows, wantLong)
	}
}

func TestBuildHandler_Errors(t *testing.T) {
	defer monitoring.Mute()()

	cfg := config.EmptyDashboardConfig()
	cfg.Override("missing.csv", "missing-too.csv", "", "")
	if _, _, err := buildHandler(context.Background(), cfg, fsutil.NewMemoryFileSystem()); err == nil {
		t.Error("expected error for missing input files")
	}

	if _, _, err := buildHandler(context.Background(), fixtureConfig("/etc/census.db"), testutil.NewFixtureFS()); err == nil {
		t.Error("expected error for snapshot outside allowed directories")
	}
}
