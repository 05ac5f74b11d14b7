package db

import (
	"context"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/census.report/internal/census"
	"github.com/banshee-data/census.report/internal/monitoring"
	"github.com/banshee-data/census.report/internal/testutil"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	defer monitoring.Mute()()
	db, err := NewDB(filepath.Join(t.TempDir(), "census.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func fixtureDataset(t *testing.T) *census.Dataset {
	t.Helper()
	defer monitoring.Mute()()
	ds, err := census.Load(testutil.NewFixtureFS(), testutil.DensityFixture, testutil.AgeGenderFixture)
	require.NoError(t, err)
	return ds
}

func TestEmbeddedMigrationsFS(t *testing.T) {
	migFS, err := getMigrationsFS()
	require.NoError(t, err)

	entries, err := fs.ReadDir(migFS, ".")
	require.NoError(t, err)

	var ups, downs int
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		}
	}
	assert.Equal(t, 2, ups)
	assert.Equal(t, ups, downs, "every migration needs a down file")
}

func TestNewDB_MigratesToLatest(t *testing.T) {
	db := setupTestDB(t)

	defer monitoring.Mute()()
	version, dirty, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)

	// re-running is a no-op
	require.NoError(t, db.MigrateUp())
}

func TestMigrateDown(t *testing.T) {
	db := setupTestDB(t)
	defer monitoring.Mute()()

	require.NoError(t, db.MigrateDown())
	version, _, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	_, err = db.Exec(`SELECT COUNT(*) FROM snapshot_meta`)
	assert.Error(t, err, "snapshot_meta should be dropped")

	require.NoError(t, db.MigrateUp())
}

func TestWriteSnapshot(t *testing.T) {
	db := setupTestDB(t)
	ds := fixtureDataset(t)
	ctx := context.Background()

	defer monitoring.Mute()()
	require.NoError(t, db.WriteSnapshot(ctx, ds))

	stats, err := db.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(ds.Density()), stats.DensityRows)
	assert.Equal(t, len(ds.AgeGenderDetail()), stats.DetailRows)
	assert.Equal(t, 2*stats.DetailRows, stats.LongRows)
	assert.NotEmpty(t, stats.CreatedAt)
	assert.Contains(t, stats.SourceVersion, "census.report")

	var density2022 float64
	require.NoError(t, db.QueryRow(`SELECT density_2022 FROM density WHERE name = 'ENGLAND'`).Scan(&density2022))
	assert.InDelta(t, 438.2, density2022, 1e-9)

	// a second snapshot replaces rather than appends
	require.NoError(t, db.WriteSnapshot(ctx, ds))
	again, err := db.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats.LongRows, again.LongRows)
}

func TestGenderTotals_MatchesDataset(t *testing.T) {
	db := setupTestDB(t)
	ds := fixtureDataset(t)
	ctx := context.Background()

	defer monitoring.Mute()()
	require.NoError(t, db.WriteSnapshot(ctx, ds))

	for _, band := range []census.AgeBandChoice{census.AllBands(), census.SpecificBand(census.Band40To59)} {
		for _, year := range census.Years {
			want := ds.AggregateGenderComparison(year, ds.AgeGenderLocations(), band)
			require.Equal(t, census.StatusOK, want.Status)

			got, err := db.GenderTotals(ctx, year, band)
			require.NoError(t, err)
			if diff := cmp.Diff(want.Rows, got); diff != "" {
				t.Errorf("GenderTotals(%d, %s) mismatch (-dataset +sql):\n%s", year, band, diff)
			}
		}
	}
}

func TestAttachAdminRoutes(t *testing.T) {
	db := setupTestDB(t)
	mux := http.NewServeMux()
	require.NoError(t, db.AttachAdminRoutes(mux))

	for _, path := range []string{"/debug/", "/debug/tailsql/", "/debug/backup"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			req.RemoteAddr = "127.0.0.1:12345"
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			// registered, though debug access rules may still refuse it
			assert.NotEqual(t, http.StatusNotFound, rec.Code)
		})
	}
}

func TestServeBackup(t *testing.T) {
	db := setupTestDB(t)
	defer monitoring.Mute()()
	require.NoError(t, db.WriteSnapshot(context.Background(), fixtureDataset(t)))

	rec := httptest.NewRecorder()
	db.serveBackup(rec, httptest.NewRequest(http.MethodGet, "/debug/backup", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/gzip", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "census-snapshot-")

	body := rec.Body.Bytes()
	require.GreaterOrEqual(t, len(body), 2)
	assert.Equal(t, []byte{0x1f, 0x8b}, body[:2], "body is not gzip")
}
