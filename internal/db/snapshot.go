package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/banshee-data/census.report/internal/census"
	"github.com/banshee-data/census.report/internal/monitoring"
	"github.com/banshee-data/census.report/internal/version"
)

// snapshotTables are cleared and refilled on every snapshot, children first.
var snapshotTables = []string{"age_gender_long", "age_gender_detail", "density", "snapshot_meta"}

// SnapshotStats summarises what a snapshot holds.
type SnapshotStats struct {
	DensityRows   int    `json:"density_rows"`
	DetailRows    int    `json:"age_gender_detail_rows"`
	LongRows      int    `json:"age_gender_long_rows"`
	CreatedAt     string `json:"created_at,omitempty"`
	SourceVersion string `json:"source_version,omitempty"`
}

// WriteSnapshot replaces the snapshot contents with the tables of ds in a
// single transaction.
func (db *DB) WriteSnapshot(ctx context.Context, ds *census.Dataset) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, table := range snapshotTables {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if err = insertDensity(ctx, tx, ds.Density()); err != nil {
		return err
	}
	if err = insertDetail(ctx, tx, ds.AgeGenderDetail()); err != nil {
		return err
	}
	if err = insertLong(ctx, tx, ds.AgeGenderLong()); err != nil {
		return err
	}

	meta := map[string]string{
		"created_at":     time.Now().UTC().Format(time.RFC3339),
		"source_version": version.String(),
	}
	for k, v := range meta {
		if _, err = tx.ExecContext(ctx, `INSERT INTO snapshot_meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("write snapshot_meta %s: %w", k, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	monitoring.Logf("census snapshot written to %s", db.path)
	return nil
}

func insertDensity(ctx context.Context, tx *sql.Tx, rows []census.DensityRecord) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO density (
		name, code, geography, area_sq_km, population_2011, population_2022,
		density_2011, density_2022
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare density insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.Name, r.Code, r.Geography, r.AreaSqKm,
			r.Population2011, r.Population2022, r.Density2011, r.Density2022); err != nil {
			return fmt.Errorf("insert density %s: %w", r.Name, err)
		}
	}
	return nil
}

func insertDetail(ctx context.Context, tx *sql.Tx, rows []census.AgeGenderDetail) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO age_gender_detail (
		name, sex, age, age_numeric, age_band, population_2011, population_2022
	) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare age_gender_detail insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.Name, string(r.Sex), r.Age, r.AgeNumeric,
			string(r.AgeBand), r.Population2011, r.Population2022); err != nil {
			return fmt.Errorf("insert age_gender_detail %s/%s/%s: %w", r.Name, r.Sex, r.Age, err)
		}
	}
	return nil
}

func insertLong(ctx context.Context, tx *sql.Tx, rows []census.AgeGenderLong) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO age_gender_long (
		name, year, sex, age, age_numeric, age_band, population
	) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare age_gender_long insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.Name, r.Year, string(r.Sex), r.Age, r.AgeNumeric,
			string(r.AgeBand), r.Population); err != nil {
			return fmt.Errorf("insert age_gender_long %s/%d/%s/%s: %w", r.Name, r.Year, r.Sex, r.Age, err)
		}
	}
	return nil
}

// Stats reports row counts and metadata of the current snapshot.
func (db *DB) Stats(ctx context.Context) (SnapshotStats, error) {
	var s SnapshotStats
	counts := []struct {
		table string
		dst   *int
	}{
		{"density", &s.DensityRows},
		{"age_gender_detail", &s.DetailRows},
		{"age_gender_long", &s.LongRows},
	}
	for _, c := range counts {
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+c.table).Scan(c.dst); err != nil {
			return s, fmt.Errorf("count %s: %w", c.table, err)
		}
	}

	rows, err := db.QueryContext(ctx, `SELECT key, value FROM snapshot_meta`)
	if err != nil {
		return s, fmt.Errorf("read snapshot_meta: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return s, err
		}
		switch k {
		case "created_at":
			s.CreatedAt = v
		case "source_version":
			s.SourceVersion = v
		}
	}
	return s, rows.Err()
}

// GenderTotals sums long-form population by (name, sex) for one year and
// optional band, in (name, sex) order. It mirrors
// census.Dataset.AggregateGenderComparison over the stored snapshot.
func (db *DB) GenderTotals(ctx context.Context, year int, band census.AgeBandChoice) ([]census.GenderTotal, error) {
	query := `SELECT name, sex, SUM(population) FROM age_gender_long WHERE year = ?`
	args := []any{year}
	if b, ok := band.Band(); ok {
		query += ` AND age_band = ?`
		args = append(args, string(b))
	}
	query += ` GROUP BY name, sex ORDER BY name, sex`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query gender totals: %w", err)
	}
	defer rows.Close()

	var out []census.GenderTotal
	for rows.Next() {
		var t census.GenderTotal
		var sex string
		if err := rows.Scan(&t.Name, &sex, &t.Population); err != nil {
			return nil, err
		}
		t.Sex = census.Sex(sex)
		out = append(out, t)
	}
	return out, rows.Err()
}
