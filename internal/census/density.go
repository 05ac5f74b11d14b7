package census

import (
	"fmt"
	"strconv"
	"strings"
)

// DensityRecord is one geography's area, population and density for both
// census years.
type DensityRecord struct {
	Name           string            `json:"name"`
	Code           string            `json:"code"`
	Geography      string            `json:"geography"`
	AreaSqKm       float64           `json:"area_sq_km"`
	Population2011 int64             `json:"population_2011"`
	Population2022 int64             `json:"population_2022"`
	Density2011    float64           `json:"density_2011"`
	Density2022    float64           `json:"density_2022"`
	Extra          map[string]string `json:"extra,omitempty"`
}

// DensityColumns maps the published table headers to normalised field names.
var DensityColumns = []struct{ Raw, Field string }{
	{"Name", "name"},
	{"Code", "code"},
	{"Geography", "geography"},
	{"Area (sq km)", "area_sq_km"},
	{"Estimated Population mid-2022", "population_2022"},
	{"2022 people per sq. km", "density_2022"},
	{"Estimated Population mid-2011", "population_2011"},
	{"2011 people per sq. km", "density_2011"},
}

// PreprocessDensity renames the density columns and parses their values.
// Every input row produces exactly one record, in input order. Columns
// outside the mapping are carried in Extra.
func PreprocessDensity(raw *RawTable) ([]DensityRecord, error) {
	idx := make(map[string]int, len(DensityColumns))
	mapped := make(map[int]bool, len(DensityColumns))
	for _, c := range DensityColumns {
		i, ok := raw.Column(c.Raw)
		if !ok {
			return nil, fmt.Errorf("density table %s: missing column %q", raw.Path, c.Raw)
		}
		idx[c.Field] = i
		mapped[i] = true
	}

	records := make([]DensityRecord, 0, len(raw.Rows))
	seen := make(map[string]int, len(raw.Rows))
	for n, row := range raw.Rows {
		line := n + 2 // header is line 1
		rec := DensityRecord{
			Name:      strings.TrimSpace(row[idx["name"]]),
			Code:      strings.TrimSpace(row[idx["code"]]),
			Geography: strings.TrimSpace(row[idx["geography"]]),
		}
		if prev, dup := seen[rec.Name]; dup {
			return nil, fmt.Errorf("density table %s: line %d: duplicate name %q (first on line %d)", raw.Path, line, rec.Name, prev)
		}
		seen[rec.Name] = line

		var err error
		if rec.AreaSqKm, err = parseFloatCell(row[idx["area_sq_km"]]); err != nil {
			return nil, cellError(raw.Path, line, "area_sq_km", err)
		}
		if rec.Population2011, err = parseIntCell(row[idx["population_2011"]]); err != nil {
			return nil, cellError(raw.Path, line, "population_2011", err)
		}
		if rec.Population2022, err = parseIntCell(row[idx["population_2022"]]); err != nil {
			return nil, cellError(raw.Path, line, "population_2022", err)
		}
		if rec.Density2011, err = parseFloatCell(row[idx["density_2011"]]); err != nil {
			return nil, cellError(raw.Path, line, "density_2011", err)
		}
		if rec.Density2022, err = parseFloatCell(row[idx["density_2022"]]); err != nil {
			return nil, cellError(raw.Path, line, "density_2022", err)
		}

		for i, h := range raw.Header {
			if mapped[i] {
				continue
			}
			if rec.Extra == nil {
				rec.Extra = make(map[string]string)
			}
			rec.Extra[h] = row[i]
		}
		records = append(records, rec)
	}
	return records, nil
}

func cellError(path string, line int, field string, err error) error {
	return fmt.Errorf("%s: line %d: field %s: %w", path, line, field, err)
}

// parseIntCell parses an integer cell, allowing thousands separators.
func parseIntCell(s string) (int64, error) {
	return strconv.ParseInt(normaliseNumber(s), 10, 64)
}

// parseFloatCell parses a decimal cell, allowing thousands separators.
func parseFloatCell(s string) (float64, error) {
	return strconv.ParseFloat(normaliseNumber(s), 64)
}

func normaliseNumber(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", "")
}
