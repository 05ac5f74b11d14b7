package census

import (
	"cmp"
	"slices"
)

// Status tells a chart builder whether a filter produced rows.
type Status int

const (
	// StatusOK means the result carries at least one row.
	StatusOK Status = iota
	// StatusNoSelection means the caller did not choose enough to query.
	StatusNoSelection
	// StatusNoData means the selection matched nothing.
	StatusNoData
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoSelection:
		return "no_selection"
	case StatusNoData:
		return "no_data"
	}
	return "unknown"
}

// MarshalText renders the status name in JSON.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// DensityResult holds the density rows for the selected geographies.
type DensityResult struct {
	Status Status          `json:"status"`
	Rows   []DensityRecord `json:"rows,omitempty"`
}

// FilterDensity selects the density rows whose name is in selected, sorted by
// name. An empty selection yields StatusNoSelection.
func (ds *Dataset) FilterDensity(selected []string) DensityResult {
	if len(selected) == 0 {
		return DensityResult{Status: StatusNoSelection}
	}
	want := toSet(selected)

	var rows []DensityRecord
	for _, r := range ds.density {
		if _, ok := want[r.Name]; ok {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return DensityResult{Status: StatusNoData}
	}
	slices.SortStableFunc(rows, func(a, b DensityRecord) int { return cmp.Compare(a.Name, b.Name) })
	return DensityResult{Status: StatusOK, Rows: rows}
}

// AgeDistributionResult holds single-year-of-age rows for one geography and sex.
type AgeDistributionResult struct {
	Status Status            `json:"status"`
	Rows   []AgeGenderDetail `json:"rows,omitempty"`
}

// FilterAgeDistribution selects the detail rows for one geography and sex,
// ordered by numeric age. A missing location or sex, or an empty match,
// yields StatusNoData.
func (ds *Dataset) FilterAgeDistribution(location string, sex Sex) AgeDistributionResult {
	if location == "" || sex == "" {
		return AgeDistributionResult{Status: StatusNoData}
	}

	var rows []AgeGenderDetail
	for _, d := range ds.detail {
		if d.Name == location && d.Sex == sex {
			rows = append(rows, d)
		}
	}
	if len(rows) == 0 {
		return AgeDistributionResult{Status: StatusNoData}
	}
	slices.SortStableFunc(rows, func(a, b AgeGenderDetail) int { return cmp.Compare(a.AgeNumeric, b.AgeNumeric) })
	return AgeDistributionResult{Status: StatusOK, Rows: rows}
}

// GenderTotal is the summed population of one sex in one geography.
type GenderTotal struct {
	Name       string `json:"name"`
	Sex        Sex    `json:"sex"`
	Population int64  `json:"population"`
}

// GenderComparisonResult holds one total per (geography, sex).
type GenderComparisonResult struct {
	Status Status        `json:"status"`
	Rows   []GenderTotal `json:"rows,omitempty"`
}

// AggregateGenderComparison sums the long-form population for one census
// year over the selected geographies, optionally restricted to one age band,
// grouped by (name, sex) and sorted the same way. An empty location set or a
// year outside Years yields StatusNoSelection; an empty grouping yields
// StatusNoData.
func (ds *Dataset) AggregateGenderComparison(year int, locations []string, band AgeBandChoice) GenderComparisonResult {
	if len(locations) == 0 || !slices.Contains(Years, year) {
		return GenderComparisonResult{Status: StatusNoSelection}
	}
	want := toSet(locations)

	type key struct {
		name string
		sex  Sex
	}
	totals := make(map[key]int64)
	for _, r := range ds.long {
		if r.Year != year {
			continue
		}
		if _, ok := want[r.Name]; !ok {
			continue
		}
		if !band.Matches(r.AgeBand) {
			continue
		}
		totals[key{r.Name, r.Sex}] += r.Population
	}
	if len(totals) == 0 {
		return GenderComparisonResult{Status: StatusNoData}
	}

	rows := make([]GenderTotal, 0, len(totals))
	for k, pop := range totals {
		rows = append(rows, GenderTotal{Name: k.name, Sex: k.sex, Population: pop})
	}
	slices.SortFunc(rows, func(a, b GenderTotal) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.Sex, b.Sex))
	})
	return GenderComparisonResult{Status: StatusOK, Rows: rows}
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, s := range items {
		set[s] = struct{}{}
	}
	return set
}
