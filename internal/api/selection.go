package api

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/banshee-data/census.report/internal/census"
)

// Chart names as they appear in URLs.
const (
	ChartDensity = "density"
	ChartAge     = "age"
	ChartGender  = "gender"
)

// Charts lists the chart names in page order.
var Charts = []string{ChartDensity, ChartAge, ChartGender}

// Selection is the widget state behind one chart request. Absent
// parameters leave fields empty, which the builders turn into placeholders.
type Selection struct {
	Locations []string
	Sex       census.Sex
	Year      int
	Band      census.AgeBandChoice
}

// Location is the single location used by the age chart.
func (sel Selection) Location() string {
	if len(sel.Locations) == 0 {
		return ""
	}
	return sel.Locations[0]
}

// Query encodes the selection with the parameter names ParseSelection reads.
func (sel Selection) Query() url.Values {
	q := url.Values{}
	for _, loc := range sel.Locations {
		q.Add("location", loc)
	}
	if sel.Sex != "" {
		q.Set("sex", string(sel.Sex))
	}
	if sel.Year != 0 {
		q.Set("year", strconv.Itoa(sel.Year))
	}
	if !sel.Band.IsAll() {
		q.Set("band", sel.Band.Label())
	}
	return q
}

// ParseSelection reads location (repeatable), sex, year and band from q.
// Malformed values are errors; well-formed values that match nothing are
// left for the filters to report as empty results.
func ParseSelection(q url.Values) (Selection, error) {
	var sel Selection
	sel.Locations = cleanValues(q["location"])

	sex, err := census.ParseSex(q.Get("sex"))
	if err != nil {
		return sel, err
	}
	sel.Sex = sex

	if raw := strings.TrimSpace(q.Get("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return sel, fmt.Errorf("invalid year %q", raw)
		}
		sel.Year = year
	}

	band, err := census.ParseAgeBandChoice(q.Get("band"))
	if err != nil {
		return sel, err
	}
	sel.Band = band
	return sel, nil
}

// splitChart separates "density.png" into its chart name and format.
func splitChart(name string) (chart, format string, ok bool) {
	chart, format = name, "html"
	if base, ext, found := strings.Cut(name, "."); found {
		chart, format = base, ext
	}
	if !slices.Contains(Charts, chart) {
		return "", "", false
	}
	if format != "html" && format != "png" {
		return "", "", false
	}
	return chart, format, true
}

func cleanValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
