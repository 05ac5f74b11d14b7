package charts

import (
	"fmt"
	"slices"

	"github.com/banshee-data/census.report/internal/census"
)

// Placeholder messages shown when a selection yields nothing to plot.
const (
	MsgSelectDensity = "Please select at least one location for density comparison."
	MsgSelectAge     = "Please select location and gender for age distribution."
	MsgSelectGender  = "Select year, location(s), and age band for gender comparison."
)

// DensityChart filters ds and builds the density comparison chart.
func DensityChart(ds *census.Dataset, locations []string) *Spec {
	return BuildDensityChart(ds.FilterDensity(locations), locations)
}

// AgeDistributionChart filters ds and builds the single-year-of-age chart.
func AgeDistributionChart(ds *census.Dataset, location string, sex census.Sex) *Spec {
	return BuildAgeDistributionChart(ds.FilterAgeDistribution(location, sex), location, sex)
}

// GenderComparisonChart aggregates ds and builds the male/female totals chart.
func GenderComparisonChart(ds *census.Dataset, year int, locations []string, band census.AgeBandChoice) *Spec {
	return BuildGenderComparisonChart(ds.AggregateGenderComparison(year, locations, band), year, locations, band)
}

// BuildDensityChart builds grouped 2011/2022 density bars per location.
// The location axis follows the selection sorted alphabetically.
func BuildDensityChart(res census.DensityResult, selected []string) *Spec {
	if res.Status != census.StatusOK {
		return Placeholder(MsgSelectDensity)
	}

	x := make([]string, len(res.Rows))
	y2011 := make([]float64, len(res.Rows))
	y2022 := make([]float64, len(res.Rows))
	for i, r := range res.Rows {
		x[i] = r.Name
		y2011[i] = r.Density2011
		y2022[i] = r.Density2022
	}

	return &Spec{
		Kind:        KindBar,
		Title:       "Population Density: 2011 vs 2022",
		XAxisTitle:  "Location",
		YAxisTitle:  "People per Square Kilometer",
		LegendTitle: "Year",
		Categories:  sortedCopy(selected),
		BarMode:     "group",
		HoverMode:   "x unified",
		Series: []Series{
			newSeries("Density 2011", ColorSecondary,
				"<b>%{x}</b><br>2011 Density: %{y:.1f} per sq km<extra></extra>", x, y2011),
			newSeries("Density 2022", ColorPrimary,
				"<b>%{x}</b><br>2022 Density: %{y:.1f} per sq km<extra></extra>", x, y2022),
		},
		Layout: DefaultLayout(),
	}
}

// BuildAgeDistributionChart builds 2011 and 2022 population lines over
// single years of age for one location and sex.
func BuildAgeDistributionChart(res census.AgeDistributionResult, location string, sex census.Sex) *Spec {
	if location == "" || sex == "" {
		return Placeholder(MsgSelectAge)
	}
	if res.Status != census.StatusOK {
		return Placeholder(fmt.Sprintf("No data for %s / %s", location, sex.DisplayName()))
	}

	x := make([]string, len(res.Rows))
	y2011 := make([]float64, len(res.Rows))
	y2022 := make([]float64, len(res.Rows))
	for i, r := range res.Rows {
		x[i] = r.Age
		y2011[i] = float64(r.Population2011)
		y2022[i] = float64(r.Population2022)
	}

	return &Spec{
		Kind:         KindLine,
		Title:        fmt.Sprintf("%s Population Age Distribution in %s", sex.DisplayName(), location),
		XAxisTitle:   "Age",
		YAxisTitle:   "Estimated Population",
		LegendTitle:  "Year",
		Categories:   x,
		CategoricalX: true,
		HoverMode:    "x unified",
		Series: []Series{
			newSeries("Population 2011", ColorSecondary,
				"<b>Age: %{x}</b><br>2011 Population: %{y:,}<extra></extra>", x, y2011),
			newSeries("Population 2022", ColorPrimary,
				"<b>Age: %{x}</b><br>2022 Population: %{y:,}<extra></extra>", x, y2022),
		},
		Layout: DefaultLayout(),
	}
}

// BuildGenderComparisonChart builds grouped female/male total bars per
// location for one year and band choice.
func BuildGenderComparisonChart(res census.GenderComparisonResult, year int, locations []string, band census.AgeBandChoice) *Spec {
	switch res.Status {
	case census.StatusNoSelection:
		return Placeholder(MsgSelectGender)
	case census.StatusNoData:
		return Placeholder(fmt.Sprintf("No data for selection in %d (%s)", year, band.Label()))
	}

	series := make([]Series, 0, 2)
	for _, sex := range []census.Sex{census.SexFemale, census.SexMale} {
		var x []string
		var y []float64
		for _, r := range res.Rows {
			if r.Sex == sex {
				x = append(x, r.Name)
				y = append(y, float64(r.Population))
			}
		}
		color := ColorMale
		if sex == census.SexFemale {
			color = ColorFemale
		}
		hover := fmt.Sprintf("<b>%%{x}</b><br>%ss: %%{y:,}<br>Year: %d<br>Age Band: %s<extra></extra>",
			sex.DisplayName(), year, band.Label())
		series = append(series, newSeries(sex.DisplayName(), color, hover, x, y))
	}

	return &Spec{
		Kind:        KindBar,
		Title:       fmt.Sprintf("Population by Gender in %d (%s)", year, band.Label()),
		XAxisTitle:  "Location",
		YAxisTitle:  "Population",
		LegendTitle: "Gender",
		Categories:  sortedCopy(locations),
		BarMode:     "group",
		HoverMode:   "x unified",
		Series:      series,
		Layout:      DefaultLayout(),
	}
}

func sortedCopy(s []string) []string {
	out := slices.Clone(s)
	slices.Sort(out)
	return slices.Compact(out)
}
