package charts

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/census.report/internal/census"
	"github.com/banshee-data/census.report/internal/monitoring"
	"github.com/banshee-data/census.report/internal/testutil"
)

func fixtureDataset(t *testing.T) *census.Dataset {
	t.Helper()
	defer monitoring.Mute()()
	ds, err := census.Load(testutil.NewFixtureFS(), testutil.DensityFixture, testutil.AgeGenderFixture)
	require.NoError(t, err)
	return ds
}

func seriesColors(s *Spec) []string {
	out := make([]string, len(s.Series))
	for i, ser := range s.Series {
		out[i] = ser.Color
	}
	return out
}

func TestDensityChart(t *testing.T) {
	ds := fixtureDataset(t)

	spec := DensityChart(ds, []string{"WALES", "ENGLAND"})
	require.False(t, spec.Placeholder)

	assert.Equal(t, KindBar, spec.Kind)
	assert.Equal(t, "Population Density: 2011 vs 2022", spec.Title)
	assert.Equal(t, "group", spec.BarMode)
	assert.Equal(t, "x unified", spec.HoverMode)
	assert.Equal(t, "Year", spec.LegendTitle)
	assert.Equal(t, []string{"ENGLAND", "WALES"}, spec.Categories)
	assert.Equal(t, []string{ColorSecondary, ColorPrimary}, seriesColors(spec))

	require.Len(t, spec.Series, 2)
	assert.Equal(t, "Density 2011", spec.Series[0].Name)
	assert.Equal(t, "Density 2022", spec.Series[1].Name)

	v, ok := spec.Series[1].YAt("ENGLAND")
	require.True(t, ok)
	assert.InDelta(t, 438.2, v, 1e-9)
	v, ok = spec.Series[0].YAt("WALES")
	require.True(t, ok)
	assert.InDelta(t, 147.7, v, 1e-9)
	assert.InDelta(t, 407.5+147.7, spec.Series[0].Total, 1e-9)
}

func TestDensityChart_Placeholders(t *testing.T) {
	ds := fixtureDataset(t)

	for name, sel := range map[string][]string{
		"empty":   nil,
		"unknown": {"ATLANTIS"},
	} {
		t.Run(name, func(t *testing.T) {
			spec := DensityChart(ds, sel)
			assert.True(t, spec.Placeholder)
			assert.Equal(t, MsgSelectDensity, spec.Title)
			assert.Empty(t, spec.Series)
		})
	}
}

func TestAgeDistributionChart(t *testing.T) {
	ds := fixtureDataset(t)

	spec := AgeDistributionChart(ds, "ENGLAND", census.SexMale)
	require.False(t, spec.Placeholder)

	assert.Equal(t, KindLine, spec.Kind)
	assert.Equal(t, "Male Population Age Distribution in ENGLAND", spec.Title)
	assert.True(t, spec.CategoricalX)
	if diff := cmp.Diff(testutil.FixtureAges, spec.Categories); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{ColorSecondary, ColorPrimary}, seriesColors(spec))

	v, ok := spec.Series[0].YAt("90+")
	require.True(t, ok)
	assert.Equal(t, float64(testutil.FixturePopulation("ENGLAND", "M", "90+", 2011)), v)
	v, ok = spec.Series[1].YAt("0")
	require.True(t, ok)
	assert.Equal(t, float64(testutil.FixturePopulation("ENGLAND", "M", "0", 2022)), v)
}

func TestAgeDistributionChart_Placeholders(t *testing.T) {
	ds := fixtureDataset(t)

	tests := []struct {
		name     string
		location string
		sex      census.Sex
		want     string
	}{
		{"no location", "", census.SexMale, MsgSelectAge},
		{"no sex", "ENGLAND", "", MsgSelectAge},
		{"no match", "LONDON", census.SexFemale, "No data for LONDON / Female"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := AgeDistributionChart(ds, tt.location, tt.sex)
			assert.True(t, spec.Placeholder)
			assert.Equal(t, tt.want, spec.Title)
		})
	}
}

func TestGenderComparisonChart(t *testing.T) {
	ds := fixtureDataset(t)

	spec := GenderComparisonChart(ds, 2022, []string{"SCOTLAND"}, census.SpecificBand(census.Band0To17))
	require.False(t, spec.Placeholder)

	assert.Equal(t, "Population by Gender in 2022 (0-17)", spec.Title)
	assert.Equal(t, "Gender", spec.LegendTitle)
	assert.Equal(t, []string{"SCOTLAND"}, spec.Categories)
	assert.Equal(t, []string{ColorFemale, ColorMale}, seriesColors(spec))

	female := testutil.FixturePopulation("SCOTLAND", "F", "0", 2022) + testutil.FixturePopulation("SCOTLAND", "F", "17", 2022)
	male := testutil.FixturePopulation("SCOTLAND", "M", "0", 2022) + testutil.FixturePopulation("SCOTLAND", "M", "17", 2022)

	require.Len(t, spec.Series, 2)
	assert.Equal(t, "Female", spec.Series[0].Name)
	assert.Equal(t, []float64{float64(female)}, spec.Series[0].Y)
	assert.Equal(t, "Male", spec.Series[1].Name)
	assert.Equal(t, []float64{float64(male)}, spec.Series[1].Y)
	assert.Contains(t, spec.Series[0].HoverTemplate, "Age Band: 0-17")
}

func TestGenderComparisonChart_AllAges(t *testing.T) {
	ds := fixtureDataset(t)

	spec := GenderComparisonChart(ds, 2011, []string{"WALES", "ENGLAND"}, census.AllBands())
	assert.Equal(t, "Population by Gender in 2011 (All Ages)", spec.Title)
	assert.Equal(t, []string{"ENGLAND", "WALES"}, spec.Categories)
	assert.Equal(t, []string{"ENGLAND", "WALES"}, spec.Series[0].X)
}

func TestGenderComparisonChart_Placeholders(t *testing.T) {
	ds := fixtureDataset(t)

	spec := GenderComparisonChart(ds, 2022, nil, census.AllBands())
	assert.True(t, spec.Placeholder)
	assert.Equal(t, MsgSelectGender, spec.Title)

	spec = GenderComparisonChart(ds, 2022, []string{"LONDON"}, census.SpecificBand(census.Band75Plus))
	assert.True(t, spec.Placeholder)
	assert.Equal(t, "No data for selection in 2022 (75+)", spec.Title)
}

func TestPlaceholder(t *testing.T) {
	spec := Placeholder("nothing here")
	assert.True(t, spec.Placeholder)
	assert.Equal(t, "nothing here", spec.Title)
	assert.Empty(t, spec.Series)
	assert.Equal(t, DefaultLayout(), spec.Layout)
	assert.Zero(t, spec.MaxY())
}

func TestSpec_MaxY(t *testing.T) {
	spec := &Spec{Series: []Series{
		newSeries("a", ColorPrimary, "", []string{"x", "y"}, []float64{1, 7}),
		newSeries("b", ColorSecondary, "", nil, nil),
		newSeries("c", ColorMale, "", []string{"x"}, []float64{3}),
	}}
	assert.Equal(t, 7.0, spec.MaxY())
	assert.Equal(t, 8.0, spec.Series[0].Total)
}

func TestDefaultLayout(t *testing.T) {
	l := DefaultLayout()
	assert.Equal(t, Margin{Left: 40, Right: 20, Top: 60, Bottom: 40}, l.Margin)
	assert.Equal(t, ColorBackground, l.PaperBackground)
	assert.Equal(t, FontFamily, l.FontFamily)
}
