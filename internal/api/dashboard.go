package api

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"slices"
	"strconv"

	"github.com/banshee-data/census.report/internal/census"
	"github.com/banshee-data/census.report/internal/httputil"
	"github.com/banshee-data/census.report/internal/monitoring"
	"github.com/banshee-data/census.report/internal/version"
)

// DashboardTitle heads the dashboard page.
const DashboardTitle = "UK Population Dashboard: 2011 vs 2022"

//go:embed templates/*
var templateFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html.tmpl"))

type option struct {
	Value    string
	Label    string
	Selected bool
}

type dashboardPage struct {
	Title   string
	Version string

	DensityLocations []option
	AgeLocations     []option
	Sexes            []option
	Years            []option
	GenderLocations  []option
	Bands            []option

	DensityURL, DensityPNG string
	AgeURL, AgePNG         string
	GenderURL, GenderPNG   string
}

// dashboardState is the selection of all three sections.
type dashboardState struct {
	Density Selection
	Age     Selection
	Gender  Selection
}

// defaultState mirrors the initial widget values: the four nations where
// present, ENGLAND (or the first location) for the age chart, Male, 2022 and
// all ages.
func (s *Server) defaultState() dashboardState {
	defaults := s.cfg.GetDefaultLocations()
	ageLocations := s.ds.AgeGenderLocations()

	var ageLocation []string
	switch {
	case slices.Contains(ageLocations, s.cfg.GetDefaultAgeLocation()):
		ageLocation = []string{s.cfg.GetDefaultAgeLocation()}
	case len(ageLocations) > 0:
		ageLocation = ageLocations[:1]
	}

	return dashboardState{
		Density: Selection{Locations: present(defaults, s.ds.DensityLocations())},
		Age:     Selection{Locations: ageLocation, Sex: census.SexMale},
		Gender: Selection{
			Locations: present(defaults, ageLocations),
			Year:      census.Year2022,
			Band:      census.AllBands(),
		},
	}
}

// parseState reads a submitted dashboard form. Until the form has been
// submitted the defaults apply.
func (s *Server) parseState(q url.Values) (dashboardState, error) {
	if q.Get("apply") == "" {
		return s.defaultState(), nil
	}

	var st dashboardState
	var err error
	if st.Density, err = ParseSelection(url.Values{"location": q["density_location"]}); err != nil {
		return st, err
	}
	if st.Age, err = ParseSelection(url.Values{"location": q["age_location"], "sex": q["sex"]}); err != nil {
		return st, err
	}
	st.Gender, err = ParseSelection(url.Values{"location": q["gender_location"], "year": q["year"], "band": q["band"]})
	return st, err
}

func (s *Server) showDashboard(w http.ResponseWriter, r *http.Request) {
	st, err := s.parseState(r.URL.Query())
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	page := dashboardPage{
		Title:            DashboardTitle,
		Version:          version.String(),
		DensityLocations: locationOptions(s.ds.DensityLocations(), st.Density.Locations),
		AgeLocations:     locationOptions(s.ds.AgeGenderLocations(), st.Age.Locations),
		GenderLocations:  locationOptions(s.ds.AgeGenderLocations(), st.Gender.Locations),
	}
	for _, sex := range census.Sexes {
		page.Sexes = append(page.Sexes, option{string(sex), sex.DisplayName(), sex == st.Age.Sex})
	}
	for _, year := range census.Years {
		y := strconv.Itoa(year)
		page.Years = append(page.Years, option{y, y, year == st.Gender.Year})
	}
	for _, label := range census.AgeBandOptions() {
		page.Bands = append(page.Bands, option{label, label, label == st.Gender.Band.Label()})
	}
	page.DensityURL, page.DensityPNG = chartURLs(ChartDensity, st.Density)
	page.AgeURL, page.AgePNG = chartURLs(ChartAge, st.Age)
	page.GenderURL, page.GenderPNG = chartURLs(ChartGender, st.Gender)

	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, page); err != nil {
		monitoring.Logf("dashboard template: %v", err)
		httputil.InternalServerError(w, "failed to render dashboard")
		return
	}
	w.Header().Set("Content-Type", httputil.ContentTypeHTML)
	buf.WriteTo(w)
}

func chartURLs(chart string, sel Selection) (html, png string) {
	q := sel.Query().Encode()
	html, png = "/charts/"+chart, "/charts/"+chart+".png"
	if q != "" {
		html += "?" + q
		png += "?" + q
	}
	return html, png
}

func locationOptions(all, selected []string) []option {
	out := make([]option, len(all))
	for i, loc := range all {
		out[i] = option{loc, loc, slices.Contains(selected, loc)}
	}
	return out
}

// present keeps the entries of want that appear in have, in want's order.
func present(want, have []string) []string {
	out := make([]string, 0, len(want))
	for _, w := range want {
		if slices.Contains(have, w) {
			out = append(out, w)
		}
	}
	return out
}
