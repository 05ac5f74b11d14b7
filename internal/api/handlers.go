package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/banshee-data/census.report/internal/census"
	"github.com/banshee-data/census.report/internal/charts"
	"github.com/banshee-data/census.report/internal/httputil"
	"github.com/banshee-data/census.report/internal/version"
)

// buildChart recomputes filter and builder for one chart.
func (s *Server) buildChart(chart string, sel Selection) *charts.Spec {
	switch chart {
	case ChartDensity:
		return charts.DensityChart(s.ds, sel.Locations)
	case ChartAge:
		return charts.AgeDistributionChart(s.ds, sel.Location(), sel.Sex)
	default:
		return charts.GenderComparisonChart(s.ds, sel.Year, sel.Locations, sel.Band)
	}
}

// parseChartRequest resolves the {chart} path value and query selection,
// writing a 404 or 400 on failure.
func (s *Server) parseChartRequest(w http.ResponseWriter, r *http.Request) (chart, format string, sel Selection, ok bool) {
	chart, format, ok = splitChart(r.PathValue("chart"))
	if !ok {
		httputil.NotFound(w, fmt.Sprintf("unknown chart %q", r.PathValue("chart")))
		return "", "", sel, false
	}
	sel, err := ParseSelection(r.URL.Query())
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return "", "", sel, false
	}
	if chart == ChartAge && len(sel.Locations) > 1 {
		httputil.BadRequest(w, "age chart takes a single location")
		return "", "", sel, false
	}
	return chart, format, sel, true
}

func (s *Server) renderChart(w http.ResponseWriter, r *http.Request) {
	chart, format, sel, ok := s.parseChartRequest(w, r)
	if !ok {
		return
	}
	spec := s.buildChart(chart, sel)

	if format == "png" {
		width, height := s.pngSize()
		httputil.WriteRendered(w, httputil.ContentTypePNG, func(out io.Writer) error {
			return charts.RenderPNG(out, spec, width, height)
		})
		return
	}
	httputil.WriteRendered(w, httputil.ContentTypeHTML, func(out io.Writer) error {
		return charts.RenderHTML(out, spec, s.htmlOptions())
	})
}

func (s *Server) showChartSpec(w http.ResponseWriter, r *http.Request) {
	chart, format, sel, ok := s.parseChartRequest(w, r)
	if !ok {
		return
	}
	if format != "html" {
		httputil.NotFound(w, "chart specs are JSON only")
		return
	}
	httputil.WriteJSONOK(w, s.buildChart(chart, sel))
}

// Options lists the values offered by the dashboard widgets.
type Options struct {
	DensityLocations   []string          `json:"density_locations"`
	AgeGenderLocations []string          `json:"age_gender_locations"`
	Genders            map[string]string `json:"genders"`
	Years              []int             `json:"years"`
	AgeBands           []string          `json:"age_bands"`
}

func (s *Server) options() Options {
	genders := make(map[string]string, len(census.Sexes))
	for _, sex := range census.Sexes {
		genders[string(sex)] = sex.DisplayName()
	}
	return Options{
		DensityLocations:   s.ds.DensityLocations(),
		AgeGenderLocations: s.ds.AgeGenderLocations(),
		Genders:            genders,
		Years:              append([]int(nil), census.Years...),
		AgeBands:           census.AgeBandOptions(),
	}
}

func (s *Server) showOptions(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOK(w, s.options())
}

func (s *Server) showHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status":  "ok",
		"version": version.String(),
	}
	if s.snapshot != nil {
		stats, err := s.snapshot.Stats(r.Context())
		if err != nil {
			resp["snapshot_error"] = err.Error()
		} else {
			resp["snapshot"] = stats
		}
	}
	httputil.WriteJSONOK(w, resp)
}
