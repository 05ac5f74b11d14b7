// Package charts turns filtered census views into chart specifications and
// renders them as go-echarts HTML or gonum/plot PNG images. Specs are plain
// data, decoupling chart preparation from any particular renderer.
package charts

import "gonum.org/v1/gonum/floats"

// Okabe & Ito colour-blind safe palette.
const (
	ColorBackground = "#FFFFFF"
	ColorText       = "#000000"
	ColorPrimary    = "#56B4E9" // sky blue, 2022
	ColorSecondary  = "#999999" // grey, 2011
	ColorMale       = "#0072B2"
	ColorFemale     = "#E69F00"
)

// FontFamily is the font stack used by every chart.
const FontFamily = `"Helvetica Neue", Helvetica, Arial, sans-serif`

// Kind selects the chart geometry.
type Kind string

const (
	KindBar  Kind = "bar"
	KindLine Kind = "line"
)

// Series is one named trace.
type Series struct {
	Name          string    `json:"name"`
	Color         string    `json:"color"`
	X             []string  `json:"x"`
	Y             []float64 `json:"y"`
	HoverTemplate string    `json:"hover_template"`
	// Total is the sum of Y, shown in legends and summaries.
	Total float64 `json:"total"`
}

// YAt returns the value for category x, or false when the series has none.
func (s Series) YAt(x string) (float64, bool) {
	for i, v := range s.X {
		if v == x {
			return s.Y[i], true
		}
	}
	return 0, false
}

// Margin is the plot margin in pixels.
type Margin struct {
	Left   int `json:"l"`
	Right  int `json:"r"`
	Top    int `json:"t"`
	Bottom int `json:"b"`
}

// Layout carries the presentation settings shared by all charts.
type Layout struct {
	FontFamily      string `json:"font_family"`
	TextColor       string `json:"text_color"`
	PaperBackground string `json:"paper_bgcolor"`
	PlotBackground  string `json:"plot_bgcolor"`
	Margin          Margin `json:"margin"`
}

// DefaultLayout is the layout every builder starts from.
func DefaultLayout() Layout {
	return Layout{
		FontFamily:      FontFamily,
		TextColor:       ColorText,
		PaperBackground: ColorBackground,
		PlotBackground:  ColorBackground,
		Margin:          Margin{Left: 40, Right: 20, Top: 60, Bottom: 40},
	}
}

// Spec is a renderer-independent chart description.
type Spec struct {
	Kind        Kind     `json:"kind"`
	Title       string   `json:"title"`
	XAxisTitle  string   `json:"x_axis_title,omitempty"`
	YAxisTitle  string   `json:"y_axis_title,omitempty"`
	LegendTitle string   `json:"legend_title,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	// CategoricalX forces the x axis to be treated as labels even when they
	// look numeric (ages).
	CategoricalX bool     `json:"categorical_x,omitempty"`
	BarMode      string   `json:"bar_mode,omitempty"`
	HoverMode    string   `json:"hover_mode,omitempty"`
	Series       []Series `json:"series"`
	Layout       Layout   `json:"layout"`
	// Placeholder marks a chart with no data, whose Title carries the message.
	Placeholder bool `json:"placeholder,omitempty"`
}

// Placeholder returns an empty chart whose title explains why nothing is shown.
func Placeholder(message string) *Spec {
	return &Spec{
		Kind:        KindBar,
		Title:       message,
		Series:      []Series{},
		Layout:      DefaultLayout(),
		Placeholder: true,
	}
}

// MaxY returns the largest value across all series, or 0 for an empty chart.
func (s *Spec) MaxY() float64 {
	m := 0.0
	for _, ser := range s.Series {
		if len(ser.Y) > 0 {
			m = max(m, floats.Max(ser.Y))
		}
	}
	return m
}

func newSeries(name, color, hover string, x []string, y []float64) Series {
	return Series{
		Name:          name,
		Color:         color,
		X:             x,
		Y:             y,
		HoverTemplate: hover,
		Total:         floats.Sum(y),
	}
}
