package charts

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// DefaultAssetsHost serves the echarts JavaScript when no local copy is configured.
const DefaultAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

// HTMLOptions controls page-level settings of rendered HTML charts.
type HTMLOptions struct {
	AssetsHost string
	Width      string
	Height     string
}

func (o HTMLOptions) withDefaults() HTMLOptions {
	if o.AssetsHost == "" {
		o.AssetsHost = DefaultAssetsHost
	}
	if o.Width == "" {
		o.Width = "100%"
	}
	if o.Height == "" {
		o.Height = "480px"
	}
	return o
}

// RenderHTML writes spec as a standalone go-echarts HTML page.
func RenderHTML(w io.Writer, spec *Spec, o HTMLOptions) error {
	o = o.withDefaults()
	global := globalOpts(spec, o)

	switch {
	case spec.Placeholder || spec.Kind == KindBar:
		bar := charts.NewBar()
		bar.SetGlobalOptions(global...)
		bar.SetXAxis(spec.Categories)
		for _, s := range spec.Series {
			data := make([]opts.BarData, len(spec.Categories))
			for i, c := range spec.Categories {
				data[i] = opts.BarData{Value: valueOrGap(s, c)}
			}
			bar.AddSeries(s.Name, data, charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}))
		}
		return bar.Render(w)

	case spec.Kind == KindLine:
		line := charts.NewLine()
		line.SetGlobalOptions(global...)
		line.SetXAxis(spec.Categories)
		for _, s := range spec.Series {
			data := make([]opts.LineData, len(spec.Categories))
			for i, c := range spec.Categories {
				data[i] = opts.LineData{Value: valueOrGap(s, c)}
			}
			line.AddSeries(s.Name, data,
				charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}),
				charts.WithLineStyleOpts(opts.LineStyle{Color: s.Color, Width: 2}),
				charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
			)
		}
		return line.Render(w)
	}
	return fmt.Errorf("unsupported chart kind %q", spec.Kind)
}

func globalOpts(spec *Spec, o HTMLOptions) []charts.GlobalOpts {
	textStyle := &opts.TextStyle{Color: spec.Layout.TextColor, FontFamily: spec.Layout.FontFamily}
	m := spec.Layout.Margin

	global := []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       spec.Title,
			Width:           o.Width,
			Height:          o.Height,
			BackgroundColor: spec.Layout.PaperBackground,
			AssetsHost:      o.AssetsHost,
		}),
		charts.WithTitleOpts(opts.Title{Title: spec.Title, TitleStyle: textStyle}),
		charts.WithGridOpts(opts.Grid{
			Left:         fmt.Sprint(m.Left),
			Right:        fmt.Sprint(m.Right),
			Top:          fmt.Sprint(m.Top),
			Bottom:       fmt.Sprint(m.Bottom),
			ContainLabel: opts.Bool(true),
		}),
	}

	if spec.Placeholder {
		return append(global,
			charts.WithXAxisOpts(opts.XAxis{Show: opts.Bool(false)}),
			charts.WithYAxisOpts(opts.YAxis{Show: opts.Bool(false)}),
			charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		)
	}

	return append(global,
		// "x unified" hover: one tooltip listing every series at the category
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom", TextStyle: textStyle}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Name: spec.XAxisTitle, NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: spec.YAxisTitle}),
	)
}

// valueOrGap returns the series value for a category, or "-" which echarts
// draws as a gap.
func valueOrGap(s Series, category string) interface{} {
	if v, ok := s.YAt(category); ok {
		return v
	}
	return "-"
}
