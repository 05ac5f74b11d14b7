package charts

import (
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Default PNG dimensions.
const (
	DefaultPNGWidth  = 8 * vg.Inch
	DefaultPNGHeight = 5 * vg.Inch
)

// maxNominalLabels caps x tick labels; denser axes label every tenth category.
const maxNominalLabels = 20

// RenderPNG draws spec with gonum/plot and writes a PNG image to w.
func RenderPNG(w io.Writer, spec *Spec, width, height vg.Length) error {
	if width <= 0 {
		width = DefaultPNGWidth
	}
	if height <= 0 {
		height = DefaultPNGHeight
	}

	p, err := newPlot(spec, width)
	if err != nil {
		return err
	}

	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("failed to create png writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write png: %w", err)
	}
	return nil
}

func newPlot(spec *Spec, width vg.Length) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = spec.Title
	p.BackgroundColor = parseHexColor(spec.Layout.PaperBackground)
	textColor := parseHexColor(spec.Layout.TextColor)
	p.Title.TextStyle.Color = textColor

	if spec.Placeholder {
		p.HideAxes()
		return p, nil
	}

	p.X.Label.Text = spec.XAxisTitle
	p.Y.Label.Text = spec.YAxisTitle
	p.Legend.Top = true
	p.Legend.TextStyle.Color = textColor

	switch spec.Kind {
	case KindBar:
		if err := addBars(p, spec, width); err != nil {
			return nil, err
		}
	case KindLine:
		if err := addLines(p, spec); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported chart kind %q", spec.Kind)
	}

	p.NominalX(nominalLabels(spec.Categories)...)
	p.Y.Min = 0
	if m := spec.MaxY(); m > 0 {
		// headroom for the legend
		p.Y.Max = m * 1.15
	}
	return p, nil
}

func addBars(p *plot.Plot, spec *Spec, width vg.Length) error {
	n := len(spec.Series)
	if n == 0 || len(spec.Categories) == 0 {
		return nil
	}
	barWidth := width * 0.6 / vg.Length(len(spec.Categories)*n)

	for i, s := range spec.Series {
		values := make(plotter.Values, len(spec.Categories))
		for j, c := range spec.Categories {
			if v, ok := s.YAt(c); ok {
				values[j] = v
			}
		}
		bars, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return fmt.Errorf("series %s: %w", s.Name, err)
		}
		bars.LineStyle.Width = 0
		bars.Color = parseHexColor(s.Color)
		bars.Offset = vg.Length(float64(i)-float64(n-1)/2) * barWidth
		p.Add(bars)
		p.Legend.Add(s.Name, bars)
	}
	return nil
}

func addLines(p *plot.Plot, spec *Spec) error {
	for _, s := range spec.Series {
		xys := make(plotter.XYs, 0, len(spec.Categories))
		for j, c := range spec.Categories {
			if v, ok := s.YAt(c); ok {
				xys = append(xys, plotter.XY{X: float64(j), Y: v})
			}
		}
		if len(xys) == 0 {
			continue
		}
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return fmt.Errorf("series %s: %w", s.Name, err)
		}
		c := parseHexColor(s.Color)
		line.Color = c
		line.Width = vg.Points(2)
		points.Color = c
		points.Radius = vg.Points(1.5)
		p.Add(line, points)
		p.Legend.Add(s.Name, line, points)
	}
	return nil
}

// nominalLabels thins long category axes so tick labels stay legible.
func nominalLabels(categories []string) []string {
	if len(categories) <= maxNominalLabels {
		return categories
	}
	labels := make([]string, len(categories))
	for i, c := range categories {
		if i%10 == 0 || i == len(categories)-1 {
			labels[i] = c
		}
	}
	return labels
}

// parseHexColor converts "#RRGGBB" to a colour, falling back to black.
func parseHexColor(s string) color.Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.Black
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.Black
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
