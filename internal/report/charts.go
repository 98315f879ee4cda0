package report

import (
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"nokicli/internal/dataprocessing"
)

// Chart colors matching the published report style: evacuate is always
// green, stay is always coral, player types are sky blue.
var (
	colorEvacuate = color.RGBA{R: 144, G: 238, B: 144, A: 255}
	colorStay     = color.RGBA{R: 255, G: 127, B: 80, A: 255}
	colorPlayer   = color.RGBA{R: 135, G: 206, B: 235, A: 255}
	colorExtra    = color.RGBA{R: 192, G: 192, B: 192, A: 255}
)

// choiceColor returns the fixed color for a known choice label
func choiceColor(label string) color.Color {
	switch label {
	case dataprocessing.ChoiceEvacuate:
		return colorEvacuate
	case dataprocessing.ChoiceStay:
		return colorStay
	default:
		return colorExtra
	}
}

// renderPlayerBreakdown renders the player type distribution bar chart
func renderPlayerBreakdown(b dataprocessing.Breakdown, path string) error {
	p := plot.New()
	p.Title.Text = "Breakdown of Player Types"
	p.Y.Label.Text = "Count"

	if len(b.Labels) > 0 {
		bars, err := plotter.NewBarChart(intValues(b.Counts), vg.Points(30))
		if err != nil {
			return fmt.Errorf("failed to build player type bars: %w", err)
		}
		bars.Color = colorPlayer
		bars.LineStyle.Width = vg.Points(0.5)
		p.Add(bars)
		p.NominalX(b.Labels...)

		if err := addCountLabels(p, b); err != nil {
			return err
		}
	}

	return savePNG(p, 8*vg.Inch, 6*vg.Inch, path)
}

// renderChoiceOverall renders the overall evacuation choice bar chart,
// with choices in the fixed display order.
func renderChoiceOverall(b dataprocessing.Breakdown, path string) error {
	p := plot.New()
	p.Title.Text = "Overall Evacuation Choices"
	p.Y.Label.Text = "Count"

	// One single-bar series per choice so each keeps its fixed color
	width := vg.Points(30)
	for i, label := range b.Labels {
		values := make(plotter.Values, len(b.Labels))
		values[i] = float64(b.Counts[i])
		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return fmt.Errorf("failed to build choice bars: %w", err)
		}
		bars.Color = choiceColor(label)
		bars.LineStyle.Width = vg.Points(0.5)
		p.Add(bars)
	}
	p.NominalX(b.Labels...)

	if err := addCountLabels(p, b); err != nil {
		return err
	}

	return savePNG(p, 6*vg.Inch, 6*vg.Inch, path)
}

// renderChoiceByType renders the grouped bar chart of evacuation choice
// broken down by player type.
func renderChoiceByType(ct dataprocessing.CrossTab, path string) error {
	p := plot.New()
	p.Title.Text = "Evacuation Choice by Player Type"
	p.X.Label.Text = "Player Type"
	p.Y.Label.Text = "Count"

	if len(ct.Rows) > 0 {
		width := vg.Points(20)
		offset := -width * vg.Length(len(ct.Cols)-1) / 2

		for j, col := range ct.Cols {
			values := make(plotter.Values, len(ct.Rows))
			for i := range ct.Rows {
				values[i] = float64(ct.Counts[i][j])
			}
			bars, err := plotter.NewBarChart(values, width)
			if err != nil {
				return fmt.Errorf("failed to build grouped bars: %w", err)
			}
			bars.Color = choiceColor(col)
			bars.LineStyle.Width = vg.Points(0.5)
			bars.Offset = offset + width*vg.Length(j)
			p.Add(bars)
			p.Legend.Add(col, bars)
		}

		p.NominalX(ct.Rows...)
		p.Legend.Top = true
	}

	return savePNG(p, 12*vg.Inch, 7*vg.Inch, path)
}

// savePNG writes the plot as PNG regardless of the path's extension,
// since charts are first rendered to temporary ".tmp" names.
func savePNG(p *plot.Plot, width, height vg.Length, path string) error {
	w, err := p.WriterTo(width, height, "png")
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := w.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// addCountLabels annotates each bar with "count (pct%)"
func addCountLabels(p *plot.Plot, b dataprocessing.Breakdown) error {
	xys := make(plotter.XYs, len(b.Labels))
	texts := make([]string, len(b.Labels))
	for i := range b.Labels {
		xys[i].X = float64(i)
		xys[i].Y = float64(b.Counts[i])
		texts[i] = fmt.Sprintf("%d (%.1f%%)", b.Counts[i], b.Percentages[i])
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return fmt.Errorf("failed to build bar labels: %w", err)
	}
	p.Add(labels)
	return nil
}

// intValues converts counts to plotter values
func intValues(counts []int) plotter.Values {
	values := make(plotter.Values, len(counts))
	for i, n := range counts {
		values[i] = float64(n)
	}
	return values
}
