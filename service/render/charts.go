package render

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/guregu/null/v6"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	ex "github.com/martinozimek/india-etf/data/extensions"
	m "github.com/martinozimek/india-etf/data/models"
	sm "github.com/martinozimek/india-etf/service/models"
)

const (
	chartWidth  = 10 * vg.Inch
	chartHeight = 5 * vg.Inch

	quarterFormat = "2006-01"

	// SummaryChartName is the file the summary bar chart is written to inside the charts dir
	SummaryChartName = "correlation_summary.png"
)

// RenderEtfCharts draws every chart of one etf into dir and returns the files written.
// window is only used to label the rolling chart.
func RenderEtfCharts(dir string, a *sm.EtfAnalysis, window int) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating %s: %w", dir, err)
	}

	charts := []struct {
		suffix string
		build  func(*sm.EtfAnalysis) (*plot.Plot, error)
	}{
		{"normalized", normalizedChart},
		{"scatter", scatterChart},
		{"rolling", func(a *sm.EtfAnalysis) (*plot.Plot, error) { return rollingChart(a, window) }},
		{"growth", growthChart},
		{"pct_change", pctChangeChart},
	}

	paths := make([]string, 0, len(charts))
	for _, c := range charts {
		p, err := c.build(a)
		if err != nil {
			return paths, fmt.Errorf("error building %s chart for %s: %w", c.suffix, a.Summary.Etf, err)
		}

		path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", a.Summary.Etf, c.suffix))
		if err := p.Save(chartWidth, chartHeight, path); err != nil {
			return paths, fmt.Errorf("error saving %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	return paths, nil
}

// RenderSummaryChart draws pearson r of every analyzed etf as horizontal bars, highest on top
func RenderSummaryChart(dir string, summaries []m.CorrelationSummary) (string, error) {
	if len(summaries) == 0 {
		return "", nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating %s: %w", dir, err)
	}

	// bars are drawn bottom up
	ordered := slices.Clone(summaries)
	slices.Reverse(ordered)

	values := make(plotter.Values, len(ordered))
	names := make([]string, len(ordered))
	for i, s := range ordered {
		values[i] = s.PearsonR
		names[i] = s.Etf
	}

	p := plot.New()
	p.Title.Text = "ETF vs GDP, Pearson correlation"
	p.X.Label.Text = "Pearson r"
	p.X.Min, p.X.Max = -1, 1

	bars, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return "", err
	}
	bars.Horizontal = true
	bars.Color = plotutil.Color(0)
	bars.LineStyle.Width = 0

	zero, err := plotter.NewLine(plotter.XYs{{X: 0, Y: -0.5}, {X: 0, Y: float64(len(ordered)) - 0.5}})
	if err != nil {
		return "", err
	}
	zero.Color = color.Black
	zero.Dashes = plotutil.Dashes(1)

	p.Add(plotter.NewGrid(), bars, zero)
	p.NominalY(names...)

	height := max(chartHeight, vg.Length(len(ordered))*vg.Points(22))
	path := filepath.Join(dir, SummaryChartName)
	if err := p.Save(chartWidth, height, path); err != nil {
		return "", fmt.Errorf("error saving %s: %w", path, err)
	}

	return path, nil
}

func normalizedChart(a *sm.EtfAnalysis) (*plot.Plot, error) {
	p := timeChart(a.Summary.Etf+" vs GDP, normalized to first quarter", "Index (first quarter = 1)")
	xs := quarterAxis(a.Records)

	if err := addSeries(p, "ETF", 0, xs, floats(a.Derived.EtfNormalized)); err != nil {
		return nil, err
	}
	if err := addSeries(p, "GDP", 1, xs, floats(a.Derived.GdpNormalized)); err != nil {
		return nil, err
	}
	return p, nil
}

func growthChart(a *sm.EtfAnalysis) (*plot.Plot, error) {
	p := timeChart(a.Summary.Etf+" vs GDP, cumulative growth", "Growth factor")
	xs := quarterAxis(a.Records)

	if err := addSeries(p, "ETF", 0, xs, floats(a.Derived.EtfGrowth)); err != nil {
		return nil, err
	}
	if err := addSeries(p, "GDP", 1, xs, floats(a.Derived.GdpGrowth)); err != nil {
		return nil, err
	}
	return p, nil
}

func rollingChart(a *sm.EtfAnalysis, window int) (*plot.Plot, error) {
	p := timeChart(fmt.Sprintf("%s vs GDP, rolling %d quarter correlation", a.Summary.Etf, window), "Correlation")
	p.Y.Min, p.Y.Max = -1, 1

	xs := quarterAxis(a.Records)
	pearson := ex.Map(a.Rolling, func(r m.RollingCorrelationPoint) null.Float { return r.Pearson })
	spearman := ex.Map(a.Rolling, func(r m.RollingCorrelationPoint) null.Float { return r.Spearman })

	if err := addSeries(p, "Pearson", 0, xs, pearson); err != nil {
		return nil, err
	}
	if err := addSeries(p, "Spearman", 1, xs, spearman); err != nil {
		return nil, err
	}

	zero := plotter.NewFunction(func(float64) float64 { return 0 })
	zero.Color = color.Black
	zero.Dashes = plotutil.Dashes(1)
	p.Add(zero)

	return p, nil
}

func scatterChart(a *sm.EtfAnalysis) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s price vs GDP (r = %.4f)", a.Summary.Etf, a.Summary.PearsonR)
	p.X.Label.Text = "GDP (USD bn)"
	p.Y.Label.Text = "ETF price"
	p.Add(plotter.NewGrid())

	gdp := ex.Map(m.GdpValues(a.Records), func(v float64) float64 { return v / 1e9 })
	return p, addScatter(p, gdp, m.EtfPrices(a.Records))
}

func pctChangeChart(a *sm.EtfAnalysis) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = a.Summary.Etf + " vs GDP, quarter over quarter change"
	p.X.Label.Text = "GDP change (%)"
	p.Y.Label.Text = "ETF change (%)"
	p.Add(plotter.NewGrid())

	var x, y []float64
	for i := range min(len(a.Derived.GdpPctChange), len(a.Derived.EtfPctChange)) {
		g, e := a.Derived.GdpPctChange[i], a.Derived.EtfPctChange[i]
		if !valid(g) || !valid(e) {
			continue
		}
		x = append(x, g.Float64*100)
		y = append(y, e.Float64*100)
	}
	return p, addScatter(p, x, y)
}

func timeChart(title, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Quarter"
	p.Y.Label.Text = yLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: quarterFormat}
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	return p
}

// addSeries draws ys against xs as one line per run of valid points, gaps break the line
func addSeries(p *plot.Plot, name string, style int, xs []float64, ys []null.Float) error {
	legend := false
	for _, segment := range segments(xs, ys) {
		line, points, err := plotter.NewLinePoints(segment)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(style)
		line.Width = vg.Points(1.5)
		points.Color = plotutil.Color(style)
		points.Shape = draw.CircleGlyph{}
		points.Radius = vg.Points(2)
		p.Add(line, points)

		if !legend {
			p.Legend.Add(name, line, points)
			legend = true
		}
	}
	return nil
}

// addScatter plots the points with an ordinary least squares fit when the points allow one
func addScatter(p *plot.Plot, x, y []float64) error {
	xys := make(plotter.XYs, 0, len(x))
	for i := range x {
		if ex.IsFinite(x[i]) && ex.IsFinite(y[i]) {
			xys = append(xys, plotter.XY{X: x[i], Y: y[i]})
		}
	}
	if len(xys) == 0 {
		return nil
	}

	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	scatter.Color = plotutil.Color(0)
	scatter.Radius = vg.Points(3)
	p.Add(scatter)

	fx := ex.Map(xys, func(v plotter.XY) float64 { return v.X })
	fy := ex.Map(xys, func(v plotter.XY) float64 { return v.Y })
	if len(xys) < 2 || ex.AreAllEqual(fx) {
		return nil
	}

	alpha, beta := stat.LinearRegression(fx, fy, nil, false)
	fit := plotter.NewFunction(func(v float64) float64 { return alpha + beta*v })
	fit.Color = plotutil.Color(1)
	fit.Dashes = plotutil.Dashes(2)
	p.Add(fit)
	p.Legend.Add("Least squares fit", fit)

	return nil
}

func segments(xs []float64, ys []null.Float) []plotter.XYs {
	var res []plotter.XYs
	var current plotter.XYs
	for i := range min(len(xs), len(ys)) {
		if !valid(ys[i]) {
			if len(current) > 0 {
				res = append(res, current)
				current = nil
			}
			continue
		}
		current = append(current, plotter.XY{X: xs[i], Y: ys[i].Float64})
	}
	if len(current) > 0 {
		res = append(res, current)
	}
	return res
}

func quarterAxis(records []m.AlignedRecord) []float64 {
	return ex.Map(m.QuarterEnds(records), func(q time.Time) float64 { return float64(q.Unix()) })
}

func floats(values []float64) []null.Float {
	return ex.Map(values, null.FloatFrom)
}

func valid(v null.Float) bool {
	return v.Valid && ex.IsFinite(v.Float64)
}
