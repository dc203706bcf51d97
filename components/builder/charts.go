package builder

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "300px"

// ChartRenderer turns chart content into embeddable HTML.
type ChartRenderer interface {
	RenderChart(id string, content ChartContent) (string, error)
}

// EChartsRenderer renders chart elements with go-echarts.
type EChartsRenderer struct {
	theme      string
	assetsHost string
	height     string
	cache      RenderCache
}

// EChartsOption customizes the renderer.
type EChartsOption func(*EChartsRenderer)

// WithChartTheme sets the ECharts theme (defaults to Westeros).
func WithChartTheme(theme string) EChartsOption {
	return func(r *EChartsRenderer) {
		if theme != "" {
			r.theme = theme
		}
	}
}

// WithChartAssetsHost rewrites the assets host so ECharts JS loads from a CDN.
func WithChartAssetsHost(host string) EChartsOption {
	return func(r *EChartsRenderer) {
		r.assetsHost = host
	}
}

// WithChartHeight overrides the chart container height.
func WithChartHeight(height string) EChartsOption {
	return func(r *EChartsRenderer) {
		if height != "" {
			r.height = height
		}
	}
}

// WithChartCache injects a render cache.
func WithChartCache(cache RenderCache) EChartsOption {
	return func(r *EChartsRenderer) {
		r.cache = cache
	}
}

// NewEChartsRenderer builds a renderer.
func NewEChartsRenderer(options ...EChartsOption) *EChartsRenderer {
	r := &EChartsRenderer{
		theme:  types.ThemeWesteros,
		height: defaultChartHeight,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// RenderChart renders the chart, consulting the cache when one is configured.
func (r *EChartsRenderer) RenderChart(id string, content ChartContent) (string, error) {
	if content.Data == nil {
		return "", fmt.Errorf("builder: chart %s has no data", id)
	}
	render := func() (string, error) {
		return r.render(id, content)
	}
	if r.cache == nil {
		return render()
	}
	return r.cache.Chart(id, content, render)
}

func (r *EChartsRenderer) render(id string, content ChartContent) (string, error) {
	switch strings.ToLower(content.Kind) {
	case "", "bar":
		return r.renderBar(id, content.Data)
	case "line":
		return r.renderLine(id, content.Data)
	case "pie":
		return r.renderPie(id, content.Data)
	default:
		return "", fmt.Errorf("builder: unsupported chart type: %s", content.Kind)
	}
}

func (r *EChartsRenderer) renderBar(id string, data *ChartData) (string, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(r.globalOptions(id)...)
	bar.SetXAxis(data.Labels)
	for _, ds := range data.Datasets {
		values := make([]opts.BarData, len(ds.Data))
		for i, v := range ds.Data {
			values[i] = opts.BarData{Name: labelAt(data.Labels, i), Value: v}
		}
		bar.AddSeries(ds.Label, values, seriesStyle(ds)...)
	}
	return renderChart(bar)
}

func (r *EChartsRenderer) renderLine(id string, data *ChartData) (string, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(r.globalOptions(id)...)
	line.SetXAxis(data.Labels)
	for _, ds := range data.Datasets {
		values := make([]opts.LineData, len(ds.Data))
		for i, v := range ds.Data {
			values[i] = opts.LineData{Name: labelAt(data.Labels, i), Value: v}
		}
		line.AddSeries(ds.Label, values, seriesStyle(ds)...)
	}
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return renderChart(line)
}

// renderPie plots the first series only; a pie has no room for more.
func (r *EChartsRenderer) renderPie(id string, data *ChartData) (string, error) {
	pie := charts.NewPie()
	pie.SetGlobalOptions(r.globalOptions(id)...)
	if len(data.Datasets) > 0 {
		ds := data.Datasets[0]
		values := make([]opts.PieData, len(ds.Data))
		for i, v := range ds.Data {
			name := labelAt(data.Labels, i)
			if name == "" {
				name = fmt.Sprintf("Slice %d", i+1)
			}
			values[i] = opts.PieData{Name: name, Value: v}
		}
		pie.AddSeries(ds.Label, values)
	}
	return renderChart(pie)
}

func (r *EChartsRenderer) globalOptions(id string) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		ChartID: "chart_" + sanitizeChartID(id),
		Theme:   r.theme,
		Width:   "100%",
		Height:  r.height,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func seriesStyle(ds Dataset) []charts.SeriesOpts {
	if ds.BackgroundColor == "" && ds.BorderColor == "" {
		return nil
	}
	return []charts.SeriesOpts{
		charts.WithItemStyleOpts(opts.ItemStyle{
			Color:       ds.BackgroundColor,
			BorderColor: ds.BorderColor,
			BorderWidth: float32(ds.BorderWidth),
		}),
	}
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func labelAt(labels []string, i int) string {
	if i < len(labels) {
		return labels[i]
	}
	return ""
}

func sanitizeChartID(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
