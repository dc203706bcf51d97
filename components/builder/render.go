package builder

import (
	"fmt"

	"go.uber.org/zap"
)

// Placeholder texts shown when content could not be parsed.
const (
	InvalidChartPlaceholder = "Invalid Chart Data"
	InvalidTablePlaceholder = "Invalid Table Data"
	UnsupportedPlaceholder  = "Unsupported Element"
	ImageHoverText          = "Click to edit"
)

// ElementView is the render-ready form of one element.
type ElementView struct {
	ID          string      `json:"id"`
	Type        ElementType `json:"type"`
	Color       string      `json:"color,omitempty"`
	Size        float64     `json:"size,omitempty"`
	Text        string      `json:"text,omitempty"`
	ImageURL    string      `json:"imageUrl,omitempty"`
	HoverText   string      `json:"hoverText,omitempty"`
	ChartType   string      `json:"chartType,omitempty"`
	ChartHTML   string      `json:"chartHtml,omitempty"`
	Chart       *ChartData  `json:"chart,omitempty"`
	Table       *TableView  `json:"table,omitempty"`
	Placeholder string      `json:"placeholder,omitempty"`
}

// TableView is a table padded to a rectangular grid.
type TableView struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// ElementRenderer dispatches rendering on the element variant.
type ElementRenderer struct {
	charts ChartRenderer
	logger *zap.Logger
}

// NewElementRenderer builds a renderer. A nil chart renderer leaves chart HTML
// empty so front-ends draw the raw series themselves.
func NewElementRenderer(charts ChartRenderer, logger *zap.Logger) *ElementRenderer {
	return &ElementRenderer{charts: charts, logger: normalizeLogger(logger)}
}

// Render converts an element into its view. Unparseable content yields a
// placeholder view rather than an error.
func (r *ElementRenderer) Render(el Element) (ElementView, error) {
	content, err := el.Content()
	if err != nil {
		return ElementView{}, err
	}
	view := ElementView{
		ID:    el.ID,
		Type:  el.Type,
		Color: el.Properties.Color,
		Size:  el.Properties.Size,
	}
	switch c := content.(type) {
	case TextContent:
		view.Text = c.Text
	case ImageContent:
		view.ImageURL = c.URL
		view.HoverText = ImageHoverText
	case ChartContent:
		view.ChartType = c.Kind
		if c.Data == nil || !c.Data.Consistent() {
			view.Placeholder = InvalidChartPlaceholder
			break
		}
		view.Chart = c.Data
		if r.charts != nil {
			html, err := r.charts.RenderChart(el.ID, c)
			if err != nil {
				r.logger.Warn("chart render failed", zap.String("element_id", el.ID), zap.Error(err))
			} else {
				view.ChartHTML = html
			}
		}
	case TableContent:
		if c.Data == nil {
			view.Placeholder = InvalidTablePlaceholder
			break
		}
		view.Table = padTable(*c.Data)
	default:
		return ElementView{}, fmt.Errorf("builder: no renderer for %T", content)
	}
	return view, nil
}

// RenderOrPlaceholder renders el, falling back to an unsupported placeholder
// view so one bad element cannot take down the whole canvas.
func (r *ElementRenderer) RenderOrPlaceholder(el Element) ElementView {
	view, err := r.Render(el)
	if err != nil {
		r.logger.Warn("element not renderable", zap.String("element_id", el.ID), zap.Error(err))
		return ElementView{ID: el.ID, Type: el.Type, Placeholder: UnsupportedPlaceholder}
	}
	return view
}

func padTable(data TableData) *TableView {
	width := len(data.Headers)
	for _, row := range data.Rows {
		if len(row) > width {
			width = len(row)
		}
	}
	headers := make([]string, width)
	copy(headers, data.Headers)
	rows := make([][]string, len(data.Rows))
	for i, row := range data.Rows {
		cells := make([]string, width)
		copy(cells, row)
		rows[i] = cells
	}
	return &TableView{Headers: headers, Rows: rows}
}
