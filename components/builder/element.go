package builder

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ElementType identifies the widget variant of an Element.
type ElementType string

const (
	ElementText  ElementType = "text"
	ElementImage ElementType = "image"
	ElementChart ElementType = "chart"
	ElementTable ElementType = "table"
)

// ElementTypes lists the supported widget variants in palette order.
func ElementTypes() []ElementType {
	return []ElementType{ElementText, ElementImage, ElementChart, ElementTable}
}

// Valid reports whether t is one of the supported variants.
func (t ElementType) Valid() bool {
	switch t {
	case ElementText, ElementImage, ElementChart, ElementTable:
		return true
	default:
		return false
	}
}

// ParseElementType converts user input into an ElementType.
func ParseElementType(value string) (ElementType, error) {
	t := ElementType(value)
	if !t.Valid() {
		return "", fmt.Errorf("builder: unknown element type %q", value)
	}
	return t, nil
}

// Element is a single widget instance on a dashboard.
type Element struct {
	ID         string      `json:"id" yaml:"id"`
	Type       ElementType `json:"type" yaml:"type"`
	Label      string      `json:"label" yaml:"label"`
	Properties Properties  `json:"properties" yaml:"properties"`
}

// NewElementID builds the "{type}-{timestamp}" identifier assigned at creation.
func NewElementID(t ElementType, now time.Time) string {
	return string(t) + "-" + strconv.FormatInt(now.UnixMilli(), 10)
}

// Clone returns a deep copy of the element.
func (e Element) Clone() Element {
	e.Properties = e.Properties.Clone()
	return e
}

// Position is the legacy free-form position hint stored on element properties.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Properties holds the type specific content and display hints of an element.
// Keys that are not modelled explicitly survive a decode/encode cycle in Extra.
type Properties struct {
	URL       string         `json:"url,omitempty" yaml:"url,omitempty"`
	ChartType string         `json:"chartType,omitempty" yaml:"chartType,omitempty"`
	ChartData *ChartData     `json:"chartData,omitempty" yaml:"chartData,omitempty"`
	TableData *TableData     `json:"tableData,omitempty" yaml:"tableData,omitempty"`
	Color     string         `json:"color,omitempty" yaml:"color,omitempty"`
	Size      float64        `json:"size,omitempty" yaml:"size,omitempty"`
	Position  *Position      `json:"position,omitempty" yaml:"position,omitempty"`
	Extra     map[string]any `json:"-" yaml:"extra,omitempty"`
}

var knownPropertyKeys = map[string]struct{}{
	"url":       {},
	"chartType": {},
	"type":      {},
	"chartData": {},
	"tableData": {},
	"color":     {},
	"size":      {},
	"position":  {},
}

type propertiesAlias Properties

// MarshalJSON flattens Extra next to the modelled keys.
func (p Properties) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(propertiesAlias(p))
	if err != nil {
		return nil, err
	}
	if len(p.Extra) == 0 {
		return base, nil
	}
	merged := make(map[string]json.RawMessage, len(p.Extra)+8)
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for key, value := range p.Extra {
		if _, known := knownPropertyKeys[key]; known {
			continue
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("builder: encode property %s: %w", key, err)
		}
		merged[key] = raw
	}
	return json.Marshal(merged)
}

// UnmarshalJSON decodes modelled keys and keeps the rest in Extra. The sidebar
// historically stored the chart kind under "type"; it is folded into ChartType.
func (p *Properties) UnmarshalJSON(data []byte) error {
	var alias propertiesAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if alias.ChartType == "" {
		if legacy, ok := raw["type"]; ok {
			var kind string
			if json.Unmarshal(legacy, &kind) == nil {
				alias.ChartType = kind
			}
		}
	}
	for key, value := range raw {
		if _, known := knownPropertyKeys[key]; known {
			continue
		}
		var decoded any
		if err := json.Unmarshal(value, &decoded); err != nil {
			return fmt.Errorf("builder: decode property %s: %w", key, err)
		}
		if alias.Extra == nil {
			alias.Extra = map[string]any{}
		}
		alias.Extra[key] = decoded
	}
	*p = Properties(alias)
	return nil
}

// Clone returns a deep copy of the properties.
func (p Properties) Clone() Properties {
	out := p
	if p.ChartData != nil {
		cd := p.ChartData.Clone()
		out.ChartData = &cd
	}
	if p.TableData != nil {
		td := p.TableData.Clone()
		out.TableData = &td
	}
	if p.Position != nil {
		pos := *p.Position
		out.Position = &pos
	}
	if len(p.Extra) > 0 {
		out.Extra = make(map[string]any, len(p.Extra))
		for k, v := range p.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// ChartData holds category labels and one or more named numeric series.
type ChartData struct {
	Labels   []string  `json:"labels" yaml:"labels"`
	Datasets []Dataset `json:"datasets" yaml:"datasets"`
}

// Dataset is a single chart series.
type Dataset struct {
	Label           string    `json:"label" yaml:"label"`
	Data            []float64 `json:"data" yaml:"data"`
	BackgroundColor string    `json:"backgroundColor,omitempty" yaml:"backgroundColor,omitempty"`
	BorderColor     string    `json:"borderColor,omitempty" yaml:"borderColor,omitempty"`
	BorderWidth     int       `json:"borderWidth,omitempty" yaml:"borderWidth,omitempty"`
}

// Clone returns a deep copy of the chart payload.
func (c ChartData) Clone() ChartData {
	out := ChartData{Labels: append([]string(nil), c.Labels...)}
	if c.Datasets != nil {
		out.Datasets = make([]Dataset, len(c.Datasets))
		for i, ds := range c.Datasets {
			ds.Data = append([]float64(nil), ds.Data...)
			out.Datasets[i] = ds
		}
	}
	return out
}

// Consistent reports whether every dataset has one value per label.
func (c ChartData) Consistent() bool {
	for _, ds := range c.Datasets {
		if len(ds.Data) != len(c.Labels) {
			return false
		}
	}
	return true
}

// TableData holds column headers and a row-major grid of cells.
type TableData struct {
	Headers []string   `json:"headers" yaml:"headers"`
	Rows    [][]string `json:"rows" yaml:"rows"`
}

// Clone returns a deep copy of the table payload.
func (t TableData) Clone() TableData {
	out := TableData{Headers: append([]string(nil), t.Headers...)}
	if t.Rows != nil {
		out.Rows = make([][]string, len(t.Rows))
		for i, row := range t.Rows {
			out.Rows[i] = append([]string(nil), row...)
		}
	}
	return out
}

// Ragged reports whether any row has a different column count than the headers.
func (t TableData) Ragged() bool {
	for _, row := range t.Rows {
		if len(row) != len(t.Headers) {
			return true
		}
	}
	return false
}

// ElementPatch carries the fields replaced by UpdateElement. Nil fields are left
// untouched.
type ElementPatch struct {
	Label      *string     `json:"label,omitempty"`
	Properties *Properties `json:"properties,omitempty"`
}

// Apply shallow-merges the patch into el.
func (p ElementPatch) Apply(el Element) Element {
	out := el.Clone()
	if p.Label != nil {
		out.Label = *p.Label
	}
	if p.Properties != nil {
		out.Properties = p.Properties.Clone()
	}
	return out
}
