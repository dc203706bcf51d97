package builder

import "fmt"

// Content is the typed view of an element's polymorphic payload. Exactly one
// variant exists per ElementType.
type Content interface {
	elementType() ElementType
}

// TextContent is the payload of a text element.
type TextContent struct {
	Text string
}

// ImageContent is the payload of an image element.
type ImageContent struct {
	URL string
}

// ChartContent is the payload of a chart element. Data is nil when the source
// text could not be parsed.
type ChartContent struct {
	Kind string
	Data *ChartData
}

// TableContent is the payload of a table element. Data is nil when the source
// text could not be parsed.
type TableContent struct {
	Data *TableData
}

func (TextContent) elementType() ElementType  { return ElementText }
func (ImageContent) elementType() ElementType { return ElementImage }
func (ChartContent) elementType() ElementType { return ElementChart }
func (TableContent) elementType() ElementType { return ElementTable }

// Content projects the element into its typed variant.
func (e Element) Content() (Content, error) {
	switch e.Type {
	case ElementText:
		return TextContent{Text: e.Label}, nil
	case ElementImage:
		return ImageContent{URL: e.Properties.URL}, nil
	case ElementChart:
		kind := e.Properties.ChartType
		if kind == "" {
			kind = DefaultChartType
		}
		var data *ChartData
		if e.Properties.ChartData != nil {
			cd := e.Properties.ChartData.Clone()
			data = &cd
		}
		return ChartContent{Kind: kind, Data: data}, nil
	case ElementTable:
		var data *TableData
		if e.Properties.TableData != nil {
			td := e.Properties.TableData.Clone()
			data = &td
		}
		return TableContent{Data: data}, nil
	default:
		return nil, fmt.Errorf("builder: element %s has unknown type %q", e.ID, e.Type)
	}
}
