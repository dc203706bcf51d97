package builder

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrNoTypeSelected = errors.New("builder: select an element type first")
	ErrMissingContent = errors.New("builder: required field is blank")
)

// NewElementPosition is the free-form position hint stored on new elements.
var NewElementPosition = Position{X: 100, Y: 100}

// Form holds the editor field values.
type Form struct {
	Type      ElementType `json:"type"`
	Label     string      `json:"label"`
	URL       string      `json:"url"`
	ChartType string      `json:"chartType"`
	ChartText string      `json:"chartText"`
	TableText string      `json:"tableText"`
}

// RequiredField names the form field that must be non-blank for t.
func RequiredField(t ElementType) string {
	switch t {
	case ElementText:
		return "label"
	case ElementImage:
		return "url"
	case ElementChart:
		return "chartText"
	case ElementTable:
		return "tableText"
	default:
		return ""
	}
}

func (f Form) requiredValue() string {
	switch f.Type {
	case ElementText:
		return f.Label
	case ElementImage:
		return f.URL
	case ElementChart:
		return f.ChartText
	case ElementTable:
		return f.TableText
	default:
		return ""
	}
}

// Ready reports whether the required field of the selected type is filled.
func (f Form) Ready() bool {
	return f.Type.Valid() && strings.TrimSpace(f.requiredValue()) != ""
}

// FormFor seeds form fields from an existing element.
func FormFor(el Element) Form {
	f := Form{
		Type:  el.Type,
		Label: el.Label,
		URL:   el.Properties.URL,
	}
	if el.Type == ElementChart {
		f.ChartType = el.Properties.ChartType
		f.ChartText = FormatChartData(el.Properties.ChartData)
	}
	if el.Type == ElementTable {
		f.TableText = FormatTableData(el.Properties.TableData)
	}
	return f
}

// ElementSink receives the elements produced by the editor.
type ElementSink interface {
	AddElement(ctx context.Context, el Element) error
	UpdateElement(ctx context.Context, id string, patch ElementPatch) error
}

// Editor is the create/edit form of the sidebar. It mirrors the controller
// state through Sync and never mutates that state itself.
type Editor struct {
	registry DefinitionRegistry
	clock    func() time.Time
	form     Form
	editing  *Element
	layoutID string
	synced   bool
	usedIDs  map[string]struct{}
}

// NewEditor builds an editor using the palette defaults from reg.
func NewEditor(reg DefinitionRegistry, clock func() time.Time) *Editor {
	if reg == nil {
		reg = NewRegistry()
	}
	if clock == nil {
		clock = time.Now
	}
	return &Editor{registry: reg, clock: clock, usedIDs: map[string]struct{}{}}
}

// Sync aligns the form with the controller state. Switching layouts discards
// any edit in progress.
func (e *Editor) Sync(s State) {
	if !e.synced || s.CurrentLayoutID != e.layoutID {
		e.Reset()
		e.layoutID = s.CurrentLayoutID
		e.synced = true
	}
	e.usedIDs = map[string]struct{}{}
	if current, ok := s.Current(); ok {
		for _, el := range current.Elements {
			e.usedIDs[el.ID] = struct{}{}
		}
	}
	switch {
	case s.EditingElement != nil:
		if e.editing == nil || e.editing.ID != s.EditingElement.ID {
			el := s.EditingElement.Clone()
			e.editing = &el
			e.form = FormFor(el)
		}
	case e.editing != nil:
		e.Reset()
	}
	if e.editing == nil && s.SelectedType != e.form.Type {
		e.form.Type = s.SelectedType
	}
}

// Form returns the current field values.
func (e *Editor) Form() Form {
	return e.form
}

// Editing returns the element being edited, if any.
func (e *Editor) Editing() (Element, bool) {
	if e.editing == nil {
		return Element{}, false
	}
	return e.editing.Clone(), true
}

// SetForm replaces the field values. The type is fixed while editing.
func (e *Editor) SetForm(f Form) {
	if e.editing != nil {
		f.Type = e.editing.Type
	}
	e.form = f
}

// Reset clears every field and exits edit mode.
func (e *Editor) Reset() {
	e.form = Form{}
	e.editing = nil
}

// Submit validates the form and forwards the element to sink. The form is
// cleared after the sink was called, whatever its outcome.
func (e *Editor) Submit(ctx context.Context, sink ElementSink) error {
	if !e.form.Type.Valid() {
		return ErrNoTypeSelected
	}
	if !e.form.Ready() {
		return ErrMissingContent
	}
	defer e.Reset()
	if e.editing != nil {
		return sink.UpdateElement(ctx, e.editing.ID, e.patch(*e.editing))
	}
	return sink.AddElement(ctx, e.build())
}

func (e *Editor) build() Element {
	f := e.form
	pos := NewElementPosition
	el := Element{
		ID:    e.nextID(f.Type),
		Type:  f.Type,
		Label: f.label(),
		Properties: Properties{
			Color:    DefaultColor(e.registry, f.Type),
			Size:     DefaultSize(e.registry, f.Type),
			Position: &pos,
		},
	}
	e.applyContent(&el.Properties)
	return el
}

func (e *Editor) patch(existing Element) ElementPatch {
	label := e.form.label()
	props := existing.Properties.Clone()
	e.applyContent(&props)
	return ElementPatch{Label: &label, Properties: &props}
}

// label is the element label the form produces. Only text elements carry one
// and it is kept as typed.
func (f Form) label() string {
	if f.Type != ElementText {
		return ""
	}
	return f.Label
}

func (e *Editor) applyContent(props *Properties) {
	f := e.form
	switch f.Type {
	case ElementImage:
		props.URL = strings.TrimSpace(f.URL)
	case ElementChart:
		props.ChartType = f.ChartType
		if props.ChartType == "" {
			props.ChartType = DefaultChartType
		}
		props.ChartData = ParseChartData(f.ChartText)
	case ElementTable:
		props.TableData = ParseTableData(f.TableText)
	}
}

func (e *Editor) nextID(t ElementType) string {
	now := e.clock()
	id := NewElementID(t, now)
	for {
		if _, used := e.usedIDs[id]; !used {
			break
		}
		now = now.Add(time.Millisecond)
		id = NewElementID(t, now)
	}
	e.usedIDs[id] = struct{}{}
	return id
}
