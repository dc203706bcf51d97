package builder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Renderer describes the template renderer contract needed by the page.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}

const (
	// PageTemplate is the template rendered for the builder page.
	PageTemplate = "builder"
	// DefaultBasePath is where the builder routes are mounted.
	DefaultBasePath = "/builder"
)

// PageView is everything a front-end needs to draw the builder.
type PageView struct {
	Layouts       []LayoutOption      `json:"layouts"`
	Current       Layout              `json:"current"`
	Cells         []Cell              `json:"cells"`
	CanvasWidth   int                 `json:"canvasWidth"`
	CanvasHeight  int                 `json:"canvasHeight"`
	Palette       []ElementDefinition `json:"palette"`
	SelectedType  ElementType         `json:"selectedType,omitempty"`
	Form          Form                `json:"form"`
	RequiredField string              `json:"requiredField,omitempty"`
	Editing       *Element            `json:"editing,omitempty"`
	CanDelete     bool                `json:"canDelete"`
	Notices       []Notice            `json:"notices,omitempty"`
	Prompts       map[string]string   `json:"prompts"`
	BasePath      string              `json:"basePath"`
}

// Page assembles the builder views from the controller state.
type Page struct {
	ctrl     *Controller
	manager  *LayoutManager
	canvas   *Canvas
	notices  *NoticeLog
	renderer Renderer
	basePath string
}

// PageOptions configures a Page.
type PageOptions struct {
	Controller *Controller
	Canvas     *Canvas
	Notices    *NoticeLog
	Renderer   Renderer
	BasePath   string
}

// NewPage wires the page. Missing collaborators get defaults built on the
// controller.
func NewPage(opts PageOptions) (*Page, error) {
	if opts.Controller == nil {
		return nil, errors.New("builder: page requires a controller")
	}
	canvas := opts.Canvas
	if canvas == nil {
		canvas = NewCanvas(opts.Controller, nil, nil)
	}
	basePath := opts.BasePath
	if basePath == "" {
		basePath = DefaultBasePath
	}
	return &Page{
		basePath: basePath,
		ctrl:     opts.Controller,
		manager:  NewLayoutManager(opts.Controller, nil),
		canvas:   canvas,
		notices:  opts.Notices,
		renderer: opts.Renderer,
	}, nil
}

// View builds the page model. Pending notices are drained into the view.
func (p *Page) View(ctx context.Context) (PageView, error) {
	state := p.ctrl.State()
	if !state.Loaded {
		state = p.ctrl.LoadLayouts(ctx)
	}
	current, _ := state.Current()
	cells, err := p.canvas.Cells()
	if err != nil && !errors.Is(err, ErrNoCurrentLayout) {
		return PageView{}, err
	}
	editor := NewEditor(p.ctrl.Registry(), p.ctrl.Now)
	editor.Sync(state)
	view := PageView{
		Layouts:      p.manager.Options(),
		Current:      current,
		Cells:        cells,
		CanvasWidth:  GridWidth,
		CanvasHeight: p.canvas.Rows() * GridRowHeight,
		Palette:      p.ctrl.Registry().Definitions(),
		SelectedType: state.SelectedType,
		Form:         editor.Form(),
		Editing:      state.EditingElement,
		CanDelete:    p.manager.CanDelete(),
		Prompts: map[string]string{
			"delete":   DeletePrompt(current.Name),
			"defaults": DefaultsPrompt,
		},
		BasePath: p.basePath,
	}
	if state.SelectedType != "" {
		view.RequiredField = RequiredField(state.SelectedType)
	}
	if p.notices != nil {
		view.Notices = p.notices.Drain()
	}
	return view, nil
}

// RenderHTML renders the builder page template into out.
func (p *Page) RenderHTML(ctx context.Context, out io.Writer) error {
	if p.renderer == nil {
		return errors.New("builder: page renderer not configured")
	}
	view, err := p.View(ctx)
	if err != nil {
		return err
	}
	data, err := templateData(view)
	if err != nil {
		return err
	}
	if _, err := p.renderer.Render(PageTemplate, data, out); err != nil {
		return fmt.Errorf("builder: render page: %w", err)
	}
	return nil
}

// templateData converts the view into the plain map form the template engine
// walks.
func templateData(view PageView) (map[string]any, error) {
	raw, err := json.Marshal(view)
	if err != nil {
		return nil, fmt.Errorf("builder: encode page view: %w", err)
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("builder: decode page view: %w", err)
	}
	return data, nil
}
