package builder

import (
	"context"
	"fmt"
)

// CanvasController is the part of the Controller the canvas talks to.
type CanvasController interface {
	CurrentLayout() (Layout, bool)
	ApplyPlacementChange(ctx context.Context, placements []Placement) error
	BeginEdit(ctx context.Context, id string) error
}

// Cell is an element rendered at its grid placement, with pixel geometry for
// front-ends that lay out absolutely.
type Cell struct {
	Placement Placement   `json:"placement"`
	View      ElementView `json:"view"`
	Left      int         `json:"left"`
	Top       int         `json:"top"`
	Width     int         `json:"width"`
	Height    int         `json:"height"`
}

// Canvas renders the current layout and turns drag and resize gestures into
// placement changes computed by the grid engine.
type Canvas struct {
	ctrl     CanvasController
	engine   GridEngine
	renderer *ElementRenderer
}

// NewCanvas wires a canvas. A nil engine selects the vertical compactor.
func NewCanvas(ctrl CanvasController, engine GridEngine, renderer *ElementRenderer) *Canvas {
	if engine == nil {
		engine = NewVerticalCompactor()
	}
	if renderer == nil {
		renderer = NewElementRenderer(nil, nil)
	}
	return &Canvas{ctrl: ctrl, engine: engine, renderer: renderer}
}

// BeginDrag opens the dragged element for editing.
func (c *Canvas) BeginDrag(ctx context.Context, id string) error {
	return c.ctrl.BeginEdit(ctx, id)
}

// Move drops an element at a grid cell and forwards the new arrangement.
func (c *Canvas) Move(ctx context.Context, id string, x, y int) ([]Placement, error) {
	layout, err := c.layoutWith(id)
	if err != nil {
		return nil, err
	}
	next := c.engine.Move(layout.Placements, id, x, y)
	if err := c.ctrl.ApplyPlacementChange(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Resize changes an element span and forwards the new arrangement.
func (c *Canvas) Resize(ctx context.Context, id string, w, h int) ([]Placement, error) {
	layout, err := c.layoutWith(id)
	if err != nil {
		return nil, err
	}
	next := c.engine.Resize(layout.Placements, id, w, h)
	if err := c.ctrl.ApplyPlacementChange(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Cells renders every element of the current layout in placement order.
// Elements without a placement are skipped.
func (c *Canvas) Cells() ([]Cell, error) {
	layout, ok := c.ctrl.CurrentLayout()
	if !ok {
		return nil, ErrNoCurrentLayout
	}
	colWidth := GridWidth / GridColumns
	cells := make([]Cell, 0, len(layout.Placements))
	for _, p := range layout.Placements {
		el, ok := layout.Element(p.ID)
		if !ok {
			continue
		}
		view := c.renderer.RenderOrPlaceholder(el)
		cells = append(cells, Cell{
			Placement: p,
			View:      view,
			Left:      p.X * colWidth,
			Top:       p.Y * GridRowHeight,
			Width:     p.W * colWidth,
			Height:    p.H * GridRowHeight,
		})
	}
	return cells, nil
}

// Rows reports the number of grid rows the current layout occupies.
func (c *Canvas) Rows() int {
	layout, ok := c.ctrl.CurrentLayout()
	if !ok {
		return 0
	}
	rows := 0
	for _, p := range layout.Placements {
		if bottom := p.Y + p.H; bottom > rows {
			rows = bottom
		}
	}
	return rows
}

func (c *Canvas) layoutWith(id string) (Layout, error) {
	layout, ok := c.ctrl.CurrentLayout()
	if !ok {
		return Layout{}, ErrNoCurrentLayout
	}
	if _, ok := layout.Placement(id); !ok {
		return Layout{}, fmt.Errorf("%w: %s", ErrUnknownElement, id)
	}
	return layout, nil
}
