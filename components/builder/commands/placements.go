package commands

import (
	"context"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-dashboard-builder/components/builder"
)

type canvasService interface {
	Move(ctx context.Context, id string, x, y int) ([]builder.Placement, error)
	Resize(ctx context.Context, id string, w, h int) ([]builder.Placement, error)
}

// MovePlacementInput drops an element at a grid cell.
type MovePlacementInput struct {
	ElementID string `json:"element_id"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
}

// MovePlacementCommand wraps Canvas.Move.
type MovePlacementCommand struct {
	canvas    canvasService
	telemetry Telemetry
}

// NewMovePlacementCommand builds the command.
func NewMovePlacementCommand(canvas canvasService, telemetry Telemetry) *MovePlacementCommand {
	return &MovePlacementCommand{canvas: canvas, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[MovePlacementInput] = (*MovePlacementCommand)(nil)

// Execute moves the element and applies the recomputed arrangement.
func (c *MovePlacementCommand) Execute(ctx context.Context, msg MovePlacementInput) error {
	if c.canvas == nil {
		return errors.New("move command requires canvas")
	}
	if msg.X < 0 || msg.X >= builder.GridColumns || msg.Y < 0 || msg.Y > builder.GridMaxRows {
		return fmt.Errorf("%w: cell (%d, %d)", builder.ErrInvalidPlacement, msg.X, msg.Y)
	}
	if _, err := c.canvas.Move(ctx, msg.ElementID, msg.X, msg.Y); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "builder.command.move", map[string]any{
		"element_id": msg.ElementID,
		"x":          msg.X,
		"y":          msg.Y,
	})
	return nil
}

// ResizePlacementInput changes an element span.
type ResizePlacementInput struct {
	ElementID string `json:"element_id"`
	W         int    `json:"w"`
	H         int    `json:"h"`
}

// ResizePlacementCommand wraps Canvas.Resize.
type ResizePlacementCommand struct {
	canvas    canvasService
	telemetry Telemetry
}

// NewResizePlacementCommand builds the command.
func NewResizePlacementCommand(canvas canvasService, telemetry Telemetry) *ResizePlacementCommand {
	return &ResizePlacementCommand{canvas: canvas, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ResizePlacementInput] = (*ResizePlacementCommand)(nil)

// Execute resizes the element and applies the recomputed arrangement.
func (c *ResizePlacementCommand) Execute(ctx context.Context, msg ResizePlacementInput) error {
	if c.canvas == nil {
		return errors.New("resize command requires canvas")
	}
	if msg.W < 1 || msg.W > builder.GridColumns || msg.H < 1 || msg.H > builder.GridMaxRows {
		return fmt.Errorf("%w: span %dx%d", builder.ErrInvalidPlacement, msg.W, msg.H)
	}
	if _, err := c.canvas.Resize(ctx, msg.ElementID, msg.W, msg.H); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "builder.command.resize", map[string]any{
		"element_id": msg.ElementID,
		"w":          msg.W,
		"h":          msg.H,
	})
	return nil
}

// ApplyPlacementsInput carries an arrangement computed by a client side grid.
type ApplyPlacementsInput struct {
	Placements []builder.Placement `json:"placements"`
}

type placementService interface {
	ApplyPlacementChange(ctx context.Context, placements []builder.Placement) error
}

// ApplyPlacementsCommand wraps Controller.ApplyPlacementChange.
type ApplyPlacementsCommand struct {
	service placementService
}

// NewApplyPlacementsCommand builds the command.
func NewApplyPlacementsCommand(service placementService) *ApplyPlacementsCommand {
	return &ApplyPlacementsCommand{service: service}
}

var _ gocommand.Commander[ApplyPlacementsInput] = (*ApplyPlacementsCommand)(nil)

// Execute replaces the current placements.
func (c *ApplyPlacementsCommand) Execute(ctx context.Context, msg ApplyPlacementsInput) error {
	if c.service == nil {
		return errors.New("placements command requires service")
	}
	return c.service.ApplyPlacementChange(ctx, msg.Placements)
}
