package commands

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/goliatone/go-dashboard-builder/components/builder"
)

func TestPlacementCommandsRejectCellsOutsideGrid(t *testing.T) {
	canvas := &stubCanvas{}
	move := NewMovePlacementCommand(canvas, nil)
	resize := NewResizePlacementCommand(canvas, nil)
	ctx := context.Background()

	moves := []MovePlacementInput{
		{ElementID: "a", X: -1, Y: 0},
		{ElementID: "a", X: builder.GridColumns, Y: 0},
		{ElementID: "a", X: 0, Y: -1},
		{ElementID: "a", X: 0, Y: math.MaxInt},
	}
	for _, in := range moves {
		if err := move.Execute(ctx, in); !errors.Is(err, builder.ErrInvalidPlacement) {
			t.Fatalf("move %+v: expected ErrInvalidPlacement, got %v", in, err)
		}
	}
	resizes := []ResizePlacementInput{
		{ElementID: "a", W: 0, H: 1},
		{ElementID: "a", W: builder.GridColumns + 1, H: 1},
		{ElementID: "a", W: 1, H: 0},
		{ElementID: "a", W: 1, H: math.MaxInt},
	}
	for _, in := range resizes {
		if err := resize.Execute(ctx, in); !errors.Is(err, builder.ErrInvalidPlacement) {
			t.Fatalf("resize %+v: expected ErrInvalidPlacement, got %v", in, err)
		}
	}
	if canvas.moveCalls != 0 || canvas.resizeCalls != 0 {
		t.Fatalf("expected canvas untouched, got %d moves %d resizes", canvas.moveCalls, canvas.resizeCalls)
	}

	if err := move.Execute(ctx, MovePlacementInput{ElementID: "a", X: builder.GridColumns - 1, Y: builder.GridMaxRows}); err != nil {
		t.Fatalf("expected edge cell accepted: %v", err)
	}
}
