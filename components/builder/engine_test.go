package builder

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVerticalCompactorMovePushesCollisionsDown(t *testing.T) {
	engine := NewVerticalCompactor()
	in := []Placement{
		{ID: "a", X: 0, Y: 0, W: 4, H: 2},
		{ID: "b", X: 4, Y: 0, W: 4, H: 2},
	}

	out := engine.Move(in, "a", 4, 0)
	assert.Equal(t, []Placement{
		{ID: "a", X: 4, Y: 0, W: 4, H: 2},
		{ID: "b", X: 4, Y: 2, W: 4, H: 2},
	}, out)
	assert.Equal(t, 0, in[0].X)
}

func TestVerticalCompactorMoveClampsToGrid(t *testing.T) {
	engine := NewVerticalCompactor()
	out := engine.Move([]Placement{{ID: "a", X: 0, Y: 0, W: 4, H: 2}}, "a", 11, 5)
	assert.Equal(t, []Placement{{ID: "a", X: 8, Y: 0, W: 4, H: 2}}, out)
}

func TestVerticalCompactorResize(t *testing.T) {
	engine := NewVerticalCompactor()
	out := engine.Resize([]Placement{
		{ID: "a", X: 0, Y: 0, W: 4, H: 2},
		{ID: "b", X: 0, Y: 2, W: 4, H: 2},
	}, "a", 4, 4)
	assert.Equal(t, []Placement{
		{ID: "a", X: 0, Y: 0, W: 4, H: 4},
		{ID: "b", X: 0, Y: 4, W: 4, H: 2},
	}, out)
}

func TestVerticalCompactorCompactFloatsUp(t *testing.T) {
	engine := NewVerticalCompactor()
	out := engine.Compact([]Placement{
		{ID: "a", X: 0, Y: 5, W: 4, H: 2},
		{ID: "b", X: 4, Y: 9, W: 4, H: 2},
		{ID: "c", X: 0, Y: 9, W: 4, H: 1},
	})
	assert.Equal(t, []Placement{
		{ID: "a", X: 0, Y: 0, W: 4, H: 2},
		{ID: "b", X: 4, Y: 0, W: 4, H: 2},
		{ID: "c", X: 0, Y: 2, W: 4, H: 1},
	}, out)
}

func TestVerticalCompactorUnknownIDReturnsNormalizedCopy(t *testing.T) {
	engine := NewVerticalCompactor()
	in := []Placement{{ID: "a", X: -1, Y: 0, W: 4, H: 2}}
	out := engine.Move(in, "missing", 3, 3)
	assert.Equal(t, []Placement{{ID: "a", X: 0, Y: 0, W: 4, H: 2}}, out)
}

func TestVerticalCompactorKeepsOneEntryPerInput(t *testing.T) {
	engine := NewVerticalCompactor()
	out := engine.Move(DemoPlacements(), "table-1", 0, 0)
	assert.Len(t, out, len(DemoPlacements()))
	for i, p := range DemoPlacements() {
		assert.Equal(t, p.ID, out[i].ID)
	}
	for i := range out {
		for j := range out {
			if i != j {
				assert.False(t, collides(out[i], out[j]), "%s overlaps %s", out[i].ID, out[j].ID)
			}
		}
	}
}

func TestVerticalCompactorHugeOffsetsCompactImmediately(t *testing.T) {
	engine := NewVerticalCompactor()
	in := []Placement{
		{ID: "a", X: 0, Y: 0, W: 4, H: 2},
		{ID: "b", X: 0, Y: 2, W: 4, H: 2},
	}

	start := time.Now()
	out := engine.Move(in, "a", 0, math.MaxInt)
	assert.Equal(t, []Placement{
		{ID: "a", X: 0, Y: 2, W: 4, H: 2},
		{ID: "b", X: 0, Y: 0, W: 4, H: 2},
	}, out)

	out = engine.Resize(out, "b", 4, math.MaxInt)
	assert.Equal(t, []Placement{
		{ID: "a", X: 0, Y: GridMaxRows, W: 4, H: 2},
		{ID: "b", X: 0, Y: 0, W: 4, H: GridMaxRows},
	}, out)

	out = engine.Compact([]Placement{{ID: "c", X: 0, Y: math.MaxInt - 1, W: 2, H: 1}})
	assert.Equal(t, []Placement{{ID: "c", X: 0, Y: 0, W: 2, H: 1}}, out)
	assert.Less(t, time.Since(start), time.Second)
}
