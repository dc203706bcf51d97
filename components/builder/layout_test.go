package builder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func demoLayout(id string) Layout {
	return Layout{
		ID:         id,
		Name:       "Layout " + id,
		Elements:   DemoElements(),
		Placements: DemoPlacements(),
	}
}

func TestPlacementNormalize(t *testing.T) {
	cases := []struct {
		in   Placement
		want Placement
	}{
		{Placement{ID: "a", X: -2, Y: -1, W: 0, H: 0}, Placement{ID: "a", X: 0, Y: 0, W: 1, H: 1}},
		{Placement{ID: "a", X: 10, Y: 3, W: 4, H: 2}, Placement{ID: "a", X: 8, Y: 3, W: 4, H: 2}},
		{Placement{ID: "a", X: 0, Y: 0, W: 20, H: 2}, Placement{ID: "a", X: 0, Y: 0, W: GridColumns, H: 2}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.in.Normalize(GridColumns))
	}
}

func TestNewDefaultLayout(t *testing.T) {
	l := NewDefaultLayout(fixedNow)
	assert.True(t, l.IsDefault())
	assert.Equal(t, "Default Layout", l.Name)
	assert.Empty(t, l.Elements)
	assert.NotNil(t, l.Placements)
	assert.True(t, l.InLockstep())
}

func TestLayoutWithElementAddsDefaultPlacement(t *testing.T) {
	l := NewDefaultLayout(fixedNow)
	el := Element{ID: "text-9", Type: ElementText, Label: "hi"}

	next := l.WithElement(el, fixedNow.Add(time.Minute))
	require.Len(t, next.Elements, 1)
	assert.Equal(t, []Placement{{ID: "text-9", X: 0, Y: 0, W: 4, H: 4}}, next.Placements)
	assert.Equal(t, fixedNow.Add(time.Minute), next.UpdatedAt)
	assert.Empty(t, l.Elements)
	assert.True(t, next.InLockstep())
}

func TestLayoutWithoutElement(t *testing.T) {
	l := demoLayout("l1")

	next, ok := l.WithoutElement("chart-1", fixedNow)
	require.True(t, ok)
	assert.Len(t, next.Elements, 3)
	_, found := next.Placement("chart-1")
	assert.False(t, found)
	assert.True(t, next.InLockstep())

	same, ok := l.WithoutElement("missing", fixedNow)
	assert.False(t, ok)
	assert.Equal(t, l, same)
}

func TestLayoutWithElementPatchUnknownIDStillTouches(t *testing.T) {
	l := demoLayout("l1")
	label := "x"
	next := l.WithElementPatch("missing", ElementPatch{Label: &label}, fixedNow)
	assert.Equal(t, l.Elements, next.Elements)
	assert.Equal(t, fixedNow, next.UpdatedAt)
}

func TestLayoutWithPlacementsReconciles(t *testing.T) {
	l := demoLayout("l1")
	next := l.WithPlacements([]Placement{
		{ID: "chart-1", X: 2, Y: 0, W: 3, H: 2},
		{ID: "chart-1", X: 9, Y: 9, W: 1, H: 1},
		{ID: "ghost", X: 0, Y: 0, W: 2, H: 2},
		{ID: "text-1", X: 11, Y: 1, W: 4, H: 2},
	}, fixedNow)

	require.True(t, next.InLockstep())
	require.Len(t, next.Placements, 4)
	assert.Equal(t, Placement{ID: "chart-1", X: 2, Y: 0, W: 3, H: 2}, next.Placements[0])
	assert.Equal(t, Placement{ID: "text-1", X: 8, Y: 1, W: 4, H: 2}, next.Placements[1])
	assert.Equal(t, DefaultPlacement("image-1"), next.Placements[2])
	assert.Equal(t, DefaultPlacement("table-1"), next.Placements[3])
}

func TestLayoutInLockstep(t *testing.T) {
	l := demoLayout("l1")
	assert.True(t, l.InLockstep())

	missing := l.Clone()
	missing.Placements = missing.Placements[:3]
	assert.False(t, missing.InLockstep())

	dup := l.Clone()
	dup.Placements[1].ID = "text-1"
	assert.False(t, dup.InLockstep())
}

func TestLayoutWithMetadataKeepsContent(t *testing.T) {
	l := demoLayout("l1")
	next := l.WithMetadata("Renamed", "desc", fixedNow)
	assert.Equal(t, "Renamed", next.Name)
	assert.Equal(t, "desc", next.Description)
	assert.Equal(t, l.Elements, next.Elements)
	assert.Equal(t, l.Placements, next.Placements)
}

func TestSanitizeLayoutDropsInconsistentCharts(t *testing.T) {
	l := demoLayout("l1")
	l.Elements[2].Properties.ChartData.Datasets[0].Data = []float64{1}
	l.Placements = l.Placements[:2]

	clean := SanitizeLayout(l)
	assert.Nil(t, clean.Elements[2].Properties.ChartData)
	assert.True(t, clean.InLockstep())
	assert.NotNil(t, l.Elements[2].Properties.ChartData)
}
