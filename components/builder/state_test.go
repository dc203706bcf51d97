package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedState(layouts ...Layout) State {
	return Reduce(State{}, LayoutsLoaded{Layouts: layouts, Now: fixedNow})
}

func TestReduceLayoutsLoaded(t *testing.T) {
	s := loadedState(demoLayout("a"), demoLayout("b"))
	assert.True(t, s.Loaded)
	assert.Equal(t, "a", s.CurrentLayoutID)
	assert.Len(t, s.Layouts, 2)

	empty := loadedState()
	require.Len(t, empty.Layouts, 1)
	assert.True(t, empty.Layouts[0].IsDefault())
	assert.Equal(t, DefaultLayoutID, empty.CurrentLayoutID)
}

func TestReduceLayoutSelectedIgnoresUnknownIDs(t *testing.T) {
	s := loadedState(demoLayout("a"), demoLayout("b"))
	s = Reduce(s, TypeSelected{Type: ElementTable})

	next := Reduce(s, LayoutSelected{ID: "b"})
	assert.Equal(t, "b", next.CurrentLayoutID)
	assert.Empty(t, next.SelectedType)

	same := Reduce(next, LayoutSelected{ID: "zzz"})
	assert.Equal(t, "b", same.CurrentLayoutID)
}

func TestReduceLayoutCreatedBecomesCurrent(t *testing.T) {
	s := loadedState(demoLayout("a"))
	created := Layout{ID: "c", Name: "New"}

	next := Reduce(s, LayoutCreated{Layout: created})
	assert.Equal(t, "c", next.CurrentLayoutID)
	assert.Len(t, next.Layouts, 2)
	assert.Len(t, s.Layouts, 1)
}

func TestReduceLayoutPersistedSwapsDefault(t *testing.T) {
	s := loadedState()
	s = Reduce(s, DefaultsApplied{Now: fixedNow})

	saved := demoLayout("srv-1")
	next := Reduce(s, LayoutPersisted{PreviousID: DefaultLayoutID, Layout: saved})
	require.Len(t, next.Layouts, 1)
	assert.Equal(t, "srv-1", next.CurrentLayoutID)
	assert.Equal(t, "srv-1", next.Layouts[0].ID)
	assert.Equal(t, "Default Layout", next.Layouts[0].Name)
	assert.Equal(t, s.Layouts[0].Elements, next.Layouts[0].Elements)

	stale := Reduce(next, LayoutPersisted{PreviousID: DefaultLayoutID, Layout: demoLayout("srv-2")})
	assert.Equal(t, next, stale)
}

func TestReduceLayoutDeleted(t *testing.T) {
	s := loadedState(demoLayout("a"), demoLayout("b"))
	next := Reduce(s, LayoutDeleted{ID: "a", Now: fixedNow})
	require.Len(t, next.Layouts, 1)
	assert.Equal(t, "b", next.CurrentLayoutID)

	other := Reduce(s, LayoutDeleted{ID: "b", Now: fixedNow})
	assert.Equal(t, "a", other.CurrentLayoutID)

	last := Reduce(next, LayoutDeleted{ID: "b", Now: fixedNow})
	require.Len(t, last.Layouts, 1)
	assert.True(t, last.Layouts[0].IsDefault())
	assert.Equal(t, DefaultLayoutID, last.CurrentLayoutID)
}

func TestReduceElementLifecycle(t *testing.T) {
	s := loadedState()
	s = Reduce(s, TypeSelected{Type: ElementText})
	assert.Equal(t, ElementText, s.SelectedType)

	el := Element{ID: "text-1", Type: ElementText, Label: "hello"}
	s = Reduce(s, ElementAdded{Element: el, Now: fixedNow})
	current, _ := s.Current()
	require.Len(t, current.Elements, 1)
	assert.Empty(t, s.SelectedType)

	s = Reduce(s, EditingStarted{ID: "text-1"})
	require.NotNil(t, s.EditingElement)
	assert.Equal(t, ElementText, s.SelectedType)

	label := "bye"
	s = Reduce(s, ElementUpdated{ID: "text-1", Patch: ElementPatch{Label: &label}, Now: fixedNow})
	current, _ = s.Current()
	assert.Equal(t, "bye", current.Elements[0].Label)
	assert.Nil(t, s.EditingElement)

	s = Reduce(s, ElementDeleted{ID: "text-1", Now: fixedNow})
	current, _ = s.Current()
	assert.Empty(t, current.Elements)
	assert.Empty(t, current.Placements)
}

func TestReduceEditingStartedUnknownElement(t *testing.T) {
	s := loadedState(demoLayout("a"))
	next := Reduce(s, EditingStarted{ID: "nope"})
	assert.Nil(t, next.EditingElement)
}

func TestReduceDefaultsApplied(t *testing.T) {
	s := loadedState(Layout{ID: "a", Name: "A", Elements: []Element{{ID: "x", Type: ElementText}}, Placements: []Placement{DefaultPlacement("x")}})
	next := Reduce(s, DefaultsApplied{Now: fixedNow})
	current, _ := next.Current()
	assert.Equal(t, DemoElements(), current.Elements)
	assert.Equal(t, DemoPlacements(), current.Placements)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := loadedState(demoLayout("a"))
	before := s.Clone()
	label := "mutated"
	_ = Reduce(s, ElementUpdated{ID: "text-1", Patch: ElementPatch{Label: &label}, Now: fixedNow})
	_ = Reduce(s, ElementDeleted{ID: "chart-1", Now: fixedNow})
	_ = Reduce(s, PlacementsChanged{Placements: []Placement{{ID: "text-1", X: 5, Y: 5, W: 2, H: 2}}, Now: fixedNow})
	assert.Equal(t, before, s)
}

func TestActionName(t *testing.T) {
	assert.Equal(t, "layout.created", ActionName(LayoutCreated{}))
	assert.Equal(t, "", ActionName(nil))
}

func TestReduceContentActionsIgnoreOtherLayouts(t *testing.T) {
	s := loadedState(demoLayout("a"), demoLayout("b"))
	s = Reduce(s, EditingStarted{ID: "text-1"})

	actions := []Action{
		ElementAdded{LayoutID: "b", Element: Element{ID: "text-9", Type: ElementText, Label: "x"}, Now: fixedNow},
		ElementUpdated{LayoutID: "b", ID: "text-1", Patch: ElementPatch{}, Now: fixedNow},
		ElementDeleted{LayoutID: "b", ID: "text-1", Now: fixedNow},
		DefaultsApplied{LayoutID: "b", Now: fixedNow},
		PlacementsChanged{LayoutID: "b", Placements: nil, Now: fixedNow},
	}
	for _, a := range actions {
		assert.Equal(t, s, Reduce(s, a), ActionName(a))
	}

	next := Reduce(s, ElementDeleted{LayoutID: "a", ID: "text-1", Now: fixedNow})
	current, _ := next.Current()
	assert.Len(t, current.Elements, 3)
}
