package builder

import "time"

// State is the application state owned by the Controller. Values handed out by
// the Controller are deep copies; callers never share memory with it.
type State struct {
	Layouts         []Layout    `json:"layouts"`
	CurrentLayoutID string      `json:"currentLayoutId"`
	EditingElement  *Element    `json:"editingElement,omitempty"`
	SelectedType    ElementType `json:"selectedType,omitempty"`
	Loaded          bool        `json:"loaded"`
}

// Current returns the active layout.
func (s State) Current() (Layout, bool) {
	return s.Layout(s.CurrentLayoutID)
}

// Layout looks up a layout by id.
func (s State) Layout(id string) (Layout, bool) {
	for _, l := range s.Layouts {
		if l.ID == id {
			return l, true
		}
	}
	return Layout{}, false
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := s
	out.Layouts = make([]Layout, len(s.Layouts))
	for i, l := range s.Layouts {
		out.Layouts[i] = l.Clone()
	}
	if s.EditingElement != nil {
		el := s.EditingElement.Clone()
		out.EditingElement = &el
	}
	return out
}

// Action is a state transition consumed by Reduce.
type Action interface {
	actionName() string
}

// LayoutsLoaded replaces the layout set with the result of the initial load.
// An empty set is replaced by a fresh default layout.
type LayoutsLoaded struct {
	Layouts []Layout
	Now     time.Time
}

// LayoutSelected switches the active layout.
type LayoutSelected struct {
	ID string
}

// LayoutCreated appends a server created layout and makes it current.
type LayoutCreated struct {
	Layout Layout
}

// LayoutPersisted re-keys the layout stored under PreviousID with the server
// identity. Local content is kept so edits made while the request was in
// flight survive. It is dropped when PreviousID is no longer part of the state.
type LayoutPersisted struct {
	PreviousID string
	Layout     Layout
}

// LayoutRenamed patches layout metadata without touching its content.
type LayoutRenamed struct {
	ID          string
	Name        string
	Description string
	Now         time.Time
}

// LayoutDeleted removes a layout after the remote delete succeeded.
type LayoutDeleted struct {
	ID  string
	Now time.Time
}

// Content actions apply to the current layout. A non-empty LayoutID pins them
// to that layout: they are ignored once another layout is current.

// ElementAdded appends an element to the current layout.
type ElementAdded struct {
	LayoutID string
	Element  Element
	Now      time.Time
}

// ElementUpdated shallow-merges a patch into an element of the current layout.
type ElementUpdated struct {
	LayoutID string
	ID       string
	Patch    ElementPatch
	Now      time.Time
}

// ElementDeleted removes an element of the current layout.
type ElementDeleted struct {
	LayoutID string
	ID       string
	Now      time.Time
}

// DefaultsApplied overwrites the current layout content with the demo set.
type DefaultsApplied struct {
	LayoutID string
	Now      time.Time
}

// PlacementsChanged replaces the current layout placements.
type PlacementsChanged struct {
	LayoutID   string
	Placements []Placement
	Now        time.Time
}

// EditingStarted opens an element of the current layout in the editor.
type EditingStarted struct {
	ID string
}

// TypeSelected picks the widget type for the create form.
type TypeSelected struct {
	Type ElementType
}

// EditingCleared exits edit mode and clears the type selection.
type EditingCleared struct{}

func (LayoutsLoaded) actionName() string     { return "layouts.loaded" }
func (LayoutSelected) actionName() string    { return "layout.selected" }
func (LayoutCreated) actionName() string     { return "layout.created" }
func (LayoutPersisted) actionName() string   { return "layout.persisted" }
func (LayoutRenamed) actionName() string     { return "layout.renamed" }
func (LayoutDeleted) actionName() string     { return "layout.deleted" }
func (ElementAdded) actionName() string      { return "element.added" }
func (ElementUpdated) actionName() string    { return "element.updated" }
func (ElementDeleted) actionName() string    { return "element.deleted" }
func (DefaultsApplied) actionName() string   { return "defaults.applied" }
func (PlacementsChanged) actionName() string { return "placements.changed" }
func (EditingStarted) actionName() string    { return "editing.started" }
func (TypeSelected) actionName() string      { return "type.selected" }
func (EditingCleared) actionName() string    { return "editing.cleared" }

// ActionName returns the stable event name of an action.
func ActionName(a Action) string {
	if a == nil {
		return ""
	}
	return a.actionName()
}

// Reduce computes the state that follows s after a. It never mutates s.
func Reduce(s State, a Action) State {
	switch act := a.(type) {
	case LayoutsLoaded:
		layouts := make([]Layout, 0, len(act.Layouts))
		for _, l := range act.Layouts {
			layouts = append(layouts, SanitizeLayout(l))
		}
		if len(layouts) == 0 {
			layouts = append(layouts, NewDefaultLayout(act.Now))
		}
		return State{
			Layouts:         layouts,
			CurrentLayoutID: layouts[0].ID,
			Loaded:          true,
		}
	case LayoutSelected:
		if _, ok := s.Layout(act.ID); !ok {
			return s
		}
		return withEditorReset(s, act.ID)
	case LayoutCreated:
		next := s
		next.Layouts = appendOrReplace(s.Layouts, act.Layout.Clone())
		return withEditorReset(next, act.Layout.ID)
	case LayoutPersisted:
		if _, ok := s.Layout(act.PreviousID); !ok {
			return s
		}
		next := s
		next.Layouts = make([]Layout, 0, len(s.Layouts))
		for _, l := range s.Layouts {
			switch l.ID {
			case act.PreviousID:
				next.Layouts = append(next.Layouts, l.Rekeyed(act.Layout))
			case act.Layout.ID:
			default:
				next.Layouts = append(next.Layouts, l)
			}
		}
		if s.CurrentLayoutID == act.PreviousID {
			next.CurrentLayoutID = act.Layout.ID
		}
		return next
	case LayoutRenamed:
		return replaceLayout(s, act.ID, func(l Layout) Layout {
			return l.WithMetadata(act.Name, act.Description, act.Now)
		})
	case LayoutDeleted:
		return deleteLayout(s, act)
	case ElementAdded:
		if !targetsCurrent(s, act.LayoutID) {
			return s
		}
		next := replaceCurrent(s, func(l Layout) Layout {
			return l.WithElement(act.Element, act.Now)
		})
		return clearEditor(next)
	case ElementUpdated:
		if !targetsCurrent(s, act.LayoutID) {
			return s
		}
		next := replaceCurrent(s, func(l Layout) Layout {
			return l.WithElementPatch(act.ID, act.Patch, act.Now)
		})
		return clearEditor(next)
	case ElementDeleted:
		if !targetsCurrent(s, act.LayoutID) {
			return s
		}
		next := replaceCurrent(s, func(l Layout) Layout {
			out, _ := l.WithoutElement(act.ID, act.Now)
			return out
		})
		return clearEditor(next)
	case DefaultsApplied:
		if !targetsCurrent(s, act.LayoutID) {
			return s
		}
		next := replaceCurrent(s, func(l Layout) Layout {
			return l.WithContent(DemoElements(), DemoPlacements(), act.Now)
		})
		return clearEditor(next)
	case PlacementsChanged:
		if !targetsCurrent(s, act.LayoutID) {
			return s
		}
		return replaceCurrent(s, func(l Layout) Layout {
			return l.WithPlacements(act.Placements, act.Now)
		})
	case EditingStarted:
		current, ok := s.Current()
		if !ok {
			return s
		}
		el, ok := current.Element(act.ID)
		if !ok {
			return s
		}
		next := s
		next.EditingElement = &el
		next.SelectedType = el.Type
		return next
	case TypeSelected:
		next := s
		next.EditingElement = nil
		next.SelectedType = act.Type
		return next
	case EditingCleared:
		return clearEditor(s)
	default:
		return s
	}
}

func deleteLayout(s State, act LayoutDeleted) State {
	if _, ok := s.Layout(act.ID); !ok {
		return s
	}
	next := s
	next.Layouts = make([]Layout, 0, len(s.Layouts))
	for _, l := range s.Layouts {
		if l.ID != act.ID {
			next.Layouts = append(next.Layouts, l)
		}
	}
	if len(next.Layouts) == 0 {
		next.Layouts = append(next.Layouts, NewDefaultLayout(act.Now))
	}
	if s.CurrentLayoutID == act.ID {
		return withEditorReset(next, next.Layouts[0].ID)
	}
	return next
}

func withEditorReset(s State, currentID string) State {
	s.CurrentLayoutID = currentID
	return clearEditor(s)
}

func clearEditor(s State) State {
	s.EditingElement = nil
	s.SelectedType = ""
	return s
}

func targetsCurrent(s State, layoutID string) bool {
	return layoutID == "" || layoutID == s.CurrentLayoutID
}

func replaceCurrent(s State, fn func(Layout) Layout) State {
	return replaceLayout(s, s.CurrentLayoutID, fn)
}

func replaceLayout(s State, id string, fn func(Layout) Layout) State {
	idx := -1
	for i, l := range s.Layouts {
		if l.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s
	}
	next := s
	next.Layouts = make([]Layout, len(s.Layouts))
	copy(next.Layouts, s.Layouts)
	next.Layouts[idx] = fn(s.Layouts[idx])
	return next
}

func appendOrReplace(layouts []Layout, layout Layout) []Layout {
	out := make([]Layout, 0, len(layouts)+1)
	replaced := false
	for _, l := range layouts {
		if l.ID == layout.ID {
			out = append(out, layout)
			replaced = true
			continue
		}
		out = append(out, l)
	}
	if !replaced {
		out = append(out, layout)
	}
	return out
}
