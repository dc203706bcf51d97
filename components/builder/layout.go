package builder

import "time"

// DefaultLayoutID is the reserved id of the local, unsaved layout.
const DefaultLayoutID = "default"

// Grid geometry shared by the canvas and the grid engine.
const (
	GridColumns   = 12
	GridRowHeight = 60
	GridWidth     = 1200
	GridMaxRows   = 1000
)

// Placement is the grid position and span of one element. ID references the
// element it places.
type Placement struct {
	ID string `json:"i" yaml:"i"`
	X  int    `json:"x" yaml:"x"`
	Y  int    `json:"y" yaml:"y"`
	W  int    `json:"w" yaml:"w"`
	H  int    `json:"h" yaml:"h"`
}

// DefaultPlacement is where newly added elements land.
func DefaultPlacement(id string) Placement {
	return Placement{ID: id, X: 0, Y: 0, W: 4, H: 4}
}

// Normalize clamps the placement to the grid bounds.
func (p Placement) Normalize(cols int) Placement {
	if cols <= 0 {
		cols = GridColumns
	}
	if p.W < 1 {
		p.W = 1
	}
	if p.W > cols {
		p.W = cols
	}
	if p.H < 1 {
		p.H = 1
	}
	if p.H > GridMaxRows {
		p.H = GridMaxRows
	}
	if p.X < 0 {
		p.X = 0
	}
	if p.X+p.W > cols {
		p.X = cols - p.W
	}
	if p.Y < 0 {
		p.Y = 0
	}
	if p.Y > GridMaxRows {
		p.Y = GridMaxRows
	}
	return p
}

// Layout is a named dashboard: its elements and their placements.
type Layout struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Placements  []Placement `json:"layout" yaml:"layout"`
	Elements    []Element   `json:"elements" yaml:"elements"`
	CreatedAt   time.Time   `json:"createdAt,omitzero" yaml:"createdAt,omitempty"`
	UpdatedAt   time.Time   `json:"updatedAt,omitzero" yaml:"updatedAt,omitempty"`
}

// NewDefaultLayout builds the local sentinel layout used when nothing could be
// loaded from the API.
func NewDefaultLayout(now time.Time) Layout {
	return Layout{
		ID:          DefaultLayoutID,
		Name:        "Default Layout",
		Description: "Default layout",
		Placements:  []Placement{},
		Elements:    []Element{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Rekeyed returns a copy of l carrying the identity and timestamps of saved,
// the server copy of l. Content stays local.
func (l Layout) Rekeyed(saved Layout) Layout {
	out := l.Clone()
	out.ID = saved.ID
	if !saved.CreatedAt.IsZero() {
		out.CreatedAt = saved.CreatedAt
	}
	if !saved.UpdatedAt.IsZero() {
		out.UpdatedAt = saved.UpdatedAt
	}
	return out
}

// IsDefault reports whether the layout is the unsaved local sentinel.
func (l Layout) IsDefault() bool {
	return l.ID == DefaultLayoutID
}

// Clone returns a deep copy of the layout.
func (l Layout) Clone() Layout {
	out := l
	out.Placements = append([]Placement(nil), l.Placements...)
	if out.Placements == nil {
		out.Placements = []Placement{}
	}
	out.Elements = make([]Element, len(l.Elements))
	for i, el := range l.Elements {
		out.Elements[i] = el.Clone()
	}
	return out
}

// Element looks up an element by id.
func (l Layout) Element(id string) (Element, bool) {
	for _, el := range l.Elements {
		if el.ID == id {
			return el.Clone(), true
		}
	}
	return Element{}, false
}

// Placement looks up the placement of an element.
func (l Layout) Placement(id string) (Placement, bool) {
	for _, p := range l.Placements {
		if p.ID == id {
			return p, true
		}
	}
	return Placement{}, false
}

// WithElement appends el and its default placement.
func (l Layout) WithElement(el Element, now time.Time) Layout {
	out := l.Clone()
	out.Elements = append(out.Elements, el.Clone())
	out.Placements = append(out.Placements, DefaultPlacement(el.ID))
	out.UpdatedAt = now
	return out
}

// WithElementPatch merges patch into the element with the given id. Unknown ids
// leave the content untouched but still count as a mutation.
func (l Layout) WithElementPatch(id string, patch ElementPatch, now time.Time) Layout {
	out := l.Clone()
	for i, el := range out.Elements {
		if el.ID == id {
			out.Elements[i] = patch.Apply(el)
		}
	}
	out.UpdatedAt = now
	return out
}

// WithoutElement drops the element and its placement. The second result is
// false when no element had that id, in which case l is returned unchanged.
func (l Layout) WithoutElement(id string, now time.Time) (Layout, bool) {
	if _, ok := l.Element(id); !ok {
		return l, false
	}
	out := l.Clone()
	elements := make([]Element, 0, len(out.Elements))
	for _, el := range out.Elements {
		if el.ID != id {
			elements = append(elements, el)
		}
	}
	placements := make([]Placement, 0, len(out.Placements))
	for _, p := range out.Placements {
		if p.ID != id {
			placements = append(placements, p)
		}
	}
	out.Elements = elements
	out.Placements = placements
	out.UpdatedAt = now
	return out, true
}

// WithContent replaces both element and placement lists.
func (l Layout) WithContent(elements []Element, placements []Placement, now time.Time) Layout {
	out := l.Clone()
	out.Elements = make([]Element, len(elements))
	for i, el := range elements {
		out.Elements[i] = el.Clone()
	}
	out.Placements = append([]Placement{}, placements...)
	out.UpdatedAt = now
	return out
}

// WithPlacements swaps in an externally computed arrangement. The result keeps
// exactly one placement per element: placements for unknown ids and duplicates
// are dropped, elements left without a placement get the default one.
func (l Layout) WithPlacements(placements []Placement, now time.Time) Layout {
	out := l.Clone()
	out.Placements = reconcilePlacements(out.Elements, placements)
	out.UpdatedAt = now
	return out
}

// WithMetadata patches name and description only.
func (l Layout) WithMetadata(name, description string, now time.Time) Layout {
	out := l.Clone()
	out.Name = name
	out.Description = description
	out.UpdatedAt = now
	return out
}

// InLockstep reports whether every element has exactly one placement and every
// placement references an element.
func (l Layout) InLockstep() bool {
	if len(l.Elements) != len(l.Placements) {
		return false
	}
	ids := make(map[string]int, len(l.Elements))
	for _, el := range l.Elements {
		ids[el.ID]++
	}
	for _, p := range l.Placements {
		if ids[p.ID] != 1 {
			return false
		}
		ids[p.ID]++
	}
	return true
}

func reconcilePlacements(elements []Element, placements []Placement) []Placement {
	index := make(map[string]Placement, len(placements))
	order := make([]string, 0, len(placements))
	for _, p := range placements {
		if _, seen := index[p.ID]; seen {
			continue
		}
		index[p.ID] = p.Normalize(GridColumns)
		order = append(order, p.ID)
	}
	known := make(map[string]struct{}, len(elements))
	for _, el := range elements {
		known[el.ID] = struct{}{}
	}
	result := make([]Placement, 0, len(elements))
	placed := make(map[string]struct{}, len(elements))
	for _, id := range order {
		if _, ok := known[id]; !ok {
			continue
		}
		result = append(result, index[id])
		placed[id] = struct{}{}
	}
	for _, el := range elements {
		if _, ok := placed[el.ID]; !ok {
			result = append(result, DefaultPlacement(el.ID))
		}
	}
	return result
}
