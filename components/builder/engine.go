package builder

import "sort"

// GridEngine computes placement arrangements for drag and resize gestures.
// Every method returns a new slice holding one entry per input placement.
type GridEngine interface {
	Move(placements []Placement, id string, x, y int) []Placement
	Resize(placements []Placement, id string, w, h int) []Placement
	Compact(placements []Placement) []Placement
}

// VerticalCompactor is a column grid that floats items upwards and pushes
// colliding items below the item being moved.
type VerticalCompactor struct {
	Cols int
}

var _ GridEngine = VerticalCompactor{}

// NewVerticalCompactor builds an engine on the standard 12 column grid.
func NewVerticalCompactor() VerticalCompactor {
	return VerticalCompactor{Cols: GridColumns}
}

// Move places id at (x, y) and rearranges the others around it.
func (g VerticalCompactor) Move(placements []Placement, id string, x, y int) []Placement {
	return g.adjust(placements, id, func(p Placement) Placement {
		p.X = x
		p.Y = y
		return p
	})
}

// Resize changes the span of id and rearranges the others around it.
func (g VerticalCompactor) Resize(placements []Placement, id string, w, h int) []Placement {
	return g.adjust(placements, id, func(p Placement) Placement {
		p.W = w
		p.H = h
		return p
	})
}

// Compact floats every item as high as it fits, keeping input order.
func (g VerticalCompactor) Compact(placements []Placement) []Placement {
	return g.compact(g.normalized(placements), "")
}

func (g VerticalCompactor) adjust(placements []Placement, id string, fn func(Placement) Placement) []Placement {
	items := g.normalized(placements)
	idx := -1
	for i, p := range items {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return items
	}
	items[idx] = fn(items[idx]).Normalize(g.cols())
	pushDown(items, idx)
	return g.compact(items, id)
}

// pushDown moves every item colliding with items[anchor] below it, cascading
// through items that collide with the ones moved.
func pushDown(items []Placement, anchor int) {
	queue := []int{anchor}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for i := range items {
			if i == cur || i == anchor {
				continue
			}
			if collides(items[cur], items[i]) {
				items[i].Y = items[cur].Y + items[cur].H
				queue = append(queue, i)
			}
		}
	}
}

func (g VerticalCompactor) compact(items []Placement, priority string) []Placement {
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		pa, pb := items[order[a]], items[order[b]]
		if pa.Y != pb.Y {
			return pa.Y < pb.Y
		}
		if (pa.ID == priority) != (pb.ID == priority) {
			return pa.ID == priority
		}
		return pa.X < pb.X
	})
	out := make([]Placement, len(items))
	placed := make([]Placement, 0, len(items))
	for _, idx := range order {
		p := items[idx]
		if _, hit := firstCollision(p, placed); !hit {
			p.Y = floor(p, placed)
		}
		for {
			other, hit := firstCollision(p, placed)
			if !hit {
				break
			}
			p.Y = other.Y + other.H
		}
		placed = append(placed, p)
		out[idx] = p
	}
	return out
}

func (g VerticalCompactor) normalized(placements []Placement) []Placement {
	out := make([]Placement, len(placements))
	for i, p := range placements {
		out[i] = p.Normalize(g.cols())
	}
	return out
}

func (g VerticalCompactor) cols() int {
	if g.Cols <= 0 {
		return GridColumns
	}
	return g.Cols
}

// floor is the highest row p can rise to without passing through an item
// sharing one of its columns.
func floor(p Placement, placed []Placement) int {
	top := 0
	for _, o := range placed {
		if o.X >= p.X+p.W || p.X >= o.X+o.W {
			continue
		}
		if bottom := o.Y + o.H; bottom <= p.Y && bottom > top {
			top = bottom
		}
	}
	return top
}

func firstCollision(p Placement, others []Placement) (Placement, bool) {
	for _, o := range others {
		if collides(p, o) {
			return o, true
		}
	}
	return Placement{}, false
}

func collides(a, b Placement) bool {
	if a.ID == b.ID {
		return false
	}
	return a.X < b.X+b.W && b.X < a.X+a.W && a.Y < b.Y+b.H && b.Y < a.Y+a.H
}
