package tui

import tea "github.com/charmbracelet/bubbletea"

// View is a modal drawn over the builder. It follows Bubble Tea's
// Init/Update/View contract.
type View interface {
	Init() tea.Cmd
	Update(tea.Msg) (View, tea.Cmd)
	View() string
}

// OverlayStack holds the open modals; the topmost receives input.
type OverlayStack struct {
	stack []View
}

// Push opens v on top.
func (s *OverlayStack) Push(v View) {
	s.stack = append(s.stack, v)
}

// Pop closes the top modal.
func (s *OverlayStack) Pop() (View, bool) {
	if len(s.stack) == 0 {
		return nil, false
	}
	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return top, true
}

// Peek returns the top modal.
func (s *OverlayStack) Peek() (View, bool) {
	if len(s.stack) == 0 {
		return nil, false
	}
	return s.stack[len(s.stack)-1], true
}

// Len reports the number of open modals.
func (s *OverlayStack) Len() int {
	return len(s.stack)
}

// UpdateTop forwards msg to the top modal.
func (s *OverlayStack) UpdateTop(msg tea.Msg) (tea.Cmd, bool) {
	if len(s.stack) == 0 {
		return nil, false
	}
	next, cmd := s.stack[len(s.stack)-1].Update(msg)
	s.stack[len(s.stack)-1] = next
	return cmd, true
}
