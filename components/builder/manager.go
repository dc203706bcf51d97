package builder

import (
	"context"
	"fmt"
	"strings"
)

// DefaultsPrompt asks before the demo set replaces the current content.
const DefaultsPrompt = "This will replace all current elements with default examples. Are you sure?"

// DeletePrompt asks before a layout is deleted.
func DeletePrompt(name string) string {
	return fmt.Sprintf("Are you sure you want to delete \"%s\"?", name)
}

// Confirmer gates destructive actions behind a yes/no prompt.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function into a Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// Confirmed answers every prompt with the given value. Transports use it when
// the confirmation was collected client side.
func Confirmed(answer bool) Confirmer {
	return ConfirmFunc(func(context.Context, string) bool { return answer })
}

// LayoutService is the part of the Controller the layout manager delegates to.
type LayoutService interface {
	State() State
	SelectLayout(ctx context.Context, id string) error
	CreateLayout(ctx context.Context, name, description string) (Layout, error)
	RenameLayout(ctx context.Context, id, name, description string) error
	DeleteLayout(ctx context.Context, id string) error
	SaveLayout(ctx context.Context, id string) error
	ReplaceWithDefaults(ctx context.Context) error
}

var _ LayoutService = (*Controller)(nil)

// LayoutForm holds the create/rename modal fields.
type LayoutForm struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate requires a non-blank name.
func (f LayoutForm) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return ErrBlankLayoutName
	}
	return nil
}

// LayoutOption is one entry of the layout selector.
type LayoutOption struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Current  bool   `json:"current"`
	Unsaved  bool   `json:"unsaved"`
	Elements int    `json:"elements"`
}

// LayoutManager is the selector, the create/rename forms and the confirmation
// gate in front of destructive layout actions.
type LayoutManager struct {
	svc     LayoutService
	confirm Confirmer
}

// NewLayoutManager wires a manager. A nil confirmer declines every prompt.
func NewLayoutManager(svc LayoutService, confirm Confirmer) *LayoutManager {
	if confirm == nil {
		confirm = Confirmed(false)
	}
	return &LayoutManager{svc: svc, confirm: confirm}
}

// WithConfirmer returns a copy of the manager using c for prompts.
func (m *LayoutManager) WithConfirmer(c Confirmer) *LayoutManager {
	if c == nil {
		c = Confirmed(false)
	}
	return &LayoutManager{svc: m.svc, confirm: c}
}

// Options lists the selector entries.
func (m *LayoutManager) Options() []LayoutOption {
	state := m.svc.State()
	out := make([]LayoutOption, 0, len(state.Layouts))
	for _, l := range state.Layouts {
		out = append(out, LayoutOption{
			ID:       l.ID,
			Name:     l.Name,
			Current:  l.ID == state.CurrentLayoutID,
			Unsaved:  l.IsDefault(),
			Elements: len(l.Elements),
		})
	}
	return out
}

// CanDelete reports whether the delete action is enabled.
func (m *LayoutManager) CanDelete() bool {
	return len(m.svc.State().Layouts) > 1
}

// Select switches the active layout.
func (m *LayoutManager) Select(ctx context.Context, id string) error {
	return m.svc.SelectLayout(ctx, id)
}

// Create submits the create form.
func (m *LayoutManager) Create(ctx context.Context, form LayoutForm) (Layout, error) {
	if err := form.Validate(); err != nil {
		return Layout{}, err
	}
	return m.svc.CreateLayout(ctx, form.Name, form.Description)
}

// RenameForm seeds the rename form from an existing layout.
func (m *LayoutManager) RenameForm(id string) (LayoutForm, error) {
	l, ok := m.svc.State().Layout(id)
	if !ok {
		return LayoutForm{}, fmt.Errorf("%w: %s", ErrUnknownLayout, id)
	}
	return LayoutForm{Name: l.Name, Description: l.Description}, nil
}

// Rename submits the rename form.
func (m *LayoutManager) Rename(ctx context.Context, id string, form LayoutForm) error {
	if err := form.Validate(); err != nil {
		return err
	}
	return m.svc.RenameLayout(ctx, id, form.Name, form.Description)
}

// Save persists the current layout.
func (m *LayoutManager) Save(ctx context.Context) error {
	return m.svc.SaveLayout(ctx, m.svc.State().CurrentLayoutID)
}

// Delete asks for confirmation and deletes the layout. It reports false when
// the action was disabled or declined.
func (m *LayoutManager) Delete(ctx context.Context, id string) (bool, error) {
	if !m.CanDelete() {
		return false, nil
	}
	l, ok := m.svc.State().Layout(id)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownLayout, id)
	}
	if !m.confirm.Confirm(ctx, DeletePrompt(l.Name)) {
		return false, nil
	}
	if err := m.svc.DeleteLayout(ctx, id); err != nil {
		return false, err
	}
	return true, nil
}

// ReplaceWithDefaults asks for confirmation and loads the demo set into the
// current layout.
func (m *LayoutManager) ReplaceWithDefaults(ctx context.Context) (bool, error) {
	if !m.confirm.Confirm(ctx, DefaultsPrompt) {
		return false, nil
	}
	if err := m.svc.ReplaceWithDefaults(ctx); err != nil {
		return false, err
	}
	return true, nil
}
