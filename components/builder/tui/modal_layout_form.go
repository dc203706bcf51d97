package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/goliatone/go-dashboard-builder/components/builder"
)

// LayoutFormModal is the create and rename layout form. An empty layout id
// creates a layout.
type LayoutFormModal struct {
	layoutID    string
	name        textinput.Model
	description textinput.Model
	focus       int
	err         error
}

var _ View = (*LayoutFormModal)(nil)

// NewLayoutFormModal builds the form seeded with form.
func NewLayoutFormModal(layoutID string, form builder.LayoutForm) *LayoutFormModal {
	name := textinput.New()
	name.Placeholder = "Layout name"
	name.Width = 40
	name.SetValue(form.Name)
	name.Focus()

	desc := textinput.New()
	desc.Placeholder = "Description (optional)"
	desc.Width = 40
	desc.SetValue(form.Description)

	return &LayoutFormModal{layoutID: layoutID, name: name, description: desc}
}

// Form returns the current field values.
func (m *LayoutFormModal) Form() builder.LayoutForm {
	return builder.LayoutForm{Name: m.name.Value(), Description: m.description.Value()}
}

// Init implements View.
func (m *LayoutFormModal) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements View.
func (m *LayoutFormModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m, dismiss
		case "tab", "shift+tab":
			m.toggleFocus()
			return m, nil
		case "enter":
			form := m.Form()
			if err := form.Validate(); err != nil {
				m.err = err
				return m, nil
			}
			if m.layoutID == "" {
				return m, func() tea.Msg { return CreateLayoutMsg{Form: form} }
			}
			id := m.layoutID
			return m, func() tea.Msg { return RenameLayoutMsg{ID: id, Form: form} }
		}
	}
	var cmd tea.Cmd
	if m.focus == 0 {
		m.name, cmd = m.name.Update(msg)
	} else {
		m.description, cmd = m.description.Update(msg)
	}
	return m, cmd
}

func (m *LayoutFormModal) toggleFocus() {
	if m.focus == 0 {
		m.focus = 1
		m.name.Blur()
		m.description.Focus()
		return
	}
	m.focus = 0
	m.description.Blur()
	m.name.Focus()
}

// View implements View.
func (m *LayoutFormModal) View() string {
	title := "Create layout"
	action := "create"
	if m.layoutID != "" {
		title = "Rename layout"
		action = "save"
	}
	content := Styles.Title.Render(title) + "\n\n"
	content += m.name.View() + "\n"
	content += m.description.View() + "\n"
	if m.err != nil {
		content += "\n" + Styles.Error.Render(m.err.Error()) + "\n"
	}
	content += "\n" + Styles.Hint.Render("Tab: next field  Enter: "+action+"  Esc: cancel")
	return Styles.Box.Render(content)
}
