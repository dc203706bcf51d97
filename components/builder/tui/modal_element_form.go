package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/goliatone/go-dashboard-builder/components/builder"
)

// ElementFormModal edits the fields of one widget type. Submit stays disabled
// until the required field of the type is filled.
type ElementFormModal struct {
	elementType builder.ElementType
	editing     bool
	label       textinput.Model
	url         textinput.Model
	chartType   textinput.Model
	chartText   textinput.Model
	tableText   textarea.Model
	fields      []string
	focus       int
}

var _ View = (*ElementFormModal)(nil)

// NewElementFormModal builds the form for form.Type seeded with form.
func NewElementFormModal(form builder.Form, editing bool) *ElementFormModal {
	m := &ElementFormModal{
		elementType: form.Type,
		editing:     editing,
		label:       newInput("Label", form.Label),
		url:         newInput("https://example.com/image.png", form.URL),
		chartType:   newInput(builder.DefaultChartType, form.ChartType),
		chartText:   newInput("Jan,Feb,Mar|Sales:10,20,30", form.ChartText),
	}
	m.tableText = textarea.New()
	m.tableText.Placeholder = "Name,Age\nAlice,30"
	m.tableText.SetWidth(40)
	m.tableText.SetHeight(6)
	m.tableText.SetValue(form.TableText)

	m.fields = []string{"label"}
	switch form.Type {
	case builder.ElementImage:
		m.fields = append(m.fields, "url")
	case builder.ElementChart:
		m.fields = append(m.fields, "chartType", "chartText")
	case builder.ElementTable:
		m.fields = append(m.fields, "tableText")
	}
	m.focusField(0)
	return m
}

func newInput(placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Width = 40
	ti.SetValue(value)
	return ti
}

// Form returns the current field values.
func (m *ElementFormModal) Form() builder.Form {
	return builder.Form{
		Type:      m.elementType,
		Label:     m.label.Value(),
		URL:       m.url.Value(),
		ChartType: strings.TrimSpace(m.chartType.Value()),
		ChartText: m.chartText.Value(),
		TableText: m.tableText.Value(),
	}
}

// Init implements View.
func (m *ElementFormModal) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements View.
func (m *ElementFormModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m, dismiss
		case "tab":
			m.focusField((m.focus + 1) % len(m.fields))
			return m, nil
		case "shift+tab":
			m.focusField((m.focus + len(m.fields) - 1) % len(m.fields))
			return m, nil
		case "ctrl+s":
			return m, m.submit()
		case "enter":
			if m.fields[m.focus] != "tableText" {
				return m, m.submit()
			}
		}
	}
	var cmd tea.Cmd
	switch m.fields[m.focus] {
	case "label":
		m.label, cmd = m.label.Update(msg)
	case "url":
		m.url, cmd = m.url.Update(msg)
	case "chartType":
		m.chartType, cmd = m.chartType.Update(msg)
	case "chartText":
		m.chartText, cmd = m.chartText.Update(msg)
	case "tableText":
		m.tableText, cmd = m.tableText.Update(msg)
	}
	return m, cmd
}

func (m *ElementFormModal) submit() tea.Cmd {
	form := m.Form()
	if !form.Ready() {
		return nil
	}
	return func() tea.Msg { return SubmitElementMsg{Form: form} }
}

func (m *ElementFormModal) focusField(i int) {
	m.focus = i
	m.label.Blur()
	m.url.Blur()
	m.chartType.Blur()
	m.chartText.Blur()
	m.tableText.Blur()
	switch m.fields[i] {
	case "label":
		m.label.Focus()
	case "url":
		m.url.Focus()
	case "chartType":
		m.chartType.Focus()
	case "chartText":
		m.chartText.Focus()
	case "tableText":
		m.tableText.Focus()
	}
}

// View implements View.
func (m *ElementFormModal) View() string {
	verb := "Add"
	if m.editing {
		verb = "Edit"
	}
	content := Styles.Title.Render(verb+" "+string(m.elementType)+" element") + "\n\n"
	for _, field := range m.fields {
		switch field {
		case "label":
			content += Styles.Muted.Render("Label") + "\n" + m.label.View() + "\n"
		case "url":
			content += Styles.Muted.Render("Image URL") + "\n" + m.url.View() + "\n"
		case "chartType":
			content += Styles.Muted.Render("Chart type (bar, line, pie)") + "\n" + m.chartType.View() + "\n"
		case "chartText":
			content += Styles.Muted.Render("Chart data") + "\n" + m.chartText.View() + "\n"
		case "tableText":
			content += Styles.Muted.Render("Table data") + "\n" + m.tableText.View() + "\n"
		}
	}
	hint := "Tab: next field  Enter/Ctrl+S: submit  Esc: cancel"
	if !m.Form().Ready() {
		hint = "Fill in the " + builder.RequiredField(m.elementType) + " field to submit  Esc: cancel"
	}
	content += "\n" + Styles.Hint.Render(hint)
	return Styles.Box.Render(content)
}
