package tui

import tea "github.com/charmbracelet/bubbletea"

// ConfirmModal asks a yes/no question. Enter or y confirms; Esc or n cancels.
// The model closes the modal when it handles the confirmed message.
type ConfirmModal struct {
	Title     string
	Prompt    string
	OnConfirm func() tea.Msg
}

var _ View = (*ConfirmModal)(nil)

// NewConfirmModal builds a confirmation modal.
func NewConfirmModal(title, prompt string, onConfirm func() tea.Msg) *ConfirmModal {
	return &ConfirmModal{Title: title, Prompt: prompt, OnConfirm: onConfirm}
}

// Init implements View.
func (m *ConfirmModal) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (m *ConfirmModal) Update(msg tea.Msg) (View, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "esc", "n":
		return m, dismiss
	case "enter", "y":
		if m.OnConfirm == nil {
			return m, dismiss
		}
		return m, m.OnConfirm
	}
	return m, nil
}

// View implements View.
func (m *ConfirmModal) View() string {
	content := Styles.TitleWarning.Render(m.Title) + "\n\n"
	content += Styles.Normal.Render(m.Prompt)
	content += "\n\n" + Styles.Hint.Render("y/Enter: confirm  Esc: cancel")
	return Styles.BoxDanger.Render(content)
}

func dismiss() tea.Msg {
	return DismissModalMsg{}
}
