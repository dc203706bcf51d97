package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit          key.Binding
	PrevLayout    key.Binding
	NextLayout    key.Binding
	NewLayout     key.Binding
	RenameLayout  key.Binding
	DeleteLayout  key.Binding
	Save          key.Binding
	Defaults      key.Binding
	AddElement    key.Binding
	NextElement   key.Binding
	PrevElement   key.Binding
	Edit          key.Binding
	DeleteElement key.Binding
	MoveLeft      key.Binding
	MoveRight     key.Binding
	MoveUp        key.Binding
	MoveDown      key.Binding
	Wider         key.Binding
	Narrower      key.Binding
	Taller        key.Binding
	Shorter       key.Binding
	Cancel        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		PrevLayout:    key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev layout")),
		NextLayout:    key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next layout")),
		NewLayout:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new layout")),
		RenameLayout:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		DeleteLayout:  key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete layout")),
		Save:          key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "save")),
		Defaults:      key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "load defaults")),
		AddElement:    key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "add element")),
		NextElement:   key.NewBinding(key.WithKeys("tab", "j", "down"), key.WithHelp("tab", "next element")),
		PrevElement:   key.NewBinding(key.WithKeys("shift+tab", "k", "up"), key.WithHelp("shift+tab", "prev element")),
		Edit:          key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter", "edit")),
		DeleteElement: key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete element")),
		MoveLeft:      key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h", "move left")),
		MoveRight:     key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l", "move right")),
		MoveUp:        key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "move up")),
		MoveDown:      key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "move down")),
		Wider:         key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "wider")),
		Narrower:      key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "narrower")),
		Taller:        key.NewBinding(key.WithKeys("}"), key.WithHelp("}", "taller")),
		Shorter:       key.NewBinding(key.WithKeys("{"), key.WithHelp("{", "shorter")),
		Cancel:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "stop editing")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.AddElement, k.Edit, k.Save, k.NewLayout, k.DeleteLayout, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevLayout, k.NextLayout, k.NewLayout, k.RenameLayout, k.DeleteLayout, k.Save, k.Defaults},
		{k.AddElement, k.NextElement, k.PrevElement, k.Edit, k.DeleteElement, k.Cancel},
		{k.MoveLeft, k.MoveRight, k.MoveUp, k.MoveDown, k.Wider, k.Narrower, k.Taller, k.Shorter},
		{k.Quit},
	}
}
