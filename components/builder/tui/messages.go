package tui

import "github.com/goliatone/go-dashboard-builder/components/builder"

// DismissModalMsg closes the top modal.
type DismissModalMsg struct{}

// LayoutsLoadedMsg reports the end of the initial load.
type LayoutsLoadedMsg struct {
	Count int
}

// CreateLayoutMsg submits the create layout form.
type CreateLayoutMsg struct {
	Form builder.LayoutForm
}

// RenameLayoutMsg submits the rename layout form.
type RenameLayoutMsg struct {
	ID   string
	Form builder.LayoutForm
}

// DeleteLayoutMsg carries a confirmed layout deletion.
type DeleteLayoutMsg struct {
	ID string
}

// ApplyDefaultsMsg carries a confirmed demo set replacement.
type ApplyDefaultsMsg struct{}

// SubmitElementMsg submits the element form.
type SubmitElementMsg struct {
	Form builder.Form
}

// OpDoneMsg reports the outcome of a remote operation.
type OpDoneMsg struct {
	Op  string
	Err error
}
