package commands

import (
	"context"
	"errors"
	"time"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-dashboard-builder/components/builder"
)

// SelectTypeInput picks the widget type of the create form.
type SelectTypeInput struct {
	Type builder.ElementType `json:"type"`
}

type selectTypeService interface {
	SelectType(ctx context.Context, t builder.ElementType) error
}

// SelectTypeCommand wraps Controller.SelectType.
type SelectTypeCommand struct {
	service selectTypeService
}

// NewSelectTypeCommand builds the command.
func NewSelectTypeCommand(service selectTypeService) *SelectTypeCommand {
	return &SelectTypeCommand{service: service}
}

var _ gocommand.Commander[SelectTypeInput] = (*SelectTypeCommand)(nil)

// Execute selects the type.
func (c *SelectTypeCommand) Execute(ctx context.Context, msg SelectTypeInput) error {
	if c.service == nil {
		return errors.New("select type command requires service")
	}
	return c.service.SelectType(ctx, msg.Type)
}

// BeginEditInput opens an element in the editor.
type BeginEditInput struct {
	ElementID string `json:"element_id"`
}

// CancelEditInput exits edit mode.
type CancelEditInput struct{}

type editService interface {
	BeginEdit(ctx context.Context, id string) error
	CancelEdit(ctx context.Context)
}

// BeginEditCommand wraps Controller.BeginEdit.
type BeginEditCommand struct {
	service editService
}

// NewBeginEditCommand builds the command.
func NewBeginEditCommand(service editService) *BeginEditCommand {
	return &BeginEditCommand{service: service}
}

var _ gocommand.Commander[BeginEditInput] = (*BeginEditCommand)(nil)

// Execute opens the element for editing.
func (c *BeginEditCommand) Execute(ctx context.Context, msg BeginEditInput) error {
	if c.service == nil {
		return errors.New("edit command requires service")
	}
	if msg.ElementID == "" {
		return errors.New("edit command requires element id")
	}
	return c.service.BeginEdit(ctx, msg.ElementID)
}

// CancelEditCommand wraps Controller.CancelEdit.
type CancelEditCommand struct {
	service editService
}

// NewCancelEditCommand builds the command.
func NewCancelEditCommand(service editService) *CancelEditCommand {
	return &CancelEditCommand{service: service}
}

var _ gocommand.Commander[CancelEditInput] = (*CancelEditCommand)(nil)

// Execute exits edit mode.
func (c *CancelEditCommand) Execute(ctx context.Context, _ CancelEditInput) error {
	if c.service == nil {
		return errors.New("cancel command requires service")
	}
	c.service.CancelEdit(ctx)
	return nil
}

// SubmitElementInput carries the editor form. An empty element id creates a
// new element; otherwise the element is updated.
type SubmitElementInput struct {
	ElementID string       `json:"element_id"`
	Form      builder.Form `json:"form"`
}

type submitService interface {
	builder.ElementSink
	State() builder.State
	BeginEdit(ctx context.Context, id string) error
	Registry() builder.DefinitionRegistry
	Now() time.Time
}

// SubmitElementCommand runs the editor submit flow for transports that post
// the whole form at once.
type SubmitElementCommand struct {
	service   submitService
	telemetry Telemetry
}

// NewSubmitElementCommand builds the command.
func NewSubmitElementCommand(service submitService, telemetry Telemetry) *SubmitElementCommand {
	return &SubmitElementCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SubmitElementInput] = (*SubmitElementCommand)(nil)

// Execute seeds an editor from the controller state, applies the posted form
// and submits it.
func (c *SubmitElementCommand) Execute(ctx context.Context, msg SubmitElementInput) error {
	if c.service == nil {
		return errors.New("submit command requires service")
	}
	if msg.ElementID != "" {
		if err := c.service.BeginEdit(ctx, msg.ElementID); err != nil {
			return err
		}
	}
	state := c.service.State()
	if msg.ElementID == "" {
		// create requests never target the element open in the editor
		state.EditingElement = nil
	}
	editor := builder.NewEditor(c.service.Registry(), c.service.Now)
	editor.Sync(state)
	form := msg.Form
	if form.Type == "" {
		form.Type = state.SelectedType
	}
	editor.SetForm(form)
	if err := editor.Submit(ctx, c.service); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "builder.command.submit_element", map[string]any{
		"element_id": msg.ElementID,
		"type":       string(form.Type),
	})
	return nil
}

// DeleteElementInput identifies the element to remove.
type DeleteElementInput struct {
	ElementID string `json:"element_id"`
}

type deleteElementService interface {
	DeleteElement(ctx context.Context, id string) error
}

// DeleteElementCommand wraps Controller.DeleteElement.
type DeleteElementCommand struct {
	service   deleteElementService
	telemetry Telemetry
}

// NewDeleteElementCommand builds the command.
func NewDeleteElementCommand(service deleteElementService, telemetry Telemetry) *DeleteElementCommand {
	return &DeleteElementCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DeleteElementInput] = (*DeleteElementCommand)(nil)

// Execute removes the element.
func (c *DeleteElementCommand) Execute(ctx context.Context, msg DeleteElementInput) error {
	if c.service == nil {
		return errors.New("delete element command requires service")
	}
	if msg.ElementID == "" {
		return errors.New("delete element command requires element id")
	}
	if err := c.service.DeleteElement(ctx, msg.ElementID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "builder.command.delete_element", map[string]any{"element_id": msg.ElementID})
	return nil
}
