package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-dashboard-builder/components/builder"
)

// ErrConfirmationRequired is returned when a destructive command arrives
// without an explicit confirmation.
var ErrConfirmationRequired = errors.New("commands: confirmation required")

// LoadLayoutsInput triggers the initial layout load.
type LoadLayoutsInput struct{}

type loadService interface {
	LoadLayouts(ctx context.Context) builder.State
}

// LoadLayoutsCommand wraps Controller.LoadLayouts.
type LoadLayoutsCommand struct {
	service   loadService
	telemetry Telemetry
}

// NewLoadLayoutsCommand builds the command.
func NewLoadLayoutsCommand(service loadService, telemetry Telemetry) *LoadLayoutsCommand {
	return &LoadLayoutsCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[LoadLayoutsInput] = (*LoadLayoutsCommand)(nil)

// Execute loads layouts. Failures fall back to the local default layout.
func (c *LoadLayoutsCommand) Execute(ctx context.Context, _ LoadLayoutsInput) error {
	if c.service == nil {
		return errors.New("load command requires service")
	}
	state := c.service.LoadLayouts(ctx)
	c.telemetry.Record(ctx, "builder.command.load", map[string]any{"count": len(state.Layouts)})
	return nil
}

// CreateLayoutInput carries the create form.
type CreateLayoutInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type createService interface {
	CreateLayout(ctx context.Context, name, description string) (builder.Layout, error)
}

// CreateLayoutCommand wraps Controller.CreateLayout.
type CreateLayoutCommand struct {
	service   createService
	telemetry Telemetry
}

// NewCreateLayoutCommand builds the command.
func NewCreateLayoutCommand(service createService, telemetry Telemetry) *CreateLayoutCommand {
	return &CreateLayoutCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[CreateLayoutInput] = (*CreateLayoutCommand)(nil)

// Execute validates the form and creates the layout remotely.
func (c *CreateLayoutCommand) Execute(ctx context.Context, msg CreateLayoutInput) error {
	if c.service == nil {
		return errors.New("create command requires service")
	}
	form := builder.LayoutForm{Name: msg.Name, Description: msg.Description}
	if err := form.Validate(); err != nil {
		return err
	}
	layout, err := c.service.CreateLayout(ctx, form.Name, form.Description)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "builder.command.create_layout", map[string]any{"layout_id": layout.ID})
	return nil
}

// RenameLayoutInput carries the rename form.
type RenameLayoutInput struct {
	LayoutID    string `json:"layout_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type renameService interface {
	RenameLayout(ctx context.Context, id, name, description string) error
}

// RenameLayoutCommand wraps Controller.RenameLayout.
type RenameLayoutCommand struct {
	service   renameService
	telemetry Telemetry
}

// NewRenameLayoutCommand builds the command.
func NewRenameLayoutCommand(service renameService, telemetry Telemetry) *RenameLayoutCommand {
	return &RenameLayoutCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RenameLayoutInput] = (*RenameLayoutCommand)(nil)

// Execute renames the layout.
func (c *RenameLayoutCommand) Execute(ctx context.Context, msg RenameLayoutInput) error {
	if c.service == nil {
		return errors.New("rename command requires service")
	}
	if msg.LayoutID == "" {
		return errors.New("rename command requires layout id")
	}
	form := builder.LayoutForm{Name: msg.Name, Description: msg.Description}
	if err := form.Validate(); err != nil {
		return err
	}
	if err := c.service.RenameLayout(ctx, msg.LayoutID, form.Name, form.Description); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "builder.command.rename_layout", map[string]any{"layout_id": msg.LayoutID})
	return nil
}

// SelectLayoutInput identifies the layout to activate.
type SelectLayoutInput struct {
	LayoutID string `json:"layout_id"`
}

type selectService interface {
	SelectLayout(ctx context.Context, id string) error
}

// SelectLayoutCommand wraps Controller.SelectLayout.
type SelectLayoutCommand struct {
	service selectService
}

// NewSelectLayoutCommand builds the command.
func NewSelectLayoutCommand(service selectService) *SelectLayoutCommand {
	return &SelectLayoutCommand{service: service}
}

var _ gocommand.Commander[SelectLayoutInput] = (*SelectLayoutCommand)(nil)

// Execute switches the active layout.
func (c *SelectLayoutCommand) Execute(ctx context.Context, msg SelectLayoutInput) error {
	if c.service == nil {
		return errors.New("select command requires service")
	}
	return c.service.SelectLayout(ctx, msg.LayoutID)
}

// SaveLayoutInput identifies the layout to persist. An empty id saves the
// current layout.
type SaveLayoutInput struct {
	LayoutID string `json:"layout_id"`
}

type saveService interface {
	State() builder.State
	SaveLayout(ctx context.Context, id string) error
}

// SaveLayoutCommand wraps Controller.SaveLayout.
type SaveLayoutCommand struct {
	service   saveService
	telemetry Telemetry
}

// NewSaveLayoutCommand builds the command.
func NewSaveLayoutCommand(service saveService, telemetry Telemetry) *SaveLayoutCommand {
	return &SaveLayoutCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SaveLayoutInput] = (*SaveLayoutCommand)(nil)

// Execute persists the layout content.
func (c *SaveLayoutCommand) Execute(ctx context.Context, msg SaveLayoutInput) error {
	if c.service == nil {
		return errors.New("save command requires service")
	}
	id := msg.LayoutID
	if id == "" {
		id = c.service.State().CurrentLayoutID
	}
	if err := c.service.SaveLayout(ctx, id); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "builder.command.save_layout", map[string]any{"layout_id": id})
	return nil
}

// DeleteLayoutInput identifies the layout to delete. Confirm carries the
// answer to the delete prompt.
type DeleteLayoutInput struct {
	LayoutID string `json:"layout_id"`
	Confirm  bool   `json:"confirm"`
}

// DeleteLayoutCommand deletes layouts through the layout manager gate.
type DeleteLayoutCommand struct {
	service   builder.LayoutService
	telemetry Telemetry
}

// NewDeleteLayoutCommand builds the command.
func NewDeleteLayoutCommand(service builder.LayoutService, telemetry Telemetry) *DeleteLayoutCommand {
	return &DeleteLayoutCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DeleteLayoutInput] = (*DeleteLayoutCommand)(nil)

// Execute deletes the layout when confirmed and allowed.
func (c *DeleteLayoutCommand) Execute(ctx context.Context, msg DeleteLayoutInput) error {
	if c.service == nil {
		return errors.New("delete command requires service")
	}
	if !msg.Confirm {
		return ErrConfirmationRequired
	}
	manager := builder.NewLayoutManager(c.service, builder.Confirmed(true))
	if !manager.CanDelete() {
		return builder.ErrLastLayout
	}
	deleted, err := manager.Delete(ctx, msg.LayoutID)
	if err != nil {
		return err
	}
	if deleted {
		c.telemetry.Record(ctx, "builder.command.delete_layout", map[string]any{"layout_id": msg.LayoutID})
	}
	return nil
}

// ApplyDefaultsInput replaces a layout content with the demo set. An empty
// layout id targets the current layout.
type ApplyDefaultsInput struct {
	LayoutID string `json:"layout_id"`
	Confirm  bool   `json:"confirm"`
}

// ApplyDefaultsCommand loads the demo set through the layout manager gate.
type ApplyDefaultsCommand struct {
	service   builder.LayoutService
	telemetry Telemetry
}

// NewApplyDefaultsCommand builds the command.
func NewApplyDefaultsCommand(service builder.LayoutService, telemetry Telemetry) *ApplyDefaultsCommand {
	return &ApplyDefaultsCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ApplyDefaultsInput] = (*ApplyDefaultsCommand)(nil)

// Execute selects the target layout when needed and loads the demo set.
func (c *ApplyDefaultsCommand) Execute(ctx context.Context, msg ApplyDefaultsInput) error {
	if c.service == nil {
		return errors.New("defaults command requires service")
	}
	if !msg.Confirm {
		return ErrConfirmationRequired
	}
	if msg.LayoutID != "" && msg.LayoutID != c.service.State().CurrentLayoutID {
		if err := c.service.SelectLayout(ctx, msg.LayoutID); err != nil {
			return err
		}
	}
	manager := builder.NewLayoutManager(c.service, builder.Confirmed(true))
	if _, err := manager.ReplaceWithDefaults(ctx); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "builder.command.apply_defaults", map[string]any{
		"layout_id": c.service.State().CurrentLayoutID,
	})
	return nil
}
