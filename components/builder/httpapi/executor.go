package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-dashboard-builder/components/builder"
	"github.com/goliatone/go-dashboard-builder/components/builder/commands"
)

// Executor runs builder commands on behalf of a transport.
type Executor interface {
	CreateLayout(ctx context.Context, input commands.CreateLayoutInput) error
	RenameLayout(ctx context.Context, input commands.RenameLayoutInput) error
	SelectLayout(ctx context.Context, input commands.SelectLayoutInput) error
	SaveLayout(ctx context.Context, input commands.SaveLayoutInput) error
	DeleteLayout(ctx context.Context, input commands.DeleteLayoutInput) error
	ApplyDefaults(ctx context.Context, input commands.ApplyDefaultsInput) error
	SelectType(ctx context.Context, input commands.SelectTypeInput) error
	CancelEdit(ctx context.Context, input commands.CancelEditInput) error
	BeginEdit(ctx context.Context, input commands.BeginEditInput) error
	SubmitElement(ctx context.Context, input commands.SubmitElementInput) error
	DeleteElement(ctx context.Context, input commands.DeleteElementInput) error
	MovePlacement(ctx context.Context, input commands.MovePlacementInput) error
	ResizePlacement(ctx context.Context, input commands.ResizePlacementInput) error
	ApplyPlacements(ctx context.Context, input commands.ApplyPlacementsInput) error
}

var errNotConfigured = errors.New("httpapi: command not configured")

// CommandExecutor adapts go-command commanders to the Executor interface.
type CommandExecutor struct {
	CreateCommander          gocommand.Commander[commands.CreateLayoutInput]
	RenameCommander          gocommand.Commander[commands.RenameLayoutInput]
	SelectCommander          gocommand.Commander[commands.SelectLayoutInput]
	SaveCommander            gocommand.Commander[commands.SaveLayoutInput]
	DeleteCommander          gocommand.Commander[commands.DeleteLayoutInput]
	DefaultsCommander        gocommand.Commander[commands.ApplyDefaultsInput]
	SelectTypeCommander      gocommand.Commander[commands.SelectTypeInput]
	CancelEditCommander      gocommand.Commander[commands.CancelEditInput]
	BeginEditCommander       gocommand.Commander[commands.BeginEditInput]
	SubmitCommander          gocommand.Commander[commands.SubmitElementInput]
	DeleteElementCommander   gocommand.Commander[commands.DeleteElementInput]
	MoveCommander            gocommand.Commander[commands.MovePlacementInput]
	ResizeCommander          gocommand.Commander[commands.ResizePlacementInput]
	ApplyPlacementsCommander gocommand.Commander[commands.ApplyPlacementsInput]
}

var _ Executor = (*CommandExecutor)(nil)

// NewCommandExecutor wires every builder command against ctrl and canvas.
func NewCommandExecutor(ctrl *builder.Controller, canvas *builder.Canvas, telemetry commands.Telemetry) *CommandExecutor {
	exec := &CommandExecutor{
		CreateCommander:          commands.NewCreateLayoutCommand(ctrl, telemetry),
		RenameCommander:          commands.NewRenameLayoutCommand(ctrl, telemetry),
		SelectCommander:          commands.NewSelectLayoutCommand(ctrl),
		SaveCommander:            commands.NewSaveLayoutCommand(ctrl, telemetry),
		DeleteCommander:          commands.NewDeleteLayoutCommand(ctrl, telemetry),
		DefaultsCommander:        commands.NewApplyDefaultsCommand(ctrl, telemetry),
		SelectTypeCommander:      commands.NewSelectTypeCommand(ctrl),
		CancelEditCommander:      commands.NewCancelEditCommand(ctrl),
		BeginEditCommander:       commands.NewBeginEditCommand(ctrl),
		SubmitCommander:          commands.NewSubmitElementCommand(ctrl, telemetry),
		DeleteElementCommander:   commands.NewDeleteElementCommand(ctrl, telemetry),
		ApplyPlacementsCommander: commands.NewApplyPlacementsCommand(ctrl),
	}
	if canvas != nil {
		exec.MoveCommander = commands.NewMovePlacementCommand(canvas, telemetry)
		exec.ResizeCommander = commands.NewResizePlacementCommand(canvas, telemetry)
	}
	return exec
}

func (e *CommandExecutor) CreateLayout(ctx context.Context, input commands.CreateLayoutInput) error {
	return run(ctx, e.CreateCommander, input)
}

func (e *CommandExecutor) RenameLayout(ctx context.Context, input commands.RenameLayoutInput) error {
	return run(ctx, e.RenameCommander, input)
}

func (e *CommandExecutor) SelectLayout(ctx context.Context, input commands.SelectLayoutInput) error {
	return run(ctx, e.SelectCommander, input)
}

func (e *CommandExecutor) SaveLayout(ctx context.Context, input commands.SaveLayoutInput) error {
	return run(ctx, e.SaveCommander, input)
}

func (e *CommandExecutor) DeleteLayout(ctx context.Context, input commands.DeleteLayoutInput) error {
	return run(ctx, e.DeleteCommander, input)
}

func (e *CommandExecutor) ApplyDefaults(ctx context.Context, input commands.ApplyDefaultsInput) error {
	return run(ctx, e.DefaultsCommander, input)
}

func (e *CommandExecutor) SelectType(ctx context.Context, input commands.SelectTypeInput) error {
	return run(ctx, e.SelectTypeCommander, input)
}

func (e *CommandExecutor) CancelEdit(ctx context.Context, input commands.CancelEditInput) error {
	return run(ctx, e.CancelEditCommander, input)
}

func (e *CommandExecutor) BeginEdit(ctx context.Context, input commands.BeginEditInput) error {
	return run(ctx, e.BeginEditCommander, input)
}

func (e *CommandExecutor) SubmitElement(ctx context.Context, input commands.SubmitElementInput) error {
	return run(ctx, e.SubmitCommander, input)
}

func (e *CommandExecutor) DeleteElement(ctx context.Context, input commands.DeleteElementInput) error {
	return run(ctx, e.DeleteElementCommander, input)
}

func (e *CommandExecutor) MovePlacement(ctx context.Context, input commands.MovePlacementInput) error {
	return run(ctx, e.MoveCommander, input)
}

func (e *CommandExecutor) ResizePlacement(ctx context.Context, input commands.ResizePlacementInput) error {
	return run(ctx, e.ResizeCommander, input)
}

func (e *CommandExecutor) ApplyPlacements(ctx context.Context, input commands.ApplyPlacementsInput) error {
	return run(ctx, e.ApplyPlacementsCommander, input)
}

func run[T any](ctx context.Context, cmd gocommand.Commander[T], input T) error {
	if cmd == nil {
		return errNotConfigured
	}
	return cmd.Execute(ctx, input)
}
