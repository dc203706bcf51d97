package commands

import (
	"context"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-dashboard-builder/components/builder"
)

// ImportLayoutsInput carries a decoded layout document.
type ImportLayoutsInput struct {
	Document *builder.LayoutDocument
	// Created receives the server copies of the imported layouts.
	Created *[]builder.Layout
}

type importAPI interface {
	CreateLayout(ctx context.Context, req builder.LayoutRequest) (builder.Layout, error)
}

// ImportLayoutsCommand creates every layout of a document through the API.
type ImportLayoutsCommand struct {
	api       importAPI
	telemetry Telemetry
}

// NewImportLayoutsCommand builds the command.
func NewImportLayoutsCommand(api importAPI, telemetry Telemetry) *ImportLayoutsCommand {
	return &ImportLayoutsCommand{api: api, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ImportLayoutsInput] = (*ImportLayoutsCommand)(nil)

// Execute creates the layouts in document order and stops at the first failure.
func (c *ImportLayoutsCommand) Execute(ctx context.Context, msg ImportLayoutsInput) error {
	if c.api == nil {
		return errors.New("import command requires layout api")
	}
	if msg.Document == nil {
		return errors.New("import command requires a document")
	}
	if err := msg.Document.Validate(); err != nil {
		return err
	}
	created := make([]builder.Layout, 0, len(msg.Document.Layouts))
	for _, l := range msg.Document.Layouts {
		out, err := c.api.CreateLayout(ctx, builder.RequestFor(l))
		if err != nil {
			return fmt.Errorf("import layout %s: %w", l.Name, err)
		}
		created = append(created, out)
	}
	if msg.Created != nil {
		*msg.Created = created
	}
	c.telemetry.Record(ctx, "builder.command.import", map[string]any{
		"count":  len(created),
		"source": msg.Document.Source,
	})
	return nil
}
