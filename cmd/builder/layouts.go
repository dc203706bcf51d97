package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-dashboard-builder/components/builder"
	"github.com/goliatone/go-dashboard-builder/components/builder/commands"
	"github.com/goliatone/go-dashboard-builder/components/builder/queries"
)

type layoutsCmd struct {
	List   layoutsListCmd   `cmd:"" help:"List stored layouts."`
	Export layoutsExportCmd `cmd:"" help:"Export layouts to a YAML document."`
	Import layoutsImportCmd `cmd:"" help:"Create the layouts of a YAML document."`
}

type layoutsListCmd struct {
	Format string `enum:"table,json,yaml" default:"table" help:"Output format (table, json, yaml)."`
}

func (cmd *layoutsListCmd) Run(ctx context.Context, g *globals) error {
	rt, err := g.setup(ctx)
	if err != nil {
		return err
	}
	defer rt.close(context.Background())

	client, err := rt.client()
	if err != nil {
		return err
	}
	layouts, err := client.ListLayouts(ctx)
	if err != nil {
		return fmt.Errorf("builder: list layouts: %w", err)
	}
	if cmd.Format != "table" {
		return encode(os.Stdout, cmd.Format, layouts)
	}
	fmt.Fprintln(os.Stdout, layoutTable(layouts))
	return nil
}

func layoutTable(layouts []builder.Layout) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "ELEMENTS", "UPDATED")
	for _, l := range layouts {
		updated := ""
		if !l.UpdatedAt.IsZero() {
			updated = l.UpdatedAt.Format("2006-01-02 15:04")
		}
		t.Row(l.ID, l.Name, strconv.Itoa(len(l.Elements)), updated)
	}
	return t.String()
}

type layoutsExportCmd struct {
	ID  []string `name:"id" help:"Layout id to export (repeatable). Defaults to every layout."`
	Out string   `short:"o" type:"path" help:"Output file. Defaults to a name derived from the layout or layouts.yaml."`
}

func (cmd *layoutsExportCmd) Run(ctx context.Context, g *globals) error {
	rt, err := g.setup(ctx)
	if err != nil {
		return err
	}
	defer rt.close(context.Background())

	client, err := rt.client()
	if err != nil {
		return err
	}
	doc, err := queries.NewExportLayoutsQuery(client, nil).Query(ctx, queries.ExportLayoutsInput{LayoutIDs: cmd.ID})
	if err != nil {
		return fmt.Errorf("builder: %w", err)
	}
	out := cmd.Out
	if out == "" {
		out = "layouts.yaml"
		if len(doc.Layouts) == 1 {
			out = builder.ExportFileName(doc.Layouts[0])
		}
	}
	if err := doc.WriteFile(out); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Exported %d layout(s) to %s\n", len(doc.Layouts), out)
	return nil
}

type layoutsImportCmd struct {
	Path string `arg:"" type:"existingfile" help:"Layout document to import."`
}

func (cmd *layoutsImportCmd) Run(ctx context.Context, g *globals) error {
	rt, err := g.setup(ctx)
	if err != nil {
		return err
	}
	defer rt.close(context.Background())

	doc, err := builder.ReadLayoutDocument(cmd.Path)
	if err != nil {
		return err
	}
	client, err := rt.client()
	if err != nil {
		return err
	}
	var created []builder.Layout
	importer := commands.NewImportLayoutsCommand(client, builder.ZapTelemetry{Logger: rt.logger})
	if err := importer.Execute(ctx, commands.ImportLayoutsInput{Document: doc, Created: &created}); err != nil {
		return fmt.Errorf("builder: %w", err)
	}
	for _, l := range created {
		fmt.Fprintf(os.Stdout, "Created %s (%s)\n", l.Name, l.ID)
	}
	return nil
}

func encode(w io.Writer, format string, v any) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("builder: encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("builder: encode json: %w", err)
		}
		return nil
	}
}
