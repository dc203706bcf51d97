package queries

import (
	"context"
	"fmt"
	"time"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-dashboard-builder/components/builder"
)

// ExportLayoutsInput selects the layouts to export. An empty list exports
// every layout.
type ExportLayoutsInput struct {
	LayoutIDs []string
}

type exportSource interface {
	ListLayouts(ctx context.Context) ([]builder.Layout, error)
}

// ExportLayoutsQuery reads layouts from the API and wraps them in a document.
type ExportLayoutsQuery struct {
	source exportSource
	clock  func() time.Time
}

// NewExportLayoutsQuery builds the query. A nil clock uses time.Now.
func NewExportLayoutsQuery(source exportSource, clock func() time.Time) *ExportLayoutsQuery {
	if clock == nil {
		clock = time.Now
	}
	return &ExportLayoutsQuery{source: source, clock: clock}
}

var _ gocommand.Querier[ExportLayoutsInput, *builder.LayoutDocument] = (*ExportLayoutsQuery)(nil)

// Query fetches the layouts and keeps the requested ones in request order.
func (q *ExportLayoutsQuery) Query(ctx context.Context, input ExportLayoutsInput) (*builder.LayoutDocument, error) {
	layouts, err := q.source.ListLayouts(ctx)
	if err != nil {
		return nil, fmt.Errorf("export layouts: %w", err)
	}
	if len(input.LayoutIDs) == 0 {
		return builder.NewLayoutDocument(q.clock(), layouts...), nil
	}
	byID := make(map[string]builder.Layout, len(layouts))
	for _, l := range layouts {
		byID[l.ID] = l
	}
	selected := make([]builder.Layout, 0, len(input.LayoutIDs))
	for _, id := range input.LayoutIDs {
		l, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", builder.ErrUnknownLayout, id)
		}
		selected = append(selected, l)
	}
	return builder.NewLayoutDocument(q.clock(), selected...), nil
}
