package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-dashboard-builder/components/builder"
)

// PageInput requests the builder page view model.
type PageInput struct{}

type pageService interface {
	View(ctx context.Context) (builder.PageView, error)
}

// PageQuery resolves the view model rendered by the builder page.
type PageQuery struct {
	page pageService
}

// NewPageQuery builds the query.
func NewPageQuery(page pageService) *PageQuery {
	return &PageQuery{page: page}
}

var _ gocommand.Querier[PageInput, builder.PageView] = (*PageQuery)(nil)

// Query builds the page view.
func (q *PageQuery) Query(ctx context.Context, _ PageInput) (builder.PageView, error) {
	return q.page.View(ctx)
}
