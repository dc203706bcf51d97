package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-dashboard-builder/components/builder"
)

// StateInput requests the controller state. Load triggers the initial layout
// fetch when the state was never loaded.
type StateInput struct {
	Load bool
}

type stateService interface {
	State() builder.State
	LoadLayouts(ctx context.Context) builder.State
}

// StateQuery returns a snapshot of the builder state.
type StateQuery struct {
	service stateService
}

// NewStateQuery builds the query.
func NewStateQuery(service stateService) *StateQuery {
	return &StateQuery{service: service}
}

var _ gocommand.Querier[StateInput, builder.State] = (*StateQuery)(nil)

// Query returns the state, loading layouts first when requested.
func (q *StateQuery) Query(ctx context.Context, input StateInput) (builder.State, error) {
	state := q.service.State()
	if input.Load && !state.Loaded {
		return q.service.LoadLayouts(ctx), nil
	}
	return state, nil
}

// ListLayoutsInput requests the layout selector entries.
type ListLayoutsInput struct{}

// ListLayoutsQuery lists the selector entries of the loaded layouts.
type ListLayoutsQuery struct {
	service builder.LayoutService
}

// NewListLayoutsQuery builds the query.
func NewListLayoutsQuery(service builder.LayoutService) *ListLayoutsQuery {
	return &ListLayoutsQuery{service: service}
}

var _ gocommand.Querier[ListLayoutsInput, []builder.LayoutOption] = (*ListLayoutsQuery)(nil)

// Query returns the selector entries in load order.
func (q *ListLayoutsQuery) Query(context.Context, ListLayoutsInput) ([]builder.LayoutOption, error) {
	return builder.NewLayoutManager(q.service, nil).Options(), nil
}
