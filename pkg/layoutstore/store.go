package layoutstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-dashboard-builder/components/builder"
)

var (
	// ErrNotFound is returned when no layout has the requested id.
	ErrNotFound = errors.New("layoutstore: layout not found")
	// ErrNameRequired is returned when a layout is stored without a name.
	ErrNameRequired = errors.New("layoutstore: layout name is required")
)

// Store persists layouts for the reference API server.
type Store interface {
	List(ctx context.Context) ([]builder.Layout, error)
	Get(ctx context.Context, id string) (builder.Layout, error)
	Create(ctx context.Context, req builder.LayoutRequest) (builder.Layout, error)
	Update(ctx context.Context, id string, req builder.LayoutRequest) (builder.Layout, error)
	Delete(ctx context.Context, id string) error
}

// Options configures id generation and timestamps shared by the stores.
type Options struct {
	NewID func() string
	Clock func() time.Time
}

func (o Options) normalized() Options {
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}

// build turns a request into a stored layout.
func build(id string, req builder.LayoutRequest, createdAt, updatedAt time.Time) (builder.Layout, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return builder.Layout{}, ErrNameRequired
	}
	l := builder.Layout{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Placements:  req.Placements,
		Elements:    req.Elements,
		CreatedAt:   createdAt.UTC(),
		UpdatedAt:   updatedAt.UTC(),
	}
	if l.Placements == nil {
		l.Placements = []builder.Placement{}
	}
	if l.Elements == nil {
		l.Elements = []builder.Element{}
	}
	return l.Clone(), nil
}
