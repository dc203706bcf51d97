package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-dashboard-builder/components/builder"
)

type stubStateService struct {
	state     builder.State
	loadCalls int
}

func (s *stubStateService) State() builder.State { return s.state }

func (s *stubStateService) LoadLayouts(context.Context) builder.State {
	s.loadCalls++
	s.state = builder.Reduce(s.state, builder.LayoutsLoaded{})
	return s.state
}

func TestStateQueryLoadsOnce(t *testing.T) {
	service := &stubStateService{}
	query := NewStateQuery(service)
	state, err := query.Query(context.Background(), StateInput{Load: true})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if !state.Loaded || service.loadCalls != 1 {
		t.Fatalf("expected a single load, got %d", service.loadCalls)
	}
	if _, err := query.Query(context.Background(), StateInput{Load: true}); err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if service.loadCalls != 1 {
		t.Fatalf("expected loaded state to be reused, got %d loads", service.loadCalls)
	}
}

type stubPage struct {
	calls int
}

func (s *stubPage) View(context.Context) (builder.PageView, error) {
	s.calls++
	return builder.PageView{}, nil
}

func TestPageQuery(t *testing.T) {
	page := &stubPage{}
	query := NewPageQuery(page)
	if _, err := query.Query(context.Background(), PageInput{}); err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if page.calls != 1 {
		t.Fatalf("expected 1 call, got %d", page.calls)
	}
}

type stubSource struct {
	layouts []builder.Layout
	err     error
}

func (s stubSource) ListLayouts(context.Context) ([]builder.Layout, error) {
	return s.layouts, s.err
}

func TestExportLayoutsQuery(t *testing.T) {
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	source := stubSource{layouts: []builder.Layout{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}}
	query := NewExportLayoutsQuery(source, func() time.Time { return now })

	doc, err := query.Query(context.Background(), ExportLayoutsInput{})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(doc.Layouts) != 2 || !doc.ExportedAt.Equal(now) {
		t.Fatalf("unexpected document: %+v", doc)
	}

	doc, err = query.Query(context.Background(), ExportLayoutsInput{LayoutIDs: []string{"b"}})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(doc.Layouts) != 1 || doc.Layouts[0].ID != "b" {
		t.Fatalf("expected only b, got %+v", doc.Layouts)
	}

	if _, err := query.Query(context.Background(), ExportLayoutsInput{LayoutIDs: []string{"zzz"}}); !errors.Is(err, builder.ErrUnknownLayout) {
		t.Fatalf("expected unknown layout error, got %v", err)
	}
}

func TestExportLayoutsQuerySourceError(t *testing.T) {
	query := NewExportLayoutsQuery(stubSource{err: errors.New("boom")}, nil)
	if _, err := query.Query(context.Background(), ExportLayoutsInput{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestListLayoutsQuery(t *testing.T) {
	ctrl := builder.NewController(builder.Options{})
	ctrl.LoadLayouts(context.Background())
	options, err := NewListLayoutsQuery(ctrl).Query(context.Background(), ListLayoutsInput{})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(options) != 1 || !options[0].Current || !options[0].Unsaved {
		t.Fatalf("expected the unsaved default layout, got %+v", options)
	}
}
