package commands

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/goliatone/go-dashboard-builder/components/builder"
)

func TestLoadLayoutsCommandFallsBackToDefault(t *testing.T) {
	ctrl := newController(&stubAPI{listErr: errors.New("offline")})
	telemetry := &stubTelemetry{}
	cmd := NewLoadLayoutsCommand(ctrl, telemetry)
	if err := cmd.Execute(context.Background(), LoadLayoutsInput{}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	state := ctrl.State()
	if len(state.Layouts) != 1 || state.CurrentLayoutID != builder.DefaultLayoutID {
		t.Fatalf("expected local default layout, got %+v", state.Layouts)
	}
	if telemetry.calls == 0 {
		t.Fatalf("expected telemetry to record events")
	}
}

func TestCreateLayoutCommandRejectsBlankName(t *testing.T) {
	api := &stubAPI{}
	ctrl := loadedController(api)
	cmd := NewCreateLayoutCommand(ctrl, nil)
	err := cmd.Execute(context.Background(), CreateLayoutInput{Name: "   "})
	if !errors.Is(err, builder.ErrBlankLayoutName) {
		t.Fatalf("expected blank name error, got %v", err)
	}
	if api.createCalls != 0 {
		t.Fatalf("expected no remote call")
	}
}

func TestCreateLayoutCommand(t *testing.T) {
	api := &stubAPI{}
	ctrl := loadedController(api)
	cmd := NewCreateLayoutCommand(ctrl, nil)
	if err := cmd.Execute(context.Background(), CreateLayoutInput{Name: "Ops", Description: "ops board"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	current, ok := ctrl.CurrentLayout()
	if !ok || current.Name != "Ops" {
		t.Fatalf("expected created layout to be current, got %+v", current)
	}
}

func TestRenameLayoutCommand(t *testing.T) {
	api := &stubAPI{layouts: []builder.Layout{{ID: "l1", Name: "One"}}}
	ctrl := loadedController(api)
	cmd := NewRenameLayoutCommand(ctrl, nil)
	if err := cmd.Execute(context.Background(), RenameLayoutInput{LayoutID: "l1", Name: "Renamed"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if api.updateCalls != 1 {
		t.Fatalf("expected update call, got %d", api.updateCalls)
	}
	l, _ := ctrl.State().Layout("l1")
	if l.Name != "Renamed" {
		t.Fatalf("expected renamed layout, got %q", l.Name)
	}
}

func TestSelectLayoutCommand(t *testing.T) {
	api := &stubAPI{layouts: []builder.Layout{{ID: "l1", Name: "One"}, {ID: "l2", Name: "Two"}}}
	ctrl := loadedController(api)
	cmd := NewSelectLayoutCommand(ctrl)
	if err := cmd.Execute(context.Background(), SelectLayoutInput{LayoutID: "l2"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if ctrl.State().CurrentLayoutID != "l2" {
		t.Fatalf("expected l2 to be current")
	}
	if err := cmd.Execute(context.Background(), SelectLayoutInput{LayoutID: "missing"}); !errors.Is(err, builder.ErrUnknownLayout) {
		t.Fatalf("expected unknown layout error, got %v", err)
	}
}

func TestSaveLayoutCommandDefaultsToCurrent(t *testing.T) {
	api := &stubAPI{layouts: []builder.Layout{{ID: "l1", Name: "One"}}}
	ctrl := loadedController(api)
	cmd := NewSaveLayoutCommand(ctrl, nil)
	if err := cmd.Execute(context.Background(), SaveLayoutInput{}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if api.updateCalls != 1 || api.lastUpdateID != "l1" {
		t.Fatalf("expected update of l1, got %d calls for %q", api.updateCalls, api.lastUpdateID)
	}
}

func TestDeleteLayoutCommandRequiresConfirmation(t *testing.T) {
	api := &stubAPI{layouts: []builder.Layout{{ID: "l1", Name: "One"}, {ID: "l2", Name: "Two"}}}
	ctrl := loadedController(api)
	cmd := NewDeleteLayoutCommand(ctrl, nil)
	err := cmd.Execute(context.Background(), DeleteLayoutInput{LayoutID: "l1"})
	if !errors.Is(err, ErrConfirmationRequired) {
		t.Fatalf("expected confirmation error, got %v", err)
	}
	if err := cmd.Execute(context.Background(), DeleteLayoutInput{LayoutID: "l1", Confirm: true}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if api.deleteCalls != 1 {
		t.Fatalf("expected delete call")
	}
	if len(ctrl.State().Layouts) != 1 {
		t.Fatalf("expected one layout left")
	}
}

func TestDeleteLayoutCommandLastLayout(t *testing.T) {
	api := &stubAPI{layouts: []builder.Layout{{ID: "l1", Name: "One"}}}
	ctrl := loadedController(api)
	cmd := NewDeleteLayoutCommand(ctrl, nil)
	err := cmd.Execute(context.Background(), DeleteLayoutInput{LayoutID: "l1", Confirm: true})
	if !errors.Is(err, builder.ErrLastLayout) {
		t.Fatalf("expected last layout error, got %v", err)
	}
	if api.deleteCalls != 0 {
		t.Fatalf("expected no remote call")
	}
}

func TestApplyDefaultsCommand(t *testing.T) {
	api := &stubAPI{layouts: []builder.Layout{{ID: "l1", Name: "One"}, {ID: "l2", Name: "Two"}}}
	ctrl := loadedController(api)
	cmd := NewApplyDefaultsCommand(ctrl, nil)
	if err := cmd.Execute(context.Background(), ApplyDefaultsInput{LayoutID: "l2"}); !errors.Is(err, ErrConfirmationRequired) {
		t.Fatalf("expected confirmation error, got %v", err)
	}
	if err := cmd.Execute(context.Background(), ApplyDefaultsInput{LayoutID: "l2", Confirm: true}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	state := ctrl.State()
	if state.CurrentLayoutID != "l2" {
		t.Fatalf("expected l2 to be selected")
	}
	current, _ := state.Current()
	if len(current.Elements) != len(builder.DemoElements()) {
		t.Fatalf("expected demo elements, got %d", len(current.Elements))
	}
}

func TestSubmitElementCommandCreatesAndUpdates(t *testing.T) {
	ctrl := loadedController(&stubAPI{layouts: []builder.Layout{{ID: "l1", Name: "One"}}})
	submit := NewSubmitElementCommand(ctrl, nil)
	form := builder.Form{Type: builder.ElementText, Label: "hello"}
	if err := submit.Execute(context.Background(), SubmitElementInput{Form: form}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	current, _ := ctrl.CurrentLayout()
	if len(current.Elements) != 1 || len(current.Placements) != 1 {
		t.Fatalf("expected element and placement, got %+v", current)
	}
	id := current.Elements[0].ID
	form.Label = "updated"
	if err := submit.Execute(context.Background(), SubmitElementInput{ElementID: id, Form: form}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	current, _ = ctrl.CurrentLayout()
	if current.Elements[0].Label != "updated" {
		t.Fatalf("expected label to be updated, got %q", current.Elements[0].Label)
	}
	if ctrl.State().EditingElement != nil {
		t.Fatalf("expected edit mode to be cleared")
	}
}

func TestSubmitElementCommandUsesSelectedType(t *testing.T) {
	ctrl := loadedController(&stubAPI{layouts: []builder.Layout{{ID: "l1", Name: "One"}}})
	if err := NewSelectTypeCommand(ctrl).Execute(context.Background(), SelectTypeInput{Type: builder.ElementTable}); err != nil {
		t.Fatalf("select type: %v", err)
	}
	submit := NewSubmitElementCommand(ctrl, nil)
	err := submit.Execute(context.Background(), SubmitElementInput{Form: builder.Form{TableText: "A,B\n1,2"}})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	current, _ := ctrl.CurrentLayout()
	if len(current.Elements) != 1 || current.Elements[0].Type != builder.ElementTable {
		t.Fatalf("expected table element, got %+v", current.Elements)
	}
}

func TestSubmitElementCommandMissingContent(t *testing.T) {
	ctrl := loadedController(&stubAPI{layouts: []builder.Layout{{ID: "l1", Name: "One"}}})
	submit := NewSubmitElementCommand(ctrl, nil)
	err := submit.Execute(context.Background(), SubmitElementInput{Form: builder.Form{Type: builder.ElementImage}})
	if !errors.Is(err, builder.ErrMissingContent) {
		t.Fatalf("expected missing content error, got %v", err)
	}
}

func TestEditAndDeleteElementCommands(t *testing.T) {
	ctrl := loadedController(&stubAPI{layouts: []builder.Layout{{ID: "l1", Name: "One"}}})
	if err := ctrl.ReplaceWithDefaults(context.Background()); err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if err := NewBeginEditCommand(ctrl).Execute(context.Background(), BeginEditInput{ElementID: "chart-1"}); err != nil {
		t.Fatalf("begin edit: %v", err)
	}
	if ctrl.State().SelectedType != builder.ElementChart {
		t.Fatalf("expected chart type to be selected")
	}
	if err := NewCancelEditCommand(ctrl).Execute(context.Background(), CancelEditInput{}); err != nil {
		t.Fatalf("cancel edit: %v", err)
	}
	if ctrl.State().EditingElement != nil {
		t.Fatalf("expected edit mode to be cleared")
	}
	del := NewDeleteElementCommand(ctrl, nil)
	if err := del.Execute(context.Background(), DeleteElementInput{ElementID: "chart-1"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	current, _ := ctrl.CurrentLayout()
	if _, ok := current.Element("chart-1"); ok {
		t.Fatalf("expected chart-1 to be removed")
	}
	if _, ok := current.Placement("chart-1"); ok {
		t.Fatalf("expected chart-1 placement to be removed")
	}
}

func TestMovePlacementCommand(t *testing.T) {
	canvas := &stubCanvas{}
	cmd := NewMovePlacementCommand(canvas, nil)
	if err := cmd.Execute(context.Background(), MovePlacementInput{ElementID: "text-1", X: 2, Y: 3}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if canvas.moveCalls != 1 {
		t.Fatalf("expected move call")
	}
	resize := NewResizePlacementCommand(canvas, nil)
	if err := resize.Execute(context.Background(), ResizePlacementInput{ElementID: "text-1", W: 6, H: 2}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if canvas.resizeCalls != 1 {
		t.Fatalf("expected resize call")
	}
}

func TestApplyPlacementsCommand(t *testing.T) {
	ctrl := loadedController(&stubAPI{layouts: []builder.Layout{{ID: "l1", Name: "One"}}})
	if err := ctrl.ReplaceWithDefaults(context.Background()); err != nil {
		t.Fatalf("defaults: %v", err)
	}
	placements := builder.DemoPlacements()
	placements[0].X = 8
	cmd := NewApplyPlacementsCommand(ctrl)
	if err := cmd.Execute(context.Background(), ApplyPlacementsInput{Placements: placements}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	current, _ := ctrl.CurrentLayout()
	p, _ := current.Placement(placements[0].ID)
	if p.X != 8 {
		t.Fatalf("expected moved placement, got %+v", p)
	}
}

func TestImportLayoutsCommand(t *testing.T) {
	api := &stubAPI{}
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	doc := builder.NewLayoutDocument(now, builder.Layout{
		ID:         "ops",
		Name:       "Ops",
		Elements:   builder.DemoElements(),
		Placements: builder.DemoPlacements(),
	})
	var created []builder.Layout
	cmd := NewImportLayoutsCommand(api, nil)
	if err := cmd.Execute(context.Background(), ImportLayoutsInput{Document: doc, Created: &created}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if api.createCalls != 1 || len(created) != 1 {
		t.Fatalf("expected one created layout, got %d", len(created))
	}
	if len(created[0].Elements) != len(builder.DemoElements()) {
		t.Fatalf("expected elements to be sent")
	}
}

func TestCommandsRequireService(t *testing.T) {
	if err := NewCreateLayoutCommand(nil, nil).Execute(context.Background(), CreateLayoutInput{Name: "x"}); err == nil {
		t.Fatalf("expected error without service")
	}
	if err := NewMovePlacementCommand(nil, nil).Execute(context.Background(), MovePlacementInput{}); err == nil {
		t.Fatalf("expected error without canvas")
	}
	if err := NewImportLayoutsCommand(nil, nil).Execute(context.Background(), ImportLayoutsInput{}); err == nil {
		t.Fatalf("expected error without api")
	}
}

func newController(api builder.LayoutAPI) *builder.Controller {
	clock := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return builder.NewController(builder.Options{
		API:   api,
		Clock: func() time.Time { return clock },
	})
}

func loadedController(api builder.LayoutAPI) *builder.Controller {
	ctrl := newController(api)
	ctrl.LoadLayouts(context.Background())
	return ctrl
}

type stubAPI struct {
	layouts      []builder.Layout
	listErr      error
	createCalls  int
	updateCalls  int
	deleteCalls  int
	lastUpdateID string
}

func (s *stubAPI) ListLayouts(context.Context) ([]builder.Layout, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]builder.Layout, len(s.layouts))
	copy(out, s.layouts)
	return out, nil
}

func (s *stubAPI) CreateLayout(_ context.Context, req builder.LayoutRequest) (builder.Layout, error) {
	s.createCalls++
	return builder.Layout{
		ID:          fmt.Sprintf("created-%d", s.createCalls),
		Name:        req.Name,
		Description: req.Description,
		Placements:  req.Placements,
		Elements:    req.Elements,
	}, nil
}

func (s *stubAPI) UpdateLayout(_ context.Context, id string, _ builder.LayoutRequest) error {
	s.updateCalls++
	s.lastUpdateID = id
	return nil
}

func (s *stubAPI) DeleteLayout(context.Context, string) error {
	s.deleteCalls++
	return nil
}

type stubCanvas struct {
	moveCalls   int
	resizeCalls int
}

func (s *stubCanvas) Move(context.Context, string, int, int) ([]builder.Placement, error) {
	s.moveCalls++
	return nil, nil
}

func (s *stubCanvas) Resize(context.Context, string, int, int) ([]builder.Placement, error) {
	s.resizeCalls++
	return nil, nil
}

type stubTelemetry struct {
	calls int
}

func (s *stubTelemetry) Record(context.Context, string, map[string]any) {
	s.calls++
}
