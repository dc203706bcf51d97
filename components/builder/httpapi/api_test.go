package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-dashboard-builder/components/builder"
	"github.com/goliatone/go-dashboard-builder/components/builder/commands"
	"github.com/goliatone/go-dashboard-builder/components/builder/queries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCommander[T any] struct {
	last  T
	calls int
	err   error
}

func (s *stubCommander[T]) Execute(ctx context.Context, msg T) error {
	s.last = msg
	s.calls++
	return s.err
}

type stubStateQuery struct {
	state builder.State
}

func (s stubStateQuery) Query(context.Context, queries.StateInput) (builder.State, error) {
	return s.state, nil
}

func TestHandleCreateLayout(t *testing.T) {
	create := &stubCommander[commands.CreateLayoutInput]{}
	api := &Handlers{
		API:   &CommandExecutor{CreateCommander: create},
		State: stubStateQuery{state: builder.State{CurrentLayoutID: "l1", Loaded: true}},
	}
	buf, _ := json.Marshal(commands.CreateLayoutInput{Name: "Ops", Description: "board"})
	req := httptest.NewRequest(http.MethodPost, "/builder/layouts", bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	api.HandleCreateLayout(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, create.calls)
	assert.Equal(t, "Ops", create.last.Name)

	var state builder.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, "l1", state.CurrentLayoutID)
}

func TestHandleDeleteLayoutPropagatesConfirmation(t *testing.T) {
	del := &stubCommander[commands.DeleteLayoutInput]{}
	api := &Handlers{API: &CommandExecutor{DeleteCommander: del}}
	req := httptest.NewRequest(http.MethodDelete, "/builder/layouts/l1", bytes.NewBufferString(`{"confirm":true}`))
	rec := httptest.NewRecorder()
	api.HandleDeleteLayout(rec, req, "l1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "l1", del.last.LayoutID)
	assert.True(t, del.last.Confirm)
}

func TestHandleDeleteLayoutErrorStatus(t *testing.T) {
	del := &stubCommander[commands.DeleteLayoutInput]{err: builder.ErrLastLayout}
	api := &Handlers{API: &CommandExecutor{DeleteCommander: del}}
	req := httptest.NewRequest(http.MethodDelete, "/builder/layouts/l1", nil)
	rec := httptest.NewRecorder()
	api.HandleDeleteLayout(rec, req, "l1")
	require.Equal(t, http.StatusConflict, rec.Code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, builder.ErrLastLayout.Error(), payload["error"])
}

func TestHandleUpdateElementUsesPathID(t *testing.T) {
	submit := &stubCommander[commands.SubmitElementInput]{}
	api := &Handlers{API: &CommandExecutor{SubmitCommander: submit}}
	body := `{"form":{"type":"text","label":"hi"}}`
	req := httptest.NewRequest(http.MethodPost, "/builder/elements/text-1", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	api.HandleUpdateElement(rec, req, "text-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text-1", submit.last.ElementID)
	assert.Equal(t, builder.ElementText, submit.last.Form.Type)
	assert.Equal(t, "hi", submit.last.Form.Label)
}

func TestHandleMovePlacement(t *testing.T) {
	move := &stubCommander[commands.MovePlacementInput]{}
	api := &Handlers{API: &CommandExecutor{MoveCommander: move}}
	req := httptest.NewRequest(http.MethodPost, "/builder/placements/chart-1/move", bytes.NewBufferString(`{"x":3,"y":2}`))
	rec := httptest.NewRecorder()
	api.HandleMovePlacement(rec, req, "chart-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, commands.MovePlacementInput{ElementID: "chart-1", X: 3, Y: 2}, move.last)
}

func TestHandleRejectsMalformedBody(t *testing.T) {
	create := &stubCommander[commands.CreateLayoutInput]{}
	api := &Handlers{API: &CommandExecutor{CreateCommander: create}}
	req := httptest.NewRequest(http.MethodPost, "/builder/layouts", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	api.HandleCreateLayout(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, create.calls)
}

func TestUnconfiguredCommand(t *testing.T) {
	api := &Handlers{API: &CommandExecutor{}}
	req := httptest.NewRequest(http.MethodPost, "/builder/layouts/l1/save", nil)
	rec := httptest.NewRecorder()
	api.HandleSaveLayout(rec, req, "l1")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

type stubPage struct{}

func (stubPage) RenderHTML(_ context.Context, out io.Writer) error {
	_, err := out.Write([]byte("<html>builder</html>"))
	return err
}

func TestMountRoutesEndToEnd(t *testing.T) {
	selectLayout := &stubCommander[commands.SelectLayoutInput]{}
	resize := &stubCommander[commands.ResizePlacementInput]{}
	api := &Handlers{
		API:  &CommandExecutor{SelectCommander: selectLayout, ResizeCommander: resize},
		Page: stubPage{},
	}
	mux := http.NewServeMux()
	api.Mount(mux, "/builder")
	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/builder")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "builder")

	resp, err = http.Post(srv.URL+"/builder/layouts/l2/select", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "l2", selectLayout.last.LayoutID)

	resp, err = http.Post(srv.URL+"/builder/placements/t-1/resize", "application/json", bytes.NewBufferString(`{"w":6,"h":2}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, commands.ResizePlacementInput{ElementID: "t-1", W: 6, H: 2}, resize.last)
}

type stubRemoteError struct{}

func (stubRemoteError) Error() string         { return "remote rejected" }
func (stubRemoteError) ServerMessage() string { return "name taken" }

func TestStatusFor(t *testing.T) {
	cases := map[string]struct {
		err  error
		want int
	}{
		"unknown layout":  {err: builder.ErrUnknownLayout, want: http.StatusNotFound},
		"last layout":     {err: builder.ErrLastLayout, want: http.StatusConflict},
		"blank name":      {err: builder.ErrBlankLayoutName, want: http.StatusBadRequest},
		"invalid element": {err: builder.ErrInvalidElement, want: http.StatusBadRequest},
		"off grid":        {err: builder.ErrInvalidPlacement, want: http.StatusBadRequest},
		"confirmation":    {err: commands.ErrConfirmationRequired, want: http.StatusBadRequest},
		"remote":          {err: stubRemoteError{}, want: http.StatusBadGateway},
		"other":           {err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusFor(tc.err))
		})
	}
}

func TestCommandExecutorAgainstController(t *testing.T) {
	ctrl := builder.NewController(builder.Options{})
	ctrl.LoadLayouts(context.Background())
	exec := NewCommandExecutor(ctrl, builder.NewCanvas(ctrl, nil, nil), nil)

	require.NoError(t, exec.SelectType(context.Background(), commands.SelectTypeInput{Type: builder.ElementText}))
	require.NoError(t, exec.SubmitElement(context.Background(), commands.SubmitElementInput{
		Form: builder.Form{Label: "hello"},
	}))
	current, ok := ctrl.CurrentLayout()
	require.True(t, ok)
	require.Len(t, current.Elements, 1)
	id := current.Elements[0].ID

	require.NoError(t, exec.MovePlacement(context.Background(), commands.MovePlacementInput{ElementID: id, X: 4, Y: 1}))
	current, _ = ctrl.CurrentLayout()
	p, _ := current.Placement(id)
	assert.Equal(t, 4, p.X)
}
