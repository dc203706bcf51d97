package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-dashboard-builder/components/builder"
	"github.com/goliatone/go-dashboard-builder/components/builder/commands"
	"github.com/goliatone/go-dashboard-builder/components/builder/queries"
)

// PageRenderer renders the builder HTML page.
type PageRenderer interface {
	RenderHTML(ctx context.Context, out io.Writer) error
}

// Handlers exposes HTTP endpoints backed by shared commands. Mutating
// endpoints answer with the resulting builder state.
type Handlers struct {
	API   Executor
	State gocommand.Querier[queries.StateInput, builder.State]
	Page  PageRenderer
	Hook  *builder.BroadcastHook
}

type formPayload struct {
	Form builder.Form `json:"form"`
}

type confirmPayload struct {
	Confirm bool `json:"confirm"`
}

func (h *Handlers) HandlePage(w http.ResponseWriter, r *http.Request) {
	if h.Page == nil {
		http.Error(w, "page not configured", http.StatusNotImplemented)
		return
	}
	var buf bytes.Buffer
	if err := h.Page.RenderHTML(r.Context(), &buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (h *Handlers) HandleState(w http.ResponseWriter, r *http.Request) {
	h.respondState(w, r, http.StatusOK)
}

func (h *Handlers) HandleCreateLayout(w http.ResponseWriter, r *http.Request) {
	var payload commands.CreateLayoutInput
	if !decode(w, r, &payload) {
		return
	}
	h.exec(w, r, http.StatusCreated, func(ctx context.Context) error {
		return h.API.CreateLayout(ctx, payload)
	})
}

func (h *Handlers) HandleRenameLayout(w http.ResponseWriter, r *http.Request, layoutID string) {
	var payload commands.RenameLayoutInput
	if !decode(w, r, &payload) {
		return
	}
	payload.LayoutID = layoutID
	h.exec(w, r, http.StatusOK, func(ctx context.Context) error {
		return h.API.RenameLayout(ctx, payload)
	})
}

func (h *Handlers) HandleDeleteLayout(w http.ResponseWriter, r *http.Request, layoutID string) {
	var payload confirmPayload
	if !decode(w, r, &payload) {
		return
	}
	h.exec(w, r, http.StatusOK, func(ctx context.Context) error {
		return h.API.DeleteLayout(ctx, commands.DeleteLayoutInput{LayoutID: layoutID, Confirm: payload.Confirm})
	})
}

func (h *Handlers) HandleSelectLayout(w http.ResponseWriter, r *http.Request, layoutID string) {
	h.exec(w, r, http.StatusOK, func(ctx context.Context) error {
		return h.API.SelectLayout(ctx, commands.SelectLayoutInput{LayoutID: layoutID})
	})
}

func (h *Handlers) HandleSaveLayout(w http.ResponseWriter, r *http.Request, layoutID string) {
	h.exec(w, r, http.StatusOK, func(ctx context.Context) error {
		return h.API.SaveLayout(ctx, commands.SaveLayoutInput{LayoutID: layoutID})
	})
}

func (h *Handlers) HandleApplyDefaults(w http.ResponseWriter, r *http.Request, layoutID string) {
	var payload confirmPayload
	if !decode(w, r, &payload) {
		return
	}
	h.exec(w, r, http.StatusOK, func(ctx context.Context) error {
		return h.API.ApplyDefaults(ctx, commands.ApplyDefaultsInput{LayoutID: layoutID, Confirm: payload.Confirm})
	})
}

func (h *Handlers) HandleSelectType(w http.ResponseWriter, r *http.Request) {
	var payload commands.SelectTypeInput
	if !decode(w, r, &payload) {
		return
	}
	h.exec(w, r, http.StatusOK, func(ctx context.Context) error {
		return h.API.SelectType(ctx, payload)
	})
}

func (h *Handlers) HandleCancelEdit(w http.ResponseWriter, r *http.Request) {
	h.exec(w, r, http.StatusOK, func(ctx context.Context) error {
		return h.API.CancelEdit(ctx, commands.CancelEditInput{})
	})
}

func (h *Handlers) HandleBeginEdit(w http.ResponseWriter, r *http.Request, elementID string) {
	h.exec(w, r, http.StatusOK, func(ctx context.Context) error {
		return h.API.BeginEdit(ctx, commands.BeginEditInput{ElementID: elementID})
	})
}

func (h *Handlers) HandleAddElement(w http.ResponseWriter, r *http.Request) {
	var payload formPayload
	if !decode(w, r, &payload) {
		return
	}
	h.exec(w, r, http.StatusCreated, func(ctx context.Context) error {
		return h.API.SubmitElement(ctx, commands.SubmitElementInput{Form: payload.Form})
	})
}

func (h *Handlers) HandleUpdateElement(w http.ResponseWriter, r *http.Request, elementID string) {
	var payload formPayload
	if !decode(w, r, &payload) {
		return
	}
	h.exec(w, r, http.StatusOK, func(ctx context.Context) error {
		return h.API.SubmitElement(ctx, commands.SubmitElementInput{ElementID: elementID, Form: payload.Form})
	})
}

func (h *Handlers) HandleDeleteElement(w http.ResponseWriter, r *http.Request, elementID string) {
	h.exec(w, r, http.StatusOK, func(ctx context.Context) error {
		return h.API.DeleteElement(ctx, commands.DeleteElementInput{ElementID: elementID})
	})
}

func (h *Handlers) HandleMovePlacement(w http.ResponseWriter, r *http.Request, elementID string) {
	var payload commands.MovePlacementInput
	if !decode(w, r, &payload) {
		return
	}
	payload.ElementID = elementID
	h.exec(w, r, http.StatusOK, func(ctx context.Context) error {
		return h.API.MovePlacement(ctx, payload)
	})
}

func (h *Handlers) HandleResizePlacement(w http.ResponseWriter, r *http.Request, elementID string) {
	var payload commands.ResizePlacementInput
	if !decode(w, r, &payload) {
		return
	}
	payload.ElementID = elementID
	h.exec(w, r, http.StatusOK, func(ctx context.Context) error {
		return h.API.ResizePlacement(ctx, payload)
	})
}

func (h *Handlers) HandleApplyPlacements(w http.ResponseWriter, r *http.Request) {
	var payload commands.ApplyPlacementsInput
	if !decode(w, r, &payload) {
		return
	}
	h.exec(w, r, http.StatusOK, func(ctx context.Context) error {
		return h.API.ApplyPlacements(ctx, payload)
	})
}

// Mount registers every handler on mux below base using method patterns.
func (h *Handlers) Mount(mux *http.ServeMux, base string) {
	base = strings.TrimRight(base, "/")
	withID := func(fn func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			fn(w, r, r.PathValue("id"))
		}
	}
	mux.HandleFunc("GET "+base, h.HandlePage)
	mux.HandleFunc("GET "+base+"/{$}", h.HandlePage)
	mux.HandleFunc("GET "+base+"/_state", h.HandleState)
	mux.HandleFunc("POST "+base+"/layouts", h.HandleCreateLayout)
	mux.HandleFunc("PUT "+base+"/layouts/{id}", withID(h.HandleRenameLayout))
	mux.HandleFunc("DELETE "+base+"/layouts/{id}", withID(h.HandleDeleteLayout))
	mux.HandleFunc("POST "+base+"/layouts/{id}/select", withID(h.HandleSelectLayout))
	mux.HandleFunc("POST "+base+"/layouts/{id}/save", withID(h.HandleSaveLayout))
	mux.HandleFunc("POST "+base+"/layouts/{id}/defaults", withID(h.HandleApplyDefaults))
	mux.HandleFunc("POST "+base+"/editor/type", h.HandleSelectType)
	mux.HandleFunc("POST "+base+"/editor/cancel", h.HandleCancelEdit)
	mux.HandleFunc("POST "+base+"/elements", h.HandleAddElement)
	mux.HandleFunc("POST "+base+"/elements/{id}", withID(h.HandleUpdateElement))
	mux.HandleFunc("DELETE "+base+"/elements/{id}", withID(h.HandleDeleteElement))
	mux.HandleFunc("POST "+base+"/elements/{id}/edit", withID(h.HandleBeginEdit))
	mux.HandleFunc("POST "+base+"/placements", h.HandleApplyPlacements)
	mux.HandleFunc("POST "+base+"/placements/{id}/move", withID(h.HandleMovePlacement))
	mux.HandleFunc("POST "+base+"/placements/{id}/resize", withID(h.HandleResizePlacement))
	if h.Hook != nil {
		mux.HandleFunc("GET "+base+"/ws", h.Hook.ServeWebSocket)
		mux.HandleFunc("GET "+base+"/events", h.Hook.ServeSSE)
	}
}

func (h *Handlers) exec(w http.ResponseWriter, r *http.Request, status int, fn func(context.Context) error) {
	if h.API == nil {
		http.Error(w, errNotConfigured.Error(), http.StatusNotImplemented)
		return
	}
	if err := fn(r.Context()); err != nil {
		writeError(w, StatusFor(err), err)
		return
	}
	h.respondState(w, r, status)
}

func (h *Handlers) respondState(w http.ResponseWriter, r *http.Request, status int) {
	if h.State == nil {
		w.WriteHeader(status)
		return
	}
	state, err := h.State.Query(r.Context(), queries.StateInput{Load: true})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, status, state)
}

// decode reads an optional JSON body. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
