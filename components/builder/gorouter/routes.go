package gorouter

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	gocommand "github.com/goliatone/go-command"
	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-dashboard-builder/components/builder"
	"github.com/goliatone/go-dashboard-builder/components/builder/commands"
	"github.com/goliatone/go-dashboard-builder/components/builder/httpapi"
	"github.com/goliatone/go-dashboard-builder/components/builder/queries"
)

// Config wires go-router with the builder page, commands, and hooks.
type Config[T any] struct {
	Router    router.Router[T]
	Page      *builder.Page
	API       httpapi.Executor
	State     gocommand.Querier[queries.StateInput, builder.State]
	Broadcast *builder.BroadcastHook
	BasePath  string
	Routes    RouteConfig
}

// RouteConfig customizes the relative paths used for builder endpoints.
type RouteConfig struct {
	HTML            string
	State           string
	Layouts         string
	LayoutID        string
	LayoutSelect    string
	LayoutSave      string
	LayoutDefaults  string
	EditorType      string
	EditorCancel    string
	Elements        string
	ElementID       string
	ElementEdit     string
	Placements      string
	PlacementMove   string
	PlacementResize string
	WebSocket       string
}

// Register mounts builder routes (HTML, JSON, REST, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Page == nil {
		return errors.New("gorouter: page is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = builder.DefaultBasePath
	}

	group := cfg.Router.Group(base)

	group.Get(routes.HTML, router.WrapHandler(func(ctx router.Context) error {
		var buf bytes.Buffer
		if err := cfg.Page.RenderHTML(ctx.Context(), &buf); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	if cfg.State != nil {
		group.Get(routes.State, router.WrapHandler(func(ctx router.Context) error {
			return respondState(ctx, cfg.State, http.StatusOK)
		}))
	}

	if cfg.API != nil {
		registerAPI(group, cfg.API, cfg.State, routes)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

type formPayload struct {
	Form builder.Form `json:"form"`
}

type confirmPayload struct {
	Confirm bool `json:"confirm"`
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, state gocommand.Querier[queries.StateInput, builder.State], routes RouteConfig) {
	exec := func(ctx router.Context, status int, run func() error) error {
		if err := run(); err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return respondState(ctx, state, status)
	}

	r.Post(routes.Layouts, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.CreateLayoutInput
		if err := decode(ctx, &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		return exec(ctx, http.StatusCreated, func() error {
			return api.CreateLayout(ctx.Context(), payload)
		})
	}))

	r.Put(routes.LayoutID, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.RenameLayoutInput
		if err := decode(ctx, &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.LayoutID = ctx.Param("id")
		return exec(ctx, http.StatusOK, func() error {
			return api.RenameLayout(ctx.Context(), payload)
		})
	}))

	r.Delete(routes.LayoutID, router.WrapHandler(func(ctx router.Context) error {
		var payload confirmPayload
		if err := decode(ctx, &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		id := ctx.Param("id")
		return exec(ctx, http.StatusOK, func() error {
			return api.DeleteLayout(ctx.Context(), commands.DeleteLayoutInput{LayoutID: id, Confirm: payload.Confirm})
		})
	}))

	r.Post(routes.LayoutSelect, router.WrapHandler(func(ctx router.Context) error {
		id := ctx.Param("id")
		return exec(ctx, http.StatusOK, func() error {
			return api.SelectLayout(ctx.Context(), commands.SelectLayoutInput{LayoutID: id})
		})
	}))

	r.Post(routes.LayoutSave, router.WrapHandler(func(ctx router.Context) error {
		id := ctx.Param("id")
		return exec(ctx, http.StatusOK, func() error {
			return api.SaveLayout(ctx.Context(), commands.SaveLayoutInput{LayoutID: id})
		})
	}))

	r.Post(routes.LayoutDefaults, router.WrapHandler(func(ctx router.Context) error {
		var payload confirmPayload
		if err := decode(ctx, &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		id := ctx.Param("id")
		return exec(ctx, http.StatusOK, func() error {
			return api.ApplyDefaults(ctx.Context(), commands.ApplyDefaultsInput{LayoutID: id, Confirm: payload.Confirm})
		})
	}))

	r.Post(routes.EditorType, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.SelectTypeInput
		if err := decode(ctx, &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		return exec(ctx, http.StatusOK, func() error {
			return api.SelectType(ctx.Context(), payload)
		})
	}))

	r.Post(routes.EditorCancel, router.WrapHandler(func(ctx router.Context) error {
		return exec(ctx, http.StatusOK, func() error {
			return api.CancelEdit(ctx.Context(), commands.CancelEditInput{})
		})
	}))

	r.Post(routes.Elements, router.WrapHandler(func(ctx router.Context) error {
		var payload formPayload
		if err := decode(ctx, &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		return exec(ctx, http.StatusCreated, func() error {
			return api.SubmitElement(ctx.Context(), commands.SubmitElementInput{Form: payload.Form})
		})
	}))

	r.Post(routes.ElementID, router.WrapHandler(func(ctx router.Context) error {
		var payload formPayload
		if err := decode(ctx, &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		id := ctx.Param("id")
		return exec(ctx, http.StatusOK, func() error {
			return api.SubmitElement(ctx.Context(), commands.SubmitElementInput{ElementID: id, Form: payload.Form})
		})
	}))

	r.Delete(routes.ElementID, router.WrapHandler(func(ctx router.Context) error {
		id := ctx.Param("id")
		return exec(ctx, http.StatusOK, func() error {
			return api.DeleteElement(ctx.Context(), commands.DeleteElementInput{ElementID: id})
		})
	}))

	r.Post(routes.ElementEdit, router.WrapHandler(func(ctx router.Context) error {
		id := ctx.Param("id")
		return exec(ctx, http.StatusOK, func() error {
			return api.BeginEdit(ctx.Context(), commands.BeginEditInput{ElementID: id})
		})
	}))

	r.Post(routes.Placements, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.ApplyPlacementsInput
		if err := decode(ctx, &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		return exec(ctx, http.StatusOK, func() error {
			return api.ApplyPlacements(ctx.Context(), payload)
		})
	}))

	r.Post(routes.PlacementMove, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.MovePlacementInput
		if err := decode(ctx, &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.ElementID = ctx.Param("id")
		return exec(ctx, http.StatusOK, func() error {
			return api.MovePlacement(ctx.Context(), payload)
		})
	}))

	r.Post(routes.PlacementResize, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.ResizePlacementInput
		if err := decode(ctx, &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.ElementID = ctx.Param("id")
		return exec(ctx, http.StatusOK, func() error {
			return api.ResizePlacement(ctx.Context(), payload)
		})
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *builder.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

// decode reads an optional JSON body.
func decode(ctx router.Context, v any) error {
	body := bytes.TrimSpace(ctx.Body())
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, v)
}

func respondState(ctx router.Context, state gocommand.Querier[queries.StateInput, builder.State], status int) error {
	if state == nil {
		return ctx.JSON(status, map[string]string{"status": "ok"})
	}
	snapshot, err := state.Query(ctx.Context(), queries.StateInput{Load: true})
	if err != nil {
		return respondError(ctx, http.StatusInternalServerError, err)
	}
	return ctx.JSON(status, snapshot)
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.HTML == "" {
		routes.HTML = "/"
	}
	if routes.State == "" {
		routes.State = "/_state"
	}
	if routes.Layouts == "" {
		routes.Layouts = "/layouts"
	}
	if routes.LayoutID == "" {
		routes.LayoutID = "/layouts/:id"
	}
	if routes.LayoutSelect == "" {
		routes.LayoutSelect = "/layouts/:id/select"
	}
	if routes.LayoutSave == "" {
		routes.LayoutSave = "/layouts/:id/save"
	}
	if routes.LayoutDefaults == "" {
		routes.LayoutDefaults = "/layouts/:id/defaults"
	}
	if routes.EditorType == "" {
		routes.EditorType = "/editor/type"
	}
	if routes.EditorCancel == "" {
		routes.EditorCancel = "/editor/cancel"
	}
	if routes.Elements == "" {
		routes.Elements = "/elements"
	}
	if routes.ElementID == "" {
		routes.ElementID = "/elements/:id"
	}
	if routes.ElementEdit == "" {
		routes.ElementEdit = "/elements/:id/edit"
	}
	if routes.Placements == "" {
		routes.Placements = "/placements"
	}
	if routes.PlacementMove == "" {
		routes.PlacementMove = "/placements/:id/move"
	}
	if routes.PlacementResize == "" {
		routes.PlacementResize = "/placements/:id/resize"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/ws"
	}
	return routes
}
