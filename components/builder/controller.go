package builder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrMissingAPI       = errors.New("builder: layout api not configured")
	ErrLastLayout       = errors.New("builder: the only layout cannot be deleted")
	ErrUnknownLayout    = errors.New("builder: layout not found")
	ErrNoCurrentLayout  = errors.New("builder: no current layout")
	ErrUnknownElement   = errors.New("builder: element not found")
	ErrDuplicateElement = errors.New("builder: element id already in use")
	ErrBlankLayoutName  = errors.New("builder: layout name is required")
	ErrInvalidPlacement = errors.New("builder: placement outside the grid")
	ErrLayoutChanged    = errors.New("builder: current layout changed")
)

// Messages surfaced to the user after persistence calls.
const (
	MessageLayoutCreated   = "Layout created successfully!"
	MessageLayoutUpdated   = "Layout updated successfully!"
	messageCreateRejected  = "Error creating layout: "
	messageUpdateRejected  = "Error updating layout: "
	MessageCreateTransport = "Failed to create layout. Please check your connection."
	MessageUpdateTransport = "Failed to update layout. Please check your connection."
)

// LayoutRequest is the body sent when creating or updating a layout.
type LayoutRequest struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Placements  []Placement `json:"layout"`
	Elements    []Element   `json:"elements"`
}

// RequestFor builds the persistence body carrying the full layout content.
func RequestFor(l Layout) LayoutRequest {
	c := l.Clone()
	return LayoutRequest{
		Name:        c.Name,
		Description: c.Description,
		Placements:  c.Placements,
		Elements:    c.Elements,
	}
}

// LayoutAPI is the remote persistence collaborator.
type LayoutAPI interface {
	ListLayouts(ctx context.Context) ([]Layout, error)
	CreateLayout(ctx context.Context, req LayoutRequest) (Layout, error)
	UpdateLayout(ctx context.Context, id string, req LayoutRequest) error
	DeleteLayout(ctx context.Context, id string) error
}

// RemoteError is implemented by API errors that carry a server message meant
// for the user.
type RemoteError interface {
	error
	ServerMessage() string
}

// Options configures the Controller. Every collaborator is provided via
// interface so front-ends can swap implementations.
type Options struct {
	API       LayoutAPI
	Registry  DefinitionRegistry
	Validator ElementValidator
	Notifier  Notifier
	Hook      StateHook
	Telemetry Telemetry
	Logger    *zap.Logger
	Clock     func() time.Time
}

// Controller owns the layout set and the current selection and mediates every
// mutation between the front-ends and the persistence API.
type Controller struct {
	opts  Options
	mu    sync.Mutex
	state State
}

// NewController builds a Controller with safe defaults.
func NewController(opts Options) *Controller {
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	if opts.Validator == nil {
		opts.Validator = NewJSONSchemaValidator()
	}
	if opts.Notifier == nil {
		opts.Notifier = noopNotifier{}
	}
	if opts.Hook == nil {
		opts.Hook = noopStateHook{}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	opts.Logger = normalizeLogger(opts.Logger)
	return &Controller{opts: opts}
}

// State returns a copy of the current application state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// CurrentLayout returns a copy of the active layout.
func (c *Controller) CurrentLayout() (Layout, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.state.Current()
	if !ok {
		return Layout{}, false
	}
	return l.Clone(), true
}

// Registry exposes the palette definitions used by the controller.
func (c *Controller) Registry() DefinitionRegistry {
	return c.opts.Registry
}

// Now returns the controller clock reading.
func (c *Controller) Now() time.Time {
	return c.opts.Clock()
}

// LoadLayouts fetches every layout. Failures are absorbed: the state falls back
// to a single local default layout.
func (c *Controller) LoadLayouts(ctx context.Context) State {
	var layouts []Layout
	if c.opts.API == nil {
		c.opts.Logger.Warn("layout api not configured, using local default")
	} else {
		loaded, err := c.opts.API.ListLayouts(ctx)
		if err != nil {
			c.opts.Logger.Warn("load layouts failed, using local default", zap.Error(err))
		} else {
			layouts = loaded
		}
	}
	state := c.apply(ctx, LayoutsLoaded{Layouts: layouts, Now: c.now()}, "", "")
	c.recordTelemetry(ctx, "builder.layouts.load", map[string]any{
		"count":   len(state.Layouts),
		"current": state.CurrentLayoutID,
	})
	return state
}

// SelectLayout switches the active layout.
func (c *Controller) SelectLayout(ctx context.Context, id string) error {
	if _, ok := c.lookup(id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownLayout, id)
	}
	c.apply(ctx, LayoutSelected{ID: id}, id, "")
	c.recordTelemetry(ctx, "builder.layout.select", map[string]any{"layout_id": id})
	return nil
}

// CreateLayout persists a new empty layout and makes the server copy current.
func (c *Controller) CreateLayout(ctx context.Context, name, description string) (Layout, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Layout{}, ErrBlankLayoutName
	}
	api, err := c.api()
	if err != nil {
		return Layout{}, err
	}
	created, err := api.CreateLayout(ctx, LayoutRequest{
		Name:        name,
		Description: strings.TrimSpace(description),
		Placements:  []Placement{},
		Elements:    []Element{},
	})
	if err != nil {
		c.opts.Logger.Error("create layout failed", zap.String("name", name), zap.Error(err))
		c.notifyFailure(ctx, err, messageCreateRejected, MessageCreateTransport)
		return Layout{}, err
	}
	created = SanitizeLayout(created)
	c.apply(ctx, LayoutCreated{Layout: created}, created.ID, "")
	c.notify(ctx, NoticeSuccess, MessageLayoutCreated)
	c.recordTelemetry(ctx, "builder.layout.create", map[string]any{"layout_id": created.ID})
	return created.Clone(), nil
}

// RenameLayout sends the full layout content with new metadata and, on success,
// patches only the metadata locally.
func (c *Controller) RenameLayout(ctx context.Context, id, name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrBlankLayoutName
	}
	layout, ok := c.lookup(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownLayout, id)
	}
	api, err := c.api()
	if err != nil {
		return err
	}
	description = strings.TrimSpace(description)
	req := RequestFor(layout)
	req.Name = name
	req.Description = description
	if err := api.UpdateLayout(ctx, id, req); err != nil {
		c.opts.Logger.Error("rename layout failed", zap.String("layout_id", id), zap.Error(err))
		c.notifyFailure(ctx, err, messageUpdateRejected, MessageUpdateTransport)
		return err
	}
	c.apply(ctx, LayoutRenamed{ID: id, Name: name, Description: description, Now: c.now()}, id, "")
	c.notify(ctx, NoticeSuccess, MessageLayoutUpdated)
	c.recordTelemetry(ctx, "builder.layout.rename", map[string]any{"layout_id": id})
	return nil
}

// DeleteLayout removes a layout once the remote delete succeeded. The last
// remaining layout cannot be deleted. The local default layout was never
// persisted and is removed without a remote call.
func (c *Controller) DeleteLayout(ctx context.Context, id string) error {
	c.mu.Lock()
	count := len(c.state.Layouts)
	layout, ok := c.state.Layout(id)
	c.mu.Unlock()
	if count <= 1 {
		return ErrLastLayout
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownLayout, id)
	}
	if !layout.IsDefault() {
		api, err := c.api()
		if err != nil {
			return err
		}
		if err := api.DeleteLayout(ctx, id); err != nil {
			c.opts.Logger.Error("delete layout failed", zap.String("layout_id", id), zap.Error(err))
			return err
		}
	}
	c.apply(ctx, LayoutDeleted{ID: id, Now: c.now()}, id, "")
	c.recordTelemetry(ctx, "builder.layout.delete", map[string]any{"layout_id": id})
	return nil
}

// SaveLayout persists the layout's full content. The local default layout is
// created remotely and re-keyed with the server id, keeping any content edited
// while the request was in flight; other layouts are updated.
// The result always applies to the layout captured when the call started.
func (c *Controller) SaveLayout(ctx context.Context, id string) error {
	layout, ok := c.lookup(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownLayout, id)
	}
	api, err := c.api()
	if err != nil {
		return err
	}
	if layout.IsDefault() {
		created, err := api.CreateLayout(ctx, RequestFor(layout))
		if err != nil {
			c.opts.Logger.Error("save default layout failed", zap.Error(err))
			c.notifyFailure(ctx, err, messageCreateRejected, MessageCreateTransport)
			return err
		}
		created = SanitizeLayout(created)
		if _, still := c.lookup(id); !still {
			c.opts.Logger.Warn("dropping save result for removed layout",
				zap.String("layout_id", id), zap.String("created_id", created.ID))
		} else {
			c.apply(ctx, LayoutPersisted{PreviousID: id, Layout: created}, created.ID, "")
		}
		c.notify(ctx, NoticeSuccess, MessageLayoutCreated)
		c.recordTelemetry(ctx, "builder.layout.save", map[string]any{
			"layout_id": created.ID,
			"created":   true,
		})
		return nil
	}
	if err := api.UpdateLayout(ctx, id, RequestFor(layout)); err != nil {
		c.opts.Logger.Error("save layout failed", zap.String("layout_id", id), zap.Error(err))
		c.notifyFailure(ctx, err, messageUpdateRejected, MessageUpdateTransport)
		return err
	}
	c.notify(ctx, NoticeSuccess, MessageLayoutUpdated)
	c.publish(ctx, StateEvent{Reason: "layout.saved", LayoutID: id, At: c.now()})
	c.recordTelemetry(ctx, "builder.layout.save", map[string]any{
		"layout_id": id,
		"created":   false,
	})
	return nil
}

// AddElement appends el and a default placement to the current layout.
func (c *Controller) AddElement(ctx context.Context, el Element) error {
	current, ok := c.current()
	if !ok {
		return ErrNoCurrentLayout
	}
	if _, exists := current.Element(el.ID); exists {
		return fmt.Errorf("%w: %s", ErrDuplicateElement, el.ID)
	}
	if err := ValidateElement(c.opts.Registry, c.opts.Validator, el); err != nil {
		return err
	}
	if err := c.applyTo(ctx, ElementAdded{LayoutID: current.ID, Element: SanitizeElement(el), Now: c.now()}, current.ID, el.ID); err != nil {
		return err
	}
	c.recordTelemetry(ctx, "builder.element.add", map[string]any{
		"layout_id":  current.ID,
		"element_id": el.ID,
		"type":       string(el.Type),
	})
	return nil
}

// UpdateElement shallow-merges patch into the element and exits edit mode.
func (c *Controller) UpdateElement(ctx context.Context, id string, patch ElementPatch) error {
	current, ok := c.current()
	if !ok {
		return ErrNoCurrentLayout
	}
	if el, exists := current.Element(id); exists {
		merged := SanitizeElement(patch.Apply(el))
		if err := ValidateElement(c.opts.Registry, c.opts.Validator, merged); err != nil {
			return err
		}
		if patch.Properties != nil {
			props := merged.Properties
			patch.Properties = &props
		}
	}
	if err := c.applyTo(ctx, ElementUpdated{LayoutID: current.ID, ID: id, Patch: patch, Now: c.now()}, current.ID, id); err != nil {
		return err
	}
	c.recordTelemetry(ctx, "builder.element.update", map[string]any{
		"layout_id":  current.ID,
		"element_id": id,
	})
	return nil
}

// DeleteElement removes the element and its placement. Unknown ids leave the
// layout untouched.
func (c *Controller) DeleteElement(ctx context.Context, id string) error {
	current, ok := c.current()
	if !ok {
		return ErrNoCurrentLayout
	}
	if err := c.applyTo(ctx, ElementDeleted{LayoutID: current.ID, ID: id, Now: c.now()}, current.ID, id); err != nil {
		return err
	}
	c.recordTelemetry(ctx, "builder.element.delete", map[string]any{
		"layout_id":  current.ID,
		"element_id": id,
	})
	return nil
}

// ReplaceWithDefaults overwrites the current layout content with the demo set.
// Callers confirm with the user first.
func (c *Controller) ReplaceWithDefaults(ctx context.Context) error {
	current, ok := c.current()
	if !ok {
		return ErrNoCurrentLayout
	}
	if err := c.applyTo(ctx, DefaultsApplied{LayoutID: current.ID, Now: c.now()}, current.ID, ""); err != nil {
		return err
	}
	c.recordTelemetry(ctx, "builder.layout.defaults", map[string]any{"layout_id": current.ID})
	return nil
}

// ApplyPlacementChange swaps in placements computed by the grid engine.
func (c *Controller) ApplyPlacementChange(ctx context.Context, placements []Placement) error {
	current, ok := c.current()
	if !ok {
		return ErrNoCurrentLayout
	}
	action := PlacementsChanged{LayoutID: current.ID, Placements: append([]Placement(nil), placements...), Now: c.now()}
	if err := c.applyTo(ctx, action, current.ID, ""); err != nil {
		return err
	}
	c.recordTelemetry(ctx, "builder.placements.change", map[string]any{
		"layout_id": current.ID,
		"count":     len(placements),
	})
	return nil
}

// BeginEdit opens an element of the current layout in the editor.
func (c *Controller) BeginEdit(ctx context.Context, id string) error {
	current, ok := c.current()
	if !ok {
		return ErrNoCurrentLayout
	}
	if _, exists := current.Element(id); !exists {
		return fmt.Errorf("%w: %s", ErrUnknownElement, id)
	}
	c.apply(ctx, EditingStarted{ID: id}, current.ID, id)
	return nil
}

// SelectType picks the widget type offered by the create form.
func (c *Controller) SelectType(ctx context.Context, t ElementType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: unknown element type %q", ErrInvalidElement, t)
	}
	c.apply(ctx, TypeSelected{Type: t}, "", "")
	return nil
}

// CancelEdit exits edit mode and clears the type selection.
func (c *Controller) CancelEdit(ctx context.Context) {
	c.apply(ctx, EditingCleared{}, "", "")
}

func (c *Controller) apply(ctx context.Context, action Action, layoutID, elementID string) State {
	c.mu.Lock()
	c.state = Reduce(c.state, action)
	snapshot := c.state.Clone()
	c.mu.Unlock()
	c.publish(ctx, StateEvent{
		Reason:    ActionName(action),
		LayoutID:  layoutID,
		ElementID: elementID,
		At:        c.now(),
	})
	return snapshot
}

// applyTo reduces a content action only while layoutID is still current.
func (c *Controller) applyTo(ctx context.Context, action Action, layoutID, elementID string) error {
	c.mu.Lock()
	if c.state.CurrentLayoutID != layoutID {
		current := c.state.CurrentLayoutID
		c.mu.Unlock()
		c.opts.Logger.Warn("dropping edit for layout that is no longer current",
			zap.String("action", ActionName(action)),
			zap.String("layout_id", layoutID),
			zap.String("current_id", current))
		return fmt.Errorf("%w: %s", ErrLayoutChanged, layoutID)
	}
	c.state = Reduce(c.state, action)
	c.mu.Unlock()
	c.publish(ctx, StateEvent{
		Reason:    ActionName(action),
		LayoutID:  layoutID,
		ElementID: elementID,
		At:        c.now(),
	})
	return nil
}

func (c *Controller) publish(ctx context.Context, event StateEvent) {
	if err := c.opts.Hook.StateChanged(ctx, event); err != nil {
		c.opts.Logger.Warn("state hook failed", zap.String("reason", event.Reason), zap.Error(err))
	}
}

func (c *Controller) lookup(id string) (Layout, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.state.Layout(id)
	if !ok {
		return Layout{}, false
	}
	return l.Clone(), true
}

func (c *Controller) current() (Layout, bool) {
	return c.CurrentLayout()
}

func (c *Controller) api() (LayoutAPI, error) {
	if c.opts.API == nil {
		return nil, ErrMissingAPI
	}
	return c.opts.API, nil
}

func (c *Controller) notify(ctx context.Context, level NoticeLevel, message string) {
	c.opts.Notifier.Notify(ctx, Notice{Level: level, Message: message, At: c.now()})
}

func (c *Controller) notifyFailure(ctx context.Context, err error, rejectedPrefix, transportMessage string) {
	var remote RemoteError
	if errors.As(err, &remote) {
		c.notify(ctx, NoticeError, rejectedPrefix+remote.ServerMessage())
		return
	}
	c.notify(ctx, NoticeError, transportMessage)
}

func (c *Controller) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	c.opts.Telemetry.Record(ctx, event, payload)
}

func (c *Controller) now() time.Time {
	return c.opts.Clock()
}
