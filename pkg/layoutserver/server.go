package layoutserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/goliatone/go-dashboard-builder/components/builder"
	"github.com/goliatone/go-dashboard-builder/pkg/layoutapi"
	"github.com/goliatone/go-dashboard-builder/pkg/layoutstore"
)

const (
	// BasePath is the collection route served by the reference API.
	BasePath = "/api/layouts"

	maxBodyBytes = 4 << 20
	tracerName   = "github.com/goliatone/go-dashboard-builder/pkg/layoutserver"
)

// Config wires the reference layout API.
type Config struct {
	Store     layoutstore.Store
	Registry  builder.DefinitionRegistry
	Validator builder.ElementValidator
	// APIKey, when set, is required as a bearer token on every request.
	APIKey string
	Logger *zap.Logger
	Tracer trace.Tracer
}

// Server serves the layout persistence contract over net/http.
type Server struct {
	store     layoutstore.Store
	registry  builder.DefinitionRegistry
	validator builder.ElementValidator
	apiKey    string
	logger    *zap.Logger
	tracer    trace.Tracer
}

// New builds a server. A nil registry or validator falls back to the builder
// defaults so stored elements are always checked against the palette.
func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, errors.New("layoutserver: store is required")
	}
	if cfg.Registry == nil {
		cfg.Registry = builder.NewRegistry()
	}
	if cfg.Validator == nil {
		cfg.Validator = builder.NewJSONSchemaValidator()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = otel.Tracer(tracerName)
	}
	return &Server{
		store:     cfg.Store,
		registry:  cfg.Registry,
		validator: cfg.Validator,
		apiKey:    cfg.APIKey,
		logger:    cfg.Logger,
		tracer:    cfg.Tracer,
	}, nil
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.Mount(mux)
	return mux
}

// Mount registers the layout routes on mux.
func (s *Server) Mount(mux *http.ServeMux) {
	mux.HandleFunc("GET "+BasePath, s.wrap("layoutserver.list", s.handleList))
	mux.HandleFunc("POST "+BasePath, s.wrap("layoutserver.create", s.handleCreate))
	mux.HandleFunc("GET "+BasePath+"/{id}", s.wrap("layoutserver.get", s.handleGet))
	mux.HandleFunc("PUT "+BasePath+"/{id}", s.wrap("layoutserver.update", s.handleUpdate))
	mux.HandleFunc("DELETE "+BasePath+"/{id}", s.wrap("layoutserver.delete", s.handleDelete))
}

type handlerFunc func(w http.ResponseWriter, r *http.Request) (int, error)

// wrap adds authentication, a server span and an access log line.
func (s *Server) wrap(op string, fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx, span := s.tracer.Start(ctx, op, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()
		span.SetAttributes(
			attribute.String("http.request.method", r.Method),
			attribute.String("url.path", r.URL.Path),
		)
		if id := r.PathValue("id"); id != "" {
			span.SetAttributes(attribute.String("builder.layout_id", id))
		}
		r = r.WithContext(ctx)

		var (
			status int
			err    error
		)
		if !s.authorized(r) {
			status = http.StatusUnauthorized
			writeFailure(w, status, "Unauthorized", nil)
		} else {
			status, err = fn(w, r)
		}
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		fields := []zap.Field{
			zap.String("op", op),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.logger.Warn("layout request failed", append(fields, zap.Error(err))...)
			return
		}
		s.logger.Debug("layout request", fields...)
	}
}

func (s *Server) authorized(r *http.Request) bool {
	if s.apiKey == "" {
		return true
	}
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	return ok && token == s.apiKey
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) (int, error) {
	layouts, err := s.store.List(r.Context())
	if err != nil {
		return s.fail(w, err)
	}
	writeJSON(w, http.StatusOK, layoutapi.OK(layouts, "Layouts retrieved successfully"))
	return http.StatusOK, nil
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) (int, error) {
	layout, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		return s.fail(w, err)
	}
	writeJSON(w, http.StatusOK, layoutapi.OK(layout, "Layout retrieved successfully"))
	return http.StatusOK, nil
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) (int, error) {
	req, err := s.decodeRequest(r)
	if err != nil {
		return s.fail(w, err)
	}
	layout, err := s.store.Create(r.Context(), req)
	if err != nil {
		return s.fail(w, err)
	}
	writeJSON(w, http.StatusCreated, layoutapi.OK(layout, "Layout created successfully"))
	return http.StatusCreated, nil
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) (int, error) {
	req, err := s.decodeRequest(r)
	if err != nil {
		return s.fail(w, err)
	}
	layout, err := s.store.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		return s.fail(w, err)
	}
	writeJSON(w, http.StatusOK, layoutapi.OK(layout, "Layout updated successfully"))
	return http.StatusOK, nil
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) (int, error) {
	if err := s.store.Delete(r.Context(), r.PathValue("id")); err != nil {
		return s.fail(w, err)
	}
	writeJSON(w, http.StatusOK, layoutapi.OK[any](nil, "Layout deleted successfully"))
	return http.StatusOK, nil
}

var errMalformedBody = errors.New("layoutserver: malformed request body")

// decodeRequest reads and validates a create or update body.
func (s *Server) decodeRequest(r *http.Request) (builder.LayoutRequest, error) {
	var req builder.LayoutRequest
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return req, errors.Join(errMalformedBody, err)
	}
	seen := make(map[string]struct{}, len(req.Elements))
	for _, el := range req.Elements {
		if err := builder.ValidateElement(s.registry, s.validator, el); err != nil {
			return req, err
		}
		if _, dup := seen[el.ID]; dup {
			return req, builder.ErrDuplicateElement
		}
		seen[el.ID] = struct{}{}
	}
	return req, nil
}

// fail writes the error envelope and reports the status for logging.
func (s *Server) fail(w http.ResponseWriter, err error) (int, error) {
	status, message := classify(err)
	writeFailure(w, status, message, err)
	return status, err
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, layoutstore.ErrNotFound):
		return http.StatusNotFound, "Layout not found"
	case errors.Is(err, layoutstore.ErrNameRequired):
		return http.StatusBadRequest, "Name is required"
	case errors.Is(err, errMalformedBody):
		return http.StatusBadRequest, "Invalid request body"
	case errors.Is(err, builder.ErrInvalidElement):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, builder.ErrDuplicateElement):
		return http.StatusConflict, "Element ids must be unique"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func writeFailure(w http.ResponseWriter, status int, message string, err error) {
	env := layoutapi.Failure(message, nil)
	if err != nil && status < http.StatusInternalServerError {
		env.Error = err.Error()
	}
	writeJSON(w, status, env)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
