package layoutapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/goliatone/go-dashboard-builder/components/builder"
)

const (
	// DefaultBaseURL is where the reference persistence API listens.
	DefaultBaseURL = "http://localhost:3001"
	// DefaultTimeout bounds each remote call.
	DefaultTimeout = 10 * time.Second

	layoutsPath = "/api/layouts"
	tracerName  = "github.com/goliatone/go-dashboard-builder/pkg/layoutapi"
)

// Config configures the HTTP layout client.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
	Tracer     trace.Tracer
}

// Client talks to the layout persistence API over REST.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
	tracer  trace.Tracer
}

var _ builder.LayoutAPI = (*Client)(nil)

// New builds a client. An empty base URL selects DefaultBaseURL.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("layoutapi: invalid base url %q: %w", base, err)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return &Client{
		baseURL: base,
		apiKey:  cfg.APIKey,
		client:  httpClient,
		logger:  logger,
		tracer:  tracer,
	}, nil
}

// ListLayouts fetches every stored layout.
func (c *Client) ListLayouts(ctx context.Context) ([]builder.Layout, error) {
	var layouts []builder.Layout
	if err := c.do(ctx, "layoutapi.list", http.MethodGet, layoutsPath, "", nil, &layouts); err != nil {
		return nil, err
	}
	if layouts == nil {
		layouts = []builder.Layout{}
	}
	return layouts, nil
}

// CreateLayout stores a new layout and returns the server copy.
func (c *Client) CreateLayout(ctx context.Context, req builder.LayoutRequest) (builder.Layout, error) {
	var created builder.Layout
	if err := c.do(ctx, "layoutapi.create", http.MethodPost, layoutsPath, "", req, &created); err != nil {
		return builder.Layout{}, err
	}
	if created.ID == "" {
		return builder.Layout{}, fmt.Errorf("layoutapi: create response carried no layout")
	}
	return created, nil
}

// UpdateLayout replaces the stored layout content.
func (c *Client) UpdateLayout(ctx context.Context, id string, req builder.LayoutRequest) error {
	return c.do(ctx, "layoutapi.update", http.MethodPut, layoutPath(id), id, req, nil)
}

// DeleteLayout removes a stored layout.
func (c *Client) DeleteLayout(ctx context.Context, id string) error {
	return c.do(ctx, "layoutapi.delete", http.MethodDelete, layoutPath(id), id, nil, nil)
}

func layoutPath(id string) string {
	return layoutsPath + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, op, method, path, layoutID string, payload any, target any) (err error) {
	ctx, span := c.tracer.Start(ctx, op, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.path", path),
	)
	if layoutID != "" {
		span.SetAttributes(attribute.String("builder.layout_id", layoutID))
	}
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("layoutapi: encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("layoutapi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("layout api request failed", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("layoutapi: http request: %w", err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("layoutapi: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return responseError(resp.StatusCode, raw)
	}
	if target == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	env := Envelope[json.RawMessage]{}
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("layoutapi: decode response: %w", err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, target); err != nil {
		return fmt.Errorf("layoutapi: decode response data: %w", err)
	}
	return nil
}

// responseError turns a non-2xx response into an *Error when the body carries
// a JSON message. Unreadable bodies are reported as plain errors.
func responseError(status int, raw []byte) error {
	var env Envelope[json.RawMessage]
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("layoutapi: remote error %d: %s", status, strings.TrimSpace(string(raw)))
	}
	msg := env.Message
	if msg == "" {
		msg = env.Error
	}
	return &Error{Status: status, Message: msg}
}
