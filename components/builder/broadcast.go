package builder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// StateEvent describes a state transition performed by the Controller.
type StateEvent struct {
	Reason    string    `json:"reason"`
	LayoutID  string    `json:"layoutId,omitempty"`
	ElementID string    `json:"elementId,omitempty"`
	Notice    *Notice   `json:"notice,omitempty"`
	At        time.Time `json:"at"`
}

// StateHook is notified after every applied transition.
type StateHook interface {
	StateChanged(ctx context.Context, event StateEvent) error
}

type noopStateHook struct{}

func (noopStateHook) StateChanged(context.Context, StateEvent) error { return nil }

// BroadcastHook fans out state events to in-process subscribers.
type BroadcastHook struct {
	mu       sync.RWMutex
	subs     map[int]chan StateEvent
	next     int
	origins  map[string]bool
	upgrader websocket.Upgrader
}

// BroadcastOption customizes a BroadcastHook.
type BroadcastOption func(*BroadcastHook)

// WithAllowedOrigins lets browsers on other origins open the WebSocket
// stream. "*" allows any origin.
func WithAllowedOrigins(origins ...string) BroadcastOption {
	return func(h *BroadcastHook) {
		for _, o := range origins {
			if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
				h.origins[strings.ToLower(o)] = true
			}
		}
	}
}

// NewBroadcastHook creates a broadcast hook. WebSocket upgrades are accepted
// from the serving host and the allowed origins only.
func NewBroadcastHook(opts ...BroadcastOption) *BroadcastHook {
	h := &BroadcastHook{
		subs:    make(map[int]chan StateEvent),
		origins: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.CheckOrigin}
	return h
}

// CheckOrigin accepts requests without an Origin header, same host requests
// and the configured allowed origins.
func (h *BroadcastHook) CheckOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if h.origins["*"] || h.origins[strings.ToLower(origin)] {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// StateChanged satisfies StateHook. Slow subscribers miss events rather than
// blocking the controller.
func (h *BroadcastHook) StateChanged(_ context.Context, event StateEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

// Notify forwards notices to subscribers so front-ends can display them.
func (h *BroadcastHook) Notify(ctx context.Context, notice Notice) {
	n := notice
	_ = h.StateChanged(ctx, StateEvent{Reason: "notice", Notice: &n, At: notice.At})
}

// Subscribe returns a channel of state events and a cancel func.
func (h *BroadcastHook) Subscribe() (<-chan StateEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan StateEvent, 8)
	h.subs[id] = ch
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Subscribers reports the number of active subscriptions.
func (h *BroadcastHook) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// ServeWebSocket upgrades the request and streams state events as JSON.
func (h *BroadcastHook) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	events, cancel := h.Subscribe()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		}
	}
}

// ServeSSE streams state events as Server-Sent Events.
func (h *BroadcastHook) ServeSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	events, cancel := h.Subscribe()
	defer cancel()

	encoder := json.NewEncoder(w)
	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			w.Write([]byte("data: "))
			if err := encoder.Encode(event); err != nil {
				return
			}
			w.Write([]byte("\n"))
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}
