package gorouter

import (
	"testing"

	"github.com/goliatone/go-dashboard-builder/components/builder"
)

func TestRegisterValidatesConfig(t *testing.T) {
	err := Register(Config[struct{}]{})
	if err == nil {
		t.Fatalf("expected error when router/page missing")
	}
}

func TestDefaultRouteConfig(t *testing.T) {
	routes := defaultRouteConfig(RouteConfig{Elements: "/widgets"})
	if routes.Elements != "/widgets" {
		t.Fatalf("expected override to be kept, got %q", routes.Elements)
	}
	if routes.LayoutID != "/layouts/:id" {
		t.Fatalf("unexpected layout route %q", routes.LayoutID)
	}
	if routes.EditorType != "/editor/type" || routes.EditorCancel != "/editor/cancel" {
		t.Fatalf("unexpected editor routes %+v", routes)
	}
	if routes.WebSocket != "/ws" {
		t.Fatalf("unexpected websocket route %q", routes.WebSocket)
	}
}

func TestDefaultBasePath(t *testing.T) {
	if builder.DefaultBasePath != "/builder" {
		t.Fatalf("unexpected base path %q", builder.DefaultBasePath)
	}
}
