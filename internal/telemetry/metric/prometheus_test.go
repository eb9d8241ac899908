package metric

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func scrape(t *testing.T, h http.Handler) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	return string(body)
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.registry == nil {
		t.Error("registry field is nil")
	}
	if r.ConnectionsActive == nil {
		t.Error("ConnectionsActive is nil")
	}
	if r.CommandsTotal == nil {
		t.Error("CommandsTotal is nil")
	}
	if r.CommandErrors == nil {
		t.Error("CommandErrors is nil")
	}
	if r.CommandDuration == nil {
		t.Error("CommandDuration is nil")
	}
}

func TestHandler(t *testing.T) {
	body := scrape(t, NewRegistry().Handler())

	if !strings.Contains(body, "go_goroutines") {
		t.Error("expected go_goroutines metric")
	}
	if !strings.Contains(body, "process_") {
		t.Error("expected process metrics")
	}
}

func TestConnectionMetrics(t *testing.T) {
	r := NewRegistry()

	r.ConnOpened()
	r.ConnOpened()
	r.ConnOpened()
	r.ConnClosed()

	body := scrape(t, r.Handler())

	if !strings.Contains(body, "memkv_connections_active 2") {
		t.Error("expected memkv_connections_active 2")
	}
	if !strings.Contains(body, "memkv_connections_total 3") {
		t.Error("expected memkv_connections_total 3")
	}
}

func TestCommandMetrics(t *testing.T) {
	r := NewRegistry()

	r.RecordCommand("get", 0.0001)
	r.RecordCommand("get", 0.0002)
	r.RecordCommand("set", 0.0003)
	r.RecordError(KindUnknown)
	r.RecordError(KindProtocol)
	r.RecordError(KindProtocol)

	body := scrape(t, r.Handler())

	if !strings.Contains(body, `memkv_commands_total{command="get"} 2`) {
		t.Error(`expected memkv_commands_total{command="get"} 2`)
	}
	if !strings.Contains(body, `memkv_commands_total{command="set"} 1`) {
		t.Error(`expected memkv_commands_total{command="set"} 1`)
	}
	if !strings.Contains(body, `memkv_command_errors_total{kind="protocol"} 2`) {
		t.Error(`expected memkv_command_errors_total{kind="protocol"} 2`)
	}
	if !strings.Contains(body, `memkv_command_errors_total{kind="unknown"} 1`) {
		t.Error(`expected memkv_command_errors_total{kind="unknown"} 1`)
	}
	if !strings.Contains(body, `memkv_command_duration_seconds_count{command="get"} 2`) {
		t.Error(`expected memkv_command_duration_seconds_count{command="get"} 2`)
	}
}

func TestNilRegistryHelpers(t *testing.T) {
	var r *Registry

	// Should not panic
	r.ConnOpened()
	r.ConnClosed()
	r.RecordCommand("ping", 0)
	r.RecordError(KindIO)
}
