package command

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/memkv-go/internal/server/httpserver"
	"github.com/yndnr/memkv-go/internal/server/redisserver"
	"github.com/yndnr/memkv-go/internal/storage/memory"
	"github.com/yndnr/memkv-go/internal/telemetry/metric"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startServer runs a real RESP server on a loopback port for the test.
func startServer(t *testing.T) string {
	t.Helper()

	cfg := redisserver.DefaultConfig()
	cfg.Address = "127.0.0.1:0"
	srv := redisserver.New(cfg, memory.New(), nil, quietLogger())
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv.Addr().String()
}

// startAdmin runs the admin router behind httptest.
func startAdmin(t *testing.T, token string, ready bool) string {
	t.Helper()

	srv := httptest.NewServer(httpserver.NewRouter(&httpserver.RouterConfig{
		Metrics:   metric.NewRegistry().Handler(),
		AuthToken: token,
		Ready:     func() bool { return ready },
		Logger:    quietLogger(),
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

// runApp runs the CLI with args and returns what it wrote to stdout.
// A missing profile keeps the user's ~/.memkv out of the test.
func runApp(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	app := App()
	app.Reader = strings.NewReader(stdin)
	app.Writer = &out
	app.ErrWriter = &errOut

	profile := filepath.Join(t.TempDir(), "cli.yaml")
	full := append([]string{"memkv-cli", "--profile", profile}, args...)
	err := app.RunContext(context.Background(), full)
	return out.String(), err
}
