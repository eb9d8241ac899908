package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Redis.Addr != DefaultRedisAddr {
		t.Errorf("Redis.Addr = %q, want %q", cfg.Server.Redis.Addr, DefaultRedisAddr)
	}
	if cfg.Server.Redis.IdleTimeout != 0 {
		t.Errorf("Redis.IdleTimeout = %v, want 0", cfg.Server.Redis.IdleTimeout)
	}
	if cfg.Server.Redis.ReplyErrors {
		t.Error("Redis.ReplyErrors should be false by default")
	}
	if cfg.Server.Admin.Enabled {
		t.Error("Admin should be disabled by default")
	}
	if cfg.Server.Admin.Addr != DefaultAdminAddr {
		t.Errorf("Admin.Addr = %q, want %q", cfg.Server.Admin.Addr, DefaultAdminAddr)
	}
	if cfg.Storage.Shards != DefaultShards {
		t.Errorf("Shards = %d, want %d", cfg.Storage.Shards, DefaultShards)
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, DefaultLogLevel)
	}
	if cfg.Log.Format != DefaultLogFormat {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, DefaultLogFormat)
	}

	if err := Verify(cfg); err != nil {
		t.Errorf("Verify(Default()) error = %v", err)
	}
}

func TestSanitize(t *testing.T) {
	cfg := Default()
	cfg.Server.Admin.AuthToken = "super-secret-token-1234567890"

	sanitized := Sanitize(cfg)

	if cfg.Server.Admin.AuthToken != "super-secret-token-1234567890" {
		t.Error("Original config should not be modified")
	}
	if sanitized.Server.Admin.AuthToken == cfg.Server.Admin.AuthToken {
		t.Error("Sanitized config should mask the token")
	}
	if len(sanitized.Server.Admin.AuthToken) != len(cfg.Server.Admin.AuthToken) {
		t.Errorf("Masked token length = %d, want %d", len(sanitized.Server.Admin.AuthToken), len(cfg.Server.Admin.AuthToken))
	}
}

func TestSanitize_EmptyToken(t *testing.T) {
	sanitized := Sanitize(Default())

	if sanitized.Server.Admin.AuthToken != "" {
		t.Error("Empty token should remain empty")
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a", "****"},
		{"abcd", "****"},
		{"abcde", "ab*de"},
		{"abcdef", "ab**ef"},
		{"1234567890", "12******90"},
	}

	for _, tt := range tests {
		if result := maskSecret(tt.input); result != tt.expected {
			t.Errorf("maskSecret(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr string
	}{
		{"defaults", func(*ServerConfig) {}, ""},
		{"empty redis addr", func(c *ServerConfig) { c.Server.Redis.Addr = "" }, "server.redis.addr is required"},
		{"redis addr without port", func(c *ServerConfig) { c.Server.Redis.Addr = "localhost" }, "server.redis.addr"},
		{"negative idle timeout", func(c *ServerConfig) { c.Server.Redis.IdleTimeout = -time.Second }, "timeouts"},
		{"negative rate limit", func(c *ServerConfig) { c.Server.Redis.RateLimit = -1 }, "rate limits"},
		{"negative bulk limit", func(c *ServerConfig) { c.Server.Redis.MaxBulkLen = -1 }, "frame limits"},
		{"shards not power of two", func(c *ServerConfig) { c.Storage.Shards = 3 }, "storage.shards"},
		{"zero shards", func(c *ServerConfig) { c.Storage.Shards = 0 }, "storage.shards"},
		{"bad log level", func(c *ServerConfig) { c.Log.Level = "verbose" }, "log.level"},
		{"bad log format", func(c *ServerConfig) { c.Log.Format = "xml" }, "log.format"},
		{
			name: "admin enabled without addr",
			mutate: func(c *ServerConfig) {
				c.Server.Admin.Enabled = true
				c.Server.Admin.Addr = ""
			},
			wantErr: "server.admin.addr is required",
		},
		{
			name: "admin port conflict",
			mutate: func(c *ServerConfig) {
				c.Server.Admin.Enabled = true
				c.Server.Admin.Addr = "0.0.0.0:6379"
			},
			wantErr: "conflicts",
		},
		{
			name: "admin disabled ignores conflict",
			mutate: func(c *ServerConfig) {
				c.Server.Admin.Addr = c.Server.Redis.Addr
			},
			wantErr: "",
		},
		{
			name: "ephemeral ports never conflict",
			mutate: func(c *ServerConfig) {
				c.Server.Redis.Addr = "127.0.0.1:0"
				c.Server.Admin.Enabled = true
				c.Server.Admin.Addr = "127.0.0.1:0"
			},
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Verify(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Verify() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Verify() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Redis.Addr != DefaultRedisAddr {
		t.Errorf("Redis.Addr = %q, want %q", cfg.Server.Redis.Addr, DefaultRedisAddr)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memkv.yaml")
	content := `
server:
  redis:
    addr: "0.0.0.0:7379"
    idle_timeout: 5m
    reply_errors: true
  admin:
    enabled: true
    addr: "127.0.0.1:9200"
storage:
  shards: 16
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	t.Setenv("MEMKV_SERVER_REDIS_RATE_LIMIT", "250")
	t.Setenv("MEMKV_LOG_FORMAT", "text")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Redis.Addr != "0.0.0.0:7379" {
		t.Errorf("Redis.Addr = %q", cfg.Server.Redis.Addr)
	}
	if cfg.Server.Redis.IdleTimeout != 5*time.Minute {
		t.Errorf("Redis.IdleTimeout = %v, want 5m", cfg.Server.Redis.IdleTimeout)
	}
	if !cfg.Server.Redis.ReplyErrors {
		t.Error("Redis.ReplyErrors should be true")
	}
	if cfg.Server.Redis.RateLimit != 250 {
		t.Errorf("Redis.RateLimit = %d, want 250 (from env)", cfg.Server.Redis.RateLimit)
	}
	if !cfg.Server.Admin.Enabled || cfg.Server.Admin.Addr != "127.0.0.1:9200" {
		t.Errorf("Admin = %+v", cfg.Server.Admin)
	}
	if cfg.Storage.Shards != 16 {
		t.Errorf("Shards = %d, want 16", cfg.Storage.Shards)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memkv.yaml")
	if err := os.WriteFile(path, []byte("storage:\n  shards: 6\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() expected error for invalid shard count")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() expected error for missing file")
	}
}
