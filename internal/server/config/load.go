package config

import (
	"fmt"

	"github.com/yndnr/memkv-go/internal/infra/confloader"
)

// envKeys lists keys whose leaf names contain underscores, so environment
// variables map onto them unambiguously.
var envKeys = []string{
	"server.redis.idle_timeout",
	"server.redis.write_timeout",
	"server.redis.rate_limit",
	"server.redis.rate_burst",
	"server.redis.max_bulk_len",
	"server.redis.max_array_len",
	"server.redis.reply_errors",
	"server.admin.auth_token",
}

// Load builds the configuration from defaults, the optional YAML file at
// path and MEMKV_* environment variables, then verifies it.
func Load(path string) (*ServerConfig, error) {
	cfg := Default()

	loader := confloader.NewLoader(
		confloader.WithConfigFile(path),
		confloader.WithKnownKeys(envKeys...),
	)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if err := Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
