package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/yndnr/memkv-go/internal/telemetry/logger"
	"github.com/yndnr/memkv-go/pkg/cmap"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyServer(cfg *ServerSection) error {
	if err := verifyAddr("server.redis.addr", cfg.Redis.Addr); err != nil {
		return err
	}

	r := &cfg.Redis
	if r.IdleTimeout < 0 || r.WriteTimeout < 0 {
		return errors.New("server.redis timeouts must not be negative")
	}
	if r.RateLimit < 0 || r.RateBurst < 0 {
		return errors.New("server.redis rate limits must not be negative")
	}
	if r.MaxBulkLen < 0 || r.MaxArrayLen < 0 {
		return errors.New("server.redis frame limits must not be negative")
	}

	if cfg.Admin.Enabled {
		if err := verifyAddr("server.admin.addr", cfg.Admin.Addr); err != nil {
			return err
		}
		if sameListener(cfg.Admin.Addr, cfg.Redis.Addr) {
			return fmt.Errorf("server.admin.addr %q conflicts with server.redis.addr", cfg.Admin.Addr)
		}
	}

	return nil
}

func verifyAddr(field, addr string) error {
	if addr == "" {
		return fmt.Errorf("%s is required", field)
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	return nil
}

// sameListener reports whether two addresses bind the same port on an
// overlapping host. Port 0 never conflicts.
func sameListener(a, b string) bool {
	hostA, portA, errA := net.SplitHostPort(a)
	hostB, portB, errB := net.SplitHostPort(b)
	if errA != nil || errB != nil || portA != portB || portA == "0" {
		return false
	}
	wildcard := func(h string) bool { return h == "" || h == "0.0.0.0" || h == "::" }
	return hostA == hostB || wildcard(hostA) || wildcard(hostB)
}

func verifyStorage(cfg *StorageSection) error {
	if !cmap.ValidShardCount(cfg.Shards) {
		return fmt.Errorf("storage.shards must be a power of two, got %d", cfg.Shards)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if !logger.ValidLevel(cfg.Level) {
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text", "console":
		return nil
	default:
		return fmt.Errorf("log.format %q is not one of json, text", cfg.Format)
	}
}
