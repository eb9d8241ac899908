package main

import (
	"sync"

	"github.com/yndnr/memkv-go/internal/server/config"
	"github.com/yndnr/memkv-go/internal/telemetry/logger"
)

// reloader applies configuration file changes to a running server. Only the
// log level is applied live; other changes are reported and wait for a
// restart.
type reloader struct {
	mu      sync.Mutex
	current *config.ServerConfig
	log     logger.Logger
}

func (r *reloader) reload(path string) {
	next, err := config.Load(path)
	if err != nil {
		r.log.Warn("config reload rejected", "path", path, "error", err)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if next.Log.Level != r.current.Log.Level {
		logger.SetLevel(next.Log.Level)
		r.log.Info("log level changed", "from", r.current.Log.Level, "to", next.Log.Level)
	}

	if fields := restartRequired(r.current, next); len(fields) > 0 {
		r.log.Warn("config changes need a restart", "fields", fields)
	}

	r.current.Log.Level = next.Log.Level
}

// restartRequired lists the changed settings that cannot be applied live.
func restartRequired(old, next *config.ServerConfig) []string {
	var fields []string
	if old.Server.Redis != next.Server.Redis {
		fields = append(fields, "server.redis")
	}
	if old.Server.Admin != next.Server.Admin {
		fields = append(fields, "server.admin")
	}
	if old.Storage != next.Storage {
		fields = append(fields, "storage")
	}
	if old.Log.Format != next.Log.Format {
		fields = append(fields, "log.format")
	}
	return fields
}
