package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/yndnr/memkv-go/internal/infra/buildinfo"
	"github.com/yndnr/memkv-go/internal/infra/confloader"
	"github.com/yndnr/memkv-go/internal/infra/shutdown"
	"github.com/yndnr/memkv-go/internal/server/config"
	"github.com/yndnr/memkv-go/internal/server/httpserver"
	"github.com/yndnr/memkv-go/internal/server/redisserver"
	"github.com/yndnr/memkv-go/internal/storage/memory"
	"github.com/yndnr/memkv-go/internal/telemetry/logger"
	"github.com/yndnr/memkv-go/internal/telemetry/metric"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("memkv-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	slogLogger := logger.Slog(log)

	info := buildinfo.Get()
	log.Info("starting memkv-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", *configFile)
	log.Debug("effective configuration", "config", fmt.Sprintf("%+v", *config.Sanitize(cfg)))

	store := memory.New(memory.WithShards(cfg.Storage.Shards))

	metrics := metric.NewRegistry()
	metrics.MustRegister(metric.NewCollector(store))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownHandler := shutdown.NewHandler(shutdownTimeout)

	// Hooks run in reverse order of registration.
	redisServer := redisserver.New(redisConfig(&cfg.Server.Redis), store, metrics, slogLogger)
	if err := redisServer.Start(ctx); err != nil {
		return fmt.Errorf("start redis server: %w", err)
	}
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down redis server")
		return redisServer.Shutdown(ctx)
	})

	if cfg.Server.Admin.Enabled {
		adminServer, err := startAdmin(cfg, metrics, redisServer, slogLogger, shutdownHandler)
		if err != nil {
			_ = redisServer.Shutdown(context.Background())
			return fmt.Errorf("start admin server: %w", err)
		}
		shutdownHandler.OnShutdown(func(ctx context.Context) error {
			log.Info("shutting down admin server")
			return adminServer.Shutdown(ctx)
		})
	}

	if *configFile != "" {
		watcher, err := watchConfig(*configFile, cfg, log, slogLogger)
		if err != nil {
			log.Warn("config reload disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown(func(context.Context) error {
				return watcher.Stop()
			})
		}
	}

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.WaitContext(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// initLogger builds the structured logger and installs it as the default.
func initLogger(cfg *config.ServerConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}

	logger.SetDefault(log)
	slog.SetDefault(logger.Slog(log))

	return log, nil
}

// redisConfig maps the file configuration onto the listener configuration.
func redisConfig(cfg *config.RedisConfig) *redisserver.Config {
	return &redisserver.Config{
		Address:      cfg.Addr,
		IdleTimeout:  cfg.IdleTimeout,
		WriteTimeout: cfg.WriteTimeout,
		RateLimit:    cfg.RateLimit,
		RateBurst:    cfg.RateBurst,
		MaxBulkLen:   cfg.MaxBulkLen,
		MaxArrayLen:  cfg.MaxArrayLen,
		ReplyErrors:  cfg.ReplyErrors,
	}
}

func startAdmin(
	cfg *config.ServerConfig,
	metrics *metric.Registry,
	redisServer *redisserver.Server,
	log *slog.Logger,
	shutdownHandler *shutdown.Handler,
) (*httpserver.Server, error) {
	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Metrics:     metrics.Handler(),
		AuthToken:   cfg.Server.Admin.AuthToken,
		Ready:       redisServer.Running,
		Logger:      log,
		EnableAudit: true,
	})

	srv := httpserver.New(cfg.Server.Admin.Addr, router)

	errCh := make(chan error, 1)
	if err := srv.Start(errCh); err != nil {
		return nil, err
	}
	log.Info("admin server listening", "address", srv.Addr().String())

	go func() {
		if err, ok := <-errCh; ok {
			log.Error("admin server error", "error", err)
			shutdownHandler.Trigger()
		}
	}()

	return srv, nil
}

func watchConfig(path string, current *config.ServerConfig, log logger.Logger, slogLogger *slog.Logger) (*confloader.Watcher, error) {
	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(slogLogger))
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(path); err != nil {
		_ = watcher.Stop()
		return nil, err
	}

	r := &reloader{current: current, log: log}
	watcher.OnChange(func(changed string) {
		r.reload(changed)
	})
	watcher.StartAsync()

	return watcher, nil
}
