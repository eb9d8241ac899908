package redisserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yndnr/memkv-go/internal/telemetry/logger"
	"github.com/yndnr/memkv-go/internal/telemetry/metric"
	"github.com/yndnr/memkv-go/pkg/resp"
)

// Config holds the server configuration.
type Config struct {
	// Address is the TCP address to listen on.
	Address string
	// IdleTimeout closes a connection that sends nothing for this long.
	// Zero disables it.
	IdleTimeout time.Duration
	// WriteTimeout bounds each reply write. Zero disables it.
	WriteTimeout time.Duration
	// RateLimit is the maximum number of commands per second per
	// connection. Zero disables rate limiting.
	RateLimit int
	// RateBurst is the limiter burst size (defaults to RateLimit).
	RateBurst int
	// MaxBulkLen and MaxArrayLen bound declared frame lengths. Zero means
	// unlimited.
	MaxBulkLen  int
	MaxArrayLen int
	// ReplyErrors answers unknown or malformed commands with an error frame
	// and keeps the connection open instead of closing it silently.
	ReplyErrors bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Address: "127.0.0.1:6379",
	}
}

// Accept retry backoff bounds.
const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// Server accepts client connections and serves each one on its own
// goroutine against a shared store.
type Server struct {
	cfg     *Config
	handler *CommandHandler
	metrics *metric.Registry
	logger  *slog.Logger
	ln      net.Listener
	running atomic.Bool
	wg      sync.WaitGroup

	mu    sync.Mutex
	conns map[*Conn]struct{}
}

// New creates a new server. metrics may be nil.
func New(cfg *Config, store Store, metrics *metric.Registry, logger *slog.Logger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		cfg:     cfg,
		handler: NewCommandHandler(store, metrics, logger),
		metrics: metrics,
		logger:  logger,
		conns:   make(map[*Conn]struct{}),
	}
}

// Start binds the listener and runs the accept loop in the background.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Address, err)
	}
	s.serveListener(ctx, ln)
	return nil
}

// serveListener runs the accept loop on ln in the background.
func (s *Server) serveListener(ctx context.Context, ln net.Listener) {
	s.ln = ln
	s.running.Store(true)

	s.logger.Info("redis server listening", "address", ln.Addr().String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.acceptLoop(ctx, ln)
	}()
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Running reports whether the server is accepting connections.
func (s *Server) Running() bool {
	return s.running.Load()
}

// ActiveConns returns the number of open client connections.
func (s *Server) ActiveConns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Shutdown stops accepting, closes live connections and waits for their
// goroutines to finish or ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)

	var firstErr error
	if s.ln != nil {
		if err := s.ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			firstErr = err
		}
	}

	s.mu.Lock()
	for c := range s.conns {
		_ = c.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	return firstErr
}

// acceptLoop accepts connections until the listener closes or ctx ends.
// Other Accept errors, such as EMFILE, are retried with capped exponential
// backoff. running is cleared once the loop exits.
func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) {
	defer s.running.Store(false)

	var delay time.Duration
	for {
		c, err := ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			if delay == 0 {
				delay = minAcceptDelay
			} else {
				delay = min(delay*2, maxAcceptDelay)
			}
			s.logger.Warn("accept error, retrying", "error", err, "delay", delay)

			t := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				t.Stop()
				return
			case <-t.C:
			}
			continue
		}
		delay = 0

		conn := newConn(c, s.cfg)
		if !s.track(conn) {
			_ = conn.Close()
			return
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(conn)
			s.serveConn(ctx, conn)
		}()
	}
}

func (s *Server) track(c *Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running.Load() {
		return false
	}
	s.conns[c] = struct{}{}
	s.metrics.ConnOpened()
	return true
}

func (s *Server) untrack(c *Conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
	s.metrics.ConnClosed()
}

func (s *Server) serveConn(ctx context.Context, c *Conn) {
	defer c.Close()

	ctx = logger.WithLogger(ctx, logger.FromSlog(s.logger.With("remote", c.RemoteAddr().String())))
	ctx = logger.WithConnID(ctx, c.ID())
	log := logger.L(ctx)
	log.Debug("connection opened")

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic serving connection", "panic", r)
		}
	}()

	err := c.serve(ctx, s.handler, s.cfg)
	s.logOutcome(ctx, err)
}

// logOutcome records how a connection ended. Errors never propagate beyond
// the connection.
func (s *Server) logOutcome(ctx context.Context, err error) {
	log := logger.L(ctx)
	switch {
	case err == nil:
		log.Debug("connection closed")
	case !s.running.Load() && errors.Is(err, net.ErrClosed):
		log.Debug("connection closed by shutdown")
	case errors.Is(err, resp.ErrConnectionReset):
		s.metrics.RecordError(metric.KindReset)
		log.Warn("connection reset with partial frame", "error", err)
	case errors.Is(err, resp.ErrProtocol):
		s.metrics.RecordError(metric.KindProtocol)
		log.Warn("protocol error, closing connection", "error", err)
	case errors.Is(err, ErrCommandShape):
		s.metrics.RecordError(metric.KindShape)
		log.Warn("malformed command, closing connection", "error", logger.Truncate(err.Error(), maxLoggedError))
	case errors.Is(err, ErrUnknownCommand):
		s.metrics.RecordError(metric.KindUnknown)
		log.Warn("unknown command, closing connection", "error", logger.Truncate(err.Error(), maxLoggedError))
	case isTimeout(err):
		log.Debug("connection timed out")
	case errors.Is(err, context.Canceled), errors.Is(err, io.ErrClosedPipe):
		log.Debug("connection cancelled", "error", err)
	default:
		s.metrics.RecordError(metric.KindIO)
		log.Warn("connection error", "error", err)
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
