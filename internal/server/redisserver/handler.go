package redisserver

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yndnr/memkv-go/internal/telemetry/metric"
	"github.com/yndnr/memkv-go/pkg/resp"
)

// Store is the key-value store the handler executes against.
type Store interface {
	Insert(key, value string) (string, bool)
	InsertWithTTL(key, value string, ttl time.Duration) (string, bool)
	Get(key string) (string, bool)
}

// CommandHandler executes commands against the shared store.
type CommandHandler struct {
	store   Store
	metrics *metric.Registry
	logger  *slog.Logger
}

// NewCommandHandler creates a new CommandHandler. metrics may be nil.
func NewCommandHandler(store Store, metrics *metric.Registry, logger *slog.Logger) *CommandHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &CommandHandler{
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

// Execute runs cmd and returns the reply frame.
func (h *CommandHandler) Execute(cmd Command) resp.Frame {
	start := time.Now()
	reply := h.execute(cmd)
	h.metrics.RecordCommand(cmd.Name(), time.Since(start).Seconds())
	return reply
}

func (h *CommandHandler) execute(cmd Command) resp.Frame {
	switch c := cmd.(type) {
	case Ping:
		return resp.SimpleString("PONG")
	case Echo:
		// A simple string cannot carry line breaks.
		if strings.ContainsAny(c.Message, "\r\n") {
			return resp.BulkString(c.Message)
		}
		return resp.SimpleString(c.Message)
	case Get:
		value, ok := h.store.Get(c.Key)
		if !ok {
			return resp.Null{}
		}
		return resp.BulkString(value)
	case Set:
		if c.HasTTL {
			h.store.InsertWithTTL(c.Key, c.Value, c.TTL)
		} else {
			h.store.Insert(c.Key, c.Value)
		}
		return resp.SimpleString("OK")
	default:
		panic(fmt.Sprintf("redisserver: unhandled command %T", cmd))
	}
}
