package redisserver

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/memkv-go/internal/infra/idgen"
	"github.com/yndnr/memkv-go/internal/telemetry/logger"
	"github.com/yndnr/memkv-go/pkg/resp"
)

// maxLoggedError bounds client-controlled text copied into log lines.
const maxLoggedError = 128

// lineBreaks flattens error text into a single simple-error line.
var lineBreaks = strings.NewReplacer("\r", " ", "\n", " ")

// Conn represents a single client connection.
//
// Its lifecycle is AwaitingInput -> TryParse -> Dispatching -> AwaitingInput
// until the peer disconnects or an error closes it.
type Conn struct {
	id      string
	netConn net.Conn
	dec     *resp.Decoder
	bw      *bufio.Writer
	limiter *rate.Limiter
	scratch []byte

	closed atomic.Bool
}

func newConn(c net.Conn, cfg *Config) *Conn {
	conn := &Conn{
		id:      idgen.MustNew(idgen.ConnPrefix),
		netConn: c,
		dec: resp.NewDecoder(c, resp.WithParser(resp.Parser{
			MaxBulkLen:  cfg.MaxBulkLen,
			MaxArrayLen: cfg.MaxArrayLen,
		})),
		bw: bufio.NewWriter(c),
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = cfg.RateLimit
		}
		conn.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return conn
}

// ID returns the connection ID used in logs.
func (c *Conn) ID() string {
	return c.id
}

// Close closes the underlying connection. It is safe to call more than once.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.netConn.Close()
}

// RemoteAddr returns the peer address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.netConn.RemoteAddr()
}

// serve runs the connection until it ends. A nil return means the peer
// closed the stream cleanly between frames.
func (c *Conn) serve(ctx context.Context, h *CommandHandler, cfg *Config) error {
	for {
		if cfg.IdleTimeout > 0 {
			if err := c.netConn.SetReadDeadline(time.Now().Add(cfg.IdleTimeout)); err != nil {
				return err
			}
		}

		f, err := c.dec.ReadFrame()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		cmd, err := Interpret(f)
		if err != nil {
			if !cfg.ReplyErrors {
				return err
			}
			logger.L(ctx).Debug("rejected command", "error", logger.Truncate(err.Error(), maxLoggedError))
			if werr := c.write(errorReply(err), cfg); werr != nil {
				return werr
			}
			continue
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		if err := c.write(h.Execute(cmd), cfg); err != nil {
			return err
		}
	}
}

// errorReply builds the reply for a rejected command. The command word comes
// from the client, so line breaks are replaced to keep the reply one frame.
func errorReply(err error) resp.Error {
	return resp.Error("ERR " + lineBreaks.Replace(err.Error()))
}

// write encodes and flushes one reply.
func (c *Conn) write(f resp.Frame, cfg *Config) error {
	if cfg.WriteTimeout > 0 {
		if err := c.netConn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout)); err != nil {
			return err
		}
	}
	c.scratch = resp.AppendFrame(c.scratch[:0], f)
	if _, err := c.bw.Write(c.scratch); err != nil {
		return err
	}
	return c.bw.Flush()
}
