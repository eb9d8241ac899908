package connection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/yndnr/memkv-go/pkg/resp"
)

// DefaultTimeout bounds a single dial or round trip when the caller does
// not set one.
const DefaultTimeout = 5 * time.Second

// ErrClosed is returned when the connection is closed, locally or by the
// server. The server closes the connection without a reply on commands it
// cannot interpret.
var ErrClosed = errors.New("connection closed")

// Client is a synchronous RESP client. Requests are serialized; one
// request is in flight at a time.
type Client struct {
	addr    string
	timeout time.Duration

	mu   sync.Mutex
	conn net.Conn
	dec  *resp.Decoder
	buf  []byte
}

// Dial connects to a server.
func Dial(ctx context.Context, addr string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	return newClient(conn, addr, timeout), nil
}

func newClient(conn net.Conn, addr string, timeout time.Duration) *Client {
	return &Client{
		addr:    addr,
		timeout: timeout,
		conn:    conn,
		dec:     resp.NewDecoder(conn),
	}
}

// Addr returns the server address.
func (c *Client) Addr() string {
	return c.addr
}

// Do sends a command made of bulk string arguments and returns the reply.
func (c *Client) Do(ctx context.Context, args ...string) (resp.Frame, error) {
	return c.DoFrame(ctx, resp.NewCommand(args...))
}

// DoFrame sends f and returns the reply frame. Any transport error closes
// the client.
func (c *Client) DoFrame(ctx context.Context, f resp.Frame) (resp.Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	conn := c.conn
	if conn == nil {
		return nil, ErrClosed
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, c.fail(err)
	}

	// Unblock I/O as soon as ctx is cancelled.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	c.buf = resp.AppendFrame(c.buf[:0], f)
	if _, err := conn.Write(c.buf); err != nil {
		return nil, c.fail(ctxErr(ctx, err))
	}

	reply, err := c.dec.ReadFrame()
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, resp.ErrConnectionReset) {
			return nil, c.fail(fmt.Errorf("%w by server", ErrClosed))
		}
		return nil, c.fail(ctxErr(ctx, err))
	}

	return reply, nil
}

// Healthy reports whether the client can still send requests.
func (c *Client) Healthy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Close closes the connection. Safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Client) closeLocked() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// fail closes the connection after a transport error and returns err.
func (c *Client) fail(err error) error {
	_ = c.closeLocked()
	return err
}

func ctxErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
