package connection

import (
	"context"
	"errors"
	"time"

	pool "github.com/jolestar/go-commons-pool/v2"

	"github.com/yndnr/memkv-go/pkg/resp"
)

// PoolConfig configures a client pool.
type PoolConfig struct {
	Addr    string
	Timeout time.Duration
	// Size caps the number of open connections.
	Size int
}

// Pool is a bounded pool of Clients to one server.
type Pool struct {
	objects *pool.ObjectPool
}

// NewPool creates a pool. Connections are dialled lazily on borrow.
func NewPool(ctx context.Context, cfg PoolConfig) *Pool {
	if cfg.Size <= 0 {
		cfg.Size = 1
	}

	poolCfg := pool.NewDefaultPoolConfig()
	poolCfg.MaxTotal = cfg.Size
	poolCfg.MaxIdle = cfg.Size
	poolCfg.BlockWhenExhausted = true
	poolCfg.TestOnBorrow = true

	return &Pool{
		objects: pool.NewObjectPool(ctx, &clientFactory{addr: cfg.Addr, timeout: cfg.Timeout}, poolCfg),
	}
}

// Borrow returns an idle client or dials a new one, blocking while the
// pool is exhausted.
func (p *Pool) Borrow(ctx context.Context) (*Client, error) {
	obj, err := p.objects.BorrowObject(ctx)
	if err != nil {
		return nil, err
	}
	c, ok := obj.(*Client)
	if !ok {
		return nil, errors.New("pool: unexpected object type")
	}
	return c, nil
}

// Return gives c back to the pool. Broken clients are discarded.
func (p *Pool) Return(ctx context.Context, c *Client) error {
	if !c.Healthy() {
		return p.objects.InvalidateObject(ctx, c)
	}
	return p.objects.ReturnObject(ctx, c)
}

// Do runs one command on a pooled client.
func (p *Pool) Do(ctx context.Context, args ...string) (resp.Frame, error) {
	c, err := p.Borrow(ctx)
	if err != nil {
		return nil, err
	}
	reply, err := c.Do(ctx, args...)
	if rerr := p.Return(ctx, c); err == nil {
		err = rerr
	}
	return reply, err
}

// Active returns the number of borrowed clients.
func (p *Pool) Active() int {
	return p.objects.GetNumActive()
}

// Idle returns the number of idle clients.
func (p *Pool) Idle() int {
	return p.objects.GetNumIdle()
}

// Close closes every idle client and rejects further borrows.
func (p *Pool) Close(ctx context.Context) {
	p.objects.Close(ctx)
}

type clientFactory struct {
	addr    string
	timeout time.Duration
}

func (f *clientFactory) MakeObject(ctx context.Context) (*pool.PooledObject, error) {
	c, err := Dial(ctx, f.addr, f.timeout)
	if err != nil {
		return nil, err
	}
	return pool.NewPooledObject(c), nil
}

func (f *clientFactory) DestroyObject(ctx context.Context, object *pool.PooledObject) error {
	c, ok := object.Object.(*Client)
	if !ok {
		return errors.New("pool: unexpected object type")
	}
	return c.Close()
}

func (f *clientFactory) ValidateObject(ctx context.Context, object *pool.PooledObject) bool {
	c, ok := object.Object.(*Client)
	return ok && c.Healthy()
}

func (f *clientFactory) ActivateObject(ctx context.Context, object *pool.PooledObject) error {
	return nil
}

func (f *clientFactory) PassivateObject(ctx context.Context, object *pool.PooledObject) error {
	return nil
}
