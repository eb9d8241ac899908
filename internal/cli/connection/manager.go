package connection

import (
	"context"
	"time"
)

// Manager tracks the current connection of an interactive session.
type Manager struct {
	timeout time.Duration
	current *Client
}

// NewManager creates a new connection manager.
func NewManager(timeout time.Duration) *Manager {
	return &Manager{timeout: timeout}
}

// Connect dials addr and makes it the current connection, closing the
// previous one.
func (m *Manager) Connect(ctx context.Context, addr string) (*Client, error) {
	c, err := Dial(ctx, addr, m.timeout)
	if err != nil {
		return nil, err
	}
	m.Disconnect()
	m.current = c
	return c, nil
}

// Disconnect closes the current connection.
func (m *Manager) Disconnect() {
	if m.current != nil {
		_ = m.current.Close()
		m.current = nil
	}
}

// Current returns the current connection.
func (m *Manager) Current() *Client {
	return m.current
}

// IsConnected returns true if the current connection is usable.
func (m *Manager) IsConnected() bool {
	return m.current != nil && m.current.Healthy()
}
