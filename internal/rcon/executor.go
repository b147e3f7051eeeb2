// Package rcon sends allow-list commands to the game server over RCON.
package rcon

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/gorcon/rcon"
)

// Config holds RCON connection settings
type Config struct {
	Host     string
	Port     int
	Password string
	// Timeout bounds dial, auth and the command round trip when ctx has no earlier deadline
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults for RCON
func DefaultConfig() Config {
	return Config{
		Host:    "localhost",
		Port:    25575,
		Timeout: 5 * time.Second,
	}
}

// Addr returns host:port
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Executor opens one authenticated connection per command and closes it afterwards
type Executor struct {
	cfg Config
}

// New creates a new Executor
func New(cfg Config) *Executor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Executor{cfg: cfg}
}

// Execute implements allowlist.Executor
func (e *Executor) Execute(ctx context.Context, command string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	timeout := e.cfg.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return "", context.DeadlineExceeded
	}

	conn, err := rcon.Dial(e.cfg.Addr(), e.cfg.Password,
		rcon.SetDialTimeout(timeout),
		rcon.SetDeadline(timeout),
	)
	if err != nil {
		return "", fmt.Errorf("rcon dial %s: %w", e.cfg.Addr(), err)
	}
	defer func() { _ = conn.Close() }()

	resp, err := conn.Execute(command)
	if err != nil {
		return "", fmt.Errorf("rcon execute: %w", err)
	}
	return resp, nil
}
