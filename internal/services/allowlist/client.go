package allowlist

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Remote command shapes. These are the only commands the service sends.
const (
	listCommand   = "minecraft:whitelist list"
	addCommand    = "minecraft:whitelist add %s"
	removeCommand = "minecraft:whitelist remove %s"
	seenCommand   = "essentials:seen %s"
)

// Executor sends a single command to the remote authority and returns its text response
type Executor interface {
	Execute(ctx context.Context, command string) (string, error)
}

// Config holds configuration for the allow-list client
type Config struct {
	// CommandTimeout bounds every remote round trip; a timeout is reported as unreachable
	CommandTimeout time.Duration
}

// DefaultConfig returns default allow-list client configuration
func DefaultConfig() Config {
	return Config{
		CommandTimeout: 5 * time.Second,
	}
}

// Client issues list/add/remove/ban-status queries against the remote allow-list.
// It never returns transport errors to callers; every failure becomes a status.
type Client struct {
	executor Executor
	cfg      Config
	logger   *slog.Logger
}

// New creates a new allow-list Client
func New(executor Executor, cfg Config, logger *slog.Logger) *Client {
	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = DefaultConfig().CommandTimeout
	}
	return &Client{
		executor: executor,
		cfg:      cfg,
		logger:   logger,
	}
}

// ListNames returns the current remote allow-list as a set of lower-cased names
func (c *Client) ListNames(ctx context.Context) ListResult {
	resp, err := c.run(ctx, listCommand)
	if err != nil {
		return ListResult{Status: StatusUnreachable, Err: err}
	}

	names, ok := parseList(resp)
	if !ok {
		c.logger.Warn("unrecognised whitelist list response", slog.String("response", resp))
		return ListResult{Status: StatusFailure, Err: fmt.Errorf("unrecognised list response: %q", resp)}
	}
	return ListResult{Status: StatusSuccess, Names: names}
}

// AddName adds name to the remote allow-list, preserving the caller's casing
func (c *Client) AddName(ctx context.Context, name string) MutationResult {
	return c.mutate(ctx, fmt.Sprintf(addCommand, name), parseAdd)
}

// RemoveName removes name from the remote allow-list, preserving the caller's casing
func (c *Client) RemoveName(ctx context.Context, name string) MutationResult {
	return c.mutate(ctx, fmt.Sprintf(removeCommand, name), parseRemove)
}

// BanStatus reports whether the remote activity record for name carries a ban marker.
// Callers must treat anything but StatusSuccess as banned.
func (c *Client) BanStatus(ctx context.Context, name string) BanResult {
	resp, err := c.run(ctx, fmt.Sprintf(seenCommand, name))
	if err != nil {
		return BanResult{Status: StatusUnreachable, Err: err}
	}

	banned, ok := parseSeen(resp)
	if !ok {
		c.logger.Warn("ban lookup failed", slog.String("player_name", name), slog.String("response", resp))
		return BanResult{Status: StatusUnreachable, Err: fmt.Errorf("ban lookup failed: %q", resp)}
	}
	return BanResult{Status: StatusSuccess, Banned: banned}
}

func (c *Client) mutate(ctx context.Context, command string, parse func(string) bool) MutationResult {
	resp, err := c.run(ctx, command)
	if err != nil {
		return MutationResult{Status: StatusUnreachable, Err: err}
	}
	if !parse(resp) {
		c.logger.Warn("allow-list mutation rejected",
			slog.String("command", command),
			slog.String("response", resp),
		)
		return MutationResult{Status: StatusFailure, Response: resp, Err: fmt.Errorf("rejected: %q", resp)}
	}
	return MutationResult{Status: StatusSuccess, Response: resp}
}

// run executes command under the configured timeout. The wait is bounded even
// if the executor ignores ctx; a command abandoned on timeout may still be
// applied remotely.
func (c *Client) run(ctx context.Context, command string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.CommandTimeout)
	defer cancel()

	type reply struct {
		text string
		err  error
	}
	ch := make(chan reply, 1)
	start := time.Now()
	go func() {
		text, err := c.executor.Execute(ctx, command)
		ch <- reply{text: text, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			c.logger.Warn("remote command failed",
				slog.String("command", verb(command)),
				slog.Duration("duration", time.Since(start)),
				slog.String("error", r.err.Error()),
			)
			return "", r.err
		}
		return r.text, nil
	case <-ctx.Done():
		c.logger.Warn("remote command timed out",
			slog.String("command", verb(command)),
			slog.Duration("timeout", c.cfg.CommandTimeout),
		)
		return "", ctx.Err()
	}
}

// verb strips the player name from a command for logging
func verb(command string) string {
	fields := strings.Fields(command)
	if len(fields) > 2 {
		return strings.Join(fields[:2], " ")
	}
	return command
}
