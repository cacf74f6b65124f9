// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package vtysh runs FRRouting vtysh commands on a device through a
// pluggable command runner.
package vtysh

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/golang/glog"
)

// DefaultPrefix reaches vtysh inside the SONiC bgp container.
const DefaultPrefix = "docker exec -i bgp vtysh"

// ErrNotFRR is returned when the routing stack on the device is not
// FRRouting.
var ErrNotFRR = errors.New("routing stack is not FRRouting")

// Runner executes a shell command on a device and returns its output.
type Runner interface {
	RunCommand(ctx context.Context, cmd string) (string, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, cmd string) (string, error)

// RunCommand calls f(ctx, cmd).
func (f RunnerFunc) RunCommand(ctx context.Context, cmd string) (string, error) {
	return f(ctx, cmd)
}

// Client is a named device handle that issues vtysh commands.
type Client struct {
	name   string
	runner Runner
	prefix string
}

// Option configures a Client.
type Option func(*Client)

// WithPrefix overrides the command used to invoke vtysh.
func WithPrefix(prefix string) Option {
	return func(c *Client) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// New returns a Client for the named device.
func New(name string, r Runner, opts ...Option) *Client {
	c := &Client{name: name, runner: r, prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the device name.
func (c *Client) Name() string { return c.name }

// String implements fmt.Stringer.
func (c *Client) String() string { return c.name }

// Command builds the shell command running each of cmds in one vtysh
// session.
func (c *Client) Command(cmds ...string) string {
	var b strings.Builder
	b.WriteString(c.prefix)
	for _, cmd := range cmds {
		b.WriteString(" -c ")
		b.WriteString(quote(strings.TrimSpace(cmd)))
	}
	return b.String()
}

// Run executes cmds in a single vtysh session.
func (c *Client) Run(ctx context.Context, cmds ...string) (string, error) {
	full := c.Command(cmds...)
	log.V(2).Infof("%s: running %s", c.name, full)
	out, err := c.runner.RunCommand(ctx, full)
	if err != nil {
		return out, fmt.Errorf("%s: %q failed: %w", c.name, full, err)
	}
	return out, nil
}

// Show runs "show isis <sub>".
func (c *Client) Show(ctx context.Context, sub string) (string, error) {
	return c.Run(ctx, "show isis "+sub)
}

// Version runs "show version".
func (c *Client) Version(ctx context.Context) (string, error) {
	return c.Run(ctx, "show version")
}

// CheckFRR returns ErrNotFRR unless the device runs FRRouting.
func (c *Client) CheckFRR(ctx context.Context) error {
	out, err := c.Version(ctx)
	if err != nil {
		return err
	}
	if !strings.Contains(out, "FRRouting") {
		return fmt.Errorf("%s: %w", c.name, ErrNotFRR)
	}
	return nil
}

// Configure enters configuration mode and applies lines in order.
func (c *Client) Configure(ctx context.Context, lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	cmds := append([]string{"configure terminal"}, lines...)
	out, err := c.Run(ctx, cmds...)
	if err != nil {
		return err
	}
	// vtysh reports rejected lines on stdout and still exits 0.
	for _, l := range strings.Split(out, "\n") {
		if strings.HasPrefix(strings.TrimSpace(l), "%") {
			return fmt.Errorf("%s: configuration rejected: %s", c.name, strings.TrimSpace(l))
		}
	}
	return nil
}

// quote wraps s in single quotes for a POSIX shell.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
