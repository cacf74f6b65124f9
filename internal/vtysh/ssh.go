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

package vtysh

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/openconfig/ondatra/binding"
	"golang.org/x/crypto/ssh"
)

// SSHRunner runs each command in its own session of an SSH client.
type SSHRunner struct {
	client *ssh.Client
}

// NewSSHRunner wraps an established SSH client.
func NewSSHRunner(sc *ssh.Client) *SSHRunner {
	return &SSHRunner{client: sc}
}

// DialSSH connects to addr with password authentication. The host key is
// not verified; lab devices are reimaged too often to pin keys.
func DialSSH(ctx context.Context, addr, user, password string) (*SSHRunner, error) {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, "22")
	}
	cfg := &ssh.ClientConfig{
		User: user,
		Auth: []ssh.AuthMethod{
			ssh.Password(password),
			ssh.KeyboardInteractive(func(_, _ string, questions []string, _ []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = password
				}
				return answers, nil
			}),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         30 * time.Second,
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("could not dial %s: %w", addr, err)
	}
	c, chans, reqs, err := ssh.NewClientConn(conn, addr, cfg)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("ssh handshake with %s failed: %w", addr, err)
	}
	return NewSSHRunner(ssh.NewClient(c, chans, reqs)), nil
}

// RunCommand implements Runner.
func (r *SSHRunner) RunCommand(ctx context.Context, cmd string) (string, error) {
	sess, err := r.client.NewSession()
	if err != nil {
		return "", fmt.Errorf("could not create session: %w", err)
	}
	defer sess.Close()

	type result struct {
		buf []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		buf, err := sess.CombinedOutput(cmd)
		done <- result{buf, err}
	}()
	select {
	case <-ctx.Done():
		sess.Signal(ssh.SIGKILL)
		return "", ctx.Err()
	case res := <-done:
		if res.err != nil {
			return string(res.buf), fmt.Errorf("could not execute command: %w", res.err)
		}
		return string(res.buf), nil
	}
}

// Close closes the underlying SSH client.
func (r *SSHRunner) Close() error {
	return r.client.Close()
}

// CLIRunner runs commands over an ondatra DUT CLI client.
type CLIRunner struct {
	CLI binding.CLIClient
}

// RunCommand implements Runner.
func (r CLIRunner) RunCommand(ctx context.Context, cmd string) (string, error) {
	res, err := r.CLI.RunCommand(ctx, cmd)
	if err != nil {
		return "", err
	}
	if msg := res.Error(); msg != "" {
		return res.Output(), errors.New(msg)
	}
	return res.Output(), nil
}
