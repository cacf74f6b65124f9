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

// Package dynhostname disables IS-IS dynamic hostname advertisement on
// devices under test and checks that their neighbors still resolve the
// device system id into a hostname shown in LSP identifiers.
package dynhostname

import (
	"context"
	"errors"
	"fmt"

	log "github.com/golang/glog"
	"github.com/sonic-net/wanprofiles/internal/isisconf"
	"github.com/sonic-net/wanprofiles/internal/isisfacts"
	"github.com/sonic-net/wanprofiles/internal/isissession"
	"github.com/sonic-net/wanprofiles/internal/lspid"
	"github.com/sonic-net/wanprofiles/internal/vtysh"
)

// NetNotFoundError is returned by Verify when the neighbor system id has
// no hostname mapping.
type NetNotFoundError struct {
	SystemID string
}

func (e *NetNotFoundError) Error() string {
	return fmt.Sprintf("Failed to find net %s hostname.", e.SystemID)
}

// LSPIDNotFoundError is returned by Verify when no LSPID of the instance
// starts with the truncated neighbor hostname.
type LSPIDNotFoundError struct {
	Hostname string
}

func (e *LSPIDNotFoundError) Error() string {
	return fmt.Sprintf("Failed to find hostname %s in LSPID.", e.Hostname)
}

// Setup stages dynamic_hostname=false for every distinct DUT of conns and
// pushes the configuration. It returns the devices it configured, in the
// order they first appear in conns. On error the devices configured so far
// are still returned so the caller can revert them with Teardown.
func Setup(ctx context.Context, store *isisconf.Store, conns []isissession.Connection) ([]*vtysh.Client, error) {
	disabled := false
	seen := map[string]bool{}
	var devs []*vtysh.Client
	for _, c := range conns {
		dut := c.DUT
		if seen[dut.Name()] {
			continue
		}
		seen[dut.Name()] = true

		log.Infof("%s: disabling IS-IS dynamic hostname", dut)
		if err := store.Add(dut.Name(), isisconf.Attrs{DynamicHostname: &disabled}); err != nil {
			return devs, fmt.Errorf("%s: staging %s: %w", dut, isisconf.DynamicHostname, err)
		}
		devs = append(devs, dut)
		if err := store.Push(ctx, dut); err != nil {
			return devs, fmt.Errorf("%s: %w", dut, err)
		}
	}
	return devs, nil
}

// Teardown removes the dynamic_hostname override of every device and
// pushes its configuration again. Every device is attempted; the errors
// are joined.
func Teardown(ctx context.Context, store *isisconf.Store, devs []*vtysh.Client) error {
	var errs []error
	for _, dev := range devs {
		log.Infof("%s: restoring IS-IS dynamic hostname", dev)
		if err := store.Del(dev.Name(), isisconf.DynamicHostname); err != nil {
			errs = append(errs, fmt.Errorf("%s: removing %s: %w", dev, isisconf.DynamicHostname, err))
			continue
		}
		if err := store.Push(ctx, dev); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", dev, err))
		}
	}
	return errors.Join(errs...)
}

// Verify checks that facts resolve nbrSystemID into a hostname and that an
// LSPID of instance starts with that hostname, truncated to
// lspid.MaxHostnameLen characters.
func Verify(facts *isisfacts.Facts, instance, nbrSystemID string) error {
	host, ok := facts.Hostname[nbrSystemID]
	if !ok {
		return &NetNotFoundError{SystemID: nbrSystemID}
	}
	host = lspid.TruncateHostname(host)
	re := lspid.HostnamePattern(host)

	found := false
	for id := range facts.Database[instance] {
		if re.MatchString(id) {
			found = true
			break
		}
	}
	if !found {
		return &LSPIDNotFoundError{Hostname: host}
	}
	return nil
}
