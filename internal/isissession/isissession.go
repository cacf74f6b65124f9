// Copyright 2022 Google LLC
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

// Package isissession wraps the devices, links and IS-IS configuration of
// a SONiC WAN IS-IS test.
package isissession

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/golang/glog"
	"github.com/openconfig/ondatra"
	"github.com/openconfig/ondatra/gnmi"
	"github.com/sonic-net/wanprofiles/internal/args"
	"github.com/sonic-net/wanprofiles/internal/isisconf"
	"github.com/sonic-net/wanprofiles/internal/isisfacts"
	"github.com/sonic-net/wanprofiles/internal/vtysh"
)

// The testbed consists of two DUTs, dut1 and dut2, linked over port1. IS-IS
// runs over that link at level 2 with wide metrics. Both directions of the
// link are selected, so every device is once the DUT and once the
// neighbor.
const (
	sysIDBase   = 2001
	metricStyle = "wide"
)

// Connection is one direction of a link between two devices.
type Connection struct {
	DUT          *vtysh.Client
	DUTPort      string
	Neighbor     *vtysh.Client
	NeighborPort string
}

// TestSession is a convenience wrapper around the devices and links we're
// using.
type TestSession struct {
	// Devices lists every device of Conns once, in order of appearance.
	Devices []*vtysh.Client
	Conns   []Connection
	// Store holds the IS-IS config of every device; tests stage attribute
	// overrides in it and call Store.Push.
	Store    *isisconf.Store
	Instance string

	duts map[string]*ondatra.DUTDevice
}

// NewFromConns creates a TestSession over explicit connections.
func NewFromConns(conns []Connection) *TestSession {
	s := &TestSession{
		Conns:    conns,
		Store:    isisconf.NewStore(),
		Instance: *args.ISISInstance,
	}
	seen := map[string]bool{}
	for _, c := range conns {
		for _, d := range []*vtysh.Client{c.DUT, c.Neighbor} {
			if !seen[d.Name()] {
				seen[d.Name()] = true
				s.Devices = append(s.Devices, d)
			}
		}
	}
	return s
}

// New creates a new TestSession from the ondatra testbed.
func New(t testing.TB) (*TestSession, error) {
	t.Helper()
	dut1 := ondatra.DUT(t, "dut1")
	dut2 := ondatra.DUT(t, "dut2")
	c1 := vtysh.New(dut1.Name(), vtysh.CLIRunner{CLI: dut1.RawAPIs().CLI(t)}, vtysh.WithPrefix(*args.VTYSHCommand))
	c2 := vtysh.New(dut2.Name(), vtysh.CLIRunner{CLI: dut2.RawAPIs().CLI(t)}, vtysh.WithPrefix(*args.VTYSHCommand))
	p1 := dut1.Port(t, "port1").Name()
	p2 := dut2.Port(t, "port1").Name()

	s := NewFromConns([]Connection{
		{DUT: c1, DUTPort: p1, Neighbor: c2, NeighborPort: p2},
		{DUT: c2, DUTPort: p2, Neighbor: c1, NeighborPort: p1},
	})
	s.duts = map[string]*ondatra.DUTDevice{dut1.Name(): dut1, dut2.Name(): dut2}
	if len(s.Devices) != 2 {
		return nil, fmt.Errorf("dut1 and dut2 must be distinct devices, got %v", s.Devices)
	}
	return s, nil
}

// MustNew creates a new TestSession or Fatal()s if anything goes wrong.
func MustNew(t testing.TB) *TestSession {
	t.Helper()
	v, err := New(t)
	if err != nil {
		t.Fatalf("Unable to initialize topology: %v", err)
	}
	return v
}

// SystemID returns the system id assigned to the i-th device.
func SystemID(i int) string {
	return fmt.Sprintf("1920.0000.%04d", sysIDBase+i)
}

// WithISIS stages the base IS-IS config of every device: one instance,
// level 2 only, running on every port of the device in Conns.
func (s *TestSession) WithISIS(t testing.TB) *TestSession {
	t.Helper()
	ports := map[string][]string{}
	for _, c := range s.Conns {
		ports[c.DUT.Name()] = appendUnique(ports[c.DUT.Name()], c.DUTPort)
		ports[c.Neighbor.Name()] = appendUnique(ports[c.Neighbor.Name()], c.NeighborPort)
	}
	for i, d := range s.Devices {
		conf := isisconf.Config{
			Instance:    s.Instance,
			NET:         fmt.Sprintf("%s.%s.00", *args.ISISArea, SystemID(i)),
			IsType:      isisconf.Level2,
			MetricStyle: metricStyle,
			Interfaces:  ports[d.Name()],
		}
		if err := s.Store.SetBase(d.Name(), conf); err != nil {
			t.Fatalf("Invalid IS-IS config for %s: %v", d, err)
		}
	}
	return s
}

func appendUnique(l []string, v string) []string {
	for _, e := range l {
		if e == v {
			return l
		}
	}
	return append(l, v)
}

// PushAll pushes the IS-IS config of every device.
func (s *TestSession) PushAll(ctx context.Context) error {
	for _, d := range s.Devices {
		if err := s.Store.Push(ctx, d); err != nil {
			return fmt.Errorf("%s: %w", d, err)
		}
	}
	return nil
}

// Await collects the IS-IS facts of dev until check accepts them or the
// convergence time runs out. It returns the last facts collected and, on
// timeout, the last error check returned.
func (s *TestSession) Await(ctx context.Context, dev *vtysh.Client, check func(*isisfacts.Facts) error) (*isisfacts.Facts, error) {
	ctx, cancel := context.WithTimeout(ctx, *args.ISISConvergenceTime)
	defer cancel()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 0 // bounded by ctx

	var facts *isisfacts.Facts
	var lastErr error
	op := func() error {
		f, err := isisfacts.Collect(ctx, dev)
		switch {
		case ctx.Err() != nil:
			return ctx.Err()
		case errors.Is(err, vtysh.ErrNotFRR):
			lastErr = err
			return backoff.Permanent(err)
		case err != nil:
			lastErr = err
			return err
		}
		facts = f
		lastErr = check(f)
		return lastErr
	}
	notify := func(err error, d time.Duration) {
		log.Infof("%s: IS-IS not converged yet (%v), retrying in %v", dev, err, d)
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil {
		if lastErr != nil {
			return facts, lastErr
		}
		return facts, err
	}
	return facts, nil
}

// AwaitAdjacency waits until c.DUT reports an Up adjacency on c.DUTPort.
func (s *TestSession) AwaitAdjacency(ctx context.Context, c Connection) error {
	_, err := s.Await(ctx, c.DUT, func(f *isisfacts.Facts) error {
		if len(f.UpNeighbors(s.Instance, c.DUTPort)) == 0 {
			return fmt.Errorf("%s: no IS-IS adjacency up on %s", c.DUT, c.DUTPort)
		}
		return nil
	})
	return err
}

// AwaitLSP waits until the link-state database of c.DUT satisfies check,
// typically once the LSP of c.Neighbor has been flooded. It returns the
// facts check was last run against.
func (s *TestSession) AwaitLSP(ctx context.Context, c Connection, check func(*isisfacts.Facts) error) (*isisfacts.Facts, error) {
	return s.Await(ctx, c.DUT, check)
}

// MustAdjacency waits for an IS-IS adjacency on every connection, or calls
// t.Fatal if one doesn't form.
func (s *TestSession) MustAdjacency(t testing.TB) {
	t.Helper()
	for _, c := range s.Conns {
		if err := s.AwaitAdjacency(context.Background(), c); err != nil {
			t.Fatalf("Waiting for adjacency to form: %v", err)
		}
	}
}

// SystemHostname returns /system/state/hostname of a device, if the device
// is part of the ondatra testbed and reports it.
func (s *TestSession) SystemHostname(t testing.TB, dev *vtysh.Client) (string, bool) {
	t.Helper()
	dut, ok := s.duts[dev.Name()]
	if !ok {
		return "", false
	}
	return gnmi.Lookup(t, dut, gnmi.OC().System().Hostname().State()).Val()
}
