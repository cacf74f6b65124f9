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

package isissession

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/openconfig/testt"
	"github.com/sonic-net/wanprofiles/internal/args"
	"github.com/sonic-net/wanprofiles/internal/isisconf"
	"github.com/sonic-net/wanprofiles/internal/isisfacts"
	"github.com/sonic-net/wanprofiles/internal/vtysh"
)

const neighborUp = `Area test:
 vlab-03
    Interface: Ethernet0, Level: 2, State: Up, Expires in 29s
`

// fakeFRR answers vtysh show commands. The neighbor is reported Up once
// upAfter neighbor queries have been answered.
type fakeFRR struct {
	version   string
	upAfter   int
	nbrCalls  int
	configure []string
}

func (f *fakeFRR) RunCommand(_ context.Context, cmd string) (string, error) {
	switch {
	case strings.HasSuffix(cmd, "'show version'"):
		return f.version, nil
	case strings.HasSuffix(cmd, "'show isis neighbor detail'"):
		f.nbrCalls++
		if f.nbrCalls > f.upAfter {
			return neighborUp, nil
		}
		return "Area test:\n", nil
	case strings.Contains(cmd, "'configure terminal'"):
		f.configure = append(f.configure, cmd)
		return "", nil
	case strings.Contains(cmd, "'show isis "):
		return "", nil
	}
	return "", errors.New("unexpected command " + cmd)
}

func newSession(t *testing.T) (*TestSession, map[string]*fakeFRR) {
	t.Helper()
	fakes := map[string]*fakeFRR{}
	dev := func(name string) *vtysh.Client {
		f := &fakeFRR{version: "FRRouting 8.5.1"}
		fakes[name] = f
		return vtysh.New(name, f)
	}
	d1, d2 := dev("vlab-01"), dev("vlab-03")
	return NewFromConns([]Connection{
		{DUT: d1, DUTPort: "Ethernet0", Neighbor: d2, NeighborPort: "Ethernet4"},
		{DUT: d2, DUTPort: "Ethernet4", Neighbor: d1, NeighborPort: "Ethernet0"},
	}), fakes
}

func setConvergenceTime(t *testing.T, d time.Duration) {
	t.Helper()
	old := *args.ISISConvergenceTime
	*args.ISISConvergenceTime = d
	t.Cleanup(func() { *args.ISISConvergenceTime = old })
}

func TestNewFromConns(t *testing.T) {
	s, _ := newSession(t)
	var names []string
	for _, d := range s.Devices {
		names = append(names, d.Name())
	}
	if diff := cmp.Diff([]string{"vlab-01", "vlab-03"}, names); diff != "" {
		t.Errorf("Devices -want, +got:\n%s", diff)
	}
	if s.Instance != *args.ISISInstance {
		t.Errorf("Instance got %q, want %q", s.Instance, *args.ISISInstance)
	}
}

func TestWithISIS(t *testing.T) {
	s, fakes := newSession(t)
	s.WithISIS(t)

	got, err := s.Store.Base("vlab-03")
	if err != nil {
		t.Fatalf("Base() got error: %v", err)
	}
	want := isisconf.Config{
		Instance:    "test",
		NET:         "49.0001.1920.0000.2002.00",
		IsType:      isisconf.Level2,
		MetricStyle: "wide",
		Interfaces:  []string{"Ethernet4"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Base(vlab-03) -want, +got:\n%s", diff)
	}
	if id, err := s.Store.SystemID("vlab-01"); err != nil || id != SystemID(0) {
		t.Errorf("SystemID(vlab-01) got (%q, %v), want %q", id, err, SystemID(0))
	}

	if err := s.PushAll(context.Background()); err != nil {
		t.Fatalf("PushAll() got error: %v", err)
	}
	for name, f := range fakes {
		if len(f.configure) != 1 {
			t.Errorf("%s: PushAll() configured %d times, want 1", name, len(f.configure))
		}
	}
}

func TestAwaitAdjacency(t *testing.T) {
	setConvergenceTime(t, 30*time.Second)
	s, fakes := newSession(t)
	fakes["vlab-01"].upAfter = 1

	if err := s.AwaitAdjacency(context.Background(), s.Conns[0]); err != nil {
		t.Fatalf("AwaitAdjacency() got error: %v", err)
	}
	if got := fakes["vlab-01"].nbrCalls; got != 2 {
		t.Errorf("AwaitAdjacency() polled neighbors %d times, want 2", got)
	}
}

func TestAwaitTimeout(t *testing.T) {
	setConvergenceTime(t, 1500*time.Millisecond)
	s, _ := newSession(t)
	errNotYet := errors.New("not yet")

	_, err := s.Await(context.Background(), s.Devices[0], func(*isisfacts.Facts) error { return errNotYet })
	if !errors.Is(err, errNotYet) {
		t.Errorf("Await() got error %v, want the last check error", err)
	}
}

func TestAwaitNotFRR(t *testing.T) {
	setConvergenceTime(t, 30*time.Second)
	s, fakes := newSession(t)
	fakes["vlab-01"].version = "Quagga 1.2.4"

	start := time.Now()
	_, err := s.Await(context.Background(), s.Devices[0], func(*isisfacts.Facts) error { return nil })
	if !errors.Is(err, vtysh.ErrNotFRR) {
		t.Errorf("Await() got error %v, want ErrNotFRR", err)
	}
	if time.Since(start) > 10*time.Second {
		t.Errorf("Await() retried a permanent error")
	}
}

func TestWithISISBadArea(t *testing.T) {
	old := *args.ISISArea
	*args.ISISArea = "area51"
	t.Cleanup(func() { *args.ISISArea = old })
	s, _ := newSession(t)

	errMsg := testt.CaptureFatal(t, func(t testing.TB) {
		s.WithISIS(t)
	})
	if errMsg == nil || !strings.Contains(*errMsg, "Invalid IS-IS config for vlab-01") {
		t.Errorf("WithISIS() got fatal %v, want an invalid config for vlab-01", errMsg)
	}
}

func TestMustAdjacencyFatal(t *testing.T) {
	setConvergenceTime(t, 1500*time.Millisecond)
	s, fakes := newSession(t)
	fakes["vlab-01"].upAfter = 1000

	errMsg := testt.CaptureFatal(t, func(t testing.TB) {
		s.MustAdjacency(t)
	})
	if errMsg == nil || !strings.Contains(*errMsg, "no IS-IS adjacency up on Ethernet0") {
		t.Errorf("MustAdjacency() got fatal %v, want no adjacency on Ethernet0", errMsg)
	}
}
