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

package binding

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/openconfig/ondatra/binding"
)

func dims(ports ...string) *binding.Dims {
	d := &binding.Dims{Ports: map[string]*binding.Port{}}
	for _, p := range ports {
		d.Ports[p] = nil
	}
	return d
}

func TestTopology(t *testing.T) {
	cases := []struct {
		name string
		resv *binding.Reservation
		want string
	}{{
		name: "empty",
		resv: &binding.Reservation{},
		want: "",
	}, {
		name: "dutdut",
		resv: &binding.Reservation{
			DUTs: map[string]binding.DUT{
				"dut2": &binding.AbstractDUT{Dims: dims("port1")},
				"dut1": &binding.AbstractDUT{Dims: dims("port1", "port2")},
			},
		},
		want: "dut1:2,dut2:1",
	}, {
		name: "atedut",
		resv: &binding.Reservation{
			ATEs: map[string]binding.ATE{
				"ate": &binding.AbstractATE{Dims: dims("port1", "port2")},
			},
			DUTs: map[string]binding.DUT{
				"dut": &binding.AbstractDUT{Dims: dims("port1", "port2")},
			},
		},
		want: "ate:2,dut:2",
	}}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := topology(c.resv)
			if got != c.want {
				t.Errorf("topology got %q, want %q", got, c.want)
			}
		})
	}
}

func TestProperties(t *testing.T) {
	resv := &binding.Reservation{
		DUTs: map[string]binding.DUT{
			"dut1": &binding.AbstractDUT{Dims: dims("port1")},
			"dut2": &binding.AbstractDUT{Dims: dims("port1")},
		},
	}
	want := map[string]string{
		"isis.instance": "test",
		"isis.area":     "49.0001",
		"isis.converge": "2m0s",
		"vtysh.command": "docker exec -i bgp vtysh",
		"topology":      "dut1:1,dut2:1",
	}
	if diff := cmp.Diff(want, properties(resv)); diff != "" {
		t.Errorf("properties -want, +got:\n%s", diff)
	}
	if _, ok := properties(nil)["topology"]; ok {
		t.Errorf("properties(nil) reported a topology")
	}
}

func TestNewBindNoFlags(t *testing.T) {
	if _, err := newBind(); err == nil {
		t.Errorf("newBind got nil error without -plugin or -kne-topo")
	}
}

func TestLoadBindingMissing(t *testing.T) {
	if _, err := loadBinding(t.TempDir()+"/missing.so", ""); err == nil {
		t.Errorf("loadBinding got nil error for a missing plugin")
	}
}
