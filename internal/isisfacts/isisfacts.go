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

// Package isisfacts collects IS-IS state from FRRouting's vtysh and parses
// it into Facts: neighbors, link-state database, routes and the dynamic
// hostname table.
package isisfacts

import (
	"context"
	"fmt"
	"slices"

	log "github.com/golang/glog"
	"github.com/sonic-net/wanprofiles/internal/vtysh"
)

// Facts is the IS-IS state of one device. Maps keyed by area are keyed by
// the IS-IS instance (area tag) name.
type Facts struct {
	Neighbors map[string]map[string]Neighbor `json:"neighbors" yaml:"neighbors"`
	Database  map[string]map[string]LSP      `json:"database" yaml:"database"`
	Route     map[string]Routes              `json:"route" yaml:"route"`
	// Hostname maps system id to dynamic hostname.
	Hostname map[string]string `json:"hostname" yaml:"hostname"`
	// SystemID is the local system id, if the hostname table listed it.
	SystemID string `json:"system_id,omitempty" yaml:"system_id,omitempty"`
}

// Neighbor is one adjacency from "show isis neighbor detail".
type Neighbor struct {
	Interface string `json:"interface" yaml:"interface"`
	Level     string `json:"level" yaml:"level"`
	State     string `json:"state" yaml:"state"`
	Expires   int    `json:"expires" yaml:"expires"`
}

// LSP is one entry of "show isis database".
type LSP struct {
	PDULen    int    `json:"pdulen" yaml:"pdulen"`
	SeqNum    uint32 `json:"seqnum" yaml:"seqnum"`
	Checksum  uint16 `json:"chksum" yaml:"chksum"`
	Holdtime  int    `json:"holdtime" yaml:"holdtime"`
	Local     bool   `json:"local" yaml:"local"`
	Attached  bool   `json:"attached,omitempty" yaml:"attached,omitempty"`
	Partition bool   `json:"partition,omitempty" yaml:"partition,omitempty"`
	Overload  bool   `json:"overload,omitempty" yaml:"overload,omitempty"`
}

// Routes holds the IPv4 and IPv6 routes of one area keyed by prefix.
type Routes struct {
	IPv4 map[string]Route `json:"ipv4" yaml:"ipv4"`
	IPv6 map[string]Route `json:"ipv6" yaml:"ipv6"`
}

// Route is one entry of "show isis route".
type Route struct {
	Metric    int    `json:"metric" yaml:"metric"`
	Interface string `json:"interface" yaml:"interface"`
	Nexthop   string `json:"nexthop" yaml:"nexthop"`
}

// LSPIDs returns the sorted LSPIDs in the database of instance.
func (f *Facts) LSPIDs(instance string) []string {
	var ids []string
	for id := range f.Database[instance] {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// UpNeighbors returns the names of neighbors of instance that are in the
// Up state, optionally restricted to one interface.
func (f *Facts) UpNeighbors(instance, intf string) []string {
	var names []string
	for name, n := range f.Neighbors[instance] {
		if n.State != "Up" {
			continue
		}
		if intf != "" && n.Interface != intf {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Outputs holds the raw text of the show commands Parse consumes.
type Outputs struct {
	Neighbors string
	Database  string
	Route     string
	Hostname  string
}

// Parse builds Facts from captured command outputs.
func Parse(o Outputs) (*Facts, error) {
	var err error
	f := &Facts{}
	if f.Neighbors, err = ParseNeighbors(o.Neighbors); err != nil {
		return nil, fmt.Errorf("parsing neighbors: %w", err)
	}
	if f.Database, err = ParseDatabase(o.Database); err != nil {
		return nil, fmt.Errorf("parsing database: %w", err)
	}
	if f.Route, err = ParseRoutes(o.Route); err != nil {
		return nil, fmt.Errorf("parsing routes: %w", err)
	}
	f.Hostname, f.SystemID = ParseHostnames(o.Hostname)
	return f, nil
}

// Capture runs the show commands Parse consumes. It fails with
// vtysh.ErrNotFRR when the device does not run FRRouting.
func Capture(ctx context.Context, c *vtysh.Client) (Outputs, error) {
	var o Outputs
	if err := c.CheckFRR(ctx); err != nil {
		return o, err
	}
	for _, cmd := range []struct {
		sub string
		dst *string
	}{
		{"neighbor detail", &o.Neighbors},
		{"database", &o.Database},
		{"route", &o.Route},
		{"hostname", &o.Hostname},
	} {
		out, err := c.Show(ctx, cmd.sub)
		if err != nil {
			return o, err
		}
		*cmd.dst = out
	}
	return o, nil
}

// Collect captures and parses the IS-IS facts of a device.
func Collect(ctx context.Context, c *vtysh.Client) (*Facts, error) {
	o, err := Capture(ctx, c)
	if err != nil {
		return nil, err
	}
	f, err := Parse(o)
	if err != nil {
		return nil, fmt.Errorf("%s: cannot correctly parse ISIS facts: %w", c.Name(), err)
	}
	log.Infof("%s: collected IS-IS facts: %d areas, %d hostnames", c.Name(), len(f.Database), len(f.Hostname))
	return f, nil
}
