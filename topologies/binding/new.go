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

// Package binding selects the Ondatra binding the feature tests run
// against: a vendor plugin or a KNE topology.
package binding

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"plugin"
	"sort"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/openconfig/ondatra"
	"github.com/openconfig/ondatra/binding"
	"github.com/openconfig/ondatra/knebind"
	knecreds "github.com/openconfig/ondatra/knebind/creds"
	opb "github.com/openconfig/ondatra/proto"
	"github.com/sonic-net/wanprofiles/internal/args"
)

var (
	pluginFile   = flag.String("plugin", "", "vendor binding as a Go plugin")
	pluginArgs   = flag.String("plugin-args", "", "arguments for the vendor binding")
	kneConfig    = flag.String("kne-config", "", "YAML configuration file")
	kneTopo      = flag.String("kne-topo", "", "KNE topology file")
	kneSkipReset = flag.Bool("kne-skip-reset", false, "skip the initial config reset phase when using KNE")
	credFlags    = knecreds.DefineFlags()
)

// New creates a new binding that could be either a vendor plugin or a KNE
// topology. This depends on the command line flags given.
//
// The vendor plugin should be a "package main" with a New function
// that will receive the value of the --plugin-args flag as a string.
//
//	package main
//
//	import "github.com/openconfig/ondatra/binding"
//
//	func New(arg string) (binding.Binding, error) {
//	  ...
//	}
//
// And the plugin should be built with:
//
//	go build -buildmode=plugin
//
// For more detail about how to write a plugin, see: https://pkg.go.dev/plugin
func New() (binding.Binding, error) {
	b, err := newBind()
	if err != nil {
		return nil, err
	}
	return &reportBind{Binding: b}, nil
}

func newBind() (binding.Binding, error) {
	if *pluginFile != "" {
		return loadBinding(*pluginFile, *pluginArgs)
	}
	if *kneTopo != "" {
		cred, err := credFlags.Parse()
		if err != nil {
			return nil, err
		}
		return knebind.New(&knebind.Config{
			Topology:    *kneTopo,
			Credentials: cred,
			SkipReset:   *kneSkipReset,
		})
	}
	if *kneConfig != "" {
		glog.Warning("-kne-config flag is deprecated; use -kne-topo and credentials flags instead")
		cfg, err := knebind.ParseConfigFile(*kneConfig)
		if err != nil {
			return nil, err
		}
		return knebind.New(cfg)
	}
	return nil, errors.New("one of -plugin or -kne-topo must be provided")
}

// NewFunc describes the type of the New function that a vendor
// binding plugin should provide.
type NewFunc func(arg string) (binding.Binding, error)

// loadBinding loads a binding from a plugin.
func loadBinding(path, args string) (binding.Binding, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, err
	}
	newVal, err := p.Lookup("New")
	if err != nil {
		return nil, err
	}
	newFn, ok := newVal.(NewFunc)
	if !ok {
		return nil, fmt.Errorf("func New() has the wrong type %T from plugin: %s", newVal, path)
	}
	return newFn(args)
}

// reportBind wraps an Ondatra binding to report the testbed and the IS-IS
// settings of the run as suite properties.
type reportBind struct {
	binding.Binding
}

func (b *reportBind) Reserve(ctx context.Context, tb *opb.Testbed, runTime, waitTime time.Duration, partial map[string]string) (*binding.Reservation, error) {
	resv, err := b.Binding.Reserve(ctx, tb, runTime, waitTime, partial)
	if err != nil {
		return nil, err
	}
	addProperties(resv)
	return resv, nil
}

func (b *reportBind) FetchReservation(ctx context.Context, id string) (*binding.Reservation, error) {
	resv, err := b.Binding.FetchReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	addProperties(resv)
	return resv, nil
}

func addProperties(resv *binding.Reservation) {
	for k, v := range properties(resv) {
		ondatra.Report().AddSuiteProperty(k, v)
	}
}

// properties builds the suite properties of a reservation.
func properties(resv *binding.Reservation) map[string]string {
	m := map[string]string{
		"isis.instance": *args.ISISInstance,
		"isis.area":     *args.ISISArea,
		"vtysh.command": *args.VTYSHCommand,
		"isis.converge": args.ISISConvergenceTime.String(),
	}
	if resv != nil {
		m["topology"] = topology(resv)
	}
	return m
}

// topology summarizes the reservation as a comma separated list of
// devices and their number of ports, ordered by device ID, e.g.
// "dut1:1,dut2:1".
func topology(resv *binding.Reservation) string {
	var names []string
	ports := map[string]int{}
	for name, dut := range resv.DUTs {
		ports[name] = len(dut.Ports())
		names = append(names, name)
	}
	for name, ate := range resv.ATEs {
		ports[name] = len(ate.Ports())
		names = append(names, name)
	}
	sort.Strings(names)
	var parts []string
	for _, n := range names {
		parts = append(parts, fmt.Sprintf("%s:%d", n, ports[n]))
	}
	return strings.Join(parts, ",")
}
