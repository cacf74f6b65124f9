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

// Package isisconf stages per-device IS-IS attribute overrides on top of a
// base configuration and pushes the result to FRRouting.
package isisconf

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	log "github.com/golang/glog"
	"github.com/sonic-net/wanprofiles/internal/vtysh"
)

// Attr names an IS-IS attribute that can be overridden.
type Attr string

// Recognized attributes.
const (
	// DynamicHostname controls advertisement of the dynamic hostname TLV.
	DynamicHostname Attr = "dynamic_hostname"
)

// IsType is the IS-IS level capability of a router.
type IsType string

// Level capabilities understood by FRRouting.
const (
	Level1  IsType = "level-1"
	Level12 IsType = "level-1-2"
	Level2  IsType = "level-2-only"
)

var (
	// ErrUnknownDevice is returned for devices without a base config.
	ErrUnknownDevice = errors.New("no IS-IS base config for device")
	// ErrInvalidNET is returned for malformed network entity titles.
	ErrInvalidNET = errors.New("invalid NET")

	netRE = regexp.MustCompile(`^[0-9a-fA-F]{2}(?:\.[0-9a-fA-F]{4}){0,6}\.([0-9a-fA-F]{4}\.[0-9a-fA-F]{4}\.[0-9a-fA-F]{4})\.00$`)
)

// Attrs is a set of attribute overrides. Nil fields are not overridden.
type Attrs struct {
	DynamicHostname *bool
}

// Keys returns the attributes set in a.
func (a Attrs) Keys() []Attr {
	var keys []Attr
	if a.DynamicHostname != nil {
		keys = append(keys, DynamicHostname)
	}
	return keys
}

// merge overlays the attributes set in b onto a.
func (a Attrs) merge(b Attrs) Attrs {
	if b.DynamicHostname != nil {
		v := *b.DynamicHostname
		a.DynamicHostname = &v
	}
	return a
}

// without clears the listed attributes.
func (a Attrs) without(keys ...Attr) Attrs {
	for _, k := range keys {
		switch k {
		case DynamicHostname:
			a.DynamicHostname = nil
		}
	}
	return a
}

// Config is the base IS-IS configuration of one device.
type Config struct {
	// Instance is the FRRouting area tag, e.g. "test".
	Instance string
	// NET is the network entity title, e.g. "49.0001.1002.5000.0105.00".
	NET         string
	IsType      IsType
	MetricStyle string
	Interfaces  []string
}

// Validate checks that c can be rendered.
func (c Config) Validate() error {
	if c.Instance == "" {
		return errors.New("isis: instance must be set")
	}
	if _, err := SystemIDFromNET(c.NET); err != nil {
		return err
	}
	switch c.IsType {
	case "", Level1, Level12, Level2:
	default:
		return fmt.Errorf("isis: invalid is-type %q", c.IsType)
	}
	return nil
}

// SystemIDFromNET extracts the system id from a NET.
func SystemIDFromNET(net string) (string, error) {
	m := netRE.FindStringSubmatch(net)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidNET, net)
	}
	return strings.ToLower(m[1]), nil
}

type device struct {
	base      Config
	overrides Attrs
}

// Store keeps base configs and staged overrides keyed by device name.
type Store struct {
	devs map[string]*device
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{devs: map[string]*device{}}
}

// SetBase sets the base config of a device, keeping staged overrides.
func (s *Store) SetBase(name string, c Config) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if d, ok := s.devs[name]; ok {
		d.base = c
		return nil
	}
	s.devs[name] = &device{base: c}
	return nil
}

func (s *Store) get(name string) (*device, error) {
	d, ok := s.devs[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownDevice)
	}
	return d, nil
}

// Base returns the base config of a device.
func (s *Store) Base(name string) (Config, error) {
	d, err := s.get(name)
	if err != nil {
		return Config{}, err
	}
	return d.base, nil
}

// Add stages attribute overrides for a device. Nothing is sent to the
// device until Push.
func (s *Store) Add(name string, a Attrs) error {
	d, err := s.get(name)
	if err != nil {
		return err
	}
	d.overrides = d.overrides.merge(a)
	return nil
}

// Del removes staged overrides for a device.
func (s *Store) Del(name string, keys ...Attr) error {
	d, err := s.get(name)
	if err != nil {
		return err
	}
	d.overrides = d.overrides.without(keys...)
	return nil
}

// Overrides returns the overrides currently staged for a device.
func (s *Store) Overrides(name string) (Attrs, error) {
	d, err := s.get(name)
	if err != nil {
		return Attrs{}, err
	}
	return d.overrides, nil
}

// SystemID returns the system id configured for a device.
func (s *Store) SystemID(name string) (string, error) {
	d, err := s.get(name)
	if err != nil {
		return "", err
	}
	return SystemIDFromNET(d.base.NET)
}

// Render returns the FRRouting configuration lines of a device.
func (s *Store) Render(name string) ([]string, error) {
	d, err := s.get(name)
	if err != nil {
		return nil, err
	}
	return render(d.base, d.overrides), nil
}

// Push applies the rendered configuration to the device.
func (s *Store) Push(ctx context.Context, c *vtysh.Client) error {
	lines, err := s.Render(c.Name())
	if err != nil {
		return err
	}
	log.Infof("%s: pushing IS-IS config for instance %s", c.Name(), s.devs[c.Name()].base.Instance)
	if err := c.Configure(ctx, lines); err != nil {
		return fmt.Errorf("configuring IS-IS: %w", err)
	}
	return nil
}

func render(c Config, a Attrs) []string {
	lines := []string{
		"router isis " + c.Instance,
		" net " + c.NET,
	}
	if c.IsType != "" {
		lines = append(lines, " is-type "+string(c.IsType))
	}
	if c.MetricStyle != "" {
		lines = append(lines, " metric-style "+c.MetricStyle)
	}
	// Always explicit so that removing an override restores the default.
	if a.DynamicHostname == nil || *a.DynamicHostname {
		lines = append(lines, " hostname dynamic")
	} else {
		lines = append(lines, " no hostname dynamic")
	}
	lines = append(lines, "exit")
	for _, intf := range c.Interfaces {
		lines = append(lines,
			"interface "+intf,
			" ip router isis "+c.Instance,
			" ipv6 router isis "+c.Instance,
			"exit",
		)
	}
	return lines
}
