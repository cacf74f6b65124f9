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

// Package lspid handles IS-IS link state PDU identifiers as printed by
// FRRouting, e.g. "vlab-03.00-00" or "1002.5000.0105.00-01".
//
// The source part is either the system id of the originator or, when
// dynamic hostname resolution succeeded, its hostname truncated to
// MaxHostnameLen characters.
package lspid

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MaxHostnameLen is the longest hostname FRRouting prints in an LSPID.
const MaxHostnameLen = 14

// ErrInvalid is returned by Parse for malformed identifiers.
var ErrInvalid = errors.New("invalid LSPID")

// ID is a parsed LSPID.
type ID struct {
	Source     string
	Pseudonode uint8
	Fragment   uint8
}

// String formats the ID the way FRRouting prints it.
func (id ID) String() string {
	return fmt.Sprintf("%s.%02x-%02x", id.Source, id.Pseudonode, id.Fragment)
}

// Parse splits s into its source, pseudonode and fragment parts.
func Parse(s string) (ID, error) {
	dot := strings.LastIndexByte(s, '.')
	if dot <= 0 || len(s)-dot != len(".00-00") || s[dot+3] != '-' {
		return ID{}, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	pn, err := strconv.ParseUint(s[dot+1:dot+3], 16, 8)
	if err != nil {
		return ID{}, fmt.Errorf("%w: %q: bad pseudonode", ErrInvalid, s)
	}
	frag, err := strconv.ParseUint(s[dot+4:], 16, 8)
	if err != nil {
		return ID{}, fmt.Errorf("%w: %q: bad fragment", ErrInvalid, s)
	}
	return ID{Source: s[:dot], Pseudonode: uint8(pn), Fragment: uint8(frag)}, nil
}

// TruncateHostname drops everything past MaxHostnameLen characters.
func TruncateHostname(hostname string) string {
	r := []rune(hostname)
	if len(r) <= MaxHostnameLen {
		return hostname
	}
	return string(r[:MaxHostnameLen])
}

// HostnamePattern matches LSPIDs that start with the truncated hostname
// followed by a ".NN-NN" suffix. Anything after the suffix is ignored.
func HostnamePattern(hostname string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(TruncateHostname(hostname)) + `\.\d{2}-\d{2}`)
}

// MatchHostname reports whether id was originated by hostname.
func MatchHostname(id, hostname string) bool {
	return HostnamePattern(hostname).MatchString(id)
}
