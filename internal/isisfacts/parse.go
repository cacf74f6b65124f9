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

package isisfacts

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	areaRE = regexp.MustCompile(`^Area (.*):`)

	nbrRE      = regexp.MustCompile(`^\s(\S+)`)
	nbrStateRE = regexp.MustCompile(`^\s+Interface: ([^,\s]+), Level: ([12]), State: (\w+), Expires in (\d+)s`)

	// LSP ID, optional local marker, PduLen, SeqNumber, Chksum, Holdtime,
	// ATT/P/OL.
	lspRE = regexp.MustCompile(`^(\S{1,14}\.[0-9]{2}-[0-9]{2})\b(\s+\*?\s+)(\d+)\s+0x([0-9a-f]{8})\s+0x([0-9a-f]{4})\s+(\d+)(?:\s+([01])/([01])/([01]))?`)

	v4RouteRE = regexp.MustCompile(`^\s*(\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}/\d+)\s+(\d+)\s+(\S+)\s+(\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})`)
	v6RouteRE = regexp.MustCompile(`^\s*([0-9a-fA-F:]+/\d+)\s+(\d+)\s+(\S+)\s+([0-9a-fA-F:\-]+)`)

	hostnameRE = regexp.MustCompile(`^\s*([12*])\s+([0-9a-fA-F]{4}\.[0-9a-fA-F]{4}\.[0-9a-fA-F]{4})\s+(\S+)`)
)

// splitAreas groups the lines following each "Area <name>:" header.
// Lines before the first header are dropped.
func splitAreas(out string) (names []string, areas map[string][]string) {
	areas = map[string][]string{}
	area := ""
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if m := areaRE.FindStringSubmatch(line); m != nil {
			area = m[1]
			if _, ok := areas[area]; !ok {
				names = append(names, area)
			}
			areas[area] = []string{}
			continue
		}
		if area != "" {
			areas[area] = append(areas[area], line)
		}
	}
	return names, areas
}

// ParseNeighbors parses "show isis neighbor detail".
func ParseNeighbors(out string) (map[string]map[string]Neighbor, error) {
	names, areas := splitAreas(out)
	res := make(map[string]map[string]Neighbor, len(names))
	for _, area := range names {
		nbrs := map[string]Neighbor{}
		cur := ""
		for _, line := range areas[area] {
			if m := nbrRE.FindStringSubmatch(line); m != nil {
				cur = m[1]
				nbrs[cur] = Neighbor{}
				continue
			}
			m := nbrStateRE.FindStringSubmatch(line)
			if m == nil || cur == "" {
				continue
			}
			exp, err := strconv.Atoi(m[4])
			if err != nil {
				return nil, err
			}
			nbrs[cur] = Neighbor{Interface: m[1], Level: m[2], State: m[3], Expires: exp}
		}
		res[area] = nbrs
	}
	return res, nil
}

// ParseDatabase parses "show isis database".
func ParseDatabase(out string) (map[string]map[string]LSP, error) {
	names, areas := splitAreas(out)
	res := make(map[string]map[string]LSP, len(names))
	for _, area := range names {
		db := map[string]LSP{}
		for _, line := range areas[area] {
			m := lspRE.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			pdulen, err := strconv.Atoi(m[3])
			if err != nil {
				return nil, err
			}
			seq, err := strconv.ParseUint(m[4], 16, 32)
			if err != nil {
				return nil, err
			}
			sum, err := strconv.ParseUint(m[5], 16, 16)
			if err != nil {
				return nil, err
			}
			hold, err := strconv.Atoi(m[6])
			if err != nil {
				return nil, err
			}
			db[m[1]] = LSP{
				PDULen:    pdulen,
				SeqNum:    uint32(seq),
				Checksum:  uint16(sum),
				Holdtime:  hold,
				Local:     strings.TrimSpace(m[2]) == "*",
				Attached:  m[7] == "1",
				Partition: m[8] == "1",
				Overload:  m[9] == "1",
			}
		}
		res[area] = db
	}
	return res, nil
}

// ParseRoutes parses "show isis route".
func ParseRoutes(out string) (map[string]Routes, error) {
	names, areas := splitAreas(out)
	res := make(map[string]Routes, len(names))
	for _, area := range names {
		r := Routes{IPv4: map[string]Route{}, IPv6: map[string]Route{}}
		for _, line := range areas[area] {
			if strings.TrimSpace(line) == "" {
				continue
			}
			dst := r.IPv4
			m := v4RouteRE.FindStringSubmatch(line)
			if m == nil {
				dst = r.IPv6
				if m = v6RouteRE.FindStringSubmatch(line); m == nil {
					continue
				}
			}
			metric, err := strconv.Atoi(m[2])
			if err != nil {
				return nil, err
			}
			dst[m[1]] = Route{Metric: metric, Interface: m[3], Nexthop: m[4]}
		}
		res[area] = r
	}
	return res, nil
}

// ParseHostnames parses "show isis hostname" into a map of system id to
// hostname, and returns the local system id (the entry marked "*").
func ParseHostnames(out string) (hostnames map[string]string, local string) {
	hostnames = map[string]string{}
	for _, line := range strings.Split(out, "\n") {
		m := hostnameRE.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		hostnames[m[2]] = m[3]
		if m[1] == "*" {
			local = m[2]
		}
	}
	return hostnames, local
}
