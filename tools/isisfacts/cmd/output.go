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

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kr/pretty"
	"github.com/sonic-net/wanprofiles/internal/isisfacts"
	"gopkg.in/yaml.v3"
)

// Files a captured device state is saved to, one per show command.
const (
	neighborsFile = "neighbor_detail.txt"
	databaseFile  = "database.txt"
	routeFile     = "route.txt"
	hostnameFile  = "hostname.txt"
)

type outputFile struct {
	name string
	text *string
}

func outputFiles(o *isisfacts.Outputs) []outputFile {
	return []outputFile{
		{neighborsFile, &o.Neighbors},
		{databaseFile, &o.Database},
		{routeFile, &o.Route},
		{hostnameFile, &o.Hostname},
	}
}

// readOutputs loads the show command outputs saved in dir.
func readOutputs(dir string) (isisfacts.Outputs, error) {
	var o isisfacts.Outputs
	for _, f := range outputFiles(&o) {
		b, err := os.ReadFile(filepath.Join(dir, f.name))
		if err != nil {
			return o, fmt.Errorf("cannot read captured output: %w", err)
		}
		*f.text = string(b)
	}
	return o, nil
}

// saveOutputs writes o to dir, creating it if needed.
func saveOutputs(dir string, o isisfacts.Outputs) error {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("cannot create directory %s: %w", dir, err)
	}
	for _, f := range outputFiles(&o) {
		if err := os.WriteFile(filepath.Join(dir, f.name), []byte(*f.text), 0640); err != nil {
			return err
		}
	}
	return nil
}

// writeFacts prints v in the given format.
func writeFacts(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "pretty":
		_, err := pretty.Fprintf(w, "%# v\n", v)
		return err
	}
	return errors.New("unknown output format " + format)
}
