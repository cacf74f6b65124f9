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
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sonic-net/wanprofiles/internal/dynhostname"
	"github.com/sonic-net/wanprofiles/internal/isisfacts"
	"gopkg.in/yaml.v3"
)

var wantHostnames = map[string]string{
	"1002.5000.0052": "ARISTA02T1",
	"1002.5000.0105": "vlab-03",
	"1002.5000.0100": "vlab-01",
}

func TestRunParse(t *testing.T) {
	tests := []struct {
		format string
		decode func([]byte) (*isisfacts.Facts, error)
	}{{
		format: "json",
		decode: func(b []byte) (*isisfacts.Facts, error) {
			f := &isisfacts.Facts{}
			return f, json.Unmarshal(b, f)
		},
	}, {
		format: "yaml",
		decode: func(b []byte) (*isisfacts.Facts, error) {
			f := &isisfacts.Facts{}
			return f, yaml.Unmarshal(b, f)
		},
	}}
	for _, tc := range tests {
		t.Run(tc.format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := runParse(&buf, "testdata", tc.format); err != nil {
				t.Fatalf("runParse got error: %v", err)
			}
			f, err := tc.decode(buf.Bytes())
			if err != nil {
				t.Fatalf("cannot decode %s output: %v\n%s", tc.format, err, buf.String())
			}
			if diff := cmp.Diff(wantHostnames, f.Hostname); diff != "" {
				t.Errorf("Hostname -want, +got:\n%s", diff)
			}
			if diff := cmp.Diff([]string{"ARISTA02T1.00-00", "vlab-01.00-00", "vlab-03.00-00"}, f.LSPIDs("test")); diff != "" {
				t.Errorf("LSPIDs -want, +got:\n%s", diff)
			}
			if got := f.Database["test"]["vlab-03.00-00"]; !got.Overload {
				t.Errorf("vlab-03.00-00 got %+v, want the overload bit set", got)
			}
		})
	}
}

func TestRunParsePretty(t *testing.T) {
	var buf bytes.Buffer
	if err := runParse(&buf, "testdata", "pretty"); err != nil {
		t.Fatalf("runParse got error: %v", err)
	}
	if !strings.Contains(buf.String(), `"vlab-03"`) {
		t.Errorf("runParse pretty output lacks the vlab-03 hostname:\n%s", buf.String())
	}
}

func TestRunParseErrors(t *testing.T) {
	if err := runParse(&bytes.Buffer{}, "testdata", "xml"); err == nil {
		t.Errorf("runParse got nil error for an unknown format")
	}
	if err := runParse(&bytes.Buffer{}, t.TempDir(), "json"); err == nil {
		t.Errorf("runParse got nil error for a directory without outputs")
	}
}

func TestSaveOutputs(t *testing.T) {
	want, err := readOutputs("testdata")
	if err != nil {
		t.Fatalf("readOutputs got error: %v", err)
	}
	dir := t.TempDir() + "/vlab-01"
	if err := saveOutputs(dir, want); err != nil {
		t.Fatalf("saveOutputs got error: %v", err)
	}
	got, err := readOutputs(dir)
	if err != nil {
		t.Fatalf("readOutputs got error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("saved outputs -want, +got:\n%s", diff)
	}
}

func TestRunCheck(t *testing.T) {
	var buf bytes.Buffer
	if err := runCheck(&buf, "testdata", "test", "1002.5000.0105"); err != nil {
		t.Fatalf("runCheck got error: %v", err)
	}
	if want := "1002.5000.0105 resolves to vlab-03 in the LSPIDs of test\n"; buf.String() != want {
		t.Errorf("runCheck printed %q, want %q", buf.String(), want)
	}

	var netErr *dynhostname.NetNotFoundError
	if err := runCheck(&buf, "testdata", "test", "1002.5000.0199"); !errors.As(err, &netErr) {
		t.Errorf("runCheck got error %v, want *NetNotFoundError", err)
	}
	var lspErr *dynhostname.LSPIDNotFoundError
	if err := runCheck(&buf, "testdata", "other", "1002.5000.0105"); !errors.As(err, &lspErr) {
		t.Errorf("runCheck got error %v, want *LSPIDNotFoundError", err)
	}
	if err := runCheck(&buf, "testdata", "test", ""); err == nil {
		t.Errorf("runCheck got nil error without a system id")
	}
}

func TestCheckCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"check", "--instance", "test", "--system-id", "1002.5000.0105", "testdata"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("isisfacts check got error: %v", err)
	}
	if !strings.Contains(buf.String(), "vlab-03") {
		t.Errorf("isisfacts check printed %q, want it to name vlab-03", buf.String())
	}
}
