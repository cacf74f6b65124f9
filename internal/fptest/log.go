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

package fptest

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"
	"unicode"

	"github.com/kr/pretty"
)

// sanitizeFilename keeps letters, digits, and safe punctuations, but removes
// unsafe punctuations and other characters.
func sanitizeFilename(filename string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		switch r {
		case '+', ',', '-', '.', ':', ';', '=', '^', '|', '~':
			return r
		case '(', ')', '<', '>', '[', ']', '{', '}':
			return r
		case ' ', '/', '_':
			return '_'
		default:
			return -1 // drop
		}
	}, filename)
}

// outputsDir is the path to the undeclared test outputs directory;
// see Bazel Test Encyclopedia.
// https://docs.bazel.build/versions/main/test-encyclopedia.html
var outputsDir = os.Getenv("TEST_UNDECLARED_OUTPUTS_DIR")

// WriteOutput writes content to a file in the undeclared test outputs,
// after sanitizing the filename and making it unique. It returns the path
// of the file, or "" when no outputs directory is set.
func WriteOutput(filename, suffix string, content string) (string, error) {
	if outputsDir == "" {
		return "", nil
	}
	template := fmt.Sprintf(
		"%s.%s%s%s",
		sanitizeFilename(filename),
		time.Now().Format("03:04:05"), // order by time to help discovery.
		".*",                          // randomize for os.CreateTemp()
		suffix)
	f, err := os.CreateTemp(outputsDir, template)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := f.Write([]byte(content)); err != nil {
		return "", err
	}
	return f.Name(), nil
}

// LogJSON logs v in a human readable form and writes a copy to a *.json
// file in the directory specified by the TEST_UNDECLARED_OUTPUTS_DIR
// environment variable.
func LogJSON(t testing.TB, what string, v any) {
	t.Helper()
	t.Logf("%s:\n%# v", what, pretty.Formatter(v))
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Logf("Cannot marshal %s: %v", what, err)
		return
	}
	path, err := WriteOutput(t.Name()+" "+what, ".json", string(b))
	switch {
	case err != nil:
		t.Logf("Cannot write %s: %v", what, err)
	case path != "":
		t.Logf("Wrote %s to %s", what, path)
	}
}
