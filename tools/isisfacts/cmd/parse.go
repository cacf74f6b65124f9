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
	"io"

	"github.com/sonic-net/wanprofiles/internal/isisfacts"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var parseCmd = &cobra.Command{
	Use:   "parse DIR",
	Short: "Parse vtysh outputs saved by collect --save-dir",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runParse(cmd.OutOrStdout(), args[0], viper.GetString("format"))
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(w io.Writer, dir, format string) error {
	o, err := readOutputs(dir)
	if err != nil {
		return err
	}
	f, err := isisfacts.Parse(o)
	if err != nil {
		return err
	}
	return writeFacts(w, format, f)
}
