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
	"errors"
	"fmt"
	"io"

	"github.com/sonic-net/wanprofiles/internal/dynhostname"
	"github.com/sonic-net/wanprofiles/internal/isisfacts"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var checkCmd = &cobra.Command{
	Use:   "check DIR",
	Short: "Check that a neighbor hostname shows up in the LSPIDs",
	Long: `check parses vtysh outputs saved by collect --save-dir and verifies
that the neighbor with the given system id is resolved to a hostname, and
that an LSPID of the instance starts with that hostname truncated to 14
characters.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd.OutOrStdout(), args[0], viper.GetString("instance"), viper.GetString("system-id"))
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringP("system-id", "s", "", "system id of the neighbor, e.g. 1002.5000.0105")
	bindFlags(checkCmd.Flags())
}

func runCheck(w io.Writer, dir, instance, sysID string) error {
	if sysID == "" {
		return errors.New("a system id is required, set --system-id or ISISFACTS_SYSTEM_ID")
	}
	o, err := readOutputs(dir)
	if err != nil {
		return err
	}
	f, err := isisfacts.Parse(o)
	if err != nil {
		return err
	}
	if err := dynhostname.Verify(f, instance, sysID); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s resolves to %s in the LSPIDs of %s\n", sysID, f.Hostname[sysID], instance)
	return err
}
