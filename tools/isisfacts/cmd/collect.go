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
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/golang/glog"
	closer "github.com/openconfig/gocloser"
	"github.com/sonic-net/wanprofiles/internal/isisfacts"
	"github.com/sonic-net/wanprofiles/internal/vtysh"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect the IS-IS facts of a device over SSH",
	Long: `collect connects to a device over SSH, checks that it runs FRRouting
and prints its IS-IS facts. With --save-dir the raw vtysh outputs are also
saved, so that they can be fed to the parse and check commands later.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), viper.GetDuration("timeout"))
		defer cancel()

		target := viper.GetString("target")
		if target == "" {
			return errors.New("a target is required, set --target or ISISFACTS_TARGET")
		}
		r, err := vtysh.DialSSH(ctx, target, viper.GetString("user"), viper.GetString("password"))
		if err != nil {
			return err
		}
		defer closer.CloseAndLog(r.Close, "error closing SSH client")

		c := vtysh.New(target, r, vtysh.WithPrefix(viper.GetString("vtysh-command")))
		o, err := isisfacts.Capture(ctx, c)
		if err != nil {
			return err
		}
		if dir := viper.GetString("save-dir"); dir != "" {
			if err := saveOutputs(dir, o); err != nil {
				return err
			}
			log.Infof("Saved vtysh outputs of %s to %s", target, dir)
		}
		f, err := isisfacts.Parse(o)
		if err != nil {
			return fmt.Errorf("%s: cannot correctly parse ISIS facts: %w", target, err)
		}
		return writeFacts(cmd.OutOrStdout(), viper.GetString("format"), f)
	},
}

func init() {
	rootCmd.AddCommand(collectCmd)

	collectCmd.Flags().StringP("target", "t", "", "device address, host or host:port")
	collectCmd.Flags().StringP("user", "u", "admin", "SSH user")
	collectCmd.Flags().StringP("password", "p", "", "SSH password")
	collectCmd.Flags().String("vtysh-command", vtysh.DefaultPrefix, "shell command reaching vtysh on the device")
	collectCmd.Flags().String("save-dir", "", "directory to save the raw vtysh outputs to")
	collectCmd.Flags().Duration("timeout", time.Minute, "timeout of the whole collection")
	bindFlags(collectCmd.Flags())
}
