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

// Package args define arguments for testing that depend on the available components
// and their naming on the device, if they cannot be enumerated easily from the device.
// Having these arguments at the project level help us run the whole suite of tests
// without defining them per test.
package args

import (
	"flag"
	"time"
)

// Global test flags.
var (
	ISISInstance         = flag.String("arg_isis_instance", "test", "The IS-IS instance (FRRouting area tag) configured on the devices and used to index the link-state database.")
	ISISArea             = flag.String("arg_isis_area", "49.0001", "The IS-IS area address used to build the NET of every device.")
	VTYSHCommand         = flag.String("arg_vtysh_command", "docker exec -i bgp vtysh", "The shell command used to reach vtysh on the devices. SONiC runs FRRouting in the bgp container.")
	ISISConvergenceTime  = flag.Duration("arg_isis_convergence_time", 2*time.Minute, "Upper bound on the time IS-IS takes to form adjacencies and flood LSPs after a configuration change.")
	CheckSystemHostname  = flag.Bool("arg_check_system_hostname", false, "Also compare the resolved IS-IS hostname with the neighbor's /system/state/hostname over gNMI. Requires OpenConfig system state support.")
	SaveISISFactsOnError = flag.Bool("arg_save_isis_facts_on_error", true, "Write the collected IS-IS facts as a test output when a check fails.")
)
