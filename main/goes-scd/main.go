// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// This is a goes machine for the SCD of the host it runs on. The SCD
// topology is read from $SCD_TOPOLOGY, /etc/scd/topology.yaml by default;
// with SCD_SIMULATION=1 the hardware is simulated.
package main

import (
	"fmt"
	"os"
)

func main() {
	var ecode int
	if err := Goes.Main(os.Args...); err != nil {
		fmt.Fprintln(os.Stderr, err)
		ecode = 1
	}
	os.Exit(ecode)
}
