// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package main

import (
	"github.com/platinasystems/scd/cmd"
	"github.com/platinasystems/scd/cmd/buildinfo"
	"github.com/platinasystems/scd/cmd/dump"
	"github.com/platinasystems/scd/cmd/powercycle"
	"github.com/platinasystems/scd/cmd/publish"
	"github.com/platinasystems/scd/cmd/reg"
	"github.com/platinasystems/scd/cmd/version"
	"github.com/platinasystems/scd/cmd/watchdog"
	"github.com/platinasystems/scd/cmd/xcvr"
	"github.com/platinasystems/scd/goes"
	"github.com/platinasystems/scd/lang"
	"github.com/platinasystems/scd/topology"
)

var open = topology.Opener()

var Goes = &goes.Goes{
	NAME: "goes-scd",
	APROPOS: lang.Alt{
		lang.EnUS: "System Control Device utilities",
	},
	ByName: map[string]cmd.Cmd{
		"buildinfo":  &buildinfo.Command{},
		"dump":       &dump.Command{Open: open},
		"powercycle": &powercycle.Command{Open: open},
		"publish":    &publish.Command{Open: open},
		"reg":        &reg.Command{Open: open},
		"version":    &version.Command{Open: open},
		"watchdog":   &watchdog.Command{Open: open},
		"xcvr":       &xcvr.Command{Open: open},
		"show": &goes.Goes{
			NAME:  "show",
			USAGE: "show OBJECT",
			APROPOS: lang.Alt{
				lang.EnUS: "print SCD state",
			},
			ByName: map[string]cmd.Cmd{
				"buildinfo": &buildinfo.Command{},
				"dump":      &dump.Command{Open: open},
				"version":   &version.Command{Open: open},
				"xcvr":      &xcvr.Command{Open: open},
			},
		},
	},
}
