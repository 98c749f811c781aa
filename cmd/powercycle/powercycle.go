// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package powercycle

import (
	"fmt"

	"github.com/platinasystems/flags"

	"github.com/platinasystems/scd/cmd"
	"github.com/platinasystems/scd/internal/hwerr"
	"github.com/platinasystems/scd/lang"
	"github.com/platinasystems/scd/scd"
)

type Command struct {
	Open func() (*scd.Device, error)
}

func (*Command) String() string { return "powercycle" }

func (*Command) Usage() string { return "powercycle -f" }

func (*Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "cut and restore system power",
	}
}

func (*Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Power cycle the system through the first SCD power cycle register
	that takes the write. The -f flag is required.`,
	}
}

func (*Command) Kind() cmd.Kind { return cmd.Mutating }

func (c *Command) Main(args ...string) error {
	flag, args := flags.New(args, "-f")
	if len(args) > 0 {
		return fmt.Errorf("%v: unexpected", args)
	}
	if !flag.ByName["-f"] {
		return fmt.Errorf("won't power cycle without -f")
	}
	d, err := c.Open()
	if err != nil {
		return err
	}
	pcs := d.Inventory().PowerCycles()
	if len(pcs) == 0 {
		return hwerr.Config("%s: no powercycle", d)
	}
	for _, pc := range pcs {
		if pc.Trigger() {
			return nil
		}
	}
	return hwerr.Io(nil, "%s: powercycle failed", d)
}
