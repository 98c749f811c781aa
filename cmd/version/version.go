// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package version

import (
	"fmt"
	"io"
	"os"

	"github.com/platinasystems/flags"

	"github.com/platinasystems/scd/internal/buildinfo"
	"github.com/platinasystems/scd/lang"
	"github.com/platinasystems/scd/scd"
)

type Command struct {
	// V is printed for devel builds.
	V    string
	Open func() (*scd.Device, error)
	W    io.Writer
}

func (*Command) String() string { return "version" }
func (*Command) Usage() string  { return "[show ]version [-scd]" }

func (*Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "print goes-scd and SCD firmware versions",
	}
}

func (c *Command) Main(args ...string) error {
	flag, args := flags.New(args, "-scd")
	if len(args) > 0 {
		return fmt.Errorf("%v: unexpected", args)
	}
	w := c.W
	if w == nil {
		w = os.Stdout
	}
	bi := buildinfo.New()
	ver := bi.Version()
	if len(c.V) > 0 && (ver == "(devel)" || ver == buildinfo.Unavailable) {
		ver = c.V
	}
	if rev := bi.Setting("vcs.revision"); len(rev) > 0 {
		ver += " " + rev
	}
	fmt.Fprintln(w, ver)
	if !flag.ByName["-scd"] {
		return nil
	}
	d, err := c.Open()
	if err != nil {
		return err
	}
	for _, p := range d.Inventory().Programmables() {
		v, err := p.Version()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s 0x%x\n", p.Name(), v)
	}
	return nil
}
