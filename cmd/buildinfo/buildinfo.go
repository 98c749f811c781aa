// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package buildinfo

import (
	"fmt"
	"io"
	"os"

	"github.com/platinasystems/scd/cmd"
	"github.com/platinasystems/scd/internal/buildinfo"
	"github.com/platinasystems/scd/lang"
)

type Command struct {
	W io.Writer
}

func (*Command) String() string { return "buildinfo" }
func (*Command) Usage() string  { return "[show ]buildinfo" }
func (*Command) Kind() cmd.Kind { return cmd.Hidden }

func (*Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "print the goes-scd module and dependency versions",
	}
}

func (c *Command) Main(args ...string) error {
	if len(args) > 0 {
		return fmt.Errorf("%v: unexpected", args)
	}
	w := c.W
	if w == nil {
		w = os.Stdout
	}
	_, err := fmt.Fprintln(w, buildinfo.New())
	return err
}
