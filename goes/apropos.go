// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package goes

import (
	"fmt"
	"text/tabwriter"

	"github.com/platinasystems/scd/lang"
)

func (g *Goes) Apropos() lang.Alt {
	if g.APROPOS != nil {
		return g.APROPOS
	}
	return lang.Alt{
		lang.EnUS: "system control device utilities",
	}
}

// apropos lists each named, or every visible, command with its one line
// description. Only the first name has to exist.
func (g *Goes) apropos(args ...string) error {
	if len(args) == 0 {
		args = g.Names()
	} else if _, found := g.ByName[args[0]]; !found {
		return fmt.Errorf("%s: not found", args[0])
	}
	tw := tabwriter.NewWriter(g.out(), 16, 8, 1, ' ', 0)
	for _, name := range args {
		if v, found := g.ByName[name]; found {
			fmt.Fprintf(tw, "%s\t%s\n", name, v.Apropos())
		}
	}
	return tw.Flush()
}
