// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package goes

import (
	"fmt"
	"io"
	"strings"

	"github.com/platinasystems/scd/cmd"
	"github.com/platinasystems/scd/lang"
)

type maner interface {
	Man() lang.Alt
}

var (
	nameSection = lang.Alt{
		lang.EnUS: "NAME",
		lang.FrFR: "NOM",
	}
	synopsisSection = lang.Alt{
		lang.EnUS: "SYNOPSIS",
	}
)

func (g *Goes) Man() lang.Alt {
	if g.MAN != nil {
		return g.MAN
	}
	return lang.Alt{
		lang.EnUS: `
ENVIRONMENT
	SCD_TOPOLOGY	topology file (default /etc/scd/topology.yaml)
	SCD_SIMULATION	if 1, use an in-memory device

SEE ALSO
	apropos [COMMAND], man COMMAND`,
	}
}

// man prints the page of each named command, stopping at the first unknown
// name after the first; without names it prints this program's page.
func (g *Goes) man(args ...string) error {
	var pages []cmd.Cmd
	for i, name := range args {
		v, found := g.ByName[name]
		if !found {
			if i == 0 {
				return fmt.Errorf("%s: not found", name)
			}
			break
		}
		pages = append(pages, v)
	}
	if len(pages) == 0 {
		pages = append(pages, g)
	}
	w := g.out()
	for i, v := range pages {
		if i > 0 {
			fmt.Fprintln(w)
		}
		page(w, v)
	}
	return nil
}

func page(w io.Writer, v cmd.Cmd) {
	fmt.Fprintf(w, "%s\n\t%s - %s\n\n%s\n\t%s\n", nameSection, v,
		v.Apropos(), synopsisSection, strings.TrimSpace(v.Usage()))
	method, found := v.(maner)
	if !found {
		return
	}
	man := method.Man().String()
	if !strings.HasPrefix(man, "\n") {
		man = "\n" + man
	}
	if !strings.HasSuffix(man, "\n") {
		man += "\n"
	}
	io.WriteString(w, man)
}
