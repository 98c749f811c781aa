// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package goes

import (
	"fmt"
	"sort"
	"strings"
)

type completer interface {
	Complete(...string) []string
}

// Complete returns the candidates for the last of args. A command's own
// Complete method, if any, completes its arguments; a helper completes
// command names.
func (g *Goes) Complete(args ...string) []string {
	switch {
	case len(args) == 0 || len(args[0]) == 0:
		return g.Names()
	case len(args) == 1:
		names := g.matching(args[0], g.Names())
		for name := range g.Builtins() {
			if strings.HasPrefix(name, args[0]) {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		return names
	}
	if v, found := g.ByName[args[0]]; found {
		if method, found := v.(completer); found {
			return method.Complete(args[1:]...)
		}
		return nil
	}
	if _, found := g.Builtins()[args[0]]; found {
		return g.matching(args[len(args)-1], g.Names())
	}
	return nil
}

func (g *Goes) matching(prefix string, names []string) []string {
	var out []string
	for _, name := range names {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	return out
}

// complete prints one candidate per line for bash, e.g.
//
//	_goes_scd() {
//		COMPREPLY=($(goes-scd complete ${COMP_WORDS[@]:1}))
//	}
//	complete -F _goes_scd goes-scd
func (g *Goes) complete(args ...string) error {
	for _, s := range g.Complete(args...) {
		fmt.Fprintln(g.out(), s)
	}
	return nil
}
