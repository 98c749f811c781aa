// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package goes

import (
	"sort"
	"sync"

	"github.com/platinasystems/scd/cmd"
)

type cache struct {
	sync.Mutex

	builtins map[string]func(...string) error
	names    []string
}

func (g *Goes) Builtins() map[string]func(...string) error {
	g.cache.Lock()
	defer g.cache.Unlock()
	if len(g.cache.builtins) == 0 {
		g.cache.builtins = map[string]func(...string) error{
			"apropos":  g.apropos,
			"complete": g.complete,
			"help":     g.help,
			"man":      g.man,
			"usage":    g.usage,
		}
	}
	return g.cache.builtins
}

// Names returns the sorted names of commands that aren't hidden.
func (g *Goes) Names() []string {
	g.cache.Lock()
	defer g.cache.Unlock()
	if g.cache.names == nil {
		g.cache.names = make([]string, 0, len(g.ByName))
		for k, v := range g.ByName {
			if !cmd.WhatKind(v).IsHidden() {
				g.cache.names = append(g.cache.names, k)
			}
		}
		sort.Strings(g.cache.names)
	}
	return g.cache.names
}
