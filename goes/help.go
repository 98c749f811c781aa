// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package goes

import "fmt"

type helper interface {
	Help(...string) string
}

// Help returns the named command's help, its usage if it has none, or this
// program's usage.
func (g *Goes) Help(args ...string) string {
	if len(args) == 0 {
		return Usage(g)
	}
	v, found := g.ByName[args[0]]
	if !found {
		return Usage(g)
	}
	if method, found := v.(helper); found {
		return method.Help(args[1:]...)
	}
	return Usage(v)
}

func (g *Goes) help(args ...string) error {
	if h := g.Help(args...); len(h) > 0 {
		fmt.Fprintln(g.out(), h)
	}
	return nil
}
