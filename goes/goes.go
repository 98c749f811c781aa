// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package goes dispatches a named command from a map of commands, with the
// apropos, complete, help, man and usage helpers built in.
package goes

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/platinasystems/flags"
	"github.com/platinasystems/log"

	"github.com/platinasystems/scd/cmd"
	"github.com/platinasystems/scd/lang"
)

type Goes struct {
	NAME    string
	USAGE   string
	APROPOS lang.Alt
	MAN     lang.Alt
	ByName  map[string]cmd.Cmd
	// Helper output, os.Stdout if nil.
	W io.Writer

	cache cache
}

func (g *Goes) String() string { return g.NAME }

func (g *Goes) out() io.Writer {
	if g.W == nil {
		return os.Stdout
	}
	return g.W
}

// Main runs the args[0] command. An unknown args[0] that names this
// program, e.g. os.Args[0], is dropped first.
//
// If the args has "-h", "-help", or "--help", this prints the command
// usage. Similarly "COMMAND -apropos", "-man", "-usage" and "-complete"
// run that helper for COMMAND.
func (g *Goes) Main(args ...string) error {
	if len(args) > 0 && g.isProg(args[0]) {
		args = args[1:]
	}
	if len(args) == 0 {
		return g.help()
	}
	cmd.Swap(args)
	name := args[0]
	args = args[1:]
	flag, args := flags.New(args, []string{"-h", "-help", "--help"})
	if flag.ByName["-h"] {
		return g.help(append([]string{name}, args...)...)
	}
	if f, found := g.Builtins()[name]; found {
		return f(args...)
	}
	v, found := g.ByName[name]
	if !found {
		return fmt.Errorf("%s: command not found", name)
	}
	if cmd.WhatKind(v).IsMutating() {
		log.Print("note", strings.Join(append([]string{g.NAME, name},
			args...), " "))
	}
	if err := v.Main(args...); err != nil {
		return fmt.Errorf("%s: %v", name, err)
	}
	return nil
}

func (g *Goes) isProg(arg string) bool {
	if _, found := g.ByName[arg]; found {
		return false
	}
	if _, found := g.Builtins()[arg]; found {
		return false
	}
	base := filepath.Base(arg)
	return base == g.NAME || base == filepath.Base(os.Args[0])
}
