// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package cmd defines what the goes dispatcher expects of a command.
package cmd

import (
	"strings"

	"github.com/platinasystems/scd/lang"
)

// Helpers are the dispatcher builtins that may also be given as a
// hyphenated flag after the command name.
var Helpers = []string{"apropos", "complete", "help", "man", "usage"}

// IsHelper reports whether arg is -HELPER or --HELPER and returns HELPER.
func IsHelper(arg string) (string, bool) {
	if !strings.HasPrefix(arg, "-") {
		return "", false
	}
	opt := strings.TrimLeft(arg, "-")
	for _, h := range Helpers {
		if opt == h {
			return h, true
		}
	}
	return "", false
}

// Swap rewrites "COMMAND -HELPER ARGS..." as "HELPER COMMAND ARGS..." and
// "-HELPER ARGS..." as "HELPER ARGS..." in place.
func Swap(args []string) {
	if len(args) == 0 {
		return
	}
	if h, ok := IsHelper(args[0]); ok {
		args[0] = h
		return
	}
	if len(args) > 1 {
		if h, ok := IsHelper(args[1]); ok {
			args[0], args[1] = h, args[0]
		}
	}
}

type Cmd interface {
	Apropos() lang.Alt
	Main(...string) error
	// String returns the command name.
	String() string
	Usage() string
	/* Optional
	Complete(...string) []string
	Help(...string) string
	Kind() Kind
	Man() lang.Alt
	*/
}
