// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package buildinfo reports the module version and vcs stamp the binary was
// built with.
package buildinfo

import (
	"fmt"
	"io"
	"runtime/debug"
)

const Unavailable = "(unavailable)"

type BuildInfo struct {
	*debug.BuildInfo
}

func New() BuildInfo {
	if bi, ok := debug.ReadBuildInfo(); ok {
		return BuildInfo{bi}
	}
	return BuildInfo{}
}

// Format prints the main module then each dependency on its own indented
// line.
func (bi BuildInfo) Format(f fmt.State, c rune) {
	if bi.BuildInfo == nil {
		io.WriteString(f, Unavailable)
		return
	}
	modinfo(f, &bi.Main)
	for _, dep := range bi.Deps {
		io.WriteString(f, "\n\t")
		modinfo(f, dep)
	}
}

func (bi BuildInfo) Version() string {
	if bi.BuildInfo == nil {
		return Unavailable
	}
	return bi.Main.Version
}

// Setting returns a build setting such as vcs.revision, or empty.
func (bi BuildInfo) Setting(key string) string {
	if bi.BuildInfo == nil {
		return ""
	}
	for _, s := range bi.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}

func modinfo(w io.Writer, m *debug.Module) {
	io.WriteString(w, m.Path)
	if m.Replace != nil {
		io.WriteString(w, "=")
		io.WriteString(w, m.Replace.Path)
		if len(m.Replace.Version) > 0 {
			io.WriteString(w, "@")
			io.WriteString(w, m.Replace.Version)
		}
		return
	}
	io.WriteString(w, "@")
	io.WriteString(w, m.Version)
}
