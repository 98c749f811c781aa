// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package kmod checks and loads Linux kernel modules.
package kmod

import (
	"bufio"
	"os"
	"os/exec"
	"strings"

	"github.com/platinasystems/log"

	"github.com/platinasystems/scd/internal/hwerr"
)

const ProcModules = "/proc/modules"

type Module struct {
	Name string
	Args []string
	// Defaults to ProcModules.
	Proc string
	// In simulation nothing is loaded, only logged.
	Simulation bool
	// Defaults to modprobe; tests replace it.
	Modprobe string
}

func (m *Module) proc() string {
	if len(m.Proc) > 0 {
		return m.Proc
	}
	return ProcModules
}

// Loaded reports whether the module is listed in /proc/modules. Dashes and
// underscores are equivalent in module names.
func (m *Module) Loaded() (bool, error) {
	if m.Simulation {
		return true, nil
	}
	f, err := os.Open(m.proc())
	if err != nil {
		return false, hwerr.Io(err, "open %s", m.proc())
	}
	defer f.Close()
	want := canonical(m.Name)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		x := strings.Fields(scanner.Text())
		if len(x) > 0 && canonical(x[0]) == want {
			return true, nil
		}
	}
	if err = scanner.Err(); err != nil {
		return false, hwerr.Io(err, "read %s", m.proc())
	}
	return false, nil
}

// Load runs modprobe unless the module is already loaded.
func (m *Module) Load() error {
	if m.Simulation {
		log.Print("debug", "modprobe ", m.Name, " (simulated)")
		return nil
	}
	if loaded, err := m.Loaded(); err != nil {
		return err
	} else if loaded {
		return nil
	}
	prog := m.Modprobe
	if len(prog) == 0 {
		prog = "modprobe"
	}
	args := append([]string{m.Name}, m.Args...)
	log.Print("info", prog, " ", strings.Join(args, " "))
	out, err := exec.Command(prog, args...).CombinedOutput()
	if err != nil {
		return hwerr.Io(err, "%s %s: %s", prog, m.Name,
			strings.TrimSpace(string(out)))
	}
	return nil
}

func canonical(name string) string {
	return strings.Replace(name, "-", "_", -1)
}
