// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package scd

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/platinasystems/scd/internal/hwerr"
)

func (d *Device) uioName(reg int, bit uint) string {
	return fmt.Sprintf("uio-%s-%x-%d", d.cfg.Addr, reg, bit)
}

// Uio returns the character device of interrupt register reg, bit. In
// simulation the path is derived from the arguments alone. Otherwise
// <sysfs>/class/uio/*/name is scanned once and cached.
func (d *Device) Uio(reg int, bit uint) (string, error) {
	name := d.uioName(reg, bit)
	if d.cfg.Simulation {
		return "/dev/" + name, nil
	}
	if d.uioMap == nil {
		if err := d.scanUio(); err != nil {
			return "", err
		}
	}
	node, found := d.uioMap[name]
	if !found {
		return "", hwerr.Io(nil, "%s: no uio device", name)
	}
	return "/dev/" + node, nil
}

func (d *Device) scanUio() error {
	dir := filepath.Join(d.cfg.SysfsRoot, "class", "uio")
	fis, err := ioutil.ReadDir(dir)
	if err != nil {
		return hwerr.Io(err, "read %s", dir)
	}
	m := make(map[string]string, len(fis))
	for _, fi := range fis {
		b, err := ioutil.ReadFile(filepath.Join(dir, fi.Name(), "name"))
		if err != nil {
			continue
		}
		m[strings.TrimSpace(string(b))] = fi.Name()
	}
	d.uioMap = m
	return nil
}
