// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package scd

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/platinasystems/log"

	"github.com/platinasystems/scd/desc"
	"github.com/platinasystems/scd/internal/hwerr"
)

const (
	NewObject   = "new_object"
	InitTrigger = "init_trigger"
)

// DriverConfig returns the new_object lines that describe the declared
// topology to the scd kernel driver, in the order it expects them.
func (d *Device) DriverConfig() []string {
	var lines []string
	add := func(format string, args ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}
	for _, m := range d.smbus.Masters() {
		add("master 0x%x %d %d", m.Addr, m.Id, m.Buses)
	}
	for _, k := range d.tweakKeys {
		t := d.tweaks[k]
		add("smbus_tweak %d 0x%x %d %d %d %d",
			t.Bus, t.Addr, t.T, t.Datr, t.Datw, t.Ed)
	}
	for _, l := range d.leds {
		add("led 0x%x %s", l.addr, l.name)
	}
	for _, r := range d.resets {
		add("reset 0x%x %s %d", r.desc.Addr, r.desc.Name, r.desc.Bit)
	}
	for _, g := range d.gpios {
		add("gpio 0x%x %s %d %d %d", g.desc.Addr, g.desc.Name, g.desc.Bit,
			b2i(g.desc.RO), b2i(g.desc.ActiveLow))
	}
	for _, s := range d.xcvrs {
		if s.addr != nil && s.Kind != desc.Rj45 {
			add("%s 0x%x %d", s.driverKind(), *s.addr, s.Index)
		}
	}
	for _, f := range d.fanGroups {
		add("fan_group 0x%x %d %d %d", f.Addr, f.Platform, f.Slots, f.Count)
	}
	for _, m := range d.mdio.Masters() {
		add("mdio_master 0x%x %d %d %d", m.Addr, m.Id, m.Buses, m.Speed)
	}
	for _, m := range d.mdios {
		add("mdio_device %d %d %d %d %d %d",
			m.Master, m.Bus, m.Id, m.PortAddr, m.DevAddr, m.Clause)
	}
	for _, m := range d.uart.Masters() {
		add("uart 0x%x %d", m.Addr, m.Id)
	}
	return lines
}

func (d *Device) exportDriverConfig() error {
	lines := d.DriverConfig()
	if d.cfg.Simulation {
		log.Print("debug", d, ": ", len(lines), " driver objects (simulated)")
		return nil
	}
	dir := d.SysfsPath()
	for _, line := range lines {
		if err := writeAttr(dir, NewObject, line); err != nil {
			return err
		}
	}
	if d.msiRearm != nil {
		err := writeAttr(dir, "msi_rearm_offset",
			strconv.FormatUint(uint64(*d.msiRearm), 10))
		if err != nil {
			return err
		}
	}
	return writeAttr(dir, InitTrigger, "1")
}

// writeAttr writes one sysfs attribute; each write is a separate driver
// request.
func writeAttr(dir, name, value string) error {
	fn := filepath.Join(dir, name)
	f, err := os.OpenFile(fn, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return hwerr.Io(err, "open %s", fn)
	}
	defer f.Close()
	if _, err = f.WriteString(value + "\n"); err != nil {
		return hwerr.Io(err, "write %s", fn)
	}
	return nil
}

// discoverI2cOffset finds the first Linux i2c adapter number the driver
// created for this device's masters.
func (d *Device) discoverI2cOffset() error {
	if d.cfg.Simulation {
		d.i2cOffset = 0
		return nil
	}
	fis, err := ioutil.ReadDir(d.SysfsPath())
	if err != nil {
		return hwerr.Io(err, "read %s", d.SysfsPath())
	}
	offset := -1
	for _, fi := range fis {
		s := strings.TrimPrefix(fi.Name(), "i2c-")
		if s == fi.Name() {
			continue
		}
		if n, err := strconv.Atoi(s); err == nil && (offset < 0 || n < offset) {
			offset = n
		}
	}
	if offset >= 0 {
		d.i2cOffset = offset
	}
	return nil
}

func (d *Device) I2cOffset() int { return d.i2cOffset }

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
