// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package scd

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinasystems/scd/desc"
	"github.com/platinasystems/scd/internal/mmio"
)

// fakeSysfs makes a PCI device directory with i2c adapters and a
// /proc/modules that lists the scd driver.
func fakeSysfs(t *testing.T) (root, procModules string) {
	t.Helper()
	root, err := ioutil.TempDir("", "sysfs")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(root) })
	dev := filepath.Join(root, "bus", "pci", "devices", testAddr)
	for _, dir := range []string{"i2c-7", "i2c-5", "driver"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dev, dir), 0755))
	}
	procModules = filepath.Join(root, "modules")
	require.NoError(t, ioutil.WriteFile(procModules,
		[]byte("i2c_dev 20480 0 - Live 0x0\nscd 57344 0 - Live 0x0\n"),
		0644))
	return root, procModules
}

func declare(t *testing.T, d *Device) *Slot {
	t.Helper()
	_, err := d.AddSmbusMasterRange(0x8000, 2, 0x80, SmbusBuses)
	require.NoError(t, err)
	_, err = d.AddLed(desc.LedDesc{Name: "status", Addr: 0x6050})
	require.NoError(t, err)
	slots, err := d.AddXcvrSlots(desc.Ports(desc.Qsfp, 1, 1, 1),
		XcvrPlacement{
			Addr:    Uint32(0xa010),
			Bus:     Int(2),
			LedAddr: Uint32(0x6100),
		})
	require.NoError(t, err)
	_, err = d.AddReset(desc.ResetDesc{Name: "switch_chip_reset", Addr: 0x4000})
	require.NoError(t, err)
	_, err = d.AddGpio(desc.GpioDesc{Name: "psu1_present", Addr: 0x5000,
		RO: true, ActiveLow: true})
	require.NoError(t, err)
	require.NoError(t, d.AddFanGroup(0x9000, 3, 4, 4))
	_, err = d.AddMdioMaster(0x9200, 0, 2, MdioSpeed5)
	require.NoError(t, err)
	_, err = d.AddMdio(0, 1, 3, 1, MdioC45)
	require.NoError(t, err)
	_, err = d.AddUartPort(0x6800, 0)
	require.NoError(t, err)
	require.NoError(t, d.SetMsiRearmOffset(0x180))
	r, err := d.CreateInterrupt(0x3000, 0, 0xffffffff)
	require.NoError(t, err)
	_, err = d.CreateWatchdog(WatchdogReg, r, 5)
	require.NoError(t, err)
	return slots[0]
}

var wantObjects = []string{
	"master 0x8000 0 8",
	"master 0x8080 1 8",
	"smbus_tweak 2 0x50 1 0 3 0",
	"led 0x6050 status",
	"led 0x6100 qsfp1",
	"reset 0x4000 switch_chip_reset 0",
	"gpio 0x5000 psu1_present 0 1 1",
	"qsfp 0xa010 1",
	"fan_group 0x9000 3 4 4",
	"mdio_master 0x9200 0 2 1",
	"mdio_device 0 1 0 3 1 1",
	"uart 0x6800 0",
}

func TestDriverConfig(t *testing.T) {
	d, _, _ := newSim(t, true)
	declare(t, d)
	assert.Equal(t, wantObjects, d.DriverConfig())
}

func TestSetupExport(t *testing.T) {
	root, procModules := fakeSysfs(t)
	sim := mmio.NewSim(SimSize)
	d := New(Config{
		Addr:        testAddr,
		SysfsRoot:   root,
		ProcModules: procModules,
		InitIrq:     true,
		Region:      sim,
	})
	slot := declare(t, d)
	require.NoError(t, d.Setup())
	assert.Equal(t, Operational, d.State())

	attr := func(name string) string {
		b, err := ioutil.ReadFile(filepath.Join(d.SysfsPath(), name))
		require.NoError(t, err)
		return string(b)
	}
	assert.Equal(t, strings.Join(wantObjects, "\n")+"\n", attr(NewObject))
	assert.Equal(t, "384\n", attr("msi_rearm_offset"))
	assert.Equal(t, "1\n", attr(InitTrigger))
	for name, want := range map[string]string{
		"interrupt_mask_read_offset0":  "12288\n",
		"interrupt_mask_set_offset0":   "12288\n",
		"interrupt_mask_clear_offset0": "12304\n",
		"interrupt_mask_watchdog0":     "32\n",
		"interrupt_status_offset0":     "12320\n",
		"interrupt_mask0":              "4294967295\n",
	} {
		assert.Equal(t, want, attr(name), name)
	}

	assert.Equal(t, 5, d.I2cOffset())
	assert.Equal(t, "7-0050", slot.I2cAddr(0x50).String())

	sim.Poke(VersionReg, 0x10203)
	v, err := d.Version()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x10203), v)
}

func TestSetupMissingDevice(t *testing.T) {
	root, procModules := fakeSysfs(t)
	d := New(Config{
		Addr:        "0000:05:00.0",
		SysfsRoot:   root,
		ProcModules: procModules,
		Region:      mmio.NewSim(SimSize),
	})
	assert.Error(t, d.Setup())
	assert.NotEqual(t, Operational, d.State())
}

func TestDriverConfigSkipsRj45(t *testing.T) {
	d, _, _ := newSim(t, false)
	_, err := d.AddXcvrSlots(desc.Ports(desc.Rj45, 1, 1, 0),
		XcvrPlacement{Addr: Uint32(0xa000), Bus: Int(2)})
	require.NoError(t, err)
	_, err = d.AddXcvrSlots(desc.Ports(desc.Sfp, 2, 1, 0),
		XcvrPlacement{Addr: Uint32(0xa010)})
	require.NoError(t, err)

	for _, line := range d.DriverConfig() {
		assert.NotContains(t, line, "rj45")
	}
	assert.Contains(t, d.DriverConfig(), "sfp 0xa010 2")
}
